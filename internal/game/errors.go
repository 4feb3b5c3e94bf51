package game

import "errors"

var (
	ErrSessionClosed     = errors.New("session closed")
	ErrWrongPage         = errors.New("operation not available on this page")
	ErrContinueLocked    = errors.New("continue is locked until the page is completed")
	ErrNoPrevious        = errors.New("this page has no previous control")
	ErrUnknownCard       = errors.New("unknown card")
	ErrAlreadyFound      = errors.New("hidden item already found")
	ErrInvalidScene      = errors.New("scene size must be positive")
	ErrNoCollection      = errors.New("no collection is open")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrStrokeTooLong     = errors.New("too many points in one stroke")
)
