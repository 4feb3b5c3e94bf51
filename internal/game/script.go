package game

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/rs/zerolog/log"

	"github.com/gicheruj/birthday-present/internal/content"
)

// AnswerFunc decides whether a normalised riddle answer is accepted.
type AnswerFunc func(answer string) bool

// Script is an experience prepared for play: content plus the compiled
// riddle predicate. It is immutable and shared by every session.
type Script struct {
	exp    *content.Experience
	accept AnswerFunc
}

// NewScript validates exp and compiles its riddle predicate.
func NewScript(exp *content.Experience) (*Script, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	accept, err := CompileAnswer(exp.Riddle.Accept)
	if err != nil {
		return nil, err
	}
	return &Script{exp: exp, accept: accept}, nil
}

// Content exposes the underlying experience.
func (s *Script) Content() *content.Experience { return s.exp }

// CompileAnswer compiles a CEL boolean expression over the string
// variable `answer`.
func CompileAnswer(expr string) (AnswerFunc, error) {
	env, err := cel.NewEnv(cel.Variable("answer", cel.StringType))
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("riddle predicate: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("riddle predicate must be boolean, got %s", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("riddle predicate: %w", err)
	}
	return func(answer string) bool {
		out, _, err := prg.Eval(map[string]any{"answer": answer})
		if err != nil {
			log.Warn().Err(err).Str("expr", expr).Msg("riddle predicate failed")
			return false
		}
		ok, _ := out.Value().(bool)
		return ok
	}, nil
}
