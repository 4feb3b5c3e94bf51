package game

import (
	"image"
	"strings"

	"github.com/gicheruj/birthday-present/internal/content"
)

const (
	scratchHeight    = 200
	scratchRadius    = 25
	scratchThreshold = 0.60
	// canvas spans 90% of the viewport width
	scratchWidthRatio = 0.9

	scratchGridCols = 48
	scratchGridRows = 8
)

// Point is a pointer position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scratch is the mystery page: an opaque overlay the user scratches away.
// The overlay alpha channel is the source of truth; a pixel counts as
// revealed once its alpha is zero.
type Scratch struct {
	text      content.Mystery
	overlay   *image.Alpha
	radius    float64
	fraction  float64
	completed bool
}

// ScratchView is the client view of the mystery page.
type ScratchView struct {
	Title     string   `json:"title"`
	Message   string   `json:"message,omitempty"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Radius    int      `json:"radius"`
	Fraction  float64  `json:"fraction"`
	Completed bool     `json:"completed"`
	Grid      []string `json:"grid"`
}

// NewScratch creates a fully opaque canvas of the given size.
func NewScratch(text content.Mystery, width, height int) *Scratch {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = scratchHeight
	}
	overlay := image.NewAlpha(image.Rect(0, 0, width, height))
	for i := range overlay.Pix {
		overlay.Pix[i] = 0xff
	}
	return &Scratch{text: text, overlay: overlay, radius: scratchRadius}
}

func scratchWidth(viewport int) int {
	return int(float64(viewport) * scratchWidthRatio)
}

func (s *Scratch) Kind() Kind { return KindMystery }

func (s *Scratch) CanContinue() bool { return s.completed }

func (s *Scratch) Completed() bool { return s.completed }

// Fraction is the revealed share measured at the last release.
func (s *Scratch) Fraction() float64 { return s.fraction }

// Stroke clears a disk around every point. Clearing an already clear
// region changes nothing.
func (s *Scratch) Stroke(points []Point) {
	for _, p := range points {
		s.clearDisk(p.X, p.Y)
	}
}

// Release ends a drag: the overlay is sampled and the page completes once
// more than 60% of it is clear. Completion is permanent.
func (s *Scratch) Release() float64 {
	cleared := 0
	for _, a := range s.overlay.Pix {
		if a == 0 {
			cleared++
		}
	}
	s.fraction = float64(cleared) / float64(len(s.overlay.Pix))
	if s.fraction > scratchThreshold {
		s.completed = true
	}
	return s.fraction
}

func (s *Scratch) clearDisk(cx, cy float64) {
	b := s.overlay.Bounds()
	r2 := s.radius * s.radius
	x0, x1 := clampInt(int(cx-s.radius), b.Min.X, b.Max.X-1), clampInt(int(cx+s.radius), b.Min.X, b.Max.X-1)
	y0, y1 := clampInt(int(cy-s.radius), b.Min.Y, b.Max.Y-1), clampInt(int(cy+s.radius), b.Min.Y, b.Max.Y-1)
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				s.overlay.Pix[s.overlay.PixOffset(x, y)] = 0
			}
		}
	}
}

func (s *Scratch) View() any {
	b := s.overlay.Bounds()
	v := ScratchView{
		Title:     s.text.Title,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Radius:    int(s.radius),
		Fraction:  s.fraction,
		Completed: s.completed,
		Grid:      s.grid(scratchGridCols, scratchGridRows),
	}
	if s.completed {
		v.Message = s.text.Message
	}
	return v
}

// grid downsamples the overlay: '#' still covered, '.' revealed (sampled
// at each cell centre).
func (s *Scratch) grid(cols, rows int) []string {
	b := s.overlay.Bounds()
	out := make([]string, rows)
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		sb.Reset()
		y := (2*r + 1) * b.Dy() / (2 * rows)
		for c := 0; c < cols; c++ {
			x := (2*c + 1) * b.Dx() / (2 * cols)
			if s.overlay.AlphaAt(x, y).A == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		out[r] = sb.String()
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
