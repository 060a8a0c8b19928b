// Package render maps the glimmer field onto a tcell screen.
// Particle coordinates are pixels; each terminal cell covers CellWidth x CellHeight pixels.
package render

import (
	"math"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/glimmer/animator"
)

// Default cell geometry, a typical monospace cell is about twice as tall as wide
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Surface is the animator's render surface backed by a tcell screen
type Surface struct {
	screen   tcell.Screen
	palette  *Palette
	cellW    float64
	cellH    float64
	lifetime time.Duration

	particles map[uint64]*animator.Particle
	overlay   Overlay
}

// NewSurface binds a surface to screen; non-positive cell sizes fall back to defaults
func NewSurface(screen tcell.Screen, palette *Palette, cellW, cellH float64, lifetime time.Duration) *Surface {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	if lifetime <= 0 {
		lifetime = animator.DefaultConfig().Lifetime
	}
	return &Surface{
		screen:    screen,
		palette:   palette,
		cellW:     cellW,
		cellH:     cellH,
		lifetime:  lifetime,
		particles: make(map[uint64]*animator.Particle),
	}
}

// Bounds implements animator.Surface, the size is read from the screen each call
func (s *Surface) Bounds() (width, height float64) {
	cols, rows := s.screen.Size()
	return float64(cols) * s.cellW, float64(rows) * s.cellH
}

// Attach implements animator.Surface
func (s *Surface) Attach(p *animator.Particle) {
	s.particles[p.ID] = p
}

// Detach implements animator.Surface
func (s *Surface) Detach(p *animator.Particle) {
	delete(s.particles, p.ID)
}

// Len returns the number of attached particles
func (s *Surface) Len() int {
	return len(s.particles)
}

// Overlay returns the text layer for editing
func (s *Surface) Overlay() *Overlay {
	return &s.overlay
}

// PixelToCell converts a pixel coordinate to the containing cell
func (s *Surface) PixelToCell(x, y float64) (col, row int) {
	return floorDiv(x, s.cellW), floorDiv(y, s.cellH)
}

// CellToPixel returns the pixel centre of a cell
func (s *Surface) CellToPixel(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * s.cellW, (float64(row) + 0.5) * s.cellH
}

func floorDiv(v, size float64) int {
	return int(math.Floor(v / size))
}

// Draw paints background, drift motes, glimmers in spawn order and the overlay, then shows the frame
func (s *Surface) Draw(now time.Time) {
	bg := s.palette.Background()
	s.screen.SetStyle(bg)
	s.screen.Clear()

	cols, rows := s.screen.Size()

	ids := make([]uint64, 0, len(s.particles))
	for id := range s.particles {
		ids = append(ids, id)
	}
	// Drift motes form the back layer, glimmers draw over them
	sort.Slice(ids, func(i, j int) bool {
		ki, kj := s.particles[ids[i]].Kind, s.particles[ids[j]].Kind
		if ki != kj {
			return ki == animator.KindDrift
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		p := s.particles[id]
		col, row := s.PixelToCell(p.X, p.Y)
		if col < 0 || col >= cols || row < 0 || row >= rows {
			continue
		}

		life := p.Life(now)
		if p.Lifetime <= 0 {
			life = float64(p.Age(now)) / float64(s.lifetime)
		}

		if p.Kind == animator.KindDrift {
			s.screen.SetContent(col, row, DriftGlyph, nil, s.palette.DriftStyle(life))
			continue
		}
		s.screen.SetContent(col, row, Glyph(p.Size), nil, s.palette.Style(p.Color, p.Bright, life))
	}

	s.overlay.draw(s.screen, bg, cols, rows)
	s.screen.Show()
}
