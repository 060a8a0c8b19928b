package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/glimmer/animator"
)

// Default hex values per particle colour class
var defaultHex = [animator.ColorCount]string{
	animator.ColorWarmWhite: "#fff4e0",
	animator.ColorCoolWhite: "#eaf4ff",
	animator.ColorSoftGold:  "#f6d98b",
	animator.ColorPaleBlue:  "#a9d3ff",
	animator.ColorLavender:  "#cdb8f2",
	animator.ColorMint:      "#b8f2d8",
	animator.ColorPearl:     "#f2eee8",
}

// DefaultBackground is the night-sky fill behind the field
const DefaultBackground = "#0b0d1a"

// Glyphs per size class, smallest first
var sizeGlyphs = [...]rune{
	animator.SizeTiny:   '·',
	animator.SizeSmall:  '∙',
	animator.SizeMedium: '•',
	animator.SizeLarge:  '✦',
}

// DriftGlyph is drawn for every background drift mote
const DriftGlyph = '.'

const (
	brightLift = 0.45 // Luv blend toward white for bright particles
	fadeStart  = 2.0 / 3.0
	driftDim   = 0.55 // Luv blend toward the background for drift motes
	driftRise  = 0.2  // drift motes fade in over this share of their life
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Palette resolves particle classes to terminal styles
type Palette struct {
	base       [animator.ColorCount]colorful.Color
	background colorful.Color
}

// NewPalette parses hex overrides keyed by colour name on top of the defaults
func NewPalette(background string, overrides map[string]string) (*Palette, error) {
	p := &Palette{}

	for i, hex := range defaultHex {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", animator.Color(i), err)
		}
		p.base[i] = c
	}

	for name, hex := range overrides {
		idx := colorIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("palette: unknown colour %q", name)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", name, err)
		}
		p.base[idx] = c
	}

	if background == "" {
		background = DefaultBackground
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		return nil, fmt.Errorf("palette background: %w", err)
	}
	p.background = bg

	return p, nil
}

func colorIndex(name string) int {
	for i := animator.Color(0); i < animator.ColorCount; i++ {
		if i.String() == name {
			return int(i)
		}
	}
	return -1
}

// Background returns the fill style for empty cells
func (p *Palette) Background() tcell.Style {
	return tcell.StyleDefault.Background(toTcell(p.background))
}

// Color returns the particle colour at life fraction t in [0, 1]
// Bright particles are lifted toward white; the last third of life fades into the background
func (p *Palette) Color(c animator.Color, bright bool, t float64) colorful.Color {
	col := p.base[0]
	if c < animator.ColorCount {
		col = p.base[c]
	}
	if bright {
		col = col.BlendLuv(white, brightLift)
	}
	if t > fadeStart {
		fade := (t - fadeStart) / (1 - fadeStart)
		if fade > 1 {
			fade = 1
		}
		col = col.BlendLuv(p.background, fade)
	}
	return col.Clamped()
}

// DriftColor returns a drift mote's colour at life fraction t
// Motes fade in, hold, then fade out over the last third
func (p *Palette) DriftColor(t float64) colorful.Color {
	col := p.base[animator.ColorPearl].BlendLuv(p.background, driftDim)

	hidden := 0.0
	switch {
	case t < driftRise:
		hidden = 1 - max(t, 0)/driftRise
	case t > fadeStart:
		hidden = min((t-fadeStart)/(1-fadeStart), 1)
	}
	if hidden > 0 {
		col = col.BlendLuv(p.background, hidden)
	}
	return col.Clamped()
}

// DriftStyle returns the cell style for a drift mote
func (p *Palette) DriftStyle(t float64) tcell.Style {
	return p.Background().Foreground(toTcell(p.DriftColor(t)))
}

// Style returns the full cell style for a particle
func (p *Palette) Style(c animator.Color, bright bool, t float64) tcell.Style {
	return p.Background().
		Foreground(toTcell(p.Color(c, bright, t))).
		Bold(bright)
}

// Glyph returns the rune drawn for a size class
func Glyph(s animator.Size) rune {
	if int(s) < len(sizeGlyphs) {
		return sizeGlyphs[s]
	}
	return sizeGlyphs[0]
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
