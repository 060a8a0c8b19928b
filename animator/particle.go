package animator

import "time"

// Size is the visual size class of a particle
type Size uint8

const (
	SizeTiny Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
)

// sizeTable is sampled uniformly, duplicates weight the draw toward small sizes
var sizeTable = [...]Size{SizeTiny, SizeTiny, SizeSmall, SizeSmall, SizeMedium, SizeLarge}

func (s Size) String() string {
	switch s {
	case SizeTiny:
		return "tiny"
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	}
	return "unknown"
}

// Color is the palette class of a particle
type Color uint8

const (
	ColorWarmWhite Color = iota
	ColorCoolWhite
	ColorSoftGold
	ColorPaleBlue
	ColorLavender
	ColorMint
	ColorPearl

	ColorCount
)

var colorNames = [ColorCount]string{
	"warm-white", "cool-white", "soft-gold", "pale-blue", "lavender", "mint", "pearl",
}

func (c Color) String() string {
	if c < ColorCount {
		return colorNames[c]
	}
	return "unknown"
}

// Kind separates the interactive glimmer layer from the background drift
type Kind uint8

const (
	KindGlimmer Kind = iota
	KindDrift
)

func (k Kind) String() string {
	if k == KindDrift {
		return "drift"
	}
	return "glimmer"
}

// Particle is one glimmer or drift mote on the surface
// X, Y include jitter; OriginX, OriginY is the requested spawn point
type Particle struct {
	ID       uint64
	Kind     Kind
	X, Y     float64
	OriginX  float64
	OriginY  float64
	Size     Size
	Color    Color
	Bright   bool
	Born     time.Time
	Lifetime time.Duration
	attached bool
}

// Attached reports whether the particle is still on the surface
func (p *Particle) Attached() bool {
	return p.attached
}

// Age returns the time since spawn
func (p *Particle) Age(now time.Time) time.Duration {
	return now.Sub(p.Born)
}

// Life returns the fraction of the lifetime elapsed at now, 0 when the lifetime is unknown
func (p *Particle) Life(now time.Time) float64 {
	if p.Lifetime <= 0 {
		return 0
	}
	return float64(p.Age(now)) / float64(p.Lifetime)
}
