package audio

import (
	"fmt"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// ChimeGenerator produces two bell notes, the second a fourth above, each with an exponential decay
type ChimeGenerator struct {
	sr    beep.SampleRate
	pos   int
	split int
}

// NewChimeGenerator creates a chime generator, the second note starts after 120ms
func NewChimeGenerator(sr beep.SampleRate) *ChimeGenerator {
	return &ChimeGenerator{
		sr:    sr,
		split: sr.N(chimeDuration) * 120 / 450,
	}
}

func (g *ChimeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		sample := bell(g.pos, g.sr, 987.77)
		if g.pos >= g.split {
			sample += bell(g.pos-g.split, g.sr, 1318.51)
		}
		sample *= 0.25

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChimeGenerator) Err() error {
	return nil
}

// bell is a sine with a soft octave partial and a fast attack / slow decay envelope
func bell(pos int, sr beep.SampleRate, freq float64) float64 {
	t := float64(pos) / float64(sr)
	attack := math.Min(t/0.005, 1)
	env := attack * math.Exp(-t*7)
	return env * (math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(4*math.Pi*freq*t))
}

// NewPad mixes sustained sine tones into a quiet endless chord
func NewPad(sr beep.SampleRate) (beep.Streamer, error) {
	tones := make([]beep.Streamer, 0, len(padFreqs))
	for _, f := range padFreqs {
		tone, err := generators.SineTone(sr, f)
		if err != nil {
			return nil, fmt.Errorf("audio: pad tone %.2fHz: %w", f, err)
		}
		tones = append(tones, tone)
	}

	return &effects.Gain{
		Streamer: &Tremolo{Streamer: beep.Mix(tones...), sr: sr, rate: 0.2, depth: 0.35},
		Gain:     padGain,
	}, nil
}

// Tremolo slowly modulates amplitude so the pad breathes
type Tremolo struct {
	Streamer beep.Streamer
	sr       beep.SampleRate
	rate     float64 // Hz
	depth    float64 // 0-1
	pos      int
}

func (t *Tremolo) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = t.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		phase := float64(t.pos) / float64(t.sr) * t.rate
		gain := 1 - t.depth*0.5*(1+math.Sin(2*math.Pi*phase))
		samples[i][0] *= gain
		samples[i][1] *= gain
		t.pos++
	}
	return n, ok
}

func (t *Tremolo) Err() error {
	return t.Streamer.Err()
}
