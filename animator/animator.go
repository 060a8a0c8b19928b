// Package animator drives the ambient glimmer field.
//
// Particles are spawned by pointer movement, clicks, a low-rate ambient timer,
// a startup burst and an occasional constellation, and each removes itself
// after a fixed lifetime. Only the ambient timer respects the density cap;
// bursts may run over it.
//
// A separate drift layer adds dim background motes in small batches, each with
// its own lifetime. Drift motes never count toward the cap.
//
// An Animator is not safe for concurrent use. Every method and every callback
// it schedules must run on the scheduler's goroutine.
package animator

import (
	"errors"
	"log"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/glimmer/clock"
	"github.com/lixenwraith/glimmer/status"
	"github.com/lixenwraith/glimmer/vmath"
)

var (
	// ErrNoSurface is returned by Start when no render surface was provided
	ErrNoSurface = errors.New("animator: render surface not found")
	// ErrNoScheduler is returned by Start when no scheduler was provided
	ErrNoScheduler = errors.New("animator: scheduler not provided")
	// ErrAlreadyRunning is returned by a second Start
	ErrAlreadyRunning = errors.New("animator: already running")
)

// Surface is the container particles are attached to
type Surface interface {
	// Bounds returns the viewport size in pixels, read at every spawn
	Bounds() (width, height float64)
	Attach(p *Particle)
	Detach(p *Particle)
}

// Animator owns the particle registry and every timer it arms
type Animator struct {
	surface Surface
	sched   clock.Scheduler
	rng     vmath.Source
	cfg     Config

	running bool
	nextID  uint64
	live    map[uint64]*Particle
	drift   map[uint64]*Particle

	// Outstanding one-shot and interval timers, cancelled on Stop
	timers   map[uint64]clock.Timer
	timerSeq uint64
	frame    clock.Timer

	// Pointer state
	pointerX, pointerY float64
	seenX, seenY       float64
	lastSpawn          time.Time
	hasSpawned         bool

	// Cached metric pointers
	statSpawned *atomic.Int64
	statExpired *atomic.Int64
	statSkipped *atomic.Int64
	statLive    *atomic.Int64
	statConst   *atomic.Int64
	statDrift   *atomic.Int64
}

// New creates an animator; a nil rng seeds a FastRand from the clock and a nil cfg uses DefaultConfig
func New(surface Surface, sched clock.Scheduler, rng vmath.Source, cfg *Config) *Animator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if rng == nil {
		rng = vmath.NewFastRand(uint64(time.Now().UnixNano()))
	}

	a := &Animator{
		surface: surface,
		sched:   sched,
		rng:     rng,
		cfg:     *cfg,
		live:    make(map[uint64]*Particle),
		drift:   make(map[uint64]*Particle),
		timers:  make(map[uint64]clock.Timer),
	}
	a.AttachStatus(status.NewRegistry())
	return a
}

// AttachStatus redirects counters to reg
func (a *Animator) AttachStatus(reg *status.Registry) {
	if reg == nil {
		return
	}
	a.statSpawned = reg.Ints.Get(status.Spawned)
	a.statExpired = reg.Ints.Get(status.Expired)
	a.statSkipped = reg.Ints.Get(status.AmbientSkipped)
	a.statLive = reg.Ints.Get(status.Live)
	a.statConst = reg.Ints.Get(status.Constellations)
	a.statDrift = reg.Ints.Get(status.DriftLive)
	a.statLive.Store(int64(len(a.live)))
	a.statDrift.Store(int64(len(a.drift)))
}

// Config returns a copy of the active tuning
func (a *Animator) Config() Config {
	return a.cfg
}

// Start arms the frame tick, the ambient and constellation intervals and the startup burst
// With no surface nothing is scheduled and nothing is attached
func (a *Animator) Start() error {
	if a.surface == nil {
		log.Printf("animator: %v, effects disabled", ErrNoSurface)
		return ErrNoSurface
	}
	if a.sched == nil {
		log.Printf("animator: %v, effects disabled", ErrNoScheduler)
		return ErrNoScheduler
	}
	if a.running {
		return ErrAlreadyRunning
	}
	a.running = true

	a.frame = a.sched.NextFrame(a.tick)
	a.every(a.cfg.AmbientInterval, a.ambient)
	a.every(a.cfg.ConstellationInterval, a.constellation)
	a.every(a.cfg.DriftInterval, a.driftBatch)
	a.initialBurst()

	log.Printf("animator: started (cap=%d, lifetime=%v)", a.cfg.AmbientCap, a.cfg.Lifetime)
	return nil
}

// Stop cancels every pending timer, detaches the frame callback and removes all live particles
// Safe to call repeatedly
func (a *Animator) Stop() {
	wasRunning := a.running
	a.running = false

	if a.frame != nil {
		a.frame.Stop()
		a.frame = nil
	}

	for id, t := range a.timers {
		t.Stop()
		delete(a.timers, id)
	}

	for _, id := range sortedIDs(a.live) {
		a.Remove(a.live[id])
	}
	for _, id := range sortedIDs(a.drift) {
		a.Remove(a.drift[id])
	}

	if wasRunning {
		log.Printf("animator: stopped")
	}
}

// Running reports whether Start succeeded and Stop has not been called
func (a *Animator) Running() bool {
	return a.running
}

// Live returns the number of glimmers on the surface, the count the density cap applies to
func (a *Animator) Live() int {
	return len(a.live)
}

// Drifting returns the number of background drift motes on the surface
func (a *Animator) Drifting() int {
	return len(a.drift)
}

// PendingTimers returns the number of outstanding one-shot and interval timers
func (a *Animator) PendingTimers() int {
	return len(a.timers)
}

// Particles returns a snapshot of live glimmers ordered by ID
func (a *Animator) Particles() []Particle {
	return snapshot(a.live)
}

// DriftParticles returns a snapshot of drift motes ordered by ID
func (a *Animator) DriftParticles() []Particle {
	return snapshot(a.drift)
}

func snapshot(m map[uint64]*Particle) []Particle {
	out := make([]Particle, 0, len(m))
	for _, id := range sortedIDs(m) {
		out = append(out, *m[id])
	}
	return out
}

func sortedIDs(m map[uint64]*Particle) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Spawn creates one particle near (x, y) and schedules its removal
// Draw order is size, color, bright (skipped when forced), x jitter, y jitter
func (a *Animator) Spawn(x, y float64, forceBright bool) *Particle {
	if a.surface == nil || a.sched == nil {
		return nil
	}

	size := sizeTable[vmath.Pick(a.rng, len(sizeTable))]
	color := Color(vmath.Pick(a.rng, int(ColorCount)))
	bright := forceBright || a.rng.Float64() < a.cfg.BrightChance
	dx := vmath.Jitter(a.rng, a.cfg.JitterSpan)
	dy := vmath.Jitter(a.rng, a.cfg.JitterSpan)

	a.nextID++
	p := &Particle{
		ID:       a.nextID,
		X:        x + dx,
		Y:        y + dy,
		OriginX:  x,
		OriginY:  y,
		Size:     size,
		Color:    color,
		Bright:   bright,
		Born:     a.sched.Now(),
		Lifetime: a.cfg.Lifetime,
		attached: true,
	}

	a.surface.Attach(p)
	a.live[p.ID] = p
	a.statSpawned.Add(1)
	a.statLive.Store(int64(len(a.live)))

	a.after(a.cfg.Lifetime, func() {
		if a.Remove(p) {
			a.statExpired.Add(1)
		}
	})
	return p
}

// Remove detaches p and drops it from the registry
// Returns false when p was already removed
func (a *Animator) Remove(p *Particle) bool {
	if p == nil || !p.attached {
		return false
	}
	p.attached = false
	a.surface.Detach(p)
	if p.Kind == KindDrift {
		delete(a.drift, p.ID)
		a.statDrift.Store(int64(len(a.drift)))
		return true
	}
	delete(a.live, p.ID)
	a.statLive.Store(int64(len(a.live)))
	return true
}

// PointerMove records the pointer position, spawning is left to the frame tick
func (a *Animator) PointerMove(x, y float64) {
	a.pointerX = x
	a.pointerY = y
}

// Pointer returns the last recorded pointer position
func (a *Animator) Pointer() (x, y float64) {
	return a.pointerX, a.pointerY
}

// tick runs once per frame and re-arms itself
func (a *Animator) tick() {
	if !a.running {
		return
	}
	a.frame = a.sched.NextFrame(a.tick)

	if a.pointerX == a.seenX && a.pointerY == a.seenY {
		return
	}

	now := a.sched.Now()
	if !a.hasSpawned || now.Sub(a.lastSpawn) >= a.cfg.MoveThrottle {
		a.Spawn(a.pointerX, a.pointerY, false)
		if a.rng.Float64() < a.cfg.EchoChance {
			a.after(a.cfg.EchoDelay, a.echo)
		}
		a.lastSpawn = now
		a.hasSpawned = true
	}
	a.seenX, a.seenY = a.pointerX, a.pointerY
}

// echo trails a pointer spawn at the pointer position current when it fires
func (a *Animator) echo() {
	x := a.pointerX + vmath.Jitter(a.rng, a.cfg.EchoJitter)
	y := a.pointerY + vmath.Jitter(a.rng, a.cfg.EchoJitter)
	a.Spawn(x, y, false)
}

// ambient adds one dim particle anywhere in the viewport while under the cap
func (a *Animator) ambient() {
	if len(a.live) >= a.cfg.AmbientCap {
		a.statSkipped.Add(1)
		return
	}
	x, y := a.randomPoint()
	a.Spawn(x, y, false)
}

func (a *Animator) randomPoint() (x, y float64) {
	w, h := a.surface.Bounds()
	x = a.rng.Float64() * w
	y = a.rng.Float64() * h
	return x, y
}

// initialBurst fills the screen with bright particles one stagger apart
func (a *Animator) initialBurst() {
	a.stagger(a.cfg.InitialCount, a.cfg.InitialStagger, func(int) {
		x, y := a.randomPoint()
		a.Spawn(x, y, true)
	})
}

// Click rings the click point with a staggered burst
func (a *Animator) Click(x, y float64) {
	if !a.running {
		return
	}
	span := a.cfg.ClickRadiusMax - a.cfg.ClickRadiusMin
	a.stagger(a.cfg.ClickCount, a.cfg.ClickStagger, func(int) {
		angle := a.rng.Float64() * 2 * math.Pi
		dist := a.rng.Float64()*span + a.cfg.ClickRadiusMin
		dx, dy := vmath.Polar(angle, dist)
		a.Spawn(x+dx, y+dy, a.rng.Float64() < a.cfg.ClickBrightChance)
	})
}

// constellation occasionally draws a tight bright cluster away from the edges
func (a *Animator) constellation() {
	if a.rng.Float64() >= a.cfg.ConstellationChance {
		return
	}

	w, h := a.surface.Bounds()
	cx := a.marginDraw(w)
	cy := a.marginDraw(h)

	n := a.cfg.ConstellationMin + vmath.Pick(a.rng, a.cfg.ConstellationMax-a.cfg.ConstellationMin+1)
	a.statConst.Add(1)

	a.stagger(n, a.cfg.ConstellationStagger, func(int) {
		x := cx + vmath.Jitter(a.rng, a.cfg.ConstellationSpread)
		y := cy + vmath.Jitter(a.rng, a.cfg.ConstellationSpread)
		a.Spawn(x, y, true)
	})
}

// marginDraw picks a coordinate at least ConstellationMargin from both edges
// Extents too small to hold the margin collapse to the centre
func (a *Animator) marginDraw(extent float64) float64 {
	m := a.cfg.ConstellationMargin
	usable := extent - 2*m
	if usable < 0 {
		return extent / 2
	}
	return a.rng.Float64()*usable + m
}

// driftBatch adds DriftCount motes at uniform viewport positions
func (a *Animator) driftBatch() {
	for i := 0; i < a.cfg.DriftCount; i++ {
		a.spawnDrift()
	}
}

// spawnDrift places one mote; draw order is x, y, lifetime
func (a *Animator) spawnDrift() *Particle {
	x, y := a.randomPoint()
	lifetime := a.cfg.DriftLifetimeMin + time.Duration(a.rng.Float64()*float64(a.cfg.DriftLifetimeSpan))

	a.nextID++
	p := &Particle{
		ID:       a.nextID,
		Kind:     KindDrift,
		X:        x,
		Y:        y,
		OriginX:  x,
		OriginY:  y,
		Size:     SizeTiny,
		Color:    ColorPearl,
		Born:     a.sched.Now(),
		Lifetime: lifetime,
		attached: true,
	}

	a.surface.Attach(p)
	a.drift[p.ID] = p
	a.statDrift.Store(int64(len(a.drift)))

	a.after(lifetime, func() { a.Remove(p) })
	return p
}

// stagger runs fn(i) for i in [0, n) at i*step from now
func (a *Animator) stagger(n int, step time.Duration, fn func(i int)) {
	for i := 0; i < n; i++ {
		a.after(time.Duration(i)*step, func() { fn(i) })
	}
}

// after arms a tracked one-shot timer
func (a *Animator) after(d time.Duration, fn func()) {
	a.timerSeq++
	id := a.timerSeq
	a.timers[id] = a.sched.After(d, func() {
		delete(a.timers, id)
		fn()
	})
}

// every arms a tracked interval
func (a *Animator) every(d time.Duration, fn func()) {
	a.timerSeq++
	id := a.timerSeq
	a.timers[id] = a.sched.Every(d, fn)
}
