package animator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/glimmer/clock"
	"github.com/lixenwraith/glimmer/status"
	"github.com/lixenwraith/glimmer/vmath"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// recordingSurface keeps the attached set and a log of every attach
type recordingSurface struct {
	w, h     float64
	attached map[uint64]*Particle
	log      []Particle
	detaches int
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{w: w, h: h, attached: make(map[uint64]*Particle)}
}

func (s *recordingSurface) Bounds() (float64, float64) { return s.w, s.h }

func (s *recordingSurface) Attach(p *Particle) {
	s.attached[p.ID] = p
	s.log = append(s.log, *p)
}

func (s *recordingSurface) Detach(p *Particle) {
	delete(s.attached, p.ID)
	s.detaches++
}

// quietConfig disables every automatic source so tests can isolate one behaviour
func quietConfig() *Config {
	cfg := DefaultConfig()
	cfg.InitialCount = 0
	cfg.AmbientInterval = time.Hour
	cfg.ConstellationInterval = time.Hour
	cfg.EchoChance = 0
	cfg.DriftInterval = time.Hour
	return cfg
}

func newTestAnimator(t *testing.T, cfg *Config) (*Animator, *recordingSurface, *clock.Manual) {
	t.Helper()
	surface := newRecordingSurface(1000, 800)
	sched := clock.NewManual(epoch)
	a := New(surface, sched, vmath.NewFastRand(12345), cfg)
	return a, surface, sched
}

func TestSpawn_RemovedAfterLifetime(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())

	p := a.Spawn(100, 100, false)
	if p == nil {
		t.Fatal("Spawn returned nil")
	}

	sched.Advance(2999 * time.Millisecond)
	if !p.Attached() || a.Live() != 1 {
		t.Fatal("Particle removed before its lifetime")
	}

	sched.Advance(1 * time.Millisecond)
	if p.Attached() {
		t.Error("Particle still attached after lifetime")
	}
	if _, ok := surface.attached[p.ID]; ok {
		t.Error("Particle still on surface after lifetime")
	}
	if a.Live() != 0 {
		t.Errorf("Expected empty registry, got %d", a.Live())
	}
}

func TestSpawn_JitterAndOrigin(t *testing.T) {
	a, _, _ := newTestAnimator(t, quietConfig())

	for i := 0; i < 200; i++ {
		p := a.Spawn(300, 200, false)
		if p.OriginX != 300 || p.OriginY != 200 {
			t.Fatalf("Origin not preserved: (%v, %v)", p.OriginX, p.OriginY)
		}
		if math.Abs(p.X-300) > 7.5 || math.Abs(p.Y-200) > 7.5 {
			t.Fatalf("Jitter out of range: (%v, %v)", p.X, p.Y)
		}
	}
}

func TestSpawn_ForceBright(t *testing.T) {
	a, _, _ := newTestAnimator(t, quietConfig())

	for i := 0; i < 50; i++ {
		if p := a.Spawn(0, 0, true); !p.Bright {
			t.Fatal("Forced particle is not bright")
		}
	}
}

func TestRemove_DoubleRemoveIsNoop(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())

	p := a.Spawn(10, 10, false)
	if !a.Remove(p) {
		t.Fatal("First Remove should succeed")
	}
	if a.Remove(p) {
		t.Error("Second Remove should report false")
	}
	if a.Remove(nil) {
		t.Error("Remove(nil) should report false")
	}

	// The lifetime timer must not detach again
	sched.Advance(5 * time.Second)
	if surface.detaches != 1 {
		t.Errorf("Expected exactly 1 detach, got %d", surface.detaches)
	}
}

func TestSpawn_DeterministicWithSeed(t *testing.T) {
	type triple struct {
		size   Size
		color  Color
		bright bool
	}

	run := func() []triple {
		a := New(newRecordingSurface(800, 600), clock.NewManual(epoch), vmath.NewFastRand(99), quietConfig())
		var out []triple
		for i := 0; i < 50; i++ {
			p := a.Spawn(float64(i), float64(i), i%7 == 0)
			out = append(out, triple{p.Size, p.Color, p.Bright})
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Spawn %d differs between seeded runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// scriptedSource replays fixed draws
type scriptedSource struct {
	draws []float64
	pos   int
}

func (s *scriptedSource) Float64() float64 {
	v := s.draws[s.pos%len(s.draws)]
	s.pos++
	return v
}

func TestSpawn_DrawMapping(t *testing.T) {
	tests := []struct {
		name   string
		draws  []float64
		force  bool
		size   Size
		color  Color
		bright bool
		used   int
	}{
		{"first entries", []float64{0, 0, 0.5, 0.5, 0.5}, false, SizeTiny, ColorWarmWhite, false, 5},
		{"last entries", []float64{0.99, 0.99, 0.1, 0.5, 0.5}, false, SizeLarge, ColorPearl, true, 5},
		{"medium lavender", []float64{0.7, 0.6, 0.9, 0.5, 0.5}, false, SizeMedium, ColorLavender, false, 5},
		{"forced skips bright draw", []float64{0.4, 0.2, 0.5, 0.5}, true, SizeSmall, ColorCoolWhite, true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{draws: tt.draws}
			a := New(newRecordingSurface(100, 100), clock.NewManual(epoch), src, quietConfig())

			p := a.Spawn(50, 50, tt.force)
			if p.Size != tt.size || p.Color != tt.color || p.Bright != tt.bright {
				t.Errorf("Got (%v, %v, %v), want (%v, %v, %v)", p.Size, p.Color, p.Bright, tt.size, tt.color, tt.bright)
			}
			if src.pos != tt.used {
				t.Errorf("Expected %d draws, used %d", tt.used, src.pos)
			}
		})
	}
}

func TestStart_MissingSurface(t *testing.T) {
	sched := clock.NewManual(epoch)
	a := New(nil, sched, vmath.NewFastRand(1), nil)

	if err := a.Start(); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("Expected ErrNoSurface, got %v", err)
	}
	if sched.Pending() != 0 {
		t.Errorf("Expected zero scheduled timers, got %d", sched.Pending())
	}
	if a.Running() {
		t.Error("Animator should not be running")
	}

	a.Click(10, 10)
	sched.Step(10 * time.Second)
	if a.Live() != 0 {
		t.Errorf("Expected no particles, got %d", a.Live())
	}
}

func TestStart_Twice(t *testing.T) {
	a, _, _ := newTestAnimator(t, quietConfig())

	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := a.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}
}

func TestInitialBurst(t *testing.T) {
	cfg := quietConfig()
	cfg.InitialCount = 100
	a, surface, sched := newTestAnimator(t, cfg)

	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	sched.Advance(20 * time.Second)

	if len(surface.log) != 100 {
		t.Fatalf("Expected 100 spawns, got %d", len(surface.log))
	}
	for i, p := range surface.log {
		if !p.Bright {
			t.Errorf("Initial particle %d is not bright", i)
		}
		if got, want := p.Born.Sub(epoch), time.Duration(i)*100*time.Millisecond; got != want {
			t.Errorf("Particle %d born at %v, want %v", i, got, want)
		}
		if p.OriginX < 0 || p.OriginX >= 1000 || p.OriginY < 0 || p.OriginY >= 800 {
			t.Errorf("Particle %d origin outside viewport: (%v, %v)", i, p.OriginX, p.OriginY)
		}
	}
}

func TestClickBurst(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	sched.Advance(1 * time.Second)
	a.Click(500, 400)
	clickAt := sched.Now()
	sched.Advance(2 * time.Second)

	if len(surface.log) != 12 {
		t.Fatalf("Expected 12 spawns, got %d", len(surface.log))
	}

	bright := 0
	for i, p := range surface.log {
		r := math.Hypot(p.OriginX-500, p.OriginY-400)
		if r < 10 || r >= 50 {
			t.Errorf("Spawn %d radius %v outside [10, 50)", i, r)
		}
		if got, want := p.Born.Sub(clickAt), time.Duration(i)*60*time.Millisecond; got != want {
			t.Errorf("Spawn %d at %v, want %v", i, got, want)
		}
		if p.Bright {
			bright++
		}
	}
	t.Logf("%d/12 bright", bright)
}

func TestClick_IgnoredWhenStopped(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())

	a.Click(100, 100)
	sched.Advance(time.Second)

	if len(surface.log) != 0 {
		t.Errorf("Expected no spawns before Start, got %d", len(surface.log))
	}
}

func TestPointer_ThrottleTwoMoves30ms(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	a.PointerMove(100, 100)
	if len(surface.log) != 0 {
		t.Fatal("PointerMove must not spawn by itself")
	}
	sched.Frame()

	sched.Advance(30 * time.Millisecond)
	a.PointerMove(110, 100)
	sched.Frame()

	// Quiet frames afterwards must not pick up the throttled move
	for i := 0; i < 10; i++ {
		sched.Step(16 * time.Millisecond)
	}

	if len(surface.log) != 1 {
		t.Fatalf("Expected 1 spawn, got %d", len(surface.log))
	}
	if p := surface.log[0]; p.OriginX != 100 || p.OriginY != 100 {
		t.Errorf("Spawn at (%v, %v), want (100, 100)", p.OriginX, p.OriginY)
	}
}

func TestPointer_SpawnsAgainAfterThrottle(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	a.PointerMove(100, 100)
	sched.Frame()

	sched.Advance(50 * time.Millisecond)
	a.PointerMove(200, 150)
	sched.Frame()

	if len(surface.log) != 2 {
		t.Fatalf("Expected 2 spawns, got %d", len(surface.log))
	}
	if p := surface.log[1]; p.OriginX != 200 || p.OriginY != 150 {
		t.Errorf("Second spawn at (%v, %v), want (200, 150)", p.OriginX, p.OriginY)
	}
}

func TestPointer_NoMoveNoSpawn(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		sched.Step(16 * time.Millisecond)
	}
	if len(surface.log) != 0 {
		t.Errorf("Expected no spawns without movement, got %d", len(surface.log))
	}
}

func TestPointer_Echo(t *testing.T) {
	cfg := quietConfig()
	cfg.EchoChance = 1
	a, surface, sched := newTestAnimator(t, cfg)
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	a.PointerMove(400, 300)
	sched.Frame()
	moveAt := sched.Now()
	a.PointerMove(420, 300)

	sched.Advance(100 * time.Millisecond)

	if len(surface.log) != 2 {
		t.Fatalf("Expected pointer spawn plus echo, got %d", len(surface.log))
	}
	echo := surface.log[1]
	if got := echo.Born.Sub(moveAt); got != 100*time.Millisecond {
		t.Errorf("Echo at %v, want 100ms", got)
	}
	// Echo follows the pointer position at firing time
	if math.Abs(echo.OriginX-420) > 10 || math.Abs(echo.OriginY-300) > 10 {
		t.Errorf("Echo origin (%v, %v) not within 10px of (420, 300)", echo.OriginX, echo.OriginY)
	}
}

func TestAmbient_RespectsCap(t *testing.T) {
	cfg := quietConfig()
	cfg.AmbientInterval = 200 * time.Millisecond
	cfg.AmbientCap = 5
	cfg.Lifetime = time.Hour
	a, _, sched := newTestAnimator(t, cfg)

	reg := status.NewRegistry()
	a.AttachStatus(reg)
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 50; i++ {
		sched.Advance(200 * time.Millisecond)
		if a.Live() > cfg.AmbientCap {
			t.Fatalf("Live count %d exceeded cap %d", a.Live(), cfg.AmbientCap)
		}
	}

	if a.Live() != 5 {
		t.Errorf("Expected live count at cap 5, got %d", a.Live())
	}
	if got := reg.Int(status.AmbientSkipped); got != 45 {
		t.Errorf("Expected 45 skipped ambient ticks, got %d", got)
	}
}

func TestAmbient_BurstsBypassCap(t *testing.T) {
	cfg := quietConfig()
	cfg.AmbientInterval = 200 * time.Millisecond
	cfg.AmbientCap = 3
	cfg.Lifetime = time.Hour
	a, surface, sched := newTestAnimator(t, cfg)
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	a.Click(500, 400)
	sched.Advance(time.Second)

	if a.Live() <= cfg.AmbientCap {
		t.Fatalf("Expected click burst to exceed cap, live=%d", a.Live())
	}

	before := len(surface.log)
	sched.Advance(time.Second)
	if len(surface.log) != before {
		t.Errorf("Ambient spawned above cap: %d -> %d", before, len(surface.log))
	}
}

func TestConstellation(t *testing.T) {
	cfg := quietConfig()
	cfg.ConstellationInterval = 5 * time.Second
	cfg.ConstellationChance = 1
	a, surface, sched := newTestAnimator(t, cfg)

	reg := status.NewRegistry()
	a.AttachStatus(reg)
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	sched.Advance(5 * time.Second)
	start := sched.Now()
	sched.Advance(2 * time.Second)

	n := len(surface.log)
	if n < 10 || n > 15 {
		t.Fatalf("Expected 10-15 constellation particles, got %d", n)
	}
	if reg.Int(status.Constellations) != 1 {
		t.Errorf("Expected 1 constellation, got %d", reg.Int(status.Constellations))
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range surface.log {
		if !p.Bright {
			t.Errorf("Constellation particle %d is not bright", i)
		}
		if got, want := p.Born.Sub(start), time.Duration(i)*100*time.Millisecond; got != want {
			t.Errorf("Particle %d at %v, want %v", i, got, want)
		}
		minX, maxX = math.Min(minX, p.OriginX), math.Max(maxX, p.OriginX)
		minY, maxY = math.Min(minY, p.OriginY), math.Max(maxY, p.OriginY)
	}

	if maxX-minX >= 100 || maxY-minY >= 100 {
		t.Errorf("Cluster spread (%v x %v) exceeds 100px square", maxX-minX, maxY-minY)
	}
	if minX < 50 || maxX > 950 || minY < 50 || maxY > 750 {
		t.Errorf("Cluster outside the edge margin: x[%v, %v] y[%v, %v]", minX, maxX, minY, maxY)
	}
}

func TestConstellation_ChanceZero(t *testing.T) {
	cfg := quietConfig()
	cfg.ConstellationInterval = 5 * time.Second
	cfg.ConstellationChance = 0
	a, surface, sched := newTestAnimator(t, cfg)
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	sched.Advance(60 * time.Second)
	if len(surface.log) != 0 {
		t.Errorf("Expected no constellations, got %d spawns", len(surface.log))
	}
}

func TestConstellation_SmallViewportCentres(t *testing.T) {
	cfg := quietConfig()
	cfg.ConstellationInterval = time.Second
	cfg.ConstellationChance = 1
	cfg.ConstellationSpread = 0
	cfg.JitterSpan = 0

	surface := newRecordingSurface(150, 120)
	sched := clock.NewManual(epoch)
	a := New(surface, sched, vmath.NewFastRand(3), cfg)
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	sched.Advance(2500 * time.Millisecond)
	for _, p := range surface.log {
		if p.OriginX != 75 || p.OriginY != 60 {
			t.Fatalf("Expected centred cluster at (75, 60), got (%v, %v)", p.OriginX, p.OriginY)
		}
	}
}

func TestStop_ReleasesEverything(t *testing.T) {
	a, surface, sched := newTestAnimator(t, DefaultConfig())
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	a.PointerMove(300, 300)
	sched.Step(2 * time.Second)
	a.Click(200, 200)
	sched.Advance(100 * time.Millisecond)

	if a.Live() == 0 {
		t.Fatal("Expected live particles before Stop")
	}

	a.Stop()

	if sched.Pending() != 0 {
		t.Errorf("Expected no pending scheduler work, got %d", sched.Pending())
	}
	if a.PendingTimers() != 0 {
		t.Errorf("Expected no tracked timers, got %d", a.PendingTimers())
	}
	if a.Live() != 0 || len(surface.attached) != 0 {
		t.Errorf("Expected empty surface, live=%d attached=%d", a.Live(), len(surface.attached))
	}

	logged := len(surface.log)
	sched.Step(30 * time.Second)
	if len(surface.log) != logged {
		t.Errorf("Spawns continued after Stop: %d -> %d", logged, len(surface.log))
	}

	// Idempotent
	a.Stop()
}

func TestStop_ThenRestart(t *testing.T) {
	a, surface, sched := newTestAnimator(t, quietConfig())
	if err := a.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	a.Stop()

	if err := a.Start(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	a.PointerMove(10, 10)
	sched.Frame()

	if len(surface.log) != 1 {
		t.Errorf("Expected pointer spawn after restart, got %d", len(surface.log))
	}
}

func TestParticles_SnapshotOrdered(t *testing.T) {
	a, _, _ := newTestAnimator(t, quietConfig())
	for i := 0; i < 5; i++ {
		a.Spawn(float64(i), 0, false)
	}

	ps := a.Particles()
	if len(ps) != 5 {
		t.Fatalf("Expected 5 particles, got %d", len(ps))
	}
	for i := 1; i < len(ps); i++ {
		if ps[i].ID <= ps[i-1].ID {
			t.Fatalf("Snapshot not ordered by ID: %v", ps)
		}
	}
}

func TestStatusCounters(t *testing.T) {
	a, _, sched := newTestAnimator(t, quietConfig())
	reg := status.NewRegistry()
	a.AttachStatus(reg)

	a.Spawn(1, 1, false)
	a.Spawn(2, 2, false)
	if reg.Int(status.Spawned) != 2 || reg.Int(status.Live) != 2 {
		t.Errorf("Unexpected counters after spawn: %v", reg.Snapshot())
	}

	sched.Advance(3 * time.Second)
	if reg.Int(status.Expired) != 2 || reg.Int(status.Live) != 0 {
		t.Errorf("Unexpected counters after expiry: %v", reg.Snapshot())
	}
}
