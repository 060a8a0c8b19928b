// Package app wires the glimmer field, the hero text, preferences and sound onto one terminal screen
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/glimmer/animator"
	"github.com/lixenwraith/glimmer/clock"
	"github.com/lixenwraith/glimmer/config"
	"github.com/lixenwraith/glimmer/i18n"
	"github.com/lixenwraith/glimmer/prefs"
	"github.com/lixenwraith/glimmer/render"
	"github.com/lixenwraith/glimmer/status"
	"github.com/lixenwraith/glimmer/typewriter"
	"github.com/lixenwraith/glimmer/vmath"
)

// ToastDuration is how long a toast line stays visible
const ToastDuration = 2 * time.Second

// Sound is the subset of audio.SoundManager the app drives
type Sound interface {
	PlayChime() bool
	SetMusic(on bool) bool
	Available() bool
}

// Options carries the collaborators an App is built from
type Options struct {
	Screen tcell.Screen
	Sched  clock.Scheduler
	Caller clock.Caller // nil runs lifecycle calls inline
	Rand   vmath.Source
	Config *config.Config
	Prefs  *prefs.Service
	Sound  Sound // nil is silent
	Status *status.Registry
}

// App owns the page state; apart from construction and Done, every method runs on the scheduler goroutine
type App struct {
	screen  tcell.Screen
	sched   clock.Scheduler
	caller  clock.Caller
	status  *status.Registry
	surface *render.Surface
	anim    *animator.Animator
	tw      *typewriter.Typewriter
	tr      *i18n.Translator
	prefs   *prefs.Service
	sound   Sound

	toast   clock.Timer
	frame   clock.Timer
	buttons tcell.ButtonMask
	running bool

	quit     chan struct{}
	quitOnce sync.Once
}

// New builds the app and its animator; the palette comes from cfg.Render
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.NewService()
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}

	palette, err := render.NewPalette(cfg.Render.Background, cfg.Render.Palette)
	if err != nil {
		return nil, fmt.Errorf("app: palette: %w", err)
	}

	a := &App{
		screen: opts.Screen,
		sched:  opts.Sched,
		caller: opts.Caller,
		status: opts.Status,
		tr:     i18n.NewTranslator(i18n.DefaultLanguage),
		prefs:  opts.Prefs,
		sound:  opts.Sound,
		tw:     typewriter.New(opts.Sched, typewriter.DefaultDelay, typewriter.DefaultSpeed),
		quit:   make(chan struct{}),
	}

	// A nil screen leaves the animator without a surface, it then logs and stays idle
	var surface animator.Surface
	if opts.Screen != nil {
		a.surface = render.NewSurface(opts.Screen, palette, cfg.Render.CellWidth, cfg.Render.CellHeight, cfg.Animator.Lifetime)
		surface = a.surface
	}
	a.anim = animator.New(surface, opts.Sched, opts.Rand, &cfg.Animator)
	a.anim.AttachStatus(opts.Status)

	a.tr.OnChange(a.languageChanged)
	return a, nil
}

// Animator returns the particle driver
func (a *App) Animator() *animator.Animator {
	return a.anim
}

// Translator returns the string switcher
func (a *App) Translator() *i18n.Translator {
	return a.tr
}

// Done is closed once the user asks to quit
func (a *App) Done() <-chan struct{} {
	return a.quit
}

// Quit closes Done, safe from any goroutine
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// start restores the stored language and music, begins typing the subtitle and arms rendering
func (a *App) start() {
	if a.running {
		return
	}

	// Restored before running is set so the change listener stays quiet
	lang := a.prefs.Current().Language
	if err := a.tr.Set(lang); err != nil {
		log.Printf("app: stored language: %v", err)
	}
	a.running = true
	if a.sound != nil {
		a.sound.SetMusic(a.prefs.MusicOn())
	}
	a.publishAudio()
	a.tw.Start(a.tr.T("hero.subtitle"))

	if a.surface != nil {
		a.frame = a.sched.NextFrame(a.render)
	}
}

// stop cancels the app's own timers; the animator is stopped by its service
func (a *App) stop() {
	a.running = false
	a.tw.Stop()
	if a.frame != nil {
		a.frame.Stop()
		a.frame = nil
	}
	if a.toast != nil {
		a.toast.Stop()
		a.toast = nil
	}
}

// render draws one frame and re-arms itself
func (a *App) render() {
	a.frame = a.sched.NextFrame(a.render)

	ov := a.surface.Overlay()
	ov.Heading = a.tr.T("hero.title")
	ov.Subheading = a.tw.Text()
	ov.Status = a.statusLine()
	a.surface.Draw(a.sched.Now())
}

func (a *App) statusLine() string {
	music := a.tr.T("status.music.off")
	if a.prefs.MusicOn() {
		music = a.tr.T("status.music.on")
	}
	return fmt.Sprintf(" %s %d · %s %s · %s   %s",
		a.tr.T("status.particles"), a.anim.Live(),
		a.tr.T("status.language"), a.tr.Language(),
		music, a.tr.T("status.help"))
}

// showToast replaces the toast line and clears it after ToastDuration
func (a *App) showToast(key string) {
	if a.surface == nil {
		return
	}
	if a.toast != nil {
		a.toast.Stop()
	}
	a.surface.Overlay().Toast = a.tr.T(key)
	a.toast = a.sched.After(ToastDuration, func() {
		a.toast = nil
		a.surface.Overlay().Toast = ""
	})
}

// Toast returns the visible toast text
func (a *App) Toast() string {
	if a.surface == nil {
		return ""
	}
	return a.surface.Overlay().Toast
}

// Subtitle returns the typed part of the hero subtitle
func (a *App) Subtitle() string {
	return a.tw.Text()
}

// ToggleLanguage flips fr/en; the change listener persists it and restarts typing
func (a *App) ToggleLanguage() string {
	return a.tr.Toggle()
}

func (a *App) languageChanged(lang string) {
	if !a.running {
		return
	}
	if err := a.prefs.Update(func(p *prefs.Preferences) { p.Language = lang }); err != nil {
		log.Printf("app: save language: %v", err)
	}
	a.tw.Restart(a.tr.T("hero.subtitle"))
	a.showToast("toast.language")
}

// ToggleMusic flips and persists the music preference, returns the new value
func (a *App) ToggleMusic() bool {
	on := !a.prefs.MusicOn()
	if err := a.prefs.Update(func(p *prefs.Preferences) { p.Music = on }); err != nil {
		log.Printf("app: save music: %v", err)
	}

	audible := false
	if a.sound != nil {
		audible = a.sound.SetMusic(on)
	}
	a.publishAudio()

	switch {
	case on && !audible:
		a.showToast("toast.audio.absent")
	case on:
		a.showToast("toast.music.on")
	default:
		a.showToast("toast.music.off")
	}
	return on
}

// publishAudio mirrors sound state into the status flags
func (a *App) publishAudio() {
	a.status.Bools.Get(status.AudioAvailable).Store(a.sound != nil && a.sound.Available())
	a.status.Bools.Get(status.MusicOn).Store(a.prefs.MusicOn())
}

// BackToTop plays the chime and shows the toast
func (a *App) BackToTop() {
	if a.sound != nil {
		a.sound.PlayChime()
	}
	a.showToast("toast.top")
}
