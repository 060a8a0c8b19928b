package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/glimmer/animator"
	"github.com/lixenwraith/glimmer/app"
	"github.com/lixenwraith/glimmer/audio"
	"github.com/lixenwraith/glimmer/clock"
	"github.com/lixenwraith/glimmer/config"
	"github.com/lixenwraith/glimmer/core"
	"github.com/lixenwraith/glimmer/prefs"
	"github.com/lixenwraith/glimmer/service"
	"github.com/lixenwraith/glimmer/status"
	"github.com/lixenwraith/glimmer/vmath"
)

var (
	configFlag    = flag.String("config", "", "Path to a TOML config file")
	prefsFlag     = flag.String("prefs", "", "Path to the preferences file (default: user config dir)")
	debugFlag     = flag.Bool("debug", false, "Write logs to "+logDir+"/"+logFileName)
	seedFlag      = flag.Uint64("seed", 0, "Random seed, 0 uses config, env or time")
	colorModeFlag = flag.String("color", "auto", "Color mode: auto, truecolor, 256")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	applyColorMode(*colorModeFlag)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	core.SetCrashReset(screen.Fini)

	// Panic Recovery: restore the terminal even if the main goroutine crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	if err := run(screen, cfg); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "glimmer: %v\n", err)
		os.Exit(1)
	}
	screen.Fini()
}

func run(screen tcell.Screen, cfg *config.Config) error {
	seed := pickSeed(*seedFlag, cfg.Seed)
	log.Printf("glimmer: seed %d", seed)

	loop := clock.NewLoop(cfg.Render.FrameInterval)
	reg := status.NewRegistry()
	prefsSvc := prefs.NewService()
	audioSvc := audio.NewService(prefsSvc)

	page, err := app.New(app.Options{
		Screen: screen,
		Sched:  loop,
		Caller: loop,
		Rand:   vmath.NewFastRand(seed),
		Config: cfg,
		Prefs:  prefsSvc,
		Sound:  audioSvc,
		Status: reg,
	})
	if err != nil {
		return err
	}

	hub := service.NewHub()
	for _, svc := range []service.Service{
		prefsSvc,
		audioSvc,
		clock.NewService(loop),
		animator.NewService(page.Animator(), loop),
		app.NewService(page),
	} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}

	err = hub.InitAll(map[string][]any{
		"prefs": {*prefsFlag},
		"audio": {cfg.Audio.Enabled, cfg.Audio.MasterVolume, cfg.Audio.SampleRate},
	})
	if err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	log.Printf("glimmer: services started %v", hub.Order())

	// Input polling talks to the screen directly; every event is handled on the loop
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if !loop.Post(func() { page.HandleEvent(ev) }) {
				return
			}
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-page.Done():
	case sig := <-sigCh:
		log.Printf("glimmer: %v", sig)
	}

	hub.StopAll()
	log.Printf("glimmer: exit %v", reg.Snapshot())
	return nil
}

// pickSeed prefers the flag, then the configured seed, then the clock
func pickSeed(flagSeed, cfgSeed uint64) uint64 {
	switch {
	case flagSeed != 0:
		return flagSeed
	case cfgSeed != 0:
		return cfgSeed
	default:
		return uint64(time.Now().UnixNano())
	}
}

// applyColorMode steers tcell's colour detection through its environment switches
func applyColorMode(mode string) {
	switch mode {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor", "true", "24bit":
		os.Setenv("COLORTERM", "truecolor")
	}
}
