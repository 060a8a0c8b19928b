package service

import (
	"errors"
	"reflect"
	"testing"
)

// fakeService records lifecycle calls into a shared journal
type fakeService struct {
	name     string
	deps     []string
	journal  *[]string
	initErr  error
	startErr error
	initArgs []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	f.initArgs = args
	*f.journal = append(*f.journal, "init:"+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	*f.journal = append(*f.journal, "start:"+f.name)
	return f.startErr
}

func (f *fakeService) Stop() error {
	*f.journal = append(*f.journal, "stop:"+f.name)
	return nil
}

func TestHub_DependencyOrder(t *testing.T) {
	var journal []string
	h := NewHub()
	h.Register(&fakeService{name: "animator", deps: []string{"clock"}, journal: &journal})
	h.Register(&fakeService{name: "audio", deps: []string{"prefs"}, journal: &journal})
	h.Register(&fakeService{name: "clock", journal: &journal})
	h.Register(&fakeService{name: "prefs", journal: &journal})

	if err := h.InitAll(nil); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	h.StopAll()

	want := []string{
		"init:clock", "init:prefs", "init:animator", "init:audio",
		"start:clock", "start:prefs", "start:animator", "start:audio",
		"stop:audio", "stop:animator", "stop:prefs", "stop:clock",
	}
	if !reflect.DeepEqual(journal, want) {
		t.Errorf("Unexpected lifecycle\n got %v\nwant %v", journal, want)
	}
}

func TestHub_InitArgs(t *testing.T) {
	var journal []string
	svc := &fakeService{name: "audio", journal: &journal}
	h := NewHub()
	h.Register(svc)

	if err := h.InitAll(map[string][]any{"audio": {true, 0.5}}); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if !reflect.DeepEqual(svc.initArgs, []any{true, 0.5}) {
		t.Errorf("Unexpected init args %v", svc.initArgs)
	}
}

func TestHub_DuplicateRegistration(t *testing.T) {
	var journal []string
	h := NewHub()
	if err := h.Register(&fakeService{name: "clock", journal: &journal}); err != nil {
		t.Fatalf("First Register failed: %v", err)
	}
	if err := h.Register(&fakeService{name: "clock", journal: &journal}); err == nil {
		t.Error("Expected duplicate registration error")
	}
}

func TestHub_CycleAndMissingDependency(t *testing.T) {
	var journal []string

	h := NewHub()
	h.Register(&fakeService{name: "a", deps: []string{"b"}, journal: &journal})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, journal: &journal})
	if err := h.InitAll(nil); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle, got %v", err)
	}

	h = NewHub()
	h.Register(&fakeService{name: "a", deps: []string{"ghost"}, journal: &journal})
	if err := h.InitAll(nil); err == nil {
		t.Error("Expected missing dependency error")
	}
}

func TestHub_StartFailureRollsBack(t *testing.T) {
	var journal []string
	h := NewHub()
	h.Register(&fakeService{name: "clock", journal: &journal})
	h.Register(&fakeService{name: "animator", deps: []string{"clock"}, journal: &journal, startErr: errors.New("no surface")})

	if err := h.InitAll(nil); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	journal = nil

	if err := h.StartAll(); err == nil {
		t.Fatal("Expected start failure")
	}

	want := []string{"start:clock", "start:animator", "stop:clock"}
	if !reflect.DeepEqual(journal, want) {
		t.Errorf("Unexpected rollback\n got %v\nwant %v", journal, want)
	}

	// Nothing left to stop
	journal = nil
	h.StopAll()
	if len(journal) != 0 {
		t.Errorf("StopAll after rollback stopped %v", journal)
	}
}

func TestHub_InitFailureRollsBack(t *testing.T) {
	var journal []string
	h := NewHub()
	h.Register(&fakeService{name: "a", journal: &journal})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, journal: &journal, initErr: errors.New("bad config")})

	if err := h.InitAll(nil); err == nil {
		t.Fatal("Expected init failure")
	}

	want := []string{"init:a", "init:b", "stop:a"}
	if !reflect.DeepEqual(journal, want) {
		t.Errorf("Unexpected rollback\n got %v\nwant %v", journal, want)
	}
}

func TestHub_StartBeforeInit(t *testing.T) {
	h := NewHub()
	if err := h.StartAll(); err == nil {
		t.Error("Expected error when starting before init")
	}
}
