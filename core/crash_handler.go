package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu    sync.Mutex
	crashReset func()
	crashExit  = os.Exit
)

// SetCrashReset registers the screen restore hook run before a crash report is printed
// Passing nil clears the hook
func SetCrashReset(reset func()) {
	crashMu.Lock()
	crashReset = reset
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that restores the screen and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	reset := crashReset
	crashReset = nil
	crashMu.Unlock()

	// Restore terminal to sane state before writing anything
	if reset != nil {
		reset()
	}

	os.Stdout.Sync()

	// Raw mode may still be partially active, use \r\n
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mGLIMMER CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	crashExit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure screen cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
