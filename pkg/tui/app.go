package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dshills/goterm"
)

// KeyEvent represents a single keyboard input event
type KeyEvent struct {
	Key       rune
	Ctrl      bool
	Shift     bool
	IsSpecial bool
	Special   string
}

// App represents the TUI application root
type App struct {
	screen    *goterm.Screen
	dashboard *Dashboard
	running   bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	inputChan chan KeyEvent
}

// NewApp creates a new TUI application over the given dashboard
func NewApp(dashboard *Dashboard) (*App, error) {
	screen, err := goterm.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		screen:    screen,
		dashboard: dashboard,
		ctx:       ctx,
		cancel:    cancel,
		inputChan: make(chan KeyEvent, 100),
	}, nil
}

// Dashboard returns the app's dashboard
func (a *App) Dashboard() *Dashboard {
	return a.dashboard
}

// Run starts the TUI application main loop
func (a *App) Run() error {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	// Start keyboard input goroutine
	go a.readKeyboardInput()

	// Render loop at ~30 FPS; the runner mutates dashboard state from its
	// own goroutine so frames are redrawn on a timer as well as on input
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	if err := a.render(); err != nil {
		return fmt.Errorf("initial render failed: %w", err)
	}

	for {
		select {
		case <-a.ctx.Done():
			return nil

		case <-sigChan:
			a.cancel()
			return nil

		case event := <-a.inputChan:
			a.handleKeyEvent(event)
			if err := a.render(); err != nil {
				return err
			}

		case <-ticker.C:
			if err := a.render(); err != nil {
				return err
			}
		}
	}
}

// handleKeyEvent processes keyboard input
func (a *App) handleKeyEvent(event KeyEvent) {
	// Global quit bindings
	if (event.Ctrl && event.Key == 'c') || event.Key == 'q' {
		a.cancel()
		return
	}

	a.dashboard.HandleKey(event)
}

// render draws the dashboard to the screen
func (a *App) render() error {
	a.screen.Clear()
	a.dashboard.Render(a.screen)

	if err := a.screen.Show(); err != nil {
		return fmt.Errorf("screen show failed: %w", err)
	}

	return nil
}

// readKeyboardInput reads keyboard input in a background goroutine
func (a *App) readKeyboardInput() {
	// Blocking reads; terminal is already in raw mode from goterm
	buf := make([]byte, 32)

	for {
		select {
		case <-a.ctx.Done():
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil {
			if err == io.EOF {
				return
			}
			continue
		}

		if n > 0 {
			event := parseKeyInput(buf[:n])
			select {
			case a.inputChan <- event:
			case <-a.ctx.Done():
				return
			}
		}
	}
}

// parseKeyInput converts raw bytes into a KeyEvent
func parseKeyInput(buf []byte) KeyEvent {
	if len(buf) == 0 {
		return KeyEvent{}
	}

	// Handle escape sequences (arrow keys, etc.)
	if buf[0] == 27 {
		if len(buf) > 2 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return KeyEvent{IsSpecial: true, Special: "Up"}
			case 'B':
				return KeyEvent{IsSpecial: true, Special: "Down"}
			case 'C':
				return KeyEvent{IsSpecial: true, Special: "Right"}
			case 'D':
				return KeyEvent{IsSpecial: true, Special: "Left"}
			}
		}
		return KeyEvent{IsSpecial: true, Special: "Escape"}
	}

	switch buf[0] {
	case 9:
		return KeyEvent{IsSpecial: true, Special: "Tab"}
	case 13:
		return KeyEvent{IsSpecial: true, Special: "Enter"}
	case 127:
		return KeyEvent{IsSpecial: true, Special: "Backspace"}
	}

	// Ctrl combinations
	if buf[0] < 32 {
		return KeyEvent{
			Key:  rune(buf[0] + 'a' - 1),
			Ctrl: true,
		}
	}

	key := rune(buf[0])
	return KeyEvent{
		Key:   key,
		Shift: key >= 'A' && key <= 'Z',
	}
}

// Close performs cleanup and restores terminal state
func (a *App) Close() error {
	a.cancel()

	if err := a.screen.Close(); err != nil {
		return fmt.Errorf("failed to close screen: %w", err)
	}

	return nil
}
