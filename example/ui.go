package main

import (
	"context"
	"sync"

	"github.com/eiannone/keyboard"
)

//////////////////////////////////////////////////

// UIKeySubject matches a key press either by special key or by rune.
type UIKeySubject struct {
	Key  keyboard.Key
	Rune rune
}

func (s UIKeySubject) matches(e keyboard.KeyEvent) bool {
	if s.Rune != 0 {
		return e.Rune == s.Rune
	}

	return e.Rune == 0 && e.Key == s.Key
}

type UIKeyEvent struct {
	keyboard.KeyEvent

	stopped bool
}

// StopPropagation prevents handlers bound after the current one (and any
// further key presses) from being processed.
func (e *UIKeyEvent) StopPropagation() {
	e.stopped = true
}

type UIKeyHandler func(ui *UI, e *UIKeyEvent) error

type uiBinding struct {
	subject UIKeySubject
	handler UIKeyHandler
}

type UI struct {
	mu       sync.Mutex
	bindings []uiBinding
	closed   bool
}

func NewUI() *UI {
	return &UI{}
}

func (ui *UI) BindKey(subject UIKeySubject, handler UIKeyHandler) {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	ui.bindings = append(ui.bindings, uiBinding{subject, handler})
}

// Listen dispatches key presses to the bound handlers until ctx is done,
// the keyboard is closed or a handler stops propagation.
func (ui *UI) Listen(ctx context.Context) error {
	keys, err := keyboard.GetKeys(8)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ke, ok := <-keys:
			if !ok {
				return nil
			}
			if ke.Err != nil {
				return ke.Err
			}

			if ui.dispatch(&UIKeyEvent{KeyEvent: ke}) {
				return nil
			}
		}
	}
}

func (ui *UI) dispatch(e *UIKeyEvent) (stopped bool) {
	ui.mu.Lock()
	bindings := append([]uiBinding(nil), ui.bindings...)
	ui.mu.Unlock()

	for _, b := range bindings {
		if !b.subject.matches(e.KeyEvent) {
			continue
		}

		if err := b.handler(ui, e); err != nil {
			return true
		}
		if e.stopped {
			return true
		}
	}

	return false
}

func (ui *UI) Close() error {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if ui.closed {
		return nil
	}
	ui.closed = true

	return keyboard.Close()
}
