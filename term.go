package main

import (
	"strings"
	"time"

	"github.com/inrick/chip8vm/chip8"
	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/log"
)

// termFrontend draws the display with text cells. Terminals only report key
// presses, so a key counts as held for a while after its last event.
type termFrontend struct {
	events  chan termbox.Event
	done    chan struct{}
	pressed [0x10]time.Time
	hold    time.Duration
	logger  *log.Logger
}

func newTermFrontend(hold time.Duration, logger *log.Logger) (*termFrontend, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc)

	t := &termFrontend{
		events: make(chan termbox.Event, 64),
		done:   make(chan struct{}),
		hold:   hold,
		logger: logger,
	}
	go t.pollEvents()
	return t, nil
}

func (t *termFrontend) pollEvents() {
	defer close(t.done)
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case t.events <- ev:
		default:
			// Drop input the cycle loop has not caught up with.
		}
	}
}

func (t *termFrontend) Poll(c8 *chip8.Machine) bool {
	now := time.Now()
drain:
	for {
		select {
		case ev := <-t.events:
			if t.handle(ev, now) {
				return true
			}
		default:
			break drain
		}
	}
	for k, at := range t.pressed {
		c8.SetKey(uint8(k), now.Sub(at) < t.hold)
	}
	return false
}

func (t *termFrontend) handle(ev termbox.Event, now time.Time) (quit bool) {
	switch ev.Type {
	case termbox.EventKey:
		if ev.Key == termbox.KeyCtrlC || ev.Key == termbox.KeyEsc {
			return true
		}
		if k, ok := keypadIndex(ev.Ch); ok {
			t.pressed[k] = now
		}
	case termbox.EventError:
		t.logger.Error("Terminal input failed", log.Err(ev.Err))
		return true
	}
	return false
}

func (t *termFrontend) Draw(c8 *chip8.Machine) error {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y, line := range strings.Split(c8.DisplayString(), "\n") {
		x := 0
		for _, r := range line {
			termbox.SetCell(x, y, r, termbox.ColorDefault, termbox.ColorDefault)
			x++
		}
	}
	return termbox.Flush()
}

func (t *termFrontend) Close() {
	termbox.Interrupt()
	<-t.done
	termbox.Close()
}
