package main

import (
	"fmt"
	"os"
	"time"

	"github.com/inrick/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

// frontend is the I/O side of the interpreter: it supplies key states and
// shows the display.
type frontend interface {
	// Poll delivers the current key states to c8 and reports whether the
	// user asked to quit.
	Poll(c8 *chip8.Machine) bool
	Draw(c8 *chip8.Machine) error
	Close()
}

// validateHz checks that one cycle per hz ticks lasts at least a nanosecond.
func validateHz(hz int) error {
	if hz <= 0 || hz > int(time.Second) {
		return fmt.Errorf("cycle rate %d not in range 1-%d", hz, int(time.Second))
	}
	return nil
}

// run cycles c8 hz times per second until the frontend quits or the machine
// faults.
func run(c8 *chip8.Machine, fe frontend, hz int) error {
	if err := validateHz(hz); err != nil {
		return err
	}
	if err := fe.Draw(c8); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	beeping := false
	for range ticker.C {
		if fe.Poll(c8) {
			return nil
		}
		if err := c8.Cycle(); err != nil {
			return err
		}
		if c8.DisplayChanged() {
			if err := fe.Draw(c8); err != nil {
				return err
			}
		}
		if c8.Beeping() && !beeping {
			fmt.Fprint(os.Stderr, "\a")
		}
		beeping = c8.Beeping()
	}
	return nil
}

// logTracer logs every executed instruction at debug level.
type logTracer struct {
	logger *log.Logger
}

func (t logTracer) Trace(pc uint16, in chip8.Instruction) {
	t.logger.Debug("trace",
		log.Uint16("pc", pc),
		log.Uint16("opcode", in.Word),
		log.String("instruction", in.String()),
	)
}
