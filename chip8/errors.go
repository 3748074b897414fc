package chip8

import (
	"errors"
	"fmt"
)

// Fatal conditions. A program that triggers any of them has no defined way
// to continue, so the machine halts.
var (
	ErrMemoryBounds    = errors.New("memory access out of bounds")
	ErrStackOverflow   = errors.New("call stack overflow")
	ErrStackUnderflow  = errors.New("return with empty call stack")
	ErrInvalidGlyph    = errors.New("invalid font glyph")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrProgramTooLarge = errors.New("program too large")
)

// Fault is returned by Cycle when the instruction at PC cannot be executed.
// Fetch is set if the fault happened while fetching, in which case there is
// no Word.
type Fault struct {
	PC    uint16
	Word  uint16
	Fetch bool
	Err   error
}

func (f *Fault) Error() string {
	if f.Fetch {
		return fmt.Sprintf("pc=0x%03x: %v", f.PC, f.Err)
	}
	return fmt.Sprintf("pc=0x%03x opcode=0x%04x: %v", f.PC, f.Word, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func boundsError(addr int) error {
	return fmt.Errorf("%w: 0x%x", ErrMemoryBounds, addr)
}
