// Package chip8 implements a Chip-8 interpreter.
// Follows description in Cowgod's Chip-8 Technical Reference v1.0 [1].
//
// The display is memory mapped: the 256 bytes at 0xF00-0xFFF hold 32 rows
// of 8 bytes, one bit per pixel with the most significant bit leftmost.
//
//	[1] http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
package chip8

import (
	"math/rand"
	"time"
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32

	MemorySize       = 0x1000
	ProgramStart     = 0x200
	FramebufferStart = 0xf00
	FramebufferSize  = MemorySize - FramebufferStart

	// MaxProgramSize is the room between ProgramStart and the framebuffer.
	MaxProgramSize = FramebufferStart - ProgramStart

	bytesPerRow = DisplayWidth / 8
	stackSize   = 0x10
	numKeys     = 0x10
)

// Tracer is notified before each instruction is executed.
type Tracer interface {
	Trace(pc uint16, in Instruction)
}

// Machine holds the complete state of one Chip-8 virtual machine. It is not
// safe for concurrent use.
type Machine struct {
	mem    [MemorySize]uint8
	v      [0x10]uint8
	stack  [stackSize]uint16
	i, pc  uint16
	sp     uint8
	dt, st uint8 // Delay timer & sound timer
	key    [numKeys]bool

	draw  bool
	beep  bool
	fault error

	rng    *rand.Rand
	tracer Tracer
}

// Option configures a Machine created by New.
type Option func(*Machine)

// WithSeed makes CXNN deterministic.
func WithSeed(seed int64) Option {
	return func(c8 *Machine) {
		c8.rng = rand.New(rand.NewSource(seed))
	}
}

// WithTracer installs t to observe every executed instruction.
func WithTracer(t Tracer) Option {
	return func(c8 *Machine) {
		c8.tracer = t
	}
}

func New(opts ...Option) *Machine {
	c8 := new(Machine)
	copy(c8.mem[:], fontset[:])
	c8.pc = ProgramStart
	for _, opt := range opts {
		opt(c8)
	}
	if c8.rng == nil {
		c8.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c8
}

// LoadProgram copies program into memory at ProgramStart, one instruction
// word at a time. A trailing odd byte is dropped and does not count against
// MaxProgramSize.
func (c8 *Machine) LoadProgram(program []byte) error {
	if len(program)&^1 > MaxProgramSize {
		return ErrProgramTooLarge
	}
	addr := uint16(ProgramStart)
	for n := 0; n+1 < len(program); n += 2 {
		word := uint16(program[n])<<8 | uint16(program[n+1])
		if err := c8.Write16(addr, word); err != nil {
			return err
		}
		addr += 2
	}
	return nil
}

// Read returns the byte at addr.
func (c8 *Machine) Read(addr uint16) (uint8, error) {
	return c8.load(int(addr))
}

// Write stores value at addr.
func (c8 *Machine) Write(addr uint16, value uint8) error {
	return c8.store(int(addr), value)
}

// Write16 stores value big-endian at addr and addr+1.
func (c8 *Machine) Write16(addr uint16, value uint16) error {
	if err := c8.store(int(addr), uint8(value>>8)); err != nil {
		return err
	}
	return c8.store(int(addr)+1, uint8(value))
}

func (c8 *Machine) load(addr int) (uint8, error) {
	if addr < 0 || addr >= MemorySize {
		return 0, boundsError(addr)
	}
	return c8.mem[addr], nil
}

func (c8 *Machine) store(addr int, value uint8) error {
	if addr < 0 || addr >= MemorySize {
		return boundsError(addr)
	}
	c8.mem[addr] = value
	if addr >= FramebufferStart {
		c8.draw = true
	}
	return nil
}

// SetKey records whether keypad key index (mod 16) is held down. Keys keep
// their state until set again.
func (c8 *Machine) SetKey(index uint8, pressed bool) {
	c8.key[index%numKeys] = pressed
}

// DisplayChanged reports whether the last cycle wrote to the framebuffer.
func (c8 *Machine) DisplayChanged() bool {
	return c8.draw
}

// Beeping reports whether the sound timer was running during the last cycle.
func (c8 *Machine) Beeping() bool {
	return c8.beep
}

// Framebuffer returns a copy of the display memory, 8 bytes per row.
func (c8 *Machine) Framebuffer() []byte {
	fb := make([]byte, FramebufferSize)
	copy(fb, c8.mem[FramebufferStart:])
	return fb
}

// Pixel reports whether the pixel at (x, y) is set. Coordinates outside the
// display are never set.
func (c8 *Machine) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	b := c8.mem[FramebufferStart+y*bytesPerRow+x/8]
	return b&(0x80>>(x%8)) != 0
}

func (c8 *Machine) PC() uint16        { return c8.pc }
func (c8 *Machine) I() uint16         { return c8.i }
func (c8 *Machine) V(x uint8) uint8   { return c8.v[x&0xf] }
func (c8 *Machine) SP() uint8         { return c8.sp }
func (c8 *Machine) DelayTimer() uint8 { return c8.dt }
func (c8 *Machine) SoundTimer() uint8 { return c8.st }
func (c8 *Machine) Halted() bool      { return c8.fault != nil }
func (c8 *Machine) Err() error        { return c8.fault }
func (c8 *Machine) Key(k uint8) bool  { return c8.key[k%numKeys] }
