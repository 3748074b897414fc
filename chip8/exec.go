package chip8

import "fmt"

// Cycle emulates one Chip-8 cycle: exactly one instruction is fetched and
// executed, then each running timer is decremented by one.
//
// A returned error is always a *Fault. The machine is halted afterwards and
// every later call returns the same fault.
func (c8 *Machine) Cycle() error {
	if c8.fault != nil {
		return c8.fault
	}
	c8.draw = false
	c8.beep = false

	pc := c8.pc
	word, err := c8.fetch()
	if err != nil {
		c8.fault = &Fault{PC: pc, Fetch: true, Err: err}
		return c8.fault
	}
	in, err := Decode(word)
	if err != nil {
		return c8.halt(pc, word, err)
	}
	if c8.tracer != nil {
		c8.tracer.Trace(pc, in)
	}
	if err := c8.execute(in); err != nil {
		return c8.halt(pc, word, err)
	}

	if c8.dt > 0 {
		c8.dt--
	}
	if c8.st > 0 {
		c8.beep = true
		c8.st--
	}
	return nil
}

func (c8 *Machine) halt(pc, word uint16, err error) error {
	c8.fault = &Fault{PC: pc, Word: word, Err: err}
	return c8.fault
}

func (c8 *Machine) fetch() (uint16, error) {
	if int(c8.pc)+1 >= MemorySize {
		return 0, fmt.Errorf("program counter escaped memory: %w", boundsError(int(c8.pc)+1))
	}
	hi, _ := c8.load(int(c8.pc))
	lo, _ := c8.load(int(c8.pc) + 1)
	c8.pc += 2
	return uint16(hi)<<8 | uint16(lo), nil
}

func (c8 *Machine) skip(cond bool) {
	if cond {
		c8.pc += 2
	}
}

func (c8 *Machine) push(addr uint16) error {
	if int(c8.sp) >= stackSize {
		return ErrStackOverflow
	}
	c8.stack[c8.sp] = addr
	c8.sp++
	return nil
}

func (c8 *Machine) pop() (uint16, error) {
	if c8.sp == 0 {
		return 0, ErrStackUnderflow
	}
	c8.sp--
	return c8.stack[c8.sp], nil
}

// execute applies one decoded instruction. The program counter already
// points at the following instruction. Comments describing opcodes are
// copied from Cowgod's reference.
func (c8 *Machine) execute(in Instruction) error {
	x, y := in.X, in.Y
	switch in.Op {
	case OpCLS:
		// 00E0 - CLS -- Clear the display.
		for addr := FramebufferStart; addr < MemorySize; addr++ {
			if err := c8.store(addr, 0); err != nil {
				return err
			}
		}
		c8.draw = true
	case OpRET:
		// 00EE - RET -- Return from a subroutine.
		addr, err := c8.pop()
		if err != nil {
			return err
		}
		c8.pc = addr
	case OpSYS:
		// 0nnn - SYS addr -- Jump to a machine code routine at nnn.
		// Ignored in modern interpreters.
		return fmt.Errorf("%w: machine code routine 0x%03x not supported", ErrUnknownOpcode, in.NNN)
	case OpJP:
		// 1nnn - JP addr -- Jump to location nnn.
		c8.pc = in.NNN
	case OpCALL:
		// 2nnn - CALL addr -- Call subroutine at nnn.
		if err := c8.push(c8.pc); err != nil {
			return err
		}
		c8.pc = in.NNN
	case OpSEByte:
		// 3xkk - SE Vx, byte -- Skip next instruction if Vx = kk.
		c8.skip(c8.v[x] == in.NN)
	case OpSNEByte:
		// 4xkk - SNE Vx, byte -- Skip next instruction if Vx != kk.
		c8.skip(c8.v[x] != in.NN)
	case OpSEReg:
		// 5xy0 - SE Vx, Vy -- Skip next instruction if Vx = Vy.
		c8.skip(c8.v[x] == c8.v[y])
	case OpLDByte:
		// 6xkk - LD Vx, byte -- Set Vx = kk.
		c8.v[x] = in.NN
	case OpADDByte:
		// 7xkk - ADD Vx, byte -- Set Vx = Vx + kk. VF is untouched.
		c8.v[x] += in.NN
	case OpLDReg:
		// 8xy0 - LD Vx, Vy -- Set Vx = Vy.
		c8.v[x] = c8.v[y]
	case OpOR:
		// 8xy1 - OR Vx, Vy -- Set Vx = Vx OR Vy.
		c8.v[x] |= c8.v[y]
	case OpAND:
		// 8xy2 - AND Vx, Vy -- Set Vx = Vx AND Vy.
		c8.v[x] &= c8.v[y]
	case OpXOR:
		// 8xy3 - XOR Vx, Vy -- Set Vx = Vx XOR Vy.
		c8.v[x] ^= c8.v[y]
	case OpADDReg:
		// 8xy4 - ADD Vx, Vy -- Set Vx = Vx + Vy, set VF = carry.
		sum := uint16(c8.v[x]) + uint16(c8.v[y])
		c8.v[x] = uint8(sum)
		c8.v[0xf] = flag(sum > 0xff)
	case OpSUB:
		// 8xy5 - SUB Vx, Vy -- Set Vx = Vx - Vy, set VF = NOT borrow.
		noBorrow := c8.v[x] >= c8.v[y]
		c8.v[x] -= c8.v[y]
		c8.v[0xf] = flag(noBorrow)
	case OpSHR:
		// 8xy6 - SHR Vx {, Vy} -- Set Vx = Vx SHR 1.
		c8.v[0xf] = c8.v[x] & 0x1
		c8.v[x] >>= 1
	case OpSUBN:
		// 8xy7 - SUBN Vx, Vy -- Set Vx = Vy - Vx, set VF = NOT borrow.
		noBorrow := c8.v[y] >= c8.v[x]
		c8.v[x] = c8.v[y] - c8.v[x]
		c8.v[0xf] = flag(noBorrow)
	case OpSHL:
		// 8xyE - SHL Vx {, Vy} -- Set Vx = Vx SHL 1.
		// VF keeps the masked bit (0x00 or 0x80), unlike SHR which stores 0 or 1.
		c8.v[0xf] = c8.v[x] & 0x80
		c8.v[x] <<= 1
	case OpSNEReg:
		// 9xy0 - SNE Vx, Vy -- Skip next instruction if Vx != Vy.
		c8.skip(c8.v[x] != c8.v[y])
	case OpLDI:
		// Annn - LD I, addr -- Set I = nnn.
		c8.i = in.NNN
	case OpJPV0:
		// Bnnn - JP V0, addr -- Jump to location nnn + V0.
		c8.pc = in.NNN + uint16(c8.v[0])
	case OpRND:
		// Cxkk - RND Vx, byte -- Set Vx = random byte AND kk.
		c8.v[x] = in.NN & uint8(c8.rng.Intn(0x100))
	case OpDRW:
		// Dxyn - DRW Vx, Vy, nibble -- Display (n+1)-byte sprite starting at
		// memory location I at (Vx, Vy), set VF = collision.
		return c8.drawSprite(c8.v[x], c8.v[y], in.N)
	case OpSKP:
		// Ex9E - SKP Vx -- Skip next instruction if key with the value of Vx is
		// pressed.
		c8.skip(c8.key[c8.v[x]%numKeys])
	case OpSKNP:
		// ExA1 - SKNP Vx -- Skip next instruction if key with the value of Vx is
		// not pressed.
		c8.skip(!c8.key[c8.v[x]%numKeys])
	case OpLDVxDT:
		// Fx07 - LD Vx, DT -- Set Vx = delay timer value.
		c8.v[x] = c8.dt
	case OpLDVxK:
		// Fx0A - LD Vx, K -- Wait for a key press, store the value of the key in
		// Vx. Waiting re-executes this instruction on the next cycle.
		for k := uint8(0); k < numKeys; k++ {
			if c8.key[k] {
				c8.v[x] = k
				return nil
			}
		}
		c8.pc -= 2
	case OpLDDTVx:
		// Fx15 - LD DT, Vx -- Set delay timer = Vx.
		c8.dt = c8.v[x]
	case OpLDSTVx:
		// Fx18 - LD ST, Vx -- Set sound timer = Vx.
		c8.st = c8.v[x]
	case OpADDI:
		// Fx1E - ADD I, Vx -- Set I = I + Vx.
		c8.i += uint16(c8.v[x])
	case OpLDF:
		// Fx29 - LD F, Vx -- Set I = location of sprite for digit Vx.
		if c8.v[x] > 0xf {
			return fmt.Errorf("%w: expected Vx <= 0xf but found V%X=0x%x", ErrInvalidGlyph, x, c8.v[x])
		}
		c8.i = uint16(c8.v[x]) * glyphSize
	case OpLDB:
		// Fx33 - LD B, Vx -- Store BCD representation of Vx in memory locations
		// I, I+1, and I+2.
		digits := [3]uint8{c8.v[x] / 100, (c8.v[x] % 100) / 10, c8.v[x] % 10}
		for n, d := range digits {
			if err := c8.store(int(c8.i)+n, d); err != nil {
				return err
			}
		}
	case OpLDIVx:
		// Fx55 - LD [I], Vx -- Store registers V0 through Vx in memory starting
		// at location I.
		for r := 0; r <= int(x); r++ {
			if err := c8.store(int(c8.i)+r, c8.v[r]); err != nil {
				return err
			}
		}
	case OpLDVxI:
		// Fx65 - LD Vx, [I] -- Read registers V0 through Vx from memory starting
		// at location I.
		for r := 0; r <= int(x); r++ {
			b, err := c8.load(int(c8.i) + r)
			if err != nil {
				return err
			}
			c8.v[r] = b
		}
	default:
		return ErrUnknownOpcode
	}
	return nil
}

// drawSprite XORs rows+1 sprite bytes read from I onto the framebuffer with
// the top left corner at (vx mod 64, vy mod 32). Pixels past the right or
// bottom edge are clipped. Rows below the bottom edge are not read.
func (c8 *Machine) drawSprite(vx, vy, rows uint8) error {
	x := int(vx) % DisplayWidth
	y := int(vy) % DisplayHeight
	col, shift := x/8, x%8
	collision := false

	for row := 0; row <= int(rows) && y+row < DisplayHeight; row++ {
		sprite, err := c8.load(int(c8.i) + row)
		if err != nil {
			return err
		}
		base := FramebufferStart + (y+row)*bytesPerRow
		parts := [2]uint8{sprite >> shift, 0}
		if shift > 0 {
			parts[1] = sprite << (8 - shift)
		}
		for n, bits := range parts {
			if bits == 0 || col+n >= bytesPerRow {
				continue
			}
			addr := base + col + n
			old, err := c8.load(addr)
			if err != nil {
				return err
			}
			if old&bits != 0 {
				collision = true
			}
			if err := c8.store(addr, old^bits); err != nil {
				return err
			}
		}
	}

	c8.v[0xf] = flag(collision)
	c8.draw = true
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
