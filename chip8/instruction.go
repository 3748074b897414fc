package chip8

import (
	"fmt"
	"io"
)

// Op identifies an instruction. Mnemonics follow Cowgod's reference.
type Op uint8

const (
	OpInvalid Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpSYS        // 0nnn
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEByte     // 3xkk
	OpSNEByte    // 4xkk
	OpSEReg      // 5xy0
	OpLDByte     // 6xkk
	OpADDByte    // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpLDB        // Fx33
	OpLDIVx      // Fx55
	OpLDVxI      // Fx65
)

// Instruction is a decoded instruction word. Only the operands used by Op
// are meaningful.
type Instruction struct {
	Op   Op
	Word uint16
	X, Y uint8  // register indices, nibbles 2 and 3
	N    uint8  // nibble 4
	NN   uint8  // low byte
	NNN  uint16 // low 12 bits
}

// Decode splits word into its operands and identifies the instruction.
// Words that match no instruction return ErrUnknownOpcode.
func Decode(word uint16) (Instruction, error) {
	in := Instruction{
		Word: word,
		X:    uint8(word>>8) & 0xf,
		Y:    uint8(word>>4) & 0xf,
		N:    uint8(word) & 0xf,
		NN:   uint8(word),
		NNN:  word & 0xfff,
	}
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00e0:
			in.Op = OpCLS
		case 0x00ee:
			in.Op = OpRET
		default:
			in.Op = OpSYS
		}
	case 0x1:
		in.Op = OpJP
	case 0x2:
		in.Op = OpCALL
	case 0x3:
		in.Op = OpSEByte
	case 0x4:
		in.Op = OpSNEByte
	case 0x5:
		if in.N == 0 {
			in.Op = OpSEReg
		}
	case 0x6:
		in.Op = OpLDByte
	case 0x7:
		in.Op = OpADDByte
	case 0x8:
		// 8XYN X and Y identify data registers, N the operation
		switch in.N {
		case 0x0:
			in.Op = OpLDReg
		case 0x1:
			in.Op = OpOR
		case 0x2:
			in.Op = OpAND
		case 0x3:
			in.Op = OpXOR
		case 0x4:
			in.Op = OpADDReg
		case 0x5:
			in.Op = OpSUB
		case 0x6:
			in.Op = OpSHR
		case 0x7:
			in.Op = OpSUBN
		case 0xe:
			in.Op = OpSHL
		}
	case 0x9:
		if in.N == 0 {
			in.Op = OpSNEReg
		}
	case 0xa:
		in.Op = OpLDI
	case 0xb:
		in.Op = OpJPV0
	case 0xc:
		in.Op = OpRND
	case 0xd:
		in.Op = OpDRW
	case 0xe:
		switch in.NN {
		case 0x9e:
			in.Op = OpSKP
		case 0xa1:
			in.Op = OpSKNP
		}
	case 0xf:
		switch in.NN {
		case 0x07:
			in.Op = OpLDVxDT
		case 0x0a:
			in.Op = OpLDVxK
		case 0x15:
			in.Op = OpLDDTVx
		case 0x18:
			in.Op = OpLDSTVx
		case 0x1e:
			in.Op = OpADDI
		case 0x29:
			in.Op = OpLDF
		case 0x33:
			in.Op = OpLDB
		case 0x55:
			in.Op = OpLDIVx
		case 0x65:
			in.Op = OpLDVxI
		}
	}
	if in.Op == OpInvalid {
		return in, ErrUnknownOpcode
	}
	return in, nil
}

// String returns the assembly form of the instruction, e.g. "LD V3, 0x2A".
func (in Instruction) String() string {
	x, y := in.X, in.Y
	switch in.Op {
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpSYS:
		return fmt.Sprintf("SYS 0x%03X", in.NNN)
	case OpJP:
		return fmt.Sprintf("JP 0x%03X", in.NNN)
	case OpCALL:
		return fmt.Sprintf("CALL 0x%03X", in.NNN)
	case OpSEByte:
		return fmt.Sprintf("SE V%X, 0x%02X", x, in.NN)
	case OpSNEByte:
		return fmt.Sprintf("SNE V%X, 0x%02X", x, in.NN)
	case OpSEReg:
		return fmt.Sprintf("SE V%X, V%X", x, y)
	case OpLDByte:
		return fmt.Sprintf("LD V%X, 0x%02X", x, in.NN)
	case OpADDByte:
		return fmt.Sprintf("ADD V%X, 0x%02X", x, in.NN)
	case OpLDReg:
		return fmt.Sprintf("LD V%X, V%X", x, y)
	case OpOR:
		return fmt.Sprintf("OR V%X, V%X", x, y)
	case OpAND:
		return fmt.Sprintf("AND V%X, V%X", x, y)
	case OpXOR:
		return fmt.Sprintf("XOR V%X, V%X", x, y)
	case OpADDReg:
		return fmt.Sprintf("ADD V%X, V%X", x, y)
	case OpSUB:
		return fmt.Sprintf("SUB V%X, V%X", x, y)
	case OpSHR:
		return fmt.Sprintf("SHR V%X", x)
	case OpSUBN:
		return fmt.Sprintf("SUBN V%X, V%X", x, y)
	case OpSHL:
		return fmt.Sprintf("SHL V%X", x)
	case OpSNEReg:
		return fmt.Sprintf("SNE V%X, V%X", x, y)
	case OpLDI:
		return fmt.Sprintf("LD I, 0x%03X", in.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP V0, 0x%03X", in.NNN)
	case OpRND:
		return fmt.Sprintf("RND V%X, 0x%02X", x, in.NN)
	case OpDRW:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, in.N)
	case OpSKP:
		return fmt.Sprintf("SKP V%X", x)
	case OpSKNP:
		return fmt.Sprintf("SKNP V%X", x)
	case OpLDVxDT:
		return fmt.Sprintf("LD V%X, DT", x)
	case OpLDVxK:
		return fmt.Sprintf("LD V%X, K", x)
	case OpLDDTVx:
		return fmt.Sprintf("LD DT, V%X", x)
	case OpLDSTVx:
		return fmt.Sprintf("LD ST, V%X", x)
	case OpADDI:
		return fmt.Sprintf("ADD I, V%X", x)
	case OpLDF:
		return fmt.Sprintf("LD F, V%X", x)
	case OpLDB:
		return fmt.Sprintf("LD B, V%X", x)
	case OpLDIVx:
		return fmt.Sprintf("LD [I], V%X", x)
	case OpLDVxI:
		return fmt.Sprintf("LD V%X, [I]", x)
	}
	return fmt.Sprintf("DW 0x%04X", in.Word)
}

// Disassemble writes one line per instruction word of program, addressed
// from origin. Words that do not decode are listed as data.
func Disassemble(w io.Writer, program []byte, origin uint16) error {
	addr := origin
	for n := 0; n+1 < len(program); n += 2 {
		word := uint16(program[n])<<8 | uint16(program[n+1])
		in, _ := Decode(word)
		if _, err := fmt.Fprintf(w, "0x%03X  %04X  %s\n", addr, word, in); err != nil {
			return err
		}
		addr += 2
	}
	return nil
}
