// Package trace formats executed CHIP-8 instruction words as assembly
// mnemonics for debug trace output. Instruction identification uses the
// retrogolib CHIP-8 opcode tables; words outside the instruction set are
// rendered as raw data words.
package trace

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Format renders an instruction word as assembly code, for example
// "DRW V1, V2, $5". Unrecognized words are rendered as ".word $XXXX".
func Format(word uint16) string {
	op, ok := lookup(word)
	if !ok {
		return fmt.Sprintf(".word $%04X", word)
	}

	name := strings.ToUpper(op.Instruction.Name)
	params := formatParams(word)
	if params == "" {
		return name
	}
	return name + " " + params
}

// lookup finds the opcode table entry matching an instruction word.
func lookup(word uint16) (chip8.Opcode, bool) {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}

// formatParams renders the operand list of an instruction word. The
// operand shape is fully determined by the opcode class and subcode, so
// the word alone is sufficient.
func formatParams(word uint16) string {
	in := fields(word)

	switch word & 0xF000 {
	case 0x0000:
		return "" // CLS and RET take no operands
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", in.nnn)
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", in.x, in.nn)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", in.x, in.y)
	case 0x8000:
		if in.n == 0x6 || in.n == 0xE {
			// shift instructions are conventionally written with a
			// single register operand
			return fmt.Sprintf("V%X", in.x)
		}
		return fmt.Sprintf("V%X, V%X", in.x, in.y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", in.nnn)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", in.nnn)
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", in.x, in.y, in.n)
	case 0xE000:
		return fmt.Sprintf("V%X", in.x)
	case 0xF000:
		return formatMiscParams(in)
	}
	return ""
}

// formatMiscParams renders the operands of the 0xF opcode class using
// the conventional timer, key, font and memory operand names.
func formatMiscParams(in opFields) string {
	switch in.nn {
	case 0x07:
		return fmt.Sprintf("V%X, DT", in.x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", in.x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", in.x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", in.x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", in.x)
	case 0x29:
		return fmt.Sprintf("F, V%X", in.x)
	case 0x33:
		return fmt.Sprintf("B, V%X", in.x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", in.x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", in.x)
	}
	return ""
}

// opFields holds the operand field projections of an instruction word.
type opFields struct {
	nnn  uint16
	nn   byte
	n    byte
	x, y byte
}

func fields(word uint16) opFields {
	return opFields{
		nnn: word & 0x0FFF,
		nn:  byte(word & 0x00FF),
		n:   byte(word & 0x000F),
		x:   byte(word>>8) & 0x0F,
		y:   byte(word>>4) & 0x0F,
	}
}
