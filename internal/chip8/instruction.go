package chip8

// Instruction is the fixed field breakdown of one 16-bit CHIP-8
// instruction word. All addressing variants of the instruction set are
// covered by these six projections.
type Instruction struct {
	Opcode uint16 // full instruction word
	NNN    uint16 // lowest 12 bits, absolute address
	NN     byte   // lowest 8 bits, immediate value
	N      byte   // lowest 4 bits, immediate nibble
	X      byte   // lower 4 bits of the high byte, register index
	Y      byte   // upper 4 bits of the low byte, register index
}

// Decode splits an instruction word into its addressing fields.
// It is a pure projection with no failure modes.
func Decode(word uint16) Instruction {
	return Instruction{
		Opcode: word,
		NNN:    word & 0x0FFF,
		NN:     byte(word & 0x00FF),
		N:      byte(word & 0x000F),
		X:      byte(word>>8) & 0x0F,
		Y:      byte(word>>4) & 0x0F,
	}
}
