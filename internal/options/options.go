// Package options contains the program options.
package options

import "github.com/fardin245/Chipette/internal/emulator"

// Program options of the emulator.
type Program struct {
	Input string // ROM file to run

	Mode                 string // instruction set variant selector
	InstructionsPerFrame int

	Debug    bool
	Headless bool
	Quiet    bool
}

// NewProgram returns program options with default values.
func NewProgram() Program {
	return Program{
		Mode:                 emulator.VariantChip8.String(),
		InstructionsPerFrame: emulator.DefaultInstructionsPerFrame,
	}
}
