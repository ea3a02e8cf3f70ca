// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fardin245/Chipette/internal/emulator"
	"github.com/fardin245/Chipette/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := options.NewProgram()
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chipette [options] <ROM file to run>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the ROM file, please pass the ROM file to run as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	if _, err := emulator.ParseVariant(opts.Mode); err != nil {
		return fmt.Errorf("%w. Valid options: %s, %s, %s", err,
			emulator.VariantChip8, emulator.VariantSuperChip, emulator.VariantXOChip)
	}

	if opts.InstructionsPerFrame <= 0 {
		return fmt.Errorf("instructions per frame must be positive, got %d",
			opts.InstructionsPerFrame)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Mode, "mode", opts.Mode, "instruction set variant (chip8/superchip/xochip)")
	flags.IntVar(&opts.InstructionsPerFrame, "ipf", opts.InstructionsPerFrame, "instructions to execute per frame")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug mode: trace logging and one instruction per frame")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal rendering and input")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
