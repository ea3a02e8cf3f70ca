// Package main implements the main entry point for a CHIP-8 virtual machine
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fardin245/Chipette/internal/cli"
	"github.com/fardin245/Chipette/internal/config"
	"github.com/fardin245/Chipette/internal/emulator"
	"github.com/fardin245/Chipette/internal/loader"
	"github.com/fardin245/Chipette/internal/options"
	"github.com/fardin245/Chipette/internal/terminal"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(opts)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(opts)

	if err := run(ctx, logger, opts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner(opts options.Program) {
	if opts.Quiet || !opts.Headless {
		// the terminal renderer owns the screen, keep it clean
		return
	}
	fmt.Println("[-----------------------------------]")
	fmt.Println("[ chipette - CHIP-8 virtual machine ]")
	fmt.Printf("[-----------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	rom, err := loader.New().Load(opts.Input)
	if err != nil {
		return err
	}

	variant, err := emulator.ParseVariant(opts.Mode)
	if err != nil {
		return err
	}

	var (
		renderer emulator.Renderer  = emulator.NopRenderer{}
		audio    emulator.AudioSink = emulator.NopAudio{}
		input    emulator.Input     = emulator.NopInput{}
	)
	if !opts.Headless {
		term, err := terminal.New(logger)
		if err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		defer func() {
			if err := term.Close(); err != nil {
				logger.Error("Restoring terminal failed", log.Err(err))
			}
		}()
		renderer, audio, input = term, term, term
	}

	logger.Info("Running ROM",
		log.String("file", opts.Input),
		log.String("variant", variant.String()),
		log.Int("instructions_per_frame", opts.InstructionsPerFrame))

	emu, err := emulator.New(logger, rom, renderer, audio, input, emulator.Config{
		InstructionsPerFrame: opts.InstructionsPerFrame,
		Variant:              variant,
		Debug:                opts.Debug,
	})
	if err != nil {
		return err
	}

	return emu.Run(ctx)
}
