// Package emulator implements the frame driver that runs a CHIP-8
// machine against its boundary adapters: a renderer for the
// framebuffer, an audio sink for the tone gate and an input source for
// the keypad and run controls.
package emulator

import (
	"context"
	"fmt"
	"time"

	"github.com/fardin245/Chipette/internal/chip8"
	"github.com/fardin245/Chipette/internal/trace"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the target output frame rate. Timers decay at this
// cadence regardless of instruction throughput.
const FrameRate = 60

const frameDuration = time.Second / FrameRate

// DefaultInstructionsPerFrame is the nominal instruction batch size per
// frame. Debug mode overrides it with a single instruction per frame.
const DefaultInstructionsPerFrame = 600

// Renderer consumes the framebuffer once per frame. The display slice is
// row-major with DisplayWidth*DisplayHeight entries, true for lit
// pixels; it aliases machine state and must not be retained.
type Renderer interface {
	Draw(display []bool) error
}

// AudioSink consumes the tone gate derived from the sound timer.
// Waveform generation is entirely the sink's concern.
type AudioSink interface {
	SetTone(active bool)
}

// Input updates the keypad latches and reports control actions. Poll is
// called once per frame, before the instruction batch, so keypad writes
// never race with an executing instruction.
type Input interface {
	Poll(keys []bool) ([]Control, error)
}

// Control identifies a run control action triggered by the input layer.
type Control uint8

// Run control actions.
const (
	ControlQuit Control = iota + 1
	ControlTogglePause
	ControlReset
	ControlToggleDebug
	ControlCycleVariant
)

// Config holds the frame driver settings.
type Config struct {
	InstructionsPerFrame int
	Variant              Variant
	Debug                bool
}

// Emulator drives a CHIP-8 machine at the output frame rate. It is the
// single owner of the machine state for the duration of a run.
type Emulator struct {
	logger   *log.Logger
	machine  *chip8.Chip8
	rom      []byte
	renderer Renderer
	audio    AudioSink
	input    Input

	variant              Variant
	instructionsPerFrame int
}

// New creates an emulator with the given ROM loaded into a fresh
// machine.
func New(logger *log.Logger, rom []byte, renderer Renderer, audio AudioSink,
	input Input, cfg Config) (*Emulator, error) {

	if cfg.InstructionsPerFrame <= 0 {
		cfg.InstructionsPerFrame = DefaultInstructionsPerFrame
	}

	machine := chip8.New(logger)
	if err := machine.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}
	machine.SetDebug(cfg.Debug)

	return &Emulator{
		logger:               logger,
		machine:              machine,
		rom:                  append([]byte(nil), rom...),
		renderer:             renderer,
		audio:                audio,
		input:                input,
		variant:              cfg.Variant,
		instructionsPerFrame: cfg.InstructionsPerFrame,
	}, nil
}

// Run drives frames at the target frame rate until the machine halts or
// the context is cancelled.
func (e *Emulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := e.RunFrame(); err != nil {
				return err
			}
			if e.machine.State() == chip8.Halted {
				return nil
			}
		}
	}
}

// RunFrame executes one output frame: input polling, a bounded
// instruction batch that ends early on the first redraw request, the
// framebuffer flush, one timer tick and the tone gate update. When the
// machine is not running only the current framebuffer is re-rendered;
// timers stay frozen while paused.
func (e *Emulator) RunFrame() error {
	controls, err := e.input.Poll(e.machine.Keys())
	if err != nil {
		return fmt.Errorf("polling input: %w", err)
	}
	for _, control := range controls {
		e.applyControl(control)
	}

	if e.machine.State() != chip8.Running {
		return e.renderer.Draw(e.machine.Display())
	}

	budget := e.instructionsPerFrame
	if e.machine.DebugEnabled() {
		budget = 1
	}

	for i := 0; i < budget; i++ {
		if e.machine.DebugEnabled() {
			e.traceInstruction()
		}

		redraw, err := e.machine.Step()
		if err != nil {
			// stack faults are clamped diagnostics, the program keeps
			// running with its prior state
			e.logger.Warn("instruction fault",
				log.Err(err),
				log.Hex("address", e.machine.PC()))
		}
		if redraw {
			break
		}
	}

	if err := e.renderer.Draw(e.machine.Display()); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}

	e.machine.TickTimers()
	e.audio.SetTone(e.machine.SoundActive())
	return nil
}

// applyControl executes one run control action.
func (e *Emulator) applyControl(control Control) {
	switch control {
	case ControlQuit:
		e.machine.SetState(chip8.Halted)
		e.logger.Info("quit requested")

	case ControlTogglePause:
		switch e.machine.State() {
		case chip8.Running:
			e.machine.SetState(chip8.Paused)
			e.logger.Info("paused")
		case chip8.Paused:
			e.machine.SetState(chip8.Running)
			e.logger.Info("resumed")
		case chip8.Halted:
		}

	case ControlReset:
		e.reset()

	case ControlToggleDebug:
		enabled := !e.machine.DebugEnabled()
		e.machine.SetDebug(enabled)
		if enabled {
			e.logger.Info("debug mode enabled",
				log.Int("instructions_per_frame", 1))
		} else {
			e.logger.Info("debug mode disabled",
				log.Int("instructions_per_frame", e.instructionsPerFrame))
		}

	case ControlCycleVariant:
		e.variant = e.variant.next()
		e.logger.Info("instruction set variant selected",
			log.String("variant", e.variant.String()))
		if e.variant != VariantChip8 {
			e.logger.Warn("variant not implemented, base interpreter stays active")
		}
	}
}

// reset replaces the machine with a freshly initialized one and reloads
// the ROM. The replacement is atomic, no field survives a reset except
// the debug flag, which belongs to the session rather than the program.
func (e *Emulator) reset() {
	machine := chip8.New(e.logger)
	if err := machine.LoadROM(e.rom); err != nil {
		// the ROM was validated at construction time
		e.logger.Error("reset failed", log.Err(err))
		return
	}
	machine.SetDebug(e.machine.DebugEnabled())
	e.machine = machine
	e.logger.Info("machine reset")
}

// traceInstruction logs the instruction about to execute.
func (e *Emulator) traceInstruction() {
	pc := e.machine.PC()
	word := e.machine.WordAt(pc)
	e.logger.Debug("executing",
		log.Hex("address", pc),
		log.Hex("opcode", word),
		log.String("instruction", trace.Format(word)))
}

// Variant returns the currently selected instruction set variant.
func (e *Emulator) Variant() Variant {
	return e.variant
}

// Machine returns the machine state driven by this emulator.
func (e *Emulator) Machine() *chip8.Chip8 {
	return e.machine
}
