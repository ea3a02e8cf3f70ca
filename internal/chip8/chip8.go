// Package chip8 implements the CHIP-8 virtual machine core: the machine
// state, instruction decoding and execution, and the 60 Hz delay and
// sound timers.
//
// The package contains no I/O. The keypad is written by an external input
// adapter between frames, the display is read by an external renderer
// after a frame's instruction batch completes, and the sound timer only
// reports whether a tone should be active.
package chip8

import (
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Display dimensions of the base CHIP-8 architecture.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

const (
	// ProgramStart is the memory address where CHIP-8 programs begin
	// execution. The area below it belongs to the interpreter and holds
	// the font table.
	ProgramStart = 0x200

	// MaxROMSize is the largest program image that fits into memory.
	MaxROMSize = memorySize - ProgramStart

	memorySize  = 4096
	addressMask = 0x0FFF

	stackDepth = 16

	// KeyCount is the number of keys on the CHIP-8 keypad.
	KeyCount = 16

	fontGlyphSize = 5

	// noWaitKey marks the key-wait state machine as idle.
	noWaitKey = 0xFF
)

// RunState describes the execution state of a machine.
type RunState uint8

// Execution states. A machine starts Running; the boundary control layer
// toggles Paused and sets Halted to end a run.
const (
	Running RunState = iota
	Paused
	Halted
)

// String returns the name of the run state.
func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Halted:
		return "halted"
	}
	return "unknown"
}

// fontSet contains the glyph font table, 5 bytes per hexadecimal digit
// 0-F, preloaded at address 0x000. Programs address glyphs through the
// FX29 instruction.
var fontSet = [fontGlyphSize * 16]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Chip8 is the complete architectural state of one CHIP-8 machine.
// It has exactly one owner, the frame driver; no internal locking exists.
// A machine is created fresh per program load and replaced atomically on
// reset, partial reinitialization is not supported.
type Chip8 struct {
	logger *log.Logger

	memory  [memorySize]byte
	v       [16]byte // general purpose registers, V[F] doubles as flags
	i       uint16   // index register
	pc      uint16
	stack   [stackDepth]uint16
	sp      byte // points one past the top entry
	display [DisplayWidth * DisplayHeight]bool
	keypad  [KeyCount]bool

	delayTimer byte
	soundTimer byte

	// key-wait state machine for the FX0A instruction. It persists across
	// Step calls so that the instruction can spin over multiple frames
	// without relying on process-global state.
	waitActive bool
	waitKey    byte

	runState RunState
	debug    bool

	rng *rand.Rand
}

// New returns a machine with the font table loaded, the program counter
// at the program start address and an empty program area. The random
// source used by the CXNN instruction is seeded at creation time, never
// per instruction.
func New(logger *log.Logger) *Chip8 {
	c := &Chip8{
		logger:   logger,
		pc:       ProgramStart,
		waitKey:  noWaitKey,
		runState: Running,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(c.memory[:], fontSet[:])
	return c
}

// LoadROM copies the program image into memory at the program start
// address. It fails with a *ROMTooLargeError if the image does not fit.
func (c *Chip8) LoadROM(rom []byte) error {
	if len(rom) > MaxROMSize {
		return &ROMTooLargeError{Size: len(rom), Limit: MaxROMSize}
	}
	copy(c.memory[ProgramStart:], rom)
	return nil
}

// WordAt reads the 16-bit big-endian instruction word at the given
// address. Addresses are masked to the 12-bit CHIP-8 address space.
func (c *Chip8) WordAt(address uint16) uint16 {
	hi := c.memory[address&addressMask]
	lo := c.memory[(address+1)&addressMask]
	return uint16(hi)<<8 | uint16(lo)
}

// PC returns the current program counter.
func (c *Chip8) PC() uint16 {
	return c.pc
}

// Display returns the framebuffer, row-major, true for lit pixels.
// The returned slice aliases machine state; the renderer reads it
// between instruction batches, never during one.
func (c *Chip8) Display() []bool {
	return c.display[:]
}

// Keys returns the keypad latches, indexed 0-F. The boundary input
// adapter writes them between frames.
func (c *Chip8) Keys() []bool {
	return c.keypad[:]
}

// State returns the current run state.
func (c *Chip8) State() RunState {
	return c.runState
}

// SetState sets the run state.
func (c *Chip8) SetState(state RunState) {
	c.runState = state
}

// DebugEnabled reports whether debug mode is active. Debug mode reduces
// the instruction throughput to one instruction per frame and enables
// trace output in the frame driver.
func (c *Chip8) DebugEnabled() bool {
	return c.debug
}

// SetDebug enables or disables debug mode.
func (c *Chip8) SetDebug(enabled bool) {
	c.debug = enabled
}
