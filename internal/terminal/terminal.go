// Package terminal is the interactive boundary adapter of the emulator.
// It renders the framebuffer with ANSI escape sequences, reads the
// keypad and run controls from a raw-mode terminal and rings the bell
// as tone output.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fardin245/Chipette/internal/chip8"
	"github.com/fardin245/Chipette/internal/emulator"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
)

// keyHoldFrames is the number of frames a latched key stays pressed.
// A terminal reports no key release events, so each press ages out to
// synthesize the release edge the key-wait instruction needs.
const keyHoldFrames = 6

// keypadKeys maps terminal characters to keypad indices, the classic
// 4x4 block on the left hand side of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keypadKeys = map[byte]byte{
	'x': 0x0, '1': 0x1, '2': 0x2, '3': 0x3,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'a': 0x7,
	's': 0x8, 'd': 0x9, 'z': 0xA, 'c': 0xB,
	'4': 0xC, 'r': 0xD, 'f': 0xE, 'v': 0xF,
}

// controlKeys maps terminal characters to run controls.
var controlKeys = map[byte]emulator.Control{
	0x1B: emulator.ControlQuit, // ESC
	'p':  emulator.ControlTogglePause,
	't':  emulator.ControlReset,
	'b':  emulator.ControlToggleDebug,
	'\t': emulator.ControlCycleVariant,
}

// Compile-time checks that Terminal implements the boundary contracts.
var (
	_ emulator.Renderer  = (*Terminal)(nil)
	_ emulator.AudioSink = (*Terminal)(nil)
	_ emulator.Input     = (*Terminal)(nil)
)

// Terminal renders to and reads from a terminal switched to raw mode.
type Terminal struct {
	logger  *log.Logger
	in      *os.File
	out     *bufio.Writer
	restore unix.Termios

	keyAge     [chip8.KeyCount]int
	toneActive bool
}

// New switches the terminal into raw mode and prepares the screen.
// Close must be called to restore the previous terminal state.
func New(logger *log.Logger) (*Terminal, error) {
	t := &Terminal{
		logger: logger,
		in:     os.Stdin,
		out:    bufio.NewWriter(os.Stdout),
	}
	if err := t.enterRawMode(); err != nil {
		return nil, err
	}
	t.logger.Debug("terminal switched to raw mode")

	_, _ = t.out.WriteString("\x1b[2J\x1b[?25l") // clear screen, hide cursor
	return t, t.out.Flush()
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	_, _ = t.out.WriteString("\x1b[?25h\x1b[0m\r\n") // show cursor again
	_ = t.out.Flush()

	fd := int(t.in.Fd())
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &t.restore); err != nil {
		return fmt.Errorf("restoring terminal attributes: %w", err)
	}
	return nil
}

// enterRawMode disables echo and line buffering and makes reads
// non-blocking so Poll never waits for input.
func (t *Terminal) enterRawMode() error {
	fd := int(t.in.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("reading terminal attributes: %w", err)
	}
	t.restore = *termios

	state := *termios
	state.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	state.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	state.Cflag &^= unix.CSIZE | unix.PARENB
	state.Cflag |= unix.CS8
	state.Cc[unix.VMIN] = 0
	state.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &state); err != nil {
		return fmt.Errorf("setting terminal attributes: %w", err)
	}
	return nil
}

// Poll implements emulator.Input. It drains the available terminal
// input, latches keypad keys, collects run controls and ages out stale
// key latches.
func (t *Terminal) Poll(keys []bool) ([]emulator.Control, error) {
	var buf [64]byte
	n, err := t.in.Read(buf[:])
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading keyboard: %w", err)
	}

	var controls []emulator.Control
	for _, b := range buf[:n] {
		if control, ok := controlKeys[b]; ok {
			controls = append(controls, control)
			continue
		}
		if key, ok := keypadKeys[b]; ok {
			t.keyAge[key] = keyHoldFrames
			keys[key] = true
		}
	}

	for key := range t.keyAge {
		if t.keyAge[key] == 0 {
			continue
		}
		t.keyAge[key]--
		if t.keyAge[key] == 0 {
			keys[key] = false
		}
	}

	return controls, nil
}

// Draw implements emulator.Renderer. Each framebuffer pixel is rendered
// as two block characters so the aspect ratio roughly matches the
// original display.
func (t *Terminal) Draw(display []bool) error {
	_, _ = t.out.WriteString("\x1b[H") // cursor home

	for y := 0; y < chip8.DisplayHeight; y++ {
		row := display[y*chip8.DisplayWidth : (y+1)*chip8.DisplayWidth]
		for _, lit := range row {
			if lit {
				_, _ = t.out.WriteString("██")
			} else {
				_, _ = t.out.WriteString("  ")
			}
		}
		_, _ = t.out.WriteString("\r\n")
	}

	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}
	return nil
}

// SetTone implements emulator.AudioSink. The terminal has no waveform
// output, a rising tone edge rings the bell.
func (t *Terminal) SetTone(active bool) {
	if active && !t.toneActive {
		_ = t.out.WriteByte('\a')
		_ = t.out.Flush()
	}
	t.toneActive = active
}
