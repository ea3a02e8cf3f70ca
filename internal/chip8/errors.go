package chip8

import (
	"errors"
	"fmt"
)

// Errors reported by instruction execution. The reference architecture
// leaves stack overflow and underflow undefined; this implementation
// fails the offending call or return without modifying the stack, the
// stack pointer or the jump target, so a buggy program keeps running
// with its prior state intact. Callers treat both as non-fatal
// diagnostics.
var (
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
)

// ROMTooLargeError is returned by LoadROM when a program image does not
// fit into the memory area above the program start address.
type ROMTooLargeError struct {
	Size  int
	Limit int
}

// Error implements the error interface.
func (e *ROMTooLargeError) Error() string {
	return fmt.Sprintf("ROM size %d exceeds maximum of %d bytes", e.Size, e.Limit)
}
