// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"os"
)

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a ROM file as raw program bytes. CHIP-8 ROMs have no
// header, the file content is the program image. The size limit against
// the machine's memory is enforced when the image is loaded into a
// machine, not here.
func (l *Loader) Load(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file %s: %w", path, err)
	}
	if len(rom) == 0 {
		return nil, fmt.Errorf("ROM file %s is empty", path)
	}
	return rom, nil
}
