package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.ch8")
	content := []byte{0x60, 0x05, 0x61, 0x03, 0x80, 0x14}
	assert.NoError(t, os.WriteFile(path, content, 0o644))

	rom, err := New().Load(path)
	assert.NoError(t, err)
	assert.Equal(t, content, rom)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New().Load(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.ErrorContains(t, err, "reading ROM file")
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.ch8")
	assert.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := New().Load(path)
	assert.ErrorContains(t, err, "is empty")
}
