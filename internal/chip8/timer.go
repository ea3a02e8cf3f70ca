package chip8

// TickTimers decrements the delay and sound timers by one each, flooring
// at zero. The frame driver calls it exactly once per rendered frame so
// the timers decay at the 60 Hz frame rate, independent of instruction
// throughput.
func (c *Chip8) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

// SoundActive reports whether a tone should currently be audible.
// Waveform generation is entirely the audio sink's concern.
func (c *Chip8) SoundActive() bool {
	return c.soundTimer > 0
}

// DelayTimer returns the current delay timer value.
func (c *Chip8) DelayTimer() byte {
	return c.delayTimer
}
