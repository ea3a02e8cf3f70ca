package emulator

// NopRenderer discards the framebuffer, for headless runs.
type NopRenderer struct{}

// Draw implements Renderer.
func (NopRenderer) Draw(_ []bool) error {
	return nil
}

// NopAudio discards the tone gate.
type NopAudio struct{}

// SetTone implements AudioSink.
func (NopAudio) SetTone(_ bool) {}

// NopInput never reports keys or controls.
type NopInput struct{}

// Poll implements Input.
func (NopInput) Poll(_ []bool) ([]Control, error) {
	return nil, nil
}
