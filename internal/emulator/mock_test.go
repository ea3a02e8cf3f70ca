package emulator

// mockRenderer records framebuffer flushes.
type mockRenderer struct {
	draws     int
	lastFrame []bool
	err       error
}

func (m *mockRenderer) Draw(display []bool) error {
	m.draws++
	m.lastFrame = append(m.lastFrame[:0], display...)
	return m.err
}

// mockAudio records tone gate updates.
type mockAudio struct {
	active  bool
	updates int
}

func (m *mockAudio) SetTone(active bool) {
	m.active = active
	m.updates++
}

// mockInput feeds scripted key states and controls, one entry per frame.
type mockInput struct {
	keys     [][]byte    // keys to latch per frame
	controls [][]Control // controls to emit per frame
	frame    int
	err      error
}

func (m *mockInput) Poll(keys []bool) ([]Control, error) {
	if m.err != nil {
		return nil, m.err
	}

	if m.frame < len(m.keys) {
		for i := range keys {
			keys[i] = false
		}
		for _, key := range m.keys[m.frame] {
			keys[key] = true
		}
	}

	var controls []Control
	if m.frame < len(m.controls) {
		controls = m.controls[m.frame]
	}
	m.frame++
	return controls, nil
}
