package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// Step fetches, decodes and executes one instruction. It returns whether
// the display changed and the boundary renderer should be invoked before
// the current instruction batch continues.
//
// The program counter is advanced past the instruction before it
// executes, so skips and the key-wait rewind operate relative to the
// next instruction. Unrecognized opcodes advance the program counter,
// emit a diagnostic and are never fatal; stack faults are returned as
// errors with all prior state left unmodified.
func (c *Chip8) Step() (bool, error) {
	word := c.WordAt(c.pc)
	c.pc += 2
	in := Decode(word)

	switch word & 0xF000 {
	case 0x0000:
		return c.execSystem(in)
	case 0x1000: // 1NNN: jump
		c.pc = in.NNN
	case 0x2000: // 2NNN: call subroutine
		if c.sp >= stackDepth {
			return false, ErrStackOverflow
		}
		c.stack[c.sp] = c.pc
		c.sp++
		c.pc = in.NNN
	case 0x3000: // 3XNN: skip if VX == NN
		if c.v[in.X] == in.NN {
			c.pc += 2
		}
	case 0x4000: // 4XNN: skip if VX != NN
		if c.v[in.X] != in.NN {
			c.pc += 2
		}
	case 0x5000: // 5XY0: skip if VX == VY
		if c.v[in.X] == c.v[in.Y] {
			c.pc += 2
		}
	case 0x6000: // 6XNN: VX = NN
		c.v[in.X] = in.NN
	case 0x7000: // 7XNN: VX += NN, no flag
		c.v[in.X] += in.NN
	case 0x8000:
		c.execArithmetic(in)
	case 0x9000: // 9XY0: skip if VX != VY
		if c.v[in.X] != c.v[in.Y] {
			c.pc += 2
		}
	case 0xA000: // ANNN: I = NNN
		c.i = in.NNN
	case 0xB000: // BNNN: jump to V0 + NNN
		c.pc = uint16(c.v[0]) + in.NNN
	case 0xC000: // CXNN: VX = random byte & NN
		c.v[in.X] = byte(c.rng.Intn(256)) & in.NN
	case 0xD000: // DXYN: draw sprite
		c.drawSprite(in)
		return true, nil
	case 0xE000:
		c.execKeySkip(in)
	case 0xF000:
		c.execMisc(in)
	}
	return false, nil
}

// execSystem handles the 0x0 opcode class: display clear and subroutine
// return. The historical machine-code call (0NNN) is not part of the
// instruction set implemented here and falls through as unrecognized.
func (c *Chip8) execSystem(in Instruction) (bool, error) {
	switch in.NN {
	case 0xE0: // 00E0: clear display
		for i := range c.display {
			c.display[i] = false
		}
		return true, nil
	case 0xEE: // 00EE: return from subroutine
		if c.sp == 0 {
			return false, ErrStackUnderflow
		}
		c.sp--
		c.pc = c.stack[c.sp]
		return false, nil
	}
	c.unrecognized(in)
	return false, nil
}

// execArithmetic handles the 0x8 opcode class, the register-to-register
// operations. Several of these write V[F] as an implicit output:
//   - OR, AND and XOR clear V[F] after the operation (flag clobber)
//   - ADD, SUB and SUBN compute the carry or borrow flag from the
//     original operand values before writing the result
//   - SHR and SHL shift V[Y] into V[X], with the shifted-out bit in V[F]
//
// These are established behaviors of the original interpreter that
// existing test suites depend on.
func (c *Chip8) execArithmetic(in Instruction) {
	switch in.N {
	case 0x0: // 8XY0: VX = VY
		c.v[in.X] = c.v[in.Y]
	case 0x1: // 8XY1: VX |= VY, VF cleared
		c.v[in.X] |= c.v[in.Y]
		c.v[0xF] = 0
	case 0x2: // 8XY2: VX &= VY, VF cleared
		c.v[in.X] &= c.v[in.Y]
		c.v[0xF] = 0
	case 0x3: // 8XY3: VX ^= VY, VF cleared
		c.v[in.X] ^= c.v[in.Y]
		c.v[0xF] = 0
	case 0x4: // 8XY4: VX += VY, VF = carry
		carry := uint16(c.v[in.X])+uint16(c.v[in.Y]) > 0xFF
		c.v[in.X] += c.v[in.Y]
		c.v[0xF] = flag(carry)
	case 0x5: // 8XY5: VX -= VY, VF = no borrow
		noBorrow := c.v[in.Y] <= c.v[in.X]
		c.v[in.X] -= c.v[in.Y]
		c.v[0xF] = flag(noBorrow)
	case 0x6: // 8XY6: VX = VY >> 1, VF = shifted out bit
		bit := c.v[in.Y] & 1
		c.v[in.X] = c.v[in.Y] >> 1
		c.v[0xF] = bit
	case 0x7: // 8XY7: VX = VY - VX, VF = no borrow
		noBorrow := c.v[in.X] <= c.v[in.Y]
		c.v[in.X] = c.v[in.Y] - c.v[in.X]
		c.v[0xF] = flag(noBorrow)
	case 0xE: // 8XYE: VX = VY << 1, VF = shifted out bit
		bit := c.v[in.Y] >> 7
		c.v[in.X] = c.v[in.Y] << 1
		c.v[0xF] = bit
	default:
		c.unrecognized(in)
	}
}

// execKeySkip handles the 0xE opcode class, the keypad skip instructions.
func (c *Chip8) execKeySkip(in Instruction) {
	key := c.v[in.X] & 0x0F
	switch in.NN {
	case 0x9E: // EX9E: skip if key pressed
		if c.keypad[key] {
			c.pc += 2
		}
	case 0xA1: // EXA1: skip if key not pressed
		if !c.keypad[key] {
			c.pc += 2
		}
	default:
		c.unrecognized(in)
	}
}

// execMisc handles the 0xF opcode class: timers, key wait, index
// arithmetic, font addressing, BCD and register block transfers.
func (c *Chip8) execMisc(in Instruction) {
	switch in.NN {
	case 0x07: // FX07: VX = delay timer
		c.v[in.X] = c.delayTimer
	case 0x0A: // FX0A: wait for key press and release
		c.waitForKey(in)
	case 0x15: // FX15: delay timer = VX
		c.delayTimer = c.v[in.X]
	case 0x18: // FX18: sound timer = VX
		c.soundTimer = c.v[in.X]
	case 0x1E: // FX1E: I += VX
		c.i += uint16(c.v[in.X])
	case 0x29: // FX29: I = font glyph address of VX
		c.i = uint16(c.v[in.X]) * fontGlyphSize
	case 0x33: // FX33: BCD of VX at I, I+1, I+2
		value := c.v[in.X]
		c.memory[c.i&addressMask] = value / 100
		c.memory[(c.i+1)&addressMask] = value / 10 % 10
		c.memory[(c.i+2)&addressMask] = value % 10
	case 0x55: // FX55: store V0..VX at I, I advances
		for reg := byte(0); reg <= in.X; reg++ {
			c.memory[c.i&addressMask] = c.v[reg]
			c.i++
		}
	case 0x65: // FX65: load V0..VX from I, I advances
		for reg := byte(0); reg <= in.X; reg++ {
			c.v[reg] = c.memory[c.i&addressMask]
			c.i++
		}
	default:
		c.unrecognized(in)
	}
}

// waitForKey implements the FX0A press-and-release state machine. While
// no key has been captured the instruction rewinds the program counter
// and re-executes next cycle. Once a pressed key is captured it keeps
// spinning until that key is released; only the release commits the key
// into VX and resets the machine to idle.
func (c *Chip8) waitForKey(in Instruction) {
	if !c.waitActive {
		for key := byte(0); key < KeyCount; key++ {
			if c.keypad[key] {
				c.waitActive = true
				c.waitKey = key
				break
			}
		}
	}

	if !c.waitActive {
		c.pc -= 2
		return
	}

	if c.keypad[c.waitKey] {
		c.pc -= 2
		return
	}

	c.v[in.X] = c.waitKey
	c.waitActive = false
	c.waitKey = noWaitKey
}

// drawSprite implements the DXYN instruction. The sprite origin wraps
// into the display, the sprite body does not: drawing clips at the right
// and bottom edges instead of wrapping around. Pixels are XORed into the
// framebuffer; V[F] is set to 1 if any lit pixel is overwritten and is
// cleared before the draw, never mid-draw.
func (c *Chip8) drawSprite(in Instruction) {
	originX := uint16(c.v[in.X]) % DisplayWidth
	y := uint16(c.v[in.Y]) % DisplayHeight
	c.v[0xF] = 0

	for row := byte(0); row < in.N; row++ {
		data := c.memory[(c.i+uint16(row))&addressMask]
		x := originX

		for bit := 7; bit >= 0; bit-- {
			pixel := &c.display[y*DisplayWidth+x]
			lit := data&(1<<uint(bit)) != 0
			if lit && *pixel {
				c.v[0xF] = 1
			}
			*pixel = *pixel != lit

			x++
			if x >= DisplayWidth {
				break
			}
		}

		y++
		if y >= DisplayHeight {
			break
		}
	}
}

// unrecognized logs a diagnostic for an opcode outside the instruction
// set. The program counter has already advanced past it.
func (c *Chip8) unrecognized(in Instruction) {
	c.logger.Debug("unrecognized opcode",
		log.Hex("opcode", in.Opcode),
		log.Hex("address", c.pc-2))
}

// flag converts a flag condition into the 0 or 1 value written to V[F].
func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}
