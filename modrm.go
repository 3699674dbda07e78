// modrm.go - ModR/M addressing-mode decoding and effective operand access
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "fmt"

// ModRM is the decoded form of a ModR/M byte plus its trailing
// displacement. Produced and consumed within a single instruction.
//
//	| 7 6 | 5 4 3        | 2 1 0 |
//	| mod | reg / opcode | rm    |
//
// The reg field doubles as a group sub-opcode for grouped instructions
// (0x83, 0xFF), hence the Opcode name. Length is the total number of
// bytes the encoding occupies; the calling handler adds it to EIP.
type ModRM struct {
	Mod    uint8
	Opcode uint8 // the REG field
	Rm     uint8
	SIB    uint8
	Disp8  int8
	Disp32 int32
	Length uint8
}

// Reg returns the REG field under its register-selector meaning.
func (m *ModRM) Reg() uint8 {
	return m.Opcode
}

// parseModRMAt decodes the ModR/M byte at EIP+offset along with exactly
// the displacement bytes its mod field calls for. EIP is not moved.
func (e *Emulator) parseModRMAt(offset int) ModRM {
	code := e.GetCode8(offset)
	m := ModRM{
		Mod:    (code & 0xC0) >> 6,
		Opcode: (code & 0x38) >> 3,
		Rm:     code & 0x07,
		Length: 1,
	}

	// A memory operand with rm=100 carries an SIB byte. It is consumed
	// so instruction lengths stay exact; addressing through it is not
	// supported by this instruction subset.
	if m.Mod != 3 && m.Rm == 4 {
		m.SIB = e.GetCode8(offset + int(m.Length))
		m.Length++
	}

	if (m.Mod == 0 && m.Rm == 5) || m.Mod == 2 {
		m.Disp32 = e.GetSignCode32(offset + int(m.Length))
		m.Length += 4
	} else if m.Mod == 1 {
		m.Disp8 = e.GetSignCode8(offset + int(m.Length))
		m.Length++
	}
	return m
}

// parseModRM decodes the ModR/M encoding at the current EIP, i.e. with
// the opcode byte already stepped over.
func (e *Emulator) parseModRM() ModRM {
	return e.parseModRMAt(0)
}

// calcMemoryAddress resolves a memory-mode ModR/M to an absolute address:
// base register named by rm plus the mod-selected displacement.
func (e *Emulator) calcMemoryAddress(m *ModRM) uint32 {
	if m.Mod != 3 && m.Rm == 4 {
		panic(fmt.Sprintf("SIB addressing not implemented: ModR/M mod=%d rm=%d", m.Mod, m.Rm))
	}
	switch m.Mod {
	case 0:
		if m.Rm == 5 {
			return uint32(m.Disp32)
		}
		return e.GetRegister32(m.Rm)
	case 1:
		return e.GetRegister32(m.Rm) + uint32(int32(m.Disp8))
	case 2:
		return e.GetRegister32(m.Rm) + uint32(m.Disp32)
	default:
		panic("calcMemoryAddress: register-direct operand has no address")
	}
}

// GetRm32 reads the 32-bit effective operand a ModR/M resolves to:
// a register in mod=11, memory otherwise.
func (e *Emulator) GetRm32(m *ModRM) uint32 {
	if m.Mod == 3 {
		return e.GetRegister32(m.Rm)
	}
	return e.GetMemory32(e.calcMemoryAddress(m))
}

// SetRm32 writes the 32-bit effective operand a ModR/M resolves to.
func (e *Emulator) SetRm32(m *ModRM, value uint32) {
	if m.Mod == 3 {
		e.SetRegister32(m.Rm, value)
	} else {
		e.SetMemory32(e.calcMemoryAddress(m), value)
	}
}

// GetR32 reads the register named by the REG field.
func (e *Emulator) GetR32(m *ModRM) uint32 {
	return e.GetRegister32(m.Reg())
}

// SetR32 writes the register named by the REG field.
func (e *Emulator) SetR32(m *ModRM, value uint32) {
	e.SetRegister32(m.Reg(), value)
}
