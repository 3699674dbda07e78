// instructions.go - instruction handlers and the base opcode dispatch table
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "fmt"

// DecodeError is the fatal signal for a byte sequence with no handler:
// either a top-level opcode with no dispatch table entry, or a grouped
// opcode whose ModR/M sub-opcode field is unimplemented. The run loop
// must stop execution on it; nothing is retried or recovered.
type DecodeError struct {
	Opcode  uint8
	Escaped bool // opcode follows an 0x0F prefix
	Sub     int8 // group sub-opcode, -1 when not a group error
	EIP     uint32
}

func (err *DecodeError) Error() string {
	switch {
	case err.Escaped:
		return fmt.Sprintf("undefined opcode 0x0F 0x%02X at EIP=0x%08X", err.Opcode, err.EIP)
	case err.Sub >= 0:
		return fmt.Sprintf("undefined opcode 0x%02X /%d at EIP=0x%08X", err.Opcode, err.Sub, err.EIP)
	default:
		return fmt.Sprintf("undefined opcode 0x%02X at EIP=0x%08X", err.Opcode, err.EIP)
	}
}

// =============================================================================
// MOV Instructions
// =============================================================================

// mov r32, imm32: 5 bytes. The register lives in the low 3 bits of the
// opcode byte (0xB8+reg).
func (e *Emulator) opMOV_r32_imm32() error {
	reg := e.GetCode8(0) - 0xB8
	value := e.GetCode32(1)
	e.SetRegister32(reg, value)
	e.EIP += 5
	return nil
}

// mov rm32, imm32: opcode (0xC7) + ModR/M + imm32
func (e *Emulator) opMOV_rm32_imm32() error {
	e.EIP += 1
	m := e.parseModRM()
	e.EIP += uint32(m.Length)
	value := e.GetCode32(0)
	e.EIP += 4
	e.SetRm32(&m, value)
	return nil
}

// mov rm32, r32: opcode (0x89) + ModR/M
func (e *Emulator) opMOV_rm32_r32() error {
	e.EIP += 1
	m := e.parseModRM()
	e.EIP += uint32(m.Length)
	e.SetRm32(&m, e.GetR32(&m))
	return nil
}

// mov r32, rm32: opcode (0x8B) + ModR/M
func (e *Emulator) opMOV_r32_rm32() error {
	e.EIP += 1
	m := e.parseModRM()
	e.EIP += uint32(m.Length)
	e.SetR32(&m, e.GetRm32(&m))
	return nil
}

// =============================================================================
// ADD / CMP Instructions
// =============================================================================

// add rm32, r32: opcode (0x01) + ModR/M. Flags untouched.
func (e *Emulator) opADD_rm32_r32() error {
	e.EIP += 1
	m := e.parseModRM()
	e.EIP += uint32(m.Length)
	r32 := e.GetR32(&m)
	rm32 := e.GetRm32(&m)
	e.SetRm32(&m, rm32+r32)
	return nil
}

// cmp r32, rm32: opcode (0x3B) + ModR/M. Subtracts, discards the result,
// updates flags.
func (e *Emulator) opCMP_r32_rm32() error {
	e.EIP += 1
	m := e.parseModRM()
	e.EIP += uint32(m.Length)
	r32 := e.GetR32(&m)
	rm32 := e.GetRm32(&m)
	result := uint64(r32) - uint64(rm32)
	e.UpdateEflagsSub(r32, rm32, result)
	return nil
}

// =============================================================================
// Group 1 (opcode 0x83): add/sub/cmp rm32 with a sign-extended imm8
// =============================================================================

// The ModR/M reg field selects the operation. It is decoded once here and
// shared by the sub-handlers, which only consume the trailing immediate.
func (e *Emulator) opGrp83() error {
	start := e.EIP
	e.EIP += 1
	m := e.parseModRM()
	e.EIP += uint32(m.Length)

	switch m.Opcode {
	case 0:
		e.addRM32Imm8(&m)
	case 5:
		e.subRM32Imm8(&m)
	case 7:
		e.cmpRM32Imm8(&m)
	default:
		// Leave the halted machine pointing at the opcode byte.
		e.EIP = start
		return &DecodeError{Opcode: 0x83, Sub: int8(m.Opcode), EIP: start}
	}
	return nil
}

// add rm32, imm8. Flags untouched, unlike the sub/cmp forms of this group.
func (e *Emulator) addRM32Imm8(m *ModRM) {
	rm32 := e.GetRm32(m)
	imm8 := uint32(int32(e.GetSignCode8(0)))
	e.EIP += 1
	e.SetRm32(m, rm32+imm8)
}

// sub rm32, imm8
func (e *Emulator) subRM32Imm8(m *ModRM) {
	rm32 := e.GetRm32(m)
	imm8 := uint32(int32(e.GetSignCode8(0)))
	e.EIP += 1
	result := uint64(rm32) - uint64(imm8)
	e.SetRm32(m, uint32(result))
	e.UpdateEflagsSub(rm32, imm8, result)
}

// cmp rm32, imm8
func (e *Emulator) cmpRM32Imm8(m *ModRM) {
	rm32 := e.GetRm32(m)
	imm8 := uint32(int32(e.GetSignCode8(0)))
	e.EIP += 1
	result := uint64(rm32) - uint64(imm8)
	e.UpdateEflagsSub(rm32, imm8, result)
}

// =============================================================================
// Group 5 (opcode 0xFF)
// =============================================================================

func (e *Emulator) opGrpFF() error {
	start := e.EIP
	e.EIP += 1
	m := e.parseModRM()
	e.EIP += uint32(m.Length)

	switch m.Opcode {
	case 0:
		e.incRM32(&m)
	default:
		e.EIP = start
		return &DecodeError{Opcode: 0xFF, Sub: int8(m.Opcode), EIP: start}
	}
	return nil
}

// inc rm32. Flags untouched.
func (e *Emulator) incRM32(m *ModRM) {
	e.SetRm32(m, e.GetRm32(m)+1)
}

// =============================================================================
// Stack Instructions
// =============================================================================

// push r32: single byte, register in the low 3 bits (0x50+reg)
func (e *Emulator) opPUSH_r32() error {
	reg := e.GetCode8(0) - 0x50
	e.Push32(e.GetRegister32(reg))
	e.EIP += 1
	return nil
}

// push imm32: opcode (0x68) + imm32
func (e *Emulator) opPUSH_imm32() error {
	value := e.GetCode32(1)
	e.Push32(value)
	e.EIP += 5
	return nil
}

// push imm8: opcode (0x6A) + imm8, zero-extended to 32 bits
func (e *Emulator) opPUSH_imm8() error {
	value := uint32(e.GetCode8(1))
	e.Push32(value)
	e.EIP += 2
	return nil
}

// pop r32: single byte, register in the low 3 bits (0x58+reg)
func (e *Emulator) opPOP_r32() error {
	reg := e.GetCode8(0) - 0x58
	e.SetRegister32(reg, e.Pop32())
	e.EIP += 1
	return nil
}

// =============================================================================
// Control Transfer Instructions
// =============================================================================

// call rel32: pushes the address of the following instruction, then jumps
// by a signed 32-bit displacement relative to that address.
func (e *Emulator) opCALL_rel32() error {
	offset := e.GetSignCode32(1)
	e.Push32(e.EIP + 5)
	e.EIP += uint32(offset + 5)
	return nil
}

// ret: pops the return address into EIP
func (e *Emulator) opRET() error {
	e.EIP = e.Pop32()
	return nil
}

// leave: ESP <- EBP, then pop into EBP
func (e *Emulator) opLEAVE() error {
	e.SetRegister32(ESP, e.GetRegister32(EBP))
	e.SetRegister32(EBP, e.Pop32())
	e.EIP += 1
	return nil
}

// jmp short (0xEB): 8-bit signed displacement, 2-byte instruction
func (e *Emulator) opJMP_short() error {
	offset := int32(e.GetSignCode8(1))
	e.EIP += uint32(offset + 2)
	return nil
}

// jmp near (0xE9): 32-bit signed displacement, 5-byte instruction
func (e *Emulator) opJMP_near() error {
	diff := e.GetSignCode32(1)
	e.EIP += uint32(diff + 5)
	return nil
}

// jccShort is the one code path for every 2-byte conditional jump. The
// displacement is read unconditionally (the instruction length is the
// same either way) and contributes 0 when the branch is not taken.
func (e *Emulator) jccShort(cond bool) error {
	offset := int32(e.GetSignCode8(1))
	var diff int32
	if cond {
		diff = offset
	}
	e.EIP += uint32(diff + 2)
	return nil
}

func (e *Emulator) opJO_rel8() error  { return e.jccShort(e.IsOverflow()) }
func (e *Emulator) opJNO_rel8() error { return e.jccShort(!e.IsOverflow()) }
func (e *Emulator) opJC_rel8() error  { return e.jccShort(e.IsCarry()) }
func (e *Emulator) opJNC_rel8() error { return e.jccShort(!e.IsCarry()) }
func (e *Emulator) opJZ_rel8() error  { return e.jccShort(e.IsZero()) }
func (e *Emulator) opJNZ_rel8() error { return e.jccShort(!e.IsZero()) }
func (e *Emulator) opJS_rel8() error  { return e.jccShort(e.IsSign()) }
func (e *Emulator) opJNS_rel8() error { return e.jccShort(!e.IsSign()) }

// jl: signed less-than is SF != OF after a compare
func (e *Emulator) opJL_rel8() error { return e.jccShort(e.IsSign() != e.IsOverflow()) }

// jle: ZF or SF != OF
func (e *Emulator) opJLE_rel8() error {
	return e.jccShort(e.IsZero() || e.IsSign() != e.IsOverflow())
}

// =============================================================================
// Dispatch Table
// =============================================================================

// initInstructions populates the base opcode dispatch table. Opcodes that
// encode a register in their low 3 bits are bound over their whole range,
// one entry per register. The table is read-only after this.
func (e *Emulator) initInstructions() {
	e.instructions[0x01] = (*Emulator).opADD_rm32_r32
	e.instructions[0x0F] = (*Emulator).opTwoByte
	e.instructions[0x3B] = (*Emulator).opCMP_r32_rm32

	// 0x50-0x57: PUSH r32
	for i := 0; i < 8; i++ {
		e.instructions[0x50+i] = (*Emulator).opPUSH_r32
	}

	// 0x58-0x5F: POP r32
	for i := 0; i < 8; i++ {
		e.instructions[0x58+i] = (*Emulator).opPOP_r32
	}

	e.instructions[0x68] = (*Emulator).opPUSH_imm32
	e.instructions[0x6A] = (*Emulator).opPUSH_imm8

	// 0x70-0x7E: Jcc rel8
	e.instructions[0x70] = (*Emulator).opJO_rel8
	e.instructions[0x71] = (*Emulator).opJNO_rel8
	e.instructions[0x72] = (*Emulator).opJC_rel8
	e.instructions[0x73] = (*Emulator).opJNC_rel8
	e.instructions[0x74] = (*Emulator).opJZ_rel8
	e.instructions[0x75] = (*Emulator).opJNZ_rel8
	e.instructions[0x78] = (*Emulator).opJS_rel8
	e.instructions[0x79] = (*Emulator).opJNS_rel8
	e.instructions[0x7C] = (*Emulator).opJL_rel8
	e.instructions[0x7E] = (*Emulator).opJLE_rel8

	e.instructions[0x83] = (*Emulator).opGrp83

	e.instructions[0x89] = (*Emulator).opMOV_rm32_r32
	e.instructions[0x8B] = (*Emulator).opMOV_r32_rm32

	// 0xB8-0xBF: MOV r32, imm32
	for i := 0; i < 8; i++ {
		e.instructions[0xB8+i] = (*Emulator).opMOV_r32_imm32
	}

	e.instructions[0xC3] = (*Emulator).opRET
	e.instructions[0xC7] = (*Emulator).opMOV_rm32_imm32
	e.instructions[0xC9] = (*Emulator).opLEAVE

	e.instructions[0xE8] = (*Emulator).opCALL_rel32
	e.instructions[0xE9] = (*Emulator).opJMP_near
	e.instructions[0xEB] = (*Emulator).opJMP_short

	e.instructions[0xFF] = (*Emulator).opGrpFF
}
