// instructions_0f.go - 0x0F-prefixed opcodes (near conditional jumps)
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// opTwoByte dispatches on the byte following an 0x0F prefix.
func (e *Emulator) opTwoByte() error {
	second := e.GetCode8(1)
	handler := e.instructions0F[second]
	if handler == nil {
		return &DecodeError{Opcode: second, Escaped: true, Sub: -1, EIP: e.EIP}
	}
	return handler(e)
}

// jccNear is the 32-bit-displacement twin of jccShort: 6-byte instruction
// (0x0F, opcode, rel32), displacement read unconditionally and contributing
// 0 when the branch is not taken.
func (e *Emulator) jccNear(cond bool) error {
	offset := e.GetSignCode32(2)
	var diff int32
	if cond {
		diff = offset
	}
	e.EIP += uint32(diff + 6)
	return nil
}

func (e *Emulator) opJC_rel32() error  { return e.jccNear(e.IsCarry()) }
func (e *Emulator) opJNC_rel32() error { return e.jccNear(!e.IsCarry()) }
func (e *Emulator) opJZ_rel32() error  { return e.jccNear(e.IsZero()) }
func (e *Emulator) opJNZ_rel32() error { return e.jccNear(!e.IsZero()) }

// jna: not above is CF or ZF after an unsigned compare
func (e *Emulator) opJNA_rel32() error { return e.jccNear(e.IsCarry() || e.IsZero()) }

// ja: above is neither CF nor ZF
func (e *Emulator) opJA_rel32() error { return e.jccNear(!e.IsCarry() && !e.IsZero()) }

// jg: signed greater-than is ZF clear and SF == OF
func (e *Emulator) opJG_rel32() error {
	return e.jccNear(!e.IsZero() && e.IsSign() == e.IsOverflow())
}

// initInstructions0F populates the second-level dispatch table for the
// 0x0F prefix. Only the near conditional-jump family is implemented.
func (e *Emulator) initInstructions0F() {
	e.instructions0F[0x82] = (*Emulator).opJC_rel32
	e.instructions0F[0x83] = (*Emulator).opJNC_rel32
	e.instructions0F[0x84] = (*Emulator).opJZ_rel32
	e.instructions0F[0x85] = (*Emulator).opJNZ_rel32
	e.instructions0F[0x86] = (*Emulator).opJNA_rel32
	e.instructions0F[0x87] = (*Emulator).opJA_rel32
	e.instructions0F[0x8F] = (*Emulator).opJG_rel32
}
