// eflags.go - EFLAGS condition bits and the subtraction flag-update rule
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// Flag bit positions. Only these four are driven by the instruction
// subset in scope; all other EFLAGS bits pass through untouched.
const (
	FlagCF uint32 = 1 << 0  // Carry Flag
	FlagZF uint32 = 1 << 6  // Zero Flag
	FlagSF uint32 = 1 << 7  // Sign Flag
	FlagOF uint32 = 1 << 11 // Overflow Flag
)

// getFlag returns true if the specified flag is set
func (e *Emulator) getFlag(flag uint32) bool {
	return (e.Eflags & flag) != 0
}

// setFlag sets or clears a flag
func (e *Emulator) setFlag(flag uint32, set bool) {
	if set {
		e.Eflags |= flag
	} else {
		e.Eflags &^= flag
	}
}

// IsCarry returns the Carry Flag
func (e *Emulator) IsCarry() bool {
	return e.getFlag(FlagCF)
}

// IsZero returns the Zero Flag
func (e *Emulator) IsZero() bool {
	return e.getFlag(FlagZF)
}

// IsSign returns the Sign Flag
func (e *Emulator) IsSign() bool {
	return e.getFlag(FlagSF)
}

// IsOverflow returns the Overflow Flag
func (e *Emulator) IsOverflow() bool {
	return e.getFlag(FlagOF)
}

// UpdateEflagsSub derives CF/ZF/SF/OF from a subtraction v1 - v2 whose
// result was computed at 64-bit precision. This is the only path by which
// arithmetic updates flags; cmp calls it and discards the result.
//
//	carry:    a borrow out of bit 31 occurred (v1 < v2 unsigned)
//	zero:     the 32-bit result is 0
//	sign:     bit 31 of the 32-bit result is set
//	overflow: v1 and v2 have different signs and the result's sign
//	          differs from v1's (two's-complement subtraction rule)
func (e *Emulator) UpdateEflagsSub(v1, v2 uint32, result uint64) {
	sign1 := v1 >> 31
	sign2 := v2 >> 31
	signr := uint32(result>>31) & 1

	e.setFlag(FlagCF, result>>32 != 0)
	e.setFlag(FlagZF, uint32(result) == 0)
	e.setFlag(FlagSF, signr != 0)
	e.setFlag(FlagOF, sign1 != sign2 && sign1 != signr)
}
