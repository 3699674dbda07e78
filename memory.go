// memory.go - register file, memory and instruction-stream accessors
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// -----------------------------------------------------------------------------
// Instruction stream
//
// Code reads take an explicit offset from the current EIP and never move
// it; each handler advances EIP once, by the instruction's known length.
// -----------------------------------------------------------------------------

// GetCode8 fetches the byte at EIP+index
func (e *Emulator) GetCode8(index int) uint8 {
	return e.Memory[e.EIP+uint32(index)]
}

// GetSignCode8 fetches the byte at EIP+index as a signed value
func (e *Emulator) GetSignCode8(index int) int8 {
	return int8(e.GetCode8(index))
}

// GetCode32 fetches the little-endian dword at EIP+index
func (e *Emulator) GetCode32(index int) uint32 {
	var value uint32
	for i := 0; i < 4; i++ {
		value |= uint32(e.GetCode8(index+i)) << (8 * i)
	}
	return value
}

// GetSignCode32 fetches the little-endian dword at EIP+index as a signed value
func (e *Emulator) GetSignCode32(index int) int32 {
	return int32(e.GetCode32(index))
}

// -----------------------------------------------------------------------------
// Register file
// -----------------------------------------------------------------------------

// GetRegister32 returns a 32-bit register value by index (EAX..EDI)
func (e *Emulator) GetRegister32(index uint8) uint32 {
	return e.Registers[index]
}

// SetRegister32 sets a 32-bit register value by index
func (e *Emulator) SetRegister32(index uint8, value uint32) {
	e.Registers[index] = value
}

// GetRegister8 returns an 8-bit sub-register by index
// (0-7: AL, CL, DL, BL, AH, CH, DH, BH). Aliasing only; no separate storage.
func (e *Emulator) GetRegister8(index uint8) uint8 {
	if index < 4 {
		return uint8(e.Registers[index] & 0xFF)
	}
	return uint8((e.Registers[index-4] >> 8) & 0xFF)
}

// SetRegister8 sets an 8-bit sub-register by index
func (e *Emulator) SetRegister8(index uint8, value uint8) {
	if index < 4 {
		e.Registers[index] = (e.Registers[index] &^ 0xFF) | uint32(value)
	} else {
		e.Registers[index-4] = (e.Registers[index-4] &^ 0xFF00) | (uint32(value) << 8)
	}
}

// -----------------------------------------------------------------------------
// Memory
// -----------------------------------------------------------------------------

// GetMemory8 reads the byte at an absolute address
func (e *Emulator) GetMemory8(address uint32) uint8 {
	return e.Memory[address]
}

// SetMemory8 writes a byte at an absolute address
func (e *Emulator) SetMemory8(address uint32, value uint8) {
	e.Memory[address] = value
}

// GetMemory32 reads the little-endian dword at an absolute address
func (e *Emulator) GetMemory32(address uint32) uint32 {
	var value uint32
	for i := uint32(0); i < 4; i++ {
		value |= uint32(e.GetMemory8(address+i)) << (8 * i)
	}
	return value
}

// SetMemory32 writes a little-endian dword at an absolute address
func (e *Emulator) SetMemory32(address uint32, value uint32) {
	for i := uint32(0); i < 4; i++ {
		e.SetMemory8(address+i, uint8(value>>(8*i)))
	}
}

// -----------------------------------------------------------------------------
// Stack
// -----------------------------------------------------------------------------

// Push32 pushes a 32-bit value onto the stack. The stack grows toward
// lower addresses: ESP is decremented by 4, then the value stored there.
func (e *Emulator) Push32(value uint32) {
	address := e.GetRegister32(ESP) - 4
	e.SetRegister32(ESP, address)
	e.SetMemory32(address, value)
}

// Pop32 pops a 32-bit value from the stack
func (e *Emulator) Pop32() uint32 {
	address := e.GetRegister32(ESP)
	value := e.GetMemory32(address)
	e.SetRegister32(ESP, address+4)
	return value
}
