// memory_test.go - accessor unit tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "testing"

func TestCode_Reads(t *testing.T) {
	emu := NewEmulator(1024, 0x20, 512)

	emu.Memory[0x20] = 0xEB
	emu.Memory[0x21] = 0xFB // -5 signed
	emu.Memory[0x22] = 0x78
	emu.Memory[0x23] = 0x56
	emu.Memory[0x24] = 0x34
	emu.Memory[0x25] = 0x12

	if got := emu.GetCode8(0); got != 0xEB {
		t.Errorf("GetCode8(0): got 0x%02X, want 0xEB", got)
	}
	if got := emu.GetCode8(1); got != 0xFB {
		t.Errorf("GetCode8(1): got 0x%02X, want 0xFB", got)
	}
	if got := emu.GetSignCode8(1); got != -5 {
		t.Errorf("GetSignCode8(1): got %d, want -5", got)
	}
	if got := emu.GetCode32(2); got != 0x12345678 {
		t.Errorf("GetCode32(2): got 0x%08X, want 0x12345678", got)
	}
	if got := emu.GetSignCode32(2); got != 0x12345678 {
		t.Errorf("GetSignCode32(2): got 0x%X, want 0x12345678", got)
	}

	// Code reads never move EIP.
	if emu.EIP != 0x20 {
		t.Errorf("EIP moved by code reads: got 0x%08X, want 0x20", emu.EIP)
	}
}

func TestMemory_Dword(t *testing.T) {
	emu := NewEmulator(1024, 0, 512)

	emu.SetMemory32(0x100, 0xAABBCCDD)

	// Little-endian layout
	if emu.Memory[0x100] != 0xDD || emu.Memory[0x103] != 0xAA {
		t.Errorf("byte layout: got % X, want DD CC BB AA", emu.Memory[0x100:0x104])
	}
	if got := emu.GetMemory32(0x100); got != 0xAABBCCDD {
		t.Errorf("GetMemory32: got 0x%08X, want 0xAABBCCDD", got)
	}
}

func TestRegister8_Aliasing(t *testing.T) {
	emu := NewEmulator(1024, 0, 512)

	emu.Registers[EAX] = 0x12345678
	if got := emu.GetRegister8(AL); got != 0x78 {
		t.Errorf("AL: got 0x%02X, want 0x78", got)
	}
	if got := emu.GetRegister8(AH); got != 0x56 {
		t.Errorf("AH: got 0x%02X, want 0x56", got)
	}

	emu.SetRegister8(AL, 0xAB)
	if emu.Registers[EAX] != 0x123456AB {
		t.Errorf("SetRegister8(AL): EAX got 0x%08X, want 0x123456AB", emu.Registers[EAX])
	}

	emu.SetRegister8(AH, 0xCD)
	if emu.Registers[EAX] != 0x1234CDAB {
		t.Errorf("SetRegister8(AH): EAX got 0x%08X, want 0x1234CDAB", emu.Registers[EAX])
	}

	emu.Registers[EBX] = 0xAABBCCDD
	if got := emu.GetRegister8(BL); got != 0xDD {
		t.Errorf("BL: got 0x%02X, want 0xDD", got)
	}
	if got := emu.GetRegister8(BH); got != 0xCC {
		t.Errorf("BH: got 0x%02X, want 0xCC", got)
	}
}

func TestStack_GrowsDownward(t *testing.T) {
	emu := NewEmulator(1024, 0, 512)

	emu.Push32(0xDEADBEEF)
	if emu.Registers[ESP] != 508 {
		t.Errorf("ESP after push: got %d, want 508", emu.Registers[ESP])
	}
	if got := emu.GetMemory32(508); got != 0xDEADBEEF {
		t.Errorf("stack slot: got 0x%08X, want 0xDEADBEEF", got)
	}

	if got := emu.Pop32(); got != 0xDEADBEEF {
		t.Errorf("Pop32: got 0x%08X, want 0xDEADBEEF", got)
	}
	if emu.Registers[ESP] != 512 {
		t.Errorf("ESP after pop: got %d, want 512", emu.Registers[ESP])
	}
}
