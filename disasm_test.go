// disasm_test.go - disassembler tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "testing"

func TestDisassemble_Forms(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		text  string
		len   uint32
	}{
		{"mov r32 imm32", []byte{0xB8, 0x78, 0x56, 0x34, 0x12}, "MOV EAX, 0x12345678", 5},
		{"mov rm32 r32", []byte{0x89, 0xD8}, "MOV EAX, EBX", 2},
		{"mov r32 rm32 disp8", []byte{0x8B, 0x45, 0xFC}, "MOV EAX, [EBP-0x04]", 3},
		{"mov rm32 imm32", []byte{0xC7, 0x03, 0x01, 0x00, 0x00, 0x00}, "MOV [EBX], 0x00000001", 6},
		{"add rm32 r32", []byte{0x01, 0xC8}, "ADD EAX, ECX", 2},
		{"grp1 add", []byte{0x83, 0xC0, 0x05}, "ADD EAX, 5", 3},
		{"grp1 sub", []byte{0x83, 0xE9, 0x01}, "SUB ECX, 1", 3},
		{"grp1 cmp", []byte{0x83, 0xF8, 0x0A}, "CMP EAX, 10", 3},
		{"cmp r32 rm32", []byte{0x3B, 0xC1}, "CMP EAX, ECX", 2},
		{"grp5 inc", []byte{0xFF, 0x06}, "INC [ESI]", 2},
		{"push r32", []byte{0x55}, "PUSH EBP", 1},
		{"pop r32", []byte{0x5D}, "POP EBP", 1},
		{"push imm8", []byte{0x6A, 0x0A}, "PUSH 0x0A", 2},
		{"ret", []byte{0xC3}, "RET", 1},
		{"leave", []byte{0xC9}, "LEAVE", 1},
		{"call", []byte{0xE8, 0x02, 0x00, 0x00, 0x00}, "CALL 0x00000107", 5},
		{"jmp short", []byte{0xEB, 0x05}, "JMP SHORT 0x00000107", 2},
		{"jnz short", []byte{0x75, 0xF9}, "JNZ 0x000000FB", 2},
		{"jz near", []byte{0x0F, 0x84, 0x00, 0x02, 0x00, 0x00}, "JZ 0x00000306", 6},
		{"unknown", []byte{0x90}, "db 0x90", 1},
		{"unknown two-byte", []byte{0x0F, 0xA2}, "db 0x0F, 0xA2", 2},
		{"unbound short jcc", []byte{0x77, 0x05}, "db 0x77", 1},
		{"unbound near jcc", []byte{0x0F, 0x80, 0x00, 0x02, 0x00, 0x00}, "db 0x0F, 0x80", 2},
	}

	for _, tt := range tests {
		emu := NewEmulator(0x1000, 0x100, 0x800)
		copy(emu.Memory[0x100:], tt.bytes)

		text, length := Disassemble(emu, 0x100)
		if text != tt.text {
			t.Errorf("%s: text got %q, want %q", tt.name, text, tt.text)
		}
		if length != tt.len {
			t.Errorf("%s: length got %d, want %d", tt.name, length, tt.len)
		}
	}
}

// For straight-line instructions the decoded length must equal the EIP
// delta the handler actually takes.
func TestDisassemble_LengthMatchesExecution(t *testing.T) {
	programs := [][]byte{
		{0xB9, 0x01, 0x00, 0x00, 0x00},       // MOV ECX, 1
		{0x89, 0xC8},                         // MOV EAX, ECX
		{0xC7, 0x45, 0xFC, 0, 0, 0, 0},       // MOV [EBP-4], 0
		{0x01, 0xC8},                         // ADD EAX, ECX
		{0x83, 0xC0, 0x01},                   // ADD EAX, 1
		{0x83, 0xE8, 0x01},                   // SUB EAX, 1
		{0x83, 0xF8, 0x00},                   // CMP EAX, 0
		{0x3B, 0xC1},                         // CMP EAX, ECX
		{0xFF, 0xC0},                         // INC EAX
		{0x50},                               // PUSH EAX
		{0x58},                               // POP EAX
		{0x68, 0x01, 0x00, 0x00, 0x00},       // PUSH imm32
		{0x6A, 0x01},                         // PUSH imm8
		{0xC9},                               // LEAVE
	}

	for _, prog := range programs {
		emu := NewEmulator(0x10000, 0x400, 0x8000)
		emu.Registers[EBP] = 0x2000
		copy(emu.Memory[0x400:], prog)

		_, length := Disassemble(emu, 0x400)
		if err := emu.Step(); err != nil {
			t.Fatalf("% X: Step: %v", prog, err)
		}
		if got := emu.EIP - 0x400; got != length {
			t.Errorf("% X: EIP delta %d != disasm length %d", prog, got, length)
		}
	}
}
