// runner_test.go - loader and run loop tests
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRunner_LoadProgramData(t *testing.T) {
	emu := NewEmulator(0x10000, 0x7C00, 0x7C00)
	runner := NewRunner(emu, 0x7C00)

	if err := runner.LoadProgramData([]byte{0xB8, 0x01, 0x02, 0x03, 0x04}); err != nil {
		t.Fatalf("LoadProgramData: %v", err)
	}
	if emu.Memory[0x7C00] != 0xB8 || emu.Memory[0x7C04] != 0x04 {
		t.Error("program bytes not placed at the load address")
	}
}

func TestRunner_LoadProgramTooLarge(t *testing.T) {
	emu := NewEmulator(0x100, 0x80, 0x80)
	runner := NewRunner(emu, 0x80)

	if err := runner.LoadProgramData(make([]byte, 0x100)); err == nil {
		t.Error("expected an error for a program exceeding memory")
	}
}

// Transfer to address 0 is the halt convention: a ret with 0 on the
// stack ends the run.
func TestRunner_HaltsAtZero(t *testing.T) {
	emu := NewEmulator(0x10000, 0x7C00, 0x7C00)
	runner := NewRunner(emu, 0x7C00)

	emu.Push32(0) // return-to-zero sentinel
	err := runner.LoadProgramData([]byte{
		0xB8, 0x2A, 0x00, 0x00, 0x00, // MOV EAX, 42
		0xC3, // RET
	})
	if err != nil {
		t.Fatalf("LoadProgramData: %v", err)
	}

	if err := runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if emu.Registers[EAX] != 42 {
		t.Errorf("EAX: got %d, want 42", emu.Registers[EAX])
	}
	if emu.EIP != 0 {
		t.Errorf("EIP: got 0x%08X, want 0", emu.EIP)
	}
	if runner.InstructionCount != 2 {
		t.Errorf("InstructionCount: got %d, want 2", runner.InstructionCount)
	}
}

func TestRunner_StepBudget(t *testing.T) {
	emu := NewEmulator(0x10000, 0x7C00, 0x7C00)
	runner := NewRunner(emu, 0x7C00)
	runner.MaxSteps = 10

	// JMP $ spins forever
	if err := runner.LoadProgramData([]byte{0xEB, 0xFE}); err != nil {
		t.Fatalf("LoadProgramData: %v", err)
	}

	err := runner.Run()
	if err == nil {
		t.Fatal("expected the step budget to stop the run")
	}
	if runner.InstructionCount != 10 {
		t.Errorf("InstructionCount: got %d, want 10", runner.InstructionCount)
	}
}

func TestRunner_SurfacesDecodeError(t *testing.T) {
	emu := NewEmulator(0x10000, 0x7C00, 0x7C00)
	runner := NewRunner(emu, 0x7C00)

	if err := runner.LoadProgramData([]byte{0x90}); err != nil {
		t.Fatalf("LoadProgramData: %v", err)
	}

	err := runner.Run()
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("error: got %v, want *DecodeError", err)
	}
	if derr.Opcode != 0x90 || derr.EIP != 0x7C00 {
		t.Errorf("DecodeError: got opcode=0x%02X EIP=0x%08X, want 0x90 at 0x7C00", derr.Opcode, derr.EIP)
	}
}

func TestRunner_DumpRegisters(t *testing.T) {
	emu := NewEmulator(0x10000, 0x1234, 0x8000)
	runner := NewRunner(emu, 0x7C00)
	emu.Registers[EAX] = 0x29

	var buf bytes.Buffer
	runner.DumpRegisters(&buf)
	out := buf.String()

	if !strings.Contains(out, "EAX = 0x00000029") {
		t.Errorf("dump missing EAX line:\n%s", out)
	}
	if !strings.Contains(out, "EIP = 0x00001234") {
		t.Errorf("dump missing EIP line:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines != RegistersCount+1 {
		t.Errorf("dump line count: got %d, want %d", lines, RegistersCount+1)
	}
}
