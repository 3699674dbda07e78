// runner.go - program loader and fetch-decode-execute run loop
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Boot-sector origin: programs are loaded and entered at 0x7C00 unless
// told otherwise.
const defaultLoadAddr = 0x7C00

// Runner owns an Emulator and drives it: loads a flat binary into memory,
// then repeatedly steps the core until the program transfers to address 0
// (the halt convention), the step budget runs out, or a fatal decode
// error surfaces.
type Runner struct {
	emu      *Emulator
	loadAddr uint32

	// MaxSteps bounds the run loop; 0 means unbounded.
	MaxSteps uint64

	// Trace prints each instruction before executing it.
	Trace bool

	// Performance monitoring
	PerfEnabled      bool
	InstructionCount uint64
	perfStartTime    time.Time
	lastPerfReport   time.Time
}

// NewRunner creates a runner loading programs at the given address.
func NewRunner(emu *Emulator, loadAddr uint32) *Runner {
	return &Runner{emu: emu, loadAddr: loadAddr}
}

// Emulator returns the machine state being driven.
func (r *Runner) Emulator() *Emulator {
	return r.emu
}

// LoadProgramData copies a flat binary image into memory at the load
// address. The instruction stream is whatever bytes sit there.
func (r *Runner) LoadProgramData(data []byte) error {
	if uint64(r.loadAddr)+uint64(len(data)) > uint64(len(r.emu.Memory)) {
		return fmt.Errorf("program too large: %d bytes at 0x%X exceeds %d bytes of memory",
			len(data), r.loadAddr, len(r.emu.Memory))
	}
	copy(r.emu.Memory[r.loadAddr:], data)
	return nil
}

// LoadProgram loads a binary program from a file
func (r *Runner) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return r.LoadProgramData(data)
}

// Run executes until halt. Returns the decode error that stopped
// execution, or nil on a normal halt.
func (r *Runner) Run() error {
	if r.PerfEnabled {
		r.perfStartTime = time.Now()
		r.lastPerfReport = r.perfStartTime
	}
	r.InstructionCount = 0

	for {
		if r.emu.EIP == 0 {
			return nil
		}
		if r.MaxSteps > 0 && r.InstructionCount >= r.MaxSteps {
			return fmt.Errorf("step budget of %d instructions exhausted at EIP=0x%08X",
				r.MaxSteps, r.emu.EIP)
		}

		if r.Trace {
			text, _ := Disassemble(r.emu, r.emu.EIP)
			fmt.Printf("EIP=0x%08X: %s\n", r.emu.EIP, text)
		}

		if err := r.emu.Step(); err != nil {
			return err
		}
		r.InstructionCount++

		if r.PerfEnabled && r.InstructionCount&0xFFFFFF == 0 { // Every ~16M instructions
			now := time.Now()
			if now.Sub(r.lastPerfReport) >= time.Second {
				elapsed := now.Sub(r.perfStartTime).Seconds()
				mips := float64(r.InstructionCount) / elapsed / 1_000_000
				fmt.Printf("x86: %.2f MIPS (%.0f instructions in %.1fs)\n",
					mips, float64(r.InstructionCount), elapsed)
				r.lastPerfReport = now
			}
		}
	}
}

// DumpRegisters writes the register file and EIP, one per line, in
// enum order.
func (r *Runner) DumpRegisters(w io.Writer) {
	names := [RegistersCount]string{"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI"}
	for i, name := range names {
		fmt.Fprintf(w, "%s = 0x%08X\n", name, r.emu.Registers[i])
	}
	fmt.Fprintf(w, "EIP = 0x%08X\n", r.emu.EIP)
}
