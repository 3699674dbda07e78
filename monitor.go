// monitor.go - interactive machine monitor (raw-mode stdin, single key commands)
//
// Only instantiated in main.go for interactive use — never in tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Monitor single-steps an Emulator from the terminal. Output uses \r\n
// explicitly because the terminal sits in raw mode for the whole session.
type Monitor struct {
	runner *Runner
}

// NewMonitor creates a monitor over the given runner.
func NewMonitor(runner *Runner) *Monitor {
	return &Monitor{runner: runner}
}

// Run puts stdin into raw mode and processes single-key commands until
// the program halts or the user quits. The terminal state is restored on
// exit.
//
//	s: step one instruction      r: dump registers
//	d: disassemble at EIP        t: dump stack top
//	c: run until halt or error   q: quit
func (m *Monitor) Run() error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("monitor: failed to set raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	emu := m.runner.Emulator()
	fmt.Print("machine monitor: s)tep r)egs d)isasm t)stack c)ontinue q)uit\r\n")
	m.showLocation()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return err
		}

		switch buf[0] {
		case 's', ' ':
			if emu.EIP == 0 {
				fmt.Print("halted (EIP=0)\r\n")
				continue
			}
			if err := emu.Step(); err != nil {
				fmt.Printf("fatal: %v\r\n", err)
				return nil
			}
			m.runner.InstructionCount++
			m.showLocation()
		case 'r':
			m.dumpRegisters()
		case 'd':
			m.showLocation()
		case 't':
			m.dumpStack()
		case 'c':
			if err := m.runner.Run(); err != nil {
				fmt.Printf("fatal: %v\r\n", err)
			} else {
				fmt.Print("halted (EIP=0)\r\n")
			}
			return nil
		case 'q', 0x03: // q or Ctrl-C
			return nil
		}
	}
}

func (m *Monitor) showLocation() {
	emu := m.runner.Emulator()
	text, _ := Disassemble(emu, emu.EIP)
	fmt.Printf("EIP=0x%08X: %s\r\n", emu.EIP, text)
}

func (m *Monitor) dumpRegisters() {
	emu := m.runner.Emulator()
	for i, name := range reg32Names {
		fmt.Printf("%s = 0x%08X\r\n", name, emu.Registers[i])
	}
	fmt.Printf("EFLAGS = 0x%08X [CF=%t ZF=%t SF=%t OF=%t]\r\n",
		emu.Eflags, emu.IsCarry(), emu.IsZero(), emu.IsSign(), emu.IsOverflow())
}

// dumpStack shows the eight dwords from ESP upward.
func (m *Monitor) dumpStack() {
	emu := m.runner.Emulator()
	esp := emu.GetRegister32(ESP)
	for i := uint32(0); i < 8; i++ {
		addr := esp + i*4
		if uint64(addr)+4 > uint64(len(emu.Memory)) {
			break
		}
		fmt.Printf("[ESP+0x%02X] 0x%08X: 0x%08X\r\n", i*4, addr, emu.GetMemory32(addr))
	}
}
