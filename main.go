// main.go - Main entry point for the dax86 x86 emulator
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
)

const defaultMemorySize = 1024 * 1024 // 1MB

func main() {
	var (
		loadAddr  string
		entryAddr string
		memSize   uint
		maxSteps  uint64
		trace     bool
		monitor   bool
		perf      bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&loadAddr, "org", fmt.Sprintf("0x%X", defaultLoadAddr), "Load address (hex or decimal)")
	flagSet.StringVar(&entryAddr, "entry", "", "Entry point, defaults to the load address (hex or decimal)")
	flagSet.UintVar(&memSize, "mem", defaultMemorySize, "Memory size in bytes")
	flagSet.Uint64Var(&maxSteps, "steps", 0, "Stop after this many instructions (0 = unbounded)")
	flagSet.BoolVar(&trace, "trace", false, "Disassemble each instruction before executing it")
	flagSet.BoolVar(&monitor, "monitor", false, "Start the interactive machine monitor")
	flagSet.BoolVar(&perf, "perf", false, "Report MIPS while running")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./dax86 [--org 0x7C00] [--entry addr] [--mem bytes] [--steps n] [--trace] [--monitor] [--perf] filename")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	org, err := parseAddrFlag(loadAddr)
	if err != nil {
		fmt.Printf("Error: bad -org value: %v\n", err)
		os.Exit(1)
	}
	entry := org
	if entryAddr != "" {
		if entry, err = parseAddrFlag(entryAddr); err != nil {
			fmt.Printf("Error: bad -entry value: %v\n", err)
			os.Exit(1)
		}
	}

	// ESP starts at the load origin; the stack grows away from the code.
	emu := NewEmulator(uint32(memSize), entry, org)
	runner := NewRunner(emu, org)
	runner.MaxSteps = maxSteps
	runner.Trace = trace
	runner.PerfEnabled = perf

	if err := runner.LoadProgram(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if monitor {
		if err := NewMonitor(runner).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		runner.DumpRegisters(os.Stdout)
		return
	}

	runErr := runner.Run()
	fmt.Printf("\nend of program (%d instructions)\n\n", runner.InstructionCount)
	runner.DumpRegisters(os.Stdout)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}

func parseAddrFlag(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}
