// emulator.go - x86 emulator machine state (386 32-bit subset, flat memory model)
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// General purpose register indices, in ModR/M REG field encoding order:
// EAX: 000, ECX: 001 ... EDI: 111
const (
	EAX = iota
	ECX
	EDX
	EBX
	ESP
	EBP
	ESI
	EDI
	RegistersCount
)

// 8-bit sub-register indices over the same storage.
// AL..BL are the low bytes of EAX..EBX, AH..BH the next byte up.
const (
	AL = EAX
	CL = ECX
	DL = EDX
	BL = EBX
	AH = AL + 4
	CH = CL + 4
	DH = DL + 4
	BH = BL + 4
)

// Segment register indices
const (
	ES = iota
	CS
	SS
	DS
	FS
	GS
	SegmentRegistersCount
)

// Control register indices
const (
	CR0 = iota
	CR1
	CR2
	CR3
	CR4
	ControlRegistersCount
)

// Exception numbers (vector order). Carried in the state for forward
// extension; the instruction subset in scope never raises one.
const (
	ExcNone = iota
	ExcDE
	ExcDB
	ExcBP
	ExcOF
	ExcBR
	ExcUD
	ExcNM
	ExcDF
	ExcTS
	ExcNP
	ExcSS
	ExcGP
	ExcPF
	ExcMF
	ExcAC
	ExcMC
	ExcXF
	ExcVE
	ExcSX
)

// Gdtr is the global descriptor table register: 16-bit limit, 32-bit base.
type Gdtr struct {
	Limit uint16
	Base  uint32
}

// instructionFunc executes one instruction starting at the current EIP.
// Each handler decodes its own ModR/M and immediate bytes and is solely
// responsible for advancing EIP by the instruction's encoded length.
type instructionFunc func(*Emulator) error

// Emulator is the complete machine state: register file, flags, flat
// memory, instruction pointer and the auxiliary registers. It is owned
// and mutated by a single goroutine; there is no locking.
type Emulator struct {
	Registers        [RegistersCount]uint32
	Eflags           uint32
	SegmentRegisters [SegmentRegistersCount]uint16
	ControlRegisters [ControlRegistersCount]uint32
	Gdtr             Gdtr
	Exception        uint8

	// Flat byte-addressable memory. Allocated once at creation, never
	// resized. All addressing is a plain offset into this slice.
	Memory []byte

	// EIP always points at the opcode byte of the next instruction.
	EIP uint32

	// Instruction dispatch tables: one entry per possible first opcode
	// byte, nil = unimplemented. instructions0F is keyed by the byte
	// following an 0x0F prefix. Read-only after construction.
	instructions   [256]instructionFunc
	instructions0F [256]instructionFunc
}

// NewEmulator creates a machine with memSize bytes of memory, EIP at the
// given entry point and ESP preloaded for stack use.
func NewEmulator(memSize, eip, esp uint32) *Emulator {
	emu := &Emulator{
		Memory: make([]byte, memSize),
		EIP:    eip,
	}
	emu.Registers[ESP] = esp
	emu.initInstructions()
	emu.initInstructions0F()
	return emu
}

// Step executes the single instruction at the current EIP. A byte with no
// dispatch table entry is a fatal decode error; execution must not continue
// past it.
func (e *Emulator) Step() error {
	opcode := e.GetCode8(0)
	handler := e.instructions[opcode]
	if handler == nil {
		return &DecodeError{Opcode: opcode, Sub: -1, EIP: e.EIP}
	}
	return handler(e)
}
