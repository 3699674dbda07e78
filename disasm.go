// disasm.go - single-instruction disassembler for the implemented opcode set
//
// Used by trace mode and the machine monitor. Decode only; never mutates
// machine state.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "fmt"

var reg32Names = [8]string{"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI"}

// Condition names for the short Jcc range 0x70-0x7F, in opcode order.
var condNames = [16]string{
	"O", "NO", "C", "NC", "Z", "NZ", "BE", "A",
	"S", "NS", "P", "NP", "L", "GE", "LE", "G",
}

// isShortJcc reports whether op is one of the short conditional jumps
// bound in the dispatch table. The other 0x70-0x7F encodings have no
// handler and fall through to the raw-byte form.
func isShortJcc(op byte) bool {
	switch op {
	case 0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x78, 0x79, 0x7C, 0x7E:
		return true
	}
	return false
}

type disasm struct {
	emu *Emulator
	pos uint32
}

func (d *disasm) readByte() byte {
	b := d.emu.GetMemory8(d.pos)
	d.pos++
	return b
}

func (d *disasm) readDword() uint32 {
	v := d.emu.GetMemory32(d.pos)
	d.pos += 4
	return v
}

// modRM renders the effective operand of a ModR/M encoding and consumes
// its bytes.
func (d *disasm) modRM() (operand string, reg uint8) {
	b := d.readByte()
	mod := (b >> 6) & 3
	reg = (b >> 3) & 7
	rm := b & 7

	if mod == 3 {
		return reg32Names[rm], reg
	}
	if rm == 4 {
		// SIB addressing is outside the implemented subset; still
		// consume the byte so lengths stay right.
		sib := d.readByte()
		return fmt.Sprintf("[SIB=0x%02X]", sib), reg
	}
	if mod == 0 && rm == 5 {
		return fmt.Sprintf("[0x%08X]", d.readDword()), reg
	}

	switch mod {
	case 1:
		disp := int8(d.readByte())
		if disp < 0 {
			return fmt.Sprintf("[%s-0x%02X]", reg32Names[rm], -int16(disp)), reg
		}
		return fmt.Sprintf("[%s+0x%02X]", reg32Names[rm], disp), reg
	case 2:
		return fmt.Sprintf("[%s+0x%08X]", reg32Names[rm], d.readDword()), reg
	default:
		return fmt.Sprintf("[%s]", reg32Names[rm]), reg
	}
}

// Disassemble decodes the single instruction at addr and returns its text
// and encoded byte length.
func Disassemble(e *Emulator, addr uint32) (string, uint32) {
	d := &disasm{emu: e, pos: addr}
	op := d.readByte()

	var text string
	switch {
	case op == 0x01:
		rm, reg := d.modRM()
		text = fmt.Sprintf("ADD %s, %s", rm, reg32Names[reg])
	case op == 0x0F:
		text = d.twoByte(addr)
	case op == 0x3B:
		rm, reg := d.modRM()
		text = fmt.Sprintf("CMP %s, %s", reg32Names[reg], rm)
	case op >= 0x50 && op <= 0x57:
		text = fmt.Sprintf("PUSH %s", reg32Names[op-0x50])
	case op >= 0x58 && op <= 0x5F:
		text = fmt.Sprintf("POP %s", reg32Names[op-0x58])
	case op == 0x68:
		text = fmt.Sprintf("PUSH 0x%08X", d.readDword())
	case op == 0x6A:
		text = fmt.Sprintf("PUSH 0x%02X", d.readByte())
	case isShortJcc(op):
		offset := int8(d.readByte())
		target := d.pos + uint32(int32(offset))
		text = fmt.Sprintf("J%s 0x%08X", condNames[op-0x70], target)
	case op == 0x83:
		rm, reg := d.modRM()
		imm := int8(d.readByte())
		switch reg {
		case 0:
			text = fmt.Sprintf("ADD %s, %d", rm, imm)
		case 5:
			text = fmt.Sprintf("SUB %s, %d", rm, imm)
		case 7:
			text = fmt.Sprintf("CMP %s, %d", rm, imm)
		default:
			text = fmt.Sprintf("(bad grp1 /%d)", reg)
		}
	case op == 0x89:
		rm, reg := d.modRM()
		text = fmt.Sprintf("MOV %s, %s", rm, reg32Names[reg])
	case op == 0x8B:
		rm, reg := d.modRM()
		text = fmt.Sprintf("MOV %s, %s", reg32Names[reg], rm)
	case op >= 0xB8 && op <= 0xBF:
		text = fmt.Sprintf("MOV %s, 0x%08X", reg32Names[op-0xB8], d.readDword())
	case op == 0xC3:
		text = "RET"
	case op == 0xC7:
		rm, _ := d.modRM()
		text = fmt.Sprintf("MOV %s, 0x%08X", rm, d.readDword())
	case op == 0xC9:
		text = "LEAVE"
	case op == 0xE8:
		offset := int32(d.readDword())
		text = fmt.Sprintf("CALL 0x%08X", d.pos+uint32(offset))
	case op == 0xE9:
		offset := int32(d.readDword())
		text = fmt.Sprintf("JMP 0x%08X", d.pos+uint32(offset))
	case op == 0xEB:
		offset := int8(d.readByte())
		text = fmt.Sprintf("JMP SHORT 0x%08X", d.pos+uint32(int32(offset)))
	case op == 0xFF:
		rm, reg := d.modRM()
		if reg == 0 {
			text = fmt.Sprintf("INC %s", rm)
		} else {
			text = fmt.Sprintf("(bad grp5 /%d)", reg)
		}
	default:
		text = fmt.Sprintf("db 0x%02X", op)
	}

	return text, d.pos - addr
}

// twoByte decodes the 0x0F-prefixed near conditional jumps.
func (d *disasm) twoByte(addr uint32) string {
	second := d.readByte()
	if (second >= 0x82 && second <= 0x87) || second == 0x8F {
		offset := int32(d.readDword())
		return fmt.Sprintf("J%s 0x%08X", condNames[second-0x80], d.pos+uint32(offset))
	}
	return fmt.Sprintf("db 0x0F, 0x%02X", second)
}
