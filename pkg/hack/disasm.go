package hack

import (
	"fmt"
	"strconv"

	"nand2tetris.dev/toolchain/pkg/asm"
)

// ----------------------------------------------------------------------------
// Disassembler

// This section mirrors the codegen phase in reverse: given a sequence of already
// assembled 16-bit binary strings it reconstructs the asm.Statement(s) they came
// from. This is mostly useful for debugging/inspection tooling (dumping a .hack
// file back to readable assembly) rather than anything the forward pipeline needs.
//
// Since label declarations are erased during the asm Lowerer phase (turned into a
// SymbolTable entry, never emitted as an instruction) disassembly can only ever
// recover AInstruction/CInstruction values, addressed by raw location: there's no
// way to tell that '@1' once meant '@LCL' or that '@16' once meant '@myVariable'
// without external help.

var (
	reverseComp = reverseTable(CompTable)
	reverseDest = reverseTable(DestTable)
	reverseJump = reverseTable(JumpTable)
)

// reverseTable flips a string->uint16 translation table into its uint16->string
// inverse, used to recover the textual mnemonic for a bit-pattern during disassembly.
func reverseTable(table map[string]uint16) map[uint16]string {
	out := make(map[uint16]string, len(table))
	for mnemonic, opcode := range table {
		out[opcode] = mnemonic
	}
	return out
}

// Disassemble converts a sequence of 16-bit binary strings (as produced by
// CodeGenerator.Generate) back into their asm.Statement counterparts.
func Disassemble(lines []string) ([]asm.Statement, error) {
	program := make([]asm.Statement, 0, len(lines))

	for i, line := range lines {
		if len(line) != 16 {
			return nil, fmt.Errorf("line %d: expected a 16-bit binary string, got %q", i, line)
		}

		value, err := strconv.ParseUint(line, 2, 16)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}

		stmt, err := disassembleOne(uint16(value))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		program = append(program, stmt)
	}

	return program, nil
}

// disassembleOne dispatches on the opcode bit (bit 15): zero means an A instruction,
// the addressable location is the lower 15 bits; one means a C instruction, whose
// comp/dest/jump bit-codes are packed at bits 6-12, 3-5 and 0-2 respectively.
func disassembleOne(value uint16) (asm.Statement, error) {
	if value&(1<<15) == 0 {
		return asm.AInstruction{Location: fmt.Sprint(value & (MaxAddressableMemory - 1))}, nil
	}

	comp, ok := reverseComp[(value>>6)&0b1111111]
	if !ok {
		return nil, fmt.Errorf("unrecognized 'comp' bit-code in instruction %016b", value)
	}
	dest, ok := reverseDest[(value>>3)&0b111]
	if !ok {
		return nil, fmt.Errorf("unrecognized 'dest' bit-code in instruction %016b", value)
	}
	jump, ok := reverseJump[value&0b111]
	if !ok {
		return nil, fmt.Errorf("unrecognized 'jump' bit-code in instruction %016b", value)
	}

	return asm.CInstruction{Comp: comp, Dest: dest, Jump: jump}, nil
}
