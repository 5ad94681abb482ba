package vm

import (
	"fmt"
	"sort"

	"nand2tetris.dev/toolchain/pkg/asm"
)

// ----------------------------------------------------------------------------
// Vm Lowerer

// The Lowerer takes a vm.Program (one Module per translation unit/file) and produces
// its asm.Program counterpart: the full calling convention (push/pop across every
// memory segment, all nine arithmetic ops, label-qualified branching, and the
// call/function/return frame-save protocol), plus an optional bootstrap prologue.
//
// Two pieces of per-module state travel with the walk: the current file name (used to
// qualify 'static' segment references as 'File.i', since static variables are shared
// within a single .vm file but not across files) and the current function name (used
// to qualify VM labels as 'Function$label', since two functions are free to each
// declare a label with the same name).
type Lowerer struct {
	program  Program
	nReturn  uint // Counter to keep generated return-address labels globally unique
	nCompare uint // Counter to keep generated eq/gt/lt branch labels globally unique
}

// NewLowerer wraps an already-built Program.
func NewLowerer(p Program) *Lowerer {
	return &Lowerer{program: p}
}

// Lower triggers the lowering process, visiting modules in a fixed (sorted by name)
// order so that the same Program always lowers to byte-identical assembly. When
// bootstrap is true, a prologue that sets SP=256 and calls Sys.init is emitted first,
// exactly once, ahead of every module.
func (l *Lowerer) Lower(bootstrap bool) (asm.Program, error) {
	out := asm.Program{}
	if bootstrap {
		out = append(out, l.emitBootstrap()...)
	}

	names := make([]string, 0, len(l.program))
	for name := range l.program {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ops, err := l.lowerModule(name, l.program[name])
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
		out = append(out, ops...)
	}

	return out, nil
}

// emitBootstrap sets the stack pointer to its initial value then calls Sys.init, the
// one subroutine every nand2tetris OS/program is required to define as its entrypoint.
func (l *Lowerer) emitBootstrap() []asm.Statement {
	out := []asm.Statement{
		asm.AInstruction{Location: "256"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	}
	return append(out, l.emitCall("Sys.init", 0)...)
}

// lowerModule walks a single Module/file in order, tracking the current function for
// label qualification purposes (it starts out as the file name itself, since VM code
// is allowed to appear before the first 'function' declaration in hand-written .vm
// files used for testing).
func (l *Lowerer) lowerModule(file string, module Module) ([]asm.Statement, error) {
	out := []asm.Statement{}
	currentFunc := file

	for _, operation := range module {
		switch op := operation.(type) {
		case MemoryOp:
			ops, err := l.lowerMemoryOp(file, op)
			if err != nil {
				return nil, err
			}
			out = append(out, ops...)

		case ArithmeticOp:
			ops, err := l.lowerArithmeticOp(op)
			if err != nil {
				return nil, err
			}
			out = append(out, ops...)

		case LabelDecl:
			out = append(out, asm.LabelDecl{Name: qualifyLabel(currentFunc, op.Name)})

		case GotoOp:
			out = append(out, l.emitGoto(currentFunc, op)...)

		case FuncDecl:
			currentFunc = op.Name
			out = append(out, l.emitFuncDecl(op)...)

		case FuncCallOp:
			out = append(out, l.emitCall(op.Name, op.NArgs)...)

		case ReturnOp:
			out = append(out, l.emitReturn()...)

		default:
			return nil, fmt.Errorf("unrecognized vm operation %T", operation)
		}
	}

	return out, nil
}

func qualifyLabel(function, label string) string {
	return fmt.Sprintf("%s$%s", function, label)
}

// pushD appends the instructions to push the D register's current value onto the
// stack and advance SP. Every push path (constant, segment reads, ...) converges here.
func pushD() []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
	}
}

// popD appends the instructions to decrement SP and load the popped value into D.
func popD() []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
	}
}

// indirectBase names the Hack register holding the base address for the four segments
// that are addressed through a pointer (local/argument/this/that), as opposed to
// pointer/temp/static which live at a fixed or file-scoped address directly.
var indirectBase = map[SegmentType]string{
	Local:    "LCL",
	Argument: "ARG",
	This:     "THIS",
	That:     "THAT",
}

// directAddress resolves pointer/temp segment+offset pairs to their fixed RAM address,
// validating the bounds each segment is allowed (pointer: 0-1, temp: 0-7).
func directAddress(segment SegmentType, offset uint16) (string, error) {
	switch segment {
	case Pointer:
		if offset > 1 {
			return "", fmt.Errorf("invalid 'pointer' offset, got %d", offset)
		}
		return fmt.Sprint(3 + offset), nil
	case Temp:
		if offset > 7 {
			return "", fmt.Errorf("invalid 'temp' offset, got %d", offset)
		}
		return fmt.Sprint(5 + offset), nil
	default:
		return "", fmt.Errorf("segment %q is not directly addressed", segment)
	}
}

// lowerMemoryOp converts a single vm.MemoryOp to the sequence of asm.Statement that
// implements it, branching on segment kind since each has a different addressing mode.
func (l *Lowerer) lowerMemoryOp(file string, op MemoryOp) ([]asm.Statement, error) {
	switch op.Segment {
	case Constant:
		if op.Operation != Push {
			return nil, fmt.Errorf("cannot pop into the 'constant' segment")
		}
		out := []asm.Statement{
			asm.AInstruction{Location: fmt.Sprint(op.Offset)},
			asm.CInstruction{Dest: "D", Comp: "A"},
		}
		return append(out, pushD()...), nil

	case Local, Argument, This, That:
		base := indirectBase[op.Segment]
		if op.Operation == Push {
			out := []asm.Statement{
				asm.AInstruction{Location: fmt.Sprint(op.Offset)},
				asm.CInstruction{Dest: "D", Comp: "A"},
				asm.AInstruction{Location: base},
				asm.CInstruction{Dest: "A", Comp: "D+M"},
				asm.CInstruction{Dest: "D", Comp: "M"},
			}
			return append(out, pushD()...), nil
		}

		out := []asm.Statement{
			asm.AInstruction{Location: fmt.Sprint(op.Offset)},
			asm.CInstruction{Dest: "D", Comp: "A"},
			asm.AInstruction{Location: base},
			asm.CInstruction{Dest: "D", Comp: "D+M"},
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Dest: "M", Comp: "D"},
		}
		out = append(out, popD()...)
		out = append(out,
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Dest: "A", Comp: "M"},
			asm.CInstruction{Dest: "M", Comp: "D"},
		)
		return out, nil

	case Pointer, Temp:
		address, err := directAddress(op.Segment, op.Offset)
		if err != nil {
			return nil, err
		}
		if op.Operation == Push {
			out := []asm.Statement{
				asm.AInstruction{Location: address},
				asm.CInstruction{Dest: "D", Comp: "M"},
			}
			return append(out, pushD()...), nil
		}
		out := popD()
		return append(out, asm.AInstruction{Location: address}, asm.CInstruction{Dest: "M", Comp: "D"}), nil

	case Static:
		symbol := fmt.Sprintf("%s.%d", file, op.Offset)
		if op.Operation == Push {
			out := []asm.Statement{
				asm.AInstruction{Location: symbol},
				asm.CInstruction{Dest: "D", Comp: "M"},
			}
			return append(out, pushD()...), nil
		}
		out := popD()
		return append(out, asm.AInstruction{Location: symbol}, asm.CInstruction{Dest: "M", Comp: "D"}), nil

	default:
		return nil, fmt.Errorf("unrecognized segment %q", op.Segment)
	}
}

var binaryComp = map[ArithOpType]string{
	Add: "D+M",
	Sub: "M-D",
	And: "D&M",
	Or:  "D|M",
}

var unaryComp = map[ArithOpType]string{
	Neg: "-M",
	Not: "!M",
}

var compareJump = map[ArithOpType]string{
	Eq: "JEQ",
	Gt: "JGT",
	Lt: "JLT",
}

// lowerArithmeticOp converts a single vm.ArithmeticOp. Binary and unary ops act on the
// stack's top in place; eq/gt/lt additionally need a pair of globally-unique branch
// labels since the Hack ALU has no "set on condition" instruction -- the comparison
// result (true == -1, false == 0) has to be produced by an explicit conditional jump.
func (l *Lowerer) lowerArithmeticOp(op ArithmeticOp) ([]asm.Statement, error) {
	if comp, ok := binaryComp[op.Operation]; ok {
		return []asm.Statement{
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "AM", Comp: "M-1"},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.CInstruction{Dest: "A", Comp: "A-1"},
			asm.CInstruction{Dest: "M", Comp: comp},
		}, nil
	}

	if comp, ok := unaryComp[op.Operation]; ok {
		return []asm.Statement{
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "A", Comp: "M-1"},
			asm.CInstruction{Dest: "M", Comp: comp},
		}, nil
	}

	if jump, ok := compareJump[op.Operation]; ok {
		l.nCompare++
		trueLabel := fmt.Sprintf("COMPARE_TRUE_%d", l.nCompare)
		endLabel := fmt.Sprintf("COMPARE_END_%d", l.nCompare)

		return []asm.Statement{
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "AM", Comp: "M-1"},
			asm.CInstruction{Dest: "D", Comp: "M"},
			asm.CInstruction{Dest: "A", Comp: "A-1"},
			asm.CInstruction{Dest: "D", Comp: "M-D"},
			asm.AInstruction{Location: trueLabel},
			asm.CInstruction{Comp: "D", Jump: jump},
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "A", Comp: "M-1"},
			asm.CInstruction{Dest: "M", Comp: "0"},
			asm.AInstruction{Location: endLabel},
			asm.CInstruction{Comp: "0", Jump: "JMP"},
			asm.LabelDecl{Name: trueLabel},
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "A", Comp: "M-1"},
			asm.CInstruction{Dest: "M", Comp: "-1"},
			asm.LabelDecl{Name: endLabel},
		}, nil
	}

	return nil, fmt.Errorf("unrecognized arithmetic operation %q", op.Operation)
}

// emitGoto converts a vm.GotoOp to an unconditional jump or to a pop-and-test
// conditional jump, qualifying the target label with the enclosing function's name.
func (l *Lowerer) emitGoto(currentFunc string, op GotoOp) []asm.Statement {
	label := qualifyLabel(currentFunc, op.Label)

	if op.Jump == Unconditional {
		return []asm.Statement{
			asm.AInstruction{Location: label},
			asm.CInstruction{Comp: "0", Jump: "JMP"},
		}
	}

	out := popD()
	return append(out,
		asm.AInstruction{Location: label},
		asm.CInstruction{Comp: "D", Jump: "JNE"},
	)
}

// emitFuncDecl converts a vm.FuncDecl: a label at the function's entry point followed
// by zero-initializing each of its NLocal local-segment slots.
func (l *Lowerer) emitFuncDecl(op FuncDecl) []asm.Statement {
	out := []asm.Statement{asm.LabelDecl{Name: op.Name}}

	for i := uint8(0); i < op.NLocal; i++ {
		out = append(out,
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "A", Comp: "M"},
			asm.CInstruction{Dest: "M", Comp: "0"},
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Dest: "M", Comp: "M+1"},
		)
	}

	return out
}

// emitCall converts a vm.FuncCallOp: saves the caller's frame (a fresh return label,
// then LCL/ARG/THIS/THAT) on the stack, repositions ARG and LCL for the callee, jumps
// to it, and declares the return label the callee will jump back to.
func (l *Lowerer) emitCall(name string, nArgs uint8) []asm.Statement {
	l.nReturn++
	retLabel := fmt.Sprintf("%s$ret.%d", name, l.nReturn)

	out := []asm.Statement{
		asm.AInstruction{Location: retLabel},
		asm.CInstruction{Dest: "D", Comp: "A"},
	}
	out = append(out, pushD()...)

	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		out = append(out, asm.AInstruction{Location: reg}, asm.CInstruction{Dest: "D", Comp: "M"})
		out = append(out, pushD()...)
	}

	out = append(out,
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: fmt.Sprint(int(nArgs) + 5)},
		asm.CInstruction{Dest: "D", Comp: "D-A"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: name},
		asm.CInstruction{Comp: "0", Jump: "JMP"},

		asm.LabelDecl{Name: retLabel},
	)
	return out
}

// emitReturn converts a vm.ReturnOp: stashes the caller's frame base (FRAME) and
// return address (RET) in R14/R15 before the frame is torn down, since overwriting ARG
// with the callee's own return value would otherwise clobber data the restore steps
// still need to read.
func (l *Lowerer) emitReturn() []asm.Statement {
	return []asm.Statement{
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "5"},
		asm.CInstruction{Dest: "A", Comp: "D-A"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "R15"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "D", Comp: "M+1"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "THAT"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "THIS"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Dest: "M", Comp: "D"},

		asm.AInstruction{Location: "R15"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
	}
}
