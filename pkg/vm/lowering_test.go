package vm_test

import (
	"testing"

	"nand2tetris.dev/toolchain/pkg/asm"
	"nand2tetris.dev/toolchain/pkg/vm"
)

func TestLowerPushConstant(t *testing.T) {
	program := vm.Program{
		"Main": vm.Module{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 7}},
	}

	lowerer := vm.NewLowerer(program)
	out, err := lowerer.Lower(false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := asm.Program{
		asm.AInstruction{Location: "7"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "A", Comp: "M"},
		asm.CInstruction{Dest: "M", Comp: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "M+1"},
	}
	assertEqual(t, out, expected)
}

func TestLowerArithmeticAdd(t *testing.T) {
	program := vm.Program{"Main": vm.Module{vm.ArithmeticOp{Operation: vm.Add}}}

	lowerer := vm.NewLowerer(program)
	out, err := lowerer.Lower(false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "AM", Comp: "M-1"},
		asm.CInstruction{Dest: "D", Comp: "M"},
		asm.CInstruction{Dest: "A", Comp: "A-1"},
		asm.CInstruction{Dest: "M", Comp: "D+M"},
	}
	assertEqual(t, out, expected)
}

func TestLowerStaticIsFileQualified(t *testing.T) {
	program := vm.Program{
		"Foo": vm.Module{vm.MemoryOp{Operation: vm.Pop, Segment: vm.Static, Offset: 3}},
	}

	lowerer := vm.NewLowerer(program)
	out, err := lowerer.Lower(false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	last := out[len(out)-2]
	ainst, ok := last.(asm.AInstruction)
	if !ok || ainst.Location != "Foo.3" {
		t.Fatalf("expected the instruction before the final write to address 'Foo.3', got %#v", last)
	}
}

func TestLowerLabelsAreQualifiedByFunction(t *testing.T) {
	program := vm.Program{
		"Main": vm.Module{
			vm.FuncDecl{Name: "Main.loop", NLocal: 0},
			vm.LabelDecl{Name: "START"},
			vm.GotoOp{Label: "START", Jump: vm.Unconditional},
		},
	}

	lowerer := vm.NewLowerer(program)
	out, err := lowerer.Lower(false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	foundDecl, foundJump := false, false
	for _, stmt := range out {
		switch s := stmt.(type) {
		case asm.LabelDecl:
			if s.Name == "Main.loop$START" {
				foundDecl = true
			}
		case asm.AInstruction:
			if s.Location == "Main.loop$START" {
				foundJump = true
			}
		}
	}
	if !foundDecl || !foundJump {
		t.Fatalf("expected label qualified as 'Main.loop$START', got %#v", out)
	}
}

func TestLowerReturnUsesScratchRegisters(t *testing.T) {
	program := vm.Program{"Main": vm.Module{vm.ReturnOp{}}}

	lowerer := vm.NewLowerer(program)
	out, err := lowerer.Lower(false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	seenR14, seenR15 := false, false
	for _, stmt := range out {
		if ainst, ok := stmt.(asm.AInstruction); ok {
			seenR14 = seenR14 || ainst.Location == "R14"
			seenR15 = seenR15 || ainst.Location == "R15"
		}
	}
	if !seenR14 || !seenR15 {
		t.Fatalf("expected 'return' to stage FRAME/RET through R14/R15, got %#v", out)
	}
}

func TestLowerCallPushesFourSegmentsAndReturnAddress(t *testing.T) {
	program := vm.Program{"Main": vm.Module{vm.FuncCallOp{Name: "Foo.bar", NArgs: 2}}}

	lowerer := vm.NewLowerer(program)
	out, err := lowerer.Lower(false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	pushedRegisters := []string{}
	// Only register reads (@REG followed by D=M) are frame saves; the later ARG/LCL
	// repositioning writes through M=D and is not counted.
	for i, stmt := range out {
		if ainst, ok := stmt.(asm.AInstruction); ok && i+1 < len(out) && out[i+1] == asm.Statement(asm.CInstruction{Dest: "D", Comp: "M"}) {
			switch ainst.Location {
			case "LCL", "ARG", "THIS", "THAT":
				pushedRegisters = append(pushedRegisters, ainst.Location)
			}
		}
	}

	expected := []string{"LCL", "ARG", "THIS", "THAT"}
	if len(pushedRegisters) != len(expected) {
		t.Fatalf("expected exactly 4 saved-frame registers, got %v", pushedRegisters)
	}
	for i, reg := range expected {
		if pushedRegisters[i] != reg {
			t.Fatalf("expected frame save order %v, got %v", expected, pushedRegisters)
		}
	}

	last, ok := out[len(out)-1].(asm.LabelDecl)
	if !ok {
		t.Fatalf("expected 'call' to end on its return-address label declaration, got %#v", out[len(out)-1])
	}
	if last.Name != "Foo.bar$ret.1" {
		t.Fatalf("expected return label 'Foo.bar$ret.1', got %q", last.Name)
	}
}

func TestLowerBootstrapPrependsSPInitAndCallsSysInit(t *testing.T) {
	lowerer := vm.NewLowerer(vm.Program{})
	out, err := lowerer.Lower(true)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(out) < 4 {
		t.Fatalf("expected at least the SP=256 prelude, got %#v", out)
	}
	assertEqual(t, out[:4], asm.Program{
		asm.AInstruction{Location: "256"},
		asm.CInstruction{Dest: "D", Comp: "A"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Dest: "M", Comp: "D"},
	})

	foundSysInit := false
	for _, stmt := range out {
		if ainst, ok := stmt.(asm.AInstruction); ok && ainst.Location == "Sys.init" {
			foundSysInit = true
		}
	}
	if !foundSysInit {
		t.Fatalf("expected bootstrap to 'call Sys.init 0', got %#v", out)
	}
}

func assertEqual(t *testing.T, got, want asm.Program) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d statements, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statement %d: expected %#v, got %#v", i, want[i], got[i])
		}
	}
}
