package vm_test

import (
	"strings"
	"testing"

	"nand2tetris.dev/toolchain/pkg/vm"
)

func TestParseModule(t *testing.T) {
	source := `
		// push a couple constants and add them
		push constant 7
		push constant 8
		add
		pop local 0
		label LOOP
		goto LOOP
	`

	parser := vm.NewParser(strings.NewReader(source))
	module, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := vm.Module{
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 7},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 8},
		vm.ArithmeticOp{Operation: vm.Add},
		vm.MemoryOp{Operation: vm.Pop, Segment: vm.Local, Offset: 0},
		vm.LabelDecl{Name: "LOOP"},
		vm.GotoOp{Jump: vm.Unconditional, Label: "LOOP"},
	}

	if len(module) != len(expected) {
		t.Fatalf("expected %d operations, got %d: %#v", len(expected), len(module), module)
	}
	for i, want := range expected {
		if module[i] != want {
			t.Fatalf("operation %d: expected %#v, got %#v", i, want, module[i])
		}
	}
}

func TestParseFunctionDeclAndCall(t *testing.T) {
	source := `
		function Main.main 2
		call Sys.init 0
		return
	`

	parser := vm.NewParser(strings.NewReader(source))
	module, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := vm.Module{
		vm.FuncDecl{Name: "Main.main", NLocal: 2},
		vm.FuncCallOp{Name: "Sys.init", NArgs: 0},
		vm.ReturnOp{},
	}
	if len(module) != len(expected) {
		t.Fatalf("expected %d operations, got %d: %#v", len(expected), len(module), module)
	}
	for i, want := range expected {
		if module[i] != want {
			t.Fatalf("operation %d: expected %#v, got %#v", i, want, module[i])
		}
	}
}

func TestParseConditionalJump(t *testing.T) {
	parser := vm.NewParser(strings.NewReader(`if-goto END`))
	module, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := vm.GotoOp{Jump: vm.Conditional, Label: "END"}
	if module[0] != expected {
		t.Fatalf("expected %#v, got %#v", expected, module[0])
	}
}
