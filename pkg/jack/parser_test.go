package jack_test

import (
	"testing"

	"nand2tetris.dev/toolchain/pkg/jack"
)

func parse(t *testing.T, source string) jack.Class {
	t.Helper()
	tokenizer, err := jack.NewTokenizer("Test.jack", []byte(source))
	if err != nil {
		t.Fatalf("unexpected tokenizer error: %s", err)
	}
	class, err := jack.Parse("Test.jack", tokenizer.Tokens())
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	return class
}

func TestParseClassFieldsAndSubroutineShape(t *testing.T) {
	class := parse(t, `
		class Point {
			field int x, y;
			static int count;

			constructor Point new(int ax, int ay) {
				let x = ax;
				let y = ay;
				return this;
			}
		}
	`)

	if class.Name != "Point" {
		t.Fatalf("expected class name 'Point', got %q", class.Name)
	}
	if class.Fields.Size() != 3 {
		t.Fatalf("expected 3 fields, got %d", class.Fields.Size())
	}
	xField, ok := class.Fields.Get("x")
	if !ok || xField.VarType != jack.Field {
		t.Fatalf("expected field 'x' with VarType Field, got %+v (ok=%v)", xField, ok)
	}
	countField, ok := class.Fields.Get("count")
	if !ok || countField.VarType != jack.Static {
		t.Fatalf("expected field 'count' with VarType Static, got %+v (ok=%v)", countField, ok)
	}

	sub, ok := class.Subroutines.Get("new")
	if !ok {
		t.Fatal("expected subroutine 'new' to be registered")
	}
	if sub.Type != jack.Constructor {
		t.Fatalf("expected 'new' to be a constructor, got %s", sub.Type)
	}
	if len(sub.Statements) != 3 {
		t.Fatalf("expected 3 statements in 'new', got %d", len(sub.Statements))
	}
}

func TestParseIfElseAndWhile(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				if (true) {
					let x = 1;
				} else {
					let x = 2;
				}
				while (x) {
					let x = 0;
				}
				return;
			}
		}
	`)

	sub, _ := class.Subroutines.Get("run")
	if len(sub.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(sub.Statements))
	}

	ifStmt, ok := sub.Statements[0].(jack.IfStmt)
	if !ok {
		t.Fatalf("expected first statement to be IfStmt, got %#v", sub.Statements[0])
	}
	if len(ifStmt.ThenBlock) != 1 || len(ifStmt.ElseBlock) != 1 {
		t.Fatalf("expected 1 statement per branch, got %+v", ifStmt)
	}

	whileStmt, ok := sub.Statements[1].(jack.WhileStmt)
	if !ok {
		t.Fatalf("expected second statement to be WhileStmt, got %#v", sub.Statements[1])
	}
	if len(whileStmt.Block) != 1 {
		t.Fatalf("expected 1 statement in while body, got %d", len(whileStmt.Block))
	}
}

func TestParseExpressionPrecedenceIsLeftToRight(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				let x = 1 + 2 * 3;
				return;
			}
		}
	`)

	sub, _ := class.Subroutines.Get("run")
	letStmt, ok := sub.Statements[0].(jack.LetStmt)
	if !ok {
		t.Fatalf("expected LetStmt, got %#v", sub.Statements[0])
	}

	// Jack has no precedence climbing: '1 + 2 * 3' parses as '(1 + 2) * 3'.
	outer, ok := letStmt.Rhs.(jack.BinaryExpr)
	if !ok || outer.Type != jack.Multiply {
		t.Fatalf("expected outermost op to be Multiply, got %#v", letStmt.Rhs)
	}
	inner, ok := outer.Lhs.(jack.BinaryExpr)
	if !ok || inner.Type != jack.Plus {
		t.Fatalf("expected inner op to be Plus, got %#v", outer.Lhs)
	}
}

func TestParseFuncCallVariants(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				do Output.printString("hi");
				do draw();
				return;
			}
		}
	`)

	sub, _ := class.Subroutines.Get("run")
	extCall, ok := sub.Statements[0].(jack.DoStmt)
	if !ok || !extCall.FuncCall.IsExtCall || extCall.FuncCall.Var != "Output" || extCall.FuncCall.FuncName != "printString" {
		t.Fatalf("expected qualified call to Output.printString, got %#v", sub.Statements[0])
	}

	localCall, ok := sub.Statements[1].(jack.DoStmt)
	if !ok || localCall.FuncCall.IsExtCall || localCall.FuncCall.FuncName != "draw" {
		t.Fatalf("expected unqualified local call to draw, got %#v", sub.Statements[1])
	}
}

func TestParseArrayIndexing(t *testing.T) {
	class := parse(t, `
		class Main {
			function void run() {
				let a[i] = a[j] + 1;
				return;
			}
		}
	`)

	sub, _ := class.Subroutines.Get("run")
	letStmt := sub.Statements[0].(jack.LetStmt)
	if _, ok := letStmt.Lhs.(jack.ArrayExpr); !ok {
		t.Fatalf("expected LHS to be ArrayExpr, got %#v", letStmt.Lhs)
	}

	rhs := letStmt.Rhs.(jack.BinaryExpr)
	if _, ok := rhs.Lhs.(jack.ArrayExpr); !ok {
		t.Fatalf("expected RHS operand to be ArrayExpr, got %#v", rhs.Lhs)
	}
}

func TestParseRejectsMalformedClass(t *testing.T) {
	tokenizer, err := jack.NewTokenizer("Bad.jack", []byte(`class { }`))
	if err != nil {
		t.Fatalf("unexpected tokenizer error: %s", err)
	}
	if _, err := jack.Parse("Bad.jack", tokenizer.Tokens()); err == nil {
		t.Fatal("expected a parse error for a class missing its name")
	}
}
