package jack_test

import (
	"testing"

	"nand2tetris.dev/toolchain/pkg/jack"
)

func TestClassScope(t *testing.T) {
	test := func(st *jack.ScopeTable, lookup string, expectedVar jack.Variable, expectedOffset uint16, fail bool) {
		t.Helper()
		offset, variable, err := st.ResolveVariable(lookup)
		if fail {
			if err == nil {
				t.Errorf("expected '%s' to be undeclared, resolved to %+v", lookup, variable)
			}
			return
		}
		if err != nil {
			t.Fatalf("expected to find %s, got error: %v", lookup, err)
		}
		if variable != expectedVar {
			t.Errorf("expected to find variable '%s' as %+v, got %+v", lookup, expectedVar, variable)
		}
		if offset != expectedOffset {
			t.Errorf("expected offset %d for variable '%s', got %d", expectedOffset, lookup, offset)
		}
	}

	t.Run("without variable shadowing", func(t *testing.T) {
		st := jack.NewScopeTable()
		st.PushClassScope("TestClass")

		st.RegisterVariable(jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})
		st.RegisterVariable(jack.Variable{Name: "test_static", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}})
		st.RegisterVariable(jack.Variable{Name: "test_field_2", VarType: jack.Field, DataType: jack.DataType{Main: jack.Char}})
		st.RegisterVariable(jack.Variable{Name: "test_static_2", VarType: jack.Static, DataType: jack.DataType{Main: jack.Bool}})

		test(st, "test_field", jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}}, 0, false)
		test(st, "test_static", jack.Variable{Name: "test_static", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}}, 0, false)
		test(st, "test_field_2", jack.Variable{Name: "test_field_2", VarType: jack.Field, DataType: jack.DataType{Main: jack.Char}}, 1, false)
		test(st, "test_static_2", jack.Variable{Name: "test_static_2", VarType: jack.Static, DataType: jack.DataType{Main: jack.Bool}}, 1, false)

		test(st, "random1", jack.Variable{}, 0, true)
		test(st, "random2", jack.Variable{}, 0, true)
	})

	t.Run("with variable shadowing", func(t *testing.T) {
		st := jack.NewScopeTable()
		st.PushClassScope("TestClass")

		st.RegisterVariable(jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})
		st.RegisterVariable(jack.Variable{Name: "test_class", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "AnotherClass"}})
		// Shadows the previous declarations.
		st.RegisterVariable(jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Char}})
		st.RegisterVariable(jack.Variable{Name: "test_class", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "Class"}})

		test(st, "test_field", jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Char}}, 1, false)
		test(st, "test_class", jack.Variable{Name: "test_class", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "Class"}}, 1, false)

		test(st, "random1", jack.Variable{}, 0, true)
	})

	t.Run("with scope deallocation", func(t *testing.T) {
		st := jack.NewScopeTable()
		st.PushClassScope("TestClass")

		st.RegisterVariable(jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})
		st.RegisterVariable(jack.Variable{Name: "test_static", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}})

		test(st, "test_field", jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}}, 0, false)

		st.PopClassScope()

		test(st, "test_field", jack.Variable{}, 0, true)
		// Statics outlive the class scope that declared them.
		test(st, "test_static", jack.Variable{Name: "test_static", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}}, 0, false)
	})
}

func TestSubroutineScope(t *testing.T) {
	test := func(st *jack.ScopeTable, lookup string, expectedVar jack.Variable, expectedOffset uint16, fail bool) {
		t.Helper()
		offset, variable, err := st.ResolveVariable(lookup)
		if fail {
			if err == nil {
				t.Errorf("expected '%s' to be undeclared, resolved to %+v", lookup, variable)
			}
			return
		}
		if err != nil {
			t.Fatalf("expected to find %s, got error: %v", lookup, err)
		}
		if variable != expectedVar {
			t.Errorf("expected to find variable '%s' as %+v, got %+v", lookup, expectedVar, variable)
		}
		if offset != expectedOffset {
			t.Errorf("expected offset %d for variable '%s', got %d", expectedOffset, lookup, offset)
		}
	}

	t.Run("without variable shadowing", func(t *testing.T) {
		st := jack.NewScopeTable()
		st.PushClassScope("TestClass")
		st.PushSubRoutineScope("TestSubroutine")

		st.RegisterVariable(jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}})
		st.RegisterVariable(jack.Variable{Name: "test_parameter", VarType: jack.Parameter, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}})
		st.RegisterVariable(jack.Variable{Name: "test_local_2", VarType: jack.Local, DataType: jack.DataType{Main: jack.Char}})

		test(st, "test_local", jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}}, 0, false)
		test(st, "test_parameter", jack.Variable{Name: "test_parameter", VarType: jack.Parameter, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}}, 0, false)
		test(st, "test_local_2", jack.Variable{Name: "test_local_2", VarType: jack.Local, DataType: jack.DataType{Main: jack.Char}}, 1, false)

		test(st, "random1", jack.Variable{}, 0, true)
	})

	t.Run("with scope deallocation", func(t *testing.T) {
		st := jack.NewScopeTable()
		st.PushClassScope("TestClass")
		st.PushSubRoutineScope("TestSubroutine")

		st.RegisterVariable(jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}})

		test(st, "test_local", jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}}, 0, false)

		st.PopSubroutineScope()

		test(st, "test_local", jack.Variable{}, 0, true)
	})

	t.Run("with variable shadowing across class and subroutine scope", func(t *testing.T) {
		st := jack.NewScopeTable()
		st.PushClassScope("TestClass")

		st.RegisterVariable(jack.Variable{Name: "test1", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})
		st.RegisterVariable(jack.Variable{Name: "test2", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}})

		st.PushSubRoutineScope("TestSubroutine")

		st.RegisterVariable(jack.Variable{Name: "test1", VarType: jack.Local, DataType: jack.DataType{Main: jack.Bool}})
		st.RegisterVariable(jack.Variable{Name: "test2", VarType: jack.Parameter, DataType: jack.DataType{Main: jack.Char}})

		test(st, "test1", jack.Variable{Name: "test1", VarType: jack.Local, DataType: jack.DataType{Main: jack.Bool}}, 0, false)
		test(st, "test2", jack.Variable{Name: "test2", VarType: jack.Parameter, DataType: jack.DataType{Main: jack.Char}}, 0, false)

		st.PopSubroutineScope()

		test(st, "test1", jack.Variable{Name: "test1", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}}, 0, false)
		test(st, "test2", jack.Variable{Name: "test2", VarType: jack.Static, DataType: jack.DataType{Main: jack.Object, Subtype: "String"}}, 0, false)
	})
}

func TestScopeTracking(t *testing.T) {
	test := func(st *jack.ScopeTable, expected string) {
		t.Helper()
		if got := st.GetScope(); got != expected {
			t.Errorf("expected scope %q, got %q", expected, got)
		}
	}

	t.Run("basic scope tracking", func(t *testing.T) {
		st := jack.NewScopeTable()

		st.PushClassScope("TestClass")
		test(st, "TestClass.Global")

		st.PushSubRoutineScope("TestSubroutine")
		test(st, "TestClass.TestSubroutine")

		st.PopSubroutineScope()
		test(st, "TestClass.Global")

		st.PopClassScope()
		test(st, "Global")
	})
}
