package jack

import (
	"fmt"
	"strings"

	"nand2tetris.dev/toolchain/pkg/utils"
)

// Scope is a named stack of declarations sharing one VarType (e.g. every 'var' inside
// the subroutine currently being lowered). The name ("Class.Global" or
// "Class.subroutine") is what GetScope reports; the entries stack is what
// RegisterVariable/ResolveVariable consult.
type Scope struct {
	name    string
	entries utils.Stack[Variable]
}

// ScopeTable tracks every variable visible while lowering one subroutine at a time:
// statics and fields live for the whole class, locals and parameters are pushed on
// entry to a subroutine and popped on exit. Matches spec.md section 3.3's four-segment
// symbol table, kept as four independent stacks rather than one map so shadowing a
// static with a same-named local needs no bookkeeping beyond lookup order.
type ScopeTable struct {
	static utils.Stack[Variable]

	local     Scope
	field     Scope
	parameter Scope
}

func NewScopeTable() *ScopeTable {
	return &ScopeTable{}
}

func (st *ScopeTable) PushClassScope(class string) {
	st.field = Scope{name: fmt.Sprintf("%s.Global", class)}
	st.static = utils.Stack[Variable]{}
}

func (st *ScopeTable) PopClassScope() { st.field = Scope{} }

func (st *ScopeTable) PushSubRoutineScope(method string) {
	name := strings.ReplaceAll(st.GetScope(), "Global", method)
	st.local = Scope{name: name}
	st.parameter = Scope{name: name}
}

func (st *ScopeTable) PopSubroutineScope() { st.local, st.parameter = Scope{}, Scope{} }

// GetScope returns the innermost named scope currently active. It derives the next
// nested scope's name (see PushSubRoutineScope) and gives the lowerer the current
// subroutine's qualified name and its class name.
func (st *ScopeTable) GetScope() string {
	if st.local.name != "" && st.parameter.name != "" {
		return st.local.name
	}
	if st.field.name != "" {
		return st.field.name
	}
	return "Global"
}

// RegisterVariable records a freshly declared variable in the stack matching its
// VarType, assigning it the next available index in that segment.
func (st *ScopeTable) RegisterVariable(v Variable) {
	switch v.VarType {
	case Local:
		st.local.entries.Push(v)
	case Field:
		st.field.entries.Push(v)
	case Parameter:
		st.parameter.entries.Push(v)
	case Static:
		st.static.Push(v)
	}
}

// ResolveVariable looks up name across the four segments in Jack's shadowing order
// (local, then parameter, then field, then static) and reports the segment index the
// VM codegen must address it by.
func (st *ScopeTable) ResolveVariable(name string) (uint16, Variable, error) {
	scopes := []utils.Stack[Variable]{st.local.entries, st.parameter.entries, st.field.entries, st.static}

	for _, scope := range scopes {
		count := scope.Count()
		// Iterator walks top-of-stack (most recently pushed) first; declaration order
		// needs the opposite direction, so the forward index is count-1-pos.
		pos := 0
		for entry := range scope.Iterator() {
			if entry.Name == name {
				return uint16(count - 1 - pos), entry, nil
			}
			pos++
		}
	}

	return 0, Variable{}, &ScopeError{Name: name, Reason: "not declared in any visible scope"}
}
