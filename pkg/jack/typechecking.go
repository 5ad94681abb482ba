package jack

// TypeChecker performs the structural checks spec.md sections 6/7 ask for before a
// program reaches the lowerer: every variable read or written must be declared
// somewhere in scope, and every subroutine call must name a subroutine that actually
// exists, either in the program itself or in the Jack standard library ABI. It does
// not perform full type inference -- Jack's type system is weak enough (ints, chars
// and booleans are freely interconvertible, objects are structurally untyped at the
// VM level) that existence checking catches the class of bug the compiler can
// actually prevent: typos and calls to things that were never declared.
type TypeChecker struct {
	program      Program
	scopes       *ScopeTable
	currentClass Class
}

func NewTypeChecker(program Program) *TypeChecker {
	return &TypeChecker{program: program, scopes: NewScopeTable()}
}

// Check walks every class in declaration order and returns the first ScopeError it
// finds, or nil if the whole program resolves cleanly.
func (tc *TypeChecker) Check() error {
	for _, class := range tc.program.Entries() {
		if err := tc.HandleClass(class); err != nil {
			return err
		}
	}
	return nil
}

// HandleClass type-checks a single class: its fields (registered as declarations, not
// checked themselves -- a field declaration cannot be ill-formed on its own) and each
// of its subroutines in turn.
func (tc *TypeChecker) HandleClass(class Class) error {
	tc.currentClass = class
	tc.scopes.PushClassScope(class.Name)
	defer tc.scopes.PopClassScope()

	for _, field := range class.Fields.Entries() {
		tc.scopes.RegisterVariable(field)
	}

	for _, subroutine := range class.Subroutines.Entries() {
		if err := tc.HandleSubroutine(subroutine); err != nil {
			return err
		}
	}
	return nil
}

// HandleSubroutine registers the subroutine's parameters and locals, then checks every
// statement in its body.
func (tc *TypeChecker) HandleSubroutine(subroutine Subroutine) error {
	tc.scopes.PushSubRoutineScope(subroutine.Name)
	defer tc.scopes.PopSubroutineScope()

	for _, arg := range subroutine.Arguments.Entries() {
		tc.scopes.RegisterVariable(arg)
	}
	for _, local := range subroutine.Locals {
		tc.scopes.RegisterVariable(local)
	}

	for _, stmt := range subroutine.Statements {
		if err := tc.HandleStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HandleStatement dispatches on the statement's concrete type, recursing into nested
// statement blocks and checking every expression it contains.
func (tc *TypeChecker) HandleStatement(stmt Statement) error {
	switch s := stmt.(type) {
	case DoStmt:
		return tc.HandleExpression(s.FuncCall)

	case VarStmt:
		return nil

	case LetStmt:
		if err := tc.HandleExpression(s.Lhs); err != nil {
			return err
		}
		return tc.HandleExpression(s.Rhs)

	case ReturnStmt:
		if s.Expr == nil {
			return nil
		}
		return tc.HandleExpression(s.Expr)

	case IfStmt:
		if err := tc.HandleExpression(s.Condition); err != nil {
			return err
		}
		for _, inner := range s.ThenBlock {
			if err := tc.HandleStatement(inner); err != nil {
				return err
			}
		}
		for _, inner := range s.ElseBlock {
			if err := tc.HandleStatement(inner); err != nil {
				return err
			}
		}
		return nil

	case WhileStmt:
		if err := tc.HandleExpression(s.Condition); err != nil {
			return err
		}
		for _, inner := range s.Block {
			if err := tc.HandleStatement(inner); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// HandleExpression dispatches on the expression's concrete type, verifying that every
// variable reference resolves and every subroutine call names something that exists.
func (tc *TypeChecker) HandleExpression(expr Expression) error {
	switch e := expr.(type) {
	case VarExpr:
		if e.Var == "this" {
			return nil
		}
		_, _, err := tc.scopes.ResolveVariable(e.Var)
		return err

	case LiteralExpr:
		return nil

	case ArrayExpr:
		if _, _, err := tc.scopes.ResolveVariable(e.Var); err != nil {
			return err
		}
		return tc.HandleExpression(e.Index)

	case UnaryExpr:
		return tc.HandleExpression(e.Rhs)

	case BinaryExpr:
		if err := tc.HandleExpression(e.Lhs); err != nil {
			return err
		}
		return tc.HandleExpression(e.Rhs)

	case FuncCallExpr:
		if err := tc.checkFuncCallTarget(e); err != nil {
			return err
		}
		for _, arg := range e.Arguments {
			if err := tc.HandleExpression(arg); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (tc *TypeChecker) lookupClass(name string) (Class, bool) {
	if class, ok := tc.program.Get(name); ok {
		return class, true
	}
	class, ok := StandardLibraryABI[name]
	return class, ok
}

// checkFuncCallTarget resolves a FuncCallExpr's callee existence without committing to
// its disambiguation strategy -- that belongs to the lowerer (spec.md section 4.4),
// which additionally must know whether to push an implicit 'this'.
func (tc *TypeChecker) checkFuncCallTarget(call FuncCallExpr) error {
	if !call.IsExtCall {
		if _, ok := tc.currentClass.Subroutines.Get(call.FuncName); !ok {
			return &ScopeError{Name: call.FuncName, Reason: "no such subroutine in " + tc.currentClass.Name}
		}
		return nil
	}

	if _, variable, err := tc.scopes.ResolveVariable(call.Var); err == nil {
		className := variable.DataType.Subtype
		class, ok := tc.lookupClass(className)
		if !ok {
			return &ScopeError{Name: className, Reason: "no such class"}
		}
		if _, ok := class.Subroutines.Get(call.FuncName); !ok {
			return &ScopeError{Name: call.FuncName, Reason: "no such subroutine in " + className}
		}
		return nil
	}

	class, ok := tc.lookupClass(call.Var)
	if !ok {
		return &ScopeError{Name: call.Var, Reason: "no such variable or class"}
	}
	if _, ok := class.Subroutines.Get(call.FuncName); !ok {
		return &ScopeError{Name: call.FuncName, Reason: "no such subroutine in " + call.Var}
	}
	return nil
}
