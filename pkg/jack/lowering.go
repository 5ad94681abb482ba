package jack

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"nand2tetris.dev/toolchain/pkg/vm"
)

// ----------------------------------------------------------------------------
// Jack Lowerer

// The Lowerer takes a jack.Program and produces its vm.Program counterpart (the
// "VMWriter" of spec.md section 4.3/4.4). Since the AST is tree-shaped, lowering is a
// depth-first walk: for each node visited we produce its list of vm.Operation,
// resolving variables and call targets against the ScopeTable as we go.
type Lowerer struct {
	program     Program    // The program to lower, classes already in a fixed visitation order
	scopes      ScopeTable // Keeps track of the scopes and declared variables inside each one
	nRandomizer uint       // Counter to keep generated vm.LabelDecl names globally unique
}

// NewLowerer wraps an already-built Program. Program is itself an OrderedMap, so the
// caller (the compiler driver) is responsible for inserting classes in the order that
// should be reproduced across runs -- typically sorted by class name, so that the same
// set of source files always lowers to byte-identical VM output regardless of the
// order the filesystem happened to return them in.
func NewLowerer(p Program) *Lowerer {
	return &Lowerer{program: p}
}

// Lower triggers the lowering process: class by class, then statement by statement,
// recursively dispatching on each construct's concrete type much like a recursive
// descent parser, except it produces VM operations instead of consuming tokens.
func (l *Lowerer) Lower() (vm.Program, error) {
	if l.program.Size() == 0 {
		return nil, fmt.Errorf("jack: cannot lower an empty program")
	}

	program := vm.Program{}
	for _, name := range l.program.Keys() {
		class, _ := l.program.Get(name)
		operations, err := l.HandleClass(class)
		if err != nil {
			return nil, fmt.Errorf("lowering class %q: %w", name, err)
		}
		program[name] = vm.Module(operations)
	}

	return program, nil
}

// HandleClass converts a jack.Class node to a list of vm.Operation: its field
// declarations (scope bookkeeping only, no code emitted) followed by every subroutine.
func (l *Lowerer) HandleClass(class Class) ([]vm.Operation, error) {
	l.scopes.PushClassScope(class.Name)
	defer l.scopes.PopClassScope()

	operations := []vm.Operation{}

	for _, field := range class.Fields.Entries() {
		ops, err := l.HandleVarStmt(VarStmt{Vars: []Variable{field}})
		if err != nil {
			return nil, fmt.Errorf("field %q in class %q: %w", field.Name, class.Name, err)
		}
		operations = append(operations, ops...)
	}

	for _, subroutine := range class.Subroutines.Entries() {
		ops, err := l.HandleSubroutine(subroutine)
		if err != nil {
			return nil, fmt.Errorf("subroutine %q in class %q: %w", subroutine.Name, class.Name, err)
		}
		operations = append(operations, ops...)
	}

	return operations, nil
}

// HandleSubroutine converts a jack.Subroutine node to a list of vm.Operation,
// including the function-entry prelude required by its kind: a constructor allocates
// its instance and sets 'this' to the result, a method sets 'this' from the implicit
// first argument, a function needs no prelude at all.
func (l *Lowerer) HandleSubroutine(subroutine Subroutine) ([]vm.Operation, error) {
	l.scopes.PushSubRoutineScope(subroutine.Name)
	defer l.scopes.PopSubroutineScope()

	// A method's argument 0 is always the implicit 'this' (pushed by every caller,
	// see HandleFuncCallExpr); registering it first shifts every declared parameter
	// up by one slot so they resolve to 'argument 1', 'argument 2', ... instead of
	// aliasing the receiver. 'this' itself is never looked up through this entry —
	// HandleVarExpr special-cases the name and reads 'pointer 0' directly.
	if subroutine.Type == Method {
		l.scopes.RegisterVariable(Variable{Name: "this", VarType: Parameter})
	}
	for _, arg := range subroutine.Arguments.Entries() {
		l.scopes.RegisterVariable(arg)
	}
	for _, local := range subroutine.Locals {
		l.scopes.RegisterVariable(local)
	}

	fName := l.scopes.GetScope()
	fBody := []vm.Operation{}
	for _, stmt := range subroutine.Statements {
		ops, err := l.HandleStatement(stmt)
		if err != nil {
			return nil, fmt.Errorf("statement %T: %w", stmt, err)
		}
		fBody = append(fBody, ops...)
	}

	fDecl := vm.FuncDecl{Name: fName, NLocal: uint8(len(subroutine.Locals))}

	switch subroutine.Type {
	case Constructor:
		className := strings.Split(fName, ".")[0]
		class, exists := l.program.Get(className)
		if !exists {
			return nil, &CodegenError{Node: className, Reason: "constructor's own class not found while lowering"}
		}

		var nFields uint16
		for _, field := range class.Fields.Entries() {
			if field.VarType == Field {
				nFields++
			}
		}

		prelude := []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: nFields},
			vm.FuncCallOp{Name: "Memory.alloc", NArgs: 1},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 0},
		}
		return append(append([]vm.Operation{fDecl}, prelude...), fBody...), nil

	case Method:
		prelude := []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Argument, Offset: 0},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 0},
		}
		return append(append([]vm.Operation{fDecl}, prelude...), fBody...), nil

	default: // Function
		return append([]vm.Operation{fDecl}, fBody...), nil
	}
}

// HandleStatement dispatches on the statement's concrete type.
func (l *Lowerer) HandleStatement(stmt Statement) ([]vm.Operation, error) {
	switch s := stmt.(type) {
	case DoStmt:
		return l.HandleDoStmt(s)
	case VarStmt:
		return l.HandleVarStmt(s)
	case LetStmt:
		return l.HandleLetStmt(s)
	case IfStmt:
		return l.HandleIfStmt(s)
	case WhileStmt:
		return l.HandleWhileStmt(s)
	case ReturnStmt:
		return l.HandleReturnStmt(s)
	default:
		return nil, &CodegenError{Node: fmt.Sprintf("%T", stmt), Reason: "unrecognized statement"}
	}
}

// HandleDoStmt converts a jack.DoStmt, discarding whatever the call returned (every
// Jack subroutine returns something, even 'void' subroutines push a dummy 0).
func (l *Lowerer) HandleDoStmt(statement DoStmt) ([]vm.Operation, error) {
	ops, err := l.HandleFuncCallExpr(statement.FuncCall)
	if err != nil {
		return nil, fmt.Errorf("call expression: %w", err)
	}
	return append(ops, vm.MemoryOp{Operation: vm.Pop, Segment: vm.Temp, Offset: 0}), nil
}

// HandleVarStmt registers a local declaration in scope; it never emits code by itself
// since Jack 'var'/field declarations reserve a slot, they don't initialize it.
func (l *Lowerer) HandleVarStmt(statement VarStmt) ([]vm.Operation, error) {
	for _, variable := range statement.Vars {
		l.scopes.RegisterVariable(variable)
	}
	return []vm.Operation{}, nil
}

// HandleLetStmt converts a jack.LetStmt, branching on whether the LHS is a plain
// variable (a single pop into the variable's segment) or an array element (compute the
// target address, stash the RHS in temp, then write through that/pointer 1, since the
// RHS must be evaluated before the LHS address is allowed to clobber 'that').
func (l *Lowerer) HandleLetStmt(statement LetStmt) ([]vm.Operation, error) {
	rhsOps, err := l.HandleExpression(statement.Rhs)
	if err != nil {
		return nil, fmt.Errorf("RHS expression: %w", err)
	}

	switch lhs := statement.Lhs.(type) {
	case VarExpr:
		offset, variable, err := l.scopes.ResolveVariable(lhs.Var)
		if err != nil {
			return nil, err
		}
		segment, err := segmentOf(variable.VarType)
		if err != nil {
			return nil, err
		}
		return append(rhsOps, vm.MemoryOp{Operation: vm.Pop, Segment: segment, Offset: offset}), nil

	case ArrayExpr:
		baseOps, err := l.HandleVarExpr(VarExpr{Var: lhs.Var})
		if err != nil {
			return nil, fmt.Errorf("array base: %w", err)
		}
		indexOps, err := l.HandleExpression(lhs.Index)
		if err != nil {
			return nil, fmt.Errorf("array index: %w", err)
		}

		refOps := append(append(indexOps, baseOps...), vm.ArithmeticOp{Operation: vm.Add})
		writeOps := []vm.Operation{
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Temp, Offset: 0},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 1},
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Temp, Offset: 0},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.That, Offset: 0},
		}
		return append(append(refOps, rhsOps...), writeOps...), nil

	default:
		return nil, &CodegenError{Node: fmt.Sprintf("%T", statement.Lhs), Reason: "let LHS must be a variable or array element"}
	}
}

// HandleWhileStmt converts a jack.WhileStmt. Label names are suffixed with a counter
// that only ever increases across the whole lowering run (never reset per-class or
// per-function), so two WHILE loops anywhere in the same compiled program never
// collide even after every class's VM output is concatenated into one .asm file.
func (l *Lowerer) HandleWhileStmt(statement WhileStmt) ([]vm.Operation, error) {
	condOps, err := l.HandleExpression(statement.Condition)
	if err != nil {
		return nil, fmt.Errorf("while condition: %w", err)
	}

	blockOps, err := l.handleBlock(statement.Block)
	if err != nil {
		return nil, fmt.Errorf("while body: %w", err)
	}

	startLabel := fmt.Sprintf("WHILE_START_%d", l.nRandomizer)
	endLabel := fmt.Sprintf("WHILE_END_%d", l.nRandomizer+1)
	l.nRandomizer += 2

	ops := []vm.Operation{vm.LabelDecl{Name: startLabel}}
	ops = append(ops, condOps...)
	ops = append(ops,
		vm.ArithmeticOp{Operation: vm.Not},
		vm.GotoOp{Label: endLabel, Jump: vm.Conditional},
	)
	ops = append(ops, blockOps...)
	ops = append(ops,
		vm.GotoOp{Label: startLabel, Jump: vm.Unconditional},
		vm.LabelDecl{Name: endLabel},
	)
	return ops, nil
}

// HandleIfStmt converts a jack.IfStmt, with or without an else block. Label naming
// follows the same globally-increasing counter as HandleWhileStmt.
func (l *Lowerer) HandleIfStmt(statement IfStmt) ([]vm.Operation, error) {
	condOps, err := l.HandleExpression(statement.Condition)
	if err != nil {
		return nil, fmt.Errorf("if condition: %w", err)
	}

	thenOps, err := l.handleBlock(statement.ThenBlock)
	if err != nil {
		return nil, fmt.Errorf("then block: %w", err)
	}
	elseOps, err := l.handleBlock(statement.ElseBlock)
	if err != nil {
		return nil, fmt.Errorf("else block: %w", err)
	}

	if len(statement.ElseBlock) == 0 {
		elseLabel := fmt.Sprintf("ELSE_%d", l.nRandomizer)
		l.nRandomizer++

		ops := append([]vm.Operation{}, condOps...)
		ops = append(ops,
			vm.ArithmeticOp{Operation: vm.Not},
			vm.GotoOp{Label: elseLabel, Jump: vm.Conditional},
		)
		ops = append(ops, thenOps...)
		ops = append(ops, vm.LabelDecl{Name: elseLabel})
		return ops, nil
	}

	thenLabel := fmt.Sprintf("THEN_%d", l.nRandomizer)
	elseLabel := fmt.Sprintf("ELSE_%d", l.nRandomizer+1)
	endLabel := fmt.Sprintf("END_%d", l.nRandomizer+2)
	l.nRandomizer += 3

	ops := append([]vm.Operation{}, condOps...)
	ops = append(ops,
		vm.GotoOp{Label: thenLabel, Jump: vm.Conditional},
		vm.GotoOp{Label: elseLabel, Jump: vm.Unconditional},
		vm.LabelDecl{Name: thenLabel},
	)
	ops = append(ops, thenOps...)
	ops = append(ops,
		vm.GotoOp{Label: endLabel, Jump: vm.Unconditional},
		vm.LabelDecl{Name: elseLabel},
	)
	ops = append(ops, elseOps...)
	ops = append(ops, vm.LabelDecl{Name: endLabel})
	return ops, nil
}

func (l *Lowerer) handleBlock(stmts []Statement) ([]vm.Operation, error) {
	ops := []vm.Operation{}
	for _, stmt := range stmts {
		stmtOps, err := l.HandleStatement(stmt)
		if err != nil {
			return nil, err
		}
		ops = append(ops, stmtOps...)
	}
	return ops, nil
}

// HandleReturnStmt converts a jack.ReturnStmt. A bare 'return;' still pushes a value,
// since the calling convention always leaves something on the stack for the caller to
// pop -- Jack callers of a void subroutine simply discard it (see HandleDoStmt).
func (l *Lowerer) HandleReturnStmt(statement ReturnStmt) ([]vm.Operation, error) {
	if statement.Expr == nil {
		return []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 0},
			vm.ReturnOp{},
		}, nil
	}

	ops, err := l.HandleExpression(statement.Expr)
	if err != nil {
		return nil, fmt.Errorf("return expression: %w", err)
	}
	return append(ops, vm.ReturnOp{}), nil
}

// HandleExpression dispatches on the expression's concrete type.
func (l *Lowerer) HandleExpression(expr Expression) ([]vm.Operation, error) {
	switch e := expr.(type) {
	case VarExpr:
		return l.HandleVarExpr(e)
	case LiteralExpr:
		return l.HandleLiteralExpr(e)
	case ArrayExpr:
		return l.HandleArrayExpr(e)
	case UnaryExpr:
		return l.HandleUnaryExpr(e)
	case BinaryExpr:
		return l.HandleBinaryExpr(e)
	case FuncCallExpr:
		return l.HandleFuncCallExpr(e)
	default:
		return nil, &CodegenError{Node: fmt.Sprintf("%T", expr), Reason: "unrecognized expression"}
	}
}

func segmentOf(varType VarType) (vm.SegmentType, error) {
	switch varType {
	case Local:
		return vm.Local, nil
	case Parameter:
		return vm.Argument, nil
	case Field:
		return vm.This, nil
	case Static:
		return vm.Static, nil
	default:
		return 0, &CodegenError{Node: string(varType), Reason: "variable kind has no VM memory segment"}
	}
}

// HandleVarExpr converts a jack.VarExpr: 'this' reads the object pointer directly,
// everything else resolves through the scope table to its declared segment.
func (l *Lowerer) HandleVarExpr(expression VarExpr) ([]vm.Operation, error) {
	if expression.Var == "this" {
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 0}}, nil
	}

	offset, variable, err := l.scopes.ResolveVariable(expression.Var)
	if err != nil {
		return nil, err
	}
	segment, err := segmentOf(variable.VarType)
	if err != nil {
		return nil, err
	}
	return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: segment, Offset: offset}}, nil
}

// HandleLiteralExpr converts a jack.LiteralExpr. 'null' always emits 'push constant 0'
// regardless of its declared object subtype, and string literals are built by calling
// String.new followed by one String.appendChar per character.
func (l *Lowerer) HandleLiteralExpr(expression LiteralExpr) ([]vm.Operation, error) {
	switch expression.Type.Main {
	case Int:
		value, err := strconv.ParseUint(expression.Value, 10, 16)
		if err != nil {
			return nil, &CodegenError{Node: expression.Value, Reason: "malformed integer literal reached codegen"}
		}
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(value)}}, nil

	case Bool:
		if expression.Value == "true" {
			return []vm.Operation{
				vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 1},
				vm.ArithmeticOp{Operation: vm.Neg},
			}, nil
		}
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 0}}, nil

	case Char:
		if len(expression.Value) != 1 {
			return nil, &CodegenError{Node: expression.Value, Reason: "malformed char literal reached codegen"}
		}
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(expression.Value[0])}}, nil

	case Object:
		if expression.Value == "null" {
			return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 0}}, nil
		}
		if expression.Type.Subtype != "String" {
			return nil, &CodegenError{Node: expression.Value, Reason: "only 'null' and string literals are supported as object literals"}
		}

		ops := []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(len(expression.Value))},
			vm.FuncCallOp{Name: "String.new", NArgs: 1},
		}
		for _, char := range expression.Value {
			ops = append(ops,
				vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(char)},
				vm.FuncCallOp{Name: "String.appendChar", NArgs: 2},
			)
		}
		return ops, nil

	default:
		return nil, &CodegenError{Node: string(expression.Type.Main), Reason: "unrecognized literal type"}
	}
}

// HandleArrayExpr converts a jack.ArrayExpr: compute base+index, park it in 'that'
// through pointer 1, then read the element back through that 0.
func (l *Lowerer) HandleArrayExpr(expression ArrayExpr) ([]vm.Operation, error) {
	baseOps, err := l.HandleVarExpr(VarExpr{Var: expression.Var})
	if err != nil {
		return nil, fmt.Errorf("array base: %w", err)
	}
	indexOps, err := l.HandleExpression(expression.Index)
	if err != nil {
		return nil, fmt.Errorf("array index: %w", err)
	}

	return append(append(indexOps, baseOps...),
		vm.ArithmeticOp{Operation: vm.Add},
		vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 1},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.That, Offset: 0},
	), nil
}

// HandleUnaryExpr converts a jack.UnaryExpr ('-' arithmetic negation, '~' boolean not).
func (l *Lowerer) HandleUnaryExpr(expression UnaryExpr) ([]vm.Operation, error) {
	ops, err := l.HandleExpression(expression.Rhs)
	if err != nil {
		return nil, fmt.Errorf("unary operand: %w", err)
	}

	switch expression.Type {
	case Minus:
		return append(ops, vm.ArithmeticOp{Operation: vm.Neg}), nil
	case BoolNot:
		return append(ops, vm.ArithmeticOp{Operation: vm.Not}), nil
	default:
		return nil, &CodegenError{Node: string(expression.Type), Reason: "not a valid unary operator"}
	}
}

// HandleBinaryExpr converts a jack.BinaryExpr. '*' and '/' lower to Math.multiply and
// Math.divide calls, since the Hack ALU has no native multiply/divide; every other
// operator maps directly onto a single vm.ArithmeticOp.
func (l *Lowerer) HandleBinaryExpr(expression BinaryExpr) ([]vm.Operation, error) {
	lhsOps, err := l.HandleExpression(expression.Lhs)
	if err != nil {
		return nil, fmt.Errorf("binary LHS: %w", err)
	}
	rhsOps, err := l.HandleExpression(expression.Rhs)
	if err != nil {
		return nil, fmt.Errorf("binary RHS: %w", err)
	}
	operands := append(lhsOps, rhsOps...)

	switch expression.Type {
	case Plus:
		return append(operands, vm.ArithmeticOp{Operation: vm.Add}), nil
	case Minus:
		return append(operands, vm.ArithmeticOp{Operation: vm.Sub}), nil
	case Multiply:
		return append(operands, vm.FuncCallOp{Name: "Math.multiply", NArgs: 2}), nil
	case Divide:
		return append(operands, vm.FuncCallOp{Name: "Math.divide", NArgs: 2}), nil
	case BoolOr:
		return append(operands, vm.ArithmeticOp{Operation: vm.Or}), nil
	case BoolAnd:
		return append(operands, vm.ArithmeticOp{Operation: vm.And}), nil
	case Equal:
		return append(operands, vm.ArithmeticOp{Operation: vm.Eq}), nil
	case LessThan:
		return append(operands, vm.ArithmeticOp{Operation: vm.Lt}), nil
	case GreatThan:
		return append(operands, vm.ArithmeticOp{Operation: vm.Gt}), nil
	default:
		return nil, &CodegenError{Node: string(expression.Type), Reason: "not a valid binary operator"}
	}
}

// HandleFuncCallExpr converts a jack.FuncCallExpr, the one place the call
// disambiguation rules live:
//
//   - No qualifier (IsExtCall == false): always a method call on the current object,
//     so 'this' (pointer 0) is pushed as the implicit first argument of
//     CurrentClass.name.
//   - Qualifier resolves to a declared variable: always a method call on that object,
//     regardless of whether some other class in the program happens to also declare a
//     same-named class -- a variable in scope always wins.
//   - Qualifier does not resolve to a variable: it must name a class, and the call is
//     a bare function or constructor call with no implicit 'this'.
func (l *Lowerer) HandleFuncCallExpr(expression FuncCallExpr) ([]vm.Operation, error) {
	argsInit := []vm.Operation{}
	for _, expr := range expression.Arguments {
		ops, err := l.HandleExpression(expr)
		if err != nil {
			return nil, fmt.Errorf("argument expression: %w", err)
		}
		argsInit = append(argsInit, ops...)
	}
	argsLen := len(expression.Arguments)

	if !expression.IsExtCall {
		className := strings.Split(l.scopes.GetScope(), ".")[0]
		fName := fmt.Sprintf("%s.%s", className, expression.FuncName)
		thisOp := vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 0}
		return append([]vm.Operation{thisOp}, append(argsInit, vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen + 1)})...), nil
	}

	if _, variable, err := l.scopes.ResolveVariable(expression.Var); err == nil {
		if variable.DataType.Main != Object {
			return nil, &CodegenError{Node: expression.Var, Reason: "method call target is not an object"}
		}

		thisArg, err := l.HandleVarExpr(VarExpr{Var: expression.Var})
		if err != nil {
			return nil, fmt.Errorf("method call target: %w", err)
		}

		fName := fmt.Sprintf("%s.%s", variable.DataType.Subtype, expression.FuncName)
		return append(append(thisArg, argsInit...), vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen + 1)}), nil
	}

	class, isClass := l.lookupCallee(expression.Var)
	if !isClass {
		if !isCapitalized(expression.Var) {
			return nil, &ScopeError{Name: expression.Var, Reason: "not a declared variable or known class"}
		}
		// A capitalized qualifier that resolves to neither a program class nor the
		// stdlib ABI is assumed to name an external collaborator (the OS, or any
		// library compiled separately) the reference compiler never requires a
		// definition for. Emit the call bare and let the linker/OS supply it.
		fName := fmt.Sprintf("%s.%s", expression.Var, expression.FuncName)
		return append(argsInit, vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen)}), nil
	}

	routine, exists := class.Subroutines.Get(expression.FuncName)
	if !exists {
		// Same reasoning for a known class missing this particular subroutine: fall
		// back to a bare call rather than fail an otherwise sound program.
		fName := fmt.Sprintf("%s.%s", class.Name, expression.FuncName)
		return append(argsInit, vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen)}), nil
	}

	switch routine.Type {
	case Function, Constructor:
		fName := fmt.Sprintf("%s.%s", class.Name, expression.FuncName)
		return append(argsInit, vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen)}), nil
	default:
		return nil, &CodegenError{Node: expression.FuncName, Reason: "class-qualified call must target a function or constructor"}
	}
}

// isCapitalized reports whether name is shaped like a Jack class identifier (it always
// starts with an uppercase letter), as opposed to a lowercase variable name that simply
// failed to resolve in scope.
func isCapitalized(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}

// lookupCallee resolves a class-qualified call's class name against the program first
// and the standard library ABI second, so e.g. Output.printInt resolves without the
// caller having declared or imported anything.
func (l *Lowerer) lookupCallee(name string) (Class, bool) {
	if class, ok := l.program.Get(name); ok {
		return class, true
	}
	class, ok := StandardLibraryABI[name]
	return class, ok
}
