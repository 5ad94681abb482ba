package jack

import "nand2tetris.dev/toolchain/pkg/utils"

// ----------------------------------------------------------------------------
// General information

// This section contains some general information about the Jack programming language.
//
// A program is basically a container of classes (the only top-level object allowed)
// and the program is started by locating the Main class and executing its 'main' method.
// Other than classes the other 4 main constructs are:
// - Variables: to declare containers of value (also used for class' fields)
// - Subroutines: to declare containers of instruction (also used for class' methods)
// - Statements: to perform a side effect, conditional jump or other program flow change
// - Expressions: to perform a calculation that produces a result (arithmetic ops and so on...)

// A Jack Program is just a set of multiple classes, in the Jack spec each class is translated
// to its own .vm file (just like Java .class file) so the class is to be considered the top-level
// entity of the program and is mapped to a role equal to module or namespace in other languages.
//
// Kept as an OrderedMap (not a plain Go map, unlike the teacher's draft) so that lowering a
// program always visits classes in the same order and produces byte-identical output across runs.
type Program = utils.OrderedMap[string, Class]

// ----------------------------------------------------------------------------
// Classes

// A Class is a list of Fields that contains the state and Subroutines to change said state.
//
// Both Fields and Subroutines come in a static variant (resp. static 'Variable' or function
// Subroutine) where the instance of the class is not scoped to the single object instantiation
// but to the program as a whole.
type Class struct {
	Name        string                               // The class name or id, will also identify the instantiated object type
	Fields      utils.OrderedMap[string, Variable]   // The variable (static or not) associated to the class or object instance
	Subroutines utils.OrderedMap[string, Subroutine] // The subroutines (static or not) associated to the class or object instance
}

// ----------------------------------------------------------------------------
// Subroutines

// A Subroutine is somewhat like a math function: it takes a series of inputs and returns an
// output. As part of its computation (statement evaluation) it may change the state of some
// variables in the program either by direct manipulation of the class' fields (static or not)
// or by just returning values that will influence the program flow once returned to the caller.
type Subroutine struct {
	Name string         // Name/id, w/ the class id will identify universally the subroutine
	Type SubroutineType // Function flavor, used to determine the codegen strategy during compilation

	Return    DataType                          // The type of value returned by the procedure ('void' for no value)
	Arguments utils.OrderedMap[string, Variable] // The set of arguments to be provided and used during the execution
	Locals    []Variable                        // 'var' declarations local to the subroutine body

	Statements []Statement // The list of statements to be executed, a representation of the func program flow
}

type SubroutineType string // Enum to manage the different flavors allowed for a Subroutine

const (
	Method      SubroutineType = "method"
	Function    SubroutineType = "function"
	Constructor SubroutineType = "constructor"
)

// ----------------------------------------------------------------------------
// Statements

// A statement produces a side effect in the program flow whether by changing a var or jumping
// to another instruction. We declare a shared 'Statement' interface for every macro operation
// available in the Jack language, then define one after the other all the specific statements
// w/ their internal logic and required data to perform it (or compile it). This follows the
// tagged-sum-type redesign: an `interface{}` marker + type switch rather than a single
// heterogeneous node class with runtime `isinstance` checks.
type Statement interface{ isStatement() }

type DoStmt struct{ FuncCall FuncCallExpr } // Unconditional call, ignores its return value

type VarStmt struct{ Vars []Variable } // Local variable declaration(s), no value assigned yet

type LetStmt struct { // Variable (or array element) assignment
	Lhs Expression // Only VarExpr and ArrayExpr are legal here
	Rhs Expression // The expression to be evaluated and assigned to the LHS
}

type ReturnStmt struct{ Expr Expression } // Expr is nil for a bare 'return;'

type IfStmt struct { // Conditional fork, ElseBlock may be nil
	Condition Expression
	ThenBlock []Statement
	ElseBlock []Statement
}

type WhileStmt struct { // Conditional iteration
	Condition Expression
	Block     []Statement
}

func (DoStmt) isStatement()     {}
func (VarStmt) isStatement()    {}
func (LetStmt) isStatement()    {}
func (ReturnStmt) isStatement() {}
func (IfStmt) isStatement()     {}
func (WhileStmt) isStatement()  {}

// ----------------------------------------------------------------------------
// Expressions

// Expressions take one or two sub-expressions and produce a new value that can be used
// further. Same tagged-sum-type treatment as Statement above.
type Expression interface{ isExpression() }

type VarExpr struct{ Var string } // Reads the value held by a variable

type LiteralExpr struct { // A constant value
	Type  DataType
	Value string
}

type ArrayExpr struct { // Reads a single element of an array
	Var   string
	Index Expression
}

type UnaryExpr struct { // Negation ('-') or boolean not ('~')
	Type ExprType
	Rhs  Expression
}

type BinaryExpr struct { // Combines two expressions ('+ - * / & | < > =')
	Type ExprType
	Lhs  Expression
	Rhs  Expression
}

type FuncCallExpr struct { // Calls another subroutine, locally or on an object/class
	IsExtCall bool   // true for 'class.Method(...)' or 'var.Method(...)' syntax
	Var       string // Qualifier ("" if !IsExtCall)
	FuncName  string

	Arguments []Expression
}

func (VarExpr) isExpression()      {}
func (LiteralExpr) isExpression()  {}
func (ArrayExpr) isExpression()    {}
func (UnaryExpr) isExpression()    {}
func (BinaryExpr) isExpression()   {}
func (FuncCallExpr) isExpression() {}

type ExprType string // Enum for the operation performed by a Unary/BinaryExpr

const (
	Plus     ExprType = "plus"
	Minus    ExprType = "minus" // Subtraction (BinaryExpr) or arithmetic negation (UnaryExpr)
	Divide   ExprType = "divide"
	Multiply ExprType = "multiply"

	BoolOr  ExprType = "bool_or"
	BoolAnd ExprType = "bool_and"
	BoolNot ExprType = "bool_not" // Unary only

	Equal     ExprType = "equal"
	LessThan  ExprType = "less_than"
	GreatThan ExprType = "greater_than"
)

// ----------------------------------------------------------------------------
// Variables

// Variables are containers of value that can be read/written through expressions or
// statements. A single 'Variable' struct accommodates every configuration: static &
// instance fields for classes, local variables and parameters for subroutines.
type Variable struct {
	Name     string   // The var name, acts as identifier in the scope it is declared
	VarType  VarType  // Determines which memory segment the variable lives in
	DataType DataType // Determines how to read/cast the value the variable holds
}

type VarType string // Enum for where a Variable lives

const (
	Local     VarType = "local"
	Field     VarType = "field"
	Static    VarType = "static"
	Parameter VarType = "parameter"
)

// DataType is the Jack type of a value: one of the three primitives, 'void' (only legal
// as a subroutine return type), or an object type, in which case Subtype carries the
// class name (e.g. DataType{Main: Object, Subtype: "Point"}). Jack's String is modeled
// as an object type whose Subtype is "String", since at the VM level a string literal
// is built the same way a constructor call would build any other object.
type DataType struct {
	Main    DataTypeKind
	Subtype string // Only meaningful when Main == Object
}

type DataTypeKind string

const (
	Int    DataTypeKind = "int"
	Bool   DataTypeKind = "bool"
	Char   DataTypeKind = "char"
	Void   DataTypeKind = "void"
	Object DataTypeKind = "object"
)

// PrimitiveOrObject resolves a type-name token as it appears in source (e.g. "int",
// "boolean", "MyClass") into a DataType.
func PrimitiveOrObject(name string) DataType {
	switch name {
	case "int":
		return DataType{Main: Int}
	case "char":
		return DataType{Main: Char}
	case "boolean":
		return DataType{Main: Bool}
	case "void":
		return DataType{Main: Void}
	default:
		return DataType{Main: Object, Subtype: name}
	}
}
