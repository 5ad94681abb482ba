package vm

// ----------------------------------------------------------------------------
// General information

// This section contains some general information about the VM intermediate language.
//
// We declare a shared 'Operation' interface for every macro operation available for the
// language and we define some other useful top-level struct such as Program and Module.
// Is important to note that a VM program can be composed of multiple translation units
// that can be also referenced as file or modules or also classes.

// A VM Program is just a set of multiple modules/files, in the VM spec each Jack class is
// translated to its own .vm file (just like Java .class file) that can be handled as its
// own translation unit during the compilation or lowering phases. Keyed by module/class
// name rather than a plain slice, since the translator and assembler both need to name
// the file a module came from (diagnostics, the .vm -> .asm -> .hack pipeline in cmd/).
type Program map[string]Module

// A VM Module is just a linear list of VM operations/instructions
type Module []Operation

// Used to put together all operation in the VM language (Memory, Arithmetic, ... ops).
type Operation interface{}

// ----------------------------------------------------------------------------
// Memory Op

// In memory representation of a Memory operation for the VM language.
//
// In the VM intermediate language there are only two possible memory operation on the stack.
// We could either push a new value taken from the specified segment location on the stack's
// top or take the stack's top and saves its value at the specified segment location.
type MemoryOp struct {
	Operation OperationType // The type of operation, either 'push' or 'pop'
	Segment   SegmentType   // The named memory segment to use (this, that, temp, ...)
	Offset    uint16        // The specific location/offset inside of the memory segment
}

type OperationType string // Enum to manage the operation allowed for a MemoryOp

const (
	Push OperationType = "push"
	Pop  OperationType = "pop"
)

type SegmentType string // Enum to manage the segment accessible for a MemoryOp

const (
	Temp     SegmentType = "temp"     // Real segment used to store intermediate computations
	Constant SegmentType = "constant" // Virtual segment used to access numeric constant

	Local    SegmentType = "local"    // Real segment used to store local function variables
	Static   SegmentType = "static"   // Real segment used to store shared/static variables
	Argument SegmentType = "argument" // Real segment used to store function's argument

	This    SegmentType = "this"    // Virtual segment used to point to a specific memory location
	That    SegmentType = "that"    // Virtual segment used to point to a specific memory location
	Pointer SegmentType = "pointer" // Real segment w/ 2 location used to set the 'this' and 'that' pointers
)

// ----------------------------------------------------------------------------
// Arithmetic Op

// In memory representation of a Arithmetic operation for the VM language.
//
// In the VM intermediate language there are just a handful of operation available.
// In particular each operation acts directly on the top of the stack, of course we have both unary
// and binary operation, the specific management of each op will be handled in the codegen phase.
type ArithmeticOp struct{ Operation ArithOpType }

type ArithOpType string // Enum to manage the operation allowed for an ArithmeticOp

const (
	Eq ArithOpType = "eq" // Comparison operations
	Gt ArithOpType = "gt"
	Lt ArithOpType = "lt"

	Add ArithOpType = "add" // Arithmetic operations
	Sub ArithOpType = "sub"
	Neg ArithOpType = "neg"

	Not ArithOpType = "not" // Bitwise operations
	And ArithOpType = "and"
	Or  ArithOpType = "or"
)


// ----------------------------------------------------------------------------
// Branching Op

// LabelDecl marks a jump target inside a function's body. Label names are only unique
// within the function that declares them at the VM text level, but the Lowerer (see
// lowering.go) qualifies them with the enclosing function name before emitting assembly so
// that two functions can each declare a label named "LOOP" without colliding.
type LabelDecl struct{ Name string }

// GotoOp transfers control to a LabelDecl, either unconditionally or after popping and
// testing the stack's top (true jumps, false falls through).
type GotoOp struct {
	Label string
	Jump  JumpType
}

type JumpType string // Enum for the two jump flavors available to a GotoOp

const (
	Unconditional JumpType = "goto"
	Conditional   JumpType = "if-goto"
)

// ----------------------------------------------------------------------------
// Function Op

// FuncDecl marks the entry point of a function/method/constructor body (Jack subroutines
// all lower to this single construct, see pkg/jack's Lowerer). NLocal tells the callee
// how many local-segment slots to zero-initialize on entry.
type FuncDecl struct {
	Name   string
	NLocal uint8
}

// FuncCallOp invokes another function by name, having already pushed NArgs worth of
// arguments onto the stack.
type FuncCallOp struct {
	Name  string
	NArgs uint8
}

// ReturnOp restores the caller's frame (LCL/ARG/THIS/THAT and the return address) and
// transfers control back, leaving the callee's single return value atop the stack.
type ReturnOp struct{}
