package jack

import "fmt"

// LexError reports a malformed token: an out-of-range integer constant, an unterminated
// string literal, or a character that starts no valid token.
type LexError struct {
	File   string
	Line   int
	Lexeme string
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s:%d: lex error near %q: %s", e.File, e.Line, e.Lexeme, e.Reason)
}

// ParseError reports that no grammar alternative matched at the given token, or that
// tokens remained after a top-level construct was fully parsed.
type ParseError struct {
	File     string
	Line     int
	Lexeme   string
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: parse error near %q: expected %s", e.File, e.Line, e.Lexeme, e.Expected)
}

// ScopeError reports a use of an identifier that cannot be resolved to any declared
// class, subroutine, or variable.
type ScopeError struct {
	Name   string
	Reason string
}

func (e *ScopeError) Error() string { return fmt.Sprintf("scope error: %s: %s", e.Name, e.Reason) }

// CodegenError reports an AST shape the lowerer cannot translate: either a structurally
// impossible node (a parser or scope-resolution bug) or a call the source makes on an
// unusable target, such as a method call through a non-object variable.
type CodegenError struct {
	Node   string
	Reason string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("codegen error on %s: %s", e.Node, e.Reason)
}
