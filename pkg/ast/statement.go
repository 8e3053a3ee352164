package ast

import (
	"cguide/pkg/ctypes"
	"cguide/pkg/span"
)

// Statement is one node of a C statement tree. The declaration parser
// leaves function bodies opaque, so it never produces statements
// itself; the tree is exported surface for consumers that parse
// bodies on their own.
type Statement interface {
	StmtSpan() span.Span
	stmt()
}

// ExpressionStmt is a bare expression followed by a semicolon.
type ExpressionStmt struct {
	Expr Expression
	Span span.Span
}

// ReturnStmt returns Value, which is nil for a bare `return;`.
type ReturnStmt struct {
	Value Expression
	Span  span.Span
}

// IfStmt branches on Cond; Else is nil when absent.
type IfStmt struct {
	Cond Expression
	Then Statement
	Else Statement
	Span span.Span
}

// WhileStmt loops while Cond holds.
type WhileStmt struct {
	Cond Expression
	Body Statement
	Span span.Span
}

// DoWhileStmt runs Body once before testing Cond.
type DoWhileStmt struct {
	Body Statement
	Cond Expression
	Span span.Span
}

// ForStmt is a classic three-clause loop; any clause may be nil.
type ForStmt struct {
	Init Statement
	Cond Expression
	Post Expression
	Body Statement
	Span span.Span
}

// BreakStmt exits the innermost loop or switch.
type BreakStmt struct {
	Span span.Span
}

// ContinueStmt jumps to the next loop iteration.
type ContinueStmt struct {
	Span span.Span
}

// SwitchCase is one case (or default, when Value is nil) of a switch.
type SwitchCase struct {
	Value Expression
	Body  []Statement
	Span  span.Span
}

// SwitchStmt dispatches on Cond.
type SwitchStmt struct {
	Cond  Expression
	Cases []SwitchCase
	Span  span.Span
}

// CompoundStmt is a braced statement list.
type CompoundStmt struct {
	Statements []Statement
	Span       span.Span
}

// VariableDeclStmt declares a local variable; Init may be nil.
type VariableDeclStmt struct {
	Name string
	Type *ctypes.Type
	Init Expression
	Span span.Span
}

// LabelStmt labels the statement that follows it.
type LabelStmt struct {
	Name string
	Stmt Statement
	Span span.Span
}

// GotoStmt jumps to a label.
type GotoStmt struct {
	Label string
	Span  span.Span
}

func (s *ExpressionStmt) StmtSpan() span.Span   { return s.Span }
func (s *ReturnStmt) StmtSpan() span.Span       { return s.Span }
func (s *IfStmt) StmtSpan() span.Span           { return s.Span }
func (s *WhileStmt) StmtSpan() span.Span        { return s.Span }
func (s *DoWhileStmt) StmtSpan() span.Span      { return s.Span }
func (s *ForStmt) StmtSpan() span.Span          { return s.Span }
func (s *BreakStmt) StmtSpan() span.Span        { return s.Span }
func (s *ContinueStmt) StmtSpan() span.Span     { return s.Span }
func (s *SwitchStmt) StmtSpan() span.Span       { return s.Span }
func (s *CompoundStmt) StmtSpan() span.Span     { return s.Span }
func (s *VariableDeclStmt) StmtSpan() span.Span { return s.Span }
func (s *LabelStmt) StmtSpan() span.Span        { return s.Span }
func (s *GotoStmt) StmtSpan() span.Span         { return s.Span }

func (*ExpressionStmt) stmt()   {}
func (*ReturnStmt) stmt()       {}
func (*IfStmt) stmt()           {}
func (*WhileStmt) stmt()        {}
func (*DoWhileStmt) stmt()      {}
func (*ForStmt) stmt()          {}
func (*BreakStmt) stmt()        {}
func (*ContinueStmt) stmt()     {}
func (*SwitchStmt) stmt()       {}
func (*CompoundStmt) stmt()     {}
func (*VariableDeclStmt) stmt() {}
func (*LabelStmt) stmt()        {}
func (*GotoStmt) stmt()         {}
