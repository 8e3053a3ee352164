package ast

import (
	"cguide/pkg/ctypes"
	"cguide/pkg/span"
)

// Expression is one node of a parsed C expression tree.
type Expression interface {
	ExprSpan() span.Span
	expr()
}

// BinaryOperator identifies a two-operand operator.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpLogicalAnd
	OpLogicalOr
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpLeftShift
	OpRightShift
)

var binaryOpNames = map[BinaryOperator]string{
	OpAdd:          "+",
	OpSubtract:     "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpModulo:       "%",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpLogicalAnd:   "&&",
	OpLogicalOr:    "||",
	OpBitwiseAnd:   "&",
	OpBitwiseOr:    "|",
	OpBitwiseXor:   "^",
	OpLeftShift:    "<<",
	OpRightShift:   ">>",
}

func (op BinaryOperator) String() string {
	return binaryOpNames[op]
}

// UnaryOperator identifies a one-operand operator.
type UnaryOperator int

const (
	OpNegate UnaryOperator = iota
	OpLogicalNot
	OpBitwiseNot
	OpAddressOf
	OpDereference
	OpPreIncrement
	OpPreDecrement
	OpPostIncrement
	OpPostDecrement
)

var unaryOpNames = map[UnaryOperator]string{
	OpNegate:        "-",
	OpLogicalNot:    "!",
	OpBitwiseNot:    "~",
	OpAddressOf:     "&",
	OpDereference:   "*",
	OpPreIncrement:  "++",
	OpPreDecrement:  "--",
	OpPostIncrement: "++",
	OpPostDecrement: "--",
}

func (op UnaryOperator) String() string {
	return unaryOpNames[op]
}

// IntLiteral is a decoded integer constant; the lexeme's base and
// suffix are resolved during parsing.
type IntLiteral struct {
	Value int64
	Span  span.Span
}

// FloatLiteral is a decoded floating constant.
type FloatLiteral struct {
	Value float64
	Span  span.Span
}

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Span span.Span
}

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	Op    BinaryOperator
	Left  Expression
	Right Expression
	Span  span.Span
}

// UnaryOp applies Op to a single operand.
type UnaryOp struct {
	Op      UnaryOperator
	Operand Expression
	Span    span.Span
}

// Cast converts the operand to TargetType.
type Cast struct {
	TargetType ctypes.Type
	Operand    Expression
	Span       span.Span
}

// FunctionCall invokes Callee with Args.
type FunctionCall struct {
	Callee Expression
	Args   []Expression
	Span   span.Span
}

// ArrayAccess indexes Array with Index.
type ArrayAccess struct {
	Array Expression
	Index Expression
	Span  span.Span
}

// MemberAccess selects a member with the dot operator.
type MemberAccess struct {
	Object Expression
	Member string
	Span   span.Span
}

// PointerMemberAccess selects a member with the arrow operator.
type PointerMemberAccess struct {
	Object Expression
	Member string
	Span   span.Span
}

// Conditional is the ternary ?: operator.
type Conditional struct {
	Cond Expression
	Then Expression
	Else Expression
	Span span.Span
}

// Assignment stores Value into Target.
type Assignment struct {
	Target Expression
	Value  Expression
	Span   span.Span
}

func (e *IntLiteral) ExprSpan() span.Span          { return e.Span }
func (e *FloatLiteral) ExprSpan() span.Span        { return e.Span }
func (e *Identifier) ExprSpan() span.Span          { return e.Span }
func (e *BinaryOp) ExprSpan() span.Span            { return e.Span }
func (e *UnaryOp) ExprSpan() span.Span             { return e.Span }
func (e *Cast) ExprSpan() span.Span                { return e.Span }
func (e *FunctionCall) ExprSpan() span.Span        { return e.Span }
func (e *ArrayAccess) ExprSpan() span.Span         { return e.Span }
func (e *MemberAccess) ExprSpan() span.Span        { return e.Span }
func (e *PointerMemberAccess) ExprSpan() span.Span { return e.Span }
func (e *Conditional) ExprSpan() span.Span         { return e.Span }
func (e *Assignment) ExprSpan() span.Span          { return e.Span }

func (*IntLiteral) expr()          {}
func (*FloatLiteral) expr()        {}
func (*Identifier) expr()          {}
func (*BinaryOp) expr()            {}
func (*UnaryOp) expr()             {}
func (*Cast) expr()                {}
func (*FunctionCall) expr()        {}
func (*ArrayAccess) expr()         {}
func (*MemberAccess) expr()        {}
func (*PointerMemberAccess) expr() {}
func (*Conditional) expr()         {}
func (*Assignment) expr()          {}
