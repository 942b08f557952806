package ast

// Expr is the tagged-variant interface every expression node kind
// implements. Children returns the node's direct subexpressions in
// traversal order (empty for leaves), used by Walk and by the analyzer.
type Expr interface {
	Pos() Pos
	Children() []Expr
	exprNode()
}

type base struct {
	P Pos
}

func (b base) Pos() Pos { return b.P }

// DotExpr matches any one input symbol.
type DotExpr struct {
	base
}

func (*DotExpr) Children() []Expr { return nil }
func (*DotExpr) exprNode()        {}

// NameExpr invokes another rule; on success, if Bind is non-nil, the
// target rule's output value is stored at Bind's slot. Target is a
// non-owning reference into the grammar's rule table.
type NameExpr struct {
	base
	Name   string
	Target *Rule
	Bind   *Variable
}

func (*NameExpr) Children() []Expr { return nil }
func (*NameExpr) exprNode()        {}

// CharExpr matches one specific input symbol.
type CharExpr struct {
	base
	Value byte
}

func (*CharExpr) Children() []Expr { return nil }
func (*CharExpr) exprNode()        {}

// StringExpr matches a contiguous literal sequence. If IgnoreCase is set,
// comparison is done against the lowercased input.
type StringExpr struct {
	base
	Value      string
	IgnoreCase bool
}

func (*StringExpr) Children() []Expr { return nil }
func (*StringExpr) exprNode()        {}

// ClassExpr matches one symbol against a character class. Raw is the
// class's literal source text (ranges, negation, escapes), unparsed; the
// classes package compiles it into a bitmap at emission time.
type ClassExpr struct {
	base
	Raw        string
	IgnoreCase bool
}

func (*ClassExpr) Children() []Expr { return nil }
func (*ClassExpr) exprNode()        {}

// ActionExpr registers a deferred side effect on success. Text is opaque
// user code, copied verbatim into the action's trampoline function. Rule
// is filled in by Grammar.Index. Line records the source line the text
// came from, used only for optional line-directive comments.
type ActionExpr struct {
	base
	Text string
	Rule *Rule
	Line int
	// GoType, if non-empty, is spliced into the trampoline's return type
	// in place of interface{} (see SPEC_FULL.md, supplemented feature 3).
	GoType string
}

func (*ActionExpr) Children() []Expr { return nil }
func (*ActionExpr) exprNode()        {}

// InlineExpr injects action text inline, unconditionally, during matching.
type InlineExpr struct {
	base
	Text string
}

func (*InlineExpr) Children() []Expr { return nil }
func (*InlineExpr) exprNode()        {}

// PredicateExpr is a guard: if Text evaluates false at runtime, the node
// fails.
type PredicateExpr struct {
	base
	Text string
}

func (*PredicateExpr) Children() []Expr { return nil }
func (*PredicateExpr) exprNode()        {}

// ErrorExpr is a recovery node: if Elem fails, Text (the error-handler
// text) runs, then the node fails to the caller.
type ErrorExpr struct {
	base
	Elem Expr
	Text string
}

func (e *ErrorExpr) Children() []Expr { return []Expr{e.Elem} }
func (*ErrorExpr) exprNode()          {}

// AlternateExpr is ordered choice: the first child whose compiled matcher
// succeeds wins.
type AlternateExpr struct {
	base
	Exprs []Expr
}

func (e *AlternateExpr) Children() []Expr { return e.Exprs }
func (*AlternateExpr) exprNode()          {}

// SequenceExpr is concatenation.
type SequenceExpr struct {
	base
	Exprs []Expr
}

func (e *SequenceExpr) Children() []Expr { return e.Exprs }
func (*SequenceExpr) exprNode()          {}

// PeekForExpr is positive syntactic lookahead (&e): succeeds iff Elem
// would succeed, without consuming input.
type PeekForExpr struct {
	base
	Elem Expr
}

func (e *PeekForExpr) Children() []Expr { return []Expr{e.Elem} }
func (*PeekForExpr) exprNode()          {}

// PeekNotExpr is negative syntactic lookahead (!e): succeeds iff Elem
// would fail, without consuming input.
type PeekNotExpr struct {
	base
	Elem Expr
}

func (e *PeekNotExpr) Children() []Expr { return []Expr{e.Elem} }
func (*PeekNotExpr) exprNode()          {}

// QueryExpr is optional repetition (e?): 0 or 1.
type QueryExpr struct {
	base
	Elem Expr
}

func (e *QueryExpr) Children() []Expr { return []Expr{e.Elem} }
func (*QueryExpr) exprNode()          {}

// StarExpr is greedy repetition (e*): 0 or more.
type StarExpr struct {
	base
	Elem Expr
}

func (e *StarExpr) Children() []Expr { return []Expr{e.Elem} }
func (*StarExpr) exprNode()          {}

// PlusExpr is greedy repetition (e+): 1 or more.
type PlusExpr struct {
	base
	Elem Expr
}

func (e *PlusExpr) Children() []Expr { return []Expr{e.Elem} }
func (*PlusExpr) exprNode()          {}

// NewPos is a convenience constructor used by front ends and by tests that
// build ASTs by hand.
func NewPos(line, col, offset int) Pos { return Pos{Line: line, Col: col, Offset: offset} }
