// Package ast defines the grammar data model that pegc's back end compiles:
// a validated tree of PEG rules and expressions produced by a front-end
// parser that lives outside this module.
package ast

// Pos records a position in the grammar source, used only for diagnostics
// and for the optional line-directive comments the driver can emit.
type Pos struct {
	Line, Col, Offset int
}

// Flag is a bitset of transient or sticky markers carried on a Rule.
type Flag uint8

const (
	// Used marks a rule that is referenced by at least one Name node
	// (or is the grammar's start rule).
	Used Flag = 1 << iota
	// Reached is a transient marker set for the duration of a
	// left-recursion probe in the analyzer and cleared on exit; it must
	// be zero outside of analysis.
	Reached
)

// Variable is a declared local binding inside a rule's body. Offset is a
// 0-based slot index assigned at emission time, stable for the lifetime
// of one rule's body: the slot holding the bound value is
// frame[Offset] in the generated code's variable frame.
type Variable struct {
	Name   string
	Offset int

	// Next chains sibling Variable declarations within the same rule, in
	// declaration order. The chain is null-terminated (nil Next marks the
	// last declaration).
	Next *Variable
}

// Rule is a named production. Expr may be nil for a forward-declared but
// undefined rule (the analyzer reports this; emission proceeds with a
// diagnostic per spec §4.9).
type Rule struct {
	Name string
	ID   int
	Pos  Pos

	// DisplayName is an optional human-readable name (e.g. "identifier"
	// instead of "Ident"), returned by DisplayOrName; empty means fall
	// back to Name. The generated parser's and the runtime package's
	// error messages report Name, not DisplayName.
	DisplayName string

	Expr  Expr
	Flags Flag

	// Vars is the head of this rule's declared-variable chain, or nil if
	// the rule declares none.
	Vars *Variable
}

func (r *Rule) HasFlag(f Flag) bool  { return r.Flags&f != 0 }
func (r *Rule) SetFlag(f Flag)       { r.Flags |= f }
func (r *Rule) ClearFlag(f Flag)     { r.Flags &^= f }
func (r *Rule) DisplayOrName() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// Grammar is the root of the AST: the rule table plus the designated start
// rule. The rule table owns every Rule node; Rule nodes own their
// expression subtrees exclusively. The global Actions index is a secondary,
// non-owning index over every Action node reachable from the rules, used by
// the driver to emit each action trampoline exactly once.
type Grammar struct {
	Rules     []*Rule
	StartRule string

	// Init is an opaque top-of-file code block (the grammar's preamble),
	// copied verbatim ahead of the generated rule bodies. It is not a
	// node in the expression tree; it has no behavioral contract beyond
	// "copied verbatim", per spec §1 (user action code is opaque text).
	Init string

	// Actions is the discovery-order index of every Action node in the
	// grammar, populated by Index. Name nodes hold a non-owning *Rule
	// reference (no index needed: the rule table is addressed by name or
	// by ID directly).
	Actions []*ActionExpr
}

// RuleByName returns the rule with the given name, or nil.
func (g *Grammar) RuleByName(name string) *Rule {
	for _, r := range g.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Index walks every rule's expression tree and rebuilds the Actions index.
// It must be called once after the AST is constructed (and again after any
// structural edit) before the analyzer or driver run.
func (g *Grammar) Index() {
	g.Actions = g.Actions[:0]
	for _, r := range g.Rules {
		Walk(r.Expr, func(e Expr) {
			if a, ok := e.(*ActionExpr); ok {
				a.Rule = r
				g.Actions = append(g.Actions, a)
			}
		})
	}
}

// Walk calls fn for e and, recursively, for every child expression. It
// performs no cycle detection: Name nodes hold a non-owning reference to
// their target Rule and are never followed, so Walk always terminates.
func Walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range e.Children() {
		Walk(c, fn)
	}
}
