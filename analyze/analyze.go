// Package analyze runs the fixpoint analysis over a grammar's rule graph:
// it computes, for every rule, whether every successful parse of it is
// guaranteed to advance the input cursor, and along the way it detects
// left recursion and unused/undefined rules.
//
// This is a Go rendering of consumesInput from the original peg/leg C
// compiler (original_source/src/compile.c), using an explicit visited set
// instead of the transient Rule.Reached flag the C tool mutates on the AST
// node itself (spec.md §9 recommends exactly this: "Implementations should
// prefer a separate visited-set structure to avoid mutating AST nodes
// during analysis").
package analyze

import (
	"fmt"

	"github.com/pegforge/pegc/ast"
)

// Severity distinguishes diagnostics that merely warn from ones that would
// make the generated parser fail to do what the grammar author intended.
type Severity int

const (
	Warning Severity = iota
	Fatal
)

// Diagnostic is one analyzer finding. It is always advisory from the
// analyzer's own point of view (spec §4.5: "its output is advisory... but
// mandatory to compute"); codegen.Driver decides whether any Fatal
// diagnostic aborts emission.
type Diagnostic struct {
	Severity Severity
	Rule     string // rule name the diagnostic concerns, if any
	Message  string
}

func (d Diagnostic) String() string {
	if d.Rule == "" {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Rule, d.Message)
}

// Result is the output of Analyze: per-rule consumesInput facts plus the
// diagnostics collected along the way.
type Result struct {
	// ConsumesInput maps each rule to whether every successful parse of
	// it advances the cursor by at least one symbol.
	ConsumesInput map[*ast.Rule]bool
	Diagnostics   []Diagnostic
}

// Analyze runs consumesInput over every rule in the grammar, then checks
// for undefined and unused rules. Its only change to the AST is setting
// the Used flag on referenced rules and the start rule; Rule.Reached is
// never set by this package (a separate visited set tracks recursion).
func Analyze(g *ast.Grammar) *Result {
	res := &Result{ConsumesInput: make(map[*ast.Rule]bool, len(g.Rules))}
	reached := make(map[*ast.Rule]bool, len(g.Rules))
	warnedLeftRecursive := make(map[*ast.Rule]bool, len(g.Rules))

	for _, r := range g.Rules {
		res.consumesRule(r, reached, warnedLeftRecursive)
	}

	res.checkUndefined(g)
	res.checkUnused(g)
	return res
}

// consumesRule is the Rule case of consumesInput: entry sets the reached
// marker, recurses into the rule's expression, then clears the marker. If
// the marker is already set on entry, this is a left-recursion cycle: a
// warning is recorded (once per rule, via warned) and the rule is
// conservatively reported as not consuming input (matching the C tool's
// "return 0" on the reached path).
func (res *Result) consumesRule(r *ast.Rule, reached, warned map[*ast.Rule]bool) bool {
	if v, ok := res.ConsumesInput[r]; ok {
		return v
	}
	if reached[r] {
		if !warned[r] {
			warned[r] = true
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: Warning,
				Rule:     r.Name,
				Message:  "possible infinite left recursion",
			})
		}
		return false
	}

	reached[r] = true
	result := res.consumes(r.Expr, reached, warned)
	delete(reached, r)

	res.ConsumesInput[r] = result
	return result
}

// consumes is the Expr-kind dispatch of consumesInput.
func (res *Result) consumes(e ast.Expr, reached, warned map[*ast.Rule]bool) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *ast.DotExpr:
		return true
	case *ast.ClassExpr:
		return true
	case *ast.CharExpr:
		return true
	case *ast.StringExpr:
		return len(n.Value) > 0
	case *ast.NameExpr:
		if n.Target == nil {
			// Dangling reference: checkUndefined reports it
			// separately; here we just can't know, so assume no
			// guaranteed consumption.
			return false
		}
		return res.consumesRule(n.Target, reached, warned)
	case *ast.ActionExpr, *ast.InlineExpr, *ast.PredicateExpr:
		return false
	case *ast.ErrorExpr:
		return res.consumes(n.Elem, reached, warned)
	case *ast.AlternateExpr:
		for _, c := range n.Exprs {
			if !res.consumes(c, reached, warned) {
				return false
			}
		}
		return true
	case *ast.SequenceExpr:
		for _, c := range n.Exprs {
			if res.consumes(c, reached, warned) {
				return true
			}
		}
		return false
	case *ast.PeekForExpr, *ast.PeekNotExpr, *ast.QueryExpr, *ast.StarExpr:
		return false
	case *ast.PlusExpr:
		return res.consumes(n.Elem, reached, warned)
	default:
		panic(fmt.Sprintf("analyze: unknown AST node kind %T", e))
	}
}

// checkUndefined reports a rule referenced by a Name node whose Target is
// nil or whose Target is not present in the grammar's rule table.
func (res *Result) checkUndefined(g *ast.Grammar) {
	seen := make(map[string]bool)
	for _, r := range g.Rules {
		ast.Walk(r.Expr, func(e ast.Expr) {
			n, ok := e.(*ast.NameExpr)
			if !ok {
				return
			}
			if n.Target != nil && g.RuleByName(n.Target.Name) == n.Target {
				return
			}
			key := r.Name + "->" + n.Name
			if seen[key] {
				return
			}
			seen[key] = true
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: Warning,
				Rule:     r.Name,
				Message:  fmt.Sprintf("rule %q used but not defined", n.Name),
			})
		})
	}
}

// checkUnused reports a defined rule that is never referenced by a Name
// node and is not the grammar's start rule.
func (res *Result) checkUnused(g *ast.Grammar) {
	used := make(map[string]bool)
	used[g.StartRule] = true
	for _, r := range g.Rules {
		ast.Walk(r.Expr, func(e ast.Expr) {
			if n, ok := e.(*ast.NameExpr); ok {
				used[n.Name] = true
			}
		})
	}
	for _, r := range g.Rules {
		if used[r.Name] {
			r.SetFlag(ast.Used)
			continue
		}
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: Warning,
			Rule:     r.Name,
			Message:  "rule defined but not used",
		})
	}
}

// HasFatal reports whether res contains any Fatal diagnostic.
func (res *Result) HasFatal() bool {
	for _, d := range res.Diagnostics {
		if d.Severity == Fatal {
			return true
		}
	}
	return false
}
