package ir

import (
	"fmt"

	"github.com/pegforge/pegc/ast"
	"github.com/pegforge/pegc/classes"
)

// Emit compiles every rule of g into a Program, in g.Rules order. It does
// not consult analyze.Result: left-recursion and undefined/unused-rule
// diagnostics are advisory and collected separately, not a precondition
// for emission (spec §4.5: "its output is advisory... but mandatory to
// compute" describes the analyzer's role, not a gate on the emitter).
func Emit(g *ast.Grammar) []Program {
	actionIndex := make(map[*ast.ActionExpr]int, len(g.Actions))
	for i, a := range g.Actions {
		actionIndex[a] = i
	}

	progs := make([]Program, len(g.Rules))
	for i, r := range g.Rules {
		progs[i] = emitRule(r, actionIndex)
	}
	return progs
}

// emitRule is the rule emitter (spec §4.4): it allocates the rule's
// failure label, wraps the body in an entry checkpoint unless the body's
// outermost form can never fail, frames rule-local variables, and returns
// true/false at the two exits.
func emitRule(r *ast.Rule, actionIndex map[*ast.ActionExpr]int) Program {
	b := newBuilder(actionIndex)
	ko := b.newLabel()

	safe := alwaysSucceeds(r.Expr)
	if !safe {
		b.emit(Instr{Op: OpSave})
	}

	nvars := countVars(r.Vars)
	if nvars > 0 {
		b.emit(Instr{Op: OpPushVarFrame, Arg: nvars})
	}

	emitExpr(b, r.Expr, ko)

	if nvars > 0 {
		b.emit(Instr{Op: OpPopVarFrame})
	}
	if !safe {
		b.emit(Instr{Op: OpCommit})
	}
	b.emit(Instr{Op: OpReturn, Arg: 1})

	if !safe {
		b.bind(ko)
		b.emit(Instr{Op: OpBacktrack})
		b.emit(Instr{Op: OpReturn, Arg: 0})
	}

	return b.finish(r.Name)
}

func countVars(v *ast.Variable) int {
	n := 0
	for ; v != nil; v = v.Next {
		n++
	}
	return n
}

// alwaysSucceeds reports whether e's outermost form can never fail, so the
// rule wrapper can skip its entry checkpoint entirely (spec: Query/Star
// entry/exit-save omission). This mirrors compile.c's Rule_compile_c2
// "safe" check, which looks only at the rule's immediate top-level node,
// not its full subtree.
func alwaysSucceeds(e ast.Expr) bool {
	switch e.(type) {
	case *ast.QueryExpr, *ast.StarExpr:
		return true
	default:
		return false
	}
}

// emitExpr is the expression emitter (spec §4.3): it walks one AST node
// and appends instructions that, at runtime, fall through on success and
// jump to ko on failure.
func emitExpr(b *builder, e ast.Expr, ko label) {
	switch n := e.(type) {
	case *ast.DotExpr:
		b.emitTo(OpMatchDot, ko, Instr{})

	case *ast.CharExpr:
		b.emitTo(OpMatchChar, ko, Instr{Text: string(n.Value)})

	case *ast.StringExpr:
		switch {
		case len(n.Value) == 0:
			// The empty string always matches; nothing to emit.
		case len(n.Value) == 1 && !n.IgnoreCase:
			b.emitTo(OpMatchChar, ko, Instr{Text: n.Value})
		case n.IgnoreCase:
			b.emitTo(OpMatchIString, ko, Instr{Text: n.Value})
		default:
			b.emitTo(OpMatchString, ko, Instr{Text: n.Value})
		}

	case *ast.ClassExpr:
		bm := classes.Compile(n.Raw)
		if n.IgnoreCase {
			bm.FoldCase()
		}
		b.emitTo(OpMatchClass, ko, Instr{Text: bm.Render()})

	case *ast.NameExpr:
		b.emitTo(OpCallRule, ko, Instr{Text: n.Name})
		if n.Bind != nil {
			b.emit(Instr{Op: OpBindVar, Arg: n.Bind.Offset})
		}

	case *ast.ActionExpr:
		idx, ok := b.actionIndex[n]
		if !ok {
			panic("ir: ActionExpr not present in grammar's Actions index; was g.Index() called before Emit?")
		}
		b.emit(Instr{Op: OpAction, Arg: idx, Code: n.Text, Line: n.Line})

	case *ast.InlineExpr:
		b.emit(Instr{Op: OpInline, Code: n.Text})

	case *ast.PredicateExpr:
		b.emitTo(OpPredicate, ko, Instr{Code: n.Text})

	case *ast.ErrorExpr:
		emitError(b, n, ko)

	case *ast.AlternateExpr:
		emitAlternate(b, n, ko)

	case *ast.SequenceExpr:
		for _, c := range n.Exprs {
			emitExpr(b, c, ko)
		}

	case *ast.PeekForExpr:
		emitPeekFor(b, n, ko)

	case *ast.PeekNotExpr:
		emitPeekNot(b, n, ko)

	case *ast.QueryExpr:
		emitQuery(b, n)

	case *ast.StarExpr:
		emitStar(b, n)

	case *ast.PlusExpr:
		emitPlus(b, n, ko)

	default:
		panic(fmt.Sprintf("ir: unknown AST node kind %T", e))
	}
}

// emitError runs n.Elem; on failure it runs the error handler (which never
// itself fails) and only then propagates the failure to ko, so the handler
// always sees the position where Elem gave up.
func emitError(b *builder, n *ast.ErrorExpr, ko label) {
	lfail := b.newLabel()
	lend := b.newLabel()

	emitExpr(b, n.Elem, lfail)
	b.emitTo(OpJump, lend, Instr{})

	b.bind(lfail)
	b.emit(Instr{Op: OpError, Code: n.Text})
	b.emitTo(OpJump, ko, Instr{})

	b.bind(lend)
}

// emitAlternate is ordered choice: each non-final branch gets its own
// checkpoint, committed on success and backtracked on failure before the
// next branch is tried; the final branch shares no local checkpoint and
// propagates failure straight to ko, since at that point there is nothing
// left to retry.
func emitAlternate(b *builder, n *ast.AlternateExpr, ko label) {
	if len(n.Exprs) == 0 {
		return
	}
	lend := b.newLabel()
	for _, c := range n.Exprs[:len(n.Exprs)-1] {
		lnext := b.newLabel()
		b.emit(Instr{Op: OpSave})
		emitExpr(b, c, lnext)
		b.emit(Instr{Op: OpCommit})
		b.emitTo(OpJump, lend, Instr{})

		b.bind(lnext)
		b.emit(Instr{Op: OpBacktrack})
	}
	emitExpr(b, n.Exprs[len(n.Exprs)-1], ko)
	b.bind(lend)
}

// emitPeekFor is positive lookahead (&e): e is attempted and its
// consumption is always undone, whether it matched or not.
func emitPeekFor(b *builder, n *ast.PeekForExpr, ko label) {
	lfail := b.newLabel()
	lend := b.newLabel()

	b.emit(Instr{Op: OpSave})
	emitExpr(b, n.Elem, lfail)
	b.emit(Instr{Op: OpBacktrack})
	b.emitTo(OpJump, lend, Instr{})

	b.bind(lfail)
	b.emit(Instr{Op: OpBacktrack})
	b.emitTo(OpJump, ko, Instr{})

	b.bind(lend)
}

// emitPeekNot is negative lookahead (!e): it succeeds, without consuming,
// exactly when e fails.
func emitPeekNot(b *builder, n *ast.PeekNotExpr, ko label) {
	lok := b.newLabel()

	b.emit(Instr{Op: OpSave})
	emitExpr(b, n.Elem, lok)
	// n.Elem matched: the negation fails.
	b.emit(Instr{Op: OpBacktrack})
	b.emitTo(OpJump, ko, Instr{})

	b.bind(lok)
	// n.Elem failed: the negation succeeds, undoing whatever it consumed
	// before giving up.
	b.emit(Instr{Op: OpBacktrack})
}

// emitQuery is e?: at most one match, always succeeds.
func emitQuery(b *builder, n *ast.QueryExpr) {
	lfail := b.newLabel()
	lend := b.newLabel()

	b.emit(Instr{Op: OpSave})
	emitExpr(b, n.Elem, lfail)
	b.emit(Instr{Op: OpCommit})
	b.emitTo(OpJump, lend, Instr{})

	b.bind(lfail)
	b.emit(Instr{Op: OpBacktrack})

	b.bind(lend)
}

// emitStar is e*: greedy repetition, always succeeds.
func emitStar(b *builder, n *ast.StarExpr) {
	lagain := b.newLabel()
	lout := b.newLabel()

	b.bind(lagain)
	b.emit(Instr{Op: OpSave})
	emitExpr(b, n.Elem, lout)
	b.emit(Instr{Op: OpCommit})
	b.emitTo(OpJump, lagain, Instr{})

	b.bind(lout)
	b.emit(Instr{Op: OpBacktrack})
}

// emitPlus is e+: one mandatory match (failure propagates straight to ko,
// since nothing local has been saved yet) followed by the same greedy
// loop as Star.
func emitPlus(b *builder, n *ast.PlusExpr, ko label) {
	emitExpr(b, n.Elem, ko)
	emitStar(b, &ast.StarExpr{Elem: n.Elem})
}
