package ir

import (
	"testing"

	"github.com/pegforge/pegc/ast"
	"github.com/pegforge/pegc/classes"
)

func countOp(p Program, op Op) int {
	n := 0
	for _, in := range p.Instrs {
		if in.Op == op {
			n++
		}
	}
	return n
}

func TestEmitRuleSavesAndBacktracksOnFailure(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.StringExpr{Value: "ab"}}
	p := emitRule(r, nil)

	if countOp(p, OpSave) != 1 || countOp(p, OpCommit) != 1 || countOp(p, OpBacktrack) != 1 {
		t.Fatalf("expected exactly one save/commit/backtrack, got %+v", p.Instrs)
	}
	last := p.Instrs[len(p.Instrs)-1]
	if last.Op != OpReturn || last.Arg != 0 {
		t.Fatalf("expected a final failing return, got %+v", last)
	}
}

func TestEmitRuleQueryTopLevelSkipsEntrySave(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.QueryExpr{Elem: &ast.StringExpr{Value: "x"}}}
	p := emitRule(r, nil)

	// One Save/Commit/Backtrack triple belongs to the Query node itself;
	// the rule wrapper must not add its own on top.
	if countOp(p, OpSave) != 1 {
		t.Fatalf("rule wrapping a top-level Query should not add its own entry save, got %d saves", countOp(p, OpSave))
	}
	// No trailing failing-return block: the rule can never fail.
	for _, in := range p.Instrs {
		if in.Op == OpReturn && in.Arg == 0 {
			t.Fatal("a rule whose top-level form always succeeds should have no failing return")
		}
	}
}

func TestEmitAlternateBalancesCheckpoints(t *testing.T) {
	alt := &ast.AlternateExpr{Exprs: []ast.Expr{
		&ast.StringExpr{Value: "a"},
		&ast.StringExpr{Value: "b"},
		&ast.StringExpr{Value: "c"},
	}}
	r := &ast.Rule{Name: "A", Expr: alt}
	p := emitRule(r, nil)

	// Two non-final branches each contribute one Save+Commit+Backtrack;
	// the rule wrapper itself contributes one more Save+Commit(+final
	// Backtrack on the ko path).
	if got := countOp(p, OpSave); got != 3 {
		t.Fatalf("expected 3 saves (2 branches + rule entry), got %d", got)
	}
	if got := countOp(p, OpCommit); got != 3 {
		t.Fatalf("expected 3 commits (2 branches + rule success), got %d", got)
	}
	if got := countOp(p, OpBacktrack); got != 3 {
		t.Fatalf("expected 3 backtracks (2 branches + rule failure), got %d", got)
	}
}

func TestEmitPeekNotAlwaysBacktracks(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.PeekNotExpr{Elem: &ast.StringExpr{Value: "x"}}}
	p := emitRule(r, nil)

	// PeekNot backtracks on both its own branches, plus the rule-entry
	// save's own backtrack on the ko path.
	if got := countOp(p, OpBacktrack); got != 3 {
		t.Fatalf("expected 3 backtracks, got %d: %+v", got, p.Instrs)
	}
}

func TestEmitRuleSequenceWrappingStarStillGetsEntrySave(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.SequenceExpr{Exprs: []ast.Expr{
		&ast.StarExpr{Elem: &ast.StringExpr{Value: "x"}},
	}}}
	p := emitRule(r, nil)
	// A Sequence wrapping a Star is NOT itself always-succeeding from the
	// rule wrapper's point of view (alwaysSucceeds only looks at the
	// immediate top-level node), so the rule still gets its own entry
	// checkpoint.
	if countOp(p, OpSave) != 2 { // one for Star, one for the rule entry
		t.Fatalf("expected 2 saves, got %d", countOp(p, OpSave))
	}
}

func TestEmitPlusCompilesElementTwice(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.PlusExpr{Elem: &ast.CharExpr{Value: 'x'}}}
	p := emitRule(r, nil)
	if got := countOp(p, OpMatchChar); got != 2 {
		t.Fatalf("Plus should compile its element twice (mandatory + loop body), got %d", got)
	}
}

func TestEmitActionCarriesItsOwnTableIndex(t *testing.T) {
	a0 := &ast.ActionExpr{Text: "return 0, nil"}
	a1 := &ast.ActionExpr{Text: "return 1, nil"}
	r := &ast.Rule{Name: "A", Expr: &ast.SequenceExpr{Exprs: []ast.Expr{a0, a1}}}
	g := &ast.Grammar{Rules: []*ast.Rule{r}, StartRule: "A"}
	g.Index()

	progs := Emit(g)
	var seen []int
	for _, in := range progs[0].Instrs {
		if in.Op == OpAction {
			seen = append(seen, in.Arg)
		}
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Fatalf("expected OpAction instructions addressing indices [0 1], got %v", seen)
	}
}

func TestEmitStringDistinguishesIgnoreCase(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.StringExpr{Value: "Hi", IgnoreCase: true}}
	p := emitRule(r, nil)
	if countOp(p, OpMatchIString) != 1 {
		t.Fatalf("expected an OpMatchIString instruction, got %+v", p.Instrs)
	}
	if countOp(p, OpMatchString) != 0 {
		t.Fatalf("an IgnoreCase string must not compile to plain OpMatchString, got %+v", p.Instrs)
	}
}

func TestEmitClassAppliesIgnoreCase(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.ClassExpr{Raw: "a-c", IgnoreCase: true}}
	p := emitRule(r, nil)

	var rendered string
	for _, in := range p.Instrs {
		if in.Op == OpMatchClass {
			rendered = in.Text
		}
	}
	if rendered == "" {
		t.Fatal("expected an OpMatchClass instruction")
	}
	bm := classes.Compile("a-c")
	bm.FoldCase()
	if rendered != bm.Render() {
		t.Fatalf("IgnoreCase class did not fold case into its bitmap: got %q, want %q", rendered, bm.Render())
	}
}

func TestLabelsAllResolved(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.AlternateExpr{Exprs: []ast.Expr{
		&ast.StringExpr{Value: "a"},
		&ast.StringExpr{Value: "b"},
	}}}
	p := emitRule(r, nil)
	for i, in := range p.Instrs {
		switch in.Op {
		case OpJump, OpMatchDot, OpMatchChar, OpMatchString, OpMatchIString, OpMatchClass, OpCallRule, OpPredicate:
			if in.Arg < 0 || in.Arg > len(p.Instrs) {
				t.Fatalf("instr %d (%s) has unresolved/out-of-range target %d", i, in.Op, in.Arg)
			}
		}
	}
}
