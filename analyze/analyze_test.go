package analyze

import (
	"testing"

	"github.com/pegforge/pegc/ast"
)

func rule(name string, expr ast.Expr) *ast.Rule {
	return &ast.Rule{Name: name, Expr: expr}
}

func nameTo(target *ast.Rule) *ast.NameExpr {
	return &ast.NameExpr{Name: target.Name, Target: target}
}

func TestConsumesInputLeaves(t *testing.T) {
	g := &ast.Grammar{}
	g.Rules = []*ast.Rule{
		rule("Dot", &ast.DotExpr{}),
		rule("Class", &ast.ClassExpr{Raw: "a-z"}),
		rule("CharLit", &ast.CharExpr{Value: 'x'}),
		rule("EmptyStr", &ast.StringExpr{Value: ""}),
		rule("NonEmptyStr", &ast.StringExpr{Value: "ab"}),
		rule("Act", &ast.ActionExpr{Text: "{}"}),
		rule("Pred", &ast.PredicateExpr{Text: "true"}),
	}
	g.StartRule = "Dot"
	res := Analyze(g)

	want := map[string]bool{
		"Dot": true, "Class": true, "CharLit": true,
		"EmptyStr": false, "NonEmptyStr": true,
		"Act": false, "Pred": false,
	}
	for _, r := range g.Rules {
		if got := res.ConsumesInput[r]; got != want[r.Name] {
			t.Errorf("rule %s: ConsumesInput = %v, want %v", r.Name, got, want[r.Name])
		}
	}
}

func TestConsumesInputAlternateRequiresAll(t *testing.T) {
	// A <- "a" / ""   -- one branch doesn't consume, so Alternate doesn't.
	alt := &ast.AlternateExpr{Exprs: []ast.Expr{
		&ast.StringExpr{Value: "a"},
		&ast.StringExpr{Value: ""},
	}}
	g := &ast.Grammar{Rules: []*ast.Rule{rule("A", alt)}, StartRule: "A"}
	res := Analyze(g)
	if res.ConsumesInput[g.Rules[0]] {
		t.Fatal("Alternate with a non-consuming branch should not consume input")
	}
}

func TestConsumesInputSequenceRequiresAny(t *testing.T) {
	// A <- "" "b"  -- second element consumes, so Sequence does.
	seq := &ast.SequenceExpr{Exprs: []ast.Expr{
		&ast.StringExpr{Value: ""},
		&ast.StringExpr{Value: "b"},
	}}
	g := &ast.Grammar{Rules: []*ast.Rule{rule("A", seq)}, StartRule: "A"}
	res := Analyze(g)
	if !res.ConsumesInput[g.Rules[0]] {
		t.Fatal("Sequence with a consuming element should consume input")
	}
}

func TestConsumesInputNeverConsuming(t *testing.T) {
	elem := &ast.StringExpr{Value: "x"}
	cases := []ast.Expr{
		&ast.PeekForExpr{Elem: elem},
		&ast.PeekNotExpr{Elem: elem},
		&ast.QueryExpr{Elem: elem},
		&ast.StarExpr{Elem: elem},
	}
	for i, e := range cases {
		g := &ast.Grammar{Rules: []*ast.Rule{rule("A", e)}, StartRule: "A"}
		res := Analyze(g)
		if res.ConsumesInput[g.Rules[0]] {
			t.Errorf("case %d (%T): expected no guaranteed consumption", i, e)
		}
	}
}

func TestConsumesInputPlusDelegatesToElement(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		rule("A", &ast.PlusExpr{Elem: &ast.StringExpr{Value: "x"}}),
	}, StartRule: "A"}
	res := Analyze(g)
	if !res.ConsumesInput[g.Rules[0]] {
		t.Fatal("Plus over a consuming element should consume input")
	}
}

func TestLeftRecursionWarns(t *testing.T) {
	// A <- A "x" / "y"
	a := rule("A", nil)
	a.Expr = &ast.AlternateExpr{Exprs: []ast.Expr{
		&ast.SequenceExpr{Exprs: []ast.Expr{nameTo(a), &ast.StringExpr{Value: "x"}}},
		&ast.StringExpr{Value: "y"},
	}}
	g := &ast.Grammar{Rules: []*ast.Rule{a}, StartRule: "A"}
	res := Analyze(g)

	found := false
	for _, d := range res.Diagnostics {
		if d.Rule == "A" && d.Message == "possible infinite left recursion" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a left-recursion warning, got %+v", res.Diagnostics)
	}
	if a.HasFlag(ast.Reached) {
		t.Fatal("Reached flag must be cleared after analysis")
	}
}

func TestLeftRecursionWarnsOnce(t *testing.T) {
	// A <- A "x" / A "y" / A "z"  -- three self-references, one warning.
	a := rule("A", nil)
	a.Expr = &ast.AlternateExpr{Exprs: []ast.Expr{
		&ast.SequenceExpr{Exprs: []ast.Expr{nameTo(a), &ast.StringExpr{Value: "x"}}},
		&ast.SequenceExpr{Exprs: []ast.Expr{nameTo(a), &ast.StringExpr{Value: "y"}}},
		&ast.SequenceExpr{Exprs: []ast.Expr{nameTo(a), &ast.StringExpr{Value: "z"}}},
	}}
	g := &ast.Grammar{Rules: []*ast.Rule{a}, StartRule: "A"}
	res := Analyze(g)

	count := 0
	for _, d := range res.Diagnostics {
		if d.Rule == "A" && d.Message == "possible infinite left recursion" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one left-recursion warning for A despite three self-references, got %d: %+v", count, res.Diagnostics)
	}
}

func TestUndefinedRuleWarns(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{
		rule("A", &ast.NameExpr{Name: "B", Target: nil}),
	}, StartRule: "A"}
	res := Analyze(g)

	found := false
	for _, d := range res.Diagnostics {
		if d.Rule == "A" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an undefined-rule diagnostic, got %+v", res.Diagnostics)
	}
}

func TestUnusedRuleWarns(t *testing.T) {
	used := rule("A", &ast.StringExpr{Value: "a"})
	unused := rule("B", &ast.StringExpr{Value: "b"})
	g := &ast.Grammar{Rules: []*ast.Rule{used, unused}, StartRule: "A"}
	res := Analyze(g)

	found := false
	for _, d := range res.Diagnostics {
		if d.Rule == "B" && d.Message == "rule defined but not used" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unused-rule diagnostic for B, got %+v", res.Diagnostics)
	}
	if !used.HasFlag(ast.Used) {
		t.Fatal("start rule should be flagged Used")
	}
	if unused.HasFlag(ast.Used) {
		t.Fatal("unused rule should not be flagged Used")
	}
}

func TestStartRuleNeverUnused(t *testing.T) {
	g := &ast.Grammar{Rules: []*ast.Rule{rule("Start", &ast.DotExpr{})}, StartRule: "Start"}
	res := Analyze(g)
	for _, d := range res.Diagnostics {
		if d.Rule == "Start" {
			t.Fatalf("start rule should never be reported unused, got %+v", d)
		}
	}
}
