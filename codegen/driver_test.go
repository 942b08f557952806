package codegen

import (
	"strings"
	"testing"

	"github.com/pegforge/pegc/ast"
)

func simpleGrammar() *ast.Grammar {
	r := &ast.Rule{Name: "A", Expr: &ast.StringExpr{Value: "ab"}}
	return &ast.Grammar{Rules: []*ast.Rule{r}, StartRule: "A"}
}

func TestGenerateProducesCompilableLookingSource(t *testing.T) {
	d := &Driver{Package: "demo"}
	var sb strings.Builder
	if err := d.Generate(&sb, simpleGrammar()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"package demo", "func Parse(", "ϡprograms", `"A": {`} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestGenerateRejectsUndefinedStartRule(t *testing.T) {
	d := &Driver{StartRule: "NoSuchRule"}
	var sb strings.Builder
	if err := d.Generate(&sb, simpleGrammar()); err == nil {
		t.Fatal("expected an error for an undefined start rule")
	}
}

func TestGenerateSurfacesAnalyzerWarningsAsComments(t *testing.T) {
	unused := &ast.Rule{Name: "B", Expr: &ast.StringExpr{Value: "x"}}
	g := simpleGrammar()
	g.Rules = append(g.Rules, unused)

	d := &Driver{}
	var sb strings.Builder
	if err := d.Generate(&sb, g); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(sb.String(), "defined but not used") {
		t.Error("expected the unused-rule diagnostic to appear in the generated banner")
	}
}

func TestGenerateRoutesEachActionToItsOwnTrampoline(t *testing.T) {
	a0 := &ast.ActionExpr{Text: "return 0, nil"}
	a1 := &ast.ActionExpr{Text: "return 1, nil"}
	r := &ast.Rule{Name: "A", Expr: &ast.SequenceExpr{Exprs: []ast.Expr{
		&ast.StringExpr{Value: "x"}, a0,
		&ast.StringExpr{Value: "y"}, a1,
	}}}
	g := &ast.Grammar{Rules: []*ast.Rule{r}, StartRule: "A"}

	d := &Driver{Package: "demo"}
	var sb strings.Builder
	if err := d.Generate(&sb, g); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"ϡaction0", "ϡaction1", "Arg: 0", "Arg: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
	if strings.Count(out, "Op: 6, Arg: 0") != 1 {
		t.Errorf("expected exactly one OpAction instruction addressing index 0, got source:\n%s", out)
	}
	if strings.Count(out, "Op: 6, Arg: 1") != 1 {
		t.Errorf("expected exactly one OpAction instruction addressing index 1, got source:\n%s", out)
	}
}

func TestGenerateDispatchesIgnoreCaseStringSeparately(t *testing.T) {
	r := &ast.Rule{Name: "A", Expr: &ast.StringExpr{Value: "Hi", IgnoreCase: true}}
	g := &ast.Grammar{Rules: []*ast.Rule{r}, StartRule: "A"}

	d := &Driver{Package: "demo"}
	var sb strings.Builder
	if err := d.Generate(&sb, g); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "func (c *ϡcontext) matchIString(") {
		t.Error("expected the generated runtime to define ϡcontext.matchIString")
	}
	if !strings.Contains(out, "case 3: // OpMatchIString") {
		t.Error("expected the dispatcher to handle OpMatchIString as its own case")
	}
	if !strings.Contains(out, "c.matchIString(in.Text)") {
		t.Error("expected an IgnoreCase string to dispatch to matchIString, not matchString")
	}
}

func TestDumpInstrsLabelsJumpTargets(t *testing.T) {
	g := simpleGrammar()
	g.Rules[0].Expr = &ast.AlternateExpr{Exprs: []ast.Expr{
		&ast.StringExpr{Value: "a"},
		&ast.StringExpr{Value: "b"},
	}}
	g.Index()

	var sb strings.Builder
	progs := compileForTest(t, g)
	DumpInstrs(&sb, progs)
	if !strings.Contains(sb.String(), "L") {
		t.Error("expected at least one L<n> label in the dump")
	}
}
