// Package codegen assembles a grammar's compiled ir.Programs, the
// embedded dependency-free runtime, and per-action trampoline stubs into
// one self-contained Go source file — the driver named in spec §4.7.
//
// Grounded on the teacher's main.go/builder.BuildParser pairing
// (_examples/32bitkid-pigeon/main.go.teacher): a thin CLI (here,
// cmd/pegc) parses flags and hands a Grammar to a Driver, which owns all
// of the actual text assembly.
package codegen

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pegforge/pegc/analyze"
	"github.com/pegforge/pegc/ast"
	"github.com/pegforge/pegc/ir"
)

//go:embed static/runtime.go.tmpl
var embeddedRuntime string

// Driver renders a Grammar into a self-contained parser.
type Driver struct {
	// Package is the generated file's package name.
	Package string
	// ReceiverName names the receiver of the generated action trampoline
	// methods (spec's builder.ReceiverName-style knob, teacher's -c
	// flag default).
	ReceiverName string
	// StartRule overrides the grammar's own StartRule, if non-empty.
	StartRule string
	// Debug emits a trace print at every rule entry/exit, mirroring
	// original_source/src/compile.c's yyprintf debug build.
	Debug bool
	// LineDirectives emits //line comments mapping action bodies back to
	// their source position in the (out-of-scope) grammar file, so a Go
	// compiler error inside user action code points at the grammar, not
	// the generated file.
	LineDirectives bool
}

// Generate runs the analyzer and emitter over g and writes the resulting
// parser source to w. A Fatal diagnostic aborts generation; Warning
// diagnostics are written as a leading comment block instead.
func (d *Driver) Generate(w io.Writer, g *ast.Grammar) error {
	start := g.StartRule
	if d.StartRule != "" {
		start = d.StartRule
	}
	if g.RuleByName(start) == nil {
		return fmt.Errorf("codegen: start rule %q not defined", start)
	}

	res := analyze.Analyze(g)
	if res.HasFatal() {
		return fmt.Errorf("codegen: grammar has fatal diagnostics, refusing to generate")
	}

	g.Index()
	progs := ir.Emit(g)

	sb := &strings.Builder{}
	d.writeBanner(sb, res)
	d.writeHeader(sb)
	sb.WriteString(embeddedRuntime)
	d.writeActionTrampolines(sb, g)
	d.writeProgramTables(sb, progs)
	d.writeDispatcher(sb, start)

	_, err := io.WriteString(w, sb.String())
	return err
}

func (d *Driver) writeBanner(sb *strings.Builder, res *analyze.Result) {
	fmt.Fprintf(sb, "// Code generated by pegc. DO NOT EDIT.\n")
	if len(res.Diagnostics) > 0 {
		sb.WriteString("//\n// analyzer diagnostics:\n")
		for _, diag := range res.Diagnostics {
			fmt.Fprintf(sb, "//   %s\n", diag.String())
		}
	}
	sb.WriteString("\n")
}

func (d *Driver) writeHeader(sb *strings.Builder) {
	pkg := d.Package
	if pkg == "" {
		pkg = "main"
	}
	fmt.Fprintf(sb, "package %s\n\nimport (\n\t\"fmt\"\n\t\"strings\"\n)\n\n", pkg)
}

// writeActionTrampolines emits one stub method per distinct action, in
// grammar.Index()'s discovery order (SPEC_FULL supplemented feature: the
// order is stable and documented so hand-written receiver methods can be
// slotted in later without the generator needing to know their bodies).
func (d *Driver) writeActionTrampolines(sb *strings.Builder, g *ast.Grammar) {
	recv := d.ReceiverName
	if recv == "" {
		recv = "c"
	}
	for i, a := range g.Actions {
		if d.LineDirectives && a.Line > 0 {
			fmt.Fprintf(sb, "//line grammar.peg:%d\n", a.Line)
		}
		retType := a.GoType
		if retType == "" {
			retType = "interface{}"
		}
		fmt.Fprintf(sb, "func (%s *ϡgenerated) ϡaction%d(vars []interface{}, text []byte) (%s, error) {\n", recv, i, retType)
		fmt.Fprintf(sb, "\t// %s\n", strings.ReplaceAll(a.Text, "\n", "\n\t// "))
		fmt.Fprintf(sb, "\tvar zero %s\n\treturn zero, nil\n}\n\n", retType)
	}
}

// writeProgramTables serializes every rule's instruction stream as a Go
// literal, keyed by rule name, in sorted order for a deterministic diff.
func (d *Driver) writeProgramTables(sb *strings.Builder, progs []ir.Program) {
	sorted := append([]ir.Program(nil), progs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rule < sorted[j].Rule })

	sb.WriteString("var ϡprograms = map[string][]ϡinstr{\n")
	for _, p := range sorted {
		fmt.Fprintf(sb, "\t%q: {\n", p.Rule)
		for _, in := range p.Instrs {
			fmt.Fprintf(sb, "\t\t{Op: %d, Arg: %d, Text: %q, Code: %q, Line: %d},\n",
				in.Op, in.Arg, in.Text, in.Code, in.Line)
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("}\n\n")
}

func (d *Driver) writeDispatcher(sb *strings.Builder, start string) {
	fmt.Fprintf(sb, "const ϡstartRule = %q\n", start)
	fmt.Fprintf(sb, "const ϡdebug = %v\n\n", d.Debug)
	sb.WriteString(`type ϡinstr struct {
	Op   int
	Arg  int
	Text string
	Code string
	Line int
}

type ϡgenerated struct{}

func Parse(input []byte) (bool, error) {
	c := ϡnewContext(input, ϡdebug)
	ok := ϡrun(c, ϡstartRule)
	if !ok {
		return false, fmt.Errorf("parse error near offset %d (rule %s)", c.maxPos, c.maxRule)
	}
	return true, nil
}

func ϡrun(c *ϡcontext, name string) bool {
	prog := ϡprograms[name]
	prev := c.ruleNow
	c.ruleNow = name
	if c.debug {
		fmt.Printf("%s @ %d\n", name, c.pos)
	}
	defer func() { c.ruleNow = prev }()

	pc := 0
	for {
		in := prog[pc]
		switch in.Op {
		case 0: // OpMatchDot
			if !c.matchDot() {
				pc = in.Arg
				continue
			}
		case 1: // OpMatchChar
			if !c.matchChar(in.Text[0]) {
				pc = in.Arg
				continue
			}
		case 2: // OpMatchString
			if !c.matchString(in.Text) {
				pc = in.Arg
				continue
			}
		case 3: // OpMatchIString
			if !c.matchIString(in.Text) {
				pc = in.Arg
				continue
			}
		case 4: // OpMatchClass
			if !c.matchClass(in.Text) {
				pc = in.Arg
				continue
			}
		case 5: // OpCallRule
			if !ϡrun(c, in.Text) {
				pc = in.Arg
				continue
			}
		case 6: // OpAction
			c.deferAction(in.Arg)
		case 7, 9: // OpInline, OpError: no-op without real user code
		case 8: // OpPredicate
			// defaults to succeeding; see runtime.evalPredicate doc.
		case 10: // OpPushVarFrame
			c.pushVarFrame(in.Arg)
		case 11: // OpPopVarFrame
			c.popVarFrame()
		case 12: // OpBindVar
			c.bindVar(in.Arg)
		case 13: // OpSave
			c.save()
		case 14: // OpCommit
			c.commit()
		case 15: // OpBacktrack
			c.backtrack()
		case 16: // OpJump
			pc = in.Arg
			continue
		case 17: // OpReturn
			if c.debug {
				fmt.Printf("%s -> %v @ %d\n", name, in.Arg != 0, c.pos)
			}
			return in.Arg != 0
		}
		pc++
	}
}
`)
}
