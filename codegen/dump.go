package codegen

import (
	"fmt"
	"io"

	"github.com/pegforge/pegc/ast"
	"github.com/pegforge/pegc/ir"
)

// DumpAST writes a depth-indented listing of every rule's expression
// tree (SPEC_FULL supplemented feature 1: a -dump-ast introspection mode,
// since the real front-end parser that would otherwise let a user eyeball
// the AST is out of scope here).
func DumpAST(w io.Writer, g *ast.Grammar) {
	for _, r := range g.Rules {
		fmt.Fprintf(w, "%s:\n", r.Name)
		dumpExpr(w, r.Expr, 1)
	}
}

func dumpExpr(w io.Writer, e ast.Expr, depth int) {
	if e == nil {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%T\n", indent, e)
	for _, c := range e.Children() {
		dumpExpr(w, c, depth+1)
	}
}

// DumpInstrs writes each rule's compiled instruction stream with
// L<n>-style labels on jump targets, preserving the label-naming
// convention original_source/src/compile.c's own debug output uses
// (SPEC_FULL supplemented feature 4).
func DumpInstrs(w io.Writer, progs []ir.Program) {
	for _, p := range progs {
		fmt.Fprintf(w, "%s:\n", p.Rule)
		targets := jumpTargets(p)
		for i, in := range p.Instrs {
			if targets[i] {
				fmt.Fprintf(w, "L%d:\n", i)
			}
			fmt.Fprintf(w, "  %4d  %s", i, in.Op)
			switch in.Op {
			case ir.OpJump, ir.OpCallRule, ir.OpMatchDot, ir.OpMatchChar,
				ir.OpMatchString, ir.OpMatchIString, ir.OpMatchClass, ir.OpPredicate:
				fmt.Fprintf(w, " -> L%d", in.Arg)
			case ir.OpAction:
				fmt.Fprintf(w, " action#%d", in.Arg)
			}
			if in.Text != "" {
				fmt.Fprintf(w, " %q", in.Text)
			}
			fmt.Fprintln(w)
		}
	}
}

func jumpTargets(p ir.Program) map[int]bool {
	targets := make(map[int]bool)
	for _, in := range p.Instrs {
		switch in.Op {
		case ir.OpJump, ir.OpCallRule, ir.OpMatchDot, ir.OpMatchChar,
			ir.OpMatchString, ir.OpMatchIString, ir.OpMatchClass, ir.OpPredicate:
			targets[in.Arg] = true
		}
	}
	return targets
}
