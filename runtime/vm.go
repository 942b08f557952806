package runtime

import (
	"fmt"

	"github.com/pegforge/pegc/ir"
)

// VM interprets a grammar's compiled ir.Programs against a Context. It is
// the generic loop the teacher splices, as literal source, into every
// generated parser (static_code.go); here it is kept a real, importable
// package so it stays independently testable. codegen does not embed this
// file: it serializes the per-grammar Program tables and action trampoline
// stubs next to a go:embed'd, dependency-free derivative of this package
// (codegen/static/runtime.go.tmpl) and writes its own copy of this loop.
type VM struct {
	progs map[string]ir.Program
	start string
}

// NewVM indexes progs by rule name for OpCallRule dispatch.
func NewVM(progs []ir.Program, start string) *VM {
	m := make(map[string]ir.Program, len(progs))
	for _, p := range progs {
		m[p.Rule] = p
	}
	return &VM{progs: m, start: start}
}

// Run runs rule name from c's current position, returning whether it
// matched; the match need not reach the end of the input. It is the entry
// point Parse (and through it ParseReader/ParseFile) wraps.
func (vm *VM) Run(c *Context, name string) bool {
	prog, ok := vm.progs[name]
	if !ok {
		panic(fmt.Sprintf("runtime: no compiled rule %q", name))
	}
	prevRule := c.ruleNow
	c.ruleNow = name
	defer func() { c.ruleNow = prevRule }()
	c.debug.Tracef("enter %s @ %d", name, c.pos)

	pc := 0
	for {
		in := prog.Instrs[pc]
		switch in.Op {
		case ir.OpMatchDot:
			if !c.matchDot() {
				pc = in.Arg
				continue
			}
		case ir.OpMatchChar:
			if !c.matchChar(in.Text[0]) {
				pc = in.Arg
				continue
			}
		case ir.OpMatchString:
			if !c.matchString(in.Text) {
				pc = in.Arg
				continue
			}
		case ir.OpMatchIString:
			if !c.matchIString(in.Text) {
				pc = in.Arg
				continue
			}
		case ir.OpMatchClass:
			if !c.matchClass(in.Text) {
				pc = in.Arg
				continue
			}
		case ir.OpCallRule:
			if !vm.Run(c, in.Text) {
				pc = in.Arg
				continue
			}
		case ir.OpAction:
			c.logAction(in.Arg, in.Code)
		case ir.OpInline:
			c.logInline(in.Code)
		case ir.OpPredicate:
			if !c.evalPredicate(in.Code) {
				pc = in.Arg
				continue
			}
		case ir.OpError:
			c.logError(prog.Rule, in.Code)
		case ir.OpPushVarFrame:
			c.PushVarFrame(in.Arg)
		case ir.OpPopVarFrame:
			c.PopVarFrame()
		case ir.OpBindVar:
			c.BindVar(in.Arg)
		case ir.OpSave:
			c.Save()
		case ir.OpCommit:
			c.Commit()
		case ir.OpBacktrack:
			c.Backtrack()
			c.debug.Tracef("backtrack in %s to %d", name, c.pos)
		case ir.OpJump:
			pc = in.Arg
			continue
		case ir.OpReturn:
			c.debug.Tracef("exit %s ok=%v @ %d", name, in.Arg != 0, c.pos)
			return in.Arg != 0
		default:
			panic(fmt.Sprintf("runtime: unknown opcode %v", in.Op))
		}
		pc++
	}
}
