package ir

import "github.com/pegforge/pegc/ast"

// Program is the compiled instruction stream for one rule, addressed by
// plain slice index. Labels are resolved to indices before Program leaves
// the builder, so nothing downstream ever deals with unresolved forward
// references.
type Program struct {
	Rule   string
	Instrs []Instr
}

// builder assembles a Program one instruction at a time, resolving forward
// jumps with the classic one-pass backpatch: a label is an opaque handle
// until bind ties it to the instruction index that follows, and every
// Instr.Arg written against it is patched in finish.
type builder struct {
	instrs []Instr
	// bound maps a label id to its resolved instruction index, once known.
	bound map[int]int
	// pending maps a label id to the indices of instructions whose Arg
	// field still needs that label's resolved index.
	pending map[int][]int
	nextID  int

	// actionIndex maps an ActionExpr node to its position in the
	// grammar's Actions discovery-order table, so OpAction can carry the
	// right trampoline index instead of always addressing the first one.
	actionIndex map[*ast.ActionExpr]int
}

func newBuilder(actionIndex map[*ast.ActionExpr]int) *builder {
	return &builder{
		bound:       make(map[int]int),
		pending:     make(map[int][]int),
		actionIndex: actionIndex,
	}
}

// label is a forward-declarable jump target, local to one rule's program.
type label int

// newLabel allocates a fresh, as-yet-unbound label.
func (b *builder) newLabel() label {
	b.nextID++
	return label(b.nextID)
}

// bind ties lbl to the index of the next instruction emitted.
func (b *builder) bind(lbl label) {
	b.bound[int(lbl)] = len(b.instrs)
}

// emit appends an instruction with no label reference and returns its index.
func (b *builder) emit(in Instr) int {
	b.instrs = append(b.instrs, in)
	return len(b.instrs) - 1
}

// emitTo appends a jump-like instruction (OpJump, or a match, OpCallRule or
// OpPredicate instruction with its failure branch) whose Arg is lbl,
// patched once lbl is bound.
func (b *builder) emitTo(op Op, lbl label, extra Instr) int {
	ix := b.emit(extra)
	b.instrs[ix].Op = op
	if resolved, ok := b.bound[int(lbl)]; ok {
		b.instrs[ix].Arg = resolved
	} else {
		b.pending[int(lbl)] = append(b.pending[int(lbl)], ix)
	}
	return ix
}

// finish patches every pending forward reference and returns the resolved
// instruction stream. It panics if a label was referenced but never bound,
// which would mean the emitter itself has a bug, not the input grammar.
func (b *builder) finish(ruleName string) Program {
	for id, sites := range b.pending {
		resolved, ok := b.bound[id]
		if !ok {
			panic("ir: label never bound in rule " + ruleName)
		}
		for _, ix := range sites {
			b.instrs[ix].Arg = resolved
		}
	}
	return Program{Rule: ruleName, Instrs: b.instrs}
}
