// Package ir is the intermediate representation produced by the expression
// and rule emitters: a flat, per-rule instruction program addressed by
// integer label, interpreted by runtime.VM over a runtime.Context at parse
// time.
//
// The opcode vocabulary is grounded in the teacher's vm package
// (_examples/32bitkid-pigeon/vm/ops.go and static_code.go), which already
// carries the position/value/thunk stack split this package borrows.
// Two deliberate departures from both the teacher and from
// original_source/src/compile.c are recorded in DESIGN.md:
//
//   - Checkpoints are an explicit push/commit/backtrack discipline: every
//     Save is paired with exactly one Commit (discard, keep the advance)
//     or Backtrack (pop, restore position and truncate the thunk log) on
//     every control path out of the construct that pushed it. compile.c
//     instead reuses a single named C local across an Alternate's
//     branches, which has no safe LIFO-stack translation; the teacher's
//     vm instead threads success/failure through value-stack sentinels.
//     Push/commit/backtrack is the simplest discipline that is provably
//     balanced for an AST-driven recursive emitter.
//   - maxPos (the deepest position any match attempt reached, used for
//     error reporting) is never part of a checkpoint and is never
//     touched by Backtrack. It is a monotonically-advancing field the
//     matchers bump directly, so PeekNot's probe still registers how
//     far it got even though its outcome is discarded. compile.c needs
//     an explicit saveMaxPos/restoreMaxPos exemption around PeekNot
//     because its restore() is a blanket struct restore that would
//     otherwise roll maxPos back too; excluding maxPos from Checkpoint
//     entirely makes that exemption structural instead of emitted.
package ir

// Op is one VM opcode.
type Op byte

const (
	// OpMatchDot consumes exactly one byte, failing only at end of input.
	OpMatchDot Op = iota
	// OpMatchChar consumes a single literal byte.
	OpMatchChar
	// OpMatchString consumes a literal byte string atomically: it either
	// matches every byte or consumes none at all.
	OpMatchString
	// OpMatchIString is OpMatchString with case-insensitive comparison.
	OpMatchIString
	// OpMatchClass consumes one byte if it is a member of a compiled
	// character-class bitmap.
	OpMatchClass

	// OpCallRule invokes another rule's program by name and branches to
	// Arg on failure.
	OpCallRule

	// OpAction appends a deferred action thunk to the log, recording a
	// zero-width text span at the current position. Arg indexes the grammar's Actions discovery-order table
	// (g.Index()), identifying which trampoline the deferred thunk must
	// invoke at replay time. It never itself fails.
	OpAction
	// OpInline emits the verbatim text of a `#{...}` inline expression.
	// Unlike OpAction it runs immediately, not deferred.
	OpInline
	// OpPredicate evaluates a `&{...}`/`!{...}` boolean predicate
	// immediately and fails the construct if it evaluates false.
	OpPredicate
	// OpError runs an `e^{...}` error handler immediately; it never
	// itself fails. The handler text is carried in Code.
	OpError

	// OpPushVarFrame appends a deferred rule-local variable frame push
	// of Arg slots to the thunk log.
	OpPushVarFrame
	// OpPopVarFrame appends a deferred pop of the current variable
	// frame to the thunk log.
	OpPopVarFrame
	// OpBindVar appends a deferred bind of the most recent action
	// result to variable slot Arg in the current frame.
	OpBindVar

	// OpSave pushes a checkpoint {pos, thunk-log length}.
	OpSave
	// OpCommit pops the top checkpoint and discards it, keeping any
	// input consumed since it was pushed.
	OpCommit
	// OpBacktrack pops the top checkpoint, resets the cursor to its
	// saved position and truncates the thunk log to its saved length.
	OpBacktrack

	// OpJump branches unconditionally to Arg.
	OpJump
	// OpReturn ends the rule's program: Arg != 0 means success.
	OpReturn
)

// Instr is one instruction. Arg is the failure-branch instruction index for
// the match ops, OpCallRule and OpPredicate, the jump target for OpJump,
// the success flag for OpReturn, the Actions index for OpAction, the slot
// count for OpPushVarFrame and the slot offset for OpBindVar.
type Instr struct {
	Op  Op
	Arg int

	// Text carries the literal payload for ops that need one directly
	// rather than through a table index: the rule name for OpCallRule,
	// the raw byte for OpMatchChar, the string for OpMatchString and
	// OpMatchIString, and the rendered bitmap for OpMatchClass.
	Text string

	// Code carries the verbatim user source for OpAction, OpInline,
	// OpPredicate and OpError.
	Code string

	// Line is the 1-based source line of Code, used for //line directives.
	Line int
}

func (o Op) String() string {
	switch o {
	case OpMatchDot:
		return "matchdot"
	case OpMatchChar:
		return "matchchar"
	case OpMatchString:
		return "matchstring"
	case OpMatchIString:
		return "matchistring"
	case OpMatchClass:
		return "matchclass"
	case OpCallRule:
		return "call"
	case OpAction:
		return "action"
	case OpInline:
		return "inline"
	case OpPredicate:
		return "predicate"
	case OpError:
		return "error"
	case OpPushVarFrame:
		return "pushvars"
	case OpPopVarFrame:
		return "popvars"
	case OpBindVar:
		return "bindvar"
	case OpSave:
		return "save"
	case OpCommit:
		return "commit"
	case OpBacktrack:
		return "backtrack"
	case OpJump:
		return "jump"
	case OpReturn:
		return "return"
	default:
		return "op?"
	}
}
