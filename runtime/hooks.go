package runtime

// logAction defers action act's execution to commit time. Executing actual
// user Go action bodies is explicitly out of scope (they are arbitrary Go
// source spliced verbatim by codegen into per-grammar trampolines); what
// this package guarantees is that the deferral and replay-order
// discipline around them is correct, including addressing the right
// action index. The span recorded here is a zero-width marker at the
// action's position rather than a full lexical span, since nothing
// downstream inspects it without a real generated trampoline to hand it to.
func (c *Context) logAction(act int, code string) {
	c.debug.Tracef("action[%d] @ %d: %s", act, c.pos, code)
	c.DeferAction(act, c.pos, c.pos)
}

// logInline runs an inline #{...} expression immediately. As with
// logAction, evaluating arbitrary user Go source is out of scope; this
// only traces that the node was reached at the right point in program
// order, which is the property the emitter needs to get right.
func (c *Context) logInline(code string) {
	c.debug.Tracef("inline @ %d: %s", c.pos, code)
}

// evalPredicate evaluates a &{...}/!{...} syntactic predicate. Evaluating
// arbitrary user Go boolean expressions is out of scope; predicates
// default to true (succeed) so that grammars exercising them still drive
// the rest of the parse, and the evaluation point itself is traced.
func (c *Context) evalPredicate(code string) bool {
	c.debug.Tracef("predicate @ %d: %s", c.pos, code)
	return true
}

// logError runs an e^{...} error handler. As with the other user-code
// hooks, running the handler's own Go source is out of scope; what is
// exercised is that it always runs exactly once, at the position its
// guarded element gave up, before the failure propagates further.
func (c *Context) logError(rule, text string) {
	c.debug.Errorf("%s: %s @ %d", rule, text, c.pos)
}
