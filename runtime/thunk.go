package runtime

// thunkKind tags the four deferred operations that must only take effect
// once a parse has fully committed (original_source/src/compile.c's
// yyPush/yyPop/yySet/yyDo).
type thunkKind byte

const (
	thunkPush thunkKind = iota
	thunkPop
	thunkBind
	thunkAction
)

// thunk is one deferred operation. Appending one never fails; only
// Context.Backtrack ever removes one, by truncating the log.
type thunk struct {
	kind thunkKind

	// frame-push size, for thunkPush.
	n int
	// bind slot offset, for thunkBind.
	offset int

	// action index into the parser's ActionTable, for thunkAction.
	action int
	// begin/end span of input text the action applies to.
	begin, end int
}

// PushVarFrame defers pushing a fresh rule-local variable frame of n slots.
func (c *Context) PushVarFrame(n int) {
	c.thunks = append(c.thunks, thunk{kind: thunkPush, n: n})
}

// PopVarFrame defers popping the current variable frame.
func (c *Context) PopVarFrame() {
	c.thunks = append(c.thunks, thunk{kind: thunkPop})
}

// BindVar defers binding the most recently produced action result into
// slot offset of the current frame.
func (c *Context) BindVar(offset int) {
	c.thunks = append(c.thunks, thunk{kind: thunkBind, offset: offset})
}

// DeferAction defers running action index act over the text spanning
// [begin, end) of the input, once the parse commits.
func (c *Context) DeferAction(act, begin, end int) {
	c.thunks = append(c.thunks, thunk{kind: thunkAction, action: act, begin: begin, end: end})
}

// ActionTable maps an action index (discovery order, per ast.Grammar's
// Actions slice) to the user-supplied Go closure compiled for it.
// Executing the closures themselves is out of scope here: Replay exists so
// the thunk-log discipline itself is exercised and testable without a
// generated parser's real action bodies.
type ActionTable []func(vars []any, text []byte) (any, error)

// Replay runs every thunk in the log in order against a fresh frame stack,
// invoking actions through table. It is how a committed parse turns its
// deferred bindings into the final bound variables and action results.
func (c *Context) Replay(table ActionTable) error {
	var frames [][]any
	for _, th := range c.thunks {
		switch th.kind {
		case thunkPush:
			frames = append(frames, make([]any, th.n))
		case thunkPop:
			frames = frames[:len(frames)-1]
		case thunkBind:
			frames[len(frames)-1][th.offset] = c.lastResult
		case thunkAction:
			fn := table[th.action]
			var vars []any
			if len(frames) > 0 {
				vars = frames[len(frames)-1]
			}
			res, err := fn(vars, c.buf[th.begin:th.end])
			if err != nil {
				return err
			}
			c.lastResult = res
		}
	}
	return nil
}
