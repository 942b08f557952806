package runtime

import (
	"io"
	"os"

	"github.com/pegforge/pegc/ir"
)

// Result is a completed parse: whether the start rule matched, how many
// bytes it consumed, and the Context, whose deferred thunk log
// Context.Replay can run.
type Result struct {
	Matched  bool
	Consumed int
	Context  *Context
}

// Parse runs progs' start rule over input and returns the outcome. A
// failed parse reports the farthest position any rule reached as a
// parserError, matching spec's "report the position of the deepest
// failure, not just the first one encountered" framing for the front end
// this module feeds.
func Parse(progs []ir.Program, start string, input []byte, opts ...Option) (*Result, error) {
	c := NewContext(input, opts...)
	vm := NewVM(progs, start)
	ok := vm.Run(c, start)
	if !ok {
		return nil, newFailureError(c)
	}
	return &Result{Matched: true, Consumed: c.Pos(), Context: c}, nil
}

// ParseReader reads all of r and parses it.
func ParseReader(progs []ir.Program, start string, r io.Reader, opts ...Option) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(progs, start, data, opts...)
}

// ParseFile opens and parses the named file.
func ParseFile(progs []ir.Program, start, path string, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseReader(progs, start, f, opts...)
}
