package runtime

import (
	"fmt"

	"go.uber.org/multierr"
)

// parserError is one failure reported by a parse: the farthest position
// reached, the rule active there, and a human-readable reason.
type parserError struct {
	Pos     int
	Line    int
	Col     int
	Rule    string
	Message string
}

func (e *parserError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Col, e.Rule, e.Message)
}

// lineCol converts a byte offset into the 1-based line/column original_
// source/src/compile.c's own error reporting uses.
func lineCol(buf []byte, pos int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < pos && i < len(buf); i++ {
		if buf[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// newFailureError builds the parserError for a parse that never reached
// OpReturn with a true argument: the farthest-failure position, reported
// against the rule active when that position was last advanced.
func newFailureError(c *Context) error {
	pos, rule := c.MaxPos()
	line, col := lineCol(c.buf, pos)
	return &parserError{Pos: pos, Line: line, Col: col, Rule: rule, Message: "no match found"}
}

// errList accumulates every error a parse run wants to surface, combined
// with multierr so a caller sees all of them rather than only the first
// (spec's out-of-scope front-end has the same shape of problem: report
// every diagnostic in one pass instead of bailing after the first).
type errList struct {
	errs []error
}

func (l *errList) add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

func (l *errList) err() error {
	return multierr.Combine(l.errs...)
}
