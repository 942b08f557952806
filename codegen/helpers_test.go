package codegen

import (
	"testing"

	"github.com/pegforge/pegc/ast"
	"github.com/pegforge/pegc/ir"
)

func compileForTest(t *testing.T, g *ast.Grammar) []ir.Program {
	t.Helper()
	return ir.Emit(g)
}
