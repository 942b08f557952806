// Command pegc compiles a grammar AST into a self-contained recursive-
// descent parser. It replaces the teacher's flag-based main.go
// (_examples/32bitkid-pigeon/main.go.teacher) with a cobra command,
// grounded in the rest of the example pack's CLI convention, and reads
// its grammar input as YAML (internal/gramyaml) since the real PEG front
// end is out of scope.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pegforge/pegc/analyze"
	"github.com/pegforge/pegc/ast"
	"github.com/pegforge/pegc/codegen"
	"github.com/pegforge/pegc/internal/gramyaml"
	"github.com/pegforge/pegc/ir"
)

func main() {
	// analyze.Analyze and ir.Emit panic on an AST node kind neither one
	// recognizes (a front-end bug producing a malformed grammar, not a
	// condition either package can recover from on its own). Surface that
	// as the diagnostic + nonzero exit spec §4.9/§7 calls for rather than
	// letting it escape as a raw stack trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "pegc: fatal: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		debug          bool
		output         string
		receiverName   string
		startRule      string
		lineDirectives bool
		dumpAST        bool
		dumpInstrs     bool
		pkgName        string
	)

	cmd := &cobra.Command{
		Use:   "pegc [grammar.yaml]",
		Short: "Compile a PEG grammar AST into a Go parser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infile := ""
			if len(args) == 1 {
				infile = args[0]
			}
			data, err := readInput(infile)
			if err != nil {
				return err
			}

			g, err := gramyaml.Load(data)
			if err != nil {
				return err
			}

			if dumpAST {
				codegen.DumpAST(cmd.OutOrStdout(), g)
				return nil
			}

			d := &codegen.Driver{
				Package:        pkgName,
				ReceiverName:   receiverName,
				StartRule:      startRule,
				Debug:          debug,
				LineDirectives: lineDirectives,
			}

			if dumpInstrs {
				return dumpInstrsFor(cmd, d, g)
			}

			out, closeFn, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeFn()
			return d.Generate(out, g)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "emit a trace print at every rule entry/exit")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, defaults to stdout")
	cmd.Flags().StringVar(&receiverName, "receiver-name", "c", "receiver name for generated action trampolines")
	cmd.Flags().StringVar(&startRule, "start-rule", "", "override the grammar's declared start rule")
	cmd.Flags().BoolVar(&lineDirectives, "line-directives", false, "emit //line comments mapping actions back to the grammar source")
	cmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed grammar's AST instead of generating code")
	cmd.Flags().BoolVar(&dumpInstrs, "dump-instrs", false, "print the compiled instruction streams instead of generating code")
	cmd.Flags().StringVar(&pkgName, "package", "main", "package name for the generated file")

	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// dumpInstrsFor runs just the analyzer and emitter, skipping full source
// assembly, for the -dump-instrs introspection mode.
func dumpInstrsFor(cmd *cobra.Command, d *codegen.Driver, g *ast.Grammar) error {
	start := g.StartRule
	if d.StartRule != "" {
		start = d.StartRule
	}
	if g.RuleByName(start) == nil {
		return fmt.Errorf("pegc: start rule %q not defined", start)
	}
	if res := analyze.Analyze(g); res.HasFatal() {
		return fmt.Errorf("pegc: grammar has fatal diagnostics")
	}
	g.Index()
	codegen.DumpInstrs(cmd.OutOrStdout(), ir.Emit(g))
	return nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
