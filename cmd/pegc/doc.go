/*
Command pegc compiles a PEG grammar's AST into a self-contained,
dependency-free Go parser.

From Wikipedia:

	A parsing expression grammar is a type of analytic formal grammar, i.e.
	it describes a formal language in terms of a set of rules for recognizing
	strings in the language.

pegc picks up where a PEG front-end parser leaves off: it takes an
already-built grammar AST (here, read from a YAML rendering of one — see
internal/gramyaml) and turns it into ordered-choice, greedy-repetition,
and lookahead-predicate code backed by a checkpoint-and-thunk-log runtime
that makes backtracking and deferred variable binding behave correctly
together.

# Command-line usage

	pegc [options] [GRAMMAR_FILE]

The grammar may be provided by a file argument or read from stdin. The
generated parser is written to stdout by default. The following options
can be specified:

	--debug : emit a trace print at every rule entry/exit in the
	generated parser (default: false).

	-o, --output=FILE : output file where the generated parser will be
	written (default: stdout).

	--receiver-name=NAME : name of the receiver for generated action
	trampoline methods (default: c).

	--start-rule=NAME : override the grammar's own declared start rule.

	--line-directives : emit //line comments mapping action bodies back
	to their position in the grammar source.

	--dump-ast : print the grammar's AST instead of generating code.

	--dump-instrs : print the compiled, label-annotated instruction
	streams instead of generating code.

	--package=NAME : package name for the generated file (default: main).

Executing the user action code embedded in a grammar — actually running
the Go source a `{ ... }`/`#{...}`/`&{...}`/`e^{...}` block contains — is
out of scope: pegc emits a trampoline stub per action in discovery order
and leaves filling in its body to the caller.
*/
package main
