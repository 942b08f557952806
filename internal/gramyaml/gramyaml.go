// Package gramyaml loads a grammar's AST from a YAML document instead of
// parsing PEG source text. It exists only because spec.md's front end —
// the text parser that would turn `Rule <- "a" "b"` into an ast.Grammar —
// is explicitly out of scope; this is the stand-in input format that lets
// the rest of the pipeline (analyze, ir, codegen) be driven end to end
// without reimplementing that parser. Grammars are expected to be
// produced by tooling, not hand-written, so the format favors being an
// easy 1:1 rendering of ast.Grammar over being pleasant to type.
package gramyaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pegforge/pegc/ast"
)

// Doc is the on-disk shape: a flat rule list plus the start rule name,
// mirroring ast.Grammar directly rather than introducing its own schema.
type Doc struct {
	StartRule string    `yaml:"start_rule"`
	Init      string    `yaml:"init,omitempty"`
	Rules     []RuleDoc `yaml:"rules"`
}

type RuleDoc struct {
	Name        string     `yaml:"name"`
	DisplayName string     `yaml:"display_name,omitempty"`
	Vars        []string   `yaml:"vars,omitempty"`
	Expr        ExprDoc    `yaml:"expr"`
}

// ExprDoc is a tagged union over the one YAML mapping key present, kept
// deliberately explicit (one field per node kind) rather than a generic
// `type: ...` discriminator. yaml.v3 ignores unknown keys, so a node with
// no recognized key decodes cleanly and is rejected by buildExpr; a node
// with several keys is built from the first one in buildExpr's case order.
type ExprDoc struct {
	Dot    *struct{}     `yaml:"dot,omitempty"`
	Name   *NameDoc      `yaml:"name,omitempty"`
	Char   *string       `yaml:"char,omitempty"`
	String *StringDoc    `yaml:"string,omitempty"`
	Class  *ClassDoc     `yaml:"class,omitempty"`
	Action *ActionDoc    `yaml:"action,omitempty"`
	Inline *string       `yaml:"inline,omitempty"`
	Pred   *string       `yaml:"predicate,omitempty"`
	Error  *ErrorDoc     `yaml:"error,omitempty"`
	Alt    []ExprDoc     `yaml:"alternate,omitempty"`
	Seq    []ExprDoc     `yaml:"sequence,omitempty"`
	PeekFor *ExprDoc     `yaml:"peek_for,omitempty"`
	PeekNot *ExprDoc     `yaml:"peek_not,omitempty"`
	Query  *ExprDoc      `yaml:"query,omitempty"`
	Star   *ExprDoc      `yaml:"star,omitempty"`
	Plus   *ExprDoc      `yaml:"plus,omitempty"`
}

type NameDoc struct {
	Rule string `yaml:"rule"`
	Bind string `yaml:"bind,omitempty"`
}

type StringDoc struct {
	Value      string `yaml:"value"`
	IgnoreCase bool   `yaml:"ignore_case,omitempty"`
}

type ClassDoc struct {
	Raw        string `yaml:"raw"`
	IgnoreCase bool   `yaml:"ignore_case,omitempty"`
}

type ActionDoc struct {
	Text   string `yaml:"text"`
	Line   int    `yaml:"line,omitempty"`
	GoType string `yaml:"go_type,omitempty"`
}

type ErrorDoc struct {
	Text string  `yaml:"text"`
	Elem ExprDoc `yaml:"elem"`
}

// Load decodes data into an ast.Grammar, resolving NameExpr.Target
// references and Variable offsets as a second pass once every rule is
// known (a document can reference a rule defined later in the file).
func Load(data []byte) (*ast.Grammar, error) {
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("gramyaml: %w", err)
	}

	g := &ast.Grammar{StartRule: doc.StartRule, Init: doc.Init}
	byName := make(map[string]*ast.Rule, len(doc.Rules))

	for _, rd := range doc.Rules {
		r := &ast.Rule{Name: rd.Name, DisplayName: rd.DisplayName}
		var prev *ast.Variable
		for i, name := range rd.Vars {
			v := &ast.Variable{Name: name, Offset: i}
			if prev == nil {
				r.Vars = v
			} else {
				prev.Next = v
			}
			prev = v
		}
		g.Rules = append(g.Rules, r)
		byName[r.Name] = r
	}

	varsByRuleAndName := make(map[string]*ast.Variable)
	for _, r := range g.Rules {
		for v := r.Vars; v != nil; v = v.Next {
			varsByRuleAndName[r.Name+"."+v.Name] = v
		}
	}

	for i, rd := range doc.Rules {
		expr, err := buildExpr(rd.Expr, byName, varsByRuleAndName, rd.Name)
		if err != nil {
			return nil, fmt.Errorf("gramyaml: rule %q: %w", rd.Name, err)
		}
		g.Rules[i].Expr = expr
	}

	return g, nil
}

func buildExpr(d ExprDoc, rules map[string]*ast.Rule, vars map[string]*ast.Variable, owner string) (ast.Expr, error) {
	switch {
	case d.Dot != nil:
		return &ast.DotExpr{}, nil
	case d.Name != nil:
		n := &ast.NameExpr{Name: d.Name.Rule, Target: rules[d.Name.Rule]}
		if d.Name.Bind != "" {
			n.Bind = vars[owner+"."+d.Name.Bind]
		}
		return n, nil
	case d.Char != nil:
		if len(*d.Char) != 1 {
			return nil, fmt.Errorf("char node must be exactly one byte, got %q", *d.Char)
		}
		return &ast.CharExpr{Value: (*d.Char)[0]}, nil
	case d.String != nil:
		return &ast.StringExpr{Value: d.String.Value, IgnoreCase: d.String.IgnoreCase}, nil
	case d.Class != nil:
		return &ast.ClassExpr{Raw: d.Class.Raw, IgnoreCase: d.Class.IgnoreCase}, nil
	case d.Action != nil:
		return &ast.ActionExpr{Text: d.Action.Text, Line: d.Action.Line, GoType: d.Action.GoType}, nil
	case d.Inline != nil:
		return &ast.InlineExpr{Text: *d.Inline}, nil
	case d.Pred != nil:
		return &ast.PredicateExpr{Text: *d.Pred}, nil
	case d.Error != nil:
		elem, err := buildExpr(d.Error.Elem, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.ErrorExpr{Elem: elem, Text: d.Error.Text}, nil
	case d.Alt != nil:
		exprs, err := buildExprs(d.Alt, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.AlternateExpr{Exprs: exprs}, nil
	case d.Seq != nil:
		exprs, err := buildExprs(d.Seq, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.SequenceExpr{Exprs: exprs}, nil
	case d.PeekFor != nil:
		elem, err := buildExpr(*d.PeekFor, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.PeekForExpr{Elem: elem}, nil
	case d.PeekNot != nil:
		elem, err := buildExpr(*d.PeekNot, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.PeekNotExpr{Elem: elem}, nil
	case d.Query != nil:
		elem, err := buildExpr(*d.Query, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.QueryExpr{Elem: elem}, nil
	case d.Star != nil:
		elem, err := buildExpr(*d.Star, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.StarExpr{Elem: elem}, nil
	case d.Plus != nil:
		elem, err := buildExpr(*d.Plus, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		return &ast.PlusExpr{Elem: elem}, nil
	default:
		return nil, fmt.Errorf("expr node has no recognized key")
	}
}

func buildExprs(docs []ExprDoc, rules map[string]*ast.Rule, vars map[string]*ast.Variable, owner string) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(docs))
	for i, d := range docs {
		e, err := buildExpr(d, rules, vars, owner)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
