package cel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// Variables bound for every item a predicate is evaluated against.
const (
	VarName  = "name"
	VarPath  = "path"
	VarLeaf  = "leaf"
	VarDepth = "depth"
	VarKind  = "kind"
	VarSize  = "size"
)

// Item is the data a predicate sees for one path item.
type Item struct {
	Name  string
	Path  string
	Leaf  bool
	Depth int
	Kind  string
	Size  int64
}

func (i Item) activation() map[string]any {
	return map[string]any{
		VarName:  i.Name,
		VarPath:  i.Path,
		VarLeaf:  i.Leaf,
		VarDepth: int64(i.Depth),
		VarKind:  i.Kind,
		VarSize:  i.Size,
	}
}

// Evaluator compiles CEL predicates over path items.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the item variables and the common
// extension libraries.
func NewEvaluator() (*Evaluator, error) {
	env, err := newItemEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// GetEnvironment returns the CEL environment for introspection
func (e *Evaluator) GetEnvironment() *cel.Env {
	return e.env
}

func newItemEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 10+len(opts))
	allOpts = append(allOpts,
		cel.Variable(VarName, cel.StringType),
		cel.Variable(VarPath, cel.StringType),
		cel.Variable(VarLeaf, cel.BoolType),
		cel.Variable(VarDepth, cel.IntType),
		cel.Variable(VarKind, cel.StringType),
		cel.Variable(VarSize, cel.IntType),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Predicate is a compiled boolean expression.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. The expression must evaluate to a bool.
func (e *Evaluator) Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("compilation error: empty expression")
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compilation error: expression returns %s, want bool", out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate for item.
func (p *Predicate) Match(item Item) (bool, error) {
	out, _, err := p.prg.Eval(item.activation())
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("eval error: expression returned %s, want bool", out.Type().TypeName())
	}
	return bool(b), nil
}

// DiscoverFunctions returns the sorted names of the non-operator functions and
// macros available to predicates.
func (e *Evaluator) DiscoverFunctions() []string {
	seen := make(map[string]bool)
	for _, fn := range e.env.Functions() {
		if isOperator(fn.Name()) {
			continue
		}
		seen[fn.Name()] = true
	}
	for _, m := range e.env.Macros() {
		if isOperator(m.Function()) {
			continue
		}
		seen[m.Function()] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isOperator filters out internal operator-style declarations that shouldn't be shown in UI.
func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	operators := map[string]bool{
		"!_": true, "-_": true, "@in": true,
		"_[_]": true, "_?_:_": true,
	}
	return operators[name]
}

// CommonPatterns returns example predicates shown by the filter editor.
func CommonPatterns() []string {
	return []string{
		`!name.startsWith(".")`,
		`!leaf || name.endsWith(".go")`,
		`kind == "dir" || size < 1024`,
		`depth <= 2`,
	}
}
