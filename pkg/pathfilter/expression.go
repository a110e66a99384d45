package pathfilter

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/pathpick/internal/cel"
	"github.com/oakwood-commons/pathpick/pkg/path"
	"github.com/oakwood-commons/pathpick/pkg/signal"
)

// Expression accepts items for which a CEL predicate holds. The predicate
// sees name, path, leaf, depth, kind and size. An empty expression accepts
// everything.
type Expression struct {
	eval    *cel.Evaluator
	pred    *cel.Predicate
	enabled bool
	lastErr error
	changed signal.Signal[path.Filter]
}

// NewExpression compiles expr into a new filter.
func NewExpression(expr string) (*Expression, error) {
	eval, err := cel.NewEvaluator()
	if err != nil {
		return nil, err
	}
	e := &Expression{eval: eval, enabled: true}
	if strings.TrimSpace(expr) != "" {
		pred, err := eval.Compile(expr)
		if err != nil {
			return nil, err
		}
		e.pred = pred
	}
	return e, nil
}

// Expression returns the current source text.
func (e *Expression) Expression() string {
	if e.pred == nil {
		return ""
	}
	return e.pred.String()
}

// SetExpression recompiles the predicate. On error the previous predicate is
// kept and nothing is emitted.
func (e *Expression) SetExpression(expr string) error {
	if strings.TrimSpace(expr) == "" {
		if e.pred == nil {
			return nil
		}
		e.pred = nil
		e.changed.Emit(e)
		return nil
	}
	if e.pred != nil && e.pred.String() == strings.TrimSpace(expr) {
		return nil
	}
	pred, err := e.eval.Compile(expr)
	if err != nil {
		return err
	}
	e.pred = pred
	e.changed.Emit(e)
	return nil
}

// Accept implements path.Filter. Items whose evaluation fails are rejected
// and the error is kept for LastError.
func (e *Expression) Accept(item *path.Path) bool {
	if !e.enabled || e.pred == nil {
		return true
	}
	info := item.Info()
	ok, err := e.pred.Match(cel.Item{
		Name:  item.Name(),
		Path:  item.String(),
		Leaf:  info.Exists && info.Leaf,
		Depth: item.Len(),
		Kind:  info.Kind,
		Size:  info.Size,
	})
	if err != nil {
		e.lastErr = fmt.Errorf("%s: %w", item, err)
		return false
	}
	return ok
}

// LastError returns the most recent evaluation error, if any.
func (e *Expression) LastError() error {
	return e.lastErr
}

// Complete extends the identifier at the end of text with the variables
// and functions expressions may use.
func (e *Expression) Complete(text string) (string, bool) {
	return cel.Complete(text, cel.Variables(), e.Functions())
}

// Functions lists the CEL functions usable in expressions.
func (e *Expression) Functions() []string {
	return e.eval.DiscoverFunctions()
}

// Enabled implements Toggler.
func (e *Expression) Enabled() bool { return e.enabled }

// SetEnabled implements Toggler.
func (e *Expression) SetEnabled(enabled bool) {
	if e.enabled == enabled {
		return
	}
	e.enabled = enabled
	e.changed.Emit(e)
}

// Changed implements path.Notifier.
func (e *Expression) Changed() *signal.Signal[path.Filter] {
	return &e.changed
}

// Kind implements Kinded.
func (*Expression) Kind() string { return KindExpression }
