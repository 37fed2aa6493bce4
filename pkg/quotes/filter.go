package quotes

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter evaluates a boolean expression against each quote record and keeps
// the quotes the expression matches.
//
// The expression sees three variables:
//   - quote:  the quote text
//   - source: the attributed source
//   - length: len(quote)
//
// Example: `length < 120 && contains(source, "Twain")`
type Filter struct {
	source  string
	program *vm.Program
}

// filterEnv builds the evaluation environment for one quote.
func filterEnv(q Quote) map[string]interface{} {
	return map[string]interface{}{
		"quote":  q.Quote,
		"source": q.Source,
		"length": len(q.Quote),
	}
}

// NewFilter compiles a filter expression. Returns an error if the expression
// is invalid or does not produce a boolean.
func NewFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("filter expression cannot be empty")
	}

	options := []expr.Option{
		expr.Env(filterEnv(Quote{})),
		expr.AsBool(),
		expr.Function("contains", func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("contains requires 2 arguments")
			}
			str, ok := params[0].(string)
			if !ok {
				return false, nil
			}
			substr, ok := params[1].(string)
			if !ok {
				return false, nil
			}
			return strings.Contains(str, substr), nil
		}),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	return &Filter{
		source:  expression,
		program: program,
	}, nil
}

// Source returns the original expression text.
func (f *Filter) Source() string {
	return f.source
}

// Apply returns the quotes matching the filter, preserving order.
func (f *Filter) Apply(records []Quote) ([]Quote, error) {
	matched := make([]Quote, 0, len(records))

	for _, q := range records {
		result, err := expr.Run(f.program, filterEnv(q))
		if err != nil {
			return nil, fmt.Errorf("filter evaluation failed: %w", err)
		}

		keep, ok := result.(bool)
		if !ok {
			return nil, fmt.Errorf("filter did not produce a boolean: %T", result)
		}

		if keep {
			matched = append(matched, q)
		}
	}

	return matched, nil
}
