package ordering

import (
	"fmt"

	"github.com/spf13/cast"
)

// orderFromValue coerces an annotation attribute into an integer priority.
// String values are treated as order expressions and routed through the
// configured evaluator; everything else is cast directly.
func (c *Comparator) orderFromValue(candidate any, attrs AttributeMap, value any) (int, error) {
	if expr, ok := value.(string); ok {
		return c.evaluateOrderExpression(candidate, attrs, expr)
	}
	order, err := cast.ToIntE(value)
	if err != nil {
		return 0, &OrderValueError{
			Candidate: candidateTypeName(candidate),
			Value:     value,
			Err:       err,
		}
	}
	return order, nil
}

func (c *Comparator) evaluateOrderExpression(candidate any, attrs AttributeMap, expression string) (int, error) {
	ctx := OrderContext{Candidate: candidate, Attributes: attrs}.withDefaults()
	engine := engineName(c.cfg.evaluator)
	value, err := c.cfg.evaluator.Evaluate(ctx, expression)
	if err != nil {
		return 0, wrapEvaluationError(engine, expression, ctx.candidateLabel(), err)
	}
	order, err := cast.ToIntE(value)
	if err != nil {
		return 0, &OrderValueError{
			Candidate: ctx.candidateLabel(),
			Value:     value,
			Err:       err,
		}
	}
	return order, nil
}

func engineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*ordering.exprEvaluator":
		return "expr"
	case "*ordering.celEvaluator":
		return "cel"
	case "*ordering.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
