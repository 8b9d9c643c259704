package ordering

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine    string
	Expr      string
	Candidate string
	Err       error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ordering: %s evaluator %s candidate=%s: %v", e.Engine, describeExpression(e.Expr), e.Candidate, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "ordering:") {
		return err
	}
	return fmt.Errorf("ordering: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, candidate string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Candidate == "" {
			evalErr.Candidate = candidate
		}
		return evalErr
	}

	return &EvaluationError{
		Engine:    engine,
		Expr:      expr,
		Candidate: candidate,
		Err:       err,
	}
}

// InvocationError reports a failed reflective call to a GetOrder accessor.
// The candidate is considered broken, not merely unordered, so the failure is
// never defaulted away.
type InvocationError struct {
	Type   string
	Method string
	Err    error
}

func (e *InvocationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ordering: invoking %s.%s: %v", e.Type, e.Method, e.Err)
}

func (e *InvocationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// OrderValueError reports an order attribute, or expression result, that
// cannot be used as an integer priority.
type OrderValueError struct {
	Candidate string
	Value     any
	Err       error
}

func (e *OrderValueError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ordering: order value %v (%T) for %s: %v", e.Value, e.Value, e.Candidate, e.Err)
}

func (e *OrderValueError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DuplicateRegistrationError means a registration name is already taken.
type DuplicateRegistrationError struct {
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("ordering: registration name %q already in use", e.Name)
}

// AnnotationConflictError means a (type, kind) pair was annotated twice.
type AnnotationConflictError struct {
	Type string
	Kind string
}

func (e *AnnotationConflictError) Error() string {
	return fmt.Sprintf("ordering: %s already annotated with %q", e.Type, e.Kind)
}
