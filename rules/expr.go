package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	configmgmt "github.com/plasne/config-mgmt"
)

// valueVar is the name the candidate is bound to inside expressions.
const valueVar = "value"

func exprEnv[T any](value T) map[string]any {
	return map[string]any{valueVar: value}
}

func compile[T any](expression string, opts ...expr.Option) (*vm.Program, error) {
	var zero T
	opts = append([]expr.Option{expr.Env(exprEnv(zero))}, opts...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	return program, nil
}

// Expr compiles a boolean expression into a validator.
// Values for which the expression is false, or fails to evaluate, are rejected.
func Expr[T any](expression string) (configmgmt.Validator[T], error) {
	program, err := compile[T](expression, expr.AsBool())
	if err != nil {
		return nil, err
	}

	return func(value T) error {
		result, err := expr.Run(program, exprEnv(value))
		if err != nil {
			return fmt.Errorf("evaluate %q: %w", expression, err)
		}
		if ok, _ := result.(bool); !ok {
			return fmt.Errorf("value %v does not satisfy %q", value, expression)
		}
		return nil
	}, nil
}

// MustExpr is like Expr but panics if the expression does not compile.
func MustExpr[T any](expression string) configmgmt.Validator[T] {
	v, err := Expr[T](expression)
	if err != nil {
		panic(err)
	}
	return v
}

// ExprTransform compiles an expression into a transform.
// The expression must evaluate to a T; otherwise the transform fails and the
// value is kept as supplied.
func ExprTransform[T any](expression string) (configmgmt.Transform[T], error) {
	program, err := compile[T](expression)
	if err != nil {
		return nil, err
	}

	return func(value T) (T, error) {
		result, err := expr.Run(program, exprEnv(value))
		if err != nil {
			return value, fmt.Errorf("evaluate %q: %w", expression, err)
		}
		out, ok := result.(T)
		if !ok {
			return value, fmt.Errorf("%q returned %T, want %T", expression, result, value)
		}
		return out, nil
	}, nil
}

// MustExprTransform is like ExprTransform but panics if the expression does not compile.
func MustExprTransform[T any](expression string) configmgmt.Transform[T] {
	t, err := ExprTransform[T](expression)
	if err != nil {
		panic(err)
	}
	return t
}
