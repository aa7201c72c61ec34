package starlark

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// ExecutionContext holds the globals for template expression evaluation.
// It is read-only after construction and safe for concurrent use.
type ExecutionContext struct {
	Batch  scd2.BatchContext
	Target *TargetInfo

	globals starlark.StringDict
}

// NewExecutionContext builds a context for a batch. vars become the "vars"
// dict; a var may also be referenced directly unless it shadows a builtin.
func NewExecutionContext(batch scd2.BatchContext, target *TargetInfo, vars map[string]any) (*ExecutionContext, error) {
	var dict *starlark.Dict
	if len(vars) > 0 {
		v, err := GoToStarlark(vars)
		if err != nil {
			return nil, fmt.Errorf("vars: %w", err)
		}
		dict = v.(*starlark.Dict)
	}

	globals := Predeclared(batch, target, dict)
	for name, v := range vars {
		if builtinNames[name] {
			return nil, fmt.Errorf("var %q conflicts with builtin", name)
		}
		sv, err := GoToStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("var %q: %w", name, err)
		}
		globals[name] = sv
	}
	globals.Freeze()

	return &ExecutionContext{Batch: batch, Target: target, globals: globals}, nil
}

// WithNamespaces returns a copy of ctx with extra globals, such as macro
// modules. A name already defined by a builtin or a var is an error.
func (ctx *ExecutionContext) WithNamespaces(ns starlark.StringDict) (*ExecutionContext, error) {
	if len(ns) == 0 {
		return ctx, nil
	}
	globals := make(starlark.StringDict, len(ctx.globals)+len(ns))
	for k, v := range ctx.globals {
		globals[k] = v
	}
	for k, v := range ns {
		if _, ok := globals[k]; ok {
			return nil, fmt.Errorf("namespace %q conflicts with an existing global", k)
		}
		globals[k] = v
	}
	globals.Freeze()
	return &ExecutionContext{Batch: ctx.Batch, Target: ctx.Target, globals: globals}, nil
}

// Globals returns the evaluation globals.
func (ctx *ExecutionContext) Globals() starlark.StringDict {
	return ctx.globals
}

// EvalExpr evaluates a single Starlark expression.
func (ctx *ExecutionContext) EvalExpr(expr, filename string, line int) (starlark.Value, error) {
	return ctx.EvalExprWithLocals(expr, filename, line, nil)
}

// EvalExprWithLocals evaluates a Starlark expression with additional local
// variables, such as loop variables. Locals shadow globals.
func (ctx *ExecutionContext) EvalExprWithLocals(expr, filename string, line int, locals starlark.StringDict) (starlark.Value, error) {
	thread := &starlark.Thread{
		Name:  filename,
		Print: func(_ *starlark.Thread, _ string) {},
	}

	env := ctx.globals
	if len(locals) > 0 {
		env = make(starlark.StringDict, len(ctx.globals)+len(locals))
		for k, v := range ctx.globals {
			env[k] = v
		}
		for k, v := range locals {
			env[k] = v
		}
	}

	result, err := starlark.Eval(thread, filename, expr, env) //nolint:staticcheck // SA1019: EvalOptions needs a FileOptions we don't use
	if err != nil {
		return nil, &EvalError{File: filename, Line: line, Expr: expr, Message: err.Error()}
	}
	return result, nil
}

// EvalExprString evaluates an expression and returns its text form.
func (ctx *ExecutionContext) EvalExprString(expr, filename string, line int) (string, error) {
	return ctx.EvalExprStringWithLocals(expr, filename, line, nil)
}

// EvalExprStringWithLocals is EvalExprString with locals.
// Strings render unquoted and None renders empty.
func (ctx *ExecutionContext) EvalExprStringWithLocals(expr, filename string, line int, locals starlark.StringDict) (string, error) {
	result, err := ctx.EvalExprWithLocals(expr, filename, line, locals)
	if err != nil {
		return "", err
	}
	switch v := result.(type) {
	case starlark.String:
		return string(v), nil
	case starlark.NoneType:
		return "", nil
	default:
		return result.String(), nil
	}
}

// EvalError represents an error during Starlark expression evaluation.
type EvalError struct {
	File    string
	Line    int
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: error evaluating %q: %s", e.File, e.Line, e.Expr, e.Message)
	}
	return fmt.Sprintf("%s: error evaluating %q: %s", e.File, e.Expr, e.Message)
}
