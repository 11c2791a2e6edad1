package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/Demindiro/ballscript/pkg/ast"
	"github.com/Demindiro/ballscript/pkg/runtime"
)

// Interpreter drives evaluation of ballscript AST nodes against a global
// environment. It consumes trees an external front end has already
// validated; it does not re-check syntax.
type Interpreter struct {
	global *runtime.Environment
	stdout io.Writer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout redirects the print builtin's output.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stdout = w
	}
}

// New returns an interpreter with the builtins bound in a fresh global
// environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.registerBuiltins()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// EvaluateModule executes a module's statements in order and returns the
// last evaluated value. The first fault aborts the remaining statements
// and surfaces to the caller.
func (i *Interpreter) EvaluateModule(module *ast.Module) (runtime.Value, error) {
	var last runtime.Value = runtime.NilValue{}
	for _, stmt := range module.Body {
		val, err := i.evaluateStatement(stmt, i.global)
		if err != nil {
			if _, ok := err.(returnSignal); ok {
				return nil, fmt.Errorf("return outside function")
			}
			if _, ok := err.(breakSignal); ok {
				return nil, fmt.Errorf("break outside loop")
			}
			if _, ok := err.(continueSignal); ok {
				return nil, fmt.Errorf("continue outside loop")
			}
			return nil, err
		}
		last = val
	}
	return last, nil
}

// CallFunction invokes a function bound in the global environment, the
// host's single entry point into an already-evaluated module.
func (i *Interpreter) CallFunction(name string, args []runtime.Value) (runtime.Value, error) {
	val, err := i.global.Get(name)
	if err != nil {
		return nil, &runtime.Error{
			Kind:    runtime.UndefinedFunction,
			Message: fmt.Sprintf("function '%s' is not defined", name),
			Name:    name,
		}
	}
	switch fn := val.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args)
	case runtime.NativeFunctionValue:
		return i.invokeNative(fn, args)
	default:
		return nil, &runtime.Error{
			Kind:    runtime.UndefinedFunction,
			Message: fmt.Sprintf("'%s' is bound to a %s, not a function", name, val.Kind()),
			Name:    name,
		}
	}
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	decl, ok := fn.Declaration.(*ast.FunctionDefinition)
	if !ok {
		return nil, fmt.Errorf("function '%s' has no declaration", fn.Name)
	}
	if len(args) != len(decl.Params) {
		return nil, &runtime.Error{
			Kind:    runtime.BadArgumentCount,
			Message: fmt.Sprintf("function '%s' expects %d arguments, got %d", fn.Name, len(decl.Params), len(args)),
			Name:    fn.Name,
		}
	}
	localEnv := runtime.NewEnvironment(fn.Closure)
	for idx, param := range decl.Params {
		localEnv.Define(param.Name, args[idx])
	}
	result, err := i.evaluateBlock(decl.Body, localEnv)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			if ret.value == nil {
				return runtime.NilValue{}, nil
			}
			return ret.value, nil
		}
		return nil, err
	}
	if result == nil {
		return runtime.NilValue{}, nil
	}
	return result, nil
}

func (i *Interpreter) invokeNative(fn runtime.NativeFunctionValue, args []runtime.Value) (runtime.Value, error) {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, &runtime.Error{
			Kind:    runtime.BadArgumentCount,
			Message: fmt.Sprintf("function '%s' expects %d arguments, got %d", fn.Name, fn.Arity, len(args)),
			Name:    fn.Name,
		}
	}
	ctx := &runtime.NativeCallContext{Env: i.global}
	return fn.Impl(ctx, args)
}

func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NilValue:
		return false
	default:
		return true
	}
}

// Loop and function control flow travels as error values, unwound by the
// nearest construct that understands them.

type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }
