package interpreter

import (
	"fmt"

	"github.com/Demindiro/ballscript/pkg/ast"
	"github.com/Demindiro/ballscript/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case ast.Expression:
		return i.evaluateExpression(n, env)
	case *ast.FunctionDefinition:
		return i.evaluateFunctionDefinition(n, env)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n, env)
	case *ast.ForLoop:
		return i.evaluateForLoop(n, env)
	case *ast.BreakStatement:
		return nil, breakSignal{}
	case *ast.ContinueStatement:
		return nil, continueSignal{}
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(n, env)
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateBlock(block *ast.BlockExpression, env *runtime.Environment) (runtime.Value, error) {
	scope := runtime.NewEnvironment(env)
	var result runtime.Value = runtime.NilValue{}
	for _, stmt := range block.Body {
		val, err := i.evaluateStatement(stmt, scope)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateFunctionDefinition(def *ast.FunctionDefinition, env *runtime.Environment) (runtime.Value, error) {
	if def.ID == nil {
		return nil, fmt.Errorf("function definition requires identifier")
	}
	fn := &runtime.FunctionValue{Name: def.ID.Name, Declaration: def, Closure: env}
	env.Define(def.ID.Name, fn)
	return runtime.NilValue{}, nil
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.NilValue{}
	if stmt.Argument != nil {
		val, err := i.evaluateExpression(stmt.Argument, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return nil, returnSignal{value: result}
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.NilValue{}
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return nil, err
		}
		if !isTruthy(cond) {
			return result, nil
		}
		val, err := i.evaluateBlock(loop.Body, env)
		if err != nil {
			switch err.(type) {
			case breakSignal:
				return result, nil
			case continueSignal:
				continue
			default:
				return nil, err
			}
		}
		result = val
	}
}

// evaluateForLoop walks the iterable's (key, value) pairs. A single bound
// variable receives the element for arrays and the key for dictionaries;
// the two-variable form receives both halves of each pair.
func (i *Interpreter) evaluateForLoop(loop *ast.ForLoop, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evaluateExpression(loop.Iterable, env)
	if err != nil {
		return nil, err
	}
	next, err := runtime.Iterate(iterable)
	if err != nil {
		return nil, err
	}
	if loop.Value == nil {
		return nil, fmt.Errorf("for-loop requires a bound variable")
	}
	_, overDict := iterable.(*runtime.DictValue)

	var result runtime.Value = runtime.NilValue{}
	for {
		pair, ok := next()
		if !ok {
			return result, nil
		}
		iterEnv := runtime.NewEnvironment(env)
		if loop.Key != nil {
			iterEnv.Define(loop.Key.Name, pair.Key)
			iterEnv.Define(loop.Value.Name, pair.Value)
		} else if overDict {
			iterEnv.Define(loop.Value.Name, pair.Key)
		} else {
			iterEnv.Define(loop.Value.Name, pair.Value)
		}
		val, err := i.evaluateBlock(loop.Body, iterEnv)
		if err != nil {
			switch err.(type) {
			case breakSignal:
				return result, nil
			case continueSignal:
				continue
			default:
				return nil, err
			}
		}
		result = val
	}
}
