package interpreter

import (
	"fmt"

	"github.com/Demindiro/ballscript/pkg/ast"
	"github.com/Demindiro/ballscript/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.IntegerLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.NilValue{}, nil
	case *ast.ArrayLiteral:
		values := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			values = append(values, val)
		}
		return runtime.NewArray(values), nil
	case *ast.DictLiteral:
		return i.evaluateDictLiteral(n, env)
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.BlockExpression:
		return i.evaluateBlock(n, env)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

// evaluateDictLiteral evaluates keys and values left to right; a later
// duplicate key overwrites the earlier value without moving its position.
func (i *Interpreter) evaluateDictLiteral(lit *ast.DictLiteral, env *runtime.Environment) (runtime.Value, error) {
	dict := runtime.NewDict()
	for _, entry := range lit.Entries {
		key, err := i.evaluateExpression(entry.Key, env)
		if err != nil {
			return nil, err
		}
		value, err := i.evaluateExpression(entry.Value, env)
		if err != nil {
			return nil, err
		}
		if err := dict.Set(key, value); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	container, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	key, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}
	return runtime.Index(container, key)
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "-":
		iv, ok := operand.(runtime.IntValue)
		if !ok {
			return nil, fmt.Errorf("unary '-' expects int, got %s", operand.Kind())
		}
		return runtime.IntValue{Val: -iv.Val}, nil
	case "!":
		bv, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, fmt.Errorf("unary '!' expects bool, got %s", operand.Kind())
		}
		return runtime.BoolValue{Val: !bv.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	// && and || short-circuit before the right operand is evaluated.
	switch expr.Operator {
	case "&&":
		lb, ok := left.(runtime.BoolValue)
		if !ok {
			return nil, fmt.Errorf("left operand of && must be bool, got %s", left.Kind())
		}
		if !lb.Val {
			return runtime.BoolValue{Val: false}, nil
		}
		right, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(runtime.BoolValue)
		if !ok {
			return nil, fmt.Errorf("right operand of && must be bool, got %s", right.Kind())
		}
		return runtime.BoolValue{Val: rb.Val}, nil
	case "||":
		lb, ok := left.(runtime.BoolValue)
		if !ok {
			return nil, fmt.Errorf("left operand of || must be bool, got %s", left.Kind())
		}
		if lb.Val {
			return runtime.BoolValue{Val: true}, nil
		}
		right, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(runtime.BoolValue)
		if !ok {
			return nil, fmt.Errorf("right operand of || must be bool, got %s", right.Kind())
		}
		return runtime.BoolValue{Val: rb.Val}, nil
	}

	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "+":
		return runtime.Add(left, right)
	case "-", "*", "/", "%":
		return runtime.Arithmetic(expr.Operator, left, right)
	case "<", "<=", ">", ">=":
		return runtime.Compare(expr.Operator, left, right)
	case "==":
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", expr.Operator)
	}
}

// evaluateAssignment evaluates an indexed target's container and key before
// the right-hand side, so side effects run in container, key, value order.
func (i *Interpreter) evaluateAssignment(assign *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	switch lhs := assign.Left.(type) {
	case *ast.Identifier:
		value, err := i.evaluateExpression(assign.Right, env)
		if err != nil {
			return nil, err
		}
		switch assign.Operator {
		case ast.AssignmentDeclare:
			env.Define(lhs.Name, value)
		case ast.AssignmentAssign:
			if err := env.Assign(lhs.Name, value); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported assignment operator %s", assign.Operator)
		}
		return value, nil
	case *ast.IndexExpression:
		if assign.Operator != ast.AssignmentAssign {
			return nil, fmt.Errorf("cannot use %s on an indexed target", assign.Operator)
		}
		container, err := i.evaluateExpression(lhs.Object, env)
		if err != nil {
			return nil, err
		}
		key, err := i.evaluateExpression(lhs.Index, env)
		if err != nil {
			return nil, err
		}
		value, err := i.evaluateExpression(assign.Right, env)
		if err != nil {
			return nil, err
		}
		if err := runtime.SetIndex(container, key, value); err != nil {
			return nil, err
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported assignment target %s", assign.Left.NodeType())
	}
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	switch fn := callee.(type) {
	case runtime.NativeFunctionValue:
		return i.invokeNative(fn, args)
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args)
	default:
		return nil, fmt.Errorf("calling non-function value of kind %s", callee.Kind())
	}
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateExpression(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return i.evaluateBlock(expr.Body, env)
	}
	for _, clause := range expr.ElseClauses {
		if clause.Condition != nil {
			clauseCond, err := i.evaluateExpression(clause.Condition, env)
			if err != nil {
				return nil, err
			}
			if !isTruthy(clauseCond) {
				continue
			}
		}
		return i.evaluateBlock(clause.Body, env)
	}
	return runtime.NilValue{}, nil
}
