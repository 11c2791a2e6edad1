package ast

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeModule reads a JSON-encoded module tree, the format an external
// front end emits. The shape mirrors the node structs' JSON tags.
func DecodeModule(r io.Reader) (*Module, error) {
	var raw map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	node, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	module, ok := node.(*Module)
	if !ok {
		return nil, fmt.Errorf("decode module: root node is %s, want Module", node.NodeType())
	}
	return module, nil
}

func decodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	switch NodeType(typ) {
	case NodeModule:
		body, err := decodeStatements(node["body"])
		if err != nil {
			return nil, err
		}
		return NewModule(body), nil
	case NodeIdentifier:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("identifier missing name")
		}
		return NewIdentifier(name), nil
	case NodeStringLiteral:
		val, _ := node["value"].(string)
		return NewStringLiteral(val), nil
	case NodeIntegerLiteral:
		val, err := decodeInt64(node["value"])
		if err != nil {
			return nil, err
		}
		return NewIntegerLiteral(val), nil
	case NodeBooleanLiteral:
		val, _ := node["value"].(bool)
		return NewBooleanLiteral(val), nil
	case NodeNilLiteral:
		return NewNilLiteral(), nil
	case NodeArrayLiteral:
		elements, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, err
		}
		return NewArrayLiteral(elements), nil
	case NodeDictLiteral:
		rawEntries, _ := node["entries"].([]any)
		entries := make([]*DictEntry, 0, len(rawEntries))
		for _, raw := range rawEntries {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid dict entry %T", raw)
			}
			key, err := decodeExpressionField(child, "key")
			if err != nil {
				return nil, err
			}
			value, err := decodeExpressionField(child, "value")
			if err != nil {
				return nil, err
			}
			entries = append(entries, NewDictEntry(key, value))
		}
		return NewDictLiteral(entries), nil
	case NodeUnaryExpression:
		op, _ := node["operator"].(string)
		operand, err := decodeExpressionField(node, "operand")
		if err != nil {
			return nil, err
		}
		return NewUnaryExpression(op, operand), nil
	case NodeBinaryExpression:
		op, _ := node["operator"].(string)
		left, err := decodeExpressionField(node, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExpressionField(node, "right")
		if err != nil {
			return nil, err
		}
		return NewBinaryExpression(op, left, right), nil
	case NodeIndexExpression:
		object, err := decodeExpressionField(node, "object")
		if err != nil {
			return nil, err
		}
		index, err := decodeExpressionField(node, "index")
		if err != nil {
			return nil, err
		}
		return NewIndexExpression(object, index), nil
	case NodeAssignmentExpression:
		op, _ := node["operator"].(string)
		switch AssignmentOperator(op) {
		case AssignmentDeclare, AssignmentAssign:
		default:
			return nil, fmt.Errorf("unknown assignment operator %q", op)
		}
		left, err := decodeExpressionField(node, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExpressionField(node, "right")
		if err != nil {
			return nil, err
		}
		return NewAssignmentExpression(AssignmentOperator(op), left, right), nil
	case NodeFunctionCall:
		callee, err := decodeExpressionField(node, "callee")
		if err != nil {
			return nil, err
		}
		arguments, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, err
		}
		return NewFunctionCall(callee, arguments), nil
	case NodeBlockExpression:
		body, err := decodeStatements(node["body"])
		if err != nil {
			return nil, err
		}
		return NewBlockExpression(body), nil
	case NodeIfExpression:
		condition, err := decodeExpressionField(node, "condition")
		if err != nil {
			return nil, err
		}
		body, err := decodeBlockField(node, "body")
		if err != nil {
			return nil, err
		}
		rawClauses, _ := node["elseClauses"].([]any)
		clauses := make([]*ElseClause, 0, len(rawClauses))
		for _, raw := range rawClauses {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid else clause %T", raw)
			}
			var cond Expression
			if _, ok := child["condition"].(map[string]any); ok {
				cond, err = decodeExpressionField(child, "condition")
				if err != nil {
					return nil, err
				}
			}
			clauseBody, err := decodeBlockField(child, "body")
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, NewElseClause(cond, clauseBody))
		}
		return NewIfExpression(condition, body, clauses), nil
	case NodeWhileLoop:
		condition, err := decodeExpressionField(node, "condition")
		if err != nil {
			return nil, err
		}
		body, err := decodeBlockField(node, "body")
		if err != nil {
			return nil, err
		}
		return NewWhileLoop(condition, body), nil
	case NodeForLoop:
		var key *Identifier
		if _, ok := node["key"].(map[string]any); ok {
			decoded, err := decodeIdentifierField(node, "key")
			if err != nil {
				return nil, err
			}
			key = decoded
		}
		value, err := decodeIdentifierField(node, "value")
		if err != nil {
			return nil, err
		}
		iterable, err := decodeExpressionField(node, "iterable")
		if err != nil {
			return nil, err
		}
		body, err := decodeBlockField(node, "body")
		if err != nil {
			return nil, err
		}
		return NewForLoop(key, value, iterable, body), nil
	case NodeBreakStatement:
		return NewBreakStatement(), nil
	case NodeContinueStatement:
		return NewContinueStatement(), nil
	case NodeReturnStatement:
		var argument Expression
		if _, ok := node["argument"].(map[string]any); ok {
			decoded, err := decodeExpressionField(node, "argument")
			if err != nil {
				return nil, err
			}
			argument = decoded
		}
		return NewReturnStatement(argument), nil
	case NodeFunctionDefinition:
		id, err := decodeIdentifierField(node, "id")
		if err != nil {
			return nil, err
		}
		rawParams, _ := node["params"].([]any)
		params := make([]*Identifier, 0, len(rawParams))
		for _, raw := range rawParams {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid function parameter %T", raw)
			}
			param, err := decodeNode(child)
			if err != nil {
				return nil, err
			}
			ident, ok := param.(*Identifier)
			if !ok {
				return nil, fmt.Errorf("function parameter is %s, want Identifier", param.NodeType())
			}
			params = append(params, ident)
		}
		body, err := decodeBlockField(node, "body")
		if err != nil {
			return nil, err
		}
		return NewFunctionDefinition(id, params, body), nil
	default:
		return nil, fmt.Errorf("unknown node type %q", typ)
	}
}

func decodeStatements(raw any) ([]Statement, error) {
	items, _ := raw.([]any)
	stmts := make([]Statement, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid statement entry %T", item)
		}
		node, err := decodeNode(child)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(Statement)
		if !ok {
			return nil, fmt.Errorf("node %s is not a statement", node.NodeType())
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeExpressions(raw any) ([]Expression, error) {
	items, _ := raw.([]any)
	exprs := make([]Expression, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid expression entry %T", item)
		}
		expr, err := decodeExpression(child)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeExpression(child map[string]any) (Expression, error) {
	node, err := decodeNode(child)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, fmt.Errorf("node %s is not an expression", node.NodeType())
	}
	return expr, nil
}

func decodeExpressionField(node map[string]any, field string) (Expression, error) {
	child, ok := node[field].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s node missing %q", node["type"], field)
	}
	return decodeExpression(child)
}

func decodeBlockField(node map[string]any, field string) (*BlockExpression, error) {
	expr, err := decodeExpressionField(node, field)
	if err != nil {
		return nil, err
	}
	block, ok := expr.(*BlockExpression)
	if !ok {
		return nil, fmt.Errorf("%s field %q is %s, want BlockExpression", node["type"], field, expr.NodeType())
	}
	return block, nil
}

func decodeIdentifierField(node map[string]any, field string) (*Identifier, error) {
	expr, err := decodeExpressionField(node, field)
	if err != nil {
		return nil, err
	}
	ident, ok := expr.(*Identifier)
	if !ok {
		return nil, fmt.Errorf("%s field %q is %s, want Identifier", node["type"], field, expr.NodeType())
	}
	return ident, nil
}

func decodeInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("integer literal %q out of range: %w", v.String(), err)
		}
		return n, nil
	case float64:
		return int64(v), nil
	case string:
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, fmt.Errorf("invalid integer literal %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid integer literal %T", raw)
	}
}
