package ast

// Short constructors for building trees by hand, mainly in tests.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

func Entry(key, value Expression) *DictEntry {
	return NewDictEntry(key, value)
}

func Dict(entries ...*DictEntry) *DictLiteral {
	return NewDictLiteral(entries)
}

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

// Decl is a ":=" declaration of name.
func Decl(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(AssignmentDeclare, ID(name), value)
}

// Assign is a plain "=" to any assignable target.
func Assign(target, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(AssignmentAssign, target, value)
}

func Call(name string, arguments ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), arguments)
}

func Block(body ...Statement) *BlockExpression {
	return NewBlockExpression(body)
}

func If(condition Expression, body *BlockExpression, elseClauses ...*ElseClause) *IfExpression {
	return NewIfExpression(condition, body, elseClauses)
}

func ElseIf(condition Expression, body *BlockExpression) *ElseClause {
	return NewElseClause(condition, body)
}

func Else(body *BlockExpression) *ElseClause {
	return NewElseClause(nil, body)
}

func While(condition Expression, body *BlockExpression) *WhileLoop {
	return NewWhileLoop(condition, body)
}

// For iterates with a single bound variable.
func For(value string, iterable Expression, body *BlockExpression) *ForLoop {
	return NewForLoop(nil, ID(value), iterable, body)
}

// ForKV iterates binding both the key and the value.
func ForKV(key, value string, iterable Expression, body *BlockExpression) *ForLoop {
	return NewForLoop(ID(key), ID(value), iterable, body)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Fn(name string, params []string, body *BlockExpression) *FunctionDefinition {
	ids := make([]*Identifier, len(params))
	for i, p := range params {
		ids[i] = ID(p)
	}
	return NewFunctionDefinition(ID(name), ids, body)
}

func Mod(body ...Statement) *Module {
	return NewModule(body)
}
