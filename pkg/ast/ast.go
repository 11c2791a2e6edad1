package ast

// NodeType tags every node so externally produced trees can be decoded
// without reflection on concrete types.
type NodeType string

const (
	NodeIdentifier           NodeType = "Identifier"
	NodeStringLiteral        NodeType = "StringLiteral"
	NodeIntegerLiteral       NodeType = "IntegerLiteral"
	NodeBooleanLiteral       NodeType = "BooleanLiteral"
	NodeNilLiteral           NodeType = "NilLiteral"
	NodeArrayLiteral         NodeType = "ArrayLiteral"
	NodeDictLiteral          NodeType = "DictLiteral"
	NodeDictEntry            NodeType = "DictEntry"
	NodeUnaryExpression      NodeType = "UnaryExpression"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeIndexExpression      NodeType = "IndexExpression"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodeFunctionCall         NodeType = "FunctionCall"
	NodeBlockExpression      NodeType = "BlockExpression"
	NodeIfExpression         NodeType = "IfExpression"
	NodeElseClause           NodeType = "ElseClause"
	NodeWhileLoop            NodeType = "WhileLoop"
	NodeForLoop              NodeType = "ForLoop"
	NodeBreakStatement       NodeType = "BreakStatement"
	NodeContinueStatement    NodeType = "ContinueStatement"
	NodeReturnStatement      NodeType = "ReturnStatement"
	NodeFunctionDefinition   NodeType = "FunctionDefinition"
	NodeModule               NodeType = "Module"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

// DictEntry pairs one key expression with one value expression inside a
// dictionary literal. Keys and values are evaluated left to right; a later
// duplicate key overwrites the earlier value without moving its position.
type DictEntry struct {
	nodeImpl

	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

func NewDictEntry(key, value Expression) *DictEntry {
	return &DictEntry{nodeImpl: newNodeImpl(NodeDictEntry), Key: key, Value: value}
}

type DictLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Entries []*DictEntry `json:"entries"`
}

func NewDictLiteral(entries []*DictEntry) *DictLiteral {
	return &DictLiteral{nodeImpl: newNodeImpl(NodeDictLiteral), Entries: entries}
}

// Expressions

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// AssignmentOperator distinguishes declarations from reassignments.
type AssignmentOperator string

const (
	AssignmentDeclare AssignmentOperator = ":="
	AssignmentAssign  AssignmentOperator = "="
)

// AssignmentExpression writes to an identifier or an indexed container slot.
// Declarations (":=") bind in the current scope, shadowing outer bindings;
// plain "=" requires the target to already exist.
type AssignmentExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator AssignmentOperator `json:"operator"`
	Left     Expression         `json:"left"`
	Right    Expression         `json:"right"`
}

func NewAssignmentExpression(operator AssignmentOperator, left, right Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Left: left, Right: right}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, arguments []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: arguments}
}

type BlockExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockExpression(body []Statement) *BlockExpression {
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body}
}

// ElseClause is one "else if" arm (Condition set) or the final "else"
// (Condition nil).
type ElseClause struct {
	nodeImpl

	Condition Expression       `json:"condition,omitempty"`
	Body      *BlockExpression `json:"body"`
}

func NewElseClause(condition Expression, body *BlockExpression) *ElseClause {
	return &ElseClause{nodeImpl: newNodeImpl(NodeElseClause), Condition: condition, Body: body}
}

type IfExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Condition   Expression       `json:"condition"`
	Body        *BlockExpression `json:"body"`
	ElseClauses []*ElseClause    `json:"elseClauses,omitempty"`
}

func NewIfExpression(condition Expression, body *BlockExpression, elseClauses []*ElseClause) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Body: body, ElseClauses: elseClauses}
}

// Statements

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression       `json:"condition"`
	Body      *BlockExpression `json:"body"`
}

func NewWhileLoop(condition Expression, body *BlockExpression) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// ForLoop iterates a container (or integer range). With only Value set, an
// array yields its elements and a dictionary its keys. With Key and Value
// both set, both containers yield their (key, value) pairs.
type ForLoop struct {
	nodeImpl
	statementMarker

	Key      *Identifier      `json:"key,omitempty"`
	Value    *Identifier      `json:"value"`
	Iterable Expression       `json:"iterable"`
	Body     *BlockExpression `json:"body"`
}

func NewForLoop(key, value *Identifier, iterable Expression, body *BlockExpression) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Key: key, Value: value, Iterable: iterable, Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID     *Identifier      `json:"id"`
	Params []*Identifier    `json:"params"`
	Body   *BlockExpression `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*Identifier, body *BlockExpression) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body}
}

// Module is the root node an external front end hands to the evaluator.
type Module struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewModule(body []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}
