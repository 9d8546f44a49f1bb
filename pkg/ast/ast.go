package ast

import "github.com/xuorig/klox/pkg/token"

type NodeType string

const (
	NodeLiteral  NodeType = "Literal"
	NodeGrouping NodeType = "Grouping"
	NodeUnary    NodeType = "Unary"
	NodeBinary   NodeType = "Binary"
	NodeLogical  NodeType = "Logical"
	NodeVariable NodeType = "Variable"
	NodeAssign   NodeType = "Assign"

	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeVarStatement        NodeType = "VarStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
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

type Expr interface {
	Node
	exprNode()
}

type exprMarker struct{}

func (exprMarker) exprNode() {}

type Stmt interface {
	Node
	stmtNode()
}

type stmtMarker struct{}

func (stmtMarker) stmtNode() {}

// Expressions

// Literal holds nil, bool, float64, or string.
type Literal struct {
	nodeImpl
	exprMarker

	Value any `json:"value"`
}

func NewLiteral(value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

type Grouping struct {
	nodeImpl
	exprMarker

	Expression Expr `json:"expression"`
}

func NewGrouping(expr Expr) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping), Expression: expr}
}

type Unary struct {
	nodeImpl
	exprMarker

	Operator token.Token `json:"operator"`
	Right    Expr        `json:"right"`
}

func NewUnary(operator token.Token, right Expr) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary), Operator: operator, Right: right}
}

type Binary struct {
	nodeImpl
	exprMarker

	Left     Expr        `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expr        `json:"right"`
}

func NewBinary(left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary), Left: left, Operator: operator, Right: right}
}

// Logical is an `and`/`or` expression. It is kept apart from Binary because
// its right operand is evaluated conditionally.
type Logical struct {
	nodeImpl
	exprMarker

	Left     Expr        `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expr        `json:"right"`
}

func NewLogical(left Expr, operator token.Token, right Expr) *Logical {
	return &Logical{nodeImpl: newNodeImpl(NodeLogical), Left: left, Operator: operator, Right: right}
}

type Variable struct {
	nodeImpl
	exprMarker

	Name token.Token `json:"name"`
}

func NewVariable(name token.Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

type Assign struct {
	nodeImpl
	exprMarker

	Name  token.Token `json:"name"`
	Value Expr        `json:"value"`
}

func NewAssign(name token.Token, value Expr) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), Name: name, Value: value}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	stmtMarker

	Expression Expr `json:"expression"`
}

func NewExpressionStatement(expr Expr) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	stmtMarker

	Expression Expr `json:"expression"`
}

func NewPrintStatement(expr Expr) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

type VarStatement struct {
	nodeImpl
	stmtMarker

	Name        token.Token `json:"name"`
	Initializer Expr        `json:"initializer,omitempty"`
}

func NewVarStatement(name token.Token, initializer Expr) *VarStatement {
	return &VarStatement{nodeImpl: newNodeImpl(NodeVarStatement), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	stmtMarker

	Statements []Stmt `json:"statements"`
}

func NewBlockStatement(statements []Stmt) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: statements}
}

type IfStatement struct {
	nodeImpl
	stmtMarker

	Condition Expr `json:"condition"`
	Then      Stmt `json:"then"`
	Else      Stmt `json:"else,omitempty"`
}

func NewIfStatement(condition Expr, then, els Stmt) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: els}
}

type WhileStatement struct {
	nodeImpl
	stmtMarker

	Condition Expr `json:"condition"`
	Body      Stmt `json:"body"`
}

func NewWhileStatement(condition Expr, body Stmt) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}
