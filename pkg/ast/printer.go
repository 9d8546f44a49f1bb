package ast

import (
	"fmt"
	"strings"

	"github.com/xuorig/klox/pkg/token"
)

// Print renders an expression in parenthesized prefix form, e.g.
// `(* (- 123) (group 45.67))`.
func Print(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

// PrintStmt renders a statement in the same prefix form.
func PrintStmt(stmt Stmt) string {
	var b strings.Builder
	writeStmt(&b, stmt)
	return b.String()
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch n := expr.(type) {
	case *Literal:
		b.WriteString(formatLiteral(n.Value))
	case *Grouping:
		parenthesize(b, "group", n.Expression)
	case *Unary:
		parenthesize(b, n.Operator.Lexeme, n.Right)
	case *Binary:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Logical:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Variable:
		b.WriteString(n.Name.Lexeme)
	case *Assign:
		parenthesize(b, "= "+n.Name.Lexeme, n.Value)
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%s>", n.NodeType())
	}
}

func writeStmt(b *strings.Builder, stmt Stmt) {
	switch n := stmt.(type) {
	case *ExpressionStatement:
		parenthesize(b, ";", n.Expression)
	case *PrintStatement:
		parenthesize(b, "print", n.Expression)
	case *VarStatement:
		if n.Initializer == nil {
			fmt.Fprintf(b, "(var %s)", n.Name.Lexeme)
			return
		}
		parenthesize(b, "var "+n.Name.Lexeme, n.Initializer)
	case *BlockStatement:
		b.WriteString("(block")
		for _, inner := range n.Statements {
			b.WriteByte(' ')
			writeStmt(b, inner)
		}
		b.WriteByte(')')
	case *IfStatement:
		b.WriteString("(if ")
		writeExpr(b, n.Condition)
		b.WriteByte(' ')
		writeStmt(b, n.Then)
		if n.Else != nil {
			b.WriteByte(' ')
			writeStmt(b, n.Else)
		}
		b.WriteByte(')')
	case *WhileStatement:
		b.WriteString("(while ")
		writeExpr(b, n.Condition)
		b.WriteByte(' ')
		writeStmt(b, n.Body)
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%s>", n.NodeType())
	}
}

func parenthesize(b *strings.Builder, name string, exprs ...Expr) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteByte(' ')
		writeExpr(b, expr)
	}
	b.WriteByte(')')
}

func formatLiteral(v any) string {
	switch lit := v.(type) {
	case nil:
		return "nil"
	case float64:
		return token.FormatNumber(lit)
	case string:
		return lit
	default:
		return fmt.Sprint(lit)
	}
}
