package printer

import "github.com/gnolang/guardlint/internal/syntax"

const (
	precLowest  = 0
	precUnary   = 14
	precPrimary = 20
)

var binaryPrecedence = map[string]int{
	"??": 3, "||": 3,
	"&&": 4,
	"|":  5,
	"^":  6,
	"&":  7,
	"==": 8, "!=": 8, "===": 8, "!==": 8,
	"<": 9, "<=": 9, ">": 9, ">=": 9, "in": 9, "instanceof": 9,
	"<<": 10, ">>": 10, ">>>": 10,
	"+": 11, "-": 11,
	"*": 12, "/": 12, "%": 12,
	"**": 13,
}

// primary source expressions never need parentheses as operands
var primaryTypes = map[string]bool{
	"identifier":               true,
	"property_identifier":      true,
	"this":                     true,
	"super":                    true,
	"number":                   true,
	"string":                   true,
	"template_string":          true,
	"regex":                    true,
	"true":                     true,
	"false":                    true,
	"null":                     true,
	"undefined":                true,
	"array":                    true,
	"object":                   true,
	"member_expression":        true,
	"subscript_expression":     true,
	"call_expression":          true,
	"new_expression":           true,
	"parenthesized_expression": true,
	"non_null_expression":      true,
}

func precedence(n *syntax.Node) int {
	switch n.Kind {
	case syntax.KindBinary:
		if p, ok := binaryPrecedence[n.Operator]; ok {
			return p
		}
		return precLowest
	case syntax.KindUnary:
		return precUnary
	}
	if n.Synthetic {
		return precLowest
	}
	switch n.Type {
	case "await_expression", "update_expression":
		return precUnary
	}
	if primaryTypes[n.Type] {
		return precPrimary
	}
	return precLowest
}

func isExpression(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindBinary, syntax.KindUnary, syntax.KindParenthesized:
		return true
	}
	return precedence(n) > precLowest
}

// mixesNullish reports whether op and the operand's operator are ?? on one
// side and a logical connective on the other, which JavaScript rejects
// without parentheses.
func mixesNullish(op string, operand *syntax.Node) bool {
	if operand.Kind != syntax.KindBinary {
		return false
	}
	inner := operand.Operator
	logical := func(s string) bool { return s == "&&" || s == "||" }
	return (op == "??" && logical(inner)) || (logical(op) && inner == "??")
}

func (w *writer) expr(n *syntax.Node, level int) {
	if !n.Synthetic {
		w.source(n, level)
		return
	}

	switch n.Kind {
	case syntax.KindUnary:
		w.WriteString(n.Operator)
		operand := n.Children[0]
		w.operand(operand, level, precedence(operand) < precUnary)
	case syntax.KindBinary:
		prec := binaryPrecedence[n.Operator]
		left, right := n.Children[0], n.Children[1]
		leftParens := precedence(left) < prec || mixesNullish(n.Operator, left)
		rightParens := precedence(right) <= prec || mixesNullish(n.Operator, right)
		if n.Operator == "**" {
			leftParens = precedence(left) <= prec
			rightParens = precedence(right) < prec
		}
		w.operand(left, level, leftParens)
		w.WriteString(" " + n.Operator + " ")
		w.operand(right, level, rightParens)
	default:
		w.node(n, level)
	}
}

func (w *writer) operand(n *syntax.Node, level int, parens bool) {
	if parens {
		w.WriteByte('(')
	}
	w.expr(n, level)
	if parens {
		w.WriteByte(')')
	}
}
