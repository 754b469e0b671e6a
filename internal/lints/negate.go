package lints

import "github.com/gnolang/guardlint/internal/syntax"

// comparison operators and their complements
var invertedOperators = map[string]string{
	"==":  "!=",
	"===": "!==",
	"!=":  "==",
	"!==": "===",
	">":   "<=",
	">=":  "<",
	"<":   ">=",
	"<=":  ">",
}

// Negate returns the logical complement of expr. A leading `!` is removed
// rather than doubled, comparisons flip their operator and `&&`/`||` chains
// are rewritten with De Morgan's laws. Anything else is wrapped in `!`,
// dropping one redundant layer of parentheses first.
//
// The source tree is never modified; the result references source nodes
// from synthetic ones.
func Negate(expr *syntax.Node) *syntax.Node {
	switch expr.Kind {
	case syntax.KindUnary:
		if expr.Operator == "!" {
			if arg := unaryOperand(expr); arg != nil {
				return arg
			}
		}
	case syntax.KindBinary:
		return negateBinary(expr)
	case syntax.KindParenthesized:
		if inner := unparen(expr); inner != nil {
			return syntax.NewUnary("!", inner)
		}
	}
	return syntax.NewUnary("!", expr)
}

func negateBinary(expr *syntax.Node) *syntax.Node {
	left, right := binaryOperands(expr)
	if left == nil || right == nil {
		return syntax.NewUnary("!", expr)
	}

	switch expr.Operator {
	case "&&":
		return syntax.NewBinary("||", Negate(left), Negate(right))
	case "||":
		return syntax.NewBinary("&&", Negate(left), Negate(right))
	}
	if op, ok := invertedOperators[expr.Operator]; ok {
		return syntax.NewBinary(op, left, right)
	}
	return syntax.NewUnary("!", expr)
}

func binaryOperands(n *syntax.Node) (left, right *syntax.Node) {
	if n.Synthetic {
		return n.Children[0], n.Children[1]
	}
	return n.ChildByField("left"), n.ChildByField("right")
}

func unaryOperand(n *syntax.Node) *syntax.Node {
	if n.Synthetic {
		return n.Children[0]
	}
	return n.ChildByField("argument")
}

// unparen returns the expression inside one layer of parentheses.
func unparen(n *syntax.Node) *syntax.Node {
	if n == nil || n.Kind != syntax.KindParenthesized {
		return n
	}
	for _, c := range n.Children {
		if c.Named && c.Kind != syntax.KindComment {
			return c
		}
	}
	return nil
}
