package syntax

// The constructors below build synthetic nodes for the printer. Children are
// referenced, not adopted: their Parent links are left untouched.

func synthetic(kind Kind, typ string, children ...*Node) *Node {
	return &Node{
		Kind:      kind,
		Type:      typ,
		Named:     true,
		Synthetic: true,
		Children:  children,
	}
}

// NewIf builds `if (cond) consequence` with no alternative.
func NewIf(cond, consequence *Node) *Node {
	return synthetic(KindIf, "if_statement", cond, consequence)
}

// NewBinary builds `left op right`.
func NewBinary(op string, left, right *Node) *Node {
	n := synthetic(KindBinary, "binary_expression", left, right)
	n.Operator = op
	return n
}

// NewUnary builds a prefix unary expression such as `!operand`.
func NewUnary(op string, operand *Node) *Node {
	n := synthetic(KindUnary, "unary_expression", operand)
	n.Operator = op
	return n
}

// NewBlock builds a braced statement block.
func NewBlock(statements ...*Node) *Node {
	return synthetic(KindBlock, "statement_block", statements...)
}

func NewReturn() *Node   { return synthetic(KindReturn, "return_statement") }
func NewBreak() *Node    { return synthetic(KindBreak, "break_statement") }
func NewContinue() *Node { return synthetic(KindContinue, "continue_statement") }
