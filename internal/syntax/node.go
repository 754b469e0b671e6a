package syntax

// Kind tags a node with its role in the fixed vocabulary the analysis
// understands. Grammar types outside the vocabulary map to KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindIf
	KindElse
	KindBlock
	KindReturn
	KindBreak
	KindContinue
	KindThrow
	KindWhile
	KindDoWhile
	KindFor
	KindForIn
	KindForOf
	KindFunction
	KindSwitchCase
	KindBinary
	KindUnary
	KindParenthesized
	KindExpressionStatement
	KindDeclaration
	KindComment
	KindEmpty
)

var kindNames = [...]string{
	KindOther:               "other",
	KindProgram:             "program",
	KindIf:                  "if",
	KindElse:                "else",
	KindBlock:               "block",
	KindReturn:              "return",
	KindBreak:               "break",
	KindContinue:            "continue",
	KindThrow:               "throw",
	KindWhile:               "while",
	KindDoWhile:             "do-while",
	KindFor:                 "for",
	KindForIn:               "for-in",
	KindForOf:               "for-of",
	KindFunction:            "function",
	KindSwitchCase:          "switch-case",
	KindBinary:              "binary",
	KindUnary:               "unary",
	KindParenthesized:       "parenthesized",
	KindExpressionStatement: "expression-statement",
	KindDeclaration:         "declaration",
	KindComment:             "comment",
	KindEmpty:               "empty",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsLoop reports whether k is one of the loop statements.
func (k Kind) IsLoop() bool {
	switch k {
	case KindWhile, KindDoWhile, KindFor, KindForIn, KindForOf:
		return true
	}
	return false
}

// IsExit reports whether k unconditionally transfers control out of the
// current statement list.
func (k Kind) IsExit() bool {
	switch k {
	case KindReturn, KindBreak, KindContinue, KindThrow:
		return true
	}
	return false
}

// Node is a handle into a parsed tree. Parent is a navigational link only:
// the File owns every node of its tree.
//
// Synthetic nodes are built by the factory functions and carry no source
// offsets. They reference source nodes as children without adopting them,
// so a source node's Parent always points into the original tree.
type Node struct {
	Kind      Kind
	Type      string // grammar type, e.g. "if_statement"
	Field     string // field name in the parent, e.g. "condition"
	Operator  string // binary and unary operator token
	Start     int
	End       int
	Named     bool
	Synthetic bool
	Parent    *Node
	Children  []*Node
}

// ChildByField returns the first child stored under the given field name.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// NamedChildren returns the named children in source order.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Named {
			out = append(out, c)
		}
	}
	return out
}

// FirstToken returns the leftmost leaf of n, i.e. its leading keyword or
// punctuation token.
func (n *Node) FirstToken() *Node {
	cur := n
	for len(cur.Children) > 0 {
		cur = cur.Children[0]
	}
	return cur
}

// Walk visits n and its descendants in pre-order, parent before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Enclosing returns the nearest strict ancestor satisfying match.
func (n *Node) Enclosing(match func(*Node) bool) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if match(p) {
			return p
		}
	}
	return nil
}

// SameSpan reports whether a and b cover the same byte range.
func SameSpan(a, b *Node) bool {
	return a.Start == b.Start && a.End == b.End
}

// File is one parsed source file. It is read-only for the whole analysis.
type File struct {
	Path     string
	Text     string
	Root     *Node
	Language Language
}

// Source returns the raw text covered by a source node.
func (f *File) Source(n *Node) string {
	if n == nil || n.Synthetic {
		return ""
	}
	return f.Text[n.Start:n.End]
}

// Line returns the 1-based line number of a byte offset.
func (f *File) Line(offset int) int {
	return LineAt(f.Text, offset)
}

// Column returns the 1-based byte column of a byte offset.
func (f *File) Column(offset int) int {
	return ColumnAt(f.Text, offset)
}
