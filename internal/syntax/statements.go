package syntax

import "strings"

// Statement is one entry of a statement list together with the comments
// that travel with it when the list is reprinted.
type Statement struct {
	Node     *Node
	Leading  []*Node // comments on the lines above the statement
	Trailing []*Node // comments on the statement's last line
}

// List is the statement-list view of a program, block or switch case.
type List struct {
	Owner      *Node
	Statements []Statement
	Dangling   []*Node // comments after the last statement
}

// Nodes returns the statement nodes without their comments.
func (l *List) Nodes() []*Node {
	out := make([]*Node, len(l.Statements))
	for i, s := range l.Statements {
		out[i] = s.Node
	}
	return out
}

// IndexOf locates n among the statements by exact span, or returns -1.
func (l *List) IndexOf(n *Node) int {
	for i, s := range l.Statements {
		if SameSpan(s.Node, n) {
			return i
		}
	}
	return -1
}

// Len returns the number of statements.
func (l *List) Len() int { return len(l.Statements) }

// Statements builds the statement-list view of owner. ok is false when
// owner is not a program, block or switch case.
func Statements(f *File, owner *Node) (*List, bool) {
	var members []*Node
	switch owner.Kind {
	case KindProgram, KindBlock:
		for _, c := range owner.Children {
			if c.Named && c.Type != "hash_bang_line" {
				members = append(members, c)
			}
		}
	case KindSwitchCase:
		// statements follow the ':' token
		colon := false
		for _, c := range owner.Children {
			if !c.Named && c.Type == ":" {
				colon = true
				continue
			}
			if colon && c.Named {
				members = append(members, c)
			}
		}
	default:
		return nil, false
	}

	list := &List{Owner: owner}
	var pending []*Node
	lastEnd := -1
	for _, c := range members {
		if c.Kind == KindComment {
			if len(pending) == 0 && len(list.Statements) > 0 && !strings.Contains(f.Text[lastEnd:c.Start], "\n") {
				last := &list.Statements[len(list.Statements)-1]
				last.Trailing = append(last.Trailing, c)
				lastEnd = c.End
				continue
			}
			pending = append(pending, c)
			lastEnd = c.End
			continue
		}
		list.Statements = append(list.Statements, Statement{Node: c, Leading: pending})
		pending = nil
		lastEnd = c.End
	}
	list.Dangling = pending
	return list, true
}

// StatementsOf is the statement-list view of a node's parent, used to find
// the siblings of a statement.
func StatementsOf(f *File, n *Node) (*List, bool) {
	if n.Parent == nil {
		return nil, false
	}
	return Statements(f, n.Parent)
}
