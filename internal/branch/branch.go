package branch

import "github.com/gnolang/guardlint/internal/syntax"

// Branch stores what a statement does with control flow. Node is the
// statement the kind was read from, or a synthesized jump.
type Branch struct {
	BranchKind
	Node *syntax.Node
}

// BlockBranch classifies a statement list by its last statement.
func BlockBranch(list *syntax.List) Branch {
	if list.Len() == 0 {
		return Empty.Branch()
	}
	return StmtBranch(list.Statements[list.Len()-1].Node)
}

func StmtBranch(stmt *syntax.Node) Branch {
	var kind BranchKind
	switch stmt.Kind {
	case syntax.KindReturn:
		kind = Return
	case syntax.KindBreak:
		kind = Break
	case syntax.KindContinue:
		kind = Continue
	case syntax.KindThrow:
		kind = Throw
	case syntax.KindEmpty:
		kind = Empty
	default:
		kind = Regular
	}
	return Branch{BranchKind: kind, Node: stmt}
}
