package branch

import "github.com/gnolang/guardlint/internal/syntax"

// Chain places an if statement within its statement list.
type Chain struct {
	Index      int    // position of the if among the list's statements
	Next       Branch // statement after the if; Empty at the block end
	AtBlockEnd bool
}

// ChainOf locates stmt in list by exact span. ok is false when the
// statement is not one of the list's statements.
func ChainOf(list *syntax.List, stmt *syntax.Node) (Chain, bool) {
	i := list.IndexOf(stmt)
	if i < 0 {
		return Chain{}, false
	}
	if i == list.Len()-1 {
		return Chain{Index: i, Next: Empty.Branch(), AtBlockEnd: true}, true
	}
	return Chain{Index: i, Next: StmtBranch(list.Statements[i+1].Node)}, true
}

// CanGuard reports whether the if may become a guard clause: it either ends
// its list or is immediately followed by a jump that can be reused as the
// guard's body.
func (c Chain) CanGuard() bool {
	return c.AtBlockEnd || c.Next.Deviates()
}
