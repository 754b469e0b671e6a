package branch

import "github.com/gnolang/guardlint/internal/syntax"

// constructs a jump statement can never cross
var barriers = map[string]bool{
	"class_static_block": true,
	"class_body":         true,
}

// ExitTarget synthesizes the jump that is equivalent to falling off the end
// of stmt's statement list: a bare return in a function body, continue in a
// loop body and break in a switch case. The innermost construct wins.
//
// The jump is only equivalent when nothing runs between stmt and the end of
// that construct, so every statement on the way up must be the last one of
// its own list. ok is false when that does not hold or when no construct
// encloses stmt.
func ExitTarget(f *syntax.File, stmt *syntax.Node) (Branch, bool) {
	cur := stmt
	for p := cur.Parent; p != nil; cur, p = p, p.Parent {
		if barriers[p.Type] {
			return Branch{}, false
		}

		var kind BranchKind
		switch {
		case p.Kind == syntax.KindFunction:
			kind = Return
		case p.Kind.IsLoop():
			kind = Continue
		case p.Kind == syntax.KindSwitchCase:
			kind = Break
		}

		if list, ok := syntax.Statements(f, p); ok {
			if i := list.IndexOf(cur); i < 0 || i != list.Len()-1 {
				return Branch{}, false
			}
		}

		if kind != Empty {
			return Branch{BranchKind: kind, Node: kind.Statement()}, true
		}
	}
	return Branch{}, false
}
