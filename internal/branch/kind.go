package branch

import "github.com/gnolang/guardlint/internal/syntax"

type BranchKind int

const (
	Empty BranchKind = iota

	// Return branches return from the current function
	Return

	// Continue branches continue a surrounding loop
	Continue

	// Break branches break out of a surrounding loop or switch case
	Break

	// Throw branches raise an exception
	Throw

	// Regular branches not categorized as any of the above
	Regular
)

func (k BranchKind) IsEmpty() bool  { return k == Empty }
func (k BranchKind) Returns() bool  { return k == Return }
func (k BranchKind) Branch() Branch { return Branch{BranchKind: k} }

func (k BranchKind) Deviates() bool {
	switch k {
	case Empty, Regular:
		return false
	case Return, Continue, Break, Throw:
		return true
	default:
		panic("unreachable")
	}
}

// Statement synthesizes the bare jump statement for k. Throw has no bare
// form and yields nil, as do the non-deviating kinds.
func (k BranchKind) Statement() *syntax.Node {
	switch k {
	case Return:
		return syntax.NewReturn()
	case Continue:
		return syntax.NewContinue()
	case Break:
		return syntax.NewBreak()
	default:
		return nil
	}
}

func (k BranchKind) String() string {
	switch k {
	case Empty:
		return ""
	case Regular:
		return "..."
	case Return:
		return "... return"
	case Continue:
		return "... continue"
	case Break:
		return "... break"
	case Throw:
		return "... throw"
	default:
		panic("invalid kind")
	}
}
