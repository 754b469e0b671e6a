package format

import (
	"regexp"
	"strings"

	"github.com/gnolang/guardlint/internal/syntax"
)

// HasSemicolons reports whether at least half of the simple statements of f
// (expressions, declarations and jumps) end with a semicolon. A file without
// simple statements does not use semicolons.
func HasSemicolons(f *syntax.File) bool {
	with, without := 0, 0
	f.Root.Walk(func(n *syntax.Node) {
		if !IsSimpleStatement(n.Kind) {
			return
		}
		// for headers always carry their semicolons
		if n.Parent != nil && n.Parent.Kind == syntax.KindFor {
			return
		}
		if strings.HasSuffix(strings.TrimSpace(f.Source(n)), ";") {
			with++
		} else {
			without++
		}
	})
	if with+without == 0 {
		return false
	}
	return 2*with >= with+without
}

// IsSimpleStatement reports whether statements of kind k are terminated by
// a semicolon in semicolon style.
func IsSimpleStatement(k syntax.Kind) bool {
	switch k {
	case syntax.KindExpressionStatement, syntax.KindDeclaration,
		syntax.KindReturn, syntax.KindBreak, syntax.KindContinue, syntax.KindThrow:
		return true
	}
	return false
}

var terminator = regexp.MustCompile(`;(\s*(?:\n|$|\}))`)

// RemoveSemicolons strips every semicolon that is followed, after optional
// whitespace, by a line break, the end of code or a closing brace. Other
// semicolons, such as those of a for header or inside a string literal,
// are kept.
func RemoveSemicolons(code string) string {
	return terminator.ReplaceAllString(code, "${1}")
}
