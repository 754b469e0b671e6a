package format

import "github.com/gnolang/guardlint/internal/syntax"

// Profile is the formatting convention inferred around one statement list.
type Profile struct {
	// TabSize is the file's indentation unit, counted in IndentChar
	// characters. Files without indentation fall back to DefaultIndent.
	TabSize        int
	IndentChar     byte
	UsesSemicolons bool
	// ListIndent is the indentation of the list's statements.
	ListIndent int
	// Spacing is the blank-line profile of the list owner's text.
	Spacing Spacing
}

// Infer builds the profile for a statement list of f.
func Infer(f *syntax.File, list *syntax.List) Profile {
	p := Profile{
		TabSize:        TabSize(f.Text),
		IndentChar:     IndentChar(f.Text),
		UsesSemicolons: HasSemicolons(f),
		Spacing:        ExtractSpacing(f.Source(list.Owner)),
	}
	if p.TabSize == 0 {
		p.TabSize = DefaultIndent
		p.IndentChar = ' '
	}
	if list.Len() > 0 {
		first := list.Statements[0]
		at := first.Node.Start
		if len(first.Leading) > 0 {
			at = first.Leading[0].Start
		}
		p.ListIndent = ListIndentation(f.Text, at)
	}
	return p
}

// Reindent converts code printed with DefaultIndent spaces per level into
// the profile's unit, then shifts it by delta units of the profile's
// character. The first line is left alone when skipFirst is set.
func (p Profile) Reindent(code string, delta int, skipFirst bool) string {
	code = ReplaceIndentation(code, DefaultIndent, p.TabSize, p.IndentChar)
	return AppendIndentation(code, delta, p.IndentChar, skipFirst)
}
