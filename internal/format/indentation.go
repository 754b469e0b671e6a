package format

import "strings"

// DefaultIndent is the indentation width the printer emits.
const DefaultIndent = 4

// tab sizes tried when inferring the indentation unit, largest first
var indentationSizes = [...]int{16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

// LineIndentation counts the leading spaces and tabs of line.
func LineIndentation(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// TabSize infers the indentation unit of text: the largest candidate size
// that divides the indentation of every indented non-blank line. It returns
// 0 when no line is indented.
func TabSize(text string) int {
	var indents []int
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := LineIndentation(line); n > 0 {
			indents = append(indents, n)
		}
	}
	if len(indents) == 0 {
		return 0
	}

	for _, size := range indentationSizes {
		if dividesAll(size, indents) {
			return size
		}
	}
	return 0
}

func dividesAll(size int, values []int) bool {
	for _, v := range values {
		if v%size != 0 {
			return false
		}
	}
	return true
}

// IndentChar reports the character most indented lines of text start with.
// Ties and unindented text resolve to a space.
func IndentChar(text string) byte {
	tabs, spaces := 0, 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "\t"):
			tabs++
		case strings.HasPrefix(line, " "):
			spaces++
		}
	}
	if tabs > spaces {
		return '\t'
	}
	return ' '
}

// ListIndentation returns the indentation of the statement starting at
// offset: the run of spaces and tabs immediately before it. For a statement
// that starts its own line this is the line's indentation.
func ListIndentation(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	n := 0
	for i := offset - 1; i >= 0 && (text[i] == ' ' || text[i] == '\t'); i-- {
		n++
	}
	return n
}

// ReplaceIndentation rewrites the leading whitespace of every line, turning
// each leading run of `from` spaces into `to` copies of char. Whitespace
// that does not form a complete unit is kept as is.
func ReplaceIndentation(code string, from, to int, char byte) string {
	if from <= 0 {
		return code
	}
	unit := strings.Repeat(" ", from)
	replacement := strings.Repeat(string(char), to)

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		levels := 0
		for strings.HasPrefix(line, unit) {
			line = line[from:]
			levels++
		}
		lines[i] = strings.Repeat(replacement, levels) + line
	}
	return strings.Join(lines, "\n")
}

// AppendIndentation shifts every non-blank line by n copies of char.
// A negative n removes up to -n leading whitespace characters instead.
// Blank lines are left untouched; the first line is skipped when skipFirst
// is set.
func AppendIndentation(code string, n int, char byte, skipFirst bool) string {
	if n == 0 {
		return code
	}
	prefix := ""
	if n > 0 {
		prefix = strings.Repeat(string(char), n)
	}

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if (skipFirst && i == 0) || strings.TrimSpace(line) == "" {
			continue
		}
		if n > 0 {
			lines[i] = prefix + line
			continue
		}
		cut := min(-n, LineIndentation(line))
		lines[i] = line[cut:]
	}
	return strings.Join(lines, "\n")
}
