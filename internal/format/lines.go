package format

import "strings"

// InsertEmptyLine inserts one blank line after the first place where the
// lines of after appear, each contained in consecutive lines of code.
// Containment rather than equality lets after match at any indentation.
// code is returned unchanged when after cannot be found.
func InsertEmptyLine(code, after string) string {
	lines := strings.Split(code, "\n")
	want := strings.Split(after, "\n")

	for i := 0; i+len(want) <= len(lines); i++ {
		match := true
		for j, w := range want {
			if !strings.Contains(lines[i+j], w) {
				match = false
				break
			}
		}
		if match {
			return strings.Join(insertBlank(lines, i+len(want), 1), "\n")
		}
	}
	return code
}

// FormatIfStatements joins an if header that ends its line with the
// unbraced statement on the next line:
//
//	if (a <= b)
//	    return
//
// becomes `if (a <= b) return`. Headers are recognized by balancing the
// condition's parentheses, so lines that merely end with a call are left
// alone.
func FormatIfStatements(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if i+1 < len(lines) && isBareIfHeader(line) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, strings.TrimRight(line, " \t")+" "+strings.TrimSpace(lines[i+1]))
			i++
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// isBareIfHeader reports whether line is exactly `if (...)` with the
// closing parenthesis of the condition ending the line.
func isBareIfHeader(line string) bool {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "if") {
		return false
	}
	s = strings.TrimLeft(s[2:], " \t")
	if !strings.HasPrefix(s, "(") {
		return false
	}
	end := matchParen(s)
	return end == len(s)-1
}

// matchParen returns the index of the parenthesis closing s[0], skipping
// string literals, or -1.
func matchParen(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
