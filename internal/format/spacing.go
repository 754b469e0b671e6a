package format

import "strings"

// Gap records the blank lines around one contiguous run of non-blank lines.
// Text is the run's lines, trimmed and joined by newlines.
type Gap struct {
	Text   string
	Before int
	After  int
}

// Spacing is the ordered blank-line profile of a piece of code.
type Spacing []Gap

// Lookup returns the gap recorded for a run of trimmed text.
func (s Spacing) Lookup(text string) (Gap, bool) {
	for _, g := range s {
		if g.Text == text {
			return g, true
		}
	}
	return Gap{}, false
}

// ExtractSpacing records, for every run of non-blank lines that is followed
// by at least one blank line, how many blank lines precede and follow it.
// A run recorded twice keeps its first position and its last counts.
func ExtractSpacing(code string) Spacing {
	lines := strings.Split(code, "\n")
	blank := func(i int) bool { return strings.TrimSpace(lines[i]) == "" }

	var (
		spacing Spacing
		run     []string
	)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		run = append(run, trimmed)

		after := 0
		for j := i + 1; j < len(lines) && blank(j); j++ {
			after++
		}
		if after == 0 {
			continue
		}

		// the run started len(run) lines ago; count the blanks above it
		before := 0
		for j := i - len(run); j >= 0 && blank(j); j-- {
			before++
		}

		spacing = spacing.set(Gap{Text: strings.Join(run, "\n"), Before: before, After: after})
		run = nil
	}
	return spacing
}

func (s Spacing) set(g Gap) Spacing {
	for i := range s {
		if s[i].Text == g.Text {
			s[i] = g
			return s
		}
	}
	return append(s, g)
}

// ApplySpacing locates each recorded run in code by its trimmed lines and
// inserts blank lines before and after it until the recorded counts are
// met. Existing blank lines are never removed and runs that cannot be found
// are ignored.
func ApplySpacing(code string, spacing Spacing) string {
	lines := strings.Split(code, "\n")

	for _, g := range spacing {
		run := strings.Split(g.Text, "\n")
		start := findRun(lines, run)
		if start < 0 {
			continue
		}

		before := 0
		for j := start - 1; j >= 0 && strings.TrimSpace(lines[j]) == ""; j-- {
			before++
		}
		if missing := g.Before - before; missing > 0 {
			lines = insertBlank(lines, start, missing)
			start += missing
		}

		end := start + len(run)
		after := 0
		for j := end; j < len(lines) && strings.TrimSpace(lines[j]) == ""; j++ {
			after++
		}
		if missing := g.After - after; missing > 0 {
			lines = insertBlank(lines, end, missing)
		}
	}
	return strings.Join(lines, "\n")
}

func findRun(lines, run []string) int {
	for i := 0; i+len(run) <= len(lines); i++ {
		match := true
		for j, want := range run {
			if strings.TrimSpace(lines[i+j]) != want {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func insertBlank(lines []string, at, count int) []string {
	out := make([]string, 0, len(lines)+count)
	out = append(out, lines[:at]...)
	for range count {
		out = append(out, "")
	}
	return append(out, lines[at:]...)
}
