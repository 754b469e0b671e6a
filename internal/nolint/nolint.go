package nolint

import (
	"fmt"
	"strings"

	"github.com/gnolang/guardlint/internal/syntax"
)

const nolintPrefix = "nolint"

// Manager manages nolint scopes and checks if a line is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a line range where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments parses `// nolint` comments of f and returns a Manager.
// Three shapes are understood:
//
//	// nolint                  applies to every rule
//	// nolint:invert-if        applies to the listed rules
//	//nolint:rule-a, rule-b
//
// A comment trailing code covers the statement it trails. A comment on its
// own line covers the statement on the next line. A comment heading the file
// and separated from the first statement covers the whole file.
func ParseComments(f *syntax.File) *Manager {
	manager := Manager{
		scopes: make(map[string][]nolintScope),
	}
	stmtMap := indexStatementsByLine(f)

	f.Root.Walk(func(n *syntax.Node) {
		if n.Kind != syntax.KindComment {
			return
		}
		ns, err := parseComment(f, n, stmtMap)
		if err != nil {
			// ignore invalid nolint comments
			return
		}
		manager.scopes[f.Path] = append(manager.scopes[f.Path], ns)
	})
	return &manager
}

// parseComment parses a single nolint comment and determines its scope.
func parseComment(f *syntax.File, comment *syntax.Node, stmtMap map[int]*syntax.Node) (nolintScope, error) {
	var ns nolintScope

	text := f.Source(comment)
	if !strings.HasPrefix(text, "//") {
		return ns, fmt.Errorf("not a line comment")
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "//"))
	if !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}

	// either nothing or a colon-separated rule list may follow
	rest := text[len(nolintPrefix):]
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)

	line := f.Line(comment.Start)

	if isFileHeader(f, comment) {
		ns.start = 1
		ns.end = f.Line(len(f.Text))
		return ns, nil
	}

	if stmt, ok := stmtMap[line]; ok && stmt.Start < comment.Start {
		ns.start = f.Line(stmt.Start)
		ns.end = f.Line(stmt.End)
		return ns, nil
	}

	if stmt, ok := stmtMap[line+1]; ok {
		ns.start = line
		ns.end = f.Line(stmt.End)
		return ns, nil
	}

	ns.start = line
	ns.end = line
	return ns, nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// indexStatementsByLine maps each line to the outermost statement starting
// on it.
func indexStatementsByLine(f *syntax.File) map[int]*syntax.Node {
	stmtMap := make(map[int]*syntax.Node)
	f.Root.Walk(func(n *syntax.Node) {
		if !isStatement(n) {
			return
		}
		line := f.Line(n.Start)
		if _, exists := stmtMap[line]; !exists {
			stmtMap[line] = n
		}
	})
	return stmtMap
}

func isStatement(n *syntax.Node) bool {
	if n.Parent == nil || !n.Named || n.Kind == syntax.KindComment {
		return false
	}
	switch n.Parent.Kind {
	case syntax.KindProgram, syntax.KindBlock, syntax.KindSwitchCase:
		return true
	}
	return n.Parent.Type == "class_body"
}

// isFileHeader reports whether comment precedes every statement of the
// program and is not attached to the first one.
func isFileHeader(f *syntax.File, comment *syntax.Node) bool {
	if comment.Parent == nil || comment.Parent.Kind != syntax.KindProgram {
		return false
	}
	for _, c := range comment.Parent.Children {
		if c.Kind == syntax.KindComment || !c.Named {
			continue
		}
		if c.Start < comment.Start {
			return false
		}
		return f.Line(c.Start) > f.Line(comment.End)+1
	}
	return true
}

// IsNolint checks if the given line of filename is nolinted for rule.
func (m *Manager) IsNolint(filename string, line int, rule string) bool {
	scopes, exists := m.scopes[filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if line < ns.start || line > ns.end {
			continue
		}
		// an empty rule list applies to every rule
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[rule]; exists {
			return true
		}
	}
	return false
}
