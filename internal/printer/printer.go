// Package printer renders syntax nodes as source text in a fixed default
// style: four spaces per level, semicolon-terminated simple statements and
// unbraced if bodies on their own line.
//
// Source nodes are reprinted from the file text with their relative
// indentation converted to the default unit. Synthetic nodes are rendered
// from their structure, adding the parentheses operator precedence needs.
package printer

import (
	"strings"

	"github.com/gnolang/guardlint/internal/format"
	"github.com/gnolang/guardlint/internal/syntax"
)

type Printer struct {
	indent string
	// braceEmpty writes a lone `;` loop or if body as `{}`
	braceEmpty bool
}

func New() *Printer {
	return &Printer{indent: strings.Repeat(" ", format.DefaultIndent)}
}

// BraceEmptyBodies returns a printer that writes empty statement bodies,
// as in `while (step());`, as `{}`. Code whose semicolons are stripped
// afterwards needs it, or the next statement would become the body.
func (p *Printer) BraceEmptyBodies() *Printer {
	c := *p
	c.braceEmpty = true
	return &c
}

// Print renders n at indentation level zero.
func (p *Printer) Print(f *syntax.File, n *syntax.Node) string {
	w := p.writer(f)
	w.node(n, 0)
	return w.String()
}

// PrintStatements renders a statement list, one statement per line, with
// every statement indented by level units.
func (p *Printer) PrintStatements(f *syntax.File, stmts []syntax.Statement, level int) string {
	w := p.writer(f)
	w.statements(stmts, level)
	return w.String()
}

// PrintBlock renders stmts as a braced block.
func (p *Printer) PrintBlock(f *syntax.File, stmts []syntax.Statement) string {
	if len(stmts) == 0 {
		return "{}"
	}
	w := p.writer(f)
	w.WriteString("{\n")
	w.statements(stmts, 1)
	w.WriteString("\n}")
	return w.String()
}

func (p *Printer) writer(f *syntax.File) *writer {
	unit := format.TabSize(f.Text)
	if unit == 0 {
		unit = format.DefaultIndent
	}
	return &writer{file: f, indent: p.indent, unit: unit, braceEmpty: p.braceEmpty}
}

type writer struct {
	strings.Builder
	file       *syntax.File
	indent     string
	unit       int // indentation unit of the source file
	braceEmpty bool
}

func (w *writer) pad(level int) {
	w.WriteString(strings.Repeat(w.indent, level))
}

func (w *writer) statements(stmts []syntax.Statement, level int) {
	first := true
	line := func() {
		if !first {
			w.WriteByte('\n')
		}
		first = false
		w.pad(level)
	}

	for _, s := range stmts {
		for _, c := range s.Leading {
			line()
			w.source(c, level)
		}
		if s.Node == nil {
			continue
		}
		line()
		w.statement(s.Node, level)
		for _, c := range s.Trailing {
			w.WriteByte(' ')
			w.source(c, level)
		}
	}
}

// statement writes a statement whose first line is already indented.
func (w *writer) statement(n *syntax.Node, level int) {
	if n.Synthetic {
		w.node(n, level)
		return
	}
	w.source(n, level)
	if format.IsSimpleStatement(n.Kind) && !strings.HasSuffix(w.file.Source(n), ";") {
		w.WriteByte(';')
	}
}

func (w *writer) node(n *syntax.Node, level int) {
	if !n.Synthetic {
		if isExpression(n) {
			w.source(n, level)
			return
		}
		w.statement(n, level)
		return
	}

	switch n.Kind {
	case syntax.KindIf:
		w.WriteString("if (")
		w.expr(n.Children[0], level)
		w.WriteByte(')')
		body := n.Children[1]
		if body.Kind == syntax.KindBlock {
			w.WriteByte(' ')
			w.node(body, level)
			return
		}
		w.WriteByte('\n')
		w.pad(level + 1)
		w.statement(body, level+1)
	case syntax.KindBlock:
		if len(n.Children) == 0 {
			w.WriteString("{}")
			return
		}
		w.WriteString("{\n")
		for _, c := range n.Children {
			w.pad(level + 1)
			w.statement(c, level+1)
			w.WriteByte('\n')
		}
		w.pad(level)
		w.WriteByte('}')
	case syntax.KindReturn:
		w.WriteString("return;")
	case syntax.KindBreak:
		w.WriteString("break;")
	case syntax.KindContinue:
		w.WriteString("continue;")
	case syntax.KindBinary, syntax.KindUnary:
		w.expr(n, level)
	}
}

// source writes the text of a source node. Continuation lines keep their
// indentation relative to the node's first line, converted to printer
// units; lines indented less than the first line are written verbatim.
func (w *writer) source(n *syntax.Node, level int) {
	text := w.text(n)
	lines := strings.Split(text, "\n")
	w.WriteString(lines[0])
	if len(lines) == 1 {
		return
	}

	base := format.LineIndentation(w.file.Text[syntax.LineStart(w.file.Text, n.Start):])
	for _, line := range lines[1:] {
		w.WriteByte('\n')
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		rel := format.LineIndentation(line) - base
		if rel < 0 {
			w.WriteString(line)
			continue
		}
		w.pad(level + rel/w.unit)
		w.WriteString(strings.Repeat(" ", rel%w.unit))
		w.WriteString(trimmed)
	}
}

// text returns the source of n, with empty bodies braced when asked to.
func (w *writer) text(n *syntax.Node) string {
	text := w.file.Source(n)
	if !w.braceEmpty {
		return text
	}

	var b strings.Builder
	last := n.Start
	n.Walk(func(c *syntax.Node) {
		if c == n || !isEmptyBody(c) || c.Start < last {
			return
		}
		b.WriteString(w.file.Text[last:c.Start])
		b.WriteString("{}")
		last = c.End
	})
	if last == n.Start {
		return text
	}
	b.WriteString(w.file.Text[last:n.End])
	return b.String()
}

func isEmptyBody(n *syntax.Node) bool {
	if n.Kind != syntax.KindEmpty || n.Parent == nil {
		return false
	}
	return n.Field == "body" || n.Field == "consequence" || n.Parent.Kind == syntax.KindElse
}
