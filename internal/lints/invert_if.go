package lints

import (
	"path/filepath"
	"strings"

	"github.com/gnolang/guardlint/internal/branch"
	"github.com/gnolang/guardlint/internal/format"
	"github.com/gnolang/guardlint/internal/printer"
	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
)

const (
	InvertIfCode    = "invert-if"
	InvertIfMessage = "Invert if statement to reduce nesting."
)

// DetectInvertIf reports an if statement without else whose body can be
// hoisted out of it behind a guard clause. That is the case when the if ends
// its statement list, or when the statement right after it is a jump the
// guard can reuse. Any other follower would change behavior once the body
// is hoisted, so those ifs are left alone.
//
// The finding spans the `if` keyword. It carries a fix whenever the
// replacement can be built.
func DetectInvertIf(f *syntax.File, node *syntax.Node, pr *printer.Printer, severity tt.Severity) []tt.Finding {
	if node.Kind != syntax.KindIf || node.ChildByField("alternative") != nil {
		return nil
	}
	then := node.ChildByField("consequence")
	if then == nil || then.Kind != syntax.KindBlock {
		return nil
	}

	list, ok := syntax.StatementsOf(f, node)
	if !ok {
		return nil
	}
	chain, ok := branch.ChainOf(list, node)
	if !ok || !chain.CanGuard() {
		return nil
	}

	keyword := node.FirstToken()
	finding := tt.Finding{
		Code:             InvertIfCode,
		Message:          InvertIfMessage,
		FilePath:         f.Path,
		RelativeFilePath: filepath.Base(f.Path),
		Line:             f.Line(node.Start),
		Column:           f.Column(keyword.Start),
		Start:            keyword.Start,
		End:              keyword.End,
		Severity:         severity,
	}
	if fix, ok := buildInvertIfFix(f, node, list, chain, pr); ok {
		finding.Fix = fix
	}
	return []tt.Finding{finding}
}

// buildInvertIfFix rewrites the statement list owning stmt as
//
//	head...
//	if (!cond) exit
//
//	body...
//
// and re-applies the file's formatting conventions to the printed result.
func buildInvertIfFix(
	f *syntax.File,
	stmt *syntax.Node,
	list *syntax.List,
	chain branch.Chain,
	pr *printer.Printer,
) (*tt.Fix, bool) {
	cond := unparen(stmt.ChildByField("condition"))
	if cond == nil || cond.Kind != syntax.KindBinary {
		return nil, false
	}
	body, ok := syntax.Statements(f, stmt.ChildByField("consequence"))
	if !ok {
		return nil, false
	}

	self := list.Statements[chain.Index]
	tail := list.Statements[chain.Index+1:]

	guard := syntax.Statement{
		Leading:  self.Leading,
		Trailing: self.Trailing,
	}
	var exit *syntax.Node
	switch {
	case chain.AtBlockEnd:
		target, ok := branch.ExitTarget(f, stmt)
		if !ok {
			return nil, false
		}
		exit = target.Node
	case len(tail) == 1:
		exit = tail[0].Node
		guard.Leading = append(guard.Leading[:len(guard.Leading):len(guard.Leading)], tail[0].Leading...)
		guard.Trailing = append(guard.Trailing[:len(guard.Trailing):len(guard.Trailing)], tail[0].Trailing...)
	default:
		// the reused jump keeps the unreachable statements after it
		nodes := make([]*syntax.Node, len(tail))
		for i, s := range tail {
			nodes[i] = s.Node
		}
		exit = syntax.NewBlock(nodes...)
	}
	guard.Node = syntax.NewIf(Negate(cond), exit)

	stmts := make([]syntax.Statement, 0, list.Len()+body.Len()+2)
	stmts = append(stmts, list.Statements[:chain.Index]...)
	stmts = append(stmts, guard)
	stmts = append(stmts, body.Statements...)
	if len(body.Dangling) > 0 {
		stmts = append(stmts, syntax.Statement{Leading: body.Dangling})
	}
	if len(list.Dangling) > 0 {
		stmts = append(stmts, syntax.Statement{Leading: list.Dangling})
	}

	profile := format.Infer(f, list)
	if !profile.UsesSemicolons {
		pr = pr.BraceEmptyBodies()
	}
	owner := list.Owner
	start, end := owner.Start, owner.End

	var content string
	level := 1
	switch owner.Kind {
	case syntax.KindBlock:
		content = pr.PrintBlock(f, stmts)
	case syntax.KindSwitchCase:
		content = caseHeader(f, owner) + "\n" + pr.PrintStatements(f, stmts, 1)
	default:
		// a program has no delimiters; replace the statements only
		level = 0
		content = pr.PrintStatements(f, stmts, 0)
		start, end = listSpan(list)
	}

	if body.Len() > 0 {
		content = format.InsertEmptyLine(content, pr.Print(f, guard.Node))
	}
	if !profile.UsesSemicolons {
		content = format.RemoveSemicolons(content)
	}
	content = format.FormatIfStatements(content)
	content = profile.Reindent(content, profile.ListIndent-profile.TabSize*level, true)
	content = format.ApplySpacing(content, profile.Spacing)
	if body.Len() > 0 {
		// runs that began at the `if` line no longer exist; recover the
		// body's own blank lines from its statements alone
		bodyStart, bodyEnd := listSpan(body)
		content = format.ApplySpacing(content, format.ExtractSpacing(f.Text[bodyStart:bodyEnd]))
	}
	content = strings.TrimRight(content, " \t\r\n")
	if strings.Contains(f.Text, "\r\n") {
		// the printer joins lines with \n only
		content = strings.ReplaceAll(strings.ReplaceAll(content, "\r\n", "\n"), "\n", "\r\n")
	}

	return &tt.Fix{Start: start, End: end, Content: content}, true
}

// caseHeader returns the `case x:` or `default:` text of a switch case.
func caseHeader(f *syntax.File, clause *syntax.Node) string {
	for _, c := range clause.Children {
		if !c.Named && c.Type == ":" {
			return f.Text[clause.Start:c.End]
		}
	}
	return f.Source(clause)
}

// listSpan covers the statements of list and their comments.
func listSpan(list *syntax.List) (start, end int) {
	first := list.Statements[0]
	start = first.Node.Start
	if len(first.Leading) > 0 {
		start = first.Leading[0].Start
	}

	last := list.Statements[list.Len()-1]
	end = last.Node.End
	if n := len(last.Trailing); n > 0 {
		end = last.Trailing[n-1].End
	}
	if n := len(list.Dangling); n > 0 {
		end = list.Dangling[n-1].End
	}
	return start, end
}
