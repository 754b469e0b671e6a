package internal

import (
	"github.com/gnolang/guardlint/internal/lints"
	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
)

// Rule is a check bound to the node kinds it inspects.
type Rule interface {
	// Code is the stable identifier reported in findings.
	Code() string

	// Name is the key the rule is configured under.
	Name() string

	// Kinds lists the node kinds the walker hands to Check.
	Kinds() []syntax.Kind

	// Check inspects node and returns its findings, if any.
	Check(pass *Pass, node *syntax.Node) []tt.Finding

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

// InvertIfRule reports ifs whose body can be hoisted behind a guard clause.
type InvertIfRule struct {
	severity tt.Severity
}

func NewInvertIfRule() Rule {
	return &InvertIfRule{severity: tt.SeverityWarning}
}

func (r *InvertIfRule) Code() string { return lints.InvertIfCode }
func (r *InvertIfRule) Name() string { return lints.InvertIfCode }

func (r *InvertIfRule) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindIf}
}

func (r *InvertIfRule) Check(pass *Pass, node *syntax.Node) []tt.Finding {
	return lints.DetectInvertIf(pass.File, node, pass.Printer, r.severity)
}

func (r *InvertIfRule) Severity() tt.Severity {
	return r.severity
}

func (r *InvertIfRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}
