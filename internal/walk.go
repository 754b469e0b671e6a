package internal

import (
	"github.com/gnolang/guardlint/internal/printer"
	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
)

// Pass is the context a rule sees while the walker visits one file.
type Pass struct {
	File    *syntax.File
	Printer *printer.Printer
}

// Registry maps node kinds to the rules interested in them. It is built once
// and never modified afterwards, so it may be shared between goroutines.
type Registry struct {
	byKind map[syntax.Kind][]Rule
}

// NewRegistry indexes rules by the kinds they declare. Rules keep their
// relative order within a kind.
func NewRegistry(rules ...Rule) *Registry {
	byKind := make(map[syntax.Kind][]Rule)
	for _, r := range rules {
		for _, k := range r.Kinds() {
			byKind[k] = append(byKind[k], r)
		}
	}
	return &Registry{byKind: byKind}
}

// RulesFor returns the rules registered for kind. Callers must not modify the
// returned slice.
func (r *Registry) RulesFor(kind syntax.Kind) []Rule {
	if r == nil {
		return nil
	}
	return r.byKind[kind]
}

// Walk visits every node of files in pre-order, parents before children and
// files in the given order, and collects the findings of every rule
// registered for each node's kind in visitation order.
func Walk(files []*syntax.File, registry *Registry, pr *printer.Printer) []tt.Finding {
	var findings []tt.Finding
	for _, f := range files {
		if f == nil || f.Root == nil {
			continue
		}
		pass := &Pass{File: f, Printer: pr}
		f.Root.Walk(func(n *syntax.Node) {
			for _, rule := range registry.RulesFor(n.Kind) {
				if found := rule.Check(pass, n); len(found) > 0 {
					findings = append(findings, found...)
				}
			}
		})
	}
	return findings
}
