package internal

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/guardlint/internal/nolint"
	"github.com/gnolang/guardlint/internal/printer"
	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
	"github.com/viant/afs"
)

// Engine manages the linting process.
type Engine struct {
	ignoredRules map[string]bool
	rules        map[string]Rule
	printer      *printer.Printer
	fs           afs.Service
	cache        *Cache
}

// NewEngine creates a new lint engine. rules overrides the severity of the
// default rules; a rule set to off is ignored.
func NewEngine(rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{
		printer: printer.New(),
		fs:      afs.New(),
	}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

type ruleConstructor func() Rule

type ruleMap map[string]ruleConstructor

var allRuleConstructors = ruleMap{
	"invert-if": NewInvertIfRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]Rule)
	e.registerDefaultRules()

	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				return fmt.Errorf("unknown rule %q", key)
			}
			r = newRuleCstr()
			e.rules[key] = r
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
	}
	return nil
}

func (e *Engine) registerDefaultRules() {
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr()
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) Rule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// IgnoreRule disables rule for every following run.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// SetCache makes Run and RunSource reuse findings of unchanged sources.
func (e *Engine) SetCache(cache *Cache) {
	e.cache = cache
}

// Cache returns the cache set by SetCache, if any.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// ActiveRules returns the names of the rules that will run, sorted.
func (e *Engine) ActiveRules() []string {
	names := make([]string, 0, len(e.rules))
	for name, r := range e.rules {
		if e.ignoredRules[name] || r.Severity() == tt.SeverityOff {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry indexes the active rules by node kind.
func (e *Engine) Registry() *Registry {
	names := e.ActiveRules()
	rules := make([]Rule, len(names))
	for i, name := range names {
		rules[i] = e.rules[name]
	}
	return NewRegistry(rules...)
}

// Analyze runs the active rules over files and drops findings suppressed by
// nolint comments. Findings come in traversal order.
func (e *Engine) Analyze(files []*syntax.File) []tt.Finding {
	findings := Walk(files, e.Registry(), e.printer)
	if len(findings) == 0 {
		return nil
	}

	managers := make(map[string]*nolint.Manager, len(files))
	for _, f := range files {
		if f != nil && f.Root != nil {
			managers[f.Path] = nolint.ParseComments(f)
		}
	}
	return filterNolintFindings(findings, managers)
}

// Run reads filename and analyzes it.
func (e *Engine) Run(ctx context.Context, filename string) ([]tt.Finding, error) {
	source, err := e.fs.DownloadWithURL(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return e.RunSource(ctx, filename, source)
}

// RunSource analyzes source as the content of filename. The extension of
// filename selects the grammar.
func (e *Engine) RunSource(ctx context.Context, filename string, source []byte) ([]tt.Finding, error) {
	key := e.cacheKey(filename, source)
	if e.cache != nil {
		if findings, ok := e.cache.Get(key); ok {
			return findings, nil
		}
	}

	f, err := syntax.Parse(ctx, filename, source)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	findings := e.Analyze([]*syntax.File{f})

	if e.cache != nil {
		e.cache.Set(key, findings)
	}
	return findings, nil
}

// cacheKey covers the active rule set as well, so a config change never
// serves stale findings.
func (e *Engine) cacheKey(filename string, source []byte) Key {
	if e.cache == nil {
		return Key{}
	}
	names := e.ActiveRules()
	salt := make([]string, len(names))
	for i, name := range names {
		salt[i] = name + "=" + e.rules[name].Severity().String()
	}
	return e.cache.Key(filename, source, salt...)
}

// filterNolintFindings filters findings based on nolint comments.
func filterNolintFindings(findings []tt.Finding, managers map[string]*nolint.Manager) []tt.Finding {
	filtered := make([]tt.Finding, 0, len(findings))
	for _, finding := range findings {
		mgr := managers[finding.FilePath]
		if mgr != nil && mgr.IsNolint(finding.FilePath, finding.Line, finding.Code) {
			continue
		}
		filtered = append(filtered, finding)
	}
	return filtered
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Text  string
	Lines []string
}

// NewSourceCode splits text into lines.
func NewSourceCode(text string) *SourceCode {
	return &SourceCode{Text: text, Lines: strings.Split(text, "\n")}
}
