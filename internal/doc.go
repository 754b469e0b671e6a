// Package internal provides the core of the guard clause linter.
//
// The engine parses JavaScript and TypeScript sources, walks every node in
// pre-order and hands each one to the rules registered for its kind. The
// findings of all rules are returned in traversal order, minus those silenced
// by nolint comments.
//
// Key components:
//
// Engine: coordinates a run. It owns the configured rules, the printer used
// to render fixes and an optional findings cache.
//
// Rule: the contract every lint rule implements. A rule declares the node
// kinds it inspects and reports findings for a single node.
//
// Registry: an immutable index from node kind to the rules interested in it.
//
// Cache: findings keyed by a hash of the file name, its content and the
// active rule set, kept in memory and optionally persisted between runs.
//
// Watcher: re-analyzes files under a set of directories as they change.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil)
//	if err != nil {
//	    // handle error
//	}
//	findings, err := engine.Run(ctx, "src/index.ts")
package internal
