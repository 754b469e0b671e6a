package branch

import (
	"context"
	"testing"

	"github.com/gnolang/guardlint/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()
	f, err := syntax.Parse(context.Background(), "test.js", []byte(src))
	require.NoError(t, err)
	return f
}

// lastIf returns the innermost, last if statement of f.
func lastIf(f *syntax.File) *syntax.Node {
	var found *syntax.Node
	f.Root.Walk(func(n *syntax.Node) {
		if n.Kind == syntax.KindIf {
			found = n
		}
	})
	return found
}

func TestBranchKind(t *testing.T) {
	t.Parallel()

	assert.True(t, Return.Deviates())
	assert.True(t, Throw.Deviates())
	assert.False(t, Regular.Deviates())
	assert.False(t, Empty.Deviates())
	assert.True(t, Empty.IsEmpty())
	assert.True(t, Return.Returns())

	assert.Equal(t, syntax.KindReturn, Return.Statement().Kind)
	assert.Equal(t, syntax.KindContinue, Continue.Statement().Kind)
	assert.Equal(t, syntax.KindBreak, Break.Statement().Kind)
	assert.Nil(t, Throw.Statement())
	assert.Equal(t, "... throw", Throw.String())
}

func TestStmtBranch(t *testing.T) {
	t.Parallel()

	f := parse(t, "function f() {\n  for (;;) {\n    a()\n    if (x) break\n    if (y) continue\n    if (z) throw e\n    ;\n  }\n  return 1\n}\n")

	want := map[syntax.Kind]BranchKind{
		syntax.KindReturn:              Return,
		syntax.KindBreak:               Break,
		syntax.KindContinue:            Continue,
		syntax.KindThrow:               Throw,
		syntax.KindEmpty:               Empty,
		syntax.KindExpressionStatement: Regular,
	}
	f.Root.Walk(func(n *syntax.Node) {
		if kind, ok := want[n.Kind]; ok {
			assert.Equal(t, kind, StmtBranch(n).BranchKind, n.Kind.String())
		}
	})
}

func TestChainOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		canGuard bool
		atEnd    bool
		next     BranchKind
	}{
		{"last in function", "function f() {\n  a()\n  if (x) { b() }\n}\n", true, true, Empty},
		{"followed by return", "function f() {\n  if (x) { b() }\n  return false\n}\n", true, false, Return},
		{"followed by throw", "function f() {\n  if (x) { b() }\n  throw err\n}\n", true, false, Throw},
		{"followed by call", "function f() {\n  if (x) { b() }\n  c()\n}\n", false, false, Regular},
		{"followed by if", "function f() {\n  if (x) { b() }\n  if (y) { c() }\n  return\n}\n", true, false, Return},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := parse(t, tt.src)

			// the first if of the body
			var stmt *syntax.Node
			f.Root.Walk(func(n *syntax.Node) {
				if stmt == nil && n.Kind == syntax.KindIf {
					stmt = n
				}
			})
			if tt.name == "followed by if" {
				stmt = lastIf(f)
			}
			require.NotNil(t, stmt)

			list, ok := syntax.StatementsOf(f, stmt)
			require.True(t, ok)
			chain, ok := ChainOf(list, stmt)
			require.True(t, ok)

			assert.Equal(t, tt.canGuard, chain.CanGuard())
			assert.Equal(t, tt.atEnd, chain.AtBlockEnd)
			assert.Equal(t, tt.next, chain.Next.BranchKind)
		})
	}
}

func TestExitTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		ok   bool
		want BranchKind
	}{
		{"function body", "function f() {\n  if (x) { a() }\n}\n", true, Return},
		{"arrow body", "const f = () => {\n  if (x) { a() }\n}\n", true, Return},
		{"method body", "class A {\n  m() {\n    if (x) { a() }\n  }\n}\n", true, Return},
		{"while body", "function f() {\n  while (y) {\n    if (x) { a() }\n  }\n}\n", true, Continue},
		{"do while body", "do {\n  if (x) { a() }\n} while (y)\n", true, Continue},
		{"for of body", "for (const v of vs) {\n  if (v > 1) { a() }\n}\n", true, Continue},
		{"for in body", "for (const k in o) {\n  if (k) { a() }\n}\n", true, Continue},
		{"switch case", "switch (v) {\n  case 1:\n    if (x) { a() }\n}\n", true, Break},
		{"switch default", "switch (v) {\n  default:\n    if (x) { a() }\n}\n", true, Break},
		{"innermost wins", "function f() {\n  for (;;) {\n    switch (v) {\n      case 1:\n        if (x) { a() }\n    }\n  }\n}\n", true, Break},
		{"nested block", "function f() {\n  {\n    if (x) { a() }\n  }\n}\n", true, Return},
		{"inside try", "function f() {\n  try {\n    if (x) { a() }\n  } finally {\n    b()\n  }\n}\n", true, Return},
		{"top level", "if (x) { a() }\n", false, Empty},
		{"statement after enclosing if", "function f() {\n  if (y) {\n    if (x) { a() }\n  }\n  b()\n}\n", false, Empty},
		{"not last", "function f() {\n  if (x) { a() }\n  return\n}\n", false, Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := parse(t, tt.src)
			stmt := lastIf(f)
			require.NotNil(t, stmt)

			got, ok := ExitTarget(f, stmt)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, got.BranchKind)
			require.NotNil(t, got.Node)
			assert.True(t, got.Node.Synthetic)
		})
	}
}
