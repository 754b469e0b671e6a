package syntax

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrSyntax      = errors.New("syntax error")
)

// Language selects the grammar a file is parsed with.
type Language int

const (
	JavaScript Language = iota
	TypeScript
	TSX
)

func (l Language) String() string {
	switch l {
	case JavaScript:
		return "javascript"
	case TypeScript:
		return "typescript"
	case TSX:
		return "tsx"
	default:
		return "unknown"
	}
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case TypeScript:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

var extensions = map[string]Language{
	".js":  JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".jsx": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

// LanguageFor picks the grammar by file extension.
func LanguageFor(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Supported reports whether path has an extension the parser handles.
func Supported(path string) bool {
	_, ok := LanguageFor(path)
	return ok
}

// Parse parses src with the grammar matching path's extension.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	lang, ok := LanguageFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return ParseLanguage(ctx, path, src, lang)
}

// ParseLanguage parses src with an explicit grammar. Trees containing error
// or missing nodes are rejected so the analysis only ever sees
// well-formed input.
func ParseLanguage(ctx context.Context, path string, src []byte, lang Language) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c := &converter{broken: -1}
	root, err := c.convert(tree.RootNode(), nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	text := string(src)
	if c.broken >= 0 {
		return nil, fmt.Errorf("%s:%d: %w", path, LineAt(text, c.broken), ErrSyntax)
	}

	return &File{
		Path:     path,
		Text:     text,
		Root:     root,
		Language: lang,
	}, nil
}

type converter struct {
	broken int // offset of the first error node, -1 when the tree is clean
}

func (c *converter) convert(sn *sitter.Node, parent *Node, field string) (*Node, error) {
	start, err := safecast.Conv[int](sn.StartByte())
	if err != nil {
		return nil, err
	}
	end, err := safecast.Conv[int](sn.EndByte())
	if err != nil {
		return nil, err
	}
	count, err := safecast.Conv[int](sn.ChildCount())
	if err != nil {
		return nil, err
	}

	if c.broken < 0 && (sn.Type() == "ERROR" || sn.IsMissing()) {
		c.broken = start
	}

	n := &Node{
		Type:   sn.Type(),
		Field:  field,
		Start:  start,
		End:    end,
		Named:  sn.IsNamed(),
		Parent: parent,
	}
	for i := 0; i < count; i++ {
		child := sn.Child(i)
		if child == nil {
			continue
		}
		cn, err := c.convert(child, n, sn.FieldNameForChild(i))
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}

	n.Kind = classify(n)
	if n.Kind == KindBinary || n.Kind == KindUnary {
		if op := n.ChildByField("operator"); op != nil {
			n.Operator = op.Type
		}
	}
	return n, nil
}

func classify(n *Node) Kind {
	if !n.Named {
		return KindOther
	}
	switch n.Type {
	case "program":
		return KindProgram
	case "if_statement":
		return KindIf
	case "else_clause":
		return KindElse
	case "statement_block":
		return KindBlock
	case "return_statement":
		return KindReturn
	case "break_statement":
		return KindBreak
	case "continue_statement":
		return KindContinue
	case "throw_statement":
		return KindThrow
	case "while_statement":
		return KindWhile
	case "do_statement":
		return KindDoWhile
	case "for_statement":
		return KindFor
	case "for_in_statement":
		for _, c := range n.Children {
			if !c.Named && c.Type == "of" {
				return KindForOf
			}
		}
		return KindForIn
	case "function_declaration", "function_expression", "function", "arrow_function",
		"method_definition", "generator_function", "generator_function_declaration":
		return KindFunction
	case "switch_case", "switch_default":
		return KindSwitchCase
	case "binary_expression":
		return KindBinary
	case "unary_expression":
		return KindUnary
	case "parenthesized_expression":
		return KindParenthesized
	case "expression_statement":
		return KindExpressionStatement
	case "lexical_declaration", "variable_declaration":
		return KindDeclaration
	case "comment", "html_comment":
		return KindComment
	case "empty_statement":
		return KindEmpty
	default:
		return KindOther
	}
}
