// Package markdown extracts the translatable prose of a Markdown document.
// Code blocks and raw HTML are dropped; every heading, paragraph
// and table cell becomes one plain-text block.
package markdown

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// Blocks returns the plain text of each prose block in document order.
func Blocks(md []byte) []string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(md)

	var blocks []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch node.(type) {
		case *ast.CodeBlock, *ast.HTMLBlock:
			return ast.SkipChildren
		case *ast.Heading, *ast.Paragraph, *ast.TableCell:
			if text := strings.Join(strings.Fields(plainText(node)), " "); text != "" {
				blocks = append(blocks, text)
			}
			return ast.SkipChildren
		}
		return ast.GoToNext
	})
	return blocks
}

// plainText concatenates the literal text under node.
func plainText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch v := n.(type) {
		case *ast.Text:
			sb.Write(v.Literal)
		case *ast.Code:
			sb.Write(v.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			sb.WriteByte(' ')
		case *ast.HTMLSpan:
			return ast.SkipChildren
		}
		return ast.GoToNext
	})
	return sb.String()
}
