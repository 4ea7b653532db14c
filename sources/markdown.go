package sources

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLanguage is the info string marking a fenced block as mylang.
const MarkdownLanguage = "mylang"

// Block is a mylang program embedded in a markdown document.
type Block struct {
	// Line is the 1-indexed document line holding the first line of code.
	Line   int
	Source string
}

// ExtractMarkdown returns every non-empty fenced code block tagged
// `mylang`, in document order.
func ExtractMarkdown(content []byte) ([]Block, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var blocks []Block
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := strings.ToLower(strings.TrimSpace(string(fence.Language(content))))
		if lang != MarkdownLanguage {
			return ast.WalkSkipChildren, nil
		}

		lines := fence.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		var code strings.Builder
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(content))
		}
		start := lines.At(0).Start
		blocks = append(blocks, Block{
			Line:   bytes.Count(content[:start], []byte("\n")) + 1,
			Source: code.String(),
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}
