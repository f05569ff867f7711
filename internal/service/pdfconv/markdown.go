package pdfconv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FromMarkdown renders markdown to a PDF document. Block structure
// (headings, paragraphs, lists, code blocks) is preserved; inline
// styling is flattened to plain text.
func (s *Service) FromMarkdown(markdown string) ([]byte, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, fmt.Errorf("markdown is empty")
	}

	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		renderBlock(pdf, node, source, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func renderBlock(pdf *fpdf.Fpdf, node ast.Node, source []byte, depth int) {
	switch n := node.(type) {
	case *ast.Heading:
		size := 20.0 - 2.0*float64(n.Level)
		if size < 11 {
			size = 11
		}
		pdf.SetFont("Helvetica", "B", size)
		pdf.MultiCell(0, size/2, inlineText(n, source), "", "L", false)
		pdf.Ln(2)

	case *ast.Paragraph, *ast.TextBlock:
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, inlineText(node, source), "", "L", false)
		pdf.Ln(2)

	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			renderListItem(pdf, item, source, depth)
		}
		pdf.Ln(2)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		pdf.SetFont("Courier", "", 9)
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			pdf.MultiCell(0, 4.5, strings.TrimRight(string(seg.Value(source)), "\n"), "", "L", false)
		}
		pdf.Ln(2)

	case *ast.Blockquote:
		pdf.SetFont("Helvetica", "I", 11)
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			pdf.MultiCell(0, 5.5, inlineText(child, source), "", "L", false)
		}
		pdf.Ln(2)

	case *ast.ThematicBreak:
		x, y := pdf.GetXY()
		w, _ := pdf.GetPageSize()
		pdf.Line(x, y, w-20, y)
		pdf.Ln(4)
	}
}

func renderListItem(pdf *fpdf.Fpdf, item ast.Node, source []byte, depth int) {
	indent := strings.Repeat("    ", depth)
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if list, ok := child.(*ast.List); ok {
			for nested := list.FirstChild(); nested != nil; nested = nested.NextSibling() {
				renderListItem(pdf, nested, source, depth+1)
			}
			continue
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, indent+"- "+inlineText(child, source), "", "L", false)
	}
}

// inlineText flattens a block node's inline content to plain text.
func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.CodeSpan:
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					sb.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
