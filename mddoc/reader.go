// Package mddoc provides Markdown document parsing.
//
// The decoded source is kept verbatim and recorded as the document's origin
// text, so consumers can surface the exact input instead of a recomposition.
// Input that is not valid UTF-8 and carries no UTF-16 byte order mark is
// still parsed, with invalid bytes replaced, but records no origin text.
// Markdown carries no page geometry; documents produced here have no
// provenance.
package mddoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tsawler/verbatim/internal/logging"
	"github.com/tsawler/verbatim/model"
)

// MimeType is the media type recorded in document origins.
const MimeType = "text/markdown"

// Reader provides access to Markdown document content.
type Reader struct {
	name   string
	raw    []byte
	source []byte
	root   ast.Node

	// exact is false when decoding replaced invalid bytes.
	exact bool
}

// Open opens a Markdown file for reading.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return OpenBytes(filepath.Base(filename), data)
}

// OpenReader reads Markdown from an io.Reader.
func OpenReader(name string, r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading markdown: %w", err)
	}
	return OpenBytes(name, data)
}

// OpenBytes parses Markdown held in memory. UTF-8 input has its byte order
// mark stripped; UTF-16 input is recognized by its byte order mark and
// converted to UTF-8.
func OpenBytes(name string, data []byte) (*Reader, error) {
	source, exact, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding markdown: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
	)

	return &Reader{
		name:   name,
		raw:    data,
		source: source,
		exact:  exact,
		root:   md.Parser().Parse(text.NewReader(source)),
	}, nil
}

// decode converts the raw bytes to UTF-8 text. exact reports whether the
// result represents the input without substitutions.
func decode(data []byte) (out []byte, exact bool, err error) {
	exact = hasUTF16BOM(data) || utf8.Valid(bytes.TrimPrefix(data, utf8BOM))

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err = transform.Bytes(dec, data)
	if err != nil {
		return nil, false, err
	}
	return out, exact, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return nil
}

// Exact reports whether Source reproduces the input text without
// substitutions.
func (r *Reader) Exact() bool {
	return r.exact
}

// Source returns the decoded Markdown exactly as read.
func (r *Reader) Source() string {
	return string(r.source)
}

// Document builds the document model. Each call returns a fresh document
// carrying the decoded source as origin text when the decoding was exact.
func (r *Reader) Document() (*model.Document, error) {
	doc := model.NewDocument(r.name)
	doc.Origin = model.NewOrigin(r.name, MimeType, r.raw)

	b := &builder{doc: doc, source: r.source}
	b.walkBlocks(r.root, 0)

	if r.exact {
		if err := doc.SetOriginText(string(r.source)); err != nil {
			return nil, fmt.Errorf("recording origin text: %w", err)
		}
	} else {
		logging.L().Debug().Str("name", r.name).Msg("source is not valid UTF-8, no origin text recorded")
	}

	logging.L().Debug().
		Str("name", r.name).
		Int("items", len(doc.MainText)).
		Int("tables", len(doc.Tables)).
		Msg("markdown document built")

	return doc, nil
}

// Pages returns nil: Markdown has no page geometry.
func (r *Reader) Pages() []*model.Page {
	return nil
}

// builder accumulates main-text items while walking the block tree.
type builder struct {
	doc    *model.Document
	source []byte
}

// walkBlocks adds every block child of parent. depth is the current list
// nesting depth.
func (b *builder) walkBlocks(parent ast.Node, depth int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		b.walkBlock(n, depth)
	}
}

func (b *builder) walkBlock(n ast.Node, depth int) {
	switch node := n.(type) {
	case *ast.Heading:
		t := b.inlineText(node)
		if t == "" {
			return
		}
		obj := model.ObjSectionHeader
		if node.Level == 1 {
			obj = model.ObjTitle
			if b.doc.Metadata.Title == "" {
				b.doc.Metadata.Title = t
			}
		}
		b.doc.Add(&model.TextItem{Obj: obj, Text: t, Level: node.Level})

	case *ast.Paragraph, *ast.TextBlock:
		if pic := b.picture(node); pic != nil {
			b.doc.AddFigure(pic)
			return
		}
		if t := b.inlineText(node); t != "" {
			b.doc.Add(&model.TextItem{Obj: model.ObjParagraph, Text: t})
		}

	case *ast.List:
		for li := node.FirstChild(); li != nil; li = li.NextSibling() {
			b.listItem(li, depth+1)
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		b.doc.Add(&model.TextItem{Obj: model.ObjCode, Text: b.lines(node)})

	case *ast.Blockquote:
		if t := b.blockText(node); t != "" {
			b.doc.Add(&model.TextItem{Obj: model.ObjQuote, Text: t})
		}

	case *east.Table:
		b.doc.AddTable(b.table(node))

	case *ast.ThematicBreak:
		// no content

	default:
		logging.L().Debug().Str("kind", n.Kind().String()).Msg("skipping markdown block")
	}
}

// listItem adds the item's own text and then walks its nested blocks.
func (b *builder) listItem(li ast.Node, depth int) {
	first := li.FirstChild()
	if first == nil {
		return
	}

	obj := model.ObjListItem
	if cb, ok := first.FirstChild().(*east.TaskCheckBox); ok {
		obj = model.ObjCheckboxUnselected
		if cb.IsChecked {
			obj = model.ObjCheckboxSelected
		}
	}

	rest := first
	switch first.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if t := b.inlineText(first); t != "" {
			b.doc.Add(&model.TextItem{Obj: obj, Text: t, Level: depth})
		}
		rest = first.NextSibling()
	}

	for n := rest; n != nil; n = n.NextSibling() {
		b.walkBlock(n, depth)
	}
}

// picture returns a Picture when the paragraph holds a single image and
// nothing else.
func (b *builder) picture(n ast.Node) *model.Picture {
	var img *ast.Image
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Image:
			if img != nil {
				return nil
			}
			img = node
		case *ast.Text:
			if len(bytes.TrimSpace(node.Segment.Value(b.source))) > 0 {
				return nil
			}
		default:
			return nil
		}
	}
	if img == nil {
		return nil
	}
	return &model.Picture{
		Caption: b.inlineText(img),
		Source:  string(img.Destination),
	}
}

// table converts a GFM table. The header row is marked as header cells.
func (b *builder) table(n *east.Table) *model.Table {
	t := &model.Table{}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*east.TableHeader)
		var cells []model.Cell
		for c := row.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, model.Cell{
				Text:     b.inlineText(c),
				RowSpan:  1,
				ColSpan:  1,
				IsHeader: header,
			})
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// lines returns the raw lines of a code block without the trailing newline.
func (b *builder) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// blockText flattens nested blocks into newline separated text.
func (b *builder) blockText(n ast.Node) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var t string
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			t = b.inlineText(c)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			t = b.lines(c)
		default:
			t = b.blockText(c)
		}
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// inlineText concatenates the plain text of n's inline descendants. Markup
// such as emphasis markers is dropped; raw HTML is skipped.
func (b *builder) inlineText(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(b.source))
			if node.HardLineBreak() {
				sb.WriteByte('\n')
			} else if node.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(b.source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *east.TaskCheckBox:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
