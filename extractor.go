package verbatim

import (
	"fmt"

	"github.com/tsawler/verbatim/convert"
	"github.com/tsawler/verbatim/htmldoc"
	"github.com/tsawler/verbatim/internal/logging"
	"github.com/tsawler/verbatim/model"
	"github.com/tsawler/verbatim/pages"
	"github.com/tsawler/verbatim/rag"
	"github.com/tsawler/verbatim/serialize"
)

// Extractor provides a fluent interface for converting Markdown and HTML
// sources. Each configuration method returns a new Extractor instance, making
// it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	path  string
	name  string
	data  []byte
	inMem bool

	// Configuration
	options extractOptions
	chunker rag.Chunker

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		path:    e.path,
		name:    e.name,
		data:    e.data,
		inMem:   e.inMem,
		options: e.options.clone(),
		chunker: e.chunker,
		err:     e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// RecomposedOnly discards the origin text after conversion, so every output
// is rendered from the parsed elements.
//
// Example:
//
//	md, err := verbatim.Open("notes.md").RecomposedOnly().Markdown()
func (e *Extractor) RecomposedOnly() *Extractor {
	newExt := e.clone()
	newExt.options.recomposedOnly = true
	return newExt
}

// WithOriginInMetadata copies the origin text into the metadata of every
// chunk produced by Chunks().
//
// Example:
//
//	chunks, err := verbatim.Open("notes.md").WithOriginInMetadata().Chunks()
func (e *Extractor) WithOriginInMetadata() *Extractor {
	newExt := e.clone()
	newExt.options.originInMetadata = true
	return newExt
}

// WithChunker replaces the default single-chunk producer used by Chunks().
//
// Example:
//
//	chunks, err := verbatim.Open("notes.md").WithChunker(rag.NewItemChunker()).Chunks()
func (e *Extractor) WithChunker(c rag.Chunker) *Extractor {
	newExt := e.clone()
	newExt.chunker = c
	return newExt
}

// Navigation sets how the HTML backend filters navigation and boilerplate.
func (e *Extractor) Navigation(mode htmldoc.NavigationExclusionMode) *Extractor {
	newExt := e.clone()
	newExt.options.html.Navigation = mode
	return newExt
}

// PageSize sets the synthetic page size HTML elements are laid out on.
//
// Example:
//
//	recs, err := verbatim.Open("page.html").PageSize(595, 842).Pages()
func (e *Extractor) PageSize(width, height float64) *Extractor {
	newExt := e.clone()
	if width <= 0 || height <= 0 {
		if newExt.err == nil {
			newExt.err = fmt.Errorf("invalid page size %gx%g", width, height)
		}
		return newExt
	}
	newExt.options.html.PageSize = model.Size{Width: width, Height: height}
	return newExt
}

// PlaceholderSize sets the size of the page emitted by Pages() for a source
// without page geometry.
func (e *Extractor) PlaceholderSize(width, height float64) *Extractor {
	newExt := e.clone()
	if width <= 0 || height <= 0 {
		if newExt.err == nil {
			newExt.err = fmt.Errorf("invalid placeholder size %gx%g", width, height)
		}
		return newExt
	}
	newExt.options.pages.PlaceholderSize = model.Size{Width: width, Height: height}
	return newExt
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Result converts the source and returns the document with its pages.
func (e *Extractor) Result() (*convert.Result, error) {
	if e.err != nil {
		return nil, e.err
	}

	c := &convert.Converter{HTML: e.options.html}

	var (
		res *convert.Result
		err error
	)
	switch {
	case e.inMem:
		res, err = c.ConvertBytes(e.name, e.data)
	case e.path != "":
		res, err = c.ConvertFile(e.path)
	default:
		return nil, fmt.Errorf("no source specified")
	}
	if err != nil {
		return nil, err
	}

	if e.options.recomposedOnly && res.Document.HasOriginText() {
		logging.L().Debug().Str("document", res.Document.Name).Msg("discarding origin text")
		res.Document.OriginText = nil
	}
	return res, nil
}

// Document converts the source and returns its document model.
//
// Example:
//
//	doc, err := verbatim.Open("notes.md").Document()
//	if err == nil && doc.HasOriginText() {
//	    fmt.Print(*doc.OriginText)
//	}
func (e *Extractor) Document() (*model.Document, error) {
	res, err := e.Result()
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// Markdown returns the whole document as Markdown: the origin text when the
// backend recorded it, a recomposition otherwise.
func (e *Extractor) Markdown() (string, error) {
	doc, err := e.Document()
	if err != nil {
		return "", err
	}
	if doc.HasOriginText() {
		return *doc.OriginText, nil
	}
	return serialize.ExportMarkdown(doc, serialize.All()), nil
}

// DocTokens returns the whole document in its tokenized form. This form is
// always recomposed.
func (e *Extractor) DocTokens() (string, error) {
	doc, err := e.Document()
	if err != nil {
		return "", err
	}
	return serialize.ExportDocTokens(doc, serialize.All()), nil
}

// Chunks converts the source and chunks it. Without WithChunker the whole
// document becomes a single chunk.
//
// Example:
//
//	chunks, err := verbatim.Open("notes.md").Chunks()
//	for _, ch := range chunks {
//	    fmt.Println(ch.ID, ch.Metadata.CharCount)
//	}
func (e *Extractor) Chunks() ([]*rag.Chunk, error) {
	doc, err := e.Document()
	if err != nil {
		return nil, err
	}

	var c rag.Chunker
	switch {
	case e.chunker == nil:
		c = &rag.SingleChunker{IncludeOriginText: e.options.originInMetadata}
	case e.options.originInMetadata:
		c = rag.NewOriginPreservingChunker(e.chunker)
	default:
		c = e.chunker
	}
	return c.Chunk(doc), nil
}

// Pages converts the source and exports it page by page.
//
// Example:
//
//	recs, err := verbatim.Open("page.html").Pages()
//	for _, rec := range recs {
//	    fmt.Println(rec.Page.PageNo, len(rec.Segments))
//	}
func (e *Extractor) Pages() ([]pages.Record, error) {
	res, err := e.Result()
	if err != nil {
		return nil, err
	}
	return pages.Generate(res, e.options.pages), nil
}

// PageCount returns the number of records Pages() would produce.
func (e *Extractor) PageCount() (int, error) {
	recs, err := e.Pages()
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}
