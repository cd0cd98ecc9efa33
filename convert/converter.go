// Package convert turns source files into a document model and its pages by
// dispatching to the backend for the detected format.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/tsawler/verbatim/format"
	"github.com/tsawler/verbatim/htmldoc"
	"github.com/tsawler/verbatim/internal/logging"
	"github.com/tsawler/verbatim/mddoc"
	"github.com/tsawler/verbatim/model"
)

// ErrUnsupportedFormat is returned for sources no backend can read.
var ErrUnsupportedFormat = errors.New("convert: unsupported format")

// Status is the outcome of a conversion.
type Status string

const (
	// StatusSuccess means the backend produced a document.
	StatusSuccess Status = "success"
	// StatusPartialSuccess means the document was produced but is empty.
	StatusPartialSuccess Status = "partial_success"
)

// InputDocument describes the source of a conversion.
type InputDocument struct {
	Name   string        `json:"name"`
	Format format.Format `json:"-"`
	Size   int64         `json:"filesize"`
	Hash   uint64        `json:"document_hash"`
}

// Result is a converted document together with the pages the backend
// produced. Pages is empty for sources without page geometry.
type Result struct {
	Input    InputDocument
	Status   Status
	Document *model.Document
	Pages    []*model.Page
}

// OriginText returns the document's origin text holder, nil when the backend
// did not record it.
func (r *Result) OriginText() *string {
	if r == nil || r.Document == nil {
		return nil
	}
	return r.Document.OriginText
}

// Converter dispatches sources to the Markdown or HTML backend.
type Converter struct {
	// HTML configures the HTML backend.
	HTML htmldoc.Options
}

// NewConverter creates a Converter with default backend options.
func NewConverter() *Converter {
	return &Converter{HTML: htmldoc.DefaultOptions()}
}

// ConvertFile reads and converts the file at path.
func (c *Converter) ConvertFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return c.ConvertBytes(filepath.Base(path), data)
}

// Convert reads the stream fully and converts it. name drives format
// detection together with the content.
func (c *Converter) Convert(name string, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return c.ConvertBytes(name, data)
}

// ConvertBytes converts an in-memory source.
func (c *Converter) ConvertBytes(name string, data []byte) (*Result, error) {
	input := InputDocument{
		Name:   name,
		Format: format.Sniff(name, data),
		Size:   int64(len(data)),
		Hash:   xxhash.Sum64(data),
	}

	var (
		doc   *model.Document
		pages []*model.Page
		err   error
	)

	switch input.Format {
	case format.Markdown:
		var r *mddoc.Reader
		r, err = mddoc.OpenBytes(name, data)
		if err == nil {
			doc, err = r.Document()
			pages = r.Pages()
		}

	case format.HTML:
		var r *htmldoc.Reader
		r, err = htmldoc.OpenBytes(name, data, c.HTML)
		if err == nil {
			doc, err = r.Document()
			pages = r.Pages()
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", name, err)
	}

	status := StatusSuccess
	if len(doc.MainText) == 0 {
		status = StatusPartialSuccess
	}

	logging.L().Debug().
		Str("name", name).
		Stringer("format", input.Format).
		Str("status", string(status)).
		Bool("origin_text", doc.HasOriginText()).
		Int("pages", len(pages)).
		Msg("converted")

	return &Result{
		Input:    input,
		Status:   status,
		Document: doc,
		Pages:    pages,
	}, nil
}
