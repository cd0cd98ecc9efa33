// Package verbatim provides a fluent API for converting Markdown and HTML
// sources into a document model while keeping the original source text.
//
// Basic usage:
//
//	md, err := verbatim.Open("notes.md").Markdown()
//	if err != nil {
//	    // handle error
//	}
//
// For a Markdown source, md is the file's text exactly as written rather than
// a recomposition of the parsed elements. Sources that cannot supply their
// text, such as HTML, are recomposed.
//
// With options:
//
//	chunks, err := verbatim.Open("notes.md").
//	    WithOriginInMetadata().
//	    Chunks()
//
// For lower-level control, the convert, serialize, rag and pages packages are
// also available.
//
// The library logs nothing by default. Pass a zerolog.Logger to SetLogger to
// see debug output from conversion, chunking and page export.
package verbatim

import (
	"github.com/rs/zerolog"

	"github.com/tsawler/verbatim/internal/logging"
)

// SetLogger routes the library's log output to l. It applies to every
// package in this module and is safe to call concurrently with conversions.
func SetLogger(l zerolog.Logger) {
	logging.Set(l)
}

// Open returns an Extractor for the file at path. Nothing is read until a
// terminal operation such as Markdown() is called.
//
// Example:
//
//	doc, err := verbatim.Open("README.md").Document()
func Open(path string) *Extractor {
	return &Extractor{
		path:    path,
		options: defaultOptions(),
	}
}

// FromBytes returns an Extractor for an in-memory source. name is used for
// format detection and as the document name.
//
// Example:
//
//	md, err := verbatim.FromBytes("page.html", body).Markdown()
func FromBytes(name string, data []byte) *Extractor {
	return &Extractor{
		name:    name,
		data:    append([]byte(nil), data...),
		inMem:   true,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	md := verbatim.Must(verbatim.Open("notes.md").Markdown())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
