package rag

import (
	"github.com/tsawler/verbatim/internal/logging"
	"github.com/tsawler/verbatim/model"
	"github.com/tsawler/verbatim/serialize"
)

// OriginSerializer is a Markdown serializer that answers whole-document
// requests with the document's origin text. Single items are always
// recomposed: there is no general mapping from a sub-tree back to a span of
// the source.
type OriginSerializer struct {
	*serialize.MarkdownSerializer

	origin *string
}

// NewOriginSerializer creates a serializer for doc, capturing its origin text
// once. A document without origin text gets plain recomposition.
func NewOriginSerializer(doc *model.Document) *OriginSerializer {
	s := &OriginSerializer{MarkdownSerializer: serialize.NewMarkdownSerializer(doc)}
	if doc.HasOriginText() {
		text := *doc.OriginText
		s.origin = &text
	} else if doc != nil {
		logging.L().Debug().Str("document", doc.Name).Msg("origin text unavailable; serializer will recompose")
	}
	return s
}

// HasOriginText reports whether the serializer captured origin text.
func (s *OriginSerializer) HasOriginText() bool {
	return s.origin != nil
}

// Serialize renders a single item. It never substitutes origin text.
func (s *OriginSerializer) Serialize(item model.Item) serialize.Result {
	return s.MarkdownSerializer.Serialize(item)
}

// SerializeDoc returns the origin text for whole-document requests and
// recomposes the parts otherwise.
func (s *OriginSerializer) SerializeDoc(parts []serialize.Result, scope serialize.Scope) serialize.Result {
	if s.origin != nil && coversDocument(parts, scope) {
		return serialize.Result{Text: *s.origin}
	}
	return s.MarkdownSerializer.SerializeDoc(parts, scope)
}

// coversDocument decides whether a request is for the whole document. An
// unspecified scope falls back to treating more than one part as the whole
// document, which cannot tell a fully requested two-item document from a
// two-item excerpt.
func coversDocument(parts []serialize.Result, scope serialize.Scope) bool {
	switch scope {
	case serialize.ScopeDocument:
		return true
	case serialize.ScopePartial:
		return false
	default:
		return len(parts) > 1
	}
}

// OriginProvider provides OriginSerializer instances.
type OriginProvider struct{}

// Serializer implements serialize.Provider.
func (OriginProvider) Serializer(doc *model.Document) serialize.Serializer {
	return NewOriginSerializer(doc)
}
