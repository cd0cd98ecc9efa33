package serialize

import (
	"strings"

	"github.com/tsawler/verbatim/model"
)

// Result is the text produced for one serialization request.
type Result struct {
	Text string `json:"text"`
}

// Scope tells a serializer how much of the document a SerializeDoc request
// covers.
type Scope int

const (
	// ScopeUnspecified leaves the decision to the serializer.
	ScopeUnspecified Scope = iota
	// ScopeDocument means the parts make up the whole document.
	ScopeDocument
	// ScopePartial means the parts are an excerpt.
	ScopePartial
)

// String returns a human-readable representation of the scope
func (s Scope) String() string {
	switch s {
	case ScopeDocument:
		return "document"
	case ScopePartial:
		return "partial"
	default:
		return "unspecified"
	}
}

// Serializer turns items, and sequences of already-serialized parts, into
// text.
type Serializer interface {
	// Serialize renders a single item.
	Serialize(item model.Item) Result

	// SerializeDoc combines per-item parts into one result.
	SerializeDoc(parts []Result, scope Scope) Result
}

// Provider creates the serializer for a given document. Chunkers take a
// Provider so the serialization strategy can be swapped per call site.
type Provider interface {
	Serializer(doc *model.Document) Serializer
}

// MarkdownSerializer is the standard recomposing serializer.
type MarkdownSerializer struct {
	doc *model.Document
}

// NewMarkdownSerializer creates a Markdown serializer bound to doc.
func NewMarkdownSerializer(doc *model.Document) *MarkdownSerializer {
	return &MarkdownSerializer{doc: doc}
}

// Document returns the document the serializer is bound to.
func (s *MarkdownSerializer) Document() *model.Document {
	return s.doc
}

// Serialize renders item as Markdown.
func (s *MarkdownSerializer) Serialize(item model.Item) Result {
	return Result{Text: RenderItem(s.doc, item)}
}

// SerializeDoc joins the non-empty parts with a blank line. The scope does
// not change the standard rendering.
func (s *MarkdownSerializer) SerializeDoc(parts []Result, _ Scope) Result {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return Result{Text: strings.Join(texts, "\n\n")}
}

// MarkdownProvider provides MarkdownSerializer instances.
type MarkdownProvider struct{}

// Serializer implements Provider.
func (MarkdownProvider) Serializer(doc *model.Document) Serializer {
	return NewMarkdownSerializer(doc)
}
