package rag

import (
	"fmt"
	"strings"
)

// ContextFormat defines how the heading path is injected into chunk text
type ContextFormat int

const (
	// ContextFormatNone adds no context
	ContextFormatNone ContextFormat = iota
	// ContextFormatBracket adds context in brackets: [Section Title]
	ContextFormatBracket
	// ContextFormatMarkdown adds context as a markdown heading
	ContextFormatMarkdown
	// ContextFormatBreadcrumb adds the path followed by a rule
	ContextFormatBreadcrumb
	// ContextFormatXML adds context in XML-style tags
	ContextFormatXML
)

// String returns a human-readable representation of the context format
func (cf ContextFormat) String() string {
	switch cf {
	case ContextFormatNone:
		return "none"
	case ContextFormatBracket:
		return "bracket"
	case ContextFormatMarkdown:
		return "markdown"
	case ContextFormatBreadcrumb:
		return "breadcrumb"
	case ContextFormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// ParseContextFormat parses a format name. The empty string means none.
func ParseContextFormat(s string) (ContextFormat, error) {
	switch s {
	case "none", "":
		return ContextFormatNone, nil
	case "bracket":
		return ContextFormatBracket, nil
	case "markdown":
		return ContextFormatMarkdown, nil
	case "breadcrumb":
		return ContextFormatBreadcrumb, nil
	case "xml":
		return ContextFormatXML, nil
	default:
		return ContextFormatNone, fmt.Errorf("unknown context format %q", s)
	}
}

// HeadingPath returns the chunk's headings joined with separator, " > " when
// separator is empty.
func (m *ChunkMetadata) HeadingPath(separator string) string {
	if separator == "" {
		separator = " > "
	}
	return strings.Join(m.Headings, separator)
}

// Contextualize returns the chunk text prefixed with its heading path, the
// form usually embedded for retrieval. Chunks without headings, and the none
// format, return the text unchanged.
func (c *Chunk) Contextualize(format ContextFormat) string {
	if format == ContextFormatNone || len(c.Metadata.Headings) == 0 {
		return c.Text
	}

	context := c.Metadata.HeadingPath("")

	switch format {
	case ContextFormatBracket:
		return fmt.Sprintf("[%s]\n\n%s", context, c.Text)
	case ContextFormatMarkdown:
		return fmt.Sprintf("# %s\n\n%s", context, c.Text)
	case ContextFormatBreadcrumb:
		return fmt.Sprintf("%s\n---\n%s", context, c.Text)
	case ContextFormatXML:
		return fmt.Sprintf("<context>%s</context>\n\n%s", context, c.Text)
	default:
		return c.Text
	}
}
