// Package format provides source format detection.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format represents a supported source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// Markdown indicates a Markdown source.
	Markdown
	// HTML indicates an HTML document.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// MimeType returns the media type recorded in a document's origin.
func (f Format) MimeType() string {
	switch f {
	case Markdown:
		return "text/markdown"
	case HTML:
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown", ".mdown", ".mkd":
		return Markdown
	case ".html", ".htm", ".xhtml":
		return HTML
	default:
		return Unknown
	}
}

// DetectFromMagic checks the leading bytes to determine format.
// Only HTML has a recognizable signature; Markdown has none.
func DetectFromMagic(data []byte) Format {
	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

// Sniff combines extension and content detection. Unrecognized names whose
// content is text (UTF-8, or UTF-16 with a byte order mark) are treated as
// Markdown, since any plain text is valid Markdown.
func Sniff(filename string, data []byte) Format {
	if f := Detect(filename); f != Unknown {
		return f
	}
	if f := DetectFromMagic(data); f != Unknown {
		return f
	}
	if isText(data) {
		return Markdown
	}
	return Unknown
}

// isText reports whether data looks like a text document.
func isText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		return true
	}
	if !utf8.Valid(data) {
		return false
	}
	return !bytes.ContainsRune(data, 0)
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}
	if len(data) > 512 {
		data = data[:512]
	}

	// Check for common HTML signatures (case-insensitive for DOCTYPE)
	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}

	return false
}
