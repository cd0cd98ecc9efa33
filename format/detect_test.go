package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{Markdown, "Markdown"},
		{HTML, "HTML"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.String())
	}
}

func TestFormat_ExtensionAndMimeType(t *testing.T) {
	assert.Equal(t, ".md", Markdown.Extension())
	assert.Equal(t, ".html", HTML.Extension())
	assert.Equal(t, "", Unknown.Extension())

	assert.Equal(t, "text/markdown", Markdown.MimeType())
	assert.Equal(t, "text/html", HTML.MimeType())
	assert.Equal(t, "application/octet-stream", Unknown.MimeType())
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"notes.md", Markdown},
		{"README.MD", Markdown},
		{"guide.markdown", Markdown},
		{"/path/to/page.html", HTML},
		{"page.htm", HTML},
		{"doc.xhtml", HTML},
		{"report.pdf", Unknown},
		{"noext", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.filename))
		})
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"doctype", []byte("<!DOCTYPE html><html></html>"), HTML},
		{"lowercase html", []byte("  \n<html><body></body></html>"), HTML},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("<html>")...), HTML},
		{"xhtml", []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`), HTML},
		{"xml only", []byte(`<?xml version="1.0"?><feed>`), Unknown},
		{"markdown", []byte("# Title\n"), Unknown},
		{"empty", nil, Unknown},
		{"whitespace", []byte("   \n"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFromMagic(tt.data))
		})
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Format
	}{
		{"extension wins", "a.md", []byte("<html>"), Markdown},
		{"html by content", "upload", []byte("<!doctype html>"), HTML},
		{"utf-8 text", "upload", []byte("**天数**：7天"), Markdown},
		{"utf-16 bom", "upload", []byte{0xFF, 0xFE, '#', 0}, Markdown},
		{"binary", "upload", []byte{0x89, 'P', 'N', 'G', 0, 0}, Unknown},
		{"invalid utf-8", "upload", []byte{0xC3, 0x28}, Unknown},
		{"empty", "upload", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.filename, tt.data))
		})
	}
}
