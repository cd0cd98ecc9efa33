package rag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ExportFormat defines the available export formats
type ExportFormat int

const (
	// ExportFormatJSONL exports as JSON Lines (one JSON object per line)
	ExportFormatJSONL ExportFormat = iota
	// ExportFormatJSON exports as a JSON array
	ExportFormatJSON
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseExportFormat parses "jsonl" or "json".
func ParseExportFormat(s string) (ExportFormat, error) {
	switch s {
	case "jsonl", "":
		return ExportFormatJSONL, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return ExportFormatJSONL, fmt.Errorf("unknown export format %q", s)
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatJSONL:
		return ".jsonl"
	case ExportFormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// ExportConfig holds configuration options for export
type ExportConfig struct {
	// Format specifies the export format
	Format ExportFormat

	// IncludeText includes the chunk text content
	IncludeText bool

	// IncludeOriginText keeps the origin text copy in exported metadata
	IncludeOriginText bool

	// PrettyPrint enables indentation
	PrettyPrint bool

	// Context adds the chunk text prefixed with its heading path
	Context ContextFormat
}

// DefaultExportConfig returns sensible defaults for export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:            ExportFormatJSONL,
		IncludeText:       true,
		IncludeOriginText: true,
		PrettyPrint:       false,
	}
}

// Exporter handles exporting chunks
type Exporter struct {
	config ExportConfig
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{
		config: DefaultExportConfig(),
	}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config ExportConfig) *Exporter {
	return &Exporter{
		config: config,
	}
}

// ExportedChunk represents a chunk prepared for export
type ExportedChunk struct {
	ID             string                 `json:"id"`
	Text           string                 `json:"text,omitempty"`
	Contextualized string                 `json:"contextualized,omitempty"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// Export exports chunks to the specified writer
func (e *Exporter) Export(chunks []*Chunk, w io.Writer) error {
	switch e.config.Format {
	case ExportFormatJSONL:
		return e.exportJSONL(chunks, w)
	case ExportFormatJSON:
		return e.exportJSON(chunks, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile exports chunks to a file
func (e *Exporter) ExportToFile(chunks []*Chunk, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	return e.Export(chunks, f)
}

// ExportToString exports chunks to a string
func (e *Exporter) ExportToString(chunks []*Chunk) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(chunks, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// chunkMetadataToMap converts ChunkMetadata to a map, dropping empty fields
func (e *Exporter) chunkMetadataToMap(meta ChunkMetadata) map[string]interface{} {
	m := make(map[string]interface{})

	m["doc_items"] = meta.DocItemRefs
	if meta.Origin != nil {
		m["origin"] = map[string]interface{}{
			"filename":    meta.Origin.Filename,
			"mimetype":    meta.Origin.MimeType,
			"binary_hash": meta.Origin.BinaryHash,
		}
	}
	if len(meta.Headings) > 0 {
		m["headings"] = meta.Headings
	}
	if e.config.IncludeOriginText && meta.OriginText != "" {
		m["origin_text"] = meta.OriginText
	}
	m["chunk_index"] = meta.ChunkIndex
	if meta.TotalChunks > 0 {
		m["total_chunks"] = meta.TotalChunks
	}
	m["char_count"] = meta.CharCount
	m["word_count"] = meta.WordCount
	m["estimated_tokens"] = meta.EstimatedTokens

	return m
}

// prepareChunkForExport converts a Chunk to an ExportedChunk
func (e *Exporter) prepareChunkForExport(chunk *Chunk) ExportedChunk {
	exported := ExportedChunk{
		ID:       chunk.ID,
		Metadata: e.chunkMetadataToMap(chunk.Metadata),
	}
	if e.config.IncludeText {
		exported.Text = chunk.Text
	}
	if e.config.Context != ContextFormatNone {
		exported.Contextualized = chunk.Contextualize(e.config.Context)
	}
	return exported
}

// newEncoder returns a JSON encoder that leaves HTML characters unescaped,
// so exported text matches the chunk text byte for byte.
func (e *Exporter) newEncoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder
}

// exportJSONL exports chunks as JSON Lines (one JSON object per line)
func (e *Exporter) exportJSONL(chunks []*Chunk, w io.Writer) error {
	encoder := e.newEncoder(w)
	for i, chunk := range chunks {
		if err := encoder.Encode(e.prepareChunkForExport(chunk)); err != nil {
			return fmt.Errorf("encoding chunk %d: %w", i, err)
		}
	}
	return nil
}

// exportJSON exports chunks as a JSON array
func (e *Exporter) exportJSON(chunks []*Chunk, w io.Writer) error {
	exported := make([]ExportedChunk, len(chunks))
	for i, chunk := range chunks {
		exported[i] = e.prepareChunkForExport(chunk)
	}
	return e.newEncoder(w).Encode(exported)
}

// StreamExporter writes chunks one at a time as JSON Lines
type StreamExporter struct {
	exporter *Exporter
	encoder  *json.Encoder
}

// NewStreamExporter creates a new stream exporter
func NewStreamExporter(w io.Writer) *StreamExporter {
	return NewStreamExporterWithConfig(w, DefaultExportConfig())
}

// NewStreamExporterWithConfig creates a stream exporter with custom config.
// The format is always JSON Lines.
func NewStreamExporterWithConfig(w io.Writer, config ExportConfig) *StreamExporter {
	exporter := NewExporterWithConfig(config)
	return &StreamExporter{
		exporter: exporter,
		encoder:  exporter.newEncoder(w),
	}
}

// WriteChunk writes a single chunk to the stream
func (se *StreamExporter) WriteChunk(chunk *Chunk) error {
	return se.encoder.Encode(se.exporter.prepareChunkForExport(chunk))
}
