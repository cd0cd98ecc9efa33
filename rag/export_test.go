package rag

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/verbatim/model"
)

func createTestChunks() []*Chunk {
	origin := &model.Origin{Filename: "trip.md", MimeType: "text/markdown", BinaryHash: 42}
	return []*Chunk{
		NewChunk("chunk-1", "First <chunk> & text.", ChunkMetadata{
			DocItemRefs: []string{"#/main-text/0"},
			Origin:      origin,
			Headings:    []string{"Trip"},
			OriginText:  "# Trip\n\nFirst <chunk> & text.\n",
			ChunkIndex:  0,
			TotalChunks: 2,
		}),
		NewChunk("chunk-2", "**天数**：7天", ChunkMetadata{
			DocItemRefs: []string{"#/main-text/1"},
			ChunkIndex:  1,
			TotalChunks: 2,
		}),
	}
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		format ExportFormat
		name   string
		ext    string
	}{
		{ExportFormatJSONL, "jsonl", ".jsonl"},
		{ExportFormatJSON, "json", ".json"},
		{ExportFormat(99), "unknown", ".txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.format.String())
			assert.Equal(t, tt.ext, tt.format.FileExtension())
		})
	}
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("json")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatJSON, f)

	f, err = ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatJSONL, f)

	_, err = ParseExportFormat("csv")
	assert.Error(t, err)
}

func TestExporter_JSONL(t *testing.T) {
	out, err := NewExporter().ExportToString(createTestChunks())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	// HTML characters and CJK text survive unescaped
	assert.Contains(t, lines[0], `"text":"First <chunk> & text."`)
	assert.Contains(t, lines[1], `"text":"**天数**：7天"`)

	var first ExportedChunk
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "chunk-1", first.ID)
	assert.Equal(t, "# Trip\n\nFirst <chunk> & text.\n", first.Metadata["origin_text"])
	assert.Equal(t, []interface{}{"Trip"}, first.Metadata["headings"])
	origin, ok := first.Metadata["origin"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "trip.md", origin["filename"])

	var second ExportedChunk
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.NotContains(t, second.Metadata, "origin_text")
	assert.NotContains(t, second.Metadata, "origin")
	assert.Equal(t, []interface{}{"#/main-text/1"}, second.Metadata["doc_items"])
}

func TestExporter_JSON(t *testing.T) {
	config := DefaultExportConfig()
	config.Format = ExportFormatJSON
	config.PrettyPrint = true
	config.IncludeOriginText = false

	var buf bytes.Buffer
	require.NoError(t, NewExporterWithConfig(config).Export(createTestChunks(), &buf))

	var exported []ExportedChunk
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	require.Len(t, exported, 2)
	assert.NotContains(t, exported[0].Metadata, "origin_text")
	assert.Contains(t, buf.String(), "\n  ")
}

func TestExporter_WithoutText(t *testing.T) {
	config := DefaultExportConfig()
	config.IncludeText = false

	out, err := NewExporterWithConfig(config).ExportToString(createTestChunks())
	require.NoError(t, err)
	assert.NotContains(t, out, `"text"`)
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	config := DefaultExportConfig()
	config.Format = ExportFormat(7)
	err := NewExporterWithConfig(config).Export(createTestChunks(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExporter_ExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	require.NoError(t, NewExporter().ExportToFile(createTestChunks(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	err = NewExporter().ExportToFile(createTestChunks(), filepath.Join(t.TempDir(), "missing", "x.jsonl"))
	assert.Error(t, err)
}

func TestStreamExporter(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamExporter(&buf)
	for _, ch := range createTestChunks() {
		require.NoError(t, se.WriteChunk(ch))
	}

	batch, err := NewExporter().ExportToString(createTestChunks())
	require.NoError(t, err)
	assert.Equal(t, batch, buf.String())
}

func TestExporter_Context(t *testing.T) {
	config := DefaultExportConfig()
	config.Context = ContextFormatBracket

	out, err := NewExporterWithConfig(config).ExportToString(createTestChunks())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second ExportedChunk
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "[Trip]\n\nFirst <chunk> & text.", first.Contextualized)
	assert.Equal(t, "**天数**：7天", second.Contextualized)

	out, err = NewExporter().ExportToString(createTestChunks())
	require.NoError(t, err)
	assert.NotContains(t, out, "contextualized")
}
