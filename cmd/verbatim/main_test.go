package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notes = "# Notes\n\n**Bold** first.\n\nSecond.\n"

const guide = `<html><body><h1>Guide</h1><p>Hello <i>there</i>.</p></body></html>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMarkdownCommand(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", notes)

	out, err := run(t, "markdown", md)
	require.NoError(t, err)
	assert.Equal(t, notes, out)

	out, err = run(t, "markdown", md, "--recomposed")
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n\nBold first.\n\nSecond.", out)

	out, err = run(t, "markdown", writeFile(t, dir, "guide.html", guide))
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n\nHello there.", out)

	_, err = run(t, "markdown")
	assert.Error(t, err)

	_, err = run(t, "markdown", filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}

func TestChunkCommand(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", notes)
	html := writeFile(t, dir, "guide.html", guide)

	out, err := run(t, "chunk", md, html)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, notes, first["text"])
	meta := first["metadata"].(map[string]interface{})
	assert.Equal(t, notes, meta["origin_text"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "# Guide\n\nHello there.", second["text"])
}

func TestChunkCommand_ItemChunkerJSONFile(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", notes)
	dest := filepath.Join(dir, "chunks.json")

	out, err := run(t, "chunk", md, "--chunker", "origin", "--format", "json", "--output", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	var chunks []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &chunks))
	require.Len(t, chunks, 2)
	assert.Equal(t, "Bold first.", chunks[0]["text"])
	assert.Equal(t, "Second.", chunks[1]["text"])
	for _, ch := range chunks {
		meta := ch["metadata"].(map[string]interface{})
		assert.Equal(t, notes, meta["origin_text"])
		assert.Equal(t, []interface{}{"Notes"}, meta["headings"])
	}
}

func TestChunkCommand_Config(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", notes)
	cfg := writeFile(t, dir, "verbatim.yaml", "chunker: item\nexport:\n  includeOriginText: false\n")

	out, err := run(t, "--config", cfg, "chunk", md)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, out, "origin_text")

	// flags override the file
	out, err = run(t, "--config", cfg, "chunk", md, "--chunker", "single")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	_, err = run(t, "chunk", md, "--chunker", "sliding")
	assert.Error(t, err)

	_, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "chunk", md)
	assert.Error(t, err)
}

func TestPagesCommand(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", notes)
	html := writeFile(t, dir, "guide.html", guide)

	out, err := run(t, "pages", md, html)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var mdRow map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &mdRow))
	assert.Equal(t, "notes.md", mdRow["document"])
	assert.Equal(t, notes, mdRow["contents_md"])
	assert.Equal(t, 210.0, mdRow["width"])

	var htmlRow map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &htmlRow))
	assert.Equal(t, "guide.html", htmlRow["document"])
	assert.Equal(t, 612.0, htmlRow["width"])
	assert.Len(t, htmlRow["segments"], 2)
}

func TestPagesCommand_RecomposedConfig(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", notes)
	cfg := writeFile(t, dir, "verbatim.yaml", "recomposedOnly: true\npages:\n  placeholder:\n    width: 100\n    height: 100\n")
	dest := filepath.Join(dir, "pages.jsonl")

	_, err := run(t, "--config", cfg, "pages", md, "-o", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	var row map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &row))
	assert.Equal(t, "# Notes\n\nBold first.\n\nSecond.", row["contents_md"])
	assert.Equal(t, 100.0, row["width"])
}

func TestChunkCommand_Context(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", notes)

	out, err := run(t, "chunk", md, "--chunker", "item", "--context", "bracket")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "[Notes]\n\nBold first.", first["contextualized"])

	_, err = run(t, "chunk", md, "--context", "yaml")
	assert.Error(t, err)
}
