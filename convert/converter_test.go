package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/verbatim/format"
)

const itinerary = "# 冷门自然景观之旅\n\n**天数**：7天，**主题**：冷门自然景观。\n"

func TestConvertBytes_Markdown(t *testing.T) {
	res, err := NewConverter().ConvertBytes("trip.md", []byte(itinerary))
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, format.Markdown, res.Input.Format)
	assert.Equal(t, int64(len(itinerary)), res.Input.Size)
	assert.Equal(t, res.Document.Origin.BinaryHash, res.Input.Hash)
	assert.Empty(t, res.Pages)

	require.NotNil(t, res.OriginText())
	assert.Equal(t, itinerary, *res.OriginText())
	assert.Same(t, res.Document.OriginText, res.OriginText())
}

func TestConvertBytes_HTML(t *testing.T) {
	res, err := NewConverter().ConvertBytes("page.html", []byte(`<h1>Hi</h1><p>there</p>`))
	require.NoError(t, err)

	assert.Equal(t, format.HTML, res.Input.Format)
	assert.Nil(t, res.OriginText())
	require.Len(t, res.Pages, 1)
	assert.Len(t, res.Pages[0].Cells, 2)
	assert.True(t, res.Document.HasProvenance())
}

func TestConvertBytes_SniffsContent(t *testing.T) {
	res, err := NewConverter().ConvertBytes("upload", []byte("<!DOCTYPE html><p>x</p>"))
	require.NoError(t, err)
	assert.Equal(t, format.HTML, res.Input.Format)

	res, err = NewConverter().ConvertBytes("upload", []byte("plain **text**"))
	require.NoError(t, err)
	assert.Equal(t, format.Markdown, res.Input.Format)
	assert.Equal(t, "plain **text**", *res.OriginText())
}

func TestConvertBytes_Unsupported(t *testing.T) {
	_, err := NewConverter().ConvertBytes("image.png", []byte{0x89, 'P', 'N', 'G', 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "image.png")
}

func TestConvertBytes_EmptyIsPartial(t *testing.T) {
	res, err := NewConverter().ConvertBytes("empty.md", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPartialSuccess, res.Status)
	require.NotNil(t, res.OriginText())
	assert.Equal(t, "", *res.OriginText())
}

func TestConvert_Reader(t *testing.T) {
	res, err := NewConverter().Convert("trip.md", strings.NewReader(itinerary))
	require.NoError(t, err)
	assert.Equal(t, "trip.md", res.Document.Name)
}

func TestConvertFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.markdown")
	require.NoError(t, os.WriteFile(path, []byte(itinerary), 0o644))

	res, err := NewConverter().ConvertFile(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.markdown", res.Input.Name)
	assert.Equal(t, itinerary, *res.OriginText())

	_, err = NewConverter().ConvertFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestResult_OriginTextNil(t *testing.T) {
	var res *Result
	assert.Nil(t, res.OriginText())
	assert.Nil(t, (&Result{}).OriginText())
}
