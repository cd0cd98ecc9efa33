package pages

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/verbatim/convert"
	"github.com/tsawler/verbatim/model"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_WriteResult(t *testing.T) {
	res := paginatedDoc(t, false)
	res.Input = convert.InputDocument{Name: "paged.html", Hash: 99}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteResult(res, DefaultOptions()))
	assert.Equal(t, 2, w.Count())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var row Row
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &row))
	assert.Equal(t, "paged.html", row.Document)
	assert.Equal(t, 2, row.PageNo)
	assert.Equal(t, 100.0, row.Width)
	assert.Equal(t, 200.0, row.Height)
	assert.Equal(t, "Plan ", row.Text)
	require.Len(t, row.Segments, 1)
	assert.Contains(t, row.Segments[0].Data[0].HTMLSeq, "<table>")
	assert.Len(t, row.Hash, 16)

	// table HTML is written unescaped
	assert.Contains(t, lines[1], `"html_seq":"<table>`)
}

func TestNewRow_HashIsStable(t *testing.T) {
	input := convert.InputDocument{Name: "a", Hash: 1}
	rec := Record{DocTokens: "<document>\n</document>", Page: model.NewPage(1, 10, 10)}

	first := NewRow(input, rec)
	second := NewRow(input, rec)
	assert.Equal(t, first.Hash, second.Hash)

	other := NewRow(input, Record{DocTokens: rec.DocTokens, Page: model.NewPage(2, 10, 10)})
	assert.NotEqual(t, first.Hash, other.Hash)

	otherDoc := NewRow(convert.InputDocument{Name: "a", Hash: 2}, rec)
	assert.NotEqual(t, first.Hash, otherDoc.Hash)
}

func TestNewRow_PlaceholderPage(t *testing.T) {
	doc := model.NewDocument("md")
	doc.Add(&model.TextItem{Obj: model.ObjParagraph, Text: "x"})

	rec := Generate(&convert.Result{Document: doc}, DefaultOptions())[0]
	row := NewRow(convert.InputDocument{Name: "md"}, rec)
	assert.Equal(t, 1, row.PageNo)
	assert.Equal(t, 210.0, row.Width)
	assert.Equal(t, 297.0, row.Height)

	row = NewRow(convert.InputDocument{}, Record{})
	assert.Equal(t, 0, row.PageNo)
}

func TestWriter_Errors(t *testing.T) {
	w := NewWriter(failingWriter{})
	err := w.WriteResult(paginatedDoc(t, false), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, w.Count())

	assert.NoError(t, NewWriter(&bytes.Buffer{}).WriteResult(nil, DefaultOptions()))
}
