package verbatim

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/verbatim/convert"
	"github.com/tsawler/verbatim/htmldoc"
	"github.com/tsawler/verbatim/rag"
)

const itinerary = "# 冷门自然景观之旅\n\n**天数**：7天，**主题**：冷门自然景观。\n\n## 日程概述\n\n- 第一天：抵达、休整\n- 第二天：徒步\n"

const page = `<html><head><title>Guide</title></head><body>
<nav><a href="/">Home</a></nav>
<h1>Guide</h1>
<p>First <b>bold</b> paragraph.</p>
<table><tr><th>Day</th><th>Plan</th></tr><tr><td>1</td><td>Rest</td></tr></table>
</body></html>`

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpen(t *testing.T) {
	_, err := Open("nonexistent.md").Markdown()
	assert.Error(t, err)

	_, err = (&Extractor{}).Document()
	assert.Error(t, err)
}

func TestMarkdown_PreservesOriginText(t *testing.T) {
	md, err := Open(writeSource(t, "itinerary.md", itinerary)).Markdown()
	require.NoError(t, err)
	assert.Equal(t, itinerary, md)
	assert.Contains(t, md, "**天数**：7天")
}

func TestMarkdown_RecomposedOnly(t *testing.T) {
	ext := FromBytes("itinerary.md", []byte(itinerary))

	md, err := ext.RecomposedOnly().Markdown()
	require.NoError(t, err)
	assert.NotContains(t, md, "**")
	assert.Contains(t, md, "天数：7天")
	assert.Contains(t, md, "## 日程概述")

	// the original extractor is unchanged
	md, err = ext.Markdown()
	require.NoError(t, err)
	assert.Equal(t, itinerary, md)
}

func TestMarkdown_HTMLIsRecomposed(t *testing.T) {
	md, err := FromBytes("guide.html", []byte(page)).Markdown()
	require.NoError(t, err)
	assert.Contains(t, md, "# Guide")
	assert.Contains(t, md, "First bold paragraph.")
	assert.NotContains(t, md, "<b>")
	assert.NotContains(t, md, "Home")

	doc, err := FromBytes("guide.html", []byte(page)).Document()
	require.NoError(t, err)
	assert.False(t, doc.HasOriginText())
}

func TestMarkdown_InvalidUTF8IsRecomposed(t *testing.T) {
	ext := FromBytes("cafe.md", []byte("# Caf\xe9\n\nna\xefve text\n"))

	md, err := ext.Markdown()
	require.NoError(t, err)
	assert.Equal(t, "# Caf\ufffd\n\nna\ufffdve text", md)

	doc, err := ext.Document()
	require.NoError(t, err)
	assert.False(t, doc.HasOriginText())
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })

	// silent by default
	_, err := FromBytes("a.md", []byte("# A\n")).Markdown()
	require.NoError(t, err)

	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	_, err = FromBytes("a.md", []byte("# A\n")).Markdown()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "markdown document built")
}

func TestFromBytes_CopiesInput(t *testing.T) {
	data := []byte("# A\n")
	ext := FromBytes("a.md", data)
	data[2] = 'B'

	md, err := ext.Markdown()
	require.NoError(t, err)
	assert.Equal(t, "# A\n", md)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := FromBytes("blob.bin", []byte{0x00, 0x01, 0xff, 0xfe, 0x00}).Document()
	require.Error(t, err)
	assert.True(t, errors.Is(err, convert.ErrUnsupportedFormat))
}

func TestChunks(t *testing.T) {
	ext := FromBytes("itinerary.md", []byte(itinerary))

	chunks, err := ext.Chunks()
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, itinerary, chunks[0].Text)
	assert.Empty(t, chunks[0].Metadata.OriginText)

	chunks, err = ext.WithOriginInMetadata().Chunks()
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, itinerary, chunks[0].Metadata.OriginText)

	// chunk IDs are stable across runs
	again, err := ext.Chunks()
	require.NoError(t, err)
	assert.Equal(t, chunks[0].ID, again[0].ID)
}

func TestChunks_WithChunker(t *testing.T) {
	ext := FromBytes("itinerary.md", []byte(itinerary)).WithChunker(rag.NewItemChunker())

	chunks, err := ext.Chunks()
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for _, ch := range chunks {
		assert.Empty(t, ch.Metadata.OriginText)
		assert.NotEmpty(t, ch.Metadata.Headings)
	}

	chunks, err = ext.WithOriginInMetadata().Chunks()
	require.NoError(t, err)
	for _, ch := range chunks {
		assert.Equal(t, itinerary, ch.Metadata.OriginText)
	}

	chunks, err = ext.WithOriginInMetadata().RecomposedOnly().Chunks()
	require.NoError(t, err)
	for _, ch := range chunks {
		assert.Empty(t, ch.Metadata.OriginText)
	}
}

func TestPages_Markdown(t *testing.T) {
	recs, err := FromBytes("itinerary.md", []byte(itinerary)).PlaceholderSize(100, 200).Pages()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, itinerary, recs[0].Markdown)
	assert.Equal(t, 1, recs[0].Page.PageNo)
	assert.Equal(t, 100.0, recs[0].Page.Size.Width)
	assert.Equal(t, 200.0, recs[0].Page.Size.Height)
	assert.Empty(t, recs[0].Segments)
}

func TestPages_HTML(t *testing.T) {
	recs, err := FromBytes("guide.html", []byte(page)).Pages()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].Segments, 3)
	assert.Len(t, recs[0].Cells, 3)
	for _, seg := range recs[0].Segments {
		for _, v := range seg.BBox {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	n, err := FromBytes("guide.html", []byte(page)).PageSize(612, 40).PageCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNavigation(t *testing.T) {
	md, err := FromBytes("guide.html", []byte(page)).Navigation(htmldoc.NavigationExclusionNone).Markdown()
	require.NoError(t, err)
	assert.Contains(t, md, "Home")
}

func TestInvalidSizesFailFast(t *testing.T) {
	ext := FromBytes("a.md", []byte("# A\n"))

	_, err := ext.PageSize(0, 10).Markdown()
	assert.Error(t, err)

	_, err = ext.PlaceholderSize(10, -1).Pages()
	assert.Error(t, err)

	// the first error is kept
	_, err = ext.PageSize(0, 1).PlaceholderSize(10, 10).Pages()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page size")
}

func TestDocTokens(t *testing.T) {
	dt, err := FromBytes("itinerary.md", []byte(itinerary)).DocTokens()
	require.NoError(t, err)
	assert.Contains(t, dt, "<document>")
	assert.NotContains(t, dt, "**")
}

func TestMust(t *testing.T) {
	assert.Equal(t, "# A\n", Must(FromBytes("a.md", []byte("# A\n")).Markdown()))
	assert.Panics(t, func() {
		Must(Open("nonexistent.md").Markdown())
	})
}
