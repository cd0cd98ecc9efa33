package pages

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/tsawler/verbatim/convert"
)

// Row is one line of the multimodal JSONL export.
type Row struct {
	Document  string       `json:"document"`
	Hash      string       `json:"hash"`
	PageNo    int          `json:"page_no"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Text      string       `json:"contents"`
	Markdown  string       `json:"contents_md"`
	DocTokens string       `json:"contents_dt"`
	Cells     []CellRecord `json:"cells"`
	Segments  []Segment    `json:"segments"`
}

// NewRow flattens a record for the given input.
func NewRow(input convert.InputDocument, rec Record) Row {
	row := Row{
		Document:  input.Name,
		Text:      rec.Text,
		Markdown:  rec.Markdown,
		DocTokens: rec.DocTokens,
		Cells:     rec.Cells,
		Segments:  rec.Segments,
	}
	if rec.Page != nil {
		row.PageNo = rec.Page.PageNo
		if rec.Page.Size != nil {
			row.Width = rec.Page.Size.Width
			row.Height = rec.Page.Size.Height
		}
	}
	row.Hash = pageHash(input.Hash, row.PageNo, rec.DocTokens)
	return row
}

// pageHash identifies a page by its document, number and content.
func pageHash(docHash uint64, pageNo int, content string) string {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatUint(docHash, 16))
	_, _ = d.WriteString(":" + strconv.Itoa(pageNo) + ":")
	_, _ = d.WriteString(content)
	return fmt.Sprintf("%016x", d.Sum64())
}

// Writer writes page records as JSON Lines.
type Writer struct {
	encoder *json.Encoder
	count   int
}

// NewWriter creates a JSONL page writer.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{encoder: enc}
}

// WriteRecord writes a single page record.
func (pw *Writer) WriteRecord(input convert.InputDocument, rec Record) error {
	if err := pw.encoder.Encode(NewRow(input, rec)); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	pw.count++
	return nil
}

// WriteResult exports every page of a conversion result.
func (pw *Writer) WriteResult(res *convert.Result, opts Options) error {
	if res == nil {
		return nil
	}
	return Walk(res, opts, func(rec Record) error {
		return pw.WriteRecord(res.Input, rec)
	})
}

// Count returns the number of records written.
func (pw *Writer) Count() int {
	return pw.count
}
