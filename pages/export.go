package pages

import (
	"strings"

	"github.com/tsawler/verbatim/convert"
	"github.com/tsawler/verbatim/internal/logging"
	"github.com/tsawler/verbatim/model"
	"github.com/tsawler/verbatim/serialize"
)

// labels maps element types to layout segment labels. Types not listed
// produce no segment.
var labels = map[model.ObjType]string{
	model.ObjTitle:              "title",
	model.ObjTableOfContents:    "document_index",
	model.ObjSectionHeader:      "section_header",
	model.ObjCheckboxSelected:   "checkbox_selected",
	model.ObjCheckboxUnselected: "checkbox_unselected",
	model.ObjCaption:            "caption",
	model.ObjPageHeader:         "page_header",
	model.ObjPageFooter:         "page_footer",
	model.ObjFootnote:           "footnote",
	model.ObjTable:              "table",
	model.ObjFormula:            "formula",
	model.ObjListItem:           "list_item",
	model.ObjCode:               "code",
	model.ObjFigure:             "picture",
	model.ObjPicture:            "picture",
	model.ObjReference:          "text",
	model.ObjParagraph:          "text",
	model.ObjText:               "text",
}

// Label returns the segment label for an element type.
func Label(t model.ObjType) (string, bool) {
	l, ok := labels[t]
	return l, ok
}

// Segment is an element placed on its page.
type Segment struct {
	IndexInDoc int           `json:"index_in_doc"`
	Label      string        `json:"label"`
	Text       string        `json:"text"`
	BBox       [4]float64    `json:"bbox"`
	Data       []SegmentData `json:"data"`
}

// SegmentData carries table renderings.
type SegmentData struct {
	HTMLSeq string `json:"html_seq"`
	OTSLSeq string `json:"otsl_seq"`
}

// CellRecord is a raw text cell of a page.
type CellRecord struct {
	Text          string     `json:"text"`
	BBox          [4]float64 `json:"bbox"`
	OCR           bool       `json:"ocr"`
	OCRConfidence float64    `json:"ocr_confidence"`
}

// Record is the export of one page.
type Record struct {
	Text      string
	Markdown  string
	DocTokens string
	Cells     []CellRecord
	Segments  []Segment
	Page      *model.Page
}

// Options configures the export.
type Options struct {
	// PlaceholderSize is the size given to the synthetic page emitted for a
	// document that has neither provenance nor pages.
	PlaceholderSize model.Size
}

// DefaultOptions returns an A4 placeholder size in millimetres.
func DefaultOptions() Options {
	return Options{PlaceholderSize: model.Size{Width: 210, Height: 297}}
}

// Generate collects the records of every page.
func Generate(res *convert.Result, opts Options) []Record {
	var records []Record
	_ = Walk(res, opts, func(rec Record) error {
		records = append(records, rec)
		return nil
	})
	return records
}

// Walk calls fn for each page record in order. It stops at and returns the
// first error fn returns.
func Walk(res *convert.Result, opts Options, fn func(Record) error) error {
	if res == nil || res.Document == nil {
		return nil
	}
	w := &walker{res: res, doc: res.Document, opts: opts, fn: fn}
	if !w.doc.HasProvenance() {
		return w.single()
	}
	return w.paginated()
}

// indexed is a resolved element and its main-text index.
type indexed struct {
	ix   int
	item model.Item
}

// run is the explicit state of the page walk: the current page and the
// main-text range and elements assigned to it so far.
type run struct {
	pageNo int
	start  int
	end    int
	items  []indexed
	text   strings.Builder
}

func (r *run) add(ix int, item model.Item) {
	r.end = ix
	r.items = append(r.items, indexed{ix: ix, item: item})
	if t := item.GetText(); t != "" {
		r.text.WriteString(t)
		r.text.WriteByte(' ')
	}
}

func (r *run) reset(start int) {
	r.start = start
	r.items = nil
	r.text.Reset()
}

type walker struct {
	res  *convert.Result
	doc  *model.Document
	opts Options
	fn   func(Record) error
}

// paginated groups elements into page runs by their first provenance.
func (w *walker) paginated() error {
	st := &run{}
	for ix, entry := range w.doc.MainText {
		item := w.doc.Resolve(entry)
		prov := model.FirstProv(item)
		if prov == nil {
			logging.L().Debug().Int("index", ix).Str("type", string(entry.Type())).Msg("skipping element without provenance")
			continue
		}

		if st.pageNo > 0 && prov.Page > st.pageNo {
			if err := w.fn(w.record(st, w.page(st.pageNo))); err != nil {
				return err
			}
			st.reset(ix)
		}

		st.pageNo = prov.Page
		st.add(ix, item)
	}

	if len(st.items) > 0 {
		return w.fn(w.record(st, w.page(st.pageNo)))
	}
	return nil
}

// single emits the whole document as one page.
func (w *walker) single() error {
	st := &run{pageNo: 1, start: 0}
	for ix, entry := range w.doc.MainText {
		if item := w.doc.Resolve(entry); item != nil {
			st.add(ix, item)
		}
	}
	st.end = w.doc.LastIndex()

	if len(w.res.Pages) > 0 && w.res.Pages[0] != nil {
		// Text is only accumulated for elements placed on a page, and none are.
		rec := w.record(st, w.res.Pages[0])
		rec.Text = ""
		return w.fn(rec)
	}

	return w.fn(Record{
		Text:      st.text.String(),
		Markdown:  w.markdown(st),
		DocTokens: w.docTokens(st),
		Cells:     []CellRecord{},
		Segments:  []Segment{},
		Page: &model.Page{
			PageNo: 1,
			Size:   &model.Size{Width: w.opts.PlaceholderSize.Width, Height: w.opts.PlaceholderSize.Height},
			Cells:  []model.TextCell{},
		},
	})
}

// record renders a run against its page.
func (w *walker) record(st *run, page *model.Page) Record {
	return Record{
		Text:      st.text.String(),
		Markdown:  w.markdown(st),
		DocTokens: w.docTokens(st),
		Cells:     cells(page),
		Segments:  segments(st.items, page),
		Page:      page,
	}
}

// page looks up the page record with the given number. A missing page is
// replaced by one without size, which suppresses geometry.
func (w *walker) page(pageNo int) *model.Page {
	for _, p := range w.res.Pages {
		if p != nil && p.PageNo == pageNo {
			return p
		}
	}
	logging.L().Debug().Int("page", pageNo).Msg("no page record, exporting without geometry")
	return &model.Page{PageNo: pageNo}
}

// markdown substitutes the origin text only for a run covering the whole
// document.
func (w *walker) markdown(st *run) string {
	if w.doc.HasOriginText() && st.start == 0 && st.end == w.doc.LastIndex() {
		return *w.doc.OriginText
	}
	return serialize.ExportMarkdown(w.doc, serialize.Range(st.start, st.end))
}

func (w *walker) docTokens(st *run) string {
	opts := serialize.Range(st.start, st.end)
	opts.AddPageIndex = false
	return serialize.ExportDocTokens(w.doc, opts)
}

// segments builds layout segments for the run's elements.
func segments(items []indexed, page *model.Page) []Segment {
	out := []Segment{}
	for _, it := range items {
		label, ok := labels[it.item.Type()]
		prov := model.FirstProv(it.item)
		if !ok || prov == nil || page.Size == nil {
			logging.L().Debug().Int("index", it.ix).Str("type", string(it.item.Type())).Msg("skipping segment")
			continue
		}

		bbox := model.BBoxFromTuple(prov.BBox.AsTuple(), model.BottomLeft).
			ToTopLeftOrigin(page.Size.Height).
			Normalized(*page.Size)

		seg := Segment{
			IndexInDoc: it.ix,
			Label:      label,
			Text:       it.item.GetText(),
			BBox:       bbox.AsTuple(),
			Data:       []SegmentData{},
		}
		if table, ok := it.item.(*model.Table); ok {
			seg.Data = append(seg.Data, SegmentData{HTMLSeq: table.ExportHTML()})
		}
		out = append(out, seg)
	}
	return out
}

// cells reprojects every raw cell of the page.
func cells(page *model.Page) []CellRecord {
	out := []CellRecord{}
	if page.Size == nil {
		return out
	}
	for _, c := range page.Cells {
		bbox := c.Rect.ToTopLeftOrigin(page.Size.Height).Normalized(*page.Size)
		out = append(out, CellRecord{
			Text:          c.Text,
			BBox:          bbox.AsTuple(),
			OCR:           c.FromOCR,
			OCRConfidence: c.Confidence,
		})
	}
	return out
}
