package model

// Page is one rendered page of a converted source, as produced by the
// backend alongside the document.
type Page struct {
	PageNo int        `json:"page_no"` // 1-indexed
	Size   *Size      `json:"size,omitempty"`
	Cells  []TextCell `json:"cells,omitempty"`
}

// NewPage creates a page with the given dimensions
func NewPage(pageNo int, width, height float64) *Page {
	return &Page{
		PageNo: pageNo,
		Size:   &Size{Width: width, Height: height},
		Cells:  make([]TextCell, 0),
	}
}

// AddCell adds a raw text cell to the page
func (p *Page) AddCell(cell TextCell) {
	p.Cells = append(p.Cells, cell)
}

// TextCell is a raw positioned run of text on a page, either extracted from
// the source or recognized by OCR.
type TextCell struct {
	Text       string  `json:"text"`
	Rect       BBox    `json:"rect"`
	FromOCR    bool    `json:"from_ocr"`
	Confidence float64 `json:"confidence"`
}
