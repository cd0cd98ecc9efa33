package model

import (
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ErrOriginTextSet is returned when a backend tries to record origin text on a
// document that already carries it.
var ErrOriginTextSet = errors.New("model: origin text already set")

// Document is the structured representation of a converted source file.
// MainText is the flat, ordered element sequence; tables and figures live in
// their own collections and are referenced from MainText through *Ref.
type Document struct {
	Name     string     `json:"name"`
	Origin   *Origin    `json:"origin,omitempty"`
	Metadata Metadata   `json:"metadata"`
	MainText []Item     `json:"-"`
	Tables   []*Table   `json:"tables,omitempty"`
	Figures  []*Picture `json:"figures,omitempty"`
	Body     *Group     `json:"body"`

	// OriginText is the untouched source text. nil means the backend did not
	// record it, which callers treat as "not supported" rather than an error.
	OriginText *string `json:"origin_text,omitempty"`
}

// Metadata contains document-level information
type Metadata struct {
	Title        string            `json:"title,omitempty"`
	Author       string            `json:"author,omitempty"`
	Subject      string            `json:"subject,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	CreationDate time.Time         `json:"creation_date,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// Origin identifies the source a document was converted from.
type Origin struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimetype"`
	BinaryHash uint64 `json:"binary_hash"`
	URI        string `json:"uri,omitempty"`
}

// NewOrigin builds an Origin, hashing the raw source bytes.
func NewOrigin(filename, mimeType string, data []byte) *Origin {
	return &Origin{
		Filename:   filename,
		MimeType:   mimeType,
		BinaryHash: xxhash.Sum64(data),
	}
}

// Entry is one step of IterateItems: the main-text entry as stored, which
// may still be a *Ref, and its nesting level.
type Entry struct {
	Item  Item
	Level int
}

// NewDocument creates a new empty document
func NewDocument(name string) *Document {
	return &Document{
		Name: name,
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
		MainText: make([]Item, 0),
		Body:     &Group{Name: "_root_"},
	}
}

// Add appends an item to the main text and returns its index.
func (d *Document) Add(item Item) int {
	d.MainText = append(d.MainText, item)
	return len(d.MainText) - 1
}

// AddTable stores the table and appends a reference to it to the main text.
func (d *Document) AddTable(t *Table) int {
	d.Tables = append(d.Tables, t)
	return d.Add(TableRef(len(d.Tables) - 1))
}

// AddFigure stores the picture and appends a reference to it to the main text.
func (d *Document) AddFigure(p *Picture) int {
	d.Figures = append(d.Figures, p)
	return d.Add(FigureRef(len(d.Figures) - 1))
}

// SetOriginText records the source text. It may be called once.
func (d *Document) SetOriginText(text string) error {
	if d.OriginText != nil {
		return ErrOriginTextSet
	}
	d.OriginText = &text
	return nil
}

// HasOriginText reports whether the origin text holder is populated.
func (d *Document) HasOriginText() bool {
	return d != nil && d.OriginText != nil
}

// LastIndex returns the index of the last main-text entry, or -1 when empty.
func (d *Document) LastIndex() int {
	return len(d.MainText) - 1
}

// IterateItems returns the main-text entries in document order.
func (d *Document) IterateItems() []Entry {
	entries := make([]Entry, 0, len(d.MainText))
	for _, item := range d.MainText {
		level := 0
		if ti, ok := item.(*TextItem); ok && ti.Obj == ObjListItem {
			level = ti.Level
		}
		entries = append(entries, Entry{Item: item, Level: level})
	}
	return entries
}

// Resolve unwraps a *Ref to the item it points at. Other items are returned
// unchanged; a dangling reference resolves to nil.
func (d *Document) Resolve(item Item) Item {
	ref, ok := item.(*Ref)
	if !ok {
		return item
	}
	name, n, ok := ref.parse()
	if !ok {
		return nil
	}
	switch name {
	case "tables":
		if n < len(d.Tables) {
			return d.Tables[n]
		}
	case "figures":
		if n < len(d.Figures) {
			return d.Figures[n]
		}
	}
	return nil
}

// ResolvedItem returns the concrete item at main-text index ix.
func (d *Document) ResolvedItem(ix int) Item {
	if ix < 0 || ix >= len(d.MainText) {
		return nil
	}
	return d.Resolve(d.MainText[ix])
}

// HasProvenance reports whether any resolved main-text item carries page
// information.
func (d *Document) HasProvenance() bool {
	for ix := range d.MainText {
		if FirstProv(d.ResolvedItem(ix)) != nil {
			return true
		}
	}
	return false
}

// ExtractTables returns all tables
func (d *Document) ExtractTables() []*Table {
	return d.Tables
}

// TableOfContents returns the title and section headings of the main text in
// document order. Levels below 1 are reported as 1.
func (d *Document) TableOfContents() []TOCEntry {
	var toc []TOCEntry
	for ix := range d.MainText {
		ti, ok := d.ResolvedItem(ix).(*TextItem)
		if !ok || (ti.Obj != ObjTitle && ti.Obj != ObjSectionHeader) {
			continue
		}
		entry := TOCEntry{Index: ix, Level: max(ti.Level, 1), Text: ti.Text}
		if p := firstProv(ti.Prov); p != nil {
			entry.Page = p.Page
		}
		toc = append(toc, entry)
	}
	return toc
}

// TOCEntry represents an entry in the table of contents
type TOCEntry struct {
	Index int    // Position in MainText
	Level int    // Heading level (1-6)
	Text  string // Heading text
	Page  int    // Page number (1-indexed), 0 when unknown
}
