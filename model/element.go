package model

import (
	"strconv"
	"strings"
)

// ObjType is the element-type label carried by every main-text item.
type ObjType string

const (
	ObjTitle              ObjType = "title"
	ObjTableOfContents    ObjType = "table-of-contents"
	ObjSectionHeader      ObjType = "subtitle-level-1"
	ObjCheckboxSelected   ObjType = "checkbox-selected"
	ObjCheckboxUnselected ObjType = "checkbox-unselected"
	ObjCaption            ObjType = "caption"
	ObjPageHeader         ObjType = "page-header"
	ObjPageFooter         ObjType = "page-footer"
	ObjFootnote           ObjType = "footnote"
	ObjTable              ObjType = "table"
	ObjFormula            ObjType = "formula"
	ObjListItem           ObjType = "list-item"
	ObjCode               ObjType = "code"
	ObjFigure             ObjType = "figure"
	ObjPicture            ObjType = "picture"
	ObjReference          ObjType = "reference"
	ObjParagraph          ObjType = "paragraph"
	ObjText               ObjType = "text"
	ObjQuote              ObjType = "quote"
	ObjGroup              ObjType = "group"
)

// Item is the interface for all main-text entries
type Item interface {
	Type() ObjType
	GetText() string
	Provenance() []Prov
}

// Prov records where an item was found in the source rendering.
type Prov struct {
	Page int    `json:"page"` // 1-indexed
	BBox BBox   `json:"bbox"`
	Span [2]int `json:"span"`
}

// firstProv returns the first provenance entry or nil.
func firstProv(prov []Prov) *Prov {
	if len(prov) == 0 {
		return nil
	}
	return &prov[0]
}

// FirstProv returns the item's first provenance entry, or nil when the item
// carries no page information.
func FirstProv(item Item) *Prov {
	if item == nil {
		return nil
	}
	return firstProv(item.Provenance())
}

// TextItem represents a heading, paragraph, list item, code block or any
// other run of text.
type TextItem struct {
	Obj   ObjType `json:"obj_type"`
	Text  string  `json:"text"`
	Level int     `json:"level,omitempty"` // heading level or list depth
	Prov  []Prov  `json:"prov,omitempty"`
}

func (t *TextItem) Type() ObjType      { return t.Obj }
func (t *TextItem) GetText() string    { return t.Text }
func (t *TextItem) Provenance() []Prov { return t.Prov }

// Picture represents a figure; the caption is its only text.
type Picture struct {
	Caption string `json:"text,omitempty"`
	Source  string `json:"source,omitempty"`
	Prov    []Prov `json:"prov,omitempty"`
}

func (p *Picture) Type() ObjType      { return ObjFigure }
func (p *Picture) GetText() string    { return p.Caption }
func (p *Picture) Provenance() []Prov { return p.Prov }

// Group is a structural node with no content of its own, such as the body.
type Group struct {
	Name string `json:"name"`
}

func (g *Group) Type() ObjType      { return ObjGroup }
func (g *Group) GetText() string    { return "" }
func (g *Group) Provenance() []Prov { return nil }

// Ref is an indirection from main text into one of the document's
// collections, e.g. "#/tables/0".
type Ref struct {
	Path string  `json:"$ref"`
	Kind ObjType `json:"obj_type"`
}

func (r *Ref) Type() ObjType      { return r.Kind }
func (r *Ref) GetText() string    { return "" }
func (r *Ref) Provenance() []Prov { return nil }

// TableRef returns a reference to the n-th table.
func TableRef(n int) *Ref {
	return &Ref{Path: "#/tables/" + strconv.Itoa(n), Kind: ObjTable}
}

// FigureRef returns a reference to the n-th figure.
func FigureRef(n int) *Ref {
	return &Ref{Path: "#/figures/" + strconv.Itoa(n), Kind: ObjFigure}
}

// parse splits the path into collection name and index.
func (r *Ref) parse() (string, int, bool) {
	rest, ok := strings.CutPrefix(r.Path, "#/")
	if !ok {
		return "", 0, false
	}
	name, idx, ok := strings.Cut(rest, "/")
	if !ok {
		return "", 0, false
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return name, n, true
}
