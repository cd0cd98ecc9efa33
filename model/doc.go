// Package model provides the intermediate representation (IR) for converted
// document content.
//
// This package defines the data structures every backend produces and every
// exporter and chunker consumes.
//
// # Document Structure
//
// The [Document] type holds a flat, ordered main-text sequence of [Item]
// values. Tables and figures are stored in their own collections and appear in
// the main text as [Ref] entries, which [Document.Resolve] unwraps:
//
//	doc := model.NewDocument("notes.md")
//	doc.Add(&model.TextItem{Obj: model.ObjTitle, Text: "Notes"})
//	doc.AddTable(table)
//	for _, e := range doc.IterateItems() {
//	    item := doc.Resolve(e.Item)
//	    ...
//	}
//
// # Origin Text
//
// Backends that can keep the untouched source (Markdown) record it once with
// [Document.SetOriginText]. A nil [Document.OriginText] simply means the
// document does not carry it.
//
// # Provenance and Geometry
//
// Items from paginated sources carry [Prov] entries with a page number and a
// [BBox]. Boxes know their [CoordOrigin] and can be reprojected
// ([BBox.ToTopLeftOrigin]) and normalized against a page [Size].
//
// # Pages
//
// [Page] values come from the backend next to the document and hold the raw
// [TextCell] runs of each page.
package model
