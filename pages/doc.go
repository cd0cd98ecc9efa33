// Package pages exports a conversion result page by page for multimodal
// datasets.
//
// Each [Record] pairs one page with the content that falls on it:
//
//   - Text - element texts of the page run, space separated
//   - Markdown - the run rendered as Markdown
//   - DocTokens - the run in the tokenized document form
//   - Cells - the page's raw text cells with OCR annotations
//   - Segments - layout segments with labels and normalized boxes
//   - Page - the page itself
//
// # Page runs
//
// Elements are walked in document order. Consecutive elements on the same
// page form a run; a run is emitted when an element lands on a later page,
// and the last run is emitted when the elements are exhausted:
//
//	err := pages.Walk(res, pages.DefaultOptions(), func(rec pages.Record) error {
//	    fmt.Println(rec.Page.PageNo, len(rec.Segments))
//	    return nil
//	})
//
// Elements without provenance are skipped. A document in which no element
// carries provenance, such as one converted from Markdown, is exported as a
// single page covering all elements.
//
// # Origin text
//
// When the document carries origin text and a run spans the whole document,
// the run's Markdown is the origin text rather than a recomposition. Partial
// runs and the tokenized form are always recomposed.
//
// # Coordinates
//
// Boxes are reprojected from a bottom-left to a top-left origin and then
// normalized by the page size, so every coordinate lies in [0, 1].
package pages
