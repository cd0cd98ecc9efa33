// Package serialize recomposes text from the document model: Markdown, the
// tokenized document-token form, and per-item rendering. It also defines the
// serializer framework chunkers use to turn items into text.
package serialize

import (
	"strings"

	"github.com/tsawler/verbatim/model"
)

// Options restricts an export to a main-text index range.
type Options struct {
	// Start is the first main-text index to export.
	Start int

	// Stop is the last main-text index to export, inclusive. A negative
	// value exports to the end of the document.
	Stop int

	// AddPageIndex prefixes items with their page tag (document tokens only).
	AddPageIndex bool
}

// All returns options covering the whole document.
func All() Options {
	return Options{Start: 0, Stop: -1}
}

// Range returns options covering main-text indices [start, stop].
func Range(start, stop int) Options {
	return Options{Start: start, Stop: stop}
}

// bounds clamps the options against a main text of length n and returns a
// half-open [lo, hi) interval.
func (o Options) bounds(n int) (int, int) {
	lo := o.Start
	if lo < 0 {
		lo = 0
	}
	hi := n
	if o.Stop >= 0 && o.Stop+1 < n {
		hi = o.Stop + 1
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// ExportMarkdown renders the selected main-text range as Markdown, one block
// per item separated by a blank line.
func ExportMarkdown(doc *model.Document, opts Options) string {
	if doc == nil {
		return ""
	}

	lo, hi := opts.bounds(len(doc.MainText))
	blocks := make([]string, 0, hi-lo)
	for ix := lo; ix < hi; ix++ {
		if md := RenderItem(doc, doc.MainText[ix]); md != "" {
			blocks = append(blocks, md)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// RenderItem renders a single item as Markdown. References are resolved
// against doc first. Page furniture renders as the empty string.
func RenderItem(doc *model.Document, item model.Item) string {
	if doc != nil {
		item = doc.Resolve(item)
	}
	if item == nil {
		return ""
	}

	switch it := item.(type) {
	case *model.Table:
		md := it.ToMarkdown()
		if it.Caption != "" {
			md = it.Caption + "\n\n" + md
		}
		return md

	case *model.Picture:
		if it.Caption != "" {
			return "<!-- image -->\n" + it.Caption
		}
		return "<!-- image -->"

	case *model.TextItem:
		return renderText(it)
	}

	return item.GetText()
}

func renderText(it *model.TextItem) string {
	switch it.Obj {
	case model.ObjPageHeader, model.ObjPageFooter:
		return ""

	case model.ObjTitle:
		return "# " + it.Text

	case model.ObjSectionHeader:
		level := it.Level
		if level < 2 {
			level = 2
		}
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + it.Text

	case model.ObjListItem, model.ObjCheckboxSelected, model.ObjCheckboxUnselected:
		var sb strings.Builder
		if it.Level > 1 {
			sb.WriteString(strings.Repeat("  ", it.Level-1))
		}
		sb.WriteString("- ")
		switch it.Obj {
		case model.ObjCheckboxSelected:
			sb.WriteString("[x] ")
		case model.ObjCheckboxUnselected:
			sb.WriteString("[ ] ")
		}
		sb.WriteString(it.Text)
		return sb.String()

	case model.ObjCode:
		return "```\n" + it.Text + "\n```"

	case model.ObjFormula:
		return "$$" + it.Text + "$$"

	case model.ObjQuote:
		lines := strings.Split(it.Text, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	}

	return it.Text
}
