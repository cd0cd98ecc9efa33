package serialize

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/verbatim/model"
)

// ExportDocTokens renders the selected main-text range in the tokenized
// document form: a <document> wrapper with one tag per item named after its
// object type. Tables become <table> with <row_i>/<col_j> cells.
func ExportDocTokens(doc *model.Document, opts Options) string {
	var sb strings.Builder
	sb.WriteString("<document>\n")

	if doc != nil {
		lo, hi := opts.bounds(len(doc.MainText))
		for ix := lo; ix < hi; ix++ {
			item := doc.Resolve(doc.MainText[ix])
			if item == nil {
				continue
			}
			writeTokens(&sb, item, opts.AddPageIndex)
		}
	}

	sb.WriteString("</document>")
	return sb.String()
}

func writeTokens(sb *strings.Builder, item model.Item, addPageIndex bool) {
	tag := string(item.Type())
	sb.WriteString("<" + tag + ">")

	if addPageIndex {
		if p := model.FirstProv(item); p != nil {
			fmt.Fprintf(sb, "<page_%d>", p.Page)
		}
	}

	if table, ok := item.(*model.Table); ok {
		for i, row := range table.Rows {
			fmt.Fprintf(sb, "<row_%d>", i)
			for j, cell := range row {
				cellTag := "col"
				if cell.IsHeader {
					cellTag = "col_header"
				}
				fmt.Fprintf(sb, "<%s_%d>%s</%s_%d>", cellTag, j, html.EscapeString(cell.Text), cellTag, j)
			}
			fmt.Fprintf(sb, "</row_%d>", i)
		}
		if table.Caption != "" {
			sb.WriteString("<caption>" + html.EscapeString(table.Caption) + "</caption>")
		}
	} else {
		sb.WriteString(html.EscapeString(item.GetText()))
	}

	sb.WriteString("</" + tag + ">\n")
}
