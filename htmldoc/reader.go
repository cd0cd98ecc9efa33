package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tsawler/verbatim/internal/logging"
	"github.com/tsawler/verbatim/model"
)

// MimeType is the media type recorded in document origins.
const MimeType = "text/html"

// Reader provides access to HTML document content.
type Reader struct {
	name     string
	raw      []byte
	opts     Options
	title    string
	metadata map[string]string
	elements []parsedElement
	excluder *exclusionChecker
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return OpenBytes(filepath.Base(filename), data, DefaultOptions())
}

// OpenReader parses HTML from an io.Reader.
func OpenReader(name string, r io.Reader, opts Options) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading HTML: %w", err)
	}
	return OpenBytes(name, data, opts)
}

// OpenBytes parses HTML held in memory.
func OpenBytes(name string, data []byte, opts Options) (*Reader, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if opts.PageSize.Width <= 0 || opts.PageSize.Height <= 0 {
		opts.PageSize = DefaultOptions().PageSize
	}

	reader := &Reader{
		name:     name,
		raw:      data,
		opts:     opts,
		metadata: make(map[string]string),
		elements: make([]parsedElement, 0),
		excluder: newExclusionChecker(opts.Navigation, root),
	}

	reader.extractHead(root)
	reader.extractBody(root)

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// extractHead extracts title and meta tags from the head element.
func (r *Reader) extractHead(root *html.Node) {
	head := goquery.NewDocumentFromNode(root).Find("head")
	r.title = strings.TrimSpace(head.Find("title").First().Text())
	head.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", s.AttrOr("property", ""))
		content := s.AttrOr("content", "")
		if name != "" && content != "" {
			r.metadata[name] = content
		}
	})
}

// extractBody extracts content from the body element.
func (r *Reader) extractBody(root *html.Node) {
	body := findElement(root, "body")
	if body == nil {
		// No body tag, try to extract from root
		body = root
	}
	r.traverseNode(body, &parseContext{})
}

// parseContext tracks the current parsing state.
type parseContext struct {
	listLevel int
}

func (r *Reader) add(e parsedElement) {
	r.elements = append(r.elements, e)
}

// traverseNode recursively processes DOM nodes.
func (r *Reader) traverseNode(n *html.Node, ctx *parseContext) {
	if n.Type == html.ElementNode {
		// Skip non-content elements
		if shouldSkipElement(n.Data) || r.excluder.shouldExclude(n) {
			return
		}

		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := collapse(getTextContent(n)); text != "" {
				r.add(parsedElement{Type: ElementHeading, Text: text, Level: int(n.Data[1] - '0')})
			}
			return

		case "p", "div":
			text := collapse(getTextContent(n))
			if text != "" && !isBlockContainer(n) {
				r.add(parsedElement{Type: ElementParagraph, Text: text})
				return
			}
			if text == "" {
				if img := onlyImage(n); img != nil {
					r.addImage(img, "")
					return
				}
			}
			// If it's a block container (div with children), traverse children
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				r.traverseNode(c, ctx)
			}
			return

		case "ul", "ol":
			ctx.listLevel++
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				r.traverseNode(c, ctx)
			}
			ctx.listLevel--
			return

		case "li":
			level := ctx.listLevel
			if level == 0 {
				level = 1
			}
			if text := collapse(getDirectTextContent(n)); text != "" {
				r.add(parsedElement{Type: ElementListItem, Text: text, Level: level, Checked: checkbox(n)})
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
					r.traverseNode(c, ctx)
				}
			}
			return

		case "table":
			if table := r.parseTable(n); table.RowCount() > 0 {
				r.add(parsedElement{Type: ElementTable, Table: table})
			}
			return

		case "pre":
			if text := strings.Trim(rawText(n), "\n"); strings.TrimSpace(text) != "" {
				r.add(parsedElement{Type: ElementCode, Text: text, IsCode: true})
			}
			return

		case "blockquote":
			if text := collapse(getTextContent(n)); text != "" {
				r.add(parsedElement{Type: ElementBlockquote, Text: text})
			}
			return

		case "figure":
			img := findElement(n, "img")
			if img == nil {
				break
			}
			caption := ""
			if fc := findElement(n, "figcaption"); fc != nil {
				caption = collapse(getTextContent(fc))
			}
			r.addImage(img, caption)
			return

		case "img":
			r.addImage(n, "")
			return

		case "br", "hr":
			return
		}
	}

	// Default: traverse children
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.traverseNode(c, ctx)
	}
}

// addImage records an image; the caption falls back to the alt text.
func (r *Reader) addImage(img *html.Node, caption string) {
	if caption == "" {
		caption = strings.TrimSpace(getAttr(img, "alt"))
	}
	r.add(parsedElement{Type: ElementImage, Text: caption, Source: getAttr(img, "src")})
}

// parseTable extracts a table from an HTML table element.
func (r *Reader) parseTable(tableNode *html.Node) *model.Table {
	table := &model.Table{}

	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "caption":
			table.Caption = collapse(getTextContent(c))
		case "thead":
			r.parseTableRows(c, table, true)
		case "tbody", "tfoot":
			r.parseTableRows(c, table, false)
		case "tr":
			if row := r.parseTableRow(c, false); len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		}
	}

	return table
}

// parseTableRows parses rows within thead, tbody or tfoot.
func (r *Reader) parseTableRows(section *html.Node, table *model.Table, isHeader bool) {
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			if row := r.parseTableRow(c, isHeader); len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		}
	}
}

// parseTableRow parses a single table row.
func (r *Reader) parseTableRow(tr *html.Node, isHeader bool) []model.Cell {
	row := make([]model.Cell, 0)

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			row = append(row, model.Cell{
				Text:     collapse(getTextContent(c)),
				IsHeader: isHeader || c.Data == "th",
				RowSpan:  spanAttr(c, "rowspan"),
				ColSpan:  spanAttr(c, "colspan"),
			})
		}
	}

	return row
}

// spanAttr parses a rowspan or colspan attribute, defaulting to 1.
func spanAttr(n *html.Node, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(getAttr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// checkbox returns the state of a leading checkbox input in a list item.
func checkbox(li *html.Node) *bool {
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.Type == html.ElementNode && c.Data == "input" && strings.EqualFold(getAttr(c, "type"), "checkbox") {
			checked := hasAttr(c, "checked")
			return &checked
		}
		return nil
	}
	return nil
}

// onlyImage returns the img element when it is the single content of n.
func onlyImage(n *html.Node) *html.Node {
	var img *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
		case c.Type == html.ElementNode && c.Data == "img" && img == nil:
			img = c
		default:
			return nil
		}
	}
	return img
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed", "head":
		return true
	}
	return false
}

// isBlockContainer returns true if the element is a block container with block-level children.
func isBlockContainer(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "div", "p", "ul", "ol", "table", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "article", "section", "figure":
				return true
			}
		}
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// getTextContent extracts all text content from a node and its descendants.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.TrimSpace(result.String())
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		// Skip script/style content
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			result.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
	// Add space after certain block elements
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
			result.WriteString(" ")
		}
	}
}

// getDirectTextContent gets text content from a node, excluding nested block elements.
func getDirectTextContent(n *html.Node) string {
	var result strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			result.WriteString(c.Data)
		} else if c.Type == html.ElementNode {
			switch c.Data {
			case "ul", "ol", "div", "p", "table", "blockquote":
				// Skip these - they're block elements
			default:
				result.WriteString(getTextContent(c))
			}
		}
	}
	return strings.TrimSpace(result.String())
}

// rawText returns the text of n with whitespace preserved.
func rawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return sb.String()
}

// collapse folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{
		Title:  r.title,
		Custom: make(map[string]string),
	}

	if author, ok := r.metadata["author"]; ok {
		meta.Author = author
	}
	if desc, ok := r.metadata["description"]; ok {
		meta.Subject = desc
	}
	if keywords, ok := r.metadata["keywords"]; ok {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}
	for k, v := range r.metadata {
		switch k {
		case "author", "description", "keywords":
		default:
			meta.Custom[k] = v
		}
	}

	return meta
}

// PageCount returns the number of synthetic pages the content lays out on.
func (r *Reader) PageCount() int {
	_, pages := r.layout()
	return len(pages)
}

// Document returns the document model. HTML carries no origin text; the
// elements are given provenance on synthetic pages.
func (r *Reader) Document() (*model.Document, error) {
	doc, _ := r.layout()
	return doc, nil
}

// Pages returns the synthetic pages with one text cell per placed element.
func (r *Reader) Pages() []*model.Page {
	_, pages := r.layout()
	return pages
}

// Layout constants, in points.
const (
	marginLeft   = 36.0
	marginTop    = 42.0
	marginBottom = 36.0
	quoteIndent  = 14.0
	rowHeight    = 15.0
	imageHeight  = 100.0
)

// block returns the height of an element and the space consumed after it.
func block(e parsedElement) (height, advance float64) {
	switch e.Type {
	case ElementHeading:
		return 20, 30
	case ElementListItem:
		return 15, 15
	case ElementTable:
		h := float64(e.Table.RowCount()) * rowHeight
		return h, h + 10
	case ElementImage:
		return imageHeight, imageHeight + 10
	default:
		return 15, 25
	}
}

// layout places elements top-down in a single column, starting a new page
// when the next element would cross the bottom margin. Boxes are bottom-left.
func (r *Reader) layout() (*model.Document, []*model.Page) {
	doc := model.NewDocument(r.name)
	doc.Origin = model.NewOrigin(r.name, MimeType, r.raw)
	doc.Metadata = r.Metadata()

	size := r.opts.PageSize
	top := size.Height - marginTop
	width := size.Width - 2*marginLeft

	page := model.NewPage(1, size.Width, size.Height)
	pages := []*model.Page{page}
	yPos := top

	for _, elem := range r.elements {
		height, advance := block(elem)
		if yPos-height < marginBottom && len(page.Cells) > 0 {
			page = model.NewPage(page.PageNo+1, size.Width, size.Height)
			pages = append(pages, page)
			yPos = top
		}

		x, w := marginLeft, width
		if elem.Type == ElementBlockquote {
			x, w = marginLeft+quoteIndent, width-quoteIndent
		}
		bbox := model.NewBBox(x, yPos-height, w, height)

		text := elem.Text
		if elem.Type == ElementTable {
			text = tableText(elem.Table)
		}
		prov := []model.Prov{{Page: page.PageNo, BBox: bbox, Span: [2]int{0, len(text)}}}

		switch elem.Type {
		case ElementHeading:
			obj := model.ObjSectionHeader
			if elem.Level == 1 {
				obj = model.ObjTitle
			}
			doc.Add(&model.TextItem{Obj: obj, Text: elem.Text, Level: elem.Level, Prov: prov})
		case ElementListItem:
			obj := model.ObjListItem
			if elem.Checked != nil {
				obj = model.ObjCheckboxUnselected
				if *elem.Checked {
					obj = model.ObjCheckboxSelected
				}
			}
			doc.Add(&model.TextItem{Obj: obj, Text: elem.Text, Level: elem.Level, Prov: prov})
		case ElementTable:
			table := *elem.Table
			table.Prov = prov
			doc.AddTable(&table)
		case ElementCode:
			doc.Add(&model.TextItem{Obj: model.ObjCode, Text: elem.Text, Prov: prov})
		case ElementBlockquote:
			doc.Add(&model.TextItem{Obj: model.ObjQuote, Text: elem.Text, Prov: prov})
		case ElementImage:
			doc.AddFigure(&model.Picture{Caption: elem.Text, Source: elem.Source, Prov: prov})
		default:
			doc.Add(&model.TextItem{Obj: model.ObjParagraph, Text: elem.Text, Prov: prov})
		}

		page.AddCell(model.TextCell{Text: text, Rect: bbox, Confidence: 1})
		yPos -= advance
	}

	logging.L().Debug().
		Str("name", r.name).
		Int("items", len(doc.MainText)).
		Int("pages", len(pages)).
		Msg("html document laid out")

	return doc, pages
}

// tableText joins the table's cell texts row by row.
func tableText(t *model.Table) string {
	var parts []string
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell.Text != "" {
				parts = append(parts, cell.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}
