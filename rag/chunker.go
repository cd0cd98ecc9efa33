package rag

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/google/uuid"

	"github.com/tsawler/verbatim/internal/logging"
	"github.com/tsawler/verbatim/model"
	"github.com/tsawler/verbatim/serialize"
)

// chunkNamespace seeds the name-based chunk IDs so the same document always
// yields the same IDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tsawler/verbatim/rag/chunk"))

// ChunkMetadata contains metadata about a chunk's place in the document
type ChunkMetadata struct {
	// DocItems are the concrete items the chunk was built from. Never empty.
	DocItems []model.Item `json:"-"`

	// DocItemRefs are JSON pointers for DocItems ("#/main-text/3", "#/body").
	DocItemRefs []string `json:"doc_items"`

	// Origin identifies the source document
	Origin *model.Origin `json:"origin,omitempty"`

	// Headings is the heading path in effect for the chunk
	Headings []string `json:"headings,omitempty"`

	// OriginText is a copy of the document's full origin text, when requested
	OriginText string `json:"origin_text,omitempty"`

	// ChunkIndex is the position of this chunk in the document (0-indexed)
	ChunkIndex int `json:"chunk_index"`

	// TotalChunks is the total number of chunks in the document
	TotalChunks int `json:"total_chunks,omitempty"`

	// CharCount is the number of characters in the chunk text
	CharCount int `json:"char_count"`

	// WordCount is the number of words in the chunk text
	WordCount int `json:"word_count"`

	// EstimatedTokens is an estimated token count (chars/4 as rough approximation)
	EstimatedTokens int `json:"estimated_tokens"`
}

// Chunk is a unit of text produced from a document for retrieval
type Chunk struct {
	// ID is a deterministic identifier for this chunk
	ID string `json:"id"`

	// Text is the chunk content
	Text string `json:"text"`

	// Metadata contains contextual information
	Metadata ChunkMetadata `json:"metadata"`
}

// NewChunk creates a new chunk with the given text and metadata
func NewChunk(id, text string, metadata ChunkMetadata) *Chunk {
	metadata.CharCount = len([]rune(text))
	metadata.WordCount = countWords(text)
	metadata.EstimatedTokens = len(text) / 4

	return &Chunk{
		ID:       id,
		Text:     text,
		Metadata: metadata,
	}
}

// Chunker produces chunks from a document.
type Chunker interface {
	Chunk(doc *model.Document) []*Chunk
}

// SingleChunker emits exactly one chunk covering the whole document. The
// chunk text is the document's origin text when it has one and the standard
// Markdown export otherwise. It performs no splitting.
type SingleChunker struct {
	// IncludeOriginText copies the origin text into the chunk metadata.
	IncludeOriginText bool
}

// NewSingleChunker creates a single-chunk producer
func NewSingleChunker() *SingleChunker {
	return &SingleChunker{}
}

// Chunk implements Chunker.
func (c *SingleChunker) Chunk(doc *model.Document) []*Chunk {
	if doc == nil {
		return nil
	}

	var text string
	if doc.HasOriginText() {
		text = *doc.OriginText
	} else {
		logging.L().Debug().Str("document", doc.Name).Msg("no origin text; using markdown export")
		text = serialize.ExportMarkdown(doc, serialize.All())
	}

	items, refs := collectItems(doc)
	meta := ChunkMetadata{
		DocItems:    items,
		DocItemRefs: refs,
		Origin:      doc.Origin,
		TotalChunks: 1,
	}
	if c.IncludeOriginText && doc.HasOriginText() {
		meta.OriginText = *doc.OriginText
	}

	return []*Chunk{NewChunk(chunkID(doc, 0, text), text, meta)}
}

// DocumentChunker emits one chunk for the whole document, built by
// serializing every item and asking the provider's serializer to combine the
// parts as a whole-document request.
type DocumentChunker struct {
	Provider serialize.Provider
}

// NewDocumentChunker creates a document chunker using the origin-aware
// serializer.
func NewDocumentChunker() *DocumentChunker {
	return &DocumentChunker{Provider: OriginProvider{}}
}

// Chunk implements Chunker.
func (c *DocumentChunker) Chunk(doc *model.Document) []*Chunk {
	if doc == nil {
		return nil
	}

	s := provider(c.Provider).Serializer(doc)
	items, refs := collectItems(doc)

	parts := make([]serialize.Result, 0, len(doc.MainText))
	for _, e := range doc.IterateItems() {
		parts = append(parts, s.Serialize(e.Item))
	}
	res := s.SerializeDoc(parts, serialize.ScopeDocument)

	meta := ChunkMetadata{
		DocItems:    items,
		DocItemRefs: refs,
		Origin:      doc.Origin,
		TotalChunks: 1,
	}
	return []*Chunk{NewChunk(chunkID(doc, 0, res.Text), res.Text, meta)}
}

// ItemChunker emits one chunk per content item, carrying the heading path in
// effect. Headings themselves only contribute to that path.
type ItemChunker struct {
	Provider serialize.Provider
}

// NewItemChunker creates an item chunker using the origin-aware serializer.
func NewItemChunker() *ItemChunker {
	return &ItemChunker{Provider: OriginProvider{}}
}

// Chunk implements Chunker.
func (c *ItemChunker) Chunk(doc *model.Document) []*Chunk {
	if doc == nil {
		return nil
	}

	s := provider(c.Provider).Serializer(doc)

	toc := doc.TableOfContents()
	next := 0

	var chunks []*Chunk
	var path []model.TOCEntry

	for ix, e := range doc.IterateItems() {
		if next < len(toc) && toc[next].Index == ix {
			h := toc[next]
			next++
			for len(path) > 0 && path[len(path)-1].Level >= h.Level {
				path = path[:len(path)-1]
			}
			path = append(path, h)
			continue
		}

		item := doc.Resolve(e.Item)
		if item == nil {
			logging.L().Debug().Int("index", ix).Msg("skipping dangling reference")
			continue
		}

		res := s.Serialize(item)
		if res.Text == "" {
			continue
		}

		meta := ChunkMetadata{
			DocItems:    []model.Item{item},
			DocItemRefs: []string{mainTextRef(ix)},
			Origin:      doc.Origin,
			Headings:    headingTexts(path),
			ChunkIndex:  len(chunks),
		}
		chunks = append(chunks, NewChunk(chunkID(doc, len(chunks), res.Text), res.Text, meta))
	}

	for _, ch := range chunks {
		ch.Metadata.TotalChunks = len(chunks)
	}
	return chunks
}

func headingTexts(path []model.TOCEntry) []string {
	if len(path) == 0 {
		return nil
	}
	headings := make([]string, len(path))
	for i, h := range path {
		headings[i] = h.Text
	}
	return headings
}

// OriginPreservingChunker wraps another chunker and stamps every chunk with a
// copy of the full origin text.
type OriginPreservingChunker struct {
	// Inner produces the chunks. Defaults to an ItemChunker.
	Inner Chunker

	// OriginText overrides the document's own origin text when set.
	OriginText *string
}

// NewOriginPreservingChunker wraps inner. A nil inner uses an ItemChunker.
func NewOriginPreservingChunker(inner Chunker) *OriginPreservingChunker {
	return &OriginPreservingChunker{Inner: inner}
}

// Chunk implements Chunker.
func (c *OriginPreservingChunker) Chunk(doc *model.Document) []*Chunk {
	inner := c.Inner
	if inner == nil {
		inner = NewItemChunker()
	}
	chunks := inner.Chunk(doc)

	origin := c.OriginText
	if origin == nil && doc.HasOriginText() {
		origin = doc.OriginText
	}
	if origin == nil {
		return chunks
	}

	for _, ch := range chunks {
		ch.Metadata.OriginText = *origin
	}
	return chunks
}

// collectItems returns every main-text item unwrapped to its concrete form,
// falling back to the body so the list is never empty.
func collectItems(doc *model.Document) ([]model.Item, []string) {
	var items []model.Item
	var refs []string
	for ix, e := range doc.IterateItems() {
		item := doc.Resolve(e.Item)
		if item == nil {
			continue
		}
		items = append(items, item)
		refs = append(refs, mainTextRef(ix))
	}

	if len(items) == 0 {
		body := doc.Body
		if body == nil {
			body = &model.Group{Name: "_root_"}
		}
		return []model.Item{body}, []string{"#/body"}
	}
	return items, refs
}

func mainTextRef(ix int) string {
	return "#/main-text/" + strconv.Itoa(ix)
}

func provider(p serialize.Provider) serialize.Provider {
	if p == nil {
		return serialize.MarkdownProvider{}
	}
	return p
}

// chunkID derives a stable ID from the document identity, the chunk position
// and its text.
func chunkID(doc *model.Document, index int, text string) string {
	key := doc.Name
	if doc.Origin != nil {
		key = fmt.Sprintf("%s:%x", doc.Origin.Filename, doc.Origin.BinaryHash)
	}
	name := fmt.Sprintf("%s\x00%d\x00%s", key, index, text)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}

// countWords counts whitespace-separated words
func countWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			words++
		}
	}
	return words
}
