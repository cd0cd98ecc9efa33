// Package rag turns documents into chunks for retrieval and exports them.
//
// # Chunkers
//
// Every chunker implements [Chunker]:
//
//   - [SingleChunker] - one chunk for the whole document, origin text first
//   - [DocumentChunker] - one chunk built from per-item parts through a
//     serializer provider
//   - [ItemChunker] - one chunk per content item with its heading path
//   - [OriginPreservingChunker] - wraps another chunker and copies the full
//     origin text into every chunk's metadata
//
// None of them split text by size.
//
// # Origin Text
//
// Documents converted from Markdown keep their untouched source in
// model.Document.OriginText. [OriginSerializer] (via [OriginProvider])
// substitutes it when a request covers the whole document:
//
//	chunker := &rag.DocumentChunker{Provider: rag.OriginProvider{}}
//	chunks := chunker.Chunk(doc)
//
// Single items are always recomposed.
//
// # Context
//
// [Chunk.Contextualize] prefixes a chunk's text with its heading path in one
// of the [ContextFormat] styles, the form usually sent to an embedding model.
//
// # Export
//
// [Exporter] writes chunks as JSON Lines or a JSON array; [StreamExporter]
// writes them one at a time. Setting ExportConfig.Context adds the
// contextualized text to every exported chunk.
package rag
