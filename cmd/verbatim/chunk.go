package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tsawler/verbatim/rag"
)

// chunkFlags are the flags of the chunk command.
type chunkFlags struct {
	chunker string
	format  string
	context string
	pretty  bool
	output  string
}

func newChunkCmd(a *app) *cobra.Command {
	f := &chunkFlags{}

	cmd := &cobra.Command{
		Use:   "chunk <file>...",
		Short: "Chunk documents for retrieval",
		Long: `Chunk converts each file and writes its chunks as JSON Lines or a JSON array.

Chunkers:
  single    one chunk per document, the origin text when available
  document  one chunk per document built by the origin-aware serializer
  item      one chunk per element with its heading path
  origin    item chunks stamped with the full origin text

Examples:
  verbatim chunk notes.md
  verbatim chunk docs/*.md --chunker item --output chunks.jsonl
  verbatim chunk page.html --format json --pretty
  verbatim chunk notes.md --chunker item --context bracket`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChunk(cmd, a, f, args)
		},
	}

	cmd.Flags().StringVar(&f.chunker, "chunker", "", "Chunker: single, document, item or origin")
	cmd.Flags().StringVar(&f.format, "format", "", "Export format: jsonl or json")
	cmd.Flags().StringVar(&f.context, "context", "", "Add heading context: none, bracket, markdown, breadcrumb or xml")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Indent JSON output")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runChunk(cmd *cobra.Command, a *app, f *chunkFlags, files []string) error {
	cfg := a.cfg
	if cmd.Flags().Changed("chunker") {
		cfg.Chunker = f.chunker
	}
	if cmd.Flags().Changed("format") {
		cfg.Export.Format = f.format
	}
	if cmd.Flags().Changed("context") {
		cfg.Export.Context = f.context
	}
	if f.pretty {
		cfg.Export.Pretty = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	chunker, err := cfg.NewChunker()
	if err != nil {
		return err
	}
	exportCfg, err := cfg.ExportConfig()
	if err != nil {
		return err
	}

	var all []*rag.Chunk
	for _, path := range files {
		ext, err := a.extractor(path)
		if err != nil {
			return err
		}
		chunks, err := ext.WithChunker(chunker).Chunks()
		if err != nil {
			return fmt.Errorf("chunking %s: %w", path, err)
		}
		log.Debug().Str("file", path).Int("chunks", len(chunks)).Msg("chunked")
		all = append(all, chunks...)
	}

	w, closeFn, err := output(cmd, f.output)
	if err != nil {
		return err
	}
	if err := rag.NewExporterWithConfig(exportCfg).Export(all, w); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}

	log.Info().Int("files", len(files)).Int("chunks", len(all)).Str("format", exportCfg.Format.String()).Msg("chunks written")
	return nil
}
