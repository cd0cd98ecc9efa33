package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tsawler/verbatim/pages"
)

func newPagesCmd(a *app) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "pages <file>...",
		Short: "Export documents page by page as JSON Lines",
		Long: `Pages converts each file and writes one JSON line per page with the page's
text, Markdown, tokenized form, raw cells and layout segments.

Examples:
  verbatim pages page.html
  verbatim pages notes.md page.html --output pages.jsonl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, closeFn, err := output(cmd, outputPath)
			if err != nil {
				return err
			}

			pw := pages.NewWriter(w)
			for _, path := range args {
				if err := writePages(a, pw, path); err != nil {
					_ = closeFn()
					return err
				}
			}
			if err := closeFn(); err != nil {
				return err
			}

			log.Info().Int("files", len(args)).Int("pages", pw.Count()).Msg("pages written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func writePages(a *app, pw *pages.Writer, path string) error {
	ext, err := a.extractor(path)
	if err != nil {
		return err
	}
	res, err := ext.Result()
	if err != nil {
		return err
	}
	if err := pw.WriteResult(res, a.cfg.PageOptions()); err != nil {
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}
