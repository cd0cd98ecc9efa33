package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tsawler/verbatim"
	"github.com/tsawler/verbatim/internal/config"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath     string
	verbose        bool
	recomposedOnly bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "verbatim",
		Short: "verbatim converts documents while keeping their source text",
		Long: `verbatim converts Markdown and HTML files into a document model and
exports them. Where the source format allows, the original text is carried
through unchanged instead of being recomposed from the parsed elements.

Usage:
  verbatim markdown <file>
  verbatim chunk <file>... [flags]
  verbatim pages <file>... [flags]`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file (YAML or JSON)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.recomposedOnly, "recomposed", false, "Ignore origin text and always recompose")

	root.AddCommand(
		newMarkdownCmd(a),
		newChunkCmd(a),
		newPagesCmd(a),
	)
	return root
}

// setup loads the configuration and configures logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.recomposedOnly {
		cfg.RecomposedOnly = true
	}
	if a.verbose {
		cfg.Verbose = true
	}
	a.cfg = cfg

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339})
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	verbatim.SetLogger(log.Logger)

	log.Debug().Str("config", a.configPath).Str("chunker", cfg.Chunker).Bool("recomposed", cfg.RecomposedOnly).Msg("configured")
	return nil
}

// extractor returns an Extractor for path configured from the loaded settings.
func (a *app) extractor(path string) (*verbatim.Extractor, error) {
	html, err := a.cfg.HTMLOptions()
	if err != nil {
		return nil, err
	}
	placeholder := a.cfg.PageOptions().PlaceholderSize

	ext := verbatim.Open(path).
		Navigation(html.Navigation).
		PageSize(html.PageSize.Width, html.PageSize.Height).
		PlaceholderSize(placeholder.Width, placeholder.Height)
	if a.cfg.RecomposedOnly {
		ext = ext.RecomposedOnly()
	}
	return ext, nil
}

// output opens the destination file, or returns the command's standard
// output when path is empty.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, f.Close, nil
}
