package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMarkdownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "markdown <file>",
		Short: "Print a document as Markdown",
		Long: `Markdown prints the document as Markdown. A Markdown source is printed
exactly as written; other formats are recomposed from their elements.

Examples:
  verbatim markdown notes.md
  verbatim markdown page.html
  verbatim markdown notes.md --recomposed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, err := a.extractor(args[0])
			if err != nil {
				return err
			}
			md, err := ext.Markdown()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}
}
