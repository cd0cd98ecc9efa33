// Command verbatim converts Markdown and HTML files and exports them as
// Markdown, RAG chunks or per-page dataset records.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
