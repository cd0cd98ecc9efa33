// Package config loads the command-line tool's configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/tsawler/verbatim/htmldoc"
	"github.com/tsawler/verbatim/model"
	"github.com/tsawler/verbatim/pages"
	"github.com/tsawler/verbatim/rag"
	"github.com/tsawler/verbatim/serialize"
)

// Chunker names accepted in the configuration.
const (
	ChunkerSingle   = "single"
	ChunkerDocument = "document"
	ChunkerItem     = "item"
	ChunkerOrigin   = "origin"
)

// Size is a page size in points or millimetres.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Config is the configuration file schema.
type Config struct {
	// Chunker selects the chunk producer: single, document, item or origin.
	Chunker string `yaml:"chunker" json:"chunker"`

	// RecomposedOnly ignores origin text everywhere and always renders from
	// the element tree.
	RecomposedOnly bool `yaml:"recomposedOnly" json:"recomposedOnly"`

	Export struct {
		Format            string `yaml:"format" json:"format"`
		Pretty            bool   `yaml:"pretty" json:"pretty"`
		IncludeOriginText *bool  `yaml:"includeOriginText" json:"includeOriginText"`
		Context           string `yaml:"context" json:"context"`
	} `yaml:"export" json:"export"`

	Pages struct {
		Placeholder Size `yaml:"placeholder" json:"placeholder"`
	} `yaml:"pages" json:"pages"`

	HTML struct {
		Navigation string `yaml:"navigation" json:"navigation"`
		PageSize   Size   `yaml:"pageSize" json:"pageSize"`
	} `yaml:"html" json:"html"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.Chunker = ChunkerSingle
	c.Export.Format = rag.ExportFormatJSONL.String()
	include := true
	c.Export.IncludeOriginText = &include

	placeholder := pages.DefaultOptions().PlaceholderSize
	c.Pages.Placeholder = Size{Width: placeholder.Width, Height: placeholder.Height}

	html := htmldoc.DefaultOptions()
	c.HTML.Navigation = html.Navigation.String()
	c.HTML.PageSize = Size{Width: html.PageSize.Width, Height: html.PageSize.Height}
	return c
}

// Load reads a YAML or JSON file and merges it over the defaults. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}

	var fc Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return c, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return c, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return c, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}

	c.merge(fc)
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// merge overlays the non-zero values of fc.
func (c *Config) merge(fc Config) {
	if fc.Chunker != "" {
		c.Chunker = fc.Chunker
	}
	if fc.RecomposedOnly {
		c.RecomposedOnly = true
	}
	if fc.Export.Format != "" {
		c.Export.Format = fc.Export.Format
	}
	if fc.Export.Pretty {
		c.Export.Pretty = true
	}
	if fc.Export.Context != "" {
		c.Export.Context = fc.Export.Context
	}
	if fc.Export.IncludeOriginText != nil {
		v := *fc.Export.IncludeOriginText
		c.Export.IncludeOriginText = &v
	}
	if fc.Pages.Placeholder.Width > 0 && fc.Pages.Placeholder.Height > 0 {
		c.Pages.Placeholder = fc.Pages.Placeholder
	}
	if fc.HTML.Navigation != "" {
		c.HTML.Navigation = fc.HTML.Navigation
	}
	if fc.HTML.PageSize.Width > 0 && fc.HTML.PageSize.Height > 0 {
		c.HTML.PageSize = fc.HTML.PageSize
	}
	if fc.Verbose {
		c.Verbose = true
	}
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Chunker {
	case ChunkerSingle, ChunkerDocument, ChunkerItem, ChunkerOrigin:
	default:
		return fmt.Errorf("config: unknown chunker %q", c.Chunker)
	}
	if _, err := rag.ParseExportFormat(c.Export.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := rag.ParseContextFormat(c.Export.Context); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := htmldoc.ParseNavigationMode(c.HTML.Navigation); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Pages.Placeholder.Width < 0 || c.Pages.Placeholder.Height < 0 {
		return errors.New("config: negative placeholder size")
	}
	return nil
}

// NewChunker builds the configured chunk producer.
func (c Config) NewChunker() (rag.Chunker, error) {
	var p serialize.Provider = rag.OriginProvider{}
	if c.RecomposedOnly {
		p = serialize.MarkdownProvider{}
	}

	switch c.Chunker {
	case ChunkerSingle, "":
		if c.RecomposedOnly {
			return &rag.DocumentChunker{Provider: p}, nil
		}
		return &rag.SingleChunker{IncludeOriginText: c.includeOriginText()}, nil
	case ChunkerDocument:
		return &rag.DocumentChunker{Provider: p}, nil
	case ChunkerItem:
		return &rag.ItemChunker{Provider: p}, nil
	case ChunkerOrigin:
		inner := &rag.ItemChunker{Provider: p}
		if c.RecomposedOnly {
			return inner, nil
		}
		return rag.NewOriginPreservingChunker(inner), nil
	default:
		return nil, fmt.Errorf("config: unknown chunker %q", c.Chunker)
	}
}

// ExportConfig returns the chunk export settings.
func (c Config) ExportConfig() (rag.ExportConfig, error) {
	format, err := rag.ParseExportFormat(c.Export.Format)
	if err != nil {
		return rag.ExportConfig{}, fmt.Errorf("config: %w", err)
	}
	context, err := rag.ParseContextFormat(c.Export.Context)
	if err != nil {
		return rag.ExportConfig{}, fmt.Errorf("config: %w", err)
	}
	ec := rag.DefaultExportConfig()
	ec.Format = format
	ec.Context = context
	ec.PrettyPrint = c.Export.Pretty
	ec.IncludeOriginText = c.includeOriginText()
	return ec, nil
}

// HTMLOptions returns the HTML backend settings.
func (c Config) HTMLOptions() (htmldoc.Options, error) {
	mode, err := htmldoc.ParseNavigationMode(c.HTML.Navigation)
	if err != nil {
		return htmldoc.Options{}, fmt.Errorf("config: %w", err)
	}
	return htmldoc.Options{
		Navigation: mode,
		PageSize:   model.Size{Width: c.HTML.PageSize.Width, Height: c.HTML.PageSize.Height},
	}, nil
}

// PageOptions returns the page export settings.
func (c Config) PageOptions() pages.Options {
	return pages.Options{
		PlaceholderSize: model.Size{Width: c.Pages.Placeholder.Width, Height: c.Pages.Placeholder.Height},
	}
}

func (c Config) includeOriginText() bool {
	if c.RecomposedOnly {
		return false
	}
	return c.Export.IncludeOriginText == nil || *c.Export.IncludeOriginText
}
