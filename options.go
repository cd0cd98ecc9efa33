package verbatim

import (
	"github.com/tsawler/verbatim/htmldoc"
	"github.com/tsawler/verbatim/model"
	"github.com/tsawler/verbatim/pages"
)

// extractOptions holds configuration for conversion and export.
type extractOptions struct {
	// Origin text handling
	recomposedOnly   bool
	originInMetadata bool

	// HTML backend
	html htmldoc.Options

	// Page export
	pages pages.Options
}

// defaultOptions returns the default extraction options.
func defaultOptions() extractOptions {
	return extractOptions{
		recomposedOnly:   false,
		originInMetadata: false,
		html:             htmldoc.DefaultOptions(),
		pages:            pages.DefaultOptions(),
	}
}

// clone creates a copy of extractOptions.
func (o extractOptions) clone() extractOptions {
	return extractOptions{
		recomposedOnly:   o.recomposedOnly,
		originInMetadata: o.originInMetadata,
		html: htmldoc.Options{
			Navigation: o.html.Navigation,
			PageSize:   model.Size{Width: o.html.PageSize.Width, Height: o.html.PageSize.Height},
		},
		pages: pages.Options{
			PlaceholderSize: model.Size{Width: o.pages.PlaceholderSize.Width, Height: o.pages.PlaceholderSize.Height},
		},
	}
}
