// Package htmldoc provides HTML document parsing.
package htmldoc

import (
	"fmt"

	"github.com/tsawler/verbatim/model"
)

// parsedElement represents a parsed element from the HTML document.
type parsedElement struct {
	Type    ElementType
	Text    string
	Level   int          // heading level (1-6) or list depth (1-based)
	Table   *model.Table // for tables
	Source  string       // image src
	IsCode  bool
	Checked *bool // for list items carrying a checkbox input
}

// ElementType represents the type of HTML element.
type ElementType int

const (
	ElementParagraph ElementType = iota
	ElementHeading
	ElementListItem
	ElementTable
	ElementCode
	ElementBlockquote
	ElementImage
)

// NavigationExclusionMode controls how navigation, headers, and footers are filtered.
type NavigationExclusionMode int

const (
	// NavigationExclusionNone includes all content without filtering.
	NavigationExclusionNone NavigationExclusionMode = iota

	// NavigationExclusionExplicit skips only explicit semantic HTML5 elements:
	// <nav>, <aside>, and ARIA roles (role="navigation", role="complementary").
	// <header> and <footer> are only skipped when they are direct children of <body>
	// or a single top-level wrapper element.
	NavigationExclusionExplicit

	// NavigationExclusionStandard (default) adds common class/id patterns such
	// as nav, menu, footer and sidebar.
	NavigationExclusionStandard

	// NavigationExclusionAggressive adds link-density heuristics to standard detection.
	// Sections with very high link-to-text ratios are excluded.
	NavigationExclusionAggressive
)

// Options configures parsing and layout.
type Options struct {
	// Navigation selects how boilerplate is filtered.
	Navigation NavigationExclusionMode

	// PageSize is the size of the synthetic pages elements are laid out on.
	PageSize model.Size
}

// DefaultOptions returns standard navigation filtering on US Letter pages.
func DefaultOptions() Options {
	return Options{
		Navigation: NavigationExclusionStandard,
		PageSize:   model.Size{Width: 612, Height: 792},
	}
}

// String returns the mode name accepted by ParseNavigationMode.
func (m NavigationExclusionMode) String() string {
	switch m {
	case NavigationExclusionNone:
		return "none"
	case NavigationExclusionExplicit:
		return "explicit"
	case NavigationExclusionStandard:
		return "standard"
	case NavigationExclusionAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseNavigationMode parses a mode name. The empty string selects the
// standard mode.
func ParseNavigationMode(s string) (NavigationExclusionMode, error) {
	switch s {
	case "none":
		return NavigationExclusionNone, nil
	case "explicit":
		return NavigationExclusionExplicit, nil
	case "standard", "":
		return NavigationExclusionStandard, nil
	case "aggressive":
		return NavigationExclusionAggressive, nil
	default:
		return NavigationExclusionStandard, fmt.Errorf("unknown navigation mode %q", s)
	}
}
