package htmldoc

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// navigationPattern matches class or id values that mark boilerplate.
var navigationPattern = regexp.MustCompile(
	`(?i)(^|[^a-z])(nav|navbar|navigation|menu|topnav|sidenav|breadcrumb|breadcrumbs|` +
		`site-header|page-header|masthead|banner|` +
		`footer|site-footer|page-footer|colophon|` +
		`sidebar|widget-area|widget|aside)([^a-z]|$)`)

const (
	explicitSelector = `nav, aside, [role="navigation"], [role="complementary"]`
	landmarkSelector = `header, footer, [role="banner"], [role="contentinfo"]`
	densitySelector  = `div, section, ul, ol`

	// More than this share of text inside links, with at least minLinks
	// links, marks a block as navigation in aggressive mode.
	maxLinkDensity = 0.6
	minLinks       = 4
)

// exclusionChecker holds the set of nodes to skip during traversal.
type exclusionChecker struct {
	mode     NavigationExclusionMode
	excluded map[*html.Node]bool
}

// newExclusionChecker selects excluded nodes up front for the given mode.
func newExclusionChecker(mode NavigationExclusionMode, root *html.Node) *exclusionChecker {
	ec := &exclusionChecker{
		mode:     mode,
		excluded: make(map[*html.Node]bool),
	}
	if mode == NavigationExclusionNone {
		return ec
	}

	doc := goquery.NewDocumentFromNode(root)
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	wrapper := topLevelWrapper(body)

	ec.mark(doc.Find(explicitSelector))

	// header and footer landmarks only count at the top of the page
	doc.Find(landmarkSelector).Each(func(_ int, s *goquery.Selection) {
		parent := s.Parent()
		if parent.IsSelection(body) || (wrapper != nil && parent.IsSelection(wrapper)) {
			ec.mark(s)
		}
	})

	if mode >= NavigationExclusionStandard {
		ec.mark(doc.Find("[class], [id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return navigationPattern.MatchString(s.AttrOr("class", "")) ||
				navigationPattern.MatchString(s.AttrOr("id", ""))
		}))
	}

	if mode >= NavigationExclusionAggressive {
		ec.mark(doc.Find(densitySelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return linkDensity(s) > maxLinkDensity && s.Find("a").Length() >= minLinks
		}))
	}

	return ec
}

func (ec *exclusionChecker) mark(s *goquery.Selection) {
	for _, n := range s.Nodes {
		ec.excluded[n] = true
	}
}

// shouldExclude reports whether n was selected for exclusion.
func (ec *exclusionChecker) shouldExclude(n *html.Node) bool {
	return ec != nil && ec.excluded[n]
}

// topLevelWrapper finds a single structural wrapper element if one exists.
// This handles the common pattern of <body><div id="wrapper">...</div></body>
func topLevelWrapper(body *goquery.Selection) *goquery.Selection {
	var wrapper *goquery.Selection
	count := 0
	ok := true
	body.Children().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "div", "main":
			wrapper = s
			count++
		case "script", "style", "noscript", "template":
		default:
			ok = false
		}
	})
	if !ok || count != 1 {
		return nil
	}
	return wrapper
}

// linkDensity returns the ratio of link text to total text (0.0 to 1.0).
func linkDensity(s *goquery.Selection) float64 {
	total := textLength(s.Text())
	if total == 0 {
		return 0
	}
	links := 0
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		links += textLength(a.Text())
	})
	return float64(links) / float64(total)
}

// textLength counts non-space characters.
func textLength(s string) int {
	return len(strings.Join(strings.Fields(s), ""))
}
