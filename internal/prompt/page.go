package prompt

import (
	"fmt"
	"strings"

	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
)

// Region tags a top-level sibling's role in the page structure.
type Region string

const (
	RegionHeader  Region = "header"
	RegionHero    Region = "hero"
	RegionFooter  Region = "footer"
	RegionSidebar Region = "sidebar"
	RegionBody    Region = "body"
)

// compressThreshold is the component count above which the optimized
// page variant switches to one line per component.
const compressThreshold = 12

// PageSection is one classified top-level component of a page.
type PageSection struct {
	Region    Region
	Component *metadata.Simplified
}

// PageStructure is the derived layout record for a page-level prompt.
type PageStructure struct {
	Name     string
	Width    float64
	Height   float64
	Sections []PageSection
}

// AnalyzePage classifies the top-level children of a page root into
// regions using name keywords first, then Y/X position within the page.
func AnalyzePage(root *metadata.Simplified) PageStructure {
	ps := PageStructure{Name: root.Name, Width: root.Width, Height: root.Height}
	for _, ch := range root.Children {
		if ch == nil {
			continue
		}
		ps.Sections = append(ps.Sections, PageSection{
			Region:    classifyRegion(ch, root),
			Component: ch,
		})
	}
	return ps
}

func classifyRegion(c *metadata.Simplified, root *metadata.Simplified) Region {
	name := strings.ToLower(c.Name)
	switch {
	case hasKeyword(name, "header", "navbar", "nav", "appbar", "topbar"):
		return RegionHeader
	case hasKeyword(name, "hero", "banner", "jumbotron"):
		return RegionHero
	case hasKeyword(name, "footer", "bottom"):
		return RegionFooter
	case hasKeyword(name, "sidebar", "side", "drawer", "aside"):
		return RegionSidebar
	}

	// Positional fallback: top 15% is a header, bottom 15% a footer, a
	// tall narrow block hugging an edge is a sidebar.
	if root.Height > 0 {
		relY := (c.Y - root.Y) / root.Height
		if relY < 0.15 && c.Width > root.Width*0.5 {
			return RegionHeader
		}
		if relY > 0.85 {
			return RegionFooter
		}
	}
	if root.Width > 0 && c.Height > root.Height*0.5 && c.Width < root.Width*0.3 {
		relX := (c.X - root.X) / root.Width
		if relX < 0.1 || relX > 0.7 {
			return RegionSidebar
		}
	}
	return RegionBody
}

func hasKeyword(name string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// buildPage renders the page structure either in full or, for the
// optimized variant over the component threshold, one line per component.
func buildPage(strategy Strategy, root *metadata.Simplified) *Doc {
	ps := AnalyzePage(root)
	compress := strategy == StrategyPageOptimized && len(ps.Sections) > compressThreshold

	doc := &Doc{
		Purpose:   "Generate source code for a full page layout assembled from the sections below.",
		Component: fmt.Sprintf("page %q, %.0fx%.0f px, %d sections", ps.Name, ps.Width, ps.Height, len(ps.Sections)),
		Instructions: []string{
			"Compose the page in document order: header, hero, body, sidebar, footer.",
			"Size each section exactly as specified.",
		},
	}

	var lines []string
	for _, sec := range ps.Sections {
		c := sec.Component
		if compress {
			lines = append(lines, fmt.Sprintf("%s: %s %q %.0fx%.0f", sec.Region, c.SemanticType, c.Name, c.Width, c.Height))
			continue
		}
		line := fmt.Sprintf("%s: %s %q %.0fx%.0f at (%.0f, %.0f)", sec.Region, c.SemanticType, c.Name, c.Width, c.Height, c.X, c.Y)
		if c.Text != "" {
			line += fmt.Sprintf(" text=%q", c.Text)
		}
		if len(c.Fills) > 0 {
			line += " background=" + c.Fills[0]
		}
		lines = append(lines, line)
	}
	doc.Children = strings.Join(lines, "\n")
	return doc
}
