package prompt

import (
	"fmt"
	"strings"

	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
	"github.com/darkxdd/FigmaCursor-sub000/internal/tokenbudget"
)

// maxDetailedSiblings caps the sibling context included by the detailed
// strategy.
const maxDetailedSiblings = 4

// Request carries everything the compiler needs for one component.
type Request struct {
	Target   *metadata.Simplified
	Siblings []*metadata.Simplified
	Strategy Strategy
	// Budget is the per-call prompt token budget; 0 disables budgeting.
	Budget int
}

// Compile renders the richest prompt that fits the budget. It starts from
// the requested strategy, steps down one strategy level while over budget,
// then degrades the terser doc section by section, and finally falls back
// to the last-resort template, which always dispatches.
func Compile(req Request) Spec {
	if req.Target == nil {
		return Spec{}
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyDetailed
	}

	for {
		doc := buildDoc(strategy, req)
		spec := doc.Estimate(strategy)
		if req.Budget <= 0 || spec.EstimatedTokens <= req.Budget {
			return spec
		}
		next, ok := stepDown(strategy)
		if !ok {
			// Terser strategies are exhausted; shrink the doc itself.
			for doc.DegradeStep() {
				spec = doc.Estimate(strategy)
				if spec.EstimatedTokens <= req.Budget {
					return spec
				}
			}
			return LastResort(req.Target)
		}
		strategy = next
	}
}

func buildDoc(strategy Strategy, req Request) *Doc {
	switch strategy {
	case StrategyDetailed:
		return buildDetailed(req.Target, req.Siblings)
	case StrategyVisual:
		return buildVisual(req.Target)
	case StrategyPage, StrategyPageOptimized:
		return buildPage(strategy, req.Target)
	default:
		return buildMinimal(req.Target)
	}
}

// LastResort is the guaranteed-dispatch template: type, name, dimensions,
// and one line of instruction.
func LastResort(m *metadata.Simplified) Spec {
	text := fmt.Sprintf(
		"Generate a %s component named %q sized %.0fx%.0f pixels. Return only source code.\n",
		m.SemanticType, m.Name, m.Width, m.Height,
	)
	return Spec{
		Text:            text,
		EstimatedTokens: tokenbudget.EstimateTokens(text),
		Strategy:        StrategyLastResort,
	}
}

func buildDetailed(target *metadata.Simplified, siblings []*metadata.Simplified) *Doc {
	doc := buildVisual(target)
	doc.Purpose = "Generate source code for a UI component, using the surrounding components as layout context."

	if len(siblings) > maxDetailedSiblings {
		siblings = siblings[:maxDetailedSiblings]
	}
	var rels []string
	var sibs []string
	for _, s := range siblings {
		if s == nil || s.ID == target.ID {
			continue
		}
		sibs = append(sibs, fmt.Sprintf("%s %q at (%.0f, %.0f) sized %.0fx%.0f",
			s.SemanticType, s.Name, s.X, s.Y, s.Width, s.Height))
		rels = append(rels, relate(target, s)...)
	}
	if len(sibs) > 0 {
		doc.Children = strings.Join(sibs, "\n")
	}
	if len(rels) > 0 {
		doc.Relationships = strings.Join(rels, "\n")
	}
	return doc
}

// relate derives pairwise visual relationships from bounding geometry.
func relate(a, b *metadata.Simplified) []string {
	var out []string
	const alignTolerance = 2.0
	if overlaps(a, b) {
		out = append(out, fmt.Sprintf("%q overlaps %q", a.Name, b.Name))
	}
	if abs(a.X-b.X) <= alignTolerance {
		out = append(out, fmt.Sprintf("%q and %q are left-aligned", a.Name, b.Name))
	}
	if abs(a.Y-b.Y) <= alignTolerance {
		out = append(out, fmt.Sprintf("%q and %q are top-aligned", a.Name, b.Name))
	}
	return out
}

func overlaps(a, b *metadata.Simplified) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func buildVisual(m *metadata.Simplified) *Doc {
	doc := &Doc{
		Purpose:   "Generate source code that reproduces this component's exact visual appearance.",
		Component: fmt.Sprintf("%s %q (%s), %.0fx%.0f px at (%.0f, %.0f)", m.SemanticType, m.Name, m.Type, m.Width, m.Height, m.X, m.Y),
		Metadata:  tokenbudget.Serialize(m),
		Guidance:  guidanceFor(m),
		Instructions: []string{
			"Reproduce every color, font, spacing, and effect value exactly as specified.",
			"Do not substitute approximate colors or default theme values.",
			"Aim for the closest achievable visual match to the source design.",
		},
	}
	if detail := layoutDetail(m); detail != "" {
		doc.LayoutDetail = detail
	}
	if len(m.Children) > 0 {
		var lines []string
		for _, ch := range m.Children {
			line := fmt.Sprintf("%s %q %.0fx%.0f", ch.SemanticType, ch.Name, ch.Width, ch.Height)
			if ch.Text != "" {
				line += fmt.Sprintf(" text=%q", ch.Text)
			}
			lines = append(lines, line)
		}
		doc.Children = strings.Join(lines, "\n")
	}
	return doc
}

func buildMinimal(m *metadata.Simplified) *Doc {
	var style []string
	if len(m.Fills) > 0 {
		style = append(style, "background "+m.Fills[0])
	}
	if m.Typography != nil && m.Typography.FontSize > 0 {
		style = append(style, fmt.Sprintf("%.0fpx %s", m.Typography.FontSize, m.Typography.FontFamily))
	}
	if m.CornerRadius > 0 {
		style = append(style, fmt.Sprintf("radius %.0fpx", m.CornerRadius))
	}
	summary := fmt.Sprintf("A %s sized %.0fx%.0f px.", m.SemanticType, m.Width, m.Height)
	if len(style) > 0 {
		summary += " Style: " + strings.Join(style, ", ") + "."
	}
	if m.Text != "" {
		summary += fmt.Sprintf(" Text content: %q.", m.Text)
	}
	return &Doc{
		Purpose:   "Generate source code for a simple UI component.",
		Component: summary,
	}
}

func layoutDetail(m *metadata.Simplified) string {
	if m.Layout == nil {
		return ""
	}
	l := m.Layout
	var parts []string
	if l.Mode != "" {
		parts = append(parts, "auto-layout "+strings.ToLower(l.Mode))
	}
	if l.PaddingLeft+l.PaddingRight+l.PaddingTop+l.PaddingBottom > 0 {
		parts = append(parts, fmt.Sprintf("padding %g/%g/%g/%g", l.PaddingTop, l.PaddingRight, l.PaddingBottom, l.PaddingLeft))
	}
	if l.ItemSpacing > 0 {
		parts = append(parts, fmt.Sprintf("item spacing %g", l.ItemSpacing))
	}
	return strings.Join(parts, ", ")
}

// guidanceFor returns per-semantic-type implementation guidance.
func guidanceFor(m *metadata.Simplified) string {
	switch m.SemanticType {
	case metadata.SemanticButton:
		if len(m.Effects) > 0 {
			return "Use a contained button variant; the component carries elevation."
		}
		return "Use a flat or outlined button variant matching the fill and border."
	case metadata.SemanticCard:
		return "Use a card surface with the specified corner radius and shadow."
	case metadata.SemanticNavigation:
		return "Use a horizontal or vertical navigation container matching the layout mode."
	case metadata.SemanticInput:
		return "Use a text input with the specified placeholder text and border styling."
	case metadata.SemanticText:
		return "Use a typography primitive with the exact font family, size, and weight."
	case metadata.SemanticIcon:
		return "Use an icon primitive sized exactly to the given dimensions."
	case metadata.SemanticImage:
		return "Use an image element with the given dimensions and object-fit cover."
	case metadata.SemanticContainer:
		return "Use a layout container; position children per the layout section."
	}
	return ""
}
