// Package prompt compiles simplified metadata into generation prompts.
package prompt

import (
	"bytes"
	"strings"

	"github.com/darkxdd/FigmaCursor-sub000/internal/tokenbudget"
)

// Strategy names a prompt rendering strategy, richest first.
type Strategy string

const (
	StrategyDetailed      Strategy = "detailed"
	StrategyVisual        Strategy = "visual-similarity"
	StrategyMinimal       Strategy = "minimal"
	StrategyPage          Strategy = "page"
	StrategyPageOptimized Strategy = "page-optimized"
	// StrategyLastResort is the absolute fallback template that always
	// fits; it is never requested directly.
	StrategyLastResort Strategy = "last-resort"
)

// stepDown maps each strategy to the next terser one.
func stepDown(s Strategy) (Strategy, bool) {
	switch s {
	case StrategyDetailed:
		return StrategyVisual, true
	case StrategyVisual:
		return StrategyMinimal, true
	case StrategyPage:
		return StrategyPageOptimized, true
	case StrategyPageOptimized:
		return StrategyMinimal, true
	}
	return s, false
}

// Spec is a compiled prompt with its estimated cost and the strategy that
// produced it.
type Spec struct {
	Text            string
	EstimatedTokens int
	Strategy        Strategy
}

// Doc holds the typed sections of a prompt before rendering. Optional
// sections are cleared by the degradation ladder before the single
// serialization pass; rendered text is never post-processed.
type Doc struct {
	Purpose       string
	Component     string
	Metadata      string
	LayoutDetail  string
	Children      string
	Relationships string
	Guidance      string
	Instructions  []string
}

// DegradeStep removes one optional section in fixed priority order:
// instructions, relationships, children, layout detail. It reports false
// when nothing is left to remove.
func (d *Doc) DegradeStep() bool {
	switch {
	case len(d.Instructions) > 0:
		d.Instructions = nil
	case d.Relationships != "":
		d.Relationships = ""
	case d.Children != "":
		d.Children = ""
	case d.LayoutDetail != "":
		d.LayoutDetail = ""
	default:
		return false
	}
	return true
}

// Render serializes the doc into the prompt text. Every prompt ends with
// the mandatory output contract regardless of degradation.
func (d *Doc) Render() string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", d.Purpose)
	writeSection(&buf, "COMPONENT", d.Component)
	writeSection(&buf, "METADATA", d.Metadata)
	writeSection(&buf, "LAYOUT", d.LayoutDetail)
	writeSection(&buf, "CHILDREN", d.Children)
	writeSection(&buf, "RELATIONSHIPS", d.Relationships)
	writeSection(&buf, "GUIDANCE", d.Guidance)
	writeSection(&buf, "INSTRUCTIONS", formatList(d.Instructions))
	writeSection(&buf, "OUTPUT_CONTRACT", formatList(outputContract))
	return strings.TrimSpace(buf.String()) + "\n"
}

// Estimate renders the doc and wraps it in a Spec.
func (d *Doc) Estimate(strategy Strategy) Spec {
	text := d.Render()
	return Spec{
		Text:            text,
		EstimatedTokens: tokenbudget.EstimateTokens(text),
		Strategy:        strategy,
	}
}

// outputContract is appended to every compiled prompt.
var outputContract = []string{
	"Return ONLY source code, with no commentary or markdown fences.",
	"Preserve all literal text content verbatim.",
	"Match the exact numeric dimensions given above.",
	"Implement the component as the identified semantic primitive.",
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
