package metadata

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
)

// Options bounds the extraction. Zero values fall back to defaults.
type Options struct {
	MaxDepth    int
	MaxChildren int
	// TokenBudget is a soft per-subtree size hint. It is halved (quartered
	// for wide nodes) at each recursion and caps extracted text length.
	TokenBudget int
}

const (
	defaultMaxDepth    = 3
	defaultMaxChildren = 5
	defaultTokenBudget = 2000

	// paddingInclusionMin is the padding above which layout details are
	// kept even for non-container types.
	paddingInclusionMin = 4

	maxSampledTexts = 3
)

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.MaxChildren <= 0 {
		o.MaxChildren = defaultMaxChildren
	}
	if o.TokenBudget <= 0 {
		o.TokenBudget = defaultTokenBudget
	}
	return o
}

// Simplify extracts a bounded description of node. It is a pure function:
// identical node and options always produce identical output. A nil node
// yields nil. Malformed nodes degrade to absent fields, never to errors.
func Simplify(node *figma.Node, opts Options) *Simplified {
	if node == nil {
		return nil
	}
	return simplify(node, opts.withDefaults(), 1)
}

func simplify(node *figma.Node, opts Options, depth int) *Simplified {
	out := &Simplified{
		ID:           node.ID,
		Name:         node.Name,
		Type:         node.Type,
		SemanticType: Classify(node),
		Width:        node.Width(),
		Height:       node.Height(),
	}
	if node.AbsoluteBoundingBox != nil {
		out.X = node.AbsoluteBoundingBox.X
		out.Y = node.AbsoluteBoundingBox.Y
	}

	out.Text = truncateText(primaryText(node), opts.TokenBudget)
	out.SampledTexts = sampleTexts(node, opts.TokenBudget)

	if node.BackgroundColor != nil {
		out.BackgroundColor = hexColor(node.BackgroundColor)
	}
	out.Fills = paintColors(node.Fills)
	out.Strokes = paintColors(node.Strokes)
	if len(out.Strokes) > 0 {
		out.StrokeWeight = node.StrokeWeight
	}
	out.CornerRadius = node.CornerRadius

	if includeLayout(node, out.SemanticType) {
		out.Layout = &Layout{
			Mode:          node.LayoutMode,
			PaddingLeft:   node.PaddingLeft,
			PaddingRight:  node.PaddingRight,
			PaddingTop:    node.PaddingTop,
			PaddingBottom: node.PaddingBottom,
			ItemSpacing:   node.ItemSpacing,
		}
	}
	out.Effects = visibleEffects(node, out.SemanticType)
	if node.Style != nil {
		out.Typography = &Typography{
			FontFamily:    node.Style.FontFamily,
			FontWeight:    node.Style.FontWeight,
			FontSize:      node.Style.FontSize,
			LineHeight:    node.Style.LineHeightPx,
			LetterSpacing: node.Style.LetterSpacing,
			TextAlign:     node.Style.TextAlignHorizontal,
		}
	}
	if node.Constraints != nil {
		out.Constraints = &Constraints{
			Horizontal: node.Constraints.Horizontal,
			Vertical:   node.Constraints.Vertical,
		}
	}
	for i := range node.ExportSettings {
		if f := strings.TrimSpace(node.ExportSettings[i].Format); f != "" {
			out.ExportFormats = append(out.ExportFormats, f)
		}
	}
	out.Interactive = out.SemanticType == SemanticButton || out.SemanticType == SemanticInput

	if depth < opts.MaxDepth {
		childOpts := opts
		childOpts.TokenBudget = childBudget(opts.TokenBudget, len(node.Children))
		for i := range node.Children {
			if len(out.Children) >= opts.MaxChildren {
				break
			}
			ch := &node.Children[i]
			if !ch.IsVisible() {
				continue
			}
			out.Children = append(out.Children, simplify(ch, childOpts, depth+1))
		}
	}

	cleanup(out)
	return out
}

// childBudget halves the sub-budget hint per level, quartering it for wide
// nodes so broad trees shrink faster.
func childBudget(budget, childCount int) int {
	div := 2
	if childCount > 4 {
		div = 4
	}
	b := budget / div
	if b < 50 {
		b = 50
	}
	return b
}

func includeLayout(n *figma.Node, sem SemanticType) bool {
	if sem == SemanticContainer || sem == SemanticCard {
		return n.LayoutMode != "" || maxPadding(n) > 0
	}
	return maxPadding(n) > paddingInclusionMin
}

func maxPadding(n *figma.Node) float64 {
	m := n.PaddingLeft
	for _, p := range []float64{n.PaddingRight, n.PaddingTop, n.PaddingBottom} {
		if p > m {
			m = p
		}
	}
	return m
}

func visibleEffects(n *figma.Node, sem SemanticType) []Effect {
	if len(n.Effects) == 0 {
		return nil
	}
	elevated := sem == SemanticButton || sem == SemanticCard
	out := make([]Effect, 0, len(n.Effects))
	for i := range n.Effects {
		e := &n.Effects[i]
		if !e.IsVisible() && !elevated {
			continue
		}
		info := Effect{Type: e.Type, Radius: e.Radius}
		if e.Color != nil {
			info.Color = hexColor(e.Color)
		}
		if e.Offset != nil {
			info.OffsetX = e.Offset.X
			info.OffsetY = e.Offset.Y
		}
		out = append(out, info)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// primaryText returns the node's own text, or the first text found in a
// shallow scan of its descendants.
func primaryText(n *figma.Node) string {
	if strings.TrimSpace(n.Characters) != "" {
		return n.Characters
	}
	for i := range n.Children {
		if t := primaryText(&n.Children[i]); t != "" {
			return t
		}
	}
	return ""
}

// sampleTexts gathers additional text content beyond the primary line, up
// to maxSampledTexts entries.
func sampleTexts(n *figma.Node, budget int) []string {
	var texts []string
	collectTexts(n, &texts)
	if len(texts) <= 1 {
		return nil
	}
	texts = texts[1:]
	if len(texts) > maxSampledTexts {
		texts = texts[:maxSampledTexts]
	}
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		out = append(out, truncateText(t, budget/4))
	}
	return out
}

func collectTexts(n *figma.Node, acc *[]string) {
	if len(*acc) > maxSampledTexts {
		return
	}
	if t := strings.TrimSpace(n.Characters); t != "" {
		*acc = append(*acc, t)
	}
	for i := range n.Children {
		collectTexts(&n.Children[i], acc)
	}
}

// truncateText caps text at roughly budget tokens worth of characters.
func truncateText(t string, budget int) string {
	t = strings.TrimSpace(t)
	if budget <= 0 {
		return t
	}
	max := budget * 4
	if max < 40 {
		max = 40
	}
	if len(t) <= max {
		return t
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	for max > 0 && !utf8.RuneStart(t[max]) {
		max--
	}
	return t[:max]
}

// cleanup deletes empty optional fields so the serialized form stays
// minimal.
func cleanup(s *Simplified) {
	if s.Layout != nil && *s.Layout == (Layout{}) {
		s.Layout = nil
	}
	if s.Typography != nil && *s.Typography == (Typography{}) {
		s.Typography = nil
	}
	if s.Constraints != nil && *s.Constraints == (Constraints{}) {
		s.Constraints = nil
	}
	if len(s.Fills) == 0 {
		s.Fills = nil
	}
	if len(s.Strokes) == 0 {
		s.Strokes = nil
	}
	if len(s.SampledTexts) == 0 {
		s.SampledTexts = nil
	}
	if len(s.Children) == 0 {
		s.Children = nil
	}
}

func paintColors(paints []figma.Paint) []string {
	if len(paints) == 0 {
		return nil
	}
	out := make([]string, 0, len(paints))
	for i := range paints {
		p := &paints[i]
		if !p.IsVisible() || p.Color == nil {
			continue
		}
		out = append(out, hexColor(p.Color))
	}
	return out
}

func hexColor(c *figma.Color) string {
	r := int(c.R*255 + 0.5)
	g := int(c.G*255 + 0.5)
	b := int(c.B*255 + 0.5)
	if c.A < 1 {
		return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", r, g, b, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
