// Package metadata extracts a bounded, semantically classified description
// of a design node for prompt compilation.
package metadata

// SemanticType is the heuristic UI role of a node.
type SemanticType string

const (
	SemanticText       SemanticType = "text"
	SemanticButton     SemanticType = "button"
	SemanticNavigation SemanticType = "navigation"
	SemanticCard       SemanticType = "card"
	SemanticInput      SemanticType = "input"
	SemanticContainer  SemanticType = "container"
	SemanticIcon       SemanticType = "icon"
	SemanticImage      SemanticType = "image"
	SemanticGeneric    SemanticType = "generic"
)

// Simplified is a depth- and breadth-bounded copy of a node subtree.
// Optional fields are present only when their inclusion policy was
// satisfied during extraction. Values are never mutated after
// construction; the budget optimizer works on deep copies.
type Simplified struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	SemanticType SemanticType `json:"semanticType"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Text         string   `json:"text,omitempty"`
	SampledTexts []string `json:"sampledTexts,omitempty"`

	BackgroundColor string   `json:"backgroundColor,omitempty"`
	Fills           []string `json:"fills,omitempty"`
	Strokes         []string `json:"strokes,omitempty"`
	StrokeWeight    float64  `json:"strokeWeight,omitempty"`
	CornerRadius    float64  `json:"cornerRadius,omitempty"`

	Layout     *Layout     `json:"layout,omitempty"`
	Effects    []Effect    `json:"effects,omitempty"`
	Typography *Typography `json:"typography,omitempty"`

	Constraints    *Constraints `json:"constraints,omitempty"`
	ExportFormats  []string     `json:"exportFormats,omitempty"`
	Interactive    bool         `json:"interactive,omitempty"`

	Children []*Simplified `json:"children,omitempty"`
}

// Layout captures auto-layout and spacing attributes.
type Layout struct {
	Mode           string  `json:"mode,omitempty"`
	PaddingLeft    float64 `json:"paddingLeft,omitempty"`
	PaddingRight   float64 `json:"paddingRight,omitempty"`
	PaddingTop     float64 `json:"paddingTop,omitempty"`
	PaddingBottom  float64 `json:"paddingBottom,omitempty"`
	ItemSpacing    float64 `json:"itemSpacing,omitempty"`
}

// Effect is a visible shadow or blur.
type Effect struct {
	Type    string  `json:"type"`
	Radius  float64 `json:"radius,omitempty"`
	Color   string  `json:"color,omitempty"`
	OffsetX float64 `json:"offsetX,omitempty"`
	OffsetY float64 `json:"offsetY,omitempty"`
}

// Typography captures text styling.
type Typography struct {
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontWeight    float64 `json:"fontWeight,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	TextAlign     string  `json:"textAlign,omitempty"`
}

// Constraints pins a node relative to its parent.
type Constraints struct {
	Horizontal string `json:"horizontal,omitempty"`
	Vertical   string `json:"vertical,omitempty"`
}

// Clone returns a deep copy, so optimization steps can produce new values
// without touching the original.
func (s *Simplified) Clone() *Simplified {
	if s == nil {
		return nil
	}
	out := *s
	out.SampledTexts = append([]string(nil), s.SampledTexts...)
	out.Fills = append([]string(nil), s.Fills...)
	out.Strokes = append([]string(nil), s.Strokes...)
	out.Effects = append([]Effect(nil), s.Effects...)
	out.ExportFormats = append([]string(nil), s.ExportFormats...)
	if s.Layout != nil {
		l := *s.Layout
		out.Layout = &l
	}
	if s.Typography != nil {
		t := *s.Typography
		out.Typography = &t
	}
	if s.Constraints != nil {
		c := *s.Constraints
		out.Constraints = &c
	}
	if s.Children != nil {
		out.Children = make([]*Simplified, len(s.Children))
		for i, ch := range s.Children {
			out.Children[i] = ch.Clone()
		}
	}
	return &out
}

// Depth returns the nesting depth of the metadata tree; a leaf is depth 1.
func (s *Simplified) Depth() int {
	if s == nil {
		return 0
	}
	max := 0
	for _, ch := range s.Children {
		if d := ch.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}
