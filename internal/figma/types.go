package figma

// FileResponse is the document returned by the file endpoint.
type FileResponse struct {
	Name          string `json:"name"`
	LastModified  string `json:"lastModified"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	Version       string `json:"version"`
	Document      Node   `json:"document"`
	SchemaVersion int    `json:"schemaVersion"`
}

// ImagesResponse maps node IDs to rendered preview URLs.
type ImagesResponse struct {
	Err    string            `json:"err"`
	Images map[string]string `json:"images"`
}

// Node is a single element in the design tree. The wire format is
// duck-typed per node type, so optional fields are pointers or omitempty
// values and must be presence-checked before use.
type Node struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Type                string            `json:"type"`
	Visible             *bool             `json:"visible,omitempty"`
	Children            []Node            `json:"children,omitempty"`
	BackgroundColor     *Color            `json:"backgroundColor,omitempty"`
	Fills               []Paint           `json:"fills,omitempty"`
	Strokes             []Paint           `json:"strokes,omitempty"`
	StrokeWeight        float64           `json:"strokeWeight,omitempty"`
	CornerRadius        float64           `json:"cornerRadius,omitempty"`
	Effects             []Effect          `json:"effects,omitempty"`
	Characters          string            `json:"characters,omitempty"`
	Style               *TypeStyle        `json:"style,omitempty"`
	AbsoluteBoundingBox *Rectangle        `json:"absoluteBoundingBox,omitempty"`
	Constraints         *LayoutConstraint `json:"constraints,omitempty"`
	LayoutMode          string            `json:"layoutMode,omitempty"`
	PaddingLeft         float64           `json:"paddingLeft,omitempty"`
	PaddingRight        float64           `json:"paddingRight,omitempty"`
	PaddingTop          float64           `json:"paddingTop,omitempty"`
	PaddingBottom       float64           `json:"paddingBottom,omitempty"`
	ItemSpacing         float64           `json:"itemSpacing,omitempty"`
	ExportSettings      []ExportSetting   `json:"exportSettings,omitempty"`
}

// IsVisible treats a missing visible flag as visible, matching the wire format.
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// Width returns the bounding width, or 0 when geometry is missing.
func (n *Node) Width() float64 {
	if n.AbsoluteBoundingBox == nil {
		return 0
	}
	return n.AbsoluteBoundingBox.Width
}

// Height returns the bounding height, or 0 when geometry is missing.
func (n *Node) Height() float64 {
	if n.AbsoluteBoundingBox == nil {
		return 0
	}
	return n.AbsoluteBoundingBox.Height
}

// Rectangle is an absolute bounding box in canvas coordinates.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Paint is a fill or stroke entry.
type Paint struct {
	Type    string   `json:"type"`
	Visible *bool    `json:"visible,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Color   *Color   `json:"color,omitempty"`
}

// IsVisible treats a missing visible flag as visible.
func (p *Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Effect is a shadow or blur applied to a node.
type Effect struct {
	Type    string  `json:"type"`
	Visible *bool   `json:"visible,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
	Color   *Color  `json:"color,omitempty"`
	Offset  *Vector `json:"offset,omitempty"`
	Spread  float64 `json:"spread,omitempty"`
}

// IsVisible treats a missing visible flag as visible.
func (e *Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// Vector is a 2D offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TypeStyle carries typography attributes on text nodes.
type TypeStyle struct {
	FontFamily          string  `json:"fontFamily,omitempty"`
	FontWeight          float64 `json:"fontWeight,omitempty"`
	FontSize            float64 `json:"fontSize,omitempty"`
	LineHeightPx        float64 `json:"lineHeightPx,omitempty"`
	LetterSpacing       float64 `json:"letterSpacing,omitempty"`
	TextAlignHorizontal string  `json:"textAlignHorizontal,omitempty"`
}

// LayoutConstraint pins a node relative to its parent.
type LayoutConstraint struct {
	Vertical   string `json:"vertical,omitempty"`
	Horizontal string `json:"horizontal,omitempty"`
}

// ExportSetting records an export preset attached to a node.
type ExportSetting struct {
	Suffix string `json:"suffix,omitempty"`
	Format string `json:"format,omitempty"`
}
