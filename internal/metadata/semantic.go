package metadata

import (
	"strings"

	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
)

// containerMinArea is the bounding area above which a frame with children
// is treated as a container rather than a generic block.
const containerMinArea = 10000

// iconMaxSize bounds both dimensions of a node classified as an icon.
const iconMaxSize = 48

// Classify derives the semantic UI role of a node from its name and type.
// Name keywords win over node type, so a frame named "Submit Button" is a
// button, not a container.
func Classify(n *figma.Node) SemanticType {
	name := strings.ToLower(n.Name)

	switch {
	case hasAny(name, "button", "btn", "cta"):
		return SemanticButton
	case hasAny(name, "nav", "menu", "header", "footer", "sidebar"):
		return SemanticNavigation
	case hasAny(name, "card", "tile", "panel"):
		return SemanticCard
	case hasAny(name, "input", "field", "form", "textbox", "search"):
		return SemanticInput
	case hasAny(name, "icon", "ico"):
		return SemanticIcon
	case hasAny(name, "image", "img", "photo", "avatar", "picture"):
		return SemanticImage
	}

	switch strings.ToUpper(n.Type) {
	case "TEXT":
		return SemanticText
	case "VECTOR", "BOOLEAN_OPERATION", "STAR", "LINE", "POLYGON":
		if n.Width() <= iconMaxSize && n.Height() <= iconMaxSize {
			return SemanticIcon
		}
		return SemanticImage
	case "RECTANGLE", "ELLIPSE":
		if hasImageFill(n) {
			return SemanticImage
		}
	case "FRAME", "GROUP", "COMPONENT", "INSTANCE", "COMPONENT_SET", "SECTION":
		if len(n.Children) > 0 && n.Width()*n.Height() >= containerMinArea {
			return SemanticContainer
		}
	}
	return SemanticGeneric
}

func hasAny(name string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

func hasImageFill(n *figma.Node) bool {
	for i := range n.Fills {
		if strings.EqualFold(n.Fills[i].Type, "IMAGE") && n.Fills[i].IsVisible() {
			return true
		}
	}
	return false
}
