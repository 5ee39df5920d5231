// Package walker traverses a raw design tree and selects candidate nodes
// for generation.
package walker

import (
	"strings"

	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
)

// Options controls which nodes qualify and how far traversal goes.
// Zero values mean "no limit" except MinSize, where 0 admits zero-sized
// geometry.
type Options struct {
	IncludeTypes  []string
	ExcludeTypes  []string
	MinSize       float64
	MaxSize       float64
	MaxDepth      int
	MaxComponents int
}

// Page is one slice of a paged component listing.
type Page struct {
	Items   []figma.Node `json:"items"`
	Total   int          `json:"total"`
	HasMore bool         `json:"hasMore"`
}

// Find walks nodes depth-first in document order and returns every node
// that qualifies under opts. Traversal descends into children whether or
// not the parent qualified, and stops early once MaxDepth or MaxComponents
// is reached; partial results are valid.
func Find(nodes []figma.Node, opts Options) []figma.Node {
	found := make([]figma.Node, 0, 16)
	for i := range nodes {
		if !walk(&nodes[i], opts, 0, &found) {
			break
		}
	}
	return found
}

// walk returns false once the component cap is hit, which stops the whole
// traversal.
func walk(n *figma.Node, opts Options, depth int, found *[]figma.Node) bool {
	if opts.MaxComponents > 0 && len(*found) >= opts.MaxComponents {
		return false
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return true
	}
	if qualifies(n, opts) {
		*found = append(*found, *n)
		if opts.MaxComponents > 0 && len(*found) >= opts.MaxComponents {
			return false
		}
	}
	for i := range n.Children {
		if !walk(&n.Children[i], opts, depth+1, found) {
			return false
		}
	}
	return true
}

func qualifies(n *figma.Node, opts Options) bool {
	if len(opts.IncludeTypes) > 0 && !containsType(opts.IncludeTypes, n.Type) {
		return false
	}
	if containsType(opts.ExcludeTypes, n.Type) {
		return false
	}
	w, h := n.Width(), n.Height()
	if opts.MinSize > 0 && (w < opts.MinSize || h < opts.MinSize) {
		return false
	}
	if opts.MaxSize > 0 && (w > opts.MaxSize || h > opts.MaxSize) {
		return false
	}
	return true
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if strings.EqualFold(v, t) {
			return true
		}
	}
	return false
}

// ByType returns the subset of nodes whose type matches t.
func ByType(nodes []figma.Node, t string) []figma.Node {
	out := make([]figma.Node, 0, len(nodes))
	for i := range nodes {
		if strings.EqualFold(nodes[i].Type, t) {
			out = append(out, nodes[i])
		}
	}
	return out
}

// TopLevel returns only the depth-1 children of the given roots, the view
// used for page-structure prompts.
func TopLevel(roots []figma.Node) []figma.Node {
	out := make([]figma.Node, 0, 16)
	for i := range roots {
		out = append(out, roots[i].Children...)
	}
	return out
}

// Paginate slices nodes into page-sized views. Pages are 1-based; an
// out-of-range page yields an empty item list with the correct total.
func Paginate(nodes []figma.Node, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	total := len(nodes)
	start := (page - 1) * pageSize
	if start >= total {
		return Page{Items: []figma.Node{}, Total: total, HasMore: false}
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Page{
		Items:   nodes[start:end],
		Total:   total,
		HasMore: end < total,
	}
}
