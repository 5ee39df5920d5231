// Package pipeline composes the extraction, budgeting, compilation, and
// generation stages into end-to-end component generation.
package pipeline

import (
	"context"
	"fmt"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
	"github.com/darkxdd/FigmaCursor-sub000/internal/generator"
	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
	"github.com/darkxdd/FigmaCursor-sub000/internal/tokenbudget"
	"github.com/darkxdd/FigmaCursor-sub000/internal/validate"
	"github.com/darkxdd/FigmaCursor-sub000/internal/walker"
)

// Options are the user-level knobs threaded through every stage.
type Options struct {
	Walker   walker.Options
	Simplify metadata.Options
	// MetadataBudget caps the serialized metadata token estimate before
	// prompt compilation.
	MetadataBudget int
	Ladder         []generator.Rung
}

func (o Options) withDefaults() Options {
	if o.MetadataBudget <= 0 {
		o.MetadataBudget = 2000
	}
	if len(o.Walker.IncludeTypes) == 0 {
		o.Walker.IncludeTypes = []string{"COMPONENT", "INSTANCE", "FRAME"}
	}
	return o
}

// Pipeline drives one design file through fetch, walk, simplify,
// optimize, compile, generate, and validate.
type Pipeline struct {
	source *figma.Client
	gen    *generator.Service
}

func New(source *figma.Client, gen *generator.Service) *Pipeline {
	return &Pipeline{source: source, gen: gen}
}

// Components lists candidate nodes in a file, paged.
func (p *Pipeline) Components(ctx context.Context, fileKey string, opts walker.Options, page, pageSize int) (walker.Page, error) {
	file, err := p.source.GetFile(ctx, fileKey)
	if err != nil {
		return walker.Page{}, err
	}
	found := walker.Find(file.Document.Children, opts)
	return walker.Paginate(found, page, pageSize), nil
}

// Previews fetches rendered preview-image URLs keyed by node id.
func (p *Pipeline) Previews(ctx context.Context, fileKey string, nodeIDs []string) (map[string]string, error) {
	return p.source.GetImages(ctx, fileKey, nodeIDs)
}

// ComponentResult pairs a generated component with its source node.
type ComponentResult struct {
	NodeID   string
	Name     string
	Code     string
	Strategy string
	Err      error
}

// GenerateNode runs stages 2-6 for a single resolved node.
func (p *Pipeline) GenerateNode(ctx context.Context, node *figma.Node, siblings []figma.Node, opts Options) (ComponentResult, error) {
	opts = opts.withDefaults()
	res := ComponentResult{NodeID: node.ID, Name: node.Name}

	meta := metadata.Simplify(node, opts.Simplify)
	if meta == nil {
		return res, apperr.New("pipeline.GenerateNode", apperr.KindValidation,
			fmt.Errorf("node %s produced no metadata", node.ID))
	}
	meta, _ = tokenbudget.Optimize(meta, opts.MetadataBudget)
	// Optimize stops early once the estimate fits, so still being over
	// budget here means the full ladder ran and the metadata is irreducible.
	if !tokenbudget.FitsBudget(meta, opts.MetadataBudget) {
		res.Err = apperr.New("pipeline.GenerateNode", apperr.KindTokenBudget,
			fmt.Errorf("metadata estimate exceeds budget %d after full degradation", opts.MetadataBudget))
		return res, res.Err
	}

	sibs := make([]*metadata.Simplified, 0, len(siblings))
	for i := range siblings {
		if siblings[i].ID == node.ID {
			continue
		}
		if sib := metadata.Simplify(&siblings[i], metadata.Options{MaxDepth: 1}); sib != nil {
			sibs = append(sibs, sib)
		}
	}

	out, err := p.gen.GenerateWithFallback(ctx, meta, sibs, opts.Ladder)
	if err != nil {
		res.Err = err
		return res, err
	}

	code, err := validate.Clean(out.Code)
	if err != nil {
		// A validation failure discards the draft; corrupt code is never
		// surfaced to the caller.
		res.Err = err
		return res, err
	}
	res.Code = validate.Enhance(code, meta)
	res.Strategy = string(out.Strategy)
	return res, nil
}

// Generate resolves nodeID inside fileKey and generates code for it.
func (p *Pipeline) Generate(ctx context.Context, fileKey, nodeID string, opts Options) (ComponentResult, error) {
	opts = opts.withDefaults()
	file, err := p.source.GetFile(ctx, fileKey)
	if err != nil {
		return ComponentResult{}, err
	}
	node, siblings := findNode(&file.Document, nodeID)
	if node == nil {
		return ComponentResult{}, apperr.New("pipeline.Generate", apperr.KindNotFound,
			fmt.Errorf("node %s not found in file %s", nodeID, fileKey))
	}
	return p.GenerateNode(ctx, node, siblings, opts)
}

// findNode locates a node by ID and returns it with its siblings.
func findNode(root *figma.Node, id string) (*figma.Node, []figma.Node) {
	if root.ID == id {
		return root, nil
	}
	for i := range root.Children {
		if root.Children[i].ID == id {
			return &root.Children[i], root.Children
		}
	}
	for i := range root.Children {
		if n, sibs := findNode(&root.Children[i], id); n != nil {
			return n, sibs
		}
	}
	return nil, nil
}
