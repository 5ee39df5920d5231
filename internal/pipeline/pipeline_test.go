package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/figma"
	"github.com/darkxdd/FigmaCursor-sub000/internal/generator"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llm"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
	"github.com/darkxdd/FigmaCursor-sub000/internal/tester"
)

type fixedClient struct {
	calls int
	out   string
}

func (f *fixedClient) Name() string                { return "fixed" }
func (f *fixedClient) Close() error                { return nil }
func (f *fixedClient) CountTokens(text string) int { return len(text) / 4 }

func (f *fixedClient) GenerateCode(ctx context.Context, prompt string, params llmclient.Params) (string, error) {
	f.calls++
	return f.out, nil
}

func testPipeline(out string) (*Pipeline, *fixedClient) {
	fake := &fixedClient{out: out}
	gen := generator.New(fake, llm.RetryPolicy{MaxRetries: 0, Base: time.Millisecond}, generator.Config{})
	return New(nil, gen), fake
}

func buttonNode() *figma.Node {
	return &figma.Node{
		ID: "1:2", Name: "Primary Button", Type: "COMPONENT",
		AbsoluteBoundingBox: &figma.Rectangle{X: 10, Y: 20, Width: 120, Height: 40},
		Children: []figma.Node{
			{
				ID: "1:3", Name: "Label", Type: "TEXT", Characters: "Submit",
				AbsoluteBoundingBox: &figma.Rectangle{X: 40, Y: 30, Width: 60, Height: 20},
			},
		},
	}
}

func TestGenerateNodeProducesValidatedCode(t *testing.T) {
	p, fake := testPipeline("```jsx\nconst PrimaryButton = () => <button>Submit</button>;\n```")

	res, err := p.GenerateNode(context.Background(), buttonNode(), nil, Options{})
	tester.NoErr(t, err)
	tester.Eq(t, "1:2", res.NodeID)
	tester.Eq(t, "detailed", res.Strategy)
	tester.Eq(t, 1, fake.calls)
	tester.Contains(t, res.Code, "import React")
	tester.Contains(t, res.Code, "export default PrimaryButton;")
}

func TestGenerateNodeInvalidCodeDiscardsDraft(t *testing.T) {
	p, _ := testPipeline("Sure! Here is a description of the component instead of code.")

	res, err := p.GenerateNode(context.Background(), buttonNode(), nil, Options{})
	tester.Eq(t, apperr.KindInvalidCode, apperr.KindOf(err))
	tester.Eq(t, "", res.Code)
}

func TestGenerateNodeIrreducibleBudget(t *testing.T) {
	p, fake := testPipeline("const X = () => null;")

	// Even fully degraded metadata estimates above one token, so the
	// ladder exhausts and nothing is dispatched.
	_, err := p.GenerateNode(context.Background(), buttonNode(), nil, Options{MetadataBudget: 1})
	tester.Eq(t, apperr.KindTokenBudget, apperr.KindOf(err))
	tester.Eq(t, 0, fake.calls)
}
