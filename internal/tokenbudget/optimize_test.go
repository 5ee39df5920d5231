package tokenbudget

import (
	"strings"
	"testing"

	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
	"github.com/darkxdd/FigmaCursor-sub000/internal/tester"
)

func TestEstimateTokens(t *testing.T) {
	tester.Eq(t, EstimateTokens(""), 0)
	// 35 chars -> ceil(35/3.5)=10, +10% overhead = 11.
	tester.Eq(t, EstimateTokens(strings.Repeat("x", 35)), 11)
	// Estimates scale with length.
	tester.True(t, EstimateTokens(strings.Repeat("x", 700)) > EstimateTokens(strings.Repeat("x", 70)))
}

// heavyMetadata builds a tree large enough that every ladder step has
// something to remove.
func heavyMetadata() *metadata.Simplified {
	child := func(id string) *metadata.Simplified {
		return &metadata.Simplified{
			ID: id, Name: "child " + id, Type: "FRAME", SemanticType: metadata.SemanticGeneric,
			Width: 200, Height: 100,
			Fills:   []string{"#111111", "#222222", "#333333"},
			Strokes: []string{"#444444", "#555555"},
			Effects: []metadata.Effect{{Type: "DROP_SHADOW", Radius: 4}},
			Children: []*metadata.Simplified{
				{ID: id + "-g", Name: "grandchild", Type: "TEXT", SemanticType: metadata.SemanticText,
					Text: strings.Repeat("lorem ipsum ", 40)},
			},
		}
	}
	return &metadata.Simplified{
		ID: "root", Name: "Hero Section", Type: "FRAME", SemanticType: metadata.SemanticContainer,
		Width: 1440, Height: 800,
		Text:         strings.Repeat("headline text ", 30),
		SampledTexts: []string{"subtitle", "caption", "footnote"},
		Fills:        []string{"#FAFAFA", "#EEEEEE"},
		Constraints:  &metadata.Constraints{Horizontal: "LEFT", Vertical: "TOP"},
		ExportFormats: []string{"PNG", "SVG"},
		Children: []*metadata.Simplified{
			child("a"), child("b"), child("c"), child("d"), child("e"),
		},
	}
}

func TestOptimizeUnderBudgetIsNoop(t *testing.T) {
	m := heavyMetadata()
	out, applied := Optimize(m, 1<<20)
	tester.Eq(t, len(applied), 0)
	tester.Eq(t, EstimateMetadata(out), EstimateMetadata(m))
}

func TestOptimizeFitsBudgetOrExhausts(t *testing.T) {
	m := heavyMetadata()
	est := EstimateMetadata(m)
	tester.True(t, est > 1000, "fixture should start over budget")

	out, applied := Optimize(m, 1000)
	if EstimateMetadata(out) > 1000 {
		tester.Eq(t, len(applied), 7, "all ladder steps applied when budget unreachable")
	}
	tester.True(t, EstimateMetadata(out) <= est)
}

func TestOptimizeBudgetMonotonic(t *testing.T) {
	m := heavyMetadata()
	base := EstimateMetadata(m)

	big, _ := Optimize(m, 1200)
	small, _ := Optimize(m, 300)
	tester.True(t, EstimateMetadata(small) <= EstimateMetadata(big), "tighter budget yields no larger output")
	tester.True(t, EstimateMetadata(big) <= base)
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
	m := heavyMetadata()
	before := Serialize(m)
	_, _ = Optimize(m, 100)
	tester.Eq(t, Serialize(m), before)
}

func TestLadderStepOrder(t *testing.T) {
	m := heavyMetadata()
	out, applied := Optimize(m, 1)

	want := []Step{
		StepTrimSampledText, StepTruncateDepth, StepDropEffects,
		StepSinglePaint, StepDropAuxFields, StepCapChildren, StepDropChildren,
	}
	tester.Eq(t, applied, want)
	tester.True(t, out.Children == nil, "final step drops all children")
	tester.True(t, out.Constraints == nil)
}

func TestDropEffectsKeepsButtonAndCard(t *testing.T) {
	m := &metadata.Simplified{
		ID: "b", SemanticType: metadata.SemanticButton,
		Effects: []metadata.Effect{{Type: "DROP_SHADOW"}},
		Children: []*metadata.Simplified{
			{ID: "plain", SemanticType: metadata.SemanticGeneric,
				Effects: []metadata.Effect{{Type: "DROP_SHADOW"}}},
		},
	}
	out := dropEffects(m)
	tester.Eq(t, len(out.Effects), 1, "button keeps its effects")
	tester.Eq(t, len(out.Children[0].Effects), 0)
}
