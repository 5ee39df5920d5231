package tokenbudget

import "github.com/darkxdd/FigmaCursor-sub000/internal/metadata"

// Step names one degradation applied by Optimize, in ladder order.
type Step string

const (
	StepTrimSampledText Step = "trim_sampled_text"
	StepTruncateDepth   Step = "truncate_depth"
	StepDropEffects     Step = "drop_effects"
	StepSinglePaint     Step = "single_paint"
	StepDropAuxFields   Step = "drop_aux_fields"
	StepCapChildren     Step = "cap_children"
	StepDropChildren    Step = "drop_children"
)

// ladder is the ordered list of degradation steps. Every step takes and
// returns a fresh value; the input is never mutated.
var ladder = []struct {
	step  Step
	apply func(*metadata.Simplified) *metadata.Simplified
}{
	{StepTrimSampledText, trimSampledText},
	{StepTruncateDepth, truncateDepth},
	{StepDropEffects, dropEffects},
	{StepSinglePaint, singlePaint},
	{StepDropAuxFields, dropAuxFields},
	{StepCapChildren, capChildren},
	{StepDropChildren, dropChildren},
}

// Optimize applies degradation steps in order until the serialized
// estimate fits maxTokens or the ladder is exhausted. It returns the
// degraded copy and the steps that were applied. The result estimate is
// non-increasing across steps, so larger budgets never yield larger
// output than smaller ones.
func Optimize(m *metadata.Simplified, maxTokens int) (*metadata.Simplified, []Step) {
	if m == nil {
		return nil, nil
	}
	out := m.Clone()
	if maxTokens <= 0 || EstimateMetadata(out) <= maxTokens {
		return out, nil
	}
	applied := make([]Step, 0, len(ladder))
	for _, rung := range ladder {
		out = rung.apply(out)
		applied = append(applied, rung.step)
		if EstimateMetadata(out) <= maxTokens {
			break
		}
	}
	return out, applied
}

// FitsBudget reports whether metadata serializes within maxTokens.
func FitsBudget(m *metadata.Simplified, maxTokens int) bool {
	return EstimateMetadata(m) <= maxTokens
}

func trimSampledText(m *metadata.Simplified) *metadata.Simplified {
	out := m.Clone()
	walk(out, func(s *metadata.Simplified) {
		if len(s.SampledTexts) > 1 {
			s.SampledTexts = s.SampledTexts[:1]
		}
	})
	return out
}

func truncateDepth(m *metadata.Simplified) *metadata.Simplified {
	out := m.Clone()
	for _, ch := range out.Children {
		ch.Children = nil
	}
	return out
}

func dropEffects(m *metadata.Simplified) *metadata.Simplified {
	out := m.Clone()
	walk(out, func(s *metadata.Simplified) {
		if s.SemanticType == metadata.SemanticButton || s.SemanticType == metadata.SemanticCard {
			return
		}
		s.Effects = nil
	})
	return out
}

func singlePaint(m *metadata.Simplified) *metadata.Simplified {
	out := m.Clone()
	walk(out, func(s *metadata.Simplified) {
		if len(s.Fills) > 1 {
			s.Fills = s.Fills[:1]
		}
		if len(s.Strokes) > 1 {
			s.Strokes = s.Strokes[:1]
		}
	})
	return out
}

func dropAuxFields(m *metadata.Simplified) *metadata.Simplified {
	out := m.Clone()
	walk(out, func(s *metadata.Simplified) {
		s.Constraints = nil
		s.Interactive = false
		s.ExportFormats = nil
	})
	return out
}

func capChildren(m *metadata.Simplified) *metadata.Simplified {
	out := m.Clone()
	walk(out, func(s *metadata.Simplified) {
		if len(s.Children) > 2 {
			s.Children = s.Children[:2]
		}
	})
	return out
}

func dropChildren(m *metadata.Simplified) *metadata.Simplified {
	out := m.Clone()
	out.Children = nil
	return out
}

func walk(s *metadata.Simplified, fn func(*metadata.Simplified)) {
	if s == nil {
		return
	}
	fn(s)
	for _, ch := range s.Children {
		walk(ch, fn)
	}
}
