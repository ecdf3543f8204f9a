package recommend

// Blender combines the pattern and rule signals into one final
// recommendation. A pattern wins only when its confidence is strictly
// above the threshold; otherwise the rule, if any, takes over. Neither
// signal clearing leaves the line untagged rather than guessing.
type Blender struct {
	threshold float64
}

// NewBlender creates a Blender with the given confidence threshold
func NewBlender(threshold float64) *Blender {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.7
	}
	return &Blender{threshold: threshold}
}

// Threshold returns the configured confidence threshold
func (b *Blender) Threshold() float64 {
	return b.threshold
}

// Blend resolves the final recommendation from the two signals
func (b *Blender) Blend(pattern, rule Recommendation) Recommendation {
	if pattern.Source == SourcePattern && pattern.AnalyticID != nil && pattern.Confidence > b.threshold {
		return pattern
	}
	if rule.Source == SourceRule && rule.AnalyticID != nil {
		return rule
	}
	return None()
}
