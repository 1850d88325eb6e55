// Package model provides capability-based model selection for content
// generation. Instead of hardcoding model names, callers specify what kind
// of content they need (narrative, interaction, assessment) and the registry
// resolves that to available models with fallback chains.
package model

// Capability represents a semantic capability for model selection.
// Instead of specifying "llama-3.3-70b-versatile", callers specify
// "narrative" or "assessment".
type Capability string

const (
	// CapabilityNarrative is for scenario narratives: longer, coherent,
	// personalized storytelling.
	CapabilityNarrative Capability = "narrative"

	// CapabilityInteraction is for decision points and learning moments:
	// structured JSON with graded options.
	CapabilityInteraction Capability = "interaction"

	// CapabilityAssessment is for knowledge assessment generation.
	CapabilityAssessment Capability = "assessment"

	// CapabilityFast is for short responses like per-decision feedback.
	CapabilityFast Capability = "fast"
)

// ContentCapabilities maps generation content types to their default
// capability. Used when no explicit capability is specified.
var ContentCapabilities = map[string]Capability{
	"scenario":        CapabilityNarrative,
	"decision_points": CapabilityInteraction,
	"learning_moment": CapabilityInteraction,
	"assessment":      CapabilityAssessment,
	"feedback":        CapabilityFast,
	"recommendations": CapabilityNarrative,
}

// CapabilityForContent returns the default capability for a content type.
// Returns CapabilityNarrative as fallback for unknown content types.
func CapabilityForContent(contentType string) Capability {
	if cap, ok := ContentCapabilities[contentType]; ok {
		return cap
	}
	return CapabilityNarrative
}

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityNarrative, CapabilityInteraction, CapabilityAssessment, CapabilityFast:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for
// invalid values.
func ParseCapability(s string) Capability {
	cap := Capability(s)
	if cap.IsValid() {
		return cap
	}
	return ""
}
