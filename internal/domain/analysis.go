package domain

import "time"

// AnalysisReport is the full set of quality scores and flags produced by
// analyzing one conversation.
//
// Every score here is a heuristic proxy, not a statistically validated
// measurement: accuracy in particular is a vocabulary-overlap estimate
// and says nothing about factual correctness. All bounded fields are
// clamped to their range before the report leaves the engine.
type AnalysisReport struct {
	ConversationID ConversationID

	// [0,1] quality axes.
	ClarityScore      float64
	RelevanceScore    float64
	AccuracyScore     float64
	CompletenessScore float64
	EmpathyScore      float64

	// Polarity of the most recent user turns; SentimentUnknown when the
	// classifier was unavailable or failed.
	Sentiment Sentiment

	// Average gap between consecutive turns, in seconds (>= 0). When no
	// turn carries a real timestamp this degrades to a synthetic
	// placeholder rather than failing.
	AvgResponseSeconds float64

	// Number of assistant turns that were fallback replies (>= 0).
	FallbackCount int

	Resolution       bool
	EscalationNeeded bool

	// Unweighted mean of the five [0,1] quality axes.
	OverallScore float64

	CreatedAt time.Time
}
