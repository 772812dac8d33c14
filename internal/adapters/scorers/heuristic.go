package scorers

import (
	"context"
	"strings"

	"github.com/PabloGalante/convo-insights/internal/app/engine"
	"github.com/PabloGalante/convo-insights/internal/domain"
)

// Deterministic scorers for local development and tests: no model
// loading, no network. Wire these instead of GenaiScorers when
// INSIGHTS_USE_MOCK_SCORERS is set.

var positiveWords = []string{"thanks", "thank you", "great", "perfect", "awesome", "love", "happy", "helps"}
var negativeWords = []string{"upset", "angry", "terrible", "awful", "broken", "hate", "worst", "frustrated", "disappointed"}

// HeuristicSentiment labels text by counting polarity keywords.
type HeuristicSentiment struct{}

func NewHeuristicSentiment() *HeuristicSentiment {
	return &HeuristicSentiment{}
}

func (h *HeuristicSentiment) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	low := strings.ToLower(text)

	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(low, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(low, w) {
			neg++
		}
	}

	switch {
	case neg > pos:
		return domain.SentimentNegative, nil
	case pos > neg:
		return domain.SentimentPositive, nil
	default:
		return domain.SentimentNeutral, nil
	}
}

// LexicalSimilarity approximates semantic similarity with symmetric
// word overlap. Crude, but deterministic and monotone enough for dev.
type LexicalSimilarity struct{}

func NewLexicalSimilarity() *LexicalSimilarity {
	return &LexicalSimilarity{}
}

func (l *LexicalSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	return (engine.WordOverlap(a, b) + engine.WordOverlap(b, a)) / 2.0, nil
}
