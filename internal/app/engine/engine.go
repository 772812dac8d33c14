// Package engine scores the quality of a finished two-party
// conversation. It combines lexical pattern matching, model-backed
// sentiment and similarity inference, readability scoring and
// timestamp imputation into one best-effort pipeline: a failing model
// call degrades the corresponding sub-metric, it never aborts the
// analysis.
package engine

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/PabloGalante/convo-insights/internal/domain"
	"github.com/PabloGalante/convo-insights/internal/observability"
)

const (
	// sentiment is classified over the concatenation of the last few
	// user turns, truncated to a bounded character budget.
	sentimentUserTurns  = 3
	sentimentCharBudget = 1000

	// neutral reading ease used when no assistant turn could be scored.
	neutralReadingEase = 60.0

	defaultCallTimeout = 10 * time.Second
)

// Engine analyzes one conversation at a time. It holds no per-call
// state: the same Engine is safe for concurrent use as long as the
// injected scorers are.
type Engine struct {
	sentiment   domain.SentimentClassifier
	similarity  domain.SimilarityScorer
	readability domain.ReadabilityScorer

	lexicon     compiledLexicon
	now         func() time.Time
	rng         *rand.Rand
	callTimeout time.Duration
}

type Option func(*Engine)

// WithClock fixes the time source (used by tests and by the timeline
// synthesizer when turns carry no timestamps).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand fixes the randomness source for synthetic timelines.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLexicon swaps the built-in phrase lists.
func WithLexicon(lex Lexicon) Option {
	return func(e *Engine) { e.lexicon = lex.compile() }
}

// WithCallTimeout bounds each external scorer call. A timeout counts as
// a scorer failure.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) { e.callTimeout = d }
}

func New(
	sentiment domain.SentimentClassifier,
	similarity domain.SimilarityScorer,
	readability domain.ReadabilityScorer,
	opts ...Option,
) *Engine {
	e := &Engine{
		sentiment:   sentiment,
		similarity:  similarity,
		readability: readability,
		lexicon:     DefaultLexicon().compile(),
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze scores an ordered turn sequence and returns the full report.
// It returns nil for an empty sequence ("not analyzable") and otherwise
// always a fully populated report: malformed individual turns and
// scorer failures degrade the affected sub-metric instead of erroring.
// The input is never mutated.
func (e *Engine) Analyze(ctx context.Context, turns []*domain.Turn) *domain.AnalysisReport {
	if len(turns) == 0 {
		return nil
	}

	log := observability.LoggerFromContext(ctx)

	var userTexts, assistantTexts []string
	for _, t := range turns {
		switch t.Sender {
		case domain.SenderUser:
			userTexts = append(userTexts, t.Text)
		case domain.SenderAssistant:
			assistantTexts = append(assistantTexts, t.Text)
		}
	}

	sentiment := e.classifySentiment(ctx, log, userTexts)
	clarity := e.scoreClarity(ctx, assistantTexts)
	relevance := e.scoreRelevance(ctx, log, turns)
	accuracy := e.scoreAccuracy(turns)
	completeness := e.scoreCompleteness(turns)

	empathyHits := 0
	for _, t := range assistantTexts {
		if e.lexicon.empathy.matchAny(t) {
			empathyHits++
		}
	}
	empathy := 0.0
	if len(assistantTexts) > 0 {
		empathy = float64(empathyHits) / float64(len(assistantTexts))
	}

	fallbackCount := 0
	for _, t := range assistantTexts {
		if e.lexicon.fallback.matchAny(t) {
			fallbackCount++
		}
	}

	resolved := false
	for _, t := range userTexts {
		if e.lexicon.resolution.matchAny(t) {
			resolved = true
			break
		}
	}

	userAsksEscalation := false
	for _, t := range userTexts {
		if e.lexicon.escalation.matchAny(t) {
			userAsksEscalation = true
			break
		}
	}
	escalation := sentiment == domain.SentimentNegative ||
		fallbackCount > 2 ||
		accuracy < 0.2 ||
		userAsksEscalation

	times := resolveTimeline(turns, e.now, e.rng)
	avgResponse := averageGapSeconds(times)

	// Every bounded score is clamped before it leaves the engine, no
	// matter what the upstream models produced.
	clarity = clamp01(clarity)
	relevance = clamp01(relevance)
	accuracy = clamp01(accuracy)
	completeness = clamp01(completeness)
	empathy = clamp01(empathy)

	// Unweighted mean of the five quality axes. Sentiment, fallbacks,
	// resolution, escalation and response time stay out of the
	// composite: they are categorical or derived signals, not
	// independent quality axes.
	overall := (clarity + relevance + empathy + accuracy + completeness) / 5.0

	return &domain.AnalysisReport{
		ClarityScore:       round3(clarity),
		RelevanceScore:     round3(relevance),
		AccuracyScore:      round3(accuracy),
		CompletenessScore:  round3(completeness),
		Sentiment:          sentiment,
		EmpathyScore:       round3(empathy),
		AvgResponseSeconds: round2(avgResponse),
		FallbackCount:      fallbackCount,
		Resolution:         resolved,
		EscalationNeeded:   escalation,
		OverallScore:       round3(overall),
		CreatedAt:          e.now(),
	}
}

// classifySentiment labels the last few user turns. Any failure yields
// SentimentUnknown; classifier errors never reach the caller.
func (e *Engine) classifySentiment(ctx context.Context, log *slog.Logger, userTexts []string) domain.Sentiment {
	if len(userTexts) == 0 {
		return domain.SentimentUnknown
	}

	recent := userTexts
	if len(recent) > sentimentUserTurns {
		recent = recent[len(recent)-sentimentUserTurns:]
	}
	text := truncateRunes(strings.Join(recent, " "), sentimentCharBudget)

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	label, err := e.sentiment.Classify(callCtx, text)
	if err != nil {
		log.Debug("sentiment classification failed", "error", err)
		return domain.SentimentUnknown
	}
	return domain.Sentiment(strings.ToLower(strings.TrimSpace(string(label))))
}

// scoreClarity averages reading ease over assistant turns, normalized
// to [0,1]. Turns the scorer fails on are excluded; if none succeed a
// neutral ease is assumed.
func (e *Engine) scoreClarity(ctx context.Context, assistantTexts []string) float64 {
	var vals []float64
	for _, t := range assistantTexts {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		ease, err := e.readability.ReadingEase(callCtx, t)
		cancel()
		if err != nil {
			continue
		}
		vals = append(vals, ease)
	}

	avg := neutralReadingEase
	if len(vals) > 0 {
		avg = mean(vals)
	}
	return avg / 100.0
}

// scoreRelevance averages semantic similarity over adjacent
// user -> assistant pairs. A failing pair is skipped entirely so one
// bad inference does not deflate the average; no pairs means 0.0.
func (e *Engine) scoreRelevance(ctx context.Context, log *slog.Logger, turns []*domain.Turn) float64 {
	var sims []float64
	for i, t := range turns {
		if t.Sender != domain.SenderAssistant || i == 0 || turns[i-1].Sender != domain.SenderUser {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		sim, err := e.similarity.Similarity(callCtx, t.Text, turns[i-1].Text)
		cancel()
		if err != nil {
			log.Debug("similarity inference failed", "turn_seq", t.Seq, "error", err)
			continue
		}
		sims = append(sims, clamp(sim, -1.0, 1.0))
	}

	if len(sims) == 0 {
		return 0.0
	}
	return mean(sims)
}

// scoreAccuracy is the word-overlap heuristic over user -> assistant
// pairs, with a small boost when the reply uses assertive wording. It
// estimates vocabulary engagement, not factual correctness.
func (e *Engine) scoreAccuracy(turns []*domain.Turn) float64 {
	var scores []float64
	for i, t := range turns {
		if t.Sender != domain.SenderAssistant || i == 0 || turns[i-1].Sender != domain.SenderUser {
			continue
		}

		score := WordOverlap(turns[i-1].Text, t.Text)
		if e.lexicon.assertive.matchAny(t.Text) {
			score += 0.1
		}
		scores = append(scores, math.Min(1.0, score))
	}

	if len(scores) == 0 {
		return 0.0
	}
	return mean(scores)
}

// scoreCompleteness rates each assistant turn: a question or an
// information request counts as a deferral (0.0), an answer hint as a
// full answer (1.0), anything else by length.
func (e *Engine) scoreCompleteness(turns []*domain.Turn) float64 {
	var scores []float64
	for _, t := range turns {
		if t.Sender != domain.SenderAssistant {
			continue
		}

		switch {
		case strings.Contains(t.Text, "?") || e.lexicon.infoRequests.matchAny(t.Text):
			scores = append(scores, 0.0)
		case e.lexicon.completenessHints.matchAny(t.Text):
			scores = append(scores, 1.0)
		default:
			scores = append(scores, math.Min(1.0, float64(wordCount(t.Text))/40.0))
		}
	}

	if len(scores) == 0 {
		return 0.0
	}
	return mean(scores)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	return clamp(v, 0.0, 1.0)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
