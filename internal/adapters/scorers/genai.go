package scorers

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/PabloGalante/convo-insights/internal/domain"
)

const sentimentPrompt = "You are a sentiment classifier for customer-support transcripts.\n" +
	"Classify the overall sentiment of the following user messages.\n" +
	"Answer with exactly one word: positive, negative or neutral.\n\nMessages:\n%s"

// GenaiScorers implements the sentiment and similarity capabilities on
// top of Vertex AI (Gemini for classification, an embedding model for
// similarity).
//
// The underlying client is expensive to construct, so it is built
// lazily exactly once and shared by every call on this value. This is
// the only shared mutable state in the service; construct one
// GenaiScorers per process and inject it everywhere.
type GenaiScorers struct {
	projectID      string
	location       string
	sentimentModel string
	embeddingModel string

	once   sync.Once
	client *genai.Client
	err    error
}

func NewGenaiScorers(projectID, location, sentimentModel, embeddingModel string) (*GenaiScorers, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("projectID and location are required for genai scorers")
	}
	return &GenaiScorers{
		projectID:      projectID,
		location:       location,
		sentimentModel: sentimentModel,
		embeddingModel: embeddingModel,
	}, nil
}

func (g *GenaiScorers) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		g.client, g.err = genai.NewClient(ctx, &genai.ClientConfig{
			Project:  g.projectID,
			Location: g.location,
			Backend:  genai.BackendVertexAI,
		})
		if g.err != nil {
			g.err = fmt.Errorf("creating genai client: %w", g.err)
		}
	})
	return g.client, g.err
}

// Classify implements domain.SentimentClassifier using a single Gemini
// completion constrained to one word.
func (g *GenaiScorers) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return domain.SentimentUnknown, err
	}

	temp := float32(0.0)
	outputTokens := int32(8)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: outputTokens,
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(sentimentPrompt, text), genai.RoleUser),
	}

	res, err := client.Models.GenerateContent(ctx, g.sentimentModel, contents, cfg)
	if err != nil {
		return domain.SentimentUnknown, fmt.Errorf("genai sentiment: %w", err)
	}

	label := strings.ToLower(strings.TrimSpace(res.Text()))
	switch domain.Sentiment(label) {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		return domain.Sentiment(label), nil
	}
	return domain.SentimentUnknown, fmt.Errorf("genai sentiment: unexpected label %q", label)
}

// Similarity implements domain.SimilarityScorer as the cosine between
// the two texts' embeddings, in [-1,1].
func (g *GenaiScorers) Similarity(ctx context.Context, a, b string) (float64, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return 0, err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(a, genai.RoleUser),
		genai.NewContentFromText(b, genai.RoleUser),
	}

	res, err := client.Models.EmbedContent(ctx, g.embeddingModel, contents, nil)
	if err != nil {
		return 0, fmt.Errorf("genai embed content: %w", err)
	}
	if len(res.Embeddings) < 2 {
		return 0, fmt.Errorf("genai embed content: expected 2 embeddings, got %d", len(res.Embeddings))
	}

	return cosine(res.Embeddings[0].Values, res.Embeddings[1].Values)
}

func cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("cosine: mismatched embedding sizes %d and %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("cosine: zero-length embedding")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
