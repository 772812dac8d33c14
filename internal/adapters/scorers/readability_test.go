package scorers

import (
	"context"
	"testing"
)

func TestReadingEaseOrdersByDifficulty(t *testing.T) {
	f := NewFleschScorer()
	ctx := context.Background()

	easy, err := f.ReadingEase(ctx, "The cat sat on the mat. It was a big cat.")
	if err != nil {
		t.Fatalf("easy text failed: %v", err)
	}

	hard, err := f.ReadingEase(ctx, "Considerable organizational heterogeneity complicates comprehensive interdepartmental communication initiatives.")
	if err != nil {
		t.Fatalf("hard text failed: %v", err)
	}

	if easy <= hard {
		t.Errorf("expected easy text (%v) to score above hard text (%v)", easy, hard)
	}
	if easy < 60 {
		t.Errorf("expected plain prose to score at least 60, got %v", easy)
	}
}

func TestReadingEaseEmptyText(t *testing.T) {
	f := NewFleschScorer()

	if _, err := f.ReadingEase(context.Background(), ""); err == nil {
		t.Fatal("expected an error for empty text")
	}
	if _, err := f.ReadingEase(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for whitespace-only text")
	}
}

func TestCountSyllables(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"hello", 2},
		{"make", 1}, // silent e
		{"banana", 3},
		{"see", 1},
		{"bee", 1},
		{"a", 1},
		{"?!", 1}, // no letters still counts as one
	}

	for _, c := range cases {
		if got := countSyllables(c.word); got != c.want {
			t.Errorf("countSyllables(%q) = %d, want %d", c.word, got, c.want)
		}
	}
}

func TestHeuristicSentiment(t *testing.T) {
	h := NewHeuristicSentiment()
	ctx := context.Background()

	if s, _ := h.Classify(ctx, "this is terrible, I'm upset and frustrated"); s != "negative" {
		t.Errorf("expected negative, got %q", s)
	}
	if s, _ := h.Classify(ctx, "thanks, that was great"); s != "positive" {
		t.Errorf("expected positive, got %q", s)
	}
	if s, _ := h.Classify(ctx, "the sky is blue"); s != "neutral" {
		t.Errorf("expected neutral, got %q", s)
	}
}
