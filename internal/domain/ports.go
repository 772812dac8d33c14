package domain

import "context"

// SentimentClassifier labels the polarity of a text span. Wraps a
// pretrained model, so calls may fail or be slow.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// SimilarityScorer returns a semantic similarity in [-1,1] for two text
// spans (higher = more related).
type SimilarityScorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// ReadabilityScorer returns an ease-of-reading score for one text span,
// roughly on a 0-100 scale where higher means easier to read.
type ReadabilityScorer interface {
	ReadingEase(ctx context.Context, text string) (float64, error)
}

// ConversationStore defines conversation persistence.
type ConversationStore interface {
	CreateConversation(conv *Conversation) error
	GetConversation(id ConversationID) (*Conversation, error)
	ListConversations(limit int) ([]*Conversation, error)
}

// TurnStore defines turn persistence.
type TurnStore interface {
	AppendTurn(turn *Turn) error
	GetTurnsByConversation(id ConversationID) ([]*Turn, error)
}

// ReportStore defines analysis report persistence. SaveReport replaces
// any existing report for the same conversation.
type ReportStore interface {
	SaveReport(report *AnalysisReport) error
	GetReportByConversation(id ConversationID) (*AnalysisReport, error)
	ListReports(limit int) ([]*AnalysisReport, error)
}
