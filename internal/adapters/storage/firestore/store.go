package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/convo-insights/internal/domain"
)

// Store persists conversations, turns and analysis reports in
// Firestore. One Store implements all three store ports.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given GCP project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection("conversations")
}

func (s *Store) conversationDoc(id domain.ConversationID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(string(id))
}

func (s *Store) turnsCol(id domain.ConversationID) *firestore.CollectionRef {
	return s.conversationDoc(id).Collection("turns")
}

func (s *Store) analysesCol() *firestore.CollectionRef {
	return s.client.Collection("analyses")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type conversationDoc struct {
	Title     string    `firestore:"title"`
	CreatedAt time.Time `firestore:"created_at"`
}

type turnDoc struct {
	Sender    string     `firestore:"sender"`
	Text      string     `firestore:"text"`
	Seq       int        `firestore:"seq"`
	Timestamp *time.Time `firestore:"timestamp"`
}

type reportDoc struct {
	ConversationID     string    `firestore:"conversation_id"`
	ClarityScore       float64   `firestore:"clarity_score"`
	RelevanceScore     float64   `firestore:"relevance_score"`
	AccuracyScore      float64   `firestore:"accuracy_score"`
	CompletenessScore  float64   `firestore:"completeness_score"`
	Sentiment          string    `firestore:"sentiment"`
	EmpathyScore       float64   `firestore:"empathy_score"`
	AvgResponseSeconds float64   `firestore:"avg_response_time_seconds"`
	FallbackCount      int       `firestore:"fallback_count"`
	Resolution         bool      `firestore:"resolution"`
	EscalationNeeded   bool      `firestore:"escalation_needed"`
	OverallScore       float64   `firestore:"overall_score"`
	CreatedAt          time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// ConversationStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateConversation(conv *domain.Conversation) error {
	ctx := context.Background()

	doc := conversationDoc{
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
	}

	_, err := s.conversationDoc(conv.ID).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("firestore CreateConversation: %w", err)
	}
	return nil
}

func (s *Store) GetConversation(id domain.ConversationID) (*domain.Conversation, error) {
	ctx := context.Background()

	snap, err := s.conversationDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetConversation: %w", err)
	}

	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetConversation decode: %w", err)
	}

	return &domain.Conversation{
		ID:        id,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *Store) ListConversations(limit int) ([]*domain.Conversation, error) {
	ctx := context.Background()

	q := s.conversationsCol().OrderBy("created_at", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Conversation
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListConversations: %w", err)
		}

		var doc conversationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode conversationDoc: %w", err)
		}

		out = append(out, &domain.Conversation{
			ID:        domain.ConversationID(snap.Ref.ID),
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// TurnStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendTurn(turn *domain.Turn) error {
	ctx := context.Background()

	doc := turnDoc{
		Sender:    string(turn.Sender),
		Text:      turn.Text,
		Seq:       turn.Seq,
		Timestamp: turn.Timestamp,
	}

	_, err := s.turnsCol(turn.ConversationID).Doc(string(turn.ID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore AppendTurn: %w", err)
	}
	return nil
}

func (s *Store) GetTurnsByConversation(id domain.ConversationID) ([]*domain.Turn, error) {
	ctx := context.Background()

	q := s.turnsCol(id).OrderBy("seq", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Turn
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore GetTurnsByConversation: %w", err)
		}

		var doc turnDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode turnDoc: %w", err)
		}

		out = append(out, &domain.Turn{
			ID:             domain.TurnID(snap.Ref.ID),
			ConversationID: id,
			Sender:         domain.Sender(doc.Sender),
			Text:           doc.Text,
			Seq:            doc.Seq,
			Timestamp:      doc.Timestamp,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// ReportStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveReport(report *domain.AnalysisReport) error {
	ctx := context.Background()

	doc := reportDoc{
		ConversationID:     string(report.ConversationID),
		ClarityScore:       report.ClarityScore,
		RelevanceScore:     report.RelevanceScore,
		AccuracyScore:      report.AccuracyScore,
		CompletenessScore:  report.CompletenessScore,
		Sentiment:          string(report.Sentiment),
		EmpathyScore:       report.EmpathyScore,
		AvgResponseSeconds: report.AvgResponseSeconds,
		FallbackCount:      report.FallbackCount,
		Resolution:         report.Resolution,
		EscalationNeeded:   report.EscalationNeeded,
		OverallScore:       report.OverallScore,
		CreatedAt:          report.CreatedAt,
	}

	// One report per conversation: the conversation ID is the doc ID,
	// so saving again replaces the previous report.
	_, err := s.analysesCol().Doc(string(report.ConversationID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore SaveReport: %w", err)
	}
	return nil
}

func (s *Store) GetReportByConversation(id domain.ConversationID) (*domain.AnalysisReport, error) {
	ctx := context.Background()

	snap, err := s.analysesCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetReportByConversation: %w", err)
	}

	var doc reportDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetReportByConversation decode: %w", err)
	}

	report := toDomainReport(&doc)
	return report, nil
}

func (s *Store) ListReports(limit int) ([]*domain.AnalysisReport, error) {
	ctx := context.Background()

	q := s.analysesCol().OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.AnalysisReport
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListReports: %w", err)
		}

		var doc reportDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode reportDoc: %w", err)
		}

		out = append(out, toDomainReport(&doc))
	}
	return out, nil
}

func toDomainReport(doc *reportDoc) *domain.AnalysisReport {
	return &domain.AnalysisReport{
		ConversationID:     domain.ConversationID(doc.ConversationID),
		ClarityScore:       doc.ClarityScore,
		RelevanceScore:     doc.RelevanceScore,
		AccuracyScore:      doc.AccuracyScore,
		CompletenessScore:  doc.CompletenessScore,
		Sentiment:          domain.Sentiment(doc.Sentiment),
		EmpathyScore:       doc.EmpathyScore,
		AvgResponseSeconds: doc.AvgResponseSeconds,
		FallbackCount:      doc.FallbackCount,
		Resolution:         doc.Resolution,
		EscalationNeeded:   doc.EscalationNeeded,
		OverallScore:       doc.OverallScore,
		CreatedAt:          doc.CreatedAt,
	}
}
