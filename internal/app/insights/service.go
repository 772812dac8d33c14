package insights

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/convo-insights/internal/app/engine"
	"github.com/PabloGalante/convo-insights/internal/domain"
	"github.com/PabloGalante/convo-insights/internal/observability"
)

// Service wires conversation persistence to the scoring engine. It is
// the only caller of engine.Analyze.
type Service struct {
	convStore   domain.ConversationStore
	turnStore   domain.TurnStore
	reportStore domain.ReportStore
	engine      *engine.Engine
	now         func() time.Time
}

func NewService(
	convStore domain.ConversationStore,
	turnStore domain.TurnStore,
	reportStore domain.ReportStore,
	eng *engine.Engine,
) *Service {
	return &Service{
		convStore:   convStore,
		turnStore:   turnStore,
		reportStore: reportStore,
		engine:      eng,
		now:         time.Now,
	}
}

type TurnInput struct {
	Sender    domain.Sender
	Text      string
	Timestamp *time.Time
}

type UploadConversationInput struct {
	Title string
	Turns []TurnInput
}

type UploadConversationOutput struct {
	Conversation *domain.Conversation
	TurnCount    int
}

// UploadConversation stores a finished transcript: the conversation
// plus its turns in the given order.
func (s *Service) UploadConversation(ctx context.Context, in UploadConversationInput) (*UploadConversationOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx).With(
		"title", in.Title,
		"turn_count", len(in.Turns),
	)
	log.Info("uploading conversation")

	conv := &domain.Conversation{
		ID:        domain.ConversationID(generateID()),
		Title:     in.Title,
		CreatedAt: now,
	}

	if err := s.convStore.CreateConversation(conv); err != nil {
		log.Error("failed to create conversation", "error", err)
		return nil, err
	}

	for i, t := range in.Turns {
		turn := &domain.Turn{
			ID:             domain.TurnID(generateID()),
			ConversationID: conv.ID,
			Sender:         t.Sender,
			Text:           t.Text,
			Seq:            i,
			Timestamp:      t.Timestamp,
		}
		if err := s.turnStore.AppendTurn(turn); err != nil {
			log.Error("failed to append turn", "seq", i, "error", err)
			return nil, err
		}
	}

	log.Info("conversation uploaded", "conversation_id", conv.ID)

	return &UploadConversationOutput{
		Conversation: conv,
		TurnCount:    len(in.Turns),
	}, nil
}

// GetConversation returns a conversation together with its turns in
// Seq order.
func (s *Service) GetConversation(
	ctx context.Context,
	id domain.ConversationID,
) (*domain.Conversation, []*domain.Turn, error) {

	log := observability.LoggerFromContext(ctx).With("conversation_id", id)

	conv, err := s.convStore.GetConversation(id)
	if err != nil {
		log.Error("failed to get conversation", "error", err)
		return nil, nil, err
	}

	turns, err := s.turnStore.GetTurnsByConversation(id)
	if err != nil {
		log.Error("failed to get turns", "error", err)
		return nil, nil, err
	}

	return conv, turns, nil
}

// AnalyzeConversation runs the scoring engine over a stored
// conversation and persists the report, replacing any previous one.
// A conversation without turns yields domain.ErrNoTurns instead of a
// zero-filled report.
func (s *Service) AnalyzeConversation(ctx context.Context, id domain.ConversationID) (*domain.AnalysisReport, error) {
	log := observability.LoggerFromContext(ctx).With("conversation_id", id)

	if _, err := s.convStore.GetConversation(id); err != nil {
		log.Error("failed to get conversation", "error", err)
		return nil, err
	}

	turns, err := s.turnStore.GetTurnsByConversation(id)
	if err != nil {
		log.Error("failed to get turns", "error", err)
		return nil, err
	}

	report := s.engine.Analyze(ctx, turns)
	if report == nil {
		log.Info("conversation not analyzable", "turn_count", 0)
		return nil, domain.ErrNoTurns
	}
	report.ConversationID = id

	if err := s.reportStore.SaveReport(report); err != nil {
		log.Error("failed to save report", "error", err)
		return nil, err
	}

	log.Info("conversation analyzed", "overall_score", report.OverallScore)
	return report, nil
}

// GetReport returns the stored report for a conversation.
func (s *Service) GetReport(ctx context.Context, id domain.ConversationID) (*domain.AnalysisReport, error) {
	return s.reportStore.GetReportByConversation(id)
}

// ListReports returns stored reports, most recent first.
func (s *Service) ListReports(ctx context.Context, limit int) ([]*domain.AnalysisReport, error) {
	return s.reportStore.ListReports(limit)
}

// AnalyzePending analyzes every conversation that does not have a
// report yet and returns how many were analyzed. Failures on a single
// conversation are logged and skipped so one bad transcript cannot
// stall the batch.
func (s *Service) AnalyzePending(ctx context.Context) (int, error) {
	log := observability.LoggerFromContext(ctx)

	convs, err := s.convStore.ListConversations(0)
	if err != nil {
		log.Error("failed to list conversations", "error", err)
		return 0, err
	}

	analyzed := 0
	for _, conv := range convs {
		if _, err := s.reportStore.GetReportByConversation(conv.ID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			log.Error("failed to check existing report", "conversation_id", conv.ID, "error", err)
			continue
		}

		if _, err := s.AnalyzeConversation(ctx, conv.ID); err != nil {
			if errors.Is(err, domain.ErrNoTurns) {
				continue
			}
			log.Error("failed to analyze conversation", "conversation_id", conv.ID, "error", err)
			continue
		}
		analyzed++
	}

	if analyzed > 0 {
		log.Info("analyzed pending conversations", "count", analyzed)
	}
	return analyzed, nil
}

func generateID() string {
	return uuid.NewString()
}
