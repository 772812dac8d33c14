package insights_test

import (
	"context"
	"errors"
	"testing"

	"github.com/PabloGalante/convo-insights/internal/adapters/scorers"
	"github.com/PabloGalante/convo-insights/internal/adapters/storage/memory"
	"github.com/PabloGalante/convo-insights/internal/app/engine"
	"github.com/PabloGalante/convo-insights/internal/app/insights"
	"github.com/PabloGalante/convo-insights/internal/domain"
)

func newTestService() *insights.Service {
	eng := engine.New(
		scorers.NewHeuristicSentiment(),
		scorers.NewLexicalSimilarity(),
		scorers.NewFleschScorer(),
	)
	return insights.NewService(
		memory.NewConversationStore(),
		memory.NewTurnStore(),
		memory.NewReportStore(),
		eng,
	)
}

func TestUploadAndAnalyzeConversation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	out, err := svc.UploadConversation(ctx, insights.UploadConversationInput{
		Title: "Broken login",
		Turns: []insights.TurnInput{
			{Sender: domain.SenderUser, Text: "I can't log in, the page just reloads"},
			{Sender: domain.SenderAssistant, Text: "Here's the fix: clear your cookies for the site, then the login page works again."},
			{Sender: domain.SenderUser, Text: "that helps, thank you"},
		},
	})
	if err != nil {
		t.Fatalf("UploadConversation failed: %v", err)
	}
	if out.Conversation.ID == "" {
		t.Fatal("expected conversation id, got empty")
	}

	report, err := svc.AnalyzeConversation(ctx, out.Conversation.ID)
	if err != nil {
		t.Fatalf("AnalyzeConversation failed: %v", err)
	}
	if report.ConversationID != out.Conversation.ID {
		t.Fatalf("report bound to %q, expected %q", report.ConversationID, out.Conversation.ID)
	}
	if !report.Resolution {
		t.Error("expected resolution=true for a thankful closing turn")
	}

	// The report is retrievable and listed.
	stored, err := svc.GetReport(ctx, out.Conversation.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if stored.OverallScore != report.OverallScore {
		t.Errorf("stored overall %v, expected %v", stored.OverallScore, report.OverallScore)
	}

	reports, err := svc.ListReports(ctx, 0)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
}

func TestAnalyzeConversationNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.AnalyzeConversation(context.Background(), domain.ConversationID("missing"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyzeConversationWithoutTurns(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	out, err := svc.UploadConversation(ctx, insights.UploadConversationInput{Title: "empty"})
	if err != nil {
		t.Fatalf("UploadConversation failed: %v", err)
	}

	_, err = svc.AnalyzeConversation(ctx, out.Conversation.ID)
	if !errors.Is(err, domain.ErrNoTurns) {
		t.Fatalf("expected ErrNoTurns, got %v", err)
	}
}

func TestAnalyzePendingSkipsAnalyzed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	upload := func(title string) domain.ConversationID {
		out, err := svc.UploadConversation(ctx, insights.UploadConversationInput{
			Title: title,
			Turns: []insights.TurnInput{
				{Sender: domain.SenderUser, Text: "is the outage over"},
				{Sender: domain.SenderAssistant, Text: "The outage is resolved, all systems are back."},
			},
		})
		if err != nil {
			t.Fatalf("UploadConversation failed: %v", err)
		}
		return out.Conversation.ID
	}

	first := upload("first")
	upload("second")

	// Analyze the first one manually; the sweep should only pick up the
	// second.
	if _, err := svc.AnalyzeConversation(ctx, first); err != nil {
		t.Fatalf("AnalyzeConversation failed: %v", err)
	}

	count, err := svc.AnalyzePending(ctx)
	if err != nil {
		t.Fatalf("AnalyzePending failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 pending conversation analyzed, got %d", count)
	}

	// A second sweep finds nothing left.
	count, err = svc.AnalyzePending(ctx)
	if err != nil {
		t.Fatalf("AnalyzePending failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 pending, got %d", count)
	}
}
