package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/PabloGalante/convo-insights/internal/adapters/http"
	"github.com/PabloGalante/convo-insights/internal/adapters/scorers"
	"github.com/PabloGalante/convo-insights/internal/adapters/storage/memory"
	"github.com/PabloGalante/convo-insights/internal/app/engine"
	"github.com/PabloGalante/convo-insights/internal/app/insights"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	eng := engine.New(
		scorers.NewHeuristicSentiment(),
		scorers.NewLexicalSimilarity(),
		scorers.NewFleschScorer(),
	)

	svc := insights.NewService(
		memory.NewConversationStore(),
		memory.NewTurnStore(),
		memory.NewReportStore(),
		eng,
	)

	return httpadapter.NewServer(svc)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestUploadAnalyzeAndList(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{
		"title": "Late order",
		"turns": [
			{"sender": "user", "text": "my order hasn't arrived, I'm upset"},
			{"sender": "assistant", "text": "I'm sorry to hear that, your order was shipped and will arrive tomorrow. Here's your tracking link."},
			{"sender": "user", "text": "thanks, that helps a lot"}
		]
	}`)

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var uploaded struct {
		ConversationID string `json:"conversation_id"`
		TurnCount      int    `json:"turn_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decoding upload response: %v", err)
	}
	if uploaded.ConversationID == "" {
		t.Fatal("expected a conversation_id")
	}
	if uploaded.TurnCount != 3 {
		t.Fatalf("expected 3 turns, got %d", uploaded.TurnCount)
	}

	// Trigger analysis.
	req = httptest.NewRequest(http.MethodPost, "/conversations/"+uploaded.ConversationID+"/analysis", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var report struct {
		ConversationID string  `json:"conversation_id"`
		EmpathyScore   float64 `json:"empathy_score"`
		Resolution     bool    `json:"resolution"`
		OverallScore   float64 `json:"overall_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.ConversationID != uploaded.ConversationID {
		t.Fatalf("report for %q, expected %q", report.ConversationID, uploaded.ConversationID)
	}
	if report.EmpathyScore != 1.0 {
		t.Errorf("expected empathy 1.0, got %v", report.EmpathyScore)
	}
	if !report.Resolution {
		t.Error("expected resolution=true")
	}

	// The stored report is listed.
	req = httptest.NewRequest(http.MethodGet, "/analyses", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listed []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 report, got %d", len(listed))
	}
}

func TestTriggerAnalysisUnknownConversation(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/conversations/nope/analysis", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestTriggerAnalysisEmptyConversation(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewReader([]byte(`{"title":"empty","turns":[]}`)))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	var uploaded struct {
		ConversationID string `json:"conversation_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decoding upload response: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/conversations/"+uploaded.ConversationID+"/analysis", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an empty conversation, got %d", w.Code)
	}
}

func TestUploadRejectsUnknownSender(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{"turns":[{"sender":"robot","text":"beep"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
