package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/convo-insights/internal/app/insights"
	"github.com/PabloGalante/convo-insights/internal/domain"
)

type Server struct {
	svc *insights.Service
}

func NewServer(svc *insights.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /conversations → upload conversation + turns (POST)
	mux.HandleFunc("/conversations", s.handleConversations)

	// /conversations/{id}          → GET: conversation + turns
	// /conversations/{id}/analysis → POST: run analysis, GET: stored report
	mux.HandleFunc("/conversations/", s.handleConversationWithID)

	// /analyses → GET: all reports, most recent first
	mux.HandleFunc("/analyses", s.handleAnalyses)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type turnRequest struct {
	Sender    string     `json:"sender"`
	Text      string     `json:"text"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type uploadConversationRequest struct {
	Title string        `json:"title,omitempty"`
	Turns []turnRequest `json:"turns"`
}

type uploadConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	TurnCount      int    `json:"turn_count"`
}

type conversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type turnResponse struct {
	ID        string     `json:"id"`
	Sender    string     `json:"sender"`
	Text      string     `json:"text"`
	Seq       int        `json:"seq"`
	Timestamp *time.Time `json:"timestamp"`
}

type getConversationResponse struct {
	Conversation conversationResponse `json:"conversation"`
	Turns        []turnResponse       `json:"turns"`
}

type reportResponse struct {
	ConversationID     string    `json:"conversation_id"`
	ClarityScore       float64   `json:"clarity_score"`
	RelevanceScore     float64   `json:"relevance_score"`
	AccuracyScore      float64   `json:"accuracy_score"`
	CompletenessScore  float64   `json:"completeness_score"`
	Sentiment          *string   `json:"sentiment"`
	EmpathyScore       float64   `json:"empathy_score"`
	AvgResponseSeconds float64   `json:"avg_response_time_seconds"`
	FallbackCount      int       `json:"fallback_count"`
	Resolution         bool      `json:"resolution"`
	EscalationNeeded   bool      `json:"escalation_needed"`
	OverallScore       float64   `json:"overall_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /conversations
func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleUploadConversation(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /conversations/{id} or /conversations/{id}/analysis
func (s *Server) handleConversationWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/conversations/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetConversation(w, r, domain.ConversationID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "analysis" {
		switch r.Method {
		case http.MethodPost:
			s.handleTriggerAnalysis(w, r, domain.ConversationID(id))
		case http.MethodGet:
			s.handleGetReport(w, r, domain.ConversationID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	http.NotFound(w, r)
}

// /analyses
func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListReports(w, r)
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleUploadConversation(w http.ResponseWriter, r *http.Request) {
	var req uploadConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	turns := make([]insights.TurnInput, 0, len(req.Turns))
	for i, t := range req.Turns {
		sender, ok := parseSender(t.Sender)
		if !ok {
			badRequest(w, "turns["+strconv.Itoa(i)+"].sender must be \"user\" or \"assistant\"")
			return
		}
		turns = append(turns, insights.TurnInput{
			Sender:    sender,
			Text:      t.Text,
			Timestamp: t.Timestamp,
		})
	}

	out, err := s.svc.UploadConversation(r.Context(), insights.UploadConversationInput{
		Title: req.Title,
		Turns: turns,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadConversationResponse{
		ConversationID: string(out.Conversation.ID),
		TurnCount:      out.TurnCount,
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request, id domain.ConversationID) {
	conv, turns, err := s.svc.GetConversation(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "conversation not found")
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getConversationResponse{
		Conversation: toConversationResponse(conv),
		Turns:        toTurnsResponse(turns),
	})
}

func (s *Server) handleTriggerAnalysis(w http.ResponseWriter, r *http.Request, id domain.ConversationID) {
	report, err := s.svc.AnalyzeConversation(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "conversation not found")
		case errors.Is(err, domain.ErrNoTurns):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": "conversation has no turns to analyze",
			})
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toReportResponse(report))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request, id domain.ConversationID) {
	report, err := s.svc.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "no analysis for this conversation")
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReportResponse(report))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.svc.ListReports(r.Context(), 0)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toReportResponse(rep))
	}
	writeJSON(w, http.StatusOK, out)
}

// ─────────────────────────────────────────────
// Conversion Helpers
// ─────────────────────────────────────────────

func toConversationResponse(c *domain.Conversation) conversationResponse {
	return conversationResponse{
		ID:        string(c.ID),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
}

func toTurnsResponse(turns []*domain.Turn) []turnResponse {
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, turnResponse{
			ID:        string(t.ID),
			Sender:    string(t.Sender),
			Text:      t.Text,
			Seq:       t.Seq,
			Timestamp: t.Timestamp,
		})
	}
	return out
}

func toReportResponse(rep *domain.AnalysisReport) reportResponse {
	var sentiment *string
	if rep.Sentiment != domain.SentimentUnknown {
		v := string(rep.Sentiment)
		sentiment = &v
	}

	return reportResponse{
		ConversationID:     string(rep.ConversationID),
		ClarityScore:       rep.ClarityScore,
		RelevanceScore:     rep.RelevanceScore,
		AccuracyScore:      rep.AccuracyScore,
		CompletenessScore:  rep.CompletenessScore,
		Sentiment:          sentiment,
		EmpathyScore:       rep.EmpathyScore,
		AvgResponseSeconds: rep.AvgResponseSeconds,
		FallbackCount:      rep.FallbackCount,
		Resolution:         rep.Resolution,
		EscalationNeeded:   rep.EscalationNeeded,
		OverallScore:       rep.OverallScore,
		CreatedAt:          rep.CreatedAt,
	}
}

func parseSender(s string) (domain.Sender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return domain.SenderUser, true
	case "assistant", "ai", "agent":
		return domain.SenderAssistant, true
	default:
		return "", false
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
