package memory

import (
	"sort"
	"sync"

	"github.com/PabloGalante/convo-insights/internal/domain"
)

type ReportStore struct {
	mu      sync.RWMutex
	reports map[domain.ConversationID]*domain.AnalysisReport
}

func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[domain.ConversationID]*domain.AnalysisReport),
	}
}

// SaveReport stores a report, replacing any previous report for the
// same conversation.
func (s *ReportStore) SaveReport(report *domain.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ConversationID] = report
	return nil
}

func (s *ReportStore) GetReportByConversation(id domain.ConversationID) (*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return report, nil
}

// ListReports returns reports ordered by creation time, most recent
// first. limit <= 0 returns all.
func (s *ReportStore) ListReports(limit int) ([]*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.AnalysisReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
