// Package jobs holds the background work that runs next to the HTTP
// API: a periodic sweep that analyzes conversations uploaded without a
// report yet.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"

	"github.com/PabloGalante/convo-insights/internal/app/insights"
	"github.com/PabloGalante/convo-insights/internal/observability"
)

const (
	defaultIntervalMinutes = 5
	sweepTimeout           = 10 * time.Minute
)

// Analyzer schedules periodic analysis of pending conversations. Each
// conversation is analyzed independently; a failure on one is logged
// and does not touch the others.
type Analyzer struct {
	ctab            *crontab.Crontab
	svc             *insights.Service
	intervalMinutes int
}

func NewAnalyzer(svc *insights.Service, intervalMinutes int) *Analyzer {
	if intervalMinutes <= 0 {
		intervalMinutes = defaultIntervalMinutes
	}
	return &Analyzer{
		ctab:            crontab.New(),
		svc:             svc,
		intervalMinutes: intervalMinutes,
	}
}

// Run sweeps once immediately, then on the configured interval until
// ctx is cancelled.
func (a *Analyzer) Run(ctx context.Context) error {
	a.sweep(ctx)

	cronExpr := fmt.Sprintf("*/%d * * * *", a.intervalMinutes)
	if err := a.ctab.AddJob(cronExpr, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		a.sweep(jobCtx)
	}); err != nil {
		return fmt.Errorf("scheduling analyzer job: %w", err)
	}

	observability.Logger().Info("background analyzer scheduled",
		"interval_minutes", a.intervalMinutes)

	<-ctx.Done()
	a.ctab.Shutdown()
	return nil
}

func (a *Analyzer) sweep(ctx context.Context) {
	log := observability.Logger()

	count, err := a.svc.AnalyzePending(ctx)
	if err != nil {
		log.Error("analyzer sweep failed", "error", err)
		return
	}
	if count > 0 {
		log.Info("analyzer sweep completed", "analyzed", count)
	}
}
