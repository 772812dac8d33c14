package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/PabloGalante/convo-insights/internal/domain"
)

func TestResolveTimelineForwardFill(t *testing.T) {
	base := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	later := base.Add(20 * time.Second)

	turns := []*domain.Turn{
		{Timestamp: &base},
		{Timestamp: nil},
		{Timestamp: &later},
	}

	now := func() time.Time { return base.Add(time.Hour) }
	times := resolveTimeline(turns, now, rand.New(rand.NewSource(1)))

	if len(times) != 3 {
		t.Fatalf("expected 3 timestamps, got %d", len(times))
	}
	if !times[1].Equal(base.Add(5 * time.Second)) {
		t.Errorf("expected fill at base+5s, got %v", times[1])
	}
	if got := averageGapSeconds(times); got != 10.0 {
		t.Errorf("expected average gap 10.0, got %v", got)
	}
}

func TestResolveTimelineNoPriorKnownUsesNow(t *testing.T) {
	fixed := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	known := fixed.Add(time.Minute)

	turns := []*domain.Turn{
		{Timestamp: nil},
		{Timestamp: &known},
	}

	times := resolveTimeline(turns, func() time.Time { return fixed }, rand.New(rand.NewSource(1)))
	if !times[0].Equal(fixed) {
		t.Errorf("expected leading gap filled with now, got %v", times[0])
	}
}

func TestAverageGapAbsorbsNegativeDeltas(t *testing.T) {
	base := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(30 * time.Second),
		base, // out of order: -30s becomes +30s
		base.Add(10 * time.Second),
	}

	if got := averageGapSeconds(times); got != 20.0 {
		t.Errorf("expected 20.0, got %v", got)
	}
}

func TestAverageGapFewerThanTwoTurns(t *testing.T) {
	if got := averageGapSeconds(nil); got != 0.0 {
		t.Errorf("expected 0.0 for no timestamps, got %v", got)
	}
	if got := averageGapSeconds([]time.Time{time.Now()}); got != 0.0 {
		t.Errorf("expected 0.0 for a single timestamp, got %v", got)
	}
}

func TestResolveTimelineFullySynthetic(t *testing.T) {
	fixed := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	turns := []*domain.Turn{{}, {}, {}, {}}

	times := resolveTimeline(turns, func() time.Time { return fixed }, rand.New(rand.NewSource(7)))

	if !times[0].Equal(fixed) {
		t.Errorf("synthetic timeline should start at now, got %v", times[0])
	}
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1]).Seconds()
		if gap < 2 || gap > 40 {
			t.Errorf("synthetic gap %v outside [2,40]s", gap)
		}
	}
}
