package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/PabloGalante/convo-insights/internal/domain"
)

const missingTimestampGap = 5 * time.Second

// resolveTimeline produces one concrete timestamp per turn.
//
// When no turn carries a real timestamp the whole timeline is
// synthesized from now() with pseudo-random gaps of 2-40 seconds, so
// the response-time metric degrades to an uninformative placeholder
// instead of failing. Otherwise missing timestamps are filled with the
// last known one plus 5 seconds (or now() when nothing is known yet).
func resolveTimeline(turns []*domain.Turn, now func() time.Time, rng *rand.Rand) []time.Time {
	times := make([]time.Time, len(turns))

	anyKnown := false
	for _, t := range turns {
		if t.Timestamp != nil {
			anyKnown = true
			break
		}
	}

	if !anyKnown {
		cursor := now()
		for i := range turns {
			times[i] = cursor
			cursor = cursor.Add(time.Duration(2+rng.Intn(39)) * time.Second)
		}
		return times
	}

	var lastKnown *time.Time
	for i, t := range turns {
		if t.Timestamp != nil {
			ts := *t.Timestamp
			times[i] = ts
			lastKnown = &ts
			continue
		}

		var fill time.Time
		if lastKnown != nil {
			fill = lastKnown.Add(missingTimestampGap)
		} else {
			fill = now()
		}
		times[i] = fill
		lastKnown = &fill
	}
	return times
}

// averageGapSeconds returns the mean gap between consecutive
// timestamps, 0.0 for fewer than two. A negative gap (out-of-order real
// timestamps) is corrected to its absolute value rather than treated as
// an error.
func averageGapSeconds(times []time.Time) float64 {
	if len(times) < 2 {
		return 0.0
	}

	var sum float64
	for i := 1; i < len(times); i++ {
		sum += math.Abs(times[i].Sub(times[i-1]).Seconds())
	}
	return sum / float64(len(times)-1)
}
