package gradebook

import (
	"fmt"
	"math"
	"sync"

	"github.com/PranayN1999/my-gradebook-app/core"
)

// Minimum class-average movement (absolute percentage points) that warrants
// a notification.
const averageDeltaThreshold = 5.0

// Average returns the arithmetic mean of the roster's marks; 0 for an empty roster.
func Average(students []Student) float64 {
	if len(students) == 0 {
		return 0
	}
	var sum float64
	for _, s := range students {
		sum += s.Marks
	}
	return sum / float64(len(students))
}

// AverageTracker remembers the class average as of the last emitted
// change notification (not the live average). Sub-threshold drifts do not
// advance the baseline, so small changes accumulate until the cumulative
// difference from the last notified average crosses the threshold.
type AverageTracker struct {
	mutex    sync.Mutex
	baseline float64
	seeded   bool
}

func NewAverageTracker() *AverageTracker {
	return &AverageTracker{}
}

// Seed initializes the baseline from the first successful roster fetch.
// Subsequent calls are no-ops.
func (t *AverageTracker) Seed(average float64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.seeded {
		t.baseline = average
		t.seeded = true
	}
}

// Baseline returns the last notified average.
func (t *AverageTracker) Baseline() float64 {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.baseline
}

// MaybeNotifyChange decides whether the class average moved enough to notify.
// It returns a notification when |newAverage - baseline| >= 5.0 and the
// category is enabled, advancing the baseline to newAverage. When the delta
// crosses the threshold but the category is disabled, the baseline still
// advances, a quirk kept for parity with the shipped app.
func (t *AverageTracker) MaybeNotifyChange(oldAverage, newAverage float64, enabled bool) *core.Notification {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.seeded {
		t.baseline = oldAverage
		t.seeded = true
	}

	diff := math.Abs(newAverage - t.baseline)
	if diff < averageDeltaThreshold {
		return nil
	}

	t.baseline = newAverage
	if !enabled {
		return nil
	}
	return core.NewNotification(
		"Class Average Update",
		fmt.Sprintf("The class average changed by %.1f points to %.1f.", diff, newAverage),
		nil,
	)
}
