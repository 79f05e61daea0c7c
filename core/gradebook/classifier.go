package gradebook

// Classify maps marks to the first grade whose cutoff is met, scanning the
// threshold map in its declared order. Returns GradeF when no cutoff is met.
// Total over any finite marks; performs no validation of the map, so an
// inverted (non-monotonic) map silently yields anomalous results.
func Classify(marks float64, thresholds ThresholdMap) Grade {
	for _, t := range thresholds {
		if marks >= t.Cutoff {
			return t.Grade
		}
	}
	return GradeF
}
