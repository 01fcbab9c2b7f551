// Package merger folds boundary cases into neighbouring shift buckets.
package merger

import (
	"slices"
	"time"

	"shift-calendar/models"
)

// Merge relabels early-start and overtime segments according to the policy
// and returns a new slice; the input is left untouched. The case id is kept
// for display, only the shift attribution changes.
//
// With MergeCase4ToShift1, case 4 goes to the first shift of the day. With
// MergeCase5ToLatest, case 5 goes to the shift that most recently ended.
// Overtime in a gap between two shifts therefore goes to the preceding shift.
func Merge(segments []models.ClassifiedSegment, policy models.PolicyConfig) []models.ClassifiedSegment {
	out := slices.Clone(segments)
	for i := range out {
		s := &out[i]
		if s.NearestShiftID == "" {
			continue
		}
		switch {
		case s.CaseID == models.CaseEarlyStart && policy.MergeCase4ToShift1,
			s.CaseID == models.CaseOvertime && policy.MergeCase5ToLatest:
			s.ShiftDefinitionID = s.NearestShiftID
			s.Merged = true
		}
	}
	return out
}

// Buckets sums segment durations per shift definition and case. Segments
// attributed to no shift are collected under the empty id.
func Buckets(segments []models.ClassifiedSegment) map[string]map[models.Case]time.Duration {
	buckets := make(map[string]map[models.Case]time.Duration)
	for _, s := range segments {
		b, ok := buckets[s.ShiftDefinitionID]
		if !ok {
			b = make(map[models.Case]time.Duration)
			buckets[s.ShiftDefinitionID] = b
		}
		b[s.CaseID] += s.Duration()
	}
	return buckets
}
