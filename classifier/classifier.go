// Package classifier partitions a machine-day into time-attribution cases.
package classifier

import (
	"time"

	customerrors "shift-calendar/errors"
	"shift-calendar/models"
)

// ValidateIntervals checks the run-state contract: the stream is not empty,
// every interval is non-empty, sorted by start and does not overlap its
// predecessor.
func ValidateIntervals(intervals []models.RunStateInterval) error {
	if len(intervals) == 0 {
		return &customerrors.InputError{Index: 0, Err: customerrors.ErrNoIntervals}
	}
	for k, iv := range intervals {
		if !iv.End.After(iv.Start) {
			return &customerrors.InputError{Index: k, Err: customerrors.ErrEmptyInterval}
		}
		if k == 0 {
			continue
		}
		prev := intervals[k-1]
		if iv.Start.Before(prev.Start) {
			return &customerrors.InputError{Index: k, Err: customerrors.ErrUnsortedIntervals}
		}
		if iv.Start.Before(prev.End) {
			return &customerrors.InputError{Index: k, Err: customerrors.ErrOverlappingIntervals}
		}
	}
	return nil
}

// Classify merges the run-state stream with the resolved day and returns
// segments that tile [day.Start, day.End) in order. Each segment lies inside
// exactly one run-state interval (or a stretch with no data) and exactly one
// day segment. Intervals are clipped to the day; the input is never repaired.
func Classify(intervals []models.RunStateInterval, day models.DaySegments, policy models.PolicyConfig) ([]models.ClassifiedSegment, error) {
	if err := ValidateIntervals(intervals); err != nil {
		return nil, err
	}
	runs := clip(intervals, day.Start, day.End)
	buffer := policy.LateBuffer()

	out := make([]models.ClassifiedSegment, 0, len(day.Segments)+2*len(runs))
	i := 0
	for _, seg := range day.Segments {
		cursor := seg.Start
		for cursor.Before(seg.End) {
			for i < len(runs) && !runs[i].End.After(cursor) {
				i++
			}

			next := seg.End
			state := models.StateNoData
			if i < len(runs) && !runs[i].Start.After(cursor) {
				state = runs[i].State()
				next = earlier(next, runs[i].End)
			} else if i < len(runs) && runs[i].Start.Before(next) {
				next = runs[i].Start
			}

			if limit, ok := bufferEnd(seg, buffer); ok && cursor.Before(limit) && limit.Before(next) {
				next = limit
			}

			out = append(out, classify(seg, day, state, cursor, next, buffer))
			cursor = next
		}
	}
	return out, nil
}

// classify applies the case table to one piece of a day segment.
func classify(seg models.DaySegment, day models.DaySegments, state models.RunState, from, to time.Time, buffer time.Duration) models.ClassifiedSegment {
	s := models.ClassifiedSegment{
		Start: from,
		End:   to,
		State: state,
		Kind:  seg.Kind,
	}
	running := state == models.StateRunning
	stopped := state == models.StateStopped

	switch seg.Kind {
	case models.KindNonWorkingDay:
		// Sunday wins over a holiday that falls on a Sunday.
		if day.IsSunday {
			s.CaseID = models.CaseSunday
		} else {
			s.CaseID = models.CaseHoliday
		}
	case models.KindBeforeFirstShift:
		if running {
			s.CaseID = models.CaseEarlyStart
			s.NearestShiftID = seg.RelatedShiftID
		}
	case models.KindInBreak:
		s.ShiftDefinitionID = seg.ShiftDefinitionID
		switch {
		case stopped:
			s.CaseID = models.CaseBreakStopped
		case running:
			s.CaseID = models.CaseBreakRunning
		}
	case models.KindInShift:
		s.ShiftDefinitionID = seg.ShiftDefinitionID
		if stopped {
			s.CaseID = models.CaseUnplannedStop
		}
	case models.KindGap, models.KindAfterLastShift:
		if running {
			if from.Before(seg.AnchorEnd.Add(buffer)) {
				s.CaseID = models.CaseOvertime
				s.NearestShiftID = seg.RelatedShiftID
			} else {
				s.CaseID = models.CaseOutsideShift
			}
		}
	case models.KindUnscheduled:
		if running {
			s.CaseID = models.CaseOutsideShift
		}
	}
	return s
}

func bufferEnd(seg models.DaySegment, buffer time.Duration) (time.Time, bool) {
	if seg.Kind != models.KindGap && seg.Kind != models.KindAfterLastShift {
		return time.Time{}, false
	}
	return seg.AnchorEnd.Add(buffer), true
}

// clip keeps the intervals that intersect [from, to), trimmed to it.
func clip(intervals []models.RunStateInterval, from, to time.Time) []models.RunStateInterval {
	out := make([]models.RunStateInterval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.End.After(from) || !iv.Start.Before(to) {
			continue
		}
		if iv.Start.Before(from) {
			iv.Start = from
		}
		if iv.End.After(to) {
			iv.End = to
		}
		out = append(out, iv)
	}
	return out
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
