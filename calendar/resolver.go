// Package calendar resolves a shift template into the ordered shift, break
// and gap windows of a single calendar date.
package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	customerrors "shift-calendar/errors"
	"shift-calendar/models"
)

type breakWindow struct {
	id         string
	start, end time.Time
}

// window is one occurrence of a shift definition placed on a concrete date.
type window struct {
	id         string
	start, end time.Time
	breaks     []breakWindow
	prevDay    bool
}

// Midnight returns the start of the calendar date of t in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Resolve returns the calendar of date as an ordered list of segments that
// tile the whole day.
//
// Sundays and holidays collapse to a single non-working segment unless the
// policy enables virtual shifts. Overnight definitions are split at 24:00:
// the head belongs to the date the definition is active on and the tail to
// the next date. Time after the previous date's last shift is reported as
// that date's AfterLastShift, so BeforeFirstShift only appears when the
// previous date contributed no shifts.
func Resolve(date time.Time, template models.ShiftTemplate, holidays models.HolidaySet, policy models.PolicyConfig) (models.DaySegments, error) {
	dayStart := Midnight(date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	day := models.DaySegments{
		Date:      dayStart,
		Start:     dayStart,
		End:       dayEnd,
		IsSunday:  dayStart.Weekday() == time.Sunday,
		IsHoliday: holidays.Contains(dayStart),
	}

	if policy.NonWorking(day.IsSunday, day.IsHoliday) {
		day.Segments = []models.DaySegment{{
			Kind:  models.KindNonWorkingDay,
			Start: dayStart,
			End:   dayEnd,
		}}
		return day, nil
	}

	prevDate := dayStart.AddDate(0, 0, -1)
	var prev []window
	if !policy.NonWorking(prevDate.Weekday() == time.Sunday, holidays.Contains(prevDate)) {
		prev = placeWindows(prevDate, template, true)
	}

	var inDay []window
	var last *window
	for i := range prev {
		if prev[i].end.After(dayStart) {
			inDay = append(inDay, prev[i])
		} else if last == nil || prev[i].end.After(last.end) {
			last = &prev[i]
		}
	}
	inDay = append(inDay, placeWindows(dayStart, template, false)...)
	slices.SortStableFunc(inDay, compareWindows)

	for k := 1; k < len(inDay); k++ {
		if inDay[k].start.Before(inDay[k-1].end) {
			return models.DaySegments{}, &customerrors.ConfigurationError{
				Field: "definitions",
				Err: fmt.Errorf("%w: %s and %s on %s", customerrors.ErrOverlappingShifts,
					inDay[k-1].id, inDay[k].id, dayStart.Format(models.DateLayout)),
			}
		}
	}

	cursor := dayStart
	for i := range inDay {
		w := &inDay[i]
		start := later(w.start, dayStart)
		if cursor.Before(start) {
			day.Segments = append(day.Segments, gapSegment(cursor, start, last, w))
		}
		day.Segments = append(day.Segments, w.segments(dayStart, dayEnd)...)
		cursor = earlier(w.end, dayEnd)
		last = w
	}

	if cursor.Before(dayEnd) {
		if last == nil {
			day.Segments = append(day.Segments, models.DaySegment{
				Kind:  models.KindUnscheduled,
				Start: cursor,
				End:   dayEnd,
			})
		} else {
			day.Segments = append(day.Segments, models.DaySegment{
				Kind:           models.KindAfterLastShift,
				Start:          cursor,
				End:            dayEnd,
				RelatedShiftID: last.id,
				AnchorEnd:      last.end,
			})
		}
	}
	return day, nil
}

// placeWindows lays out every definition active on date's weekday as
// absolute windows starting on date.
func placeWindows(date time.Time, template models.ShiftTemplate, prevDay bool) []window {
	defs := template.ActiveOn(date.Weekday())
	windows := make([]window, 0, len(defs))
	for _, def := range defs {
		length := def.LengthMinutes()
		w := window{
			id:      def.ID,
			start:   def.StartTime.On(date),
			end:     models.ClockTime(int(def.StartTime) + length).On(date),
			prevDay: prevDay,
		}
		for _, b := range def.Breaks {
			off, l := def.BreakSpan(b)
			if l == 0 {
				continue
			}
			w.breaks = append(w.breaks, breakWindow{
				id:    b.ID,
				start: models.ClockTime(int(def.StartTime) + off).On(date),
				end:   models.ClockTime(int(def.StartTime) + off + l).On(date),
			})
		}
		slices.SortFunc(w.breaks, func(a, b breakWindow) int { return a.start.Compare(b.start) })
		windows = append(windows, w)
	}
	return windows
}

// segments cuts the window, clipped to [lo, hi), into InShift and InBreak pieces.
func (w *window) segments(lo, hi time.Time) []models.DaySegment {
	from := later(w.start, lo)
	to := earlier(w.end, hi)
	var out []models.DaySegment
	cursor := from
	for _, b := range w.breaks {
		bs := later(later(b.start, from), cursor)
		be := earlier(b.end, to)
		if !bs.Before(be) {
			continue
		}
		if cursor.Before(bs) {
			out = append(out, models.DaySegment{
				Kind:              models.KindInShift,
				Start:             cursor,
				End:               bs,
				ShiftDefinitionID: w.id,
			})
		}
		out = append(out, models.DaySegment{
			Kind:              models.KindInBreak,
			Start:             bs,
			End:               be,
			ShiftDefinitionID: w.id,
			BreakID:           b.id,
		})
		cursor = be
	}
	if cursor.Before(to) {
		out = append(out, models.DaySegment{
			Kind:              models.KindInShift,
			Start:             cursor,
			End:               to,
			ShiftDefinitionID: w.id,
		})
	}
	return out
}

// gapSegment labels the stretch between the last ended shift and the next one.
func gapSegment(from, to time.Time, last, next *window) models.DaySegment {
	switch {
	case last == nil:
		return models.DaySegment{
			Kind:           models.KindBeforeFirstShift,
			Start:          from,
			End:            to,
			RelatedShiftID: next.id,
		}
	case last.prevDay:
		return models.DaySegment{
			Kind:           models.KindAfterLastShift,
			Start:          from,
			End:            to,
			RelatedShiftID: last.id,
			AnchorEnd:      last.end,
		}
	default:
		return models.DaySegment{
			Kind:           models.KindGap,
			Start:          from,
			End:            to,
			RelatedShiftID: last.id,
			AnchorEnd:      last.end,
		}
	}
}

func compareWindows(a, b window) int {
	if c := a.start.Compare(b.start); c != 0 {
		return c
	}
	return strings.Compare(a.id, b.id)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
