// Package engine chains the calendar, classifier and merger stages for
// single machine-days and for batches of them.
package engine

import (
	"fmt"
	"slices"
	"time"

	"shift-calendar/calendar"
	"shift-calendar/classifier"
	"shift-calendar/merger"
	"shift-calendar/models"
)

// MachineDay is the unit of classification work.
type MachineDay struct {
	MachineID string
	Date      time.Time
	Intervals []models.RunStateInterval
}

// DayResult is the classified day of one machine.
type DayResult struct {
	MachineID string                     `json:"machineId"`
	Date      string                     `json:"date"`
	Start     time.Time                  `json:"start"`
	End       time.Time                  `json:"end"`
	IsSunday  bool                       `json:"isSunday"`
	IsHoliday bool                       `json:"isHoliday"`
	Segments  []models.ClassifiedSegment `json:"segments"`
	// CaseMinutes is keyed by case id; 0 collects time without a case.
	CaseMinutes map[models.Case]float64 `json:"caseMinutes"`
	// ShiftMinutes is the time attributed to each shift definition after merging.
	ShiftMinutes map[string]float64 `json:"shiftMinutes"`
}

// ClassifyDay resolves the calendar of unit.Date, classifies the intervals
// against it and applies the policy merge.
func ClassifyDay(unit MachineDay, template models.ShiftTemplate, holidays models.HolidaySet, policy models.PolicyConfig) (DayResult, error) {
	date := unit.Date.Format(models.DateLayout)
	day, err := calendar.Resolve(unit.Date, template, holidays, policy)
	if err != nil {
		return DayResult{}, fmt.Errorf("resolve calendar for %s: %w", date, err)
	}
	segments, err := classifier.Classify(unit.Intervals, day, policy)
	if err != nil {
		return DayResult{}, fmt.Errorf("classify %s on %s: %w", unit.MachineID, date, err)
	}
	segments = merger.Merge(segments, policy)

	result := DayResult{
		MachineID:    unit.MachineID,
		Date:         date,
		Start:        day.Start,
		End:          day.End,
		IsSunday:     day.IsSunday,
		IsHoliday:    day.IsHoliday,
		Segments:     segments,
		CaseMinutes:  make(map[models.Case]float64),
		ShiftMinutes: make(map[string]float64),
	}
	for _, s := range segments {
		result.CaseMinutes[s.CaseID] += s.Duration().Minutes()
	}
	for id, cases := range merger.Buckets(segments) {
		if id == "" {
			continue
		}
		for _, d := range cases {
			result.ShiftMinutes[id] += d.Minutes()
		}
	}
	return result, nil
}

// GroupByMachine splits a mixed interval stream by machine id, keeping the
// input order inside each group. Ids are returned sorted.
func GroupByMachine(intervals []models.RunStateInterval) ([]string, map[string][]models.RunStateInterval) {
	groups := make(map[string][]models.RunStateInterval)
	for _, iv := range intervals {
		groups[iv.MachineID] = append(groups[iv.MachineID], iv)
	}
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, groups
}

// SplitByDay builds one MachineDay per calendar date from the date of from
// to the date of to, inclusive, in loc. Each unit carries the intervals that
// touch its date; clipping is left to the classifier. A date with no
// intervals still gets a unit, which then fails classification as missing
// input.
func SplitByDay(machineID string, intervals []models.RunStateInterval, from, to time.Time, loc *time.Location) []MachineDay {
	first := calendar.Midnight(from.In(loc))
	last := calendar.Midnight(to.In(loc))
	var units []MachineDay
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		next := d.AddDate(0, 0, 1)
		var touching []models.RunStateInterval
		for _, iv := range intervals {
			if iv.End.After(d) && iv.Start.Before(next) {
				touching = append(touching, iv)
			}
		}
		units = append(units, MachineDay{MachineID: machineID, Date: d, Intervals: touching})
	}
	return units
}

// Plan turns a mixed interval stream into machine-days covering [from, to].
// A zero from or to is taken from the earliest start or latest end in the
// stream.
func Plan(intervals []models.RunStateInterval, from, to time.Time, loc *time.Location) []MachineDay {
	if len(intervals) == 0 {
		return nil
	}
	if from.IsZero() || to.IsZero() {
		lo, hi := intervals[0].Start, intervals[0].End
		for _, iv := range intervals[1:] {
			if iv.Start.Before(lo) {
				lo = iv.Start
			}
			if iv.End.After(hi) {
				hi = iv.End
			}
		}
		if from.IsZero() {
			from = lo
		}
		if to.IsZero() {
			// End is exclusive; an interval ending at midnight does not open a new day.
			to = hi.Add(-time.Nanosecond)
		}
	}
	ids, groups := GroupByMachine(intervals)
	var units []MachineDay
	for _, id := range ids {
		units = append(units, SplitByDay(id, groups[id], from, to, loc)...)
	}
	return units
}
