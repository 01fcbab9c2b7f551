package models

import "time"

// DateLayout is the civil date format used for holidays and CLI date flags.
const DateLayout = "2006-01-02"

// HolidaySet is a set of civil dates. A nil set contains nothing, and Add
// allocates it on first use.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		h.Add(d)
	}
	return h
}

func (h *HolidaySet) Add(date time.Time) {
	if *h == nil {
		*h = make(HolidaySet)
	}
	(*h)[date.Format(DateLayout)] = struct{}{}
}

// Contains compares by calendar date in the location of date.
func (h HolidaySet) Contains(date time.Time) bool {
	_, ok := h[date.Format(DateLayout)]
	return ok
}
