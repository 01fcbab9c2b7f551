package models

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// ShiftBreak is a planned idle window nested inside a shift definition.
type ShiftBreak struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	StartTime ClockTime `json:"startTime" yaml:"startTime"`
	EndTime   ClockTime `json:"endTime" yaml:"endTime"`
}

// ShiftDefinition is a named recurring work window.
// An EndTime at or before StartTime means the shift runs past midnight.
type ShiftDefinition struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	StartTime ClockTime    `json:"startTime" yaml:"startTime"`
	EndTime   ClockTime    `json:"endTime" yaml:"endTime"`
	Days      DaySet       `json:"days" yaml:"days"`
	Breaks    []ShiftBreak `json:"breaks,omitempty" yaml:"breaks,omitempty"`
}

// Overnight reports whether the window spills into the next calendar date.
// A shift ending exactly at midnight does not.
func (d ShiftDefinition) Overnight() bool {
	return int(d.StartTime)+d.LengthMinutes() > MinutesPerDay
}

// LengthMinutes is the span from start to end, wrapped past midnight.
func (d ShiftDefinition) LengthMinutes() int {
	if d.EndTime > d.StartTime {
		return int(d.EndTime - d.StartTime)
	}
	return int(d.EndTime) + MinutesPerDay - int(d.StartTime)
}

// BreakSpan returns a break's offset from the shift start and its length,
// both in minutes.
func (d ShiftDefinition) BreakSpan(b ShiftBreak) (offset, length int) {
	offset = wrapMinutes(int(b.StartTime) - int(d.StartTime))
	length = wrapMinutes(int(b.EndTime) - int(b.StartTime))
	return offset, length
}

// ScheduledMinutes is the window length minus all breaks.
func (d ShiftDefinition) ScheduledMinutes() int {
	total := d.LengthMinutes()
	for _, b := range d.Breaks {
		_, length := d.BreakSpan(b)
		total -= length
	}
	return total
}

// ShiftTemplate is the shift calendar authored by the template form.
type ShiftTemplate struct {
	Code         string            `json:"code" yaml:"code"`
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	WeekType     string            `json:"weekType,omitempty" yaml:"weekType,omitempty"`
	ShiftPattern string            `json:"shiftPattern,omitempty" yaml:"shiftPattern,omitempty"`
	Definitions  []ShiftDefinition `json:"definitions" yaml:"definitions"`
}

// ActiveOn returns the definitions whose days include day, ordered by start
// time and then id. The returned slice is a copy.
func (t ShiftTemplate) ActiveOn(day time.Weekday) []ShiftDefinition {
	var active []ShiftDefinition
	for _, def := range t.Definitions {
		if def.Days.Has(day) {
			active = append(active, def)
		}
	}
	slices.SortStableFunc(active, func(a, b ShiftDefinition) int {
		if a.StartTime != b.StartTime {
			return int(a.StartTime) - int(b.StartTime)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return active
}

// RunState describes what a machine was doing during a span.
type RunState string

const (
	StateRunning RunState = "running"
	StateStopped RunState = "stopped"
	// StateNoData marks time no run-state interval covered.
	StateNoData RunState = "no_data"
)

// RunStateInterval is a half-open span [Start, End) of continuous running or stopped state.
type RunStateInterval struct {
	MachineID string    `json:"machineId,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	IsRunning bool      `json:"isRunning"`
}

func (r RunStateInterval) State() RunState {
	if r.IsRunning {
		return StateRunning
	}
	return StateStopped
}

// Case is one of the eight time-attribution categories. CaseNone marks
// ordinary time that carries no exception.
type Case int

const (
	CaseNone Case = iota
	CaseUnplannedStop
	CaseBreakStopped
	CaseBreakRunning
	CaseEarlyStart
	CaseOvertime
	CaseOutsideShift
	CaseSunday
	CaseHoliday
)

var caseLabels = map[Case]string{
	CaseNone:          "none",
	CaseUnplannedStop: "unplanned stop in shift",
	CaseBreakStopped:  "stopped during break",
	CaseBreakRunning:  "running during break",
	CaseEarlyStart:    "early start before first shift",
	CaseOvertime:      "overtime within late buffer",
	CaseOutsideShift:  "running outside shift",
	CaseSunday:        "sunday",
	CaseHoliday:       "holiday",
}

// Label returns a short human readable description of the case.
func (c Case) Label() string {
	if l, ok := caseLabels[c]; ok {
		return l
	}
	return "unknown"
}

// MarshalJSON writes CaseNone as null and any other case as its number.
func (c Case) MarshalJSON() ([]byte, error) {
	if c == CaseNone {
		return []byte("null"), nil
	}
	return json.Marshal(int(c))
}

func (c *Case) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = CaseNone
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Case(n)
	return nil
}

// SegmentKind is the calendar role of a span of the day.
type SegmentKind string

const (
	KindNonWorkingDay    SegmentKind = "non_working_day"
	KindBeforeFirstShift SegmentKind = "before_first_shift"
	KindInShift          SegmentKind = "in_shift"
	KindInBreak          SegmentKind = "in_break"
	KindGap              SegmentKind = "gap"
	KindAfterLastShift   SegmentKind = "after_last_shift"
	KindUnscheduled      SegmentKind = "unscheduled"
)

// DaySegment is one calendar window produced by the resolver.
type DaySegment struct {
	Kind  SegmentKind
	Start time.Time
	End   time.Time
	// ShiftDefinitionID owns InShift and InBreak segments.
	ShiftDefinitionID string
	BreakID           string
	// RelatedShiftID is the next shift for BeforeFirstShift and the shift
	// that last ended for Gap and AfterLastShift.
	RelatedShiftID string
	// AnchorEnd is when RelatedShiftID ended (Gap and AfterLastShift only).
	AnchorEnd time.Time
}

// DaySegments is the resolved calendar of a single date. Segments tile
// [Start, End) in chronological order.
type DaySegments struct {
	Date      time.Time
	Start     time.Time
	End       time.Time
	IsSunday  bool
	IsHoliday bool
	Segments  []DaySegment
}

// ClassifiedSegment is one span of the classified day.
type ClassifiedSegment struct {
	Start             time.Time   `json:"start"`
	End               time.Time   `json:"end"`
	CaseID            Case        `json:"caseId"`
	ShiftDefinitionID string      `json:"shiftDefinitionId,omitempty"`
	State             RunState    `json:"state"`
	Kind              SegmentKind `json:"kind"`
	// NearestShiftID is the shift a policy merge attributes this segment to.
	NearestShiftID string `json:"nearestShiftDefinitionId,omitempty"`
	Merged         bool   `json:"merged,omitempty"`
}

func (s ClassifiedSegment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// WeekHours holds hours per weekday, indexed by time.Weekday.
type WeekHours [7]float64

func (w WeekHours) Total() float64 {
	var sum float64
	for _, h := range w {
		sum += h
	}
	return sum
}

// MarshalJSON writes the hours as an object keyed by weekday name, Monday first.
func (w WeekHours) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, d := range WeekOrder {
		if i > 0 {
			sb.WriteByte(',')
		}
		val, err := json.Marshal(w[d])
		if err != nil {
			return nil, err
		}
		sb.WriteString(`"` + strings.ToLower(d.String()) + `":`)
		sb.Write(val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}

// WeekSummary is the scheduled hours of a template over one week.
type WeekSummary struct {
	// Definitions keeps template order for stable rendering.
	Definitions   []string             `json:"definitions"`
	PerDefinition map[string]WeekHours `json:"perDefinition"`
	TotalsPerDay  WeekHours            `json:"totalsPerDay"`
	GrandTotal    float64              `json:"grandTotal"`
}

func wrapMinutes(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}
