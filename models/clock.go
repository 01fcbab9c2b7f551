package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	customerrors "shift-calendar/errors"

	"gopkg.in/yaml.v3"
)

// MinutesPerDay is the length of a calendar day in wall-clock minutes.
const MinutesPerDay = 24 * 60

// ClockTime is a time of day expressed in minutes since local midnight.
// Valid values are 0..1440; 1440 ("24:00") is only meaningful as an end time.
type ClockTime int

// Clock builds a ClockTime from an hour and minute.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime accepts "H:MM", "HH:MM" and "HH:MM:SS". Seconds are dropped.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", customerrors.ErrInvalidClockTime, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", customerrors.ErrInvalidClockTime, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", customerrors.ErrInvalidClockTime, s)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("%w: %q", customerrors.ErrInvalidClockTime, s)
	}
	return Clock(hour, minute), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On returns the wall-clock instant of c on the calendar date of day.
// Minutes past 24:00 roll into the following date.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, int(c), 0, 0, day.Location())
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", customerrors.ErrInvalidClockTime, string(data))
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *ClockTime) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseClockTime(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// WeekOrder lists weekdays the way a production week is read, Monday first.
var WeekOrder = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ParseWeekday accepts full or three-letter English names in any case,
// or the numbers 0..6 with 0 meaning Sunday.
func ParseWeekday(s string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("%w: %q", customerrors.ErrInvalidWeekday, s)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", customerrors.ErrInvalidWeekday, s)
}

// DaySet is a set of weekdays stored as a bitmask indexed by time.Weekday.
type DaySet uint8

// NewDaySet returns a set holding the given weekdays.
func NewDaySet(days ...time.Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// Weekdays is Monday through Friday.
var Weekdays = NewDaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

func (s DaySet) Add(d time.Weekday) DaySet {
	return s | 1<<uint(d)
}

func (s DaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s DaySet) Empty() bool {
	return s == 0
}

// Days returns the members in WeekOrder.
func (s DaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for _, d := range WeekOrder {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s DaySet) names() []string {
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, strings.ToLower(d.String()))
	}
	return names
}

func (s DaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.names())
}

func (s *DaySet) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", customerrors.ErrInvalidWeekday, string(data))
	}
	var set DaySet
	for _, item := range raw {
		var text string
		switch v := item.(type) {
		case string:
			text = v
		case float64:
			text = strconv.Itoa(int(v))
		default:
			return fmt.Errorf("%w: %v", customerrors.ErrInvalidWeekday, item)
		}
		d, err := ParseWeekday(text)
		if err != nil {
			return err
		}
		set = set.Add(d)
	}
	*s = set
	return nil
}

func (s DaySet) MarshalYAML() (any, error) {
	return s.names(), nil
}

func (s *DaySet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: %w: days must be a list", node.Line, customerrors.ErrInvalidWeekday)
	}
	var set DaySet
	for _, item := range node.Content {
		d, err := ParseWeekday(item.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		set = set.Add(d)
	}
	*s = set
	return nil
}
