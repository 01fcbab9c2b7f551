package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	customerrors "shift-calendar/errors"
)

const minutesPerWeek = 7 * MinutesPerDay

// Validate checks a template the way the template editor does before save.
// All problems are returned joined; each is a *ConfigurationError.
func (t ShiftTemplate) Validate() error {
	var errs []error
	if strings.TrimSpace(t.Code) == "" {
		errs = append(errs, &customerrors.ConfigurationError{Field: "code", Err: customerrors.ErrMissingCode})
	}
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, &customerrors.ConfigurationError{Field: "name", Err: customerrors.ErrMissingName})
	}
	if len(t.Definitions) == 0 {
		errs = append(errs, &customerrors.ConfigurationError{Field: "definitions", Err: customerrors.ErrNoDefinitions})
	}

	seen := make(map[string]bool, len(t.Definitions))
	for i, def := range t.Definitions {
		field := fmt.Sprintf("definitions[%d]", i)
		switch {
		case def.ID == "":
			errs = append(errs, &customerrors.ConfigurationError{Field: field + ".id", Err: customerrors.ErrMissingID})
		case seen[def.ID]:
			errs = append(errs, &customerrors.ConfigurationError{
				Field: field + ".id",
				Err:   fmt.Errorf("%w: %s", customerrors.ErrDuplicateID, def.ID),
			})
		}
		seen[def.ID] = true
		if def.Days.Empty() {
			errs = append(errs, &customerrors.ConfigurationError{Field: field + ".days", Err: customerrors.ErrNoDays})
		}
		if def.StartTime == MinutesPerDay {
			errs = append(errs, &customerrors.ConfigurationError{Field: field + ".startTime", Err: customerrors.ErrStartAtMidnight})
		}
		errs = append(errs, validateBreaks(field, def)...)
	}

	if err := CheckWeekOverlap(t.Definitions); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateBreaks(field string, def ShiftDefinition) []error {
	type span struct {
		idx, off, end int
	}
	var errs []error
	spans := make([]span, 0, len(def.Breaks))
	length := def.LengthMinutes()
	for j, b := range def.Breaks {
		bf := fmt.Sprintf("%s.breaks[%d]", field, j)
		if b.StartTime == MinutesPerDay {
			errs = append(errs, &customerrors.ConfigurationError{Field: bf + ".startTime", Err: customerrors.ErrStartAtMidnight})
			continue
		}
		off, l := def.BreakSpan(b)
		if l == 0 {
			errs = append(errs, &customerrors.ConfigurationError{Field: bf, Err: customerrors.ErrEmptyBreak})
			continue
		}
		if off+l > length {
			errs = append(errs, &customerrors.ConfigurationError{
				Field: bf,
				Err:   fmt.Errorf("%w: %s-%s not within %s-%s", customerrors.ErrBreakOutsideShift, b.StartTime, b.EndTime, def.StartTime, def.EndTime),
			})
			continue
		}
		spans = append(spans, span{idx: j, off: off, end: off + l})
	}
	slices.SortFunc(spans, func(a, b span) int { return a.off - b.off })
	for k := 1; k < len(spans); k++ {
		if spans[k].off < spans[k-1].end {
			errs = append(errs, &customerrors.ConfigurationError{
				Field: fmt.Sprintf("%s.breaks[%d]", field, spans[k].idx),
				Err:   customerrors.ErrOverlappingBreaks,
			})
		}
	}
	return errs
}

type weekWindow struct {
	id         string
	day        time.Weekday
	start, end int
}

// CheckWeekOverlap places every definition on a Sunday-based week line,
// wrapping Saturday night into Sunday morning, and reports the first pair of
// active windows that overlap.
func CheckWeekOverlap(defs []ShiftDefinition) error {
	var windows []weekWindow
	for _, def := range defs {
		length := def.LengthMinutes()
		for _, d := range def.Days.Days() {
			start := int(d)*MinutesPerDay + int(def.StartTime)
			end := start + length
			if end > minutesPerWeek {
				windows = append(windows,
					weekWindow{id: def.ID, day: d, start: start, end: minutesPerWeek},
					weekWindow{id: def.ID, day: d, start: 0, end: end - minutesPerWeek},
				)
				continue
			}
			windows = append(windows, weekWindow{id: def.ID, day: d, start: start, end: end})
		}
	}
	slices.SortFunc(windows, func(a, b weekWindow) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return strings.Compare(a.id, b.id)
	})
	for k := 1; k < len(windows); k++ {
		prev, cur := windows[k-1], windows[k]
		if cur.start < prev.end {
			return &customerrors.ConfigurationError{
				Field: "definitions",
				Err: fmt.Errorf("%w: %s (%s) and %s (%s)", customerrors.ErrOverlappingShifts,
					prev.id, prev.day, cur.id, cur.day),
			}
		}
	}
	return nil
}
