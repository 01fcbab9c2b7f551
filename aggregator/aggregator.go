// Package aggregator computes scheduled hours per week from a shift template.
package aggregator

import "shift-calendar/models"

// Summarize returns the scheduled (non-break) hours of every definition on
// each weekday it is active, the totals per weekday and the weekly total.
// Overnight hours count toward the weekday the shift starts on. Only the
// template is consulted; holidays and run-state data play no part.
func Summarize(template models.ShiftTemplate) models.WeekSummary {
	summary := models.WeekSummary{
		Definitions:   make([]string, 0, len(template.Definitions)),
		PerDefinition: make(map[string]models.WeekHours, len(template.Definitions)),
	}

	for _, def := range template.Definitions {
		minutes := def.ScheduledMinutes()
		if minutes < 0 {
			minutes = 0
		}
		hours := float64(minutes) / 60

		week, seen := summary.PerDefinition[def.ID]
		if !seen {
			summary.Definitions = append(summary.Definitions, def.ID)
		}
		for _, d := range def.Days.Days() {
			week[d] += hours
			summary.TotalsPerDay[d] += hours
		}
		summary.PerDefinition[def.ID] = week
	}

	summary.GrandTotal = summary.TotalsPerDay.Total()
	return summary
}
