package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"shift-calendar/engine"
	"shift-calendar/models"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "csv"}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// FormatDays renders classified days in the given format.
func FormatDays(format string, days []engine.DayResult) string {
	switch format {
	case "json":
		return FormatJSON(days)
	case "csv":
		return FormatCSV(days)
	default:
		return FormatText(days)
	}
}

// FormatSummary renders a week summary in the given format.
func FormatSummary(format string, summary models.WeekSummary) string {
	switch format {
	case "json":
		return FormatSummaryJSON(summary)
	case "csv":
		return FormatSummaryCSV(summary)
	default:
		return FormatSummaryText(summary)
	}
}

// FormatText returns the text representation of classified days
func FormatText(days []engine.DayResult) string {
	var sb strings.Builder

	for _, day := range days {
		sb.WriteString(formatDayHeader(day))
		sb.WriteString("\n")
		for _, seg := range day.Segments {
			sb.WriteString("  ")
			sb.WriteString(formatTextLine(day, seg))
			sb.WriteString("\n")
		}
		sb.WriteString("  ")
		sb.WriteString(formatCaseTotals(day))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of classified days
func FormatJSON(days []engine.DayResult) string {
	if days == nil {
		days = []engine.DayResult{}
	}
	jsonBytes, _ := json.MarshalIndent(days, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns one CSV row per classified segment
func FormatCSV(days []engine.DayResult) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{
		"Machine", "Date", "Start", "End", "Minutes", "State", "Kind", "Case", "Case Label", "Shift", "Merged",
	})

	for _, day := range days {
		for _, seg := range day.Segments {
			writer.Write([]string{
				day.MachineID,
				day.Date,
				seg.Start.Format(time.RFC3339),
				seg.End.Format(time.RFC3339),
				formatMinutes(seg.Duration().Minutes()),
				string(seg.State),
				string(seg.Kind),
				caseColumn(seg.CaseID),
				seg.CaseID.Label(),
				seg.ShiftDefinitionID,
				strconv.FormatBool(seg.Merged),
			})
		}
	}

	writer.Flush()
	return sb.String()
}

// FormatSummaryText returns the weekly hours as a table, Monday first
func FormatSummaryText(summary models.WeekSummary) string {
	var sb strings.Builder
	width := len("total")
	for _, id := range summary.Definitions {
		width = max(width, len(id))
	}

	sb.WriteString(fmt.Sprintf("%-*s", width, "shift"))
	for _, d := range models.WeekOrder {
		sb.WriteString(fmt.Sprintf(" %6s", d.String()[:3]))
	}
	sb.WriteString(fmt.Sprintf(" %7s\n", "week"))

	writeRow := func(label string, hours models.WeekHours) {
		sb.WriteString(fmt.Sprintf("%-*s", width, label))
		for _, d := range models.WeekOrder {
			sb.WriteString(fmt.Sprintf(" %6.2f", hours[d]))
		}
		sb.WriteString(fmt.Sprintf(" %7.2f\n", hours.Total()))
	}
	for _, id := range summary.Definitions {
		writeRow(id, summary.PerDefinition[id])
	}
	writeRow("total", summary.TotalsPerDay)

	return sb.String()
}

// FormatSummaryJSON returns the JSON representation of a week summary
func FormatSummaryJSON(summary models.WeekSummary) string {
	jsonBytes, _ := json.MarshalIndent(summary, "", "  ")
	return string(jsonBytes)
}

// FormatSummaryCSV returns one row per definition plus a totals row
func FormatSummaryCSV(summary models.WeekSummary) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{"Shift"}
	for _, d := range models.WeekOrder {
		header = append(header, d.String())
	}
	writer.Write(append(header, "Week"))

	row := func(label string, hours models.WeekHours) []string {
		out := []string{label}
		for _, d := range models.WeekOrder {
			out = append(out, strconv.FormatFloat(hours[d], 'f', 2, 64))
		}
		return append(out, strconv.FormatFloat(hours.Total(), 'f', 2, 64))
	}
	for _, id := range summary.Definitions {
		writer.Write(row(id, summary.PerDefinition[id]))
	}
	writer.Write(row("Total", summary.TotalsPerDay))

	writer.Flush()
	return sb.String()
}

// formatDayHeader formats the first line of a day block
func formatDayHeader(day engine.DayResult) string {
	var flags []string
	if day.IsSunday {
		flags = append(flags, "sunday")
	}
	if day.IsHoliday {
		flags = append(flags, "holiday")
	}
	header := fmt.Sprintf("%s %s (%s)", day.Date, day.MachineID, strings.ToLower(day.Start.Weekday().String()))
	if len(flags) > 0 {
		header += " [" + strings.Join(flags, ", ") + "]"
	}
	return header
}

// formatTextLine formats a single segment line for text output
func formatTextLine(day engine.DayResult, seg models.ClassifiedSegment) string {
	line := fmt.Sprintf("%s-%s %-18s %-8s %-7s",
		clockLabel(day, seg.Start), clockLabel(day, seg.End),
		seg.Kind, seg.State, caseLabel(seg.CaseID))
	if seg.CaseID != models.CaseNone {
		line += " " + seg.CaseID.Label()
	}
	if seg.ShiftDefinitionID != "" {
		line += " [" + seg.ShiftDefinitionID
		if seg.Merged {
			line += ", merged"
		}
		line += "]"
	}
	return strings.TrimRight(line, " ")
}

// formatCaseTotals lists minutes per case in case order
func formatCaseTotals(day engine.DayResult) string {
	cases := make([]models.Case, 0, len(day.CaseMinutes))
	for c := range day.CaseMinutes {
		cases = append(cases, c)
	}
	slices.Sort(cases)

	parts := make([]string, 0, len(cases))
	for _, c := range cases {
		label := caseLabel(c)
		if c == models.CaseNone {
			label = "none"
		}
		parts = append(parts, fmt.Sprintf("%s=%sm", label, formatMinutes(day.CaseMinutes[c])))
	}
	return "totals: " + strings.Join(parts, ", ")
}

// clockLabel prints the day's own end as 24:00 rather than the next midnight
func clockLabel(day engine.DayResult, t time.Time) string {
	if t.Equal(day.End) {
		return "24:00"
	}
	return t.Format("15:04")
}

func caseLabel(c models.Case) string {
	if c == models.CaseNone {
		return "-"
	}
	return fmt.Sprintf("case %d", int(c))
}

func caseColumn(c models.Case) string {
	if c == models.CaseNone {
		return ""
	}
	return strconv.Itoa(int(c))
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
