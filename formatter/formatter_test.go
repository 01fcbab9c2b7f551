package formatter_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-calendar/engine"
	"shift-calendar/formatter"
	"shift-calendar/models"
)

func at(hour int) time.Time {
	return time.Date(2026, 10, 19, hour, 0, 0, 0, time.UTC)
}

func sampleDay() engine.DayResult {
	return engine.DayResult{
		MachineID: "press-01",
		Date:      "2026-10-19",
		Start:     at(0),
		End:       at(24),
		Segments: []models.ClassifiedSegment{
			{Start: at(0), End: at(7), State: models.StateNoData, Kind: models.KindBeforeFirstShift},
			{
				Start: at(7), End: at(8), CaseID: models.CaseEarlyStart,
				State: models.StateRunning, Kind: models.KindBeforeFirstShift,
				ShiftDefinitionID: "shift1", NearestShiftID: "shift1", Merged: true,
			},
			{
				Start: at(8), End: at(24), CaseID: models.CaseUnplannedStop,
				State: models.StateStopped, Kind: models.KindInShift, ShiftDefinitionID: "shift1",
			},
		},
		CaseMinutes: map[models.Case]float64{
			models.CaseNone:          420,
			models.CaseEarlyStart:    60,
			models.CaseUnplannedStop: 960,
		},
		ShiftMinutes: map[string]float64{"shift1": 1020},
	}
}

func TestFormatText(t *testing.T) {
	tests := map[string]struct {
		days     []engine.DayResult
		contains []string
	}{
		"Empty": {
			days: nil,
		},
		"Single_Day": {
			days: []engine.DayResult{sampleDay()},
			contains: []string{
				"2026-10-19 press-01 (monday)\n",
				"  00:00-07:00 before_first_shift no_data  -\n",
				"07:00-08:00 before_first_shift running  case 4",
				"early start before first shift [shift1, merged]\n",
				"08:00-24:00 in_shift",
				"unplanned stop in shift [shift1]\n",
				"  totals: none=420m, case 1=960m, case 4=60m\n",
			},
		},
		"Sunday_Flag": {
			days: []engine.DayResult{{
				MachineID: "m",
				Date:      "2026-10-25",
				Start:     time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC),
				End:       time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC),
				IsSunday:  true,
				IsHoliday: true,
				Segments: []models.ClassifiedSegment{{
					Start:  time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC),
					End:    time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC),
					CaseID: models.CaseSunday, State: models.StateNoData, Kind: models.KindNonWorkingDay,
				}},
				CaseMinutes: map[models.Case]float64{models.CaseSunday: 1440},
			}},
			contains: []string{
				"2026-10-25 m (sunday) [sunday, holiday]\n",
				"00:00-24:00 non_working_day",
				"case 7  sunday\n",
				"totals: case 7=1440m\n",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tc.days)
			if len(tc.contains) == 0 {
				assert.Empty(t, output)
			}
			for _, s := range tc.contains {
				assert.Contains(t, output, s)
			}
		})
	}
}

func TestFormatCSV(t *testing.T) {
	output := formatter.FormatCSV([]engine.DayResult{sampleDay()})
	lines := strings.Split(strings.TrimSpace(output), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "Machine,Date,Start,End,Minutes,State,Kind,Case,Case Label,Shift,Merged", lines[0])
	assert.Equal(t, "press-01,2026-10-19,2026-10-19T00:00:00Z,2026-10-19T07:00:00Z,420,no_data,before_first_shift,,none,,false", lines[1])
	assert.Equal(t, "press-01,2026-10-19,2026-10-19T07:00:00Z,2026-10-19T08:00:00Z,60,running,before_first_shift,4,early start before first shift,shift1,true", lines[2])
	assert.Equal(t, "press-01,2026-10-19,2026-10-19T08:00:00Z,2026-10-20T00:00:00Z,960,stopped,in_shift,1,unplanned stop in shift,shift1,false", lines[3])
}

func TestFormatJSON(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "[]", formatter.FormatJSON(nil))
	})

	t.Run("Cases", func(t *testing.T) {
		output := formatter.FormatJSON([]engine.DayResult{sampleDay()})
		assert.Contains(t, output, `"machineId": "press-01"`)
		assert.Contains(t, output, `"caseId": null`)
		assert.Contains(t, output, `"caseId": 4`)
		assert.Contains(t, output, `"merged": true`)
		assert.Contains(t, output, `"nearestShiftDefinitionId": "shift1"`)
		assert.Contains(t, output, `"shift1": 1020`)
	})
}

func TestFormatDays_Dispatch(t *testing.T) {
	days := []engine.DayResult{sampleDay()}
	assert.Equal(t, formatter.FormatText(days), formatter.FormatDays("text", days))
	assert.Equal(t, formatter.FormatJSON(days), formatter.FormatDays("json", days))
	assert.Equal(t, formatter.FormatCSV(days), formatter.FormatDays("csv", days))
	assert.True(t, formatter.ValidFormat("csv"))
	assert.False(t, formatter.ValidFormat("xml"))
}

func officeSummary() models.WeekSummary {
	hours := models.WeekHours{
		time.Monday: 8, time.Tuesday: 8, time.Wednesday: 8, time.Thursday: 8, time.Friday: 8,
	}
	return models.WeekSummary{
		Definitions:   []string{"day"},
		PerDefinition: map[string]models.WeekHours{"day": hours},
		TotalsPerDay:  hours,
		GrandTotal:    40,
	}
}

func TestFormatSummary(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		lines := strings.Split(strings.TrimRight(formatter.FormatSummary("text", officeSummary()), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "shift    Mon    Tue    Wed    Thu    Fri    Sat    Sun    week", lines[0])
		assert.Equal(t, "day     8.00   8.00   8.00   8.00   8.00   0.00   0.00   40.00", lines[1])
		assert.Equal(t, "total   8.00   8.00   8.00   8.00   8.00   0.00   0.00   40.00", lines[2])
	})

	t.Run("CSV", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(formatter.FormatSummary("csv", officeSummary())), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Shift,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday,Sunday,Week", lines[0])
		assert.Equal(t, "day,8.00,8.00,8.00,8.00,8.00,0.00,0.00,40.00", lines[1])
		assert.Equal(t, "Total,8.00,8.00,8.00,8.00,8.00,0.00,0.00,40.00", lines[2])
	})

	t.Run("JSON", func(t *testing.T) {
		output := formatter.FormatSummary("json", officeSummary())
		assert.Contains(t, output, `"monday": 8`)
		assert.Contains(t, output, `"sunday": 0`)
		assert.Contains(t, output, `"grandTotal": 40`)
		assert.Less(t, strings.Index(output, `"monday"`), strings.Index(output, `"sunday"`))
	})
}
