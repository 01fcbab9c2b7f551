package parser_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "shift-calendar/errors"
	"shift-calendar/models"
	"shift-calendar/parser"
)

func TestParseIntervals(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := map[string]struct {
		input         string
		expectedData  []models.RunStateInterval
		expectedError error
	}{
		"ValidInput_SingleLine": {
			input: `
press-01, 2026-10-19 07:00, 2026-10-19 10:00, running
`,
			expectedData: []models.RunStateInterval{
				{
					MachineID: "press-01",
					Start:     time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC),
					End:       time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
					IsRunning: true,
				},
			},
		},
		"ValidInput_MultipleLines_WithComments": {
			input: `
# Exported from line 3
# Machine, Start, End, State
press-01, 2026-10-19T10:00:00, 2026-10-19T10:30:00, stopped
press-01, 2026-10-19T10:30:00, 2026-10-19T12:00:00, 1
`,
			expectedData: []models.RunStateInterval{
				{
					MachineID: "press-01",
					Start:     time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
					End:       time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC),
				},
				{
					MachineID: "press-01",
					Start:     time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC),
					End:       time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
					IsRunning: true,
				},
			},
		},
		"ValidInput_StateVariants": {
			input: `
m, 2026-10-19 01:00, 2026-10-19 02:00, UP
m, 2026-10-19 02:00, 2026-10-19 03:00, idle
m, 2026-10-19 03:00, 2026-10-19 04:00, true
m, 2026-10-19 04:00, 2026-10-19 05:00, Down
`,
			expectedData: []models.RunStateInterval{
				{MachineID: "m", Start: time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC), IsRunning: true},
				{MachineID: "m", Start: time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)},
				{MachineID: "m", Start: time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 19, 4, 0, 0, 0, time.UTC), IsRunning: true},
				{MachineID: "m", Start: time.Date(2026, 10, 19, 4, 0, 0, 0, time.UTC), End: time.Date(2026, 10, 19, 5, 0, 0, 0, time.UTC)},
			},
		},
		"ValidInput_BerlinHeader": {
			input: `
# Machine, StartEurope/Berlin, End, State
press-01, 2026-10-19 06:00, 2026-10-19 14:00, running
`,
			expectedData: []models.RunStateInterval{
				{
					MachineID: "press-01",
					Start:     time.Date(2026, 10, 19, 6, 0, 0, 0, berlin),
					End:       time.Date(2026, 10, 19, 14, 0, 0, 0, berlin),
					IsRunning: true,
				},
			},
		},
		"ValidInput_MultipleTimezones": {
			input: `
#Machine, StartET, End, State
east, 2026-10-19 09:00, 2026-10-19 17:00, running
#Machine, StartUTC, End, State
west, 2026-10-19 09:00, 2026-10-19 17:00, stopped
`,
			expectedData: []models.RunStateInterval{
				{
					MachineID: "east",
					Start:     time.Date(2026, 10, 19, 9, 0, 0, 0, newYork),
					End:       time.Date(2026, 10, 19, 17, 0, 0, 0, newYork),
					IsRunning: true,
				},
				{
					MachineID: "west",
					Start:     time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
					End:       time.Date(2026, 10, 19, 17, 0, 0, 0, time.UTC),
				},
			},
		},
		"ValidInput_OffsetKeepsInstant": {
			input: `
m, 2026-10-19T08:00:00+02:00, 2026-10-19T09:00:00+02:00, running
`,
			expectedData: []models.RunStateInterval{
				{
					MachineID: "m",
					Start:     time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC),
					End:       time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC),
					IsRunning: true,
				},
			},
		},
		"Error_InvalidFieldCount": {
			input: `
press-01, 2026-10-19 07:00, 2026-10-19 10:00
`,
			expectedError: customerrors.ErrInvalidFieldCount,
		},
		"Error_InvalidStartTime": {
			input: `
press-01, yesterday, 2026-10-19 10:00, running
`,
			expectedError: customerrors.ErrInvalidStartTime,
		},
		"Error_InvalidEndTime": {
			input: `
press-01, 2026-10-19 07:00, 2026-10-19 25:00, running
`,
			expectedError: customerrors.ErrInvalidEndTime,
		},
		"Error_InvalidRunState": {
			input: `
press-01, 2026-10-19 07:00, 2026-10-19 10:00, maybe
`,
			expectedError: customerrors.ErrInvalidRunState,
		},
		"EmptyInput": {
			input:        ``,
			expectedData: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := parser.ParseIntervals(strings.NewReader(tc.input), time.UTC)

			if tc.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectedError), "expected error %v, got %v", tc.expectedError, err)
				assert.Nil(t, data)
				return
			}

			require.NoError(t, err)
			require.Len(t, data, len(tc.expectedData))
			for i := range tc.expectedData {
				assert.Equal(t, tc.expectedData[i].MachineID, data[i].MachineID)
				assert.True(t, tc.expectedData[i].Start.Equal(data[i].Start), "start %d: want %v, got %v", i, tc.expectedData[i].Start, data[i].Start)
				assert.True(t, tc.expectedData[i].End.Equal(data[i].End), "end %d: want %v, got %v", i, tc.expectedData[i].End, data[i].End)
				assert.Equal(t, tc.expectedData[i].IsRunning, data[i].IsRunning)
			}
		})
	}
}

func TestParseIntervals_HeaderSetsLocation(t *testing.T) {
	data, err := parser.ParseIntervals(strings.NewReader(`
# Machine, StartPT, End, State
m, 2026-10-19 08:00, 2026-10-19 09:00, running
`), time.UTC)
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "America/Los_Angeles", data[0].Start.Location().String())
}

func TestParseIntervals_UnknownHeaderZoneIgnored(t *testing.T) {
	data, err := parser.ParseIntervals(strings.NewReader(`
# Machine, StartMars/Olympus, End, State
m, 2026-10-19 08:00, 2026-10-19 09:00, running
`), time.UTC)
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, time.UTC, data[0].Start.Location())
}

func TestParseIntervals_ParseErrorDetails(t *testing.T) {
	input := `# Machine, Start, End, State
m, 2026-10-19 08:00, 2026-10-19 09:00, running
m, 2026-10-19 09:00, 2026-10-19 10:00, sideways
`
	_, err := parser.ParseIntervals(strings.NewReader(input), time.UTC)
	require.Error(t, err)

	var parseErr *customerrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 3, parseErr.Line)
	assert.Equal(t, "sideways", strings.TrimSpace(parseErr.Record[3]))
	assert.ErrorIs(t, err, customerrors.ErrInvalidRunState)
}
