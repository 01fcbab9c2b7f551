package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	customerrors "shift-calendar/errors"
	"shift-calendar/metrics"
	"shift-calendar/models"
)

// timeLayouts are tried in order; layouts without an offset are read in the
// current location.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseIntervals reads run-state records from CSV and returns them in file order.
// Each record is "machineId, start, end, state" where state is running or stopped
// (also accepted: run/stop, 1/0, true/false, up/down, idle).
// Lines starting with '#' are headers/comments.
// A header whose second field is StartXX sets the location for all subsequent
// rows, e.g. "# Machine, StartEurope/Berlin, End, State"; XX may be an IANA
// name or one of PT, ET, CT, MT, UTC. Timestamps carrying an offset keep it.
func ParseIntervals(r io.Reader, loc *time.Location) ([]models.RunStateInterval, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	if loc == nil {
		loc = time.Local
	}
	var data []models.RunStateInterval
	lineNum := 0

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("csv").Inc()
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		if len(record) > 0 && strings.HasPrefix(record[0], "#") {
			if len(record) >= 2 {
				headerTime := strings.TrimSpace(record[1])
				if strings.HasPrefix(headerTime, "Start") {
					if newLoc, err := getTimezoneLocation(strings.TrimPrefix(headerTime, "Start")); err == nil {
						loc = newLoc
					}
				}
			}
			continue
		}

		if len(record) != 4 {
			return nil, parseFailure(lineNum, record, customerrors.ErrInvalidFieldCount, "field_count")
		}

		iv := models.RunStateInterval{MachineID: strings.TrimSpace(record[0])}

		iv.Start, err = parseTimestamp(strings.TrimSpace(record[1]), loc)
		if err != nil {
			return nil, parseFailure(lineNum, record, fmt.Errorf("%w: %v", customerrors.ErrInvalidStartTime, err), "start_time")
		}

		iv.End, err = parseTimestamp(strings.TrimSpace(record[2]), loc)
		if err != nil {
			return nil, parseFailure(lineNum, record, fmt.Errorf("%w: %v", customerrors.ErrInvalidEndTime, err), "end_time")
		}

		iv.IsRunning, err = parseRunState(record[3])
		if err != nil {
			return nil, parseFailure(lineNum, record, err, "run_state")
		}

		metrics.ParserRecordsTotal.Inc()
		data = append(data, iv)
	}

	return data, nil
}

func parseFailure(line int, record []string, err error, errorType string) error {
	metrics.ParserErrorsTotal.WithLabelValues(errorType).Inc()
	return &customerrors.ParseError{
		Line:   line,
		Record: record,
		Err:    err,
	}
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseRunState(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "running", "run", "1", "true", "up":
		return true, nil
	case "stopped", "stop", "0", "false", "down", "idle":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", customerrors.ErrInvalidRunState, value)
	}
}

func getTimezoneLocation(code string) (*time.Location, error) {
	code = strings.TrimSpace(code)

	switch code {
	case "":
		return nil, fmt.Errorf("empty timezone")
	case "PT":
		return time.LoadLocation("America/Los_Angeles")
	case "ET":
		return time.LoadLocation("America/New_York")
	case "CT":
		return time.LoadLocation("America/Chicago")
	case "MT":
		return time.LoadLocation("America/Denver")
	case "UTC":
		return time.UTC, nil
	default:
		return time.LoadLocation(code)
	}
}
