package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	customerrors "shift-calendar/errors"
	"shift-calendar/models"
)

// Setting keys as stored by the dashboard's key/value settings store.
const (
	KeyLateBufferMinutes  = "lateBufferMinutes"
	KeyMergeCase4ToShift1 = "mergeCase4ToShift1"
	KeyMergeCase5ToLatest = "mergeCase5ToLatest"
	KeyAutoVirtualShift   = "autoVirtualShift"
)

// ApplyPolicySettings overlays key/value settings on base. Keys match
// case-insensitively and ignore '_', '-' and any dotted prefix, so
// "policy.late_buffer_minutes" sets LateBufferMinutes. Unknown keys are
// ignored. Values that cannot be read keep the base value (or the default
// buffer); every such fallback is described in the returned notes.
func ApplyPolicySettings(base models.PolicyConfig, settings map[string]string) (models.PolicyConfig, []string) {
	p := base
	var notes []string
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		raw := settings[key]
		value := strings.TrimSpace(raw)
		switch normalizeKey(key) {
		case normalizeKey(KeyLateBufferMinutes):
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				notes = append(notes, fmt.Sprintf("%s=%q is invalid, using %d", key, raw, models.DefaultLateBufferMinutes))
				p.LateBufferMinutes = models.DefaultLateBufferMinutes
				continue
			}
			p.LateBufferMinutes = n
		case normalizeKey(KeyMergeCase4ToShift1):
			p.MergeCase4ToShift1 = readBool(key, value, p.MergeCase4ToShift1, &notes)
		case normalizeKey(KeyMergeCase5ToLatest):
			p.MergeCase5ToLatest = readBool(key, value, p.MergeCase5ToLatest, &notes)
		case normalizeKey(KeyAutoVirtualShift):
			p.AutoVirtualShift = readBool(key, value, p.AutoVirtualShift, &notes)
		}
	}
	if normalized, changed := p.Normalize(); changed {
		notes = append(notes, fmt.Sprintf("%s is negative, using %d", KeyLateBufferMinutes, models.DefaultLateBufferMinutes))
		p = normalized
	}
	return p, notes
}

// ParsePolicy reads a YAML or JSON mapping of settings on top of the
// default policy.
func ParsePolicy(r io.Reader) (models.PolicyConfig, []string, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return models.PolicyConfig{}, nil, fmt.Errorf("decode policy: %w", err)
	}
	settings := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		settings[k] = fmt.Sprint(v)
	}
	p, notes := ApplyPolicySettings(models.DefaultPolicy(), settings)
	return p, notes, nil
}

func readBool(key, value string, fallback bool, notes *[]string) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		*notes = append(*notes, fmt.Sprintf("%s=%q is not a boolean, keeping %t", key, value, fallback))
		return fallback
	}
	return b
}

func normalizeKey(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	key = strings.NewReplacer("_", "", "-", "").Replace(key)
	return strings.ToLower(key)
}

// ParseHolidays reads one holiday per line as "YYYY-MM-DD[, name]".
// Lines starting with '#' are comments.
func ParseHolidays(r io.Reader, loc *time.Location) (models.HolidaySet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	if loc == nil {
		loc = time.Local
	}
	holidays := make(models.HolidaySet)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading holidays: %w", err)
		}
		line, _ := reader.FieldPos(0)
		value := strings.TrimSpace(record[0])
		if value == "" {
			return nil, &customerrors.ParseError{Line: line, Record: record, Err: customerrors.ErrEmptyRecord}
		}
		date, err := time.ParseInLocation(models.DateLayout, value, loc)
		if err != nil {
			return nil, &customerrors.ParseError{
				Line:   line,
				Record: record,
				Err:    fmt.Errorf("%w: %v", customerrors.ErrInvalidDate, err),
			}
		}
		holidays.Add(date)
	}
	return holidays, nil
}
