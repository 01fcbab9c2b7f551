package models

import "time"

// DefaultLateBufferMinutes is the grace period applied when none is configured.
const DefaultLateBufferMinutes = 120

// PolicyConfig controls how boundary time is attributed. It is read-only
// for the duration of a classification run.
type PolicyConfig struct {
	LateBufferMinutes  int  `json:"lateBufferMinutes" yaml:"lateBufferMinutes"`
	MergeCase4ToShift1 bool `json:"mergeCase4ToShift1" yaml:"mergeCase4ToShift1"`
	MergeCase5ToLatest bool `json:"mergeCase5ToLatest" yaml:"mergeCase5ToLatest"`
	AutoVirtualShift   bool `json:"autoVirtualShift" yaml:"autoVirtualShift"`
}

// DefaultPolicy returns the policy the dashboard ships with.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{LateBufferMinutes: DefaultLateBufferMinutes}
}

// Normalize replaces an invalid late buffer with the default. The second
// return value reports whether anything was changed.
func (p PolicyConfig) Normalize() (PolicyConfig, bool) {
	if p.LateBufferMinutes < 0 {
		p.LateBufferMinutes = DefaultLateBufferMinutes
		return p, true
	}
	return p, false
}

// LateBuffer is the normalized late buffer as a duration.
func (p PolicyConfig) LateBuffer() time.Duration {
	p, _ = p.Normalize()
	return time.Duration(p.LateBufferMinutes) * time.Minute
}

// NonWorking reports whether a date is treated as a non-working day.
func (p PolicyConfig) NonWorking(isSunday, isHoliday bool) bool {
	return !p.AutoVirtualShift && (isSunday || isHoliday)
}
