package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	customerrors "shift-calendar/errors"
	"shift-calendar/logging"
	"shift-calendar/metrics"
	"shift-calendar/models"
)

// UnitResult is the outcome of one machine-day. Exactly one of Result and
// Err is meaningful.
type UnitResult struct {
	MachineID string
	Date      time.Time
	Result    DayResult
	Err       error
}

// BatchReport collects every unit outcome in input order.
type BatchReport struct {
	RunID   uuid.UUID
	Results []UnitResult
	Failed  int
	Elapsed time.Duration
}

// Succeeded returns the day results of units that did not fail.
func (b *BatchReport) Succeeded() []DayResult {
	out := make([]DayResult, 0, len(b.Results)-b.Failed)
	for _, r := range b.Results {
		if r.Err == nil {
			out = append(out, r.Result)
		}
	}
	return out
}

// Failures returns the units that failed.
func (b *BatchReport) Failures() []UnitResult {
	var out []UnitResult
	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Runner classifies batches of machine-days against one template, holiday
// set and policy. Those inputs are shared read-only between workers.
type Runner struct {
	template models.ShiftTemplate
	holidays models.HolidaySet
	policy   models.PolicyConfig
	workers  int
	logger   *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of machine-days classified concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger used for per-unit failures and batch summaries.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logging.OrNop(l)
	}
}

func NewRunner(template models.ShiftTemplate, holidays models.HolidaySet, policy models.PolicyConfig, opts ...Option) *Runner {
	r := &Runner{
		template: template,
		holidays: holidays,
		policy:   policy,
		workers:  runtime.NumCPU(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunBatch classifies every unit. A failing unit is recorded in its
// UnitResult and never stops the others. The returned error is non-nil only
// when ctx is cancelled; the partial report is still returned then.
func (r *Runner) RunBatch(ctx context.Context, units []MachineDay) (*BatchReport, error) {
	started := time.Now()
	metrics.ResetBatchGauges()
	metrics.BatchUnits.Observe(float64(len(units)))

	report := &BatchReport{
		RunID:   uuid.New(),
		Results: make([]UnitResult, len(units)),
	}
	logger := r.logger.With(zap.String("run_id", report.RunID.String()))
	logger.Info("Starting batch", zap.Int("units", len(units)), zap.Int("workers", r.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report.Results[i] = UnitResult{MachineID: unit.MachineID, Date: unit.Date, Err: err}
				return err
			}
			report.Results[i] = r.runUnit(unit, logger)
			return nil
		})
	}
	waitErr := g.Wait()

	for _, res := range report.Results {
		if res.Err != nil {
			report.Failed++
		}
	}
	report.Elapsed = time.Since(started)
	metrics.BatchFailedUnits.Set(float64(report.Failed))
	metrics.BatchDurationSeconds.Observe(report.Elapsed.Seconds())

	logger.Info("Batch finished",
		zap.Int("units", len(units)),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Elapsed))

	if waitErr != nil {
		return report, fmt.Errorf("batch %s interrupted: %w", report.RunID, waitErr)
	}
	return report, nil
}

func (r *Runner) runUnit(unit MachineDay, logger *zap.Logger) (res UnitResult) {
	res = UnitResult{MachineID: unit.MachineID, Date: unit.Date}
	started := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("classify %s on %s: panic: %v", unit.MachineID, unit.Date.Format(models.DateLayout), p)
		}
		metrics.ClassifyDurationSeconds.Observe(time.Since(started).Seconds())
		if res.Err != nil {
			metrics.MachineDaysTotal.WithLabelValues("failed").Inc()
			metrics.UnitFailuresTotal.WithLabelValues(errorType(res.Err)).Inc()
			logger.Warn("Machine-day failed",
				zap.String("machine", unit.MachineID),
				zap.String("date", unit.Date.Format(models.DateLayout)),
				zap.Error(res.Err))
			return
		}
		metrics.MachineDaysTotal.WithLabelValues("ok").Inc()
	}()

	result, err := ClassifyDay(unit, r.template, r.holidays, r.policy)
	if err != nil {
		res.Err = err
		return res
	}
	res.Result = result
	recordCases(result)
	logger.Debug("Machine-day classified",
		zap.String("machine", unit.MachineID),
		zap.String("date", result.Date),
		zap.Int("segments", len(result.Segments)))
	return res
}

func recordCases(result DayResult) {
	for _, s := range result.Segments {
		secs := s.Duration().Seconds()
		metrics.CaseSecondsTotal.WithLabelValues(s.CaseID.Label()).Add(secs)
		if s.Merged {
			metrics.MergedSecondsTotal.WithLabelValues(s.CaseID.Label()).Add(secs)
		}
	}
}

func errorType(err error) string {
	var cfgErr *customerrors.ConfigurationError
	var inErr *customerrors.InputError
	switch {
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &inErr):
		return "input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
