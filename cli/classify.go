package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shift-calendar/engine"
	"shift-calendar/formatter"
	"shift-calendar/metrics"
	"shift-calendar/models"
	"shift-calendar/parser"
)

type classifyOptions struct {
	templatePath  string
	intervalsPath string
	policyPath    string
	holidaysPath  string
	settings      map[string]string
	timezone      string
	from          string
	to            string
	workers       int
	metricsAddr   string
	pushGateway   string
	wait          bool
}

func newClassifyCmd(root *RootOptions) *cobra.Command {
	o := &classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify run-state intervals into time-attribution cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, root, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.templatePath, "template", "", "shift template file, YAML or JSON (required)")
	f.StringVar(&o.intervalsPath, "intervals", "", "run-state CSV file: machine, start, end, state (required)")
	f.StringVar(&o.policyPath, "policy", "", "policy settings file, YAML or JSON")
	f.StringToStringVar(&o.settings, "set", nil, "policy setting override, e.g. --set lateBufferMinutes=90")
	f.StringVar(&o.holidaysPath, "holidays", "", "holiday list, one YYYY-MM-DD per line")
	f.StringVar(&o.timezone, "tz", "Local", "plant time zone (IANA name)")
	f.StringVar(&o.from, "from", "", "first date to classify (YYYY-MM-DD, default: first interval)")
	f.StringVar(&o.to, "to", "", "last date to classify (YYYY-MM-DD, default: last interval)")
	f.IntVar(&o.workers, "workers", runtime.NumCPU(), "machine-days classified concurrently")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	f.StringVar(&o.pushGateway, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	f.BoolVar(&o.wait, "wait", false, "Keep process running after completion to allow for metric scraping")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("intervals")

	return cmd
}

func runClassify(cmd *cobra.Command, root *RootOptions, o *classifyOptions) error {
	logger := root.Logger

	if o.metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			logger.Info("Metrics server listening", zap.String("addr", o.metricsAddr))
			if err := http.ListenAndServe(o.metricsAddr, mux); err != nil {
				logger.Error("Metrics server error", zap.Error(err))
			}
		}()
	}

	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}

	template, err := parser.LoadTemplate(o.templatePath)
	if err != nil {
		return err
	}
	if err := template.Validate(); err != nil {
		return fmt.Errorf("template %s: %w", o.templatePath, err)
	}

	policy, err := loadPolicy(o, logger)
	if err != nil {
		return err
	}

	holidays, err := loadHolidays(o.holidaysPath, loc)
	if err != nil {
		return err
	}

	file, err := os.Open(o.intervalsPath)
	if err != nil {
		return fmt.Errorf("open intervals: %w", err)
	}
	defer file.Close()
	intervals, err := parser.ParseIntervals(file, loc)
	if err != nil {
		return fmt.Errorf("parse intervals: %w", err)
	}

	from, err := parseDate(o.from, loc)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseDate(o.to, loc)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	units := engine.Plan(intervals, from, to, loc)
	logger.Info("Planned machine-days",
		zap.Int("intervals", len(intervals)),
		zap.Int("units", len(units)),
		zap.Int("lateBufferMinutes", policy.LateBufferMinutes))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := engine.NewRunner(template, holidays, policy,
		engine.WithWorkers(o.workers),
		engine.WithLogger(logger))
	report, runErr := runner.RunBatch(ctx, units)

	writeOut(cmd, formatter.FormatDays(root.Format, report.Succeeded()))
	for _, failure := range report.Failures() {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s %s: %v\n",
			failure.MachineID, failure.Date.Format(models.DateLayout), failure.Err)
	}

	if o.pushGateway != "" {
		if err := push.New(o.pushGateway, "shift_classifier").Gatherer(metrics.Registry).Push(); err != nil {
			logger.Error("Error pushing to Pushgateway", zap.Error(err))
		} else {
			logger.Info("Metrics pushed to Pushgateway", zap.String("url", o.pushGateway))
		}
	}

	if o.wait && o.metricsAddr != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Process kept alive for metric scraping. Press Ctrl+C to exit.")
		<-ctx.Done()
	}

	if runErr != nil {
		return runErr
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d machine-days failed", report.Failed, len(report.Results))
	}
	return nil
}

func loadPolicy(o *classifyOptions, logger *zap.Logger) (models.PolicyConfig, error) {
	policy := models.DefaultPolicy()
	var notes []string
	if o.policyPath != "" {
		f, err := os.Open(o.policyPath)
		if err != nil {
			return models.PolicyConfig{}, fmt.Errorf("open policy: %w", err)
		}
		defer f.Close()
		policy, notes, err = parser.ParsePolicy(f)
		if err != nil {
			return models.PolicyConfig{}, err
		}
	}
	var overrideNotes []string
	policy, overrideNotes = parser.ApplyPolicySettings(policy, o.settings)
	for _, note := range append(notes, overrideNotes...) {
		logger.Warn("Policy setting adjusted", zap.String("detail", note))
	}
	return policy, nil
}

func loadHolidays(path string, loc *time.Location) (models.HolidaySet, error) {
	if path == "" {
		return models.HolidaySet{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holidays: %w", err)
	}
	defer f.Close()
	return parser.ParseHolidays(f, loc)
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, errors.New("expected YYYY-MM-DD")
	}
	return t, nil
}
