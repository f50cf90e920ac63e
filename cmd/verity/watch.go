package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/verity/pkg/cli"
	"mercator-hq/verity/pkg/report/retention"
	"mercator-hq/verity/pkg/ruleset"
	"mercator-hq/verity/pkg/runner"
	"mercator-hq/verity/pkg/telemetry/health"
	"mercator-hq/verity/pkg/watch"
)

var watchFlags struct {
	rules       string
	schedule    string
	debounce    time.Duration
	metricsAddr string
	skipInitial bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-check data files whenever they change",
	Long: `Watch data files and directories and re-check them on every change.

Every data file is checked once at startup. After that a file is re-checked
when it changes, and every file is re-checked when the rule file changes.
Paths default to watch.paths from the configuration.

When metrics are enabled, /metrics, /healthz, /ready and /version are served
on the metrics listen address. When reports are enabled, results are stored
and pruned on the retention schedule.

Examples:
  # Watch a directory
  verity watch --rules signup.yaml data/

  # Also re-check everything every 15 minutes
  verity watch --schedule "*/15 * * * *" data/

  # Serve metrics and health probes
  verity watch --metrics-addr 127.0.0.1:9090 data/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(commandContext(cmd), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.rules, "rules", "r", "", "rule file (default: validation.rules_path)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic re-checks")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period before a changed file is checked")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "serve metrics and health probes on this address")
	watchCmd.Flags().BoolVar(&watchFlags.skipInitial, "skip-initial", false, "do not check every file at startup")
}

func runWatch(ctx context.Context, out io.Writer, paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	validation := cfg.Validation
	if watchFlags.rules != "" {
		validation.RulesPath = watchFlags.rules
	}
	watchCfg := cfg.Watch
	if len(paths) > 0 {
		watchCfg.Paths = paths
	}
	if watchFlags.schedule != "" {
		watchCfg.Schedule = watchFlags.schedule
	}
	if watchFlags.debounce > 0 {
		watchCfg.Debounce = watchFlags.debounce
	}
	metricsCfg := cfg.Telemetry.Metrics
	if watchFlags.metricsAddr != "" {
		metricsCfg.Enabled = true
		metricsCfg.ListenAddress = watchFlags.metricsAddr
	}
	if len(watchCfg.Paths) == 0 {
		return cli.NewConfigError("watch.paths", "nothing to watch (pass paths or set watch.paths)")
	}

	// Services read telemetry settings from the config they are given.
	svcCfg := *cfg
	svcCfg.Telemetry.Metrics = metricsCfg
	svc, err := newServices(&svcCfg, cfg.Reports.Enabled)
	if err != nil {
		return err
	}
	defer svc.Close()

	r := svc.runner(&validation)
	w, err := watch.New(&watchCfg,
		watch.WithRulesPath(validation.RulesPath),
		watch.WithEventRecorder(svc.metrics),
		watch.WithLogger(svc.logger.Slog()),
	)
	if err != nil {
		return cli.NewConfigError("watch.paths", err.Error())
	}

	if svc.store != nil {
		pruner := retention.NewPruner(svc.store, &cfg.Reports.Retention)
		pruner.OnPrune(svc.metrics.RecordPruned)
		if err := pruner.Start(ctx); err != nil {
			return cli.NewConfigError("reports.retention.schedule", err.Error())
		}
		defer pruner.Stop()
	}

	if metricsCfg.Enabled {
		srv := newTelemetryServer(metricsCfg.ListenAddress, metricsCfg.Path, svc, validation.RulesPath)
		go func() {
			svc.logger.Info("serving metrics and health probes", "address", metricsCfg.ListenAddress)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				svc.logger.Error("telemetry server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var mu sync.Mutex
	handle := func(ctx context.Context, path string) {
		start := time.Now()
		res, err := r.Run(ctx, runner.Request{RulesPath: validation.RulesPath, DataPath: path})
		result := newCheckResult(path, res, err, time.Since(start))

		mu.Lock()
		defer mu.Unlock()
		writeWatchLine(out, result)
	}

	if !watchFlags.skipInitial {
		if err := w.RunAll(ctx, handle); err != nil && ctx.Err() == nil {
			return cli.NewCommandError("watch", err)
		}
	}
	return w.Watch(ctx, handle)
}

// newTelemetryServer serves metrics next to the health probes.
func newTelemetryServer(addr, metricsPath string, svc *services, rulesPath string) *http.Server {
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("rules", func(context.Context) error {
		_, err := ruleset.Load(rulesPath)
		return err
	})
	if p, ok := svc.store.(health.Pinger); ok {
		checker.RegisterCheck("storage", health.PingCheck(p))
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, svc.metrics.Handler())
	checker.Register(mux, versionInfo())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeWatchLine(w io.Writer, r CheckResult) {
	ts := time.Now().Format(time.TimeOnly)
	switch r.Status {
	case statusPassed:
		fmt.Fprintf(w, "%s ✓ %s\n", ts, r.File)
	case statusFailed:
		fmt.Fprintf(w, "%s ✗ %s\n", ts, r.File)
		for _, f := range r.Failures {
			fmt.Fprintf(w, "           %s: %s\n", f.Field, f.Message)
		}
	default:
		fmt.Fprintf(w, "%s ! %s: %s\n", ts, r.File, r.Error)
	}
}
