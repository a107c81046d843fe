package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"capereport/config"
	"capereport/diag"
	"capereport/loader"
	"capereport/logger"
	"capereport/output"
	"capereport/report"
	"capereport/tracing"
	"capereport/update"
	"capereport/verify"
	"capereport/version"

	"github.com/schollz/progressbar/v3"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 2
	}

	// Initialize logger
	logger.Init(cfg.LogLevel)

	if cfg.TraceFlight {
		if err := tracing.StartFlightRecorder(cfg.TraceFlightMaxBytes, cfg.TraceFlightMinAge); err != nil {
			logger.Warnf("Failed to start flight recorder: %v", err)
		} else {
			defer func() {
				if err := tracing.WriteFlightRecorder(cfg.TraceFlightFile); err != nil {
					logger.Warnf("Failed to write flight recorder: %v", err)
				}
				tracing.StopFlightRecorder()
			}()
		}
	}

	if rel, newer, err := update.Check(version.Version); err == nil && newer {
		if rel.SecurityFix() {
			logger.Warnf("Update available: %s -> %s (security fixes included)", version.Version, rel.Version)
		} else {
			logger.Infof("Update available: %s -> %s", version.Version, rel.Version)
		}
	}

	writer, err := output.New(cfg)
	if err != nil {
		logger.Errorf("Failed to initialize output: %v", err)
		return 2
	}

	var bar *progressbar.ProgressBar
	if cfg.Progress && len(cfg.ReportPaths) > 1 && cfg.OutputFileName != "-" && cfg.OutputFileName != "" {
		bar = progressbar.NewOptions(len(cfg.ReportPaths),
			progressbar.OptionSetDescription("Decoding reports"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetVisibility(progressVisible()),
			progressbar.OptionFullWidth(),
		)
	}

	ctx := context.Background()

	var decoded atomic.Int64
	var dumpFlight func(path string) error
	if cfg.TraceFlight {
		dumpFlight = tracing.WriteFlightRecorder
	}
	watchdog := diag.NewController(diag.Options{
		StallThreshold:     cfg.DiagStallThreshold,
		Dir:                cfg.DiagDir,
		GoroutineLeak:      cfg.DiagGoroutineLeak,
		ProgressCountFn:    decoded.Load,
		DumpFlightRecorder: dumpFlight,
	})
	watchdog.Start(ctx)
	defer watchdog.Close()

	failures := 0
	for _, path := range cfg.ReportPaths {
		if err := decodeOne(ctx, cfg, writer, path); err != nil {
			failures++
			logger.Errorf("Decode failed for %s: %v", path, err)
			if cfg.FailFast {
				break
			}
		}
		decoded.Add(1)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if err := writer.Close(); err != nil {
		logger.Errorf("Failed to finalize output: %v", err)
		return 2
	}

	if failures > 0 {
		logger.Errorf("%d of %d report(s) failed to decode", failures, len(cfg.ReportPaths))
		return 1
	}
	logger.Infof("Decoded %d report(s) successfully.", len(cfg.ReportPaths))
	return 0
}

func decodeOne(ctx context.Context, cfg *config.Config, writer *output.Writer, path string) error {
	ctx, endTask := tracing.StartTask(ctx, "decode_report")
	tracing.Log(ctx, "report", path)
	defer endTask()

	endRegion := tracing.StartRegion(ctx, "load")
	buf, err := loader.Load(path, cfg.MaxReportBytes)
	endRegion()
	if err != nil {
		_ = writer.Write(output.FailureDigest(path, err))
		return err
	}

	endRegion = tracing.StartRegion(ctx, "decode")
	rep, err := report.Decode(buf)
	endRegion()
	if err != nil {
		_ = writer.Write(output.FailureDigest(path, err))
		return err
	}

	digest := output.BuildDigest(path, rep)
	if cfg.SamplePath != "" {
		digest.Verification = verify.Sample(cfg.SamplePath, &rep.Target.File)
		for _, m := range verify.Mismatches(digest.Verification) {
			logger.Warnf("Hash mismatch for %s (%s): report %s, sample %s",
				path, m.Algorithm, m.Reported, m.Computed)
		}
	}
	return writer.Write(digest)
}

func progressVisible() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv("CAPEREPORT_DISABLE_PROGRESS")))
	return value != "1" && value != "true" && value != "yes" && value != "on"
}
