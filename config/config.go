package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"capereport/version"
)

type Config struct {
	ReportPaths         []string          `json:"report_paths"`
	OutputFileName      string            `json:"output_file_name"`
	OutputFormat        string            `json:"output_format"`
	LogLevel            string            `json:"log_level"`
	MaxReportBytes      int64             `json:"max_report_bytes"`
	SamplePath          string            `json:"sample_path"`
	FailFast            bool              `json:"fail_fast"`
	Progress            bool              `json:"progress"`
	ConfigFile          string            `json:"config_file"`
	OtelEndpoint        string            `json:"otel_endpoint"`
	OtelFromEnv         bool              `json:"otel_from_env"`
	OtelHeaders         map[string]string `json:"otel_headers"`
	OtelServiceName     string            `json:"otel_service_name"`
	OtelTimeout         time.Duration     `json:"otel_timeout"`
	TraceFlight         bool              `json:"trace_flight"`
	TraceFlightFile     string            `json:"trace_flight_file"`
	TraceFlightMaxBytes uint64            `json:"trace_flight_max_bytes"`
	TraceFlightMinAge   time.Duration     `json:"trace_flight_min_age"`
	DiagDir             string            `json:"diag_dir"`
	DiagStallThreshold  time.Duration     `json:"diag_stall_threshold"`
	DiagGoroutineLeak   bool              `json:"diag_goroutine_leak"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		OutputFileName:  "-",
		OutputFormat:    "json",
		LogLevel:        "info",
		MaxReportBytes:  1 << 30,
		Progress:        true,
		OtelHeaders:     map[string]string{},
		OtelServiceName: "capereport",
		OtelTimeout:     5 * time.Second,
		TraceFlightFile: "trace-flight.out",
	}

	output := flag.String("output", cfg.OutputFileName, "Digest output file, or - for stdout (default: -).")
	format := flag.String("format", cfg.OutputFormat, "Digest output format: json or ndjson (default: json).")
	logLevel := flag.String("log-level", cfg.LogLevel, fmt.Sprintf("Log level: debug, info, warn, error, fatal, or panic (default: %s).", cfg.LogLevel))
	maxReportBytes := flag.Int64("max-report-bytes", cfg.MaxReportBytes, fmt.Sprintf("Maximum decompressed report size in bytes (default: %d).", cfg.MaxReportBytes))
	samplePath := flag.String("verify-sample", "", "Path to the analyzed sample; its hashes are recomputed and checked against the report (default: none).")
	failFast := flag.Bool("fail-fast", cfg.FailFast, fmt.Sprintf("Stop on the first report that fails to decode (default: %t).", cfg.FailFast))
	progress := flag.Bool("progress", cfg.Progress, fmt.Sprintf("Show a progress bar when decoding multiple reports (default: %t).", cfg.Progress))
	configFile := flag.String("config", "", "Path to JSON configuration file (default: none).")
	otelEndpoint := flag.String("otel-endpoint", cfg.OtelEndpoint, "OTLP/HTTP logs endpoint for decode outcomes (default: none).")
	otelFromEnv := flag.Bool("otel-from-env", cfg.OtelFromEnv, "Allow OTEL endpoint fallback from OTEL environment variables (default: false).")
	otelHeaders := flag.String("otel-headers", "", "Comma-separated OTEL headers (key=value) for export (default: none).")
	otelServiceName := flag.String("otel-service-name", cfg.OtelServiceName, "OTEL service name for export (default: capereport).")
	otelTimeout := flag.Duration("otel-timeout", cfg.OtelTimeout, "OTEL export timeout (default: 5s).")
	traceFlight := flag.Bool("trace-flight", cfg.TraceFlight, fmt.Sprintf("Enable flight recorder tracing (default: %t).", cfg.TraceFlight))
	traceFlightFile := flag.String("trace-flight-file", cfg.TraceFlightFile, fmt.Sprintf("Flight recorder output file (default: %s).", cfg.TraceFlightFile))
	traceFlightMaxBytes := flag.Uint64("trace-flight-max-bytes", cfg.TraceFlightMaxBytes, "Max bytes for flight recorder buffer (default: 0 for runtime default).")
	traceFlightMinAge := flag.Duration("trace-flight-min-age", cfg.TraceFlightMinAge, "Minimum age of trace events to retain (default: 0).")
	diagDir := flag.String("diag-dir", cfg.DiagDir, "Directory for stall diagnostics artifacts (default: current directory).")
	diagStallThreshold := flag.Duration("diag-stall-threshold", cfg.DiagStallThreshold, "Dump diagnostics when no report finishes for this long; 0 disables (default: 0).")
	diagGoroutineLeak := flag.Bool("diag-goroutine-leak", cfg.DiagGoroutineLeak, "Write a goroutine profile on shutdown (default: false).")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = displayHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("capereport version %s\n", version.Version)
		os.Exit(0)
	}

	if *configFile != "" {
		cfg.ConfigFile = *configFile
		if err := cfg.loadFromFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.OutputFileName = *output
		case "format":
			cfg.OutputFormat = strings.ToLower(*format)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevel)
		case "max-report-bytes":
			cfg.MaxReportBytes = *maxReportBytes
		case "verify-sample":
			cfg.SamplePath = *samplePath
		case "fail-fast":
			cfg.FailFast = *failFast
		case "progress":
			cfg.Progress = *progress
		case "otel-endpoint":
			cfg.OtelEndpoint = *otelEndpoint
		case "otel-from-env":
			cfg.OtelFromEnv = *otelFromEnv
		case "otel-headers":
			cfg.OtelHeaders = parseHeaders(*otelHeaders)
		case "otel-service-name":
			cfg.OtelServiceName = *otelServiceName
		case "otel-timeout":
			cfg.OtelTimeout = *otelTimeout
		case "trace-flight":
			cfg.TraceFlight = *traceFlight
		case "trace-flight-file":
			cfg.TraceFlightFile = *traceFlightFile
		case "trace-flight-max-bytes":
			cfg.TraceFlightMaxBytes = *traceFlightMaxBytes
		case "trace-flight-min-age":
			cfg.TraceFlightMinAge = *traceFlightMinAge
		case "diag-dir":
			cfg.DiagDir = *diagDir
		case "diag-stall-threshold":
			cfg.DiagStallThreshold = *diagStallThreshold
		case "diag-goroutine-leak":
			cfg.DiagGoroutineLeak = *diagGoroutineLeak
		}
	})

	if args := flag.Args(); len(args) > 0 {
		cfg.ReportPaths = args
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file: %v", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid config file format: %v", err)
	}
	return nil
}

func (cfg *Config) validate() error {
	if len(cfg.ReportPaths) == 0 {
		return fmt.Errorf("at least one report path must be specified")
	}
	if cfg.OutputFormat != "json" && cfg.OutputFormat != "ndjson" {
		return fmt.Errorf("invalid output format: %s (json or ndjson)", cfg.OutputFormat)
	}
	if cfg.MaxReportBytes <= 0 {
		return fmt.Errorf("max-report-bytes must be positive")
	}
	if cfg.SamplePath != "" {
		if info, err := os.Stat(cfg.SamplePath); err != nil || info.IsDir() {
			return fmt.Errorf("verify-sample must name a readable file: %s", cfg.SamplePath)
		}
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" &&
		cfg.LogLevel != "error" && cfg.LogLevel != "fatal" && cfg.LogLevel != "panic" {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	if cfg.OtelTimeout < 0 {
		return fmt.Errorf("otel-timeout must be zero or positive")
	}
	if cfg.OtelEndpoint != "" {
		if !strings.HasPrefix(cfg.OtelEndpoint, "http://") && !strings.HasPrefix(cfg.OtelEndpoint, "https://") {
			return fmt.Errorf("otel-endpoint must include scheme (http or https)")
		}
	}
	if cfg.TraceFlightMinAge < 0 {
		return fmt.Errorf("trace-flight-min-age must be zero or positive")
	}
	if cfg.DiagStallThreshold < 0 {
		return fmt.Errorf("diag-stall-threshold must be zero or positive")
	}
	return nil
}

func parseHeaders(input string) map[string]string {
	headers := make(map[string]string)
	if input == "" {
		return headers
	}
	items := strings.Split(input, ",")
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		headers[key] = value
	}
	return headers
}

func displayHelp() {
	fmt.Fprintf(os.Stderr, "capereport %s - strict CAPE sandbox report decoder\n\n", version.Version)
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] report.json[.gz] [more reports...]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Decodes sandbox reports into a validated object graph and writes a digest.")
	fmt.Fprintln(os.Stderr, "Any unknown field, missing field, or populated unmodeled field in a report")
	fmt.Fprintln(os.Stderr, "fails the decode with the full path to the offending value.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
