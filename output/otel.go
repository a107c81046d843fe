package output

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"capereport/config"
	"capereport/logger"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	otelLog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

// otelLogger mirrors digest records to an OTLP/HTTP logs endpoint so
// a processing pipeline can watch decode outcomes without scraping
// the digest files. Disabled unless an endpoint is configured.
type otelLogger struct {
	provider *sdklog.LoggerProvider
	logger   otelLog.Logger
	timeout  time.Duration
}

func newOtelLogger(cfg *config.Config) (*otelLogger, error) {
	if cfg == nil {
		return nil, nil
	}
	endpoint := resolveOtelEndpoint(cfg)
	if endpoint == "" {
		return nil, nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("otel endpoint must include scheme (http or https)")
	}

	opts := []otlploghttp.Option{otlploghttp.WithEndpointURL(endpoint)}
	if len(cfg.OtelHeaders) > 0 {
		opts = append(opts, otlploghttp.WithHeaders(cfg.OtelHeaders))
	}
	if cfg.OtelTimeout > 0 {
		opts = append(opts, otlploghttp.WithTimeout(cfg.OtelTimeout))
	}

	exp, err := otlploghttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.OtelServiceName),
	)
	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
		sdklog.WithResource(res),
	)

	return &otelLogger{
		provider: provider,
		logger:   provider.Logger("capereport"),
		timeout:  cfg.OtelTimeout,
	}, nil
}

func resolveOtelEndpoint(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	if endpoint := strings.TrimSpace(cfg.OtelEndpoint); endpoint != "" {
		return endpoint
	}
	if !cfg.OtelFromEnv {
		return ""
	}
	if endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT")); endpoint != "" {
		return endpoint
	}
	return strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
}

// Emit sends one digest. Only counts, hashes, and status cross the
// wire; no report content, paths, or verification digests beyond
// their pass/fail tally.
func (o *otelLogger) Emit(d Digest) {
	if o == nil || o.logger == nil {
		return
	}

	var record otelLog.Record
	record.SetTimestamp(time.Now())
	record.SetObservedTimestamp(time.Now())
	record.SetEventName("capereport.decode")
	record.SetBody(otelLog.StringValue(d.Status))
	record.AddAttributes(
		otelLog.String("schema_version", d.SchemaVersion),
		otelLog.String("status", d.Status),
		otelLog.String("sample.sha256", d.SHA256),
		otelLog.String("sample.category", d.Category),
		otelLog.Float64("sample.malscore", d.Malscore),
		otelLog.Int64("behavior.processes", int64(d.Processes)),
		otelLog.Int64("behavior.calls", int64(d.Calls)),
		otelLog.Int64("signatures", int64(len(d.Signatures))),
		otelLog.Int64("verification.mismatches", int64(verificationMismatches(d))),
	)
	if d.Error != "" {
		record.AddAttributes(otelLog.String("error", d.Error))
	}

	ctx := context.Background()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	o.logger.Emit(ctx, record)
}

func verificationMismatches(d Digest) int {
	count := 0
	for _, r := range d.Verification {
		if !r.Match {
			count++
		}
	}
	return count
}

// Shutdown flushes buffered records.
func (o *otelLogger) Shutdown() {
	if o == nil || o.provider == nil {
		return
	}
	ctx := context.Background()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	if err := o.provider.Shutdown(ctx); err != nil {
		logger.Debugf("OTEL shutdown: %v", err)
	}
}
