package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdk "go.opentelemetry.io/otel/sdk/metric"

	"github.com/gildlab/go-pins/models"
)

type OtelMetricService struct {
	meterProvider *sdk.MeterProvider
	meter         metric.Meter
	logger        models.Logger
	mu            sync.Mutex
	counters      map[models.MetricName]metric.Int64Counter
}

type MetricOpts struct {
	// OtlpEndpoint enables the OTLP HTTP exporter. The exporter itself reads the standard OTEL_* variables.
	OtlpEndpoint string
	// Stdout enables a JSON exporter writing to stderr.
	Stdout bool
}

func NewOtelMetricService(ctx context.Context, logger models.Logger, opts MetricOpts) (*OtelMetricService, error) {
	var providerOpts []sdk.Option
	if len(opts.OtlpEndpoint) > 0 {
		exporter, err := otlpmetrichttp.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("metrics: error creating otlp exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdk.WithReader(sdk.NewPeriodicReader(exporter)))
	}
	if opts.Stdout {
		exporter, err := stdoutmetric.New(stdoutmetric.WithEncoder(json.NewEncoder(os.Stderr)))
		if err != nil {
			return nil, fmt.Errorf("metrics: error creating stdout exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdk.WithReader(sdk.NewPeriodicReader(exporter)))
	}
	meterProvider := sdk.NewMeterProvider(providerOpts...)
	return &OtelMetricService{
		meterProvider: meterProvider,
		meter:         meterProvider.Meter(models.MetricsCallerName),
		logger:        logger,
		counters:      make(map[models.MetricName]metric.Int64Counter),
	}, nil
}

func (o *OtelMetricService) counter(name models.MetricName) (metric.Int64Counter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if counter, found := o.counters[name]; found {
		return counter, nil
	}
	counter, err := o.meter.Int64Counter(string(name))
	if err != nil {
		return nil, err
	}
	o.counters[name] = counter
	return counter, nil
}

func (o *OtelMetricService) Count(ctx context.Context, name models.MetricName, val int) error {
	counter, err := o.counter(name)
	if err != nil {
		o.logger.Errorf("metrics: error creating counter %s: %v", name, err)
		return err
	}
	counter.Add(ctx, int64(val))
	return nil
}

// Shutdown flushes any pending exports.
func (o *OtelMetricService) Shutdown(ctx context.Context) {
	if err := o.meterProvider.Shutdown(ctx); err != nil {
		o.logger.Errorf("metrics: error shutting down meter provider: %v", err)
	}
}
