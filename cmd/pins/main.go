package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/gildlab/go-pins/common/config"
	"github.com/gildlab/go-pins/common/graphql"
	"github.com/gildlab/go-pins/common/loggers"
	"github.com/gildlab/go-pins/common/metrics"
	"github.com/gildlab/go-pins/models"
	"github.com/gildlab/go-pins/services"
)

type PinsCmd struct{}

type args struct {
	Env  string   `arg:"--env,env:PINS_ENV_FILE" help:"dotenv file to load before reading the environment"`
	Pins *PinsCmd `arg:"subcommand:pins" help:"fetches all pins from all authors from all known subgraphs"`
}

func (args) Description() string {
	return "Resolves the authorized authors of a manager and lists every pin they published."
}

func main() {
	var a args
	p := arg.MustParse(&a)
	if a.Pins == nil {
		p.Fail("missing subcommand")
	}

	if len(a.Env) > 0 {
		if err := config.LoadEnvFile(a.Env); err != nil {
			log.Fatalf("pins: %v", err)
		}
	}

	logger, err := loggers.NewLogger()
	if err != nil {
		log.Fatalf("pins: error creating logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = run(ctx, logger, os.Stdout, nil); err != nil {
		logger.Errorf("pins: %v", err)
		logger.Sync()
		cancel()
		os.Exit(1)
	}
}

// run writes one base58 pin per line to out. A nil httpClient uses the default transport.
func run(ctx context.Context, logger models.Logger, out io.Writer, httpClient *http.Client) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	sources, err := cfg.DataSources()
	if err != nil {
		return err
	}

	metricService, err := metrics.NewOtelMetricService(ctx, logger, metrics.MetricOpts{
		OtlpEndpoint: cfg.MetricsEndpoint,
		Stdout:       cfg.MetricsStdout,
	})
	if err != nil {
		return err
	}
	defer metricService.Shutdown(context.Background())

	clientOpts := graphql.ClientOpts{Timeout: cfg.RequestTimeout, MaxRetries: cfg.MaxRetries, HttpClient: httpClient}
	authorService := services.NewAuthorService(graphql.NewClient(logger, cfg.AuthorsUrl, clientOpts), cfg.Manager(), logger, metricService)

	fetchers := make([]services.PinFetcher, len(sources))
	pinOpts := services.PinServiceOpts{PageSize: cfg.PageSize, MaxPages: cfg.MaxPages}
	for i, source := range sources {
		fetchers[i] = services.NewPinService(source, graphql.NewClient(logger, source.Endpoint, clientOpts), pinOpts, logger, metricService)
	}
	aggregationService := services.NewAggregationService(fetchers, cfg.CancelOnError, logger, metricService)

	pinSet, err := services.NewPipeline(authorService, aggregationService).Run(ctx)
	if err != nil {
		return err
	}
	logger.Infof("pins: found %d unique pins across %d sources", len(pinSet), len(sources))
	for _, pin := range pinSet.Strings() {
		if _, err = fmt.Fprintln(out, pin); err != nil {
			return err
		}
	}
	return nil
}
