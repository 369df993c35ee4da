package services

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/multiformats/go-multihash"
	"github.com/sourcegraph/conc/pool"

	"github.com/gildlab/go-pins/models"
)

type PinFetcher interface {
	Source() models.DataSource
	FetchAll(ctx context.Context, authors []common.Address) ([]multihash.Multihash, error)
}

type AggregationService struct {
	fetchers      []PinFetcher
	cancelOnError bool
	logger        models.Logger
	metricService models.MetricService
}

func NewAggregationService(fetchers []PinFetcher, cancelOnError bool, logger models.Logger, metricService models.MetricService) *AggregationService {
	return &AggregationService{fetchers, cancelOnError, logger, metricService}
}

// Aggregate runs every fetcher concurrently and merges their pins once all of them have finished. Any failure fails
// the whole aggregation with the first error seen. Siblings of a failed fetcher keep running unless cancelOnError is
// set.
func (a AggregationService) Aggregate(ctx context.Context, authors []common.Address) (models.PinSet, error) {
	pinSet := models.NewPinSet()
	if len(authors) == 0 {
		a.logger.Warnf("aggregate: no authors, skipping %d sources", len(a.fetchers))
		return pinSet, nil
	}

	p := pool.NewWithResults[[]multihash.Multihash]().WithContext(ctx).WithFirstError()
	if a.cancelOnError {
		p = p.WithCancelOnError()
	}
	for _, fetcher := range a.fetchers {
		p.Go(func(ctx context.Context) ([]multihash.Multihash, error) {
			sourcePins, err := fetcher.FetchAll(ctx, authors)
			if err != nil {
				a.logger.Errorf("aggregate: %s failed: %v", fetcher.Source(), err)
				a.metricService.Count(ctx, models.MetricName_PinSourceFailed, 1)
				return nil, fmt.Errorf(models.ErrorMessageFmt_SourceFailed, fetcher.Source(), err)
			}
			a.logger.Infof("aggregate: %s returned %d pins", fetcher.Source(), len(sourcePins))
			return sourcePins, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	for _, sourcePins := range results {
		for _, mh := range sourcePins {
			pinSet.Add(mh)
		}
	}
	a.metricService.Count(ctx, models.MetricName_PinUnique, len(pinSet))
	return pinSet, nil
}
