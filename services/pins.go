package services

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"

	"github.com/gildlab/go-pins"
	"github.com/gildlab/go-pins/models"
)

const pinsQuery = `query PinsQuery($ids: [String!], $first: Int!, $skip: Int!) {
  hashes(where: { owner_in: $ids }, first: $first, skip: $skip) {
    hash
  }
}`

type PinServiceOpts struct {
	PageSize int
	// MaxPages caps the number of page requests made to a single source, including the final empty page.
	MaxPages int
}

type PinService struct {
	source        models.DataSource
	client        models.GraphQLClient
	pageSize      int
	maxPages      int
	logger        models.Logger
	metricService models.MetricService
}

func NewPinService(source models.DataSource, client models.GraphQLClient, opts PinServiceOpts, logger models.Logger, metricService models.MetricService) *PinService {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = pins.DefaultPageSize
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = pins.DefaultMaxPages
	}
	return &PinService{source, client, pageSize, maxPages, logger, metricService}
}

// FetchAll pages through every pin published by the given authors on this source. Paging stops at the first page
// with no entries at all; entries that don't decode are dropped without ending the loop.
func (p PinService) FetchAll(ctx context.Context, authors []common.Address) ([]multihash.Multihash, error) {
	ids := models.FormatAddresses(authors)
	var all []multihash.Multihash
	for page, skip := 0, 0; ; page, skip = page+1, skip+p.pageSize {
		if page >= p.maxPages {
			return nil, fmt.Errorf("pins: %s: %w after %d pages", p.source, models.ErrPageLimit, page)
		}
		variables := map[string]any{
			"ids":   ids,
			"first": p.pageSize,
			"skip":  skip,
		}
		data := models.PinPage{}
		if err := p.client.Query(ctx, pinsQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("pins: %s at skip %d: %w", p.source, skip, err)
		}
		p.metricService.Count(ctx, models.MetricName_PinPageFetched, 1)
		if len(data.Hashes) == 0 {
			break
		}
		decoded := p.decodePage(ctx, data.Hashes)
		p.logger.Infof("pins: %s: page at skip %d has %d entries, %d valid", p.source, skip, len(data.Hashes), len(decoded))
		all = append(all, decoded...)
	}
	p.metricService.Count(ctx, models.MetricName_PinCollected, len(all))
	return all, nil
}

func (p PinService) decodePage(ctx context.Context, records []models.PinRecord) []multihash.Multihash {
	decoded := make([]multihash.Multihash, 0, len(records))
	for _, record := range records {
		mh, err := DecodeHash(record.Hash)
		if err != nil {
			p.logger.Debugf("pins: %s: dropping %q: %v", p.source, record.Hash, err)
			p.metricService.Count(ctx, models.MetricName_PinRecordDropped, 1)
			continue
		}
		decoded = append(decoded, mh)
	}
	return decoded
}

// DecodeHash parses a base58 encoded multihash.
func DecodeHash(hash string) (multihash.Multihash, error) {
	data, err := base58.Decode(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidBase58, err)
	}
	mh, err := multihash.Cast(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidMultihash, err)
	}
	return mh, nil
}

func (p PinService) Source() models.DataSource {
	return p.source
}
