package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gildlab/go-pins/common/meta"
	"github.com/gildlab/go-pins/models"
)

const authorsQuery = `query AuthorsQuery($sender: String!) {
  metaV1S(where: { sender: $sender }) {
    meta
    sender
  }
}`

type authorsData struct {
	Records []models.MetaRecord `json:"metaV1S"`
}

type AuthorService struct {
	client        models.GraphQLClient
	manager       common.Address
	logger        models.Logger
	metricService models.MetricService
}

func NewAuthorService(client models.GraphQLClient, manager common.Address, logger models.Logger, metricService models.MetricService) *AuthorService {
	return &AuthorService{client, manager, logger, metricService}
}

// Authors fetches the manager's meta records and resolves them into the currently authorized addresses.
func (a AuthorService) Authors(ctx context.Context) ([]common.Address, error) {
	records, err := a.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	authors := a.Resolve(ctx, records).Authorized()
	a.logger.Infow("authors: resolved", "records", len(records), "authors", models.FormatAddresses(authors))
	a.metricService.Count(ctx, models.MetricName_AuthorsResolved, len(authors))
	return authors, nil
}

// Fetch issues a single authors query filtered by the lowercased manager address.
func (a AuthorService) Fetch(ctx context.Context) ([]models.MetaRecord, error) {
	variables := map[string]any{"sender": models.FormatAddress(a.manager)}
	data := authorsData{}
	if err := a.client.Query(ctx, authorsQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("authors: %w", err)
	}
	a.logger.Debugf("authors: fetched %d records for %s", len(data.Records), models.FormatAddress(a.manager))
	return data.Records, nil
}

// Resolve folds records in the order given, each record overwriting any earlier one for the same address. Records not
// sent by the manager or that fail to decode are skipped.
func (a AuthorService) Resolve(ctx context.Context, records []models.MetaRecord) *models.AuthorSet {
	authorSet := models.NewAuthorSet()
	for record := range a.decoded(ctx, records) {
		authorSet.Apply(record)
	}
	return authorSet
}

func (a AuthorService) decoded(ctx context.Context, records []models.MetaRecord) iter.Seq[models.AuthorRecord] {
	return func(yield func(models.AuthorRecord) bool) {
		for idx, record := range records {
			if !common.IsHexAddress(record.Sender) || common.HexToAddress(record.Sender) != a.manager {
				a.logger.Debugf("authors: skipping record %d from sender %s", idx, record.Sender)
				a.metricService.Count(ctx, models.MetricName_AuthorRecordSkipped, 1)
				continue
			}
			authorRecord, err := meta.Decode(record.Meta)
			if err != nil {
				a.logger.Errorf("authors: skipping record %d: %v, %+v", idx, err, record)
				a.metricService.Count(ctx, models.MetricName_AuthorRecordSkipped, 1)
				continue
			}
			if !yield(authorRecord) {
				return
			}
		}
	}
}
