package services

import (
	"context"

	"github.com/gildlab/go-pins/models"
)

// Pipeline resolves the authorized authors, then collects their pins from every source.
type Pipeline struct {
	authorService      *AuthorService
	aggregationService *AggregationService
}

func NewPipeline(authorService *AuthorService, aggregationService *AggregationService) *Pipeline {
	return &Pipeline{authorService, aggregationService}
}

// Run fails before any pin is fetched if the authors can't be resolved.
func (p Pipeline) Run(ctx context.Context) (models.PinSet, error) {
	authors, err := p.authorService.Authors(ctx)
	if err != nil {
		return nil, err
	}
	return p.aggregationService.Aggregate(ctx, authors)
}
