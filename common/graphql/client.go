package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	genqlient "github.com/Khan/genqlient/graphql"
	"github.com/cenkalti/backoff/v4"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/gildlab/go-pins"
	"github.com/gildlab/go-pins/models"
)

type ClientOpts struct {
	// Timeout bounds each attempt. Zero means the default request timeout.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts made after a transport error.
	MaxRetries uint64
	// MaxElapsed bounds the total time spent retrying. Zero means the default.
	MaxElapsed time.Duration
	HttpClient *http.Client
}

type Client struct {
	endpoint string
	gql      genqlient.Client
	opts     ClientOpts
	logger   models.Logger
}

var _ models.GraphQLClient = &Client{}

func NewClient(logger models.Logger, endpoint string, opts ClientOpts) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = pins.DefaultRequestTimeout
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = pins.DefaultRetryMaxElapsed
	}
	httpClient := opts.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		}
	}
	return &Client{
		endpoint: endpoint,
		gql:      genqlient.NewClient(endpoint, httpClient),
		opts:     opts,
		logger:   logger,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query sends one GraphQL request. Only transport errors are retried, and only when retries are configured.
func (c *Client) Query(ctx context.Context, query string, variables any, data any) error {
	req := &genqlient.Request{Query: query, Variables: variables}
	op := func() error {
		qCtx, qCancel := context.WithTimeout(ctx, c.opts.Timeout)
		defer qCancel()

		resp := &genqlient.Response{Data: data}
		if err := c.gql.MakeRequest(qCtx, req, resp); err != nil {
			err = classify(err)
			if !errors.Is(err, models.ErrTransport) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = c.opts.MaxElapsed
	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, c.opts.MaxRetries), ctx)
	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		c.logger.Warnf("query: retrying %s in %s: %v", c.endpoint, wait, err)
	})
	if err != nil {
		return fmt.Errorf("query %s: %w", c.endpoint, err)
	}
	return nil
}

func classify(err error) error {
	var gqlErrs gqlerror.List
	if errors.As(err, &gqlErrs) {
		return fmt.Errorf("%w: %v", models.ErrProtocol, gqlErrs)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	return fmt.Errorf("%w: %v", models.ErrTransport, err)
}
