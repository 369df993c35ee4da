package models

import (
	"context"
)

type GraphQLClient interface {
	// Query sends one request and decodes the "data" member of the response envelope into data.
	Query(ctx context.Context, query string, variables any, data any) error
}

type MetricService interface {
	Count(ctx context.Context, name MetricName, val int) error
	Shutdown(ctx context.Context)
}

type Logger interface {
	Debugf(template string, args ...interface{})
	Debugw(msg string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, args ...interface{})
	Warnf(template string, args ...interface{})
	Sync() error
}
