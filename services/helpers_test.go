package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/multiformats/go-multihash"

	"github.com/gildlab/go-pins/models"
)

type MockMetricService struct {
	mu     sync.Mutex
	counts map[models.MetricName]int
}

func (m *MockMetricService) Count(ctx context.Context, name models.MetricName, val int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counts == nil {
		m.counts = make(map[models.MetricName]int)
	}
	m.counts[name] += val
	return nil
}

func (m *MockMetricService) Shutdown(ctx context.Context) {}

func (m *MockMetricService) getCount(name models.MetricName) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counts[name]
}

type fakeRequest struct {
	query     string
	variables map[string]any
}

// FakeGraphQLClient answers each query with the JSON "data" body returned by respond.
type FakeGraphQLClient struct {
	mu       sync.Mutex
	requests []fakeRequest
	respond  func(call int, variables map[string]any) (string, error)
}

func (f *FakeGraphQLClient) Query(ctx context.Context, query string, variables any, data any) error {
	vars, _ := variables.(map[string]any)
	f.mu.Lock()
	call := len(f.requests)
	f.requests = append(f.requests, fakeRequest{query, vars})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	body, err := f.respond(call, vars)
	if err != nil {
		return err
	}
	if err = json.Unmarshal([]byte(body), data); err != nil {
		return fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	return nil
}

func (f *FakeGraphQLClient) getRequests() []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]fakeRequest(nil), f.requests...)
}

// FakePinFetcher returns a fixed result, optionally after waiting for release to be closed.
type FakePinFetcher struct {
	source  models.DataSource
	pins    []multihash.Multihash
	err     error
	release chan struct{}
	mu      sync.Mutex
	calls   int
	ctxDone bool
}

func (f *FakePinFetcher) Source() models.DataSource {
	return f.source
}

func (f *FakePinFetcher) FetchAll(ctx context.Context, _ []common.Address) ([]multihash.Multihash, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			f.mu.Lock()
			f.ctxDone = true
			f.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", models.ErrTransport, ctx.Err())
		}
	}
	return f.pins, f.err
}

func (f *FakePinFetcher) getCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func (f *FakePinFetcher) wasCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.ctxDone
}

func testMultihash(t *testing.T, data string) multihash.Multihash {
	t.Helper()
	mh, err := multihash.Sum([]byte(data), multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("failed to hash %s: %v", data, err)
	}
	return mh
}

// hashesPage renders a pins query response with the given hash strings.
func hashesPage(t *testing.T, hashes []string) string {
	t.Helper()
	page := models.PinPage{Hashes: make([]models.PinRecord, len(hashes))}
	for i, hash := range hashes {
		page.Hashes[i] = models.PinRecord{Hash: hash}
	}
	body, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("failed to encode page: %v", err)
	}
	return string(body)
}

func Assert[T comparable](t *testing.T, expected, received T, msg string) {
	t.Helper()
	if expected != received {
		t.Fatalf("%s: expected %v, received %v", msg, expected, received)
	}
}
