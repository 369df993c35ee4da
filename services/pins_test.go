package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multihash"

	"github.com/gildlab/go-pins/common/loggers"
	"github.com/gildlab/go-pins/models"
)

var testSource = models.DataSource{Network: models.Network_Mumbai, Endpoint: "https://example.com/mumbai"}

func TestFetchAllPagination(t *testing.T) {
	pageSizes := []int{500, 500, 213, 0}
	pages := make([][]string, len(pageSizes))
	var expected []multihash.Multihash
	for i, size := range pageSizes {
		for j := 0; j < size; j++ {
			mh := testMultihash(t, fmt.Sprintf("pin-%d-%d", i, j))
			pages[i] = append(pages[i], mh.B58String())
			expected = append(expected, mh)
		}
	}
	client := &FakeGraphQLClient{respond: func(call int, _ map[string]any) (string, error) {
		if call >= len(pages) {
			t.Fatalf("unexpected request %d", call)
		}
		return hashesPage(t, pages[call]), nil
	}}

	metricService := &MockMetricService{}
	pinService := NewPinService(testSource, client, PinServiceOpts{PageSize: 500}, loggers.NewTestLogger(), metricService)
	found, err := pinService.FetchAll(context.Background(), []common.Address{authorA, authorB})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(found, expected) {
		t.Errorf("incorrect pins: found %d, expected %d", len(found), len(expected))
	}

	requests := client.getRequests()
	Assert(t, 4, len(requests), "incorrect number of page requests")
	for i, request := range requests {
		Assert(t, i*500, request.variables["skip"].(int), "incorrect skip")
		Assert(t, 500, request.variables["first"].(int), "incorrect page size")
		ids := request.variables["ids"].([]string)
		if !reflect.DeepEqual(ids, []string{"0x8058ad7c22fdc8788fe4cb1dac15d6e976127324", "0x6e37d34e35a5ff2f896ed9e76ec43e728ada1d18"}) {
			t.Errorf("incorrect author ids: %v", ids)
		}
	}
	Assert(t, 4, metricService.getCount(models.MetricName_PinPageFetched), "incorrect pages counted")
	Assert(t, 1213, metricService.getCount(models.MetricName_PinCollected), "incorrect pins counted")
}

func TestFetchAllDropsInvalidHashes(t *testing.T) {
	valid := testMultihash(t, "valid")
	notMultihash := base58.Encode([]byte{0x12, 0x20, 0x01, 0x02})
	page := []string{"0OIl", valid.B58String(), notMultihash, ""}
	// A page with entries that all fail to decode still continues the loop.
	pages := [][]string{page, {"0OIl"}, {}}

	client := &FakeGraphQLClient{respond: func(call int, _ map[string]any) (string, error) {
		return hashesPage(t, pages[call]), nil
	}}
	metricService := &MockMetricService{}
	pinService := NewPinService(testSource, client, PinServiceOpts{PageSize: 4}, loggers.NewTestLogger(), metricService)
	found, err := pinService.FetchAll(context.Background(), []common.Address{authorA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(found, []multihash.Multihash{valid}) {
		t.Errorf("incorrect pins: %v", found)
	}
	Assert(t, 3, len(client.getRequests()), "incorrect number of page requests")
	Assert(t, 4, metricService.getCount(models.MetricName_PinRecordDropped), "incorrect dropped records counted")
}

func TestFetchAllErrors(t *testing.T) {
	tests := map[string]struct {
		failOn        int
		err           error
		expectedCalls int
	}{
		"protocol error on first page": {
			failOn:        0,
			err:           fmt.Errorf("%w: subgraph unavailable", models.ErrProtocol),
			expectedCalls: 1,
		},
		"transport error mid pagination": {
			failOn:        2,
			err:           fmt.Errorf("%w: connection reset", models.ErrTransport),
			expectedCalls: 3,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client := &FakeGraphQLClient{respond: func(call int, _ map[string]any) (string, error) {
				if call == test.failOn {
					return "", test.err
				}
				return hashesPage(t, []string{testMultihash(t, fmt.Sprint(call)).B58String()}), nil
			}}
			pinService := NewPinService(testSource, client, PinServiceOpts{PageSize: 1}, loggers.NewTestLogger(), &MockMetricService{})
			found, err := pinService.FetchAll(context.Background(), []common.Address{authorA})
			if !errors.Is(err, test.err) {
				t.Fatalf("incorrect error: found=%v, expected=%v", err, test.err)
			}
			if found != nil {
				t.Errorf("failed fetch should not return pins: %v", found)
			}
			Assert(t, test.expectedCalls, len(client.getRequests()), "incorrect number of page requests")
		})
	}
}

func TestFetchAllPageLimit(t *testing.T) {
	// Every page is full of undecodable entries, so the source never ends on its own.
	client := &FakeGraphQLClient{respond: func(int, map[string]any) (string, error) {
		return hashesPage(t, []string{"0OIl", "0OIl"}), nil
	}}
	pinService := NewPinService(testSource, client, PinServiceOpts{PageSize: 2, MaxPages: 5}, loggers.NewTestLogger(), &MockMetricService{})
	_, err := pinService.FetchAll(context.Background(), []common.Address{authorA})
	if !errors.Is(err, models.ErrPageLimit) || !errors.Is(err, models.ErrProtocol) {
		t.Fatalf("should have hit the page limit, got %v", err)
	}
	Assert(t, 5, len(client.getRequests()), "incorrect number of page requests")
}

func TestDecodeHash(t *testing.T) {
	valid := testMultihash(t, "valid")
	tests := map[string]struct {
		hash        string
		expected    multihash.Multihash
		expectedErr error
	}{
		"sha2-256 multihash": {
			hash:     valid.B58String(),
			expected: valid,
		},
		"invalid base58 alphabet": {
			hash:        "0OIl",
			expectedErr: models.ErrInvalidBase58,
		},
		"empty": {
			hash:        "",
			expectedErr: models.ErrDecode,
		},
		"digest shorter than declared": {
			hash:        base58.Encode([]byte{0x12, 0x20, 0xaa}),
			expectedErr: models.ErrInvalidMultihash,
		},
		"trailing bytes": {
			hash:        base58.Encode(append(append([]byte{}, valid...), 0x00)),
			expectedErr: models.ErrInvalidMultihash,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			mh, err := DecodeHash(test.hash)
			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("incorrect error: found=%v, expected=%v", err, test.expectedErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(mh, test.expected) {
				t.Errorf("incorrect multihash: found=%v, expected=%v", mh, test.expected)
			}
		})
	}
}
