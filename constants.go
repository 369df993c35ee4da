package pins

import "time"

const (
	Env_ManagerAddress       = "MANAGER_ADDRESS"
	Env_AddressesSubgraphUrl = "ADDRESSES_SUBGRAPH_URL"
	Env_PinsSubgraphBaseUrl  = "PINS_SUBGRAPH_BASE_URL"
	Env_PinsSubgraphPrefix   = "PINS_SUBGRAPH_PREFIX"
	Env_PinsNetworks         = "PINS_NETWORKS"
	Env_PinsPageSize         = "PINS_PAGE_SIZE"
	Env_PinsMaxPages         = "PINS_MAX_PAGES"
	Env_RequestTimeout       = "REQUEST_TIMEOUT"
	Env_RequestMaxRetries    = "REQUEST_MAX_RETRIES"
	Env_CancelOnError        = "CANCEL_ON_ERROR"
	Env_LogLevel             = "LOG_LEVEL"
	Env_MetricsEndpoint      = "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"
	Env_MetricsStdout        = "METRICS_STDOUT"
)

const DefaultSubgraphBaseUrl = "https://api.thegraph.com/subgraphs/name/gildlab/"
const DefaultSubgraphPrefix = "offchainassetvault"

const DefaultPageSize = 500
const DefaultMaxPages = 10000

const DefaultRequestTimeout = 30 * time.Second
const DefaultRequestMaxRetries = 0
const DefaultRetryMaxElapsed = 10 * time.Second

const ServiceName = "go-pins"
