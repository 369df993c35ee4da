package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"

	"github.com/gildlab/go-pins"
	"github.com/gildlab/go-pins/models"
)

type Config struct {
	ManagerAddress  string           `validate:"required,eth_addr"`
	AuthorsUrl      string           `validate:"required,url"`
	SubgraphBaseUrl string           `validate:"required,url"`
	SubgraphPrefix  string           `validate:"required"`
	Networks        []models.Network `validate:"min=1"`
	PageSize        int              `validate:"min=1"`
	MaxPages        int              `validate:"min=1"`
	RequestTimeout  time.Duration    `validate:"gt=0"`
	MaxRetries      uint64
	CancelOnError   bool
	MetricsEndpoint string
	MetricsStdout   bool
}

// LoadEnvFile seeds the environment from a dotenv file without overriding variables already set.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: error loading env file %s: %v", models.ErrConfig, path, err)
	}
	return nil
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ManagerAddress:  strings.TrimSpace(os.Getenv(pins.Env_ManagerAddress)),
		AuthorsUrl:      strings.TrimSpace(os.Getenv(pins.Env_AddressesSubgraphUrl)),
		SubgraphBaseUrl: pins.DefaultSubgraphBaseUrl,
		SubgraphPrefix:  pins.DefaultSubgraphPrefix,
		Networks:        models.AllNetworks(),
		PageSize:        pins.DefaultPageSize,
		MaxPages:        pins.DefaultMaxPages,
		RequestTimeout:  pins.DefaultRequestTimeout,
		MaxRetries:      pins.DefaultRequestMaxRetries,
		MetricsEndpoint: os.Getenv(pins.Env_MetricsEndpoint),
	}
	if baseUrl, found := os.LookupEnv(pins.Env_PinsSubgraphBaseUrl); found {
		cfg.SubgraphBaseUrl = baseUrl
	}
	if prefix, found := os.LookupEnv(pins.Env_PinsSubgraphPrefix); found {
		cfg.SubgraphPrefix = prefix
	}
	if configNetworks, found := os.LookupEnv(pins.Env_PinsNetworks); found && len(strings.TrimSpace(configNetworks)) > 0 {
		var networks []models.Network
		for _, name := range strings.Split(configNetworks, ",") {
			network, err := models.ParseNetwork(name)
			if err != nil {
				return nil, err
			}
			networks = append(networks, network)
		}
		cfg.Networks = networks
	}

	var err error
	if cfg.PageSize, err = intFromEnv(pins.Env_PinsPageSize, cfg.PageSize); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = intFromEnv(pins.Env_PinsMaxPages, cfg.MaxPages); err != nil {
		return nil, err
	}
	if configTimeout, found := os.LookupEnv(pins.Env_RequestTimeout); found {
		if cfg.RequestTimeout, err = time.ParseDuration(configTimeout); err != nil {
			return nil, fmt.Errorf("%w: invalid %s: %v", models.ErrConfig, pins.Env_RequestTimeout, err)
		}
	}
	if configRetries, found := os.LookupEnv(pins.Env_RequestMaxRetries); found {
		if cfg.MaxRetries, err = strconv.ParseUint(configRetries, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: invalid %s: %v", models.ErrConfig, pins.Env_RequestMaxRetries, err)
		}
	}
	if cfg.CancelOnError, err = boolFromEnv(pins.Env_CancelOnError); err != nil {
		return nil, err
	}
	if cfg.MetricsStdout, err = boolFromEnv(pins.Env_MetricsStdout); err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that the authors registry is reached over https.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", models.ErrConfig, err)
	}
	if !strings.HasPrefix(c.AuthorsUrl, "https://") {
		return fmt.Errorf("%w: invalid %s: must use https", models.ErrConfig, pins.Env_AddressesSubgraphUrl)
	}
	return nil
}

func (c *Config) Manager() common.Address {
	return common.HexToAddress(c.ManagerAddress)
}

// DataSources binds every configured network to its subgraph endpoint.
func (c *Config) DataSources() ([]models.DataSource, error) {
	base, err := url.Parse(c.SubgraphBaseUrl)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", models.ErrConfig, pins.Env_PinsSubgraphBaseUrl, err)
	}
	sources := make([]models.DataSource, len(c.Networks))
	for i, network := range c.Networks {
		endpoint, err := network.Endpoint(base, c.SubgraphPrefix)
		if err != nil {
			return nil, err
		}
		sources[i] = models.DataSource{Network: network, Endpoint: endpoint}
	}
	return sources, nil
}

func intFromEnv(name string, defaultValue int) (int, error) {
	if configValue, found := os.LookupEnv(name); found {
		parsedValue, err := strconv.Atoi(configValue)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid %s: %v", models.ErrConfig, name, err)
		}
		return parsedValue, nil
	}
	return defaultValue, nil
}

func boolFromEnv(name string) (bool, error) {
	if configValue, found := os.LookupEnv(name); found && len(configValue) > 0 {
		parsedValue, err := strconv.ParseBool(configValue)
		if err != nil {
			return false, fmt.Errorf("%w: invalid %s: %v", models.ErrConfig, name, err)
		}
		return parsedValue, nil
	}
	return false, nil
}
