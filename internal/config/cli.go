package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/productboard/pkg/config"
	"github.com/abgdnv/productboard/pkg/config/configloader"
)

// CLIName is the configuration prefix of productctl: PRODUCTCTL_API_URL sets api.url.
const CLIName = "productctl"

const (
	DefaultAPIURL = "http://localhost:8080"
	// defaultCLILogLevel keeps stderr quiet unless a request fails.
	defaultCLILogLevel = "error"
)

var _ configloader.Validator = (*CLIConfig)(nil)

type APIConfig struct {
	URL string `koanf:"url"`
}

// CLIConfig is the configuration of the productctl binary.
type CLIConfig struct {
	API APIConfig        `koanf:"api"`
	Log config.LogConfig `koanf:"log"`
}

func (c *CLIConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- API ---\n")
	b.WriteString(fmt.Sprintf("  url: %s\n", c.API.URL))
	b.WriteString(c.Log.String())
	return b.String()
}

func (c *CLIConfig) Validate() error {
	if c.API.URL == "" {
		c.API.URL = DefaultAPIURL
	}
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("api URL must start with 'http://' or 'https://': %s", c.API.URL)
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultCLILogLevel
	}
	return c.Log.Validate()
}
