package config

import (
	"fmt"
	"strings"
	"time"
)

// NATSConfig enables product event publishing to a JetStream stream.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
}

func (c *NATSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	if !c.Enabled {
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  url: %s\n", MaskURL(c.Url)))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	return b.String()
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.Url == "":
		return fmt.Errorf("NATS URL is not configured")
	case c.Timeout <= 0:
		return fmt.Errorf("NATS dial timeout is not configured")
	case c.Stream == "":
		return fmt.Errorf("NATS stream is not configured")
	case strings.ContainsAny(c.Stream, " .*>"):
		// JetStream rejects these in stream names
		return fmt.Errorf("invalid NATS stream name: %q", c.Stream)
	}
	return nil
}
