// Package config defines the eshop service configuration.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Staphlerr/eshop-adpro/pkg/config"
	"github.com/Staphlerr/eshop-adpro/pkg/config/configloader"
)

const (
	IDGeneratorUUID       = "uuid"
	IDGeneratorSequential = "sequential"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
	Metrics    config.MetricsConfig   `koanf:"metrics"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	NATS       config.NATSConfig      `koanf:"nats"`
	Events     EventsConfig           `koanf:"events"`
	Store      StoreConfig            `koanf:"store"`
}

// EventsConfig switches publishing of product events to NATS.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`
}

type StoreConfig struct {
	IDGenerator string `koanf:"idgenerator"`
}

func (c *StoreConfig) Validate() error {
	if c.IDGenerator == "" {
		c.IDGenerator = IDGeneratorUUID
	}
	if !slices.Contains([]string{IDGeneratorUUID, IDGeneratorSequential}, c.IDGenerator) {
		return fmt.Errorf("unknown store id generator: %q", c.IDGenerator)
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Telemetry.String())

	b.WriteString("\n--- Events ---\n")
	b.WriteString(fmt.Sprintf("  events.enabled: %t\n", c.Events.Enabled))
	b.WriteString(fmt.Sprintf("  nats.url: %s\n", maskURL(c.NATS.Url)))
	b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.NATS.Timeout))
	b.WriteString(fmt.Sprintf("  nats.stream: %s\n", c.NATS.Stream))

	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  store.idgenerator: %s\n", c.Store.IDGenerator))

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return url
}

// Validate checks if the configuration values are valid.
// NATS settings are only checked when events are enabled.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.Metrics,
		&c.Telemetry,
		&c.Store,
	}
	if c.Events.Enabled {
		validators = append(validators, &c.NATS)
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
