// Package config holds process-wide configuration, loaded once at startup
// and injected into the components that need it — the token service and the
// store never read the environment themselves.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is the whole configuration surface of the server.
//
// The defaults reproduce the original deployment's hardcoded constants
// (placeholder signing key, fixed store filename) so the server runs with
// no environment at all; setting the variables overrides them.
type Config struct {
	Port      int    `env:"PORT,       default=8080"`
	DBPath    string `env:"DB_PATH,    default=data/tastebud.db"`
	JWTSecret string `env:"JWT_SECRET, default=your-secret-key-here"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: loading configuration: %w", err)
	}
	return &cfg, nil
}
