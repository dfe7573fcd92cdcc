package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config tunes the end-to-end suite from the environment, so CI can loosen
// the timeouts on slow runners without touching the tests.
type Config struct {
	Host string `envconfig:"E2E_HOST" default:"127.0.0.1"`
	// E2E_READ_TIMEOUT bounds every single socket read in the suite
	ReadTimeout time.Duration `envconfig:"E2E_READ_TIMEOUT" default:"2s"`
	// E2E_SHUTDOWN_TIMEOUT bounds how long a stopping server may take
	ShutdownTimeout time.Duration `envconfig:"E2E_SHUTDOWN_TIMEOUT" default:"3s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
