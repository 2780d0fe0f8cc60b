package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "NIKNAX_"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	PopupURL string `env:"POPUP_URL, default=http://localhost:8080/popup"`

	Token TokenConfig `env:", prefix=TOKEN_"`
	CRM   CRMConfig   `env:", prefix=CRM_"`
	Poll  PollConfig  `env:", prefix=POLL_"`
}

// TokenConfig signs popup window tokens.
type TokenConfig struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL, default=8h"`
}

// CRMConfig addresses the CRM server. Host and SessionID are only read by
// the CLI commands; the HTTP API gets them per window.
type CRMConfig struct {
	Host               string        `env:"HOST"`
	SessionID          string        `env:"SESSION_ID"`
	APIVersion         string        `env:"API_VERSION,          default=58.0"`
	MetadataAPIVersion string        `env:"METADATA_API_VERSION, default=60.0"`
	Timeout            time.Duration `env:"TIMEOUT,              default=0s"`
}

// PollConfig bounds the wait for a session cookie on launch.
type PollConfig struct {
	Attempts int           `env:"ATTEMPTS, default=300"`
	Interval time.Duration `env:"INTERVAL, default=100ms"`
}

// Load reads configuration from NIKNAX_* environment variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through lookuper, NIKNAX_ prefix applied.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// Development reports whether the service runs outside production.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// ValidateServe checks what the HTTP API needs on top of the defaults.
func (c *Config) ValidateServe() error {
	if len(c.Token.Secret) < 16 {
		return fmt.Errorf("config: %sTOKEN_SECRET must be at least 16 characters", EnvPrefix)
	}
	return nil
}

// ValidateCRM checks the direct CRM access the CLI commands use.
func (c *Config) ValidateCRM() error {
	if c.CRM.Host == "" || c.CRM.SessionID == "" {
		return fmt.Errorf("config: %sCRM_HOST and %sCRM_SESSION_ID are required", EnvPrefix, EnvPrefix)
	}
	return nil
}
