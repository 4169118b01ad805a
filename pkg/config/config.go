package config

import (
	"encoding/json"
	"time"
)

// SensitiveString holds a secret value that must never leak through logs or
// serialized output. The raw value is only reachable via an explicit cast.
type SensitiveString string

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Config is the full runtime configuration, loaded once at startup and
// read-only afterwards. Components receive it at construction time.
type Config struct {
	N8N       N8NConfig       `koanf:"n8n"`
	Runtime   RuntimeConfig   `koanf:"runtime"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Cache     CacheConfig     `koanf:"cache"`
}

// N8NConfig describes the authenticated channel to the n8n instance.
type N8NConfig struct {
	BaseURL       string          `koanf:"base_url"       env:"N8N_BASE_URL"            validate:"required,url"`
	APIKey        SensitiveString `koanf:"api_key"        env:"N8N_API_KEY"             validate:"required" sensitive:"true"`
	Timeout       time.Duration   `koanf:"timeout"        env:"N8N_TIMEOUT"             validate:"gt=0"`
	MaxRetries    int             `koanf:"max_retries"    env:"N8N_MAX_RETRIES"         validate:"gte=0,lte=10"`
	MaxConcurrent int64           `koanf:"max_concurrent" env:"MAX_CONCURRENT_REQUESTS" validate:"gt=0"`
}

// RuntimeConfig controls process-wide behavior.
type RuntimeConfig struct {
	Mode     string `koanf:"mode"      env:"APP_MODE"  validate:"oneof=development production"`
	LogLevel string `koanf:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogJSON  bool   `koanf:"log_json"  env:"LOG_JSON"`
}

// RateLimitConfig throttles outbound requests to the n8n instance.
// A zero Limit disables throttling.
type RateLimitConfig struct {
	Limit  int           `koanf:"limit"  env:"RATE_LIMIT_MAX"    validate:"gte=0"`
	Window time.Duration `koanf:"window" env:"RATE_LIMIT_WINDOW" validate:"gte=0"`
}

// CacheConfig controls the optional in-memory response cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled" env:"CACHE_ENABLED"`
	TTL     time.Duration `koanf:"ttl"     env:"CACHE_TTL" validate:"gt=0"`
}

// Default returns the configuration defaults applied before environment
// variables are merged on top.
func Default() *Config {
	return &Config{
		N8N: N8NConfig{
			Timeout:       30 * time.Second,
			MaxRetries:    3,
			MaxConcurrent: 10,
		},
		Runtime: RuntimeConfig{
			Mode:     "production",
			LogLevel: "info",
		},
		RateLimit: RateLimitConfig{
			Limit:  0,
			Window: time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     300 * time.Second,
		},
	}
}
