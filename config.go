package newsgateway

import (
	"fmt"
	"time"
)

// Config is the top-level configuration for the newsgw server.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Upstream UpstreamConfig `json:"upstream" yaml:"upstream"`
	Auth     AuthConfig     `json:"auth" yaml:"auth"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string   `json:"addr" yaml:"addr"`
	ReadTimeout     Duration `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`
	WriteTimeout    Duration `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`
	IdleTimeout     Duration `json:"idle_timeout,omitempty" yaml:"idle_timeout,omitempty"`
	ShutdownTimeout Duration `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`
	CORSOrigins     []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

// UpstreamConfig defines the news API the gateway forwards to.
type UpstreamConfig struct {
	URL      string   `json:"url" yaml:"url"`
	APIKey   string   `json:"api_key" yaml:"api_key"`
	Country  string   `json:"country,omitempty" yaml:"country,omitempty"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
	Timeout  Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// AuthConfig defines the single credential pair accepted by the API.
// PasswordHash (bcrypt) takes precedence over Password.
type AuthConfig struct {
	Realm        string `json:"realm,omitempty" yaml:"realm,omitempty"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty"`
}

// CacheBackend selects the cache implementation.
type CacheBackend string

// Supported cache backends.
const (
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

// CacheConfig defines the query caches. Capacity and TTL apply to every
// namespace; zero means unbounded and non-expiring.
type CacheConfig struct {
	Backend   CacheBackend `json:"backend" yaml:"backend"`
	Capacity  int          `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	TTL       Duration     `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	RedisURL  string       `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	KeyPrefix string       `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
}

// LoggingConfig defines the process logger.
type LoggingConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("30s") in
// config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats d as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Upstream: UpstreamConfig{
			Country:  DefaultCountry,
			Language: DefaultLanguage,
		},
		Auth: AuthConfig{
			Realm: "newsgw",
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
