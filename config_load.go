package newsgateway

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaJSON string

var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaJSON)

// LoadConfig reads and parses a config file from the given path. Values
// missing from the file keep their DefaultConfig value.
// Supported formats: JSON (.json), YAML (.yaml, .yml).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	var doc any
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
		if doc, err = normalize(raw); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if doc, err = decodeJSON(data); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	if doc == nil {
		doc = map[string]any{}
	}
	if err := configSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("config does not match schema: %w", err)
	}
	return &cfg, nil
}

// normalize turns a YAML document into the JSON value model the schema
// validator expects.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// ApplyEnv overrides cfg with the environment variables that are set.
// lookup is usually os.Getenv.
func ApplyEnv(cfg *Config, lookup func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Upstream.URL, "NEWSAPI_URL")
	set(&cfg.Upstream.APIKey, "NEWSAPI_KEY")
	set(&cfg.Auth.Username, "NEWSGW_AUTH_USERNAME")
	if v := strings.TrimSpace(lookup("NEWSGW_AUTH_PASSWORD")); v != "" {
		// The hash would otherwise take precedence over the override.
		cfg.Auth.Password = v
		cfg.Auth.PasswordHash = ""
	}
	set(&cfg.Logging.Level, "LOG_LEVEL")
	set(&cfg.Logging.Format, "LOG_FORMAT")

	if p := strings.TrimSpace(lookup("PORT")); p != "" {
		cfg.Server.Addr = ":" + p
	}
	if v := strings.TrimSpace(lookup("REDIS_URL")); v != "" {
		cfg.Cache.RedisURL = v
		cfg.Cache.Backend = CacheRedis
	}
	if origins := lookup("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = strings.Split(origins, ",")
	}
}

// ValidateConfig validates a Config for correctness. It is run after
// ApplyEnv, so the upstream URL and key may come from the environment.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Upstream.URL) == "" {
		return fmt.Errorf("upstream url is required (upstream.url or NEWSAPI_URL)")
	}
	u, err := url.Parse(cfg.Upstream.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream url %q must be an absolute http(s) URL", cfg.Upstream.URL)
	}
	if strings.TrimSpace(cfg.Upstream.APIKey) == "" {
		return fmt.Errorf("upstream api key is required (upstream.api_key or NEWSAPI_KEY)")
	}
	if cfg.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream timeout must not be negative")
	}

	backend := cfg.Cache.Backend
	if backend == "" {
		backend = CacheMemory
	}
	switch backend {
	case CacheMemory:
	case CacheRedis:
		if cfg.Cache.RedisURL == "" {
			return fmt.Errorf("redis cache backend requires cache.redis_url")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Capacity < 0 {
		return fmt.Errorf("cache capacity must not be negative")
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}

	if cfg.Auth.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.Auth.PasswordHash)); err != nil {
			return fmt.Errorf("auth password_hash is not a bcrypt hash: %w", err)
		}
	}
	if cfg.Auth.Username != "" && cfg.Auth.Password == "" && cfg.Auth.PasswordHash == "" {
		return fmt.Errorf("auth username %q has no password or password_hash", cfg.Auth.Username)
	}
	if cfg.Auth.Username == "" && (cfg.Auth.Password != "" || cfg.Auth.PasswordHash != "") {
		return fmt.Errorf("auth password given without username")
	}
	return nil
}
