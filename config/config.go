// Package config holds the recon service configuration
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
)

const (
	// DefaultConfigFilePath is read when no config path is given
	DefaultConfigFilePath = "./config/.config.yaml"
	// envPrefix is stripped from environment variables before they are mapped to config keys
	envPrefix = "RECON_"
)

// Config holds service configuration
type Config struct {
	// Server contains the HTTP API settings
	Server Server `json:"server" koanf:"server"`
	// Remote contains the settings for the upstream recon service
	Remote Remote `json:"remote" koanf:"remote"`
	// Scanner contains scan orchestration settings
	Scanner Scanner `json:"scanner" koanf:"scanner"`
	// Session contains browser session settings
	Session Session `json:"session" koanf:"session"`
	// Render contains transcript output settings
	Render Render `json:"render" koanf:"render"`
}

// Server settings for the HTTP API
type Server struct {
	// Debug enables debug logging
	Debug bool `json:"debug" koanf:"debug" default:"false"`
	// Pretty enables human readable log output
	Pretty bool `json:"pretty" koanf:"pretty" default:"false"`
	// Listen is the address the API listens on
	Listen string `json:"listen" koanf:"listen" default:":8080"`
	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `json:"readTimeout" koanf:"readTimeout" default:"15s"`
	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `json:"writeTimeout" koanf:"writeTimeout" default:"30s"`
	// HandlerTimeout bounds the time a single API handler may run
	HandlerTimeout time.Duration `json:"handlerTimeout" koanf:"handlerTimeout" default:"20s"`
	// ShutdownGracePeriod is how long in-flight requests get to finish on shutdown
	ShutdownGracePeriod time.Duration `json:"shutdownGracePeriod" koanf:"shutdownGracePeriod" default:"10s"`
	// MaxBodySize is the maximum accepted request body size in bytes
	MaxBodySize int64 `json:"maxBodySize" koanf:"maxBodySize" default:"4096"`
	// EnableMetrics exposes Prometheus metrics at /metrics
	EnableMetrics bool `json:"enableMetrics" koanf:"enableMetrics" default:"true"`
}

// Remote settings for the upstream recon service
type Remote struct {
	// BaseURL is the origin the ip, dns and headers resources are resolved against
	BaseURL string `json:"baseURL" koanf:"baseURL" default:"http://localhost:5000"`
	// RequestTimeout bounds a single HTTP exchange with the recon service
	RequestTimeout time.Duration `json:"requestTimeout" koanf:"requestTimeout" default:"30s"`
	// MaxResponseSize is the largest response body that is decoded, in bytes
	MaxResponseSize int64 `json:"maxResponseSize" koanf:"maxResponseSize" default:"10485760"`
	// RateLimit is the maximum number of requests per second sent to the recon service, 0 for no limit
	RateLimit float64 `json:"rateLimit" koanf:"rateLimit" default:"0"`
	// RateBurst is the number of requests allowed above the rate limit at once
	RateBurst int `json:"rateBurst" koanf:"rateBurst" default:"1"`
}

// Scanner settings for scan orchestration
type Scanner struct {
	// Timeout bounds a single scan from dispatch to result
	Timeout time.Duration `json:"timeout" koanf:"timeout" default:"60s"`
}

// Session settings for browser sessions
type Session struct {
	// TTL is how long an idle session is kept
	TTL time.Duration `json:"ttl" koanf:"ttl" default:"30m"`
	// CleanupInterval is how often idle sessions are swept
	CleanupInterval time.Duration `json:"cleanupInterval" koanf:"cleanupInterval" default:"1m"`
}

// Render settings for transcript output
type Render struct {
	// NoColor disables terminal styling
	NoColor bool `json:"noColor" koanf:"noColor" default:"false"`
}

// New returns a config populated with default values
func New() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)

	return cfg
}

// Load builds the configuration from defaults, the optional YAML file at cfgFile
// and RECON_ prefixed environment variables, in increasing order of precedence
func Load(cfgFile *string) (*Config, error) {
	k := koanf.New(".")
	cfg := New()

	path := DefaultConfigFilePath
	if cfgFile != nil && *cfgFile != "" {
		path = *cfgFile
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigFileLoad, path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigFileLoad, path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigEnvLoad, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigUnmarshal, err)
	}

	return cfg, nil
}

// canonicalKeys maps lowercased config paths to their koanf tag paths
var canonicalKeys = koanfPaths(reflect.TypeOf(Config{}), "", map[string]string{})

// envKey maps RECON_SERVER_MAXBODYSIZE to server.maxBodySize so env values land on the
// same key as file values
func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")

	if canonical, ok := canonicalKeys[key]; ok {
		return canonical
	}

	return key
}

// koanfPaths collects the dotted koanf path of every leaf field of t
func koanfPaths(t reflect.Type, prefix string, paths map[string]string) map[string]string {
	for i := range t.NumField() {
		field := t.Field(i)

		tag := field.Tag.Get("koanf")
		if !field.IsExported() || tag == "" || tag == "-" {
			continue
		}

		path := tag
		if prefix != "" {
			path = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			koanfPaths(field.Type, path, paths)
			continue
		}

		paths[strings.ToLower(path)] = path
	}

	return paths
}
