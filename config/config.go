package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every configuration error
var ErrInvalid = errors.New("invalid configuration")

const (
	FormatText = "text"
	FormatYAML = "yaml"

	DefaultPodHeader = "X-Pod-Name"
	DefaultAgent     = "loadprobe"

	envPrefix = "LOADPROBE"
)

type Config struct {
	TargetURL        string  `mapstructure:"target_url" yaml:"target_url"`
	TotalRequests    int     `mapstructure:"total_requests" yaml:"total_requests"`
	ConcurrencyLimit int     `mapstructure:"concurrency_limit" yaml:"concurrency_limit"`
	TimeoutSeconds   float64 `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	PodHeader        string  `mapstructure:"pod_header" yaml:"pod_header"`
	IdentitySelector string  `mapstructure:"identity_selector" yaml:"identity_selector,omitempty"`
	IdentityPattern  string  `mapstructure:"identity_pattern" yaml:"identity_pattern,omitempty"`
	Agent            string  `mapstructure:"agent" yaml:"agent"`
	HTTP2            bool    `mapstructure:"http2" yaml:"http2"`
	CheckRobots      bool    `mapstructure:"check_robots" yaml:"check_robots"`
	Verbose          bool    `mapstructure:"verbose" yaml:"verbose"`
	Format           string  `mapstructure:"format" yaml:"format"`
	MetricsAddr      string  `mapstructure:"metrics_addr" yaml:"metrics_addr,omitempty"`
}

// Default is what "loadprobe init" writes, the target is a placeholder.
func Default() Config {
	return Config{
		TargetURL:        "http://localhost:5000/users",
		TotalRequests:    500,
		ConcurrencyLimit: 50,
		TimeoutSeconds:   5,
		PodHeader:        DefaultPodHeader,
		Agent:            DefaultAgent,
		Format:           FormatText,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("target_url", "")
	v.SetDefault("total_requests", 0)
	v.SetDefault("concurrency_limit", def.ConcurrencyLimit)
	v.SetDefault("timeout_seconds", def.TimeoutSeconds)
	v.SetDefault("pod_header", def.PodHeader)
	v.SetDefault("identity_selector", "")
	v.SetDefault("identity_pattern", "")
	v.SetDefault("agent", def.Agent)
	v.SetDefault("http2", false)
	v.SetDefault("check_robots", false)
	v.SetDefault("verbose", false)
	v.SetDefault("format", def.Format)
	v.SetDefault("metrics_addr", "")
	return v
}

// Load reads a yaml configuration, applying defaults and LOADPROBE_* environment
// overrides. It does not validate, flags may still complete the config.
func Load(data []byte) (conf *Config, err error) {
	v := newViper()
	if len(data) > 0 {
		if errRead := v.ReadConfig(bytes.NewReader(data)); errRead != nil {
			return nil, fmt.Errorf("could not parse config: %w", errRead)
		}
	}
	conf = &Config{}
	if errUnmarshal := v.Unmarshal(conf); errUnmarshal != nil {
		return nil, fmt.Errorf("could not decode config: %w", errUnmarshal)
	}
	return conf, nil
}

// Get loads the config file at filename, an empty filename yields defaults
// and environment only.
func Get(filename string) (conf *Config, err error) {
	var data []byte
	if filename != "" {
		fileBytes, errRead := os.ReadFile(filename)
		if errRead != nil {
			return nil, fmt.Errorf("could not read config %q: %w", filename, errRead)
		}
		data = fileBytes
	}
	return Load(data)
}

func WriteDefault(filename string) error {
	yamlBytes, errMarshal := yaml.Marshal(Default())
	if errMarshal != nil {
		return fmt.Errorf("could not marshal default config: %w", errMarshal)
	}
	return os.WriteFile(filename, yamlBytes, 0o644)
}

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, a...)...)
}

func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return invalid("target_url is required")
	}
	u, errParse := url.Parse(c.TargetURL)
	if errParse != nil {
		return invalid("target_url %q: %v", c.TargetURL, errParse)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("target_url %q must be an absolute http(s) url", c.TargetURL)
	}
	if c.TotalRequests <= 0 {
		return invalid("total_requests must be > 0, got %d", c.TotalRequests)
	}
	if c.ConcurrencyLimit <= 0 {
		return invalid("concurrency_limit must be > 0, got %d", c.ConcurrencyLimit)
	}
	if c.TimeoutSeconds <= 0 {
		return invalid("timeout_seconds must be > 0, got %v", c.TimeoutSeconds)
	}
	if math.IsNaN(c.TimeoutSeconds) || c.TimeoutSeconds > math.MaxInt64/float64(time.Second) || c.Timeout() <= 0 {
		return invalid("timeout_seconds %v is not a usable duration", c.TimeoutSeconds)
	}
	if c.IdentityPattern != "" {
		re, errCompile := regexp.Compile(c.IdentityPattern)
		if errCompile != nil {
			return invalid("identity_pattern: %v", errCompile)
		}
		if re.NumSubexp() != 1 {
			return invalid("identity_pattern needs exactly one capture group")
		}
		if c.IdentitySelector == "" {
			return invalid("identity_pattern requires identity_selector")
		}
	}
	switch c.Format {
	case FormatText, FormatYAML:
	default:
		return invalid("unknown format %q", c.Format)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}
