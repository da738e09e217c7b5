package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML file named by PROPINTEL_CONFIG_FILE.
// Values in it replace the built-in defaults; environment variables still
// win. Secrets (API key, Redis password) are only read from the environment.
type FileConfig struct {
	Server struct {
		ListenPort      string   `yaml:"listen_port"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
		RequestTimeout  string   `yaml:"request_timeout"`
		CORSOrigins     []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty *bool  `yaml:"pretty"`
	} `yaml:"log"`

	Gemini struct {
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"gemini"`

	Fetch struct {
		ProxyURL    string `yaml:"proxy_url"`
		Timeout     string `yaml:"timeout"`
		MaxBytes    int64  `yaml:"max_bytes"`
		UserAgent   string `yaml:"user_agent"`
		ConvertHTML *bool  `yaml:"convert_html"`
	} `yaml:"fetch"`

	History struct {
		Retention     string `yaml:"retention"`
		PruneInterval string `yaml:"prune_interval"`
	} `yaml:"history"`

	Redis struct {
		Addr           string `yaml:"addr"`
		Username       string `yaml:"username"`
		DB             *int   `yaml:"db"`
		PoolSize       int    `yaml:"pool_size"`
		ConnectTimeout string `yaml:"connect_timeout"`
	} `yaml:"redis"`

	Access struct {
		AllowedHosts []string `yaml:"allowed_hosts"`
		AllowedCIDRS []string `yaml:"allowed_cidrs"`
		TrustProxy   *bool    `yaml:"trust_proxy"`
	} `yaml:"access"`

	RateLimit struct {
		Burst     int `yaml:"burst"`
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
}

// LoadFile reads a YAML config file. An empty path yields an empty config.
func LoadFile(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return fc, nil
}

// small helpers turning optional file values into defaults

func orString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func orBool(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func orDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid duration %q in config file", v))
	}
	return d
}

func orSlice(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return def
}
