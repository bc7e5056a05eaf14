package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Room    RoomConfig    `yaml:"room"`
	Sweep   SweepConfig   `yaml:"sweep"`
	Gateway GatewayConfig `yaml:"gateway"`
}

// ServerConfig holds http and tls settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	DBPath  string    `yaml:"db_path"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RoomConfig tunes the in-memory chat core.
type RoomConfig struct {
	// HistoryLimit caps the message ledger; oldest entries are evicted
	// past this size. Zero means the default of 100.
	HistoryLimit int `yaml:"history_limit"`
	// MessageTTL is the maximum message age enforced by the sweep.
	MessageTTL Duration `yaml:"message_ttl"`
	// RoseInterval is the minimum gap between new rose reactions from
	// one user. Removals are never throttled.
	RoseInterval Duration `yaml:"rose_interval"`
	// SendBuffer is the per-session outbound channel depth.
	SendBuffer int `yaml:"send_buffer"`
}

// SweepConfig holds configuration for the scheduled ledger sweep.
type SweepConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// GatewayConfig tunes the websocket gateway.
type GatewayConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxPayload     SizeBytes `yaml:"max_payload"`
	RateLimit      struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	if c == nil {
		return ""
	}
	addr := c.Server.Address
	if c.Server.Port > 0 {
		return fmt.Sprintf("%s:%d", addr, c.Server.Port)
	}
	return addr
}

// Duration is a yaml-friendly wrapper over time.Duration accepting
// values like "1s", "24h" or bare integers (seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" {
		*d = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// SizeBytes is a yaml-friendly byte size accepting humanized values like
// "64KB" or "1MiB" as well as bare integers.
type SizeBytes int64

func (s *SizeBytes) UnmarshalYAML(value *yaml.Node) error {
	v := strings.TrimSpace(value.Value)
	if v == "" {
		*s = 0
		return nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		*s = SizeBytes(n)
		return nil
	}
	n, err := humanize.ParseBytes(v)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", v, err)
	}
	*s = SizeBytes(n)
	return nil
}
