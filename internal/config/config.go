// Package config holds the runtime settings of the voxel server.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/voxelphys/internal/core/observability/log"
)

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported config file format")
)

// Duration reads "50ms" style strings from both JSON and YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Scene  SceneConfig  `json:"scene" yaml:"scene"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

type ServerConfig struct {
	ListenAddr     string   `json:"listen_addr" yaml:"listen_addr"`
	MaxClients     int      `json:"max_clients" yaml:"max_clients"`
	MaxMessageSize int64    `json:"max_message_size" yaml:"max_message_size"`
	WriteTimeout   Duration `json:"write_timeout" yaml:"write_timeout"`
	// ClientBuffer is how many frames may queue for a slow client before it
	// is dropped.
	ClientBuffer    int      `json:"client_buffer" yaml:"client_buffer"`
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type SceneConfig struct {
	Level    string   `json:"level" yaml:"level"`
	TickRate Duration `json:"tick_rate" yaml:"tick_rate"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns a configuration that passes Validate once a level is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr:      "127.0.0.1:8080",
			MaxClients:      1000,
			MaxMessageSize:  64 * 1024,
			WriteTimeout:    Duration{5 * time.Second},
			ClientBuffer:    16,
			ShutdownTimeout: Duration{5 * time.Second},
		},
		Scene: SceneConfig{
			TickRate: Duration{50 * time.Millisecond},
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadJSON reads a config from r on top of Default.
func LoadJSON(r io.Reader) (Config, error) {
	c := Default()
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config json: %w", err)
	}
	return c, c.Validate()
}

// LoadYAML reads a config from r on top of Default.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	return c, c.Validate()
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(bytes.NewReader(data))
	case ".yaml", ".yml":
		return LoadYAML(bytes.NewReader(data))
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Validate checks every field. The level path is not required here since it
// may come from a flag.
func (c Config) Validate() error {
	var errs []error
	if c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is empty"))
	}
	if c.Server.MaxClients <= 0 {
		errs = append(errs, fmt.Errorf("server.max_clients=%d", c.Server.MaxClients))
	}
	if c.Server.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_message_size=%d", c.Server.MaxMessageSize))
	}
	if c.Server.ClientBuffer <= 0 {
		errs = append(errs, fmt.Errorf("server.client_buffer=%d", c.Server.ClientBuffer))
	}
	if c.Server.WriteTimeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout=%s", c.Server.WriteTimeout))
	}
	if c.Scene.TickRate.Duration <= 0 {
		errs = append(errs, fmt.Errorf("scene.tick_rate=%s", c.Scene.TickRate))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return l
}
