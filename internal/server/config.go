package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config is the serve-time configuration. It lives beside config.yaml so the
// API can be tuned without touching the model settings.
type Config struct {
	Listen  Listen               `yaml:"listen"`
	Limits  Limits               `yaml:"limits"`
	Logging config.LoggingConfig `yaml:"logging"`
}

// Listen describes the HTTP listener.
type Listen struct {
	Address           string        `yaml:"address"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
}

// Limits bound a single edit request and the drain on shutdown.
type Limits struct {
	EditBody      ByteSize      `yaml:"editBody"`
	ShutdownGrace time.Duration `yaml:"shutdownGrace"`
}

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownGrace     = 10 * time.Second
)

// DefaultConfig is what serve runs with when no server config file exists.
func DefaultConfig() *Config {
	return &Config{
		Listen: Listen{
			Address:           constants.DefaultServerAddress,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
		Limits: Limits{
			EditBody:      ByteSize(constants.DefaultMaxBodySizeBytes),
			ShutdownGrace: defaultShutdownGrace,
		},
	}
}

// LoadConfig reads the server config at path. A missing file or empty path
// yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig parses a server config. Unknown keys are rejected so a typo
// does not silently fall back to a default.
func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Listen.Address) == "" {
		c.Listen.Address = constants.DefaultServerAddress
	}
	if c.Listen.ReadHeaderTimeout < 0 {
		return fmt.Errorf("listen.readHeaderTimeout must not be negative, got %v", c.Listen.ReadHeaderTimeout)
	}
	if c.Listen.ReadHeaderTimeout == 0 {
		c.Listen.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if c.Limits.EditBody < 0 {
		return fmt.Errorf("limits.editBody must not be negative, got %d", c.Limits.EditBody)
	}
	if c.Limits.EditBody == 0 {
		c.Limits.EditBody = ByteSize(constants.DefaultMaxBodySizeBytes)
	}
	if c.Limits.ShutdownGrace <= 0 {
		c.Limits.ShutdownGrace = defaultShutdownGrace
	}
	return nil
}

// ByteSize is a byte count written either as a plain integer or with a
// binary unit suffix: 512, 64KiB, 2M.
type ByteSize int64

var byteUnits = []struct {
	suffix string
	scale  int64
}{
	{"KIB", 1 << 10}, {"MIB", 1 << 20},
	{"KB", 1 << 10}, {"MB", 1 << 20},
	{"K", 1 << 10}, {"M", 1 << 20},
	{"B", 1},
}

// ParseByteSize parses s as a ByteSize. Units above mebibytes are refused;
// no edit body needs them.
func ParseByteSize(s string) (ByteSize, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	if text == "" {
		return 0, errors.New("empty size")
	}
	scale := int64(1)
	for _, u := range byteUnits {
		if strings.HasSuffix(text, u.suffix) {
			text = strings.TrimSpace(strings.TrimSuffix(text, u.suffix))
			scale = u.scale
			break
		}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n < 0 || n > (1<<62)/scale {
		return 0, fmt.Errorf("size %q out of range", s)
	}
	return ByteSize(n * scale), nil
}

// UnmarshalYAML accepts integers and suffixed strings.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: size must be a scalar", node.Line)
	}
	size, err := ParseByteSize(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = size
	return nil
}

func (b ByteSize) String() string {
	switch {
	case b >= 1<<20 && b%(1<<20) == 0:
		return fmt.Sprintf("%dMiB", b>>20)
	case b >= 1<<10 && b%(1<<10) == 0:
		return fmt.Sprintf("%dKiB", b>>10)
	}
	return fmt.Sprintf("%dB", int64(b))
}
