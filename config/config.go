package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Mode selects where payload formatting happens.
type Mode string

const (
	// ModeEager formats on the caller's goroutine before the event is
	// queued. Formatting errors surface to the caller, and lazy
	// payloads are materialized up front.
	ModeEager Mode = "eager"
	// ModeQueued defers all formatting to the dispatcher. Callers
	// return immediately; a bad format string crashes the dispatcher
	// instead of the caller.
	ModeQueued Mode = "queued"
)

const (
	// DefaultTruncateBytes bounds rendered payloads.
	DefaultTruncateBytes = 8192
	// DefaultQueueSize is the dispatcher command queue capacity.
	DefaultQueueSize = 256
)

// Config is the full pipeline configuration.
type Config struct {
	// TruncateBytes is the maximum rendered payload size in bytes.
	TruncateBytes int `yaml:"truncate"`
	// Backends lists the sink IDs enabled at startup, in priority
	// order. An empty list means every event is dropped (successfully).
	Backends []string `yaml:"backends"`
	// UTC switches line timestamps from local time to UTC.
	UTC bool `yaml:"utc"`
	// Mode is eager or queued formatting.
	Mode Mode `yaml:"mode"`
	// QueueSize is the dispatcher queue capacity.
	QueueSize int `yaml:"queue_size"`
}

// Default returns the configuration a pipeline starts with when the
// caller supplies nothing: console output, queued formatting.
func Default() Config {
	return Config{
		TruncateBytes: DefaultTruncateBytes,
		Backends:      []string{"console"},
		Mode:          ModeQueued,
		QueueSize:     DefaultQueueSize,
	}
}

// Load parses YAML into a Config. Fields absent from the document keep
// their Default() values, so a partial override file is enough.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return Load(data)
}

// Validate checks the configuration for values the pipeline cannot
// run with.
func (c Config) Validate() error {
	if c.TruncateBytes < 0 {
		return errors.Errorf("truncate must be non-negative, got %d", c.TruncateBytes)
	}
	if c.QueueSize <= 0 {
		return errors.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	switch c.Mode {
	case ModeEager, ModeQueued:
	default:
		return errors.Errorf("mode must be %q or %q, got %q", ModeEager, ModeQueued, c.Mode)
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b == "" {
			return errors.New("backends may not contain an empty ID")
		}
		if _, dup := seen[b]; dup {
			return errors.Errorf("backend %q listed twice", b)
		}
		seen[b] = struct{}{}
	}
	return nil
}
