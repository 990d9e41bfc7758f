package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Settings is the typed view of a merged configuration.
type Settings struct {
	K       int            `yaml:"k"`
	Eps     float64        `yaml:"eps"`
	Metrics []string       `yaml:"metrics"`
	Input   InputSettings  `yaml:"input"`
	Output  OutputSettings `yaml:"output"`
	Log     LogSettings    `yaml:"log"`
}

type InputSettings struct {
	Path string `yaml:"path"`
	Run  string `yaml:"run"`
}

type OutputSettings struct {
	Format   string `yaml:"format"`
	PerQuery bool   `yaml:"per_query"`
}

type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultSettings() *Settings {
	return &Settings{
		K:       0,
		Eps:     1e-12,
		Metrics: []string{"*"},
		Output: OutputSettings{
			Format: FormatText,
		},
		Log: LogSettings{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Load merges the files at paths, decodes the result onto DefaultSettings,
// applies environment overrides and validates.
func Load(paths ...string) (*Settings, error) {
	raw, err := LoadConfig(paths...)
	if err != nil {
		return nil, err
	}

	s, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	s.applyEnvironment()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Decode overlays a raw merged mapping onto DefaultSettings. Keys absent
// from raw keep their defaults.
func Decode(raw map[string]any) (*Settings, error) {
	s := DefaultSettings()
	if len(raw) == 0 {
		return s, nil
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode merged config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode merged config: %w", err)
	}
	return s, nil
}

func (s *Settings) applyEnvironment() {
	if v := os.Getenv("NDRIFT_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.K = n
		}
	}
	if v := os.Getenv("NDRIFT_EPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Eps = f
		}
	}
	if v := os.Getenv("NDRIFT_INPUT_PATH"); v != "" {
		s.Input.Path = v
	}
	if v := os.Getenv("NDRIFT_INPUT_RUN"); v != "" {
		s.Input.Run = v
	}
	if v := os.Getenv("NDRIFT_OUTPUT_FORMAT"); v != "" {
		s.Output.Format = strings.ToLower(v)
	}
	if v := os.Getenv("NDRIFT_LOG_LEVEL"); v != "" {
		s.Log.Level = strings.ToLower(v)
	}
}

// Validate reports the first setting outside its allowed range.
func (s *Settings) Validate() error {
	if s.K < 0 {
		return fmt.Errorf("%w: k must be >= 0, got %d", ErrInvalidSettings, s.K)
	}
	if s.Eps <= 0 {
		return fmt.Errorf("%w: eps must be > 0, got %g", ErrInvalidSettings, s.Eps)
	}
	if !slices.Contains([]string{FormatText, FormatJSON, FormatYAML}, s.Output.Format) {
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidSettings, s.Output.Format)
	}
	if !slices.Contains([]string{FormatText, FormatJSON}, s.Log.Format) {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidSettings, s.Log.Format)
	}
	if _, err := ParseLevel(s.Log.Level); err != nil {
		return err
	}
	return nil
}
