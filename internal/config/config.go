package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Theme holds the lipgloss colors used by the terminal renderer.
type Theme struct {
	Label  string `toml:"label"`
	Accent string `toml:"accent"`
	Error  string `toml:"error"`
	Stderr string `toml:"stderr"`
	Dim    string `toml:"dim"`
}

// Config is the only persisted config file schema.
type Config struct {
	Token               string `toml:"token"`
	Width               int    `toml:"width" validate:"gte=0,lte=1000"`
	MaxOutputLines      int    `toml:"max_output_lines" validate:"gte=0"`
	Plain               bool   `toml:"plain"`
	Addr                string `toml:"addr" validate:"required"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds" validate:"gte=1,lte=3600"`
	MaxDocumentBytes    int64  `toml:"max_document_bytes" validate:"gte=1"`
	LogLevel            string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Theme               Theme  `toml:"theme"`
	Source              string `toml:"-"`
}

func Default() Config {
	return Config{
		Width:               0,
		MaxOutputLines:      200,
		Addr:                ":8088",
		FetchTimeoutSeconds: 30,
		MaxDocumentBytes:    64 << 20,
		LogLevel:            "info",
		Theme: Theme{
			Label:  "#7D56F4",
			Accent: "#00AA00",
			Error:  "#CC0000",
			Stderr: "#D78700",
			Dim:    "#808080",
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nbview", "config.toml")
}

// Load reads the TOML file at path (or DefaultPath), then applies env overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("NBVIEW_TOKEN")); env != "" {
		cfg.Token = env
	}
	if env := strings.TrimSpace(os.Getenv("NBVIEW_ADDR")); env != "" {
		cfg.Addr = env
	}
	return cfg
}

var validate = validator.New()

// Validate checks value ranges after file, env and -c overrides were merged.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
