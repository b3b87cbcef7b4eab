package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "token":
			cfg.Token = val
		case "addr":
			cfg.Addr = val
		case "log_level", "log-level":
			cfg.LogLevel = val
		case "plain":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Plain = b
			}
		case "width":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				cfg.Width = n
			}
		case "max_output_lines", "max-output-lines":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				cfg.MaxOutputLines = n
			}
		case "fetch_timeout_seconds", "fetch-timeout":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.FetchTimeoutSeconds = n
			}
		case "max_document_bytes":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
				cfg.MaxDocumentBytes = n
			}
		case "theme.label":
			cfg.Theme.Label = val
		case "theme.accent":
			cfg.Theme.Accent = val
		case "theme.error":
			cfg.Theme.Error = val
		case "theme.stderr":
			cfg.Theme.Stderr = val
		case "theme.dim":
			cfg.Theme.Dim = val
		}
	}
	return cfg
}
