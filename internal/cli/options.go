package cli

import (
	"strings"

	"github.com/naveenkr153/spectra-sales-review/internal/config"
)

// Options collects root and subcommand flags. Flag values override the config file.
type Options struct {
	ConfigPath string
	LogLevel   string
	Pretty     bool

	// serve
	Addr        string
	SubmitURL   string
	CORSOrigins string

	// compile
	Name   string
	Out    string
	Submit bool
}

// resolve loads the config file (if any), applies flag overrides and defaults.
func resolve(o *Options, changed func(string) bool) (config.Config, error) {
	var cfg config.Config
	if o.ConfigPath != "" {
		c, err := config.Load(o.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = o.LogLevel
	}
	if changed("addr") {
		cfg.Addr = o.Addr
	}
	if changed("submit-url") {
		cfg.SubmitURL = o.SubmitURL
	}
	if changed("cors-origins") {
		cfg.CORSOrigins = splitCSV(o.CORSOrigins)
		cfg.CORSEnabled = len(cfg.CORSOrigins) > 0
	}
	return cfg.WithDefaults(), nil
}

// splitCSV splits a comma separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
