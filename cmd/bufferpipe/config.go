package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/jacoelho/bufferstream"
	"github.com/jacoelho/bufferstream/internal/logging"
)

type config struct {
	Root      string
	Pattern   string
	Transform string
	Separator string
	Mode      bufferstream.Mode
	Strict    bool
	LogLevel  zerolog.Level
}

type fileConfig struct {
	Root      string `toml:"root"`
	Pattern   string `toml:"pattern"`
	Transform string `toml:"transform"`
	Separator string `toml:"separator"`
	Mode      string `toml:"mode"`
	Strict    bool   `toml:"strict"`
	LogLevel  string `toml:"log_level"`
}

func defaultConfig() config {
	return config{
		Root:      ".",
		Pattern:   "**/*",
		Transform: "identity",
		Separator: "\n",
		Mode:      bufferstream.Binary,
		LogLevel:  zerolog.InfoLevel,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("root") {
		cfg.Root = strings.TrimSpace(raw.Root)
	}
	if meta.IsDefined("pattern") {
		cfg.Pattern = strings.TrimSpace(raw.Pattern)
	}
	if meta.IsDefined("transform") {
		cfg.Transform = strings.TrimSpace(raw.Transform)
	}
	if meta.IsDefined("separator") {
		cfg.Separator = raw.Separator
	}
	if meta.IsDefined("mode") {
		mode, err := parseMode(raw.Mode)
		if err != nil {
			return config{}, err
		}
		cfg.Mode = mode
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	return cfg, validateConfig(cfg)
}

func parseMode(raw string) (bufferstream.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "binary", "":
		return bufferstream.Binary, nil
	case "items":
		return bufferstream.Items, nil
	default:
		return 0, fmt.Errorf("parse mode: unknown mode %q", raw)
	}
}

func validateConfig(cfg config) error {
	if cfg.Root == "" {
		return fmt.Errorf("root is required")
	}
	if cfg.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if cfg.Transform == "" {
		return fmt.Errorf("transform is required")
	}
	return nil
}
