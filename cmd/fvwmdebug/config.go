package main

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/fvwmdebug/internal/logging"
	"github.com/danmuck/fvwmdebug/internal/protocol"
	"github.com/danmuck/fvwmdebug/internal/protocol/session"
	"github.com/rs/zerolog"
)

const envConfig = "FVWMDEBUG_CONFIG"

type fileConfig struct {
	WordSize        int    `toml:"word_size"`
	ByteOrder       string `toml:"byte_order"`
	MaxPayloadWords uint64 `toml:"max_payload_words"`
	HexPrefix       bool   `toml:"hex_prefix"`
	LogLevel        string `toml:"log_level"`
	Tee             struct {
		Enabled bool     `toml:"enabled"`
		Command string   `toml:"command"`
		Args    []string `toml:"args"`
	} `toml:"tee"`
	Capture struct {
		Path string `toml:"path"`
	} `toml:"capture"`
}

type moduleConfig struct {
	Session  session.Config
	LogLevel zerolog.Level
	// LogLevelSet is false when the file left the level to the defaults.
	LogLevelSet bool
}

func defaultModuleConfig() moduleConfig {
	return moduleConfig{Session: session.DefaultConfig(), LogLevel: zerolog.InfoLevel}
}

func loadConfig(path string) (moduleConfig, error) {
	cfg := defaultModuleConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return moduleConfig{}, fmt.Errorf("load fvwmdebug config: %w", err)
	}

	if meta.IsDefined("word_size") {
		cfg.Session.Layout.Size = raw.WordSize
	}
	if meta.IsDefined("byte_order") {
		switch strings.ToLower(strings.TrimSpace(raw.ByteOrder)) {
		case "little", "le":
			cfg.Session.Layout.Order = binary.LittleEndian
		case "big", "be":
			cfg.Session.Layout.Order = binary.BigEndian
		case "native", "":
			cfg.Session.Layout.Order = protocol.NativeLayout().Order
		default:
			return moduleConfig{}, fmt.Errorf("parse byte_order: unknown order %q", raw.ByteOrder)
		}
	}
	if err := cfg.Session.Layout.Validate(); err != nil {
		return moduleConfig{}, fmt.Errorf("parse word_size: %w", err)
	}

	if meta.IsDefined("max_payload_words") {
		cfg.Session.Limits.MaxPayloadWords = raw.MaxPayloadWords
	}
	if err := cfg.Session.Limits.Validate(); err != nil {
		return moduleConfig{}, fmt.Errorf("parse max_payload_words: %w", err)
	}
	if meta.IsDefined("hex_prefix") {
		cfg.Session.Present.HexPrefix = raw.HexPrefix
	}
	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return moduleConfig{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
		cfg.LogLevelSet = true
	}

	if meta.IsDefined("tee", "enabled") {
		cfg.Session.Tee.Enabled = raw.Tee.Enabled
	}
	if meta.IsDefined("tee", "command") {
		cfg.Session.Tee.Command = strings.TrimSpace(raw.Tee.Command)
	}
	if meta.IsDefined("tee", "args") {
		cfg.Session.Tee.Args = raw.Tee.Args
	}
	if meta.IsDefined("capture", "path") {
		cfg.Session.CapturePath = strings.TrimSpace(raw.Capture.Path)
	}

	return cfg, nil
}
