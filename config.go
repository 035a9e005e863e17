// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/xrbridge/vk"
)

// Config holds the bridge settings that are not per-call arguments.
type Config struct {
	// APIVersion is the Vulkan version CreateDefault targets.
	APIVersion vk.Version

	// Debug requests validation and debug instance extensions from the
	// abstraction layer.
	Debug bool

	// AdapterIndex is the physical device index read from the config
	// file. CreateDefault takes the index as an argument; callers pass
	// this value, as cmd/xrcheck does.
	AdapterIndex int

	// BindImageMemory makes CreateSwapchain allocate and bind device-local
	// memory for images it creates itself.
	BindImageMemory bool
}

// DefaultConfig returns the baseline configuration: Vulkan 1.0, no debug
// extensions, adapter 0, no image memory binding.
func DefaultConfig() Config {
	return Config{APIVersion: vk.APIVersion1_0}
}

// fileConfig is the on-disk TOML form of Config. Pointers distinguish an
// absent key from a zero value.
type fileConfig struct {
	APIVersion      string `toml:"api_version"`
	Debug           *bool  `toml:"debug"`
	AdapterIndex    *int   `toml:"adapter_index"`
	BindImageMemory *bool  `toml:"bind_image_memory"`
}

// ParseConfig decodes a TOML document on top of DefaultConfig.
//
//	api_version = "1.1"
//	debug = true
//	adapter_index = 0
//	bind_image_memory = false
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}
	if fc.APIVersion != "" {
		v, err := vk.ParseVersion(fc.APIVersion)
		if err != nil {
			return cfg, fmt.Errorf("%w: api_version: %w", ErrInvalidConfig, err)
		}
		cfg.APIVersion = v
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	if fc.AdapterIndex != nil {
		if *fc.AdapterIndex < 0 {
			return cfg, fmt.Errorf("%w: adapter_index %d is negative", ErrInvalidConfig, *fc.AdapterIndex)
		}
		cfg.AdapterIndex = *fc.AdapterIndex
	}
	if fc.BindImageMemory != nil {
		cfg.BindImageMemory = *fc.BindImageMemory
	}
	return cfg, nil
}

// LoadConfig reads and parses the TOML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return ParseConfig(data)
}

// WriteConfig encodes cfg as TOML. The output round-trips through
// ParseConfig.
func WriteConfig(w io.Writer, cfg Config) error {
	debug, idx, bind := cfg.Debug, cfg.AdapterIndex, cfg.BindImageMemory
	fc := fileConfig{
		APIVersion:      fmt.Sprintf("%d.%d.%d", cfg.APIVersion.Major(), cfg.APIVersion.Minor(), cfg.APIVersion.Patch()),
		Debug:           &debug,
		AdapterIndex:    &idx,
		BindImageMemory: &bind,
	}
	return toml.NewEncoder(w).Encode(fc)
}
