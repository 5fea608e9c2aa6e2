// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// cliConfig holds objpathctl's runtime defaults: whether a walker
// suppresses dead-ends instead of erroring, and which accessor
// discovery mode to use when a path descends into a Go struct decoded
// from YAML (structs never appear from a plain YAML decode, but a
// future source could feed one in, so the flag is real, not vestigial).
type cliConfig struct {
	Suppress bool   `koanf:"suppress"`
	Lenient  bool   `koanf:"lenient"`
	Output   string `koanf:"output"`
}

var configDefaults = map[string]any{
	"suppress": false,
	"lenient":  false,
	"output":   "yaml",
}

// loadConfig layers confmap's built-in defaults with whatever the
// command's own flag set was given on the command line, the same
// default-then-override composition the corpus's control-plane repo
// uses for its own koanf setup (confmap.Provider seeding defaults,
// posflag.Provider layering CLI overrides on top).
func loadConfig(flags *pflag.FlagSet) (*cliConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(configDefaults, "."), nil); err != nil {
		return nil, err
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, err
		}
	}

	cfg := &cliConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
