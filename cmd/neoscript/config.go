package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lunfardo314/neoscript/builder"
	"github.com/spf13/cobra"
)

// Config is read from a TOML file. Command line flags override it
type Config struct {
	// scripts are decoded and verified strictly
	Strict bool `toml:"strict"`
	// long branch offsets are emitted minimally encoded, as legacy tools did
	UnpaddedBranchOffsets bool `toml:"unpadded_branch_offsets"`
	Debug                 bool `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{Strict: true}
}

// LoadConfig reads config file over the defaults. Empty path means defaults
func LoadConfig(path string) (Config, error) {
	ret := DefaultConfig()
	if path == "" {
		return ret, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ret, fmt.Errorf("cannot read %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), &ret)
	if err != nil {
		return ret, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return ret, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return ret, nil
}

const (
	flagConfig   = "config"
	flagStrict   = "strict"
	flagUnpadded = "unpadded"
	flagDebug    = "debug"
)

func withConfigFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(flagConfig, "", "path to TOML config file")
	cmd.PersistentFlags().Bool(flagStrict, true, "decode and verify scripts strictly")
	cmd.PersistentFlags().Bool(flagUnpadded, false, "emit long branch offsets without padding to 4 bytes")
	cmd.PersistentFlags().Bool(flagDebug, false, "debug logging")
}

// configFromCommand loads config file and applies flags set explicitly
func configFromCommand(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()
	path, err := flags.GetString(flagConfig)
	if err != nil {
		return Config{}, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	for name, dst := range map[string]*bool{
		flagStrict:   &cfg.Strict,
		flagUnpadded: &cfg.UnpaddedBranchOffsets,
		flagDebug:    &cfg.Debug,
	} {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (c Config) builderOptions() []builder.Option {
	if c.UnpaddedBranchOffsets {
		return []builder.Option{builder.WithUnpaddedBranchOffsets()}
	}
	return nil
}
