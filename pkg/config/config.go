/*
Package config manages the TOML config for searchfield.
*/
package config

import (
	"path/filepath"
	"time"

	"github.com/bastiangx/searchfield/internal/utils"
	"github.com/bastiangx/searchfield/pkg/suggest"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig mirrors suggest.Options.
type EngineConfig struct {
	MaxResults                     int    `toml:"max_results"`
	MinCharacters                  int    `toml:"min_characters"`
	TypingStoppedDelayMs           int    `toml:"typing_stopped_delay_ms"`
	Comparison                     string `toml:"comparison"`
	InlineMode                     bool   `toml:"inline_mode"`
	StartFilteringAfter            string `toml:"start_filtering_after"`
	StartSuggestingImmediately     bool   `toml:"start_suggesting_immediately"`
	ForceNoFiltering               bool   `toml:"force_no_filtering"`
	StartVisible                   bool   `toml:"start_visible"`
	StartVisibleWithoutInteraction bool   `toml:"start_visible_without_interaction"`
}

// ServerConfig has IPC server limits.
type ServerConfig struct {
	MaxCandidates int `toml:"max_candidates"`
	MaxTextLength int `toml:"max_text_length"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	Highlight    bool `toml:"highlight"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxResults:           0,
			MinCharacters:        0,
			TypingStoppedDelayMs: int(suggest.DefaultTypingStoppedDelay / time.Millisecond),
			Comparison:           suggest.CaseInsensitive.String(),
		},
		Server: ServerConfig{
			MaxCandidates: 100000,
			MaxTextLength: 256,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			Highlight:    true,
		},
	}
}

// Options converts the engine section into engine options.
func (c *Config) Options() suggest.Options {
	e := c.Engine
	cmp, ok := suggest.ParseComparison(e.Comparison)
	if !ok {
		log.Warnf("Unknown comparison %q, using %s", e.Comparison, cmp)
	}
	mode := suggest.Standard
	if e.InlineMode {
		mode = suggest.Inline
	}
	return suggest.Options{
		MaxResults:                     e.MaxResults,
		MinCharacters:                  e.MinCharacters,
		TypingStoppedDelay:             time.Duration(e.TypingStoppedDelayMs) * time.Millisecond,
		Comparison:                     cmp,
		Mode:                           mode,
		StartFilteringAfter:            e.StartFilteringAfter,
		StartSuggestingImmediately:     e.StartSuggestingImmediately,
		ForceNoFiltering:               e.ForceNoFiltering,
		StartVisible:                   e.StartVisible,
		StartVisibleWithoutInteraction: e.StartVisibleWithoutInteraction,
	}
}

// DefaultConfigPath returns the default path for config.toml
func DefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.ConfigPath(FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/searchfield/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Missing keys keep their defaults and a
// file that fails typed decoding is recovered section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}
	if section, ok := utils.ExtractSection(raw, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		engine.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "min_characters"); ok {
		engine.MinCharacters = val
	}
	if val, ok := utils.ExtractInt64(data, "typing_stopped_delay_ms"); ok {
		engine.TypingStoppedDelayMs = val
	}
	if val, ok := utils.ExtractString(data, "comparison"); ok {
		engine.Comparison = val
	}
	if val, ok := utils.ExtractBool(data, "inline_mode"); ok {
		engine.InlineMode = val
	}
	if val, ok := utils.ExtractString(data, "start_filtering_after"); ok {
		engine.StartFilteringAfter = val
	}
	if val, ok := utils.ExtractBool(data, "start_suggesting_immediately"); ok {
		engine.StartSuggestingImmediately = val
	}
	if val, ok := utils.ExtractBool(data, "force_no_filtering"); ok {
		engine.ForceNoFiltering = val
	}
	if val, ok := utils.ExtractBool(data, "start_visible"); ok {
		engine.StartVisible = val
	}
	if val, ok := utils.ExtractBool(data, "start_visible_without_interaction"); ok {
		engine.StartVisibleWithoutInteraction = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		server.MaxCandidates = val
	}
	if val, ok := utils.ExtractInt64(data, "max_text_length"); ok {
		server.MaxTextLength = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "highlight"); ok {
		cli.Highlight = val
	}
}

// ActiveConfigPath returns the absolute path of loaded config file
func ActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := DefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update applies new engine options and saves to file
func (c *Config) Update(configPath string, opts suggest.Options) error {
	c.Engine = EngineConfig{
		MaxResults:                     opts.MaxResults,
		MinCharacters:                  opts.MinCharacters,
		TypingStoppedDelayMs:           int(opts.TypingStoppedDelay / time.Millisecond),
		Comparison:                     opts.Comparison.String(),
		InlineMode:                     opts.Mode == suggest.Inline,
		StartFilteringAfter:            opts.StartFilteringAfter,
		StartSuggestingImmediately:     opts.StartSuggestingImmediately,
		ForceNoFiltering:               opts.ForceNoFiltering,
		StartVisible:                   opts.StartVisible,
		StartVisibleWithoutInteraction: opts.StartVisibleWithoutInteraction,
	}
	return SaveConfig(c, configPath)
}
