package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/freestyle"
)

const defaultConfigPath = ".freestyle.yaml"

var (
	k = koanf.New(".")
	// changed holds the flags set on the command line. posflag also loads
	// flag defaults, which must not shadow namespaced config keys.
	changed = map[string]bool{}
)

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}
	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (FREESTYLE_* prefix)
	if err := k.Load(env.Provider("FREESTYLE_", ".", func(s string) string {
		// FREESTYLE_CHECK_STRICT -> check.strict
		// FREESTYLE_SOURCE -> source
		// Dashed keys cannot be set from the environment.
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "FREESTYLE_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}
	return nil
}

// buildConfig constructs the library's Config struct from koanf state.
func buildConfig() freestyle.Config {
	def := freestyle.DefaultConfig()
	config := freestyle.Config{
		SourceDir:           getStringWithFallback("source", "source", def.SourceDir),
		Origin:              getStringWithFallback("origin", "origin", def.Origin),
		RespectGitignore:    getBoolWithFallback("gitignore", "gitignore", def.RespectGitignore),
		DPI:                 getFloat64WithFallback("dpi", "dpi", def.DPI),
		FontScale:           getFloat64WithFallback("font-scale", "font-scale", def.FontScale),
		EmSize:              getFloat64WithFallback("em-size", "em-size", def.EmSize),
		CacheSize:           getIntWithFallback("cache-size", "cache-size", def.CacheSize),
		DefaultState:        getStringWithFallback("default-state", "default-state", def.DefaultState),
		InheritDefaultState: getBoolWithFallback("inherit-default-state", "inherit-default-state", def.InheritDefaultState),
		MaxIssuesPerLinter:  getIntWithFallback("max-issues-per-linter", "check.max-issues-per-linter", 0),
		MaxSameIssues:       getIntWithFallback("max-same-issues", "check.max-same-issues", 0),
		PrintIssuedLines:    getBoolWithFallback("print-lines", "check.print-lines", def.PrintIssuedLines),
		PrintLinterName:     getBoolWithFallback("print-linter-name", "check.print-linter-name", def.PrintLinterName),
		UseColors:           getBoolWithFallback("color", "color", false),
	}

	if includes := k.Strings("include"); len(includes) > 0 {
		config.Includes = includes
	} else {
		config.Includes = def.Includes
	}
	return config
}

// preferConfig reports whether configKey should win over the value stored
// under flagKey.
func preferConfig(flagKey, configKey string) bool {
	return !changed[flagKey] && flagKey != configKey && k.Exists(configKey)
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if preferConfig(flagKey, configKey) {
		return k.String(configKey)
	}
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if preferConfig(flagKey, configKey) {
		return k.Bool(configKey)
	}
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if preferConfig(flagKey, configKey) {
		return k.Int(configKey)
	}
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if preferConfig(flagKey, configKey) {
		return k.Float64(configKey)
	}
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}
