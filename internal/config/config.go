// Package config holds the slurmexec configuration, layered from
// defaults, an optional config file, and SLURMEXEC_* environment
// variables via Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const Version = "1.1.0"

// ConfigFilename is the name of the config file (without extension)
const ConfigFilename = "config"

// ConfigType is the type of config file
const ConfigType = "yaml"

// Config holds global slurmexec settings
type Config struct {
	Debug     bool   // Verbose diagnostics
	SbatchBin string // Explicit sbatch path; empty means resolve from PATH
	ScriptDir string // Base directory for generated scripts; empty means ~/slurm/<job>
}

// Global holds the singleton configuration instance
var Global Config

var loadOnce sync.Once

// InitViper initializes Viper with search paths and defaults.
// Priority (highest to lowest):
// 1. Command-line flags (handled by callers)
// 2. Environment variables (SLURMEXEC_*)
// 3. User config file (~/.config/slurmexec/config.yaml)
// 4. Home fallback (~/.slurmexec/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "slurmexec"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".slurmexec"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SLURMEXEC")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file; defaults and env vars apply.
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("sbatch_bin", "")
	viper.SetDefault("script_dir", "")
}

// LoadFromViper copies Viper values into the Global config.
func LoadFromViper() {
	Global = Config{
		Debug:     viper.GetBool("debug"),
		SbatchBin: viper.GetString("sbatch_bin"),
		ScriptDir: viper.GetString("script_dir"),
	}
}

// EnsureLoaded initializes the configuration once. Library entry points
// call this so that standalone use of slurmexec (without the CLI) still
// picks up config files and environment variables.
func EnsureLoaded() {
	loadOnce.Do(func() {
		if err := InitViper(); err == nil {
			LoadFromViper()
		}
	})
}

// ScriptDir resolves the script directory for a job name. An explicit
// configured directory wins; otherwise scripts live under ~/slurm/<job>.
func ScriptDir(jobName string) string {
	if Global.ScriptDir != "" {
		return filepath.Join(Global.ScriptDir, jobName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("slurm", jobName)
	}
	return filepath.Join(home, "slurm", jobName)
}
