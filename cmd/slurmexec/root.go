package main

import (
	"os"

	"github.com/chaseking/slurmexec/internal/config"
	"github.com/chaseking/slurmexec/internal/console"
	"github.com/spf13/cobra"
)

var debugMode bool

var rootCmd = &cobra.Command{
	Use:           "slurmexec",
	Short:         "Inspect the slurm environment and preview submit scripts generated by slurmexec.",
	Version:       config.Version,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Step 1: Initialize Viper (config file, SLURMEXEC_* env vars)
		if err := config.InitViper(); err != nil {
			console.PrintDebug("Error reading config file: %v", err)
		}

		// Step 2: Load values from Viper into Global config
		config.LoadFromViper()

		// Step 3: Apply command-line flags (highest priority)
		if debugMode {
			config.Global.Debug = true
		}
		if config.Global.Debug {
			console.DebugMode = true
			console.PrintDebug("Debug mode enabled")
			console.PrintDebug("slurmexec version: %s", console.StyleInfo(config.Version))
			if config.Global.SbatchBin != "" {
				console.PrintDebug("sbatch binary: %s", console.StylePath(config.Global.SbatchBin))
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		console.PrintError("%v", err)
		os.Exit(1)
	}
}
