package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/axellelanca/linkpool/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// RootCmd is the base command for the CLI application
// All other commands (create, run-server, stats, migrate) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "linkpool",
	Short: "A URL shortener that spreads visits over several destinations",
	Long: `linkpool maps short codes to one or more destination URLs.
Each visit redirects to one destination chosen at random and counts
the visit on both the link and the chosen destination.`,
}

// Execute is the main entry point for the Cobra application
// It is called from 'main.go' and handles command execution and error handling
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Load configuration before any command executes.
	// Subcommands register themselves via their own init() functions to avoid import cycles.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration into Cfg
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
}
