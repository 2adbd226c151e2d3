// Package main provides the entry point for the interview preparation HTTP
// API server and its companion CLI commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prep_agent",
	Short: "Interview preparation API server",
	Long:  "prep_agent analyzes job descriptions, runs diagnostic memory scans, and builds personalized study roadmaps via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
