package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuanngo/preppath/internal/config"
	"github.com/tuanngo/preppath/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the preparation workflow endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:          servePort,
		DatabaseURL:   cfg.DatabaseURL,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		JWTSecret:     cfg.JWTSecret,
		QuestionLimit: cfg.QuestionLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
