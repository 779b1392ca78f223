package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inventory/internal/app"
	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/repositories"
	"inventory/internal/seed"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "inventory",
	Short:        "Inventory catalog: list, search and manage products",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo products and print the catalog",
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json, toml or env)")
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	srv, err := app.Bootstrap(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	if err := srv.ConsumeEvents(); err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	return srv.Run(cfg.AppPort, quit)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("seeding needs a persistent database, DB_DRIVER is %q", cfg.DBDriver)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	return seed.Run(cmd.Context(), repositories.NewGORMProductRepository(db))
}
