package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/app"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/config"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/spf13/cobra"
)

func main() {
	utils.InitLogger(config.AppName + "-admin")
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property-admin",
		Short: "Operational commands for the property service",
	}
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newSeedCommand())
	return cmd
}

func newMigrateCommand() *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the database schema",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), repositories.Schema())
				return err
			}
			a, err := openApp(config.StoreBackendPostgres)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := repositories.ApplySchema(cmd.Context(), a.DB); err != nil {
				return err
			}
			utils.Logger.Info("Schema applied.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the DDL instead of applying it")
	return cmd
}

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "scan",
		Short:        "Run the overdue payment and contract expiry sweep once",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("")
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Scan.RunScan(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "seed",
		Short:        "Load the demo buildings, tenants and providers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp("")
			if err != nil {
				return err
			}
			defer a.Close()
			a.Config.LDFlag_SeedDbWithTestData = true
			return a.Seed(cmd.Context())
		},
	}
}

// openApp loads config and connects, optionally forcing a store backend.
func openApp(backend string) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.StoreBackend = backend
	}
	cfg.ApplySchemaOnStart = false
	return app.NewApp(cfg)
}
