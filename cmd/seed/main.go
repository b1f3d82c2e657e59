// Command seed prepares a papalote database: it applies the schema and
// upserts the sample artisan catalogue.
package main

import (
	"fmt"
	"os"

	"papalote/internal/config"
	"papalote/internal/database"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		schemaOnly bool
		checkOnly  bool
	)

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Apply the schema and load sample products",
		Long:          `Connects with the DB_* environment variables, creates the tables if needed, and upserts the sample artisan catalogue.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, schemaOnly, checkOnly)
		},
	}

	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "apply the schema without loading products")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "only verify the database connection")

	return cmd
}

func run(cmd *cobra.Command, schemaOnly, checkOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := cmd.Context()

	var opts []database.PoolOption
	if !checkOnly {
		opts = append(opts, database.WithSchema())
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if checkOnly {
		var dbName string
		if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
			return fmt.Errorf("failed to query current database: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully connected to database: %s\n", dbName)
		return nil
	}

	if schemaOnly {
		return nil
	}

	products := database.SampleProducts()
	if err := database.SeedProducts(ctx, pool, products, logger); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", len(products))
	return nil
}
