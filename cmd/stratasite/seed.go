package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/stratasite/internal/app/bootstrap"
	"github.com/dalemusser/stratasite/internal/app/system/indexes"
	"github.com/dalemusser/stratasite/internal/app/system/seeding"
	"github.com/dalemusser/stratasite/internal/app/system/validators"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	seedFile      string
	seedOverwrite bool
	seedVerbose   bool
	seedTimeout   time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed --file fixture.yaml",
	Short: "Apply a YAML fixture of categories and pages",
	Long: `Loads a YAML fixture and writes its categories and pages to the
configured database. Existing categories are skipped. Existing pages are kept
unless --overwrite is given.

Connection settings come from the same config file and STRATASITE_*
environment variables the server uses.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture to apply (required)")
	seedCmd.Flags().BoolVar(&seedOverwrite, "overwrite", false, "replace pages that already exist")
	seedCmd.Flags().BoolVarP(&seedVerbose, "verbose", "v", false, "debug logging")
	seedCmd.Flags().DurationVar(&seedTimeout, "timeout", 2*time.Minute, "overall time limit")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	zcfg := zap.NewProductionConfig()
	if seedVerbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	fx, err := seeding.LoadFixture(seedFile)
	if err != nil {
		return err
	}

	// Our flags are already parsed; keep them away from the WAFFLE loader.
	os.Args = os.Args[:1]
	_, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), seedTimeout)
	defer cancel()

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, wafflemongo.DefaultPoolConfig())
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(appCfg.MongoDatabase)

	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	res, err := seeding.ApplyFixture(ctx, db, fx, seedOverwrite, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "categories: %d  pages: %d  skipped: %d\n", res.Categories, res.Pages, res.Skipped)
	return nil
}
