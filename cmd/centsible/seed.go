package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/model"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the default category catalog",
		Long: `Insert the built-in default categories.

Without --owner the defaults are seeded into the shared catalog that every
user can see. Seeding is idempotent: categories that already exist are
left alone.`,
		RunE: runSeed,
	}

	cmd.Flags().String("owner", "", "Seed the catalog for a specific user id instead of the shared scope")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ownerID, _ := cmd.Flags().GetString("owner")
	if ownerID == "" {
		ownerID = model.SystemOwnerID
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SeedDefaultCategories(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	scope := "shared"
	if ownerID != model.SystemOwnerID {
		scope = ownerID
	}
	slog.Info("✅ Default categories seeded", "scope", scope, "count", len(model.DefaultCatalog))

	return nil
}
