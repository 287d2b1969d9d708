package cmd

import (
	"context"
	"fmt"
	"time"

	"vacancy-match/internal/database/migration"
	"vacancy-match/internal/database/postgres"
	"vacancy-match/internal/infrastructure/cache"
	"vacancy-match/internal/infrastructure/search"
	"vacancy-match/internal/repository"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		db, err := postgres.OpenSQL(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migration.Default().Run(ctx, db.SQLDB()); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil
	},
}

var flushCacheCmd = &cobra.Command{
	Use:   "flush-cache",
	Short: "Drop cached category lookups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := cache.NewRedis(cfg.Redis, log)
		defer r.Close()

		ctx := context.Background()
		if err := r.Ping(ctx); err != nil {
			return err
		}
		n, err := r.DeleteByPattern(ctx, repository.CategoryCachePattern)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d cached entries\n", n)
		return nil
	},
}

var initIndexCmd = &cobra.Command{
	Use:   "init-index",
	Short: "Create the Elasticsearch vacancy index if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		es, err := search.NewClient(cfg.Elasticsearch)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := search.Ping(ctx, es); err != nil {
			return err
		}
		created, err := search.EnsureIndex(ctx, es, cfg.Elasticsearch.Index)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created index %s\n", cfg.Elasticsearch.Index)
			return nil
		}
		fmt.Printf("Index %s already exists\n", cfg.Elasticsearch.Index)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, flushCacheCmd, initIndexCmd)
}
