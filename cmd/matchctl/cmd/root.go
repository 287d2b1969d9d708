package cmd

import (
	"fmt"
	"os"

	"vacancy-match/internal/app"
	"vacancy-match/internal/config"
	"vacancy-match/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg config.Config
	log logger.Logger

	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "matchctl",
	Short: "Inspect and operate the vacancy matching service",
	Long: `matchctl runs the vacancy matching engine against the configured
stores from a terminal.

Configuration is read from the same environment variables as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err = logger.New(cfg.Logging.Level, "console")
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print results as JSON")
}

func withContainer(fn func(c *app.Container) error) error {
	c, err := app.NewContainer(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("close container", map[string]interface{}{"error": err})
		}
	}()
	return fn(c)
}
