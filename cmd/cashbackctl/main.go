package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/veeraceo-pixel/cashback/internal/app/bootstrap"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

var (
	// Version is set via ldflags during build.
	Version = "dev"

	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "cashbackctl",
	Short:   "Operate the cashback reconciler",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/default.yaml", "path to the YAML config file")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(syncCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		runtime, err := bootstrap.NewRuntime(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		if err := runtime.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [network]",
	Short: "Poll a network's transaction API once and reconcile the results",
	Long: `Poll the listing API of one affiliate network and reconcile every
returned transaction. Without an argument every network enabled in the
config is polled. Intended to be run from cron.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var kinds []domain.NetworkKind
		if len(args) == 1 {
			kind, err := domain.ParseNetworkKind(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			kinds = append(kinds, kind)
		}
		runtime, err := bootstrap.NewRuntime(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		reports, err := runtime.RunSyncOnce(cmd.Context(), kinds)
		for _, r := range reports {
			if r.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped, another sync holds the lock\n", r.Network)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: fetched=%d processed=%d failed=%d\n", r.Network, r.Fetched, r.Processed, r.Failed)
		}
		return err
	},
}
