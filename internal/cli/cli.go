// Package cli implements civicctl, the operator tool for the complaint store.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/civicresolve/backend/internal/bootstrap"
	"github.com/civicresolve/backend/internal/config"
	"github.com/civicresolve/backend/internal/models"
	"github.com/civicresolve/backend/internal/seed"
	"github.com/civicresolve/backend/internal/service"
)

// openStore is swapped in tests.
var openStore = func(ctx context.Context) (service.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return bootstrap.OpenStore(ctx, cfg)
}

// RootCmd assembles civicctl.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "civicctl",
		Short: "Operate the CivicResolve complaint store",
		Long: `civicctl applies the schema, loads reference data and inspects the
contractor ledger of a CivicResolve deployment. It reads the same .env and
environment variables as the API server.`,
		SilenceUsage: true,
	}
	root.AddCommand(MigrateCmd())
	root.AddCommand(SeedCmd())
	root.AddCommand(ContractorsCmd())
	return root
}

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", color.New(color.FgGreen).Sprint("✓"))
			return nil
		},
	}
}

func SeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert contractors from a seed file",
		Long: `Upsert every contractor listed in the seed file. Existing points and
work counts are kept; only name and quality rating are refreshed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := seed.Load(file)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := seed.ApplyContractors(cmd.Context(), store, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s seeded %d contractors from %s\n", color.New(color.FgGreen).Sprint("✓"), n, file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed/seed.yaml", "seed file path")
	return cmd
}

func ContractorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contractors",
		Short: "Show contractors ranked by points",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			ranked, err := (&service.ContractorService{Store: store}).Ranked(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list contractors: %w", err)
			}
			if len(ranked) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No contractors found.")
				return nil
			}
			printContractors(cmd, ranked)
			return nil
		},
	}
}

func printContractors(cmd *cobra.Command, ranked []models.Contractor) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tID\tNAME\tPOINTS\tWORKS\tRATING")
	fmt.Fprintln(w, "----\t--\t----\t------\t-----\t------")
	for i, c := range ranked {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.1f\n", i+1, c.ID, c.Name, pointsLabel(c.Points), c.TotalWorks, c.QualityRating)
	}
	w.Flush()
}

func pointsLabel(points int) string {
	switch {
	case points > 0:
		return color.New(color.FgGreen).Sprint(points)
	case points < 0:
		return color.New(color.FgRed).Sprint(points)
	default:
		return fmt.Sprint(points)
	}
}

func Execute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
