package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/streetfamily/roster/pkg/config"
	"github.com/streetfamily/roster/pkg/models"
	"github.com/streetfamily/roster/pkg/pricing"
	"github.com/streetfamily/roster/pkg/roster"
	"github.com/streetfamily/roster/pkg/storage"
	"github.com/streetfamily/roster/pkg/workbook"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "roster-cli",
	Short: "Street Family roster command-line interface",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <roster_file>",
	Short: "Print payment statistics for a roster spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(cmd)
		if err != nil {
			return err
		}
		if err := loadFile(store, args[0]); err != nil {
			return err
		}

		stats := store.Stats()
		fmt.Printf("Total:    %d\n", stats.Total)
		fmt.Printf("Actifs:   %d\n", stats.Active)
		fmt.Printf("Payés:    %d\n", stats.Paid)
		fmt.Printf("Partiels: %d\n", stats.Partial)
		fmt.Printf("Impayés:  %d\n", stats.Unpaid)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <roster_file>",
	Short: "List derived student records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(cmd)
		if err != nil {
			return err
		}
		if err := loadFile(store, args[0]); err != nil {
			return err
		}

		statusFilter, _ := cmd.Flags().GetString("status")
		inactive, _ := cmd.Flags().GetBool("inactive")

		for _, st := range store.All() {
			if !inactive && !st.Active {
				continue
			}
			if statusFilter != "" && st.Status != statusByName(statusFilter) {
				continue
			}
			fmt.Printf("%-4d %-30s %-14s %8.2f € restant | %s\n",
				st.ID, st.Name, st.Status, st.Remaining, st.PricingCheck.Message)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <roster_file>",
	Short: "Re-export a roster spreadsheet with derived columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(cmd)
		if err != nil {
			return err
		}
		if err := loadFile(store, args[0]); err != nil {
			return err
		}

		opts := roster.ExportOptions{}
		opts.FormatPhones, _ = cmd.Flags().GetBool("phones")
		opts.StatusColumn, _ = cmd.Flags().GetBool("status")
		opts.BalanceColumn, _ = cmd.Flags().GetBool("balance")

		data, err := workbook.Encode(store.ExportSnapshot(opts))
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		outPath := filepath.Join(outDir, workbook.ExportFilename(time.Now()))
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("exported %s\n", outPath)
		return nil
	},
}

var tarifsCmd = &cobra.Command{
	Use:   "tarifs",
	Short: "Print the tariff grid",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := buildStore(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %8s %8s %8s %8s %8s %8s %8s %8s\n",
			"Heures", "An", "Sem", "An-10", "Sem-10", "An-15", "Sem-15", "An-Fam", "Sem-Fam")
		for _, r := range store.Tariffs().Rates {
			fmt.Printf("%-6s %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f %8.2f\n",
				r.Hours, r.Year, r.Semester, r.Year10, r.Semester10,
				r.Year15, r.Semester15, r.YearFam, r.SemesterFam)
		}
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <roster_file> <id>",
	Short: "Dump one derived record with its parse details",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(cmd)
		if err != nil {
			return err
		}
		if err := loadFile(store, args[0]); err != nil {
			return err
		}

		var id int
		if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		st := store.Get(id)
		if st == nil {
			return fmt.Errorf("no student with id %d", id)
		}
		pp.Println(st)
		return nil
	},
}

func buildStore(cmd *cobra.Command) (*roster.Store, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "roster-cli"})

	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	tariffs := pricing.Default()
	if cfg.Tariffs != "" {
		tariffs, err = pricing.FromFile(cfg.Tariffs)
		if err != nil {
			return nil, err
		}
	}

	// One-shot runs never touch the data dir.
	return roster.NewStore(roster.NewMapper(tariffs), storage.NewMemory(), logger), nil
}

func loadFile(store *roster.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	rows, err := workbook.Decode(data, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to decode file: %w", err)
	}
	store.Load(rows)
	return nil
}

func statusByName(name string) string {
	switch name {
	case "paid":
		return models.StatusPaid
	case "partial":
		return models.StatusPartial
	case "unpaid":
		return models.StatusUnpaid
	case "na":
		return models.StatusNA
	default:
		return name
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")

	listCmd.Flags().String("status", "", "Filter by status (paid, partial, unpaid, na)")
	listCmd.Flags().Bool("inactive", false, "Include inactive students")

	exportCmd.Flags().Bool("phones", false, "Normalize phone columns before export")
	exportCmd.Flags().Bool("status", false, "Append the computed status column")
	exportCmd.Flags().Bool("balance", false, "Append the remaining balance column")
	exportCmd.Flags().String("out", ".", "Output directory")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tarifsCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
