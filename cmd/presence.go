package cmd

import (
	"context"
	"fmt"

	"doc-reconciler/core/config"
	"doc-reconciler/core/logger"
	"doc-reconciler/core/normalize"
	"doc-reconciler/core/report"
	"doc-reconciler/feature/compare"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var presenceColumns []string

// presenceCmd performs one fallback presence run from the command line.
var presenceCmd = &cobra.Command{
	Use:   "presence",
	Short: "Check that each master row's values appear in the document text",
	Long: `Presence is the degraded fallback mode for document families without a
configured extraction grammar. It only verifies that each row's values occur
somewhere in the document text as literal substrings; it cannot detect
records present only on the document side.

Examples:
  doc-reconciler presence --master results.xlsx --document results.txt
  doc-reconciler presence --master results.xlsx --document results.txt --columns "NAME,ROLL NO"`,
	RunE: runPresence,
}

func init() {
	presenceCmd.Flags().StringVar(&masterPath, "master", "", "Path to the tabular master file (.xlsx or .csv)")
	presenceCmd.Flags().StringVar(&documentPath, "document", "", "Path to the extracted document text (.txt)")
	presenceCmd.Flags().StringVar(&profilePath, "profile", "", "Path to the reconciliation profile (.yaml, optional)")
	presenceCmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the mismatch report into")
	presenceCmd.Flags().StringSliceVar(&presenceColumns, "columns", nil, "Columns to check (default: all)")
	_ = presenceCmd.MarkFlagRequired("master")
	_ = presenceCmd.MarkFlagRequired("document")

	RootCmd.AddCommand(presenceCmd)
}

func runPresence(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	// The profile is optional here; it only contributes header mapping and
	// a default column selection.
	profile := &compare.Profile{}
	if path := profilePath; path != "" {
		profile, err = compare.LoadProfile(path)
		if err != nil {
			return err
		}
	} else if cfg.Server.Profile != "" {
		profile, err = compare.LoadProfile(cfg.Server.Profile)
		if err != nil {
			return err
		}
	}
	if len(presenceColumns) > 0 {
		profile.CompareFields = make([]string, len(presenceColumns))
		for i, col := range presenceColumns {
			profile.CompareFields[i] = normalize.Header(col)
		}
	}

	service, err := buildService(cfg, l)
	if err != nil {
		return err
	}

	sources, cleanup, err := openSources()
	if err != nil {
		return err
	}
	defer cleanup()

	output, err := service.RunPresence(ctx, *sources, profile)
	if err != nil {
		return err
	}

	if output.Report.AllFound() {
		l.Info("All selected values found in the document text",
			zap.Int("values_checked", output.Report.TotalChecked))
		return nil
	}

	l.Warn("Rows with missing or mismatched data",
		zap.Int("rows", len(output.Report.Rows)),
		zap.Int("values_checked", output.Report.TotalChecked),
	)
	return writeArtifacts(l, []report.Artifact{output.Artifact}, "report-"+output.RunID)
}
