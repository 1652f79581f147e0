package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"doc-reconciler/core/config"
	"doc-reconciler/core/history"
	"doc-reconciler/core/logger"
	"doc-reconciler/core/report"
	"doc-reconciler/core/storage"
	"doc-reconciler/feature/compare"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Flags for the reconcile command
	masterPath   string
	documentPath string
	profilePath  string
	outDir       string
	asWorkbook   bool
)

// reconcileCmd performs one keyed reconciliation run from the command line.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a tabular master against extracted document text",
	Long: `Reconcile joins the master spreadsheet and the document text on the
profile's composite key and reports field mismatches plus records missing
from either side.

Examples:
  # CSV artifacts into ./out
  doc-reconciler reconcile --master results.xlsx --document results.txt --profile marksheet.yaml --out out

  # Single multi-sheet workbook instead of CSVs
  doc-reconciler reconcile --master results.xlsx --document results.txt --profile marksheet.yaml --out out --workbook`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&masterPath, "master", "", "Path to the tabular master file (.xlsx or .csv)")
	reconcileCmd.Flags().StringVar(&documentPath, "document", "", "Path to the extracted document text (.txt)")
	reconcileCmd.Flags().StringVar(&profilePath, "profile", "", "Path to the reconciliation profile (.yaml)")
	reconcileCmd.Flags().StringVar(&outDir, "out", ".", "Directory to write report artifacts into")
	reconcileCmd.Flags().BoolVar(&asWorkbook, "workbook", false, "Write one .xlsx workbook instead of CSV files")
	_ = reconcileCmd.MarkFlagRequired("master")
	_ = reconcileCmd.MarkFlagRequired("document")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
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

	profile, err := resolveProfile(cfg.Server.Profile)
	if err != nil {
		return err
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

	output, err := service.RunKeyed(ctx, *sources, profile)
	if err != nil {
		return err
	}

	l.Info("Reconciliation report",
		zap.Int("total_keys", output.Result.Summary.TotalKeys),
		zap.Int("matched", output.Result.Summary.Matched),
		zap.Int("mismatched", output.Result.Summary.Mismatched),
		zap.Int("missing_from_text", output.Result.Summary.MissingFromText),
		zap.Int("missing_from_tabular", output.Result.Summary.MissingFromTabular),
	)

	return writeArtifacts(l, output.Artifacts, "report-"+output.RunID)
}

// resolveProfile loads the profile from --profile, falling back to the
// configured default path.
func resolveProfile(defaultPath string) (*compare.Profile, error) {
	path := profilePath
	if path == "" {
		path = defaultPath
	}
	if path == "" {
		return nil, fmt.Errorf("no profile given; pass --profile or set SERVER_PROFILE")
	}
	return compare.LoadProfile(path)
}

// buildService wires the optional archive and history collaborators.
func buildService(cfg *config.Config, l *zap.Logger) (*compare.Service, error) {
	var archive *storage.Archive
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to report archive: %w", err)
		}
		archive = storage.NewArchive(client, cfg.Storage.Bucket)
	}

	var db *gorm.DB
	if cfg.History.Enabled {
		conn, err := history.Connect(cfg.History)
		if err != nil {
			l.Warn("Optional history database connection failed", zap.Error(err))
		} else if err := history.Migrate(conn); err != nil {
			l.Warn("Failed to migrate history schema", zap.Error(err))
		} else {
			db = conn
		}
	}

	return compare.NewService(l, archive, db), nil
}

// openSources opens the two input files for a run.
func openSources() (*compare.Sources, func(), error) {
	master, err := os.Open(masterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open master file: %w", err)
	}
	document, err := os.Open(documentPath)
	if err != nil {
		master.Close()
		return nil, nil, fmt.Errorf("failed to open document file: %w", err)
	}
	cleanup := func() {
		master.Close()
		document.Close()
	}
	return &compare.Sources{
		Master:     master,
		MasterName: filepath.Base(masterPath),
		Document:   document,
	}, cleanup, nil
}

// writeArtifacts serializes artifacts into the output directory, either one
// CSV per collection or a single workbook.
func writeArtifacts(l *zap.Logger, artifacts []report.Artifact, workbookName string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if asWorkbook {
		path := filepath.Join(outDir, workbookName+".xlsx")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create workbook file: %w", err)
		}
		defer f.Close()
		if err := report.WriteWorkbook(f, artifacts); err != nil {
			return err
		}
		l.Info("Report written", zap.String("path", path))
		return nil
	}

	for _, artifact := range artifacts {
		path := filepath.Join(outDir, artifact.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := report.WriteCSV(f, artifact); err != nil {
			f.Close()
			return err
		}
		f.Close()
		l.Info("Report written", zap.String("path", path), zap.Int("rows", len(artifact.Rows)))
	}
	return nil
}
