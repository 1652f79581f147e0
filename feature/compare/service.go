package compare

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"doc-reconciler/core/extract"
	"doc-reconciler/core/history"
	"doc-reconciler/core/normalize"
	"doc-reconciler/core/presence"
	"doc-reconciler/core/reconcile"
	"doc-reconciler/core/report"
	"doc-reconciler/core/storage"
	"doc-reconciler/core/tabular"
	"doc-reconciler/core/textsource"
)

// Service orchestrates comparison runs. Each run is independent: all state
// below is shared read-only collaborators, so runs may execute concurrently.
type Service struct {
	logger  *zap.Logger
	archive *storage.Archive
	db      *gorm.DB
}

// NewService creates a new compare service. archive and db are optional;
// pass nil to disable report archiving and run-history auditing.
func NewService(logger *zap.Logger, archive *storage.Archive, db *gorm.DB) *Service {
	return &Service{
		logger:  logger,
		archive: archive,
		db:      db,
	}
}

// Sources bundles one run's two inputs. MasterName carries the original
// filename so the loader can pick the right format.
type Sources struct {
	Master     io.Reader
	MasterName string
	Document   io.Reader
}

// RunKeyed performs a full keyed reconciliation run: load the tabular
// master and extract the document text concurrently, join on the composite
// key, and assemble the three report artifacts.
func (s *Service) RunKeyed(ctx context.Context, sources Sources, profile *Profile) (*KeyedOutput, error) {
	runID := uuid.NewString()
	l := s.logger.With(zap.String("run_id", runID))

	grammar, err := profile.Validate()
	if err != nil {
		return nil, &InputError{Kind: KindBadProfile, Detail: err.Error()}
	}

	// Loading the master and extracting the document have no data
	// dependency; run them concurrently and join before reconciling.
	var (
		tabularRecords []reconcile.Record
		textRecords    []reconcile.Record
		yield          extract.Yield
		masterErr      error
		textErr        error
		wg             sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		rows, err := loadMaster(sources, profile)
		if err != nil {
			masterErr = err
			return
		}
		tabularRecords = tabular.Records(rows)
	}()

	go func() {
		defer wg.Done()
		text, err := textsource.Read(sources.Document)
		if err != nil {
			textErr = err
			return
		}
		textRecords, yield = extract.New(grammar).Extract(text)
	}()

	wg.Wait()

	if masterErr != nil {
		return nil, masterErr
	}
	if textErr != nil {
		if textErr == textsource.ErrEmptyText {
			return nil, &InputError{Kind: KindEmptyText, Detail: "no text extracted from document; try uploading a text version of the file"}
		}
		return nil, textErr
	}

	l.Info("Sources loaded",
		zap.Int("tabular_records", len(tabularRecords)),
		zap.Int("text_records", len(textRecords)),
		zap.Int("blocks_seen", yield.BlocksSeen),
		zap.Int("blocks_keyed", yield.BlocksKeyed),
		zap.Int("lines_seen", yield.LinesSeen),
		zap.Int("lines_matched", yield.LinesMatched),
	)

	spec := &reconcile.Spec{
		KeyFields:     profile.KeyFields,
		CompareFields: profile.CompareFields,
		Synonyms:      profile.synonyms(),
	}
	result := reconcile.Run(spec, tabularRecords, textRecords)

	if result.Summary.DroppedTabular > 0 || result.Summary.DroppedText > 0 {
		l.Warn("Records dropped for absent key fields",
			zap.Int("tabular", result.Summary.DroppedTabular),
			zap.Int("text", result.Summary.DroppedText),
		)
	}
	for _, warning := range result.Warnings {
		l.Warn("Configuration gap", zap.String("warning", warning))
	}

	if len(tabularRecords)-result.Summary.DroppedTabular == 0 {
		return nil, &InputError{Kind: KindNoUsableRecords, Detail: "tabular source has no records with a complete key"}
	}

	l.Info("Reconciliation complete",
		zap.Int("total_keys", result.Summary.TotalKeys),
		zap.Int("matched", result.Summary.Matched),
		zap.Int("mismatched", result.Summary.Mismatched),
		zap.Int("missing_from_text", result.Summary.MissingFromText),
		zap.Int("missing_from_tabular", result.Summary.MissingFromTabular),
	)

	output := &KeyedOutput{
		RunID:     runID,
		Result:    result,
		Yield:     yield,
		Artifacts: report.Keyed(result, profile.KeyFields),
	}
	output.Archived = s.persist(ctx, l, runID, output.Artifacts, &history.Run{
		ID:                 runID,
		Mode:               "keyed",
		TotalKeys:          result.Summary.TotalKeys,
		Mismatched:         result.Summary.Mismatched,
		MissingFromText:    result.Summary.MissingFromText,
		MissingFromTabular: result.Summary.MissingFromTabular,
	})

	return output, nil
}

// RunPresence performs the fallback run: verify that each tabular record's
// selected values occur somewhere in the normalized document text.
func (s *Service) RunPresence(ctx context.Context, sources Sources, profile *Profile) (*PresenceOutput, error) {
	runID := uuid.NewString()
	l := s.logger.With(zap.String("run_id", runID))

	var (
		records   []reconcile.Record
		blob      string
		masterErr error
		textErr   error
		wg        sync.WaitGroup
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		rows, err := loadMaster(sources, profile)
		if err != nil {
			masterErr = err
			return
		}
		records = tabular.Records(rows)
	}()

	go func() {
		defer wg.Done()
		text, err := textsource.Read(sources.Document)
		if err != nil {
			textErr = err
			return
		}
		blob = normalize.Text(text)
	}()

	wg.Wait()

	if masterErr != nil {
		return nil, masterErr
	}
	if textErr != nil {
		if textErr == textsource.ErrEmptyText {
			return nil, &InputError{Kind: KindEmptyText, Detail: "no text extracted from document; try uploading a text version of the file"}
		}
		return nil, textErr
	}

	rep := presence.CheckAll(records, blob, profile.CompareFields)

	l.Info("Presence check complete",
		zap.Int("rows", len(records)),
		zap.Int("values_checked", rep.TotalChecked),
		zap.Int("rows_with_missing", len(rep.Rows)),
	)

	artifact := report.Presence(rep)
	output := &PresenceOutput{
		RunID:    runID,
		Report:   rep,
		Artifact: artifact,
	}
	output.Archived = s.persist(ctx, l, runID, []report.Artifact{artifact}, &history.Run{
		ID:         runID,
		Mode:       "presence",
		TotalKeys:  len(records),
		Mismatched: len(rep.Rows),
	})

	return output, nil
}

// persist archives artifacts and records the run when those collaborators
// are configured. Both are best-effort: failures are logged, never fatal,
// since the report itself already exists in memory.
func (s *Service) persist(ctx context.Context, l *zap.Logger, runID string, artifacts []report.Artifact, run *history.Run) []string {
	var archived []string

	if s.archive != nil {
		objects, err := s.archive.Store(ctx, runID, artifacts)
		if err != nil {
			l.Warn("Failed to archive report artifacts", zap.Error(err))
		} else {
			archived = objects
		}
	}

	if s.db != nil {
		if err := history.Record(ctx, s.db, run); err != nil {
			l.Warn("Failed to record run history", zap.Error(err))
		}
	}

	return archived
}

// loadMaster reads the tabular source, picking the loader from the file
// extension. Anything that is not an Excel workbook is treated as CSV.
func loadMaster(sources Sources, profile *Profile) ([]tabular.Row, error) {
	name := strings.ToLower(sources.MasterName)
	mapping := profile.headerMapping()

	var (
		rows []tabular.Row
		err  error
	)
	if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
		rows, err = tabular.LoadXLSX(sources.Master, mapping)
	} else {
		rows, err = tabular.LoadCSV(sources.Master, mapping)
	}
	if err != nil {
		return nil, &InputError{Kind: KindBadMaster, Detail: err.Error()}
	}
	return rows, nil
}
