package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/vendorwatch/vendorwatch/internal/ai"
	"github.com/vendorwatch/vendorwatch/internal/models"
	"github.com/vendorwatch/vendorwatch/internal/queue"
)

const maxErrorLen = 500

// SupplierStore is the slice of supplier persistence the worker needs.
// Lookups are by id alone: the job payload's organisation id came from an
// already-scoped enqueue, and the worker must notice a supplier deleted
// between enqueue and claim.
type SupplierStore interface {
	GetForAnalysis(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkComplete(ctx context.Context, id uuid.UUID, score float64, analysis models.AIAnalysis) error
	MarkError(ctx context.Context, id uuid.UUID, message string) error
}

// AnalysisWorker drives one enrichment cycle:
// pending → processing → complete|error.
//
// Completions are not fenced against newer cycles: a superseding update
// re-enqueues rather than cancelling, so a stale job that finishes late can
// overwrite a fresher result. Last writer wins at the storage layer.
type AnalysisWorker struct {
	store    SupplierStore
	analyzer ai.Analyzer
}

func NewAnalysisWorker(store SupplierStore, analyzer ai.Analyzer) *AnalysisWorker {
	return &AnalysisWorker{store: store, analyzer: analyzer}
}

func (w *AnalysisWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.SupplierAnalyzePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	supplierID, err := uuid.Parse(payload.SupplierID)
	if err != nil {
		return fmt.Errorf("parse supplier ID: %w", err)
	}

	if err := w.store.MarkProcessing(ctx, supplierID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			slog.Info("supplier gone before analysis started", "supplier_id", supplierID)
			return nil
		}
		return fmt.Errorf("mark processing: %w", err)
	}

	sup, err := w.store.GetForAnalysis(ctx, supplierID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Deleted between enqueue and claim: nothing to do, no retry.
			slog.Info("supplier gone before analysis started", "supplier_id", supplierID)
			return nil
		}
		return fmt.Errorf("load supplier: %w", err)
	}

	notes := ""
	if sup.Notes != nil {
		notes = *sup.Notes
	}
	result, err := w.analyzer.AnalyzeSupplier(ctx, ai.Request{
		SupplierID:     sup.ID,
		Name:           sup.Name,
		Domain:         sup.Domain,
		Category:       sup.Category,
		Notes:          notes,
		OrganizationID: sup.OrganizationID,
	})
	if err != nil {
		// Record the failure on the row; the previous cycle's score and
		// analysis stay in place, the error status marks them stale.
		if markErr := w.store.MarkError(ctx, supplierID, truncate(err.Error(), maxErrorLen)); markErr != nil {
			slog.Error("failed to record analysis error", "supplier_id", supplierID, "error", markErr)
		}
		// Propagate so the job system applies its retry/backoff policy.
		return fmt.Errorf("analyze supplier %s: %w", supplierID, err)
	}

	if err := w.store.MarkComplete(ctx, supplierID, result.Score, result.Analysis); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			slog.Info("supplier deleted mid-analysis, result discarded", "supplier_id", supplierID)
			return nil
		}
		return fmt.Errorf("mark complete: %w", err)
	}

	slog.Info("supplier analysis complete",
		"supplier_id", supplierID, "score", result.Score, "analyzer", w.analyzer.Name())
	return nil
}

// truncate caps s at max bytes without splitting a multi-byte rune; the
// column is UTF-8 and the database rejects a string cut mid-rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
