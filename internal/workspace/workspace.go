// Package workspace owns the in-memory model document. Edits are serialized,
// normalized, recomputed and saved; reads see a consistent document and its
// results.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iwvelando/finance-dashboard/internal/forecast"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/store"
	"go.uber.org/zap"
)

// ErrNotPersisted is returned by Update when the edit was applied in memory
// but could not be saved.
var ErrNotPersisted = errors.New("change applied but not saved")

// Workspace is the single writer of a model document.
type Workspace struct {
	mu       sync.RWMutex
	doc      *model.Document
	results  forecast.Results
	notices  []string
	gateway  store.Gateway
	defaults model.Defaults
	logger   *zap.Logger
	// loadErr is the load failure the workspace was opened with. While set,
	// edits stay in memory and nothing is written back.
	loadErr error
}

// Open loads the document through gateway. A load failure is logged and the
// workspace starts from a default document that is never saved, so the
// stored model is not replaced by defaults.
func Open(ctx context.Context, logger *zap.Logger, gateway store.Gateway, defaults model.Defaults) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := gateway.Load(ctx)
	if err != nil || doc == nil {
		if err == nil {
			err = errors.New("gateway returned no document")
		}
		logger.Error("failed to load model, starting from defaults without saving",
			zap.String("op", "workspace.Open"),
			zap.Error(err),
		)
		doc = &model.Document{SchemaVersion: model.CurrentSchemaVersion}
	}

	w := &Workspace{gateway: gateway, defaults: defaults, logger: logger, doc: doc, loadErr: err}
	w.notices = doc.Normalize(defaults)
	for _, notice := range w.notices {
		logger.Info(notice, zap.String("op", "workspace.Open"))
	}
	w.results = forecast.Recompute(logger, doc)
	return w
}

// LoadError returns the load failure the workspace was opened with, or nil.
func (w *Workspace) LoadError() error {
	return w.loadErr
}

// Notices returns the repairs made when the document was loaded.
func (w *Workspace) Notices() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.notices...)
}

// View calls fn with the current document and results under a read lock. fn
// must not modify or retain doc.
func (w *Workspace) View(fn func(doc *model.Document, results forecast.Results) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return fn(w.doc, w.results)
}

// Update applies fn to a copy of the document. When fn succeeds the copy is
// normalized, recomputed, installed and saved. An fn error leaves the
// document unchanged. A save failure keeps the edit and returns
// ErrNotPersisted, as does any edit made after a failed load.
func (w *Workspace) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := w.doc.Clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	for _, notice := range next.Normalize(w.defaults) {
		w.logger.Info(notice, zap.String("op", "workspace.Update"))
	}
	w.results = forecast.Recompute(w.logger, next)
	w.doc = next

	if err := w.persist(ctx, next); err != nil {
		w.logger.Error("failed to save model",
			zap.String("op", "workspace.Update"),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

// Save writes the current document without changing it.
func (w *Workspace) Save(ctx context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if err := w.persist(ctx, w.doc); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

func (w *Workspace) persist(ctx context.Context, doc *model.Document) error {
	if w.loadErr != nil {
		return fmt.Errorf("stored model could not be loaded: %v", w.loadErr)
	}
	return w.gateway.Save(ctx, doc)
}
