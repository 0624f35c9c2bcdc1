package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"go.uber.org/zap"
)

// CachedGateway reads through and writes through a cache in front of another
// gateway. Cache failures are logged and otherwise ignored.
type CachedGateway struct {
	next   Gateway
	cache  Cache
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedGateway wraps next with cache under key.
func NewCachedGateway(logger *zap.Logger, next Gateway, cache Cache, key string, ttl time.Duration) *CachedGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGateway{next: next, cache: cache, key: key, ttl: ttl, logger: logger}
}

// Load returns the cached document when present and otherwise loads from the
// wrapped gateway and fills the cache.
func (g *CachedGateway) Load(ctx context.Context) (*model.Document, error) {
	data, err := g.cache.Get(ctx, g.key)
	switch {
	case err == nil:
		doc, decodeErr := model.Decode(data)
		if decodeErr == nil {
			g.logger.Debug("loaded model from cache",
				zap.String("op", "store.CachedGateway.Load"),
			)
			return doc, nil
		}
		g.logger.Warn("discarding unreadable cached model",
			zap.String("op", "store.CachedGateway.Load"),
			zap.Error(decodeErr),
		)
	case !errors.Is(err, ErrNotFound):
		g.logger.Warn("cache lookup failed",
			zap.String("op", "store.CachedGateway.Load"),
			zap.Error(err),
		)
	}

	doc, err := g.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	g.fill(ctx, doc)
	return doc, nil
}

// Save writes to the wrapped gateway and then refreshes the cache.
func (g *CachedGateway) Save(ctx context.Context, doc *model.Document) error {
	if err := g.next.Save(ctx, doc); err != nil {
		return err
	}
	g.fill(ctx, doc)
	return nil
}

func (g *CachedGateway) fill(ctx context.Context, doc *model.Document) {
	data, err := json.Marshal(doc)
	if err == nil {
		err = g.cache.Set(ctx, g.key, data, g.ttl)
	}
	if err != nil {
		g.logger.Warn("failed to update cached model",
			zap.String("op", "store.CachedGateway.fill"),
			zap.Error(err),
		)
	}
}

// FallbackGateway uses primary and falls back to a secondary gateway when it
// fails. When both loads fail the error carries both causes; a missing model
// is not a failure for either store.
type FallbackGateway struct {
	primary  Gateway
	fallback Gateway
	logger   *zap.Logger
}

// NewFallbackGateway chains primary and fallback.
func NewFallbackGateway(logger *zap.Logger, primary, fallback Gateway) *FallbackGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackGateway{primary: primary, fallback: fallback, logger: logger}
}

func (g *FallbackGateway) Load(ctx context.Context) (*model.Document, error) {
	doc, err := g.primary.Load(ctx)
	if err == nil {
		return doc, nil
	}
	g.logger.Warn("primary store failed to load, using fallback",
		zap.String("op", "store.FallbackGateway.Load"),
		zap.Error(err),
	)

	doc, fallbackErr := g.fallback.Load(ctx)
	if fallbackErr == nil {
		return doc, nil
	}
	g.logger.Error("fallback store failed to load",
		zap.String("op", "store.FallbackGateway.Load"),
		zap.Error(fallbackErr),
	)
	return nil, fmt.Errorf("primary: %v; fallback: %w", err, fallbackErr)
}

func (g *FallbackGateway) Save(ctx context.Context, doc *model.Document) error {
	err := g.primary.Save(ctx, doc)
	if err == nil {
		return nil
	}
	g.logger.Warn("primary store failed to save, using fallback",
		zap.String("op", "store.FallbackGateway.Save"),
		zap.Error(err),
	)
	if fallbackErr := g.fallback.Save(ctx, doc); fallbackErr != nil {
		return fmt.Errorf("primary: %v; fallback: %w", err, fallbackErr)
	}
	return nil
}
