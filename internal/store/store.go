// Package store persists the model document. Backends are a local JSON file
// (optionally age-encrypted) and a PostgreSQL table, optionally fronted by a
// redis cache and chained with a fallback.
package store

import (
	"context"
	"errors"

	"github.com/iwvelando/finance-dashboard/internal/model"
)

// ErrNotFound is returned by a cache lookup that misses.
var ErrNotFound = errors.New("not found")

// Gateway loads and saves the whole model document.
type Gateway interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}
