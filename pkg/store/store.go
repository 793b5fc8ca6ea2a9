// Package store persists design documents.
//
// Backends:
//   - [MemoryStore]: in-process storage for tests and ephemeral servers
//   - [FileStore]: one JSON file per design, for the CLI and single-node servers
//   - [MongoStore]: MongoDB collection for shared deployments
//
// All backends return copies: mutating a document returned by Get never
// changes the stored one until it is written back with Put.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/cellspan/pkg/design"
)

// ErrNotFound is returned when a design does not exist.
var ErrNotFound = errors.New("design not found")

// Summary describes a stored design without its cells and graph.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Columns   int       `json:"columns" bson:"-"`
	Rows      int       `json:"rows" bson:"-"`
	Nodes     int       `json:"nodes" bson:"-"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Summarize returns the summary of d.
func Summarize(d *design.Document) Summary {
	return Summary{
		ID:        d.ID,
		Name:      d.Name,
		Columns:   len(d.Columns),
		Rows:      len(d.Rows),
		Nodes:     len(d.Nodes),
		UpdatedAt: d.UpdatedAt,
	}
}

// Store is implemented by design storage backends.
type Store interface {
	// Get returns the design with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*design.Document, error)
	// Put creates or replaces a design. The design must have an ID.
	Put(ctx context.Context, d *design.Document) error
	// Delete removes a design. Deleting a missing design returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// List returns summaries of all designs, most recently updated first.
	List(ctx context.Context) ([]Summary, error)
	// Close releases the backend's resources.
	Close() error
}

// checkID rejects IDs that cannot be used as a storage key.
func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("id %q: %w", id, design.ErrInvalidDocument)
	}
	return nil
}

func sortSummaries(s []Summary) {
	slices.SortStableFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
