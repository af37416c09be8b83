// Package snapshot imports and exports the whole store as a JSON document.
//
// Rows are written one insert at a time with no surrounding transaction, so a
// failed import leaves whatever was inserted before the failure in place.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/models"
)

// Store is the subset of a repository the snapshot needs.
type Store[T any] interface {
	Create(ctx context.Context, e *T) error
	Query(ctx context.Context, filter *T) ([]T, error)
}

// Document is the on-disk shape of a snapshot.
type Document struct {
	Employees []models.Employee `json:"employees"`
	Products  []models.Product  `json:"products"`
}

// Snapshotter moves the store to and from a snapshot file.
type Snapshotter struct {
	employees Store[models.Employee]
	products  Store[models.Product]
}

// NewSnapshotter creates a new Snapshotter.
func NewSnapshotter(employees Store[models.Employee], products Store[models.Product]) *Snapshotter {
	return &Snapshotter{employees: employees, products: products}
}

// Import loads the snapshot at path into the store, employees first. A missing
// file is not an error: it reports false and imports nothing.
//
// The store assigns fresh ids. A product's employee_id that points at an employee
// from the same document is rewritten to that employee's new id; other values are
// kept as they are, since the reference is not enforced.
func (s *Snapshotter) Import(ctx context.Context, path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", path).Msg("No snapshot file, nothing to import")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	newIDs := make(map[uint32]uint32, len(doc.Employees))
	for i := range doc.Employees {
		e := &doc.Employees[i]
		old := e.ID
		if err := s.employees.Create(ctx, e); err != nil {
			return false, fmt.Errorf("import employee %d of %d: %w", i+1, len(doc.Employees), err)
		}
		if old != nil && e.ID != nil {
			newIDs[*old] = *e.ID
		}
	}

	for i := range doc.Products {
		p := &doc.Products[i]
		if p.EmployeeID != nil {
			if id, ok := newIDs[*p.EmployeeID]; ok {
				p.EmployeeID = &id
			}
		}
		if err := s.products.Create(ctx, p); err != nil {
			return false, fmt.Errorf("import product %d of %d: %w", i+1, len(doc.Products), err)
		}
	}

	log.Info().
		Str("path", path).
		Int("employees", len(doc.Employees)).
		Int("products", len(doc.Products)).
		Msg("Snapshot imported")
	return true, nil
}

// Export writes every employee and product to path. The file is replaced
// atomically, so a failed export leaves the previous snapshot intact.
func (s *Snapshotter) Export(ctx context.Context, path string) error {
	employees, err := s.employees.Query(ctx, nil)
	if err != nil {
		return fmt.Errorf("export employees: %w", err)
	}
	products, err := s.products.Query(ctx, nil)
	if err != nil {
		return fmt.Errorf("export products: %w", err)
	}

	doc := Document{Employees: employees, Products: products}
	if doc.Employees == nil {
		doc.Employees = []models.Employee{}
	}
	if doc.Products == nil {
		doc.Products = []models.Product{}
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("employees", len(employees)).
		Int("products", len(products)).
		Msg("Snapshot exported")
	return nil
}
