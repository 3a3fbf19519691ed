package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/flatsheet/flatsheet/grid"
)

// SheetStore persists the sheet as one CSV record per row. Every mutation
// reads the whole grid, rewrites it in memory and writes it back; the mutex
// serializes those cycles so two concurrent edits can't silently drop one
// another (last writer wins is fine for single cells, lost whole-sheet
// updates are not).
type SheetStore struct {
	path  string
	shape grid.Shape
	mu    sync.Mutex
}

// NewSheetStore returns a store backed by the CSV file at path, applying the
// given shape's normalization rules on every load.
func NewSheetStore(path string, shape grid.Shape) *SheetStore {
	return &SheetStore{path: path, shape: shape}
}

// Load reads and normalizes the sheet. A missing file yields the shape's
// default sheet without creating the file.
func (s *SheetStore) Load() (grid.Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *SheetStore) load() (grid.Sheet, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return grid.Default(s.shape), nil
		}
		return nil, fmt.Errorf("failed to open sheet file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet file: %w", err)
	}
	return grid.Normalize(rows, s.shape), nil
}

// Save serializes the full grid back to disk, overwriting prior content.
func (s *SheetStore) Save(sheet grid.Sheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(sheet)
}

func (s *SheetStore) save(sheet grid.Sheet) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create sheet file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.WriteAll(sheet); err != nil {
		return fmt.Errorf("failed to write sheet file: %w", err)
	}
	return nil
}

// Update runs fn on the freshly loaded sheet and persists the result, all
// under the store lock. When fn returns an error nothing is written.
func (s *SheetStore) Update(fn func(grid.Sheet) (grid.Sheet, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.load()
	if err != nil {
		return err
	}
	sheet, err = fn(sheet)
	if err != nil {
		return err
	}
	return s.save(sheet)
}
