package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatsheet/flatsheet/grid"
)

func newSheetStore(t *testing.T, shape grid.Shape) *SheetStore {
	t.Helper()
	return NewSheetStore(filepath.Join(t.TempDir(), "sheet.csv"), shape)
}

func TestSheetStoreLazyDefault(t *testing.T) {
	fixed := newSheetStore(t, grid.ShapeFixed)
	sheet, err := fixed.Load()
	require.NoError(t, err)
	assert.Equal(t, grid.DefaultFixed(), sheet)

	// Loading never creates the file.
	_, err = os.Stat(fixed.path)
	assert.True(t, os.IsNotExist(err))

	free := newSheetStore(t, grid.ShapeFreeform)
	sheet, err = free.Load()
	require.NoError(t, err)
	assert.Equal(t, grid.DefaultFreeform(), sheet)
}

func TestSheetStoreRoundTrip(t *testing.T) {
	s := newSheetStore(t, grid.ShapeFixed)

	want := grid.Sheet{
		{"H1", "H2", "H3"},
		{"a", "b", "c"},
		{"", "", ""},
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// save(load()) leaves the file bytes untouched.
	before, err := os.ReadFile(s.path)
	require.NoError(t, err)
	require.NoError(t, s.Save(got))
	after, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSheetStoreNormalizesOnLoad(t *testing.T) {
	s := newSheetStore(t, grid.ShapeFixed)
	path := s.path
	require.NoError(t, os.WriteFile(path, []byte("H1,H2\na,b,c,d\n,,\n"), 0o644))

	sheet, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, grid.Sheet{
		{"H1", "H2", ""},
		{"a", "b", "c"},
		{"", "", ""},
	}, sheet)
}

func TestSheetStoreUpdate(t *testing.T) {
	s := newSheetStore(t, grid.ShapeFixed)

	err := s.Update(func(sheet grid.Sheet) (grid.Sheet, error) {
		return sheet.SetCell(1, 0, "X", grid.ShapeFixed)
	})
	require.NoError(t, err)

	sheet, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "X", sheet[1][0])

	// Every other cell still has its default value.
	want := grid.DefaultFixed()
	want[1][0] = "X"
	assert.Equal(t, want, sheet)
}

func TestSheetStoreUpdateErrorWritesNothing(t *testing.T) {
	s := newSheetStore(t, grid.ShapeFreeform)

	boom := errors.New("boom")
	err := s.Update(func(sheet grid.Sheet) (grid.Sheet, error) {
		return sheet, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = os.Stat(s.path)
	assert.True(t, os.IsNotExist(err))
}
