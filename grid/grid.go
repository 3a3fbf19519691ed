package grid

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

// Shape selects which structural rules apply to a sheet.
type Shape string

const (
	// ShapeFixed forces every row to exactly FixedColumns cells, keeps a
	// header row and trims blank data rows on load.
	ShapeFixed Shape = "fixed"
	// ShapeFreeform starts at 5x5 and lets admins add or remove rows and
	// columns freely.
	ShapeFreeform Shape = "freeform"
)

const (
	// FixedColumns is the column count enforced by the fixed shape.
	FixedColumns = 3
	// FixedMinDataRows is the minimum number of data rows below the header
	// after a fixed-shape load.
	FixedMinDataRows = 2

	// FreeformRows and FreeformCols describe the default freeform sheet.
	FreeformRows = 5
	FreeformCols = 5
)

var (
	// ErrRowRange is returned when a row index points outside the sheet.
	ErrRowRange = errors.New("row index out of range")
	// ErrColumnRange is returned when a column index points outside a row.
	ErrColumnRange = errors.New("column index out of range")
)

// Sheet is an ordered grid of text cells. Rows may be ragged in the freeform
// shape; the fixed shape repairs every row to FixedColumns on load.
type Sheet [][]string

// DefaultFixed returns the sheet synthesized when no backing file exists in
// the fixed shape: a header row plus two blank data rows.
func DefaultFixed() Sheet {
	s := Sheet{{"Header 1", "Header 2", "Header 3"}}
	for range FixedMinDataRows {
		s = append(s, BlankRow(FixedColumns))
	}
	return s
}

// DefaultFreeform returns the blank 5x5 sheet synthesized when no backing
// file exists in the freeform shape.
func DefaultFreeform() Sheet {
	return lo.RepeatBy(FreeformRows, func(_ int) []string {
		return BlankRow(FreeformCols)
	})
}

// Default returns the lazily created sheet for the given shape.
func Default(shape Shape) Sheet {
	if shape == ShapeFreeform {
		return DefaultFreeform()
	}
	return DefaultFixed()
}

// BlankRow returns a row of n empty cells.
func BlankRow(n int) []string {
	return make([]string, n)
}

// Normalize repairs a freshly loaded sheet so the shape's structural
// invariants hold even if the file was hand-edited or partially written.
func Normalize(s Sheet, shape Shape) Sheet {
	if shape == ShapeFreeform {
		return normalizeFreeform(s)
	}
	return normalizeFixed(s)
}

// normalizeFixed drops blank data rows (the header is exempt), pads the data
// area back to FixedMinDataRows and forces every row to FixedColumns cells.
func normalizeFixed(s Sheet) Sheet {
	if len(s) == 0 {
		return DefaultFixed()
	}
	out := Sheet{s[0]}
	for _, row := range s[1:] {
		if !rowBlank(row) {
			out = append(out, row)
		}
	}
	for len(out)-1 < FixedMinDataRows {
		out = append(out, BlankRow(FixedColumns))
	}
	for r := range out {
		for len(out[r]) < FixedColumns {
			out[r] = append(out[r], "")
		}
		out[r] = out[r][:FixedColumns]
	}
	return out
}

func normalizeFreeform(s Sheet) Sheet {
	if len(s) == 0 {
		return DefaultFreeform()
	}
	return s
}

// Width reports the widest row of the sheet.
func (s Sheet) Width() int {
	return lo.Max(lo.Map(s, func(row []string, _ int) int { return len(row) }))
}

// SetCell writes value at (row, col) under the given shape's rules and
// appends a blank trailing row when the last row becomes fully non-blank.
//
// The fixed shape pads missing rows until the target row exists; the freeform
// shape rejects out-of-range indices instead.
func (s Sheet) SetCell(row, col int, value string, shape Shape) (Sheet, error) {
	if row < 0 {
		return s, ErrRowRange
	}
	if shape == ShapeFixed {
		for len(s) <= row {
			s = append(s, BlankRow(FixedColumns))
		}
	} else if row >= len(s) {
		return s, ErrRowRange
	}
	if col < 0 || col >= len(s[row]) {
		return s, ErrColumnRange
	}
	s[row][col] = value

	if row == len(s)-1 && rowFull(s[row]) {
		s = append(s, BlankRow(len(s[row])))
	}
	return s, nil
}

// AddRow appends a blank row sized to the sheet's current width.
func (s Sheet) AddRow() Sheet {
	return append(s, BlankRow(s.Width()))
}

// DeleteRow removes the row at idx. Deleting the only row is a no-op so the
// sheet never becomes empty.
func (s Sheet) DeleteRow(idx int) (Sheet, error) {
	if len(s) <= 1 {
		return s, nil
	}
	if idx < 0 || idx >= len(s) {
		return s, ErrRowRange
	}
	return append(s[:idx], s[idx+1:]...), nil
}

// AddCol appends one blank cell to every row.
func (s Sheet) AddCol() Sheet {
	for r := range s {
		s[r] = append(s[r], "")
	}
	return s
}

// DeleteCol removes the column at idx from every row. Deleting the only
// column is a no-op.
func (s Sheet) DeleteCol(idx int) (Sheet, error) {
	if s.Width() <= 1 {
		return s, nil
	}
	if idx < 0 {
		return s, ErrColumnRange
	}
	for _, row := range s {
		if idx >= len(row) {
			return s, ErrColumnRange
		}
	}
	for r := range s {
		s[r] = append(s[r][:idx], s[r][idx+1:]...)
	}
	return s, nil
}

// Clone returns a deep copy, so callers can mutate without aliasing the
// store's in-memory rows.
func (s Sheet) Clone() Sheet {
	return lo.Map(s, func(row []string, _ int) []string {
		out := make([]string, len(row))
		copy(out, row)
		return out
	})
}

func rowBlank(row []string) bool {
	return lo.EveryBy(row, func(cell string) bool { return strings.TrimSpace(cell) == "" })
}

func rowFull(row []string) bool {
	return lo.EveryBy(row, func(cell string) bool { return strings.TrimSpace(cell) != "" })
}
