package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFixed(t *testing.T) {
	s := DefaultFixed()
	require.Len(t, s, 1+FixedMinDataRows)
	assert.Equal(t, []string{"Header 1", "Header 2", "Header 3"}, s[0])
	for _, row := range s[1:] {
		assert.Equal(t, []string{"", "", ""}, row)
	}
}

func TestDefaultFreeform(t *testing.T) {
	s := DefaultFreeform()
	require.Len(t, s, FreeformRows)
	for _, row := range s {
		assert.Len(t, row, FreeformCols)
		for _, cell := range row {
			assert.Empty(t, cell)
		}
	}
}

func TestNormalizeFixed(t *testing.T) {
	tests := []struct {
		name string
		in   Sheet
		want Sheet
	}{
		{
			name: "empty sheet becomes default",
			in:   Sheet{},
			want: DefaultFixed(),
		},
		{
			name: "blank data rows dropped and repadded",
			in: Sheet{
				{"H1", "H2", "H3"},
				{"", " ", ""},
				{"a", "b", "c"},
				{"", "", ""},
			},
			want: Sheet{
				{"H1", "H2", "H3"},
				{"a", "b", "c"},
				{"", "", ""},
			},
		},
		{
			name: "blank header survives the trim",
			in: Sheet{
				{"", "", ""},
				{"a", "b", "c"},
				{"d", "e", "f"},
			},
			want: Sheet{
				{"", "", ""},
				{"a", "b", "c"},
				{"d", "e", "f"},
			},
		},
		{
			name: "short rows padded and long rows truncated",
			in: Sheet{
				{"H1"},
				{"a", "b", "c", "d"},
				{"e"},
			},
			want: Sheet{
				{"H1", "", ""},
				{"a", "b", "c"},
				{"e", "", ""},
			},
		},
		{
			name: "header only gets two blank data rows",
			in: Sheet{
				{"H1", "H2", "H3"},
			},
			want: Sheet{
				{"H1", "H2", "H3"},
				{"", "", ""},
				{"", "", ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in.Clone(), ShapeFixed))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := Sheet{
		{"H1", "H2"},
		{"a", "b", "c", "d"},
		{"", "", ""},
	}
	once := Normalize(in.Clone(), ShapeFixed)
	assert.Equal(t, once, Normalize(once.Clone(), ShapeFixed))

	free := Sheet{{"a"}, {"b", "c"}}
	assert.Equal(t, free, Normalize(free.Clone(), ShapeFreeform))
}

func TestNormalizeFreeformEmpty(t *testing.T) {
	assert.Equal(t, DefaultFreeform(), Normalize(Sheet{}, ShapeFreeform))
}

func TestSetCellFixedPadsMissingRows(t *testing.T) {
	s, err := DefaultFixed().SetCell(5, 1, "x", ShapeFixed)
	require.NoError(t, err)
	require.Len(t, s, 6)
	assert.Equal(t, "x", s[5][1])
	assert.Equal(t, []string{"", "", ""}, s[4])
}

func TestSetCellFixedAutoGrowRepeats(t *testing.T) {
	s := DefaultFixed()

	fillLastRow := func(s Sheet) Sheet {
		last := len(s) - 1
		for c := range FixedColumns {
			var err error
			s, err = s.SetCell(last, c, "v", ShapeFixed)
			require.NoError(t, err)
		}
		return s
	}

	rows := len(s)
	s = fillLastRow(s)
	require.Len(t, s, rows+1)
	assert.Equal(t, []string{"", "", ""}, s[len(s)-1])

	// Filling the freshly grown row grows the sheet again.
	rows = len(s)
	s = fillLastRow(s)
	require.Len(t, s, rows+1)
	assert.Equal(t, []string{"", "", ""}, s[len(s)-1])
}

func TestSetCellFreeformRejectsOutOfRange(t *testing.T) {
	s := DefaultFreeform()

	_, err := s.SetCell(FreeformRows, 0, "x", ShapeFreeform)
	assert.ErrorIs(t, err, ErrRowRange)

	_, err = s.SetCell(0, FreeformCols, "x", ShapeFreeform)
	assert.ErrorIs(t, err, ErrColumnRange)

	_, err = s.SetCell(-1, 0, "x", ShapeFreeform)
	assert.ErrorIs(t, err, ErrRowRange)
}

func TestSetCellFreeformAutoGrow(t *testing.T) {
	s := Sheet{{"a", "b"}, {"", ""}}
	s, err := s.SetCell(1, 0, "x", ShapeFreeform)
	require.NoError(t, err)
	require.Len(t, s, 2)

	s, err = s.SetCell(1, 1, "y", ShapeFreeform)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, []string{"", ""}, s[2])
}

func TestAddRowUsesCurrentWidth(t *testing.T) {
	s := Sheet{{"a", "b", "c"}, {"d"}}
	s = s.AddRow()
	require.Len(t, s, 3)
	assert.Equal(t, []string{"", "", ""}, s[2])
}

func TestDeleteRowFloor(t *testing.T) {
	s := Sheet{{"only"}}
	out, err := s.DeleteRow(0)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	s = Sheet{{"a"}, {"b"}, {"c"}}
	out, err = s.DeleteRow(1)
	require.NoError(t, err)
	assert.Equal(t, Sheet{{"a"}, {"c"}}, out)

	_, err = out.DeleteRow(5)
	assert.ErrorIs(t, err, ErrRowRange)
}

func TestAddCol(t *testing.T) {
	s := Sheet{{"a"}, {"b"}}
	s = s.AddCol()
	assert.Equal(t, Sheet{{"a", ""}, {"b", ""}}, s)
}

func TestDeleteColFloor(t *testing.T) {
	s := Sheet{{"a"}, {"b"}}
	out, err := s.DeleteCol(0)
	require.NoError(t, err)
	assert.Equal(t, Sheet{{"a"}, {"b"}}, out)

	s = Sheet{{"a", "b"}, {"c", "d"}}
	out, err = s.DeleteCol(0)
	require.NoError(t, err)
	assert.Equal(t, Sheet{{"b"}, {"d"}}, out)

	s = Sheet{{"a", "b"}, {"c"}}
	_, err = s.DeleteCol(1)
	assert.ErrorIs(t, err, ErrColumnRange)
}
