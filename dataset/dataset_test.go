package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/internal/hash"
	"github.com/arloliu/sbfs/subset"
)

var nan = math.NaN()

func testFrame(t *testing.T) *Frame {
	t.Helper()

	f, err := NewFrame(
		[]string{"swe", "precip", "temp"},
		[][]float64{
			{1, 2, nan, 4, 5},
			{10, nan, 30, 40, 50},
			{-1, -2, -3, -4, -5},
		},
		"flow",
		[]float64{100, 200, 300, 400, 500},
	)
	require.NoError(t, err)

	return f
}

func TestNewFrame(t *testing.T) {
	f := testFrame(t)

	require.Equal(t, 3, f.Len())
	require.Equal(t, 5, f.Rows())
	require.Equal(t, []string{"swe", "precip", "temp"}, f.Names())
	require.Equal(t, "flow", f.TargetName())
	require.Equal(t, hash.ID("precip"), f.ID(1))
	require.False(t, f.HasIDCollision())
	require.Equal(t, 4, f.Observed(0))
	require.Equal(t, 5, f.Observed(2))

	i, ok := f.Index("temp")
	require.True(t, ok)
	require.Equal(t, 2, i)
}

func TestNewFrame_Validation(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		columns [][]float64
		target  []float64
		want    error
	}{
		{"empty pool", nil, nil, []float64{1}, errs.ErrEmptyPool},
		{"names vs columns", []string{"a", "b"}, [][]float64{{1}}, []float64{1}, errs.ErrRaggedColumns},
		{"ragged column", []string{"a"}, [][]float64{{1, 2}}, []float64{1}, errs.ErrRaggedColumns},
		{"duplicate name", []string{"a", "a"}, [][]float64{{1}, {2}}, []float64{1}, errs.ErrDuplicatePredictor},
		{"empty name", []string{""}, [][]float64{{1}}, []float64{1}, errs.ErrInvalidPredictor},
		{"NaN target", []string{"a"}, [][]float64{{1, 2}}, []float64{1, nan}, errs.ErrTargetNaN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrame(tt.names, tt.columns, "y", tt.target)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFrame_Mask(t *testing.T) {
	f := testFrame(t)

	m, err := f.Mask("temp", "swe")
	require.NoError(t, err)
	require.Equal(t, "101", m.Key())
	require.Equal(t, []string{"swe", "temp"}, f.SubsetNames(m))

	_, err = f.Mask("snow")
	require.ErrorIs(t, err, errs.ErrUnknownPredictor)
}

func TestFrame_Design_DropsNaNRows(t *testing.T) {
	f := testFrame(t)

	x, y, err := f.Design(subset.All(3), false)
	require.NoError(t, err)
	require.Equal(t, 3, x.Rows())
	require.Equal(t, 3, x.Cols())
	require.Equal(t, []float64{100, 400, 500}, y)
	require.Equal(t, []float64{4, 40, -4}, x.Row(1))

	only, _ := subset.FromIndices(3, 0)
	x, y, err = f.Design(only, false)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 4, 5}, x.Column(0))
	require.Equal(t, []float64{100, 200, 400, 500}, y)
}

func TestFrame_Design_KeepNaN(t *testing.T) {
	f := testFrame(t)

	x, y, err := f.Design(subset.All(3), true)
	require.NoError(t, err)
	require.Equal(t, 5, x.Rows())
	require.Len(t, y, 5)
	require.True(t, math.IsNaN(x.At(2, 0)))
}

func TestFrame_Design_EmptySubset(t *testing.T) {
	f := testFrame(t)

	x, y, err := f.Design(subset.New(3), false)
	require.NoError(t, err)
	require.Equal(t, 5, x.Rows())
	require.Equal(t, 0, x.Cols())
	require.Len(t, y, 5)
}

func TestFrame_Design_LengthMismatch(t *testing.T) {
	f := testFrame(t)

	_, _, err := f.Design(subset.All(4), false)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestMatrix(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)

	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	require.Equal(t, 4.0, m.At(1, 1))
	require.Equal(t, []float64{2, 4, 6}, m.Column(1))

	sel := m.SelectRows([]int{2, 0})
	require.Equal(t, []float64{5, 6, 1, 2}, sel.Raw())

	_, err = FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)

	_, err = NewMatrix(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestReadCSV(t *testing.T) {
	input := `date,swe,flow,precip
2001-04-01,12.5,300,4.1
2002-04-01,,280,3.9
2003-04-01,9.0,250,NaN
2004-04-01,15.2,410,5.5
`
	f, err := ReadCSV(strings.NewReader(input), "flow", "date")
	require.NoError(t, err)
	require.Equal(t, []string{"swe", "precip"}, f.Names())
	require.Equal(t, []float64{300, 280, 250, 410}, f.Target())
	require.Equal(t, 3, f.Observed(0))
	require.Equal(t, 3, f.Observed(1))

	_, err = ReadCSV(strings.NewReader(input), "volume", "date")
	require.ErrorIs(t, err, errs.ErrUnknownPredictor)

	_, err = ReadCSV(strings.NewReader("a,y\nx,1\n"), "y")
	require.Error(t, err)
}
