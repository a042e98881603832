package tableview

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func numberedRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"i": i}
	}
	return rows
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 1, TotalPages(0, 10))
	require.Equal(t, 1, TotalPages(10, 10))
	require.Equal(t, 2, TotalPages(11, 10))
	require.Equal(t, 7, TotalPages(7, 1))
	require.Panics(t, func() { TotalPages(3, 0) })
}

func TestPaginateMiddleAndLastPage(t *testing.T) {
	rows := numberedRows(25)

	p := Paginate(rows, 2, 10)
	require.Equal(t, 10, p.StartIndex)
	require.Equal(t, 20, p.EndIndex)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, []any{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, column(p.Rows, "i"))

	p = Paginate(rows, 3, 10)
	require.Equal(t, 20, p.StartIndex)
	require.Equal(t, 25, p.EndIndex)
	require.Len(t, p.Rows, 5)
}

func TestPaginateOutOfRangeIsEmpty(t *testing.T) {
	rows := numberedRows(5)
	require.Empty(t, Paginate(rows, 4, 2).Rows)
	require.Empty(t, Paginate(rows, 0, 2).Rows)
	require.Empty(t, Paginate(rows, -3, 2).Rows)
	require.Empty(t, Paginate(nil, 1, 2).Rows)
	require.Equal(t, 1, Paginate(nil, 1, 2).TotalPages)
}

func TestPaginateHugePageDoesNotOverflow(t *testing.T) {
	rows := numberedRows(5)
	for _, page := range []int{math.MaxInt / 2, math.MaxInt, math.MinInt, math.MinInt / 2} {
		p := Paginate(rows, page, 4)
		require.Empty(t, p.Rows, "page %d", page)
		require.GreaterOrEqual(t, p.StartIndex, 0, "page %d", page)
		require.LessOrEqual(t, p.StartIndex, p.EndIndex, "page %d", page)
		require.Equal(t, 2, p.TotalPages)
	}
}

func TestPaginateResultCannotGrowIntoCaller(t *testing.T) {
	rows := numberedRows(6)
	p := Paginate(rows, 1, 3)
	_ = append(p.Rows, Row{"i": 99})
	require.Equal(t, 3, rows[3]["i"])
}
