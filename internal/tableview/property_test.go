package tableview

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// rowsFrom turns generated ints into rows keyed "n"; negative values become
// null. Each row carries its input position under "pos".
func rowsFrom(vals []int) []Row {
	rows := make([]Row, len(vals))
	for i, v := range vals {
		var n any = v
		if v < 0 {
			n = nil
		}
		rows[i] = Row{"n": n, "pos": i}
	}
	return rows
}

func positions(rows []Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r["pos"].(int)
	}
	return out
}

func TestProperty_SortTableView(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("descending is reversed ascending for distinct non-null keys", prop.ForAll(
		func(vals []int) bool {
			slices.Sort(vals)
			vals = slices.Compact(vals)
			// Shuffle deterministically by interleaving from both ends.
			mixed := make([]int, 0, len(vals))
			for i, j := 0, len(vals)-1; i <= j; i, j = i+1, j-1 {
				mixed = append(mixed, vals[j])
				if i != j {
					mixed = append(mixed, vals[i])
				}
			}
			rows := rowsFrom(mixed)
			asc := Sort(rows, SortState{Key: "n", Direction: SortAscending})
			desc := Sort(rows, SortState{Key: "n", Direction: SortDescending})
			slices.Reverse(asc)
			return slices.Equal(positions(asc), positions(desc))
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("sort is stable", prop.ForAll(
		func(vals []int) bool {
			sorted := Sort(rowsFrom(vals), SortState{Key: "n", Direction: SortDescending})
			for i := 1; i < len(sorted); i++ {
				if sorted[i-1]["n"] == sorted[i]["n"] && sorted[i-1]["pos"].(int) > sorted[i]["pos"].(int) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-1, 3)),
	))

	properties.Property("nulls come last in both directions", prop.ForAll(
		func(vals []int) bool {
			for _, dir := range []SortDirection{SortAscending, SortDescending} {
				seenNull := false
				for _, r := range Sort(rowsFrom(vals), SortState{Key: "n", Direction: dir}) {
					if r["n"] == nil {
						seenNull = true
					} else if seenNull {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-3, 5)),
	))

	properties.Property("three toggles on one key return to unsorted", prop.ForAll(
		func(key string) bool {
			s := SortState{}
			for i := 0; i < 3; i++ {
				s = ToggleSort(s, key)
			}
			return s == SortState{}
		},
		gen.AlphaString(),
	))

	properties.Property("pages concatenate to the sorted collection", prop.ForAll(
		func(vals []int, size int) bool {
			state := SortState{Key: "n", Direction: SortAscending}
			sorted := Sort(rowsFrom(vals), state)
			var joined []Row
			total := TotalPages(len(sorted), size)
			for p := 1; p <= total; p++ {
				joined = append(joined, Paginate(sorted, p, size).Rows...)
			}
			return slices.Equal(positions(joined), positions(sorted))
		},
		gen.SliceOf(gen.IntRange(-2, 50)),
		gen.IntRange(1, 15),
	))

	properties.TestingRun(t)
}
