package tableview

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// DefaultPageSize is used when Options.PageSize is zero.
const DefaultPageSize = 10

// DefaultEmptyMessage is shown when Options.EmptyMessage is empty.
const DefaultEmptyMessage = "Нет данных"

var (
	// ErrInvalidPageSize is returned for a negative page size.
	ErrInvalidPageSize = errors.New("page size must be a positive integer")

	// ErrNoColumns is returned when a view is built without a column schema.
	ErrNoColumns = errors.New("column schema is empty")

	// ErrUnknownColumn is returned when a sort key names no column.
	ErrUnknownColumn = errors.New("unknown column")
)

// Options configures a View.
type Options struct {
	Columns []Column
	Data    []Row
	// OnRowClick is called with the clicked row. Optional.
	OnRowClick func(Row)
	// PageSize defaults to DefaultPageSize when zero.
	PageSize int
	// EmptyMessage defaults to DefaultEmptyMessage when empty.
	EmptyMessage string
	// Locale selects string collation; the zero tag means DefaultLocale.
	Locale language.Tag
}

// View is the view model of one table: it owns the sort and page state and
// projects the current data through them. A View is not safe for
// concurrent use.
type View struct {
	columns      []Column
	data         []Row
	onRowClick   func(Row)
	pageSize     int
	emptyMessage string
	sorter       *Sorter

	sort SortState
	page int
}

// New validates opts and returns an unsorted view on page 1.
func New(opts Options) (*View, error) {
	if len(opts.Columns) == 0 {
		return nil, ErrNoColumns
	}
	size := opts.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, opts.PageSize)
	}
	msg := opts.EmptyMessage
	if msg == "" {
		msg = DefaultEmptyMessage
	}
	tag := opts.Locale
	if tag == language.Und {
		tag = DefaultLocale
	}
	return &View{
		columns:      opts.Columns,
		data:         opts.Data,
		onRowClick:   opts.OnRowClick,
		pageSize:     size,
		emptyMessage: msg,
		sorter:       NewSorter(tag),
		page:         1,
	}, nil
}

// Columns returns the column schema.
func (v *View) Columns() []Column { return v.columns }

// SortState returns the active sort.
func (v *View) SortState() SortState { return v.sort }

// Page returns the current 1-based page.
func (v *View) Page() int { return v.page }

// PageSize returns the configured page size.
func (v *View) PageSize() int { return v.pageSize }

// EmptyMessage returns the empty-state text.
func (v *View) EmptyMessage() string { return v.emptyMessage }

// Len returns the number of rows in the current data.
func (v *View) Len() int { return len(v.data) }

// TotalPages returns the page count for the current data.
func (v *View) TotalPages() int { return TotalPages(len(v.data), v.pageSize) }

// SetData replaces the row collection. The page returns to 1 when the number
// of rows changes.
func (v *View) SetData(rows []Row) {
	if len(rows) != len(v.data) {
		v.page = 1
	}
	v.data = rows
}

// ToggleSort advances the sort cycle on key and returns to page 1. Keys of
// non-sortable or unknown columns are rejected and leave the state as is.
func (v *View) ToggleSort(key string) error {
	col, ok := v.column(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	if !col.Sortable {
		return nil
	}
	v.sort = ToggleSort(v.sort, key)
	v.page = 1
	return nil
}

// Direction returns the sort indicator state for key.
func (v *View) Direction(key string) SortDirection {
	if v.sort.Key != key {
		return SortNone
	}
	return v.sort.Direction
}

// SetPage selects a page. Pages outside [1, TotalPages] are ignored.
func (v *View) SetPage(page int) bool {
	if page < 1 || page > v.TotalPages() {
		return false
	}
	v.page = page
	return true
}

// NextPage moves one page forward if possible.
func (v *View) NextPage() bool { return v.SetPage(v.page + 1) }

// PrevPage moves one page back if possible.
func (v *View) PrevPage() bool { return v.SetPage(v.page - 1) }

// Rows returns the full collection in display order.
func (v *View) Rows() []Row {
	return v.sorter.Sort(v.data, v.sort)
}

// Visible returns the current page of the sorted collection.
func (v *View) Visible() Page {
	return Paginate(v.Rows(), v.page, v.pageSize)
}

// Controls returns the page-number control set for the current state.
func (v *View) Controls() []PageControl {
	return PageControls(v.TotalPages(), v.page)
}

// Click reports a click on the i-th visible row to OnRowClick and returns
// the row. It returns false when i is outside the visible page.
func (v *View) Click(i int) (Row, bool) {
	rows := v.Visible().Rows
	if i < 0 || i >= len(rows) {
		return nil, false
	}
	if v.onRowClick != nil {
		v.onRowClick(rows[i])
	}
	return rows[i], true
}

func (v *View) column(key string) (Column, bool) {
	for _, c := range v.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
