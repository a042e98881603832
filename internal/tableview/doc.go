// Package tableview renders a column schema against a row collection with
// client-side sorting and pagination.
//
// The pure operations (Resolve, Sort, ToggleSort, Paginate, PageControls)
// never mutate their inputs. View is the stateful view model that owns the
// sort and page state for one table and re-projects rows on demand.
package tableview
