// Package admin defines the console screens and the workspace they share.
package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/grintel/grconsole/internal/config"
	"github.com/grintel/grconsole/internal/database/repository"
	"github.com/grintel/grconsole/internal/tableview"
)

var (
	// ErrUnknownScreen is returned for a screen id that does not exist.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrReadOnly is returned when deleting from a screen without a delete action.
	ErrReadOnly = errors.New("screen is read-only")

	// ErrNoStatus is returned when advancing a row on a screen without statuses.
	ErrNoStatus = errors.New("screen has no status action")
)

// Workspace is the application context handed to every screen.
type Workspace struct {
	Repos  repository.Repos
	Config config.Config
	Log    *zap.Logger
}

// NewWorkspace returns a workspace; a nil logger is replaced by a no-op one.
func NewWorkspace(repos repository.Repos, cfg config.Config, log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workspace{Repos: repos, Config: cfg, Log: log}
}

// Operator is the actor recorded in audit entries.
func (w *Workspace) Operator() string {
	if w.Config.UI.Operator == "" {
		return "admin"
	}
	return w.Config.UI.Operator
}

// Screen looks a screen up by id.
func (w *Workspace) Screen(id string) (Screen, error) {
	for _, s := range Screens(w) {
		if s.ID == id {
			return s, nil
		}
	}
	return Screen{}, fmt.Errorf("%w: %q", ErrUnknownScreen, id)
}

// NewView builds a table view for s with the configured table defaults.
func (w *Workspace) NewView(s Screen, rows []tableview.Row, onRowClick func(tableview.Row)) (*tableview.View, error) {
	msg := s.EmptyMessage
	if msg == "" {
		msg = w.Config.Table.EmptyMessage
	}
	return tableview.New(tableview.Options{
		Columns:      s.Columns,
		Data:         rows,
		OnRowClick:   onRowClick,
		PageSize:     w.Config.Table.PageSize,
		EmptyMessage: msg,
		Locale:       w.Config.Locale(),
	})
}

// Load fetches the rows of s.
func (w *Workspace) Load(ctx context.Context, s Screen) ([]tableview.Row, error) {
	rows, err := s.load(ctx)
	if err != nil {
		w.Log.Error("load screen", zap.String("screen", s.ID), zap.Error(err))
		return nil, fmt.Errorf("load %s: %w", s.ID, err)
	}
	w.Log.Debug("screen loaded", zap.String("screen", s.ID), zap.Int("rows", len(rows)))
	return rows, nil
}

// Open records that the operator opened row on s.
func (w *Workspace) Open(ctx context.Context, s Screen, row tableview.Row) error {
	id := rowID(row)
	w.Log.Info("row opened", zap.String("screen", s.ID), zap.String("id", id))
	return w.audit(ctx, "view", s, id, Label(s, row))
}

// Delete removes the record behind row and records an audit entry.
func (w *Workspace) Delete(ctx context.Context, s Screen, row tableview.Row) error {
	if s.delete == nil {
		return fmt.Errorf("%w: %s", ErrReadOnly, s.ID)
	}
	id := rowID(row)
	if err := s.delete(ctx, id); err != nil {
		w.Log.Error("delete", zap.String("screen", s.ID), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete %s %s: %w", s.Entity, id, err)
	}
	w.Log.Info("record deleted", zap.String("screen", s.ID), zap.String("id", id))
	return w.audit(ctx, "delete", s, id, Label(s, row))
}

// AdvanceStatus moves the record behind row to the next status of s and
// returns that status.
func (w *Workspace) AdvanceStatus(ctx context.Context, s Screen, row tableview.Row) (string, error) {
	if !s.CanAdvance() {
		return "", fmt.Errorf("%w: %s", ErrNoStatus, s.ID)
	}
	id := rowID(row)
	from, _ := row["status"].(string)
	to := s.NextStatus(from)
	if err := s.setStatus(ctx, id, to); err != nil {
		w.Log.Error("set status", zap.String("screen", s.ID), zap.String("id", id), zap.Error(err))
		return "", fmt.Errorf("status %s %s: %w", s.Entity, id, err)
	}
	w.Log.Info("status changed", zap.String("screen", s.ID), zap.String("id", id), zap.String("from", from), zap.String("to", to))
	return to, w.audit(ctx, "status", s, id, fmt.Sprintf("%s: %s -> %s", Label(s, row), from, to))
}

func (w *Workspace) audit(ctx context.Context, action string, s Screen, id, details string) error {
	if w.Repos.Audit == nil {
		return nil
	}
	_, err := w.Repos.Audit.Insert(ctx, repository.AuditEntry{
		Actor:    w.Operator(),
		Action:   action,
		Entity:   s.Entity,
		EntityID: id,
		Details:  details,
	})
	if err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// Label returns the human name of row on s.
func Label(s Screen, row tableview.Row) string {
	if s.LabelKey == "" {
		return rowID(row)
	}
	v, ok := tableview.Resolve(s.LabelKey, row)
	if !ok || v == nil {
		return rowID(row)
	}
	return fmt.Sprint(v)
}

func rowID(row tableview.Row) string {
	id, _ := row["id"].(string)
	return id
}
