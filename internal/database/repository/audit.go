package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/grintel/grconsole/internal/database"
)

// AuditRepo appends to and reads the audit log.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Insert stores e; an empty ID gets a random one and a zero At becomes now.
func (r *AuditRepo) Insert(ctx context.Context, e AuditEntry) (AuditEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = database.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO audit_log(id, at, actor, action, entity, entity_id, details)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING;
	`, e.ID, e.At.UTC(), e.Actor, e.Action, e.Entity, e.EntityID, e.Details)
	return e, err
}

// List returns entries newest first.
func (r *AuditRepo) List(ctx context.Context) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, at, actor, action, entity, entity_id, details FROM audit_log ORDER BY at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.At, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &e.Details); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
