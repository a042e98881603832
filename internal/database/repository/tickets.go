package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TicketRepo handles support tickets.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

func (r *TicketRepo) Upsert(ctx context.Context, t Ticket) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tickets(id, number, subject, company_id, assignee_id, priority, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), COALESCE(?, CURRENT_TIMESTAMP))
	ON CONFLICT(id) DO UPDATE SET
	 subject=excluded.subject,
	 company_id=excluded.company_id,
	 assignee_id=excluded.assignee_id,
	 priority=excluded.priority,
	 status=excluded.status,
	 updated_at=CURRENT_TIMESTAMP;
	`, t.ID, t.Number, t.Subject, t.CompanyID, t.AssigneeID, t.Priority, t.Status,
		nullTime(t.CreatedAt), nullTime(t.UpdatedAt))
	return err
}

// UpdateStatus moves a ticket to status.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tickets SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

const ticketSelect = `
	SELECT t.id, t.number, t.subject, t.company_id, c.name, t.assignee_id, u.full_name,
	 t.priority, t.status, t.created_at, t.updated_at
	FROM tickets t
	JOIN companies c ON c.id = t.company_id
	LEFT JOIN users u ON u.id = t.assignee_id`

func (r *TicketRepo) List(ctx context.Context) ([]Ticket, error) {
	rows, err := r.db.QueryContext(ctx, ticketSelect+` ORDER BY t.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TicketRepo) Get(ctx context.Context, id string) (Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx, ticketSelect+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Ticket{}, ErrNotFound
	}
	return t, err
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "tickets", id)
}

func scanTicket(s scanner) (Ticket, error) {
	var t Ticket
	err := s.Scan(&t.ID, &t.Number, &t.Subject, &t.CompanyID, &t.CompanyName, &t.AssigneeID, &t.AssigneeName,
		&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
