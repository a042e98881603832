package repository

import (
	"context"
	"database/sql"
	"errors"
)

// UserRepo handles users.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Upsert(ctx context.Context, u User) error {
	var lastLogin any
	if u.LastLoginAt != nil {
		lastLogin = u.LastLoginAt.UTC()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO users(id, company_id, full_name, email, role, status, last_login_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
	ON CONFLICT(id) DO UPDATE SET
	 company_id=excluded.company_id,
	 full_name=excluded.full_name,
	 email=excluded.email,
	 role=excluded.role,
	 status=excluded.status,
	 last_login_at=excluded.last_login_at;
	`, u.ID, u.CompanyID, u.FullName, u.Email, u.Role, u.Status, lastLogin, nullTime(u.CreatedAt))
	return err
}

const userSelect = `
	SELECT u.id, u.company_id, c.name, u.full_name, u.email, u.role, u.status, u.last_login_at, u.created_at
	FROM users u
	LEFT JOIN companies c ON c.id = u.company_id`

func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+` ORDER BY u.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "users", id)
}

func scanUser(s scanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.CompanyID, &u.CompanyName, &u.FullName, &u.Email, &u.Role, &u.Status,
		&u.LastLoginAt, &u.CreatedAt)
	return u, err
}
