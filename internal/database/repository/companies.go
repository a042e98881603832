package repository

import (
	"context"
	"database/sql"
	"errors"
)

// CompanyRepo handles companies.
type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) Upsert(ctx context.Context, c Company) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO companies(id, name, inn, industry, region, status, monitored_sources, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 inn=excluded.inn,
	 industry=excluded.industry,
	 region=excluded.region,
	 status=excluded.status,
	 monitored_sources=excluded.monitored_sources,
	 updated_at=CURRENT_TIMESTAMP;
	`, c.ID, c.Name, c.INN, c.Industry, c.Region, c.Status, c.MonitoredSources, nullTime(c.CreatedAt))
	return err
}

const companySelect = `
	SELECT c.id, c.name, c.inn, c.industry, c.region, c.status, c.monitored_sources,
	 c.created_at, c.updated_at,
	 (SELECT COUNT(*) FROM users u WHERE u.company_id = c.id)
	FROM companies c`

// List returns companies in insertion order.
func (r *CompanyRepo) List(ctx context.Context) ([]Company, error) {
	rows, err := r.db.QueryContext(ctx, companySelect+` ORDER BY c.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CompanyRepo) Get(ctx context.Context, id string) (Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx, companySelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "companies", id)
}

func scanCompany(s scanner) (Company, error) {
	var c Company
	err := s.Scan(&c.ID, &c.Name, &c.INN, &c.Industry, &c.Region, &c.Status, &c.MonitoredSources,
		&c.CreatedAt, &c.UpdatedAt, &c.UserCount)
	return c, err
}
