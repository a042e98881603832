package repository

import (
	"context"
	"database/sql"
	"errors"
)

// StakeholderRepo handles stakeholders.
type StakeholderRepo struct {
	db *sql.DB
}

func NewStakeholderRepo(db *sql.DB) *StakeholderRepo { return &StakeholderRepo{db: db} }

func (r *StakeholderRepo) Upsert(ctx context.Context, s Stakeholder) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO stakeholders(id, company_id, full_name, position, category, influence, sentiment)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 company_id=excluded.company_id,
	 full_name=excluded.full_name,
	 position=excluded.position,
	 category=excluded.category,
	 influence=excluded.influence,
	 sentiment=excluded.sentiment;
	`, s.ID, s.CompanyID, s.FullName, s.Position, s.Category, s.Influence, s.Sentiment)
	return err
}

const stakeholderSelect = `
	SELECT s.id, s.company_id, c.name, s.full_name, s.position, s.category, s.influence, s.sentiment
	FROM stakeholders s
	JOIN companies c ON c.id = s.company_id`

func (r *StakeholderRepo) List(ctx context.Context) ([]Stakeholder, error) {
	rows, err := r.db.QueryContext(ctx, stakeholderSelect+` ORDER BY s.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Stakeholder
	for rows.Next() {
		s, err := scanStakeholder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StakeholderRepo) Get(ctx context.Context, id string) (Stakeholder, error) {
	s, err := scanStakeholder(r.db.QueryRowContext(ctx, stakeholderSelect+` WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Stakeholder{}, ErrNotFound
	}
	return s, err
}

func (r *StakeholderRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "stakeholders", id)
}

func scanStakeholder(sc scanner) (Stakeholder, error) {
	var s Stakeholder
	err := sc.Scan(&s.ID, &s.CompanyID, &s.CompanyName, &s.FullName, &s.Position, &s.Category, &s.Influence, &s.Sentiment)
	return s, err
}
