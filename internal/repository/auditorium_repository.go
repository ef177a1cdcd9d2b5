package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hu6r1s/tickitecking/internal/model"
)

// AuditoriumRepo persists auditoriums, the venues whose seating grids
// concerts inherit.
type AuditoriumRepo struct {
	db *sql.DB
}

// NewAuditoriumRepo returns a new AuditoriumRepo bound to the given database.
func NewAuditoriumRepo(db *sql.DB) *AuditoriumRepo { return &AuditoriumRepo{db: db} }

// Create inserts an auditorium and populates its generated ID.
func (r *AuditoriumRepo) Create(ctx context.Context, a *model.Auditorium) error {
	const q = `INSERT INTO auditoriums (name, address, max_horizontal, max_vertical, company_user_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Address, a.MaxHorizontal, a.MaxVertical, a.CompanyUserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// FindByID retrieves an auditorium by primary key.  Returns
// ErrAuditoriumNotFound when no row exists.
func (r *AuditoriumRepo) FindByID(ctx context.Context, id uint64) (*model.Auditorium, error) {
	const q = `SELECT id, name, address, max_horizontal, max_vertical, company_user_id, created_at, updated_at
	           FROM auditoriums WHERE id = ?`
	var a model.Auditorium
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.Address, &a.MaxHorizontal, &a.MaxVertical, &a.CompanyUserID,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuditoriumNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByCompany returns the auditoriums registered by a company user.
func (r *AuditoriumRepo) ListByCompany(ctx context.Context, companyUserID uint64) ([]model.Auditorium, error) {
	const q = `SELECT id, name, address, max_horizontal, max_vertical, company_user_id, created_at, updated_at
	           FROM auditoriums
	           WHERE company_user_id = ?
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, companyUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Auditorium, 0)
	for rows.Next() {
		var a model.Auditorium
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Address, &a.MaxHorizontal, &a.MaxVertical, &a.CompanyUserID,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
