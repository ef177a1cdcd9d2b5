package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hu6r1s/tickitecking/internal/model"
)

// ConcertRepo provides CRUD operations for concerts.  Ownership is a
// service-level concern; the repository only persists and retrieves
// rows.  All timestamps are stored in UTC.
type ConcertRepo struct {
	db *sql.DB
}

// NewConcertRepo returns a new ConcertRepo bound to the given database.
func NewConcertRepo(db *sql.DB) *ConcertRepo { return &ConcertRepo{db: db} }

// Create inserts a concert and populates its generated ID.
func (r *ConcertRepo) Create(ctx context.Context, c *model.Concert) error {
	const q = `INSERT INTO concerts (name, description, start_time, company_user_id, auditorium_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Description, c.StartTime.UTC(), c.CompanyUserID, c.AuditoriumID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// FindByID retrieves a concert by primary key.  Returns
// ErrConcertNotFound when no row exists.
func (r *ConcertRepo) FindByID(ctx context.Context, id uint64) (*model.Concert, error) {
	const q = `SELECT id, name, description, start_time, company_user_id, auditorium_id, created_at, updated_at
	           FROM concerts WHERE id = ?`
	var c model.Concert
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.StartTime, &c.CompanyUserID, &c.AuditoriumID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConcertNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll lists every concert, soonest start time first.
func (r *ConcertRepo) FindAll(ctx context.Context) ([]model.Concert, error) {
	const q = `SELECT id, name, description, start_time, company_user_id, auditorium_id, created_at, updated_at
	           FROM concerts
	           ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Concert, 0)
	for rows.Next() {
		var c model.Concert
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.StartTime, &c.CompanyUserID, &c.AuditoriumID,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a concert.  Returns
// ErrConcertNotFound when the row does not exist.
func (r *ConcertRepo) Update(ctx context.Context, c *model.Concert) error {
	const q = `UPDATE concerts
	           SET name = ?, description = ?, start_time = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Description, c.StartTime.UTC(), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM concerts WHERE id = ?`, c.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrConcertNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a concert together with its seat grid in a single
// transaction.  The caller must have verified that no active
// reservations remain.  Returns ErrConcertNotFound when the concert
// does not exist.
func (r *ConcertRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE concert_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM concerts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConcertNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
