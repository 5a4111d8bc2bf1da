package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaderlpay/backend/internal/model"
)

type pgSchoolRepository struct {
	pool *pgxpool.Pool
}

// NewPgSchoolRepository returns a PostgreSQL-backed SchoolRepository.
func NewPgSchoolRepository(pool *pgxpool.Pool) SchoolRepository {
	return &pgSchoolRepository{pool: pool}
}

func (r *pgSchoolRepository) GetSchool(ctx context.Context, id string) (*model.School, error) {
	s := &model.School{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, code, approved, created_at, updated_at
		 FROM schools WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Code, &s.Approved, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *pgSchoolRepository) CreateApplication(ctx context.Context, a *model.SchoolApplication) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO school_applications (applicant_id, school_name, contact, status)
		 VALUES ($1, $2, NULLIF($3,''), 'pending')
		 RETURNING id, status, created_at, updated_at`,
		a.ApplicantID, a.SchoolName, a.Contact,
	).Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
}

func scanApplication(scan func(...any) error) (*model.SchoolApplication, error) {
	a := &model.SchoolApplication{}
	return a, scan(
		&a.ID, &a.ApplicantID, &a.SchoolName, &a.Contact, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
}

const applicationSelectCols = `id, applicant_id, school_name, COALESCE(contact, ''),
	status, created_at, updated_at`

func (r *pgSchoolRepository) GetApplication(ctx context.Context, id string) (*model.SchoolApplication, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+applicationSelectCols+` FROM school_applications WHERE id = $1`, id)
	a, err := scanApplication(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *pgSchoolRepository) ListApplications(ctx context.Context, status string, limit, offset int) ([]*model.SchoolApplication, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+applicationSelectCols+` FROM school_applications
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.SchoolApplication
	for rows.Next() {
		a, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Approve runs the whole approval as one transaction: create the school, mark
// the application approved, grant the applicant school-admin access. A
// partial application of these writes is an invariant violation.
func (r *pgSchoolRepository) Approve(ctx context.Context, applicationID, schoolCode string) (*model.School, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+applicationSelectCols+` FROM school_applications
		 WHERE id = $1 FOR UPDATE`, applicationID)
	app, err := scanApplication(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if app.Status != model.ApplicationPending {
		return nil, ErrDuplicate
	}

	school := &model.School{Name: app.SchoolName, Code: schoolCode, Approved: true}
	err = tx.QueryRow(ctx,
		`INSERT INTO schools (name, code, approved) VALUES ($1, $2, TRUE)
		 RETURNING id, created_at, updated_at`,
		school.Name, school.Code,
	).Scan(&school.ID, &school.CreatedAt, &school.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE school_applications SET status = 'approved', updated_at = NOW()
		 WHERE id = $1`, applicationID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET role = $2, school_id = $3, updated_at = NOW()
		 WHERE id = $1`,
		app.ApplicantID, string(model.RoleSchoolAdmin), school.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return school, nil
}

func (r *pgSchoolRepository) Reject(ctx context.Context, applicationID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE school_applications SET status = 'rejected', updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`, applicationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
