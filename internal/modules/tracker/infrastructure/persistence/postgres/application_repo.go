package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/captainhq/captain-backend/internal/modules/tracker/domain"
)

type PgApplicationRepository struct {
	db *sqlx.DB
}

func NewPgApplicationRepository(db *sqlx.DB) *PgApplicationRepository {
	return &PgApplicationRepository{db: db}
}

const insertQuery = `
	INSERT INTO applications (
		id, user_id, company, position, status, applied_date, job_description,
		resume, notes, location, salary, application_url, source, tags,
		recruiter_name, recruiter_email, recruiter_phone, keywords, created_at, updated_at
	) VALUES (
		:id, :user_id, :company, :position, :status, :applied_date, :job_description,
		:resume, :notes, :location, :salary, :application_url, :source, :tags,
		:recruiter_name, :recruiter_email, :recruiter_phone, :keywords, :created_at, :updated_at
	)
`

func (r *PgApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	_, err := r.db.NamedExecContext(ctx, insertQuery, app)
	return err
}

func (r *PgApplicationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Application, error) {
	query := `
		SELECT * FROM applications
		WHERE user_id = $1
		ORDER BY applied_date DESC, created_at DESC
	`
	var apps []domain.Application
	if err := r.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *PgApplicationRepository) GetByID(ctx context.Context, id string, userID uuid.UUID) (*domain.Application, error) {
	app := &domain.Application{}
	query := `SELECT * FROM applications WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, app, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *PgApplicationRepository) Update(ctx context.Context, app *domain.Application) error {
	query := `
		UPDATE applications SET
			company = :company, position = :position, status = :status,
			applied_date = :applied_date, job_description = :job_description,
			resume = :resume, notes = :notes, location = :location,
			salary = :salary, application_url = :application_url, source = :source,
			tags = :tags, recruiter_name = :recruiter_name,
			recruiter_email = :recruiter_email, recruiter_phone = :recruiter_phone,
			keywords = :keywords, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`
	res, err := r.db.NamedExecContext(ctx, query, app)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *PgApplicationRepository) Delete(ctx context.Context, id string, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// ReplaceAll swaps the user's whole collection atomically.
func (r *PgApplicationRepository) ReplaceAll(ctx context.Context, userID uuid.UUID, apps []domain.Application) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for i := range apps {
			apps[i].UserID = userID
			if _, err := tx.NamedExecContext(ctx, insertQuery, &apps[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertMany appends records atomically.
func (r *PgApplicationRepository) InsertMany(ctx context.Context, userID uuid.UUID, apps []domain.Application) error {
	if len(apps) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		for i := range apps {
			apps[i].UserID = userID
			if _, err := tx.NamedExecContext(ctx, insertQuery, &apps[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PgApplicationRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
