package documents

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ideabank/internal/dbx"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts d and returns it with the id and timestamp set by the database.
func (r *PostgresRepository) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	query := `INSERT INTO documents (submission_id, file_name, storage_key, mirror, status, error)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	out := *d
	err := r.db.QueryRowContext(ctx, query, d.SubmissionID, d.FileName, d.StorageKey, d.Mirror, d.Status, d.Error).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) ListBySubmission(ctx context.Context, submissionID string) ([]*models.Document, error) {
	query := `SELECT id, submission_id, file_name, storage_key, mirror, status, error, created_at
		FROM documents WHERE submission_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	result := []*models.Document{}
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.SubmissionID, &d.FileName, &d.StorageKey, &d.Mirror, &d.Status, &d.Error, &d.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBySubmission removes every log row of a submission and returns how many went.
func (r *PostgresRepository) DeleteBySubmission(ctx context.Context, submissionID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE submission_id = $1`, submissionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
