package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/dbx"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

const columns = `id, title, author, email, unit, category, priority, status, impact, description,
	justification, resources, benefits, timeline, budget, owner, tags, votes, created_at, updated_at`

var orderBy = map[models.SortOrder]string{
	models.SortNewest: "created_at DESC",
	models.SortOldest: "created_at ASC",
	models.SortTitle:  "title ASC, created_at DESC",
	models.SortAuthor: "author ASC, created_at DESC",
	models.SortVotes:  "votes DESC, created_at DESC",
}

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*models.Submission, error) {
	var s models.Submission
	var tags []string
	err := row.Scan(&s.ID, &s.Title, &s.Author, &s.Email, &s.Unit, &s.Category, &s.Priority, &s.Status,
		&s.Impact, &s.Description, &s.Justification, &s.Resources, &s.Benefits, &s.Timeline, &s.Budget,
		&s.Owner, pq.Array(&tags), &s.Votes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Tags = tags
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return &s, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `INSERT INTO submissions (title, author, email, unit, category, priority, status, impact, description,
		justification, resources, benefits, timeline, budget, owner, tags, votes)
		VALUES ($1, $2, $3, $4, $5, $6, 'Pending', $7, $8, $9, $10, $11, $12, $13, $14, $15, 0)
		RETURNING ` + columns

	row := r.db.QueryRowContext(ctx, query,
		s.Title, s.Author, s.Email, s.Unit, s.Category, s.EffectivePriority(), s.Impact, s.Description,
		s.Justification, s.Resources, s.Benefits, s.Timeline, s.Budget, s.Owner, pq.Array(tags))

	created, err := scanSubmission(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + columns + ` FROM submissions WHERE id = $1`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select submission: %w", err)
	}
	return s, nil
}

// List returns the submissions matching f, newest first unless f.Sort says otherwise.
func (r *PostgresRepository) List(ctx context.Context, f models.Filter) ([]*models.Submission, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Author != "" {
		add("author = $%d", f.Author)
	}
	if !f.Since.IsZero() {
		add("created_at >= $%d", f.Since)
	}

	order, ok := orderBy[f.Sort]
	if !ok {
		order = orderBy[models.SortNewest]
	}

	query := `SELECT ` + columns + ` FROM submissions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select submissions: %w", err)
	}
	defer rows.Close()

	result := []*models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, u models.SubmissionUpdate) (*models.Submission, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if u.Priority != nil {
		add("priority", *u.Priority)
	}
	if u.Owner != nil {
		add("owner", *u.Owner)
	}
	set = append(set, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE submissions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), columns)

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) IncrementVotes(ctx context.Context, id string) (int64, error) {
	if !validID(id) {
		return 0, common.ErrorNotFound
	}

	query := `UPDATE submissions SET votes = votes + 1, updated_at = now() WHERE id = $1 RETURNING votes`
	var votes int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&votes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment votes: %w", err)
	}
	return votes, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	query := `SELECT category, count(*) FROM submissions GROUP BY category ORDER BY count(*) DESC, category ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	defer rows.Close()

	result := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
