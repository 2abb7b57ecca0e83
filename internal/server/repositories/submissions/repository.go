// Package submissions persists idea submissions. Two stores implement
// Repository: PostgreSQL through database/sql and MongoDB.
package submissions

import (
	"context"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

// Repository is the Record Store contract. Lookups of unknown or malformed
// ids fail with common.ErrorNotFound.
type Repository interface {
	// Create stores s. The store assigns ID, CreatedAt and UpdatedAt, sets
	// Status to Pending and Votes to 0, and returns the stored record.
	Create(ctx context.Context, s *models.Submission) (*models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, f models.Filter) ([]*models.Submission, error)
	// Update applies the non-nil fields of u, bumps UpdatedAt and returns
	// the updated record.
	Update(ctx context.Context, id string, u models.SubmissionUpdate) (*models.Submission, error)
	// IncrementVotes adds one vote and returns the new total.
	IncrementVotes(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
}
