// Package documents keeps the log of document mirror attempts made for
// each submission.
package documents

import (
	"context"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.Document) (*models.Document, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]*models.Document, error)
	DeleteBySubmission(ctx context.Context, submissionID string) (int64, error)
}
