// Package repomanager owns the connection lifecycle of the Record Store and
// vends the repositories bound to it. One manager is built at start-up and
// passed to every collaborator that needs storage.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/ideabank/internal/server/repositories/documents"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/submissions"
)

// Repositories groups the repositories bound to one handle, either the
// shared connection or a transaction.
type Repositories struct {
	Submissions submissions.Repository
	Documents   documents.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Repositories() Repositories
	// WithTx runs fn with repositories bound to a single unit of work.
	// Stores without multi-document transactions run fn directly.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
