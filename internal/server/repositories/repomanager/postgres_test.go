package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ideabank/internal/server/repositories/documents"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/submissions"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp), sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestRepositories_ReturnPostgresRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var m RepositoryManager = NewPostgresRepositoryManager(db)
	r := m.Repositories()
	assert.IsType(t, &submissions.PostgresRepository{}, r.Submissions)
	assert.IsType(t, &documents.PostgresRepository{}, r.Documents)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+documents`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+submissions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m := NewPostgresRepositoryManager(db)
	err := m.WithTx(context.Background(), func(ctx context.Context, r Repositories) error {
		if _, err := r.Documents.DeleteBySubmission(ctx, "6f1c2a4e-9a51-4b7e-8d7e-3c0a1f2b9d10"); err != nil {
			return err
		}
		return r.Submissions.Delete(ctx, "6f1c2a4e-9a51-4b7e-8d7e-3c0a1f2b9d10")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	m := NewPostgresRepositoryManager(db)
	err := m.WithTx(context.Background(), func(ctx context.Context, r Repositories) error {
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	assert.NoError(t, m.RunMigrations(context.Background()))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	assert.EqualError(t, m.RunMigrations(context.Background()), "boom")
}

func TestOpenPostgres(t *testing.T) {
	orig := sqlOpen
	defer func() { sqlOpen = orig }()

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := OpenPostgres(context.Background(), "mysql", "dsn")
		assert.ErrorContains(t, err, "unsupported sql driver")
	})

	t.Run("ping ok", func(t *testing.T) {
		db, mock := newDB(t)
		mock.ExpectPing()
		mock.ExpectClose()

		var gotDriver string
		sqlOpen = func(driver, dsn string) (*sql.DB, error) {
			gotDriver = driver
			return db, nil
		}

		m, err := OpenPostgres(context.Background(), "", "postgres://x")
		require.NoError(t, err)
		assert.Equal(t, "pgx", gotDriver)
		assert.NoError(t, m.Close(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping error closes", func(t *testing.T) {
		db, mock := newDB(t)
		mock.ExpectPing().WillReturnError(errors.New("refused"))
		mock.ExpectClose()

		sqlOpen = func(driver, dsn string) (*sql.DB, error) { return db, nil }

		_, err := OpenPostgres(context.Background(), "postgres", "postgres://x")
		assert.ErrorContains(t, err, "db ping error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open error", func(t *testing.T) {
		sqlOpen = func(driver, dsn string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

		_, err := OpenPostgres(context.Background(), "pgx", "::")
		assert.ErrorContains(t, err, "db open error")
	})
}
