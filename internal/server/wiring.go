package server

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/ideabank/internal/server/config"
	"github.com/dmitrijs2005/ideabank/internal/server/mirror"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/repomanager"
)

// Seams for testing the store connectors.
var (
	openPostgres = func(ctx context.Context, driver, dsn string) (repomanager.RepositoryManager, error) {
		m, err := repomanager.OpenPostgres(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	openMongo = func(ctx context.Context, uri, database, collection string) (repomanager.RepositoryManager, error) {
		m, err := repomanager.OpenMongo(ctx, uri, database, collection)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
)

// OpenStore connects the Record Store selected by c.StoreDriver.
func OpenStore(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StoreDriver {
	case config.StorePostgres, "":
		return openPostgres(ctx, c.SQLDriver, c.DatabaseDSN)
	case config.StoreMongo:
		return openMongo(ctx, c.MongoURI, c.MongoDatabase, c.MongoCollection)
	}
	return nil, fmt.Errorf("unsupported store driver %q", c.StoreDriver)
}

// NewMirror builds the File Mirror selected by c.MirrorDriver. "none"
// yields mirror.Disabled.
func NewMirror(ctx context.Context, c *config.Config) (mirror.Mirror, error) {
	switch c.MirrorDriver {
	case config.MirrorNone, "":
		return mirror.Disabled{}, nil
	case config.MirrorS3:
		m, err := mirror.NewS3Mirror(ctx, mirror.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.MirrorGCS:
		m, err := mirror.NewGCSMirror(ctx, mirror.GCSConfig{
			Bucket:          c.GCSBucket,
			CredentialsFile: c.GCSCredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.MirrorFS:
		m, err := mirror.NewFSMirror(c.FSMirrorRoot)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported mirror driver %q", c.MirrorDriver)
}

// CloseMirror releases the client held by mirrors that own one.
func CloseMirror(m mirror.Mirror) error {
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
