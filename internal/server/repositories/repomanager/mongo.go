package repomanager

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dmitrijs2005/ideabank/internal/server/repositories/documents"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/submissions"
)

// DocumentsCollection holds the mirror log next to the submissions collection.
const DocumentsCollection = "documents"

// MongoRepositoryManager vends MongoDB-backed repositories. MongoDB only
// guarantees single-document atomicity here, so WithTx does not open a
// session transaction.
type MongoRepositoryManager struct {
	client      *mongo.Client
	submissions *mongo.Collection
	documents   *mongo.Collection
	now         func() time.Time
}

func NewMongoRepositoryManager(client *mongo.Client, database, collection string, now func() time.Time) *MongoRepositoryManager {
	db := client.Database(database)
	return &MongoRepositoryManager{
		client:      client,
		submissions: db.Collection(collection),
		documents:   db.Collection(DocumentsCollection),
		now:         now,
	}
}

// OpenMongo connects to uri and verifies the connection.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}
	return NewMongoRepositoryManager(client, database, collection, time.Now), nil
}

func (m *MongoRepositoryManager) Repositories() Repositories {
	return Repositories{
		Submissions: submissions.NewMongoRepository(m.submissions, m.now),
		Documents:   documents.NewMongoRepository(m.documents, m.now),
	}
}

func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return fn(ctx, m.Repositories())
}

// RunMigrations creates the indexes used by listing and filtering.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	_, err := m.submissions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create submission indexes: %w", err)
	}
	_, err = m.documents.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "submission_id", Value: 1}}})
	if err != nil {
		return fmt.Errorf("create document indexes: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
