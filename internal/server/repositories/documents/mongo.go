package documents

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

type documentDoc struct {
	SubmissionID string    `bson:"submission_id"`
	FileName     string    `bson:"file_name"`
	StorageKey   string    `bson:"storage_key,omitempty"`
	Mirror       string    `bson:"mirror"`
	Status       string    `bson:"status"`
	Error        string    `bson:"error,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

// MongoRepository implements Repository over a MongoDB collection. Its
// documents carry no numeric id, so Document.ID stays zero.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(coll *mongo.Collection, now func() time.Time) *MongoRepository {
	if now == nil {
		now = time.Now
	}
	return &MongoRepository{coll: coll, now: now}
}

func (r *MongoRepository) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	out := *d
	out.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	_, err := r.coll.InsertOne(ctx, documentDoc{
		SubmissionID: out.SubmissionID,
		FileName:     out.FileName,
		StorageKey:   out.StorageKey,
		Mirror:       out.Mirror,
		Status:       string(out.Status),
		Error:        out.Error,
		CreatedAt:    out.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *MongoRepository) ListBySubmission(ctx context.Context, submissionID string) ([]*models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"submission_id": submissionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cur.Close(ctx)

	result := []*models.Document{}
	for cur.Next(ctx) {
		var doc documentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, &models.Document{
			SubmissionID: doc.SubmissionID,
			FileName:     doc.FileName,
			StorageKey:   doc.StorageKey,
			Mirror:       doc.Mirror,
			Status:       models.DocumentStatus(doc.Status),
			Error:        doc.Error,
			CreatedAt:    doc.CreatedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoRepository) DeleteBySubmission(ctx context.Context, submissionID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"submission_id": submissionID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", err)
	}
	return res.DeletedCount, nil
}
