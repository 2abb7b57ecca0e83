package submissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
)

// submissionDoc is the BSON shape of a submission.
type submissionDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	Email         string             `bson:"email,omitempty"`
	Unit          string             `bson:"unit,omitempty"`
	Category      string             `bson:"category"`
	Priority      string             `bson:"priority"`
	Status        string             `bson:"status"`
	Impact        string             `bson:"impact,omitempty"`
	Description   string             `bson:"description"`
	Justification string             `bson:"justification,omitempty"`
	Resources     string             `bson:"resources,omitempty"`
	Benefits      string             `bson:"benefits,omitempty"`
	Timeline      string             `bson:"timeline,omitempty"`
	Budget        string             `bson:"budget,omitempty"`
	Owner         string             `bson:"owner,omitempty"`
	Tags          []string           `bson:"tags"`
	Votes         int64              `bson:"votes"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *submissionDoc) model() *models.Submission {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Submission{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		Email:         d.Email,
		Unit:          d.Unit,
		Category:      models.Category(d.Category),
		Priority:      models.Priority(d.Priority),
		Status:        models.Status(d.Status),
		Impact:        d.Impact,
		Description:   d.Description,
		Justification: d.Justification,
		Resources:     d.Resources,
		Benefits:      d.Benefits,
		Timeline:      d.Timeline,
		Budget:        d.Budget,
		Owner:         d.Owner,
		Tags:          tags,
		Votes:         d.Votes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

var sortFields = map[models.SortOrder]bson.D{
	models.SortNewest: {{Key: "created_at", Value: -1}},
	models.SortOldest: {{Key: "created_at", Value: 1}},
	models.SortTitle:  {{Key: "title", Value: 1}, {Key: "created_at", Value: -1}},
	models.SortAuthor: {{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
	models.SortVotes:  {{Key: "votes", Value: -1}, {Key: "created_at", Value: -1}},
}

// MongoRepository implements Repository over a MongoDB collection.
// Single-document writes are atomic; there are no cross-document transactions.
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

// timestamp is the current time at BSON datetime precision.
func (r *MongoRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.ErrorNotFound
	}
	return oid, nil
}

func (r *MongoRepository) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	ts := r.timestamp()
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	doc := submissionDoc{
		Title:         s.Title,
		Author:        s.Author,
		Email:         s.Email,
		Unit:          s.Unit,
		Category:      string(s.Category),
		Priority:      string(s.EffectivePriority()),
		Status:        string(models.StatusPending),
		Impact:        s.Impact,
		Description:   s.Description,
		Justification: s.Justification,
		Resources:     s.Resources,
		Benefits:      s.Benefits,
		Timeline:      s.Timeline,
		Budget:        s.Budget,
		Owner:         s.Owner,
		Tags:          tags,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.model(), nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc submissionDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) List(ctx context.Context, f models.Filter) ([]*models.Submission, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Author != "" {
		filter["author"] = f.Author
	}
	if !f.Since.IsZero() {
		filter["created_at"] = bson.M{"$gte": f.Since}
	}

	sort, ok := sortFields[f.Sort]
	if !ok {
		sort = sortFields[models.SortNewest]
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	defer cur.Close(ctx)

	result := []*models.Submission{}
	for cur.Next(ctx) {
		var doc submissionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, u models.SubmissionUpdate) (*models.Submission, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": r.timestamp()}
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}
	if u.Priority != nil {
		set["priority"] = string(*u.Priority)
	}
	if u.Owner != nil {
		set["owner"] = *u.Owner
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc submissionDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) IncrementVotes(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	update := bson.M{
		"$inc": bson.M{"votes": 1},
		"$set": bson.M{"updated_at": r.timestamp()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"votes": 1})

	var doc struct {
		Votes int64 `bson:"votes"`
	}
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, common.ErrorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment votes: %w", err)
	}
	return doc.Votes, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	defer cur.Close(ctx)

	result := []models.CategoryCount{}
	for cur.Next(ctx) {
		var row struct {
			Category string `bson:"_id"`
			Count    int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result = append(result, models.CategoryCount{Category: row.Category, Count: row.Count})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
