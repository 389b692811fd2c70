package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/checksum"
	"github.com/starford/fehu/internal/models"
)

const artifactCollection = "artifacts"

// Mongo implements Provider on a MongoDB collection, mirroring the record
// layout of the original deployment (one document per artifact, blob inline).
type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

// OpenMongo connects, pings, and returns a Mongo store.
func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store: ping mongo: %w", err)
	}
	return &Mongo{
		client: client,
		col:    client.Database(database).Collection(artifactCollection),
	}, nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Ping implements Provider.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

type artifactDoc struct {
	ID          string           `bson:"_id"`
	Filename    string           `bson:"filename"`
	ContentType string           `bson:"contentType"`
	Data        primitive.Binary `bson:"data"`
	SourceData  string           `bson:"sourceData,omitempty"`
	Checksum    string           `bson:"checksum"`
	CreatedAt   time.Time        `bson:"createdAt"`
}

// Put inserts one document; the insert is atomic by MongoDB semantics.
func (m *Mongo) Put(ctx context.Context, in PutInput) (uuid.UUID, error) {
	id := uuid.New()
	doc := artifactDoc{
		ID:          id.String(),
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Data:        primitive.Binary{Data: in.Data},
		SourceData:  string(in.SourceData),
		Checksum:    checksum.Sum(in.Data),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return uuid.Nil, fmt.Errorf("store: insert artifact: %w", err)
	}
	return id, nil
}

// Get implements Provider.
func (m *Mongo) Get(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	var doc artifactDoc
	err := m.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get artifact: %w", err)
	}
	a := &models.Artifact{
		ID:          id,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Data:        doc.Data.Data,
		Checksum:    doc.Checksum,
		CreatedAt:   doc.CreatedAt,
	}
	if doc.SourceData != "" {
		a.SourceData = []byte(doc.SourceData)
	}
	if !checksum.Verify(a.Data, a.Checksum) {
		return nil, fmt.Errorf("store: artifact %s failed checksum verification", id)
	}
	return a, nil
}

// List implements Provider, with a metadata-only projection so blobs are
// never pulled for a listing.
func (m *Mongo) List(ctx context.Context) ([]models.ArtifactSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"filename": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.ArtifactSummary{}
	for cur.Next(ctx) {
		var doc artifactDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("store: decode summary: %w", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("store: corrupt id %q: %w", doc.ID, err)
		}
		out = append(out, models.ArtifactSummary{
			ID:        id,
			Filename:  doc.Filename,
			CreatedAt: doc.CreatedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w", err)
	}
	return out, nil
}

var _ Provider = (*Mongo)(nil)
