// Package store persists articles in MongoDB keyed by source URL.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"kpnews/internal/article"
)

// Config locates the articles collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Mongo implements upsert-by-source-URL persistence and the read-side
// recent query over one collection.
type Mongo struct {
	client   *mongo.Client
	articles *mongo.Collection
}

// Connect dials MongoDB, verifies it with a ping, and ensures the
// collection indexes. An unreachable store at startup is an
// unrecoverable configuration error for the caller.
func Connect(ctx context.Context, cfg Config) (*Mongo, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	m := &Mongo{
		client:   client,
		articles: client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// ensureIndexes creates the unique source_url index that enforces the
// one-record-per-URL invariant, plus the publication_datetime index
// backing descending-time reads.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := m.articles.Indexes().CreateMany(idxCtx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "source_url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "publication_datetime", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Upsert replaces the stored document for a.SourceURL wholesale, or
// inserts it. The unique index, not read-then-write logic, is the
// enforcement point for uniqueness.
func (m *Mongo) Upsert(ctx context.Context, a article.Article) error {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.articles.ReplaceOne(opCtx,
		bson.M{"source_url": a.SourceURL},
		a,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", a.SourceURL, err)
	}
	return nil
}

// Recent returns up to limit articles ordered by publication_datetime
// descending.
func (m *Mongo) Recent(ctx context.Context, limit int) ([]article.Article, error) {
	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "publication_datetime", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 0})
	cursor, err := m.articles.Find(opCtx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent: %w", err)
	}
	defer func() {
		_ = cursor.Close(opCtx)
	}()

	var out []article.Article
	if err := cursor.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode recent: %w", err)
	}
	return out, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}
