package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	linksCollection = "short_urls"
	usersCollection = "users"

	shortCodeIndex   = "short_code_unique"
	longURLHashIndex = "long_url_hash_unique"
	emailIndex       = "email_unique"
)

var (
	_ shortener.Repository = (*MongoStore)(nil)
	_ users.Repository     = (*MongoStore)(nil)
)

type mongoLink struct {
	Code        string    `bson:"shortCode"`
	LongURL     string    `bson:"longUrl"`
	LongURLHash string    `bson:"longUrlHash"`
	UserID      string    `bson:"userId"`
	CreatedAt   time.Time `bson:"createdAt"`
	HitCount    int64     `bson:"hitCount"`
}

func (d mongoLink) toShortLink() *shortener.ShortLink {
	return &shortener.ShortLink{
		Code:      shortener.Code(d.Code),
		LongURL:   d.LongURL,
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt,
		HitCount:  d.HitCount,
	}
}

type mongoUser struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MongoStore is a MongoDB implementation of shortener.Repository and users.Repository.
type MongoStore struct {
	client *mongo.Client
	links  *mongo.Collection
	users  *mongo.Collection
}

// NewMongoStore creates a store over database. The store owns the client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)

	return &MongoStore{
		client: client,
		links:  db.Collection(linksCollection),
		users:  db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.links.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shortCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(shortCodeIndex),
		},
		{
			Keys:    bson.D{{Key: "longUrlHash", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(longURLHashIndex),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "hitCount", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndex),
	})

	return err
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Shutdown disconnects the client.
func (m *MongoStore) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}

func (m *MongoStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	_, err := m.links.InsertOne(ctx, mongoLink{
		Code:        string(link.Code),
		LongURL:     link.LongURL,
		LongURLHash: string(shortener.HashURL(link.LongURL)),
		UserID:      link.UserID,
		CreatedAt:   link.CreatedAt,
		HitCount:    link.HitCount,
	})
	if mongo.IsDuplicateKeyError(err) {
		switch {
		case strings.Contains(err.Error(), longURLHashIndex):
			return shortener.ErrURLTaken
		case strings.Contains(err.Error(), shortCodeIndex):
			return shortener.ErrCodeTaken
		}
	}

	return err
}

func (m *MongoStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	return m.findLink(ctx, bson.M{"shortCode": string(code)})
}

func (m *MongoStore) FindByLongURL(ctx context.Context, longURL string) (*shortener.ShortLink, error) {
	return m.findLink(ctx, bson.M{
		"longUrlHash": string(shortener.HashURL(longURL)),
		"longUrl":     longURL,
	})
}

func (m *MongoStore) FindByUser(ctx context.Context, userID string) ([]*shortener.ShortLink, error) {
	return m.findLinks(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (m *MongoStore) FindAll(ctx context.Context) ([]*shortener.ShortLink, error) {
	return m.findLinks(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (m *MongoStore) TopByHits(ctx context.Context, n int) ([]*shortener.ShortLink, error) {
	if n <= 0 {
		return make([]*shortener.ShortLink, 0), nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "hitCount", Value: -1}, {Key: "createdAt", Value: 1}}).
		SetLimit(int64(n))

	return m.findLinks(ctx, bson.M{}, opts)
}

func (m *MongoStore) IncrementHitCount(ctx context.Context, code shortener.Code) error {
	_, err := m.links.UpdateOne(ctx,
		bson.M{"shortCode": string(code)},
		bson.M{"$inc": bson.M{"hitCount": 1}},
	)

	return err
}

func (m *MongoStore) findLink(ctx context.Context, filter bson.M) (*shortener.ShortLink, error) {
	var doc mongoLink

	if err := m.links.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return doc.toShortLink(), nil
}

func (m *MongoStore) findLinks(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*shortener.ShortLink, error) {
	cursor, err := m.links.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []mongoLink
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	links := make([]*shortener.ShortLink, 0, len(docs))
	for _, doc := range docs {
		links = append(links, doc.toShortLink())
	}

	return links, nil
}
