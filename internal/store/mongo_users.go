package store

import (
	"context"
	"errors"

	"github.com/Rithari/url-shortener/internal/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := m.users.InsertOne(ctx, mongoUser{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return users.ErrAlreadyExists
	}

	return err
}

func (m *MongoStore) FindUserByID(ctx context.Context, id string) (*users.User, error) {
	return m.findUser(ctx, bson.M{"_id": id})
}

func (m *MongoStore) FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

func (m *MongoStore) ListUsers(ctx context.Context) ([]*users.User, error) {
	cursor, err := m.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	list := make([]*users.User, 0, len(docs))
	for _, doc := range docs {
		list = append(list, &users.User{ID: doc.ID, Email: doc.Email, CreatedAt: doc.CreatedAt})
	}

	return list, nil
}

func (m *MongoStore) findUser(ctx context.Context, filter bson.M) (*users.User, error) {
	var doc mongoUser

	if err := m.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrNotFound
		}

		return nil, err
	}

	return &users.User{ID: doc.ID, Email: doc.Email, CreatedAt: doc.CreatedAt}, nil
}
