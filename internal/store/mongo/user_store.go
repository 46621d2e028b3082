package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

// CreateUser inserts a user.  The existence check matches username OR
// email, mirroring the unique indexes; a duplicate-key race between the
// check and the insert is also mapped to store.ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	n, err := s.users.CountDocuments(ctx, bson.M{
		"$or": []bson.M{{"username": u.Username}, {"email": u.Email}},
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return store.ErrUserExists
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrUserExists
		}
		return err
	}
	return nil
}

// GetUserByUsername fetches a user by exact username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every user document.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	cur, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	users := make([]model.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
