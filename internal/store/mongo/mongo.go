// Package mongo implements store.Store on top of MongoDB.  Funding
// updates use $inc so the increment happens inside the server, and
// payment confirmation runs in a session transaction, which requires
// the deployment to be a replica set.
package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/utils"
)

// Store wraps the client and the collections the service touches.
type Store struct {
	client        *mongo.Client
	users         *mongo.Collection
	movies        *mongo.Collection
	investments   *mongo.Collection
	notifications *mongo.Collection
}

// Open connects to MongoDB and verifies the connection.
func Open(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client:        client,
		users:         db.Collection("users"),
		movies:        db.Collection("movies"),
		investments:   db.Collection("investments"),
		notifications: db.Collection("notifications"),
	}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// EnsureIndexes creates the unique and lookup indexes the queries rely
// on.  Index creation is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := []struct {
		col    *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		}},
		{s.movies, []mongo.IndexModel{
			{Keys: bson.D{{Key: "creator_id", Value: 1}}},
		}},
		{s.investments, []mongo.IndexModel{
			{Keys: bson.D{{Key: "movie_id", Value: 1}}},
			{Keys: bson.D{{Key: "investor_id", Value: 1}}},
		}},
		{s.notifications, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		}},
	}
	for _, spec := range specs {
		if _, err := spec.col.Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}

// Seed inserts demo users, movies and investments when the users
// collection is empty.  The seeded investments are completed and the
// movie totals already reflect them.
func (s *Store) Seed(ctx context.Context, bcryptCost int) error {
	count, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("seed count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	log.Println("seeding sample data")

	hash, err := utils.HashPassword("password123", bcryptCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	users := []interface{}{
		model.User{ID: "1", Username: "investor1", Email: "investor1@example.com", PasswordHash: hash, Role: model.RoleInvestor, CreatedAt: now},
		model.User{ID: "2", Username: "creator1", Email: "creator1@example.com", PasswordHash: hash, Role: model.RoleCreator, CreatedAt: now},
	}
	if _, err := s.users.InsertMany(ctx, users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	movies := []interface{}{
		model.Movie{ID: "1", Title: "The Last Adventure", Poster: "https://via.placeholder.com/300x450/1f2937/ffffff?text=The+Last+Adventure",
			Director: "John Director", Producer: "Jane Producer", Singer: "Music Artist", Hero: "Hero Actor", Heroine: "Heroine Actress",
			TotalAmount: 1000000, InvestedAmount: 5000, StockPrice: 100, CreatorID: "2", CreatedAt: now},
		model.Movie{ID: "2", Title: "Future Dreams", Poster: "https://via.placeholder.com/300x450/1f2937/ffffff?text=Future+Dreams",
			Director: "Sarah Director", Producer: "Mike Producer", Singer: "Pop Singer", Hero: "Star Actor", Heroine: "Star Actress",
			TotalAmount: 2000000, InvestedAmount: 7500, StockPrice: 150, CreatorID: "2", CreatedAt: now},
		model.Movie{ID: "3", Title: "Mountain Journey", Poster: "https://via.placeholder.com/300x450/1f2937/ffffff?text=Mountain+Journey",
			Director: "David Director", Producer: "Lisa Producer", Singer: "Rock Band", Hero: "Lead Actor", Heroine: "Lead Actress",
			TotalAmount: 1500000, InvestedAmount: 0, StockPrice: 120, CreatorID: "2", CreatedAt: now},
	}
	if _, err := s.movies.InsertMany(ctx, movies); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	investments := []interface{}{
		model.Investment{ID: "1", MovieID: "1", InvestorID: "1", TotalAmount: 5000, StockCount: 50, StockPrice: 100,
			PaymentStatus: model.PaymentCompleted, PaymentMethod: "bank_transfer", CreatedAt: now},
		model.Investment{ID: "2", MovieID: "2", InvestorID: "1", TotalAmount: 7500, StockCount: 50, StockPrice: 150,
			PaymentStatus: model.PaymentCompleted, PaymentMethod: "upi", CreatedAt: now},
	}
	if _, err := s.investments.InsertMany(ctx, investments); err != nil {
		return fmt.Errorf("seed investments: %w", err)
	}
	return nil
}
