package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

// CreateMovie inserts a movie.  InvestedAmount is forced to zero.
func (s *Store) CreateMovie(ctx context.Context, m *model.Movie) error {
	m.InvestedAmount = 0
	_, err := s.movies.InsertOne(ctx, m)
	return err
}

// GetMovie fetches a single movie by id.
func (s *Store) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	var m model.Movie
	err := s.movies.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMovies returns movies, optionally restricted to one creator.
func (s *Store) ListMovies(ctx context.Context, f store.MovieFilter) ([]model.Movie, error) {
	filter := bson.M{}
	if f.CreatorID != "" {
		filter["creator_id"] = f.CreatorID
	}
	cur, err := s.movies.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	movies := make([]model.Movie, 0)
	if err := cur.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// UpdateMovie $sets only the non-nil descriptive fields and returns
// the updated document.  The financial fields never appear in the
// update document.
func (s *Store) UpdateMovie(ctx context.Context, id string, upd model.MovieUpdate) (*model.Movie, error) {
	set := bson.M{}
	add := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	add("title", upd.Title)
	add("poster", upd.Poster)
	add("director", upd.Director)
	add("producer", upd.Producer)
	add("singer", upd.Singer)
	add("hero", upd.Hero)
	add("heroine", upd.Heroine)
	if len(set) == 0 {
		return s.GetMovie(ctx, id)
	}
	var m model.Movie
	err := s.movies.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ApplyFunding increments invested_amount with $inc.  The filter
// re-checks the funding target with $expr, so an increment that would
// overshoot matches nothing and the counter is untouched.
func (s *Store) ApplyFunding(ctx context.Context, id string, delta float64) error {
	return s.applyFunding(ctx, s.movies, id, delta)
}

func (s *Store) applyFunding(ctx context.Context, col *mongo.Collection, id string, delta float64) error {
	res, err := col.UpdateOne(ctx,
		bson.M{
			"_id": id,
			"$expr": bson.M{"$lte": bson.A{
				bson.M{"$add": bson.A{"$invested_amount", delta}},
				"$total_amount",
			}},
		},
		bson.M{"$inc": bson.M{"invested_amount": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrMovieNotFound
		}
		return store.ErrFundingExceeded
	}
	return nil
}
