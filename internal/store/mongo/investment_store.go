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

// CreateInvestment inserts a pending investment document.
func (s *Store) CreateInvestment(ctx context.Context, inv *model.Investment) error {
	_, err := s.investments.InsertOne(ctx, inv)
	return err
}

// GetInvestment fetches a single investment by id.
func (s *Store) GetInvestment(ctx context.Context, id string) (*model.Investment, error) {
	var inv model.Investment
	err := s.investments.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrInvestmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvestments returns investments matching the filter.  Titles are
// joined in application code: the creator filter first resolves the
// creator's movie ids, and both paths backfill MovieTitle from a
// single movies query.
func (s *Store) ListInvestments(ctx context.Context, f store.InvestmentFilter) ([]model.Investment, error) {
	filter := bson.M{}
	switch {
	case f.CreatorID != "":
		movies, err := s.ListMovies(ctx, store.MovieFilter{CreatorID: f.CreatorID})
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(movies))
		for _, m := range movies {
			ids = append(ids, m.ID)
		}
		filter["movie_id"] = bson.M{"$in": ids}
	case f.InvestorID != "":
		filter["investor_id"] = f.InvestorID
	}

	cur, err := s.investments.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]model.Investment, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}

	// Backfill movie titles.
	idSet := make(map[string]struct{}, len(out))
	for _, inv := range out {
		idSet[inv.MovieID] = struct{}{}
	}
	if len(idSet) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	mcur, err := s.movies.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer mcur.Close(ctx)
	titles := make(map[string]string, len(ids))
	var movies []model.Movie
	if err := mcur.All(ctx, &movies); err != nil {
		return nil, err
	}
	for _, m := range movies {
		titles[m.ID] = m.Title
	}
	for i := range out {
		out[i].MovieTitle = titles[out[i].MovieID]
	}
	return out, nil
}

// ConfirmPayment flips the investment to completed and applies the
// funding increment inside one session transaction, so the two writes
// commit or abort together.  Requires a replica-set deployment.
func (s *Store) ConfirmPayment(ctx context.Context, id, paymentMethod string) (*model.Investment, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var inv model.Investment
		err := s.investments.FindOneAndUpdate(sc,
			bson.M{"_id": id, "payment_status": model.PaymentPending},
			bson.M{"$set": bson.M{
				"payment_status": model.PaymentCompleted,
				"payment_method": paymentMethod,
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&inv)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the id is unknown or the payment is not pending.
			n, cerr := s.investments.CountDocuments(sc, bson.M{"_id": id})
			if cerr != nil {
				return nil, cerr
			}
			if n == 0 {
				return nil, store.ErrInvestmentNotFound
			}
			return nil, store.ErrAlreadyCompleted
		}
		if err != nil {
			return nil, err
		}
		if err := s.applyFunding(sc, s.movies, inv.MovieID, inv.TotalAmount); err != nil {
			return nil, err
		}
		return &inv, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Investment), nil
}
