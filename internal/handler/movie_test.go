package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-crowdfund/internal/handler"
	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store/memory"
)

func seedMovie(t *testing.T, st *memory.Store, id, creatorID string, total, price float64) {
	t.Helper()
	require.NoError(t, st.CreateMovie(context.Background(), &model.Movie{
		ID:          id,
		Title:       "Seeded " + id,
		TotalAmount: total,
		StockPrice:  price,
		CreatorID:   creatorID,
		CreatedAt:   time.Now().UTC(),
	}))
}

func TestCreateMovieRoundTrip(t *testing.T) {
	st := memory.New()
	h := handler.NewMovieHandler(st)
	e := echo.New()

	body := `{"title":"First Light","director":"R. Rao","total_amount":1000000,"stock_price":100,"creator_id":"creator-1"}`
	rec, c := doJSON(t, e, http.MethodPost, "/api/movies", body)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var created model.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "First Light", created.Title)
	assert.Equal(t, 0.0, created.InvestedAmount)

	rec, c = doJSON(t, e, http.MethodGet, "/api/movies/"+created.ID, "")
	c.SetPath("/api/movies/:id")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "First Light", got.Title)
}

func TestCreateMovieValidation(t *testing.T) {
	h := handler.NewMovieHandler(memory.New())
	e := echo.New()

	for _, body := range []string{
		`{"total_amount":1000,"stock_price":10}`,
		`{"title":"No Target","total_amount":0,"stock_price":10}`,
		`{"title":"No Price","total_amount":1000,"stock_price":0}`,
	} {
		rec, c := doJSON(t, e, http.MethodPost, "/api/movies", body)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	h := handler.NewMovieHandler(memory.New())
	e := echo.New()

	rec, c := doJSON(t, e, http.MethodGet, "/api/movies/missing", "")
	c.SetPath("/api/movies/:id")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Movie not found", decodeBody(t, rec)["error"])
}

func TestListMoviesByCreator(t *testing.T) {
	st := memory.New()
	h := handler.NewMovieHandler(st)
	e := echo.New()

	seedMovie(t, st, "m1", "creator-1", 1000, 10)
	seedMovie(t, st, "m2", "creator-2", 1000, 10)
	seedMovie(t, st, "m3", "creator-1", 1000, 10)

	rec, c := doJSON(t, e, http.MethodGet, "/api/movies?creatorId=creator-1", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var movies []model.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movies))
	require.Len(t, movies, 2)
	for _, m := range movies {
		assert.Equal(t, "creator-1", m.CreatorID)
	}
}

func TestUpdateMovieDescriptiveFieldsOnly(t *testing.T) {
	st := memory.New()
	h := handler.NewMovieHandler(st)
	e := echo.New()

	seedMovie(t, st, "m1", "creator-1", 1000, 10)

	// Financial fields in the body are ignored; only the title changes.
	body := `{"title":"Renamed","total_amount":9,"invested_amount":9999}`
	rec, c := doJSON(t, e, http.MethodPut, "/api/movies/m1", body)
	c.SetPath("/api/movies/:id")
	c.SetParamNames("id")
	c.SetParamValues("m1")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	got, err := st.GetMovie(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 1000.0, got.TotalAmount)
	assert.Equal(t, 0.0, got.InvestedAmount)
}

func TestUpdateMovieNotFound(t *testing.T) {
	h := handler.NewMovieHandler(memory.New())
	e := echo.New()

	rec, c := doJSON(t, e, http.MethodPut, "/api/movies/missing", `{"title":"x"}`)
	c.SetPath("/api/movies/:id")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
