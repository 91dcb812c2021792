package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinema-ticketing/internal/cache"
	"cinema-ticketing/internal/data/memory"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/event"
	"cinema-ticketing/pkg/middleware"
	"cinema-ticketing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c *apiClient) do(method, path string, body any) (int, envelope, http.Header) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))

	var env envelope
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env, rec.Header()
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type failingStore struct{}

func (failingStore) Ping(context.Context) error { return fmt.Errorf("connection refused") }

func newTestApp(t *testing.T) (*apiClient, *repository.SeedResult) {
	t.Helper()

	store := memory.NewStore(zap.NewNop())
	repo := memory.NewRepository(store)
	seed, err := repository.Seed(context.Background(), repo)
	require.NoError(t, err)

	config := &utils.Config{Sweep: utils.SweepConfig{Concurrency: 2}}
	app := Wiring(repo, store, cache.Noop{}, event.NewNoopPublisher(zap.NewNop()), config, zap.NewNop())
	require.NotNil(t, app.Service)

	return &apiClient{t: t, handler: app.Router}, seed
}

func TestHealth(t *testing.T) {
	api, _ := newTestApp(t)

	code, env, headers := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Status)
	assert.NotEmpty(t, headers.Get(middleware.RequestIDHeader))

	store := memory.NewStore(zap.NewNop())
	down := Wiring(memory.NewRepository(store), failingStore{}, cache.Noop{},
		event.NewNoopPublisher(zap.NewNop()), &utils.Config{}, zap.NewNop())
	rec := httptest.NewRecorder()
	down.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBookingFlow(t *testing.T) {
	api, seed := newTestApp(t)

	// schedule 10:00-12:00
	code, env, _ := api.do(http.MethodPost, "/api/shows", map[string]any{
		"theater_id": seed.TheaterID,
		"movie_id":   seed.MovieID,
		"date":       "2024-06-01",
		"start_time": "10:00:00",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	show := decode[map[string]any](t, env.Data)
	showID := int64(show["id"].(float64))

	// overlapping request names the colliding show
	code, env, _ = api.do(http.MethodPost, "/api/shows", map[string]any{
		"theater_id":       seed.TheaterID,
		"movie_id":         seed.MovieID,
		"date":             "2024-06-01",
		"start_time":       "11:00:00",
		"duration_seconds": 3600,
	})
	require.Equal(t, http.StatusConflict, code)
	conflict := decode[map[string]int64](t, env.Data)
	assert.Equal(t, showID, conflict["conflicting_show_id"])

	code, env, _ = api.do(http.MethodGet, fmt.Sprintf("/api/shows/%d/seats", showID), nil)
	require.Equal(t, http.StatusOK, code)
	seats := decode[[]map[string]any](t, env.Data)
	require.Len(t, seats, seed.Seats)
	assert.Equal(t, "A01", seats[0]["label"])

	code, env, _ = api.do(http.MethodPost, "/api/bookings", map[string]any{
		"user_id":    seed.UserID,
		"show_id":    showID,
		"seat_count": 2,
		"status":     "Paid",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	booking := decode[map[string]any](t, env.Data)
	bookingID := int64(booking["id"].(float64))
	assert.Equal(t, "Paid", booking["status"])

	// A01 (1000) to E01 (1200) is a price mismatch
	code, _, _ = api.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/swap", bookingID), map[string]string{"from": "A01", "to": "E01"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _, _ = api.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/swap", bookingID), map[string]string{"from": "C05", "to": "A03"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _, _ = api.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/swap", bookingID), map[string]string{"from": "A01", "to": "Z99"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env, _ = api.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/swap", bookingID), map[string]string{"from": "A01", "to": "A03"})
	require.Equal(t, http.StatusOK, code, env.Message)
	held := decode[[]map[string]any](t, env.Data)
	assert.Equal(t, "A02", held[0]["label"])
	assert.Equal(t, "A03", held[1]["label"])

	code, _, _ = api.do(http.MethodPost, "/api/bookings", map[string]any{
		"user_id": seed.UserID, "show_id": showID, "seat_count": seed.Seats,
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/cinemas/%d/shows?date=2024-06-01", seed.CinemaID), nil)
	assert.Equal(t, http.StatusConflict, code, "reserved seats block removal")

	code, _, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/bookings/%d/payment", bookingID), nil)
	require.Equal(t, http.StatusOK, code)

	code, env, _ = api.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d", bookingID), nil)
	require.Equal(t, http.StatusOK, code)
	booking = decode[map[string]any](t, env.Data)
	assert.Equal(t, "Cancelled", booking["status"])
	assert.Empty(t, booking["seats"])

	code, env, _ = api.do(http.MethodPost, "/api/admin/bookings/clear-cancelled", nil)
	require.Equal(t, http.StatusOK, code)
	batch := decode[map[string][]any](t, env.Data)
	assert.Len(t, batch["succeeded"], 1)

	code, _, _ = api.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d", bookingID), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/cinemas/%d/shows?date=2024-06-01", seed.CinemaID), nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	removed := decode[map[string]any](t, env.Data)
	assert.Equal(t, []any{float64(showID)}, removed["show_ids"])
}

func TestCancelPendingAndReports(t *testing.T) {
	api, seed := newTestApp(t)

	code, env, _ := api.do(http.MethodPost, "/api/shows", map[string]any{
		"theater_id": seed.TheaterID, "movie_id": seed.MovieID, "date": "2024-06-01", "start_time": "18:30:00",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	showID := int64(decode[map[string]any](t, env.Data)["id"].(float64))

	for i := 0; i < 2; i++ {
		code, env, _ = api.do(http.MethodPost, "/api/bookings", map[string]any{
			"user_id": seed.UserID, "show_id": showID, "seat_count": 1,
		})
		require.Equal(t, http.StatusCreated, code, env.Message)
	}

	code, env, _ = api.do(http.MethodGet, "/api/reports/users/pending", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	code, env, _ = api.do(http.MethodGet, "/api/reports/shows?date=2024-06-01&time=18:30:00", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	code, env, _ = api.do(http.MethodGet, fmt.Sprintf("/api/reports/movies/%d/theaters", seed.MovieID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	code, env, _ = api.do(http.MethodGet,
		fmt.Sprintf("/api/reports/cinemas/%d/movies/%d/shows?from=2024-06-01&to=2024-06-30", seed.CinemaID, seed.MovieID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	code, env, _ = api.do(http.MethodGet, fmt.Sprintf("/api/reports/users/%d/bookings?per_page=1", seed.UserID), nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[map[string]json.RawMessage](t, env.Data)
	meta := decode[map[string]int](t, page["pagination"])
	assert.Equal(t, 2, meta["total"])
	assert.Equal(t, 2, meta["total_pages"])

	code, env, _ = api.do(http.MethodPost, "/api/admin/bookings/cancel-pending", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[map[string][]any](t, env.Data)["succeeded"], 2)

	code, env, _ = api.do(http.MethodGet, "/api/reports/users/pending", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]map[string]any](t, env.Data))
}

func TestMovieCatalog(t *testing.T) {
	api, seed := newTestApp(t)

	code, env, _ := api.do(http.MethodPost, "/api/movies", map[string]any{
		"title":            "Love & Other Drugs",
		"release_date":     "2010-11-24",
		"duration_seconds": 6720,
		"language":         "en",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	movieID := int64(decode[map[string]any](t, env.Data)["id"].(float64))

	code, env, _ = api.do(http.MethodGet, fmt.Sprintf("/api/movies/%d", movieID), nil)
	require.Equal(t, http.StatusOK, code)
	movie := decode[map[string]any](t, env.Data)
	assert.Equal(t, "2010-11-24", movie["release_date"])
	assert.EqualValues(t, 6720, movie["duration_seconds"])

	code, env, _ = api.do(http.MethodPost, "/api/movies", map[string]any{
		"title": "Love & Other Drugs", "release_date": "2011-01-01", "duration_seconds": 60,
	})
	assert.Equal(t, http.StatusConflict, code, env.Message)

	// the new movie is schedulable and takes its runtime from the catalog
	code, env, _ = api.do(http.MethodPost, "/api/shows", map[string]any{
		"theater_id": seed.TheaterID, "movie_id": movieID, "date": "2024-06-01", "start_time": "10:00:00",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	show := decode[map[string]any](t, env.Data)
	assert.Equal(t, "2024-06-01T11:52:00Z", show["ends_at"])

	code, env, _ = api.do(http.MethodGet, "/api/reports/movies?title=LOVE&released_after=2010-01-01", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	titles := decode[[]map[string]any](t, env.Data)
	require.Len(t, titles, 1)
	assert.Equal(t, "Love & Other Drugs", titles[0]["title"])

	code, env, _ = api.do(http.MethodGet, "/api/reports/movies?title=love&released_after=2011-01-01", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]map[string]any](t, env.Data))
}

func TestBadRequests(t *testing.T) {
	api, seed := newTestApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed show", http.MethodPost, "/api/shows", map[string]any{"theater_id": seed.TheaterID, "date": "June 1st"}, http.StatusBadRequest},
		{"past midnight", http.MethodPost, "/api/shows", map[string]any{
			"theater_id": seed.TheaterID, "movie_id": seed.MovieID, "date": "2024-06-01", "start_time": "23:00:00",
		}, http.StatusBadRequest},
		{"unknown theater", http.MethodPost, "/api/shows", map[string]any{
			"theater_id": 999, "movie_id": seed.MovieID, "date": "2024-06-01", "start_time": "10:00:00",
		}, http.StatusNotFound},
		{"cancelled initial status", http.MethodPost, "/api/bookings", map[string]any{
			"user_id": seed.UserID, "show_id": 1, "seat_count": 1, "status": "Cancelled",
		}, http.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/api/bookings/abc", nil, http.StatusBadRequest},
		{"unknown booking", http.MethodPost, "/api/bookings/42/cancel", nil, http.StatusNotFound},
		{"missing date", http.MethodDelete, fmt.Sprintf("/api/cinemas/%d/shows", seed.CinemaID), nil, http.StatusBadRequest},
		{"bad cascade", http.MethodDelete, fmt.Sprintf("/api/cinemas/%d/shows?date=2024-06-01&cascade=maybe", seed.CinemaID), nil, http.StatusBadRequest},
		{"bad report time", http.MethodGet, "/api/reports/shows?date=2024-06-01&time=noon", nil, http.StatusBadRequest},
		{"movie without duration", http.MethodPost, "/api/movies", map[string]any{
			"title": "Untimed", "release_date": "2012-01-01", "duration_seconds": 0,
		}, http.StatusBadRequest},
		{"movie without title", http.MethodPost, "/api/movies", map[string]any{
			"release_date": "2012-01-01", "duration_seconds": 60,
		}, http.StatusBadRequest},
		{"duplicate movie title", http.MethodPost, "/api/movies", map[string]any{
			"title": "The Long Matinee", "release_date": "2012-01-01", "duration_seconds": 60,
		}, http.StatusConflict},
		{"unknown movie", http.MethodGet, "/api/movies/999", nil, http.StatusNotFound},
		{"movie report without title", http.MethodGet, "/api/reports/movies?released_after=2010-01-01", nil, http.StatusBadRequest},
		{"movie report bad date", http.MethodGet, "/api/reports/movies?title=love&released_after=2010", nil, http.StatusBadRequest},
		{"page too large", http.MethodGet, fmt.Sprintf("/api/reports/users/%d/bookings?per_page=1000", seed.UserID), nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env, _ := api.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code, env.Message)
			assert.False(t, env.Status)
		})
	}
}
