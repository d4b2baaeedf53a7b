package megaverse

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"megaverse-client/shared/config"
	apperrors "megaverse-client/shared/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:        baseURL,
			CandidateID:    testCandidateID,
			RequestTimeout: time.Second,
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 1},
		Retry:     fastRetry(2),
		Painter:   config.PainterConfig{Concurrency: 2},
	}
}

func TestCreatePolyanetEndToEnd(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/polyanets", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			CandidateID string `json:"candidateId"`
			Row         int    `json:"row"`
			Column      int    `json:"column"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, testCandidateID, body.CandidateID)
		require.Equal(t, 1, body.Row)
		require.Equal(t, 2, body.Column)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"row":1,"column":2}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	payload, err := client.CreateObject(context.Background(), AstralObject{Kind: KindPolyanet, Row: 1, Column: 2})
	require.NoError(t, err)
	require.Equal(t, float64(1), payload["row"])
	require.Equal(t, float64(2), payload["column"])
	require.Equal(t, int64(1), hits.Load())
}

func TestCreateRejectsInvalidObjectWithoutDispatch(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	err := client.CreatePolyanet(context.Background(), -1, 0)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
	require.Equal(t, int64(0), hits.Load(), "invalid objects must never reach the wire")
}

func TestDeleteSoloonSendsIdentityOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/soloons", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotContains(t, body, "color")
		require.Equal(t, float64(4), body["row"])
		require.Equal(t, float64(5), body["column"])

		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())
	require.NoError(t, client.DeleteSoloon(context.Background(), 4, 5))
}

func TestGoalMapLearnsGridBounds(t *testing.T) {
	var objectHits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			require.Equal(t, "/map/"+testCandidateID+"/goal", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"goal":[["SPACE","POLYANET"],["SPACE","SPACE"]]}`))
			return
		}
		objectHits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	goal, err := client.GoalMap(context.Background())
	require.NoError(t, err)
	require.Equal(t, GridBounds{Rows: 2, Columns: 2}, goal.Bounds())

	// Inside the learned grid: dispatched.
	require.NoError(t, client.CreatePolyanet(context.Background(), 1, 1))
	require.Equal(t, int64(1), objectHits.Load())

	// Outside the learned grid: rejected locally.
	err = client.CreatePolyanet(context.Background(), 5, 0)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
	require.Equal(t, int64(1), objectHits.Load())
}

func TestCreateSurfacesUpstreamRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"position taken"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	err := client.CreateCometh(context.Background(), 0, 0, DirectionRight)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
	require.Contains(t, err.Error(), "position taken")
}
