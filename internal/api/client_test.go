package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tourJSON = `{"id": 7, "title": "Old Town", "objects": []}`

// fastBackOff keeps retry tests quick.
func fastBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: srv.URL, Token: token})
	require.NoError(t, err)
	c.SetBackOff(fastBackOff)
	return c
}

func TestTourDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tours/7", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tourJSON))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "secret")

	rec, err := c.TourDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.ID)
	assert.Equal(t, "Old Town", rec.Title)
}

func TestTourDetailsNoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(tourJSON))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, "").TourDetails(context.Background(), 7)
	require.NoError(t, err)
}

func TestTourDetailsClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such tour", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, "").TourDetails(context.Background(), 404)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 404, ferr.TourID)
	assert.Equal(t, http.StatusNotFound, ferr.Status)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestTourDetailsServerErrorRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(tourJSON))
	}))
	defer srv.Close()

	rec, err := newTestClient(t, srv, "").TourDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Old Town", rec.Title)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestTourDetailsExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, "").TourDetails(context.Background(), 7)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, http.StatusServiceUnavailable, ferr.Status)
}

func TestTourDetailsBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, "").TourDetails(context.Background(), 7)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
