package atplive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSnapshot_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/live-matches", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"Tournaments":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	snap, err := client.FetchSnapshot(context.Background(), "live-matches")
	require.NoError(t, err)
	assert.Equal(t, "live-matches", snap.Endpoint)
	assert.NotNil(t, snap.Data)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestFetchSnapshot_NoAPIKeyHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["X-Api-Key"]
		assert.False(t, present, "no key configured, no header sent")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(context.Background(), "live-matches")
	require.NoError(t, err)
}

func TestFetchSnapshot_NotFoundIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(context.Background(), "live-matches")
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchSnapshot_EmptyBodyIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(context.Background(), "live-matches")
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchSnapshot_NullBodyIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(context.Background(), "live-matches")
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchSnapshot_ServerErrorIsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(context.Background(), "live-matches")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "upstream broke")
}

func TestFetchSnapshot_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(context.Background(), "live-matches")
	require.Error(t, err)
	assert.NotErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchSnapshot_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "")
	_, err := client.FetchSnapshot(ctx, "live-matches")
	assert.Error(t, err)
}
