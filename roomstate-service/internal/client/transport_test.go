package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/panel/alice/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("v"))
		assert.Equal(t, "alice", r.URL.Query().Get("room"))
		w.Write([]byte("<table></table>"))
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL, time.Second)
	require.NoError(t, err)

	body, err := tr.Fetch(context.Background(), "/api/panel/alice/?v=1", map[string]string{"room": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", body)
}

func TestHTTPTransport_FetchAbsoluteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport("http://upstream.invalid", time.Second)
	require.NoError(t, err)

	body, err := tr.Fetch(context.Background(), srv.URL+"/panel", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
}

func TestHTTPTransport_FetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = tr.Fetch(context.Background(), "/panel", nil)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHTTPTransport_Navigate(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL, time.Second)
	require.NoError(t, err)

	require.NoError(t, tr.Navigate(context.Background(), "alice"))
	assert.Equal(t, "/alice/", path)
}

func TestHTTPTransport_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.Fetch(ctx, "/panel", nil)
	require.Error(t, err)
}
