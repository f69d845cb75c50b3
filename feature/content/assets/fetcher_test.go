package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cat.jpg":
			_, _ = w.Write([]byte("binary"))
		case "/huge.jpg":
			_, _ = w.Write(make([]byte, 4096))
		case "/moved.jpg":
			http.Redirect(w, r, "/cat.jpg", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 1024)

	t.Run("OK", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), srv.URL+"/cat.jpg")
		require.NoError(t, err)
		assert.Equal(t, "binary", string(body))
	})

	t.Run("Redirect", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), srv.URL+"/moved.jpg")
		require.NoError(t, err)
		assert.Equal(t, "binary", string(body))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/missing.jpg")
		assert.ErrorContains(t, err, "status 404")
	})

	t.Run("TooLarge", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/huge.jpg")
		assert.ErrorContains(t, err, "failed to fetch")
	})

	t.Run("Unbounded", func(t *testing.T) {
		body, err := NewFetcher(5*time.Second, 0).Fetch(context.Background(), srv.URL+"/huge.jpg")
		require.NoError(t, err)
		assert.Len(t, body, 4096)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Fetch(ctx, srv.URL+"/cat.jpg")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
