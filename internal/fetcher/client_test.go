package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/fetcher"
)

func TestClient_DownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "value", r.Header.Get("X-Custom"))
		w.Write([]byte("payload")) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	client := fetcher.NewClient(fetcher.ClientOptions{})
	target := filepath.Join(t.TempDir(), "out.bin")

	err := client.DownloadFile(context.Background(), server.URL, map[string]string{"X-Custom": "value"}, target)

	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("eventually ok")) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	client := fetcher.NewClient(fetcher.ClientOptions{MaxRetries: 3})
	target := filepath.Join(t.TempDir(), "out.bin")

	err := client.DownloadFile(context.Background(), server.URL, nil, target)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryPermanentStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := fetcher.NewClient(fetcher.ClientOptions{MaxRetries: 3})
	target := filepath.Join(t.TempDir(), "out.bin")

	err := client.DownloadFile(context.Background(), server.URL, nil, target)

	require.Error(t, err)
	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DownloadTempCleanup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tempdata")) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	client := fetcher.NewClient(fetcher.ClientOptions{})

	tmpPath, cleanup, err := client.DownloadTemp(context.Background(), server.URL, nil, "client-test-*.zip")
	require.NoError(t, err)

	data, err := os.ReadFile(tmpPath)
	require.NoError(t, err)
	assert.Equal(t, "tempdata", string(data))

	cleanup()
	assert.NoFileExists(t, tmpPath)
}

func TestClient_DownloadTempRemovedOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	client := fetcher.NewClient(fetcher.ClientOptions{})
	_, _, err := client.DownloadTemp(context.Background(), server.URL, nil, "client-fail-*.zip")

	require.Error(t, err)
	leftovers, err := filepath.Glob(filepath.Join(tmpDir, "client-fail-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
