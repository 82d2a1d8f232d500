package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RemoteCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name": "layout"}`)
	}))
	defer srv.Close()

	c, err := New(4)
	require.NoError(t, err)

	var v struct{ Name string }
	require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/layout.json", &v))
	assert.Equal(t, "layout", v.Name)

	require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/layout.json", &v))
	assert.Equal(t, int32(1), hits.Load())

	c.Forget(srv.URL + "/layout.json")
	require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/layout.json", &v))
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_BaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"`+r.URL.Path+`"`)
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	c, err := New(0, WithBaseURL(base))
	require.NoError(t, err)

	var path string
	require.NoError(t, c.GetJSON(context.Background(), "/devwidgets/exhibit/layout.json", &path))
	assert.Equal(t, "/devwidgets/exhibit/layout.json", path)
}

func TestClient_Status(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c, err := New(0)
	require.NoError(t, err)

	_, err = c.Bytes(context.Background(), srv.URL+"/missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0644))

	c, err := New(0, WithLocalFiles(true))
	require.NoError(t, err)

	var v []int
	require.NoError(t, c.GetJSON(context.Background(), path, &v))
	assert.Equal(t, []int{1, 2}, v)

	r, err := c.Open(context.Background(), "file://"+path)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", string(data))
}

func TestClient_Errors(t *testing.T) {
	c, err := New(0, WithLocalFiles(true))
	require.NoError(t, err)

	_, err = c.Bytes(context.Background(), "  ")
	assert.Error(t, err)

	_, err = c.Bytes(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	var v map[string]any
	assert.Error(t, c.GetJSON(context.Background(), path, &v))
}

func TestClient_LocalFilesDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"password": "hunter2"}`), 0644))

	base, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)

	for _, c := range []*Client{mustNew(t), mustNew(t, WithBaseURL(base))} {
		_, err := c.Bytes(context.Background(), "file://"+path)
		assert.ErrorIs(t, err, ErrLocalReference)
	}

	_, err = mustNew(t).Bytes(context.Background(), path)
	assert.ErrorIs(t, err, ErrLocalReference)
}

func TestIsFileURL(t *testing.T) {
	assert.True(t, IsFileURL("file:///etc/passwd"))
	assert.True(t, IsFileURL(" FILE:///etc/passwd"))
	assert.False(t, IsFileURL("/devwidgets/exhibit/layout.json"))
	assert.False(t, IsFileURL("https://example.org/layout.json"))
}

func TestClient_CacheExpires(t *testing.T) {
	var body atomic.Value
	body.Store(`{"name": "old"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body.Load().(string))
	}))
	defer srv.Close()

	c := mustNew(t, WithCacheTTL(50*time.Millisecond))

	var v struct{ Name string }
	require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/layout.json", &v))
	assert.Equal(t, "old", v.Name)

	body.Store(`{"name": "new"}`)
	require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/layout.json", &v))
	assert.Equal(t, "old", v.Name)

	assert.Eventually(t, func() bool {
		var fresh struct{ Name string }
		return c.GetJSON(context.Background(), srv.URL+"/layout.json", &fresh) == nil && fresh.Name == "new"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestClient_LocalFileEditedAfterTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte(`"old"`), 0644))

	c := mustNew(t, WithLocalFiles(true), WithCacheTTL(50*time.Millisecond))

	var v string
	require.NoError(t, c.GetJSON(context.Background(), path, &v))
	assert.Equal(t, "old", v)

	require.NoError(t, os.WriteFile(path, []byte(`"new"`), 0644))
	assert.Eventually(t, func() bool {
		var fresh string
		return c.GetJSON(context.Background(), path, &fresh) == nil && fresh == "new"
	}, 2*time.Second, 20*time.Millisecond)
}

func mustNew(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(4, opts...)
	require.NoError(t, err)
	return c
}
