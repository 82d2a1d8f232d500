package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/fetch"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLayout = `{
  "topPanels": [{"expression": "discipline", "label": "Discipline"}],
  "thumbnailView": {"stdOrder": ["label"], "orders": ["label"], "cell": [{"type": "img", "src": "imageURL"}]},
  "detailedView": {"stdOrder": ["label"], "orders": ["label"], "cell": [{"type": "head", "name": "label"}]}
}`

const testFeed = `{"feed": {"entry": [
  {"title": {"$t": "A1"}, "content": {"$t": "Name"}},
  {"title": {"$t": "A2"}, "content": {"$t": "Alice"}},
  {"title": {"$t": "B2"}, "content": {"$t": "orphan"}}
]}}`

// newTestServer returns a server whose loader only reads remote documents,
// and a document server hosting layout.json, broken.json and feed.json.
func newTestServer(t *testing.T) (*Server, *settings.MemoryStore, *docServer) {
	t.Helper()
	docs := newDocServer(t, map[string]string{
		"/layout.json": testLayout,
		"/broken.json": `{"detailedView": {"cell": [{"type": "head"}]}}`,
		"/feed.json":   testFeed,
	})

	loader, err := fetch.New(8)
	require.NoError(t, err)
	store := settings.NewMemoryStore()
	return NewServer(":0", store, loader), store, docs
}

type docServer struct {
	*httptest.Server
	mu   sync.Mutex
	docs map[string]string
}

func newDocServer(t *testing.T, docs map[string]string) *docServer {
	t.Helper()
	d := &docServer{docs: docs}
	d.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		body, ok := d.docs[r.URL.Path]
		d.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(d.Close)
	return d
}

func (d *docServer) url(path string) string {
	return d.URL + path
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodGet, "/healthz", "").Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/widgets/w1/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, settings.Defaults(), got)

	rec = do(t, srv, http.MethodPut, "/widgets/w1/settings", `{"dataURL": " /mine.json ", "layoutURL": ""}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/widgets/w1/settings", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.Settings{DataURL: "/mine.json", LayoutURL: settings.DefaultLayoutURL}, got)
}

func TestSaveSettings_BadBody(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := do(t, srv, http.MethodPut, "/widgets/w1/settings", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeWidget(t *testing.T) {
	srv, store, docs := newTestServer(t)
	require.NoError(t, store.Save(context.Background(), "w1", models.Settings{
		DataURL:   "/data/nobelists.json",
		LayoutURL: docs.url("/layout.json"),
	}))

	rec := do(t, srv, http.MethodGet, "/widgets/w1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<link href="/data/nobelists.json" type="application/json" rel="exhibit-data" />`)
	assert.Contains(t, body, `ex:expression=".discipline"`)
	assert.Contains(t, body, `<img ex:src-content=".imageURL" />`)
	assert.Contains(t, body, `<td><div ex:content=".label" class="head"></div></td>`)
}

func TestServeWidget_Strict(t *testing.T) {
	srv, store, docs := newTestServer(t)
	require.NoError(t, store.Save(context.Background(), "w1", models.Settings{
		LayoutURL: docs.url("/broken.json"),
	}))

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/widgets/w1", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodGet, "/widgets/w1?strict=true", "").Code)
}

func TestServeWidget_MissingLayout(t *testing.T) {
	srv, _, _ := newTestServer(t)
	// The default layout URL is not a readable local file.
	rec := do(t, srv, http.MethodGet, "/widgets/unknown", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServeConvert(t *testing.T) {
	srv, _, docs := newTestServer(t)
	feed := docs.url("/feed.json")

	rec := do(t, srv, http.MethodPost, "/convert", `{"url": "`+feed+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ds models.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	assert.Equal(t, models.ItemList{{"Name": "Alice", "B": "orphan"}}, ds.Items)

	rec = do(t, srv, http.MethodPost, "/convert?strict=true", `{"url": "`+feed+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "B2")
}

func TestServeConvert_BadRequests(t *testing.T) {
	srv, _, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/convert", `nope`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/convert", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/convert", `{"url": "/tmp/book.xlsx"}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodGet, "/convert", "").Code)
}

func TestServe_Shutdown(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Serve(ctx))
}

func TestServeConvert_RejectsLocalFiles(t *testing.T) {
	srv, _, _ := newTestServer(t)
	secret := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, os.WriteFile(secret, []byte(`{"feed": {"entry": [
  {"title": {"$t": "A1"}, "content": {"$t": "password"}},
  {"title": {"$t": "A2"}, "content": {"$t": "hunter2"}}
]}}`), 0644))

	for _, ref := range []string{"file://" + secret, secret} {
		rec := do(t, srv, http.MethodPost, "/convert", `{"url": "`+ref+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, ref)
		assert.NotContains(t, rec.Body.String(), "hunter2")
	}
}

func TestSaveSettings_RejectsFileURLs(t *testing.T) {
	srv, store, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/widgets/w1/settings", `{"layoutURL": "file:///etc/passwd"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, err := store.Load(context.Background(), "w1")
	assert.ErrorIs(t, err, settings.ErrNotFound)
}

func TestServeWidget_LocalLayoutNotRead(t *testing.T) {
	srv, store, _ := newTestServer(t)
	layout := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(layout, []byte(testLayout), 0644))
	require.NoError(t, store.Save(context.Background(), "w1", models.Settings{LayoutURL: layout}))

	rec := do(t, srv, http.MethodGet, "/widgets/w1", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ex:facetLabel")
}

func TestServeWidget_PicksUpEditedLayout(t *testing.T) {
	docs := newDocServer(t, map[string]string{
		"/layout.json": `{"detailedView": {"cell": [{"type": "span", "name": "old"}]}}`,
	})
	loader, err := fetch.New(8, fetch.WithCacheTTL(50*time.Millisecond))
	require.NoError(t, err)
	store := settings.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "w", models.Settings{LayoutURL: docs.url("/layout.json")}))
	srv := NewServer(":0", store, loader)

	assert.Contains(t, do(t, srv, http.MethodGet, "/widgets/w", "").Body.String(), `class="old"`)

	docs.mu.Lock()
	docs.docs["/layout.json"] = `{"detailedView": {"cell": [{"type": "span", "name": "new"}]}}`
	docs.mu.Unlock()

	assert.Eventually(t, func() bool {
		return strings.Contains(do(t, srv, http.MethodGet, "/widgets/w", "").Body.String(), `class="new"`)
	}, 2*time.Second, 20*time.Millisecond)
}
