// Package server exposes widget rendering, widget settings, and spreadsheet
// conversion over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/convert"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/fetch"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/markup"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/output"
	"github.com/oae-widgets/exhibit-go/pkg/exhibit/settings"
)

const (
	// maxRequestSize bounds request bodies.
	maxRequestSize = 1 << 20
	// shutdownGracePeriod is the time allowed for in-flight requests on shutdown.
	shutdownGracePeriod = 10 * time.Second
)

// Server serves the widget endpoints. Settings and documents are supplied by
// the injected store and loader; the loader should not read local files.
type Server struct {
	addr   string
	store  settings.Store
	loader exhibit.Loader
	router *mux.Router
}

// NewServer builds a server and registers its routes.
func NewServer(addr string, store settings.Store, loader exhibit.Loader) *Server {
	s := &Server{
		addr:   addr,
		store:  store,
		loader: loader,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.serveHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/widgets/{id}", s.serveWidget).Methods(http.MethodGet)
	s.router.HandleFunc("/widgets/{id}/settings", s.serveSettings).Methods(http.MethodGet)
	s.router.HandleFunc("/widgets/{id}/settings", s.saveSettings).Methods(http.MethodPut)
	s.router.HandleFunc("/convert", s.serveConvert).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) (err error) {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("exhibit: listening on %s", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err = <-errc:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// serveWidget renders the widget fragment of the requested widget. Missing or
// unreadable settings fall back to the defaults.
func (s *Server) serveWidget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	prefs := settings.Preferred(r.Context(), s.store, id)

	fragment, err := exhibit.RenderWidget(r.Context(), s.loader, prefs, queryBool(r, "strict"))
	if err != nil {
		status := http.StatusBadGateway
		var cellErr *markup.MalformedCellError
		if errors.As(err, &cellErr) {
			status = http.StatusUnprocessableEntity
		}
		log.Printf("exhibit: render widget %s: %v", id, err)
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(fragment))
}

func (s *Server) serveSettings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, settings.Preferred(r.Context(), s.store, id))
}

// saveSettings stores the submitted settings as entered; defaults are applied
// when they are read.
func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in models.Settings
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&in); err != nil {
		http.Error(w, fmt.Sprintf("decode settings: %v", err), http.StatusBadRequest)
		return
	}
	if fetch.IsFileURL(in.DataURL) || fetch.IsFileURL(in.LayoutURL) {
		http.Error(w, "file URLs are not allowed", http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), id, in); err != nil {
		log.Printf("exhibit: save settings %s: %v", id, err)
		http.Error(w, "save settings failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type convertRequest struct {
	URL string `json:"url"`
}

// serveConvert converts a spreadsheet or cell feed URL into a dataset.
func (s *Server) serveConvert(w http.ResponseWriter, r *http.Request) {
	var in convertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&in); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	if in.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	if fetch.IsFileURL(in.URL) {
		http.Error(w, "file URLs are not allowed", http.StatusBadRequest)
		return
	}

	opts := exhibit.DefaultOptions()
	opts.Flatten = convert.Options{
		SortRows:       queryBool(r, "sort"),
		Strict:         queryBool(r, "strict"),
		SkipEmptyItems: queryBool(r, "skipEmpty"),
	}
	if kind := exhibit.DetectKind(in.URL); kind == exhibit.SourceWorkbook {
		http.Error(w, "workbooks cannot be converted remotely", http.StatusBadRequest)
		return
	}

	ds, err := exhibit.Convert(r.Context(), s.loader, in.URL, opts)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, fetch.ErrLocalReference) {
			status = http.StatusBadRequest
		}
		var legendErr *convert.MissingLegendError
		if errors.As(err, &legendErr) {
			status = http.StatusUnprocessableEntity
		}
		log.Printf("exhibit: convert %s: %v", in.URL, err)
		http.Error(w, err.Error(), status)
		return
	}

	data, err := output.ToJSON(ds, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("exhibit: write response: %v", err)
	}
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
