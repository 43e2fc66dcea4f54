package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/domain"
	apimw "github.com/hamed0406/endpointkit/internal/httpapi/middleware"
	"github.com/hamed0406/endpointkit/internal/metrics"
	"github.com/hamed0406/endpointkit/internal/repo"
	"github.com/hamed0406/endpointkit/internal/storage"
)

const (
	maxSelectURLs   = 64
	maxRecordBytes  = 1 << 20
	maxSelectBodyKB = 64
)

// Selector is what the API needs from selector.Selector.
type Selector interface {
	SelectFastest(ctx context.Context, urls []string, debug bool) []domain.RankedResult
}

type Server struct {
	Logger     *zap.Logger
	Selector   Selector
	Records    repo.RecordStore
	Selections repo.SelectionStore // optional; nil disables persistence of ad-hoc selections

	// ReservedDBs are never served by the record routes (internal state).
	ReservedDBs []string
	// RecordDBs, when non-empty, is the only set of databases the record
	// routes may open.
	RecordDBs []string
}

func NewServer(l *zap.Logger, sel Selector, rs repo.RecordStore, ss repo.SelectionStore) *Server {
	return &Server{Logger: l, Selector: sel, Records: rs, Selections: ss}
}

// Router wires routes. allowedOrigins empty => allow all (dev).
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()
	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		metrics.Write(w)
	})

	r.Route("/api", func(r chi.Router) {
		// public (read + select)
		r.Group(func(r chi.Router) {
			r.Use(apimw.RequireAny(keys))
			r.Use(apimw.RateLimit(publicRPM, publicBurst))
			r.Post("/select", s.handleSelect)
			r.Get("/selection/latest", s.handleLatestSelection)
			r.Get("/records/{db}/{store}/{key}", s.handleGetRecord)
		})
		// admin (writes)
		r.Group(func(r chi.Router) {
			r.Use(apimw.RequireAdmin(keys))
			r.Use(apimw.RateLimit(adminRPM, adminBurst))
			r.Put("/records/{db}/{store}/{key}", s.handlePutRecord)
		})
	})

	return r
}

type selectPayload struct {
	URLs  []string `json:"urls"`
	Debug bool     `json:"debug"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var p selectPayload
	body := http.MaxBytesReader(w, r.Body, maxSelectBodyKB<<10)
	if err := json.NewDecoder(body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if len(p.URLs) > maxSelectURLs {
		writeError(w, http.StatusBadRequest, "too many urls")
		return
	}
	for _, u := range p.URLs {
		if !isValidHTTPURL(u) {
			writeError(w, http.StatusBadRequest, "invalid url: "+u)
			return
		}
	}

	results := s.Selector.SelectFastest(r.Context(), p.URLs, p.Debug)

	sel := domain.NewSelection(results, time.Now().UTC())
	if s.Selections != nil && len(results) > 0 {
		if err := s.Selections.SaveSelection(r.Context(), sel); err != nil {
			s.Logger.Warn("selection_save_error", zap.Error(err))
		}
	}

	s.Logger.Info("selection_done",
		zap.Int("candidates", len(results)),
		zap.String("fastest", sel.Fastest),
	)
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleLatestSelection(w http.ResponseWriter, r *http.Request) {
	if s.Selections == nil {
		writeError(w, http.StatusNotFound, "no selection yet")
		return
	}
	sel, err := s.Selections.LatestSelection(r.Context())
	if err != nil {
		s.storageError(w, "latest_selection_error", err)
		return
	}
	if sel == nil {
		writeError(w, http.StatusNotFound, "no selection yet")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *Server) recordDBAllowed(db string) bool {
	if slices.Contains(s.ReservedDBs, db) {
		return false
	}
	return len(s.RecordDBs) == 0 || slices.Contains(s.RecordDBs, db)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	db, store, key := chi.URLParam(r, "db"), chi.URLParam(r, "store"), chi.URLParam(r, "key")
	if !s.recordDBAllowed(db) {
		writeError(w, http.StatusForbidden, "database not available")
		return
	}
	v, found, err := s.Records.Load(r.Context(), db, store, key)
	if err != nil {
		s.storageError(w, "record_load_error", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(v)
}

func (s *Server) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	db, store, key := chi.URLParam(r, "db"), chi.URLParam(r, "store"), chi.URLParam(r, "key")
	if !s.recordDBAllowed(db) {
		writeError(w, http.StatusForbidden, "database not available")
		return
	}
	v, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRecordBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}
	if err := s.Records.Save(r.Context(), db, store, key, v); err != nil {
		s.storageError(w, "record_save_error", err)
		return
	}
	s.Logger.Info("record_saved",
		zap.String("db", db),
		zap.String("store", store),
		zap.String("key", key),
		zap.Int("bytes", len(v)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// storageError maps storage failures to status codes and logs them.
func (s *Server) storageError(w http.ResponseWriter, event string, err error) {
	code := statusFor(err)
	if code >= 500 {
		s.Logger.Error(event, zap.Error(err))
	} else {
		s.Logger.Warn(event, zap.Error(err))
	}
	writeError(w, code, http.StatusText(code))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrEnvironmentUnsupported):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
