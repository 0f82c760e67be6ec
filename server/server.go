// Package server exposes the screening engine over HTTP: dataset upload,
// criteria editing, filtered results with aggregate rows, and best-effort
// chart data. All screening semantics live in the compscreen package; this
// layer only shuttles state between the engine, the session store, and the
// browser.
package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/nao1215/compscreen"
	"github.com/nao1215/compscreen/store"
)

// Server holds the mutable session state around the immutable snapshot.
type Server struct {
	cfg    Config
	logger *slog.Logger
	store  *store.Store
	charts *ChartClient

	mu       sync.RWMutex
	snapshot *compscreen.Snapshot
	criteria compscreen.Criteria
	sort     compscreen.SortState
}

// New creates a server and restores any previous session from the store.
func New(ctx context.Context, cfg Config, logger *slog.Logger, st *store.Store) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "server")),
		store:  st,
		charts: NewChartClient(cfg.ChartBaseURL, cfg.ChartTimeout, logger),
	}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// restore loads the persisted dataset, criteria, and sort state. A missing
// session is a fresh start, not an error.
func (s *Server) restore(ctx context.Context) error {
	ds, err := s.store.LoadDataset(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.logger.InfoContext(ctx, "no saved dataset, starting empty")
	case err != nil:
		return err
	default:
		s.snapshot = compscreen.NewSnapshot(ds.Columns, ds.Rows)
		s.logger.InfoContext(ctx, "restored dataset",
			slog.Int("columns", len(ds.Columns)),
			slog.Int("rows", len(ds.Rows)),
		)
	}

	if cs, err := s.store.LoadCriteria(ctx); err == nil {
		s.criteria = cs
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if state, err := s.store.LoadSortState(ctx); err == nil {
		s.sort = state
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// Router builds the chi router for the full API surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/dataset", func(r chi.Router) {
			r.Post("/", s.handleUploadDataset)
			r.Get("/", s.handleGetDataset)
		})
		r.Route("/criteria", func(r chi.Router) {
			r.Get("/", s.handleListCriteria)
			r.Post("/", s.handleCreateCriterion)
			r.Patch("/{id}", s.handleUpdateCriterion)
			r.Delete("/{id}", s.handleDeleteCriterion)
		})
		r.Get("/results", s.handleResults)
		r.Get("/chart/{symbol}", s.handleChart)
	})
	return r
}

// saveCriteria persists the current criteria list; failures are logged and
// swallowed so an edit never fails because the disk did.
func (s *Server) saveCriteria(ctx context.Context) {
	if err := s.store.SaveCriteria(ctx, s.criteria); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist criteria",
			slog.String("error", err.Error()))
	}
}
