package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/nao1215/compscreen"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// datasetResponse summarizes the current snapshot for the UI.
type datasetResponse struct {
	Columns  []string          `json:"columns"`
	RowCount int               `json:"row_count"`
	Formats  map[string]string `json:"formats"`
}

// resultsResponse carries the filtered table plus its aggregate rows.
type resultsResponse struct {
	Columns  []string             `json:"columns"`
	Rows     []compscreen.Row     `json:"rows"`
	Averages compscreen.Row       `json:"averages"`
	Medians  compscreen.Row       `json:"medians"`
	Formats  map[string]string    `json:"formats"`
	Sort     compscreen.SortState `json:"sort"`
}

func formatNames(formats map[string]compscreen.FormatTag) map[string]string {
	names := make(map[string]string, len(formats))
	for col, tag := range formats {
		names[col] = tag.String()
	}
	return names
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleUploadDataset ingests a comparables sheet from a multipart upload.
// The new dataset replaces the previous one wholesale.
func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	fileType := compscreen.DetectFileType(header.Filename)
	if fileType == compscreen.FileTypeUnsupported {
		respondError(w, r, http.StatusUnsupportedMediaType, "unsupported file format: "+header.Filename)
		return
	}

	ds, err := loadUpload(file, header.Filename, fileType)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to parse upload",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		respondError(w, r, http.StatusUnprocessableEntity, "failed to parse file: "+err.Error())
		return
	}

	snap := compscreen.NewSnapshot(ds.Columns, ds.Rows)

	s.mu.Lock()
	s.snapshot = snap
	s.sort = compscreen.SortState{}
	s.mu.Unlock()

	if err := s.store.SaveDataset(r.Context(), ds); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to persist dataset",
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(r.Context(), "dataset uploaded",
		slog.String("filename", header.Filename),
		slog.Int("columns", len(ds.Columns)),
		slog.Int("rows", len(ds.Rows)),
	)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, datasetResponse{
		Columns:  snap.Columns(),
		RowCount: len(snap.Rows()),
		Formats:  formatNames(snap.Formats()),
	})
}

// loadUpload decompresses (by filename extension) and parses an uploaded
// sheet.
func loadUpload(file io.Reader, filename string, fileType compscreen.FileType) (*compscreen.Dataset, error) {
	reader, closeDecomp, err := compscreen.DecompressReader(file, filename)
	if err != nil {
		return nil, err
	}
	defer closeDecomp() //nolint:errcheck // decompressor teardown only
	return compscreen.LoadReader(reader, fileType)
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap == nil {
		respondError(w, r, http.StatusNotFound, "no dataset uploaded")
		return
	}
	render.JSON(w, r, datasetResponse{
		Columns:  snap.Columns(),
		RowCount: len(snap.Rows()),
		Formats:  formatNames(snap.Formats()),
	})
}

func (s *Server) handleListCriteria(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cs := make(compscreen.Criteria, len(s.criteria))
	copy(cs, s.criteria)
	s.mu.RUnlock()
	render.JSON(w, r, cs)
}

// criterionRequest is the mutable subset of a criterion accepted from the
// client. Pointer fields distinguish "not sent" from "cleared".
type criterionRequest struct {
	Column *string `json:"column"`
	Min    *string `json:"min"`
	Max    *string `json:"max"`
	Text   *string `json:"text"`
	Active *bool   `json:"active"`
}

func (s *Server) handleCreateCriterion(w http.ResponseWriter, r *http.Request) {
	var req criterionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Column == nil || *req.Column == "" {
		respondError(w, r, http.StatusBadRequest, "column is required")
		return
	}

	s.mu.Lock()
	c := s.criteria.Add(*req.Column)
	applyCriterionRequest(&c, req)
	s.criteria.Update(c)
	s.mu.Unlock()

	s.saveCriteria(r.Context())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, c)
}

func (s *Server) handleUpdateCriterion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req criterionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	c, ok := s.criteria.Get(id)
	if ok {
		applyCriterionRequest(&c, req)
		s.criteria.Update(c)
	}
	s.mu.Unlock()

	if !ok {
		respondError(w, r, http.StatusNotFound, "criterion not found: "+id)
		return
	}
	s.saveCriteria(r.Context())
	render.JSON(w, r, c)
}

func applyCriterionRequest(c *compscreen.Criterion, req criterionRequest) {
	// An empty column is rejected at creation; ignore attempts to clear it
	// on update too.
	if req.Column != nil && *req.Column != "" {
		c.Column = *req.Column
	}
	if req.Min != nil {
		c.Min = *req.Min
	}
	if req.Max != nil {
		c.Max = *req.Max
	}
	if req.Text != nil {
		c.Text = *req.Text
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
}

func (s *Server) handleDeleteCriterion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	removed := s.criteria.Remove(id)
	s.mu.Unlock()

	if !removed {
		respondError(w, r, http.StatusNotFound, "criterion not found: "+id)
		return
	}
	s.saveCriteria(r.Context())
	render.NoContent(w, r)
}

// handleResults applies the criteria to the snapshot and returns the
// filtered rows, aggregate rows, and formats. Optional sort and dir query
// parameters order the rows and persist as the session sort state.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snapshot
	cs := make(compscreen.Criteria, len(s.criteria))
	copy(cs, s.criteria)
	sortState := s.sort
	s.mu.RUnlock()

	if snap == nil {
		respondError(w, r, http.StatusNotFound, "no dataset uploaded")
		return
	}

	if col := r.URL.Query().Get("sort"); col != "" {
		sortState = compscreen.SortState{
			Column:    col,
			Direction: compscreen.ParseSortDirection(r.URL.Query().Get("dir")),
		}
		s.mu.Lock()
		s.sort = sortState
		s.mu.Unlock()
		if err := s.store.SaveSortState(r.Context(), sortState); err != nil {
			s.logger.ErrorContext(r.Context(), "failed to persist sort state",
				slog.String("error", err.Error()))
		}
	}

	result := snap.Apply(cs)
	rows := compscreen.Sort(result.Rows, sortState.Column, sortState.Direction)

	render.JSON(w, r, resultsResponse{
		Columns:  snap.Columns(),
		Rows:     rows,
		Averages: result.Aggregates.Averages,
		Medians:  result.Aggregates.Medians,
		Formats:  formatNames(snap.Formats()),
		Sort:     sortState,
	})
}

// handleChart proxies price-history data for one symbol, falling back to a
// deterministic mock series when the upstream is unavailable.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		respondError(w, r, http.StatusBadRequest, "symbol is required")
		return
	}

	render.JSON(w, r, s.charts.Series(r.Context(), symbol))
}
