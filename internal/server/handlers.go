package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"rackscope/internal/analyzer"
	"rackscope/internal/export"
	"rackscope/internal/fileutil"
	"rackscope/internal/library"
	"rackscope/internal/logging"
	"rackscope/internal/rack"
)

// multipartOverhead covers form boundaries and headers around the file part.
const multipartOverhead = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if s.store != nil {
		summary, err := s.store.Stats(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Library = &summary
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.MaxFileBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "expected multipart field \"file\"")
		return
	}
	defer file.Close()

	name := filepath.Base(strings.TrimSpace(header.Filename))
	if !s.cfg.SupportsExtension(name) {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %q (accepted: %s)", filepath.Ext(name), strings.Join(s.cfg.Analysis.Extensions, ", ")))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	opts := analyzer.Options{
		Force:      boolQuery(r, "force"),
		SkipStore:  boolQuery(r, "no_store"),
		SkipExport: !boolQuery(r, "export"),
	}
	res, err := s.analyzer.AnalyzeBytes(r.Context(), name, data, opts)
	if err != nil {
		s.metrics.recordOutcome(analyzer.OutcomeFailed, 0)
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, fileutil.ErrTooLarge):
			status = http.StatusRequestEntityTooLarge
		case rack.IsFatal(err):
			status = http.StatusUnprocessableEntity
		}
		if status == http.StatusInternalServerError {
			logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "upload analysis failed", "analyze_failed",
				logging.String(logging.FieldSourcePath, name),
				logging.Error(err),
			)
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.metrics.recordOutcome(res.Outcome, res.Duration)

	resp := AnalyzeResponse{
		Outcome:   res.Outcome,
		SHA256:    res.ContentSHA256,
		Document:  res.Document,
		Artifacts: res.Artifacts,
	}
	status := http.StatusOK
	if res.Analysis != nil {
		resp.ID = res.Analysis.ID
		if res.Outcome == analyzer.OutcomeDecoded {
			status = http.StatusCreated
			w.Header().Set("Location", "/api/racks/"+res.Analysis.ID)
		}
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleListRacks(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	query := r.URL.Query()
	filter := library.ListFilter{Name: strings.TrimSpace(query.Get("name"))}
	if value := strings.TrimSpace(query.Get("category")); value != "" {
		if err := filter.Category.UnmarshalText([]byte(value)); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	items, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []*library.Analysis{}
	}
	s.writeJSON(w, http.StatusOK, RackListResponse{Items: items})
}

func (s *Server) handleGetRack(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	item, err := s.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, library.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	value := strings.TrimSpace(r.URL.Query().Get("format"))
	if value == "" {
		s.writeJSON(w, http.StatusOK, RackResponse{Item: item})
		return
	}
	format, err := export.ParseFormat(value)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if format == export.FormatXML {
		s.writeError(w, http.StatusBadRequest, "xml source is not kept in the library")
		return
	}
	body, err := export.Encode(item.Document, format, s.cfg.Export.Indent)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", export.ArtifactName(item.SourcePath, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("failed to write report", logging.Error(err))
	}
}

func (s *Server) handleDeleteRack(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	err := s.store.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, library.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
