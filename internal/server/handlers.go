package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/keepsake/internal/config"
	"github.com/hyperjump/keepsake/internal/keyword"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/placement"
	"github.com/hyperjump/keepsake/internal/records"
	"github.com/hyperjump/keepsake/internal/storage"
	"github.com/hyperjump/keepsake/internal/validation"
	"go.uber.org/zap"
)

type createRecordResponse struct {
	Record    *records.View          `json:"record"`
	Layout    models.LayoutChoice    `json:"layout"`
	Analysis  models.ContentAnalysis `json:"analysis"`
	Placement placement.Report       `json:"placement"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var input models.RecordInput
	if !s.decode(w, r, &input) {
		return
	}
	s.logger.Debug("create record request", zap.String("id", input.ID), zap.String("title", input.Title))
	view, comp, err := s.records.Create(r.Context(), &input)
	if err != nil {
		s.respondServiceError(w, "create record", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, createRecordResponse{
		Record:    view,
		Layout:    comp.Layout,
		Analysis:  comp.Analysis,
		Placement: comp.Placement,
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	view, err := s.records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, "get record", err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", s.config.Search.DefaultLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > s.config.Search.MaxLimit {
		limit = s.config.Search.MaxLimit
	}
	views, err := s.records.List(r.Context(), offset, limit)
	if err != nil {
		s.respondServiceError(w, "list records", err)
		return
	}
	total, err := s.records.Count(r.Context())
	if err != nil {
		s.respondServiceError(w, "count records", err)
		return
	}
	if views == nil {
		views = []*records.View{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": views,
		"total":   total,
		"offset":  offset,
		"limit":   limit,
	})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete record request", zap.String("id", id))
	if err := s.records.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, "delete record", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type setLayoutRequest struct {
	Layout     string `json:"layout" validate:"required"`
	Redecorate bool   `json:"redecorate"`
}

func (s *Server) handleSetLayout(w http.ResponseWriter, r *http.Request) {
	var req setLayoutRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	tmpl, ok := models.ParseTemplate(req.Layout)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "unknown layout: "+req.Layout)
		return
	}
	view, err := s.records.SetLayout(r.Context(), chi.URLParam(r, "id"), tmpl, req.Redecorate)
	if err != nil {
		s.respondServiceError(w, "set layout", err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	view, err := s.records.Regenerate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, "regenerate decorations", err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

type searchRequest struct {
	Query string `json:"query" validate:"notblank"`
	Limit int    `json:"limit" validate:"gte=0"`
	Fuzzy *bool  `json:"fuzzy,omitempty"`
}

func (s *Server) handleSearchRecords(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.config.Search.DefaultLimit
	}
	limit = min(limit, s.config.Search.MaxLimit)
	opts := &keyword.SearchOptions{
		TitleBoost:   s.config.Search.KeywordTitleBoost,
		FuzzyEnabled: req.Fuzzy == nil || *req.Fuzzy,
		Fuzziness:    s.config.Search.Fuzziness,
	}
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("limit", limit))
	result, err := s.records.Search(r.Context(), req.Query, limit, opts)
	if err != nil {
		s.respondServiceError(w, "search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := s.records.Count(ctx)
	if err != nil {
		s.logger.Error("status: count records failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"records": count,
	}
	if indexed, err := s.records.IndexedCount(); err == nil {
		resp["indexed_records"] = indexed
	}

	oracleInfo := map[string]interface{}{
		"enabled": s.config.Oracle.EnabledOrDefault(),
		"model":   s.config.Oracle.Model,
	}
	if s.oracle != nil {
		oracleInfo["circuit"] = s.oracle.State()
	}
	resp["oracle"] = oracleInfo

	resp["config"] = map[string]interface{}{
		"database_path": s.config.Storage.DatabasePath,
		"index_path":    s.config.Storage.IndexPath,
		"seed":          s.config.Compose.Seed,
	}
	if usage, err := storage.MeasureUsage(s.config.Storage.DatabasePath, s.config.Storage.IndexPath); err == nil {
		resp["disk_usage_bytes"] = usage.TotalBytes()
		resp["disk_usage"] = usage
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInboxDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "inbox watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type inboxAddRequest struct {
	Path string `json:"path" validate:"notblank"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleInboxDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "inbox watch not enabled")
		return
	}
	var req inboxAddRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := req.Sync == nil || *req.Sync
	s.logger.Debug("inbox add directory request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("inbox add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistInbox()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleInboxDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "inbox watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("inbox remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("inbox remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistInbox()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistInbox writes the current inbox directories to the config file.
func (s *Server) persistInbox() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Inbox.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist inbox config", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

// decode reads a JSON body into dst, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeAndValidate decodes a JSON body and checks its validate tags.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !s.decode(w, r, dst) {
		return false
	}
	if err := validation.Get().Struct(dst); err != nil {
		s.respondValidation(w, err)
		return false
	}
	return true
}

func (s *Server) respondServiceError(w http.ResponseWriter, op string, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		s.respondValidation(w, err)
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, records.ErrUnknownTemplate):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondValidation(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "invalid input",
		"fields": verrs,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
