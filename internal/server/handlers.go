package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/store"
	"github.com/kapu/pokedex-catalog-go/internal/util"
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
)

type listResponse struct {
	store.Snapshot
	Window *store.Window `json:"window,omitempty"`
}

type detailResponse struct {
	*domain.Pokemon
	DisplayName string   `json:"displayName"`
	DisplayID   string   `json:"displayId"`
	TypeColors  []string `json:"typeColors"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type catalogFailure interface {
	HTTPStatus() int
	ErrorCode() string
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if err := s.store.LoadInitial(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w, r, s.store.Snapshot())
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	if err := s.store.LoadMore(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w, r, s.store.Snapshot())
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		s.writeError(w, badRequest("id must be a positive integer", map[string]any{"id": raw}))
		return
	}

	pokemon, err := s.service.FetchDetail(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	colors := make([]string, 0, len(pokemon.Types))
	for _, t := range pokemon.Types {
		colors = append(colors, domain.TypeColor(t))
	}
	writeJSON(w, http.StatusOK, detailResponse{
		Pokemon:     pokemon,
		DisplayName: pokemon.DisplayName(),
		DisplayID:   pokemon.DisplayID(),
		TypeColors:  colors,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Search(r.Context(), r.URL.Query().Get("q")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w, r, s.store.Snapshot())
}

func (s *Server) handleScheduleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, badRequest("invalid JSON body", nil).WithCause(err))
		return
	}
	s.store.ScheduleSearch(req.Term)
	writeJSON(w, http.StatusAccepted, s.store.Snapshot())
}

func (s *Server) handleApplyCriteria(w http.ResponseWriter, r *http.Request) {
	var patch domain.CriteriaPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, badRequest("invalid JSON body", nil).WithCause(err))
		return
	}
	if err := s.store.ApplyCriteria(patch); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSnapshot(w, r, s.store.Snapshot())
}

func (s *Server) handleResetCriteria(w http.ResponseWriter, r *http.Request) {
	s.store.ResetCriteria()
	s.writeSnapshot(w, r, s.store.Snapshot())
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.service.ListTypes(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"types": types})
}

type healthResponse struct {
	Status   string                     `json:"status"`
	Upstream *util.CircuitBreakerStatus `json:"upstream,omitempty"`
}

// handleHealth answers 200 while the upstream breaker is closed or probing
// and 503 while it is open.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK

	if s.upstream != nil {
		breaker := s.upstream.CircuitStatus()
		resp.Upstream = &breaker
		if breaker.State == util.CircuitStateOpen {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

// writeSnapshot windows the view when the request asks for a page.
func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, snap store.Snapshot) {
	resp := listResponse{Snapshot: snap}

	query := r.URL.Query()
	if query.Has("page") || query.Has("per_page") {
		page := intParam(query.Get("page"), 1)
		perPage := intParam(query.Get("per_page"), constants.ServerConfig.DefaultPerPage)
		window := snap.Page(page, perPage)
		resp.Window = &window
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.CodeCatalogError

	var failure catalogFailure
	if stderrors.As(err, &failure) {
		status = failure.HTTPStatus()
		code = failure.ErrorCode()
	}
	if errors.IsNotFound(err) {
		status = http.StatusNotFound
	}
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}

	if status >= 500 {
		s.logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func badRequest(message string, context map[string]any) *errors.CatalogError {
	return errors.NewCatalogError(message, errors.CodeValidation, http.StatusBadRequest, context)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func intParam(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
