package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/store"
	"github.com/kapu/pokedex-catalog-go/internal/util"
)

// CatalogStore is the list state the HTTP surface reads and drives.
type CatalogStore interface {
	Snapshot() store.Snapshot
	LoadInitial(ctx context.Context) error
	LoadMore(ctx context.Context) error
	Search(ctx context.Context, term string) error
	ScheduleSearch(term string)
	ApplyCriteria(patch domain.CriteriaPatch) error
	ResetCriteria()
}

// DetailService serves the requests that bypass the list state.
type DetailService interface {
	FetchDetail(ctx context.Context, id int) (*domain.Pokemon, error)
	ListTypes(ctx context.Context) ([]string, error)
}

// UpstreamHealth reports whether the upstream API is currently reachable.
type UpstreamHealth interface {
	CircuitStatus() util.CircuitBreakerStatus
}

type Server struct {
	addr            string
	store           CatalogStore
	service         DetailService
	upstream        UpstreamHealth
	logger          *zap.Logger
	shutdownTimeout time.Duration
	httpServer      *http.Server
}

// New builds the server. upstream may be nil, in which case /health only
// reports the process itself.
func New(addr string, st CatalogStore, svc DetailService, upstream UpstreamHealth, logger *zap.Logger) *Server {
	s := &Server{
		addr:            addr,
		store:           st,
		service:         svc,
		upstream:        upstream,
		logger:          logger,
		shutdownTimeout: constants.ServerConfig.ShutdownTimeout,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: constants.ServerConfig.ReadHeaderTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pokemon", s.handleList)
	mux.HandleFunc("POST /api/pokemon/more", s.handleLoadMore)
	mux.HandleFunc("GET /api/pokemon/{id}", s.handleDetail)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/search", s.handleScheduleSearch)
	mux.HandleFunc("PATCH /api/criteria", s.handleApplyCriteria)
	mux.HandleFunc("DELETE /api/criteria", s.handleResetCriteria)
	mux.HandleFunc("GET /api/types", s.handleTypes)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.logRequests(mux)
}

// ListenAndServe runs the HTTP server until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

const requestIDHeader = "X-Request-ID"

// logRequests tags every request with an id (the caller's X-Request-ID when
// given) and logs it on completion.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
