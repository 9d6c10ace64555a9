package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/kasuboski/snatcher/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type GenericResponse struct {
	Error    string           `json:"error,omitempty"`
	Response any              `json:"response"`
	Meta     *pagination.Meta `json:"meta,omitempty"`
}

// SuccessResponse answers every mutation
type SuccessResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Server houses all dependencies of the release api such as loggers, the release manager and metrics
type Server struct {
	baseLogger *zap.SugaredLogger
	releases   Releases
	gatherer   prometheus.Gatherer
}

// New creates a new release api server
func New(logger *zap.SugaredLogger, releases Releases, gatherer prometheus.Gatherer) Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return Server{
		baseLogger: logger,
		releases:   releases,
		gatherer:   gatherer,
	}
}

func writeResponse(w http.ResponseWriter, status int, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	w.Header().Set("content-type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}

	w.Write(b)
	return nil
}

func writeErrorResponse(w http.ResponseWriter, status int, err error) error {
	return writeResponse(w, status, GenericResponse{Error: err.Error()})
}

func writeSuccess(w http.ResponseWriter, status int, err error) error {
	if err != nil {
		return writeResponse(w, status, SuccessResponse{Error: err.Error()})
	}
	return writeResponse(w, status, SuccessResponse{Success: true})
}

// Router builds the routes of the api
func (s Server) Router() *mux.Router {
	rtr := mux.NewRouter()
	rtr.Use(s.LogMiddleware())
	rtr.HandleFunc("/healthz", s.Healthz()).Methods(http.MethodGet)
	rtr.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := rtr.PathPrefix("/api").Subrouter()

	v1 := api.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/media/{id:[0-9]+}/releases", s.ListReleases()).Methods(http.MethodGet)

	v1.HandleFunc("/releases/check", s.CheckSnatched()).Methods(http.MethodPost)
	v1.HandleFunc("/releases/{id:[0-9]+}/history", s.ReleaseHistory()).Methods(http.MethodGet)
	v1.HandleFunc("/releases/{id:[0-9]+}/download", s.DownloadRelease()).Methods(http.MethodPost)
	v1.HandleFunc("/releases/{id:[0-9]+}/ignore", s.IgnoreRelease()).Methods(http.MethodPost)
	v1.HandleFunc("/releases/{id:[0-9]+}/clean", s.CleanRelease()).Methods(http.MethodPost)
	v1.HandleFunc("/releases/{id:[0-9]+}", s.DeleteRelease()).Methods(http.MethodDelete)

	return rtr
}

// Serve starts the http server and blocks until ctx is done
func (s Server) Serve(ctx context.Context, port int) error {
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
	)(s.Router())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.baseLogger.Infow("serving...", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// Healthz is an endpoint that can be used for probes
func (s Server) Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := GenericResponse{
			Response: "ok",
		}
		writeResponse(w, http.StatusOK, response)
	}
}
