package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/machine"
	"github.com/kasuboski/snatcher/pkg/manager"
	"github.com/kasuboski/snatcher/pkg/pagination"
	"github.com/kasuboski/snatcher/pkg/storage"
	"go.uber.org/zap"
)

//go:generate mockgen -source=releases.go -destination=mocks/mock_releases.go -package=mocks Releases

// Releases is what the api needs from the release manager
type Releases interface {
	ForMedia(ctx context.Context, mediaID int64) ([]*storage.Release, error)
	History(ctx context.Context, id int64) ([]*storage.ReleaseTransition, error)
	ManualDownload(ctx context.Context, id int64) (bool, error)
	Ignore(ctx context.Context, id int64) (storage.ReleaseStatus, error)
	Clean(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CheckSnatched(ctx context.Context) error
}

var _ Releases = (*manager.ReleaseManager)(nil)

type ReleaseResponse struct {
	ID         int32               `json:"id"`
	MediaID    int32               `json:"mediaId"`
	Identifier string              `json:"identifier"`
	Quality    string              `json:"quality"`
	Status     string              `json:"status"`
	Info       storage.ReleaseInfo `json:"info,omitempty"`
	Files      []string            `json:"files,omitempty"`
	LastEdit   time.Time           `json:"lastEdit"`
}

type TransitionResponse struct {
	Status string     `json:"status"`
	At     *time.Time `json:"at,omitempty"`
}

func toReleaseResponse(release *storage.Release) ReleaseResponse {
	response := ReleaseResponse{
		ID:         release.ID,
		MediaID:    release.MediaID,
		Identifier: release.Identifier,
		Quality:    release.Quality,
		Status:     string(release.Status),
		LastEdit:   release.LastEdit,
	}

	if info, err := release.ParsedInfo(); err == nil {
		response.Info = info
	}
	if files, err := release.FileList(); err == nil {
		response.Files = files
	}

	return response
}

// ListReleases lists the releases of a media item, best scored first. Supports page and pageSize.
func (s Server) ListReleases() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := pathID(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		releases, err := s.releases.ForMedia(r.Context(), id)
		if err != nil {
			log.Errorw("failed to list releases", "media id", id, zap.Error(err))
			writeErrorResponse(w, statusFor(err), err)
			return
		}

		page, meta := pagination.Apply(params, releases)
		response := make([]ReleaseResponse, len(page))
		for i, release := range page {
			response[i] = toReleaseResponse(release)
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: response, Meta: &meta})
	}
}

// ReleaseHistory lists the status changes of a release, oldest first
func (s Server) ReleaseHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		transitions, err := s.releases.History(r.Context(), id)
		if err != nil {
			writeErrorResponse(w, statusFor(err), err)
			return
		}

		response := make([]TransitionResponse, len(transitions))
		for i, transition := range transitions {
			response[i] = TransitionResponse{Status: transition.ToState, At: transition.CreatedAt}
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: response})
	}
}

// DownloadRelease snatches a release on request, even one that was ignored
func (s Server) DownloadRelease() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		id, err := pathID(r)
		if err != nil {
			writeSuccess(w, http.StatusBadRequest, err)
			return
		}

		ok, err := s.releases.ManualDownload(r.Context(), id)
		if err != nil {
			log.Warnw("manual download failed", "release id", id, zap.Error(err))
			writeSuccess(w, statusFor(err), err)
			return
		}

		writeResponse(w, http.StatusOK, SuccessResponse{Success: ok})
	}
}

func (s Server) IgnoreRelease() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeSuccess(w, http.StatusBadRequest, err)
			return
		}

		_, err = s.releases.Ignore(r.Context(), id)
		writeSuccess(w, statusFor(err), err)
	}
}

func (s Server) CleanRelease() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeSuccess(w, http.StatusBadRequest, err)
			return
		}

		err = s.releases.Clean(r.Context(), id)
		writeSuccess(w, statusFor(err), err)
	}
}

func (s Server) DeleteRelease() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeSuccess(w, http.StatusBadRequest, err)
			return
		}

		err = s.releases.Delete(r.Context(), id)
		writeSuccess(w, statusFor(err), err)
	}
}

// CheckSnatched runs a reconcile pass now
func (s Server) CheckSnatched() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.releases.CheckSnatched(r.Context())
		if err != nil {
			logger.FromCtx(r.Context()).Warnw("check snatched failed", zap.Error(err))
		}
		writeSuccess(w, statusFor(err), err)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{Page: 1}
	qp := r.URL.Query()

	if v := qp.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, errors.New("page must be a positive integer")
		}
		params.Page = page
	}

	if v := qp.Get("pageSize"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 0 {
			return params, errors.New("pageSize must be a non-negative integer")
		}
		params.PageSize = size
	}

	return params, nil
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, manager.ErrCheckInProgress), errors.Is(err, machine.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
