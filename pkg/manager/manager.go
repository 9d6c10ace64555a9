package manager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/kasuboski/snatcher/pkg/download"
	mio "github.com/kasuboski/snatcher/pkg/io"
	"github.com/kasuboski/snatcher/pkg/library"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/marker"
	"github.com/kasuboski/snatcher/pkg/notify"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	ErrCheckInProgress = errors.New("already checking snatched releases")
	// ErrTryNext is returned by a Fetch when the next candidate should be attempted instead
	ErrTryNext = errors.New("try the next release")
)

const (
	DefaultMissingTimeout = 7 * 24 * time.Hour
	DefaultCleanDoneAge   = 7 * 24 * time.Hour
)

// ReleaseManager drives releases from search result to organized files
type ReleaseManager struct {
	storage   storage.Storage
	gateway   download.Gateway
	organizer library.Organizer
	marker    marker.Marker
	notifier  notify.Notifier
	fs        mio.FileIO
	fetch     Fetch

	nextOnFailed   bool
	missingTimeout time.Duration
	cleanDoneAge   time.Duration
	lock           *flock.Flock
	registry       prometheus.Registerer
	metrics        *metrics
	now            func() time.Time

	checking atomic.Bool
}

type Option func(*ReleaseManager)

// WithNextOnFailed searches the next release of a media item when a download fails
func WithNextOnFailed(next bool) Option {
	return func(m *ReleaseManager) {
		m.nextOnFailed = next
	}
}

func WithMissingTimeout(d time.Duration) Option {
	return func(m *ReleaseManager) {
		if d > 0 {
			m.missingTimeout = d
		}
	}
}

func WithCleanDoneAge(d time.Duration) Option {
	return func(m *ReleaseManager) {
		if d > 0 {
			m.cleanDoneAge = d
		}
	}
}

// WithLockFile guards CheckSnatched with a file lock shared between processes
func WithLockFile(path string) Option {
	return func(m *ReleaseManager) {
		if path != "" {
			m.lock = flock.New(filepath.Clean(path))
		}
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(m *ReleaseManager) {
		m.registry = registry
	}
}

// WithFetch sets how stored releases are materialized before they are sent to a downloader
func WithFetch(fetch Fetch) Option {
	return func(m *ReleaseManager) {
		m.fetch = fetch
	}
}

func WithFileIO(fileIO mio.FileIO) Option {
	return func(m *ReleaseManager) {
		m.fs = fileIO
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *ReleaseManager) {
		m.now = now
	}
}

func New(store storage.Storage, gateway download.Gateway, organizer library.Organizer, m marker.Marker, notifier notify.Notifier, opts ...Option) *ReleaseManager {
	manager := &ReleaseManager{
		storage:        store,
		gateway:        gateway,
		organizer:      organizer,
		marker:         m,
		notifier:       notifier,
		fs:             &mio.OSFileSystem{},
		missingTimeout: DefaultMissingTimeout,
		cleanDoneAge:   DefaultCleanDoneAge,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(manager)
	}

	if manager.registry == nil {
		manager.registry = prometheus.NewRegistry()
	}
	manager.metrics = newMetrics(manager.registry)

	return manager
}

// updateStatus is the only place release statuses change. Moving to the current status does nothing.
func (m *ReleaseManager) updateStatus(ctx context.Context, release *storage.Release, status storage.ReleaseStatus) error {
	if release.Status == status {
		return nil
	}

	log := logger.FromCtx(ctx).With("release id", release.ID)

	from := release.Status
	at := m.now().UTC()
	if err := m.storage.UpdateReleaseStatus(ctx, int64(release.ID), status, at); err != nil {
		return fmt.Errorf("failed to mark release %d as %s: %w", release.ID, status, err)
	}

	release.Status = status
	release.LastEdit = at
	m.metrics.transitions.WithLabelValues(string(from), string(status)).Inc()

	log.Debugw("marked release", "name", releaseName(*release), "from", from, "to", status)

	m.notify(ctx, notify.NewEvent(notify.ReleaseUpdateStatus, "", release))
	return nil
}

func (m *ReleaseManager) notify(ctx context.Context, event notify.Event) {
	if m.notifier == nil {
		return
	}

	if err := m.notifier.Notify(ctx, event); err != nil {
		logger.FromCtx(ctx).Warnw("failed to send notification", "event", event.Type, zap.Error(err))
	}
}

// releaseName prefers the first stored file over the name the provider gave
func releaseName(release storage.Release) string {
	files, err := release.FileList()
	if err == nil && len(files) > 0 {
		return filepath.Base(files[0])
	}

	info, err := release.ParsedInfo()
	if err != nil {
		return release.Identifier
	}

	return info.Name()
}
