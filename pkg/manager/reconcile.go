package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kasuboski/snatcher/pkg/download"
	"github.com/kasuboski/snatcher/pkg/library"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/marker"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
	"go.uber.org/zap"
)

// ScanItem is a download the organizer should look at once the pass is over
type ScanItem struct {
	Record          download.Record
	Target          library.Target
	Pause           bool
	Scan            bool
	ProcessComplete bool
}

// pass collects the follow up work of one CheckSnatched run
type pass struct {
	items        []ScanItem
	scanRequired bool
	unreachable  *download.UnreachableError
	media        map[int32]*model.Media
}

// CheckSnatched reconciles every release a downloader is working on with what the downloaders report.
// Only one pass runs at a time, a concurrent call returns ErrCheckInProgress without doing anything.
func (m *ReleaseManager) CheckSnatched(ctx context.Context) (err error) {
	log := logger.FromCtx(ctx)

	if !m.checking.CompareAndSwap(false, true) {
		log.Debug("already checking snatched releases")
		m.metrics.checks.WithLabelValues("skipped").Inc()
		return ErrCheckInProgress
	}
	defer m.checking.Store(false)

	if m.lock != nil {
		locked, lockErr := m.lock.TryLock()
		if lockErr != nil {
			return fmt.Errorf("failed to lock %s: %w", m.lock.Path(), lockErr)
		}
		if !locked {
			log.Debugw("another process is checking snatched releases", "lock", m.lock.Path())
			m.metrics.checks.WithLabelValues("skipped").Inc()
			return ErrCheckInProgress
		}
		defer m.lock.Unlock()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing checked releases: %v", r)
			log.Errorw("failed checking snatched releases", zap.Error(err))
		}

		m.metrics.checkDuration.Observe(time.Since(start).Seconds())
		result := "success"
		if err != nil {
			result = "error"
		}
		m.metrics.checks.WithLabelValues(result).Inc()
	}()

	p := &pass{media: make(map[int32]*model.Media)}
	err = m.reconcileSnatched(ctx, p)
	if err != nil {
		log.Errorw("failed checking for releases in downloaders", zap.Error(err))
	}

	m.processScanItems(ctx, p)
	return err
}

func (m *ReleaseManager) reconcileSnatched(ctx context.Context, p *pass) (err error) {
	log := logger.FromCtx(ctx)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while checking snatched releases: %v", r)
		}
	}()

	releases, err := m.storage.ListReleasesByStatus(ctx, storage.InFlightStatuses...)
	if err != nil {
		return fmt.Errorf("failed to list snatched releases: %w", err)
	}
	if len(releases) == 0 {
		log.Debug("no releases need checking")
		return nil
	}

	records, err := m.gateway.Status(ctx, refs(releases))
	if errors.As(err, &p.unreachable) {
		log.Warnw("some downloaders did not report download status", zap.Error(err))
		err = nil
	}
	if err != nil {
		log.Warnw("failed to get download status", zap.Error(err))
		p.scanRequired = true
		return nil
	}
	if records == nil {
		log.Debug("no enabled downloader reports download status")
		p.scanRequired = true
		return nil
	}

	log.Debugw("checking status of snatched releases", "releases", len(releases), "downloads", len(records))

	var errs []error
	for _, release := range releases {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := m.reconcileRelease(ctx, p, release, records); err != nil {
			log.Warnw("failed to reconcile release", "release id", release.ID, zap.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func refs(releases []*storage.Release) []download.Ref {
	refs := make([]download.Ref, 0, len(releases))
	for _, release := range releases {
		info, err := release.ParsedInfo()
		if err != nil || info.DownloadID() == "" {
			continue
		}

		refs = append(refs, download.Ref{ID: info.DownloadID(), Downloader: info.Downloader()})
	}

	return refs
}

func (m *ReleaseManager) reconcileRelease(ctx context.Context, p *pass, release *storage.Release, records []download.Record) error {
	log := logger.FromCtx(ctx).With("release id", release.ID)

	info, err := release.ParsedInfo()
	if err != nil || info.Name() == "" {
		log.Errorw("faulty release found without any info, ignoring", zap.Error(err))
		return m.updateStatus(ctx, release, storage.ReleaseStatusIgnored)
	}
	log = log.With("release", info.Name())

	media, err := p.mediaFor(ctx, m.storage, release.MediaID)
	if err != nil {
		return err
	}

	record, found := match(info, media, records)
	if !found {
		if p.unreachable.Unreachable(info.Downloader()) {
			log.Debugw("downloader did not answer, leaving release as is", "downloader", info.Downloader())
			p.scanRequired = true
			return nil
		}

		if info.DownloadID() == "" {
			log.Debugw("download status is unknown for downloader", "downloader", info.Downloader())
			p.scanRequired = true
			return nil
		}

		log.Infow("release not found in downloaders", "download id", info.DownloadID())

		if release.Status != storage.ReleaseStatusMissing {
			return m.updateStatus(ctx, release, storage.ReleaseStatusMissing)
		}
		if m.now().Sub(release.LastEdit) > m.missingTimeout {
			return m.updateStatus(ctx, release, storage.ReleaseStatusIgnored)
		}
		return nil
	}

	log.Debugw("found download", "status", record.State, "timeleft", timeLeft(record.TimeLeft))

	fileAction := m.organizer.FileAction()
	item := ScanItem{Record: record, Target: target(media, release.Quality)}

	switch record.State {
	case download.StateBusy:
		if err := m.updateStatus(ctx, release, storage.ReleaseStatusSnatched); err != nil {
			return err
		}

		if m.organizer.InIncoming(record.Folder) {
			if err := m.marker.Tag(ctx, marker.Downloading, record.Folder, record.Files); err != nil {
				log.Warnw("failed to tag download", zap.Error(err))
			}
		}

	case download.StateSeeding:
		// read before updateStatus moves the release to seeding
		firstSeeding := release.Status != storage.ReleaseStatusSeeding
		if err := m.updateStatus(ctx, release, storage.ReleaseStatusSeeding); err != nil {
			return err
		}

		if !firstSeeding || fileAction == library.FileActionMove || !infoComplete(record) {
			log.Debugw("release is seeding", "ratio", record.SeedRatio)
			return nil
		}

		log.Infow("download completed, processing while leaving the files for seeding", "ratio", record.SeedRatio)
		m.untag(ctx, record, marker.Downloading)

		item.Pause, item.Scan, item.ProcessComplete = true, true, false
		p.items = append(p.items, item)

	case download.StateFailed:
		if err := m.updateStatus(ctx, release, storage.ReleaseStatusFailed); err != nil {
			return err
		}

		if err := m.gateway.RemoveFailed(ctx, record); err != nil {
			log.Warnw("failed to remove failed download", zap.Error(err))
		}

		if m.nextOnFailed {
			if _, err := m.TryNextRelease(ctx, int64(release.MediaID), false); err != nil {
				log.Warnw("failed to try next release", zap.Error(err))
			}
		}

	case download.StateCompleted:
		log.Info("download completed")

		if !infoComplete(record) {
			log.Debug("downloader did not report where the files are")
			p.scanRequired = true
			return nil
		}

		if release.Status == storage.ReleaseStatusSeeding {
			if fileAction == library.FileActionMove {
				if err := m.updateStatus(ctx, release, storage.ReleaseStatusDownloaded); err != nil {
					return err
				}
			}
		} else {
			if err := m.updateStatus(ctx, release, storage.ReleaseStatusSnatched); err != nil {
				return err
			}
			m.untag(ctx, record, marker.Downloading)
		}

		item.Pause, item.Scan, item.ProcessComplete = false, true, true
		p.items = append(p.items, item)
	}

	return nil
}

// processScanItems hands finished downloads to the organizer and lets the downloaders clean up
func (m *ReleaseManager) processScanItems(ctx context.Context, p *pass) {
	log := logger.FromCtx(ctx)
	link := m.organizer.FileAction() == library.FileActionLink

	for _, item := range p.items {
		record := item.Record
		log := log.With("download", record.Name, "downloader", record.Downloader)

		if item.Scan {
			pause := item.Pause && link
			if pause {
				if err := m.gateway.Pause(ctx, record, true); err != nil {
					log.Warnw("failed to pause download", zap.Error(err))
				}
			}

			request := &library.ScanRequest{Folder: record.Folder, Files: record.Files, Target: item.Target}
			if err := m.organizer.Scan(ctx, request); err != nil {
				log.Warnw("failed to organize download", zap.Error(err))
			}

			if pause {
				if err := m.gateway.Pause(ctx, record, false); err != nil {
					log.Warnw("failed to resume download", zap.Error(err))
				}
			}
		}

		if item.ProcessComplete {
			if m.marker.HasTag(ctx, marker.FailedRename, record.Folder, record.Files) {
				log.Warn("not cleaning up download, organizing it failed")
				continue
			}

			m.untag(ctx, record, marker.RenamedAlready)
			if err := m.gateway.ProcessComplete(ctx, record); err != nil {
				log.Warnw("failed to clean up download", zap.Error(err))
			}
		}
	}

	if p.scanRequired && len(p.items) == 0 {
		if err := m.organizer.Scan(ctx, nil); err != nil {
			log.Warnw("failed to scan incoming downloads", zap.Error(err))
		}
	}
}

func (m *ReleaseManager) untag(ctx context.Context, record download.Record, tag string) {
	if err := m.marker.Untag(ctx, tag, record.Folder, record.Files); err != nil {
		logger.FromCtx(ctx).Warnw("failed to untag download", "tag", tag, "folder", record.Folder, zap.Error(err))
	}
}

func (p *pass) mediaFor(ctx context.Context, store storage.MediaStorage, id int32) (*model.Media, error) {
	if media, ok := p.media[id]; ok {
		return media, nil
	}

	media, err := store.GetMedia(ctx, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get media %d: %w", id, err)
	}

	p.media[id] = media
	return media, nil
}

// match finds the downloader record of a release. Releases with a download id only match that
// id. Without one the name and imdb id are compared, which is best effort.
func match(info storage.ReleaseInfo, media *model.Media, records []download.Record) (download.Record, bool) {
	if id := info.DownloadID(); id != "" {
		for _, record := range records {
			if record.ID == id && record.Downloader == info.Downloader() {
				return record, true
			}
		}
		return download.Record{}, false
	}

	name := info.Name()
	for _, record := range records {
		if record.Name == name || strings.Contains(record.Name, name) {
			return record, true
		}
		if imdb := library.IMDBID(record.Name); imdb != "" && imdb == media.Identifier {
			return record, true
		}
	}

	return download.Record{}, false
}

// infoComplete reports whether a record says where its files are
func infoComplete(record download.Record) bool {
	return record.ID != "" && record.Downloader != "" && record.Folder != ""
}

func timeLeft(d time.Duration) string {
	if d < 0 {
		return "N/A"
	}
	return d.String()
}
