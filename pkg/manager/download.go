package manager

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/kasuboski/snatcher/pkg/download"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/notify"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
	"go.uber.org/zap"
)

// DownloadResult is the outcome of a single download attempt
type DownloadResult int

const (
	DownloadFailed DownloadResult = iota
	DownloadSucceeded
	DownloadTryNext
)

func (r DownloadResult) String() string {
	switch r {
	case DownloadSucceeded:
		return "succeeded"
	case DownloadTryNext:
		return "try_next"
	default:
		return "failed"
	}
}

// Fetch downloads the nzb or torrent file behind a release. Returning ErrTryNext skips the release.
type Fetch func(ctx context.Context, info storage.ReleaseInfo) ([]byte, error)

// Candidate is a release that may be sent to a downloader
type Candidate struct {
	Release *storage.Release
	Info    storage.ReleaseInfo
	Fetch   Fetch
}

func (c Candidate) identifier() string {
	if c.Release != nil && c.Release.Identifier != "" {
		return c.Release.Identifier
	}

	return Identifier(c.Info.URL())
}

func (c Candidate) status() storage.ReleaseStatus {
	if c.Release == nil {
		return storage.ReleaseStatusAvailable
	}

	return c.Release.Status
}

// Identifier is the dedupe key of a search result
func Identifier(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Download makes one attempt at handing a candidate to a downloader
func (m *ReleaseManager) Download(ctx context.Context, candidate Candidate, media *model.Media, manual bool) DownloadResult {
	result := m.download(ctx, candidate, media, manual)
	m.metrics.downloads.WithLabelValues(result.String()).Inc()
	return result
}

func (m *ReleaseManager) download(ctx context.Context, candidate Candidate, media *model.Media, manual bool) DownloadResult {
	protocol := candidate.Info.Protocol()
	log := logger.FromCtx(ctx).With("release", candidate.Info.Name(), "protocol", protocol)

	if !m.gateway.Enabled(protocol, manual) {
		log.Infow("tried to download, but no downloader is enabled", "manual", manual)
		return DownloadFailed
	}

	var data []byte
	if candidate.Fetch != nil {
		fetched, err := candidate.Fetch(ctx, candidate.Info)
		if errors.Is(err, ErrTryNext) {
			log.Debug("release asked to try the next one")
			return DownloadTryNext
		}
		if err != nil {
			log.Warnw("failed to fetch release", zap.Error(err))
			return DownloadFailed
		}
		data = fetched
	}

	result, err := m.gateway.Submit(ctx, download.SubmitRequest{
		Protocol: protocol,
		Manual:   manual,
		AddRequest: download.AddRequest{
			Name: candidate.Info.Name(),
			URL:  candidate.Info.URL(),
			Data: data,
		},
	})
	if err != nil {
		log.Warnw("downloader refused release", zap.Error(err))
		return DownloadFailed
	}
	if result == nil {
		log.Warn("downloader returned no result")
		return DownloadFailed
	}

	log.Debugw("downloader result", "downloader", result.Downloader, "id", result.ID)

	m.recordSnatch(ctx, candidate, media, result)
	return DownloadSucceeded
}

// recordSnatch stores what the downloader returned and moves the release along. Errors are logged only,
// the release was sent either way.
func (m *ReleaseManager) recordSnatch(ctx context.Context, candidate Candidate, media *model.Media, result *download.Result) {
	log := logger.FromCtx(ctx).With("identifier", candidate.identifier())

	release, err := m.storage.GetReleaseByIdentifier(ctx, candidate.identifier())
	if err != nil {
		log.Warnw("failed to find snatched release", zap.Error(err))
		return
	}
	log = log.With("release id", release.ID)

	info, err := release.ParsedInfo()
	if err != nil {
		info = storage.ReleaseInfo{}
		for k, v := range candidate.Info {
			info[k] = v
		}
	}
	for key, value := range result.Metadata {
		info["download_"+key] = value
	}

	encoded, err := info.Encode()
	if err != nil {
		log.Errorw("failed to encode release info", zap.Error(err))
		return
	}
	release.Info = encoded
	if err := m.storage.UpdateRelease(ctx, release.Release); err != nil {
		log.Errorw("failed to save download info", zap.Error(err))
	}

	message := fmt.Sprintf("Snatched %q: %s in %s", info.Name(), mediaTitle(media), release.Quality)
	log.Info(message)

	if m.organizer.Enabled() {
		if err := m.updateStatus(ctx, release, storage.ReleaseStatusSnatched); err != nil {
			log.Errorw("failed to mark release snatched", zap.Error(err))
		}
	} else {
		m.finishWithoutOrganizer(ctx, release, media)
	}

	m.notify(ctx, notify.NewEvent(notify.ReleaseSnatched, message, release))
}

// finishWithoutOrganizer marks the media done when nothing will organize the download and the
// snatched quality ends the search
func (m *ReleaseManager) finishWithoutOrganizer(ctx context.Context, release *storage.Release, media *model.Media) {
	log := logger.FromCtx(ctx).With("release id", release.ID)

	if media != nil && media.Status == string(storage.MediaStatusActive) && m.isFinish(ctx, media, release.Quality) {
		log.Infow("organizer disabled, marking media as finished", "media", mediaTitle(media))
		if err := m.storage.UpdateMediaStatus(ctx, int64(media.ID), storage.MediaStatusDone); err != nil {
			log.Errorw("failed to mark media finished", zap.Error(err))
		}
		return
	}

	if err := m.updateStatus(ctx, release, storage.ReleaseStatusDownloaded); err != nil {
		log.Errorw("failed to mark release downloaded", zap.Error(err))
	}
}

// isFinish reports whether quality is an item of the media's profile that ends the search
func (m *ReleaseManager) isFinish(ctx context.Context, media *model.Media, quality string) bool {
	if media.ProfileID == nil {
		return false
	}

	profile, err := m.storage.GetQualityProfile(ctx, int64(*media.ProfileID))
	if err != nil {
		logger.FromCtx(ctx).Warnw("failed to get quality profile", "profile id", *media.ProfileID, zap.Error(err))
		return false
	}

	item, ok := profile.Item(quality)
	return ok && item.Finish
}

// TryDownloadResult walks ranked candidates for one quality until one is snatched
func (m *ReleaseManager) TryDownloadResult(ctx context.Context, candidates []Candidate, media *model.Media, quality model.QualityProfileItem, manual bool) bool {
	log := logger.FromCtx(ctx).With("quality", quality.Quality)

	for _, candidate := range candidates {
		name := candidate.Info.Name()

		if !quality.Finish && quality.WaitFor > 0 && candidate.Info.Age() <= int(quality.WaitFor) {
			log.Infow("ignored, waiting for a better release", "days", quality.WaitFor, "release", name)
			continue
		}

		switch candidate.status() {
		case storage.ReleaseStatusIgnored, storage.ReleaseStatusFailed:
			log.Infow("ignored", "release", name, "status", candidate.status())
			continue
		}

		if candidate.Info.Score() <= 0 {
			log.Infow("ignored, score too low", "release", name, "score", candidate.Info.Score())
			continue
		}

		switch m.Download(ctx, candidate, media, manual) {
		case DownloadSucceeded:
			return true
		case DownloadTryNext:
			continue
		default:
			return false
		}
	}

	return false
}

// TryNextRelease runs through the stored releases of a media item one profile quality at a time
func (m *ReleaseManager) TryNextRelease(ctx context.Context, mediaID int64, manual bool) (bool, error) {
	log := logger.FromCtx(ctx).With("media id", mediaID)

	media, err := m.storage.GetMedia(ctx, mediaID)
	if err != nil {
		return false, err
	}
	if media.ProfileID == nil {
		log.Debug("media has no quality profile")
		return false, nil
	}

	profile, err := m.storage.GetQualityProfile(ctx, int64(*media.ProfileID))
	if err != nil {
		return false, fmt.Errorf("failed to get quality profile: %w", err)
	}

	releases, err := m.ForMedia(ctx, mediaID)
	if err != nil {
		return false, err
	}

	for _, item := range profile.Items {
		candidates := make([]Candidate, 0)
		for _, release := range releases {
			if release.Quality != item.Quality || handedOff(release.Status) {
				continue
			}

			info, err := release.ParsedInfo()
			if err != nil {
				log.Debugw("skipping release with faulty info", "release id", release.ID)
				continue
			}

			candidates = append(candidates, Candidate{Release: release, Info: info, Fetch: m.fetch})
		}

		if m.TryDownloadResult(ctx, candidates, media, item, manual) {
			return true, nil
		}
	}

	log.Debug("no release could be snatched")
	return false, nil
}

// handedOff reports whether a downloader already has the release
func handedOff(status storage.ReleaseStatus) bool {
	switch status {
	case storage.ReleaseStatusSnatched, storage.ReleaseStatusSeeding, storage.ReleaseStatusMissing,
		storage.ReleaseStatusDownloaded, storage.ReleaseStatusDone:
		return true
	}
	return false
}

// ManualDownload sends a release to a downloader at the user's request
func (m *ReleaseManager) ManualDownload(ctx context.Context, id int64) (bool, error) {
	log := logger.FromCtx(ctx).With("release id", id)

	release, err := m.storage.GetRelease(ctx, id)
	if err != nil {
		return false, err
	}

	info, err := release.ParsedInfo()
	if err != nil {
		return false, err
	}

	media, err := m.storage.GetMedia(ctx, int64(release.MediaID))
	if err != nil {
		return false, err
	}

	m.notify(ctx, notify.NewEvent(notify.ReleaseManualDownload, fmt.Sprintf("Snatching %q", info.Name()), true))

	// ignored releases can only be snatched again once available
	if release.Status == storage.ReleaseStatusIgnored {
		if err := m.updateStatus(ctx, release, storage.ReleaseStatusAvailable); err != nil {
			return false, err
		}
	}

	result := m.Download(ctx, Candidate{Release: release, Info: info, Fetch: m.fetch}, media, true)
	if result != DownloadSucceeded {
		log.Infow("manual download failed", "result", result)
		return false, nil
	}

	release, err = m.storage.GetRelease(ctx, id)
	if err != nil {
		log.Warnw("failed to reload snatched release", zap.Error(err))
	}

	m.notify(ctx, notify.NewEvent(notify.ReleaseManualDownload, fmt.Sprintf("Successfully snatched %q", info.Name()), release))
	return true, nil
}

func mediaTitle(media *model.Media) string {
	if media == nil {
		return "unknown"
	}
	if media.Year == nil {
		return media.Title
	}

	return media.Title + " (" + strconv.Itoa(int(*media.Year)) + ")"
}
