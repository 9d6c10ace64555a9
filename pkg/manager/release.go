package manager

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kasuboski/snatcher/pkg/library"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
	"go.uber.org/zap"
)

// SearchResult is a scored release found by a provider
type SearchResult struct {
	Info  storage.ReleaseInfo
	Fetch Fetch
}

// CreateFromSearch stores search results for a media item and quality. Known results get their
// info replaced and keep their status. Candidates are returned in input order.
func (m *ReleaseManager) CreateFromSearch(ctx context.Context, media *model.Media, quality string, results []SearchResult) ([]Candidate, error) {
	log := logger.FromCtx(ctx).With("media id", media.ID)

	candidates := make([]Candidate, 0, len(results))
	for _, result := range results {
		identifier := Identifier(result.Info.URL())

		encoded, err := result.Info.Encode()
		if err != nil {
			return nil, fmt.Errorf("failed to encode release info: %w", err)
		}

		release, err := m.storage.GetReleaseByIdentifier(ctx, identifier)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			id, err := m.storage.CreateRelease(ctx, storage.Release{
				Release: model.Release{
					MediaID:    media.ID,
					Identifier: identifier,
					Quality:    quality,
					Info:       encoded,
					LastEdit:   m.now().UTC(),
				},
			}, storage.ReleaseStatusAvailable)
			if err != nil {
				return nil, fmt.Errorf("failed to create release %s: %w", result.Info.Name(), err)
			}

			release, err = m.storage.GetRelease(ctx, id)
			if err != nil {
				return nil, err
			}
			log.Debugw("created release", "release id", id, "name", result.Info.Name())
		case err != nil:
			return nil, err
		default:
			release.Info = encoded
			release.LastEdit = m.now().UTC()
			if err := m.storage.UpdateRelease(ctx, release.Release); err != nil {
				return nil, fmt.Errorf("failed to update release %d: %w", release.ID, err)
			}
		}

		fetch := result.Fetch
		if fetch == nil {
			fetch = m.fetch
		}

		candidates = append(candidates, Candidate{Release: release, Info: result.Info, Fetch: fetch})
	}

	return candidates, nil
}

// AddRequest describes files the organizer placed in the library
type AddRequest struct {
	MediaIdentifier string
	Title           string
	Year            int
	Audio           string
	Quality         string
	Files           []string
}

// Add records organized files. The release is found by <media>.<audio>.<quality>, or else the
// release of the media still being downloaded is used so the downloader can clean up after it.
// New releases are created done.
func (m *ReleaseManager) Add(ctx context.Context, request AddRequest) (*storage.Release, error) {
	audio := request.Audio
	if audio == "" {
		audio = "unknown"
	}
	identifier := fmt.Sprintf("%s.%s.%s", request.MediaIdentifier, audio, request.Quality)
	log := logger.FromCtx(ctx).With("identifier", identifier)

	media, err := m.mediaForAdd(ctx, request)
	if err != nil {
		return nil, err
	}

	release, err := m.storage.GetReleaseByIdentifier(ctx, identifier)
	if errors.Is(err, storage.ErrNotFound) {
		release, err = m.downloadingRelease(ctx, int64(media.ID))
	}
	if err != nil {
		return nil, err
	}

	if release == nil {
		files, err := storage.EncodeFiles(request.Files)
		if err != nil {
			return nil, err
		}

		id, err := m.storage.CreateRelease(ctx, storage.Release{
			Release: model.Release{
				MediaID:    media.ID,
				Identifier: identifier,
				Quality:    request.Quality,
				Files:      files,
				LastEdit:   m.now().UTC(),
			},
		}, storage.ReleaseStatusDone)
		if err != nil {
			return nil, fmt.Errorf("failed to create release: %w", err)
		}

		release, err = m.storage.GetRelease(ctx, id)
		if err != nil {
			return nil, err
		}
		log.Infow("added release", "release id", id)
	} else {
		if err := m.attachFiles(ctx, release, request.Files); err != nil {
			return nil, err
		}
		if release.Status == storage.ReleaseStatusDownloaded || release.Status == storage.ReleaseStatusAvailable {
			if err := m.updateStatus(ctx, release, storage.ReleaseStatusDone); err != nil {
				return nil, err
			}
		}
		log.Infow("attached files to release", "release id", release.ID, "status", release.Status)
	}

	if media.Status == string(storage.MediaStatusActive) && m.isFinish(ctx, media, request.Quality) {
		if err := m.storage.UpdateMediaStatus(ctx, int64(media.ID), storage.MediaStatusDone); err != nil {
			log.Warnw("failed to mark media done", zap.Error(err))
		}
	}

	return release, nil
}

func (m *ReleaseManager) mediaForAdd(ctx context.Context, request AddRequest) (*model.Media, error) {
	media, err := m.storage.GetMediaByIdentifier(ctx, request.MediaIdentifier)
	if err == nil {
		return media, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	title := request.Title
	if title == "" {
		title = request.MediaIdentifier
	}
	created := model.Media{
		Identifier: request.MediaIdentifier,
		Title:      title,
		Status:     string(storage.MediaStatusDone),
	}
	if request.Year != 0 {
		year := int32(request.Year)
		created.Year = &year
	}

	id, err := m.storage.CreateMedia(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("failed to create media: %w", err)
	}

	return m.storage.GetMedia(ctx, id)
}

// downloadingRelease returns the first release of a media item a downloader is still working on
func (m *ReleaseManager) downloadingRelease(ctx context.Context, mediaID int64) (*storage.Release, error) {
	releases, err := m.storage.ListReleasesByMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	for _, release := range releases {
		switch release.Status {
		case storage.ReleaseStatusSnatched, storage.ReleaseStatusSeeding, storage.ReleaseStatusDownloaded:
			return release, nil
		}
	}

	return nil, nil
}

func (m *ReleaseManager) attachFiles(ctx context.Context, release *storage.Release, files []string) error {
	existing, err := release.FileList()
	if err != nil {
		existing = nil
	}

	for _, f := range files {
		if !slices.Contains(existing, f) {
			existing = append(existing, f)
		}
	}

	encoded, err := storage.EncodeFiles(existing)
	if err != nil {
		return err
	}

	release.Files = encoded
	return m.storage.UpdateRelease(ctx, release.Release)
}

func (m *ReleaseManager) Delete(ctx context.Context, id int64) error {
	if _, err := m.storage.GetRelease(ctx, id); err != nil {
		return err
	}

	return m.storage.DeleteRelease(ctx, id)
}

// Clean forgets release files that are gone from disk and deletes the release once none are left
func (m *ReleaseManager) Clean(ctx context.Context, id int64) error {
	release, err := m.storage.GetRelease(ctx, id)
	if err != nil {
		return err
	}

	files, err := release.FileList()
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(files))
	for _, f := range files {
		if m.fs.Exists(f) {
			kept = append(kept, f)
		}
	}

	if len(kept) == 0 {
		logger.FromCtx(ctx).Infow("no files left, deleting release", "release id", id)
		return m.storage.DeleteRelease(ctx, id)
	}

	if len(kept) == len(files) {
		return nil
	}

	encoded, err := storage.EncodeFiles(kept)
	if err != nil {
		return err
	}
	release.Files = encoded
	return m.storage.UpdateRelease(ctx, release.Release)
}

// Ignore toggles a release between ignored and available. Failed releases become available.
func (m *ReleaseManager) Ignore(ctx context.Context, id int64) (storage.ReleaseStatus, error) {
	release, err := m.storage.GetRelease(ctx, id)
	if err != nil {
		return "", err
	}

	status := storage.ReleaseStatusIgnored
	if release.Status == storage.ReleaseStatusIgnored || release.Status == storage.ReleaseStatusFailed {
		status = storage.ReleaseStatusAvailable
	}

	if err := m.updateStatus(ctx, release, status); err != nil {
		return release.Status, err
	}

	return release.Status, nil
}

// ForMedia lists the releases of a media item, best scored first
func (m *ReleaseManager) ForMedia(ctx context.Context, mediaID int64) ([]*storage.Release, error) {
	releases, err := m.storage.ListReleasesByMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(releases, func(a, b *storage.Release) int {
		scoreA, scoreB := score(a), score(b)
		switch {
		case scoreA > scoreB:
			return -1
		case scoreA < scoreB:
			return 1
		default:
			return 0
		}
	})

	return releases, nil
}

func score(release *storage.Release) float64 {
	info, err := release.ParsedInfo()
	if err != nil {
		return 0
	}
	return info.Score()
}

// History returns the status changes of a release, oldest first
func (m *ReleaseManager) History(ctx context.Context, id int64) ([]*storage.ReleaseTransition, error) {
	if _, err := m.storage.GetRelease(ctx, id); err != nil {
		return nil, err
	}

	return m.storage.ListReleaseTransitions(ctx, id)
}

// CleanDone tidies media that finished a while ago. Available releases are deleted and the ones
// that were downloaded are ignored so re-adding the media does not pick them up again.
func (m *ReleaseManager) CleanDone(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	media, err := m.storage.ListMediaByStatus(ctx, storage.MediaStatusDone)
	if err != nil {
		return fmt.Errorf("failed to list done media: %w", err)
	}

	cutoff := m.now().Add(-m.cleanDoneAge)

	var errs []error
	for _, item := range media {
		if !item.LastEdit.Before(cutoff) {
			continue
		}

		releases, err := m.storage.ListReleasesByMedia(ctx, int64(item.ID))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, release := range releases {
			switch release.Status {
			case storage.ReleaseStatusAvailable:
				err = m.storage.DeleteRelease(ctx, int64(release.ID))
			case storage.ReleaseStatusSnatched, storage.ReleaseStatusDownloaded:
				err = m.updateStatus(ctx, release, storage.ReleaseStatusIgnored)
			default:
				continue
			}

			if err != nil {
				log.Warnw("failed to clean release", "release id", release.ID, zap.Error(err))
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// Resolve identifies the media behind a download name, first by imdb id then by title and year
func (m *ReleaseManager) Resolve(ctx context.Context, name string) (library.Target, bool) {
	if id := library.IMDBID(name); id != "" {
		media, err := m.storage.GetMediaByIdentifier(ctx, id)
		if err == nil {
			return target(media, ""), true
		}
	}

	active, err := m.storage.ListMediaByStatus(ctx, storage.MediaStatusActive)
	if err != nil {
		logger.FromCtx(ctx).Warnw("failed to list media", zap.Error(err))
		return library.Target{}, false
	}

	normalized := normalize(name)
	for _, media := range active {
		if !strings.Contains(normalized, normalize(media.Title)) {
			continue
		}
		if media.Year != nil && !strings.Contains(normalized, strconv.Itoa(int(*media.Year))) {
			continue
		}
		return target(media, ""), true
	}

	return library.Target{}, false
}

// Organized records files the organizer placed in the library
func (m *ReleaseManager) Organized(ctx context.Context, organized library.Organized) error {
	_, err := m.Add(ctx, AddRequest{
		MediaIdentifier: organized.MediaIdentifier,
		Title:           organized.Title,
		Year:            organized.Year,
		Audio:           organized.Audio,
		Quality:         organized.Quality,
		Files:           organized.Files,
	})
	return err
}

func target(media *model.Media, quality string) library.Target {
	t := library.Target{
		MediaIdentifier: media.Identifier,
		Title:           media.Title,
		Quality:         quality,
	}
	if media.Year != nil {
		t.Year = int(*media.Year)
	}

	return t
}

var separators = strings.NewReplacer(".", " ", "_", " ", "-", " ")

func normalize(name string) string {
	return " " + strings.Join(strings.Fields(separators.Replace(strings.ToLower(name))), " ") + " "
}
