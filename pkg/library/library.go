package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kasuboski/snatcher/pkg/io"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/kasuboski/snatcher/pkg/marker"
	"go.uber.org/zap"
)

//go:generate mockgen -source=library.go -destination=mocks/mock_library.go -package=mocks Organizer

type FileAction string

const (
	FileActionMove FileAction = "move"
	FileActionLink FileAction = "link"
	FileActionCopy FileAction = "copy"
)

var ErrUnknownMedia = errors.New("could not tell which movie this is")

// Organizer moves finished downloads into the movie library
type Organizer interface {
	Enabled() bool
	FileAction() FileAction
	// InIncoming reports whether path lies under the directory scanned for finished downloads
	InIncoming(path string) bool
	// Scan organizes one download, or everything in the incoming directory when request is nil
	Scan(ctx context.Context, request *ScanRequest) error
}

// Target is the movie a download belongs to
type Target struct {
	MediaIdentifier string
	Title           string
	Year            int
	Quality         string
	Audio           string
}

// ScanRequest points the organizer at a single download. Files may be empty, in which case every
// file under Folder is considered. An empty Target is resolved from the folder name.
type ScanRequest struct {
	Folder string
	Files  []string
	Target Target
}

// Organized reports the library files created for a target
type Organized struct {
	Target
	Files []string
}

// Resolver identifies the movie behind a download name
type Resolver func(ctx context.Context, name string) (Target, bool)

// OrganizedHook is told about every successfully organized download
type OrganizedHook func(ctx context.Context, organized Organized) error

type Config struct {
	Enabled     bool
	IncomingDir string
	MovieDir    string
	FileAction  FileAction
}

var _ Organizer = (*Library)(nil)

type Library struct {
	config      Config
	fs          io.FileIO
	marker      marker.Marker
	resolve     Resolver
	onOrganized OrganizedHook
}

func New(config Config, fileIO io.FileIO, m marker.Marker) *Library {
	if config.FileAction == "" {
		config.FileAction = FileActionMove
	}

	return &Library{
		config: config,
		fs:     fileIO,
		marker: m,
	}
}

// SetResolver sets how downloads without a known target are identified
func (l *Library) SetResolver(resolve Resolver) {
	l.resolve = resolve
}

// OnOrganized registers the hook called after each organized download
func (l *Library) OnOrganized(hook OrganizedHook) {
	l.onOrganized = hook
}

func (l *Library) Enabled() bool {
	return l.config.Enabled
}

func (l *Library) FileAction() FileAction {
	return l.config.FileAction
}

func (l *Library) InIncoming(path string) bool {
	if l.config.IncomingDir == "" || path == "" {
		return false
	}

	rel, err := filepath.Rel(l.config.IncomingDir, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (l *Library) Scan(ctx context.Context, request *ScanRequest) error {
	if !l.config.Enabled {
		return nil
	}

	if request != nil {
		return l.organize(ctx, *request)
	}

	entries, err := l.incoming()
	if err != nil {
		return fmt.Errorf("failed to list incoming directory: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		request := ScanRequest{Folder: entry}
		if !l.isDir(entry) {
			request = ScanRequest{Folder: filepath.Dir(entry), Files: []string{entry}}
		}

		if err := l.organize(ctx, request); err != nil && !errors.Is(err, ErrUnknownMedia) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// incoming lists the top level entries of the incoming directory
func (l *Library) incoming() ([]string, error) {
	root := l.config.IncomingDir
	if root == "" || !l.isDir(root) {
		return nil, nil
	}

	entries := make([]string, 0)
	err := l.fs.Walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		entries = append(entries, path)
		if d.IsDir() {
			return fs.SkipDir
		}
		return nil
	})

	return entries, err
}

func (l *Library) isDir(path string) bool {
	info, err := l.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (l *Library) organize(ctx context.Context, request ScanRequest) error {
	log := logger.FromCtx(ctx).With("folder", request.Folder)

	// any marker means the download is still running, failed before or was already organized
	if l.marker.HasTag(ctx, "", request.Folder, request.Files) {
		log.Debug("skipping tagged download")
		return nil
	}

	videos, err := l.videos(request)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		log.Debug("no video files found")
		return nil
	}

	target := request.Target
	if target.MediaIdentifier == "" {
		name := filepath.Base(request.Folder)
		if len(request.Files) == 1 {
			name = filepath.Base(request.Files[0])
		}

		resolved, ok := l.resolveTarget(ctx, name)
		if !ok {
			log.Debugw("unknown media", "name", name)
			return fmt.Errorf("%w: %s", ErrUnknownMedia, name)
		}
		target = resolved
	}

	if target.Quality == "" {
		target.Quality = Quality(filepath.Base(videos[0]))
	}
	if target.Audio == "" {
		target.Audio = Audio(filepath.Base(videos[0]))
	}

	log = log.With("media", target.MediaIdentifier)

	files, err := l.place(target, videos)
	if err != nil {
		log.Errorw("failed to organize download", zap.Error(err))
		if tagErr := l.marker.Tag(ctx, marker.FailedRename, request.Folder, request.Files); tagErr != nil {
			log.Warnw("failed to tag download", zap.Error(tagErr))
		}
		return err
	}

	if l.config.FileAction != FileActionMove {
		if err := l.marker.Tag(ctx, marker.RenamedAlready, request.Folder, request.Files); err != nil {
			log.Warnw("failed to tag download", zap.Error(err))
		}
	}

	log.Infow("organized download", "files", files, "action", l.config.FileAction)

	if l.onOrganized == nil {
		return nil
	}

	return l.onOrganized(ctx, Organized{Target: target, Files: files})
}

func (l *Library) resolveTarget(ctx context.Context, name string) (Target, bool) {
	if l.resolve == nil {
		return Target{}, false
	}

	return l.resolve(ctx, name)
}

func (l *Library) videos(request ScanRequest) ([]string, error) {
	videos := make([]string, 0)
	if len(request.Files) > 0 {
		for _, f := range request.Files {
			if isVideoFile(f) {
				videos = append(videos, f)
			}
		}
		return videos, nil
	}

	if !l.isDir(request.Folder) {
		return videos, nil
	}

	err := l.fs.Walk(request.Folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isVideoFile(path) && !strings.Contains(strings.ToLower(filepath.Base(path)), "sample") {
			videos = append(videos, path)
		}
		return nil
	})

	slices.Sort(videos)
	return videos, err
}

// place moves, links or copies videos to <movieDir>/<Title (Year)>/<Title (Year)>[ cdN].ext
func (l *Library) place(target Target, videos []string) ([]string, error) {
	folder := FolderName(target.Title, target.Year)
	if folder == "" {
		return nil, fmt.Errorf("%w: no title for %s", ErrUnknownMedia, target.MediaIdentifier)
	}

	dir := filepath.Join(l.config.MovieDir, folder)
	if err := l.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	placed := make([]string, 0, len(videos))
	for i, source := range videos {
		name := folder
		if len(videos) > 1 {
			name = fmt.Sprintf("%s cd%d", folder, i+1)
		}
		target := filepath.Join(dir, name+strings.ToLower(filepath.Ext(source)))

		if err := l.transfer(source, target); err != nil {
			return placed, fmt.Errorf("failed to %s %s: %w", l.config.FileAction, source, err)
		}

		placed = append(placed, target)
	}

	return placed, nil
}

func (l *Library) transfer(source, target string) error {
	switch l.config.FileAction {
	case FileActionLink:
		return l.fs.Link(source, target)
	case FileActionCopy:
		_, err := l.fs.Copy(source, target)
		return err
	default:
		same, err := l.fs.IsSameFileSystem(source, filepath.Dir(target))
		if err == nil && same {
			return l.fs.Rename(source, target)
		}

		if _, err := l.fs.Copy(source, target); err != nil {
			return err
		}
		return l.fs.Remove(source)
	}
}
