package marker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/kasuboski/snatcher/pkg/io"
	"github.com/kasuboski/snatcher/pkg/logger"
	"go.uber.org/zap"
)

const (
	Downloading    = "downloading"
	FailedRename   = "failed_rename"
	RenamedAlready = "renamed_already"

	extension = ".ignore"

	body = `This file was written by snatcher
It has marked this release as "%s"
This file hides the release from the organizer
Remove it if you want it to be organized (again, or at least let it try again)
`
)

// Marker writes, removes and checks sidecar tag files next to release files.
// A marker for file /a/b.mkv with tag t is /a/b.t.ignore.
type Marker interface {
	Tag(ctx context.Context, tag, folder string, files []string) error
	Untag(ctx context.Context, tag, folder string, files []string) error
	HasTag(ctx context.Context, tag, folder string, files []string) bool
}

var _ Marker = (*Files)(nil)

type Files struct {
	fs io.FileIO
}

func New(fileIO io.FileIO) *Files {
	return &Files{fs: fileIO}
}

// Name returns the marker path for file and tag
func Name(file, tag string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + "." + tag + extension
}

func isMarker(path string) bool {
	return filepath.Ext(path) == extension
}

// Tag marks files, or every file under folder when files is empty. Existing markers are left alone.
func (f *Files) Tag(ctx context.Context, tag, folder string, files []string) error {
	if tag == "" {
		return nil
	}

	log := logger.FromCtx(ctx).With("tag", tag, "folder", folder)

	targets, err := f.targets(folder, files)
	if err != nil {
		return err
	}

	var errs []error
	for _, target := range targets {
		name := Name(target, tag)
		if f.fs.Exists(name) {
			continue
		}

		if err := f.fs.WriteFile(name, []byte(fmt.Sprintf(body, tag))); err != nil {
			log.Warnw("failed to write tag", "file", name, zap.Error(err))
			errs = append(errs, err)
			continue
		}

		log.Debugw("tagged", "file", target)
	}

	return errors.Join(errs...)
}

// Untag removes markers of tag, or of any tag when tag is empty, that belong to the target files
func (f *Files) Untag(ctx context.Context, tag, folder string, files []string) error {
	if !f.isDir(folder) {
		return nil
	}

	log := logger.FromCtx(ctx).With("tag", tag, "folder", folder)

	targets, err := f.targets(folder, files)
	if err != nil {
		return err
	}

	markers, err := f.markers(folder, tag)
	if err != nil {
		return err
	}

	for _, target := range targets {
		for _, m := range markers {
			if !matches(m, target, tag) {
				continue
			}

			if err := f.fs.Remove(m); err != nil {
				log.Debugw("unable to remove tag", "file", m, zap.Error(err))
			}
		}
	}

	return nil
}

// HasTag reports whether any target file carries a marker of tag, or of any tag when tag is empty
func (f *Files) HasTag(ctx context.Context, tag, folder string, files []string) bool {
	if !f.isDir(folder) {
		return false
	}

	log := logger.FromCtx(ctx).With("tag", tag, "folder", folder)

	targets, err := f.targets(folder, files)
	if err != nil {
		log.Debugw("failed to list release files", zap.Error(err))
		return false
	}

	markers, err := f.markers(folder, tag)
	if err != nil {
		log.Debugw("failed to list tags", zap.Error(err))
		return false
	}

	for _, target := range targets {
		for _, m := range markers {
			if matches(m, target, tag) {
				return true
			}
		}
	}

	return false
}

func (f *Files) isDir(folder string) bool {
	if folder == "" {
		return false
	}

	info, err := f.fs.Stat(folder)
	return err == nil && info.IsDir()
}

// targets resolves the files a marker applies to. Markers themselves are never targets.
func (f *Files) targets(folder string, files []string) ([]string, error) {
	targets := make([]string, 0, len(files))
	if len(files) > 0 {
		for _, file := range files {
			if !isMarker(file) {
				targets = append(targets, file)
			}
		}
		return targets, nil
	}

	if !f.isDir(folder) {
		return targets, nil
	}

	err := f.fs.Walk(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isMarker(path) {
			return nil
		}
		targets = append(targets, path)
		return nil
	})

	return targets, err
}

func (f *Files) markers(folder, tag string) ([]string, error) {
	suffix := tag + extension

	markers := make([]string, 0)
	err := f.fs.Walk(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, suffix) {
			markers = append(markers, path)
		}
		return nil
	})

	return markers, err
}

func matches(marker, target, tag string) bool {
	if tag != "" {
		return marker == Name(target, tag)
	}

	base := strings.TrimSuffix(target, filepath.Ext(target)) + "."
	middle, ok := strings.CutPrefix(marker, base)
	if !ok {
		return false
	}

	return strings.HasSuffix(middle, extension) && !strings.ContainsRune(middle, filepath.Separator)
}
