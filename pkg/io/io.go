package io

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

//go:generate mockgen -source=io.go -destination=mocks/mock_io.go -package=mocks FileIO

var (
	_ FileIO = (*OSFileSystem)(nil)

	ErrFileExists = fmt.Errorf("file already exists")
)

// FileIO is the set of file operations used by the organizer and the tag markers
type FileIO interface {
	Stat(target string) (os.FileInfo, error)
	Exists(target string) bool
	MkdirAll(name string, perm os.FileMode) error
	WriteFile(name string, data []byte) error
	Remove(name string) error
	Rename(source, target string) error
	Link(source, target string) error
	Copy(source, target string) (int64, error)
	IsSameFileSystem(source, target string) (bool, error)
	Walk(root string, fn fs.WalkDirFunc) error
}

// OSFileSystem implements FileIO with the os package
type OSFileSystem struct{}

func (o *OSFileSystem) Stat(target string) (os.FileInfo, error) {
	return os.Stat(target)
}

// Exists reports whether anything is present at path
func (o *OSFileSystem) Exists(path string) bool {
	_, err := o.Stat(path)
	return err == nil
}

func (o *OSFileSystem) MkdirAll(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

// WriteFile creates or truncates name with data
func (o *OSFileSystem) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0o644)
}

func (o *OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// Rename moves source to target. The target must not exist yet.
func (o *OSFileSystem) Rename(source, target string) error {
	if o.Exists(target) {
		return ErrFileExists
	}
	return os.Rename(source, target)
}

// Link hard links source to target, falling back to a symlink across file systems.
// The target must not exist yet.
func (o *OSFileSystem) Link(source, target string) error {
	if o.Exists(target) {
		return ErrFileExists
	}

	err := os.Link(source, target)
	if err == nil {
		return nil
	}

	abs, absErr := filepath.Abs(source)
	if absErr != nil {
		return errors.Join(err, absErr)
	}

	if symErr := os.Symlink(abs, target); symErr != nil {
		return errors.Join(err, symErr)
	}

	return nil
}

// Copy copies a file from a source path to a target path. The target file must not exist yet.
func (o *OSFileSystem) Copy(source, target string) (int64, error) {
	sourceFile, err := os.Open(source)
	if err != nil {
		return 0, err
	}
	defer sourceFile.Close()

	if o.Exists(target) {
		return 0, ErrFileExists
	}

	targetFile, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	defer targetFile.Close()

	return io.Copy(targetFile, sourceFile)
}

// IsSameFileSystem checks if a source and target are on the same file system. If a file does not exist, it is considered to be on a different file system.
func (o *OSFileSystem) IsSameFileSystem(source, target string) (bool, error) {
	sourceDev, err := o.device(source)
	if err != nil || sourceDev == nil {
		return false, err
	}

	targetDev, err := o.device(target)
	if err != nil || targetDev == nil {
		return false, err
	}

	return *sourceDev == *targetDev, nil
}

func (o *OSFileSystem) device(path string) (*uint64, error) {
	stat, err := o.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	sys, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected sys type", path)
	}

	dev := uint64(sys.Dev)
	return &dev, nil
}

// Walk walks the directory tree rooted at root on the os file system
func (o *OSFileSystem) Walk(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}
