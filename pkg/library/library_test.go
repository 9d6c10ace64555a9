package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kasuboski/snatcher/pkg/io"
	"github.com/kasuboski/snatcher/pkg/io/mocks"
	"github.com/kasuboski/snatcher/pkg/marker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type dirs struct {
	incoming string
	movies   string
}

func newDirs(t *testing.T) dirs {
	t.Helper()
	root := t.TempDir()
	d := dirs{incoming: filepath.Join(root, "incoming"), movies: filepath.Join(root, "movies")}
	require.NoError(t, os.MkdirAll(d.incoming, 0o755))
	require.NoError(t, os.MkdirAll(d.movies, 0o755))
	return d
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644))
	return path
}

func newLibrary(d dirs, action FileAction) *Library {
	fileIO := &io.OSFileSystem{}
	return New(Config{
		Enabled:     true,
		IncomingDir: d.incoming,
		MovieDir:    d.movies,
		FileAction:  action,
	}, fileIO, marker.New(fileIO))
}

var heat = Target{MediaIdentifier: "tt0113277", Title: "Heat", Year: 1995, Quality: "1080p"}

func TestLibrary_ScanRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("move", func(t *testing.T) {
		d := newDirs(t)
		folder := filepath.Join(d.incoming, "Heat.1995.1080p.BluRay")
		source := writeFile(t, filepath.Join(folder, "heat.1995.1080p.mkv"))
		writeFile(t, filepath.Join(folder, "heat.nfo"))

		var organized []Organized
		l := newLibrary(d, FileActionMove)
		l.OnOrganized(func(ctx context.Context, o Organized) error {
			organized = append(organized, o)
			return nil
		})

		err := l.Scan(ctx, &ScanRequest{Folder: folder, Target: heat})
		require.NoError(t, err)

		want := filepath.Join(d.movies, "Heat (1995)", "Heat (1995).mkv")
		assert.FileExists(t, want)
		assert.NoFileExists(t, source)

		require.Len(t, organized, 1)
		assert.Equal(t, []string{want}, organized[0].Files)
		assert.Equal(t, "tt0113277", organized[0].MediaIdentifier)
		assert.Equal(t, "1080p", organized[0].Quality)
	})

	t.Run("link tags renamed already", func(t *testing.T) {
		d := newDirs(t)
		folder := filepath.Join(d.incoming, "Heat.1995.1080p.BluRay")
		source := writeFile(t, filepath.Join(folder, "heat.1995.1080p.mkv"))

		l := newLibrary(d, FileActionLink)
		require.NoError(t, l.Scan(ctx, &ScanRequest{Folder: folder, Target: heat}))

		assert.FileExists(t, source)
		assert.FileExists(t, filepath.Join(d.movies, "Heat (1995)", "Heat (1995).mkv"))
		assert.FileExists(t, marker.Name(source, marker.RenamedAlready))

		// a second scan leaves the already organized download alone
		l.OnOrganized(func(context.Context, Organized) error {
			t.Error("organized twice")
			return nil
		})
		require.NoError(t, l.Scan(ctx, &ScanRequest{Folder: folder, Target: heat}))
	})

	t.Run("copy multiple parts", func(t *testing.T) {
		d := newDirs(t)
		folder := filepath.Join(d.incoming, "Heat.1995")
		writeFile(t, filepath.Join(folder, "cd1", "heat.a.avi"))
		writeFile(t, filepath.Join(folder, "cd2", "heat.b.avi"))
		writeFile(t, filepath.Join(folder, "heat-sample.avi"))

		l := newLibrary(d, FileActionCopy)
		require.NoError(t, l.Scan(ctx, &ScanRequest{Folder: folder, Target: heat}))

		assert.FileExists(t, filepath.Join(d.movies, "Heat (1995)", "Heat (1995) cd1.avi"))
		assert.FileExists(t, filepath.Join(d.movies, "Heat (1995)", "Heat (1995) cd2.avi"))
		assert.NoFileExists(t, filepath.Join(d.movies, "Heat (1995)", "Heat (1995) cd3.avi"))
	})

	t.Run("downloading marker skips", func(t *testing.T) {
		d := newDirs(t)
		folder := filepath.Join(d.incoming, "Heat.1995")
		source := writeFile(t, filepath.Join(folder, "heat.mkv"))
		writeFile(t, marker.Name(source, marker.Downloading))

		l := newLibrary(d, FileActionMove)
		require.NoError(t, l.Scan(ctx, &ScanRequest{Folder: folder, Target: heat}))
		assert.FileExists(t, source)
	})

	t.Run("failure tags failed rename", func(t *testing.T) {
		d := newDirs(t)
		folder := filepath.Join(d.incoming, "Heat.1995")
		source := writeFile(t, filepath.Join(folder, "heat.mkv"))
		writeFile(t, filepath.Join(d.movies, "Heat (1995)", "Heat (1995).mkv"))

		l := newLibrary(d, FileActionLink)
		err := l.Scan(ctx, &ScanRequest{Folder: folder, Target: heat})
		assert.ErrorIs(t, err, io.ErrFileExists)
		assert.FileExists(t, marker.Name(source, marker.FailedRename))
	})

	t.Run("hook error is returned", func(t *testing.T) {
		d := newDirs(t)
		folder := filepath.Join(d.incoming, "Heat.1995")
		writeFile(t, filepath.Join(folder, "heat.mkv"))

		l := newLibrary(d, FileActionMove)
		l.OnOrganized(func(context.Context, Organized) error {
			return errors.New("store unavailable")
		})

		err := l.Scan(ctx, &ScanRequest{Folder: folder, Target: heat})
		assert.ErrorContains(t, err, "store unavailable")
	})
}

func TestLibrary_FullScan(t *testing.T) {
	ctx := context.Background()
	d := newDirs(t)

	writeFile(t, filepath.Join(d.incoming, "Heat.1995.tt0113277.720p.DTS", "heat.mkv"))
	writeFile(t, filepath.Join(d.incoming, "Unknown.Movie.2001.1080p", "unknown.mkv"))
	writeFile(t, filepath.Join(d.incoming, "Ronin.1998.tt0122690.1080p.mkv"))

	l := newLibrary(d, FileActionMove)
	l.SetResolver(func(ctx context.Context, name string) (Target, bool) {
		switch IMDBID(name) {
		case "tt0113277":
			return Target{MediaIdentifier: "tt0113277", Title: "Heat", Year: 1995}, true
		case "tt0122690":
			return Target{MediaIdentifier: "tt0122690", Title: "Ronin", Year: 1998}, true
		}
		return Target{}, false
	})

	var organized []Organized
	l.OnOrganized(func(ctx context.Context, o Organized) error {
		organized = append(organized, o)
		return nil
	})

	require.NoError(t, l.Scan(ctx, nil))

	assert.FileExists(t, filepath.Join(d.movies, "Heat (1995)", "Heat (1995).mkv"))
	assert.FileExists(t, filepath.Join(d.movies, "Ronin (1998)", "Ronin (1998).mkv"))
	assert.FileExists(t, filepath.Join(d.incoming, "Unknown.Movie.2001.1080p", "unknown.mkv"))

	require.Len(t, organized, 2)
	for _, o := range organized {
		switch o.MediaIdentifier {
		case "tt0113277":
			// the folder name carries no quality, the file name decides
			assert.Equal(t, "", o.Quality)
		case "tt0122690":
			assert.Equal(t, "1080p", o.Quality)
		}
	}
}

func TestLibrary_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileIO := mocks.NewMockFileIO(ctrl)

	l := New(Config{}, fileIO, marker.New(fileIO))
	assert.False(t, l.Enabled())
	assert.Equal(t, FileActionMove, l.FileAction())
	assert.NoError(t, l.Scan(context.Background(), nil))
}

func TestLibrary_MoveAcrossFileSystems(t *testing.T) {
	ctrl := gomock.NewController(t)
	fileIO := mocks.NewMockFileIO(ctrl)
	m := marker.New(&io.OSFileSystem{})

	l := New(Config{Enabled: true, MovieDir: "/movies", FileAction: FileActionMove}, fileIO, m)

	source := "/incoming/heat/heat.mkv"
	target := "/movies/Heat (1995)/Heat (1995).mkv"

	gomock.InOrder(
		fileIO.EXPECT().MkdirAll("/movies/Heat (1995)", os.FileMode(0o755)).Return(nil),
		fileIO.EXPECT().IsSameFileSystem(source, "/movies/Heat (1995)").Return(false, nil),
		fileIO.EXPECT().Copy(source, target).Return(int64(5), nil),
		fileIO.EXPECT().Remove(source).Return(nil),
	)

	err := l.Scan(context.Background(), &ScanRequest{Folder: "/incoming/heat", Files: []string{source}, Target: heat})
	require.NoError(t, err)
}

func TestLibrary_InIncoming(t *testing.T) {
	l := New(Config{IncomingDir: "/downloads/complete"}, &io.OSFileSystem{}, nil)

	assert.True(t, l.InIncoming("/downloads/complete/Heat"))
	assert.True(t, l.InIncoming("/downloads/complete"))
	assert.False(t, l.InIncoming("/downloads/incomplete/Heat"))
	assert.False(t, l.InIncoming("/downloads/complete-other"))
	assert.False(t, l.InIncoming(""))
}
