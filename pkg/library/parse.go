package library

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	videoExtensions = []string{".mp4", ".avi", ".mkv", ".m4v", ".iso", ".ts", ".m2ts"}

	imdbRegex    = regexp.MustCompile(`tt\d{7,8}`)
	qualityRegex = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|576p|480p)\b`)
	audioRegex   = regexp.MustCompile(`(?i)\b(truehd|atmos|dts-?hd|dts|ac3|dd5\.?1|eac3|aac|flac|mp3)\b`)
	unsafeChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// IMDBID extracts an imdb identifier from a release or folder name
func IMDBID(name string) string {
	return imdbRegex.FindString(name)
}

// Quality extracts the resolution tag of a release name, lower cased
func Quality(name string) string {
	return strings.ToLower(qualityRegex.FindString(name))
}

// Audio extracts the audio codec of a release name, lower cased
func Audio(name string) string {
	audio := strings.ToLower(audioRegex.FindString(name))
	return strings.ReplaceAll(strings.ReplaceAll(audio, "-", ""), ".", "")
}

func isVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range videoExtensions {
		if ext == e {
			return true
		}
	}

	return false
}

func sanitizeName(name string) string {
	return strings.Trim(strings.TrimSpace(unsafeChars.ReplaceAllString(name, "")), "'.")
}

// FolderName is the library folder of a movie, e.g. "Heat (1995)"
func FolderName(title string, year int) string {
	title = sanitizeName(title)
	if year == 0 {
		return title
	}

	return fmt.Sprintf("%s (%d)", title, year)
}
