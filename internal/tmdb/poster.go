package tmdb

import "strings"

// PosterURL turns the relative poster_path TMDB returns ("/abc.jpg") into an
// absolute image URL: imageBase + size + path. Paths that are already
// absolute pass through unchanged, and an empty path stays empty.
func PosterURL(imageBase, size, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(imageBase, "/")
	size = strings.Trim(size, "/")
	if size == "" {
		return base + "/" + strings.TrimLeft(path, "/")
	}
	return base + "/" + size + "/" + strings.TrimLeft(path, "/")
}
