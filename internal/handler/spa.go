package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
)

// SPAHandler serves a built single-page client. Paths that match a file
// are served as-is; everything else gets index.html so client-side routes
// like /movies survive a reload.
type SPAHandler struct {
	files  fs.FS
	server http.Handler
	logger *slog.Logger
}

// NewSPAHandler serves the client from dir, which must contain index.html.
func NewSPAHandler(dir string, logger *slog.Logger) (*SPAHandler, error) {
	files := os.DirFS(dir)
	if _, err := fs.Stat(files, "index.html"); err != nil {
		return nil, err
	}
	return &SPAHandler{
		files:  files,
		server: http.FileServerFS(files),
		logger: logger,
	}, nil
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	info, err := fs.Stat(h.files, name)
	if err == nil && !info.IsDir() {
		h.server.ServeHTTP(w, r)
		return
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		h.logger.Error("spa: stat failed", slog.String("path", name), slog.String("error", err.Error()))
	}

	// Unknown paths fall back to the client router.
	http.ServeFileFS(w, r, h.files, "index.html")
}
