// Package web embeds the BiasGuard dashboard (dist/) and provides an HTTP
// handler that serves it as a single-page application (SPA).
//
// The dashboard is mounted under DashboardPath because the service root is the
// status endpoint. Browsers hitting the root are redirected here by the API.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DashboardPath is the prefix the dashboard is served under.
const DashboardPath = "/dashboard"

//go:embed all:dist
var distFS embed.FS

// Mount registers the dashboard on r. The bare prefix redirects to its
// trailing-slash form so the page's relative URLs resolve under it.
func Mount(r chi.Router) {
	r.Handle(DashboardPath, http.RedirectHandler(DashboardPath+"/", http.StatusMovedPermanently))
	r.Handle(DashboardPath+"/*", http.StripPrefix(DashboardPath, SPAHandler()))
}

// SPAHandler returns an http.Handler that serves the embedded dashboard.
// It serves static files from dist/, and falls back to index.html for
// any path that doesn't match a file (SPA client-side routing).
func SPAHandler() http.Handler {
	subFS, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(subFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the file directly.
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		// Check if file exists in the embedded FS.
		if f, err := subFS.Open(path); err == nil {
			if closeErr := f.Close(); closeErr != nil {
				slog.Debug("web: failed to close embedded file", "path", path, "error", closeErr)
			}
			fileServer.ServeHTTP(w, r)
			return
		}

		// Unknown path: serve index.html and let the page route.
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
