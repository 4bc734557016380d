package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"mixtape/internal/services"
)

// Services bundles the application services the API is built over.
type Services struct {
	Auth      *services.AuthService
	Catalog   *services.CatalogService
	Playlists *services.PlaylistService
}

// NewRouter builds the API router with all middleware and routes
// registered.
func NewRouter(svc Services, store *SessionStore, rateLimit float64, logger *log.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(requestLogger(logger))
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Recoverer)
	router.Use(rateLimiter(rateLimit))
	router.Use(sessions(store))
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	router.Get("/ping", ping)

	router.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", register(svc.Auth))
			auth.Post("/login", login(svc.Auth, store))
			auth.Post("/logout", logout(store))
		})

		v1.Route("/songs", func(songs chi.Router) {
			songs.Get("/", searchSongs(svc.Catalog))
			songs.Post("/", addSong(svc.Catalog))
			songs.Delete("/", deleteSongs(svc.Catalog))

			songs.Post("/import", importSongs(svc.Catalog))
			songs.Get("/export", exportSongs(svc.Catalog))

			songs.Get("/{id}", getSong(svc.Catalog))
			songs.Patch("/{id}", updateSong(svc.Catalog))
			songs.Delete("/{id}", deleteSong(svc.Catalog))
		})

		v1.Route("/playlists", func(pl chi.Router) {
			pl.Get("/", listPlaylists(svc.Playlists))
			pl.Post("/", createPlaylist(svc.Playlists))

			pl.Post("/compose", composePlaylist(svc.Playlists))

			pl.Get("/{id}", getPlaylist(svc.Playlists))
			pl.Patch("/{id}", editPlaylist(svc.Playlists))
			pl.Delete("/{id}", deletePlaylist(svc.Playlists))
		})
	})

	return router
}
