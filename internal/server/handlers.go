package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"mixtape/internal/formatter"
	"mixtape/internal/models"
	"mixtape/internal/services"
	"mixtape/internal/shared"
)

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, responseNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, responseNotAllowed)
}

func ping(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &messageResponse{
		HTTPStatusCode: http.StatusOK,
		MessageText:    "pong",
	})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func register(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		if err := decode(r, &creds); err != nil {
			render.Render(w, r, responseInvalidRequest(err))
			return
		}

		user, err := auth.Register(creds.Username, creds.Password)
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &userResponse{
			HTTPStatusCode: http.StatusCreated,
			ID:             user.ID(),
			Username:       user.Username(),
		})
	}
}

func login(auth *services.AuthService, store *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		if err := decode(r, &creds); err != nil {
			render.Render(w, r, responseInvalidRequest(err))
			return
		}

		ident, err := auth.Login(creds.Username, creds.Password)
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &sessionResponse{
			HTTPStatusCode: http.StatusOK,
			Token:          store.Issue(ident),
			Admin:          ident.Admin,
		})
	}
}

func logout(store *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			store.Revoke(token)
		}

		render.Render(w, r, &messageResponse{
			HTTPStatusCode: http.StatusOK,
			MessageText:    "logged out",
		})
	}
}

func searchSongs(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		songs, err := catalog.Search(r.URL.Query().Get("q"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &songListResponse{
			HTTPStatusCode: http.StatusOK,
			Songs:          songs,
		})
	}
}

func getSong(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		song, err := catalog.GetSong(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &songResponse{
			HTTPStatusCode: http.StatusOK,
			Song:           song,
		})
	}
}

func addSong(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var song models.Song
		if err := decode(r, &song); err != nil {
			render.Render(w, r, responseInvalidRequest(err))
			return
		}

		created, err := catalog.AddSong(IdentityFrom(r.Context()), song)
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &songResponse{
			HTTPStatusCode: http.StatusCreated,
			Song:           created.DTO(),
		})
	}
}

func updateSong(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update models.SongUpdate
		if err := decode(r, &update); err != nil {
			render.Render(w, r, responseInvalidRequest(err))
			return
		}

		updated, err := catalog.UpdateSong(IdentityFrom(r.Context()), chi.URLParam(r, "id"), update)
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &songResponse{
			HTTPStatusCode: http.StatusOK,
			Song:           updated.DTO(),
		})
	}
}

func deleteSong(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalog.DeleteSong(IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &messageResponse{
			HTTPStatusCode: http.StatusOK,
			MessageText:    "song deleted",
		})
	}
}

// deleteSongs removes the songs named in the body, or the entire
// catalog when no ids are given.
func deleteSongs(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		if r.ContentLength > 0 {
			if err := decode(r, &body); err != nil {
				render.Render(w, r, responseInvalidRequest(err))
				return
			}
		}

		caller := IdentityFrom(r.Context())

		var err error
		if len(body.IDs) > 0 {
			err = catalog.DeleteSongs(caller, body.IDs)
		} else {
			err = catalog.DeleteAllSongs(caller)
		}
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &messageResponse{
			HTTPStatusCode: http.StatusOK,
			MessageText:    "songs deleted",
		})
	}
}

// importSongs accepts a catalog CSV, either as a multipart upload under
// the "file" field or as the raw request body.
func importSongs(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// FormFile consumes the body on non-multipart requests, so the
		// upload branch is gated on the declared content type.
		source := io.Reader(r.Body)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			file, _, err := r.FormFile("file")
			if err != nil {
				renderError(w, r, fmt.Errorf("%w: missing file field", shared.ErrInvalidInput))
				return
			}
			defer file.Close()
			source = file
		}

		rows, err := formatter.ParseSongsCSV(source)
		if err != nil {
			renderError(w, r, err)
			return
		}

		result, err := catalog.ImportSongs(IdentityFrom(r.Context()), rows)
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &importResponse{
			HTTPStatusCode: http.StatusCreated,
			Added:          result.Added,
			Skipped:        result.Skipped,
		})
	}
}

func exportSongs(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		songs, err := catalog.Search("")
		if err != nil {
			renderError(w, r, err)
			return
		}

		data, err := formatter.ExportSongsCSV(songs)
		if err != nil {
			renderError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="songs.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func listPlaylists(playlists *services.PlaylistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := playlists.ListPlaylists()
		if err != nil {
			renderError(w, r, err)
			return
		}

		data := make([]playlistData, 0, len(views))
		for i := range views {
			data = append(data, newPlaylistData(&views[i]))
		}

		render.Render(w, r, &playlistListResponse{
			HTTPStatusCode: http.StatusOK,
			Playlists:      data,
		})
	}
}

func getPlaylist(playlists *services.PlaylistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := playlists.GetPlaylist(chi.URLParam(r, "id"))
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &playlistResponse{
			HTTPStatusCode: http.StatusOK,
			playlistData:   newPlaylistData(view),
		})
	}
}

type playlistRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CoverURL    string   `json:"cover_url"`
	SongIDs     []string `json:"song_ids"`
}

func (pr playlistRequest) draft() services.PlaylistDraft {
	return services.PlaylistDraft{
		Title:       pr.Title,
		Description: pr.Description,
		CoverURL:    pr.CoverURL,
		SongIDs:     pr.SongIDs,
	}
}

func createPlaylist(playlists *services.PlaylistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playlistRequest
		if err := decode(r, &req); err != nil {
			render.Render(w, r, responseInvalidRequest(err))
			return
		}

		view, err := playlists.CreatePlaylist(IdentityFrom(r.Context()), req.draft())
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &playlistResponse{
			HTTPStatusCode: http.StatusCreated,
			playlistData:   newPlaylistData(view),
		})
	}
}

func editPlaylist(playlists *services.PlaylistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playlistRequest
		if err := decode(r, &req); err != nil {
			render.Render(w, r, responseInvalidRequest(err))
			return
		}

		view, err := playlists.EditPlaylist(IdentityFrom(r.Context()), chi.URLParam(r, "id"), req.draft())
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &playlistResponse{
			HTTPStatusCode: http.StatusOK,
			playlistData:   newPlaylistData(view),
		})
	}
}

func deletePlaylist(playlists *services.PlaylistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := playlists.DeletePlaylist(IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &messageResponse{
			HTTPStatusCode: http.StatusOK,
			MessageText:    "playlist deleted",
		})
	}
}

// composePlaylist runs the search leg of the compose flow. The caller's
// working selection rides along and comes back resolved, nothing is
// persisted until the playlist itself is saved.
func composePlaylist(playlists *services.PlaylistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query       string   `json:"query"`
			SelectedIDs []string `json:"selected_ids"`
		}
		if r.ContentLength > 0 {
			if err := decode(r, &req); err != nil {
				render.Render(w, r, responseInvalidRequest(err))
				return
			}
		}

		result, err := playlists.ComposeSearch(req.Query, req.SelectedIDs)
		if err != nil {
			renderError(w, r, err)
			return
		}

		render.Render(w, r, &composeResponse{
			HTTPStatusCode: http.StatusOK,
			ComposeResult:  *result,
		})
	}
}
