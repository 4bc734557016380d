package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"mixtape/internal/models"
	"mixtape/internal/services"
	"mixtape/internal/shared"
)

type errorResponse struct {
	HTTPStatusCode int    `json:"-"`
	MessageText    string `json:"message,omitempty"`
	ErrorText      string `json:"error,omitempty"`
}

func (er *errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, er.HTTPStatusCode)

	return nil
}

var (
	responseNotFound = &errorResponse{
		HTTPStatusCode: http.StatusNotFound,
		MessageText:    "invalid request",
		ErrorText:      "route does not exist",
	}
	responseNotAllowed = &errorResponse{
		HTTPStatusCode: http.StatusMethodNotAllowed,
		MessageText:    "invalid request",
		ErrorText:      "method is not valid",
	}
	responseTooManyRequests = &errorResponse{
		HTTPStatusCode: http.StatusTooManyRequests,
		MessageText:    "slow down",
		ErrorText:      "rate limit exceeded",
	}
)

func responseInvalidRequest(err error) render.Renderer {
	return &errorResponse{
		HTTPStatusCode: http.StatusBadRequest,
		MessageText:    "invalid request",
		ErrorText:      err.Error(),
	}
}

// renderError translates service errors into HTTP error responses.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrImportFailed):
		status = http.StatusBadRequest
		message = "invalid request"
	case errors.Is(err, shared.ErrUsernameTaken):
		status = http.StatusConflict
		message = "invalid request"
	case errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "authentication required"
	case errors.Is(err, shared.ErrForbidden):
		status = http.StatusForbidden
		message = "not allowed"
	case errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrPlaylistNotFound),
		errors.Is(err, shared.ErrSongNotFound),
		errors.Is(err, shared.ErrUserNotFound):
		status = http.StatusNotFound
		message = "not found"
	}

	resp := &errorResponse{HTTPStatusCode: status, MessageText: message}
	if status != http.StatusInternalServerError {
		resp.ErrorText = err.Error()
	}

	render.Render(w, r, resp)
}

type messageResponse struct {
	HTTPStatusCode int    `json:"-"`
	MessageText    string `json:"message,omitempty"`
}

func (mr *messageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, mr.HTTPStatusCode)

	return nil
}

type sessionResponse struct {
	HTTPStatusCode int    `json:"-"`
	Token          string `json:"token"`
	Admin          bool   `json:"admin"`
}

func (sr *sessionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, sr.HTTPStatusCode)

	return nil
}

type userResponse struct {
	HTTPStatusCode int    `json:"-"`
	ID             string `json:"id"`
	Username       string `json:"username"`
}

func (ur *userResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, ur.HTTPStatusCode)

	return nil
}

type songResponse struct {
	HTTPStatusCode int `json:"-"`
	models.Song
}

func (sr *songResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, sr.HTTPStatusCode)

	return nil
}

type songListResponse struct {
	HTTPStatusCode int           `json:"-"`
	Songs          []models.Song `json:"songs"`
}

func (sr *songListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, sr.HTTPStatusCode)

	return nil
}

type importResponse struct {
	HTTPStatusCode int `json:"-"`
	Added          int `json:"added"`
	Skipped        int `json:"skipped"`
}

func (ir *importResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, ir.HTTPStatusCode)

	return nil
}

type playlistData struct {
	models.PlaylistView
	DisplayCover string `json:"display_cover"`
}

func newPlaylistData(view *models.PlaylistView) playlistData {
	return playlistData{
		PlaylistView: *view,
		DisplayCover: view.DisplayCover(),
	}
}

type playlistResponse struct {
	HTTPStatusCode int `json:"-"`
	playlistData
}

func (pr *playlistResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pr.HTTPStatusCode)

	return nil
}

type playlistListResponse struct {
	HTTPStatusCode int            `json:"-"`
	Playlists      []playlistData `json:"playlists"`
}

func (pr *playlistListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pr.HTTPStatusCode)

	return nil
}

type composeResponse struct {
	HTTPStatusCode int `json:"-"`
	services.ComposeResult
}

func (cr *composeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, cr.HTTPStatusCode)

	return nil
}
