package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/internal/shared"
)

// PlaylistService manages the playlist lifecycle: creation, editing and
// deletion, with all membership changes delegated to the repository
// reconciler and ownership enforced by [CanMutatePlaylist].
type PlaylistService struct {
	playlists *repositories.PlaylistRepository
	songs     *repositories.SongRepository
	logger    *log.Logger
}

// NewPlaylistService creates a PlaylistService over the given repositories.
func NewPlaylistService(playlists *repositories.PlaylistRepository, songs *repositories.SongRepository, logger *log.Logger) *PlaylistService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistService{playlists: playlists, songs: songs, logger: logger}
}

// PlaylistDraft carries the submitted form state for a create or edit:
// metadata plus the ordered song selection.
type PlaylistDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CoverURL    string   `json:"cover_url,omitempty"`
	SongIDs     []string `json:"song_ids"`
}

// ComposeResult is the response to the two-phase form's search action:
// filtered catalog candidates plus the caller's in-progress selection,
// deduplicated but otherwise unchanged in order. Nothing is persisted.
type ComposeResult struct {
	Query       string        `json:"query"`
	Candidates  []models.Song `json:"candidates"`
	Selection   []models.Song `json:"selection"`
	SelectedIDs []string      `json:"selected_ids"`
}

// CreatePlaylist creates a playlist owned by the caller and reconciles its
// membership from the submitted selection.
//
// Fails with [shared.ErrNotAuthenticated] for anonymous callers and
// [shared.ErrValidation] when title or description is empty.
func (s *PlaylistService) CreatePlaylist(caller Identity, draft PlaylistDraft) (*models.PlaylistView, error) {
	if caller.UserID == "" {
		return nil, shared.ErrNotAuthenticated
	}

	if draft.Title == "" {
		return nil, fmt.Errorf("%w: playlist title is required", shared.ErrValidation)
	}
	if draft.Description == "" {
		return nil, fmt.Errorf("%w: playlist description is required", shared.ErrValidation)
	}

	playlist := models.NewPersistedPlaylist(0, caller.UserID, draft.Title, draft.Description, draft.CoverURL)

	if _, err := s.playlists.Create(playlist, draft.SongIDs); err != nil {
		return nil, err
	}

	s.logger.Info("created playlist", "id", playlist.ID(), "owner", caller.UserID, "title", draft.Title)
	return s.playlists.GetView(playlist.ID())
}

// EditPlaylist updates playlist metadata and reconciles its membership in
// replace mode.
//
// Fails with [shared.ErrPlaylistNotFound] when the playlist is absent and
// [shared.ErrForbidden] unless the caller is the owner or an administrator.
func (s *PlaylistService) EditPlaylist(caller Identity, playlistID string, draft PlaylistDraft) (*models.PlaylistView, error) {
	playlist, err := s.playlists.Get(playlistID)
	if err != nil {
		return nil, err
	}

	if !CanMutatePlaylist(caller, playlist.UserID()) {
		return nil, shared.ErrForbidden
	}

	if draft.Title == "" {
		return nil, fmt.Errorf("%w: playlist title is required", shared.ErrValidation)
	}
	if draft.Description == "" {
		return nil, fmt.Errorf("%w: playlist description is required", shared.ErrValidation)
	}

	playlist.SetTitle(draft.Title)
	playlist.SetDescription(draft.Description)
	playlist.SetCoverURL(draft.CoverURL)

	if _, err := s.playlists.Update(playlist, draft.SongIDs); err != nil {
		return nil, err
	}

	s.logger.Info("edited playlist", "id", playlistID, "caller", caller.UserID)
	return s.playlists.GetView(playlistID)
}

// DeletePlaylist removes a playlist and its memberships. Same authorization
// as editing.
func (s *PlaylistService) DeletePlaylist(caller Identity, playlistID string) error {
	playlist, err := s.playlists.Get(playlistID)
	if err != nil {
		return err
	}

	if !CanMutatePlaylist(caller, playlist.UserID()) {
		return shared.ErrForbidden
	}

	if err := s.playlists.Delete(playlistID); err != nil {
		return err
	}

	s.logger.Info("deleted playlist", "id", playlistID, "caller", caller.UserID)
	return nil
}

// GetPlaylist loads the read-side projection of a playlist.
func (s *PlaylistService) GetPlaylist(playlistID string) (*models.PlaylistView, error) {
	return s.playlists.GetView(playlistID)
}

// ListPlaylists loads all playlist projections, newest first.
func (s *PlaylistService) ListPlaylists() ([]models.PlaylistView, error) {
	return s.playlists.ListViews()
}

// ComposeSearch serves the search action of the two-phase form protocol.
//
// It filters the catalog by the query and echoes the submitted selection back
// deduplicated, preserving the caller's order. Selected identifiers that no
// longer resolve to a catalog row are dropped from the echoed selection, the
// same way the reconciler would drop them on save. No state is persisted.
func (s *PlaylistService) ComposeSearch(query string, selectedIDs []string) (*ComposeResult, error) {
	candidates, err := s.songs.Search(query)
	if err != nil {
		return nil, err
	}

	ids := shared.DedupeStrings(selectedIDs)
	selection := make([]models.Song, 0, len(ids))
	kept := make([]string, 0, len(ids))

	for _, id := range ids {
		song, err := s.songs.Get(id)
		if errors.Is(err, shared.ErrSongNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		selection = append(selection, song.DTO())
		kept = append(kept, id)
	}

	return &ComposeResult{
		Query:       query,
		Candidates:  candidates,
		Selection:   selection,
		SelectedIDs: kept,
	}, nil
}
