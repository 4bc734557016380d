package models

import (
	"fmt"
	"time"

	"mixtape/internal/shared"
)

// PlaylistEntry is one membership row linking a playlist to a song.
//
// The (playlist, song) pair is unique; TrackNumber is the explicit 1-based
// position assigned by the reconciler, never inferred from insertion order.
type PlaylistEntry struct {
	PlaylistID  string `json:"playlist_id"`
	SongID      string `json:"song_id"`
	TrackNumber int    `json:"track_number"`
}

// PlaylistView is the read-side projection of a playlist: metadata, the
// ordered member songs and the derived display cover.
type PlaylistView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Owner       string    `json:"owner,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Songs       []Song    `json:"songs"`
}

// DisplayCover returns the playlist's own cover if set, otherwise the cover
// of the first member song (by track order) that has one, otherwise "".
// Computed at read time; never stored.
func (v *PlaylistView) DisplayCover() string {
	if v.CoverURL != "" {
		return v.CoverURL
	}
	for _, song := range v.Songs {
		if song.CoverURL != "" {
			return song.CoverURL
		}
	}
	return ""
}

// PersistedPlaylist is a database-backed playlist owned by a user.
//
// Ownership is set once at creation and immutable afterwards.
type PersistedPlaylist struct {
	id          string
	sequence    int
	userID      string
	title       string
	description string
	coverURL    string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPersistedPlaylist creates a playlist owned by userID.
// The ID is assigned by the repository on insert.
func NewPersistedPlaylist(sequence int, userID, title, description, coverURL string) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		sequence:    sequence,
		userID:      userID,
		title:       title,
		description: description,
		coverURL:    coverURL,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (p *PersistedPlaylist) ID() string           { return p.id }
func (p *PersistedPlaylist) Sequence() int        { return p.sequence }
func (p *PersistedPlaylist) UserID() string       { return p.userID }
func (p *PersistedPlaylist) Title() string        { return p.title }
func (p *PersistedPlaylist) Description() string  { return p.description }
func (p *PersistedPlaylist) CoverURL() string     { return p.coverURL }
func (p *PersistedPlaylist) CreatedAt() time.Time { return p.createdAt }
func (p *PersistedPlaylist) UpdatedAt() time.Time { return p.updatedAt }

func (p *PersistedPlaylist) SetID(id string)            { p.id = id }
func (p *PersistedPlaylist) SetSequence(sequence int)   { p.sequence = sequence }
func (p *PersistedPlaylist) SetCreatedAt(t time.Time)   { p.createdAt = t }
func (p *PersistedPlaylist) SetUpdatedAt(t time.Time)   { p.updatedAt = t }
func (p *PersistedPlaylist) SetTitle(title string)      { p.title = title }
func (p *PersistedPlaylist) SetDescription(desc string) { p.description = desc }
func (p *PersistedPlaylist) SetCoverURL(cover string)   { p.coverURL = cover }

// Validate checks that the playlist has an owner and non-empty title and description.
func (p *PersistedPlaylist) Validate() error {
	if p.userID == "" {
		return fmt.Errorf("%w: playlist owner is required", shared.ErrValidation)
	}
	if p.title == "" {
		return fmt.Errorf("%w: playlist title is required", shared.ErrValidation)
	}
	if p.description == "" {
		return fmt.Errorf("%w: playlist description is required", shared.ErrValidation)
	}
	return nil
}
