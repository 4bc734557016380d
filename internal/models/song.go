package models

import (
	"fmt"
	"time"

	"mixtape/internal/shared"
)

// Song is the catalog song DTO served to clients and parsed from CSV imports.
//
// Title is the only required field; artist, album and cover are optional.
type Song struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
}

// SongUpdate is a structured update record for admin song edits.
// Nil fields are left unchanged.
type SongUpdate struct {
	Title    *string `json:"title,omitempty"`
	Artist   *string `json:"artist,omitempty"`
	Album    *string `json:"album,omitempty"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// PersistedSong is a database-backed catalog song curated by the administrator.
type PersistedSong struct {
	id        string
	sequence  int
	song      Song
	createdAt time.Time
	updatedAt time.Time
}

// NewPersistedSong creates a PersistedSong wrapping the given DTO.
// The ID is assigned by the repository on insert.
func NewPersistedSong(sequence int, song Song) *PersistedSong {
	now := time.Now()
	return &PersistedSong{
		sequence:  sequence,
		song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *PersistedSong) ID() string           { return s.id }
func (s *PersistedSong) Sequence() int        { return s.sequence }
func (s *PersistedSong) Title() string        { return s.song.Title }
func (s *PersistedSong) Artist() string       { return s.song.Artist }
func (s *PersistedSong) Album() string        { return s.song.Album }
func (s *PersistedSong) CoverURL() string     { return s.song.CoverURL }
func (s *PersistedSong) CreatedAt() time.Time { return s.createdAt }
func (s *PersistedSong) UpdatedAt() time.Time { return s.updatedAt }

func (s *PersistedSong) SetID(id string) {
	s.id = id
	s.song.ID = id
}
func (s *PersistedSong) SetSequence(sequence int) { s.sequence = sequence }
func (s *PersistedSong) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *PersistedSong) SetUpdatedAt(t time.Time) { s.updatedAt = t }

// Apply merges a SongUpdate into the song, leaving nil fields unchanged.
func (s *PersistedSong) Apply(update SongUpdate) {
	if update.Title != nil {
		s.song.Title = *update.Title
	}
	if update.Artist != nil {
		s.song.Artist = *update.Artist
	}
	if update.Album != nil {
		s.song.Album = *update.Album
	}
	if update.CoverURL != nil {
		s.song.CoverURL = *update.CoverURL
	}
}

// DTO returns the Song data transfer object for this entity.
func (s *PersistedSong) DTO() Song {
	dto := s.song
	dto.ID = s.id
	return dto
}

// Validate checks that the song has a title.
func (s *PersistedSong) Validate() error {
	if s.song.Title == "" {
		return fmt.Errorf("%w: song title is required", shared.ErrValidation)
	}
	return nil
}
