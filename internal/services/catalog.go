package services

import (
	"fmt"

	"github.com/charmbracelet/log"

	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/internal/shared"
)

// CatalogService curates the shared song catalog. Every mutation requires an
// administrator identity; reads are open to all callers.
type CatalogService struct {
	songs  *repositories.SongRepository
	logger *log.Logger
}

// NewCatalogService creates a CatalogService over the given song repository.
func NewCatalogService(songs *repositories.SongRepository, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogService{songs: songs, logger: logger}
}

// ImportResult summarizes a bulk import: how many rows were added and how
// many were skipped for missing a title.
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// AddSong adds a single song to the catalog.
func (s *CatalogService) AddSong(caller Identity, song models.Song) (*models.PersistedSong, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	persisted := models.NewPersistedSong(0, song)
	if err := s.songs.Create(persisted); err != nil {
		return nil, err
	}

	s.logger.Info("added song", "id", persisted.ID(), "title", persisted.Title())
	return persisted, nil
}

// UpdateSong applies a structured update record to an existing song.
func (s *CatalogService) UpdateSong(caller Identity, id string, update models.SongUpdate) (*models.PersistedSong, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	song, err := s.songs.Get(id)
	if err != nil {
		return nil, err
	}

	song.Apply(update)
	if err := s.songs.Update(song); err != nil {
		return nil, err
	}

	return song, nil
}

// DeleteSong removes a song from the catalog, cascading every playlist
// membership that references it.
func (s *CatalogService) DeleteSong(caller Identity, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	if err := s.songs.Delete(id); err != nil {
		return err
	}

	s.logger.Info("deleted song", "id", id)
	return nil
}

// DeleteSongs removes the selected songs and their memberships.
func (s *CatalogService) DeleteSongs(caller Identity, ids []string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	return s.songs.DeleteMany(shared.DedupeStrings(ids))
}

// DeleteAllSongs empties the catalog and every playlist membership.
func (s *CatalogService) DeleteAllSongs(caller Identity) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	if err := s.songs.DeleteAll(); err != nil {
		return err
	}

	s.logger.Warn("deleted entire catalog")
	return nil
}

// ImportSongs adds a batch of parsed rows to the catalog.
//
// Rows missing a title are skipped, not rejected: import is partial-success by
// row content. The surviving rows are written in a single transaction, so a
// storage failure leaves the catalog unchanged. Callers that read from an
// unreliable source must parse completely before calling; a parse failure
// means this function is never invoked and nothing is written.
func (s *CatalogService) ImportSongs(caller Identity, rows []models.Song) (*ImportResult, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	kept := make([]*models.PersistedSong, 0, len(rows))

	for _, row := range rows {
		if row.Title == "" {
			result.Skipped++
			continue
		}
		kept = append(kept, models.NewPersistedSong(0, row))
	}

	if err := s.songs.BulkCreate(kept); err != nil {
		return nil, err
	}

	result.Added = len(kept)
	s.logger.Info("imported songs", "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

// Search filters the catalog by a case-insensitive substring over title,
// artist and album, ordered by title. An empty query returns everything.
func (s *CatalogService) Search(query string) ([]models.Song, error) {
	return s.songs.Search(query)
}

// GetSong retrieves a single catalog song.
func (s *CatalogService) GetSong(id string) (models.Song, error) {
	song, err := s.songs.Get(id)
	if err != nil {
		return models.Song{}, err
	}
	return song.DTO(), nil
}

// requireAdmin rejects non-administrator callers.
func requireAdmin(caller Identity) error {
	if !caller.Authenticated() {
		return shared.ErrNotAuthenticated
	}
	if !caller.Admin {
		return fmt.Errorf("%w: administrator required", shared.ErrForbidden)
	}
	return nil
}
