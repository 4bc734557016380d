package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"mixtape/internal/models"
	"mixtape/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// seedUser creates a user for playlist ownership in tests
func seedUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()

	repo := NewUserRepository(db)
	user := models.NewUser(0, username, "secret")
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// seedSong adds a catalog song for membership tests
func seedSong(t *testing.T, db *sql.DB, title, artist, cover string) *models.PersistedSong {
	t.Helper()

	repo := NewSongRepository(db)
	song := models.NewPersistedSong(0, models.Song{Title: title, Artist: artist, CoverURL: cover})
	if err := repo.Create(song); err != nil {
		t.Fatalf("failed to create song %s: %v", title, err)
	}
	return song
}

func TestUserRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "alice", "secret")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}

		retrieved, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.Username() != "alice" {
			t.Errorf("expected username alice, got %s", retrieved.Username())
		}
	})

	t.Run("GetByUsername", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "bob", "hunter2")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.GetByUsername("bob")
		if err != nil {
			t.Fatalf("failed to get user by username: %v", err)
		}

		if !retrieved.CheckPassword("hunter2") {
			t.Error("expected stored password to match")
		}

		if _, err := repo.GetByUsername("nobody"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)

		if err := repo.Create(models.NewUser(0, "carol", "pw1")); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		err := repo.Create(models.NewUser(0, "carol", "pw2"))
		if !errors.Is(err, shared.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})
}

func TestSongRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{
			Title:  "Go Your Own Way",
			Artist: "Fleetwood Mac",
			Album:  "Rumours",
		})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.Title() != "Go Your Own Way" {
			t.Errorf("expected title 'Go Your Own Way', got %s", retrieved.Title())
		}

		if retrieved.Album() != "Rumours" {
			t.Errorf("expected album 'Rumours', got %s", retrieved.Album())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := seedSong(t, db, "Dreams", "Fleetwood Mac", "")

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		album := "Rumours"
		retrieved.Apply(models.SongUpdate{Album: &album})

		if err := repo.Update(retrieved); err != nil {
			t.Fatalf("failed to update song: %v", err)
		}

		updated, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get updated song: %v", err)
		}

		if updated.Album() != "Rumours" {
			t.Errorf("expected album 'Rumours', got %s", updated.Album())
		}
	})

	t.Run("Search", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		seedSong(t, db, "Riders on the Storm", "The Doors", "")
		seedSong(t, db, "Break on Through", "The Doors", "")
		seedSong(t, db, "Africa", "Toto", "")

		all, err := repo.Search("")
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(all))
		}
		if all[0].Title != "Africa" {
			t.Errorf("expected results ordered by title, got %s first", all[0].Title)
		}

		doors, err := repo.Search("doors")
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if len(doors) != 2 {
			t.Errorf("expected 2 matches for 'doors', got %d", len(doors))
		}

		none, err := repo.Search("zeppelin")
		if err != nil {
			t.Fatalf("failed to search: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no matches, got %d", len(none))
		}
	})

	t.Run("BulkCreate", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		songs := []*models.PersistedSong{
			models.NewPersistedSong(0, models.Song{Title: "A"}),
			models.NewPersistedSong(0, models.Song{Title: "B"}),
		}

		if err := repo.BulkCreate(songs); err != nil {
			t.Fatalf("failed to bulk create: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count songs: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 songs, got %d", count)
		}
	})

	t.Run("BulkCreate rolls back on invalid row", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		songs := []*models.PersistedSong{
			models.NewPersistedSong(0, models.Song{Title: "Valid"}),
			models.NewPersistedSong(0, models.Song{}),
		}

		if err := repo.BulkCreate(songs); err == nil {
			t.Fatal("expected bulk create to fail on invalid row")
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count songs: %v", err)
		}
		if count != 0 {
			t.Errorf("expected rollback to leave 0 songs, got %d", count)
		}
	})
}

func TestPlaylistRepository_CreateReconcilesMembership(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	songA := seedSong(t, db, "Song A", "", "")
	songB := seedSong(t, db, "Song B", "", "")
	songC := seedSong(t, db, "Song C", "", "")

	repo := NewPlaylistRepository(db)
	playlist := models.NewPersistedPlaylist(0, owner.ID(), "Road Trip", "driving songs", "")

	// Duplicate of songA collapses to its first position.
	submitted := []string{songA.ID(), songB.ID(), songA.ID(), songC.ID()}

	entries, err := repo.Create(playlist, submitted)
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	want := []struct {
		songID string
		track  int
	}{
		{songA.ID(), 1},
		{songB.ID(), 2},
		{songC.ID(), 3},
	}

	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}

	for i, w := range want {
		if entries[i].SongID != w.songID || entries[i].TrackNumber != w.track {
			t.Errorf("entry %d: expected (%s, %d), got (%s, %d)",
				i, w.songID, w.track, entries[i].SongID, entries[i].TrackNumber)
		}
	}

	stored, err := repo.Entries(playlist.ID())
	if err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored entries, got %d", len(stored))
	}
	for i, entry := range stored {
		if entry.TrackNumber != i+1 {
			t.Errorf("expected contiguous track numbers, got %d at position %d", entry.TrackNumber, i)
		}
	}
}

func TestPlaylistRepository_ReconcileDropsUnknownSongs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	songA := seedSong(t, db, "Song A", "", "")

	repo := NewPlaylistRepository(db)
	playlist := models.NewPersistedPlaylist(0, owner.ID(), "Mix", "misc", "")

	entries, err := repo.Create(playlist, []string{"no-such-song", songA.ID()})
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].SongID != songA.ID() || entries[0].TrackNumber != 1 {
		t.Errorf("expected (%s, 1), got (%s, %d)", songA.ID(), entries[0].SongID, entries[0].TrackNumber)
	}
}

func TestPlaylistRepository_ReconcileReplaceMode(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	songA := seedSong(t, db, "Song A", "", "")
	songB := seedSong(t, db, "Song B", "", "")
	songC := seedSong(t, db, "Song C", "", "")

	repo := NewPlaylistRepository(db)
	playlist := models.NewPersistedPlaylist(0, owner.ID(), "Road Trip", "driving songs", "")

	if _, err := repo.Create(playlist, []string{songA.ID(), songB.ID(), songC.ID()}); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	// Replace drops songA's membership and re-ranks the rest.
	entries, err := repo.Reconcile(playlist.ID(), []string{songB.ID(), songC.ID()}, true)
	if err != nil {
		t.Fatalf("failed to reconcile: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SongID != songB.ID() || entries[0].TrackNumber != 1 {
		t.Errorf("expected (%s, 1), got (%s, %d)", songB.ID(), entries[0].SongID, entries[0].TrackNumber)
	}
	if entries[1].SongID != songC.ID() || entries[1].TrackNumber != 2 {
		t.Errorf("expected (%s, 2), got (%s, %d)", songC.ID(), entries[1].SongID, entries[1].TrackNumber)
	}

	stored, err := repo.Entries(playlist.ID())
	if err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	for _, entry := range stored {
		if entry.SongID == songA.ID() {
			t.Error("expected songA's membership row to be gone after replace")
		}
	}
}

func TestPlaylistRepository_ReconcileIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	songA := seedSong(t, db, "Song A", "", "")
	songB := seedSong(t, db, "Song B", "", "")

	repo := NewPlaylistRepository(db)
	playlist := models.NewPersistedPlaylist(0, owner.ID(), "Mix", "misc", "")

	submitted := []string{songB.ID(), songA.ID()}

	first, err := repo.Create(playlist, submitted)
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	// Re-submitting the same selection must produce the identical state.
	second, err := repo.Reconcile(playlist.ID(), submitted, true)
	if err != nil {
		t.Fatalf("failed to reconcile: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d vs %d entries", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}

	stored, err := repo.Entries(playlist.ID())
	if err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 rows after resubmission, got %d", len(stored))
	}
}

func TestPlaylistRepository_ReconcileUnknownPlaylist(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPlaylistRepository(db)

	_, err := repo.Reconcile("no-such-playlist", []string{}, false)
	if !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestPlaylistRepository_EmptySelection(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	repo := NewPlaylistRepository(db)
	playlist := models.NewPersistedPlaylist(0, owner.ID(), "Empty", "nothing yet", "")

	entries, err := repo.Create(playlist, nil)
	if err != nil {
		t.Fatalf("creating a playlist with no songs should succeed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}

func TestPlaylistRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	songA := seedSong(t, db, "Song A", "", "")

	repo := NewPlaylistRepository(db)
	playlist := models.NewPersistedPlaylist(0, owner.ID(), "Mix", "misc", "")

	if _, err := repo.Create(playlist, []string{songA.ID()}); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	if err := repo.Delete(playlist.ID()); err != nil {
		t.Fatalf("failed to delete playlist: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = ?", playlist.ID()).Scan(&count); err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no orphaned memberships, got %d", count)
	}

	if err := repo.Delete(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound on second delete, got %v", err)
	}
}

func TestSongRepository_DeleteCascadesMemberships(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	songA := seedSong(t, db, "Song A", "", "")
	songB := seedSong(t, db, "Song B", "", "")

	playlistRepo := NewPlaylistRepository(db)
	first := models.NewPersistedPlaylist(0, owner.ID(), "First", "one", "")
	second := models.NewPersistedPlaylist(0, owner.ID(), "Second", "two", "")

	if _, err := playlistRepo.Create(first, []string{songA.ID(), songB.ID()}); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}
	if _, err := playlistRepo.Create(second, []string{songA.ID()}); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	songRepo := NewSongRepository(db)
	if err := songRepo.Delete(songA.ID()); err != nil {
		t.Fatalf("failed to delete song: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM playlist_songs WHERE song_id = ?", songA.ID()).Scan(&count); err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if count != 0 {
		t.Errorf("expected song deletion to remove all its memberships, got %d rows", count)
	}

	remaining, err := playlistRepo.Entries(first.ID())
	if err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	if len(remaining) != 1 || remaining[0].SongID != songB.ID() {
		t.Errorf("expected only songB's membership to survive, got %+v", remaining)
	}
}

func TestPlaylistRepository_GetViewDisplayCover(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := seedUser(t, db, "alice")
	plain := seedSong(t, db, "No Cover", "", "")
	covered := seedSong(t, db, "With Cover", "", "https://img.example/cover.jpg")

	repo := NewPlaylistRepository(db)
	playlist := models.NewPersistedPlaylist(0, owner.ID(), "Mix", "misc", "")

	if _, err := repo.Create(playlist, []string{plain.ID(), covered.ID()}); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	view, err := repo.GetView(playlist.ID())
	if err != nil {
		t.Fatalf("failed to load view: %v", err)
	}

	if view.Owner != "alice" {
		t.Errorf("expected owner username alice, got %s", view.Owner)
	}

	if got := view.DisplayCover(); got != "https://img.example/cover.jpg" {
		t.Errorf("expected display cover from first covered member, got %q", got)
	}

	explicit := models.NewPersistedPlaylist(0, owner.ID(), "Art", "has own art", "https://img.example/own.png")
	if _, err := repo.Create(explicit, []string{covered.ID()}); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	view2, err := repo.GetView(explicit.ID())
	if err != nil {
		t.Fatalf("failed to load view: %v", err)
	}
	if got := view2.DisplayCover(); got != "https://img.example/own.png" {
		t.Errorf("expected playlist's own cover to win, got %q", got)
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "users")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}
	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "users")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}
	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}

	songSeq, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("failed to get song sequence: %v", err)
	}
	if songSeq != 1 {
		t.Errorf("expected first song sequence to be 1, got %d", songSeq)
	}
}
