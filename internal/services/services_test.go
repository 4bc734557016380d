package services

import (
	"database/sql"
	"errors"
	"io"
	"testing"

	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/internal/shared"
)

type fixture struct {
	db        *sql.DB
	auth      *AuthService
	catalog   *CatalogService
	playlists *PlaylistService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	logger := shared.NewLogger(io.Discard)
	admin := shared.AdminConfig{Username: "admin", Password: "hunter2"}

	userRepo := repositories.NewUserRepository(db)
	songRepo := repositories.NewSongRepository(db)
	playlistRepo := repositories.NewPlaylistRepository(db)

	return &fixture{
		db:        db,
		auth:      NewAuthService(userRepo, admin, logger),
		catalog:   NewCatalogService(songRepo, logger),
		playlists: NewPlaylistService(playlistRepo, songRepo, logger),
	}
}

var adminIdent = Identity{Admin: true}

func (f *fixture) registerUser(t *testing.T, username string) Identity {
	t.Helper()

	user, err := f.auth.Register(username, "secret")
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
	return Identity{UserID: user.ID()}
}

func (f *fixture) addSong(t *testing.T, title string) models.Song {
	t.Helper()

	song, err := f.catalog.AddSong(adminIdent, models.Song{Title: title})
	if err != nil {
		t.Fatalf("failed to add song %s: %v", title, err)
	}
	return song.DTO()
}

func TestCanMutatePlaylist(t *testing.T) {
	cases := []struct {
		name    string
		caller  Identity
		ownerID string
		want    bool
	}{
		{"owner may mutate", Identity{UserID: "u1"}, "u1", true},
		{"admin may mutate", Identity{UserID: "u2", Admin: true}, "u1", true},
		{"admin without user row may mutate", Identity{Admin: true}, "u1", true},
		{"other user may not", Identity{UserID: "u2"}, "u1", false},
		{"anonymous may not", Identity{}, "u1", false},
		{"anonymous may not claim empty owner", Identity{}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMutatePlaylist(tc.caller, tc.ownerID); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestAuthService(t *testing.T) {
	t.Run("Register and Login", func(t *testing.T) {
		f := setup(t)

		user, err := f.auth.Register("alice", "secret")
		if err != nil {
			t.Fatalf("failed to register: %v", err)
		}

		ident, err := f.auth.Login("alice", "secret")
		if err != nil {
			t.Fatalf("failed to login: %v", err)
		}
		if ident.UserID != user.ID() {
			t.Errorf("expected identity for %s, got %s", user.ID(), ident.UserID)
		}
		if ident.Admin {
			t.Error("regular user should not be admin")
		}
	})

	t.Run("Login rejects bad credentials", func(t *testing.T) {
		f := setup(t)
		f.registerUser(t, "alice")

		if _, err := f.auth.Login("alice", "wrong"); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := f.auth.Login("ghost", "secret"); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
		}
	})

	t.Run("Admin fixed credential check", func(t *testing.T) {
		f := setup(t)

		if !f.auth.IsAdmin("admin", "hunter2") {
			t.Error("expected configured credentials to grant admin")
		}
		if f.auth.IsAdmin("admin", "wrong") {
			t.Error("wrong password must not grant admin")
		}

		ident, err := f.auth.Login("admin", "hunter2")
		if err != nil {
			t.Fatalf("admin login failed: %v", err)
		}
		if !ident.Admin {
			t.Error("expected admin identity")
		}
	})

	t.Run("Register validation", func(t *testing.T) {
		f := setup(t)

		if _, err := f.auth.Register("", "pw"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if _, err := f.auth.Register("bob", ""); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestCatalogService_AdminRequired(t *testing.T) {
	f := setup(t)
	user := f.registerUser(t, "alice")

	if _, err := f.catalog.AddSong(user, models.Song{Title: "X"}); !errors.Is(err, shared.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-admin add, got %v", err)
	}
	if err := f.catalog.DeleteAllSongs(Identity{}); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated for anonymous delete, got %v", err)
	}
	if _, err := f.catalog.ImportSongs(user, nil); !errors.Is(err, shared.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-admin import, got %v", err)
	}
}

func TestCatalogService_ImportSkipsUntitledRows(t *testing.T) {
	f := setup(t)

	rows := []models.Song{
		{Title: "A"},
		{Artist: "X"}, // no title, skipped
	}

	result, err := f.catalog.ImportSongs(adminIdent, rows)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Added != 1 || result.Skipped != 1 {
		t.Errorf("expected 1 added / 1 skipped, got %d / %d", result.Added, result.Skipped)
	}

	songs, err := f.catalog.Search("")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "A" {
		t.Errorf("expected only song A in catalog, got %+v", songs)
	}
}

func TestCatalogService_UpdateSong(t *testing.T) {
	f := setup(t)
	song := f.addSong(t, "Original")

	title := "Renamed"
	updated, err := f.catalog.UpdateSong(adminIdent, song.ID, models.SongUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title() != "Renamed" {
		t.Errorf("expected renamed title, got %s", updated.Title())
	}

	if _, err := f.catalog.UpdateSong(adminIdent, "missing", models.SongUpdate{}); !errors.Is(err, shared.ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound, got %v", err)
	}
}

func TestPlaylistService_CreateCollapsesDuplicates(t *testing.T) {
	f := setup(t)
	owner := f.registerUser(t, "alice")

	songA := f.addSong(t, "Song A")
	songB := f.addSong(t, "Song B")
	songC := f.addSong(t, "Song C")

	view, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{
		Title:       "Road Trip",
		Description: "driving songs",
		SongIDs:     []string{songA.ID, songB.ID, songA.ID, songC.ID},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(view.Songs) != 3 {
		t.Fatalf("expected 3 member songs, got %d", len(view.Songs))
	}

	wantOrder := []string{songA.ID, songB.ID, songC.ID}
	for i, want := range wantOrder {
		if view.Songs[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i+1, want, view.Songs[i].ID)
		}
	}
}

func TestPlaylistService_CreateValidation(t *testing.T) {
	f := setup(t)
	owner := f.registerUser(t, "alice")

	if _, err := f.playlists.CreatePlaylist(Identity{}, PlaylistDraft{Title: "T", Description: "D"}); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{Description: "D"}); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation for missing title, got %v", err)
	}
	if _, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{Title: "T"}); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation for missing description, got %v", err)
	}

	// Empty selection is not an error.
	view, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{Title: "Empty", Description: "no songs"})
	if err != nil {
		t.Fatalf("empty selection should succeed: %v", err)
	}
	if len(view.Songs) != 0 {
		t.Errorf("expected no member songs, got %d", len(view.Songs))
	}
}

func TestPlaylistService_EditReplacesMembership(t *testing.T) {
	f := setup(t)
	owner := f.registerUser(t, "alice")

	songA := f.addSong(t, "Song A")
	songB := f.addSong(t, "Song B")
	songC := f.addSong(t, "Song C")

	view, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{
		Title:       "Road Trip",
		Description: "driving songs",
		SongIDs:     []string{songA.ID, songB.ID, songC.ID},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	edited, err := f.playlists.EditPlaylist(owner, view.ID, PlaylistDraft{
		Title:       "Road Trip",
		Description: "driving songs",
		SongIDs:     []string{songB.ID, songC.ID},
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if len(edited.Songs) != 2 {
		t.Fatalf("expected 2 member songs after replace, got %d", len(edited.Songs))
	}
	if edited.Songs[0].ID != songB.ID || edited.Songs[1].ID != songC.ID {
		t.Errorf("expected order [B, C], got [%s, %s]", edited.Songs[0].ID, edited.Songs[1].ID)
	}
}

func TestPlaylistService_EditForbiddenLeavesStateUntouched(t *testing.T) {
	f := setup(t)
	owner := f.registerUser(t, "alice")
	intruder := f.registerUser(t, "mallory")

	songA := f.addSong(t, "Song A")

	view, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{
		Title:       "Private",
		Description: "mine",
		SongIDs:     []string{songA.ID},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.playlists.EditPlaylist(intruder, view.ID, PlaylistDraft{
		Title:       "Hijacked",
		Description: "stolen",
		SongIDs:     []string{},
	})
	if !errors.Is(err, shared.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	after, err := f.playlists.GetPlaylist(view.ID)
	if err != nil {
		t.Fatalf("failed to reload playlist: %v", err)
	}
	if after.Title != "Private" || after.Description != "mine" {
		t.Errorf("metadata must be unchanged after forbidden edit, got %q / %q", after.Title, after.Description)
	}
	if len(after.Songs) != 1 {
		t.Errorf("membership must be unchanged after forbidden edit, got %d songs", len(after.Songs))
	}

	if err := f.playlists.DeletePlaylist(intruder, view.ID); !errors.Is(err, shared.ErrForbidden) {
		t.Errorf("expected ErrForbidden on delete, got %v", err)
	}
}

func TestPlaylistService_AdminMayMutateAnyPlaylist(t *testing.T) {
	f := setup(t)
	owner := f.registerUser(t, "alice")

	view, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{Title: "T", Description: "D"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.playlists.EditPlaylist(adminIdent, view.ID, PlaylistDraft{Title: "Curated", Description: "D"}); err != nil {
		t.Fatalf("admin edit failed: %v", err)
	}

	if err := f.playlists.DeletePlaylist(adminIdent, view.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}

	if _, err := f.playlists.GetPlaylist(view.ID); !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound after delete, got %v", err)
	}
}

func TestPlaylistService_EditMissingPlaylist(t *testing.T) {
	f := setup(t)
	owner := f.registerUser(t, "alice")

	_, err := f.playlists.EditPlaylist(owner, "missing", PlaylistDraft{Title: "T", Description: "D"})
	if !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestPlaylistService_ComposeSearchPreservesSelection(t *testing.T) {
	f := setup(t)

	songA := f.addSong(t, "Autumn Leaves")
	songB := f.addSong(t, "Blue in Green")
	f.addSong(t, "So What")

	selected := []string{songB.ID, songA.ID, songB.ID, "vanished"}

	result, err := f.playlists.ComposeSearch("blue", selected)
	if err != nil {
		t.Fatalf("compose search failed: %v", err)
	}

	if len(result.Candidates) != 1 || result.Candidates[0].Title != "Blue in Green" {
		t.Errorf("expected one candidate 'Blue in Green', got %+v", result.Candidates)
	}

	// Selection survives in submitted order, deduplicated, unknowns dropped.
	wantIDs := []string{songB.ID, songA.ID}
	if len(result.SelectedIDs) != len(wantIDs) {
		t.Fatalf("expected %d selected ids, got %d", len(wantIDs), len(result.SelectedIDs))
	}
	for i, want := range wantIDs {
		if result.SelectedIDs[i] != want {
			t.Errorf("selection position %d: expected %s, got %s", i, want, result.SelectedIDs[i])
		}
	}

	// A search round trip followed by save yields the same order as a direct save.
	owner := f.registerUser(t, "alice")
	view, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{
		Title:       "Jazz",
		Description: "standards",
		SongIDs:     result.SelectedIDs,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(view.Songs) != 2 || view.Songs[0].ID != songB.ID || view.Songs[1].ID != songA.ID {
		t.Errorf("saved order must match round-tripped selection, got %+v", view.Songs)
	}
}

func TestPlaylistService_ComposeSearchSurfacesStorageErrors(t *testing.T) {
	f := setup(t)

	song := f.addSong(t, "Autumn Leaves")

	// A failing store must produce an error, not a silently shrunken
	// selection.
	f.db.Close()

	if _, err := f.playlists.ComposeSearch("", []string{song.ID}); err == nil {
		t.Error("expected an error from compose search over a closed database")
	}
}

func TestPlaylistService_SongDeletionRemovesFromViews(t *testing.T) {
	f := setup(t)
	owner := f.registerUser(t, "alice")

	songA := f.addSong(t, "Song A")
	songB := f.addSong(t, "Song B")

	view, err := f.playlists.CreatePlaylist(owner, PlaylistDraft{
		Title:       "Mix",
		Description: "misc",
		SongIDs:     []string{songA.ID, songB.ID},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.catalog.DeleteSong(adminIdent, songA.ID); err != nil {
		t.Fatalf("delete song failed: %v", err)
	}

	after, err := f.playlists.GetPlaylist(view.ID)
	if err != nil {
		t.Fatalf("failed to reload playlist: %v", err)
	}
	if len(after.Songs) != 1 || after.Songs[0].ID != songB.ID {
		t.Errorf("expected deleted song to vanish from playlist view, got %+v", after.Songs)
	}
}
