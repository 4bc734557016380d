package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"mixtape/internal/formatter"
	"mixtape/internal/models"
	"mixtape/internal/shared"
)

// SongsList prints catalog songs, filtered by the optional query argument.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	songs, err := lib.catalog.Search(cmd.StringArg("query"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	if len(songs) == 0 {
		return r.writePlain("catalog is empty\n")
	}

	for _, song := range songs {
		line := song.Title
		if song.Artist != "" {
			line = fmt.Sprintf("%s - %s", song.Artist, line)
		}
		if song.Album != "" {
			line = fmt.Sprintf("%s (%s)", line, song.Album)
		}
		if err := r.writePlain("%s  [%s]\n", line, song.ID); err != nil {
			return err
		}
	}

	return nil
}

// SongsAdd inserts a new song into the catalog.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	song, err := lib.catalog.AddSong(operator, models.Song{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		Album:    cmd.String("album"),
		CoverURL: cmd.String("cover"),
	})
	if err != nil {
		return err
	}

	return r.writePlain("added song %q  [%s]\n", song.Title(), song.ID())
}

// SongsEdit updates the fields named by flags, leaving the rest alone.
func (r *Runner) SongsEdit(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	var update models.SongUpdate
	if cmd.IsSet("title") {
		title := cmd.String("title")
		update.Title = &title
	}
	if cmd.IsSet("artist") {
		artist := cmd.String("artist")
		update.Artist = &artist
	}
	if cmd.IsSet("album") {
		album := cmd.String("album")
		update.Album = &album
	}
	if cmd.IsSet("cover") {
		cover := cmd.String("cover")
		update.CoverURL = &cover
	}

	song, err := lib.catalog.UpdateSong(operator, cmd.String("id"), update)
	if err != nil {
		return err
	}

	return r.writePlain("updated song %q  [%s]\n", song.Title(), song.ID())
}

// SongsDelete removes the named songs, or the whole catalog with --all.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")
	all := cmd.Bool("all")

	if len(ids) == 0 && !all {
		return fmt.Errorf("%w: either --id or --all must be provided", shared.ErrMissingArgument)
	}
	if len(ids) > 0 && all {
		return fmt.Errorf("%w: cannot combine --id with --all", shared.ErrInvalidInput)
	}

	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	if all {
		if err := lib.catalog.DeleteAllSongs(operator); err != nil {
			return err
		}
		return r.writePlain("catalog cleared\n")
	}

	if err := lib.catalog.DeleteSongs(operator, ids); err != nil {
		return err
	}

	return r.writePlain("deleted %d songs\n", len(ids))
}

// SongsImport loads songs from a CSV file into the catalog.
func (r *Runner) SongsImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to CSV file is required", shared.ErrMissingArgument)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := formatter.ParseSongsCSV(file)
	if err != nil {
		return err
	}

	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	result, err := lib.catalog.ImportSongs(operator, rows)
	if err != nil {
		return err
	}

	return r.writePlain("imported %d songs, skipped %d rows\n", result.Added, result.Skipped)
}

// SongsExport writes the catalog to a CSV file.
func (r *Runner) SongsExport(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	songs, err := lib.catalog.Search("")
	if err != nil {
		return err
	}

	path, err := formatter.WriteSongsCSV(songs, cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlain("exported %d songs to %s\n", len(songs), path)
}
