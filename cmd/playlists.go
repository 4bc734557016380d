package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"mixtape/internal/formatter"
	"mixtape/internal/shared"
)

// PlaylistsList prints all playlists, newest first.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	views, err := lib.playlists.ListPlaylists()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}

	if len(views) == 0 {
		return r.writePlain("no playlists yet\n")
	}

	for _, view := range views {
		owner := view.Owner
		if owner == "" {
			owner = view.OwnerID
		}
		if err := r.writePlain("%s by %s, %d songs  [%s]\n", view.Title, owner, len(view.Songs), view.ID); err != nil {
			return err
		}
	}

	return nil
}

// PlaylistsShow prints a single playlist with its songs in track order.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	view, err := lib.playlists.GetPlaylist(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}

	r.writePlain("%s\n", view.Title)
	if view.Description != "" {
		r.writePlain("%s\n", view.Description)
	}
	if view.Owner != "" {
		r.writePlain("by %s\n", view.Owner)
	}
	if cover := view.DisplayCover(); cover != "" {
		r.writePlain("cover: %s\n", cover)
	}
	r.writePlainln("%d songs", len(view.Songs))

	for i, song := range view.Songs {
		line := song.Title
		if song.Artist != "" {
			line = fmt.Sprintf("%s - %s", song.Artist, line)
		}
		if err := r.writePlain("%d. %s\n", i+1, line); err != nil {
			return err
		}
	}

	return nil
}

// PlaylistsExport writes a playlist to a Markdown or plain text file.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	view, err := lib.playlists.GetPlaylist(id)
	if err != nil {
		return err
	}

	path, err := formatter.WritePlaylistExport(view, cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlain("exported playlist %q to %s\n", view.Title, path)
}

// PlaylistsDelete removes a playlist and its memberships.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	lib, err := r.openLibrary(cmd.String("config"))
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.playlists.DeletePlaylist(operator, id); err != nil {
		return err
	}

	return r.writePlain("deleted playlist %s\n", id)
}
