// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP API server",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// songsCommand handles catalog curation.
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"catalog"},
		Usage:   "Manage the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog songs, optionally filtered",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "add",
				Usage: "Add a song to the catalog",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Song title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Song artist",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Song album",
					},
					&cli.StringFlag{
						Name:  "cover",
						Usage: "Cover image URL",
					},
				},
				Action: r.SongsAdd,
			},
			{
				Name:  "edit",
				Usage: "Edit song metadata, only the provided fields change",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Song ID to edit",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "New artist",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "New album",
					},
					&cli.StringFlag{
						Name:  "cover",
						Usage: "New cover image URL",
					},
				},
				Action: r.SongsEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete songs and their playlist memberships",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Song ID to delete (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete the entire catalog",
					},
				},
				Action: r.SongsDelete,
			},
			{
				Name:  "import",
				Usage: "Import songs from a CSV file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.SongsImport,
			},
			{
				Name:  "export",
				Usage: "Export the catalog to a CSV file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: songs.csv)",
					},
				},
				Action: r.SongsExport,
			},
		},
	}
}

// playlistsCommand handles playlist inspection and maintenance.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Inspect and maintain playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist with its songs in track order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsShow,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to Markdown or plain text",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path; a .txt suffix selects plain text",
					},
				},
				Action: r.PlaylistsExport,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist and its memberships",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlaylistsDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the library.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch interactive TUI for browsing playlists and the catalog",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Browse,
	}
}
