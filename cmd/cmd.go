// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/lyrix/internal/formatter"
	"github.com/desertthunder/lyrix/internal/services"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "skip",
			Usage: "Number of entries to skip",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of entries to return",
			Value: services.DefaultPageSize,
		},
	}
}

// setupCommand handles local setup for configuration and the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the session database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles backend account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Account and session commands",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and save the session cookie",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Sources:  cli.EnvVars("LYRIX_PASSWORD"),
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Sources:  cli.EnvVars("LYRIX_PASSWORD"),
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the saved session",
				Action: r.AuthLogout,
			},
			{
				Name:   "refresh",
				Usage:  "Refresh the session token",
				Action: r.AuthRefresh,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Flags:  jsonFlags(),
				Action: r.AuthWhoami,
			},
		},
	}
}

// songsCommand handles song search and lyric explanation
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Search songs and explain their lyrics",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search songs by title or artist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: append(jsonFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: services.DefaultSearchLimit,
					},
				),
				Action: r.SongsSearch,
			},
			{
				Name:  "explain",
				Usage: "Explain one or more songs",
				Flags: append(jsonFlags(),
					&cli.StringSliceFlag{
						Name:     "song",
						Aliases:  []string{"s"},
						Usage:    `Song as "Artist - Title" (repeatable)`,
						Required: true,
					},
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "Language code for the interpretation",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save each explanation to history",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write explanations as markdown to this file",
					},
				),
				Action: r.SongsExplain,
			},
		},
	}
}

// historyCommand handles explanation history operations
func historyCommand(r *Runner) *cli.Command {
	idArg := []cli.Argument{&cli.StringArg{Name: "id"}}
	return &cli.Command{
		Name:  "history",
		Usage: "Explanation history commands",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List history entries, newest first",
				Flags:  append(jsonFlags(), pageFlags()...),
				Action: r.HistoryList,
			},
			{
				Name:      "get",
				Usage:     "Show one history entry",
				Arguments: idArg,
				Flags: append(jsonFlags(),
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Output the entry as markdown",
					},
				),
				Action: r.HistoryGet,
			},
			{
				Name:  "create",
				Usage: "Record a history entry",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Song title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artist",
						Aliases:  []string{"a"},
						Usage:    "Song artist",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "interpretation",
						Usage: "Lyric interpretation text",
					},
					&cli.StringFlag{
						Name:  "emotion",
						Usage: "Detected emotion",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Language code",
					},
				),
				Action: r.HistoryCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a history entry",
				Arguments: idArg,
				Action:    r.HistoryDelete,
			},
			{
				Name:  "search",
				Usage: "Search history by song title or artist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags:  jsonFlags(),
				Action: r.HistorySearch,
			},
		},
	}
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	idArg := []cli.Argument{&cli.StringArg{Name: "id"}}
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist commands",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  append(jsonFlags(), pageFlags()...),
				Action: r.PlaylistList,
			},
			{
				Name:      "get",
				Usage:     "Show a playlist and its songs",
				Arguments: idArg,
				Flags:     jsonFlags(),
				Action:    r.PlaylistGet,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   `Playlist title (default: "My Playlist #N")`,
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				),
				Action: r.PlaylistCreate,
			},
			{
				Name:      "update",
				Usage:     "Rename a playlist or change its description",
				Arguments: idArg,
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "New title",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "New description",
					},
				),
				Action: r.PlaylistUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				Arguments: idArg,
				Action:    r.PlaylistDelete,
			},
			{
				Name:      "add-song",
				Usage:     "Add a song to a playlist",
				Arguments: idArg,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Song title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artist",
						Aliases:  []string{"a"},
						Usage:    "Song artist",
						Required: true,
					},
				},
				Action: r.PlaylistAddSong,
			},
			{
				Name:  "remove-song",
				Usage: "Remove a saved song from a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "song-id"},
				},
				Action: r.PlaylistRemoveSong,
			},
			{
				Name:      "export",
				Usage:     "Export playlists to files (every playlist when no ids are given)",
				ArgsUsage: "[id...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown or text",
						Value:   string(formatter.JSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: lyrix_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent render workers (max 8)",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Backend requests per second",
						Value: 5,
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// serveCommand starts the web front-end
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web front-end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the front-end in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive terminal UI",
		Action: r.TUI,
	}
}
