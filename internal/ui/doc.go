// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the local library:
//  1. [PlaylistListView] : Browse playlists, newest first
//  2. [PlaylistDetailView] : Inspect a playlist's songs in track order
//  3. [CatalogView] : Browse and filter the song catalog
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Data loads through tea.Cmd functions backed by the application services, so the
// browser reads the same state the HTTP API serves.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
