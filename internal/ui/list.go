package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"mixtape/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.PlaylistView] to implement [list.Item].
type playlistItem struct {
	view models.PlaylistView
}

func (i playlistItem) FilterValue() string { return i.view.Title }
func (i playlistItem) Title() string       { return i.view.Title }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d songs", len(i.view.Songs))
	if i.view.Owner != "" {
		desc = fmt.Sprintf("%s • by %s", desc, i.view.Owner)
	}
	if i.view.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.view.Description)
	}
	return desc
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	return desc
}
