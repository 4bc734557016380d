package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"mixtape/internal/models"
	"mixtape/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	PlaylistDetailView
	CatalogView
)

// Model represents the TUI application state.
type Model struct {
	view      ViewState
	playlists *services.PlaylistService
	catalog   *services.CatalogService

	width  int
	height int

	playlistList list.Model
	songList     list.Model
	catalogList  list.Model
	selected     *models.PlaylistView

	err  error
	help help.Model
	keys keyMap
}

type playlistsLoadedMsg struct {
	views []models.PlaylistView
	err   error
}

type catalogLoadedMsg struct {
	songs []models.Song
	err   error
}

// NewModel creates a new TUI model backed by the application services.
func NewModel(playlists *services.PlaylistService, catalog *services.CatalogService) *Model {
	return &Model{
		view:      PlaylistListView,
		playlists: playlists,
		catalog:   catalog,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init loads the playlist overview.
func (m *Model) Init() tea.Cmd {
	return m.loadPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		m.catalogList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case PlaylistDetailView:
			return m.handleDetailKeys(msg)
		case CatalogView:
			return m.handleCatalogKeys(msg)
		}

	case playlistsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.views))
		for i, view := range msg.views {
			items[i] = playlistItem{view: view}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case catalogLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.songs))
		for i, song := range msg.songs {
			items[i] = songItem{song: song}
		}
		m.catalogList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.catalogList.Title = "Catalog"
		m.catalogList.SetSize(m.width-4, m.height-8)
		m.view = CatalogView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case PlaylistDetailView:
		return m.renderDetail()
	case CatalogView:
		return m.renderCatalog()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.loadPlaylists()
	case "tab":
		return m, m.loadCatalog()
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(playlistItem); ok {
				m.openPlaylist(item.view)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		m.selected = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "tab":
		m.view = PlaylistListView
		return m, nil
	case "r":
		return m, m.loadCatalog()
	}

	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case PlaylistDetailView:
		m.songList, cmd = m.songList.Update(msg)
	case CatalogView:
		m.catalogList, cmd = m.catalogList.Update(msg)
	}
	return m, cmd
}

func (m *Model) openPlaylist(view models.PlaylistView) {
	m.selected = &view

	items := make([]list.Item, len(view.Songs))
	for i, song := range view.Songs {
		items[i] = songItem{song: song}
	}
	m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.songList.Title = fmt.Sprintf("Songs in '%s'", view.Title)
	m.songList.SetSize(m.width-4, m.height-8)
	m.view = PlaylistDetailView
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		views, err := m.playlists.ListPlaylists()
		return playlistsLoadedMsg{views: views, err: err}
	}
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.catalog.Search("")
		return catalogLoadedMsg{songs: songs, err: err}
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.catalog, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderDetail() string {
	header := ""
	if m.selected != nil {
		title := styles.title.Render(m.selected.Title)
		meta := m.selected.Description
		if cover := m.selected.DisplayCover(); cover != "" {
			meta = fmt.Sprintf("%s\n%s", meta, styles.help.Render(cover))
		}
		header = fmt.Sprintf("%s\n%s\n\n", title, meta)
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", header, m.songList.View(), helpView)
}

func (m *Model) renderCatalog() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.catalogList.View(), helpView)
}
