// package formatter converts catalog and playlist data to and from
// interchange formats (CSV, Markdown, plain text).
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"mixtape/internal/models"
	"mixtape/internal/shared"
)

// SongCSVHeader is the expected header row for catalog CSV files.
var SongCSVHeader = []string{"title", "artist", "album", "cover_url"}

// ParseSongsCSV reads a catalog CSV from r and returns the parsed rows.
//
// The first row must be a header containing at least a "title" column;
// artist, album and cover_url columns are optional. The whole file is
// parsed before any rows are returned, so a malformed record rejects
// the entire import.
func ParseSongsCSV(r io.Reader) ([]models.Song, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row: %v", shared.ErrImportFailed, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["title"]; !ok {
		return nil, fmt.Errorf("%w: header has no title column", shared.ErrImportFailed)
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var songs []models.Song
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrImportFailed, err)
		}

		songs = append(songs, models.Song{
			Title:    field(record, "title"),
			Artist:   field(record, "artist"),
			Album:    field(record, "album"),
			CoverURL: field(record, "cover_url"),
		})
	}

	return songs, nil
}

// ExportSongsCSV converts catalog songs to CSV with columns: title, artist, album, cover_url
func ExportSongsCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(SongCSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{song.Title, song.Artist, song.Album, song.CoverURL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportPlaylistToMarkdown converts a playlist view to Markdown format
func ExportPlaylistToMarkdown(view *models.PlaylistView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", view.Title))

	if cover := view.DisplayCover(); cover != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", cover))
	}

	if view.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", view.Description))
	}

	if view.Owner != "" {
		buf.WriteString(fmt.Sprintf("**Curated by**: %s\n", view.Owner))
	}
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(view.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range view.Songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, song.Artist, song.Title, albumPart))
	}

	return buf.Bytes(), nil
}

// ExportPlaylistToText converts a playlist view to plain text format
func ExportPlaylistToText(view *models.PlaylistView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", view.Title))
	if view.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", view.Description))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(view.Songs)))

	for i, song := range view.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// WriteSongsCSV exports catalog songs to a CSV file at path.
//
// Defaults to songs.csv when path is empty.
func WriteSongsCSV(songs []models.Song, path string) (string, error) {
	if path == "" {
		path = "songs.csv"
	}

	data, err := ExportSongsCSV(songs)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// WritePlaylistExport exports a playlist view to Markdown or plain text.
//
// Defaults to {view.ID}.md as the filename. A path ending in .txt
// selects the plain text format instead.
func WritePlaylistExport(view *models.PlaylistView, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.md", view.ID)
	}

	var data []byte
	var err error
	if strings.HasSuffix(path, ".txt") {
		data, err = ExportPlaylistToText(view)
	} else {
		data, err = ExportPlaylistToMarkdown(view)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
