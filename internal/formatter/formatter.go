// package formatter renders store snapshots to export formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/lipl/internal/models"
)

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// LyricsToCSV converts the lyrics of a snapshot to CSV with columns:
// ID, Title, Stanzas, Created, Modified
func LyricsToCSV(db models.Db) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Stanzas", "Created", "Modified"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, lyric := range db.Lyrics {
		record := []string{
			lyric.ID,
			lyric.Title,
			strconv.Itoa(len(lyric.Parts)),
			formatStamp(lyric.Created),
			formatStamp(lyric.Modified),
		}
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

// ToMarkdown converts a snapshot to a songbook-style Markdown document:
// one section per lyric with its stanzas, then one section per playlist
// listing its members in order.
func ToMarkdown(db models.Db) []byte {
	var buf bytes.Buffer

	titles := make(map[string]string, len(db.Lyrics))
	for _, lyric := range db.Lyrics {
		titles[lyric.ID] = lyric.Title
	}

	for _, lyric := range db.Lyrics {
		buf.WriteString(fmt.Sprintf("# %s\n", lyric.Title))
		for _, stanza := range lyric.Parts {
			buf.WriteString("\n")
			for _, line := range stanza {
				buf.WriteString(fmt.Sprintf("%s  \n", line))
			}
		}
		buf.WriteString("\n")
	}

	for _, playlist := range db.Playlists {
		buf.WriteString(fmt.Sprintf("# Playlist: %s\n\n", playlist.Title))
		for i, member := range playlist.Members {
			title := titles[member]
			if title == "" {
				title = member
			}
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, title))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// LyricToText converts a single lyric to plain text: the title, a blank
// line, then the canonical stanza form.
func LyricToText(lyric models.Lyric) []byte {
	var buf bytes.Buffer
	buf.WriteString(lyric.Title)
	buf.WriteString("\n\n")
	buf.WriteString(lyric.Parts.Text())
	buf.WriteString("\n")
	return buf.Bytes()
}
