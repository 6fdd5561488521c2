// package formatter renders features and tracks for CLI output (plain text, CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/trackrater/internal/models"
	"github.com/desertthunder/trackrater/internal/shared"
)

// Format names an output encoding accepted by the CLI.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// ParseFormat resolves a --format value. The empty string means [Text].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", Text:
		return Text, nil
	case "md":
		return Markdown, nil
	case CSV, Markdown, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, csv, markdown or json)", shared.ErrInvalidArgument, s)
	}
}

// FeaturesToText renders one numbered line per feature, in server order.
func FeaturesToText(features []models.Feature) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Features: %d\n\n", len(features)))
	for i, f := range features {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.Name))
	}

	return buf.Bytes()
}

// FeaturesToCSV converts features to CSV with a single Name column.
func FeaturesToCSV(features []models.Feature) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Name"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range features {
		if err := writer.Write([]string{f.Name}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// FeaturesToMarkdown renders features as a bullet list under a heading.
func FeaturesToMarkdown(features []models.Feature) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Features\n\n")
	if len(features) == 0 {
		buf.WriteString("_none_\n")
		return buf.Bytes()
	}
	for _, f := range features {
		buf.WriteString(fmt.Sprintf("- %s\n", f.Name))
	}

	return buf.Bytes()
}

// TrackToText renders the display text followed by the id and playback URI.
func TrackToText(track models.Track, scheme string) []byte {
	var buf bytes.Buffer

	buf.WriteString(track.DisplayText())
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("ID: %s\n", track.ID))
	buf.WriteString(fmt.Sprintf("URI: %s\n", track.URI(scheme)))

	return buf.Bytes()
}

// TrackToCSV converts a track to CSV with columns: ID, Name, Artists, URI.
//
// Artists are joined with "; " so the column stays a single field.
func TrackToCSV(track models.Track, scheme string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{
		{"ID", "Name", "Artists", "URI"},
		{track.ID, track.Name, strings.Join(track.ArtistNames(), "; "), track.URI(scheme)},
	}
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	return buf.Bytes(), nil
}

// TrackToMarkdown renders a track as a heading with its artists and URI.
func TrackToMarkdown(track models.Track, scheme string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", track.Name))
	if names := track.ArtistNames(); len(names) > 0 {
		buf.WriteString(fmt.Sprintf("**Artists**: %s\n", strings.Join(names, ", ")))
	}
	buf.WriteString(fmt.Sprintf("**ID**: `%s`\n", track.ID))
	buf.WriteString(fmt.Sprintf("**URI**: `%s`\n", track.URI(scheme)))

	return buf.Bytes()
}

// ToJSON marshals v, indenting when pretty is set. The output ends with a newline.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var data []byte
	var err error

	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(data, '\n'), nil
}

// Features renders features in the given format.
func Features(features []models.Feature, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return FeaturesToCSV(features)
	case Markdown:
		return FeaturesToMarkdown(features), nil
	case JSON:
		names := make([]string, len(features))
		for i, f := range features {
			names[i] = f.Name
		}
		return ToJSON(names, true)
	default:
		return FeaturesToText(features), nil
	}
}

// Track renders a track in the given format.
func Track(track models.Track, scheme string, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return TrackToCSV(track, scheme)
	case Markdown:
		return TrackToMarkdown(track, scheme), nil
	case JSON:
		return ToJSON(track, true)
	default:
		return TrackToText(track, scheme), nil
	}
}

// WriteExport writes data to path, creating parent directories as needed.
func WriteExport(data []byte, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
