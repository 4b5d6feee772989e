package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// parsed subtitle file together with the format it was read from
type Document struct {
	Path   string
	Format Format
	Cues   []Cue
}

// Open reads a .srt or .vtt file and parses it leniently. Only I/O
// problems and unknown extensions are errors; a file without usable cues
// returns a Document with no cues.
func Open(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	return &Document{
		Path:   path,
		Format: format,
		Cues:   Parse(format, string(data)),
	}, nil
}

// Parse dispatches raw content to the parser for format.
func Parse(format Format, raw string) []Cue {
	raw = strings.TrimPrefix(raw, "\ufeff")
	if format == FormatVTT {
		return ParseWebVTT(raw)
	}
	return ParseTimedText(raw)
}

// Write stores the document cues at path in the document format.
func (d *Document) Write(path string) error {
	writer, err := NewWriter(d.Format)
	if err != nil {
		return err
	}
	return writer.Write(d.Cues, path)
}

// subtitle format based on file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}
