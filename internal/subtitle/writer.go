package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// writes the cues to an SRT file
func (w *SRTWriter) Write(cues []Cue, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(EncodeSRT(cues)), 0644)
}

// writes the cues to a VTT file
func (w *VTTWriter) Write(cues []Cue, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(EncodeVTT(cues)), 0644)
}

// EncodeSRT renders cues as SubRip text. Cues keep their label; an empty
// label is replaced by the 1-based position.
func EncodeSRT(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		sb.WriteString(labelOrPosition(cue, i))
		sb.WriteByte('\n')

		// 00:00:00,000 --> 00:00:00,000
		sb.WriteString(FormatTimecode(cue.Start))
		sb.WriteString(arrowToken)
		sb.WriteString(FormatTimecode(cue.End))
		sb.WriteByte('\n')

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func EncodeVTT(cues []Cue) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, cue := range cues {
		// optional cue identifier
		sb.WriteString(labelOrPosition(cue, i))
		sb.WriteByte('\n')

		// 00:00:00.000 --> 00:00:00.000
		sb.WriteString(formatVTTTimecode(cue.Start))
		sb.WriteString(arrowToken)
		sb.WriteString(formatVTTTimecode(cue.End))
		sb.WriteByte('\n')

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func labelOrPosition(cue Cue, i int) string {
	if label := strings.TrimSpace(cue.Label); label != "" {
		return label
	}
	return strconv.Itoa(i + 1)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
