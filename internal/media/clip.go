package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/cuecheck/internal/ffmpeg"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

// ClipOptions controls how a segment is cut.
type ClipOptions struct {
	// AudioOnly drops the video stream and re-encodes audio to the
	// output's container.
	AudioOnly bool
	// Copy stream-copies instead of re-encoding. Cuts then snap to the
	// nearest keyframe.
	Copy bool
}

// Clip writes the [start, end] segment of in to out.
func Clip(ctx context.Context, in, out string, start, end float64, opts ClipOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(in); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", in)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	stream, err := clipStream(in, out, start, end, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := stream.SetFfmpegPath(ffmpegPath).Run(); err != nil {
		return fmt.Errorf("clip failed: %w", err)
	}
	return nil
}

func clipStream(in, out string, start, end float64, opts ClipOptions) (*ffmpeg.Stream, error) {
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: %.3f-%.3f", ErrInvalidRange, start, end)
	}

	kwargs := ffmpeg.KwArgs{
		"ss": fmt.Sprintf("%.3f", start),
		"t":  fmt.Sprintf("%.3f", end-start),
	}
	if opts.AudioOnly {
		kwargs["vn"] = ""
	}
	if opts.Copy {
		kwargs["c"] = "copy"
	}

	return ffmpeg.Input(in).
		Output(out, kwargs).
		OverWriteOutput(), nil
}

// ClipName derives an output path for a clip of in, e.g.
// "talk.mp4" at 62.5s becomes "talk_00-01-02.500.mp4".
func ClipName(in string, start float64, ext string) string {
	if ext == "" {
		ext = filepath.Ext(in)
	}
	base := strings.TrimSuffix(in, filepath.Ext(in))
	stamp := strings.NewReplacer(":", "-", ",", ".").Replace(subtitle.FormatTimecode(start))
	return base + "_" + stamp + ext
}
