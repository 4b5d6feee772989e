// Package ffmpeg locates the ffmpeg and ffprobe executables.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	EnvFFmpegPath  = "CUECHECK_FFMPEG_PATH"
	EnvFFprobePath = "CUECHECK_FFPROBE_PATH"
)

var ErrNotFound = errors.New("ffmpeg: executable not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	pathsOnce sync.Once
	pathsErr  error
	paths     BinaryPaths
)

// Paths resolves both executables once per process. An env override wins
// over PATH lookup.
func Paths() (BinaryPaths, error) {
	pathsOnce.Do(func() {
		paths, pathsErr = resolve(os.Getenv, exec.LookPath)
	})
	return paths, pathsErr
}

func FFmpegPath() (string, error) {
	p, err := Paths()
	if err != nil {
		return "", err
	}
	return p.FFmpeg, nil
}

func FFprobePath() (string, error) {
	p, err := Paths()
	if err != nil {
		return "", err
	}
	return p.FFprobe, nil
}

func resolve(getenv func(string) string, lookPath func(string) (string, error)) (BinaryPaths, error) {
	ffmpegPath, err := locate("ffmpeg", getenv(EnvFFmpegPath), lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := locate("ffprobe", getenv(EnvFFprobePath), lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func locate(name, override string, lookPath func(string) (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s (install it or set %s)", ErrNotFound, name, envFor(name))
	}
	return found, nil
}

func envFor(name string) string {
	if name == "ffprobe" {
		return EnvFFprobePath
	}
	return EnvFFmpegPath
}
