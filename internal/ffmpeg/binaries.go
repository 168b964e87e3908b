package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mgpai22/snip/internal/config"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// swapped in tests
var lookPath = exec.LookPath

// Resolve finds ffmpeg and ffprobe. Paths from the environment win over
// $PATH; an explicit path that does not exist is an error rather than a
// silent fallback.
func Resolve(cfg *config.Config) (BinaryPaths, error) {
	ffmpegPath, err := resolve("ffmpeg", cfg.FFmpegPath, "SNIP_FFMPEG_PATH")
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := resolve("ffprobe", cfg.FFprobePath, "SNIP_FFPROBE_PATH")
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func resolve(name, explicit, envVar string) (string, error) {
	if explicit != "" {
		if !fileExists(explicit) {
			return "", fmt.Errorf("%s not found at %s (from %s)", name, explicit, envVar)
		}
		return explicit, nil
	}

	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: install it or set %s", name, envVar)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
