package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/snip/internal/config"
)

func fakeBinary(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}
	return path
}

func stubLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = orig })
}

func TestResolveExplicitPaths(t *testing.T) {
	stubLookPath(t, func(name string) (string, error) {
		t.Errorf("lookPath(%q) called despite explicit path", name)
		return "", errors.New("unexpected")
	})

	cfg := &config.Config{
		FFmpegPath:  fakeBinary(t, "ffmpeg"),
		FFprobePath: fakeBinary(t, "ffprobe"),
	}
	paths, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if paths.FFmpeg != cfg.FFmpegPath || paths.FFprobe != cfg.FFprobePath {
		t.Errorf("Resolve = %+v, want explicit paths", paths)
	}
}

func TestResolveFromPath(t *testing.T) {
	stubLookPath(t, func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	})

	paths, err := Resolve(&config.Config{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if paths.FFmpeg != "/usr/bin/ffmpeg" || paths.FFprobe != "/usr/bin/ffprobe" {
		t.Errorf("Resolve = %+v", paths)
	}
}

func TestResolveMissingExplicitPath(t *testing.T) {
	cfg := &config.Config{FFmpegPath: filepath.Join(t.TempDir(), "nope")}
	_, err := Resolve(cfg)
	if err == nil || !strings.Contains(err.Error(), "SNIP_FFMPEG_PATH") {
		t.Errorf("expected error naming SNIP_FFMPEG_PATH, got %v", err)
	}
}

func TestResolveNotInstalled(t *testing.T) {
	stubLookPath(t, func(name string) (string, error) {
		if name == "ffprobe" {
			return "", errors.New("executable file not found")
		}
		return "/usr/bin/" + name, nil
	})

	_, err := Resolve(&config.Config{})
	if err == nil || !strings.Contains(err.Error(), "SNIP_FFPROBE_PATH") {
		t.Errorf("expected error naming SNIP_FFPROBE_PATH, got %v", err)
	}
}
