package video

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	ffmpegbin "github.com/mgpai22/snip/internal/ffmpeg"
	"github.com/mgpai22/snip/internal/timeline"
)

const ffprobeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio"},
    {"index": 2, "codec_name": "mjpeg", "codec_type": "video", "width": 320, "height": 240, "r_frame_rate": "90000/1"}
  ],
  "format": {"filename": "clip.mp4", "duration": "596.474195"}
}`

func TestParseInfo(t *testing.T) {
	info, err := parseInfo("/videos/holiday clip.mp4", []byte(ffprobeJSON))
	if err != nil {
		t.Fatalf("parseInfo returned error: %v", err)
	}

	if info.Duration != 596.474195 {
		t.Errorf("Duration = %v, want 596.474195", info.Duration)
	}
	if info.Filename != "holiday clip" {
		t.Errorf("Filename = %q, want %q", info.Filename, "holiday clip")
	}
	if info.Extension != "mp4" {
		t.Errorf("Extension = %q, want mp4", info.Extension)
	}
	if info.Codec != "h264" || info.Width != 1920 || info.Height != 1080 {
		t.Errorf("first video stream not used: %+v", info)
	}
	if info.FrameRate < 29.97 || info.FrameRate > 29.98 {
		t.Errorf("FrameRate = %v, want ~29.97", info.FrameRate)
	}
	if !info.HasAudio {
		t.Error("expected HasAudio")
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
		{"x/1", 0},
	}
	for _, tt := range tests {
		if got := parseRate(tt.in); got != tt.want {
			t.Errorf("parseRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseInfoErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "ffprobe: error"},
		{"missing duration", `{"format": {}}`},
		{"zero duration", `{"format": {"duration": "0.000000"}}`},
		{"garbage duration", `{"format": {"duration": "N/A"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseInfo("a.mp4", []byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGetInfoMissingFile(t *testing.T) {
	p := NewProcessor(ffmpegbin.BinaryPaths{FFmpeg: "ffmpeg", FFprobe: "ffprobe"})
	_, err := p.GetInfo(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func trimArgs(input, output string, seg timeline.Segment, openEnded bool) []string {
	return trimStream(input, output, seg, openEnded).OverWriteOutput().GetArgs()
}

func TestTrimArgs(t *testing.T) {
	seg := timeline.Segment{Start: 4, End: 7.25}

	closed := trimArgs("in.mp4", "out-1.mp4", seg, false)
	for _, want := range []string{"in.mp4", "out-1.mp4", "4", "7.25", "-to", "-ss", "copy", "-y"} {
		if !contains(closed, want) {
			t.Errorf("trimArgs missing %q: %v", want, closed)
		}
	}

	open := trimArgs("in.mp4", "out-2.mp4", seg, true)
	if contains(open, "-to") {
		t.Errorf("open-ended trim should not set -to: %v", open)
	}
	if !contains(open, "-ss") {
		t.Errorf("open-ended trim should still seek: %v", open)
	}
}

// writes an executable shell script standing in for ffmpeg
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return path
}

func TestTrimRunsConfiguredBinary(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	bin := fakeFFmpeg(t, `echo "$@" > "`+argsFile+`"`+"\n")

	p := NewProcessor(ffmpegbin.BinaryPaths{FFmpeg: bin})
	output := filepath.Join(dir, "clips", "talk-1.mp4")
	seg := timeline.Segment{Start: 4, End: 7.5}

	if err := p.Trim(context.Background(), "talk.mp4", output, seg, false); err != nil {
		t.Fatalf("Trim returned error: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("fake ffmpeg was not run: %v", err)
	}
	args := strings.Fields(string(data))
	for _, want := range []string{"talk.mp4", output, "-ss", "4", "-to", "7.5", "-y"} {
		if !contains(args, want) {
			t.Errorf("ffmpeg args missing %q: %v", want, args)
		}
	}
	if _, err := os.Stat(filepath.Dir(output)); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestTrimReportsStderr(t *testing.T) {
	bin := fakeFFmpeg(t, "echo 'talk.mp4: Invalid data found when processing input' >&2\nexit 1\n")
	p := NewProcessor(ffmpegbin.BinaryPaths{FFmpeg: bin})

	err := p.Trim(context.Background(), "talk.mp4", filepath.Join(t.TempDir(), "out.mp4"),
		timeline.Segment{Start: 0, End: 1}, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid data found when processing input") {
		t.Errorf("error does not carry ffmpeg stderr: %v", err)
	}
}

func TestTrimCancelled(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	bin := fakeFFmpeg(t, `touch "`+marker+`"`+"\n")
	p := NewProcessor(ffmpegbin.BinaryPaths{FFmpeg: bin})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Trim(ctx, "talk.mp4", filepath.Join(dir, "out.mp4"), timeline.Segment{Start: 0, End: 1}, true)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if _, statErr := os.Stat(marker); statErr == nil {
		t.Error("ffmpeg ran despite cancelled context")
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path  string
		video bool
		audio bool
	}{
		{"movie.MP4", true, false},
		{"show.mkv", true, false},
		{"song.mp3", false, true},
		{"voice.Opus", false, true},
		{"notes.txt", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsVideoFile(tt.path); got != tt.video {
				t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.video)
			}
			if got := IsAudioFile(tt.path); got != tt.audio {
				t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.audio)
			}
			if got := IsMediaFile(tt.path); got != (tt.video || tt.audio) {
				t.Errorf("IsMediaFile(%q) = %v", tt.path, got)
			}
		})
	}
}

func contains(args []string, s string) bool {
	for _, a := range args {
		if a == s {
			return true
		}
	}
	return false
}
