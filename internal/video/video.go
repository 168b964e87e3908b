package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/snip/internal/ffmpeg"
	"github.com/mgpai22/snip/internal/timeline"
)

// media file information
type Info struct {
	Path      string
	Filename  string  // base name without extension
	Extension string  // without the leading dot
	Duration  float64 // seconds, as reported by the container
	Width     int
	Height    int
	FrameRate float64 // 0 when unknown
	Codec     string
	HasAudio  bool
}

// defines interface for media operations
type Processor interface {
	// retrieves media file information
	GetInfo(ctx context.Context, path string) (*Info, error)

	// stream-copies one segment of input into output
	Trim(
		ctx context.Context,
		input, output string,
		seg timeline.Segment,
		openEnded bool,
	) error
}

// default implementation using ffprobe and ffmpeg
type DefaultProcessor struct {
	bins ffmpegbin.BinaryPaths
}

// Stream.Silent sets this same package-level flag, so it is set once here
// rather than from concurrent trims
func init() {
	ffmpeg.LogCompiledCommand = false
}

func NewProcessor(bins ffmpegbin.BinaryPaths) *DefaultProcessor {
	return &DefaultProcessor{bins: bins}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		FrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// retrieves media file information
func (p *DefaultProcessor) GetInfo(ctx context.Context, path string) (*Info, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", path)
	}

	cmd := exec.CommandContext(ctx, p.bins.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseInfo(path, out.Bytes())
}

func parseInfo(path string, data []byte) (*Info, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", out.Format.Duration, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("media has no duration: %s", path)
	}

	ext := filepath.Ext(path)
	info := &Info{
		Path:      path,
		Filename:  strings.TrimSuffix(filepath.Base(path), ext),
		Extension: strings.TrimPrefix(ext, "."),
		Duration:  duration,
	}

	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.Codec == "" {
				info.Codec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
				info.FrameRate = parseRate(s.FrameRate)
			}
		case "audio":
			info.HasAudio = true
		}
	}

	return info, nil
}

// stream-copies one segment of input into output
func (p *DefaultProcessor) Trim(
	ctx context.Context,
	input, output string,
	seg timeline.Segment,
	openEnded bool,
) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var stderr bytes.Buffer

	// the process is killed when ctx is cancelled
	st := trimStream(input, output, seg, openEnded)
	st.Context = ctx

	err := st.OverWriteOutput().
		SetFfmpegPath(p.bins.FFmpeg).
		WithErrorOutput(&stderr).
		Run()

	if err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg trim failed: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}

	return nil
}

func trimStream(input, output string, seg timeline.Segment, openEnded bool) *ffmpeg.Stream {
	kwargs := ffmpeg.KwArgs{
		"ss":  timeline.FormatSeconds(seg.Start),
		"c:v": "copy", // no re-encode
		"c:a": "copy",
	}
	if !openEnded {
		kwargs["to"] = timeline.FormatSeconds(seg.End)
	}

	return ffmpeg.Input(input).Output(output, kwargs)
}

// ffprobe reports rates as fractions, e.g. "30000/1001"; "0/0" means unknown
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		den = "1"
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
