package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpegbin "github.com/mgpai22/snip/internal/ffmpeg"
	"github.com/mgpai22/snip/internal/session"
	"github.com/mgpai22/snip/internal/video"
	"github.com/spf13/cobra"
)

// opens mediaPath in a new session using the root flags and config
func loadSession(
	ctx context.Context,
	cmd *cobra.Command,
	mediaPath string,
	needFFmpeg bool,
) (*session.Session, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", mediaPath)
	}
	if !video.IsMediaFile(mediaPath) {
		return nil, fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	outputDir, _ := cmd.Flags().GetString("output")
	tool, _ := cmd.Flags().GetString("tool")
	duration, _ := cmd.Flags().GetFloat64("duration")
	if tool == "" {
		tool = cfg.TrimTool
	}

	// without ffmpeg a known duration still allows printing commands
	var proc video.Processor
	bins, err := ffmpegbin.Resolve(cfg)
	switch {
	case err == nil:
		proc = video.NewProcessor(bins)
	case needFFmpeg || duration <= 0:
		return nil, err
	default:
		logger.Debugw("ffmpeg unavailable, export disabled", "error", err)
	}

	var info *video.Info
	if duration > 0 {
		info = infoFromPath(mediaPath, duration)
	} else {
		info, err = proc.GetInfo(ctx, mediaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read media info: %w", err)
		}
	}

	concurrency := cfg.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency, _ = cmd.Flags().GetInt("concurrency")
	}

	s := session.New(session.Options{
		Tool:        tool,
		OutputDir:   outputDir,
		Concurrency: concurrency,
		Processor:   proc,
		Logger:      logger,
	})
	if err := s.Load(*info); err != nil {
		return nil, err
	}

	logger.Infow("Media loaded",
		"input", mediaPath,
		"duration", info.Duration,
		"frame_rate", info.FrameRate,
	)
	return s, nil
}

func infoFromPath(path string, duration float64) *video.Info {
	ext := filepath.Ext(path)
	return &video.Info{
		Path:      path,
		Filename:  strings.TrimSuffix(filepath.Base(path), ext),
		Extension: strings.TrimPrefix(ext, "."),
		Duration:  duration,
	}
}
