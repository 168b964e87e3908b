package cli

import (
	"context"
	"fmt"

	ffmpegbin "github.com/mgpai22/snip/internal/ffmpeg"
	"github.com/mgpai22/snip/internal/timeline"
	"github.com/mgpai22/snip/internal/video"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [media_file]",
	Short: "Show duration and stream details of a media file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	bins, err := ffmpegbin.Resolve(cfg)
	if err != nil {
		return err
	}

	info, err := video.NewProcessor(bins).GetInfo(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read media info: %w", err)
	}

	fmt.Printf("File:     %s\n", info.Path)
	fmt.Printf("Duration: %ss\n", timeline.FormatSeconds(info.Duration))
	if info.Codec != "" {
		fmt.Printf("Video:    %s %dx%d\n", info.Codec, info.Width, info.Height)
	}
	if info.FrameRate > 0 {
		fmt.Printf("FPS:      %.3f\n", info.FrameRate)
	}
	fmt.Printf("Audio:    %t\n", info.HasAudio)
	return nil
}
