package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mgpai22/snip/internal/command"
	"github.com/mgpai22/snip/internal/session"
	"github.com/mgpai22/snip/internal/timeline"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split [media_file]",
	Short: "Split a media file at the given times",
	Long: `Split a media file at one or more cut points and print the ffmpeg
commands that export each segment, or run them with --run.

Times are seconds (83.5), MM:SS, HH:MM:SS[.fff] or HH:MM:SS:FF. A cut on an
existing boundary or outside the file is ignored. --delete takes the start
time of a segment and merges it into the segment before it.

Examples:
  snip split video.mp4 --at 1:30 --at 4:05
  snip split video.mp4 --at 30 --at 60 --at 90 --delete 60
  snip split video.mp4 --at 00:10:00 --run -o clips`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().
		StringArrayP("at", "a", nil, "Cut point (repeatable)")
	splitCmd.Flags().
		StringArrayP("delete", "d", nil, "Start time of a segment to merge into its predecessor (repeatable)")
	splitCmd.Flags().
		Bool("run", false, "Run the trim commands instead of printing them")
	splitCmd.Flags().
		IntP("concurrency", "c", 2, "Number of parallel ffmpeg processes with --run")
}

func runSplit(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	cuts, _ := cmd.Flags().GetStringArray("at")
	deletes, _ := cmd.Flags().GetStringArray("delete")
	run, _ := cmd.Flags().GetBool("run")

	s, err := loadSession(ctx, cmd, mediaPath, run)
	if err != nil {
		return err
	}

	if err := applyEdits(s, cuts, deletes); err != nil {
		return err
	}

	logger.Debugw("Timeline edited",
		"segments", len(s.Segments()),
		"kept", s.Kept(),
	)

	if !run {
		cmds, err := s.Commands()
		if err != nil {
			return err
		}
		fmt.Print(command.Script(cmds))
		return nil
	}

	results, err := s.Export(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, r := range results {
		abs, _ := filepath.Abs(r.Output)
		fmt.Printf("Segment %d exported: %s\n", r.Index, abs)
	}
	return nil
}

// applies cut points in order, then deletions
func applyEdits(s *session.Session, cuts, deletes []string) error {
	for _, c := range cuts {
		t, err := s.ParseTime(c)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		if !s.SplitAt(t) {
			logger.Warnw("Ignoring cut point on a boundary or outside the media", "time", c)
		}
	}

	for _, d := range deletes {
		t, err := s.ParseTime(d)
		if err != nil {
			return fmt.Errorf("invalid --delete: %w", err)
		}
		if err := s.Delete(t); err != nil {
			if errors.Is(err, timeline.ErrInvalidDeletion) {
				return fmt.Errorf("cannot delete split at %s: %w", d, err)
			}
			return err
		}
	}
	return nil
}
