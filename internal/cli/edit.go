package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [media_file]",
	Short: "Interactively split a media file",
	Long: `Open a media file in an interactive prompt. Move the cursor with seek,
cut with split, merge with delete, and print or run the trim commands when
done. Type help at the prompt for the full command list.

Examples:
  snip edit video.mp4
  snip edit recording.mkv -o clips`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().
		IntP("concurrency", "c", 2, "Number of parallel ffmpeg processes for export")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := loadSession(ctx, cmd, args[0], false)
	if err != nil {
		return err
	}

	return s.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
