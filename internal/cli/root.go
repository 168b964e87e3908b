package cli

import (
	"github.com/mgpai22/snip/internal/config"
	"github.com/mgpai22/snip/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "snip",
	Short: "Split media at cut points and export the pieces",
	Long: `Snip keeps a list of cut points on a media timeline and turns the
resulting segments into lossless ffmpeg trim commands.

Segments always cover the whole file: splitting cuts one segment in two,
deleting a split merges two neighbours back together.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		var err error
		cfg, err = config.Load()
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringP("output", "o", "", "Directory for exported segments")
	rootCmd.PersistentFlags().
		String("tool", "", "Trim tool name printed in commands (or set SNIP_TRIM_TOOL)")
	rootCmd.PersistentFlags().
		Float64("duration", 0, "Media duration in seconds; skips probing with ffprobe")
}
