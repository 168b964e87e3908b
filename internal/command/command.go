// Package command renders a segment list as one stream-copy trim command per
// segment. It is stateless and trusts its input: callers hand it a list that
// already partitions the media duration.
package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/snip/internal/timeline"
	"github.com/mgpai22/snip/internal/video"
)

// single trim invocation for one segment
type Command struct {
	Index   int
	Segment timeline.Segment

	// no -to; the segment runs to the end of the media
	OpenEnded bool

	Output string
	Args   []string
}

func (c Command) String() string {
	quoted := make([]string, len(c.Args))
	for i, a := range c.Args {
		quoted[i] = quote(a)
	}
	return strings.Join(quoted, " ")
}

type Formatter struct {
	Tool      string // e.g. "ffmpeg"
	OutputDir string // joined onto each output name when set
}

func (f Formatter) Format(segments []timeline.Segment, info video.Info) []Command {
	cmds := make([]Command, 0, len(segments))
	for i, seg := range segments {
		output := OutputName(info, i)
		if f.OutputDir != "" {
			output = filepath.Join(f.OutputDir, output)
		}

		open := seg.End == info.Duration
		args := []string{f.Tool, "-i", info.Path, "-ss", timeline.FormatSeconds(seg.Start)}
		if !open {
			args = append(args, "-to", timeline.FormatSeconds(seg.End))
		}
		args = append(args, "-c:v", "copy", "-c:a", "copy", output)

		cmds = append(cmds, Command{
			Index:     i,
			Segment:   seg,
			OpenEnded: open,
			Output:    output,
			Args:      args,
		})
	}
	return cmds
}

// OutputName is <basename>-<index>.<ext>.
func OutputName(info video.Info, index int) string {
	if info.Extension == "" {
		return fmt.Sprintf("%s-%d", info.Filename, index)
	}
	return fmt.Sprintf("%s-%d.%s", info.Filename, index, info.Extension)
}

// Script joins commands one per line.
func Script(cmds []Command) string {
	var sb strings.Builder
	for _, c := range cmds {
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

const shellSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./:=+,@%"

// single-quotes args the shell would otherwise split or expand
func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.Trim(s, shellSafe) == "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
