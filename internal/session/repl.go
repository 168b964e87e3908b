package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mgpai22/snip/internal/command"
	"github.com/mgpai22/snip/internal/timeline"
)

const helpText = `Commands:
  list                 show segments
  seek <time>          move the cursor (seconds, MM:SS or HH:MM:SS)
  start <i> | end <i>  move the cursor to a segment bound
  split [time]         split at time, or at the cursor
  delete <start|#i>    merge a segment into the one before it
  reset                back to a single full-length segment
  clear                drop every segment
  commands             print trim commands
  export               run trim commands
  info                 show media details
  quit
`

// repl state for one Run
type repl struct {
	s   *Session
	sc  *bufio.Scanner
	out io.Writer
}

// Run reads one command per line from in until quit or end of input.
// Rejected actions are reported on out and do not stop the loop.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	r := &repl{s: s, sc: bufio.NewScanner(in), out: out}

	r.printf("Loaded %s (%ss). Type help for commands.\n", s.mediaPath(), timeline.FormatSeconds(s.duration()))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printf("[%.3f] > ", s.cursor)
		if !r.sc.Scan() {
			r.printf("\n")
			return r.sc.Err()
		}

		fields := strings.Fields(r.sc.Text())
		if len(fields) == 0 {
			continue
		}
		if quit := r.dispatch(ctx, strings.ToLower(fields[0]), fields[1:]); quit {
			return nil
		}
	}
}

func (r *repl) dispatch(ctx context.Context, name string, args []string) bool {
	s := r.s
	switch name {
	case "help", "?":
		r.printf("%s", helpText)

	case "list", "ls":
		r.list()

	case "seek":
		t, ok := r.timeArg(args)
		if !ok {
			return false
		}
		r.printf("cursor %.3f\n", s.Seek(t))

	case "start", "end":
		i, ok := r.indexArg(args)
		if !ok {
			return false
		}
		seek := s.SeekStart
		if name == "end" {
			seek = s.SeekEnd
		}
		t, err := seek(i)
		if err != nil {
			r.printf("error: %v\n", err)
			return false
		}
		r.printf("cursor %.3f\n", t)

	case "split":
		at := s.cursor
		if len(args) > 0 {
			t, ok := r.timeArg(args)
			if !ok {
				return false
			}
			at = t
		}
		if s.SplitAt(at) {
			r.printf("split at %s, %d segments\n", timeline.FormatSeconds(at), s.engine.Len())
		} else {
			r.printf("nothing to split at %s\n", timeline.FormatSeconds(at))
		}

	case "delete", "del", "rm":
		r.delete(args)

	case "reset":
		if s.Reset(r.confirm) {
			r.printf("reset, %d segment(s)\n", s.engine.Len())
		} else {
			r.printf("reset cancelled\n")
		}

	case "clear":
		s.Clear()
		r.printf("cleared\n")

	case "commands", "cmd":
		cmds, err := s.Commands()
		if err != nil {
			r.printf("error: %v\n", err)
			return false
		}
		r.printf("%s", command.Script(cmds))
		r.printf("# %d segment(s), %s kept\n", len(cmds), s.Kept())

	case "export":
		results, err := s.Export(ctx)
		if err != nil {
			r.printf("error: %v\n", err)
			return false
		}
		for _, res := range results {
			r.printf("wrote %s\n", res.Output)
		}

	case "info":
		r.info()

	case "quit", "exit", "q":
		return true

	default:
		r.printf("unknown command %q (try help)\n", name)
	}
	return false
}

func (r *repl) list() {
	segs := r.s.Segments()
	if len(segs) == 0 {
		r.printf("no segments\n")
		return
	}
	for i, seg := range segs {
		r.printf("%3d  %.3f - %.3f  (%.3fs)\n", i, seg.Start, seg.End, seg.Duration())
	}
	r.printf("kept %s\n", r.s.Kept())
}

func (r *repl) delete(args []string) {
	if len(args) != 1 {
		r.printf("usage: delete <start|#index>\n")
		return
	}

	var err error
	if idx, ok := strings.CutPrefix(args[0], "#"); ok {
		i, perr := strconv.Atoi(idx)
		if perr != nil {
			r.printf("invalid index %q\n", idx)
			return
		}
		err = r.s.DeleteIndex(i)
	} else {
		start, perr := r.s.ParseTime(args[0])
		if perr != nil {
			r.printf("error: %v\n", perr)
			return
		}
		err = r.s.Delete(start)
	}

	if err != nil {
		r.printf("warning: %v\n", err)
		return
	}
	r.printf("merged, %d segment(s)\n", r.s.engine.Len())
}

func (r *repl) info() {
	info, ok := r.s.Info()
	if !ok {
		r.printf("no media loaded\n")
		return
	}
	r.printf("path:     %s\n", info.Path)
	r.printf("duration: %ss\n", timeline.FormatSeconds(info.Duration))
	if info.Codec != "" {
		r.printf("video:    %s %dx%d\n", info.Codec, info.Width, info.Height)
	}
	if info.FrameRate > 0 {
		r.printf("fps:      %.3f\n", info.FrameRate)
	}
	r.printf("kept:     %s in %d segment(s)\n", r.s.Kept(), r.s.engine.Len())
	r.printf("audio:    %t\n", info.HasAudio)
}

// reads the answer from the same input as the commands
func (r *repl) confirm(segments int) bool {
	r.printf("%d segments will be merged back into one. Reset? [y/N] ", segments)
	if !r.sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(r.sc.Text()))
	return answer == "y" || answer == "yes"
}

func (r *repl) timeArg(args []string) (float64, bool) {
	if len(args) != 1 {
		r.printf("expected one time argument\n")
		return 0, false
	}
	t, err := r.s.ParseTime(args[0])
	if err != nil {
		r.printf("error: %v\n", err)
		return 0, false
	}
	return t, true
}

func (r *repl) indexArg(args []string) (int, bool) {
	if len(args) != 1 {
		r.printf("expected one segment index\n")
		return 0, false
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		r.printf("invalid index %q\n", args[0])
		return 0, false
	}
	return i, true
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (s *Session) mediaPath() string {
	if s.info == nil {
		return "nothing"
	}
	return s.info.Path
}

func (s *Session) duration() float64 {
	if s.info == nil {
		return 0
	}
	return s.info.Duration
}
