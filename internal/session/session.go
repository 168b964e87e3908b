// Package session ties a loaded media item to a segmentation engine and a
// playback cursor, and exposes the user actions an editor front end needs.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mgpai22/snip/internal/command"
	"github.com/mgpai22/snip/internal/export"
	"github.com/mgpai22/snip/internal/logging"
	"github.com/mgpai22/snip/internal/timeline"
	"github.com/mgpai22/snip/internal/video"
)

var (
	ErrNoMedia    = errors.New("no media loaded")
	ErrNoSegments = errors.New("no segments")
)

type Options struct {
	Tool        string // trim tool printed in commands
	OutputDir   string
	Concurrency int
	Processor   video.Processor // needed only for Export
	Logger      *logging.Logger
}

type Session struct {
	engine    *timeline.Engine
	info      *video.Info
	cursor    float64
	formatter command.Formatter
	opts      Options
	log       *logging.Logger
}

func New(opts Options) *Session {
	if opts.Tool == "" {
		opts.Tool = "ffmpeg"
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		engine:    timeline.New(),
		formatter: command.Formatter{Tool: opts.Tool, OutputDir: opts.OutputDir},
		opts:      opts,
		log:       log,
	}
}

// Load makes info the current media and starts a fresh timeline covering its
// full duration.
func (s *Session) Load(info video.Info) error {
	if err := s.engine.Init(0, info.Duration); err != nil {
		return fmt.Errorf("failed to load %s: %w", info.Path, err)
	}
	s.info = &info
	s.cursor = 0

	s.log.Debugw("Media loaded",
		"path", info.Path,
		"duration", info.Duration,
	)
	return nil
}

func (s *Session) Info() (video.Info, bool) {
	if s.info == nil {
		return video.Info{}, false
	}
	return *s.info, true
}

func (s *Session) Cursor() float64 {
	return s.cursor
}

// ParseTime reads a time argument, counting HH:MM:SS:FF frames at the loaded
// media's frame rate when ffprobe reported one.
func (s *Session) ParseTime(v string) (float64, error) {
	var fps float64
	if s.info != nil {
		fps = s.info.FrameRate
	}
	return timeline.ParseTimeFPS(v, fps)
}

// Seek moves the cursor, clamped to the media and truncated to whole
// milliseconds the way the player reports its position.
func (s *Session) Seek(t float64) float64 {
	if s.info == nil || math.IsNaN(t) {
		return s.cursor
	}
	t = math.Max(0, math.Min(t, s.info.Duration))
	s.cursor = math.Trunc(t*1000) / 1000
	return s.cursor
}

// SeekStart moves the cursor to the start of segment i.
func (s *Session) SeekStart(i int) (float64, error) {
	seg, err := s.segment(i)
	if err != nil {
		return s.cursor, err
	}
	return s.Seek(seg.Start), nil
}

// SeekEnd moves the cursor to the end of segment i.
func (s *Session) SeekEnd(i int) (float64, error) {
	seg, err := s.segment(i)
	if err != nil {
		return s.cursor, err
	}
	return s.Seek(seg.End), nil
}

func (s *Session) segment(i int) (timeline.Segment, error) {
	segs := s.engine.Segments()
	if i < 0 || i >= len(segs) {
		return timeline.Segment{}, fmt.Errorf("segment %d out of range (have %d)", i, len(segs))
	}
	return segs[i], nil
}

// Split cuts the timeline at the cursor.
func (s *Session) Split() bool {
	return s.SplitAt(s.cursor)
}

func (s *Session) SplitAt(t float64) bool {
	if !s.engine.SplitAt(t) {
		s.log.Debugw("Split ignored, no segment strictly contains time", "time", t)
		return false
	}
	s.log.Debugw("Split", "time", t, "segments", s.engine.Len())
	return true
}

// Delete removes the split that starts the segment beginning at start.
func (s *Session) Delete(start float64) error {
	if err := s.engine.DeleteSplitWithStart(start); err != nil {
		s.log.Warnw("Delete rejected", "start", start, "error", err)
		return err
	}
	return nil
}

// DeleteIndex removes the split that starts segment i.
func (s *Session) DeleteIndex(i int) error {
	if err := s.engine.DeleteSplitBefore(i); err != nil {
		s.log.Warnw("Delete rejected", "index", i, "error", err)
		return err
	}
	return nil
}

func (s *Session) Reset(confirm timeline.ConfirmFunc) bool {
	return s.engine.Reset(confirm)
}

func (s *Session) Clear() {
	s.engine.Clear()
}

func (s *Session) Segments() []timeline.Segment {
	return s.engine.Segments()
}

// Kept is the total length covered by the current segments.
func (s *Session) Kept() time.Duration {
	return s.engine.Splice().Size()
}

// Commands renders the current segments as trim commands.
func (s *Session) Commands() ([]command.Command, error) {
	if s.info == nil {
		return nil, ErrNoMedia
	}
	if !s.engine.Initialized() {
		if base, ok := s.engine.Baseline(); ok {
			return nil, fmt.Errorf("%w, reset restores %s", ErrNoSegments, base)
		}
		return nil, ErrNoSegments
	}
	if err := s.engine.Validate(s.info.Duration); err != nil {
		return nil, fmt.Errorf("timeline is not a valid partition: %w", err)
	}
	return s.formatter.Format(s.engine.Segments(), *s.info), nil
}

// Export runs every trim command through the configured processor.
func (s *Session) Export(ctx context.Context) ([]export.Result, error) {
	if s.opts.Processor == nil {
		return nil, fmt.Errorf("export is not available without ffmpeg")
	}
	cmds, err := s.Commands()
	if err != nil {
		return nil, err
	}

	s.log.Infow("Exporting segments",
		"count", len(cmds),
		"kept", s.Kept(),
		"concurrency", s.opts.Concurrency,
	)
	return export.Run(ctx, s.opts.Processor, s.info.Path, cmds, s.opts.Concurrency)
}
