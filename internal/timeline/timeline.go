// Package timeline keeps an ordered partition of a media duration into
// contiguous, non-overlapping segments. Cut points are added with SplitAt and
// removed with DeleteSplitBefore, which merges the two segments the cut
// separated.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/cbsinteractive/pkg/timecode"
)

var (
	// ErrInvalidDeletion is returned when a split cannot be removed.
	ErrInvalidDeletion = errors.New("invalid deletion")

	// ErrInvalidRange is returned by Init for a range that cannot cover media.
	ErrInvalidRange = errors.New("invalid range")
)

// single exported clip, in seconds
type Segment struct {
	Start float64
	End   float64
}

// length of the segment in seconds
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// reports whether t lies strictly inside the segment
func (s Segment) Contains(t float64) bool {
	return t > s.Start && t < s.End
}

func (s Segment) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", s.Start, s.End)
}

// ConfirmFunc gates destructive resets. It receives the current segment count
// and returns false to abort.
type ConfirmFunc func(segmentCount int) bool

// Engine owns the segment list and the baseline captured by Init.
// The zero value is an uninitialized engine ready for use.
type Engine struct {
	segments []Segment
	baseline *Segment
}

func New() *Engine {
	return &Engine{}
}

// Init replaces all state with the single segment [start, end] and records it
// as the baseline. Called once per loaded media item.
func (e *Engine) Init(start, end float64) error {
	if !finite(start) || !finite(end) || start < 0 || start >= end {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, start, end)
	}

	base := Segment{Start: start, End: end}
	e.segments = []Segment{base}
	e.baseline = &base
	return nil
}

// Add appends a segment without checking it against the current tail.
//
// Nothing here enforces contiguity or ordering; a caller that appends an
// overlapping or detached segment breaks the partition until the next Init
// or Reset. Use Validate before formatting output built this way.
func (e *Engine) Add(start, end float64) {
	e.segments = append(e.segments, Segment{Start: start, End: end})
}

// SplitAt cuts the first segment that strictly contains t into [start, t] and
// [t, end]. Times on an existing boundary or outside the timeline match
// nothing and leave the engine unchanged; the return value reports whether a
// split happened.
func (e *Engine) SplitAt(t float64) bool {
	idx := -1
	for i, seg := range e.segments {
		if seg.Contains(t) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	orig := e.segments[idx]
	e.segments = append(e.segments, Segment{})
	copy(e.segments[idx+2:], e.segments[idx+1:])
	e.segments[idx] = Segment{Start: orig.Start, End: t}
	e.segments[idx+1] = Segment{Start: t, End: orig.End}
	return true
}

// DeleteSplitBefore removes the boundary that starts segment index, merging
// segments index-1 and index. The first segment's start anchors the timeline
// and cannot be removed, and a single segment has no split to remove.
func (e *Engine) DeleteSplitBefore(index int) error {
	n := len(e.segments)
	switch {
	case n < 2:
		return fmt.Errorf("%w: %d segment(s), nothing to merge", ErrInvalidDeletion, n)
	case index == 0:
		return fmt.Errorf("%w: the first segment cannot be merged", ErrInvalidDeletion)
	case index < 0 || index >= n:
		return fmt.Errorf("%w: segment index %d out of range [1, %d)", ErrInvalidDeletion, index, n)
	}

	e.segments[index-1].End = e.segments[index].End
	e.segments = append(e.segments[:index], e.segments[index+1:]...)
	return nil
}

// DeleteSplitWithStart resolves start to the segment beginning there and
// removes the split before it.
func (e *Engine) DeleteSplitWithStart(start float64) error {
	for i, seg := range e.segments {
		if seg.Start == start {
			return e.DeleteSplitBefore(i)
		}
	}
	return fmt.Errorf("%w: no segment starts at %v", ErrInvalidDeletion, start)
}

// Clear drops every segment. The baseline is kept for Reset.
func (e *Engine) Clear() {
	e.segments = nil
}

// Reset restores the baseline segment, or clears when Init was never called.
// With more than two segments the confirm gate is consulted first and a false
// answer aborts without touching state. A nil gate always confirms.
func (e *Engine) Reset(confirm ConfirmFunc) bool {
	if n := len(e.segments); n > 2 && confirm != nil && !confirm(n) {
		return false
	}

	if e.baseline == nil {
		e.Clear()
		return true
	}
	e.segments = []Segment{*e.baseline}
	return true
}

// Segments returns a copy of the segments in timeline order.
func (e *Engine) Segments() []Segment {
	out := make([]Segment, len(e.segments))
	copy(out, e.segments)
	return out
}

func (e *Engine) Len() int {
	return len(e.segments)
}

func (e *Engine) Initialized() bool {
	return len(e.segments) > 0
}

// Baseline returns the segment captured by the last Init.
func (e *Engine) Baseline() (Segment, bool) {
	if e.baseline == nil {
		return Segment{}, false
	}
	return *e.baseline, true
}

// Validate checks that the segments partition [0, duration] exactly.
// An empty engine is valid.
func (e *Engine) Validate(duration float64) error {
	if len(e.segments) == 0 {
		return nil
	}

	first, last := e.segments[0], e.segments[len(e.segments)-1]
	if first.Start != 0 {
		return fmt.Errorf("timeline starts at %v, want 0", first.Start)
	}
	if last.End != duration {
		return fmt.Errorf("timeline ends at %v, want %v", last.End, duration)
	}

	for i, seg := range e.segments {
		if seg.Start >= seg.End {
			return fmt.Errorf("segment %d %s is empty or reversed", i, seg)
		}
		if i == 0 {
			continue
		}
		prev := e.segments[i-1]
		if prev.End != seg.Start {
			return fmt.Errorf("segments %d and %d are not contiguous: %v != %v", i-1, i, prev.End, seg.Start)
		}
		if prev.Start >= seg.Start {
			return fmt.Errorf("segment %d starts before segment %d", i, i-1)
		}
	}
	return nil
}

// Splice converts the segments into timecode ranges.
func (e *Engine) Splice() timecode.Splice {
	s := make(timecode.Splice, 0, len(e.segments))
	for _, seg := range e.segments {
		s = append(s, timecode.Range{seg.Start, seg.End})
	}
	return s
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
