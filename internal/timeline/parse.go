package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cbsinteractive/pkg/timecode"
)

// HH:MM:SS[.fff]:FF after padding shorter forms
var timecodeRe = regexp.MustCompile(`^\d+:\d+:\d+(\.\d+)?:\d+$`)

// ParseTime reads a timeline position in seconds. Accepted forms are plain
// seconds ("83.5"), MM:SS, HH:MM:SS[.fff] and HH:MM:SS:FF. Frame counts use
// the timecode package's default rate; see ParseTimeFPS.
func ParseTime(s string) (float64, error) {
	return ParseTimeFPS(s, 0)
}

// ParseTimeFPS is ParseTime with frame counts converted at fps frames per
// second. A zero fps falls back to the timecode package's default rate.
func ParseTimeFPS(s string, fps float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}

	var tc string
	switch strings.Count(s, ":") {
	case 0:
		sec, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
		if !finite(sec) || sec < 0 {
			return 0, fmt.Errorf("invalid time %q: must be a non-negative number", s)
		}
		return sec, nil
	case 1:
		tc = "00:" + s + ":00"
	case 2:
		tc = s + ":00"
	case 3:
		tc = s
	default:
		return 0, fmt.Errorf("invalid time %q: too many fields", s)
	}

	// timecode.Parse stops scanning at the first bad byte and ignores the rest
	if !timecodeRe.MatchString(tc) {
		return 0, fmt.Errorf("invalid time %q: want seconds, MM:SS, HH:MM:SS or HH:MM:SS:FF", s)
	}
	if !finite(fps) || fps < 0 {
		return 0, fmt.Errorf("invalid frame rate %v", fps)
	}

	// timecode.Parse wants all four fields to report success
	r, err := timecode.Parse(tc, fps)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if !finite(r[1]) || r[1] < 0 {
		return 0, fmt.Errorf("invalid time %q: must be a non-negative number", s)
	}
	return r[1], nil
}

// FormatSeconds prints t in the shortest form that parses back to t.
func FormatSeconds(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
