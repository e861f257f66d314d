package subtitles

import (
	"strings"
	"unicode"

	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

const timingArrow = "-->"

// parseTimingLine reads "<ts> --> <ts>" with whitespace around the arrow.
// Cue settings after the end timestamp ("align:start line:0%") are ignored.
// ok == false means the line is not a timing line.
func parseTimingLine(line string) (start, end model.Millis, ok bool) {
	fields := strings.FieldsFunc(line, unicode.IsSpace)
	if len(fields) < 3 || fields[1] != timingArrow {
		return 0, 0, false
	}
	start, ok = parseTimestamp(fields[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseTimestamp(fields[2])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// parseTimestamp accepts "HH:MM:SS.mmm" and "MM:SS.mmm".
// Hours have one or more digits, minutes and seconds exactly two, milliseconds
// exactly three. Values are not range checked: "75:30.500" is 4530.5s.
func parseTimestamp(s string) (model.Millis, bool) {
	clock, frac, found := strings.Cut(s, ".")
	if !found || len(frac) != 3 {
		return 0, false
	}
	ms, ok := atoi(frac)
	if !ok {
		return 0, false
	}

	parts := strings.Split(clock, ":")
	var h, m, sec int64
	switch len(parts) {
	case 3:
		if parts[0] == "" {
			return 0, false
		}
		if h, ok = atoi(parts[0]); !ok {
			return 0, false
		}
		parts = parts[1:]
	case 2:
	default:
		return 0, false
	}

	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, false
	}
	if m, ok = atoi(parts[0]); !ok {
		return 0, false
	}
	if sec, ok = atoi(parts[1]); !ok {
		return 0, false
	}
	return model.FromHMS(h, m, sec, ms), true
}

// atoi parses an unsigned run of ASCII digits; no signs, no spaces.
func atoi(s string) (int64, bool) {
	if s == "" || len(s) > 12 {
		return 0, false
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, true
}

// isNoteLine reports whether a block's first line opens a NOTE comment block.
func isNoteLine(line string) bool {
	if !strings.HasPrefix(line, "NOTE") {
		return false
	}
	rest := line[len("NOTE"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// isHeaderLine reports whether line is the WEBVTT file signature.
func isHeaderLine(line string) bool {
	if !strings.HasPrefix(line, "WEBVTT") {
		return false
	}
	rest := line[len("WEBVTT"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
