package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Millis is an exact media offset in milliseconds.
// Rendered as decimal seconds with three fractional digits, never through a float.
type Millis int64

const (
	MillisPerSecond = 1000
	MillisPerMinute = 60 * MillisPerSecond
	MillisPerHour   = 60 * MillisPerMinute
)

// FromHMS builds a Millis from its clock components.
func FromHMS(h, m, s, ms int64) Millis {
	return Millis(h*MillisPerHour + m*MillisPerMinute + s*MillisPerSecond + ms)
}

// String renders the value as seconds with exactly 3 decimals.
// Example: 5445123 -> "5445.123".
func (m Millis) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%03d", sign, v/MillisPerSecond, v%MillisPerSecond)
}

// Seconds returns the whole seconds part, truncated.
func (m Millis) Seconds() int64 {
	return int64(m) / MillisPerSecond
}

// TimestampHHMMSS formats as "HH:MM:SS" (always 2 digits per component).
// Example: 65000 -> "00:01:05", 3661000 -> "01:01:01".
func (m Millis) TimestampHHMMSS() string {
	total := m.Seconds()
	if total < 0 {
		total = 0
	}
	h := total / 3600
	min := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, min, sec)
}

// VTT formats as a WebVTT timestamp "HH:MM:SS.mmm".
func (m Millis) VTT() string {
	v := int64(m)
	if v < 0 {
		v = 0
	}
	h := v / MillisPerHour
	v %= MillisPerHour
	min := v / MillisPerMinute
	v %= MillisPerMinute
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, min, v/MillisPerSecond, v%MillisPerSecond)
}

// MarshalJSON emits the decimal string form, so consumers get "2401.120"
// and not a binary float.
func (m Millis) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts the quoted decimal form, and a bare JSON number as a fallback.
func (m *Millis) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := ParseSeconds(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseSeconds parses a decimal seconds string ("5445.123", "12", "-0.5") exactly.
// Digits past the third decimal are rounded half-up.
func ParseSeconds(s string) (Millis, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse seconds: empty value")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("parse seconds: no digits")
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, fmt.Errorf("parse seconds: invalid decimal %q", s)
	}

	var w int64
	if whole != "" {
		var err error
		w, err = strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse seconds: %w", err)
		}
	}

	// pad or cut the fraction to milliseconds
	roundUp := false
	if len(frac) > 3 {
		roundUp = frac[3] >= '5'
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	ms, _ := strconv.ParseInt(frac, 10, 64)

	total := w*MillisPerSecond + ms
	if roundUp {
		total++
	}
	if neg {
		total = -total
	}
	return Millis(total), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Format names an output format for a transcript.
type Format string

const (
	FormatTXT      Format = "txt"
	FormatMARKDOWN Format = "md"
	FormatJSON     Format = "json"
	FormatVTT      Format = "vtt"
)

// ParseFormat maps a user-supplied name to a Format, error if unknown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt":
		return FormatTXT, nil
	case "md", "markdown":
		return FormatMARKDOWN, nil
	case "json":
		return FormatJSON, nil
	case "vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

func (f Format) IsSubtitle() bool {
	return f == FormatVTT
}

func (f Format) IsTextual() bool {
	return f == FormatTXT || f == FormatMARKDOWN || f == FormatJSON
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) String() string {
	return string(f)
}
