package subtitles

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vibecode-law/vibecode-law-sub004/internal/fsutil"
	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

// Plain returns the transcript one line per transcript line.
// Multi-line cue text is kept on a single line.
func (t Transcript) Plain() string {
	if len(t.Lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range t.Lines {
		b.WriteString(normalizeWhitespace(l.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// Collapsed returns the transcript as a single paragraph.
func (t Transcript) Collapsed() string {
	if len(t.Lines) == 0 {
		return ""
	}
	parts := make([]string, 0, len(t.Lines))
	for _, l := range t.Lines {
		if s := normalizeWhitespace(l.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ") + "\n"
}

// Markdown returns a titled list with a [HH:MM:SS] marker per line.
func (t Transcript) Markdown() string {
	var b strings.Builder
	if title := strings.TrimSpace(t.Title); title != "" {
		b.WriteString("# ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	for _, l := range t.Lines {
		fmt.Fprintf(&b, "- **[%s]** %s\n", l.Start.TimestampHHMMSS(), normalizeWhitespace(l.Text))
	}
	return b.String()
}

// JSON returns the indented JSON form; times stay decimal strings.
func (t Transcript) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("transcript json: %w", err)
	}
	return append(out, '\n'), nil
}

// Render returns the transcript in the requested format.
func (t Transcript) Render(format model.Format) ([]byte, error) {
	switch format {
	case model.FormatTXT:
		return []byte(t.Plain()), nil
	case model.FormatMARKDOWN:
		return []byte(t.Markdown()), nil
	case model.FormatJSON:
		return t.JSON()
	case model.FormatVTT:
		return FormatVTT(t.Cues()), nil
	default:
		return nil, fmt.Errorf("unknown format in Render: %s", format)
	}
}

// SaveAs writes the transcript to path in the given format (overwrites).
func (t Transcript) SaveAs(path string, format model.Format) error {
	data, err := t.Render(format)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript %s: %w", path, err)
	}
	return nil
}

// Filename builds a safe file name from the title, falling back on the lesson id.
func (t Transcript) Filename(format model.Format) (string, error) {
	if !format.IsTextual() && !format.IsSubtitle() {
		return "", fmt.Errorf("unknown format in Filename: %q", format)
	}
	base := strings.TrimSpace(t.Title)
	if base == "" {
		base = strings.TrimSpace(t.LessonID)
	}
	return fsutil.SanitizeFilename(base) + format.Extension(), nil
}

// normalizeWhitespace keeps a single space between words, none at the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
