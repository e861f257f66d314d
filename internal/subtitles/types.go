package subtitles

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/vibecode-law/vibecode-law-sub004/internal/fsutil"
)

var (
	ErrNoSource        = errors.New("no vtt source given")
	ErrEmptyTranscript = errors.New("transcript import produced zero lines")
)

// SourceKind tells where a VTT document was read from.
type SourceKind string

const (
	SourceFile  SourceKind = "file"
	SourceURL   SourceKind = "url"
	SourceStdin SourceKind = "stdin"
)

// Source is a VTT document with its origin; Data is nil until loaded.
type Source struct {
	Ref  string // path, URL or "-"
	Kind SourceKind
	Data []byte
}

// Title derives a display title from the reference: file or URL base name
// without extension. Stdin has no title.
func (s Source) Title() string {
	var base string
	switch s.Kind {
	case SourceURL:
		ref := s.Ref
		if i := strings.IndexAny(ref, "?#"); i >= 0 {
			ref = ref[:i]
		}
		base = path.Base(ref)
	case SourceFile:
		base = filepath.Base(s.Ref)
	default:
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSpace(base)
}

// Filename returns the name used when saving the raw document, eg "Lesson 1.vtt".
func (s Source) Filename() string {
	base := s.Title()
	if base == "" {
		base = "transcript"
	}
	return filepath.Base(fsutil.SanitizeFilename(base) + ".vtt")
}

// String implements fmt.Stringer.
func (s Source) String() string {
	ref := s.Ref
	if len(ref) > 80 {
		ref = ref[:77] + "..."
	}
	return fmt.Sprintf("Source{Kind:%s, Ref:%q, DataLen:%d}", s.Kind, ref, len(s.Data))
}
