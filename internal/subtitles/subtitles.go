package subtitles

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vibecode-law/vibecode-law-sub004/internal/fetch"
)

// NewSource classifies ref without touching the disk or the network.
// "-" is stdin, http(s):// is a URL, anything else a file path.
func NewSource(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return Source{}, ErrNoSource
	case ref == "-":
		return Source{Ref: ref, Kind: SourceStdin}, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return Source{Ref: ref, Kind: SourceURL}, nil
	default:
		return Source{Ref: ref, Kind: SourceFile}, nil
	}
}

// LoadSource reads the document behind ref; the name says it does I/O.
//
// - stdin is read from the stdin argument (os.Stdin when nil).
// - timeout and maxBytes only apply to URLs (see fetch.FetchBytesWithTimeout).
func LoadSource(ctx context.Context, ref string, stdin io.Reader, timeout time.Duration, maxBytes int64) (Source, error) {
	src, err := NewSource(ref)
	if err != nil {
		return Source{}, err
	}

	switch src.Kind {
	case SourceStdin:
		if stdin == nil {
			stdin = os.Stdin
		}
		src.Data, err = io.ReadAll(stdin)
		if err != nil {
			return Source{}, fmt.Errorf("read stdin: %w", err)
		}
	case SourceURL:
		src.Data, err = fetch.FetchBytesWithTimeout(ctx, src.Ref, timeout, maxBytes)
		if err != nil {
			return Source{}, fmt.Errorf("download vtt: %w", err)
		}
	default:
		src.Data, err = os.ReadFile(src.Ref)
		if err != nil {
			return Source{}, fmt.Errorf("read vtt %s: %w", src.Ref, err)
		}
	}
	return src, nil
}

// BuildTranscript parses src and numbers its cues for lessonID.
// A source without any valid cue returns ErrEmptyTranscript along with the
// empty transcript, the caller decides if that is fatal.
func BuildTranscript(src Source, title, lessonID string) (Transcript, error) {
	if title == "" {
		title = src.Title()
	}
	cues := Parse(string(src.Data))
	tr := FromCues(title, lessonID, cues)
	if len(tr.Lines) == 0 {
		return tr, fmt.Errorf("%s: %w", src.Ref, ErrEmptyTranscript)
	}
	return tr, nil
}
