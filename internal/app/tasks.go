package app

import (
	"fmt"
	"strings"

	"github.com/vibecode-law/vibecode-law-sub004/internal/fsutil"
	"github.com/vibecode-law/vibecode-law-sub004/internal/subtitles"
	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

// SaveSource writes the raw VTT document into outDir, named after the source.
func SaveSource(src subtitles.Source, outDir string, overwrite bool) (string, error) {
	if len(src.Data) == 0 {
		return "", fmt.Errorf("SaveSource: no data in %s", src.Ref)
	}
	name := strings.TrimSuffix(src.Filename(), ".vtt")
	path, err := fsutil.SaveFileAtomic(outDir, name, ".vtt", src.Data, overwrite)
	if err != nil {
		return "", fmt.Errorf("write raw vtt: %w", err)
	}
	return path, nil
}

// SaveTranscript renders tr in format and writes it into outDir.
func SaveTranscript(tr subtitles.Transcript, format model.Format, outDir string, overwrite bool) (string, error) {
	name, err := tr.Filename(format)
	if err != nil {
		return "", err
	}

	data, err := tr.Render(format)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", format, err)
	}

	ext := format.Extension()
	path, err := fsutil.SaveFileAtomic(outDir, strings.TrimSuffix(name, ext), ext, data, overwrite)
	if err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
