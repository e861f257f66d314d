package subtitles

import (
	"bytes"
	"strings"

	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

// FormatVTT renders cues as a WebVTT document.
// Cues without any non-blank text are skipped; blank lines inside a cue text
// are dropped since they would end the block.
func FormatVTT(cues []model.Cue) []byte {
	var buf bytes.Buffer
	buf.WriteString("WEBVTT\n")
	for _, cue := range cues {
		lines := make([]string, 0, 2)
		for _, l := range strings.Split(cue.Text, "\n") {
			if !isBlank(l) {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}
		buf.WriteString("\n")
		buf.WriteString(cue.Start.VTT())
		buf.WriteString(" --> ")
		buf.WriteString(cue.End.VTT())
		for _, line := range lines {
			buf.WriteString("\n")
			buf.WriteString(line)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
