package model

import (
	"fmt"
	"strings"
)

// Cue is one timed caption entry produced by the parser.
// End >= Start is expected by consumers but not enforced.
type Cue struct {
	Start Millis `json:"start_seconds"`
	End   Millis `json:"end_seconds"`
	Text  string `json:"text"` // may contain '\n' for multi-line cues
}

// Duration returns End - Start (negative if the source file is inconsistent).
func (c Cue) Duration() Millis {
	return c.End - c.Start
}

func (c Cue) String() string {
	return fmt.Sprintf("Cue[%s --> %s, %q]", c.Start, c.End, c.Text)
}

// Pretty returns a short multi-line summary of a cue list, for CLI output.
func Pretty(cues []Cue) string {
	if len(cues) == 0 {
		return "Cues: (none)\n"
	}
	first := cues[0]
	last := cues[len(cues)-1]
	lines := 0
	for _, c := range cues {
		lines += strings.Count(c.Text, "\n") + 1
	}
	return fmt.Sprintf(
		"Cues:\n"+
			"  Count      : %d\n"+
			"  Text lines : %d\n"+
			"  First      : %s\n"+
			"  Last end   : %s\n",
		len(cues),
		lines,
		first.Start.TimestampHHMMSS(),
		last.End.TimestampHHMMSS(),
	)
}
