package subtitles

import (
	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

// Line is one transcript line as shown next to the video player:
// a cue plus its position.
type Line struct {
	Order int          `json:"order"` // 1-based, follows cue order
	Start model.Millis `json:"start_seconds"`
	End   model.Millis `json:"end_seconds"`
	Text  string       `json:"text"`
}

// Transcript is the result of importing a VTT document for a lesson.
type Transcript struct {
	Title    string `json:"title"`
	LessonID string `json:"lesson_id"`
	Lines    []Line `json:"lines"`
}

// NewTranscript builds a Transcript from lines that are already numbered.
// Pure, no I/O.
func NewTranscript(title, lessonID string, lines []Line) Transcript {
	return Transcript{
		Title:    title,
		LessonID: lessonID,
		Lines:    lines,
	}
}

// FromCues numbers cues 1..N in their parsed order.
func FromCues(title, lessonID string, cues []model.Cue) Transcript {
	lines := make([]Line, 0, len(cues))
	for i, c := range cues {
		lines = append(lines, Line{
			Order: i + 1,
			Start: c.Start,
			End:   c.End,
			Text:  c.Text,
		})
	}
	return NewTranscript(title, lessonID, lines)
}

// Cues returns the transcript lines as cues, with their own start and end.
func (t Transcript) Cues() []model.Cue {
	out := make([]model.Cue, 0, len(t.Lines))
	for _, l := range t.Lines {
		out = append(out, model.Cue{Start: l.Start, End: l.End, Text: l.Text})
	}
	return out
}
