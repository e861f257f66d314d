package subtitles

import (
	"fmt"
	"io"
	"strings"

	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

// parseState is the position of the scanner inside the current block.
type parseState int

const (
	expectBlockStart parseState = iota // between blocks, next non-blank line opens one
	inNoteBlock                        // NOTE comment, swallowed until the next blank line
	expectTiming                       // identifier consumed, the timing line must follow
	inCueText                          // timing read, collecting text lines
	inSkippedBlock                     // malformed block, swallowed until the next blank line
)

// cueParser holds the state of one Parse call. Never shared between calls.
type cueParser struct {
	state parseState
	start model.Millis
	end   model.Millis
	text  []string
	cues  []model.Cue
}

// Parse converts a WebVTT document into cues, in source order.
//
// Malformed blocks are dropped silently and never abort the rest of the
// document; a document without any valid cue yields an empty, non-nil slice.
// Parse keeps no state between calls and is safe for concurrent use.
func Parse(content string) []model.Cue {
	p := &cueParser{cues: make([]model.Cue, 0)}

	lines := splitLines(content)
	if len(lines) > 0 {
		lines[0] = strings.TrimPrefix(lines[0], "\uFEFF")
		if isHeaderLine(lines[0]) {
			// a cue may follow the signature without a blank line: keep
			// scanning that block as an ordinary one
			lines = lines[1:]
		}
	}

	for _, line := range lines {
		p.feed(line)
	}
	p.flush()
	return p.cues
}

// ParseReader reads the whole document from r then parses it.
// The only possible error is the read error.
func ParseReader(r io.Reader) ([]model.Cue, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read vtt: %w", err)
	}
	return Parse(string(b)), nil
}

func (p *cueParser) feed(line string) {
	if isBlank(line) {
		p.flush()
		return
	}

	switch p.state {
	case expectBlockStart:
		if isNoteLine(line) {
			p.state = inNoteBlock
			return
		}
		if p.timing(line) {
			return
		}
		// anything before the timing line is a cue identifier
		p.state = expectTiming

	case expectTiming:
		if !p.timing(line) {
			p.state = inSkippedBlock
		}

	case inCueText:
		p.text = append(p.text, line)

	case inNoteBlock, inSkippedBlock:
		// swallowed
	}
}

// timing moves to inCueText if line is a valid timing line.
func (p *cueParser) timing(line string) bool {
	start, end, ok := parseTimingLine(line)
	if !ok {
		return false
	}
	p.start, p.end = start, end
	p.text = p.text[:0]
	p.state = inCueText
	return true
}

// flush closes the current block, emitting a cue if it has text.
func (p *cueParser) flush() {
	if p.state == inCueText && len(p.text) > 0 {
		p.cues = append(p.cues, model.Cue{
			Start: p.start,
			End:   p.end,
			Text:  strings.Join(p.text, "\n"),
		})
	}
	p.state = expectBlockStart
	p.text = p.text[:0]
}

// splitLines treats "\r\n", "\r" and "\n" as the same line break.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
