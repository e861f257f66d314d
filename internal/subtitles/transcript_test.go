package subtitles

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

func TestFormatVTT_RoundTrip(t *testing.T) {
	cues := []model.Cue{
		{Start: 1000, End: 4500, Text: "Hello and welcome to this lesson."},
		{Start: 5445123, End: 8130456, Text: "two\nlines"},
		{Start: 330500, End: 360000, Text: "no hours in source"},
		{Start: 4530500, End: 4560000, Text: "  indented\n\tand tabbed"},
	}
	got := Parse(string(FormatVTT(cues)))
	if !reflect.DeepEqual(got, cues) {
		t.Fatalf("round trip = %#v; want %#v", got, cues)
	}
}

func TestFormatVTT_SkipsBlankCues(t *testing.T) {
	out := string(FormatVTT([]model.Cue{
		{Start: 0, End: 1000, Text: "  "},
		{Start: 1000, End: 2000, Text: "a\n\nb"},
	}))
	want := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\na\nb\n"
	if out != want {
		t.Fatalf("FormatVTT = %q; want %q", out, want)
	}
}

func TestFromCues_NumbersLines(t *testing.T) {
	tr := FromCues("Lesson", "lesson-1", Parse(sampleVTT))
	if len(tr.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(tr.Lines))
	}
	for i, l := range tr.Lines {
		if l.Order != i+1 {
			t.Errorf("line %d: order = %d; want %d", i, l.Order, i+1)
		}
	}
	if tr.Lines[1].Start.String() != "5.000" {
		t.Errorf("second line start = %s", tr.Lines[1].Start)
	}
}

func TestTranscriptRenderers(t *testing.T) {
	tr := FromCues("Contract law", "l1", []model.Cue{
		{Start: 1000, End: 2000, Text: "Hello\nthere."},
		{Start: 65000, End: 70000, Text: "Second."},
	})

	if got, want := tr.Plain(), "Hello there.\nSecond.\n"; got != want {
		t.Errorf("Plain = %q; want %q", got, want)
	}
	if got, want := tr.Collapsed(), "Hello there. Second.\n"; got != want {
		t.Errorf("Collapsed = %q; want %q", got, want)
	}
	md := tr.Markdown()
	if !strings.HasPrefix(md, "# Contract law\n") || !strings.Contains(md, "**[00:01:05]** Second.") {
		t.Errorf("Markdown = %q", md)
	}

	b, err := tr.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var back Transcript
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, tr) {
		t.Errorf("JSON round trip = %#v", back)
	}
	if !strings.Contains(string(b), `"start_seconds": "65.000"`) {
		t.Errorf("JSON should carry decimal strings: %s", b)
	}
}

func TestTranscriptCues(t *testing.T) {
	cues := []model.Cue{
		{Start: 1000, End: 1500, Text: "a"},
		{Start: 3000, End: 3500, Text: "b"},
	}
	if got := FromCues("", "", cues).Cues(); !reflect.DeepEqual(got, cues) {
		t.Fatalf("Cues = %#v; want %#v", got, cues)
	}
}

func TestRenderVTTKeepsCueEnds(t *testing.T) {
	tr := FromCues("", "l1", Parse(sampleVTT))
	b, err := tr.Render(model.FormatVTT)
	if err != nil {
		t.Fatal(err)
	}
	got := cueStrings(Parse(string(b)))
	want := [][3]string{
		{"1.000", "4.500", "Hello and welcome to this lesson."},
		{"5.000", "9.250", "Today we'll be covering contract law."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("vtt export = %#v; want %#v", got, want)
	}
}

func TestTranscriptSaveAs(t *testing.T) {
	dir := t.TempDir()
	tr := FromCues("Lesson: one", "l1", Parse(sampleVTT))

	name, err := tr.Filename(model.FormatTXT)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Lesson- one.txt" {
		t.Fatalf("Filename = %q", name)
	}

	path := filepath.Join(dir, name)
	if err := tr.SaveAs(path, model.FormatTXT); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != tr.Plain() {
		t.Fatalf("saved %q; want %q", b, tr.Plain())
	}

	if err := tr.SaveAs(filepath.Join(dir, "x.bin"), model.Format("bin")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		ref       string
		wantKind  SourceKind
		wantTitle string
	}{
		{"-", SourceStdin, ""},
		{"https://cdn.example.com/lessons/intro%20video.vtt?sig=abc", SourceURL, "intro%20video"},
		{"testdata/Lesson 1.vtt", SourceFile, "Lesson 1"},
	}
	for _, tt := range tests {
		src, err := NewSource(tt.ref)
		if err != nil {
			t.Fatalf("NewSource(%q): %v", tt.ref, err)
		}
		if src.Kind != tt.wantKind {
			t.Errorf("NewSource(%q).Kind = %s; want %s", tt.ref, src.Kind, tt.wantKind)
		}
		if src.Title() != tt.wantTitle {
			t.Errorf("NewSource(%q).Title() = %q; want %q", tt.ref, src.Title(), tt.wantTitle)
		}
	}
	if _, err := NewSource("  "); !errors.Is(err, ErrNoSource) {
		t.Fatalf("blank ref: err = %v; want ErrNoSource", err)
	}
}

func TestBuildTranscript(t *testing.T) {
	src := Source{Ref: "lesson.vtt", Kind: SourceFile, Data: []byte(sampleVTT)}
	tr, err := BuildTranscript(src, "", "l1")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Title != "lesson" || len(tr.Lines) != 2 {
		t.Fatalf("BuildTranscript = %#v", tr)
	}

	empty := Source{Ref: "empty.vtt", Kind: SourceFile, Data: []byte("WEBVTT\n")}
	if _, err := BuildTranscript(empty, "", "l1"); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("err = %v; want ErrEmptyTranscript", err)
	}
}
