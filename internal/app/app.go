package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vibecode-law/vibecode-law-sub004/internal/config"
	"github.com/vibecode-law/vibecode-law-sub004/internal/fsutil"
	"github.com/vibecode-law/vibecode-law-sub004/internal/store"
	"github.com/vibecode-law/vibecode-law-sub004/internal/subtitles"
	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

var ErrNoLessonID = errors.New("no lesson id: pass one or use a named file or URL")

// TranscriptStore is the persistence used by imports and exports.
type TranscriptStore interface {
	ReplaceLesson(ctx context.Context, tr subtitles.Transcript, source string) (store.Import, error)
	Transcript(ctx context.Context, lessonID string) (subtitles.Transcript, error)
}

// Clipboard receives the plain transcript after a single import.
type Clipboard interface {
	WriteAll(text string) error
	Equals(text string) bool
}

// Job is one source to import.
type Job struct {
	Ref      string // file path, URL or "-"
	LessonID string // defaults to the source title
	Title    string // defaults to the source title
}

// Result describes what an import did.
type Result struct {
	Job        Job
	Transcript subtitles.Transcript
	Import     *store.Import // nil when the store is disabled
	SavedPath  string        // "" when the transcript was not written
	RawPath    string        // "" when the source was not kept
}

// App wires config, logging, storage and clipboard around the parser.
// Store and clipboard are optional (nil disables them).
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  TranscriptStore
	clip   Clipboard
	stdin  io.Reader
}

// New builds the application. Tests inject their own store and clipboard.
func New(cfg *config.Config, logger *zap.Logger, st TranscriptStore, clip Clipboard) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  st,
		clip:   clip,
		stdin:  os.Stdin,
	}
}

// SetStdin replaces the reader used for the "-" source.
func (a *App) SetStdin(r io.Reader) {
	a.stdin = r
}

// Parse loads ref and returns its cues. Zero cues is not an error here.
func (a *App) Parse(ctx context.Context, ref string) ([]model.Cue, error) {
	src, err := a.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	cues := subtitles.Parse(string(src.Data))
	a.logger.Debug("parsed vtt",
		zap.String("source", src.Ref),
		zap.Int("bytes", len(src.Data)),
		zap.Int("cues", len(cues)))
	return cues, nil
}

// Import runs a single job, then copies the transcript to the clipboard if enabled.
func (a *App) Import(ctx context.Context, job Job) (Result, error) {
	res, err := a.importOne(ctx, job)
	if err != nil {
		return res, err
	}
	if a.cfg.CopyToClipboard && a.clip != nil {
		a.copyToClipboard(res.Transcript)
	}
	return res, nil
}

// ImportAll runs jobs concurrently, at most cfg.Workers at a time.
// Results keep the job order; the first error cancels the remaining jobs.
func (a *App) ImportAll(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := a.importOne(gctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	a.logger.Info("batch import done", zap.Int("sources", len(jobs)))
	return results, nil
}

// Export renders the stored transcript of lessonID into outDir.
func (a *App) Export(ctx context.Context, lessonID string, format model.Format, outDir string) (string, error) {
	if a.store == nil {
		return "", fmt.Errorf("export: database disabled")
	}
	tr, err := a.store.Transcript(ctx, lessonID)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", lessonID, err)
	}
	if outDir == "" {
		outDir = a.cfg.OutputDir
	}
	path, err := SaveTranscript(tr, format, outDir, a.cfg.Overwrite)
	if err != nil {
		return "", err
	}
	a.logger.Info("transcript exported",
		zap.String("lesson", lessonID),
		zap.String("format", format.String()),
		zap.String("path", path))
	return path, nil
}

func (a *App) importOne(ctx context.Context, job Job) (Result, error) {
	res := Result{Job: job}

	src, err := a.load(ctx, job.Ref)
	if err != nil {
		return res, err
	}

	lessonID := strings.TrimSpace(job.LessonID)
	if lessonID == "" {
		lessonID = src.Title()
	}
	if lessonID == "" {
		return res, fmt.Errorf("%s: %w", job.Ref, ErrNoLessonID)
	}

	tr, err := subtitles.BuildTranscript(src, job.Title, lessonID)
	if err != nil {
		return res, err
	}
	res.Transcript = tr

	outDir := a.cfg.OutputDir
	if a.cfg.SaveInSubdir {
		outDir = filepath.Join(outDir, fsutil.SanitizeFilename(lessonID))
	}

	if a.cfg.SaveRawVTT {
		if res.RawPath, err = SaveSource(src, outDir, a.cfg.Overwrite); err != nil {
			return res, err
		}
	}

	if a.cfg.SaveTranscript {
		format, err := model.ParseFormat(a.cfg.TranscriptFormat)
		if err != nil {
			return res, err
		}
		if res.SavedPath, err = SaveTranscript(tr, format, outDir, a.cfg.Overwrite); err != nil {
			return res, fmt.Errorf("save transcript: %w", err)
		}
	}

	if a.cfg.Database.Enabled && a.store != nil {
		imp, err := a.store.ReplaceLesson(ctx, tr, src.Ref)
		if err != nil {
			return res, fmt.Errorf("store transcript: %w", err)
		}
		res.Import = &imp
	}

	a.logger.Info("transcript imported",
		zap.String("source", src.Ref),
		zap.String("lesson", lessonID),
		zap.Int("lines", len(tr.Lines)),
		zap.String("saved", res.SavedPath))
	return res, nil
}

func (a *App) load(ctx context.Context, ref string) (subtitles.Source, error) {
	src, err := subtitles.LoadSource(ctx, ref, a.stdin, a.cfg.FetchTimeout(), a.cfg.Fetch.MaxBytes)
	if err != nil {
		return src, err
	}
	a.logger.Debug("source loaded", zap.Stringer("source", src))
	return src, nil
}

func (a *App) copyToClipboard(tr subtitles.Transcript) {
	text := tr.Plain()
	if err := a.clip.WriteAll(text); err != nil {
		// the transcript is already saved, the clipboard is a convenience
		a.logger.Warn("copy to clipboard failed", zap.Error(err))
		return
	}
	if !a.clip.Equals(text) {
		a.logger.Warn("clipboard content differs after copy")
		return
	}
	a.logger.Info("transcript copied to clipboard", zap.Int("bytes", len(text)))
}
