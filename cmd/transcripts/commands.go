package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vibecode-law/vibecode-law-sub004/internal/app"
	"github.com/vibecode-law/vibecode-law-sub004/internal/assets"
	"github.com/vibecode-law/vibecode-law-sub004/internal/bootstrap"
	"github.com/vibecode-law/vibecode-law-sub004/internal/store"
	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) parseCmd() *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "parse <source>",
		Short: "Print the cues of a VTT document",
		Long: `Parses one WebVTT document and prints its cues as JSON.
Times are decimal second strings with three places, eg "2401.120".
Malformed blocks are skipped; a document without valid cues prints [].`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := c.newApp(false)
			if err != nil {
				return err
			}
			defer closeFn()

			cues, err := a.Parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if summary {
				_, err = io.WriteString(cmd.OutOrStdout(), model.Pretty(cues))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cues)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print cue count, first start and last end instead of JSON")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var lessonID, title string
	cmd := &cobra.Command{
		Use:   "import <source>...",
		Short: "Import VTT documents as lesson transcripts",
		Long: `Parses each source, saves the rendered transcript and stores its lines.

With a single source, --lesson and --title name the lesson. With several
sources each lesson is named after its file, and sources run concurrently
(config: workers).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && (lessonID != "" || title != "") {
				return errors.New("--lesson and --title need a single source")
			}

			a, closeFn, err := c.newApp(false)
			if err != nil {
				return err
			}
			defer closeFn()

			var results []app.Result
			if len(args) == 1 {
				res, err := a.Import(cmd.Context(), app.Job{Ref: args[0], LessonID: lessonID, Title: title})
				if err != nil {
					return err
				}
				results = append(results, res)
			} else {
				jobs := make([]app.Job, 0, len(args))
				for _, ref := range args {
					jobs = append(jobs, app.Job{Ref: ref})
				}
				if results, err = a.ImportAll(cmd.Context(), jobs); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, res := range results {
				fmt.Fprintf(out, "%s\t%d lines", res.Transcript.LessonID, len(res.Transcript.Lines))
				if res.SavedPath != "" {
					fmt.Fprintf(out, "\t%s", res.SavedPath)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lessonID, "lesson", "", "lesson id (default: source file name)")
	cmd.Flags().StringVar(&title, "title", "", "transcript title (default: source file name)")
	return cmd
}

func (c *cli) linesCmd() *cobra.Command {
	var lessonID string
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Print the stored transcript lines of a lesson",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			lines, err := st.Lines(cmd.Context(), lessonID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), lines)
		},
	}
	cmd.Flags().StringVar(&lessonID, "lesson", "", "lesson id")
	_ = cmd.MarkFlagRequired("lesson")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var lessonID string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the imports of a lesson, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			imports, err := st.Imports(cmd.Context(), lessonID)
			if err != nil {
				return err
			}
			if imports == nil {
				imports = []store.Import{}
			}
			return writeJSON(cmd.OutOrStdout(), imports)
		},
	}
	cmd.Flags().StringVar(&lessonID, "lesson", "", "lesson id")
	_ = cmd.MarkFlagRequired("lesson")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var lessonID, format, outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a stored transcript to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFormat(format)
			if err != nil {
				return err
			}
			a, closeFn, err := c.newApp(true)
			if err != nil {
				return err
			}
			defer closeFn()

			path, err := a.Export(cmd.Context(), lessonID, f, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&lessonID, "lesson", "", "lesson id")
	cmd.Flags().StringVar(&format, "format", "vtt", "txt | md | json | vtt")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: output_dir)")
	_ = cmd.MarkFlagRequired("lesson")
	return cmd
}

func (c *cli) initCmd() *cobra.Command {
	var force bool
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config and sample files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := bootstrap.ExportDefaults(assets.Embedded, assets.DefaultsDir, dir, force)
			paths := make([]string, 0, len(status))
			for p := range status {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p, status[p])
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite files that differ (a backup is kept)")
	cmd.Flags().StringVar(&dir, "dir", ".", "destination directory")
	return cmd
}
