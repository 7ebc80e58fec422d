package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/duocode/internal/catalog"
	"github.com/p-n-ai/duocode/internal/platform/config"
	"github.com/p-n-ai/duocode/internal/platform/database"
	"github.com/p-n-ai/duocode/internal/report"
	"github.com/p-n-ai/duocode/internal/xp"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and fail on any invariant violation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.openCatalog(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d lessons in %d languages (digest %s)\n",
				len(c.All()), len(c.Languages()), c.Digest())
			return nil
		},
	}
}

func newLessonsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List lessons with their position, tier and base XP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.openCatalog(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}

			langs := c.Languages()
			if v, _ := cmd.Flags().GetString("language"); v != "" {
				lang := catalog.Language(v)
				if !lang.Valid() {
					return fmt.Errorf("unknown language %q", v)
				}
				langs = []catalog.Language{lang}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tINDEX\tID\tTITLE\tDIFFICULTY\tBASE XP\tLOCKED")
			for _, lang := range langs {
				for i, l := range c.LessonsByLanguage(lang) {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%t\n",
						lang.DisplayName(), i, l.ID, l.Title, l.Difficulty, l.BaseXP, l.IsLocked)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("language", "", "Only list lessons for this language (python, javascript, cpp, java)")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-language lesson totals and completion counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.openCatalog(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}

			completed, _ := cmd.Flags().GetStringSlice("completed")

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tLESSONS\tCOMPLETED")
			for _, lang := range c.Languages() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n",
					lang.DisplayName(),
					c.TotalLessonsByLanguage(lang),
					c.CompletedLessonsByLanguage(lang, completed),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSlice("completed", nil, "Comma-separated IDs of completed lessons")
	return cmd
}

func newXPCmd() *cobra.Command {
	var in xp.Input
	var difficulty string

	cmd := &cobra.Command{
		Use:   "xp",
		Short: "Compute an XP reward from raw parameters",
		Args:  cobra.NoArgs,
		// The calculator needs no catalog or config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Difficulty = catalog.Difficulty(difficulty)
			if !cmd.Flags().Changed("actual") {
				in.ActualTime = in.BaselineTime
			}

			v, err := xp.Compute(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.BaseXP, "base", 50, "Base XP of the lesson")
	f.StringVar(&difficulty, "difficulty", string(catalog.DifficultyBeginner), "Beginner, Intermediate or Advanced")
	f.IntVar(&in.LessonIndex, "index", 0, "0-based lesson position within its language")
	f.IntVar(&in.TotalLessons, "total", 1, "Number of lessons in the language")
	f.Float64Var(&in.ActualTime, "actual", 0, "Minutes taken (defaults to the baseline)")
	f.Float64Var(&in.BaselineTime, "baseline", 5, "Expected minutes")
	return cmd
}

func newAwardCmd(a *app) *cobra.Command {
	var minutes float64

	cmd := &cobra.Command{
		Use:   "award <lesson-id>",
		Short: "Compute the XP awarded for finishing a catalog lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.openCatalog(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}

			actual := time.Duration(minutes * float64(time.Minute))
			if !cmd.Flags().Changed("minutes") {
				if l, ok := c.LessonByID(args[0]); ok {
					actual = time.Duration(l.BaselineTime * float64(time.Minute))
				}
			}

			v, err := xp.Award(c, args[0], actual)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().Float64Var(&minutes, "minutes", 0, "Minutes taken (defaults to the lesson baseline)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog and its XP table as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := a.openCatalog(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := report.WriteWorkbook(f, c); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "duocode-catalog.xlsx", "Output file")
	return cmd
}

func newPublishCmd(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Replace the lessons table at --database-url with the catalog from --from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Publishing reads from a file source and writes to postgres.
			if from != config.SourceEmbedded && from != config.SourceDir {
				return fmt.Errorf("--from must be 'embedded' or 'dir', got %q", from)
			}
			a.cfg.Catalog.Source = from
			c, cleanup, err := a.openCatalog(ctx)
			defer cleanup()
			if err != nil {
				return err
			}

			db, err := database.New(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := catalog.Publish(ctx, db.Pool, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d lessons (digest %s)\n", len(c.All()), c.Digest())
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "embedded", "Source to publish: embedded or dir")
	return cmd
}
