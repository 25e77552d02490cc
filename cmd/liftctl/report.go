package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	reportDays             int
	reportWeeks            int
	reportWeeksSinceDeload int
	reportRecords          int
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"r"},
	Short:   "Print a training report",
	Long: `Print fatigue, volume trend, deload advice, estimated maxes, category
volume and recent personal records for the logged sessions.

EXAMPLES:

  liftctl report
  liftctl report --days 7 --weeks 8
  liftctl report --weeks-since-deload 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := loadSessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading sessions: %w", err)
		}
		var sinceDeload *int
		if cmd.Flags().Changed("weeks-since-deload") {
			sinceDeload = &reportWeeksSinceDeload
		}
		printReport(cmd.OutOrStdout(), analytics.NewEngine(), sessions, sinceDeload)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", analytics.DefaultFatigueDays, "fatigue and category window in days")
	reportCmd.Flags().IntVar(&reportWeeks, "weeks", analytics.DefaultTrendWeeks, "volume trend window in weeks")
	reportCmd.Flags().IntVar(&reportWeeksSinceDeload, "weeks-since-deload", 0, "weeks since your last deload")
	reportCmd.Flags().IntVarP(&reportRecords, "records", "n", 5, "number of recent personal records to show")
	rootCmd.AddCommand(reportCmd)
}

func printReport(w io.Writer, engine *analytics.Engine, sessions []models.Session, sinceDeload *int) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions logged yet. Run 'liftctl import' first.")
		return
	}

	fatigue := engine.Fatigue(sessions, reportDays)
	bold.Fprintf(w, "Fatigue (%d days)\n", reportDays)
	fmt.Fprintf(w, "  %s %d/100  %s\n", fatigueColor(fatigue.Level).Sprint(fatigue.Level), fatigue.Score, faint.Sprint(fatigue.Recommendation))

	trend := engine.Trend(sessions, reportWeeks)
	bold.Fprintf(w, "Volume trend (%d weeks)\n", reportWeeks)
	fmt.Fprintf(w, "  %s %+d%%  %s\n", trend.Trend, trend.PercentChange,
		faint.Sprintf("%.0f kg -> %.0f kg", trend.FirstHalfKg, trend.SecondHalfKg))

	deload := engine.Deload(sessions, sinceDeload)
	bold.Fprintln(w, "Deload")
	verdict := color.GreenString("not needed")
	if deload.ShouldDeload {
		verdict = color.YellowString("recommended")
	}
	fmt.Fprintf(w, "  %s  %s\n", verdict, faint.Sprint(deload.Reason))

	if maxes := analytics.StrengthSummary(sessions); len(maxes) > 0 {
		bold.Fprintln(w, "Estimated one-rep max")
		for _, m := range maxes {
			fmt.Fprintf(w, "  %s %6.1f kg  %s\n", padRight(exerciseName(m.ExerciseID), 28), m.OneRepMax,
				faint.Sprintf("%.1f x %d on %s", m.Weight, m.Reps, m.Date.Format("2006-01-02")))
		}
	}

	if cats := engine.Categories(sessions, cat, reportDays); len(cats) > 0 {
		bold.Fprintf(w, "Volume by category (%d days)\n", reportDays)
		for _, c := range cats {
			fmt.Fprintf(w, "  %s %8.0f kg  %5.1f%%  %s\n", padRight(c.Category, 12), c.VolumeKg, c.SharePct, faint.Sprintf("%d sets", c.Sets))
		}
	}

	prs := analytics.PersonalRecords(sessions)
	if prs.Total > 0 {
		bold.Fprintf(w, "Personal records (%d total)\n", prs.Total)
		recs := prs.Records
		if reportRecords > 0 && len(recs) > reportRecords {
			recs = recs[len(recs)-reportRecords:]
		}
		for _, r := range recs {
			fmt.Fprintf(w, "  %s %s %6.1f kg x %d\n", faint.Sprint(r.Date.Format("2006-01-02")), padRight(exerciseName(r.ExerciseID), 28), r.Weight, r.Reps)
		}
		if li := prs.LargestImprovement; li != nil {
			fmt.Fprintf(w, "  largest gain: %s %s\n", exerciseName(li.ExerciseID), color.GreenString("+%.1f kg", li.Delta))
		}
	}
}

func fatigueColor(level analytics.FatigueLevel) *color.Color {
	switch level {
	case analytics.FatigueVeryHigh:
		return color.New(color.FgRed, color.Bold)
	case analytics.FatigueHigh:
		return color.New(color.FgRed)
	case analytics.FatigueModerate:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func exerciseName(id string) string {
	if ex, ok := cat.Lookup(id); ok {
		return ex.Name
	}
	return id
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
