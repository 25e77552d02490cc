package main

import (
	"fmt"
	"strconv"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ormFormula string

// ormPercentages are the training loads shown under an estimate.
var ormPercentages = []int{95, 90, 85, 80, 75, 70}

var ormCmd = &cobra.Command{
	Use:   "orm <weight-kg> <reps>",
	Short: "Estimate a one-rep max",
	Long: `Estimate a one-rep max from a weight and the reps completed with it.

FORMULAS:

  epley    weight x (1 + reps/30)   (default)
  brzycki  weight x 36 / (37 - reps)

EXAMPLES:

  liftctl orm 100 5
  liftctl orm 82.5 8 --formula brzycki`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[0], 64)
		if err != nil || weight < 0 {
			return fmt.Errorf("invalid weight %q", args[0])
		}
		reps, err := strconv.Atoi(args[1])
		if err != nil || reps < 1 {
			return fmt.Errorf("invalid reps %q: must be at least 1", args[1])
		}
		formula := analytics.Formula(ormFormula)
		if formula != analytics.FormulaEpley && formula != analytics.FormulaBrzycki {
			return fmt.Errorf("unknown formula %q (use epley or brzycki)", ormFormula)
		}

		est := analytics.Estimate(formula, weight, reps)
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s x %d -> %s (%s)\n", strconv.FormatFloat(weight, 'f', -1, 64), reps,
			color.New(color.Bold).Sprintf("%.1f kg", est), formula)
		for _, pct := range ormPercentages {
			fmt.Fprintf(w, "  %3d%%  %6.1f kg\n", pct, est*float64(pct)/100)
		}
		return nil
	},
}

func init() {
	ormCmd.Flags().StringVarP(&ormFormula, "formula", "f", string(analytics.FormulaEpley), "estimation formula (epley or brzycki)")
	rootCmd.AddCommand(ormCmd)
}
