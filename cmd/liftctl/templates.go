package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/share"
	"github.com/claude/liftlog/internal/storage"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var unshareSave bool

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"t"},
	Short:   "List workout templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := store.ListTemplates(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("listing templates: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(w, "No templates found.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, t := range templates {
			fmt.Fprintf(w, "%s %s %s\n", faint.Sprint(t.ID.String()), t.Name, faint.Sprintf("(%d exercises)", len(t.Exercises)))
		}
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <template-id>",
	Short: "Print the share code for a template",
	Long: `Print a share code for a template. The code carries the template name,
description and exercises; anyone can turn it back into a template with
'liftctl unshare'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid template id %q", args[0])
		}
		t, err := store.GetTemplate(cmd.Context(), id, userID)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("template %s not found", id)
		}
		if err != nil {
			return err
		}
		code, err := share.Encode(*t)
		if err != nil {
			return fmt.Errorf("encoding template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), code)
		return nil
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare <code>",
	Short: "Decode a share code",
	Long: `Decode a share code and print the template it carries. With --save the
template is stored in the local database.

EXAMPLES:

  liftctl unshare eyJuYW1lIjoi...
  liftctl unshare eyJuYW1lIjoi... --save`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if unshareSave {
			return openStore(cmd.Context())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		shared, ok := share.Decode(args[0])
		if !ok {
			return errors.New("invalid share code")
		}
		t := shared.Template()
		w := cmd.OutOrStdout()
		printTemplate(w, t)

		if !unshareSave {
			return nil
		}
		t.UserID = userID
		if err := store.CreateTemplate(cmd.Context(), &t); err != nil {
			return fmt.Errorf("saving template: %w", err)
		}
		fmt.Fprintf(w, "Saved as %s\n", color.GreenString(t.ID.String()))
		return nil
	},
}

func printTemplate(w io.Writer, t models.Template) {
	color.New(color.Bold).Fprintln(w, t.Name)
	if t.Description != "" {
		fmt.Fprintln(w, color.New(color.Faint).Sprint(t.Description))
	}
	for i, ex := range t.Exercises {
		weight := fmt.Sprintf("%.1f kg", ex.Weight)
		if len(ex.Weights) > 0 {
			weight = fmt.Sprintf("%v kg", ex.Weights)
		}
		fmt.Fprintf(w, "  %d. %s %dx%d @ %s, rest %ds\n", i+1, exerciseName(ex.ExerciseID), ex.Sets, ex.Reps, weight, ex.RestSeconds)
	}
}

func init() {
	unshareCmd.Flags().BoolVar(&unshareSave, "save", false, "store the decoded template")
	rootCmd.AddCommand(templatesCmd, shareCmd, unshareCmd)
}
