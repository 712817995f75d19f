package cli

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/render"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAddCmd(app *App) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			_, err = st.Add(cmd.Context(), strings.Join(args, " "), description)
			switch {
			case errors.Is(err, store.ErrEmptyTitle):
				return usageError("add: empty title")
			case err != nil:
				return runtimeError("save", err)
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "item description")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if !slices.Contains(render.Formats, format) {
				return usageError("ls: unknown format %q (want %s)", format, strings.Join(render.Formats, "|"))
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			opts := render.Options{Format: format}
			if app.cfg.Color == "never" {
				opts.MarkdownStyle = "notty"
			}
			if err := render.Write(cmd.OutOrStdout(), st.Records(), opts); err != nil {
				return runtimeError("render", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "plain", "output format: "+strings.Join(render.Formats, "|"))
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change the title and/or description of the item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("edit", args[0])
			if err != nil {
				return err
			}
			titleSet, descSet := cmd.Flags().Changed("title"), cmd.Flags().Changed("description")
			if !titleSet && !descSet {
				return usageError("edit: nothing to change (use --title and/or --description)")
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			records := st.Records()
			if n < 1 || n > len(records) {
				return outOfRange(len(records), n)
			}
			cur := records[n-1]
			if !titleSet {
				title = cur.Title
			}
			if !descSet {
				description = cur.Description
			}
			err = st.UpdateAt(cmd.Context(), n-1, title, description)
			switch {
			case errors.Is(err, store.ErrEmptyTitle):
				return usageError("edit: empty title")
			case err != nil:
				return runtimeError("save", err)
			}
			ui.OK(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove the item at 1-based index",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseIndex("rm", args[0])
			if err != nil {
				return err
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if n < 1 || n > st.Len() {
				return outOfRange(st.Len(), n)
			}
			if err := st.DeleteAt(cmd.Context(), n-1); err != nil {
				return runtimeError("save", err)
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func parseIndex(op, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageError("%s: not a number: %s", op, s)
	}
	return n, nil
}
