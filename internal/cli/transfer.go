package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/snapshot"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the list as a JSON snapshot (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			data, err := snapshot.Encode(st.Records())
			if err != nil {
				return runtimeError("export", err)
			}
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return runtimeError("export", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("exported %d items to %s", st.Len(), args[0]))
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the list with the items of a JSON snapshot",
		Long: "Replace the list with the items of a JSON snapshot. Comments and trailing\n" +
			"commas are accepted; every item needs a non-empty title.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return runtimeError("import", err)
			}
			records, err := snapshot.DecodeLenient(data)
			if err != nil {
				return usageError("import: %s: %v", args[0], err)
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			err = st.Replace(cmd.Context(), records)
			switch {
			case errors.Is(err, store.ErrEmptyTitle):
				return usageError("import: %s: %v", args[0], err)
			case err != nil:
				return runtimeError("save", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("imported %d items", len(records)))
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if app.cfg.Source != "" {
				fmt.Fprintf(out, "# loaded from %s\n", app.cfg.Source)
			}
			return app.cfg.Redacted().Write(out)
		},
	}
}
