package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/spf13/cobra"
)

var forceDelete bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a diary entry",
	Long:  "Permanently delete an entry and its photos. Requires confirmation unless --force is used.",
	Example: `  moodiary delete 3
  moodiary delete 3 --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		confirm := func(v ui.EntryView) (bool, error) {
			return ui.ConfirmDelete(v, ui.ResolveTheme(appConfig.Theme))
		}
		if forceDelete {
			confirm = nil
		}
		return deleteRun(cmd.Context(), cmd.OutOrStdout(), id, confirm)
	},
}

// deleteRun deletes entry id. A nil confirm skips the prompt.
func deleteRun(ctx context.Context, w io.Writer, id int64, confirm func(ui.EntryView) (bool, error)) error {
	b, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	if confirm != nil {
		ok, err := confirm(bundleView(b))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := svc.Delete(ctx, id); err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{ID: id, Deleted: true})
	}
	ui.FormatEntryDeleted(w, id)
	return nil
}

func init() {
	deleteCmd.Flags().BoolVar(&forceDelete, "force", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
