package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rackscope/internal/library"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove analyses from the library",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var missing []string
			for _, arg := range args {
				id := strings.TrimSpace(arg)
				err := store.Delete(cmd.Context(), id)
				switch {
				case errors.Is(err, library.ErrNotFound):
					missing = append(missing, id)
				case err != nil:
					return fmt.Errorf("delete %s: %w", id, err)
				default:
					fmt.Fprintf(out, "Deleted %s\n", id)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("analysis not found: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
