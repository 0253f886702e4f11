package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rackscope/internal/library"
)

type listView struct {
	Items   []*library.Analysis `json:"items"`
	Summary library.Summary     `json:"summary"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		category string
		name     string
		limit    int
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List analyses stored in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			filter := library.ListFilter{Name: name, Limit: limit}
			if value := strings.TrimSpace(category); value != "" {
				if err := filter.Category.UnmarshalText([]byte(value)); err != nil {
					return err
				}
			}
			items, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			summary, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				if items == nil {
					items = []*library.Analysis{}
				}
				return writeJSON(cmd, listView{Items: items, Summary: summary})
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No analyses found")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					item.ID,
					item.RackName,
					item.Category.Label(),
					strconv.Itoa(item.ChainCount),
					strconv.Itoa(item.DeviceCount),
					strconv.Itoa(item.MacroCount),
					diagnosticSummary(item),
					item.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Rack", "Type", "Chains", "Devices", "Macros", "Issues", "Analysed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d shown, %d in library (%d with errors)\n", len(items), summary.Total, summary.WithErrors)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by rack type tag (e.g. AudioEffectGroupDevice)")
	cmd.Flags().StringVar(&name, "name", "", "Filter by rack name substring")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of rows (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	return cmd
}

func diagnosticSummary(item *library.Analysis) string {
	switch {
	case item.ErrorCount > 0 && item.WarningCount > 0:
		return fmt.Sprintf("%d errors, %d warnings", item.ErrorCount, item.WarningCount)
	case item.ErrorCount > 0:
		return fmt.Sprintf("%d errors", item.ErrorCount)
	case item.WarningCount > 0:
		return fmt.Sprintf("%d warnings", item.WarningCount)
	default:
		return "-"
	}
}
