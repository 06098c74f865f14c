package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the documents in upload order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := setupApplication(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tDATE\tKIND\tPAGES")
			for _, doc := range app.service.Documents() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", doc.ID, doc.Title, doc.CardDate(), doc.Kind, doc.PageCount())
			}

			status := app.service.Status()
			if status.Capacity > 0 {
				fmt.Fprintf(w, "\n%d of %d\n", status.Count, status.Capacity)
			}
			return w.Flush()
		},
	}
}
