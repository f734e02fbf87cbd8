package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newArchiveCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "archive <cache-key>",
		Short: "Shows an archived SimGrid payload, e.g. championships/123/standings.",
		Long:  "Reads the payload archive. Only useful with ARCHIVE_ENABLED=true; the in-memory archive starts empty.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseArchiveArgs(args)
			if err != nil {
				return err
			}
			rt := runtimeFrom(cmd)
			item, ok, err := rt.services.Archive.GetByKey(cmd.Context(), parsed.CacheKey)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no archived payload for %q", parsed.CacheKey)
			}
			if raw {
				_, err := fmt.Fprintln(out(cmd), item.PayloadJSON)
				return err
			}

			t := newTable(out(cmd))
			t.AppendRows([]table.Row{
				{"Key", item.CacheKey},
				{"Source", item.Source},
				{"Hash", item.PayloadHash},
				{"Fetched", item.FetchedAt.UTC().Format("2006-01-02 15:04:05 MST")},
				{"Bytes", len(item.PayloadJSON)},
			})
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print only the payload JSON")
	return cmd
}
