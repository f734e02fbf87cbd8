package commands

import (
	"github.com/spf13/cobra"

	"github.com/skf-site/simgrid-proxy/internal/interfaces/dto"
)

func newChampionshipsCmd() *cobra.Command {
	var (
		force  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "championships",
		Short: "Lists championships published on The SimGrid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := runtimeFrom(cmd)
			items, err := rt.services.Championships.ListChampionships(cmd.Context(), force)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out(cmd), dto.FromChampionshipList(items))
			}
			renderChampionships(out(cmd), items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "bypass the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newChampionshipCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "championship <id>",
		Short: "Shows the details of one championship.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseChampionshipArgs(args)
			if err != nil {
				return err
			}
			rt := runtimeFrom(cmd)
			item, err := rt.services.Championships.GetChampionship(cmd.Context(), parsed.ChampionshipID, true)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out(cmd), dto.FromChampionshipDetails(item))
			}
			renderChampionship(out(cmd), item)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
