package commands

import (
	"github.com/spf13/cobra"

	"github.com/skf-site/simgrid-proxy/internal/interfaces/dto"
)

func newStandingsCmd() *cobra.Command {
	var (
		force  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "standings <id>",
		Short: "Prints the reconciled standings of a championship.",
		Long: "Fetches standings from the SimGrid API and, when the API has no race positions, " +
			"fills them in from the public standings page.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseChampionshipArgs(args)
			if err != nil {
				return err
			}
			rt := runtimeFrom(cmd)
			snapshot, err := rt.services.Championships.GetStandings(cmd.Context(), parsed.ChampionshipID, force)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out(cmd), dto.FromStandings(snapshot))
			}
			renderStandings(out(cmd), snapshot)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "bypass the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
