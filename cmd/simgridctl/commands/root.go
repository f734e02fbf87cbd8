package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/skf-site/simgrid-proxy/internal/app"
	"github.com/skf-site/simgrid-proxy/internal/config"
	"github.com/skf-site/simgrid-proxy/internal/platform/logging"
)

type runtimeKey struct{}

// runtime is built once per invocation in PersistentPreRunE.
type runtime struct {
	services *app.Services
	logger   *logging.Logger
}

var (
	verbose  bool
	validate = validator.New(validator.WithRequiredStructEnabled())
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "simgridctl",
		Short:         "simgridctl inspects SimGrid championships and reconciled standings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := logging.LevelWarn
			if verbose {
				level = logging.LevelDebug
			}
			logger := logging.NewConsole(level)
			logging.SetDefault(logger)

			services, err := app.NewServices(cfg, logger)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, &runtime{services: services, logger: logger}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			rt := runtimeFrom(cmd)
			if rt == nil {
				return nil
			}
			_ = rt.logger.Sync()
			return rt.services.Close()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newChampionshipsCmd(),
		newChampionshipCmd(),
		newStandingsCmd(),
		newArchiveCmd(),
	)
	return root
}

func runtimeFrom(cmd *cobra.Command) *runtime {
	rt, _ := cmd.Context().Value(runtimeKey{}).(*runtime)
	return rt
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
