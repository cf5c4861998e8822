package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/workplan/app"
	"github.com/kilianp07/workplan/config"
	"github.com/kilianp07/workplan/infra/logger"
)

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "workplan",
		Short:         "Budget-constrained work allocation planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")

	open := func() (*app.Service, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return app.New(cfg)
	}
	root.AddCommand(
		newOptimizeCmd(open),
		newSensitivityCmd(open),
		newScenarioCmd(open),
		newExportCmd(open),
		newServeCmd(open),
	)
	return root
}

type serviceOpener func() (*app.Service, error)

// withService opens the service, runs fn and closes it.
func withService(open serviceOpener, fn func(ctx context.Context, svc *app.Service) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(ctx, svc)
}

func newServeCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning API and metrics until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(open, func(ctx context.Context, svc *app.Service) error {
				return svc.Run(ctx)
			})
		},
	}
}
