package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/troopsched/app"
	"github.com/kilianp07/troopsched/config"
	"github.com/kilianp07/troopsched/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "troopsched",
	Short:         "Camp week activity scheduler",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func newService() (*config.Config, *app.Service, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}
	return cfg, svc, closeFn, nil
}
