package main

import (
	"os"

	"freshmeal-bot/internal/core/cafeteria"
	"freshmeal-bot/internal/infrastructure/config"
	"freshmeal-bot/internal/pkg/common"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		asJSON   bool
		logLevel string
		service  *cafeteria.Service
	)

	cmd := &cobra.Command{
		Use:          "menu",
		Short:        "FreshMeal weekly menu with AI nutrition estimates",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			common.InitConsoleLogger(logLevel)
			service = cafeteria.New(cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.Sync()
		},
	}

	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of text.")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error).")

	svc := func() *cafeteria.Service { return service }
	cmd.AddCommand(newTodayCmd(svc, &asJSON))
	cmd.AddCommand(newWeekCmd(svc, &asJSON))
	cmd.AddCommand(newAnalyzeCmd(svc, &asJSON))

	return cmd
}
