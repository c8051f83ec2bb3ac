package main

import (
	"fmt"

	"freshmeal-bot/internal/core/cafeteria"
	"freshmeal-bot/internal/pkg/common"

	"github.com/spf13/cobra"
)

type serviceFunc func() *cafeteria.Service

func printJSON(cmd *cobra.Command, v any) error {
	out, err := common.ToJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func newTodayCmd(svc serviceFunc, asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's menu with nutrition estimates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := svc()
			report, ok := s.Today(cmd.Context())
			if *asJSON {
				return printJSON(cmd, map[string]any{"date": s.TodayDate(), "found": ok, "report": report})
			}
			if !ok {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "오늘(%s)은 식단이 없습니다.\n", s.TodayDate())
				return err
			}
			return writeDay(cmd.OutOrStdout(), report)
		},
	}
}

func newWeekCmd(svc serviceFunc, asJSON *bool) *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show this week's menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := svc().Week(cmd.Context(), analyze)
			if *asJSON {
				return printJSON(cmd, reports)
			}
			if len(reports) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "데이터가 없습니다.")
				return err
			}
			for i, r := range reports {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := writeDay(cmd.OutOrStdout(), r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&analyze, "analyze", false, "Estimate nutrition for each day (one model call per day).")
	return cmd
}

func newAnalyzeCmd(svc serviceFunc, asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze NAME...",
		Short: "Estimate nutrition for arbitrary food names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := svc().Analyze(cmd.Context(), args)
			if *asJSON {
				return printJSON(cmd, result)
			}
			return writeAnalysis(cmd.OutOrStdout(), args, result)
		},
	}
}
