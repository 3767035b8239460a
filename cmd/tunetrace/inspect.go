package main

import (
	"github.com/arloliu/tunetrace"
	"github.com/arloliu/tunetrace/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Decode an archive and print its channel table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arc, err := tunetrace.Open(args[0])
			if err != nil {
				return err
			}
			if arc.HasCollision() {
				a.logger.Warn("archive channel ids collide, lookup by id is ambiguous",
					zap.String("path", args[0]))
			}

			f, err := a.cfg.ReportFormat()
			if err != nil {
				return err
			}

			return report.Write(cmd.OutOrStdout(), report.SummarizeArchive(arc), f)
		},
	}
}
