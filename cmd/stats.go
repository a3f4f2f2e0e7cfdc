package cmd

import (
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View platform statistics",
	Long:  "Display offer and candidacy counts, monthly activity and the most requested offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, models.RoleManager, models.RoleAdministrator)
		if err != nil {
			return err
		}

		stats, err := a.Client.DashboardStats(cmd.Context())
		if err != nil {
			return err
		}
		return a.Printer.Stats(stats)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
