package cmd

import (
	"fmt"

	"github.com/khrees2412/stageconnect/internal/app"
	"github.com/khrees2412/stageconnect/internal/matcher"
	"github.com/khrees2412/stageconnect/internal/ui"
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
)

// statusDeciders may accept or refuse a candidacy
var statusDeciders = []models.Role{models.RoleCompany, models.RoleAdministrator}

var candidaturesCmd = &cobra.Command{
	Use:     "candidatures",
	Aliases: []string{"candidacies", "applications"},
	Short:   "Follow candidacies",
	Long:    "Students see their own candidacies; companies and managers see the ones they handle",
}

var listCandidaturesCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidacies",
	Example: `  stageconnect candidatures list
  stageconnect candidatures list --status pending`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd)
		if err != nil {
			return err
		}

		var status models.CandidatureStatus
		if name, _ := cmd.Flags().GetString("status"); name != "" {
			s, ok := models.ParseCandidatureStatus(name)
			if !ok {
				return fmt.Errorf("%w: unknown status %q (pending, accepted, refused)", app.ErrInvalidArgument, name)
			}
			status = s
		}

		cands, err := a.Client.ListCandidatures(cmd.Context())
		if err != nil {
			return err
		}
		return a.Printer.Candidatures(matcher.FilterCandidatures(cands, status))
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <candidature-id>",
	Short: "Withdraw one of your candidacies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, models.RoleStudent)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := a.Client.WithdrawCandidature(cmd.Context(), id); err != nil {
			return err
		}
		a.Printer.Success("Candidacy %d withdrawn", id)
		return nil
	},
}

var setStatusCmd = &cobra.Command{
	Use:     "status <candidature-id>",
	Short:   "Accept or refuse a candidacy",
	Args:    cobra.ExactArgs(1),
	Example: `  stageconnect candidatures status 4 --set accepted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, statusDeciders...)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("set")
		status, ok := models.ParseCandidatureStatus(name)
		if !ok {
			return fmt.Errorf("%w: --set must be one of pending, accepted, refused", app.ErrInvalidArgument)
		}

		cand, err := a.Client.UpdateCandidatureStatus(cmd.Context(), id, status)
		if err != nil {
			return err
		}
		a.Printer.Success("Candidacy %d is now %s", id, ui.StatusLabel(cand.Status))
		return nil
	},
}

var exportCandidaturesCmd = &cobra.Command{
	Use:     "export",
	Short:   "Download every candidacy as a PDF report",
	Example: `  stageconnect candidatures export --out candidatures.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, models.RoleManager, models.RoleAdministrator)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		data, err := a.Client.ExportAllCandidaturesPDF(cmd.Context())
		if err != nil {
			return err
		}
		if err := writeFile(out, data); err != nil {
			return err
		}
		a.Printer.Success("Candidacies exported to %s", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(candidaturesCmd)
	candidaturesCmd.AddCommand(listCandidaturesCmd)
	candidaturesCmd.AddCommand(withdrawCmd)
	candidaturesCmd.AddCommand(setStatusCmd)
	candidaturesCmd.AddCommand(exportCandidaturesCmd)

	listCandidaturesCmd.Flags().String("status", "", "Filter by status (pending, accepted, refused)")
	setStatusCmd.Flags().String("set", "", "New status (pending, accepted, refused)")
	setStatusCmd.MarkFlagRequired("set")
	exportCandidaturesCmd.Flags().String("out", "candidatures.pdf", "Destination file")
}
