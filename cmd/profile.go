package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khrees2412/stageconnect/internal/api"
	"github.com/khrees2412/stageconnect/internal/app"
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your student profile",
	Long:  "View and update the bio, phone number and CV attached to your candidacies",
}

var showProfileCmd = &cobra.Command{
	Use:   "show",
	Short: "Display your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, models.RoleStudent)
		if err != nil {
			return err
		}

		profile, err := a.Client.GetStudentProfile(cmd.Context())
		if err != nil {
			return err
		}
		return a.Printer.Profile(profile)
	},
}

var updateProfileCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	Example: `  stageconnect profile update --phone "06 12 34 56 78"
  stageconnect profile update --bio "Master student in computer science" --cv ~/cv.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, models.RoleStudent)
		if err != nil {
			return err
		}

		update := api.ProfileUpdate{}
		if cmd.Flags().Changed("bio") {
			bio, _ := cmd.Flags().GetString("bio")
			update.Bio = &bio
		}
		if cmd.Flags().Changed("phone") {
			phone, _ := cmd.Flags().GetString("phone")
			update.Phone = &phone
		}

		cvPath, _ := cmd.Flags().GetString("cv")
		if cvPath != "" {
			if !strings.EqualFold(filepath.Ext(cvPath), ".pdf") {
				a.Printer.Warn("%s does not look like a PDF", cvPath)
			}
			f, err := os.Open(cvPath)
			if err != nil {
				return fmt.Errorf("open cv: %w", err)
			}
			defer f.Close()
			update.CV = f
			update.CVFilename = filepath.Base(cvPath)
		}

		if update.Bio == nil && update.Phone == nil && update.CV == nil {
			return fmt.Errorf("%w: nothing to update (use --bio, --phone or --cv)", app.ErrInvalidArgument)
		}

		profile, err := a.Client.UpdateStudentProfile(cmd.Context(), update)
		if err != nil {
			return err
		}
		a.Printer.Success("Profile updated")
		return a.Printer.Profile(profile)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(updateProfileCmd)

	updateProfileCmd.Flags().String("bio", "", "Short presentation")
	updateProfileCmd.Flags().String("phone", "", "Phone number")
	updateProfileCmd.Flags().String("cv", "", "Path to your CV (PDF)")
}
