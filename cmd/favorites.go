package cmd

import (
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage your favorite offers",
}

var listFavoritesCmd = &cobra.Command{
	Use:   "list",
	Short: "List your favorite offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, models.RoleStudent)
		if err != nil {
			return err
		}

		offers, err := a.Client.ListFavorites(cmd.Context())
		if err != nil {
			return err
		}
		return a.Printer.Offers(offers)
	},
}

var toggleFavoriteCmd = &cobra.Command{
	Use:   "toggle <offer-id>",
	Short: "Add or remove an offer from your favorites",
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

		result, err := a.Client.ToggleFavorite(cmd.Context(), id)
		if err != nil {
			return err
		}
		if a.Printer.Structured() {
			return a.Printer.Encode(result)
		}
		if result.IsFavorite {
			a.Printer.Success("Offer %d added to favorites", id)
		} else {
			a.Printer.Success("Offer %d removed from favorites", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(listFavoritesCmd)
	favoritesCmd.AddCommand(toggleFavoriteCmd)
}
