package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/khrees2412/stageconnect/internal/app"
	"github.com/khrees2412/stageconnect/internal/ui"
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse offers interactively",
	Long:  "Walk through the offer list, read the details and apply or bookmark from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		return runBrowser(cmd.Context(), a, cmd.InOrStdin(), models.OfferFilter{Search: search})
	},
}

func runBrowser(ctx context.Context, a *app.App, in io.Reader, filter models.OfferFilter) error {
	offers, err := a.Client.ListOffers(ctx, filter)
	if err != nil {
		return err
	}
	out := a.Printer.Out()
	if len(offers) == 0 {
		fmt.Fprintln(out, "No offers found.")
		return nil
	}

	reader := bufio.NewReader(in)
	for {
		a.Printer.Title("Offer Browser")
		fmt.Fprintln(out, "Press 'q' to quit, or enter an offer number to view details")
		fmt.Fprintln(out)

		for i, offer := range offers {
			fmt.Fprintf(out, "%d. %s at %s  %s\n", i+1, offer.Title, offer.Organisme, ui.StateLabel(offer.State))
		}

		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" || (err != nil && input == "") {
			return nil
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 1 || n > len(offers) {
			fmt.Fprintln(out, "Invalid selection")
			continue
		}

		updated, quit := browseOffer(ctx, a, offers[n-1], reader)
		offers[n-1] = updated
		if quit {
			return nil
		}
	}
}

// browseOffer shows one offer until the user goes back. It returns the
// latest copy of the offer and whether input is exhausted.
func browseOffer(ctx context.Context, a *app.App, offer models.Offer, reader *bufio.Reader) (models.Offer, bool) {
	out := a.Printer.Out()
	_, roleErr := a.Session.RequireRole(models.RoleStudent)
	canAct := roleErr == nil

	for {
		fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
		if err := a.Printer.Offer(offer); err != nil {
			a.Printer.Error("Could not show offer %d: %v", offer.ID, err)
			return offer, false
		}

		fmt.Fprintln(out, "\nOptions:")
		if canAct && !offer.HasApplied {
			fmt.Fprintln(out, "  [a] Apply to this offer")
		}
		if canAct {
			fmt.Fprintln(out, "  [f] Add to or remove from favorites")
		}
		fmt.Fprintln(out, "  [e] Export as PDF")
		fmt.Fprintln(out, "  [b] Back to list")
		fmt.Fprint(out, "\n> ")

		choice, err := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))
		if err != nil && choice == "" {
			return offer, true
		}

		switch {
		case choice == "a" && canAct && !offer.HasApplied:
			if _, err := a.Client.ApplyToOffer(ctx, offer.ID); err != nil {
				a.Printer.Error("%v", err)
				continue
			}
			a.Printer.Success("Application sent!")
			if fresh, err := a.Client.GetOffer(ctx, offer.ID); err == nil {
				offer = fresh
			} else {
				offer.HasApplied = true
				offer.CandidatureCount++
			}
		case choice == "f" && canAct:
			result, err := a.Client.ToggleFavorite(ctx, offer.ID)
			if err != nil {
				a.Printer.Error("%v", err)
				continue
			}
			if result.IsFavorite {
				a.Printer.Success("Added to favorites")
			} else {
				a.Printer.Success("Removed from favorites")
			}
		case choice == "e":
			name := fmt.Sprintf("offre_%d.pdf", offer.ID)
			data, err := a.Client.ExportOfferPDF(ctx, offer.ID)
			if err == nil {
				err = writeFile(name, data)
			}
			if err != nil {
				a.Printer.Error("%v", err)
				continue
			}
			a.Printer.Success("Exported to %s", name)
		case choice == "b":
			return offer, false
		default:
			fmt.Fprintln(out, "Invalid choice")
		}
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().String("search", "", "Only offers matching this text")
}
