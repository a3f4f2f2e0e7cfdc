package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/khrees2412/stageconnect/internal/app"
	"github.com/khrees2412/stageconnect/internal/matcher"
	"github.com/khrees2412/stageconnect/internal/ui"
	"github.com/khrees2412/stageconnect/pkg/models"
	"github.com/spf13/cobra"
)

var offerEditors = []models.Role{models.RoleCompany, models.RoleManager, models.RoleAdministrator}

var offersCmd = &cobra.Command{
	Use:     "offers",
	Aliases: []string{"offer"},
	Short:   "Browse and manage internship offers",
}

var listOffersCmd = &cobra.Command{
	Use:   "list",
	Short: "List internship offers",
	Example: `  stageconnect offers list --search golang --city Lyon
  stageconnect offers list --remote true
  stageconnect offers list --mine --state pending`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		filter := models.OfferFilter{}
		filter.Search, _ = cmd.Flags().GetString("search")
		filter.City, _ = cmd.Flags().GetString("city")
		filter.Duration, _ = cmd.Flags().GetString("duration")
		filter.Domain, _ = cmd.Flags().GetString("domain")
		filter.Remote, _ = cmd.Flags().GetString("remote")
		mine, _ := cmd.Flags().GetBool("mine")
		stateNames, _ := cmd.Flags().GetStringSlice("state")

		email := ""
		if mine {
			user, err := a.Session.RequireRole()
			if err != nil {
				return err
			}
			email = user.Email
		}
		filter, criteria, err := listCriteria(filter, email, stateNames)
		if err != nil {
			return err
		}

		offers, err := a.Client.ListOffers(cmd.Context(), filter)
		if err != nil {
			return err
		}
		offers = matcher.FilterOffers(offers, criteria)

		if err := a.Printer.Offers(offers); err != nil {
			return err
		}
		if mine && !a.Printer.Structured() {
			a.Printer.StateSummary(matcher.CountByState(offers))
		}
		return nil
	},
}

var showOfferCmd = &cobra.Command{
	Use:   "show <offer-id>",
	Short: "Show the details of an offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		offer, err := a.Client.GetOffer(cmd.Context(), id)
		if err != nil {
			return err
		}
		return a.Printer.Offer(offer)
	},
}

var createOfferCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new offer for validation",
	Example: `  stageconnect offers create --title "Go backend intern" --organisme Acme \
    --contact-name "Marc Dupont" --contact-email marc@acme.fr --city Lyon --duration "6 months"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, offerEditors...)
		if err != nil {
			return err
		}

		input := offerInputFromFlags(cmd)
		if input.Title == nil || input.Organisme == nil {
			return fmt.Errorf("%w: --title and --organisme are required", app.ErrInvalidArgument)
		}

		offer, err := a.Client.CreateOffer(cmd.Context(), input)
		if err != nil {
			return err
		}
		a.Printer.Success("Offer submitted: %s (ID: %d)", offer.Title, offer.ID)
		if a.Printer.Structured() {
			return a.Printer.Encode(offer)
		}
		return nil
	},
}

var updateOfferCmd = &cobra.Command{
	Use:     "update <offer-id>",
	Short:   "Change fields of an offer",
	Args:    cobra.ExactArgs(1),
	Example: `  stageconnect offers update 12 --city Paris --remote=true`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, offerEditors...)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		input := offerInputFromFlags(cmd)
		if input == (models.OfferInput{}) {
			return fmt.Errorf("%w: nothing to update", app.ErrInvalidArgument)
		}

		offer, err := a.Client.UpdateOffer(cmd.Context(), id, input)
		if err != nil {
			return err
		}
		a.Printer.Success("Offer %d updated", offer.ID)
		if a.Printer.Structured() {
			return a.Printer.Encode(offer)
		}
		return nil
	},
}

var deleteOfferCmd = &cobra.Command{
	Use:   "delete <offer-id>",
	Short: "Delete an offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, offerEditors...)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			reader := bufio.NewReader(cmd.InOrStdin())
			answer := prompt(cmd.ErrOrStderr(), reader, fmt.Sprintf("Delete offer %d? [y/N]", id))
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				a.Printer.Warn("Aborted")
				return nil
			}
		}

		if err := a.Client.DeleteOffer(cmd.Context(), id); err != nil {
			return err
		}
		a.Printer.Success("Offer %d deleted", id)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply [offer-id]",
	Short: "Apply to an offer",
	Args:  cobra.MaximumNArgs(1),
	Example: `  stageconnect offers apply 12
  stageconnect offers apply --batch offer-ids.txt
  stageconnect offers apply --batch offer-ids.txt --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, models.RoleStudent)
		if err != nil {
			return err
		}

		batchFile, _ := cmd.Flags().GetString("batch")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if batchFile != "" {
			return handleBatchApply(cmd.Context(), a, batchFile, dryRun)
		}
		if len(args) == 0 {
			return fmt.Errorf("%w: an offer id or --batch is required", app.ErrInvalidArgument)
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		cand, err := a.Client.ApplyToOffer(cmd.Context(), id)
		if err != nil {
			return err
		}
		a.Printer.Success("Applied to offer %d (status: %s)", id, ui.StatusLabel(cand.Status))
		return nil
	},
}

var validateOfferCmd = &cobra.Command{
	Use:   "validate <offer-id>",
	Short: "Validate a pending offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decideOffer(cmd, args[0], models.ActionValidate)
	},
}

var refuseOfferCmd = &cobra.Command{
	Use:   "refuse <offer-id>",
	Short: "Refuse a pending offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decideOffer(cmd, args[0], models.ActionRefuse)
	},
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates <offer-id>",
	Short: "List the candidacies received by an offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd, offerEditors...)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		cands, err := a.Client.OfferCandidates(cmd.Context(), id)
		if err != nil {
			return err
		}
		return a.Printer.Candidatures(cands)
	},
}

var exportOfferCmd = &cobra.Command{
	Use:     "export <offer-id>",
	Short:   "Download an offer as PDF",
	Args:    cobra.ExactArgs(1),
	Example: `  stageconnect offers export 12 --out offre-12.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := appFor(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("offre_%d.pdf", id)
		}

		data, err := a.Client.ExportOfferPDF(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := writeFile(out, data); err != nil {
			return err
		}
		a.Printer.Success("Offer %d exported to %s", id, out)
		return nil
	},
}

// listCriteria splits the list flags between the server query and the
// local filters. With a contact email (the --mine dashboard) the search text
// and remote flag are applied locally to the contact's offers.
func listCriteria(filter models.OfferFilter, email string, stateNames []string) (models.OfferFilter, matcher.OfferCriteria, error) {
	criteria := matcher.OfferCriteria{ContactEmail: email}
	for _, name := range stateNames {
		state, ok := models.ParseOfferState(name)
		if !ok {
			return filter, criteria, fmt.Errorf("%w: unknown state %q (pending, validated, refused, closed)", app.ErrInvalidArgument, name)
		}
		criteria.States = append(criteria.States, state)
	}

	if email != "" {
		criteria.Text = filter.Search
		filter.Search = ""
		if filter.Remote == "true" {
			criteria.RemoteOnly = true
			filter.Remote = ""
		}
	}
	return filter, criteria, nil
}

func decideOffer(cmd *cobra.Command, arg string, action models.ValidationAction) error {
	a, _, err := appFor(cmd, models.RoleManager, models.RoleAdministrator)
	if err != nil {
		return err
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	offer, err := a.Client.ValidateOffer(cmd.Context(), id, action)
	if err != nil {
		return err
	}
	a.Printer.Success("Offer %d is now %s", id, ui.StateLabel(offer.State))
	return nil
}

// offerInputFromFlags keeps only the flags that were set
func offerInputFromFlags(cmd *cobra.Command) models.OfferInput {
	input := models.OfferInput{}
	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	input.Title = str("title")
	input.Organisme = str("organisme")
	input.ContactName = str("contact-name")
	input.ContactEmail = str("contact-email")
	input.Description = str("description")
	input.City = str("city")
	input.Duration = str("duration")
	input.Domain = str("domain")
	if cmd.Flags().Changed("remote") {
		remote, _ := cmd.Flags().GetBool("remote")
		input.Remote = &remote
	}
	return input
}

// handleBatchApply applies to every offer id listed in batchFile
func handleBatchApply(ctx context.Context, a *app.App, batchFile string, dryRun bool) error {
	data, err := os.ReadFile(batchFile)
	if err != nil {
		return fmt.Errorf("error reading batch file: %w", err)
	}

	ids, skipped := parseBatch(string(data))
	for _, line := range skipped {
		a.Printer.Warn("Skipping %q: not an offer id", line)
	}
	if len(ids) == 0 {
		a.Printer.Warn("No valid offer IDs found in batch file")
		return nil
	}

	out := a.Printer.Out()
	fmt.Fprintf(out, "Found %d offers to apply to\n", len(ids))
	if dryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No candidacies will be created")
	}

	successCount := 0
	failCount := 0
	for _, id := range ids {
		offer, err := a.Client.GetOffer(ctx, id)
		if err != nil {
			fmt.Fprintf(out, "  ✗ Offer %d: %v\n", id, err)
			failCount++
			continue
		}
		if offer.HasApplied {
			fmt.Fprintf(out, "  ⊘ Offer %d: already applied\n", id)
			continue
		}
		if dryRun {
			fmt.Fprintf(out, "  [DRY RUN] Would apply to: %s at %s\n", offer.Title, offer.Organisme)
			successCount++
			continue
		}

		if _, err := a.Client.ApplyToOffer(ctx, id); err != nil {
			fmt.Fprintf(out, "  ✗ Offer %d: %v\n", id, err)
			failCount++
			continue
		}
		fmt.Fprintf(out, "  ✓ Applied to: %s at %s\n", offer.Title, offer.Organisme)
		successCount++
	}

	a.Printer.Success("Applied to %d offers", successCount)
	if failCount > 0 {
		return fmt.Errorf("failed to apply to %d offers", failCount)
	}
	return nil
}

// parseBatch reads one offer id per line. Blank lines and # comments are
// ignored; other unparseable lines are returned in skipped.
func parseBatch(data string) (ids []int, skipped []string) {
	seen := map[int]bool{}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := parseID(line)
		if err != nil {
			skipped = append(skipped, line)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, skipped
}

func init() {
	rootCmd.AddCommand(offersCmd)
	offersCmd.AddCommand(listOffersCmd)
	offersCmd.AddCommand(showOfferCmd)
	offersCmd.AddCommand(createOfferCmd)
	offersCmd.AddCommand(updateOfferCmd)
	offersCmd.AddCommand(deleteOfferCmd)
	offersCmd.AddCommand(applyCmd)
	offersCmd.AddCommand(validateOfferCmd)
	offersCmd.AddCommand(refuseOfferCmd)
	offersCmd.AddCommand(candidatesCmd)
	offersCmd.AddCommand(exportOfferCmd)

	listOffersCmd.Flags().String("search", "", "Search title, organisation and description")
	listOffersCmd.Flags().String("city", "", "Filter by city")
	listOffersCmd.Flags().String("duration", "", "Filter by duration")
	listOffersCmd.Flags().String("domain", "", "Filter by domain")
	listOffersCmd.Flags().String("remote", "", "Filter by remote work: true, false or all")
	listOffersCmd.Flags().Bool("mine", false, "Only offers whose contact email is yours")
	listOffersCmd.Flags().StringSlice("state", nil, "Only offers in these states (pending, validated, refused, closed)")

	for _, c := range []*cobra.Command{createOfferCmd, updateOfferCmd} {
		c.Flags().String("title", "", "Offer title")
		c.Flags().String("organisme", "", "Host organisation")
		c.Flags().String("contact-name", "", "Name of the contact person")
		c.Flags().String("contact-email", "", "Email of the contact person")
		c.Flags().String("description", "", "Description of the internship")
		c.Flags().String("city", "", "City")
		c.Flags().String("duration", "", "Duration, e.g. \"6 months\"")
		c.Flags().String("domain", "", "Domain, e.g. \"Software\"")
		c.Flags().Bool("remote", false, "Remote work possible")
	}

	deleteOfferCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	applyCmd.Flags().String("batch", "", "Apply to multiple offers from a file (one offer ID per line)")
	applyCmd.Flags().Bool("dry-run", false, "Preview without actually applying")

	exportOfferCmd.Flags().String("out", "", "Destination file (default offre_<id>.pdf)")
}
