package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/khrees2412/stageconnect/pkg/models"
)

const dateLayout = "Jan 2, 2006"

// StateLabel returns the English label of an offer state
func StateLabel(s models.OfferState) string {
	switch s {
	case models.OfferPendingValidation:
		return "⏳ Pending validation"
	case models.OfferValidated:
		return "✅ Validated"
	case models.OfferRefused:
		return "❌ Refused"
	case models.OfferClosed:
		return "🔒 Closed"
	default:
		return string(s)
	}
}

// StatusLabel returns the English label of a candidacy status
func StatusLabel(s models.CandidatureStatus) string {
	switch s {
	case models.CandidaturePending:
		return "📝 Pending"
	case models.CandidatureAccepted:
		return "🎉 Accepted"
	case models.CandidatureRefused:
		return "❌ Refused"
	default:
		return string(s)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateLayout)
}

func remoteLabel(remote *bool) string {
	if remote == nil {
		return ""
	}
	if *remote {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Offers writes an offer list
func (p *Printer) Offers(offers []models.Offer) error {
	if p.Structured() {
		return p.Encode(offers)
	}
	if len(offers) == 0 {
		fmt.Fprintln(p.out, "No offers found.")
		return nil
	}

	table := p.Table("ID", "Title", "Organisation", "City", "State", "Candidacies", "Applied", "Posted")
	for _, o := range offers {
		applied := ""
		if o.HasApplied {
			applied = "✓"
		}
		table.Append([]string{
			strconv.Itoa(o.ID),
			truncate(o.Title, 40),
			o.Organisme,
			o.City,
			StateLabel(o.State),
			strconv.Itoa(o.CandidatureCount),
			applied,
			formatDate(o.DateDepot),
		})
	}
	table.Render()
	return nil
}

// Offer writes the details of one offer
func (p *Printer) Offer(o models.Offer) error {
	if p.Structured() {
		return p.Encode(o)
	}
	p.Title(o.Title)
	p.Field("ID", strconv.Itoa(o.ID))
	p.Field("Organisation", o.Organisme)
	if o.CompanyName != nil {
		p.Field("Company", *o.CompanyName)
	}
	p.Field("Contact", strings.TrimSpace(o.ContactName+" <"+o.ContactEmail+">"))
	p.Field("State", StateLabel(o.State))
	if o.ClosingReason != nil {
		p.Field("Closing reason", *o.ClosingReason)
	}
	p.Field("City", o.City)
	p.Field("Duration", o.Duration)
	p.Field("Domain", o.Domain)
	p.Field("Remote", remoteLabel(o.Remote))
	p.Field("Posted", formatDate(o.DateDepot))
	p.Field("Candidacies", strconv.Itoa(o.CandidatureCount))
	if o.HasApplied {
		p.Field("Your application", "sent")
	}
	if o.Description != "" {
		fmt.Fprintln(p.out, LabelStyle.Render("\nDescription:"))
		fmt.Fprintln(p.out, o.Description)
	}
	return nil
}

// Candidatures writes a candidacy list
func (p *Printer) Candidatures(cands []models.Candidature) error {
	if p.Structured() {
		return p.Encode(cands)
	}
	if len(cands) == 0 {
		fmt.Fprintln(p.out, "No candidacies found.")
		return nil
	}

	table := p.Table("ID", "Offer", "Organisation", "Student", "Email", "Status", "Applied")
	for _, c := range cands {
		table.Append([]string{
			strconv.Itoa(c.ID),
			truncate(c.Offer.Title, 40),
			c.Offer.Organisme,
			c.Student.DisplayName(),
			c.Student.Email,
			StatusLabel(c.Status),
			formatDate(c.DateCandidature),
		})
	}
	table.Render()
	return nil
}

// User writes an identity
func (p *Printer) User(u models.User) error {
	if p.Structured() {
		return p.Encode(u)
	}
	p.Title(u.DisplayName())
	p.Field("Username", u.Username)
	p.Field("Email", u.Email)
	role := "none"
	if u.Role != nil {
		role = u.Role.Label()
	}
	p.Field("Role", role)
	return nil
}

// Profile writes a student profile
func (p *Printer) Profile(pr models.StudentProfile) error {
	if p.Structured() {
		return p.Encode(pr)
	}
	p.Title("Student Profile")
	p.Field("Phone", pr.Phone)
	cv := "not uploaded"
	if pr.CV != nil && *pr.CV != "" {
		cv = *pr.CV
	}
	p.Field("CV", cv)
	if pr.Bio != "" {
		fmt.Fprintln(p.out, LabelStyle.Render("\nBio:"))
		fmt.Fprintln(p.out, pr.Bio)
	}
	return nil
}

// Stats writes the dashboard aggregates
func (p *Printer) Stats(s models.DashboardStats) error {
	if p.Structured() {
		return p.Encode(s)
	}
	p.Title("Dashboard Statistics")

	fmt.Fprintf(p.out, "%s\n", LabelStyle.Render("Offers"))
	offers := p.Table("State", "Count")
	offers.AppendBulk([][]string{
		{Humanize("total"), strconv.Itoa(s.TotalOffers)},
		{StateLabel(models.OfferPendingValidation), strconv.Itoa(s.PendingOffers)},
		{StateLabel(models.OfferValidated), strconv.Itoa(s.ValidatedOffers)},
		{StateLabel(models.OfferRefused), strconv.Itoa(s.RefusedOffers)},
		{StateLabel(models.OfferClosed), strconv.Itoa(s.ClosedOffers)},
	})
	offers.Render()

	fmt.Fprintf(p.out, "\n%s\n", LabelStyle.Render("Candidacies"))
	cands := p.Table("Status", "Count")
	cands.Append([]string{Humanize("total"), strconv.Itoa(s.TotalCandidatures)})
	for _, sc := range s.CandidaturesByStatus {
		cands.Append([]string{StatusLabel(sc.Status), strconv.Itoa(sc.Count)})
	}
	cands.Render()

	if s.TotalCandidatures > 0 {
		rate := float64(s.AcceptedCandidatures) / float64(s.TotalCandidatures) * 100
		fmt.Fprintf(p.out, "  %s %.1f%%\n", LabelStyle.Render("Acceptance rate:"), rate)
	}

	if len(s.CandidaturesByMonth) > 0 {
		fmt.Fprintf(p.out, "\n%s\n", LabelStyle.Render("Activity by Month"))
		offersByMonth := map[string]int{}
		for _, m := range s.OffersByMonth {
			offersByMonth[m.Month] = m.Count
		}
		months := p.Table("Month", "Offers", "Candidacies")
		for _, m := range s.CandidaturesByMonth {
			months.Append([]string{m.Month, strconv.Itoa(offersByMonth[m.Month]), strconv.Itoa(m.Count)})
		}
		months.Render()
	}

	if len(s.TopOffers) > 0 {
		fmt.Fprintf(p.out, "\n%s\n", LabelStyle.Render("Top Offers"))
		top := p.Table("Title", "Candidacies")
		for _, t := range s.TopOffers {
			top.Append([]string{truncate(t.Title, 50), strconv.Itoa(t.Count)})
		}
		top.Render()
	}
	return nil
}

// StateSummary prints one line per offer state with its count
func (p *Printer) StateSummary(counts map[models.OfferState]int) {
	parts := make([]string, 0, len(models.OfferStates))
	for _, s := range models.OfferStates {
		parts = append(parts, fmt.Sprintf("%s: %d", StateLabel(s), counts[s]))
	}
	fmt.Fprintln(p.out, strings.Join(parts, "  "))
}
