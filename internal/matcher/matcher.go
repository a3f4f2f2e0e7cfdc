package matcher

import (
	"strings"

	"github.com/khrees2412/stageconnect/pkg/models"
)

// OfferCriteria narrows an already fetched offer list. Zero fields match
// everything.
type OfferCriteria struct {
	ContactEmail string              // offers managed by this contact
	States       []models.OfferState // any of these states
	Text         string              // substring of title, organisme or description
	RemoteOnly   bool
}

// FilterOffers returns the offers matching c, preserving order
func FilterOffers(offers []models.Offer, c OfferCriteria) []models.Offer {
	filtered := []models.Offer{}
	for _, offer := range offers {
		if MatchesOffer(offer, c) {
			filtered = append(filtered, offer)
		}
	}
	return filtered
}

// MatchesOffer reports whether a single offer satisfies every criterion
func MatchesOffer(offer models.Offer, c OfferCriteria) bool {
	if c.ContactEmail != "" && !OwnedBy(offer, c.ContactEmail) {
		return false
	}
	if len(c.States) > 0 && !hasState(offer.State, c.States) {
		return false
	}
	if c.RemoteOnly && (offer.Remote == nil || !*offer.Remote) {
		return false
	}
	if c.Text != "" && !matchText(offer, c.Text) {
		return false
	}
	return true
}

// OwnedBy compares the contact email of the offer with email, ignoring case
func OwnedBy(offer models.Offer, email string) bool {
	return strings.EqualFold(strings.TrimSpace(offer.ContactEmail), strings.TrimSpace(email))
}

func hasState(state models.OfferState, states []models.OfferState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

func matchText(offer models.Offer, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	for _, field := range []string{offer.Title, offer.Organisme, offer.Description, offer.City, offer.Domain} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// CountByState tallies offers per lifecycle state. Every known state is
// present in the result, possibly with zero.
func CountByState(offers []models.Offer) map[models.OfferState]int {
	counts := make(map[models.OfferState]int, len(models.OfferStates))
	for _, s := range models.OfferStates {
		counts[s] = 0
	}
	for _, offer := range offers {
		counts[offer.State]++
	}
	return counts
}

// FilterCandidatures keeps the candidacies with the given status; an empty
// status keeps all of them.
func FilterCandidatures(candidatures []models.Candidature, status models.CandidatureStatus) []models.Candidature {
	if status == "" {
		return candidatures
	}
	filtered := []models.Candidature{}
	for _, c := range candidatures {
		if c.Status == status {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
