package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/khrees2412/stageconnect/pkg/models"
)

// offerQuery encodes the filter as a query string, skipping empty and "all"
// values.
func offerQuery(f models.OfferFilter) string {
	params := url.Values{}
	add := func(key, value string) {
		if value != "" && value != "all" {
			params.Set(key, value)
		}
	}
	add("search", f.Search)
	add("city", f.City)
	add("duration", f.Duration)
	add("domain", f.Domain)
	add("remote", f.Remote)
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// ListOffers returns the offers visible to the current user, filtered
// server-side.
func (c *Client) ListOffers(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error) {
	offers := []models.Offer{}
	err := c.Do(ctx, http.MethodGet, "/offers/"+offerQuery(filter), nil, &offers)
	return offers, err
}

func (c *Client) GetOffer(ctx context.Context, id int) (models.Offer, error) {
	var offer models.Offer
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/offers/%d/", id), nil, &offer)
	return offer, err
}

func (c *Client) CreateOffer(ctx context.Context, input models.OfferInput) (models.Offer, error) {
	var offer models.Offer
	err := c.Do(ctx, http.MethodPost, "/offers/", input, &offer)
	return offer, err
}

// UpdateOffer sends a partial update; nil fields of input are not changed
func (c *Client) UpdateOffer(ctx context.Context, id int, input models.OfferInput) (models.Offer, error) {
	var offer models.Offer
	err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("/offers/%d/", id), input, &offer)
	return offer, err
}

func (c *Client) DeleteOffer(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/offers/%d/", id), nil, nil)
}

// ExportOfferPDF downloads the PDF sheet of an offer
func (c *Client) ExportOfferPDF(ctx context.Context, id int) ([]byte, error) {
	return c.doBinary(ctx, fmt.Sprintf("/offers/%d/export_pdf/", id))
}

// ApplyToOffer creates a candidacy of the current student on the offer
func (c *Client) ApplyToOffer(ctx context.Context, id int) (models.Candidature, error) {
	var candidature models.Candidature
	err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/offers/%d/apply/", id), nil, &candidature)
	return candidature, err
}

type validateRequest struct {
	Action models.ValidationAction `json:"action"`
}

// ValidateOffer validates or refuses a pending offer
func (c *Client) ValidateOffer(ctx context.Context, id int, action models.ValidationAction) (models.Offer, error) {
	if action != models.ActionValidate && action != models.ActionRefuse {
		return models.Offer{}, fmt.Errorf("invalid validation action %q", action)
	}
	var offer models.Offer
	err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/offers/%d/validate_offer/", id), validateRequest{Action: action}, &offer)
	return offer, err
}

// OfferCandidates lists the candidacies received by an offer
func (c *Client) OfferCandidates(ctx context.Context, id int) ([]models.Candidature, error) {
	candidatures := []models.Candidature{}
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/offers/%d/candidates/", id), nil, &candidatures)
	return candidatures, err
}
