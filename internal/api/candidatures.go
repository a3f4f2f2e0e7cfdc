package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/khrees2412/stageconnect/pkg/models"
)

// ListCandidatures returns the candidacies visible to the current user: a
// student sees their own, managers see all of them.
func (c *Client) ListCandidatures(ctx context.Context) ([]models.Candidature, error) {
	candidatures := []models.Candidature{}
	err := c.Do(ctx, http.MethodGet, "/candidatures/", nil, &candidatures)
	return candidatures, err
}

func (c *Client) WithdrawCandidature(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/candidatures/%d/withdraw/", id), nil, nil)
}

type statusRequest struct {
	Status models.CandidatureStatus `json:"status"`
}

func (c *Client) UpdateCandidatureStatus(ctx context.Context, id int, status models.CandidatureStatus) (models.Candidature, error) {
	if !status.Valid() {
		return models.Candidature{}, fmt.Errorf("invalid candidature status %q", status)
	}
	var candidature models.Candidature
	err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/candidatures/%d/update_status/", id), statusRequest{Status: status}, &candidature)
	return candidature, err
}

// ExportAllCandidaturesPDF downloads the report of every candidacy
func (c *Client) ExportAllCandidaturesPDF(ctx context.Context) ([]byte, error) {
	return c.doBinary(ctx, "/candidatures/export_all_pdf/")
}
