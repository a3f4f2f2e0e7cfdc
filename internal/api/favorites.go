package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/khrees2412/stageconnect/pkg/models"
)

func (c *Client) ListFavorites(ctx context.Context) ([]models.Offer, error) {
	offers := []models.Offer{}
	err := c.Do(ctx, http.MethodGet, "/favorites/", nil, &offers)
	return offers, err
}

// ToggleFavorite adds the offer to the favorites, or removes it if present
func (c *Client) ToggleFavorite(ctx context.Context, offerID int) (models.FavoriteToggle, error) {
	var result models.FavoriteToggle
	err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/favorites/%d/toggle/", offerID), nil, &result)
	return result, err
}
