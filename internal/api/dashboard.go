package api

import (
	"context"
	"net/http"

	"github.com/khrees2412/stageconnect/pkg/models"
)

// DashboardStats returns the platform aggregates. Only managers and
// administrators are allowed; others get a 403.
func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.Do(ctx, http.MethodGet, "/dashboard/stats/", nil, &stats)
	return stats, err
}
