package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/blockytime/internal/models"
)

// GetTypes lists the activity types.
func (c *Client) GetTypes(ctx context.Context) ([]models.BlockType, error) {
	var types []models.BlockType
	if err := c.call(ctx, http.MethodGet, "/types", nil, nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}
