package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/blockytime/internal/models"
)

// GetConfig fetches the server configuration. Precision arrives as 0/1/2 or
// by name and is normalised by models.Precision.
func (c *Client) GetConfig(ctx context.Context) (models.ServerConfig, error) {
	var cfg models.ServerConfig
	if err := c.call(ctx, http.MethodGet, "/configs", nil, nil, &cfg); err != nil {
		return models.ServerConfig{}, err
	}
	return cfg, nil
}
