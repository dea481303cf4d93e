package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julianstephens/blockytime/internal/models"
)

// GetBlocks lists the blocks between two YYYY-MM-DD dates.
func (c *Client) GetBlocks(ctx context.Context, start, end string) ([]models.Block, error) {
	var blocks []models.Block
	if err := c.call(ctx, http.MethodGet, "/blocks", dateRange(start, end), nil, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// UpdateBlocks sends one batch of upserts and deletes. The batch succeeds or
// fails as a whole.
func (c *Client) UpdateBlocks(ctx context.Context, items []models.BlockUpdate) error {
	if len(items) == 0 {
		return fmt.Errorf("%s /blocks: empty batch", http.MethodPut)
	}
	return c.call(ctx, http.MethodPut, "/blocks", nil, items, nil)
}
