// Package commit turns the current selection into a batch write and, once
// the server accepts it, resets the selection and signals a refresh.
package commit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/logger"
	"github.com/julianstephens/blockytime/internal/models"
)

// ErrEmptySelection is returned when there is nothing to commit.
var ErrEmptySelection = errors.New("no blocks selected")

// Mutator applies a batch of block updates.
type Mutator interface {
	UpdateBlocks(ctx context.Context, items []models.BlockUpdate) error
}

// Selection is the part of the selection store the committer drives.
type Selection interface {
	SelectedIDs() []blockid.ID
	Clear()
	TriggerRefresh() uint64
}

// Assignment is what gets written onto each selected block.
type Assignment struct {
	TypeUID    int
	ProjectUID int
	Comment    string
}

// Committer is safe for concurrent use as long as its collaborators are.
type Committer struct {
	mutator Mutator
	sel     Selection
	loc     *time.Location
}

// New returns a committer that converts block ids to instants in loc.
func New(m Mutator, sel Selection, loc *time.Location) *Committer {
	if loc == nil {
		loc = time.Local
	}
	return &Committer{mutator: m, sel: sel, loc: loc}
}

// Assign upserts the assignment onto every selected block and returns how
// many blocks were written.
func (c *Committer) Assign(ctx context.Context, a Assignment) (int, error) {
	if a.TypeUID <= 0 {
		return 0, fmt.Errorf("type uid must be positive, got %d", a.TypeUID)
	}
	items, err := UpsertItems(c.sel.SelectedIDs(), c.loc, a)
	if err != nil {
		return 0, err
	}
	return c.commit(ctx, items)
}

// Erase deletes every selected block.
func (c *Committer) Erase(ctx context.Context, comment string) (int, error) {
	items, err := DeleteItems(c.sel.SelectedIDs(), c.loc, comment)
	if err != nil {
		return 0, err
	}
	return c.commit(ctx, items)
}

func (c *Committer) commit(ctx context.Context, items []models.BlockUpdate) (int, error) {
	if len(items) == 0 {
		return 0, ErrEmptySelection
	}
	if err := c.mutator.UpdateBlocks(ctx, items); err != nil {
		// selection is kept so the user can retry
		return 0, fmt.Errorf("committing %d blocks: %w", len(items), err)
	}

	c.sel.Clear()
	counter := c.sel.TriggerRefresh()
	logger.Info("blocks committed", "items", len(items), "operation", items[0].Operation, "refresh", counter)
	return len(items), nil
}

// UpsertItems builds one upsert per block id.
func UpsertItems(ids []blockid.ID, loc *time.Location, a Assignment) ([]models.BlockUpdate, error) {
	items := make([]models.BlockUpdate, 0, len(ids))
	for _, id := range ids {
		ts, err := id.Unix(loc)
		if err != nil {
			return nil, err
		}
		items = append(items, models.NewUpsert(ts, a.TypeUID, a.ProjectUID, a.Comment))
	}
	return items, nil
}

// DeleteItems builds one delete per block id.
func DeleteItems(ids []blockid.ID, loc *time.Location, comment string) ([]models.BlockUpdate, error) {
	items := make([]models.BlockUpdate, 0, len(ids))
	for _, id := range ids {
		ts, err := id.Unix(loc)
		if err != nil {
			return nil, err
		}
		items = append(items, models.NewDelete(ts, comment))
	}
	return items, nil
}
