package cli

import (
	"fmt"

	"github.com/julianstephens/blockytime/internal/commit"
	"github.com/julianstephens/blockytime/internal/selection"
)

type BlocksCmd struct {
	List   BlocksListCmd   `cmd:"" help:"List blocks in a date range." default:"1"`
	Assign BlocksAssignCmd `cmd:"" help:"Assign a type to a cell or a range of cells."`
	Clear  BlocksClearCmd  `cmd:"" help:"Erase a cell or a range of cells."`
}

type BlocksListCmd struct {
	Start string `arg:"" optional:"" help:"Start date (YYYY-MM-DD, 'today' or 'yesterday')."`
	End   string `arg:"" optional:"" help:"End date, inclusive. Defaults to the start date."`
}

func (cmd *BlocksListCmd) Run(ctx *Context) error {
	start, end, err := ctx.ResolveRange(cmd.Start, cmd.End)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Request()
	defer cancel()
	blocks, err := ctx.Cache.GetBlocksByDateString(rctx, start, end)
	if err != nil {
		return remote("listing blocks", err)
	}

	ctx.Printer.Blocks(blocks, ctx.Location)
	return nil
}

// CellRange names the cells a write applies to.
type CellRange struct {
	From     string `arg:"" help:"First cell (YYYY-MM-DD-H-M or 'YYYY-MM-DD HH:MM')."`
	To       string `arg:"" optional:"" help:"Last cell, inclusive. Omit to target a single cell."`
	HalfHour bool   `help:"Select whole half-hours." name:"half-hour"`
}

// selection replays the range as a gesture on a fresh store so the CLI
// targets exactly the cells the grid would.
func (r CellRange) selection() (*selection.Store, error) {
	from, err := ParseCell(r.From)
	if err != nil {
		return nil, err
	}

	store := selection.NewStore()
	if r.To == "" {
		store.Toggle(from, r.HalfHour)
		return store, nil
	}

	to, err := ParseCell(r.To)
	if err != nil {
		return nil, err
	}
	if from.Date != to.Date && !from.Before(to) {
		return nil, fmt.Errorf("range end %s is before its start %s", to, from)
	}
	store.StartDrag(from, r.HalfHour)
	store.UpdateDrag(to, r.HalfHour)
	store.EndDrag()
	return store, nil
}

type BlocksAssignCmd struct {
	CellRange `embed:""`
	Type      int    `help:"Type uid to assign." required:""`
	Project   int    `help:"Project uid to assign."`
	Comment   string `help:"Comment stored on each block."`
}

func (cmd *BlocksAssignCmd) Run(ctx *Context) error {
	store, err := cmd.selection()
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Request()
	defer cancel()
	n, err := commit.New(ctx.Cache, store, ctx.Location).Assign(rctx, commit.Assignment{
		TypeUID:    cmd.Type,
		ProjectUID: cmd.Project,
		Comment:    cmd.Comment,
	})
	if err != nil {
		return remote("assigning blocks", err)
	}

	fmt.Fprintf(ctx.Printer.Out, "✓ Assigned type %d to %d block(s)\n", cmd.Type, n)
	return nil
}

type BlocksClearCmd struct {
	CellRange `embed:""`
	Comment   string `help:"Comment sent with the delete."`
}

func (cmd *BlocksClearCmd) Run(ctx *Context) error {
	store, err := cmd.selection()
	if err != nil {
		return err
	}

	rctx, cancel := ctx.Request()
	defer cancel()
	n, err := commit.New(ctx.Cache, store, ctx.Location).Erase(rctx, cmd.Comment)
	if err != nil {
		return remote("clearing blocks", err)
	}

	fmt.Fprintf(ctx.Printer.Out, "✓ Cleared %d block(s)\n", n)
	return nil
}
