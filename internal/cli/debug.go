package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/blockytime/internal/logger"
)

type DebugCmd struct {
	Config DebugConfigCmd `cmd:"" help:"Show the resolved configuration as JSON."`
	Key    DebugKeyCmd    `cmd:"" help:"Decode block keys as JSON."`
}

type DebugConfigCmd struct{}

func (cmd *DebugConfigCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	// Output in machine-readable format
	output := map[string]any{
		"api_url":      ctx.Client.BaseURL(),
		"timeout":      cfg.Timeout.String(),
		"cache_ttl":    cfg.CacheTTL.String(),
		"long_press":   cfg.LongPress.String(),
		"timezone":     ctx.Location.String(),
		"days":         cfg.Days,
		"debug":        cfg.Debug,
		"config_dir":   cfg.ConfigDir,
		"config_file":  cfg.File,
		"log_file":     logger.LogFile(cfg.ConfigDir),
		"token_source": string(ctx.TokenSource),
	}

	return printJSON(ctx, output)
}

type DebugKeyCmd struct {
	Cells []string `arg:"" help:"Block keys or 'YYYY-MM-DD HH:MM' values."`
}

type keyInfo struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Minutes  int    `json:"minutes"`
	Unix     int64  `json:"unix"`
	Pair     string `json:"half_hour_pair"`
	HalfHour string `json:"half_hour_start"`
}

func (cmd *DebugKeyCmd) Run(ctx *Context) error {
	infos := make([]keyInfo, 0, len(cmd.Cells))
	for _, raw := range cmd.Cells {
		id, err := ParseCell(raw)
		if err != nil {
			return err
		}
		unix, err := id.Unix(ctx.Location)
		if err != nil {
			return err
		}
		infos = append(infos, keyInfo{
			Key:      id.Key(),
			Label:    id.String(),
			Minutes:  id.Minutes(),
			Unix:     unix,
			Pair:     id.Pair().Key(),
			HalfHour: id.HalfHourStart().Key(),
		})
	}

	return printJSON(ctx, infos)
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Fprintln(ctx.Printer.Out, string(jsonBytes))
	return nil
}
