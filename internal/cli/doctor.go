package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/blockytime/internal/api"
	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	out := ctx.Printer.Out
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	hasError := false
	serverReachable := false

	// Check 1: Config valid
	if err := ctx.Config.Validate(); err != nil {
		fmt.Fprintf(out, "❌ Configuration: FAIL\n")
		fmt.Fprintf(out, "   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Fprintf(out, "✓ Configuration: OK\n")
		if ctx.Config.File != "" {
			fmt.Fprintf(out, "   Loaded from %s\n", ctx.Config.File)
		}
	}

	// Check 2: Token (warning only)
	if err := checkToken(ctx); err != nil {
		fmt.Fprintf(out, "⚠ API token: WARNING\n")
		fmt.Fprintf(out, "   %v\n", err)
	} else {
		fmt.Fprintf(out, "✓ API token: OK (%s)\n", ctx.TokenSource)
	}

	// Check 3: Server reachable
	if err := checkServerReachable(ctx); err != nil {
		fmt.Fprintf(out, "❌ Server reachable: FAIL\n")
		fmt.Fprintf(out, "   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Fprintf(out, "✓ Server reachable: OK (%s)\n", ctx.Client.BaseURL())
		serverReachable = true
	}

	// Check 4: Types available (only if server is reachable)
	if serverReachable {
		if err := checkTypes(ctx); err != nil {
			fmt.Fprintf(out, "❌ Block types: FAIL\n")
			fmt.Fprintf(out, "   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Fprintf(out, "✓ Block types: OK\n")
		}
	} else {
		fmt.Fprintf(out, "⊘ Block types: SKIPPED (server not reachable)\n")
	}

	// Check 5: Clock/timezone sanity
	if err := checkClockTimezone(out, ctx.Now(), ctx.Location); err != nil {
		fmt.Fprintf(out, "❌ Clock/timezone: FAIL\n")
		fmt.Fprintf(out, "   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Fprintf(out, "✓ Clock/timezone: OK (%s)\n", ctx.Location)
	}

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func checkToken(ctx *Context) error {
	if ctx.TokenSource != keyring.SourceNone && ctx.TokenSource != "" {
		return nil
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("no token configured and the OS keyring is unavailable")
	}
	return fmt.Errorf("no token configured - set one with 'blockytime auth set-token' if the server requires it")
}

func checkServerReachable(ctx *Context) error {
	rctx, cancel := ctx.Request()
	defer cancel()

	if _, err := ctx.Client.GetConfig(rctx); err != nil {
		if api.IsStatus(err, 401) || api.IsStatus(err, 403) {
			return fmt.Errorf("server refused the api token: %w", err)
		}
		return fmt.Errorf("failed to load server config: %w", err)
	}
	return nil
}

func checkTypes(ctx *Context) error {
	rctx, cancel := ctx.Request()
	defer cancel()

	types, err := ctx.Client.GetTypes(rctx)
	if err != nil {
		return fmt.Errorf("failed to load types: %w", err)
	}

	// Basic validation: check for duplicate uids
	seen := make(map[int]bool)
	for _, t := range types {
		if seen[t.UID] {
			return fmt.Errorf("duplicate type uid found: %d", t.UID)
		}
		seen[t.UID] = true
	}
	if len(seen) == 0 {
		return fmt.Errorf("server has no block types - nothing can be assigned")
	}
	return nil
}

func checkClockTimezone(out io.Writer, now time.Time, loc *time.Location) error {
	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	// Cells must survive a round trip through the configured zone
	id := blockid.FromTime(now.In(loc))
	start, err := id.Time(loc)
	if err != nil {
		return err
	}
	if back := blockid.FromTime(start); back != id {
		return fmt.Errorf("cell %s does not round-trip in %s (got %s)", id, loc, back)
	}

	if loc == time.UTC {
		fmt.Fprintf(out, "   Note: timezone is UTC\n")
	}
	return nil
}
