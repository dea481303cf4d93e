package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/blockytime/internal/api"
	"github.com/julianstephens/blockytime/internal/blockcache"
	"github.com/julianstephens/blockytime/internal/blockid"
	"github.com/julianstephens/blockytime/internal/config"
	"github.com/julianstephens/blockytime/internal/constants"
	apperrors "github.com/julianstephens/blockytime/internal/errors"
	"github.com/julianstephens/blockytime/internal/keyring"
	"github.com/julianstephens/blockytime/internal/logger"
	"github.com/julianstephens/blockytime/internal/printers"
)

type Context struct {
	Config      *config.Config
	Client      *api.Client
	Cache       *blockcache.Cache
	Location    *time.Location
	Printer     *printers.Printer
	TokenSource keyring.Source
	Now         func() time.Time
}

// NewContext builds the API client and block cache from cfg. A keyring that
// cannot be read is logged and the client runs without a token.
func NewContext(cfg *config.Config) (*Context, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	token, source, err := keyring.ResolveToken()
	if err != nil {
		logger.Warn("Reading api token failed", "error", err)
		token, source = "", keyring.SourceNone
	}

	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout), api.WithToken(token))
	if err != nil {
		return nil, err
	}

	return &Context{
		Config:      cfg,
		Client:      client,
		Cache:       blockcache.New(client, blockcache.WithTTL(cfg.CacheTTL)),
		Location:    loc,
		Printer:     printers.New(),
		TokenSource: source,
		Now:         time.Now,
	}, nil
}

// Request returns a context bounded by the configured timeout.
func (c *Context) Request() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Config.Timeout)
}

// Today returns the current date in the configured timezone.
func (c *Context) Today() string {
	return c.Now().In(c.Location).Format(constants.DateFormat)
}

// ResolveDate accepts YYYY-MM-DD, "today" or "yesterday". Empty means today.
func (c *Context) ResolveDate(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return c.Now().In(c.Location).AddDate(0, 0, -1).Format(constants.DateFormat), nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, 'today' or 'yesterday')", s)
	}
	return s, nil
}

// ResolveRange resolves start and end, defaulting end to start.
func (c *Context) ResolveRange(start, end string) (string, string, error) {
	s, err := c.ResolveDate(start)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(end) == "" {
		return s, s, nil
	}
	e, err := c.ResolveDate(end)
	if err != nil {
		return "", "", err
	}
	if e < s {
		return "", "", fmt.Errorf("end date %s is before start date %s", e, s)
	}
	return s, e, nil
}

// ParseCell accepts a block key (2024-01-01-10-15) or "YYYY-MM-DD HH:MM" on
// a quarter-hour boundary.
func ParseCell(s string) (blockid.ID, error) {
	s = strings.TrimSpace(s)
	if id, err := blockid.Parse(s); err == nil {
		return id, nil
	}
	t, err := time.Parse(constants.DateFormat+" "+constants.TimeFormat, s)
	if err != nil {
		return blockid.ID{}, fmt.Errorf("invalid cell %q (expected YYYY-MM-DD-H-M or 'YYYY-MM-DD HH:MM')", s)
	}
	if t.Minute()%constants.QuarterMinutes != 0 {
		return blockid.ID{}, fmt.Errorf("cell %q is not on a quarter-hour boundary", s)
	}
	return blockid.FromTime(t), nil
}

// remote wraps a failed server call with a one-line description. Local
// failures such as validation errors keep their own message.
func remote(op string, err error) error {
	var apiErr *api.Error
	var urlErr *url.Error
	if errors.As(err, &apiErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %s", op, apperrors.Describe(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
