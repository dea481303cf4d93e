package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/keyring"
)

type AuthCmd struct {
	SetToken   AuthSetTokenCmd   `cmd:"" help:"Store the API token in the OS keyring."`
	ClearToken AuthClearTokenCmd `cmd:"" help:"Remove the API token from the OS keyring."`
	Status     AuthStatusCmd     `cmd:"" help:"Show where the API token comes from." default:"1"`
}

// AuthSetTokenCmd stores the bearer token sent with every request
type AuthSetTokenCmd struct {
	Token string `arg:"" optional:"" help:"API token. Prompted for when omitted."`
}

func (cmd *AuthSetTokenCmd) Run(ctx *Context) error {
	token := cmd.Token
	if token == "" {
		err := huh.NewInput().
			Title("API token").
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("token cannot be empty")
				}
				return nil
			}).
			Run()
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
	}

	if err := keyring.SetToken(token); err != nil {
		return err
	}

	fmt.Fprintln(ctx.Printer.Out, "✓ API token stored in OS keyring")
	if os.Getenv(constants.TokenEnvVar) != "" {
		fmt.Fprintf(ctx.Printer.Out, "  Note: %s is set and takes precedence\n", constants.TokenEnvVar)
	}
	return nil
}

// AuthClearTokenCmd removes the stored token
type AuthClearTokenCmd struct{}

func (cmd *AuthClearTokenCmd) Run(ctx *Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no api token found in keyring")
		}
		return err
	}

	fmt.Fprintln(ctx.Printer.Out, "✓ API token deleted from OS keyring")
	return nil
}

// AuthStatusCmd reports keyring availability and the active token source
type AuthStatusCmd struct{}

func (cmd *AuthStatusCmd) Run(ctx *Context) error {
	out := ctx.Printer.Out
	if keyring.IsAvailable() {
		fmt.Fprintln(out, "✓ OS keyring is available")
	} else {
		fmt.Fprintln(out, "⚠ OS keyring is not available on this system")
	}

	_, source, err := keyring.ResolveToken()
	if err != nil {
		return fmt.Errorf("resolving api token: %w", err)
	}
	switch source {
	case keyring.SourceEnv:
		fmt.Fprintf(out, "✓ Token from %s\n", constants.TokenEnvVar)
	case keyring.SourceKeyring:
		fmt.Fprintln(out, "✓ Token from OS keyring")
	default:
		fmt.Fprintln(out, "ℹ No API token configured; requests are sent unauthenticated")
	}
	return nil
}
