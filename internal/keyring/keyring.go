package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/blockytime/internal/constants"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring
	ErrNotFound = errors.New("api token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Source says where a resolved token came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// GetToken retrieves the API token from the OS keyring.
// Returns ErrNotFound if no token is stored.
func GetToken() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// SetToken stores the API token in the OS keyring.
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("api token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, token); err != nil {
		return fmt.Errorf("failed to store api token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the API token from the OS keyring.
func DeleteToken() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete api token from keyring: %w", err)
	}
	return nil
}

// ResolveToken returns the token to send, preferring the environment over
// the keyring. A missing token is not an error; the server may not require
// one. An unavailable keyring is reported so callers can warn.
func ResolveToken() (string, Source, error) {
	if token := strings.TrimSpace(os.Getenv(constants.TokenEnvVar)); token != "" {
		return token, SourceEnv, nil
	}
	token, err := GetToken()
	switch {
	case err == nil:
		return token, SourceKeyring, nil
	case errors.Is(err, ErrNotFound):
		return "", SourceNone, nil
	default:
		return "", SourceNone, err
	}
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered
	return err == nil || err == keyring.ErrNotFound
}
