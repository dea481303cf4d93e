package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/blockytime/internal/api"
	"github.com/julianstephens/blockytime/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Describe turns a failed server call into a single line for the status bar
// or terminal.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *api.Error
	switch {
	case stderrors.As(err, &apiErr) && apiErr.Envelope:
		return fmt.Sprintf("server reported: %s", apiErr.Message)
	case stderrors.As(err, &apiErr):
		if apiErr.Message == "" {
			return fmt.Sprintf("server rejected request (HTTP %d)", apiErr.StatusCode)
		}
		return fmt.Sprintf("server rejected request (HTTP %d): %s", apiErr.StatusCode, apiErr.Message)
	case stderrors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case stderrors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return fmt.Sprintf("cannot reach server: %v", err)
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
