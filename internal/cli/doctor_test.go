package cli

import (
	"net/http"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"
)

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}

func TestDoctorCmd_HealthyServer(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, out := setupTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy server: %v\n%s", err, out.String())
	}
	if !contains(out.String(), "All diagnostics passed!") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestDoctorCmd_MissingToken(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, out := setupTestContext(t)

	// Missing token is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command should not fail on missing token: %v", err)
	}
	if !contains(out.String(), "⚠ API token: WARNING") {
		t.Errorf("expected token warning:\n%s", out.String())
	}
}

func TestDoctorCmd_ServerError(t *testing.T) {
	gokeyring.MockInit()
	ctx, fake, out := setupTestContext(t)
	fake.failWith = http.StatusInternalServerError

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail when the server errors")
	}
	if !contains(out.String(), "❌ Server reachable: FAIL") {
		t.Errorf("expected server failure:\n%s", out.String())
	}
	if !contains(out.String(), "⊘ Block types: SKIPPED") {
		t.Errorf("type check should be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_InvalidConfig(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, out := setupTestContext(t)
	ctx.Config.Days = 9

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail on invalid config")
	}
	if !contains(out.String(), "❌ Configuration: FAIL") {
		t.Errorf("expected config failure:\n%s", out.String())
	}
}

func TestCheckClockTimezone(t *testing.T) {
	var sb strings.Builder

	if err := checkClockTimezone(&sb, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC); err == nil {
		t.Error("a clock in 1999 should fail")
	}
	if err := checkClockTimezone(&sb, time.Date(2024, 1, 3, 10, 20, 0, 0, time.UTC), time.UTC); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !contains(sb.String(), "timezone is UTC") {
		t.Errorf("expected UTC note, got %q", sb.String())
	}
}
