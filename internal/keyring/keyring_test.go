package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/blockytime/internal/constants"
)

func TestSetAndGetToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("  s3cret\n"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	got, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("GetToken() = %q, want %q", got, "s3cret")
	}
}

func TestSetTokenEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("   "); err == nil {
		t.Error("SetToken with blank token should return an error")
	}
}

func TestGetTokenNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteToken()

	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("GetToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("abc"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if err := DeleteToken(); err != ErrNotFound {
		t.Errorf("second DeleteToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		stored     string
		wantToken  string
		wantSource Source
	}{
		{"env wins", "from-env", "from-keyring", "from-env", SourceEnv},
		{"keyring fallback", "", "from-keyring", "from-keyring", SourceKeyring},
		{"nothing configured", "", "", "", SourceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gokeyring.MockInit()
			t.Setenv(constants.TokenEnvVar, tt.env)
			if tt.stored != "" {
				if err := SetToken(tt.stored); err != nil {
					t.Fatalf("SetToken() failed: %v", err)
				}
			}

			token, source, err := ResolveToken()
			if err != nil {
				t.Fatalf("ResolveToken() error = %v", err)
			}
			if token != tt.wantToken || source != tt.wantSource {
				t.Errorf("ResolveToken() = (%q, %q), want (%q, %q)", token, source, tt.wantToken, tt.wantSource)
			}
		})
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring, want true")
	}
}
