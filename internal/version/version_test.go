package version_test

import (
	"strings"
	"testing"

	"github.com/edumarques81/stellar-radio/internal/version"
)

func TestGetInfo(t *testing.T) {
	info := version.GetInfo()
	if info.Name != "Stellar Radio" {
		t.Errorf("Expected name 'Stellar Radio', got '%s'", info.Name)
	}
	if info.Version == "" || info.Version != version.Version {
		t.Errorf("unexpected version %q", info.Version)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		info version.Info
		want string
	}{
		{"plain", version.Info{Name: "Stellar Radio", Version: "1.2.3"}, "Stellar Radio v1.2.3"},
		{"commit", version.Info{Name: "Stellar Radio", Version: "1.2.3", GitCommit: "abcdef0123456"}, "Stellar Radio v1.2.3 (abcdef0)"},
		{"short commit", version.Info{Name: "R", Version: "1", GitCommit: "abc"}, "R v1 (abc)"},
		{"build time", version.Info{Name: "R", Version: "1", BuildTime: "2024-01-01"}, "R v1 built 2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	if ua := version.UserAgent(); !strings.HasPrefix(ua, "stellar-radio/") {
		t.Errorf("unexpected user agent %q", ua)
	}
}
