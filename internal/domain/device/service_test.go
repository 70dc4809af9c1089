package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
)

type staticStates []host.EntityState

func (s staticStates) MediaPlayers() []host.EntityState { return s }

func TestNewService_GeneratesIdentity(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "identity.json")

	svc, err := NewService(configPath, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	info := svc.Info()
	if len(info.UUID) != 36 {
		t.Errorf("UUID should be 36 characters, got %d: %s", len(info.UUID), info.UUID)
	}
	if info.Name == "" {
		t.Error("Name should not be empty")
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("identity file should exist: %v", err)
	}
}

func TestNewService_PersistsIdentity(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "identity.json")

	svc1, err := NewService(configPath, nil)
	if err != nil {
		t.Fatalf("NewService (1) failed: %v", err)
	}
	svc2, err := NewService(configPath, nil)
	if err != nil {
		t.Fatalf("NewService (2) failed: %v", err)
	}

	if svc1.Info().UUID != svc2.Info().UUID {
		t.Errorf("UUID should persist: %s != %s", svc1.Info().UUID, svc2.Info().UUID)
	}
}

func TestNewService_ReplacesCorruptIdentity(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(configPath, []byte(`{"uuid":"not-a-uuid"}`), 0644); err != nil {
		t.Fatalf("failed to write identity: %v", err)
	}

	svc, err := NewService(configPath, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if svc.Info().UUID == "not-a-uuid" {
		t.Error("corrupt uuid should be replaced")
	}
}

func TestSetName(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "identity.json")
	svc, err := NewService(configPath, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if err := svc.SetName("Kitchen Panel"); err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if err := svc.SetName("   "); err == nil {
		t.Error("SetName should reject empty names")
	}

	svc2, err := NewService(configPath, nil)
	if err != nil {
		t.Fatalf("NewService (2) failed: %v", err)
	}
	if svc2.Info().Name != "Kitchen Panel" {
		t.Errorf("Name should persist, got %q", svc2.Info().Name)
	}
}

func TestPlayersSortedByName(t *testing.T) {
	states := staticStates{
		{EntityID: "media_player.zeta", FriendlyName: "Zeta Speaker"},
		{EntityID: "light.kitchen", FriendlyName: "Kitchen"},
		{EntityID: "media_player.alpha"},
		{EntityID: "media_player.browser_tab", FriendlyName: "browser tab"},
	}
	svc, err := NewService(filepath.Join(t.TempDir(), "identity.json"), states)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	players := svc.Players()
	if len(players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(players))
	}
	want := []string{"browser tab", "media_player.alpha", "Zeta Speaker"}
	for i, p := range players {
		if p.Name != want[i] {
			t.Errorf("players[%d] = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestResolve(t *testing.T) {
	states := staticStates{
		{EntityID: "media_player.b", FriendlyName: "B"},
		{EntityID: "media_player.a", FriendlyName: "A"},
	}
	svc, err := NewService(filepath.Join(t.TempDir(), "identity.json"), states)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if got := svc.Resolve("media_player.b"); got != "media_player.b" {
		t.Errorf("expected configured player, got %q", got)
	}
	if got := svc.Resolve("media_player.gone", "media_player.b"); got != "media_player.b" {
		t.Errorf("expected second candidate, got %q", got)
	}
	if got := svc.Resolve("", "media_player.gone"); got != "media_player.a" {
		t.Errorf("expected first player by name, got %q", got)
	}

	empty, err := NewService(filepath.Join(t.TempDir(), "identity.json"), staticStates{})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if got := empty.Resolve("media_player.a"); got != "" {
		t.Errorf("expected no player, got %q", got)
	}
}
