package socketio_test

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/edumarques81/stellar-radio/internal/domain/player"
	"github.com/edumarques81/stellar-radio/internal/domain/prefs"
	"github.com/edumarques81/stellar-radio/internal/mocks"
	"github.com/edumarques81/stellar-radio/internal/transport/socketio"
)

type memGateway struct {
	prefs   prefs.Preferences
	session *prefs.Snapshot
}

func (g *memGateway) LoadPreferences() prefs.Preferences       { return g.prefs }
func (g *memGateway) SavePreferences(p prefs.Preferences) error { g.prefs = p; return nil }
func (g *memGateway) LoadSession() *prefs.Snapshot              { return g.session }
func (g *memGateway) SaveSession(s prefs.Snapshot) error        { g.session = &s; return nil }

func newController(t *testing.T) *player.Controller {
	t.Helper()
	mockCtrl := gomock.NewController(t)
	bridge := mocks.NewMockBridge(mockCtrl)
	return player.NewController(bridge, nil, &memGateway{prefs: prefs.Default()}, player.DefaultOptions())
}

func TestNewServer(t *testing.T) {
	server, err := socketio.NewServer(newController(t), nil, 0)
	if err != nil {
		t.Fatalf("NewServer should not return error: %v", err)
	}
	if server == nil {
		t.Fatal("NewServer should return a non-nil server")
	}
	if err := server.Close(); err != nil {
		t.Errorf("Close should not error: %v", err)
	}
}

func TestNewServerRequiresController(t *testing.T) {
	if _, err := socketio.NewServer(nil, nil, 0); err == nil {
		t.Error("expected error for nil controller")
	}
}

func TestServerBroadcastsWithoutClients(t *testing.T) {
	server, err := socketio.NewServer(newController(t), nil, 0)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer server.Close()

	// Broadcasts should not panic with no clients
	server.BroadcastState()
	server.BroadcastStations()
	server.BroadcastPlayers()

	if server.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", server.ClientCount())
	}
}

func TestServerSessionEventsWithoutClients(t *testing.T) {
	ctrl := newController(t)
	server, err := socketio.NewServer(ctrl, nil, 0)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer server.Close()

	// Session changes are routed through the debouncer and must not block.
	ctrl.Select(2)
	ctrl.SetSearch("jazz")
	ctrl.SetSleepTimer(0)
}
