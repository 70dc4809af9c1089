package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
	"github.com/edumarques81/stellar-radio/internal/domain/prefs"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

// fakeBridge records commands in order as "verb:device[:arg]".
type fakeBridge struct {
	mu       sync.Mutex
	states   map[string]host.EntityState
	calls    []string
	tree     map[string]*host.MediaItem
	playErr  error
	volErr   error
	stopErr  error
	onPlay   func()
	browseCt int
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		states: make(map[string]host.EntityState),
		tree:   make(map[string]*host.MediaItem),
	}
}

func (b *fakeBridge) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *fakeBridge) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *fakeBridge) count(prefix string) int {
	n := 0
	for _, c := range b.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (b *fakeBridge) setState(id, state string, volume *float64) {
	b.mu.Lock()
	b.states[id] = host.EntityState{EntityID: id, State: state, VolumeLevel: volume}
	b.mu.Unlock()
}

func (b *fakeBridge) Browse(ctx context.Context, deviceID, contentID, contentType string) (*host.MediaItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.browseCt++
	item, ok := b.tree[contentID]
	if !ok {
		return nil, fmt.Errorf("unknown content %s", contentID)
	}
	return item, nil
}

func (b *fakeBridge) SetVolume(ctx context.Context, deviceID string, level float64) error {
	b.record(fmt.Sprintf("set_volume:%s:%.2f", deviceID, level))
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.volErr
}

func (b *fakeBridge) PlayMedia(ctx context.Context, deviceID, contentID, contentType string) error {
	b.record(fmt.Sprintf("play_media:%s:%s", deviceID, contentID))
	b.mu.Lock()
	hook := b.onPlay
	err := b.playErr
	b.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (b *fakeBridge) PlayPause(ctx context.Context, deviceID string) error {
	b.record("play_pause:" + deviceID)
	return nil
}

func (b *fakeBridge) StopMedia(ctx context.Context, deviceID string) error {
	b.record("stop:" + deviceID)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopErr
}

func (b *fakeBridge) State(entityID string) (host.EntityState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.states[entityID]
	return st, ok
}

func (b *fakeBridge) MediaPlayers() []host.EntityState {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]host.EntityState, 0, len(b.states))
	for _, st := range b.states {
		out = append(out, st)
	}
	return out
}

// fakeLocal is an in-memory local player.
type fakeLocal struct {
	mu      sync.Mutex
	uri     string
	volume  int
	paused  bool
	stopped int
	played  int
	playErr error
}

func (l *fakeLocal) PlayURI(uri string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.playErr != nil {
		return l.playErr
	}
	l.uri = uri
	l.paused = false
	l.played++
	return nil
}

func (l *fakeLocal) SetVolume(percent int) error {
	l.mu.Lock()
	l.volume = percent
	l.mu.Unlock()
	return nil
}

func (l *fakeLocal) Resume() error {
	l.mu.Lock()
	l.paused = false
	l.mu.Unlock()
	return nil
}

func (l *fakeLocal) Pause() error {
	l.mu.Lock()
	l.paused = true
	l.mu.Unlock()
	return nil
}

func (l *fakeLocal) Stop() error {
	l.mu.Lock()
	l.stopped++
	l.uri = ""
	l.mu.Unlock()
	return nil
}

func (l *fakeLocal) Paused() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused, nil
}

// memGateway keeps preferences and the session in memory.
type memGateway struct {
	mu           sync.Mutex
	prefs        prefs.Preferences
	session      *prefs.Snapshot
	prefSaves    int
	sessionSaves int
	saveErr      error
}

func newMemGateway() *memGateway {
	return &memGateway{prefs: prefs.Default()}
}

func (g *memGateway) LoadPreferences() prefs.Preferences {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prefs
}

func (g *memGateway) SavePreferences(p prefs.Preferences) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	g.prefs = p
	g.prefSaves++
	return nil
}

func (g *memGateway) LoadSession() *prefs.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	s.Playing = false
	return &s
}

func (g *memGateway) SaveSession(s prefs.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = &s
	g.sessionSaves++
	return nil
}

type countingWakeLock struct {
	acquired int
	released int
}

func (w *countingWakeLock) Acquire() error { w.acquired++; return nil }
func (w *countingWakeLock) Release() error { w.released++; return nil }

func testOptions(device string) Options {
	opts := DefaultOptions()
	opts.DeviceID = device
	opts.VerifyDelay = time.Hour
	opts.BridgeVerifyDelay = time.Hour
	return opts
}

func newTestController(device string, local LocalElement) (*Controller, *fakeBridge, *memGateway) {
	bridge := newFakeBridge()
	gw := newMemGateway()
	c := NewController(bridge, local, gw, testOptions(device))
	return c, bridge, gw
}

func radio(id, title string) station.Station {
	return station.Station{
		Title:            title,
		MediaContentID:   "media-source://radio_browser/" + id,
		MediaContentType: "audio/mpeg",
		Source:           station.SourceCatalog,
		CanPlay:          true,
	}
}

func stream(title, url string) station.Station {
	return station.Station{
		ID:             title,
		Title:          title,
		MediaContentID: url,
		Source:         station.SourceCustomStream,
		CanPlay:        true,
	}
}

func volume(v float64) *float64 {
	return &v
}
