// Package hass implements the host bridge on the Home Assistant websocket API.
package hass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
	"github.com/edumarques81/stellar-radio/internal/version"
)

var (
	// ErrAuthInvalid is returned when the server rejects the access token.
	ErrAuthInvalid = errors.New("home assistant rejected the access token")

	// ErrDisconnected is returned for calls pending when the connection drops.
	ErrDisconnected = errors.New("home assistant connection closed")

	// ErrTimeout is returned when no result arrives in time.
	ErrTimeout = errors.New("home assistant call timed out")
)

const defaultCallTimeout = 10 * time.Second

type pendingCall struct {
	conn *websocket.Conn
	ch   chan message
}

// Client is a Home Assistant websocket client with a local state cache.
type Client struct {
	url     string
	token   string
	dialer  *websocket.Dialer
	timeout time.Duration

	connMu sync.Mutex
	conn   *websocket.Conn
	closed chan struct{}

	writeMu sync.Mutex
	nextID  int64

	pendingMu sync.Mutex
	pending   map[int64]pendingCall

	statesMu sync.RWMutex
	states   map[string]host.EntityState

	listenerMu sync.RWMutex
	listener   func(host.EntityState)
}

// NewClient creates a client for the websocket endpoint wsURL.
func NewClient(wsURL, token string) *Client {
	if exp, ok := TokenExpiry(token); ok {
		switch {
		case time.Until(exp) <= 0:
			log.Warn().Time("expires", exp).Msg("Home Assistant token has expired")
		case time.Until(exp) < 30*24*time.Hour:
			log.Warn().Time("expires", exp).Msg("Home Assistant token expires soon")
		}
	}

	return &Client{
		url:     wsURL,
		token:   token,
		dialer:  websocket.DefaultDialer,
		timeout: defaultCallTimeout,
		pending: make(map[int64]pendingCall),
		states:  make(map[string]host.EntityState),
	}
}

// WebsocketURL derives the websocket endpoint from a Home Assistant base URL.
func WebsocketURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid home assistant url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid home assistant url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid home assistant url: missing host")
	}
	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, "/api/websocket") {
		path += "/api/websocket"
	}
	u.Path = path
	return u.String(), nil
}

// OnStateChange registers fn for entity state changes. fn must not block.
func (c *Client) OnStateChange(fn func(host.EntityState)) {
	c.listenerMu.Lock()
	c.listener = fn
	c.listenerMu.Unlock()
}

// Connect dials, authenticates and loads the entity states.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.connect(ctx)
	return err
}

func (c *Client) connect(ctx context.Context) (<-chan struct{}, error) {
	fresh, closed, err := c.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}
	if fresh {
		if err := c.bootstrap(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return closed, nil
}

// Run keeps the connection up until ctx is done.
func (c *Client) Run(ctx context.Context) {
	backoff := time.Second
	for {
		closed, err := c.connect(ctx)
		if err != nil {
			log.Warn().Err(err).Dur("retry", backoff).Msg("Home Assistant connection failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-closed:
			log.Warn().Msg("Home Assistant connection lost, reconnecting...")
		}
	}
}

// ensureConnected dials when there is no live connection. fresh is true when
// a new connection was made.
func (c *Client) ensureConnected(ctx context.Context) (fresh bool, closed <-chan struct{}, err error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		return false, c.closed, nil
	}

	log.Info().Str("url", c.url).Msg("Connecting to Home Assistant")
	header := http.Header{"User-Agent": {version.UserAgent()}}
	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return false, nil, fmt.Errorf("failed to connect to home assistant: %w", err)
	}
	if err := c.authenticate(conn); err != nil {
		conn.Close()
		return false, nil, err
	}

	c.conn = conn
	c.closed = make(chan struct{})
	go c.readLoop(conn, c.closed)

	log.Info().Msg("Connected to Home Assistant")
	return true, c.closed, nil
}

func (c *Client) authenticate(conn *websocket.Conn) error {
	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("failed to read auth request: %w", err)
	}
	if msg.Type != typeAuthRequired {
		return fmt.Errorf("unexpected message %q during auth", msg.Type)
	}

	if err := conn.WriteJSON(command{"type": typeAuth, "access_token": c.token}); err != nil {
		return fmt.Errorf("failed to send auth: %w", err)
	}

	if err := conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}
	switch msg.Type {
	case typeAuthOK:
		return nil
	case typeAuthInvalid:
		return fmt.Errorf("%w: %s", ErrAuthInvalid, msg.Message)
	default:
		return fmt.Errorf("unexpected message %q during auth", msg.Type)
	}
}

func (c *Client) bootstrap(ctx context.Context) error {
	if _, err := c.roundTrip(ctx, command{"type": typeSubscribe, "event_type": eventStateChanged}); err != nil {
		return fmt.Errorf("failed to subscribe to state changes: %w", err)
	}
	return c.refreshStates(ctx)
}

func (c *Client) refreshStates(ctx context.Context) error {
	raw, err := c.roundTrip(ctx, command{"type": typeGetStates})
	if err != nil {
		return fmt.Errorf("failed to load states: %w", err)
	}
	var list []rawState
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("failed to decode states: %w", err)
	}

	states := make(map[string]host.EntityState, len(list))
	for _, r := range list {
		states[r.EntityID] = r.toEntity()
	}
	c.statesMu.Lock()
	c.states = states
	c.statesMu.Unlock()

	log.Debug().Int("entities", len(states)).Msg("Loaded Home Assistant states")
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, closed chan struct{}) {
	defer func() {
		c.connMu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.connMu.Unlock()
		conn.Close()
		close(closed)
		c.failPending(conn)
	}()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("Home Assistant read ended")
			}
			return
		}

		switch msg.Type {
		case typeResult:
			c.deliver(msg)
		case typeEvent:
			c.handleEvent(msg.Event)
		}
	}
}

func (c *Client) deliver(msg message) {
	c.pendingMu.Lock()
	call, ok := c.pending[msg.ID]
	delete(c.pending, msg.ID)
	c.pendingMu.Unlock()

	if ok {
		call.ch <- msg
	}
}

// failPending wakes the calls sent on conn with ErrDisconnected.
func (c *Client) failPending(conn *websocket.Conn) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for id, call := range c.pending {
		if call.conn == conn {
			delete(c.pending, id)
			close(call.ch)
		}
	}
}

func (c *Client) handleEvent(ev *event) {
	if ev == nil || ev.EventType != eventStateChanged {
		return
	}

	var st host.EntityState
	c.statesMu.Lock()
	if ev.Data.NewState == nil {
		delete(c.states, ev.Data.EntityID)
		st = host.EntityState{EntityID: ev.Data.EntityID, State: host.StateOff}
	} else {
		st = ev.Data.NewState.toEntity()
		c.states[st.EntityID] = st
	}
	c.statesMu.Unlock()

	c.listenerMu.RLock()
	fn := c.listener
	c.listenerMu.RUnlock()
	if fn != nil {
		fn(st)
	}
}

// call sends cmd, reconnecting first when needed, and waits for its result.
func (c *Client) call(ctx context.Context, cmd command) (json.RawMessage, error) {
	if _, err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, cmd)
}

func (c *Client) roundTrip(ctx context.Context, cmd command) (json.RawMessage, error) {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return nil, ErrDisconnected
	}

	id := atomic.AddInt64(&c.nextID, 1)
	cmd["id"] = id
	ch := make(chan message, 1)

	c.pendingMu.Lock()
	c.pending[id] = pendingCall{conn: conn, ch: ch}
	c.pendingMu.Unlock()

	c.writeMu.Lock()
	err := conn.WriteJSON(cmd)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("failed to send %v: %w", cmd["type"], err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, ErrDisconnected
		}
		if !msg.Success {
			if msg.Error != nil {
				return nil, msg.Error
			}
			return nil, fmt.Errorf("home assistant: %v failed", cmd["type"])
		}
		return msg.Result, nil
	case <-timer.C:
		c.forget(id)
		return nil, ErrTimeout
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id int64) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

// Close closes the connection.
func (c *Client) Close() error {
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()

	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return conn.Close()
}

// Browse lists the children of a media container on a device.
func (c *Client) Browse(ctx context.Context, deviceID, contentID, contentType string) (*host.MediaItem, error) {
	raw, err := c.call(ctx, command{
		"type":               typeBrowseMedia,
		"entity_id":          deviceID,
		"media_content_id":   contentID,
		"media_content_type": contentType,
	})
	if err != nil {
		return nil, err
	}
	var item host.MediaItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode browse result: %w", err)
	}
	return &item, nil
}

// SetVolume sets the device volume, level in [0, 1].
func (c *Client) SetVolume(ctx context.Context, deviceID string, level float64) error {
	_, err := c.call(ctx, serviceCall("volume_set", deviceID, map[string]interface{}{"volume_level": level}))
	return err
}

// PlayMedia starts a media item on a device.
func (c *Client) PlayMedia(ctx context.Context, deviceID, contentID, contentType string) error {
	_, err := c.call(ctx, serviceCall("play_media", deviceID, map[string]interface{}{
		"media_content_id":   contentID,
		"media_content_type": contentType,
	}))
	return err
}

// PlayPause toggles playback on a device.
func (c *Client) PlayPause(ctx context.Context, deviceID string) error {
	_, err := c.call(ctx, serviceCall("media_play_pause", deviceID, nil))
	return err
}

// StopMedia stops playback on a device.
func (c *Client) StopMedia(ctx context.Context, deviceID string) error {
	_, err := c.call(ctx, serviceCall("media_stop", deviceID, nil))
	return err
}

// State returns the cached state of an entity.
func (c *Client) State(entityID string) (host.EntityState, bool) {
	c.statesMu.RLock()
	defer c.statesMu.RUnlock()
	st, ok := c.states[entityID]
	return st, ok
}

// MediaPlayers returns the cached media player states ordered by entity id.
func (c *Client) MediaPlayers() []host.EntityState {
	c.statesMu.RLock()
	out := make([]host.EntityState, 0, len(c.states))
	for id, st := range c.states {
		if strings.HasPrefix(id, host.MediaPlayerDomain) {
			out = append(out, st)
		}
	}
	c.statesMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}
