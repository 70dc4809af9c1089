// Package socketio provides the Socket.io server for client communication.
package socketio

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/edumarques81/stellar-radio/internal/domain/device"
	"github.com/edumarques81/stellar-radio/internal/domain/player"
)

// DefaultMaxExternalClients is the number of concurrent non-local displays.
const DefaultMaxExternalClients = 4

const (
	broadcastWindow = 50 * time.Millisecond
	commandTimeout  = 15 * time.Second
)

// Server handles Socket.io connections and events.
type Server struct {
	io        *socket.Server
	ctrl      *player.Controller
	devices   *device.Service
	limiter   *ConnectionLimiter
	debouncer *BroadcastDebouncer

	mu      sync.RWMutex
	clients map[string]*socket.Socket
}

// NewServer creates a new Socket.io server and subscribes it to the session.
// devices may be nil.
func NewServer(ctrl *player.Controller, devices *device.Service, maxExternal int) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("socketio: nil controller")
	}
	if maxExternal <= 0 {
		maxExternal = DefaultMaxExternalClients
	}

	// Configure Socket.io server options
	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(20 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	s := &Server{
		io:      socket.NewServer(nil, opts),
		ctrl:    ctrl,
		devices: devices,
		limiter: NewConnectionLimiter(maxExternal),
		clients: make(map[string]*socket.Socket),
	}
	s.debouncer = NewBroadcastDebouncer(broadcastWindow, s.BroadcastState, s.BroadcastStations)

	ctrl.Subscribe(s.handleSessionEvent)
	ctrl.SetWakeLock(&clientWakeLock{server: s})

	s.setupHandlers()

	return s, nil
}

func (s *Server) handleSessionEvent(ev player.Event) {
	switch ev.Kind {
	case player.EventState:
		s.debouncer.Trigger(TopicState)
	case player.EventStations:
		s.debouncer.Trigger(TopicStations)
	case player.EventMessage:
		s.io.Emit("pushToastMessage", toast("warning", ev.Message))
	}
}

// setupHandlers registers all Socket.io event handlers.
func (s *Server) setupHandlers() {
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		clientID := string(client.Id())
		addr := remoteIP(client.Handshake().Address)

		log.Info().Str("id", clientID).Str("addr", addr).Msg("Client connected")

		_, evicted := s.limiter.TryAdd(clientID, addr)

		s.mu.Lock()
		s.clients[clientID] = client
		old := s.clients[evicted]
		s.mu.Unlock()

		if old != nil {
			log.Info().Str("id", evicted).Msg("Evicting oldest external client")
			old.Disconnect(true)
		}

		// Send initial state after small delay
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.pushStations(client)
			s.pushState(client)
		}()

		// Handle disconnect
		client.On("disconnect", func(args ...any) {
			reason := ""
			if len(args) > 0 {
				if r, ok := args[0].(string); ok {
					reason = r
				}
			}
			log.Info().Str("id", clientID).Str("reason", reason).Msg("Client disconnected")

			s.limiter.Remove(clientID)
			s.mu.Lock()
			delete(s.clients, clientID)
			s.mu.Unlock()
		})

		s.registerPlaybackHandlers(client, clientID)
		s.registerBrowseHandlers(client, clientID)
		s.registerLibraryHandlers(client, clientID)
		s.registerSettingsHandlers(client, clientID)
	})
}

// pushState sends current state to a client.
func (s *Server) pushState(client *socket.Socket) {
	client.Emit("pushState", s.ctrl.View().ToJSON())
}

// pushStations sends the station lists to a client.
func (s *Server) pushStations(client *socket.Socket) {
	client.Emit("pushStations", s.ctrl.Stations())
}

// BroadcastState sends state to all connected clients.
func (s *Server) BroadcastState() {
	state := s.ctrl.View().ToJSON()
	s.io.Emit("pushState", state)

	if log.Debug().Enabled() {
		data, _ := json.Marshal(state)
		log.Debug().RawJSON("state", data).Int("clients", s.ClientCount()).Msg("Broadcast state")
	}
}

// BroadcastStations sends the station lists to all connected clients.
func (s *Server) BroadcastStations() {
	s.io.Emit("pushStations", s.ctrl.Stations())
}

// BroadcastPlayers sends the media player directory to all connected clients.
func (s *Server) BroadcastPlayers() {
	s.io.Emit("pushPlayers", s.players())
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ServeHTTP implements http.Handler for the Socket.io server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHandler(nil).ServeHTTP(w, r)
}

// Close closes the Socket.io server.
func (s *Server) Close() error {
	s.debouncer.Stop()
	s.io.Close(nil)
	return nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func toast(kind, message string) map[string]interface{} {
	return map[string]interface{}{
		"type":    kind,
		"title":   "Stellar Radio",
		"message": message,
	}
}

// remoteIP strips the port from a socket address.
func remoteIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
