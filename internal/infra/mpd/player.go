// Package mpd drives a local MPD instance as the fallback stream player.
package mpd

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"
)

// MPD player states as reported by status.
const (
	statePause = "pause"
	stateStop  = "stop"
)

// Player wraps the MPD client with reconnection logic.
type Player struct {
	mu       sync.RWMutex
	client   *mpd.Client
	watcher  *mpd.Watcher
	addr     string
	password string
}

// NewPlayer creates a player for the MPD server at host:port.
func NewPlayer(host string, port int, password string) *Player {
	return &Player{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		password: password,
	}
}

// Connect establishes the connection to MPD.
func (p *Player) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.connectLocked()
}

func (p *Player) connectLocked() error {
	log.Info().Str("addr", p.addr).Msg("Connecting to MPD")

	client, err := mpd.DialAuthenticated("tcp", p.addr, p.password)
	if err != nil {
		return fmt.Errorf("failed to connect to MPD: %w", err)
	}

	p.client = client
	log.Info().Msg("Connected to MPD")
	return nil
}

// ensureConnected pings the server and reconnects if the link dropped.
func (p *Player) ensureConnected() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return p.connectLocked()
	}

	if err := p.client.Ping(); err != nil {
		log.Warn().Err(err).Msg("MPD connection lost, reconnecting...")
		p.client.Close()
		p.client = nil
		return p.connectLocked()
	}

	return nil
}

// Close closes the connection and any watcher.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watcher != nil {
		p.watcher.Close()
		p.watcher = nil
	}

	if p.client != nil {
		err := p.client.Close()
		p.client = nil
		return err
	}
	return nil
}

// Ping checks that the connection is alive without reconnecting.
func (p *Player) Ping() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client == nil {
		return fmt.Errorf("not connected")
	}
	return p.client.Ping()
}

func (p *Player) do(fn func(c *mpd.Client) error) error {
	if err := p.ensureConnected(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	return fn(p.client)
}

// PlayURI replaces the queue with uri and starts it.
func (p *Player) PlayURI(uri string) error {
	return p.do(func(c *mpd.Client) error {
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear queue: %w", err)
		}
		if err := c.Add(uri); err != nil {
			return fmt.Errorf("failed to add %s: %w", uri, err)
		}
		if err := c.Play(0); err != nil {
			return fmt.Errorf("failed to play: %w", err)
		}
		log.Debug().Str("uri", uri).Msg("MPD playing stream")
		return nil
	})
}

// SetVolume sets the volume (0-100).
func (p *Player) SetVolume(vol int) error {
	if vol < 0 {
		vol = 0
	} else if vol > 100 {
		vol = 100
	}
	return p.do(func(c *mpd.Client) error {
		return c.SetVolume(vol)
	})
}

// Resume continues a paused stream.
func (p *Player) Resume() error {
	return p.do(func(c *mpd.Client) error {
		return c.Pause(false)
	})
}

// Pause pauses playback.
func (p *Player) Pause() error {
	return p.do(func(c *mpd.Client) error {
		return c.Pause(true)
	})
}

// Stop stops playback.
func (p *Player) Stop() error {
	return p.do(func(c *mpd.Client) error {
		return c.Stop()
	})
}

// State returns play, pause or stop.
func (p *Player) State() (string, error) {
	var state string
	err := p.do(func(c *mpd.Client) error {
		status, err := c.Status()
		if err != nil {
			return err
		}
		state = status["state"]
		return nil
	})
	if state == "" {
		state = stateStop
	}
	return state, err
}

// Paused reports whether MPD holds a paused stream.
func (p *Player) Paused() (bool, error) {
	state, err := p.State()
	if err != nil {
		return false, err
	}
	return state == statePause, nil
}

// Watch reports MPD subsystem changes until ctx is done.
func (p *Player) Watch(ctx context.Context, subsystems ...string) (<-chan string, error) {
	watcher, err := mpd.NewWatcher("tcp", p.addr, p.password, subsystems...)
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	p.mu.Lock()
	p.watcher = watcher
	p.mu.Unlock()

	ch := make(chan string, 10)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case subsystem, ok := <-watcher.Event:
				if !ok {
					return
				}
				select {
				case ch <- subsystem:
				default:
				}
			case err, ok := <-watcher.Error:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("MPD watcher error")
				time.Sleep(time.Second)
			}
		}
	}()

	return ch, nil
}
