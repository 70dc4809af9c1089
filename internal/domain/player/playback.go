package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
	"github.com/rs/zerolog/log"
)

// Route decides where s is played. Custom streams and local files always play
// locally. Proxy devices (deviceID contains bridgeMarker) also play locally
// unless the station can only be resolved by the host.
func Route(s station.Station, deviceID, bridgeMarker string, hasLocal bool) Target {
	if s.PlaysLocally() {
		return LocalTarget()
	}
	if hasLocal && bridgeMarker != "" && strings.Contains(deviceID, bridgeMarker) && !s.RemoteOnly() {
		return LocalTarget()
	}
	return RemoteTarget(deviceID)
}

func (c *Controller) isBridgeDevice(deviceID string) bool {
	return c.opts.BridgeMarker != "" && strings.Contains(deviceID, c.opts.BridgeMarker)
}

// Play starts st and records index as the current position.
func (c *Controller) Play(ctx context.Context, st *station.Station, index int) error {
	if !st.Valid() {
		log.Error().Int("index", index).Msg("Invalid station")
		return ErrInvalidStation
	}
	s := *st

	c.mu.Lock()
	device := c.device
	volume := c.volume
	country := c.country
	target := Route(s, device, c.opts.BridgeMarker, c.local != nil)
	if target.Kind == TargetRemote && device == "" {
		c.mu.Unlock()
		log.Warn().Str("station", s.Title).Msg("No media player selected")
		return ErrNoDevice
	}
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	log.Info().
		Str("station", s.Title).
		Str("uri", s.MediaContentID).
		Str("target", target.Kind.String()).
		Str("device", device).
		Msg("Playing station")

	var err error
	if target.Kind == TargetLocal {
		err = c.playLocal(s, volume)
	} else {
		err = c.playRemote(ctx, device, s)
	}
	if err != nil {
		return c.failPlayback(gen, s, err)
	}

	meta := station.DescribeStation(s, country)

	c.mu.Lock()
	if gen != c.generation {
		stopped := c.phase == PhaseIdle
		c.mu.Unlock()
		log.Debug().Str("station", s.Title).Msg("Discarding superseded play")
		if stopped {
			c.stopTarget(ctx, target)
		}
		return nil
	}
	prev := c.target
	c.phase = PhasePlaying
	c.target = target
	c.paused = false
	c.sel.Current = index
	c.sel.Highlighted = index
	c.last = &s
	c.metadata = &meta
	c.message = ""
	c.recoveryAttempts = 0
	c.visualizer = target.Kind == TargetLocal
	if target.Kind == TargetRemote {
		c.scheduleVerifyLocked(gen, device)
	}
	c.mu.Unlock()

	// Only one target may play at a time.
	if prev.Kind != TargetNone && prev != target {
		log.Info().Str("from", prev.Kind.String()).Str("to", target.Kind.String()).Msg("Switching playback target")
		c.stopTarget(ctx, prev)
	}

	c.saveSession()
	c.emit(EventState)
	return nil
}

func (c *Controller) playRemote(ctx context.Context, device string, s station.Station) error {
	st, ok := c.bridge.State(device)
	if !ok || st.VolumeLevel == nil || *st.VolumeLevel > c.opts.SafeVolumeThreshold {
		level := float64(c.opts.SafeVolume) / 100
		if err := c.bridge.SetVolume(ctx, device, level); err != nil {
			return fmt.Errorf("failed to set safe volume: %w", err)
		}
		c.mu.Lock()
		c.volume = c.opts.SafeVolume
		c.muted = false
		c.mu.Unlock()
		log.Info().Str("device", device).Int("volume", c.opts.SafeVolume).Msg("Applied safe volume")
	}

	if err := c.bridge.PlayMedia(ctx, device, s.MediaContentID, s.ContentType()); err != nil {
		return fmt.Errorf("failed to play media: %w", err)
	}
	return nil
}

func (c *Controller) playLocal(s station.Station, volume int) error {
	if c.local == nil {
		return ErrNoLocalPlayer
	}
	if err := c.local.SetVolume(volume); err != nil {
		log.Warn().Err(err).Msg("Failed to set local volume")
	}
	if err := c.local.PlayURI(s.MediaContentID); err != nil {
		return fmt.Errorf("failed to play stream: %w", err)
	}
	return nil
}

func (c *Controller) failPlayback(gen uint64, s station.Station, err error) error {
	log.Error().Err(err).Str("station", s.Title).Msg("Playback failed")
	msg := fmt.Sprintf("Could not play %s", s.Title)

	c.mu.Lock()
	if gen == c.generation {
		c.phase = PhaseIdle
		c.target = Target{}
		c.paused = false
		c.visualizer = false
		c.message = msg
		c.stopVerifyLocked()
	}
	c.mu.Unlock()

	c.notify(msg)
	c.emit(EventState)
	return fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
}

// scheduleVerifyLocked checks after a delay that the device really plays.
// Caller holds c.mu.
func (c *Controller) scheduleVerifyLocked(gen uint64, device string) {
	c.stopVerifyLocked()
	delay := c.opts.VerifyDelay
	if c.isBridgeDevice(device) {
		delay = c.opts.BridgeVerifyDelay
	}
	c.verifyTimer = time.AfterFunc(delay, func() {
		c.verifyPlayback(gen, device)
	})
}

func (c *Controller) stopVerifyLocked() {
	if c.verifyTimer != nil {
		c.verifyTimer.Stop()
		c.verifyTimer = nil
	}
}

func (c *Controller) verifyPlayback(gen uint64, device string) {
	st, ok := c.bridge.State(device)
	playing := ok && st.State == host.StatePlaying

	c.mu.Lock()
	if gen != c.generation || c.phase == PhaseIdle {
		c.mu.Unlock()
		return
	}
	c.verifyTimer = nil
	if playing {
		c.visualizer = true
	}
	c.mu.Unlock()

	if playing {
		c.emit(EventState)
		return
	}
	log.Debug().Str("device", device).Str("state", st.State).Msg("Device not playing yet")
}

// TogglePlay pauses or resumes the active target. When the remote device is
// neither playing nor paused it starts the highlighted station instead.
func (c *Controller) TogglePlay(ctx context.Context) error {
	c.mu.Lock()
	target := c.target
	device := c.device
	c.mu.Unlock()

	if target.Kind == TargetLocal {
		return c.toggleLocal()
	}

	if device == "" {
		return ErrNoDevice
	}
	st, ok := c.bridge.State(device)
	if !ok {
		log.Warn().Str("device", device).Msg("Media player state unknown")
		return ErrNoDevice
	}

	if st.State != host.StatePlaying && st.State != host.StatePaused {
		c.mu.Lock()
		list := c.activeListLocked()
		idx := c.sel.Highlighted
		if idx < 0 {
			idx = c.sel.Current
		}
		if idx < 0 {
			idx = 0
		}
		s, found := list.At(idx)
		c.mu.Unlock()
		if !found {
			return nil
		}
		return c.Play(ctx, &s, idx)
	}

	if err := c.bridge.PlayPause(ctx, device); err != nil {
		log.Error().Err(err).Str("device", device).Msg("Failed to toggle playback")
		return fmt.Errorf("failed to toggle playback: %w", err)
	}

	c.mu.Lock()
	if c.target.Kind == TargetRemote {
		c.paused = st.State == host.StatePlaying
	}
	c.mu.Unlock()
	c.emit(EventState)
	return nil
}

func (c *Controller) toggleLocal() error {
	paused, err := c.local.Paused()
	if err != nil {
		return fmt.Errorf("failed to read local state: %w", err)
	}
	if paused {
		err = c.local.Resume()
	} else {
		err = c.local.Pause()
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to toggle local playback")
		return fmt.Errorf("failed to toggle playback: %w", err)
	}

	c.mu.Lock()
	c.paused = !paused
	c.visualizer = paused
	c.mu.Unlock()
	c.emit(EventState)
	return nil
}

// Stop ends playback on the active target and clears the session. It is safe
// to call repeatedly; host failures are logged, never returned.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	target := c.target
	c.generation++
	c.phase = PhaseIdle
	c.target = Target{}
	c.paused = false
	c.sel.Current = -1
	c.last = nil
	c.metadata = nil
	c.visualizer = false
	c.recoveryAttempts = 0
	c.sleepDeadline = time.Time{}
	c.stopVerifyLocked()
	held := c.wakeLockHeld
	c.wakeLockHeld = false
	wl := c.wakeLock
	c.mu.Unlock()

	c.stopTarget(ctx, target)

	if held && wl != nil {
		if err := wl.Release(); err != nil {
			log.Debug().Err(err).Msg("Failed to release wake lock")
		}
	}

	log.Info().Str("target", target.Kind.String()).Msg("Playback stopped")
	c.saveSession()
	c.emit(EventState)
	return nil
}

func (c *Controller) stopTarget(ctx context.Context, target Target) {
	switch target.Kind {
	case TargetRemote:
		if err := c.bridge.StopMedia(ctx, target.DeviceID); err != nil {
			log.Warn().Err(err).Str("device", target.DeviceID).Msg("Failed to stop media player")
		}
	case TargetLocal:
		if c.local == nil {
			return
		}
		if err := c.local.Stop(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop local player")
		}
	}
}
