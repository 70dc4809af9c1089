package player

import (
	"context"
	"time"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
	"github.com/rs/zerolog/log"
)

// CheckLiveness reissues the last play when the remote device stopped on its
// own. It sends at most one play per call.
func (c *Controller) CheckLiveness(ctx context.Context) {
	c.mu.Lock()
	if c.phase == PhaseIdle || c.target.Kind != TargetRemote || c.paused || c.last == nil {
		c.mu.Unlock()
		return
	}
	device := c.target.DeviceID
	c.mu.Unlock()

	st, ok := c.bridge.State(device)
	if ok && st.State == host.StatePlaying {
		c.mu.Lock()
		recovered := c.phase == PhaseRecovering || c.recoveryAttempts > 0
		if recovered {
			c.phase = PhasePlaying
			c.recoveryAttempts = 0
		}
		c.mu.Unlock()
		if recovered {
			log.Info().Str("device", device).Msg("Playback recovered")
			c.emit(EventState)
		}
		return
	}

	c.mu.Lock()
	if c.phase == PhaseIdle || c.target != RemoteTarget(device) || c.last == nil {
		c.mu.Unlock()
		return
	}
	if limit := c.opts.MaxRecoveryAttempts; limit > 0 && c.recoveryAttempts >= limit {
		attempts := c.recoveryAttempts
		c.generation++
		c.phase = PhaseIdle
		c.target = Target{}
		c.visualizer = false
		c.recoveryAttempts = 0
		c.message = "Playback stopped, the stream could not be recovered"
		msg := c.message
		c.mu.Unlock()

		log.Error().Str("device", device).Int("attempts", attempts).Msg("Giving up playback recovery")
		c.saveSession()
		c.notify(msg)
		c.emit(EventState)
		return
	}
	c.phase = PhaseRecovering
	c.recoveryAttempts++
	attempt := c.recoveryAttempts
	s := *c.last
	gen := c.generation
	c.mu.Unlock()

	log.Warn().
		Str("device", device).
		Str("state", st.State).
		Str("station", s.Title).
		Int("attempt", attempt).
		Msg("Playback stalled, reissuing play")
	c.emit(EventState)

	err := c.bridge.PlayMedia(ctx, device, s.MediaContentID, s.ContentType())

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.mu.Unlock()
		log.Error().Err(err).Str("device", device).Msg("Recovery play failed")
		return
	}
	c.phase = PhasePlaying
	c.scheduleVerifyLocked(gen, device)
	c.mu.Unlock()
	c.emit(EventState)
}

// SetVisibility handles the display being hidden or shown again.
func (c *Controller) SetVisibility(ctx context.Context, hidden bool) {
	if hidden {
		c.acquireWakeLock()
		return
	}

	c.mu.Lock()
	held := c.wakeLockHeld
	c.wakeLockHeld = false
	wl := c.wakeLock
	target := c.target
	phase := c.phase
	paused := c.paused
	c.mu.Unlock()

	if held && wl != nil {
		if err := wl.Release(); err != nil {
			log.Debug().Err(err).Msg("Failed to release wake lock")
		}
	}
	if phase == PhaseIdle || paused {
		return
	}

	switch target.Kind {
	case TargetLocal:
		p, err := c.local.Paused()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read local state")
			return
		}
		if p {
			log.Info().Msg("Resuming local playback")
			if err := c.local.Resume(); err != nil {
				log.Warn().Err(err).Msg("Failed to resume local playback")
			}
		}
	case TargetRemote:
		c.CheckLiveness(ctx)
	}
}

func (c *Controller) acquireWakeLock() {
	c.mu.Lock()
	if c.phase == PhaseIdle || c.wakeLock == nil || c.wakeLockHeld {
		c.mu.Unlock()
		return
	}
	wl := c.wakeLock
	c.mu.Unlock()

	if err := wl.Acquire(); err != nil {
		log.Debug().Err(err).Msg("Wake lock unavailable")
		return
	}
	c.mu.Lock()
	c.wakeLockHeld = true
	c.mu.Unlock()
}

// SetSleepTimer stops playback after minutes. Zero or less cancels the timer.
func (c *Controller) SetSleepTimer(minutes int) {
	c.mu.Lock()
	if minutes <= 0 {
		c.sleepDeadline = time.Time{}
	} else {
		c.sleepDeadline = c.now().Add(time.Duration(minutes) * time.Minute)
	}
	c.mu.Unlock()

	log.Info().Int("minutes", minutes).Msg("Sleep timer set")
	c.emit(EventState)
}

func (c *Controller) tickSleep(ctx context.Context) {
	c.mu.Lock()
	if c.sleepDeadline.IsZero() {
		c.mu.Unlock()
		return
	}
	expired := !c.now().Before(c.sleepDeadline)
	if expired {
		c.sleepDeadline = time.Time{}
	}
	c.mu.Unlock()

	if expired {
		log.Info().Msg("Sleep timer expired")
		c.Stop(ctx)
		return
	}
	c.emit(EventState)
}
