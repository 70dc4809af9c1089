package player

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SetVolume sets the volume percent on the active target, clamped to 0..100.
func (c *Controller) SetVolume(ctx context.Context, percent int) error {
	return c.setVolume(ctx, percent, false)
}

// AdjustVolume changes the volume by delta percent.
func (c *Controller) AdjustVolume(ctx context.Context, delta int) error {
	c.mu.Lock()
	v := c.volume + delta
	c.mu.Unlock()
	return c.setVolume(ctx, v, false)
}

// ToggleMute mutes, or restores the volume from before muting.
func (c *Controller) ToggleMute(ctx context.Context) error {
	c.mu.Lock()
	if c.muted {
		restore := c.volumeBeforeMute
		c.mu.Unlock()
		return c.setVolume(ctx, restore, false)
	}
	if c.volume > 0 {
		c.volumeBeforeMute = c.volume
	}
	c.mu.Unlock()
	return c.setVolume(ctx, 0, true)
}

func (c *Controller) setVolume(ctx context.Context, percent int, muted bool) error {
	percent = clampPercent(percent)

	c.mu.Lock()
	c.volume = percent
	c.muted = muted
	target := c.target
	device := c.device
	c.mu.Unlock()
	c.emit(EventState)

	if target.Kind == TargetLocal {
		if err := c.local.SetVolume(percent); err != nil {
			log.Error().Err(err).Int("volume", percent).Msg("Failed to set local volume")
			return fmt.Errorf("failed to set volume: %w", err)
		}
		return nil
	}
	if device == "" {
		return nil
	}
	if err := c.bridge.SetVolume(ctx, device, float64(percent)/100); err != nil {
		log.Error().Err(err).Str("device", device).Int("volume", percent).Msg("Failed to set volume")
		return fmt.Errorf("failed to set volume: %w", err)
	}
	return nil
}
