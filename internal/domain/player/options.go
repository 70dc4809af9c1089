package player

import "time"

// Options tune the session policies.
type Options struct {
	// DeviceID is the media player to drive, overriding any restored session.
	DeviceID string

	// SafeVolume is the volume percent forced before a remote play when the
	// device volume is unknown or above SafeVolumeThreshold (0..1).
	SafeVolume          int
	SafeVolumeThreshold float64

	// DefaultVolume is the volume percent used before anything is known.
	DefaultVolume int

	// BridgeMarker marks device ids of proxy players (e.g. browser tabs);
	// streams for such devices are played on the local player instead.
	BridgeMarker string

	// VerifyDelay and BridgeVerifyDelay are waited after a remote play
	// before checking that the device really plays.
	VerifyDelay       time.Duration
	BridgeVerifyDelay time.Duration

	LivenessInterval time.Duration
	SleepTick        time.Duration

	// MaxRecoveryAttempts bounds consecutive recovery plays, 0 retries forever.
	MaxRecoveryAttempts int
}

// DefaultOptions returns the stock policy values.
func DefaultOptions() Options {
	return Options{
		SafeVolume:          15,
		SafeVolumeThreshold: 0.30,
		DefaultVolume:       10,
		BridgeMarker:        "browser",
		VerifyDelay:         1500 * time.Millisecond,
		BridgeVerifyDelay:   2 * time.Second,
		LivenessInterval:    30 * time.Second,
		SleepTick:           time.Second,
		MaxRecoveryAttempts: 20,
	}
}

// withDefaults fills zero values with the stock policy values.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SafeVolume <= 0 {
		o.SafeVolume = d.SafeVolume
	}
	o.SafeVolume = clampPercent(o.SafeVolume)
	if o.SafeVolumeThreshold <= 0 {
		o.SafeVolumeThreshold = d.SafeVolumeThreshold
	}
	if o.DefaultVolume <= 0 {
		o.DefaultVolume = d.DefaultVolume
	}
	o.DefaultVolume = clampPercent(o.DefaultVolume)
	if o.VerifyDelay <= 0 {
		o.VerifyDelay = d.VerifyDelay
	}
	if o.BridgeVerifyDelay <= 0 {
		o.BridgeVerifyDelay = d.BridgeVerifyDelay
	}
	if o.LivenessInterval <= 0 {
		o.LivenessInterval = d.LivenessInterval
	}
	if o.SleepTick <= 0 {
		o.SleepTick = d.SleepTick
	}
	if o.MaxRecoveryAttempts < 0 {
		o.MaxRecoveryAttempts = 0
	}
	return o
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
