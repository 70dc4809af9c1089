package player

import "errors"

var (
	// ErrInvalidStation is returned for a missing station or one without a playable URI.
	ErrInvalidStation = errors.New("invalid station")

	// ErrPlaybackFailed is returned when the remote or local player rejects playback.
	ErrPlaybackFailed = errors.New("playback failed")

	// ErrNoDevice is returned when a remote operation has no media player to target.
	ErrNoDevice = errors.New("no media player selected")

	// ErrNoLocalPlayer is returned when local playback is needed but not configured.
	ErrNoLocalPlayer = errors.New("no local player configured")

	// ErrStationNotFound is returned when removing an unknown custom station.
	ErrStationNotFound = errors.New("station not found")

	// ErrInvalidTheme is returned for unknown themes.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrInvalidVisualizer is returned for unknown visualizer styles.
	ErrInvalidVisualizer = errors.New("invalid visualizer style")
)
