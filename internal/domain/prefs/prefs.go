// Package prefs defines user preferences, session snapshots and the
// persistence gateway contract.
package prefs

import (
	"time"

	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

// Theme is the panel color theme.
type Theme string

// Themes
const (
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
	ThemeCustom Theme = "custom"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeDark, ThemeLight, ThemeCustom:
		return true
	}
	return false
}

// VisualizerStyle is the playback visualizer style.
type VisualizerStyle string

// Visualizer styles
const (
	VisualizerBars     VisualizerStyle = "bars"
	VisualizerWaveform VisualizerStyle = "waveform"
	VisualizerCircle   VisualizerStyle = "circle"
)

// Valid reports whether v is a known visualizer style.
func (v VisualizerStyle) Valid() bool {
	switch v {
	case VisualizerBars, VisualizerWaveform, VisualizerCircle:
		return true
	}
	return false
}

// Preferences are the long-lived user choices.
type Preferences struct {
	Favorites       station.List    `json:"favorites"`
	CustomStations  station.List    `json:"customStations"`
	Theme           Theme           `json:"theme"`
	VisualizerStyle VisualizerStyle `json:"visualizerStyle"`
}

// Default returns empty preferences with the default theme and visualizer.
func Default() Preferences {
	return Preferences{
		Favorites:       station.List{},
		CustomStations:  station.List{},
		Theme:           ThemeDark,
		VisualizerStyle: VisualizerBars,
	}
}

// Snapshot is the session state persisted to survive restarts of the panel.
type Snapshot struct {
	SelectedDevice  string `json:"selectedMediaPlayer"`
	SelectedCountry string `json:"selectedCountry"`
	CurrentIndex    int    `json:"currentStationIndex"`
	Playing         bool   `json:"isPlaying"`
	Volume          *int   `json:"volume,omitempty"` // nil when never saved
	SearchQuery     string `json:"searchQuery"`
	SavedAt         int64  `json:"timestamp"` // Unix milliseconds
}

// Expired reports whether the snapshot is older than ttl at now.
func (s Snapshot) Expired(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-s.SavedAt >= ttl.Milliseconds()
}

// Gateway persists preferences and session snapshots.
// Loads never fail: corrupt or missing data yields defaults.
type Gateway interface {
	LoadPreferences() Preferences
	SavePreferences(p Preferences) error
	// LoadSession returns nil when no fresh snapshot exists.
	LoadSession() *Snapshot
	SaveSession(s Snapshot) error
}
