// Package player provides the playback session controller: station selection,
// routing between the remote media player and the local fallback player,
// the safety volume policy and automatic recovery.
package player

import (
	"github.com/edumarques81/stellar-radio/internal/domain/catalog"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

// Status values reported to clients
const (
	StatusPlay  = "play"
	StatusPause = "pause"
	StatusStop  = "stop"
)

// Phase is the session phase of the recovery state machine.
type Phase int

// Session phases
const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseRecovering
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseRecovering:
		return "recovering"
	default:
		return "idle"
	}
}

// TargetKind tells where playback is rendered.
type TargetKind int

// Target kinds
const (
	TargetNone TargetKind = iota
	TargetRemote
	TargetLocal
)

func (k TargetKind) String() string {
	switch k {
	case TargetRemote:
		return "remote"
	case TargetLocal:
		return "local"
	default:
		return "none"
	}
}

// Target is the active playback destination. DeviceID is set for remote targets.
type Target struct {
	Kind     TargetKind
	DeviceID string
}

// RemoteTarget returns a target on the given host media player.
func RemoteTarget(deviceID string) Target {
	return Target{Kind: TargetRemote, DeviceID: deviceID}
}

// LocalTarget returns the local player target.
func LocalTarget() Target {
	return Target{Kind: TargetLocal}
}

// Selection holds the playing and highlighted positions in the active list.
// -1 means none.
type Selection struct {
	Current     int
	Highlighted int
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{Current: -1, Highlighted: -1}
}

// View is a point-in-time copy of the session for clients.
type View struct {
	Phase            Phase
	Target           Target
	Paused           bool
	Device           string
	Country          string
	CountryTitle     string
	CurrentIndex     int
	HighlightedIndex int
	Volume           int
	Muted            bool
	Visualizer       bool
	Station          *station.Metadata
	MediaTitle       string
	Message          string
	SleepRemaining   int // seconds, 0 when no timer is set
	Theme            string
	VisualizerStyle  string
	Search           string
	RecoveryAttempts int
}

// Playing reports whether the session claims playback.
func (v View) Playing() bool {
	return v.Phase != PhaseIdle
}

// Status returns play, pause or stop.
func (v View) Status() string {
	switch {
	case v.Phase == PhaseIdle:
		return StatusStop
	case v.Paused:
		return StatusPause
	default:
		return StatusPlay
	}
}

// ToJSON returns the view as a map suitable for JSON serialization.
func (v View) ToJSON() map[string]interface{} {
	var st interface{}
	if v.Station != nil {
		st = *v.Station
	}
	return map[string]interface{}{
		"status":           v.Status(),
		"phase":            v.Phase.String(),
		"target":           v.Target.Kind.String(),
		"playing":          v.Playing(),
		"device":           v.Device,
		"country":          v.Country,
		"countryTitle":     v.CountryTitle,
		"currentIndex":     v.CurrentIndex,
		"highlightedIndex": v.HighlightedIndex,
		"volume":           v.Volume,
		"mute":             v.Muted,
		"visualizer":       v.Visualizer,
		"station":          st,
		"title":            v.MediaTitle,
		"message":          v.Message,
		"sleepRemaining":   v.SleepRemaining,
		"theme":            v.Theme,
		"visualizerStyle":  v.VisualizerStyle,
		"search":           v.Search,
		"recoveryAttempts": v.RecoveryAttempts,
	}
}

// ListEntry is a station in the active list as shown to clients.
type ListEntry struct {
	station.Entry
	Favorite bool `json:"favorite"`
}

// StationsView is the browsable part of the session.
type StationsView struct {
	Countries        []catalog.Country `json:"countries"`
	Stations         []ListEntry       `json:"stations"`
	ShowingFavorites bool              `json:"showingFavorites"`
	Favorites        station.List      `json:"favorites"`
	CustomStations   station.List      `json:"customStations"`
}
