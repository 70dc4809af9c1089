// Package host defines the capability contract of the smart-home host that
// owns the remote media players.
package host

//go:generate mockgen -destination=../../mocks/mock_bridge.go -package=mocks github.com/edumarques81/stellar-radio/internal/domain/host Bridge

import "context"

// Media player states reported by the host.
const (
	StatePlaying = "playing"
	StatePaused  = "paused"
	StateIdle    = "idle"
	StateOff     = "off"
)

// MediaPlayerDomain is the entity id prefix of media players.
const MediaPlayerDomain = "media_player."

// EntityState is a snapshot of one host entity.
type EntityState struct {
	EntityID     string
	State        string
	FriendlyName string
	MediaTitle   string
	VolumeLevel  *float64 // nil when the device does not report volume
}

// Name returns the friendly name, falling back to the entity id.
func (e EntityState) Name() string {
	if e.FriendlyName != "" {
		return e.FriendlyName
	}
	return e.EntityID
}

// MediaItem is a node of the host's media browsing tree.
type MediaItem struct {
	Title            string      `json:"title"`
	MediaContentID   string      `json:"media_content_id"`
	MediaContentType string      `json:"media_content_type"`
	MediaClass       string      `json:"media_class,omitempty"`
	CanPlay          bool        `json:"can_play"`
	CanExpand        bool        `json:"can_expand"`
	Thumbnail        string      `json:"thumbnail,omitempty"`
	Children         []MediaItem `json:"children,omitempty"`
}

// Bridge is the query/command surface of the host.
type Bridge interface {
	// Browse lists the children of a media container on a device.
	Browse(ctx context.Context, deviceID, contentID, contentType string) (*MediaItem, error)

	// SetVolume sets the device volume, level in [0, 1].
	SetVolume(ctx context.Context, deviceID string, level float64) error
	PlayMedia(ctx context.Context, deviceID, contentID, contentType string) error
	PlayPause(ctx context.Context, deviceID string) error
	StopMedia(ctx context.Context, deviceID string) error

	// State returns the last known state of an entity.
	State(entityID string) (EntityState, bool)
	// MediaPlayers returns the states of all media player entities.
	MediaPlayers() []EntityState
}
