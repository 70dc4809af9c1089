package hass

import (
	"encoding/json"
	"fmt"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
)

// Message types of the Home Assistant websocket API.
const (
	typeAuthRequired = "auth_required"
	typeAuth         = "auth"
	typeAuthOK       = "auth_ok"
	typeAuthInvalid  = "auth_invalid"
	typeResult       = "result"
	typeEvent        = "event"
	typeGetStates    = "get_states"
	typeSubscribe    = "subscribe_events"
	typeCallService  = "call_service"
	typeBrowseMedia  = "media_player/browse_media"

	eventStateChanged = "state_changed"
	mediaPlayerDomain = "media_player"
)

// message is the envelope of every frame received from the server.
type message struct {
	ID      int64           `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success bool            `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
	Event   *event          `json:"event,omitempty"`
	Message string          `json:"message,omitempty"`
}

// APIError is an error result returned by the server.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("home assistant: %s: %s", e.Code, e.Message)
}

type event struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string    `json:"entity_id"`
		NewState *rawState `json:"new_state"`
	} `json:"data"`
}

type rawState struct {
	EntityID   string `json:"entity_id"`
	State      string `json:"state"`
	Attributes struct {
		FriendlyName string   `json:"friendly_name"`
		MediaTitle   string   `json:"media_title"`
		VolumeLevel  *float64 `json:"volume_level"`
	} `json:"attributes"`
}

func (r rawState) toEntity() host.EntityState {
	return host.EntityState{
		EntityID:     r.EntityID,
		State:        r.State,
		FriendlyName: r.Attributes.FriendlyName,
		MediaTitle:   r.Attributes.MediaTitle,
		VolumeLevel:  r.Attributes.VolumeLevel,
	}
}

type command map[string]interface{}

func serviceCall(service, entityID string, data map[string]interface{}) command {
	cmd := command{
		"type":    typeCallService,
		"domain":  mediaPlayerDomain,
		"service": service,
		"target":  map[string]string{"entity_id": entityID},
	}
	if data != nil {
		cmd["service_data"] = data
	}
	return cmd
}
