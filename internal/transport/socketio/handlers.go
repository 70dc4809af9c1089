package socketio

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/edumarques81/stellar-radio/internal/domain/device"
	"github.com/edumarques81/stellar-radio/internal/domain/player"
	"github.com/edumarques81/stellar-radio/internal/domain/prefs"
)

// registerPlaybackHandlers registers transport and volume controls.
func (s *Server) registerPlaybackHandlers(client *socket.Socket, clientID string) {
	client.On("getState", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getState")
		s.pushState(client)
	})

	client.On("select", func(args ...any) {
		index := argInt(args, "index", -1)
		log.Debug().Str("id", clientID).Int("index", index).Msg("select")
		s.ctrl.Select(index)
	})

	// play - {index} plays a list entry, no argument toggles playback
	client.On("play", func(args ...any) {
		log.Debug().Str("id", clientID).Interface("data", args).Msg("play")
		ctx, cancel := commandContext()
		defer cancel()

		index := argInt(args, "index", -1)
		var err error
		if index >= 0 {
			err = s.ctrl.PlayIndex(ctx, index)
		} else {
			err = s.ctrl.TogglePlay(ctx)
		}
		s.report(client, "Play", err)
	})

	client.On("toggle", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("toggle")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "Toggle", s.ctrl.TogglePlay(ctx))
	})

	client.On("stop", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("stop")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "Stop", s.ctrl.Stop(ctx))
	})

	client.On("next", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("next")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "Next", s.ctrl.Next(ctx))
	})

	client.On("prev", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("prev")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "Previous", s.ctrl.Previous(ctx))
	})

	client.On("volume", func(args ...any) {
		vol := argInt(args, "value", -1)
		if vol < 0 {
			return
		}
		log.Debug().Str("id", clientID).Int("vol", vol).Msg("volume")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "SetVolume", s.ctrl.SetVolume(ctx, vol))
	})

	client.On("adjustVolume", func(args ...any) {
		delta := argInt(args, "delta", 0)
		if delta == 0 {
			return
		}
		log.Debug().Str("id", clientID).Int("delta", delta).Msg("adjustVolume")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "AdjustVolume", s.ctrl.AdjustVolume(ctx, delta))
	})

	client.On("mute", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("mute")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "ToggleMute", s.ctrl.ToggleMute(ctx))
	})
}

// registerBrowseHandlers registers device, country and search handlers.
func (s *Server) registerBrowseHandlers(client *socket.Socket, clientID string) {
	client.On("getStations", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getStations")
		s.pushStations(client)
	})

	client.On("getPlayers", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getPlayers")
		client.Emit("pushPlayers", s.players())
	})

	client.On("getDeviceInfo", func(args ...any) {
		log.Debug().Str("id", clientID).Msg("getDeviceInfo")
		info := device.Info{Name: "Stellar Radio"}
		if s.devices != nil {
			info = s.devices.Info()
		}
		client.Emit("pushDeviceInfo", info)
	})

	client.On("selectDevice", func(args ...any) {
		id := argString(args, "device")
		log.Debug().Str("id", clientID).Str("device", id).Msg("selectDevice")
		if id == "" {
			return
		}
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "SelectDevice", s.ctrl.SelectDevice(ctx, id))
	})

	client.On("selectCountry", func(args ...any) {
		id := argString(args, "country")
		log.Debug().Str("id", clientID).Str("country", id).Msg("selectCountry")
		ctx, cancel := commandContext()
		defer cancel()
		s.report(client, "SelectCountry", s.ctrl.SelectCountry(ctx, id))
	})

	client.On("search", func(args ...any) {
		query := argString(args, "query")
		log.Debug().Str("id", clientID).Str("query", query).Msg("search")
		s.ctrl.SetSearch(query)
	})
}

// registerLibraryHandlers registers favorites and custom station handlers.
func (s *Server) registerLibraryHandlers(client *socket.Socket, clientID string) {
	client.On("toggleFavorite", func(args ...any) {
		index := argInt(args, "index", -1)
		log.Debug().Str("id", clientID).Int("index", index).Msg("toggleFavorite")
		added, err := s.ctrl.ToggleFavoriteAt(index)
		if err != nil {
			s.report(client, "ToggleFavorite", err)
			return
		}
		if added {
			client.Emit("pushToastMessage", toast("success", "Added to favorites"))
		} else {
			client.Emit("pushToastMessage", toast("success", "Removed from favorites"))
		}
	})

	client.On("addCustomStation", func(args ...any) {
		m := argMap(args)
		title := getStringFromMap(m, "title")
		url := getStringFromMap(m, "url")
		log.Debug().Str("id", clientID).Str("title", title).Str("url", url).Msg("addCustomStation")
		st, err := s.ctrl.AddCustomStation(title, url)
		if err != nil {
			s.report(client, "AddCustomStation", err)
			return
		}
		client.Emit("pushToastMessage", toast("success", "Added "+st.Title))
	})

	client.On("removeCustomStation", func(args ...any) {
		id := argString(args, "id")
		log.Debug().Str("id", clientID).Str("station", id).Msg("removeCustomStation")
		s.report(client, "RemoveCustomStation", s.ctrl.RemoveCustomStation(id))
	})
}

// registerSettingsHandlers registers timer, appearance and visibility handlers.
func (s *Server) registerSettingsHandlers(client *socket.Socket, clientID string) {
	client.On("setSleepTimer", func(args ...any) {
		minutes := argInt(args, "minutes", 0)
		log.Debug().Str("id", clientID).Int("minutes", minutes).Msg("setSleepTimer")
		s.ctrl.SetSleepTimer(minutes)
	})

	client.On("setTheme", func(args ...any) {
		theme := argString(args, "theme")
		log.Debug().Str("id", clientID).Str("theme", theme).Msg("setTheme")
		s.report(client, "SetTheme", s.ctrl.SetTheme(prefs.Theme(theme)))
	})

	client.On("setVisualizerStyle", func(args ...any) {
		style := argString(args, "style")
		log.Debug().Str("id", clientID).Str("style", style).Msg("setVisualizerStyle")
		s.report(client, "SetVisualizerStyle", s.ctrl.SetVisualizerStyle(prefs.VisualizerStyle(style)))
	})

	client.On("visibility", func(args ...any) {
		hidden := argBool(args, "hidden")
		log.Debug().Str("id", clientID).Bool("hidden", hidden).Msg("visibility")
		ctx, cancel := commandContext()
		defer cancel()
		s.ctrl.SetVisibility(ctx, hidden)
	})
}

func (s *Server) players() []device.Player {
	if s.devices == nil {
		return []device.Player{}
	}
	return s.devices.Players()
}

// report logs a failed command and tells the client. Playback failures are
// already announced to every client by the session.
func (s *Server) report(client *socket.Socket, op string, err error) {
	if err == nil {
		return
	}
	log.Error().Err(err).Str("op", op).Msg("Command failed")
	if errors.Is(err, player.ErrPlaybackFailed) {
		return
	}
	client.Emit("pushToastMessage", toast("error", err.Error()))
}

// argMap returns the first argument as an object, or nil.
func argMap(args []any) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}
	m, _ := args[0].(map[string]interface{})
	return m
}

// argInt accepts either a bare number or an object carrying key.
func argInt(args []any, key string, defaultVal int) int {
	if len(args) == 0 {
		return defaultVal
	}
	switch v := args[0].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return getIntFromMap(argMap(args), key, defaultVal)
}

// argString accepts either a bare string or an object carrying key.
func argString(args []any, key string) string {
	if len(args) == 0 {
		return ""
	}
	if v, ok := args[0].(string); ok {
		return strings.TrimSpace(v)
	}
	return getStringFromMap(argMap(args), key)
}

// argBool accepts either a bare bool or an object carrying key.
func argBool(args []any, key string) bool {
	if len(args) == 0 {
		return false
	}
	if v, ok := args[0].(bool); ok {
		return v
	}
	v, _ := argMap(args)[key].(bool)
	return v
}

// getIntFromMap safely extracts an integer from a map.
func getIntFromMap(m map[string]interface{}, key string, defaultVal int) int {
	if m == nil {
		return defaultVal
	}
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case int64:
		return int(v)
	}
	return defaultVal
}

// getStringFromMap safely extracts a trimmed string from a map.
func getStringFromMap(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}
