package player

import (
	"io"

	"github.com/edumarques81/stellar-radio/internal/domain/prefs"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
	"github.com/rs/zerolog/log"
)

// Preferences returns a copy of the user preferences.
func (c *Controller) Preferences() prefs.Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.prefs
	p.Favorites = p.Favorites.Clone()
	p.CustomStations = p.CustomStations.Clone()
	return p
}

// ToggleFavorite adds s to the favorites or removes it, and reports whether it was added.
func (c *Controller) ToggleFavorite(s station.Station) (bool, error) {
	if !s.Valid() {
		return false, ErrInvalidStation
	}

	c.mu.Lock()
	var added bool
	c.reindexLocked(func() {
		c.prefs.Favorites, added = station.Toggle(c.prefs.Favorites, s)
	})
	p := c.prefs
	c.mu.Unlock()

	log.Info().Str("station", s.Title).Bool("added", added).Msg("Favorite toggled")
	err := c.savePreferences(p)
	c.emit(EventStations)
	return added, err
}

// ToggleFavoriteAt toggles the station at index of the active list.
func (c *Controller) ToggleFavoriteAt(index int) (bool, error) {
	c.mu.Lock()
	s, ok := c.activeListLocked().At(index)
	c.mu.Unlock()
	if !ok {
		return false, ErrInvalidStation
	}
	return c.ToggleFavorite(s)
}

// ExportFavorites writes the favorites as an export document.
func (c *Controller) ExportFavorites(w io.Writer) error {
	c.mu.Lock()
	favorites := c.prefs.Favorites.Clone()
	now := c.now()
	c.mu.Unlock()
	return station.Export(w, favorites, now)
}

// ImportFavorites replaces the favorites with those read from r. On any
// error the favorites are left untouched.
func (c *Controller) ImportFavorites(r io.Reader) (int, error) {
	favorites, err := station.Import(r)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected favorites import")
		return 0, err
	}

	c.mu.Lock()
	c.reindexLocked(func() {
		c.prefs.Favorites = favorites
	})
	p := c.prefs
	c.mu.Unlock()

	log.Info().Int("count", len(favorites)).Msg("Favorites imported")
	err = c.savePreferences(p)
	c.emit(EventStations)
	return len(favorites), err
}

// AddCustomStation adds a user-entered stream.
func (c *Controller) AddCustomStation(title, streamURL string) (station.Station, error) {
	s, err := station.NewCustomStream(title, streamURL)
	if err != nil {
		return station.Station{}, err
	}

	c.mu.Lock()
	c.reindexLocked(func() {
		c.prefs.CustomStations = append(c.prefs.CustomStations.Clone(), s)
	})
	p := c.prefs
	c.mu.Unlock()

	log.Info().Str("station", s.Title).Str("uri", s.MediaContentID).Msg("Custom station added")
	err = c.savePreferences(p)
	c.emit(EventStations)
	return s, err
}

// RemoveCustomStation removes a custom stream by id or URI.
func (c *Controller) RemoveCustomStation(id string) error {
	c.mu.Lock()
	list, removed := station.RemoveByID(c.prefs.CustomStations, id)
	if !removed {
		c.mu.Unlock()
		return ErrStationNotFound
	}
	c.reindexLocked(func() {
		c.prefs.CustomStations = list
	})
	p := c.prefs
	c.mu.Unlock()

	log.Info().Str("id", id).Msg("Custom station removed")
	err := c.savePreferences(p)
	c.emit(EventStations)
	return err
}

// SetLocalFiles replaces the stations discovered in watched directories.
func (c *Controller) SetLocalFiles(files station.List) {
	c.mu.Lock()
	c.reindexLocked(func() {
		c.localFiles = files.Clone()
	})
	c.mu.Unlock()
	c.emit(EventStations)
}

// reindexLocked applies mutate to the user's own stations and moves the
// current and highlighted positions so they keep pointing at the same
// stations. A playing station that was removed leaves no current position.
// Caller holds c.mu.
func (c *Controller) reindexLocked(mutate func()) {
	if len(c.stations) > 0 {
		mutate()
		return
	}

	before := c.activeListLocked()
	current, hasCurrent := before.At(c.sel.Current)
	highlighted, hasHighlighted := before.At(c.sel.Highlighted)
	mutate()
	after := c.activeListLocked()

	c.sel.Current = -1
	if hasCurrent {
		c.sel.Current = after.IndexOf(current.MediaContentID)
	}
	c.sel.Highlighted = c.sel.Current
	if hasHighlighted {
		if i := after.IndexOf(highlighted.MediaContentID); i >= 0 {
			c.sel.Highlighted = i
		}
	}
}

// SetTheme sets and persists the display theme.
func (c *Controller) SetTheme(theme prefs.Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}
	c.mu.Lock()
	c.prefs.Theme = theme
	p := c.prefs
	c.mu.Unlock()

	err := c.savePreferences(p)
	c.emit(EventState)
	return err
}

// SetVisualizerStyle sets and persists the visualizer style.
func (c *Controller) SetVisualizerStyle(style prefs.VisualizerStyle) error {
	if !style.Valid() {
		return ErrInvalidVisualizer
	}
	c.mu.Lock()
	c.prefs.VisualizerStyle = style
	p := c.prefs
	c.mu.Unlock()

	err := c.savePreferences(p)
	c.emit(EventState)
	return err
}

func (c *Controller) savePreferences(p prefs.Preferences) error {
	if err := c.gateway.SavePreferences(p); err != nil {
		log.Error().Err(err).Msg("Failed to save preferences")
		return err
	}
	return nil
}
