package player

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/edumarques81/stellar-radio/internal/domain/catalog"
	"github.com/edumarques81/stellar-radio/internal/domain/host"
	"github.com/edumarques81/stellar-radio/internal/domain/prefs"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
	"github.com/rs/zerolog/log"
)

// EventKind identifies what changed in the session.
type EventKind int

// Event kinds
const (
	EventState EventKind = iota
	EventStations
	EventMessage
)

// Event is delivered to subscribers after the session changed.
type Event struct {
	Kind    EventKind
	Message string
}

// Controller owns the playback session of one display.
type Controller struct {
	bridge  host.Bridge
	local   LocalElement
	gateway prefs.Gateway
	catalog *catalog.Service
	opts    Options
	now     func() time.Time

	mu               sync.Mutex
	device           string
	countries        []catalog.Country
	country          string
	stations         station.List
	localFiles       station.List
	prefs            prefs.Preferences
	search           string
	sel              Selection
	phase            Phase
	target           Target
	paused           bool
	last             *station.Station
	metadata         *station.Metadata
	volume           int
	muted            bool
	volumeBeforeMute int
	visualizer       bool
	mediaTitle       string
	message          string
	generation       uint64
	recoveryAttempts int
	sleepDeadline    time.Time
	verifyTimer      *time.Timer
	wakeLock         WakeLock
	wakeLockHeld     bool

	subMu       sync.RWMutex
	subscribers []func(Event)
}

// NewController creates a controller. local may be nil when no local player exists.
func NewController(bridge host.Bridge, local LocalElement, gateway prefs.Gateway, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		bridge:           bridge,
		local:            local,
		gateway:          gateway,
		catalog:          catalog.NewService(bridge),
		opts:             opts,
		now:              time.Now,
		device:           opts.DeviceID,
		prefs:            gateway.LoadPreferences(),
		sel:              NewSelection(),
		volume:           opts.DefaultVolume,
		volumeBeforeMute: 50,
	}
	return c
}

// SetWakeLock installs the wake lock used while the display is hidden.
func (c *Controller) SetWakeLock(w WakeLock) {
	c.mu.Lock()
	c.wakeLock = w
	c.mu.Unlock()
}

// Subscribe registers fn for session events. fn must not block.
func (c *Controller) Subscribe(fn func(Event)) {
	c.subMu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.subMu.Unlock()
}

func (c *Controller) emit(kind EventKind) {
	c.publish(Event{Kind: kind})
}

func (c *Controller) notify(message string) {
	c.publish(Event{Kind: EventMessage, Message: message})
}

func (c *Controller) publish(ev Event) {
	c.subMu.RLock()
	subs := c.subscribers
	c.subMu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Device returns the selected media player entity id.
func (c *Controller) Device() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device
}

// View returns a copy of the session for clients.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Phase:            c.phase,
		Target:           c.target,
		Paused:           c.paused,
		Device:           c.device,
		Country:          c.country,
		CountryTitle:     catalog.Title(c.countries, c.country),
		CurrentIndex:     c.sel.Current,
		HighlightedIndex: c.sel.Highlighted,
		Volume:           c.volume,
		Muted:            c.muted,
		Visualizer:       c.visualizer,
		MediaTitle:       c.mediaTitle,
		Message:          c.message,
		Theme:            string(c.prefs.Theme),
		VisualizerStyle:  string(c.prefs.VisualizerStyle),
		Search:           c.search,
		RecoveryAttempts: c.recoveryAttempts,
	}
	if c.metadata != nil {
		m := *c.metadata
		v.Station = &m
	}
	if !c.sleepDeadline.IsZero() {
		remaining := c.sleepDeadline.Sub(c.now())
		if remaining > 0 {
			v.SleepRemaining = int((remaining + time.Second - 1) / time.Second)
		}
	}
	return v
}

// Stations returns the countries and the filtered active list.
func (c *Controller) Stations() StationsView {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.activeListLocked()
	entries := list.Filter(c.search)
	out := make([]ListEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ListEntry{
			Entry:    e,
			Favorite: c.prefs.Favorites.Contains(e.Station.MediaContentID),
		})
	}
	countries := make([]catalog.Country, len(c.countries))
	copy(countries, c.countries)

	return StationsView{
		Countries:        countries,
		Stations:         out,
		ShowingFavorites: len(c.stations) == 0,
		Favorites:        c.prefs.Favorites.Clone(),
		CustomStations:   c.prefs.CustomStations.Clone(),
	}
}

// activeListLocked returns the catalog list when loaded, otherwise the
// user's own stations. Caller holds c.mu.
func (c *Controller) activeListLocked() station.List {
	if len(c.stations) > 0 {
		return c.stations
	}
	out := make(station.List, 0, len(c.prefs.Favorites)+len(c.prefs.CustomStations)+len(c.localFiles))
	out = append(out, c.prefs.Favorites...)
	out = append(out, c.prefs.CustomStations...)
	out = append(out, c.localFiles...)
	return out
}

// ActiveList returns a copy of the list that indices refer to.
func (c *Controller) ActiveList() station.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeListLocked().Clone()
}

// Select highlights index without playing it.
func (c *Controller) Select(index int) {
	c.mu.Lock()
	c.sel.Highlighted = index
	c.mu.Unlock()
	c.emit(EventState)
}

// PlayIndex plays the station at index of the active list.
func (c *Controller) PlayIndex(ctx context.Context, index int) error {
	c.mu.Lock()
	s, ok := c.activeListLocked().At(index)
	c.mu.Unlock()
	if !ok {
		log.Warn().Int("index", index).Msg("No station at index")
		return ErrInvalidStation
	}
	return c.Play(ctx, &s, index)
}

// Next plays the station after the current one. At the end of the list it does nothing.
func (c *Controller) Next(ctx context.Context) error {
	return c.step(ctx, 1)
}

// Previous plays the station before the current one. At the start of the list it does nothing.
func (c *Controller) Previous(ctx context.Context) error {
	return c.step(ctx, -1)
}

func (c *Controller) step(ctx context.Context, delta int) error {
	c.mu.Lock()
	idx := c.sel.Current + delta
	if c.sel.Current < 0 && delta < 0 {
		idx = -1
	}
	s, ok := c.activeListLocked().At(idx)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Play(ctx, &s, idx)
}

// SetSearch sets the station filter.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	c.search = strings.TrimSpace(query)
	c.mu.Unlock()
	c.emit(EventStations)
	c.emit(EventState)
}

// SelectDevice switches the target media player and reloads its catalog.
func (c *Controller) SelectDevice(ctx context.Context, deviceID string) error {
	c.mu.Lock()
	elsewhere := c.target.Kind == TargetRemote && c.target.DeviceID != deviceID
	c.mu.Unlock()
	if elsewhere {
		// Playback does not follow the selection to another device.
		_ = c.Stop(ctx)
	}

	c.mu.Lock()
	c.device = deviceID
	c.countries = nil
	c.country = ""
	c.stations = nil
	c.sel.Current = -1
	c.mu.Unlock()

	log.Info().Str("device", deviceID).Msg("Media player selected")
	c.saveSession()
	c.emit(EventStations)
	c.emit(EventState)

	if deviceID == "" {
		return nil
	}
	return c.LoadCountries(ctx)
}

// LoadCountries fetches the country list for the selected device.
func (c *Controller) LoadCountries(ctx context.Context) error {
	device := c.Device()
	if device == "" {
		return ErrNoDevice
	}

	countries, err := c.catalog.Countries(ctx, device)
	if err != nil {
		log.Error().Err(err).Str("device", device).Msg("Failed to load countries")
		return err
	}

	c.mu.Lock()
	if c.device == device {
		c.countries = countries
	}
	c.mu.Unlock()
	c.emit(EventStations)
	return nil
}

// SelectCountry loads the stations of a country. An empty id clears the
// catalog list so favorites and custom stations become active.
func (c *Controller) SelectCountry(ctx context.Context, countryID string) error {
	c.mu.Lock()
	c.country = countryID
	c.stations = nil
	c.sel.Current = -1
	device := c.device
	c.mu.Unlock()

	c.saveSession()
	c.emit(EventStations)
	c.emit(EventState)

	if countryID == "" {
		return nil
	}
	if device == "" {
		return ErrNoDevice
	}
	return c.loadStations(ctx, device, countryID)
}

func (c *Controller) loadStations(ctx context.Context, device, countryID string) error {
	list, err := c.catalog.Stations(ctx, device, countryID)
	if err != nil {
		log.Error().Err(err).Str("country", countryID).Msg("Failed to load stations")
		return err
	}

	c.mu.Lock()
	if c.device == device && c.country == countryID {
		c.stations = list
	}
	c.mu.Unlock()
	c.emit(EventStations)
	return nil
}

// Restore applies the persisted session snapshot. Playback is never resumed.
func (c *Controller) Restore(ctx context.Context) error {
	snap := c.gateway.LoadSession()
	if snap == nil {
		return nil
	}

	c.mu.Lock()
	if c.device == "" {
		c.device = snap.SelectedDevice
	}
	c.country = snap.SelectedCountry
	c.sel.Current = snap.CurrentIndex
	c.sel.Highlighted = snap.CurrentIndex
	c.search = snap.SearchQuery
	if snap.Volume != nil {
		c.volume = clampPercent(*snap.Volume)
	} else {
		c.volume = c.opts.DefaultVolume
	}
	device, country := c.device, c.country
	c.mu.Unlock()

	log.Info().
		Str("device", device).
		Str("country", country).
		Int("index", snap.CurrentIndex).
		Msg("Session restored")
	c.emit(EventState)

	if device == "" {
		return nil
	}
	if err := c.LoadCountries(ctx); err != nil {
		return err
	}
	if country != "" {
		return c.loadStations(ctx, device, country)
	}
	return nil
}

// HandleEntityState applies a state change pushed by the host.
func (c *Controller) HandleEntityState(st host.EntityState) {
	c.mu.Lock()
	if st.EntityID != c.device {
		c.mu.Unlock()
		return
	}
	c.mediaTitle = st.MediaTitle
	if c.target.Kind != TargetLocal {
		if st.VolumeLevel != nil && !c.muted {
			c.volume = clampPercent(int(*st.VolumeLevel*100 + 0.5))
		}
		c.visualizer = st.State == host.StatePlaying
		if c.target.Kind == TargetRemote && c.phase != PhaseIdle {
			c.paused = st.State == host.StatePaused
		}
	}
	if c.phase != PhaseIdle && c.recoveryAttempts > 0 && st.State == host.StatePlaying {
		c.phase = PhasePlaying
		c.recoveryAttempts = 0
		log.Info().Str("device", st.EntityID).Msg("Playback recovered")
	}
	c.mu.Unlock()
	c.emit(EventState)
}

// HandleLocalState applies a pause or resume observed on the local player,
// e.g. from its own controls. It is ignored unless the session plays locally.
func (c *Controller) HandleLocalState(paused bool) {
	c.mu.Lock()
	if c.target.Kind != TargetLocal || c.phase == PhaseIdle || c.paused == paused {
		c.mu.Unlock()
		return
	}
	c.paused = paused
	c.visualizer = !paused
	c.mu.Unlock()
	c.emit(EventState)
}

// Run drives the liveness check and the sleep timer until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	liveness := time.NewTicker(c.opts.LivenessInterval)
	defer liveness.Stop()
	sleep := time.NewTicker(c.opts.SleepTick)
	defer sleep.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.stopVerifyLocked()
			c.mu.Unlock()
			return
		case <-liveness.C:
			c.CheckLiveness(ctx)
		case <-sleep.C:
			c.tickSleep(ctx)
		}
	}
}

func (c *Controller) saveSession() {
	c.mu.Lock()
	volume := c.volume
	snap := prefs.Snapshot{
		SelectedDevice:  c.device,
		SelectedCountry: c.country,
		CurrentIndex:    c.sel.Current,
		Playing:         c.phase != PhaseIdle,
		Volume:          &volume,
		SearchQuery:     c.search,
		SavedAt:         c.now().UnixMilli(),
	}
	c.mu.Unlock()

	if err := c.gateway.SaveSession(snap); err != nil {
		log.Warn().Err(err).Msg("Failed to save session")
	}
}
