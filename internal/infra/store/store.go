// Package store persists preferences and session snapshots in SQL.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-radio/internal/domain/prefs"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

// Storage keys
const (
	KeyFavorites       = "radio_favorites"
	KeyCustomStations  = "radio_custom_stations"
	KeyTheme           = "radio_theme"
	KeyVisualizerStyle = "radio_visualizer_style"
	KeySession         = "radio_card_state"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DefaultSessionTTL is how long a session snapshot stays restorable.
const DefaultSessionTTL = 5 * time.Minute

// Store is a key/value table behind sqlx. It implements prefs.Gateway.
type Store struct {
	db  *sqlx.DB
	ttl time.Duration
	now func() time.Time
}

// ParseURL maps a database URL to a driver and DSN.
// sqlite:///var/lib/radio.db and postgres://user@host/db are accepted.
func ParseURL(dbURL string) (driver, dsn string, err error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid database url: %w", err)
	}
	switch u.Scheme {
	case "sqlite", "sqlite3":
		path := u.Host + u.Path
		if path == "" {
			return "", "", fmt.Errorf("invalid database url: missing sqlite path")
		}
		return DriverSQLite, path, nil
	case "postgres", "postgresql":
		return DriverPostgres, dbURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// Open connects to the database and creates the table if needed.
func Open(driver, dsn string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	driver = normalizeDriver(driver)

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	schema := `
	  create table if not exists kv (
		key text primary key,
		value text not null,
		updated_at bigint not null
	  );`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Info().Str("driver", driver).Msg("Connected to database")
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, s.db.Rebind(`select value from kv where key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) put(tx *sqlx.Tx, key, value string) error {
	query := tx.Rebind(`
	  insert into kv (key, value, updated_at)
	  values (?, ?, ?)
	  on conflict(key) do update
		 set value = excluded.value,
			 updated_at = excluded.updated_at;`)
	_, err := tx.Exec(query, key, value, s.now().UnixMilli())
	return err
}

func (s *Store) putAll(values map[string]string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	for k, v := range values {
		if err := s.put(tx, k, v); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to write %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// LoadPreferences returns the stored preferences. Missing or corrupt values
// fall back to their defaults.
func (s *Store) LoadPreferences() prefs.Preferences {
	p := prefs.Default()

	if list, ok := s.loadList(KeyFavorites); ok {
		p.Favorites = list
	}
	if list, ok := s.loadList(KeyCustomStations); ok {
		p.CustomStations = list
	}
	if v, ok := s.loadString(KeyTheme); ok && prefs.Theme(v).Valid() {
		p.Theme = prefs.Theme(v)
	}
	if v, ok := s.loadString(KeyVisualizerStyle); ok && prefs.VisualizerStyle(v).Valid() {
		p.VisualizerStyle = prefs.VisualizerStyle(v)
	}
	return p
}

func (s *Store) loadString(key string) (string, bool) {
	value, ok, err := s.get(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read preference")
		return "", false
	}
	return value, ok
}

func (s *Store) loadList(key string) (station.List, bool) {
	value, ok := s.loadString(key)
	if !ok {
		return nil, false
	}
	var list station.List
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Ignoring corrupt stored list")
		return nil, false
	}
	if list == nil {
		list = station.List{}
	}
	return list, true
}

// SavePreferences writes every preference key in one transaction.
func (s *Store) SavePreferences(p prefs.Preferences) error {
	favorites, err := json.Marshal(nonNil(p.Favorites))
	if err != nil {
		return err
	}
	custom, err := json.Marshal(nonNil(p.CustomStations))
	if err != nil {
		return err
	}
	return s.putAll(map[string]string{
		KeyFavorites:       string(favorites),
		KeyCustomStations:  string(custom),
		KeyTheme:           string(p.Theme),
		KeyVisualizerStyle: string(p.VisualizerStyle),
	})
}

// LoadSession returns the stored snapshot, or nil when it is missing,
// corrupt or older than the TTL. Playing is always false.
func (s *Store) LoadSession() *prefs.Snapshot {
	value, ok := s.loadString(KeySession)
	if !ok {
		return nil
	}
	var snap prefs.Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		log.Warn().Err(err).Msg("Ignoring corrupt session snapshot")
		return nil
	}
	if snap.Expired(s.now(), s.ttl) {
		log.Debug().Int64("saved", snap.SavedAt).Msg("Session snapshot expired")
		return nil
	}
	snap.Playing = false
	return &snap
}

// SaveSession stores the snapshot.
func (s *Store) SaveSession(snap prefs.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.putAll(map[string]string{KeySession: string(data)})
}

func nonNil(l station.List) station.List {
	if l == nil {
		return station.List{}
	}
	return l
}

var _ prefs.Gateway = (*Store)(nil)

// normalizeDriver accepts the URL scheme spellings as driver names.
func normalizeDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pq":
		return DriverPostgres
	}
	return driver
}
