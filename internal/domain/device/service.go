// Package device provides the instance identity and the directory of media
// players this backend can drive.
package device

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
)

// Player is a selectable media player.
type Player struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	State    string `json:"state"`
}

// Info identifies this backend instance to dashboard clients.
type Info struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// StateSource lists the host's media players.
type StateSource interface {
	MediaPlayers() []host.EntityState
}

// Service manages the instance identity and the player directory.
type Service struct {
	mu         sync.RWMutex
	configPath string
	info       Info
	source     StateSource
}

// persistedIdentity is the format stored on disk.
type persistedIdentity struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// NewService loads the identity stored at configPath, creating one if needed.
func NewService(configPath string, source StateSource) (*Service, error) {
	svc := &Service{
		configPath: configPath,
		source:     source,
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create identity directory: %w", err)
	}

	if err := svc.load(); err != nil {
		log.Debug().Err(err).Msg("No stored identity, generating a new one")
		svc.info = Info{UUID: uuid.New().String(), Name: defaultName()}
		if err := svc.save(); err != nil {
			return nil, fmt.Errorf("failed to save identity: %w", err)
		}
	}

	log.Info().Str("uuid", svc.info.UUID).Str("name", svc.info.Name).Msg("Instance identity ready")
	return svc, nil
}

func (s *Service) load() error {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}

	var id persistedIdentity
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid identity format: %w", err)
	}
	if _, err := uuid.Parse(id.UUID); err != nil {
		return fmt.Errorf("invalid identity uuid: %w", err)
	}

	s.info = Info{UUID: id.UUID, Name: id.Name}
	if s.info.Name == "" {
		s.info.Name = defaultName()
	}
	return nil
}

func (s *Service) save() error {
	data, err := json.MarshalIndent(persistedIdentity{UUID: s.info.UUID, Name: s.info.Name}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.configPath, data, 0644)
}

// Info returns the instance identity.
func (s *Service) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// SetName renames the instance and persists it.
func (s *Service) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.info.Name = name
	return s.save()
}

// Players returns the host's media players sorted by name.
func (s *Service) Players() []Player {
	if s.source == nil {
		return []Player{}
	}

	states := s.source.MediaPlayers()
	players := make([]Player, 0, len(states))
	for _, st := range states {
		if !strings.HasPrefix(st.EntityID, host.MediaPlayerDomain) {
			continue
		}
		players = append(players, Player{EntityID: st.EntityID, Name: st.Name(), State: st.State})
	}

	sort.SliceStable(players, func(i, j int) bool {
		return strings.ToLower(players[i].Name) < strings.ToLower(players[j].Name)
	})
	return players
}

// Resolve picks the player to drive: the first candidate that exists, else
// the first player in the directory. It returns "" when there are no players.
func (s *Service) Resolve(candidates ...string) string {
	players := s.Players()
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, p := range players {
			if p.EntityID == c {
				return c
			}
		}
	}
	if len(players) > 0 {
		return players[0].EntityID
	}
	return ""
}

func defaultName() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "Stellar Radio"
	}
	return hostname
}
