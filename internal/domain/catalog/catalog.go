// Package catalog browses the host's radio directory for countries and stations.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-radio/internal/domain/host"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

const (
	// RootContentID is the radio directory root on the host.
	RootContentID = "media-source://radio_browser"
	// RootContentType is the content type used for every browse query.
	RootContentType = "app"
	// countryMarker identifies country folders among the root's children.
	countryMarker = "/country/"
)

// Country is an expandable folder of stations.
type Country struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Browser is the subset of the host bridge the catalog needs.
type Browser interface {
	Browse(ctx context.Context, deviceID, contentID, contentType string) (*host.MediaItem, error)
}

// Service enumerates countries and stations through the host.
type Service struct {
	browser Browser
}

// NewService creates a catalog service.
func NewService(browser Browser) *Service {
	return &Service{browser: browser}
}

// Countries returns the country folders under the radio root, sorted by title.
func (s *Service) Countries(ctx context.Context, deviceID string) ([]Country, error) {
	root, err := s.browser.Browse(ctx, deviceID, RootContentID, RootContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to browse radio directory: %w", err)
	}
	if root == nil {
		return []Country{}, nil
	}

	countries := make([]Country, 0, len(root.Children))
	for _, item := range root.Children {
		if item.MediaContentID == "" || !item.CanExpand {
			continue
		}
		if !strings.Contains(item.MediaContentID, countryMarker) {
			continue
		}
		countries = append(countries, Country{ID: item.MediaContentID, Title: item.Title})
	}

	sort.SliceStable(countries, func(i, j int) bool {
		return strings.ToLower(countries[i].Title) < strings.ToLower(countries[j].Title)
	})

	log.Debug().Str("device", deviceID).Int("count", len(countries)).Msg("Loaded countries")
	return countries, nil
}

// Stations returns the playable stations in a country folder.
func (s *Service) Stations(ctx context.Context, deviceID, countryID string) (station.List, error) {
	folder, err := s.browser.Browse(ctx, deviceID, countryID, RootContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to browse country %s: %w", countryID, err)
	}
	if folder == nil {
		return station.List{}, nil
	}

	stations := make(station.List, 0, len(folder.Children))
	for _, item := range folder.Children {
		// A children array, even an empty one, marks a folder.
		if !item.CanPlay && item.Children != nil {
			continue
		}
		stations = append(stations, FromMediaItem(item))
	}

	log.Debug().Str("country", countryID).Int("count", len(stations)).Msg("Loaded stations")
	return stations, nil
}

// FromMediaItem converts a browse node to a catalog station.
func FromMediaItem(item host.MediaItem) station.Station {
	return station.Station{
		Title:            item.Title,
		MediaContentID:   item.MediaContentID,
		MediaContentType: item.MediaContentType,
		Source:           station.SourceCatalog,
		CanPlay:          item.CanPlay,
	}
}

// Title returns the title of the country with the given id.
func Title(countries []Country, id string) string {
	for _, c := range countries {
		if c.ID == id {
			return c.Title
		}
	}
	return ""
}
