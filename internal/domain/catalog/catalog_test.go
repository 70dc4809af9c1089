package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/edumarques81/stellar-radio/internal/domain/catalog"
	"github.com/edumarques81/stellar-radio/internal/domain/host"
	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

type fakeBrowser struct {
	items map[string]*host.MediaItem
	err   error
	calls []string
}

func (f *fakeBrowser) Browse(ctx context.Context, deviceID, contentID, contentType string) (*host.MediaItem, error) {
	f.calls = append(f.calls, deviceID+"|"+contentID+"|"+contentType)
	if f.err != nil {
		return nil, f.err
	}
	return f.items[contentID], nil
}

func TestCountriesFiltersAndSorts(t *testing.T) {
	browser := &fakeBrowser{items: map[string]*host.MediaItem{
		catalog.RootContentID: {
			Children: []host.MediaItem{
				{Title: "Norway", MediaContentID: "media-source://radio_browser/country/NO", CanExpand: true},
				{Title: "By language", MediaContentID: "media-source://radio_browser/language", CanExpand: true},
				{Title: "austria", MediaContentID: "media-source://radio_browser/country/AT", CanExpand: true},
				{Title: "Broken", MediaContentID: "media-source://radio_browser/country/XX", CanExpand: false},
				{Title: "Empty id", CanExpand: true},
			},
		},
	}}
	svc := catalog.NewService(browser)

	countries, err := svc.Countries(context.Background(), "media_player.kitchen")
	if err != nil {
		t.Fatalf("Countries failed: %v", err)
	}

	if len(countries) != 2 {
		t.Fatalf("expected 2 countries, got %d: %+v", len(countries), countries)
	}
	if countries[0].Title != "austria" || countries[1].Title != "Norway" {
		t.Errorf("countries not sorted by title: %+v", countries)
	}
	if browser.calls[0] != "media_player.kitchen|media-source://radio_browser|app" {
		t.Errorf("unexpected browse call %q", browser.calls[0])
	}
}

func TestStationsKeepsPlayableLeaves(t *testing.T) {
	country := "media-source://radio_browser/country/NO"
	browser := &fakeBrowser{items: map[string]*host.MediaItem{
		country: {
			Children: []host.MediaItem{
				{Title: "NRK P1", MediaContentID: "media-source://radio_browser/1", MediaContentType: "audio/mpeg", CanPlay: true},
				{Title: "Folder", MediaContentID: "media-source://radio_browser/f", Children: []host.MediaItem{{Title: "x"}}},
				{Title: "Leaf without flag", MediaContentID: "media-source://radio_browser/2"},
				{Title: "Empty folder", MediaContentID: "media-source://radio_browser/e", Children: []host.MediaItem{}},
			},
		},
	}}
	svc := catalog.NewService(browser)

	stations, err := svc.Stations(context.Background(), "media_player.kitchen", country)
	if err != nil {
		t.Fatalf("Stations failed: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if stations[0].Source != station.SourceCatalog || stations[0].MediaContentType != "audio/mpeg" {
		t.Errorf("unexpected station %+v", stations[0])
	}
}

func TestStationsEmptyChildrenIsFolder(t *testing.T) {
	country := "media-source://radio_browser/country/SE"
	var folder host.MediaItem
	data := `{"children": [
		{"title": "Closed", "media_content_id": "media-source://radio_browser/c", "can_play": false, "children": []},
		{"title": "Bare", "media_content_id": "media-source://radio_browser/b", "can_play": false}
	]}`
	if err := json.Unmarshal([]byte(data), &folder); err != nil {
		t.Fatal(err)
	}
	svc := catalog.NewService(&fakeBrowser{items: map[string]*host.MediaItem{country: &folder}})

	stations, err := svc.Stations(context.Background(), "media_player.kitchen", country)
	if err != nil {
		t.Fatalf("Stations failed: %v", err)
	}
	if len(stations) != 1 || stations[0].Title != "Bare" {
		t.Errorf("expected only the bare leaf, got %+v", stations)
	}
}

func TestBrowseError(t *testing.T) {
	boom := errors.New("boom")
	svc := catalog.NewService(&fakeBrowser{err: boom})

	if _, err := svc.Countries(context.Background(), "d"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if _, err := svc.Stations(context.Background(), "d", "c"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestTitle(t *testing.T) {
	countries := []catalog.Country{{ID: "a", Title: "Austria"}}
	if catalog.Title(countries, "a") != "Austria" {
		t.Error("expected Austria")
	}
	if catalog.Title(countries, "b") != "" {
		t.Error("expected empty title for unknown id")
	}
}
