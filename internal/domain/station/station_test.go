package station_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

func catalogStation(id, title string) station.Station {
	return station.Station{
		Title:            title,
		MediaContentID:   id,
		MediaContentType: "audio/mpeg",
		Source:           station.SourceCatalog,
		CanPlay:          true,
	}
}

func TestStationValid(t *testing.T) {
	var nilStation *station.Station
	if nilStation.Valid() {
		t.Error("nil station should be invalid")
	}
	if (&station.Station{Title: "No URI"}).Valid() {
		t.Error("station without media_content_id should be invalid")
	}
	s := catalogStation("media-source://radio_browser/abc", "Radio")
	if !s.Valid() {
		t.Error("expected station to be valid")
	}
}

func TestStationRouting(t *testing.T) {
	tests := []struct {
		name        string
		station     station.Station
		local       bool
		remoteOnly  bool
		contentType string
	}{
		{"catalog", catalogStation("media-source://radio_browser/abc", "A"), false, true, "audio/mpeg"},
		{"favorite", station.Station{MediaContentID: "http://x/stream", Source: station.SourceFavorite}, false, false, "music"},
		{"custom stream", station.Station{MediaContentID: "http://x/stream", Source: station.SourceCustomStream}, true, false, "music"},
		{"local file", station.Station{MediaContentID: "file:///music/a.mp3", Source: station.SourceLocalFile}, true, false, "music"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.station.PlaysLocally(); got != tt.local {
				t.Errorf("PlaysLocally = %v, want %v", got, tt.local)
			}
			if got := tt.station.RemoteOnly(); got != tt.remoteOnly {
				t.Errorf("RemoteOnly = %v, want %v", got, tt.remoteOnly)
			}
			if got := tt.station.ContentType(); got != tt.contentType {
				t.Errorf("ContentType = %q, want %q", got, tt.contentType)
			}
		})
	}
}

func TestListAt(t *testing.T) {
	l := station.List{catalogStation("a", "A"), catalogStation("b", "B")}

	if _, ok := l.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}
	if _, ok := l.At(2); ok {
		t.Error("At(2) should be out of range")
	}
	if s, ok := l.At(1); !ok || s.MediaContentID != "b" {
		t.Errorf("At(1) = %v, %v", s, ok)
	}
}

func TestListFilterKeepsIndices(t *testing.T) {
	l := station.List{
		catalogStation("a", "Jazz FM"),
		catalogStation("b", "Rock Radio"),
		catalogStation("c", "Smooth JAZZ"),
	}

	entries := l.Filter("jazz")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Index != 0 || entries[1].Index != 2 {
		t.Errorf("unexpected indices %d, %d", entries[0].Index, entries[1].Index)
	}

	if got := len(l.Filter("")); got != 3 {
		t.Errorf("empty query should return all stations, got %d", got)
	}
	if got := len(l.Filter("classical")); got != 0 {
		t.Errorf("expected no match, got %d", got)
	}
}

func TestToggleSymmetry(t *testing.T) {
	s := catalogStation("media-source://radio_browser/abc", "A")
	var favorites station.List

	favorites, added := station.Toggle(favorites, s)
	if !added || len(favorites) != 1 {
		t.Fatalf("expected station to be added, got added=%v len=%d", added, len(favorites))
	}
	if favorites[0].Source != station.SourceFavorite {
		t.Errorf("expected source %q, got %q", station.SourceFavorite, favorites[0].Source)
	}

	favorites, added = station.Toggle(favorites, s)
	if added || len(favorites) != 0 {
		t.Fatalf("expected station to be removed, got added=%v len=%d", added, len(favorites))
	}

	favorites, added = station.Toggle(favorites, s)
	if !added || len(favorites) != 1 {
		t.Fatalf("expected station to be re-added, got added=%v len=%d", added, len(favorites))
	}
}

func TestToggleDoesNotAliasInput(t *testing.T) {
	orig := make(station.List, 1, 4)
	orig[0] = catalogStation("a", "A")

	next, _ := station.Toggle(orig, catalogStation("b", "B"))
	next[0].Title = "changed"

	if orig[0].Title != "A" {
		t.Error("Toggle should not modify the input list")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	favorites := station.List{
		catalogStation("a", "A"),
		{Title: "My Stream", MediaContentID: "http://example.com/s", Source: station.SourceCustomStream, CanPlay: true},
	}
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := station.Export(&buf, favorites, now); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc station.ExportDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.Version != station.ExportVersion {
		t.Errorf("expected version %q, got %q", station.ExportVersion, doc.Version)
	}
	if doc.Exported != "2026-10-16T12:00:00Z" {
		t.Errorf("unexpected exported timestamp %q", doc.Exported)
	}

	imported, err := station.Import(&buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(imported) != 2 || imported[1].Source != station.SourceCustomStream {
		t.Errorf("unexpected imported favorites: %+v", imported)
	}
}

func TestImportInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing favorites", `{"version":"1.0"}`},
		{"favorites not an array", `{"favorites":{"title":"x"}}`},
		{"null favorites", `{"favorites":null}`},
		{"not json", `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := station.Import(strings.NewReader(tt.doc))
			if !errors.Is(err, station.ErrInvalidFile) {
				t.Errorf("expected ErrInvalidFile, got %v", err)
			}
		})
	}
}

func TestImportEmptyArray(t *testing.T) {
	favorites, err := station.Import(strings.NewReader(`{"favorites":[]}`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if favorites == nil || len(favorites) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", favorites)
	}
}

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		title, uri     string
		bitrate, codec string
	}{
		{"Jazz 128 kbps", "http://s.example.com/jazz.mp3", "128 kbps", "MP3"},
		{"Rock 320KBPS", "http://s.example.com/rock.aac", "320 kbps", "AAC"},
		{"Talk", "http://s.example.com/talk.ogg", "", "OGG"},
		{"Lossless", "http://s.example.com/flac", "", "FLAC"},
		{"Unknown", "media-source://radio_browser/123", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			md := station.DescribeStation(station.Station{Title: tt.title, MediaContentID: tt.uri}, "Norway")
			if md.Bitrate != tt.bitrate {
				t.Errorf("bitrate = %q, want %q", md.Bitrate, tt.bitrate)
			}
			if md.Codec != tt.codec {
				t.Errorf("codec = %q, want %q", md.Codec, tt.codec)
			}
			if md.Country != "Norway" {
				t.Errorf("country = %q", md.Country)
			}
		})
	}
}

func TestNewCustomStream(t *testing.T) {
	s, err := station.NewCustomStream("  ", "https://stream.example.com/live")
	if err != nil {
		t.Fatalf("NewCustomStream failed: %v", err)
	}
	if s.Title != "stream.example.com" {
		t.Errorf("expected host as title, got %q", s.Title)
	}
	if s.Source != station.SourceCustomStream || s.ID == "" {
		t.Errorf("unexpected station %+v", s)
	}

	for _, bad := range []string{"", "ftp://x/y", "not a url", "http://"} {
		if _, err := station.NewCustomStream("x", bad); !errors.Is(err, station.ErrInvalidStreamURL) {
			t.Errorf("%q: expected ErrInvalidStreamURL, got %v", bad, err)
		}
	}
}

func TestNewLocalFileAndRemove(t *testing.T) {
	a := station.NewLocalFile("/music/Morning Show.mp3", "file:///music/Morning%20Show.mp3")
	if a.Title != "Morning Show" || a.Source != station.SourceLocalFile {
		t.Errorf("unexpected local file station %+v", a)
	}
	again := station.NewLocalFile("/music/Morning Show.mp3", "file:///music/Morning%20Show.mp3")
	if a.ID != again.ID {
		t.Error("local file ids should be stable for the same URI")
	}

	l := station.List{a, catalogStation("b", "B")}
	l, ok := station.RemoveByID(l, a.ID)
	if !ok || len(l) != 1 || l[0].MediaContentID != "b" {
		t.Errorf("RemoveByID by id failed: %v %+v", ok, l)
	}
	l, ok = station.RemoveByID(l, "b")
	if !ok || len(l) != 0 {
		t.Errorf("RemoveByID by content id failed: %v %+v", ok, l)
	}
	if _, ok := station.RemoveByID(l, "missing"); ok {
		t.Error("RemoveByID should report missing ids")
	}
}
