// Package station defines radio stations, station lists and favorites.
package station

import "strings"

// Source identifies where a station entry came from.
type Source string

// Station sources
const (
	SourceCatalog      Source = "catalog"
	SourceFavorite     Source = "favorite"
	SourceCustomStream Source = "custom_stream"
	SourceLocalFile    Source = "local_file"
)

// RemoteOnlyPrefix marks content ids that only the host can resolve.
const RemoteOnlyPrefix = "media-source://"

// DefaultContentType is used when a station carries no content type.
const DefaultContentType = "music"

// Station is a playable radio entry. Identity is MediaContentID.
type Station struct {
	ID               string `json:"id,omitempty"` // Stable id for user-added entries
	Title            string `json:"title"`
	MediaContentID   string `json:"media_content_id"`
	MediaContentType string `json:"media_content_type"`
	Source           Source `json:"source,omitempty"`
	CanPlay          bool   `json:"can_play"`
}

// Valid reports whether the station can be handed to a player.
func (s *Station) Valid() bool {
	return s != nil && s.MediaContentID != ""
}

// PlaysLocally reports whether the station must be played on the local element.
func (s Station) PlaysLocally() bool {
	return s.Source == SourceCustomStream || s.Source == SourceLocalFile
}

// RemoteOnly reports whether only the host can resolve the station's URI.
func (s Station) RemoteOnly() bool {
	return strings.HasPrefix(s.MediaContentID, RemoteOnlyPrefix)
}

// ContentType returns the media content type, falling back to DefaultContentType.
func (s Station) ContentType() string {
	if s.MediaContentType == "" {
		return DefaultContentType
	}
	return s.MediaContentType
}

// List is an ordered station list. Insertion order is browse or user-add order.
type List []Station

// At returns the station at index i.
func (l List) At(i int) (Station, bool) {
	if i < 0 || i >= len(l) {
		return Station{}, false
	}
	return l[i], true
}

// IndexOf returns the position of the first station with the given id, or -1.
func (l List) IndexOf(mediaContentID string) int {
	for i, s := range l {
		if s.MediaContentID == mediaContentID {
			return i
		}
	}
	return -1
}

// Contains reports whether a station with the given id is in the list.
func (l List) Contains(mediaContentID string) bool {
	return l.IndexOf(mediaContentID) >= 0
}

// Clone returns a copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Entry is a station together with its index in the list it was taken from.
type Entry struct {
	Index   int     `json:"index"`
	Station Station `json:"station"`
}

// Filter returns the stations whose title contains query, case-insensitively.
// Entries keep their index in l so selections stay valid against the full list.
func (l List) Filter(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	entries := make([]Entry, 0, len(l))
	for i, s := range l {
		if query != "" && !strings.Contains(strings.ToLower(s.Title), query) {
			continue
		}
		entries = append(entries, Entry{Index: i, Station: s})
	}
	return entries
}
