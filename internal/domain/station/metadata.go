package station

import (
	"regexp"
	"strings"
)

var bitratePattern = regexp.MustCompile(`(?i)(\d+)\s*kbps`)

// Metadata is the display information derived from a station record.
type Metadata struct {
	Title          string `json:"title"`
	MediaContentID string `json:"media_content_id"`
	Bitrate        string `json:"bitrate,omitempty"`
	Codec          string `json:"codec,omitempty"`
	Country        string `json:"country,omitempty"`
}

// DescribeStation builds display metadata for s. country is the title of the
// country the station was browsed from, if any.
func DescribeStation(s Station, country string) Metadata {
	return Metadata{
		Title:          s.Title,
		MediaContentID: s.MediaContentID,
		Bitrate:        ExtractBitrate(s.Title),
		Codec:          ExtractCodec(s.MediaContentID),
		Country:        country,
	}
}

// ExtractBitrate returns "<n> kbps" when the title mentions a bitrate.
func ExtractBitrate(title string) string {
	m := bitratePattern.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return m[1] + " kbps"
}

// ExtractCodec guesses the stream codec from its URI.
func ExtractCodec(uri string) string {
	uri = strings.ToLower(uri)
	switch {
	case strings.Contains(uri, "mp3"):
		return "MP3"
	case strings.Contains(uri, "aac"):
		return "AAC"
	case strings.Contains(uri, "ogg"):
		return "OGG"
	case strings.Contains(uri, "flac"):
		return "FLAC"
	}
	return ""
}
