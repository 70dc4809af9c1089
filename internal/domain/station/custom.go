package station

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidStreamURL is returned for custom streams without an http(s) URL.
var ErrInvalidStreamURL = errors.New("invalid stream URL")

// NewCustomStream creates a user-added stream station.
func NewCustomStream(title, streamURL string) (Station, error) {
	u, err := url.Parse(strings.TrimSpace(streamURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Station{}, ErrInvalidStreamURL
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = u.Host
	}
	return Station{
		ID:               uuid.New().String(),
		Title:            title,
		MediaContentID:   u.String(),
		MediaContentType: DefaultContentType,
		Source:           SourceCustomStream,
		CanPlay:          true,
	}, nil
}

// NewLocalFile creates a station for an audio file. uri is what the local
// element is given to play.
func NewLocalFile(path, uri string) Station {
	base := filepath.Base(path)
	return Station{
		ID:               uuid.NewSHA1(uuid.NameSpaceURL, []byte(uri)).String(),
		Title:            strings.TrimSuffix(base, filepath.Ext(base)),
		MediaContentID:   uri,
		MediaContentType: DefaultContentType,
		Source:           SourceLocalFile,
		CanPlay:          true,
	}
}

// RemoveByID drops the entry whose ID or MediaContentID matches id.
func RemoveByID(l List, id string) (List, bool) {
	for i, s := range l {
		if s.ID == id || s.MediaContentID == id {
			out := make(List, 0, len(l)-1)
			out = append(out, l[:i]...)
			return append(out, l[i+1:]...), true
		}
	}
	return l, false
}
