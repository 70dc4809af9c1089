package station

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ExportVersion is the version written into exported favorites documents.
const ExportVersion = "1.0"

// ErrInvalidFile is returned when an imported document has no favorites array.
var ErrInvalidFile = errors.New("invalid file format")

// ExportDocument is the on-disk format for favorites export/import.
type ExportDocument struct {
	Version   string `json:"version"`
	Exported  string `json:"exported"`
	Favorites List   `json:"favorites"`
}

// Toggle removes the station from favorites if present, otherwise appends it.
// It returns the new list and whether the station is now a favorite.
func Toggle(favorites List, s Station) (List, bool) {
	if i := favorites.IndexOf(s.MediaContentID); i >= 0 {
		out := make(List, 0, len(favorites)-1)
		out = append(out, favorites[:i]...)
		out = append(out, favorites[i+1:]...)
		return out, false
	}
	if s.Source == SourceCatalog || s.Source == "" {
		s.Source = SourceFavorite
	}
	out := append(favorites.Clone(), s)
	return out, true
}

// Export writes favorites as an indented export document.
func Export(w io.Writer, favorites List, now time.Time) error {
	if favorites == nil {
		favorites = List{}
	}
	doc := ExportDocument{
		Version:   ExportVersion,
		Exported:  now.UTC().Format(time.RFC3339),
		Favorites: favorites,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	return nil
}

// Import reads an export document and returns its favorites.
// Documents without a favorites array yield ErrInvalidFile.
func Import(r io.Reader) (List, error) {
	var raw struct {
		Favorites json.RawMessage `json:"favorites"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if len(raw.Favorites) == 0 || raw.Favorites[0] != '[' {
		return nil, ErrInvalidFile
	}

	var favorites List
	if err := json.Unmarshal(raw.Favorites, &favorites); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if favorites == nil {
		favorites = List{}
	}
	return favorites, nil
}
