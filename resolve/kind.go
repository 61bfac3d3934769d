package resolve

import (
	"errors"
	"fmt"
)

// ErrInvalidKind is returned when a caller passes an entity kind outside the
// recognized set. It is fatal to the call and never retried.
var ErrInvalidKind = errors.New("invalid entity kind")

// EntityKind is the category of real-world thing being searched for.
type EntityKind int

const (
	KindSong EntityKind = iota
	KindAlbum
	KindVenue
	KindCity
	KindState
	KindCountry
	KindTour
	KindRelation
)

var kindNames = map[EntityKind]string{
	KindSong:     "song",
	KindAlbum:    "album",
	KindVenue:    "venue",
	KindCity:     "city",
	KindState:    "state",
	KindCountry:  "country",
	KindTour:     "tour",
	KindRelation: "relation",
}

func (k EntityKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the recognized entity kinds.
func (k EntityKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a kind name (as used in command text and config keys) back
// to its EntityKind. Returns ErrInvalidKind for unknown names.
func ParseKind(name string) (EntityKind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, name)
}
