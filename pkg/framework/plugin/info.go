// Package plugin holds plugin metadata and the common plugin base.
package plugin

import (
	"errors"

	"github.com/google/uuid"
)

// Kind is the host-facing plugin category.
type Kind int

const (
	// KindEffect processes incoming audio.
	KindEffect Kind = iota
	// KindGenerator produces audio or notes on its own.
	KindGenerator
)

func (k Kind) String() string {
	switch k {
	case KindEffect:
		return "effect"
	case KindGenerator:
		return "generator"
	default:
		return "unknown"
	}
}

// Flags are host capability bits.
type Flags uint32

const (
	// FlagWantNewTick asks the host to call Tick once per block.
	FlagWantNewTick Flags = 1 << iota
)

// Info contains plugin metadata
type Info struct {
	ID        string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name      string // Display name
	ShortName string // Name for narrow host UI, defaults to Name
	Vendor    string // Company/developer name
	Version   string // Semantic version (e.g., "1.0.0")
	Kind      Kind
	Flags     Flags
}

// uidNamespace scopes plugin UIDs so the same ID string never collides with
// UUIDs minted for other purposes.
var uidNamespace = uuid.MustParse("6f3c1a2e-5d47-4b8e-9a61-0e2f7c9d8b15")

// ErrEmptyID is returned by ValidateUID for an Info without an ID.
var ErrEmptyID = errors.New("plugin: empty plugin ID")

// NewEffect returns Info for an effect plugin.
func NewEffect(id, name string) Info {
	return Info{
		ID:        id,
		Name:      name,
		ShortName: name,
		Version:   "0.1.0",
		Kind:      KindEffect,
	}
}

// WantNewTick returns a copy of i with FlagWantNewTick set.
func (i Info) WantNewTick() Info {
	i.Flags |= FlagWantNewTick
	return i
}

// Has reports whether all bits in f are set.
func (i Info) Has(f Flags) bool {
	return i.Flags&f == f
}

// UID derives a stable 16-byte identifier from ID (UUID v5).
func (i Info) UID() [16]byte {
	return uuid.NewSHA1(uidNamespace, []byte(i.ID))
}

// ValidateUID checks that a UID can be derived.
func (i Info) ValidateUID() error {
	if i.ID == "" {
		return ErrEmptyID
	}
	return nil
}
