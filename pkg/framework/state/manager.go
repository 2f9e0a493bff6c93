// Package state persists the plugin's save-state blob.
//
// The blob is the magic header "VST3GO" followed by a CBOR envelope
// {"v": version, "body": <cbor>}. Each schema version is its own Go type;
// new versions add new types and never change the shape of an old one.
package state

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

const magic = "VST3GO"

// Version tags a save-state schema.
type Version uint32

const (
	// VersionV0 is the first schema. It has no fields.
	VersionV0 Version = 0

	// LatestVersion is what Save writes by default.
	LatestVersion = VersionV0
)

// SaveState is one version of the persisted plugin state.
type SaveState interface {
	Version() Version
}

// V0 carries no fields.
type V0 struct{}

// Version implements SaveState.
func (V0) Version() Version { return VersionV0 }

// ErrInvalidFormat is returned for blobs that are not a save state at all.
var ErrInvalidFormat = errors.New("state: invalid format")

// UnknownVersionError is returned for well-formed blobs written by a newer
// plugin.
type UnknownVersionError struct {
	Version Version
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("state: version %d is newer than supported version %d", e.Version, LatestVersion)
}

type envelope struct {
	Version Version         `cbor:"v"`
	Body    cbor.RawMessage `cbor:"body"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("state: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Save states are tiny; anything large is garbage.
		MaxArrayElements: 1024,
		MaxMapPairs:      1024,
		MaxNestedLevels:  16,
	}.DecMode()
	if err != nil {
		panic("state: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serialises s.
func Encode(s SaveState) ([]byte, error) {
	if s == nil {
		return nil, errors.New("state: nil save state")
	}

	body, err := encMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("state: encode body: %w", err)
	}
	env, err := encMode.Marshal(envelope{Version: s.Version(), Body: body})
	if err != nil {
		return nil, fmt.Errorf("state: encode envelope: %w", err)
	}

	out := make([]byte, 0, len(magic)+len(env))
	out = append(out, magic...)
	return append(out, env...), nil
}

// Decode parses a blob produced by Encode. Unknown versions return an
// *UnknownVersionError; anything else unreadable wraps ErrInvalidFormat.
func Decode(data []byte) (SaveState, error) {
	if !bytes.HasPrefix(data, []byte(magic)) {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidFormat)
	}

	var env envelope
	if err := decMode.Unmarshal(data[len(magic):], &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(env.Body) == 0 {
		return nil, fmt.Errorf("%w: missing body", ErrInvalidFormat)
	}

	switch env.Version {
	case VersionV0:
		var s V0
		if err := decMode.Unmarshal(env.Body, &s); err != nil {
			return nil, fmt.Errorf("%w: v0 body: %v", ErrInvalidFormat, err)
		}
		return s, nil
	default:
		return nil, &UnknownVersionError{Version: env.Version}
	}
}

// Manager reads and writes save states on host-provided streams.
type Manager struct {
	current SaveState
}

// NewManager creates a manager whose current state is V0.
func NewManager() *Manager {
	return &Manager{current: V0{}}
}

// Current returns the state that Save writes.
func (m *Manager) Current() SaveState {
	return m.current
}

// Save writes the current state to w.
func (m *Manager) Save(w io.Writer) error {
	data, err := Encode(m.current)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("state: write: %w", err)
	}
	return nil
}

// Load reads a state from r and makes it current. On error the current
// state is left unchanged.
func (m *Manager) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("state: read: %w", err)
	}

	s, err := Decode(data)
	if err != nil {
		return err
	}

	m.current = s
	return nil
}
