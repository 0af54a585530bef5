package golden

import (
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/zeebo/blake3"

	"github.com/unkn0wn-root/postcard/codec"
)

const ManifestVersion = 1

// Manifest lists the artifacts of one fixture run with their sizes and
// BLAKE3 digests.
type Manifest struct {
	Version   int       `json:"version" cbor:"version" msgpack:"version"`
	Namespace string    `json:"namespace" cbor:"namespace" msgpack:"namespace"`
	RunID     string    `json:"run_id,omitempty" cbor:"run_id,omitempty" msgpack:"run_id,omitempty"`
	Created   time.Time `json:"created" cbor:"created" msgpack:"created"`
	Entries   []Entry   `json:"entries" cbor:"entries" msgpack:"entries"`
}

type Entry struct {
	Name string `json:"name" cbor:"name" msgpack:"name"`
	// Type is the schema type name of the artifact.
	Type   string `json:"type" cbor:"type" msgpack:"type"`
	Size   int    `json:"size" cbor:"size" msgpack:"size"`
	BLAKE3 string `json:"blake3" cbor:"blake3" msgpack:"blake3"`
}

// Digest is the hex BLAKE3-256 of b.
func Digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func NewManifest(namespace, runID string, created time.Time) *Manifest {
	return &Manifest{Version: ManifestVersion, Namespace: namespace, RunID: runID, Created: created}
}

// Add records payload under name, replacing an earlier entry. Entries stay
// sorted by name.
func (m *Manifest) Add(name, typ string, payload []byte) {
	e := Entry{Name: name, Type: typ, Size: len(payload), BLAKE3: Digest(payload)}
	i := sort.Search(len(m.Entries), func(i int) bool { return m.Entries[i].Name >= name })
	if i < len(m.Entries) && m.Entries[i].Name == name {
		m.Entries[i] = e
		return
	}
	m.Entries = append(m.Entries, Entry{})
	copy(m.Entries[i+1:], m.Entries[i:])
	m.Entries[i] = e
}

func (m *Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Check reports whether payload is the artifact recorded under name.
func (m *Manifest) Check(name string, payload []byte) error {
	e, ok := m.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s not listed", ErrManifest, name)
	}
	if e.Size != len(payload) {
		return fmt.Errorf("%w: %s has %d bytes, manifest says %d", ErrManifest, name, len(payload), e.Size)
	}
	if d := Digest(payload); d != e.BLAKE3 {
		return fmt.Errorf("%w: %s digest %s, manifest says %s", ErrManifest, name, d[:16], e.BLAKE3[:min(16, len(e.BLAKE3))])
	}
	return nil
}

// ManifestFormats lists the encodings a manifest can be written in.
var ManifestFormats = []string{"cbor", "msgpack", "json"}

// ManifestCodec returns the codec for format.
func ManifestCodec(format string) (codec.Codec[Manifest], error) {
	switch format {
	case "cbor":
		c, err := codec.NewCBOR[Manifest](true)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "msgpack":
		return codec.Msgpack[Manifest]{}, nil
	case "json":
		return codec.JSON[Manifest]{}, nil
	}
	return nil, fmt.Errorf("golden: unknown manifest format %q", format)
}

// ManifestFile is the file name a manifest in format is written to.
func ManifestFile(format string) string { return "manifest." + format }
