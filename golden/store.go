// Package golden keeps golden fixture artifacts in a byte store and checks
// them against the fixture set. Artifacts are framed with a checksum unless the
// store is a directory read by other implementations.
package golden

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/codec"
	"github.com/unkn0wn-root/postcard/fixtures"
	"github.com/unkn0wn-root/postcard/internal/util"
	"github.com/unkn0wn-root/postcard/internal/wire"
	"github.com/unkn0wn-root/postcard/provider"
)

// Framing selects how single artifacts are laid out in the provider.
type Framing uint8

const (
	// FramingWire stores checksummed frames under namespaced keys.
	FramingWire Framing = iota
	// FramingNone stores the bare payload under the artifact name, so the
	// provider holds plain golden files.
	FramingNone
)

// SetCostFunc computes the cost passed to Provider.Set. n is the number of
// artifacts in raw (1 for singles).
type SetCostFunc func(key string, raw []byte, isBundle bool, n int) int64

type Options struct {
	Namespace string
	Provider  provider.Provider

	Logger postcard.Logger
	Hooks  Hooks

	// TTL for stored artifacts; 0 => keep until deleted where the provider
	// supports it.
	TTL     time.Duration
	Framing Framing
	// Compression of bundles written by PutBundle.
	Compression Compression
	// Encode controls how PutFixture encodes values.
	Encode         postcard.EncodeOptions
	ComputeSetCost SetCostFunc
}

type Store struct {
	ns          string
	provider    provider.Provider
	log         postcard.Logger
	hooks       Hooks
	ttl         time.Duration
	framing     Framing
	compression Compression
	encode      postcard.EncodeOptions
	// reencodes decoded values in wire order
	canon   *postcard.Encoder
	setCost SetCostFunc
}

func New(opts Options) (*Store, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("golden: provider is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("golden: namespace is required")
	}
	if !opts.Compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrCompression, opts.Compression)
	}

	s := &Store{
		ns:          opts.Namespace,
		provider:    opts.Provider,
		ttl:         opts.TTL,
		framing:     opts.Framing,
		compression: opts.Compression,
		encode:      opts.Encode,
		canon:       postcard.NewEncoder(postcard.EncodeOptions{MapOrder: postcard.MapOrderInsertion}),
	}
	s.log = util.Coalesce[postcard.Logger](opts.Logger, postcard.NopLogger{})
	s.hooks = util.Coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.ComputeSetCost != nil {
		s.setCost = opts.ComputeSetCost
	} else {
		s.setCost = func(_ string, raw []byte, _ bool, _ int) int64 { return int64(len(raw)) }
	}
	return s, nil
}

func (s *Store) Namespace() string { return s.ns }

func (s *Store) Close(ctx context.Context) error { return s.provider.Close(ctx) }

func (s *Store) key(name string) string {
	if s.framing == FramingNone {
		return name
	}
	return util.FixtureKey(s.ns, name)
}

func (s *Store) set(ctx context.Context, key string, raw []byte, isBundle bool, n int) error {
	ok, err := s.provider.Set(ctx, key, raw, s.setCost(key, raw, isBundle, n), s.ttl)
	if err != nil {
		return fmt.Errorf("golden: set %s: %w", key, err)
	}
	if !ok {
		s.hooks.ProviderSetRejected(key, isBundle)
		s.log.Warn("set rejected by provider (pressure)", postcard.Fields{"key": key, "bundle": isBundle})
	}
	return nil
}

// Put stores payload as the artifact name.
func (s *Store) Put(ctx context.Context, name string, payload []byte) error {
	k := s.key(name)
	raw := payload
	if s.framing == FramingWire {
		raw = wire.EncodeSingle(payload)
	}
	if err := s.set(ctx, k, raw, false, 1); err != nil {
		return err
	}
	s.log.Debug("artifact stored", postcard.Fields{"name": name, "size": len(payload)})
	return nil
}

// Get returns the payload of artifact name. A damaged frame is deleted and
// reported as a miss.
func (s *Store) Get(ctx context.Context, name string) ([]byte, bool, error) {
	k := s.key(name)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}
	if s.framing == FramingNone {
		return raw, true, nil
	}
	payload, err := wire.DecodeSingle(raw)
	if err != nil {
		reason := "corrupt"
		if errors.Is(err, wire.ErrChecksum) {
			reason = "checksum"
		}
		_ = s.provider.Del(ctx, k) // self-heal
		s.hooks.SelfHeal(k, reason)
		s.log.Warn("dropped damaged artifact", postcard.Fields{"name": name, "reason": reason})
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return s.provider.Del(ctx, s.key(name))
}

// PutFixture encodes the fixture value and stores it under the fixture name.
// It returns the encoded bytes.
func (s *Store) PutFixture(ctx context.Context, f fixtures.Fixture) ([]byte, error) {
	c, err := codec.NewPostcard(f.Schema, s.encode)
	if err != nil {
		return nil, fmt.Errorf("golden: schema %s: %w", f.Name, err)
	}
	b, err := c.Encode(f.Value)
	if err != nil {
		return nil, fmt.Errorf("golden: encode %s: %w", f.Name, err)
	}
	if err := s.Put(ctx, f.Name, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Verify checks the stored artifact of f: it must decode exactly under
// f.Schema, equal f.Value, and re-encode to the stored bytes.
func (s *Store) Verify(ctx context.Context, f fixtures.Fixture) error {
	payload, ok, err := s.Get(ctx, f.Name)
	if err != nil {
		return err
	}
	if !ok {
		return s.verifyFailed(f.Name, ErrMissing)
	}
	return s.verifyFailed(f.Name, s.Check(f, payload))
}

// Check is Verify over bytes the caller already holds.
func (s *Store) Check(f fixtures.Fixture, payload []byte) error {
	return CheckWith(s.canon, f, payload)
}

// CheckWith verifies payload against f, re-encoding through enc, which should
// preserve map entry order.
func CheckWith(enc *postcard.Encoder, f fixtures.Fixture, payload []byte) error {
	got, err := postcard.DecodeExact(payload, f.Schema)
	if err != nil {
		return err
	}
	if !postcard.Equal(f.Value, got) {
		return ErrValueMismatch
	}
	again, err := enc.Encode(got, f.Schema)
	if err != nil {
		return err
	}
	if !bytes.Equal(again, payload) {
		return ErrBytesMismatch
	}
	return nil
}

// CheckCodec decodes payload with c and requires the re-encoding to match
// payload byte for byte.
func CheckCodec[V any](c codec.Codec[V], payload []byte) error {
	v, err := c.Decode(payload)
	if err != nil {
		return err
	}
	again, err := c.Encode(v)
	if err != nil {
		return err
	}
	if !bytes.Equal(again, payload) {
		return ErrBytesMismatch
	}
	return nil
}

func (s *Store) verifyFailed(name string, err error) error {
	if err == nil {
		return nil
	}
	s.hooks.VerifyFailed(name, err)
	s.log.Error("artifact verification failed", postcard.Fields{"name": name, "err": err})
	return fmt.Errorf("golden: verify %s: %w", name, err)
}

// PutBundle stores arts as one bundle and also seeds the single artifacts.
// It returns the bundle's storage key.
func (s *Store) PutBundle(ctx context.Context, arts []Artifact) (string, error) {
	if len(arts) == 0 {
		return "", nil
	}
	names := make([]string, len(arts))
	for i, a := range arts {
		names[i] = a.Name
	}
	raw, err := Pack(arts, s.compression)
	if err != nil {
		return "", err
	}
	bk := util.BundleKey(s.ns, names)
	if err := s.set(ctx, bk, raw, true, len(arts)); err != nil {
		return "", err
	}
	for _, a := range arts {
		if err := s.Put(ctx, a.Name, a.Payload); err != nil {
			return bk, err
		}
	}
	s.log.Info("bundle stored", postcard.Fields{"key": bk, "artifacts": len(arts), "size": len(raw),
		"compression": s.compression.String()})
	return bk, nil
}

// GetMany returns the payloads of names, reading the bundle stored for
// exactly this set when there is one and falling back to single artifacts.
func (s *Store) GetMany(ctx context.Context, names []string) (map[string][]byte, []string, error) {
	out := make(map[string][]byte, len(names))
	if len(names) == 0 {
		return out, nil, nil
	}

	bk := util.BundleKey(s.ns, names)
	if raw, ok, err := s.provider.Get(ctx, bk); err == nil && ok {
		arts, err := Unpack(raw)
		if err != nil {
			_ = s.provider.Del(ctx, bk)
			s.hooks.BundleRejected(s.ns, len(names), "decode_error")
		} else {
			byName := make(map[string][]byte, len(arts))
			for _, a := range arts {
				byName[a.Name] = a.Payload
			}
			var missing []string
			for _, n := range names {
				if p, ok := byName[n]; ok {
					out[n] = p
				} else {
					missing = append(missing, n)
				}
			}
			if len(missing) == 0 {
				return out, nil, nil
			}
			s.hooks.BundleRejected(s.ns, len(names), "incomplete")
			clear(out)
		}
	}

	var missing []string
	for _, n := range names {
		p, ok, err := s.Get(ctx, n)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			out[n] = p
		} else {
			missing = append(missing, n)
		}
	}
	return out, missing, nil
}

// VerifyAll verifies every fixture and returns the names that failed, sorted,
// with the joined errors.
func (s *Store) VerifyAll(ctx context.Context, fs []fixtures.Fixture) ([]string, error) {
	var (
		failed []string
		errs   []error
	)
	for _, f := range fs {
		if err := s.Verify(ctx, f); err != nil {
			failed = append(failed, f.Name)
			errs = append(errs, err)
		}
	}
	sort.Strings(failed)
	return failed, errors.Join(errs...)
}

// ErrNotListable is returned by List when the provider cannot enumerate keys.
var ErrNotListable = errors.New("golden: provider cannot list keys")

// List returns the names of the stored artifacts, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	l, ok := s.provider.(provider.Lister)
	if !ok {
		return nil, ErrNotListable
	}
	prefix := util.FixtureKey(s.ns, "")
	if s.framing == FramingNone {
		prefix = ""
	}
	keys, err := l.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if s.framing == FramingNone && !strings.HasSuffix(k, ".bin") {
			continue
		}
		names = append(names, strings.TrimPrefix(k, prefix))
	}
	return names, nil
}

// PutManifest stores m encoded in format next to the artifacts.
func (s *Store) PutManifest(ctx context.Context, m *Manifest, format string) error {
	c, err := ManifestCodec(format)
	if err != nil {
		return err
	}
	b, err := c.Encode(*m)
	if err != nil {
		return fmt.Errorf("golden: encode manifest: %w", err)
	}
	return s.set(ctx, s.manifestKey(format), b, false, len(m.Entries))
}

// GetManifest loads the manifest stored in format.
func (s *Store) GetManifest(ctx context.Context, format string) (*Manifest, bool, error) {
	c, err := ManifestCodec(format)
	if err != nil {
		return nil, false, err
	}
	b, ok, err := s.provider.Get(ctx, s.manifestKey(format))
	if err != nil || !ok {
		return nil, false, err
	}
	m, err := c.Decode(b)
	if err != nil {
		return nil, false, fmt.Errorf("golden: decode manifest: %w", err)
	}
	return &m, true, nil
}

func (s *Store) manifestKey(format string) string {
	if s.framing == FramingNone {
		return ManifestFile(format)
	}
	return util.ManifestKey(s.ns, format)
}
