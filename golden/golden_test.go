package golden

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/codec"
	"github.com/unkn0wn-root/postcard/fixtures"
	"github.com/unkn0wn-root/postcard/internal/util"
	"github.com/unkn0wn-root/postcard/provider"
	"github.com/unkn0wn-root/postcard/provider/bigcache"
	"github.com/unkn0wn-root/postcard/provider/fsdir"
	"github.com/unkn0wn-root/postcard/provider/ristretto"
	"github.com/unkn0wn-root/postcard/schema"
)

type recHooks struct {
	mu       sync.Mutex
	heals    []string
	bundles  []string
	rejected []string
	failed   []string
}

func (h *recHooks) SelfHeal(k, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.heals = append(h.heals, k+"="+reason)
}

func (h *recHooks) BundleRejected(_ string, _ int, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bundles = append(h.bundles, reason)
}

func (h *recHooks) ProviderSetRejected(k string, _ bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected = append(h.rejected, k)
}

func (h *recHooks) VerifyFailed(name string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed = append(h.failed, name)
}

func newBigcache(t *testing.T) provider.Provider {
	t.Helper()
	p, err := bigcache.New(context.Background(), bigcache.Config{})
	require.NoError(t, err)
	return p
}

func newStore(t *testing.T, p provider.Provider, mut func(*Options)) (*Store, *recHooks) {
	t.Helper()
	h := &recHooks{}
	opts := Options{Namespace: "test", Provider: p, Hooks: h}
	if mut != nil {
		mut(&opts)
	}
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, h
}

func TestNewValidates(t *testing.T) {
	_, err := New(Options{Namespace: "x"})
	require.Error(t, err)
	_, err = New(Options{Provider: newBigcache(t)})
	require.Error(t, err)
	_, err = New(Options{Namespace: "x", Provider: newBigcache(t), Compression: Compression(9)})
	require.ErrorIs(t, err, ErrCompression)
}

func TestPutFixtureAndVerifyAll(t *testing.T) {
	ctx := context.Background()
	s, h := newStore(t, newBigcache(t), nil)
	for _, f := range fixtures.All() {
		b, err := s.PutFixture(ctx, f)
		require.NoError(t, err, f.Name)
		want, err := postcard.Encode(f.Value, f.Schema)
		require.NoError(t, err)
		require.Equal(t, want, b)
	}
	failed, err := s.VerifyAll(ctx, fixtures.All())
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Empty(t, h.failed)
}

func TestPutFixtureHonorsMapOrderAndSchema(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, newBigcache(t), func(o *Options) {
		o.Encode = postcard.EncodeOptions{MapOrder: postcard.MapOrderInsertion}
	})

	f, _ := fixtures.Lookup("nested.bin")
	v := fixtures.NestedSample().(postcard.Record)
	m := v[1].(postcard.Map)
	v[1] = postcard.Map{m[2], m[0], m[1]}
	f.Value = v
	got, err := s.PutFixture(ctx, f)
	require.NoError(t, err)
	want, err := postcard.NewEncoder(postcard.EncodeOptions{MapOrder: postcard.MapOrderInsertion}).Encode(v, f.Schema)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = s.PutFixture(ctx, fixtures.Fixture{Name: "bad.bin", Schema: &schema.Schema{Kind: schema.KindSeq}, Value: postcard.Seq{}})
	require.ErrorIs(t, err, schema.ErrInvalid)
	_, ok, err := s.Get(ctx, "bad.bin")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckCodec(t *testing.T) {
	c := codec.Typed[fixtures.InnerStructT, *fixtures.InnerStructT]{}
	b, err := c.Encode(fixtures.InnerStructT{ID: 1, Name: "a"})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x01, 'a'}, b)
	require.NoError(t, CheckCodec[fixtures.InnerStructT](c, b))

	// id 1 with a redundant continuation byte
	require.ErrorIs(t, CheckCodec[fixtures.InnerStructT](c, []byte{0x81, 0x00, 0x01, 'a'}), ErrBytesMismatch)
	require.ErrorIs(t, CheckCodec[fixtures.InnerStructT](c, b[:2]), postcard.ErrTruncatedInput)
}

func TestGetSelfHeals(t *testing.T) {
	ctx := context.Background()
	p := newBigcache(t)
	s, h := newStore(t, p, nil)

	require.NoError(t, s.Put(ctx, "a.bin", []byte{1, 2, 3}))
	key := util.FixtureKey("test", "a.bin")
	raw, ok, err := p.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	flipped := append([]byte(nil), raw...)
	flipped[len(flipped)-1] ^= 0xFF
	_, err = p.Set(ctx, key, flipped, 1, 0)
	require.NoError(t, err)

	_, ok, err = s.Get(ctx, "a.bin")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, _ = p.Get(ctx, key)
	require.False(t, ok, "damaged entry should be deleted")

	_, err = p.Set(ctx, key, []byte("garbage"), 1, 0)
	require.NoError(t, err)
	_, ok, err = s.Get(ctx, "a.bin")
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, []string{key + "=checksum", key + "=corrupt"}, h.heals)
}

func TestVerifyFailures(t *testing.T) {
	ctx := context.Background()
	s, h := newStore(t, newBigcache(t), nil)
	f, ok := fixtures.Lookup("newtype_struct.bin")
	require.True(t, ok)

	err := s.Verify(ctx, f)
	require.ErrorIs(t, err, ErrMissing)

	cases := []struct {
		name    string
		payload []byte
		want    error
	}{
		{"other value", []byte{0x01}, ErrValueMismatch},
		{"non-minimal varint", []byte{0xB1, 0xD1, 0xF9, 0xD6, 0x83, 0x00}, ErrBytesMismatch},
		{"trailing", []byte{0xB1, 0xD1, 0xF9, 0xD6, 0x03, 0x00}, postcard.ErrTrailingBytes},
		{"unterminated", []byte{0xB1, 0xD1}, postcard.ErrMalformedVarint},
	}
	for _, tc := range cases {
		require.NoError(t, s.Put(ctx, f.Name, tc.payload))
		require.ErrorIs(t, s.Verify(ctx, f), tc.want, tc.name)
	}
	require.Len(t, h.failed, len(cases)+1)

	failed, err := s.VerifyAll(ctx, []fixtures.Fixture{f})
	require.Error(t, err)
	require.Equal(t, []string{f.Name}, failed)
}

func TestCheckKeepsWireMapOrder(t *testing.T) {
	f, ok := fixtures.Lookup("nested.bin")
	require.True(t, ok)

	// a generator that iterates maps in another order
	v := fixtures.NestedSample().(postcard.Record)
	m := v[1].(postcard.Map)
	v[1] = postcard.Map{m[2], m[0], m[1]}
	enc := postcard.NewEncoder(postcard.EncodeOptions{MapOrder: postcard.MapOrderInsertion})
	b, err := enc.Encode(v, f.Schema)
	require.NoError(t, err)

	s, _ := newStore(t, newBigcache(t), nil)
	require.NoError(t, s.Check(f, b))
}

func TestFsdirFramingNone(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p, err := fsdir.New(fsdir.Config{Dir: dir})
	require.NoError(t, err)
	s, _ := newStore(t, p, func(o *Options) { o.Framing = FramingNone })

	for _, f := range fixtures.All() {
		b, err := s.PutFixture(ctx, f)
		require.NoError(t, err)
		onDisk, err := os.ReadFile(filepath.Join(dir, f.Name))
		require.NoError(t, err)
		require.Equal(t, b, onDisk, f.Name)
	}
	failed, err := s.VerifyAll(ctx, fixtures.All())
	require.NoError(t, err)
	require.Empty(t, failed)

	m := NewManifest("test", "run", time.Unix(1699000000, 0).UTC())
	require.NoError(t, s.PutManifest(ctx, m, "json"))
	_, err = os.Stat(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	names, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, fixtures.Names(), names)
}

func TestListFramed(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, newBigcache(t), nil)
	other, _ := newStore(t, newBigcache(t), func(o *Options) { o.Namespace = "other" })
	require.NoError(t, s.Put(ctx, "b.bin", []byte{1}))
	require.NoError(t, s.Put(ctx, "a.bin", []byte{2}))
	require.NoError(t, other.Put(ctx, "c.bin", []byte{3}))

	names, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.bin", "b.bin"}, names)

	rp, err := ristretto.New(ristretto.DefaultConfig(1 << 20))
	require.NoError(t, err)
	rs, _ := newStore(t, rp, nil)
	_, err = rs.List(ctx)
	require.ErrorIs(t, err, ErrNotListable)
}

func TestRistrettoStore(t *testing.T) {
	ctx := context.Background()
	p, err := ristretto.New(ristretto.DefaultConfig(1 << 20))
	require.NoError(t, err)
	s, _ := newStore(t, p, nil)

	f, _ := fixtures.Lookup("game_state.bin")
	_, err = s.PutFixture(ctx, f)
	require.NoError(t, err)
	require.NoError(t, s.Verify(ctx, f))
}

func artifacts(t *testing.T) []Artifact {
	t.Helper()
	var out []Artifact
	for _, f := range fixtures.All() {
		b, err := postcard.Encode(f.Value, f.Schema)
		require.NoError(t, err)
		out = append(out, Artifact{Name: f.Name, Payload: b})
	}
	return out
}

func TestBundleRoundTrip(t *testing.T) {
	ctx := context.Background()
	arts := artifacts(t)
	names := make([]string, len(arts))
	for i, a := range arts {
		names[i] = a.Name
	}

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			p := newBigcache(t)
			s, h := newStore(t, p, func(o *Options) { o.Compression = c })
			bk, err := s.PutBundle(ctx, arts)
			require.NoError(t, err)
			require.Equal(t, util.BundleKey("test", names), bk)

			got, missing, err := s.GetMany(ctx, names)
			require.NoError(t, err)
			require.Empty(t, missing)
			for _, a := range arts {
				require.Equal(t, a.Payload, got[a.Name], a.Name)
			}

			// damaged bundle: dropped, singles still serve
			_, err = p.Set(ctx, bk, []byte("PCBN junk"), 1, 0)
			require.NoError(t, err)
			got, missing, err = s.GetMany(ctx, names)
			require.NoError(t, err)
			require.Empty(t, missing)
			require.Len(t, got, len(arts))
			require.Equal(t, []string{"decode_error"}, h.bundles)
		})
	}
}

func TestGetManyReportsMissing(t *testing.T) {
	ctx := context.Background()
	s, h := newStore(t, newBigcache(t), nil)
	require.NoError(t, s.Put(ctx, "a.bin", []byte{1}))

	got, missing, err := s.GetMany(ctx, []string{"a.bin", "b.bin"})
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"a.bin": {1}}, got)
	require.Equal(t, []string{"b.bin"}, missing)
	require.Empty(t, h.bundles)

	got, missing, err = s.GetMany(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Empty(t, missing)
}

func TestPackCompression(t *testing.T) {
	big := bytes.Repeat([]byte("postcard fixture "), 256)
	arts := []Artifact{{Name: "big.bin", Payload: big}, {Name: "empty.bin"}}
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		b, err := Pack(arts, c)
		require.NoError(t, err)
		require.Equal(t, byte(c), b[5], c.String())
		if c != CompressionNone {
			require.Less(t, len(b), len(big))
		}
		got, err := Unpack(b)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, big, got[0].Payload)
		require.Empty(t, got[1].Payload)
	}

	// nothing to gain: stored uncompressed
	b, err := Pack([]Artifact{{Name: "x", Payload: []byte{1}}}, CompressionZstd)
	require.NoError(t, err)
	require.Equal(t, byte(CompressionNone), b[5])

	_, err = Pack([]Artifact{{Name: ""}}, CompressionNone)
	require.Error(t, err)
}

func TestUnpackCorrupt(t *testing.T) {
	good, err := Pack([]Artifact{{Name: "a", Payload: bytes.Repeat([]byte{7}, 512)}}, CompressionLZ4)
	require.NoError(t, err)
	mutate := func(f func([]byte) []byte) []byte { return f(append([]byte(nil), good...)) }

	cases := map[string][]byte{
		"short":       good[:5],
		"magic":       mutate(func(b []byte) []byte { b[0] = 'X'; return b }),
		"version":     mutate(func(b []byte) []byte { b[4] = 9; return b }),
		"compression": mutate(func(b []byte) []byte { b[5] = 9; return b }),
		"size":        mutate(func(b []byte) []byte { b[9]++; return b }),
		"huge size":   mutate(func(b []byte) []byte { b[6] = 0xFF; return b }),
		"body":        mutate(func(b []byte) []byte { return b[:len(b)-3] }),
	}
	for name, b := range cases {
		_, err := Unpack(b)
		require.ErrorIs(t, err, ErrCorruptBundle, name)
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "lz4": CompressionLZ4, "zstd": CompressionZstd} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseCompression("gzip")
	require.ErrorIs(t, err, ErrCompression)
	require.Equal(t, "unknown(7)", Compression(7).String())
}
