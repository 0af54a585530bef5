// Package providertest checks that a provider.Provider honors the contract the
// golden store relies on.
package providertest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/postcard/provider"
)

// Run exercises p with keys under prefix. p must start empty of those keys.
func Run(t *testing.T, p provider.Provider, prefix string) {
	t.Helper()
	ctx := context.Background()
	k := func(s string) string { return prefix + s }

	t.Run("miss", func(t *testing.T) {
		v, ok, err := p.Get(ctx, k("absent"))
		require.NoError(t, err)
		require.False(t, ok)
		require.Nil(t, v)
	})

	t.Run("transparent", func(t *testing.T) {
		in := []byte{0x00, 0xFF, 0x80, 0x01, 'P', 'C'}
		ok, err := p.Set(ctx, k("bin"), in, int64(len(in)), 0)
		require.NoError(t, err)
		require.True(t, ok)

		got, ok, err := p.Get(ctx, k("bin"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, in, got)

		// the caller's buffer stays its own
		in[0] = 0x42
		got, _, _ = p.Get(ctx, k("bin"))
		require.Equal(t, byte(0x00), got[0])
	})

	t.Run("overwrite", func(t *testing.T) {
		_, err := p.Set(ctx, k("ow"), []byte("old"), 3, 0)
		require.NoError(t, err)
		_, err = p.Set(ctx, k("ow"), []byte("newer"), 5, 0)
		require.NoError(t, err)
		got, ok, err := p.Get(ctx, k("ow"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("newer"), got)
	})

	t.Run("empty value", func(t *testing.T) {
		_, err := p.Set(ctx, k("empty"), []byte{}, 1, 0)
		require.NoError(t, err)
		got, ok, err := p.Get(ctx, k("empty"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Empty(t, got)
	})

	t.Run("del", func(t *testing.T) {
		_, err := p.Set(ctx, k("del"), []byte("x"), 1, 0)
		require.NoError(t, err)
		require.NoError(t, p.Del(ctx, k("del")))
		_, ok, err := p.Get(ctx, k("del"))
		require.NoError(t, err)
		require.False(t, ok)
		require.NoError(t, p.Del(ctx, k("del")))
	})

	t.Run("large", func(t *testing.T) {
		in := bytes.Repeat([]byte{0xAB}, 64<<10)
		_, err := p.Set(ctx, k("large"), in, int64(len(in)), 0)
		require.NoError(t, err)
		got, ok, err := p.Get(ctx, k("large"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, in, got)
	})

	l, ok := p.(provider.Lister)
	if !ok {
		return
	}
	t.Run("keys", func(t *testing.T) {
		keys, err := l.Keys(ctx, prefix)
		require.NoError(t, err)
		require.Equal(t, []string{k("bin"), k("empty"), k("large"), k("ow")}, keys)

		keys, err = l.Keys(ctx, k("e"))
		require.NoError(t, err)
		require.Equal(t, []string{k("empty")}, keys)
	})
}
