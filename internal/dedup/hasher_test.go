package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasher(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", HashXXH64},
		{"xxh64", HashXXH64},
		{"xxh3", HashXXH3},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			h, err := NewHasher(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Name())
		})
	}

	_, err := NewHasher("md5")
	assert.ErrorIs(t, err, ErrUnknownHasher)
}

func TestXXH64_Seed0(t *testing.T) {
	h, err := NewHasher(HashXXH64)
	require.NoError(t, err)

	// Reference XXH64 digests with seed 0.
	assert.Equal(t, uint64(0xef46db3751d8e999), h.Sum64(nil))
	assert.Equal(t, uint64(0x44bc2cf5ad770999), h.Sum64([]byte("abc")))
}

func TestHasher_Deterministic(t *testing.T) {
	for _, name := range []string{HashXXH64, HashXXH3} {
		h, err := NewHasher(name)
		require.NoError(t, err)

		a := h.Sum64([]byte("GATTACAGATTACA"))
		b := h.Sum64([]byte("GATTACAGATTACA"))
		c := h.Sum64([]byte("GATTACAGATTACC"))
		assert.Equal(t, a, b, name)
		assert.NotEqual(t, a, c, name)
	}
}
