package mpt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesToNibblesRoundTrip(t *testing.T) {
	for _, b := range [][]byte{nil, {0x00}, {0xab, 0xcd}, {0x01, 0x02, 0x03, 0xff}} {
		nib := bytesToNibbles(b)
		require.Len(t, nib, len(b)*2)
		require.Equal(t, b, nibblesToBytes(nib))
	}
}

func TestNibblesToBytesPanicsOnOddLength(t *testing.T) {
	require.Panics(t, func() { nibblesToBytes([]Nibble{1, 2, 3}) })
}

func TestCommonPrefixLen(t *testing.T) {
	cases := []struct {
		a, b []Nibble
		want int
	}{
		{nil, nil, 0},
		{[]Nibble{1, 2, 3}, []Nibble{1, 2, 3}, 3},
		{[]Nibble{1, 2, 3}, []Nibble{1, 2, 4}, 2},
		{[]Nibble{1, 2}, []Nibble{1, 2, 3}, 2},
		{[]Nibble{5}, []Nibble{6}, 0},
	}
	for _, c := range cases {
		require.Equal(t, c.want, commonPrefixLen(c.a, c.b))
	}
}

func TestHexPrefixEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		path   []Nibble
		isLeaf bool
	}{
		{nil, true},
		{[]Nibble{1}, true},
		{[]Nibble{1, 2}, false},
		{[]Nibble{1, 2, 3}, true},
		{[]Nibble{0xf, 0x0, 0xa, 0xb, 0xc}, false},
	}
	for _, c := range cases {
		enc := hexPrefixEncode(c.path, c.isLeaf)
		path, isLeaf, err := hexPrefixDecode(enc)
		require.NoError(t, err)
		require.Equal(t, c.isLeaf, isLeaf)
		require.Equal(t, c.path, path)
	}
}

func TestHexPrefixDecodeRejectsMalformedInput(t *testing.T) {
	_, _, err := hexPrefixDecode(nil)
	require.ErrorIs(t, err, ErrMalformedNode)

	// flag nibble with bits outside {0,1,2,3}
	_, _, err = hexPrefixDecode([]byte{0x40})
	require.ErrorIs(t, err, ErrMalformedNode)

	// even-length flag but a non-zero low nibble in the first byte
	_, _, err = hexPrefixDecode([]byte{0x01})
	require.ErrorIs(t, err, ErrMalformedNode)
}

// FuzzHexPrefixRoundTrip feeds arbitrary byte strings through
// bytesToNibbles and hexPrefixEncode/Decode, checking that every path
// derived from a byte string survives the round trip (spec.md §8's
// codec round-trip property).
func FuzzHexPrefixRoundTrip(f *testing.F) {
	f.Add([]byte(nil), true)
	f.Add([]byte{0x00}, false)
	f.Add([]byte{0xab, 0xcd, 0xef}, true)
	f.Add([]byte{0x01, 0x02, 0x03, 0xff}, false)

	f.Fuzz(func(t *testing.T, b []byte, isLeaf bool) {
		path := bytesToNibbles(b)

		enc := hexPrefixEncode(path, isLeaf)
		decPath, decLeaf, err := hexPrefixDecode(enc)
		require.NoError(t, err)
		require.Equal(t, isLeaf, decLeaf)
		require.Equal(t, path, decPath)
		require.Equal(t, b, nibblesToBytes(decPath))
	})
}
