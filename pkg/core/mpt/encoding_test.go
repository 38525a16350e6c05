package mpt

import (
	"testing"

	"github.com/nspcc-dev/mpttrie/pkg/keccak"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeLeafRoundTrip(t *testing.T) {
	leaf := newLeaf([]Nibble{1, 2, 3, 4}, []byte("value"))
	raw, err := encodeNode(leaf)
	require.NoError(t, err)

	decoded, err := decodeNode(raw)
	require.NoError(t, err)
	got, ok := decoded.(*LeafNode)
	require.True(t, ok)
	require.Equal(t, leaf.Path, got.Path)
	require.Equal(t, leaf.Value, got.Value)
	require.False(t, got.dirty())
}

func TestEncodeDecodeExtensionRoundTrip(t *testing.T) {
	branch := newBranch()
	branch.Value = []byte("at-branch")
	ext := newExtension([]Nibble{7, 8}, branch)

	raw, err := encodeNode(ext)
	require.NoError(t, err)

	decoded, err := decodeNode(raw)
	require.NoError(t, err)
	got, ok := decoded.(*ExtensionNode)
	require.True(t, ok)
	require.Equal(t, ext.Path, got.Path)

	child, ok := got.Child.(*UnknownNode)
	require.True(t, ok)
	require.True(t, child.Ref.IsHash || len(child.Ref.Inline) > 0)
}

func TestEncodeDecodeBranchRoundTrip(t *testing.T) {
	branch := newBranch()
	branch.Children[0] = newLeaf([]Nibble{9}, []byte("a"))
	branch.Children[15] = newLeaf([]Nibble{}, []byte("b"))
	branch.Value = []byte("root-value")

	raw, err := encodeNode(branch)
	require.NoError(t, err)

	decoded, err := decodeNode(raw)
	require.NoError(t, err)
	got, ok := decoded.(*BranchNode)
	require.True(t, ok)
	require.Equal(t, branch.Value, got.Value)
	require.NotNil(t, got.Children[0])
	require.NotNil(t, got.Children[15])
	for i := 1; i < 15; i++ {
		require.Nil(t, got.Children[i])
	}
}

func TestNodeKeyInlinesShortEncodingsAndHashesLongOnes(t *testing.T) {
	short := newLeaf([]Nibble{1}, []byte("x"))
	ref, err := nodeKey(short)
	require.NoError(t, err)
	require.False(t, ref.IsHash)
	require.NotEmpty(t, ref.Inline)

	long := newLeaf([]Nibble{1, 2, 3, 4, 5, 6, 7, 8}, make([]byte, 64))
	ref, err = nodeKey(long)
	require.NoError(t, err)
	require.True(t, ref.IsHash)
}

func TestDecodeNodeRejectsMalformedRLP(t *testing.T) {
	_, err := decodeNode([]byte{0xff, 0xff})
	require.Error(t, err)
}

func TestEmptyTreeHashMatchesRLPOfEmptyString(t *testing.T) {
	enc, err := rlpString(nil)
	require.NoError(t, err)
	got := Hash(keccak.Sum256(enc))
	require.Equal(t, EmptyTreeHash, got)
}
