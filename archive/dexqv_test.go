package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildDexqvStream hand-assembles a minimal .dexqv stream for one read
// whose quality values are all 10 (RLE pair (10,3), Huffman-coded against
// a two-symbol table: symbol 3 -> code 0 (length 1), symbol 10 -> code 1
// (length 1)).
func buildDexqvStream(t *testing.T, well int32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeWitness(&buf))
	require.NoError(t, writeInt32(&buf, int32(len("prefix"))))
	buf.WriteString("prefix")

	lengths := make([]byte, dexqvAlphabet)
	lengths[3] = 1
	lengths[10] = 1
	buf.Write(lengths)

	_, err := writeWellDelta(&buf, well, 0)
	require.NoError(t, err)
	require.NoError(t, writeInt32(&buf, 0))  // beg
	require.NoError(t, writeInt32(&buf, 3))  // end
	require.NoError(t, writeInt32(&buf, 2))  // rawLen: 2 RLE bytes (value, count)
	require.NoError(t, writeInt32(&buf, 2))  // bitLen: 2 bits
	buf.WriteByte(0x80)                      // bits "10": symbol10 then symbol3
	return buf.Bytes()
}

func TestDecodeDexqvSingleRead(t *testing.T) {
	stream := buildDexqvStream(t, 5)
	prefix, reads, err := DecodeDexqv(bytes.NewReader(stream))
	require.NoError(t, err)
	require.Equal(t, "prefix", prefix)
	require.Len(t, reads, 1)
	require.Equal(t, int32(5), reads[0].Well)
	require.Equal(t, []byte{10, 10, 10}, reads[0].Quals)
}

func TestDecodeDexqvEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeWitness(&buf))
	require.NoError(t, writeInt32(&buf, 0))
	buf.Write(make([]byte, dexqvAlphabet))

	_, _, err := DecodeDexqv(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
}
