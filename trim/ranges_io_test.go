package trim

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRangesRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	out := path.Join(dir, "ranges.bin")

	ranges := []ClipRange{
		{Left: 100, Right: 4000, Size: 10000},
		{}, // discarded
		{Left: 0, Right: 2000, Size: 2000},
	}
	require.NoError(t, WriteRanges(ctx, out, ranges))

	got, err := ReadRanges(ctx, out)
	require.NoError(t, err)
	require.Equal(t, ranges, got)
}

func TestReadRangesEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	out := path.Join(dir, "empty.bin")
	require.NoError(t, WriteRanges(ctx, out, nil))

	got, err := ReadRanges(ctx, out)
	require.NoError(t, err)
	require.Empty(t, got)
}
