package overlap

import (
	"context"
	"io/ioutil"
	"os"
	"path"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRawRecords(t *testing.T, path string, recs []Record) {
	t.Helper()
	buf := make([]byte, RecordSize)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	for _, r := range recs {
		encodeRecord(buf, r)
		_, err := f.Write(buf)
		require.NoError(t, err)
	}
}

// expandNormalize reproduces, in plain Go, the role-expansion/normalization
// Partition is supposed to perform, for comparison against the on-disk
// result (spec §8 round-trip property: "Partition-then-concatenate the
// p-files... equals the role-expanded, normalized input").
func expandNormalize(recs []Record, numReads int) []Record {
	var out []Record
	for _, r := range recs {
		if int(r.QID) < numReads {
			out = append(out, normalizeToSubject(r, true))
		}
		if int(r.SID) < numReads {
			out = append(out, normalizeToSubject(r, false))
		}
	}
	return out
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.SID != b.SID {
			return a.SID < b.SID
		}
		if a.QID != b.QID {
			return a.QID < b.QID
		}
		return a.QOff < b.QOff
	})
}

func TestPartitionRoundTrip(t *testing.T) {
	recs := []Record{
		{QID: 0, QOff: 0, QEnd: 100, QSize: 200, SID: 5, SOff: 0, SEnd: 90, SSize: 150, QDir: Fwd, SDir: Fwd, Score: 1},
		{QID: 3, QOff: 10, QEnd: 60, QSize: 80, SID: 1, SOff: 5, SEnd: 55, SSize: 70, QDir: Rev, SDir: Fwd, Score: 2},
		{QID: 7, QOff: 0, QEnd: 20, QSize: 40, SID: 7, SOff: 0, SEnd: 20, SSize: 40, QDir: Fwd, SDir: Rev, Score: 3},
		{QID: 2, QOff: 1, QEnd: 5, QSize: 9, SID: 9, SOff: 2, SEnd: 6, SSize: 12, QDir: Fwd, SDir: Fwd, Score: 4},
	}
	const numReads = 10

	dir := t.TempDir()
	srcPath := path.Join(dir, "raw")
	writeRawRecords(t, srcPath, recs)

	outDir := t.TempDir()
	opts := PartitionOpts{NumReads: numReads, BatchSize: 3, FilesPerPass: 2, NumWorkers: 2}
	ctx := context.Background()
	require.NoError(t, Partition(ctx, srcPath, outDir, opts))

	np, err := PartitionCount(ctx, outDir)
	require.NoError(t, err)
	require.Equal(t, opts.numPartitions(), np)

	var got []Record
	for p := 0; p < np; p++ {
		rows, err := ReadPartition(ctx, outDir, p)
		require.NoError(t, err)
		for _, r := range rows {
			require.True(t, int(r.SID)/int(opts.BatchSize) == p, "record in wrong partition file")
			require.Equal(t, Fwd, r.SDir)
		}
		got = append(got, rows...)
	}

	want := expandNormalize(recs, numReads)
	sortRecords(got)
	sortRecords(want)
	require.Equal(t, want, got)
}

func TestPartitionEmpty(t *testing.T) {
	dir := t.TempDir()
	srcPath := path.Join(dir, "raw")
	require.NoError(t, ioutil.WriteFile(srcPath, nil, 0644))

	outDir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, Partition(ctx, srcPath, outDir, PartitionOpts{NumReads: 0, BatchSize: 4}))
	np, err := PartitionCount(ctx, outDir)
	require.NoError(t, err)
	require.Equal(t, 0, np)
}
