package trim

import (
	"context"
	"encoding/binary"
	"io/ioutil"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// rangeRecordSize is the on-disk size of one ClipRange: three int32 fields
// (Left, Right, Size), matching spec §5's "clipped-range table is a flat
// array of plain-old-data indexed by read id".
const rangeRecordSize = 4 * 3

// WriteRanges writes ranges as the flat, read-id-indexed table of spec §5:
// ranges[i] is read id i's clear range, with no header and no gaps (a read
// with no entry must still occupy its slot as a discarded ClipRange{}).
func WriteRanges(ctx context.Context, path string, ranges []ClipRange) error {
	buf := make([]byte, len(ranges)*rangeRecordSize)
	for i, r := range ranges {
		off := i * rangeRecordSize
		binary.LittleEndian.PutUint32(buf[off:], uint32(r.Left))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(r.Right))
		binary.LittleEndian.PutUint32(buf[off+8:], uint32(r.Size))
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "trim: create %s", path)
	}
	if _, err := f.Writer(ctx).Write(buf); err != nil {
		_ = f.Close(ctx)
		return errors.Wrapf(err, "trim: write %s", path)
	}
	return errors.Wrapf(f.Close(ctx), "trim: close %s", path)
}

// ReadRanges reads back a table written by WriteRanges.
func ReadRanges(ctx context.Context, path string) ([]ClipRange, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "trim: open %s", path)
	}
	defer f.Close(ctx) // nolint: errcheck
	data, err := ioutil.ReadAll(f.Reader(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "trim: read %s", path)
	}
	if len(data)%rangeRecordSize != 0 {
		return nil, errors.Errorf("trim: %s size %d not a multiple of record size %d", path, len(data), rangeRecordSize)
	}
	n := len(data) / rangeRecordSize
	out := make([]ClipRange, n)
	for i := range out {
		off := i * rangeRecordSize
		out[i] = ClipRange{
			Left:  int(int32(binary.LittleEndian.Uint32(data[off:]))),
			Right: int(int32(binary.LittleEndian.Uint32(data[off+4:]))),
			Size:  int(int32(binary.LittleEndian.Uint32(data[off+8:]))),
		}
	}
	return out, nil
}
