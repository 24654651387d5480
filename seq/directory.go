package seq

import (
	"context"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"path"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Directory resolves global ReadIDs through an ordered list of Volumes,
// implementing the fixed-layout packed sequence directory of spec §6:
// <title>.info, one <title>.<vol>.pac/.hdr/.seqinfo per volume.
type Directory struct {
	Title   string
	Volumes []*Volume

	nameToID map[string]ReadID
}

func infoPath(dir, title string) string    { return path.Join(dir, title+".info") }
func pacPath(dir, title string, v int) string {
	return path.Join(dir, fmt.Sprintf("%s.%d.pac", title, v))
}
func hdrPath(dir, title string, v int) string {
	return path.Join(dir, fmt.Sprintf("%s.%d.hdr", title, v))
}
func seqinfoPath(dir, title string, v int) string {
	return path.Join(dir, fmt.Sprintf("%s.%d.seqinfo", title, v))
}

// recordSize is the on-disk encoding size of one Record: two uint64s and
// two uint32s.
const recordSize = 8 + 4 + 8 + 4

func encodeRecord(buf []byte, r Record) {
	binary.LittleEndian.PutUint64(buf[0:8], r.SeqOffset)
	binary.LittleEndian.PutUint32(buf[8:12], r.SeqSize)
	binary.LittleEndian.PutUint64(buf[12:20], r.NameOffset)
	binary.LittleEndian.PutUint32(buf[20:24], r.NameSize)
}

func decodeRecord(buf []byte) Record {
	return Record{
		SeqOffset:  binary.LittleEndian.Uint64(buf[0:8]),
		SeqSize:    binary.LittleEndian.Uint32(buf[8:12]),
		NameOffset: binary.LittleEndian.Uint64(buf[12:20]),
		NameSize:   binary.LittleEndian.Uint32(buf[20:24]),
	}
}

// Create writes a Directory's volumes to dir under the given title, per
// spec §6's fixed layout. Each volume's .seqinfo trailer carries a seahash
// checksum of its .pac contents (SPEC_FULL §3.A).
func Create(ctx context.Context, dir, title string, volumes []*Volume) error {
	for vi, v := range volumes {
		if err := validateVolume(v); err != nil {
			return errors.Wrapf(err, "seq.Create: volume %d", vi)
		}
		v.Checksum = ChecksumPacked(v.Packed)

		if err := writeWhole(ctx, pacPath(dir, title, vi), v.Packed); err != nil {
			return err
		}
		if err := writeWhole(ctx, hdrPath(dir, title, vi), v.Names); err != nil {
			return err
		}
		info := make([]byte, len(v.Records)*recordSize+8)
		for i, r := range v.Records {
			encodeRecord(info[i*recordSize:], r)
		}
		binary.LittleEndian.PutUint64(info[len(v.Records)*recordSize:], v.Checksum)
		if err := writeWhole(ctx, seqinfoPath(dir, title, vi), info); err != nil {
			return err
		}
	}
	infoText := fmt.Sprintf("%d\n", len(volumes))
	for _, v := range volumes {
		infoText += fmt.Sprintf("%d\n", len(v.Records))
	}
	return writeWhole(ctx, infoPath(dir, title), []byte(infoText))
}

func validateVolume(v *Volume) error {
	for i, r := range v.Records {
		if r.SeqOffset%4 != 0 {
			return fmt.Errorf("record %d: seq_offset %d not 4-residue aligned", i, r.SeqOffset)
		}
		if r.SeqOffset/4+uint64((r.SeqSize+3)/4) > uint64(len(v.Packed)) {
			return fmt.Errorf("record %d: seq range exceeds packed buffer", i)
		}
	}
	return nil
}

// Open reads a Directory previously written by Create. If mmapBatch is true,
// volumes backed by local (non-scheme) paths are opened in windowed/mmap
// mode (spec §4.A "batch mode") instead of being read fully into RAM.
func Open(ctx context.Context, dir, title string, mmapBatch bool) (*Directory, error) {
	infoData, err := readWhole(ctx, infoPath(dir, title))
	if err != nil {
		return nil, errors.Wrapf(err, "seq.Open: read %s", infoPath(dir, title))
	}
	lines := strings.Split(strings.TrimSpace(string(infoData)), "\n")
	if len(lines) == 0 {
		return nil, errors.Errorf("seq.Open: %s is empty", infoPath(dir, title))
	}
	nVolumes, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, errors.Wrapf(err, "seq.Open: parse volume count")
	}
	if len(lines) < nVolumes+1 {
		return nil, errors.Errorf("seq.Open: %s: expected %d volume counts, got %d lines", infoPath(dir, title), nVolumes, len(lines)-1)
	}

	d := &Directory{Title: title, nameToID: map[string]ReadID{}}
	for vi := 0; vi < nVolumes; vi++ {
		hdr, err := readWhole(ctx, hdrPath(dir, title, vi))
		if err != nil {
			return nil, err
		}
		info, err := readWhole(ctx, seqinfoPath(dir, title, vi))
		if err != nil {
			return nil, err
		}
		if len(info) < 8 || (len(info)-8)%recordSize != 0 {
			return nil, errors.Errorf("seq.Open: %s: corrupt seqinfo length %d", seqinfoPath(dir, title, vi), len(info))
		}
		nRecs := (len(info) - 8) / recordSize
		records := make([]Record, nRecs)
		for i := range records {
			records[i] = decodeRecord(info[i*recordSize:])
		}
		checksum := binary.LittleEndian.Uint64(info[nRecs*recordSize:])

		v := &Volume{Names: hdr, Records: records, Checksum: checksum}
		if mmapBatch && isLocalPath(pacPath(dir, title, vi)) {
			loader, err := newMmapLoader(pacPath(dir, title, vi))
			if err != nil {
				return nil, err
			}
			v.loader = loader
		} else {
			packed, err := readWhole(ctx, pacPath(dir, title, vi))
			if err != nil {
				return nil, err
			}
			v.Packed = packed
		}
		d.Volumes = append(d.Volumes, v)
		for i := range records {
			d.nameToID[v.Name(i)] = ReadID{Volume: int32(vi), InVolume: int32(i)}
		}
	}
	return d, nil
}

// Verify recomputes each volume's checksum and compares it against the
// stored value, catching torn or truncated .pac files (spec §7 "io").
// Volumes opened in mmap batch mode are not checked (the point of batch
// mode is to avoid reading the whole file).
func (d *Directory) Verify() error {
	for vi, v := range d.Volumes {
		if v.loader != nil {
			continue
		}
		if got := ChecksumPacked(v.Packed); got != v.Checksum {
			return fmt.Errorf("seq: volume %d checksum mismatch: got %x, want %x", vi, got, v.Checksum)
		}
	}
	return nil
}

// Close releases any mmap-backed volumes.
func (d *Directory) Close() error {
	var first error
	for _, v := range d.Volumes {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NumSeqs returns the total number of reads across all volumes.
func (d *Directory) NumSeqs() int {
	n := 0
	for _, v := range d.Volumes {
		n += v.NumSeqs()
	}
	return n
}

// NameToID resolves a read name to a ReadID, recovered from
// original_source/src/fsa/read_store.hpp's NameToId (spec §3.A supplement).
func (d *Directory) NameToID(name string) (ReadID, bool) {
	id, ok := d.nameToID[name]
	return id, ok
}

// IDToName is the inverse of NameToID.
func (d *Directory) IDToName(id ReadID) string {
	return d.Volumes[id.Volume].Name(int(id.InVolume))
}

// Extract resolves id and delegates to its volume's Extract.
func (d *Directory) Extract(id ReadID, from, to int, strand Strand) ([]Base, error) {
	return d.Volumes[id.Volume].Extract(int(id.InVolume), from, to, strand)
}

// SeqSize returns the residue count of id.
func (d *Directory) SeqSize(id ReadID) int {
	return d.Volumes[id.Volume].SeqSize(int(id.InVolume))
}

func isLocalPath(p string) bool {
	return !strings.Contains(p, "://")
}

func writeWhole(ctx context.Context, path string, data []byte) error {
	f, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "seq: create %s", path)
	}
	if _, err := f.Writer(ctx).Write(data); err != nil {
		_ = f.Close(ctx)
		return errors.Wrapf(err, "seq: write %s", path)
	}
	return errors.Wrapf(f.Close(ctx), "seq: close %s", path)
}

func readWhole(ctx context.Context, path string) ([]byte, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "seq: open %s", path)
	}
	defer f.Close(ctx) // nolint: errcheck
	data, err := ioutil.ReadAll(f.Reader(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "seq: read %s", path)
	}
	return data, nil
}
