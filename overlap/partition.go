package overlap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"

	farm "github.com/dgryski/go-farm"
	"github.com/golang/snappy"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
	"v.io/x/lib/vlog"
)

// PartitionOpts configures Partition (spec §4.D's "multi-pass design limits
// open file descriptors" protocol).
type PartitionOpts struct {
	// NumReads is the size N of the subject-id space being partitioned
	// (spec §3 "Partition"): ids in [0, NumReads) are distributed across
	// partitions of BatchSize ids each.
	NumReads int
	// BatchSize is B: partition p holds ids in [p*BatchSize, (p+1)*BatchSize).
	BatchSize uint32
	// FilesPerPass is D, the number of partition files kept open at once.
	// Zero means "all partitions in one pass" (no fd-count limiting).
	FilesPerPass int
	// ChunkBytes is the size of the raw-byte chunks worker goroutines claim
	// from the shared input stream under the read mutex. Zero defaults to
	// 256 MiB, per spec §4.D.
	ChunkBytes int64
	// NumWorkers bounds the goroutines scanning a pass; zero means a single
	// worker (still correct, just serial).
	NumWorkers int
	// Compress wraps each partition's appended chunks in a snappy frame
	// (SPEC_FULL §3.D); off by default, matching §6's raw-concatenation
	// wire format.
	Compress bool
}

func (o PartitionOpts) numPartitions() int {
	return (o.NumReads + int(o.BatchSize) - 1) / int(o.BatchSize)
}

func (o PartitionOpts) filesPerPass() int {
	np := o.numPartitions()
	if o.FilesPerPass <= 0 || o.FilesPerPass > np {
		return np
	}
	return o.FilesPerPass
}

func (o PartitionOpts) chunkBytes() int64 {
	if o.ChunkBytes <= 0 {
		return 256 << 20
	}
	return o.ChunkBytes
}

func (o PartitionOpts) numWorkers() int {
	if o.NumWorkers <= 0 {
		return 1
	}
	return o.NumWorkers
}

func partitionPath(dir string, p int) string {
	return path.Join(dir, fmt.Sprintf("p%08d", p))
}

func npPath(dir string) string {
	return path.Join(dir, "np")
}

// Partition runs the multi-pass partitioning protocol of spec §4.D over the
// raw (un-normalized) Records read from srcPath, writing
// <dir>/p<nnnnnnnn> partition files plus the <dir>/np companion. Every
// input record contributes one output row per id (qid, sid) that falls in
// [0, NumReads): if qid is in range the record is role-swapped
// (change_record_roles) and normalized so that id lands in the Sid slot
// with Sdir forced to Fwd; a record with both ids in range therefore
// yields two rows.
func Partition(ctx context.Context, srcPath, dir string, opts PartitionOpts) error {
	np := opts.numPartitions()
	d := opts.filesPerPass()
	if np == 0 {
		return writeNpFile(ctx, dir, 0, opts.Compress)
	}

	for sfid := 0; sfid < np; sfid += d {
		end := sfid + d
		if end > np {
			end = np
		}
		vlog.VI(1).Infof("overlap.Partition: pass [%d, %d) of %d partitions", sfid, end, np)
		pw, err := newPassWriter(ctx, dir, sfid, end, opts.Compress)
		if err != nil {
			return err
		}
		if err := scanPass(ctx, srcPath, opts, sfid, end, pw); err != nil {
			pw.abort()
			return err
		}
		if err := pw.close(ctx); err != nil {
			return err
		}
	}
	return writeNpFile(ctx, dir, np, opts.Compress)
}

// passWriter owns the (end-sfid) open partition files of one pass, a single
// write mutex serializing appends across all of them (spec §5 "one write
// mutex"), and a running farm-hash XOR-fold checksum per partition
// (SPEC_FULL §3.D).
type passWriter struct {
	sfid, end int
	compress  bool
	mu        sync.Mutex
	files     []file.File
	writers   []io.Writer
	closers   []io.Closer // non-nil only for the snappy.Writer wrapper, when compress.
	checksum  []uint64
}

func newPassWriter(ctx context.Context, dir string, sfid, end int, compress bool) (*passWriter, error) {
	pw := &passWriter{sfid: sfid, end: end, compress: compress}
	n := end - sfid
	pw.files = make([]file.File, n)
	pw.writers = make([]io.Writer, n)
	pw.closers = make([]io.Closer, n)
	pw.checksum = make([]uint64, n)
	for i := 0; i < n; i++ {
		f, err := file.Create(ctx, partitionPath(dir, sfid+i))
		if err != nil {
			return nil, errors.Wrapf(err, "overlap.Partition: create partition %d", sfid+i)
		}
		pw.files[i] = f
		w := f.Writer(ctx)
		if compress {
			sw := snappy.NewBufferedWriter(w)
			pw.writers[i] = sw
			pw.closers[i] = sw
		} else {
			pw.writers[i] = w
		}
	}
	return pw, nil
}

// append writes rows (already normalized, already sorted by Sid within the
// caller's local batch) destined for partition p, and folds their bytes
// into that partition's running checksum.
func (pw *passWriter) append(p int, rows []Record) error {
	rel := p - pw.sfid
	buf := make([]byte, RecordSize)
	pw.mu.Lock()
	defer pw.mu.Unlock()
	for _, r := range rows {
		encodeRecord(buf, r)
		if _, err := pw.writers[rel].Write(buf); err != nil {
			return errors.Wrapf(err, "overlap.Partition: write partition %d", p)
		}
		pw.checksum[rel] ^= farm.Hash64(buf)
	}
	return nil
}

func (pw *passWriter) close(ctx context.Context) error {
	trailer := make([]byte, 8)
	for i := range pw.files {
		if pw.closers[i] != nil {
			if err := pw.closers[i].Close(); err != nil {
				return errors.Wrapf(err, "overlap.Partition: close snappy writer for partition %d", pw.sfid+i)
			}
		} else {
			// Uncompressed: append the per-partition checksum trailer, per
			// SPEC_FULL §3.D ("only when compression is off").
			putUint64(trailer, pw.checksum[i])
			if _, err := pw.writers[i].Write(trailer); err != nil {
				return errors.Wrapf(err, "overlap.Partition: write checksum trailer for partition %d", pw.sfid+i)
			}
		}
		if err := pw.files[i].Close(ctx); err != nil {
			return errors.Wrapf(err, "overlap.Partition: close partition %d", pw.sfid+i)
		}
	}
	return nil
}

func (pw *passWriter) abort() {
	// Best-effort: leave partial files on disk per spec §7 ("Partial output
	// files are left on disk — callers must treat stage completion as
	// atomic by renaming only on success").
}

func putUint64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> uint(8*i))
	}
}

// scanPass performs one pass over srcPath: opts.numWorkers() goroutines each
// claim opts.chunkBytes()-sized, record-aligned byte ranges from the shared
// reader under a read mutex, locally role-expand/normalize/sort records
// whose id falls in [sfid*B, end*B), then append the per-partition slices
// to pw under its write mutex.
func scanPass(ctx context.Context, srcPath string, opts PartitionOpts, sfid, end int, pw *passWriter) error {
	f, err := file.Open(ctx, srcPath)
	if err != nil {
		return errors.Wrapf(err, "overlap.Partition: open %s", srcPath)
	}
	defer f.Close(ctx) // nolint: errcheck

	r := bufio.NewReaderSize(f.Reader(ctx), 1<<20)
	var readMu sync.Mutex
	B := opts.BatchSize
	lo, hi := uint32(sfid)*B, uint32(end)*B
	if n := uint32(opts.NumReads); hi > n {
		hi = n
	}

	chunkRecords := int(opts.chunkBytes() / RecordSize)
	if chunkRecords < 1 {
		chunkRecords = 1
	}

	var wg sync.WaitGroup
	errs := make(chan error, opts.numWorkers())
	for w := 0; w < opts.numWorkers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, RecordSize*chunkRecords)
			for {
				readMu.Lock()
				n, rerr := io.ReadFull(r, buf)
				readMu.Unlock()
				if n > 0 {
					if err := processChunk(buf[:n-n%RecordSize], lo, hi, B, pw); err != nil {
						errs <- err
						return
					}
				}
				if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
					return
				}
				if rerr != nil {
					errs <- errors.Wrapf(rerr, "overlap.Partition: read %s", srcPath)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// processChunk role-expands/normalizes/buckets every record in chunk whose
// qid or sid falls in [lo, hi), then appends each bucket (sorted by Sid) to
// pw.
func processChunk(chunk []byte, lo, hi, batchSize uint32, pw *passWriter) error {
	nrec := len(chunk) / RecordSize
	if nrec == 0 {
		return nil
	}
	buckets := make(map[int][]Record)
	for i := 0; i < nrec; i++ {
		r := decodeRecord(chunk[i*RecordSize:])
		if r.QID >= lo && r.QID < hi {
			norm := normalizeToSubject(r, true)
			p := int(norm.SID / batchSize)
			buckets[p] = append(buckets[p], norm)
		}
		if r.SID >= lo && r.SID < hi {
			norm := normalizeToSubject(r, false)
			p := int(norm.SID / batchSize)
			buckets[p] = append(buckets[p], norm)
		}
	}
	ps := make([]int, 0, len(buckets))
	for p := range buckets {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	for _, p := range ps {
		rows := buckets[p]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].SID < rows[j].SID })
		if err := pw.append(p, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeNpFile(ctx context.Context, dir string, np int, compress bool) error {
	f, err := file.Create(ctx, npPath(dir))
	if err != nil {
		return errors.Wrapf(err, "overlap.Partition: create np file")
	}
	flag := "0"
	if compress {
		flag = "1"
	}
	content := fmt.Sprintf("%d\n%s\n", np, flag)
	if _, err := f.Writer(ctx).Write([]byte(content)); err != nil {
		_ = f.Close(ctx)
		return errors.Wrapf(err, "overlap.Partition: write np file")
	}
	return errors.Wrapf(f.Close(ctx), "overlap.Partition: close np file")
}
