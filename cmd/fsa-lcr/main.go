// Package main implements fsa-lcr, the largest-cover-range trimming stage
// of spec §4.F / §6 "CLI surface". It reads every partition of a
// overlap.Partition output directory, computes trim.LCR per template read,
// and writes the resulting clip-range table (spec §5's flat,
// read-id-indexed array).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/galaxybio/fsa/interval"
	"github.com/galaxybio/fsa/overlap"
	"github.com/galaxybio/fsa/seq"
	"github.com/galaxybio/fsa/trim"
	"github.com/galaxybio/fsa/worker"
)

var (
	threads     = flag.Int("t", 0, "Worker thread count; 0 = one per partition")
	verbose     = flag.Bool("v", false, "Verbose logging")
	keep        = flag.Bool("k", false, "Keep intermediate per-partition diagnostics")
	minCov      = flag.Int("min-cov", 0, "Minimum overlap depth a region must reach to count toward the cover range; 0 disables the depth filter")
	minOvlpSize = flag.Int("min-ovlp-size", 500, "Merge-gap tolerance for coalescing adjacent overlap intervals")
	minReadSize = flag.Int("min-read-size", 2000, "Minimum surviving clear-range length; shorter reads are discarded")
	maxOverlaps = flag.Int("max-overlaps", 300, "Pre-truncate an oversized overlap set to its top-identity N overlaps")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <seq-dir> <title> <overlap-dir> <ranges-out>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 4 {
		log.Fatalf("expected 4 positional arguments (seq-dir, title, overlap-dir, ranges-out); got '%s'", strings.Join(flag.Args(), " "))
	}
	seqDir, title, overlapDir, rangesOut := flag.Arg(0), flag.Arg(1), flag.Arg(2), flag.Arg(3)

	ctx := context.Background()
	d, err := seq.Open(ctx, seqDir, title, false)
	if err != nil {
		log.Fatalf("open %s/%s: %v", seqDir, title, err)
	}
	defer d.Close() // nolint: errcheck

	np, err := overlap.PartitionCount(ctx, overlapDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	opts := trim.LCROpts{
		MinCov:      int32(*minCov),
		MinOvlpSize: interval.PosType(*minOvlpSize),
		MinReadSize: *minReadSize,
		MaxOverlaps: *maxOverlaps,
	}

	table := trim.NewTable(d.NumSeqs())
	nWorkers := *threads
	if nWorkers <= 0 {
		nWorkers = np
		if nWorkers < 1 {
			nWorkers = 1
		}
	}

	err = worker.Run(nWorkers, np, func(int) struct{} { return struct{}{} },
		func(_ struct{}, p int) error {
			recs, err := overlap.ReadPartition(ctx, overlapDir, p)
			if err != nil {
				return err
			}
			overlap.SortBySID(recs)
			for i := 0; i < len(recs); {
				j := i
				sid := recs[i].SID
				for j < len(recs) && recs[j].SID == sid {
					j++
				}
				group := recs[i:j]
				templateSize := int(group[0].SSize)
				table.Set(sid, trim.LCR(templateSize, group, opts))
				i = j
			}
			if *verbose {
				log.Printf("fsa-lcr: partition %d: %d records", p, len(recs))
			}
			return nil
		})
	if err != nil {
		log.Fatalf("lcr: %v", err)
	}

	if err := trim.WriteRanges(ctx, rangesOut, table.Snapshot()); err != nil {
		log.Fatalf("write %s: %v", rangesOut, err)
	}
	if *keep {
		log.Printf("fsa-lcr: wrote %s (%d reads)", rangesOut, d.NumSeqs())
	}
}
