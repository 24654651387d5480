// Package main implements fsa-split, the subread/palindrome-detection
// trimming stage of spec §4.G / §6 "CLI surface". It reads a clip-range
// table produced by fsa-lcr together with the same overlap.Partition
// output directory, narrows each template's clear range around any
// surviving bad interval, and writes the final clip-range table.
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
	"github.com/galaxybio/fsa/trim"
	"github.com/galaxybio/fsa/worker"
)

var (
	threads     = flag.Int("t", 0, "Worker thread count; 0 = one per partition")
	verbose     = flag.Bool("v", false, "Verbose logging")
	keep        = flag.Bool("k", false, "Keep intermediate per-partition diagnostics")
	minOvlpSize = flag.Int("min-ovlp-size", 500, "Mirrors fsa-lcr's -min-ovlp-size; the split stage's interval merges use zero tolerance and do not read it")
	minSize     = flag.Int("min-size", 2000, "Minimum final clear-range length; shorter reads are discarded")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <overlap-dir> <lcr-ranges-in> <ranges-out>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 3 {
		log.Fatalf("expected 3 positional arguments (overlap-dir, lcr-ranges-in, ranges-out); got '%s'", strings.Join(flag.Args(), " "))
	}
	overlapDir, lcrIn, rangesOut := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	ctx := context.Background()
	lcrRanges, err := trim.ReadRanges(ctx, lcrIn)
	if err != nil {
		log.Fatalf("read %s: %v", lcrIn, err)
	}
	clipMap := make(map[uint32]trim.ClipRange, len(lcrRanges))
	for id, r := range lcrRanges {
		if !r.Discarded() {
			clipMap[uint32(id)] = r
		}
	}

	np, err := overlap.PartitionCount(ctx, overlapDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	opts := trim.SplitOpts{
		MinOvlpSize: interval.PosType(*minOvlpSize),
		MinSize:     *minSize,
	}

	out := trim.NewTable(len(lcrRanges))
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
				lcr := clipMap[sid]
				out.Set(sid, trim.Split(lcr, group, clipMap, opts))
				i = j
			}
			if *verbose {
				log.Printf("fsa-split: partition %d: %d records", p, len(recs))
			}
			return nil
		})
	if err != nil {
		log.Fatalf("split: %v", err)
	}

	if err := trim.WriteRanges(ctx, rangesOut, out.Snapshot()); err != nil {
		log.Fatalf("write %s: %v", rangesOut, err)
	}
	if *keep {
		log.Printf("fsa-split: wrote %s (%d reads)", rangesOut, len(lcrRanges))
	}
}
