// Package main implements fsa-trim, the "apply clear ranges to emit
// trimmed FASTA" stage of spec §6 "CLI surface". It reads the final
// clip-range table (fsa-split's output) and the packed sequence directory,
// and writes one FASTA record per surviving (non-discarded) read: the
// residues in [Left, Right), named by the read's original name.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/galaxybio/fsa/seq"
	"github.com/galaxybio/fsa/trim"
	"github.com/galaxybio/fsa/worker"
)

var (
	threads   = flag.Int("t", 0, "Worker thread count; 0 = runtime default (8)")
	verbose   = flag.Bool("v", false, "Verbose logging")
	keep      = flag.Bool("k", false, "Keep intermediate per-batch diagnostics")
	batchSize = flag.Int("batch-size", 10000, "Reads per dispatch batch")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <seq-dir> <title> <ranges-in> <fasta-out>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 4 {
		log.Fatalf("expected 4 positional arguments (seq-dir, title, ranges-in, fasta-out); got '%s'", strings.Join(flag.Args(), " "))
	}
	seqDir, title, rangesIn, fastaOut := flag.Arg(0), flag.Arg(1), flag.Arg(2), flag.Arg(3)

	ctx := context.Background()
	d, err := seq.Open(ctx, seqDir, title, true)
	if err != nil {
		log.Fatalf("open %s/%s: %v", seqDir, title, err)
	}
	defer d.Close() // nolint: errcheck

	ranges, err := trim.ReadRanges(ctx, rangesIn)
	if err != nil {
		log.Fatalf("read %s: %v", rangesIn, err)
	}
	if len(ranges) != d.NumSeqs() {
		log.Fatalf("%s has %d entries but %s/%s has %d reads", rangesIn, len(ranges), seqDir, title, d.NumSeqs())
	}

	ids := make([]uint32, len(ranges))
	for i := range ids {
		ids[i] = uint32(i)
	}
	batches := worker.Batches(ids, *batchSize)

	nWorkers := *threads
	if nWorkers <= 0 {
		nWorkers = 8
	}
	if nWorkers > len(batches) && len(batches) > 0 {
		nWorkers = len(batches)
	}

	out := &worker.OutputBuffer{}
	gi := seq.NewGlobalIndex(d)
	err = worker.Run(nWorkers, len(batches), func(int) struct{} { return struct{}{} },
		func(_ struct{}, bi int) error {
			var chunk []byte
			for _, flat := range batches[bi] {
				r := ranges[flat]
				if r.Discarded() {
					continue
				}
				id := gi.ReadIDFromFlat(int(flat))
				bases, err := d.Extract(id, r.Left, r.Right, seq.Fwd)
				if err != nil {
					return err
				}
				chunk = append(chunk, '>')
				chunk = append(chunk, d.IDToName(id)...)
				chunk = append(chunk, '\n')
				chunk = append(chunk, seq.ResiduesToASCII(bases)...)
				chunk = append(chunk, '\n')
			}
			out.Append(chunk)
			if *verbose {
				log.Printf("fsa-trim: batch %d: %d reads", bi, len(batches[bi]))
			}
			return nil
		})
	if err != nil {
		log.Fatalf("trim: %v", err)
	}

	f, err := file.Create(ctx, fastaOut)
	if err != nil {
		log.Fatalf("create %s: %v", fastaOut, err)
	}
	if _, err := f.Writer(ctx).Write(out.Flush()); err != nil {
		_ = f.Close(ctx)
		log.Fatalf("write %s: %v", fastaOut, err)
	}
	if err := f.Close(ctx); err != nil {
		log.Fatalf("close %s: %v", fastaOut, err)
	}
	if *keep {
		log.Printf("fsa-trim: wrote %s", fastaOut)
	}
}
