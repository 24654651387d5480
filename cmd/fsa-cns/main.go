// Package main implements fsa-cns, the consensus stage of spec §4.H/§4.I
// and §6 "CLI surface". For each template read it accumulates the
// AlignTags of every supplied pairwise alignment into a Backbone (§4.H),
// decodes the max-score path through coverage-bounded segments (§4.I), and
// writes the corrected sequence to a .cns.fasta file (§6), following
// §4.J's batch/worker-pool lifecycle: one thread-local Arena per worker,
// reset between templates, never shared.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/galaxybio/fsa/poa"
	"github.com/galaxybio/fsa/seq"
	"github.com/galaxybio/fsa/worker"
)

var (
	threads     = flag.Int("t", 0, "Worker thread count; 0 = runtime default (8)")
	verbose     = flag.Bool("v", false, "Verbose logging")
	keep        = flag.Bool("k", false, "Keep intermediate per-batch diagnostics")
	batchSize   = flag.Int("batch-size", 500, "Templates per dispatch batch (spec §4.J batch_size)")
	minCoverage = flag.Int("min-coverage", 4, "Minimum tag coverage a template position must reach to stay inside a decodable segment (spec §4.I)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <seq-dir> <title> <alignments-in> <out-dir>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "alignments-in is a poa.EncodeAlignments stream keyed by template (global read) id.\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 4 {
		log.Fatalf("expected 4 positional arguments (seq-dir, title, alignments-in, out-dir); got '%s'", strings.Join(flag.Args(), " "))
	}
	seqDir, title, alignIn, outDir := flag.Arg(0), flag.Arg(1), flag.Arg(2), flag.Arg(3)

	ctx := context.Background()
	d, err := seq.Open(ctx, seqDir, title, true)
	if err != nil {
		log.Fatalf("open %s/%s: %v", seqDir, title, err)
	}
	defer d.Close() // nolint: errcheck
	gi := seq.NewGlobalIndex(d)

	af, err := file.Open(ctx, alignIn)
	if err != nil {
		log.Fatalf("open %s: %v", alignIn, err)
	}
	records, err := poa.DecodeAlignments(af.Reader(ctx))
	_ = af.Close(ctx)
	if err != nil {
		log.Fatalf("decode %s: %v", alignIn, err)
	}

	byTemplate := make(map[uint32][]poa.AlignmentRecord)
	for _, r := range records {
		byTemplate[r.TemplateID] = append(byTemplate[r.TemplateID], r)
	}
	templateIDs := make([]uint32, 0, len(byTemplate))
	for id := range byTemplate {
		templateIDs = append(templateIDs, id)
	}
	sort.Slice(templateIDs, func(i, j int) bool { return templateIDs[i] < templateIDs[j] })

	batches := worker.Batches(templateIDs, *batchSize)
	nWorkers := *threads
	if nWorkers <= 0 {
		nWorkers = 8
	}
	if nWorkers > len(batches) && len(batches) > 0 {
		nWorkers = len(batches)
	}

	type scratch struct {
		arena *poa.Arena
	}

	err = worker.Run(nWorkers, len(batches),
		func(int) scratch { return scratch{arena: poa.NewArena()} },
		func(s scratch, bi int) error {
			var out []byte
			for _, tid := range batches[bi] {
				id := gi.ReadIDFromFlat(int(tid))
				templateSize := d.SeqSize(id)

				var tags []poa.AlignTag
				for _, rec := range byTemplate[tid] {
					qBases := make([]seq.Base, len(rec.QBases))
					for i, b := range rec.QBases {
						qBases[i] = seq.Base(b)
					}
					tags = append(tags, poa.WalkAlignment(rec.TStart, qBases, rec.TGap, rec.Weight)...)
				}
				if len(tags) == 0 {
					s.arena.Reset()
					continue
				}

				bb := poa.Build(tags, templateSize, s.arena)
				segs := poa.Segments(bb.Coverage, int32(*minCoverage))

				var corrected []byte
				cnsFrom, cnsTo := templateSize, 0
				for _, seg := range segs {
					bases, from, to, ok := poa.Decode(bb, s.arena, seg.Lo, seg.Hi)
					if !ok {
						continue
					}
					corrected = append(corrected, bases...)
					if from < cnsFrom {
						cnsFrom = from
					}
					if to > cnsTo {
						cnsTo = to
					}
				}
				s.arena.Reset()

				if len(corrected) == 0 {
					continue
				}
				out = append(out, '>')
				out = append(out, []byte(fmt.Sprintf("%d [%d,%d)", tid, cnsFrom, cnsTo))...)
				out = append(out, '\n')
				out = append(out, corrected...)
				out = append(out, '\n')
			}

			if len(out) == 0 {
				return nil
			}
			outPath := fmt.Sprintf("%s/batch-%08d.cns.fasta", outDir, bi)
			wf, err := file.Create(ctx, outPath)
			if err != nil {
				return err
			}
			if _, err := wf.Writer(ctx).Write(out); err != nil {
				_ = wf.Close(ctx)
				return err
			}
			if err := wf.Close(ctx); err != nil {
				return err
			}
			if *verbose {
				log.Printf("fsa-cns: batch %d: %d templates -> %s", bi, len(batches[bi]), outPath)
			}
			return nil
		})
	if err != nil {
		log.Fatalf("cns: %v", err)
	}
	if *keep {
		log.Printf("fsa-cns: wrote %d batches to %s", len(batches), outDir)
	}
}
