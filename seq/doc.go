// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package seq implements the packed sequence store (spec §3/§4.A): a
// random-access, 2-bit-per-residue DNA store organized into volumes, with a
// fixed on-disk directory layout (spec §6: <title>.info/.pac/.hdr/.seqinfo).
//
// Most callers want Directory, which resolves a global read id (volume,
// in-volume index) through a volume list and exposes Extract for clipped,
// optionally reverse-complemented residue access.
package seq

import "fmt"

// Base is a 2-bit residue code: A=0, C=1, G=2, T=3. N and ambiguity codes
// map to A (0) on encode, per spec §3.
type Base uint8

const (
	BaseA Base = 0
	BaseC Base = 1
	BaseG Base = 2
	BaseT Base = 3
)

var baseToASCII = [4]byte{'A', 'C', 'G', 'T'}

// ASCII returns the upper-case ASCII letter for b.
func (b Base) ASCII() byte { return baseToASCII[b&3] }

// Complement returns 3-b, the 2-bit complement.
func (b Base) Complement() Base { return 3 - (b & 3) }

var asciiToBase [256]Base

func init() {
	for i := range asciiToBase {
		asciiToBase[i] = BaseA
	}
	asciiToBase['A'], asciiToBase['a'] = BaseA, BaseA
	asciiToBase['C'], asciiToBase['c'] = BaseC, BaseC
	asciiToBase['G'], asciiToBase['g'] = BaseG, BaseG
	asciiToBase['T'], asciiToBase['t'] = BaseT, BaseT
}

// BaseFromASCII maps an ASCII letter to its 2-bit code, folding N and any
// ambiguity code to BaseA.
func BaseFromASCII(c byte) Base { return asciiToBase[c] }

// Strand selects which strand Extract returns residues from.
type Strand uint8

const (
	Fwd Strand = 0
	Rev Strand = 1
)

func (s Strand) String() string {
	if s == Rev {
		return "-"
	}
	return "+"
}

// ReadID is a global read identifier: the concatenation of a volume index
// and an in-volume index, resolved through a Directory's volume list.
type ReadID struct {
	Volume   int32
	InVolume int32
}

func (id ReadID) String() string { return fmt.Sprintf("%d.%d", id.Volume, id.InVolume) }
