// Package trim implements the two-stage trimming pipeline of spec §4.F/§4.G:
// largest-cover-range (LCR) per template read, followed by subread/
// palindrome detection and clip adjustment (split). Both stages consume the
// overlap records of one sid-group (spec §3 "Partition" — a sid is a
// template read id after overlap.Partition's normalization) and share the
// clipped-range output type, interval.IntervalList (component E), for every
// interval/depth computation they need.
//
// Neither stage has a teacher-repo counterpart (no pack repo performs
// long-read overlap trimming); the algorithms below follow spec §4.F/§4.G
// directly, and the "proportional trim plus 15-bp snap" and "large
// palindrome" details ambiguous in the distilled spec are resolved as
// documented inline and in DESIGN.md, in the spirit of original_source's
// src/app/mecat2trim.
package trim

// ClipRange is the per-read clipped range of spec §3: a half-open
// [Left, Right) region of a read of the given Size deemed trustworthy.
// Left == Right == 0 encodes "discarded".
type ClipRange struct {
	Left, Right, Size int
}

// Discarded reports whether c encodes "discarded" (spec §3 "Clipped range").
func (c ClipRange) Discarded() bool { return c.Left == 0 && c.Right == 0 }
