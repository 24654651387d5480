package overlap

// Strand markers for Record.QDir/SDir (spec §3 "Overlap / candidate
// record").
const (
	Fwd uint8 = 0
	Rev uint8 = 1
)

// Record is the 12-field overlap/candidate tuple of spec §3: offsets are
// always on the forward strand of their own sequence, even when the
// alignment is to the reverse complement; QDir == SDir has no privileged
// meaning, only their XOR does.
type Record struct {
	QID, SID           uint32
	QOff, QEnd, QSize  uint32
	SOff, SEnd, SSize  uint32
	QDir, SDir         uint8
	IdentityPercent    float32
	Score              int32
}

// RecordSize is the fixed on-disk encoding size of one Record, in bytes.
const RecordSize = 4*8 + 1 + 1 + 4 + 4

// Valid reports whether r satisfies spec §3's Record invariants:
// 0 <= qoff < qend <= qsize, same for s, and both dir flags are FWD/REV.
func (r Record) Valid() bool {
	if !(r.QOff < r.QEnd && r.QEnd <= r.QSize) {
		return false
	}
	if !(r.SOff < r.SEnd && r.SEnd <= r.SSize) {
		return false
	}
	if r.QDir != Fwd && r.QDir != Rev {
		return false
	}
	if r.SDir != Fwd && r.SDir != Rev {
		return false
	}
	return true
}

// normalizeToSubject returns the record with the given target id placed in
// the SID slot, SDir forced to Fwd, and QDir recomputed to preserve the
// pair's relative orientation (QDir xor SDir), per spec §3's "Normalized
// form: sdir = FWD, qdir = FWD xor original_orientation". swap indicates
// whether target was originally in the QID slot (role-swap,
// "change_record_roles") or already in the SID slot (no field swap, just
// a dir-flag normalization).
func normalizeToSubject(r Record, swap bool) Record {
	relOrientation := r.QDir ^ r.SDir
	if !swap {
		return Record{
			QID: r.QID, QOff: r.QOff, QEnd: r.QEnd, QSize: r.QSize, QDir: relOrientation,
			SID: r.SID, SOff: r.SOff, SEnd: r.SEnd, SSize: r.SSize, SDir: Fwd,
			IdentityPercent: r.IdentityPercent, Score: r.Score,
		}
	}
	return Record{
		QID: r.SID, QOff: r.SOff, QEnd: r.SEnd, QSize: r.SSize, QDir: relOrientation,
		SID: r.QID, SOff: r.QOff, SEnd: r.QEnd, SSize: r.QSize, SDir: Fwd,
		IdentityPercent: r.IdentityPercent, Score: r.Score,
	}
}
