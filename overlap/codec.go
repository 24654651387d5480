package overlap

import (
	"encoding/binary"
	"math"
)

// encodeRecord writes r into buf[:RecordSize], little-endian.
func encodeRecord(buf []byte, r Record) {
	binary.LittleEndian.PutUint32(buf[0:4], r.QID)
	binary.LittleEndian.PutUint32(buf[4:8], r.QOff)
	binary.LittleEndian.PutUint32(buf[8:12], r.QEnd)
	binary.LittleEndian.PutUint32(buf[12:16], r.QSize)
	buf[16] = r.QDir
	binary.LittleEndian.PutUint32(buf[17:21], r.SID)
	binary.LittleEndian.PutUint32(buf[21:25], r.SOff)
	binary.LittleEndian.PutUint32(buf[25:29], r.SEnd)
	binary.LittleEndian.PutUint32(buf[29:33], r.SSize)
	buf[33] = r.SDir
	binary.LittleEndian.PutUint32(buf[34:38], math.Float32bits(r.IdentityPercent))
	binary.LittleEndian.PutUint32(buf[38:42], uint32(r.Score))
}

func decodeRecord(buf []byte) Record {
	return Record{
		QID:             binary.LittleEndian.Uint32(buf[0:4]),
		QOff:            binary.LittleEndian.Uint32(buf[4:8]),
		QEnd:            binary.LittleEndian.Uint32(buf[8:12]),
		QSize:           binary.LittleEndian.Uint32(buf[12:16]),
		QDir:            buf[16],
		SID:             binary.LittleEndian.Uint32(buf[17:21]),
		SOff:            binary.LittleEndian.Uint32(buf[21:25]),
		SEnd:            binary.LittleEndian.Uint32(buf[25:29]),
		SSize:           binary.LittleEndian.Uint32(buf[29:33]),
		SDir:            buf[33],
		IdentityPercent: math.Float32frombits(binary.LittleEndian.Uint32(buf[34:38])),
		Score:           int32(binary.LittleEndian.Uint32(buf[38:42])),
	}
}
