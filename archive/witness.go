package archive

import (
	"encoding/binary"
	"fmt"
	"io"
)

// witnessNative and witnessSwapped are the two values the 16-bit endian
// witness of spec §6 can read as; a decoder reading witnessSwapped must
// byte-swap every subsequent 16- and 32-bit integer in the stream.
const (
	witnessNative  uint16 = 0x55AA
	witnessSwapped uint16 = 0xAA55
)

func writeWitness(w io.Writer) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], witnessNative)
	_, err := w.Write(buf[:])
	return err
}

// readWitness reads the endian witness and reports whether the rest of
// the stream's multi-byte integers need byte-swapping.
func readWitness(r io.Reader) (swap bool, err error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	switch binary.LittleEndian.Uint16(buf[:]) {
	case witnessNative:
		return false, nil
	case witnessSwapped:
		return true, nil
	default:
		return false, fmt.Errorf("archive: bad endian witness %#x", buf)
	}
}

func writeInt32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func readInt32(r io.Reader, swap bool) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	if swap {
		buf[0], buf[3] = buf[3], buf[0]
		buf[1], buf[2] = buf[2], buf[1]
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint16(r io.Reader, swap bool) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	if swap {
		buf[0], buf[1] = buf[1], buf[0]
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}
