package archive

import "io"

// writeWellDelta writes well-lwell as a run of 0xFF bytes (255 each)
// followed by a single byte in [0,254] (spec §6 "well-delta"), and
// returns well as the caller's new lwell.
func writeWellDelta(w io.Writer, well, lwell int32) (int32, error) {
	for well-lwell >= 255 {
		if _, err := w.Write([]byte{0xFF}); err != nil {
			return lwell, err
		}
		lwell += 255
	}
	if _, err := w.Write([]byte{byte(well - lwell)}); err != nil {
		return lwell, err
	}
	return well, nil
}

// readWellDelta reads one well-delta (a run of 0xFF bytes followed by a
// terminating byte) and returns the new well value. It returns io.EOF,
// unwrapped, when the stream ends cleanly before the run starts — the
// signal callers use to detect the end of the record list.
func readWellDelta(r io.Reader, lwell int32) (int32, error) {
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		if b[0] != 0xFF {
			return lwell + int32(b[0]), nil
		}
		lwell += 255
	}
}
