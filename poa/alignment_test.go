package poa

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAlignmentsRoundTrip(t *testing.T) {
	recs := []AlignmentRecord{
		{
			TemplateID: 7,
			QueryID:    42,
			TStart:     100,
			Weight:     1.5,
			QBases:     []uint8{0, 1, 2, 3, GapBase},
			TGap:       []bool{false, false, true, false, false},
		},
		{
			TemplateID: 7,
			QueryID:    43,
			TStart:     0,
			Weight:     1.0,
			QBases:     []uint8{3, 3, 3},
			TGap:       []bool{false, false, false},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeAlignments(&buf, recs))

	got, err := DecodeAlignments(&buf)
	require.NoError(t, err)
	require.Equal(t, recs, got)
}

func TestDecodeAlignmentsEmptyStream(t *testing.T) {
	got, err := DecodeAlignments(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Empty(t, got)
}
