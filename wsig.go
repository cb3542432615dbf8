package wsig

import (
	"math"
	"time"
)

var (
	// CIDAdsc is the chunk ID of the acquisition description chunk.
	CIDAdsc = [4]byte{'a', 'd', 's', 'c'}
	// CIDSdsc is the chunk ID of the signal description chunk.
	CIDSdsc = [4]byte{'s', 'd', 's', 'c'}
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// WsigFormatID is the RIFF form type of SESANE signal files.
	WsigFormatID = [4]byte{'W', 'S', 'I', 'G'}
)

const (
	// CompressionNone is the only supported compression type.
	CompressionNone = "NONE"
	// CompressionNoneName is the human readable name of CompressionNone.
	CompressionNoneName = "not compressed"
)

// stripNulls drops every NUL byte, the padding convention of sdsc strings.
func stripNulls(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c != 0 {
			out = append(out, c)
		}
	}

	return string(out)
}

func durationFromFrames(frames, frameRate int) time.Duration {
	if frameRate <= 0 {
		return 0
	}

	return time.Duration(math.Round(float64(frames) / float64(frameRate) * float64(time.Second)))
}

func bytesPerSample(bitDepth int) int {
	return (bitDepth + 7) / 8
}
