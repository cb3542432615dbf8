package wsig

import (
	"fmt"
	"math"

	"github.com/go-audio/riff"
)

const (
	adscChunkSize = 32
	sdscChunkSize = 128

	fracMaxScale = 1e6
)

// AcquisitionChunk is the 32 byte acquisition description (adsc) written by
// the recording program.
type AcquisitionChunk struct {
	Size            uint32
	NumChannels     uint16
	NumSamples      uint32
	AcquisitionFreq uint32
	BitsPerSample   uint16
	Highest         int32
	Lowest          int32
	Zero            int32
	RecorderCode    uint16
	RecorderVersion uint16
}

// SignalChunk is the 128 byte signal description (sdsc). It names the
// measured parameter and holds its calibration.
type SignalChunk struct {
	Size       uint32
	Acronym    [4]byte
	ParamName  [80]byte
	Unit       [16]byte
	NumSamples uint32
	SampleFreq uint32
	SignalMax  int16
	SignalMin  int16
	CalMax     int16
	CalZero    int16
	// IntMax and FracMax encode the physical value at CalMax as
	// IntMax + FracMax/1e6.
	IntMax  int32
	FracMax uint32
}

// Name returns the parameter name without its NUL padding.
func (s *SignalChunk) Name() string {
	return stripNulls(s.ParamName[:])
}

// UnitName returns the physical unit without its NUL padding.
func (s *SignalChunk) UnitName() string {
	return stripNulls(s.Unit[:])
}

// AcronymName returns the short parameter code.
func (s *SignalChunk) AcronymName() string {
	return stripNulls(s.Acronym[:])
}

// Calibration returns the calibration triple described by the chunk.
func (s *SignalChunk) Calibration() Calibration {
	return Calibration{
		Zero:       s.CalZero,
		Max:        s.CalMax,
		ValueAtMax: float64(s.IntMax) + float64(s.FracMax)/fracMaxScale,
	}
}

func decodeAcquisitionChunk(chunk *riff.Chunk) (*AcquisitionChunk, error) {
	if chunk == nil {
		return nil, errNilChunk
	}

	if chunk.Size < adscChunkSize {
		return nil, fmt.Errorf("%w: adsc chunk too short (%d bytes)", ErrFormat, chunk.Size)
	}

	adsc := &AcquisitionChunk{}
	if err := chunk.ReadLE(adsc); err != nil {
		return nil, fmt.Errorf("failed to read adsc chunk: %w", err)
	}

	return adsc, nil
}

func decodeSignalChunk(chunk *riff.Chunk) (*SignalChunk, error) {
	if chunk == nil {
		return nil, errNilChunk
	}

	if chunk.Size < sdscChunkSize {
		return nil, fmt.Errorf("%w: sdsc chunk too short (%d bytes)", ErrFormat, chunk.Size)
	}

	sdsc := &SignalChunk{}
	if err := chunk.ReadLE(sdsc); err != nil {
		return nil, fmt.Errorf("failed to read sdsc chunk: %w", err)
	}

	return sdsc, nil
}

func newSignalChunk(p WriterParams) *SignalChunk {
	imax, fmax := SplitValueAtMax(p.Calibration.ValueAtMax)

	sdsc := &SignalChunk{
		Size:       sdscChunkSize,
		SampleFreq: uint32(p.FrameRate),
		CalMax:     p.Calibration.Max,
		CalZero:    p.Calibration.Zero,
		IntMax:     imax,
		FracMax:    fmax,
	}
	copy(sdsc.Acronym[:], p.Acronym)
	copy(sdsc.ParamName[:], p.ParamName)
	copy(sdsc.Unit[:], p.Unit)

	return sdsc
}

func newAcquisitionChunk(p WriterParams) *AcquisitionChunk {
	return &AcquisitionChunk{
		Size:            adscChunkSize,
		NumChannels:     uint16(p.Channels),
		AcquisitionFreq: uint32(p.FrameRate),
		BitsPerSample:   uint16(p.SampleWidth * 8),
		Zero:            int32(p.Calibration.Zero),
		RecorderCode:    p.RecorderCode,
		RecorderVersion: p.RecorderVersion,
	}
}

// SplitValueAtMax splits v into the integer and millionths parts stored in
// the sdsc chunk. The fractional part is always non-negative, so negative
// values round down in the integer part.
func SplitValueAtMax(v float64) (int32, uint32) {
	ipart := math.Floor(v)
	frac := math.Round((v - ipart) * fracMaxScale)

	if frac >= fracMaxScale {
		ipart++
		frac = 0
	}

	return int32(ipart), uint32(frac)
}

// Payload offsets of the fields the writer patches on close.
const (
	adscNumSamplesOffset = 6
	adscHighestOffset    = 16
	sdscNumSamplesOffset = 104
	sdscSignalMaxOffset  = 112
)
