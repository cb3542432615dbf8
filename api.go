package wsig

import "time"

// Params aggregates the header and calibration of a recording. The field
// order is fixed.
type Params struct {
	Channels        int
	SampleWidth     int
	FrameRate       int
	FrameCount      int
	CompressionType string
	CompressionName string
	Duration        time.Duration
	ParamName       string
	Unit            string
	SignalDynamic   float64
	ValueAtMax      float64
	Zero            int16
}

// Params returns every header and calibration field in one record.
func (r *Reader) Params() (Params, error) {
	if r.closed {
		return Params{}, ErrClosed
	}

	return Params{
		Channels:        r.header.Channels,
		SampleWidth:     r.header.SampleWidth,
		FrameRate:       r.header.FrameRate,
		FrameCount:      r.header.FrameCount,
		CompressionType: r.header.CompressionType,
		CompressionName: r.header.CompressionName,
		Duration:        r.Duration(),
		ParamName:       r.header.ParamName,
		Unit:            r.header.Unit,
		SignalDynamic:   r.cal.SignalDynamic(),
		ValueAtMax:      r.cal.ValueAtMax,
		Zero:            r.cal.Zero,
	}, nil
}

// Header returns a copy of the parsed header.
func (r *Reader) Header() Header {
	if r.closed {
		return Header{}
	}

	return r.header
}

// Calibration returns the calibration of the recording. Files without a
// signal description report the identity calibration.
func (r *Reader) Calibration() Calibration {
	if r.closed {
		return Calibration{}
	}

	return r.cal
}

// Calibrated reports whether the file carries a signal description.
func (r *Reader) Calibrated() bool {
	return !r.closed && r.sdsc != nil
}

// Form returns the RIFF form type.
func (r *Reader) Form() [4]byte {
	return r.Header().Form
}

func (r *Reader) Channels() int {
	return r.Header().Channels
}

func (r *Reader) SampleWidth() int {
	return r.Header().SampleWidth
}

func (r *Reader) FrameRate() int {
	return r.Header().FrameRate
}

func (r *Reader) FrameCount() int {
	return r.Header().FrameCount
}

func (r *Reader) CompressionType() string {
	return r.Header().CompressionType
}

func (r *Reader) CompressionName() string {
	return r.Header().CompressionName
}

// ParamName returns the name of the measured quantity.
func (r *Reader) ParamName() string {
	return r.Header().ParamName
}

// Unit returns the physical unit of calibrated values.
func (r *Reader) Unit() string {
	return r.Header().Unit
}

// Zero returns czero.
func (r *Reader) Zero() int16 {
	return r.Calibration().Zero
}

func (r *Reader) ValueAtMax() float64 {
	return r.Calibration().ValueAtMax
}

func (r *Reader) SignalDynamic() float64 {
	return r.Calibration().SignalDynamic()
}

// Duration returns FrameCount / FrameRate.
func (r *Reader) Duration() time.Duration {
	h := r.Header()

	return durationFromFrames(h.FrameCount, h.FrameRate)
}

// Metadata returns the entries of the LIST chunk, if any.
func (r *Reader) Metadata() []string {
	if r.closed || len(r.metadata) == 0 {
		return nil
	}

	return append([]string(nil), r.metadata...)
}

// FormatChunk returns a copy of the parsed fmt chunk, if available.
func (r *Reader) FormatChunk() *FmtChunk {
	if r.closed {
		return nil
	}

	return r.fmtChunk.Clone()
}

// AcquisitionChunk returns a copy of the parsed adsc chunk, if available.
func (r *Reader) AcquisitionChunk() *AcquisitionChunk {
	if r.closed || r.adsc == nil {
		return nil
	}

	out := *r.adsc

	return &out
}

// SignalChunk returns a copy of the parsed sdsc chunk, if available.
func (r *Reader) SignalChunk() *SignalChunk {
	if r.closed || r.sdsc == nil {
		return nil
	}

	out := *r.sdsc

	return &out
}

// RawChunks returns a copy of the chunks no handler recognised.
func (r *Reader) RawChunks() []RawChunk {
	if r.closed {
		return nil
	}

	return cloneRawChunks(r.unknownChunks)
}
