package wsig

import (
	"encoding/binary"
	"fmt"
)

// Calibration maps raw 16-bit samples to physical values. A single triple
// applies to every channel of a file.
type Calibration struct {
	// Zero is the raw level of a physical zero (czero).
	Zero int16
	// Max is the raw level reached at ValueAtMax (cmax).
	Max int16
	// ValueAtMax is the physical value at Max.
	ValueAtMax float64
}

// identityCalibration is reported for files without a signal description.
var identityCalibration = Calibration{Zero: 0, Max: 1, ValueAtMax: 1}

// SignalDynamic returns the raw span Max - Zero.
func (c Calibration) SignalDynamic() float64 {
	return float64(c.Max) - float64(c.Zero)
}

// Validate rejects a zero signal dynamic.
func (c Calibration) Validate() error {
	if c.SignalDynamic() == 0 {
		return fmt.Errorf("%w: signal dynamic is zero (czero=%d, cmax=%d)", ErrCalibration, c.Zero, c.Max)
	}

	return nil
}

// Value calibrates a single raw sample. The calibration must be valid.
func (c Calibration) Value(raw int16) float64 {
	return (float64(raw) - float64(c.Zero)) * (c.ValueAtMax / c.SignalDynamic())
}

// Apply calibrates interleaved raw samples.
func (c Calibration) Apply(raw []int16) ([]float64, error) {
	return Calibrate(raw, c.Zero, c.ValueAtMax, c.SignalDynamic())
}

// Calibrate computes (raw[i] - zero) * (valueAtMax / signalDynamic) for every
// sample.
func Calibrate(raw []int16, zero int16, valueAtMax, signalDynamic float64) ([]float64, error) {
	if signalDynamic == 0 {
		return nil, fmt.Errorf("%w: signal dynamic is zero", ErrCalibration)
	}

	scale := valueAtMax / signalDynamic
	out := make([]float64, len(raw))

	for i, v := range raw {
		out[i] = (float64(v) - float64(zero)) * scale
	}

	return out, nil
}

// Int16Samples decodes little-endian signed 16-bit samples as returned by
// Reader.ReadFrames on 2-byte wide files.
func Int16Samples(raw []byte) ([]int16, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of 16-bit samples", ErrFormat, len(raw))
	}

	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}

	return out, nil
}

// Int16Bytes encodes samples as little-endian bytes.
func Int16Bytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}

	return out
}

// Deinterleave splits interleaved values into one slice per channel.
// Trailing values that do not fill a frame are dropped.
func Deinterleave[T any](data []T, channels int) [][]T {
	if channels < 1 {
		return nil
	}

	frames := len(data) / channels
	out := make([][]T, channels)

	for ch := range out {
		out[ch] = make([]T, frames)
		for i := range frames {
			out[ch][i] = data[i*channels+ch]
		}
	}

	return out
}
