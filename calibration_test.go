package wsig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationValue(t *testing.T) {
	cal := Calibration{Zero: 100, Max: 3000, ValueAtMax: 5.0}

	assert.Equal(t, 2900.0, cal.SignalDynamic())
	assert.InDelta(t, 0.8621, cal.Value(600), 1e-4)
	assert.InDelta(t, 0.0, cal.Value(100), 1e-12)
	assert.InDelta(t, 5.0, cal.Value(3000), 1e-9)
	assert.InDelta(t, -0.5172, cal.Value(-200), 1e-4)
}

func TestCalibrationIsLinear(t *testing.T) {
	raw := []int16{-32768, -1, 0, 1, 600, 32767}
	cal := Calibration{Zero: -40, Max: 1200, ValueAtMax: 2.75}

	base, err := cal.Apply(raw)
	require.NoError(t, err)

	doubled := cal
	doubled.ValueAtMax *= 2

	got, err := doubled.Apply(raw)
	require.NoError(t, err)

	for i := range raw {
		assert.InDelta(t, 2*base[i], got[i], 1e-9, "sample %d", i)
		assert.InDelta(t, cal.Value(raw[i]), base[i], 1e-12, "sample %d", i)
	}
}

func TestCalibrateZeroDynamicFails(t *testing.T) {
	_, err := Calibrate([]int16{1, 2, 3}, 0, 5, 0)
	require.ErrorIs(t, err, ErrCalibration)

	cal := Calibration{Zero: 12, Max: 12, ValueAtMax: 1}
	require.ErrorIs(t, cal.Validate(), ErrCalibration)

	_, err = cal.Apply([]int16{1})
	require.ErrorIs(t, err, ErrCalibration)
}

func TestCalibrateEmpty(t *testing.T) {
	out, err := Calibrate(nil, 0, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInt16Samples(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768}

	raw := Int16Bytes(samples)
	assert.Equal(t, []byte{0, 0, 1, 0, 0xff, 0xff, 0xff, 0x7f, 0x00, 0x80}, raw)

	got, err := Int16Samples(raw)
	require.NoError(t, err)
	assert.Equal(t, samples, got)

	_, err = Int16Samples([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrFormat)
}

func TestSplitValueAtMax(t *testing.T) {
	tests := []struct {
		in       float64
		wantInt  int32
		wantFrac uint32
	}{
		{5.0, 5, 0},
		{2.5, 2, 500000},
		{0.000001, 0, 1},
		{-2.5, -3, 500000},
		{1.9999999, 2, 0},
	}

	for _, tt := range tests {
		gotInt, gotFrac := SplitValueAtMax(tt.in)
		assert.Equal(t, tt.wantInt, gotInt, "SplitValueAtMax(%v) int", tt.in)
		assert.Equal(t, tt.wantFrac, gotFrac, "SplitValueAtMax(%v) frac", tt.in)

		sdsc := SignalChunk{IntMax: gotInt, FracMax: gotFrac}
		assert.InDelta(t, tt.in, sdsc.Calibration().ValueAtMax, 1e-6)
	}
}

func TestDeinterleave(t *testing.T) {
	got := Deinterleave([]int16{1, 2, 3, 4, 5, 6, 7}, 2)
	assert.Equal(t, [][]int16{{1, 3, 5}, {2, 4, 6}}, got)

	assert.Nil(t, Deinterleave([]float64{1}, 0))
}
