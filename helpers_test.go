package wsig

import (
	"bytes"
	"encoding/binary"
	"testing"
)

type testChunk struct {
	id   string
	data []byte
}

// makeContainer assembles a RIFF container, padding odd chunks.
func makeContainer(form string, chunks ...testChunk) []byte {
	body := bytes.NewBuffer(nil)
	body.WriteString(form)

	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(body, binary.LittleEndian, uint32(len(c.data)))
		body.Write(c.data)

		if len(c.data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	out := bytes.NewBuffer(nil)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func leBytes(t *testing.T, v any) []byte {
	t.Helper()

	buf := bytes.NewBuffer(nil)
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		t.Fatalf("encode %T: %v", v, err)
	}

	return buf.Bytes()
}

func adscTestChunk(t *testing.T, channels, bits uint16, freq uint32) testChunk {
	t.Helper()

	return testChunk{id: "adsc", data: leBytes(t, AcquisitionChunk{
		Size:            adscChunkSize,
		NumChannels:     channels,
		AcquisitionFreq: freq,
		BitsPerSample:   bits,
	})}
}

func sdscTestChunk(t *testing.T, param, unit string, freq uint32, cal Calibration) testChunk {
	t.Helper()

	imax, fmax := SplitValueAtMax(cal.ValueAtMax)
	sdsc := SignalChunk{
		Size:       sdscChunkSize,
		SampleFreq: freq,
		CalMax:     cal.Max,
		CalZero:    cal.Zero,
		IntMax:     imax,
		FracMax:    fmax,
	}
	copy(sdsc.ParamName[:], param)
	copy(sdsc.Unit[:], unit)

	return testChunk{id: "sdsc", data: leBytes(t, sdsc)}
}

func fmtTestChunk(tag, channels uint16, rate uint32, bits uint16) testChunk {
	blockAlign := channels * uint16(bytesPerSample(int(bits)))

	data := binary.LittleEndian.AppendUint16(nil, tag)
	data = binary.LittleEndian.AppendUint16(data, channels)
	data = binary.LittleEndian.AppendUint32(data, rate)
	data = binary.LittleEndian.AppendUint32(data, rate*uint32(blockAlign))
	data = binary.LittleEndian.AppendUint16(data, blockAlign)
	data = binary.LittleEndian.AppendUint16(data, bits)

	return testChunk{id: "fmt ", data: data}
}

func dataTestChunk(samples ...int16) testChunk {
	return testChunk{id: "data", data: Int16Bytes(samples)}
}

var (
	scenarioCalibration = Calibration{Zero: 100, Max: 3000, ValueAtMax: 5.0}
	scenarioSamples     = []int16{600, 100, 3000, -200, 0}
)

// scenarioFile is a mono 1 kHz pressure recording of five frames.
func scenarioFile(t *testing.T) []byte {
	t.Helper()

	return makeContainer("WSIG",
		adscTestChunk(t, 1, 16, 1000),
		sdscTestChunk(t, "Intra-oral pressure", "hPa", 1000, scenarioCalibration),
		dataTestChunk(scenarioSamples...),
	)
}
