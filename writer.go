package wsig

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/riff"
)

const sizePlaceholder = uint32(math.MaxUint32)

// WriterParams describes the recording produced by a Writer.
type WriterParams struct {
	Channels    int
	SampleWidth int // bytes per sample, 1 to 4
	FrameRate   int

	// ParamName, Acronym and Unit are stored in fixed 80, 4 and 16 byte
	// fields.
	ParamName string
	Acronym   string
	Unit      string

	Calibration Calibration

	// Metadata entries are written to a LIST chunk after the data.
	Metadata []string

	RecorderCode    uint16
	RecorderVersion uint16
}

func (p WriterParams) validate() error {
	if p.Channels < 1 || p.Channels > math.MaxUint16 {
		return fmt.Errorf("%w: bad # of channels: %d", ErrFormat, p.Channels)
	}

	if p.SampleWidth < 1 || p.SampleWidth > 4 {
		return fmt.Errorf("%w: bad sample width: %d", ErrFormat, p.SampleWidth)
	}

	if p.FrameRate <= 0 {
		return fmt.Errorf("%w: bad frame rate: %d", ErrFormat, p.FrameRate)
	}

	fields := []struct {
		name  string
		value string
		limit int
	}{
		{"parameter name", p.ParamName, 80},
		{"acronym", p.Acronym, 4},
		{"unit", p.Unit, 16},
	}
	for _, f := range fields {
		if len(f.value) > f.limit {
			return fmt.Errorf("%w: %s longer than %d bytes", ErrFormat, f.name, f.limit)
		}
	}

	v := p.Calibration.ValueAtMax
	if math.IsNaN(v) || math.IsInf(v, 0) || v < math.MinInt32 || v >= math.MaxInt32 {
		return fmt.Errorf("%w: value at max %g does not fit the sdsc fields", ErrCalibration, v)
	}

	return p.Calibration.Validate()
}

// Writer encodes raw frames into a WSIG container.
type Writer struct {
	w      io.WriteSeeker
	closer io.Closer
	chunks *ChunkRegistry

	params    WriterParams
	paramsSet bool

	// start is the stream offset of the RIFF header; patch offsets are
	// relative to it.
	start        int64
	WrittenBytes int
	frames       int

	dataSizePos int
	adscPos     int
	sdscPos     int

	sampleMax  int16
	sampleMin  int16
	sawSamples bool

	wroteHeader  bool
	dataFinished bool
	wroteList    bool
	closed       bool
}

// Create creates the named file and returns a Writer owning it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := NewWriter(f)
	w.closer = f

	return w, nil
}

// NewWriter returns a Writer on ws. The recording starts at the current
// position of ws. Close does not close ws.
func NewWriter(ws io.WriteSeeker) *Writer {
	return &Writer{
		w:      ws,
		chunks: newDefaultChunkRegistry(),
	}
}

// SetParams configures the recording. It must be called before the first
// frame is written.
func (w *Writer) SetParams(p WriterParams) error {
	if w.closed {
		return ErrClosed
	}

	if w.wroteHeader {
		return fmt.Errorf("%w: cannot change parameters after starting to write", ErrUnsupported)
	}

	if err := p.validate(); err != nil {
		return err
	}

	p.Metadata = append([]string(nil), p.Metadata...)
	w.params = p
	w.paramsSet = true

	return nil
}

// WriteFrames appends raw interleaved little-endian frames.
func (w *Writer) WriteFrames(data []byte) error {
	if w.closed {
		return ErrClosed
	}

	if !w.paramsSet {
		return fmt.Errorf("%w: parameters not set", ErrFormat)
	}

	frameSize := w.params.Channels * w.params.SampleWidth
	if len(data)%frameSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of %d byte frames", ErrFormat, len(data), frameSize)
	}

	if !w.wroteHeader {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}

	if w.params.SampleWidth == 2 {
		w.trackRange(data)
	}

	n, err := w.w.Write(data)
	w.WrittenBytes += n

	if err != nil {
		return fmt.Errorf("failed to write frames: %w", err)
	}

	w.frames += len(data) / frameSize

	return nil
}

// WriteSamples appends 16-bit samples. The writer must use 2 byte samples.
func (w *Writer) WriteSamples(samples []int16) error {
	if w.paramsSet && w.params.SampleWidth != 2 {
		return fmt.Errorf("%w: writer uses %d byte samples", ErrFormat, w.params.SampleWidth)
	}

	return w.WriteFrames(Int16Bytes(samples))
}

func (w *Writer) trackRange(data []byte) {
	for i := 0; i+1 < len(data); i += 2 {
		v := int16(binary.LittleEndian.Uint16(data[i:]))

		if !w.sawSamples {
			w.sampleMax, w.sampleMin, w.sawSamples = v, v, true
			continue
		}

		w.sampleMax = max(w.sampleMax, v)
		w.sampleMin = min(w.sampleMin, v)
	}
}

func (w *Writer) addLE(src any) error {
	w.WrittenBytes += binary.Size(src)

	err := binary.Write(w.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}

	w.wroteHeader = true

	if w.w == nil {
		return fmt.Errorf("%w: can't write to a nil writer", ErrFormat)
	}

	start, err := w.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to get stream position: %w", err)
	}

	w.start = start

	err = w.addLE(riff.RiffID)
	if err != nil {
		return err
	}
	// file size, patched on close
	err = w.addLE(sizePlaceholder)
	if err != nil {
		return err
	}

	err = w.addLE(WsigFormatID)
	if err != nil {
		return err
	}

	// adsc and sdsc
	if err := w.chunks.Encode(w); err != nil {
		return err
	}

	err = w.addLE(riff.DataFormatID)
	if err != nil {
		return fmt.Errorf("error encoding data chunk id %w", err)
	}

	w.dataSizePos = w.WrittenBytes

	err = w.addLE(sizePlaceholder)
	if err != nil {
		return fmt.Errorf("%w when writing data chunk size header", err)
	}

	return nil
}

// writeStructChunk writes a fixed layout chunk and returns the offset of its
// payload.
func (w *Writer) writeStructChunk(id [4]byte, payload any) (int, error) {
	err := w.addLE(id)
	if err != nil {
		return 0, fmt.Errorf("failed to write chunk id %q: %w", id[:], err)
	}

	err = w.addLE(uint32(binary.Size(payload)))
	if err != nil {
		return 0, fmt.Errorf("failed to write chunk size %q: %w", id[:], err)
	}

	pos := w.WrittenBytes

	err = w.addLE(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to write chunk payload %q: %w", id[:], err)
	}

	return pos, nil
}

func (w *Writer) writeRawChunk(chunk RawChunk) error {
	size := uint32(len(chunk.Data))

	err := w.addLE(chunk.ID)
	if err != nil {
		return fmt.Errorf("failed to write raw chunk id %q: %w", chunk.ID[:], err)
	}

	err = w.addLE(size)
	if err != nil {
		return fmt.Errorf("failed to write raw chunk size %q: %w", chunk.ID[:], err)
	}

	if len(chunk.Data) > 0 {
		n, err := w.w.Write(chunk.Data)
		w.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write raw chunk payload %q: %w", chunk.ID[:], err)
		}
	}

	if size%2 == 1 {
		n, err := w.w.Write([]byte{0})
		w.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write raw chunk padding %q: %w", chunk.ID[:], err)
		}
	}

	return nil
}

func (w *Writer) patchLE(pos int, v any) error {
	if _, err := w.w.Seek(w.start+int64(pos), io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to offset %d: %w", pos, err)
	}

	if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("failed to patch offset %d: %w", pos, err)
	}

	return nil
}

// Close finishes the data chunk, appends the metadata and patches every size
// and sample count. The file created by Create is closed; a stream passed to
// NewWriter is not. Close is idempotent.
func (w *Writer) Close() error {
	if w == nil || w.closed {
		return nil
	}

	err := w.finish()
	w.closed = true

	if w.closer != nil {
		cerr := w.closer.Close()
		w.closer = nil

		if err == nil && cerr != nil {
			err = fmt.Errorf("failed to close the underlying file: %w", cerr)
		}
	}

	return err
}

func (w *Writer) finish() error {
	if !w.paramsSet {
		return fmt.Errorf("%w: parameters not set", ErrFormat)
	}

	if !w.wroteHeader {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}

	dataSize := w.frames * w.params.Channels * w.params.SampleWidth
	if dataSize%2 == 1 {
		n, err := w.w.Write([]byte{0})
		w.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write data chunk padding: %w", err)
		}
	}

	w.dataFinished = true

	// LIST
	if err := w.chunks.Encode(w); err != nil {
		return err
	}

	numSamples := uint32(w.frames * w.params.Channels)
	patches := []struct {
		pos int
		v   any
	}{
		{4, uint32(w.WrittenBytes - 8)},
		{w.dataSizePos, uint32(dataSize)},
		{w.adscPos + adscNumSamplesOffset, numSamples},
		{w.adscPos + adscHighestOffset, [2]int32{int32(w.sampleMax), int32(w.sampleMin)}},
		{w.sdscPos + sdscNumSamplesOffset, numSamples},
		{w.sdscPos + sdscSignalMaxOffset, [2]int16{w.sampleMax, w.sampleMin}},
	}

	for _, p := range patches {
		if err := w.patchLE(p.pos, p.v); err != nil {
			return err
		}
	}

	if _, err := w.w.Seek(w.start+int64(w.WrittenBytes), io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to end of file: %w", err)
	}

	if f, ok := w.w.(*os.File); ok {
		return f.Sync()
	}

	return nil
}
