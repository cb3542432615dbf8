package wsig

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/riff"
)

// Header holds the format fields parsed when a Reader is opened.
type Header struct {
	// Form is the RIFF form type, WSIG or WAVE.
	Form            [4]byte
	Channels        int
	SampleWidth     int // bytes per sample
	FrameRate       int
	FrameCount      int
	CompressionType string
	CompressionName string
	ParamName       string
	Unit            string
}

// FrameSize returns the number of bytes of one frame.
func (h Header) FrameSize() int {
	return h.Channels * h.SampleWidth
}

// Pos is a frame position produced by Reader.Tell or Reader.PosAt.
type Pos struct {
	frame     int
	frameSize int
}

// Frame returns the zero-based frame index.
func (p Pos) Frame() int {
	return p.frame
}

// Marker is a named position. WSIG files carry none.
type Marker struct {
	ID   int
	Pos  Pos
	Name string
}

// Reader reads the header and frames of a WSIG or WAVE file.
//
// After Close every method with an error result fails with ErrClosed. The
// accessors without one (Channels, FrameRate, Calibration, Metadata, ...)
// return their zero value instead.
type Reader struct {
	r      io.ReadSeeker
	closer io.Closer
	chunks *ChunkRegistry

	form          [4]byte
	fmtChunk      *FmtChunk
	adsc          *AcquisitionChunk
	sdsc          *SignalChunk
	metadata      []string
	unknownChunks []RawChunk
	dataChunk     *Chunk

	header Header
	cal    Calibration

	cursor int
	closed bool
}

// Open opens the named file for reading. The returned Reader owns the file
// and closes it on Close.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.closer = f

	return r, nil
}

// NewReader parses the container starting at the current position of rs.
// The caller keeps ownership of rs; Close never closes it.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	return newReader(rs)
}

func newReader(rs io.ReadSeeker) (*Reader, error) {
	if rs == nil {
		return nil, fmt.Errorf("%w: nil stream", ErrFormat)
	}

	r := &Reader{
		r:      rs,
		chunks: newDefaultChunkRegistry(),
	}

	if err := r.readHeaders(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reader) readHeaders() error {
	start, err := r.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("failed to get stream position: %w", err)
	}

	streamEnd, err := r.r.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("failed to get stream size: %w", err)
	}

	if _, err := r.r.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek back to the start: %w", err)
	}

	form, size, err := ReadContainerHeader(r.r)
	if err != nil {
		return err
	}

	r.form = form

	// The declared size may be a placeholder left by an interrupted writer.
	end := min(start+chunkHeaderSize+int64(size), streamEnd)
	scanner := NewScanner(r.r, start+12, end)

	order := 0
	for chunk, err := range scanner.All() {
		if err != nil {
			return err
		}

		order++

		if chunk.ID == riff.DataFormatID {
			if r.dataChunk == nil {
				c := chunk
				r.dataChunk = &c
			}

			continue
		}

		ch, err := scanner.Open(chunk)
		if err != nil {
			return err
		}

		handled, err := r.chunks.Decode(r, ch)
		if err != nil {
			return err
		}

		if !handled {
			if err := r.captureUnknownChunk(ch, chunk.Offset, order); err != nil {
				return err
			}
		}
	}

	return r.buildHeader()
}

func (r *Reader) captureUnknownChunk(chunk *riff.Chunk, offset int64, order int) error {
	data, err := io.ReadAll(chunk)
	if err != nil {
		return fmt.Errorf("failed to read unknown chunk %q: %w", chunk.ID[:], err)
	}

	r.unknownChunks = append(r.unknownChunks, RawChunk{
		ID:         chunk.ID,
		Size:       uint32(len(data)),
		Data:       data,
		Offset:     offset,
		Order:      order,
		BeforeData: r.dataChunk == nil,
	})

	return nil
}

func (r *Reader) buildHeader() error {
	var missing []string

	switch r.form {
	case WsigFormatID:
		if r.adsc == nil && r.fmtChunk == nil {
			missing = append(missing, "adsc")
		}

		if r.sdsc == nil {
			missing = append(missing, "sdsc")
		}
	default:
		if r.fmtChunk == nil {
			missing = append(missing, "fmt")
		}
	}

	if r.dataChunk == nil {
		missing = append(missing, "data")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s chunk missing", ErrFormat, strings.Join(missing, ", "))
	}

	h := Header{
		Form:            r.form,
		CompressionType: CompressionNone,
		CompressionName: CompressionNoneName,
	}

	if r.fmtChunk != nil {
		if ct := r.fmtChunk.CompressionType(); ct != CompressionNone {
			return fmt.Errorf("%w: unsupported compression type %s (format tag %d)", ErrFormat, ct, r.fmtChunk.FormatTag)
		}

		h.Channels = int(r.fmtChunk.NumChannels)
		h.SampleWidth = bytesPerSample(int(r.fmtChunk.BitsPerSample))
		h.FrameRate = int(r.fmtChunk.SampleRate)
	}

	if r.adsc != nil {
		h.Channels = int(r.adsc.NumChannels)
		h.SampleWidth = bytesPerSample(int(r.adsc.BitsPerSample))

		if r.adsc.AcquisitionFreq > 0 {
			h.FrameRate = int(r.adsc.AcquisitionFreq)
		}
	}

	if h.SampleWidth == 0 {
		return fmt.Errorf("%w: bad sample width", ErrFormat)
	}

	if h.Channels == 0 {
		return fmt.Errorf("%w: bad # of channels", ErrFormat)
	}

	r.cal = identityCalibration

	if r.sdsc != nil {
		if r.sdsc.SampleFreq > 0 {
			h.FrameRate = int(r.sdsc.SampleFreq)
		}

		h.ParamName = r.sdsc.Name()
		h.Unit = r.sdsc.UnitName()
		r.cal = r.sdsc.Calibration()

		if err := r.cal.Validate(); err != nil {
			return err
		}
	}

	h.FrameCount = int(r.dataChunk.Size) / h.FrameSize()
	r.header = h

	return nil
}

// ReadFrames returns at most n frames of raw interleaved little-endian
// samples and advances the cursor. A negative n reads every remaining frame.
// At the end of the data an empty slice is returned.
func (r *Reader) ReadFrames(n int) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}

	remaining := r.header.FrameCount - r.cursor
	if n < 0 || n > remaining {
		n = remaining
	}

	if n == 0 {
		return []byte{}, nil
	}

	frameSize := r.header.FrameSize()
	offset := r.dataChunk.Offset + int64(r.cursor*frameSize)

	if _, err := r.r.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to frame %d: %w", r.cursor, err)
	}

	buf := make([]byte, n*frameSize)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: data chunk truncated at frame %d", ErrFormat, r.cursor)
		}

		return nil, fmt.Errorf("failed to read frames: %w", err)
	}

	r.cursor += n

	return buf, nil
}

// Rewind moves the cursor back to the first frame.
func (r *Reader) Rewind() error {
	if r.closed {
		return ErrClosed
	}

	r.cursor = 0

	return nil
}

// Tell returns the current cursor position.
func (r *Reader) Tell() (Pos, error) {
	if r.closed {
		return Pos{}, ErrClosed
	}

	return Pos{frame: r.cursor, frameSize: r.header.FrameSize()}, nil
}

// PosAt returns the position of the given frame for this reader. SetPos
// validates the range.
func (r *Reader) PosAt(frame int) Pos {
	return Pos{frame: frame, frameSize: r.header.FrameSize()}
}

// SetPos moves the cursor to a position obtained from Tell or PosAt.
func (r *Reader) SetPos(pos Pos) error {
	if r.closed {
		return ErrClosed
	}

	if pos.frameSize != r.header.FrameSize() {
		return fmt.Errorf("%w: position has frame size %d, reader uses %d", ErrRange, pos.frameSize, r.header.FrameSize())
	}

	if pos.frame < 0 || pos.frame > r.header.FrameCount {
		return fmt.Errorf("%w: frame %d outside [0, %d]", ErrRange, pos.frame, r.header.FrameCount)
	}

	r.cursor = pos.frame

	return nil
}

// Markers returns nil; WSIG files carry no markers.
func (r *Reader) Markers() ([]Marker, error) {
	if r.closed {
		return nil, ErrClosed
	}

	return nil, nil
}

// Mark always fails since markers are not supported.
func (r *Reader) Mark(id int) (Marker, error) {
	if r.closed {
		return Marker{}, ErrClosed
	}

	return Marker{}, fmt.Errorf("%w: no marker %d", ErrUnsupported, id)
}

// Close makes the reader unusable and closes the file opened by Open. A
// stream passed to NewReader is left open. Close is idempotent.
func (r *Reader) Close() error {
	if r == nil || r.closed {
		return nil
	}

	r.closed = true
	r.r = nil

	closer := r.closer
	r.closer = nil

	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close the underlying file: %w", err)
		}
	}

	return nil
}
