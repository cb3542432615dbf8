package wsig

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/go-audio/riff"
)

const chunkHeaderSize = 8

// Chunk describes one tagged chunk located by a Scanner.
type Chunk struct {
	ID [4]byte
	// Size is the declared payload size, not including the pad byte.
	Size uint32
	// Offset is the absolute stream offset of the first payload byte.
	Offset int64
}

// End returns the offset just past the payload and its pad byte.
func (c Chunk) End() int64 {
	end := c.Offset + int64(c.Size)
	if c.Size%2 == 1 {
		end++
	}

	return end
}

// Scanner walks the chunk headers of a RIFF stream between two offsets.
// It never interprets payloads and cannot be restarted once exhausted.
type Scanner struct {
	r      io.ReadSeeker
	parser *riff.Parser
	pos    int64
	end    int64
	err    error
}

// NewScanner returns a scanner yielding the chunks located in [start, end).
func NewScanner(r io.ReadSeeker, start, end int64) *Scanner {
	return &Scanner{
		r:      r,
		parser: riff.New(r),
		pos:    start,
		end:    end,
	}
}

// Next returns the next chunk or io.EOF once fewer than a chunk header's
// worth of bytes remain.
func (s *Scanner) Next() (Chunk, error) {
	if s.err != nil {
		return Chunk{}, s.err
	}

	if s.end-s.pos < chunkHeaderSize {
		s.err = io.EOF
		return Chunk{}, s.err
	}

	if _, err := s.r.Seek(s.pos, io.SeekStart); err != nil {
		s.err = fmt.Errorf("failed to seek to chunk header at offset %d: %w", s.pos, err)
		return Chunk{}, s.err
	}

	id, size, err := s.parser.IDnSize()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.err = fmt.Errorf("%w: truncated chunk header at offset %d", ErrFormat, s.pos)
		} else {
			s.err = fmt.Errorf("error reading chunk header at offset %d - %w", s.pos, err)
		}

		return Chunk{}, s.err
	}

	chunk := Chunk{ID: id, Size: size, Offset: s.pos + chunkHeaderSize}
	if remaining := s.end - chunk.Offset; int64(size) > remaining {
		s.err = fmt.Errorf("%w: chunk %q at offset %d declares %d bytes but only %d remain",
			ErrFormat, id[:], s.pos, size, remaining)

		return Chunk{}, s.err
	}

	// A missing pad byte after the last chunk is tolerated.
	s.pos = min(chunk.End(), s.end)

	return chunk, nil
}

// All yields every remaining chunk. Iteration stops after the first error,
// which is yielded; exhaustion is not reported as an error.
func (s *Scanner) All() iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		for {
			chunk, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(chunk, err) || err != nil {
				return
			}
		}
	}
}

// Open positions the underlying stream on the chunk payload and returns a
// reader limited to it. Opening a chunk moves the stream; the scanner seeks
// back on its next call.
func (s *Scanner) Open(c Chunk) (*riff.Chunk, error) {
	if _, err := s.r.Seek(c.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to chunk %q payload: %w", c.ID[:], err)
	}

	return &riff.Chunk{
		ID:   c.ID,
		Size: int(c.Size),
		R:    io.LimitReader(s.r, int64(c.Size)),
	}, nil
}

// ReadContainerHeader reads the 12 byte RIFF header and returns the form
// type and the declared container size.
func ReadContainerHeader(r io.Reader) ([4]byte, uint32, error) {
	parser := riff.New(r)

	if err := parser.ParseHeaders(); err != nil {
		return parser.Format, 0, fmt.Errorf("%w: bad container header: %w", ErrFormat, err)
	}

	if parser.Format != WsigFormatID && parser.Format != riff.WavFormatID {
		return parser.Format, 0, fmt.Errorf("%w: not a SESANE or WAVE file (%q)", ErrFormat, parser.Format[:])
	}

	return parser.Format, parser.Size, nil
}
