package wsig

import (
	"errors"
	"fmt"

	"github.com/go-audio/riff"
)

var (
	errChunkEncodeNotSupported = errors.New("chunk encode not supported")
	errNilChunk                = errors.New("can't decode a nil chunk")
)

// ChunkHandler is a typed handler for the chunks of a container form.
// Encode is optional and may return errChunkEncodeNotSupported.
type ChunkHandler interface {
	CanHandle(form [4]byte, chunkID [4]byte) bool
	Decode(r *Reader, ch *riff.Chunk) error
	Encode(w *Writer) error
}

// ChunkRegistry resolves chunks to handlers.
type ChunkRegistry struct {
	handlers []ChunkHandler
}

func newDefaultChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		handlers: []ChunkHandler{
			&fmtChunkHandler{},
			&adscChunkHandler{},
			&sdscChunkHandler{},
			&listChunkHandler{},
		},
	}
}

// Register appends a handler to the registry.
func (r *ChunkRegistry) Register(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// Decode dispatches a chunk to the first matching handler.
func (r *ChunkRegistry) Decode(rd *Reader, chnk *riff.Chunk) (bool, error) {
	if r == nil || chnk == nil {
		return false, nil
	}

	for _, handler := range r.handlers {
		if handler.CanHandle(rd.form, chnk.ID) {
			err := handler.Decode(rd, chnk)
			if err != nil {
				return true, fmt.Errorf("chunk %q: %w", chnk.ID[:], err)
			}

			return true, nil
		}
	}

	return false, nil
}

// Encode gives every handler the chance to emit its chunk. Handlers decide
// from the writer state whether their chunk is due.
func (r *ChunkRegistry) Encode(w *Writer) error {
	if r == nil {
		return nil
	}

	for _, handler := range r.handlers {
		err := handler.Encode(w)
		if err == nil || errors.Is(err, errChunkEncodeNotSupported) {
			continue
		}

		return fmt.Errorf("failed to encode chunk with %T: %w", handler, err)
	}

	return nil
}

type fmtChunkHandler struct{}

func (h *fmtChunkHandler) CanHandle(_ [4]byte, chunkID [4]byte) bool {
	return chunkID == riff.FmtID
}

func (h *fmtChunkHandler) Decode(r *Reader, ch *riff.Chunk) error {
	fmtChunk, err := decodeFmtChunk(ch)
	if err != nil {
		return err
	}

	r.fmtChunk = fmtChunk

	return nil
}

// WSIG files are always written with an adsc chunk.
func (h *fmtChunkHandler) Encode(_ *Writer) error {
	return errChunkEncodeNotSupported
}

type adscChunkHandler struct{}

func (h *adscChunkHandler) CanHandle(form [4]byte, chunkID [4]byte) bool {
	return form == WsigFormatID && chunkID == CIDAdsc
}

func (h *adscChunkHandler) Decode(r *Reader, ch *riff.Chunk) error {
	adsc, err := decodeAcquisitionChunk(ch)
	if err != nil {
		return err
	}

	r.adsc = adsc

	return nil
}

func (h *adscChunkHandler) Encode(w *Writer) error {
	if w == nil || w.adscPos > 0 {
		return nil
	}

	pos, err := w.writeStructChunk(CIDAdsc, newAcquisitionChunk(w.params))
	if err != nil {
		return err
	}

	w.adscPos = pos

	return nil
}

type sdscChunkHandler struct{}

func (h *sdscChunkHandler) CanHandle(form [4]byte, chunkID [4]byte) bool {
	return form == WsigFormatID && chunkID == CIDSdsc
}

func (h *sdscChunkHandler) Decode(r *Reader, ch *riff.Chunk) error {
	sdsc, err := decodeSignalChunk(ch)
	if err != nil {
		return err
	}

	r.sdsc = sdsc

	return nil
}

func (h *sdscChunkHandler) Encode(w *Writer) error {
	if w == nil || w.sdscPos > 0 {
		return nil
	}

	pos, err := w.writeStructChunk(CIDSdsc, newSignalChunk(w.params))
	if err != nil {
		return err
	}

	w.sdscPos = pos

	return nil
}

type listChunkHandler struct{}

func (h *listChunkHandler) CanHandle(form [4]byte, chunkID [4]byte) bool {
	return form == WsigFormatID && chunkID == CIDList
}

func (h *listChunkHandler) Decode(r *Reader, ch *riff.Chunk) error {
	return DecodeListChunk(r, ch)
}

// The LIST chunk trails the data chunk.
func (h *listChunkHandler) Encode(w *Writer) error {
	if w == nil || !w.dataFinished || w.wroteList || len(w.params.Metadata) == 0 {
		return nil
	}

	err := w.writeRawChunk(RawChunk{ID: CIDList, Data: encodeListChunk(w.params.Metadata)})
	if err != nil {
		return err
	}

	w.wroteList = true

	return nil
}
