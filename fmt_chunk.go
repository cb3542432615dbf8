package wsig

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
)

const (
	wavFormatPCM        = 0x0001
	wavFormatADPCM      = 0x0002
	wavFormatIEEEFloat  = 0x0003
	wavFormatALaw       = 0x0006
	wavFormatMuLaw      = 0x0007
	wavFormatIMAADPCM   = 0x0011
	wavFormatGSM610     = 0x0031
	wavFormatExtensible = 0xFFFE

	fmtChunkBaseSize = 16
)

// FmtChunk stores the parsed fmt chunk, including extensible metadata.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtraData      []byte
	Extensible     *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

func (f *FmtChunk) Clone() *FmtChunk {
	if f == nil {
		return nil
	}

	out := *f

	out.ExtraData = append([]byte(nil), f.ExtraData...)
	if f.Extensible != nil {
		ext := *f.Extensible
		out.Extensible = &ext
	}

	return &out
}

// EffectiveFormatTag resolves the sub-format of extensible fmt chunks.
func (f *FmtChunk) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extensible != nil {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

// CompressionType names the encoding declared by the chunk. Linear PCM is
// reported as CompressionNone.
func (f *FmtChunk) CompressionType() string {
	return compressionTypeName(f.EffectiveFormatTag())
}

func compressionTypeName(tag uint16) string {
	switch tag {
	case wavFormatPCM:
		return CompressionNone
	case wavFormatADPCM:
		return "ADPCM"
	case wavFormatIEEEFloat:
		return "FLOAT"
	case wavFormatALaw:
		return "ALAW"
	case wavFormatMuLaw:
		return "ULAW"
	case wavFormatIMAADPCM:
		return "IMA-ADPCM"
	case wavFormatGSM610:
		return "GSM610"
	default:
		return fmt.Sprintf("0x%04X", tag)
	}
}

func decodeFmtChunk(chunk *riff.Chunk) (*FmtChunk, error) {
	if chunk == nil {
		return nil, errNilChunk
	}

	if chunk.Size < fmtChunkBaseSize {
		return nil, fmt.Errorf("%w: fmt chunk too short (%d bytes)", ErrFormat, chunk.Size)
	}

	fmtChunk := &FmtChunk{}

	err := chunk.ReadLE(&fmtChunk.FormatTag)
	if err != nil {
		return nil, fmt.Errorf("failed to read format tag: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.NumChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample rate: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.AvgBytesPerSec)
	if err != nil {
		return nil, fmt.Errorf("failed to read avg bytes/sec: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BlockAlign)
	if err != nil {
		return nil, fmt.Errorf("failed to read block align: %w", err)
	}

	err = chunk.ReadLE(&fmtChunk.BitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("failed to read bit depth: %w", err)
	}

	if chunk.Size < fmtChunkBaseSize+2 {
		return fmtChunk, nil
	}

	var extraSize uint16

	err = chunk.ReadLE(&extraSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read fmt extension size: %w", err)
	}

	if int(extraSize) > chunk.Size-fmtChunkBaseSize-2 {
		return nil, fmt.Errorf("%w: fmt extension of %d bytes exceeds chunk", ErrFormat, extraSize)
	}

	fmtChunk.ExtraData = make([]byte, extraSize)
	if extraSize > 0 {
		err := chunk.ReadLE(fmtChunk.ExtraData)
		if err != nil {
			return nil, fmt.Errorf("failed to read fmt extension data: %w", err)
		}
	}

	if fmtChunk.FormatTag != wavFormatExtensible || extraSize < 22 {
		return fmtChunk, nil
	}

	ext := &FmtExtensible{}
	ext.ValidBitsPerSample = binary.LittleEndian.Uint16(fmtChunk.ExtraData[0:2])
	ext.ChannelMask = binary.LittleEndian.Uint32(fmtChunk.ExtraData[2:6])
	copy(ext.SubFormat[:], fmtChunk.ExtraData[6:22])
	fmtChunk.Extensible = ext

	return fmtChunk, nil
}
