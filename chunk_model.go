package wsig

import (
	"bytes"
	"fmt"
)

// RawChunk is a chunk kept verbatim because no handler claims its ID, or a
// chunk the writer assembles itself such as the trailing LIST.
type RawChunk struct {
	ID   [4]byte
	Size uint32 // len(Data), without the pad byte
	Data []byte

	// Offset is the stream offset of the payload, zero for chunks that were
	// never read.
	Offset int64
	// Order counts chunks from 1 in container order, data included.
	Order int
	// BeforeData is set for chunks met ahead of the data chunk.
	BeforeData bool
}

// String renders the chunk ID and size, e.g. `"JUNK" 12 bytes`.
func (c RawChunk) String() string {
	return fmt.Sprintf("%q %d bytes", c.ID[:], c.Size)
}

func cloneRawChunks(chunks []RawChunk) []RawChunk {
	if len(chunks) == 0 {
		return nil
	}

	out := make([]RawChunk, 0, len(chunks))
	for _, c := range chunks {
		c.Data = bytes.Clone(c.Data)
		out = append(out, c)
	}

	return out
}
