package wsig

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-audio/riff"
)

// listEntrySep separates the entries of a SESANE LIST chunk once NUL bytes
// are turned into spaces.
const listEntrySep = "   "

var errListNilReader = fmt.Errorf("%w: nil reader", ErrWsig)

// DecodeListChunk decodes the recording instrument metadata of a WSIG LIST
// chunk into r's metadata.
func DecodeListChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errListNilReader
	}

	buf := make([]byte, ch.Size)

	n, err := io.ReadFull(ch, buf)
	if err != nil {
		return fmt.Errorf("failed to read the LIST chunk - %w", err)
	}

	r.metadata = parseListEntries(buf[:n])

	return nil
}

func parseListEntries(b []byte) []string {
	text := string(bytes.ReplaceAll(b, []byte{0}, []byte{' '}))

	var entries []string

	for _, field := range strings.Split(text, listEntrySep) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		entries = append(entries, field)
	}

	return entries
}

func encodeListChunk(entries []string) []byte {
	buf := bytes.NewBuffer(nil)

	for i, entry := range entries {
		if i > 0 {
			buf.WriteString("\x00\x00\x00")
		}

		buf.WriteString(entry)
	}

	buf.WriteByte(0)

	return buf.Bytes()
}
