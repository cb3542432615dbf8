package wsig

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerYieldsChunkBoundaries(t *testing.T) {
	data := makeContainer("WSIG",
		testChunk{id: "JUNK", data: []byte{1, 2, 3}},
		testChunk{id: "abcd", data: []byte{4, 5, 6, 7}},
	)

	s := NewScanner(bytes.NewReader(data), 12, int64(len(data)))

	first, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, [4]byte{'J', 'U', 'N', 'K'}, first.ID)
	assert.Equal(t, uint32(3), first.Size)
	assert.Equal(t, int64(20), first.Offset)
	assert.Equal(t, int64(24), first.End(), "pad byte belongs to no chunk")

	second, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, [4]byte{'a', 'b', 'c', 'd'}, second.ID)
	assert.Equal(t, int64(32), second.Offset)

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF, "scanner must not restart")
}

func TestScannerOpenLimitsPayload(t *testing.T) {
	data := makeContainer("WSIG",
		testChunk{id: "JUNK", data: []byte{1, 2, 3}},
		testChunk{id: "abcd", data: []byte{4, 5, 6, 7}},
	)

	s := NewScanner(bytes.NewReader(data), 12, int64(len(data)))

	var payloads [][]byte

	for chunk, err := range s.All() {
		require.NoError(t, err)

		ch, err := s.Open(chunk)
		require.NoError(t, err)

		payload, err := io.ReadAll(ch)
		require.NoError(t, err)

		payloads = append(payloads, payload)
	}

	assert.Equal(t, [][]byte{{1, 2, 3}, {4, 5, 6, 7}}, payloads)
}

func TestScannerRejectsOversizedChunk(t *testing.T) {
	data := makeContainer("WSIG", testChunk{id: "data", data: []byte{1, 2, 3, 4}})
	binary.LittleEndian.PutUint32(data[16:20], 100)

	s := NewScanner(bytes.NewReader(data), 12, int64(len(data)))

	_, err := s.Next()
	require.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "offset 12")
	assert.Contains(t, err.Error(), `"data"`)

	_, again := s.Next()
	assert.Equal(t, err, again)
}

func TestScannerToleratesMissingFinalPad(t *testing.T) {
	data := makeContainer("WSIG", testChunk{id: "odd ", data: []byte{9}})
	data = data[:len(data)-1]

	s := NewScanner(bytes.NewReader(data), 12, int64(len(data)))

	chunk, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), chunk.Size)

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestScannerIgnoresTrailingBytes(t *testing.T) {
	data := append(makeContainer("WSIG", testChunk{id: "abcd", data: []byte{1, 2}}), 0, 0, 0)

	s := NewScanner(bytes.NewReader(data), 12, int64(len(data)))

	count := 0
	for _, err := range s.All() {
		require.NoError(t, err)

		count++
	}

	assert.Equal(t, 1, count)
}

func TestReadContainerHeader(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		form    [4]byte
		wantErr bool
	}{
		{name: "wsig", in: makeContainer("WSIG"), form: WsigFormatID},
		{name: "wave", in: makeContainer("WAVE"), form: [4]byte{'W', 'A', 'V', 'E'}},
		{name: "bad magic", in: append([]byte("RIFX"), makeContainer("WSIG")[4:]...), wantErr: true},
		{name: "bad form", in: makeContainer("AVI "), wantErr: true},
		{name: "truncated", in: []byte("RIFF\x04"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, size, err := ReadContainerHeader(bytes.NewReader(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrFormat))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.form, form)
			assert.Equal(t, uint32(len(tt.in)-8), size)
		})
	}
}
