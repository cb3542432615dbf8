package wsig

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const exportBitDepth = 16

// Container selects the audio container written by the exporter.
type Container int

const (
	// ContainerWAVE is a minimal 16-bit PCM RIFF/WAVE file (44 byte header).
	ContainerWAVE Container = iota
	// ContainerAIFF is a 16-bit AIFF file.
	ContainerAIFF
)

// ParseContainer maps a format name such as "wav" or "aiff" to a Container.
func ParseContainer(name string) (Container, error) {
	switch strings.ToLower(name) {
	case "wav", "wave":
		return ContainerWAVE, nil
	case "aif", "aiff":
		return ContainerAIFF, nil
	default:
		return 0, fmt.Errorf("%w: unknown audio container %q", ErrUnsupported, name)
	}
}

func (c Container) String() string {
	switch c {
	case ContainerWAVE:
		return "wav"
	case ContainerAIFF:
		return "aiff"
	default:
		return fmt.Sprintf("Container(%d)", int(c))
	}
}

// Ext returns the file extension, including the dot.
func (c Container) Ext() string {
	if c == ContainerAIFF {
		return ".aif"
	}

	return ".wav"
}

// ToWave writes mono raw samples to an uncalibrated WAVE file.
func ToWave(path string, frameRate int, samples []int16) error {
	format := &audio.Format{NumChannels: 1, SampleRate: frameRate}

	return WriteAudioFile(path, ContainerWAVE, format, samples)
}

// WriteAudioFile creates path and encodes the interleaved samples into it.
func WriteAudioFile(path string, c Container, format *audio.Format, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := EncodeAudio(f, c, format, samples); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}

// EncodeAudio writes interleaved raw samples as a 16-bit mono or stereo
// container. The samples are written as-is; no calibration is embedded.
// Sizes are patched at absolute offsets, so w must be positioned at 0.
func EncodeAudio(w io.WriteSeeker, c Container, format *audio.Format, samples []int16) error {
	if format == nil {
		return fmt.Errorf("%w: nil audio format", ErrFormat)
	}

	if format.NumChannels != 1 && format.NumChannels != 2 {
		return fmt.Errorf("%w: can't export %d channels, want mono or stereo", ErrFormat, format.NumChannels)
	}

	if format.SampleRate <= 0 {
		return fmt.Errorf("%w: bad frame rate: %d", ErrFormat, format.SampleRate)
	}

	if len(samples)%format.NumChannels != 0 {
		return fmt.Errorf("%w: %d samples do not fill %d channel frames", ErrFormat, len(samples), format.NumChannels)
	}

	switch c {
	case ContainerWAVE:
		return encodeWAVE(w, NewIntBuffer(format, samples))
	case ContainerAIFF:
		return encodeAIFF(w, NewIntBuffer(format, samples))
	default:
		return fmt.Errorf("%w: unknown audio container %v", ErrUnsupported, c)
	}
}

// NewIntBuffer wraps 16-bit samples in an audio.IntBuffer.
func NewIntBuffer(format *audio.Format, samples []int16) *audio.IntBuffer {
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v)
	}

	return &audio.IntBuffer{
		Format:         format,
		Data:           data,
		SourceBitDepth: exportBitDepth,
	}
}

func encodeWAVE(w io.WriteSeeker, buf *audio.IntBuffer) error {
	enc := wav.NewEncoder(w, buf.Format.SampleRate, exportBitDepth, buf.Format.NumChannels, wavFormatPCM)

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish wav: %w", err)
	}

	return nil
}

func encodeAIFF(w io.WriteSeeker, buf *audio.IntBuffer) error {
	enc := aiff.NewEncoder(w, buf.Format.SampleRate, exportBitDepth, buf.Format.NumChannels)

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode aiff: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish aiff: %w", err)
	}

	return nil
}
