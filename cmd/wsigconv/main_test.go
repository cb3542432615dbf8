package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/wsig"
	"github.com/go-audio/aiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecording(t *testing.T, path string, samples []int16) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	w, err := wsig.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.SetParams(wsig.WriterParams{
		Channels:    1,
		SampleWidth: 2,
		FrameRate:   2000,
		ParamName:   "Nasal airflow",
		Unit:        "dm3/s",
		Calibration: wsig.Calibration{Zero: 0, Max: 1000, ValueAtMax: 1},
	}))
	require.NoError(t, w.WriteSamples(samples))
	require.NoError(t, w.Close())
}

func TestRunConvertsTree(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "converted")

	samples := []int16{3, -3, 700}
	writeRecording(t, filepath.Join(in, "a.naf"), samples)
	writeRecording(t, filepath.Join(in, "sub", "b.pr1"), samples)
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip me"), 0o644))

	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-i", in, "-o", out}, &stdout))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.ElementsMatch(t, []string{"a.naf.wav", "b.pr1.wav"}, names)
	assert.Contains(t, stdout.String(), "a.naf.wav")

	r, err := wsig.Open(filepath.Join(out, "b.pr1.wav"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	assert.Equal(t, 2000, r.FrameRate())

	raw, err := r.ReadFrames(-1)
	require.NoError(t, err)
	assert.Equal(t, wsig.Int16Bytes(samples), raw)
}

func TestRunAIFF(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeRecording(t, filepath.Join(in, "c.oaf"), []int16{1, 2})

	require.NoError(t, run([]string{"-i", in, "-o", out, "-format", "aiff", "-v"}, &bytes.Buffer{}))

	f, err := os.Open(filepath.Join(out, "c.oaf.aif"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	buf, err := aiff.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, buf.Data)
}

func TestRunContinuesPastBadFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeRecording(t, filepath.Join(in, "good.int"), []int16{5})
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.int"), []byte("not a recording"), 0o644))

	err := run([]string{"-i", in, "-o", out}, &bytes.Buffer{})
	require.ErrorIs(t, err, errConversion)

	_, err = os.Stat(filepath.Join(out, "good.int.wav"))
	require.NoError(t, err, "good file still converted")
}

func TestRunCustomPattern(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeRecording(t, filepath.Join(in, "x.naf"), []int16{1})
	writeRecording(t, filepath.Join(in, "y.oaf"), []int16{1})

	require.NoError(t, run([]string{"-i", in, "-o", out, "-pattern", `\.oaf$`}, &bytes.Buffer{}))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "y.oaf.wav", entries[0].Name())
}

func TestRunFlagErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"no flags", nil},
		{"missing output", []string{"-i", dir}},
		{"unknown format", []string{"-i", dir, "-o", dir, "-format", "mp3"}},
		{"bad pattern", []string{"-i", dir, "-o", dir, "-pattern", "("}},
		{"unknown flag", []string{"-x"}},
		{"missing input dir", []string{"-i", filepath.Join(dir, "nope"), "-o", dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, run(tt.args, &bytes.Buffer{}))
		})
	}
}
