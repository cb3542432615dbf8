// Package wsig reads and writes SESANE/EVA2 WSIG signal recordings.
//
// A WSIG file is a RIFF container whose form type is "WSIG" instead of
// "WAVE". Besides the interleaved PCM data chunk it carries an acquisition
// description (adsc) and a signal description (sdsc) holding the measured
// parameter name, its physical unit and the calibration triple used to turn
// raw 16-bit samples into physical values:
//
//	value = (raw - czero) * (valueatmax / (cmax - czero))
//
// Plain RIFF/WAVE PCM files are accepted by the Reader as well; they carry
// no calibration and report the identity transform.
//
// The Reader exposes a frame cursor (ReadFrames, Tell, SetPos, Rewind), the
// Writer produces files the Reader consumes byte for byte, and the exporter
// writes raw samples to uncalibrated WAVE or AIFF containers.
package wsig
