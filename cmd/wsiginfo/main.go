// This tool prints the header, calibration and metadata of a WSIG recording.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cwbudde/wsig"
)

const missingPathMessage = "You must pass the path of the recording to inspect"

var errMissingPath = errors.New("missing path argument")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wsiginfo", flag.ContinueOnError)
	flagSet.SetOutput(out)

	numSamples := flagSet.Int("samples", 0, "number of calibrated frames to print")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	r, err := wsig.Open(flagSet.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	p, err := r.Params()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Form: %s\n", r.Form())
	fmt.Fprintf(out, "Parameter: %s\n", p.ParamName)
	fmt.Fprintf(out, "Unit: %s\n", p.Unit)
	fmt.Fprintf(out, "Channels: %d\n", p.Channels)
	fmt.Fprintf(out, "Sample width: %d\n", p.SampleWidth)
	fmt.Fprintf(out, "Frame rate: %d\n", p.FrameRate)
	fmt.Fprintf(out, "Frames: %d\n", p.FrameCount)
	fmt.Fprintf(out, "Duration: %s\n", p.Duration)
	fmt.Fprintf(out, "Compression: %s (%s)\n", p.CompressionType, p.CompressionName)

	if r.Calibrated() {
		fmt.Fprintf(out, "Calibration: zero=%d dynamic=%g value at max=%g\n", p.Zero, p.SignalDynamic, p.ValueAtMax)
	} else {
		fmt.Fprintln(out, "Calibration: none")
	}

	if md := r.Metadata(); len(md) > 0 {
		fmt.Fprintf(out, "Metadata: %s\n", strings.Join(md, " | "))
	}

	for _, c := range r.RawChunks() {
		fmt.Fprintf(out, "Chunk %s at offset %d\n", c, c.Offset)
	}

	if *numSamples <= 0 {
		return nil
	}

	return printValues(out, r, *numSamples)
}

func printValues(out io.Writer, r *wsig.Reader, frames int) error {
	if r.SampleWidth() != 2 {
		fmt.Fprintf(out, "Values: not available for %d byte samples\n", r.SampleWidth())
		return nil
	}

	raw, err := r.ReadFrames(frames)
	if err != nil {
		return err
	}

	samples, err := wsig.Int16Samples(raw)
	if err != nil {
		return err
	}

	values, err := r.Calibration().Apply(samples)
	if err != nil {
		return err
	}

	for ch, v := range wsig.Deinterleave(values, r.Channels()) {
		fmt.Fprintf(out, "Values [%d]: %.4f\n", ch, v)
	}

	return nil
}
