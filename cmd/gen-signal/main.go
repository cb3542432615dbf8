// This tool synthesizes a calibrated WSIG recording holding a sine wave that
// swings between the zero and maximum calibration points.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/cwbudde/wsig"
)

var errBadCalibrationPoint = errors.New("calibration point out of 16-bit range")

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-signal", flag.ContinueOnError)

	output := flagSet.String("output", "signal.oaf", "filename to write to")
	frequency := flagSet.Float64("frequency", 2, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	rate := flagSet.Int("rate", 1000, "acquisition frequency in hertz")
	param := flagSet.String("param", "Oral airflow", "name of the recorded parameter")
	unit := flagSet.String("unit", "dm3/s", "unit of the calibrated values")
	czero := flagSet.Int("czero", 0, "raw value of the physical zero")
	cmax := flagSet.Int("cmax", 2000, "raw value of the calibration maximum")
	valueAtMax := flagSet.Float64("valueatmax", 1, "physical value at -cmax")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	zero, err := int16Flag("czero", *czero)
	if err != nil {
		return err
	}

	top, err := int16Flag("cmax", *cmax)
	if err != nil {
		return err
	}

	log.Printf("generating a %f sec %s signal at %f hz", *length, *param, *frequency)

	w, err := wsig.Create(*output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}
	defer w.Close()

	err = w.SetParams(wsig.WriterParams{
		Channels:    1,
		SampleWidth: 2,
		FrameRate:   *rate,
		ParamName:   *param,
		Unit:        *unit,
		Calibration: wsig.Calibration{Zero: zero, Max: top, ValueAtMax: *valueAtMax},
		Metadata:    []string{"gen-signal", fmt.Sprintf("sine %g Hz", *frequency)},
	})
	if err != nil {
		return err
	}

	numSamples := int(float64(*rate) * *length)
	samples := make([]int16, numSamples)
	span := float64(top) - float64(zero)

	for i := range samples {
		fv := math.Sin(float64(i) / float64(*rate) * *frequency * 2 * math.Pi)
		samples[i] = int16(math.Round(float64(zero) + span*(fv+1)/2))
	}

	if err := w.WriteSamples(samples); err != nil {
		return err
	}

	return w.Close()
}

func int16Flag(name string, v int) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("%w: -%s %d", errBadCalibrationPoint, name, v)
	}

	return int16(v), nil
}
